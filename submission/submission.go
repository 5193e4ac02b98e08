// Package submission holds the form submission model, the payload parser
// and the persistence layer for received submissions.
package submission

// NotProvided is stored and rendered for any configured field the
// payload did not supply.
const NotProvided = "Not provided"

// Submission is a single stored form submission.
type Submission struct {
	ID             int64  `db:"id"`
	Name           string `db:"name"`
	Email          string `db:"email"`
	Phone          string `db:"phone"`
	CourseInterest string `db:"course_interest"`
}

// Field is one parsed form field in configured order.
type Field struct {
	Key   string
	Value string
}

// FromFields maps parsed fields onto the storage columns positionally:
// the first configured field fills name, the second email, and so on.
// Missing positions are stored as NotProvided.
func FromFields(fields []Field) Submission {
	cols := [4]string{NotProvided, NotProvided, NotProvided, NotProvided}
	for i := 0; i < len(fields) && i < len(cols); i++ {
		cols[i] = fields[i].Value
	}
	return Submission{
		Name:           cols[0],
		Email:          cols[1],
		Phone:          cols[2],
		CourseInterest: cols[3],
	}
}
