package submission

import "testing"

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	if _, err := Decode([]byte("not json at all")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDecodeRejectsNonObject(t *testing.T) {
	for _, raw := range []string{`"hello"`, `[1,2]`, `42`, `null`} {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Fatalf("expected decode error for %s", raw)
		}
	}
}

func TestParseFieldsDefaults(t *testing.T) {
	data, err := Decode([]byte(`{"name":"Jo"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fields := ParseFields(data, []string{"name", "email", "phone", "course_interest"})
	if len(fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(fields))
	}
	if fields[0].Key != "name" || fields[0].Value != "Jo" {
		t.Fatalf("unexpected first field: %+v", fields[0])
	}
	for _, f := range fields[1:] {
		if f.Value != NotProvided {
			t.Fatalf("field %s = %q, expected %q", f.Key, f.Value, NotProvided)
		}
	}
}

func TestParseFieldsDropsUnknownKeys(t *testing.T) {
	data, err := Decode([]byte(`{"name":"Jo","email":"jo@x.io","spam":"yes"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fields := ParseFields(data, []string{"name", "email"})
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	for _, f := range fields {
		if f.Key == "spam" {
			t.Fatal("unknown key leaked through")
		}
	}
}

func TestParseFieldsScalarCoercion(t *testing.T) {
	data, err := Decode([]byte(`{"phone":79001234567,"subscribed":true,"email":null,"extra":{"a":1}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fields := ParseFields(data, []string{"phone", "subscribed", "email", "extra"})
	want := map[string]string{
		"phone":      "79001234567",
		"subscribed": "true",
		"email":      NotProvided,
		"extra":      NotProvided,
	}
	for _, f := range fields {
		if f.Value != want[f.Key] {
			t.Fatalf("field %s = %q, expected %q", f.Key, f.Value, want[f.Key])
		}
	}
}

func TestFromFieldsPositional(t *testing.T) {
	sub := FromFields([]Field{
		{Key: "full_name", Value: "Jo"},
		{Key: "contact", Value: "jo@x.io"},
	})
	if sub.Name != "Jo" || sub.Email != "jo@x.io" {
		t.Fatalf("unexpected mapping: %+v", sub)
	}
	if sub.Phone != NotProvided || sub.CourseInterest != NotProvided {
		t.Fatalf("missing positions not defaulted: %+v", sub)
	}
}
