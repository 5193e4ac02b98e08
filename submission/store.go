package submission

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/leadrelay/core/config"
	"github.com/m3rciful/leadrelay/core/logger"
	"log/slog"
)

const (
	sqliteSchema = `CREATE TABLE IF NOT EXISTS submissions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	course_interest TEXT NOT NULL
)`
	postgresSchema = `CREATE TABLE IF NOT EXISTS submissions (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	course_interest TEXT NOT NULL
)`
)

// Store persists submissions in the configured database.
type Store struct {
	db     *sqlx.DB
	driver string
}

// NewStore wraps an open connection. driver selects the SQL dialect and
// must be one of the config driver constants.
func NewStore(db *sqlx.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// EnsureSchema creates the submissions table when it does not exist yet.
// It is safe to call on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	schema := sqliteSchema
	if s.driver == coreconfig.DriverPostgres {
		schema = postgresSchema
	}
	start := time.Now()
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		logger.STORE.LogAttrs(ctx, slog.LevelError, "store.schema",
			slog.String("status", "fail"),
			slog.String("driver", s.driver),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return fmt.Errorf("ensure schema: %w", err)
	}
	logger.STORE.LogAttrs(ctx, slog.LevelDebug, "store.schema",
		slog.String("status", "ok"),
		slog.String("driver", s.driver),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return nil
}

// Insert stores one submission and returns its assigned id.
func (s *Store) Insert(ctx context.Context, sub Submission) (int64, error) {
	start := time.Now()
	var (
		id  int64
		err error
	)
	if s.driver == coreconfig.DriverPostgres {
		err = s.db.QueryRowxContext(ctx,
			`INSERT INTO submissions (name, email, phone, course_interest)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			sub.Name, sub.Email, sub.Phone, sub.CourseInterest,
		).Scan(&id)
	} else {
		var res sql.Result
		res, err = s.db.ExecContext(ctx,
			`INSERT INTO submissions (name, email, phone, course_interest)
			 VALUES (?, ?, ?, ?)`,
			sub.Name, sub.Email, sub.Phone, sub.CourseInterest,
		)
		if err == nil {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		logger.STORE.LogAttrs(ctx, slog.LevelError, "store.insert",
			slog.String("status", "fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return 0, fmt.Errorf("insert submission: %w", err)
	}
	logger.STORE.LogAttrs(ctx, slog.LevelInfo, "store.insert",
		slog.String("status", "ok"),
		slog.Int64("submission_id", id),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return id, nil
}

// Count returns the total number of stored submissions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM submissions`); err != nil {
		logger.STORE.LogAttrs(ctx, slog.LevelError, "store.count",
			slog.String("status", "fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return total, nil
}
