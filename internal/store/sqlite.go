package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"roster/internal/faults"
	"roster/internal/logging"
	"roster/internal/student"
)

// SQLite stores the roster in a single students table.
type SQLite struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLite, error) {
	logger = logging.NewComponentLogger(logger, "store")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrPersistence, "store", "open", "create database directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, faults.Wrap(faults.ErrPersistence, "store", "open", "open sqlite db", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, faults.Wrap(faults.ErrPersistence, "store", "open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	if err := applyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, faults.Wrap(faults.ErrPersistence, "store", "migrate", "apply migrations", err)
	}

	logger.Debug("sqlite store opened", logging.String(logging.FieldPath, path))
	return &SQLite{db: db, path: path, logger: logger}, nil
}

// Location returns the database path.
func (s *SQLite) Location() string {
	return s.path
}

// Load reads every row in position order. Rows are checked the same way text
// lines are, so a hand-edited database cannot smuggle in invalid records.
func (s *SQLite) Load(ctx context.Context) (LoadReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT student_id, name, mark1, mark2, mark3, exam_mark, position
         FROM students ORDER BY position, student_id`)
	if err != nil {
		return LoadReport{}, s.fail("load", "query students", err)
	}
	defer rows.Close()

	var report LoadReport
	for rows.Next() {
		var (
			rec      student.Student
			position int
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Mark1, &rec.Mark2, &rec.Mark3, &rec.Exam, &position); err != nil {
			return LoadReport{}, s.fail("load", "scan student", err)
		}
		report.accept(position+1, FormatRecord(rec), []string{
			strconv.Itoa(rec.ID),
			rec.Name,
			strconv.Itoa(rec.Mark1),
			strconv.Itoa(rec.Mark2),
			strconv.Itoa(rec.Mark3),
			strconv.Itoa(rec.Exam),
		})
	}
	if err := rows.Err(); err != nil {
		return LoadReport{}, s.fail("load", "iterate students", err)
	}

	report.log(s.logger, s.path)
	return report, nil
}

// Save replaces every row inside one transaction.
func (s *SQLite) Save(ctx context.Context, students []student.Student) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.fail("save", "begin save tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM students`); err != nil {
		return s.fail("save", "clear students", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO students (student_id, name, mark1, mark2, mark3, exam_mark, position)
         VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return s.fail("save", "prepare insert", err)
	}
	defer stmt.Close()

	for i, rec := range students {
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Name, rec.Mark1, rec.Mark2, rec.Mark3, rec.Exam, i); err != nil {
			return s.fail("save", fmt.Sprintf("insert student %d", rec.ID), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return s.fail("save", "commit save tx", err)
	}

	s.logger.Info("saved student records",
		logging.String(logging.FieldPath, s.path),
		logging.Int("count", len(students)),
	)
	return nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) fail(operation, message string, err error) error {
	logging.ErrorWithContext(s.logger, "roster "+operation+" failed",
		"store_"+operation+"_failed",
		logging.String(logging.FieldPath, s.path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the sqlite database file and its permissions"),
	)
	return faults.Wrap(faults.ErrPersistence, "store", operation, message, err)
}
