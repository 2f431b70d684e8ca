package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"roster/internal/config"
	"roster/internal/faults"
	"roster/internal/logging"
	"roster/internal/student"
)

// Store loads and saves the full roster.
type Store interface {
	// Load reads every record. A missing store yields an empty report and a
	// nil error; any other failure yields an empty report and an error
	// wrapping faults.ErrPersistence.
	Load(ctx context.Context) (LoadReport, error)
	// Save replaces the stored roster with students, in slice order.
	Save(ctx context.Context, students []student.Student) error
	// Location describes where the data lives.
	Location() string
	Close() error
}

// LineIssue describes one rejected record.
type LineIssue struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

// LoadReport is the outcome of a load: the accepted records plus every line
// that was skipped and why.
type LoadReport struct {
	Students []student.Student `json:"students"`
	Lines    int               `json:"lines"`
	Skipped  []LineIssue       `json:"skipped,omitempty"`

	seen map[int]int
}

// Partial reports whether any record was rejected.
func (r LoadReport) Partial() bool {
	return len(r.Skipped) > 0
}

// accept parses and validates one record, keeping it or recording why not.
func (r *LoadReport) accept(line int, raw string, fields []string) {
	r.Lines++
	s, err := student.ParseFields(fields)
	if err != nil {
		r.reject(line, raw, err.Error())
		return
	}
	if err := s.Validate(); err != nil {
		r.reject(line, raw, err.Error())
		return
	}
	if r.seen == nil {
		r.seen = make(map[int]int)
	}
	if first, dup := r.seen[s.ID]; dup {
		r.reject(line, raw, "duplicate student ID (first seen on line "+strconv.Itoa(first)+")")
		return
	}
	r.seen[s.ID] = line
	r.Students = append(r.Students, s)
}

func (r *LoadReport) reject(line int, raw, reason string) {
	r.Skipped = append(r.Skipped, LineIssue{Line: line, Raw: raw, Reason: reason})
}

func (r LoadReport) log(logger *slog.Logger, location string) {
	for _, issue := range r.Skipped {
		logging.WarnWithContext(logger, "skipped roster record",
			"store_record_skipped",
			logging.String(logging.FieldPath, location),
			logging.Int("line", issue.Line),
			logging.String("reason", issue.Reason),
			logging.String(logging.FieldErrorHint, "fix or remove the line and reload"),
			logging.String(logging.FieldImpact, "record is not on the roster"),
		)
	}
	logger.Info("loaded student records",
		logging.String(logging.FieldPath, location),
		logging.Int("read", len(r.Students)),
		logging.Int("skipped", len(r.Skipped)),
	)
}

// FormatRecord renders s in the flat file layout, without a newline.
func FormatRecord(s student.Student) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(s.ID))
	b.WriteByte(',')
	b.WriteString(s.Name)
	for _, mark := range []int{s.Mark1, s.Mark2, s.Mark3, s.Exam} {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(mark))
	}
	return b.String()
}

// Open returns the backend selected by cfg.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: store requires config", faults.ErrConfiguration)
	}
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.Storage.SQLitePath, logger)
	case config.BackendText, "":
		return NewTextFile(cfg.Paths.DataFile, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", faults.ErrConfiguration, cfg.Storage.Backend)
	}
}

// Export loads src and writes every accepted record to dst. The report from
// src is returned so callers can surface skipped records.
func Export(ctx context.Context, src, dst Store) (LoadReport, error) {
	report, err := src.Load(ctx)
	if err != nil {
		return LoadReport{}, err
	}
	if err := dst.Save(ctx, report.Students); err != nil {
		return report, err
	}
	return report, nil
}
