package store

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"roster/internal/faults"
	"roster/internal/fileutil"
	"roster/internal/logging"
	"roster/internal/student"
)

// TextFile stores the roster as comma-separated lines.
type TextFile struct {
	path   string
	logger *slog.Logger
}

// NewTextFile returns a text backend for path. Nothing is touched on disk
// until Load or Save.
func NewTextFile(path string, logger *slog.Logger) *TextFile {
	return &TextFile{
		path:   path,
		logger: logging.NewComponentLogger(logger, "store"),
	}
}

// Location returns the data file path.
func (t *TextFile) Location() string {
	return t.path
}

// Load reads the file line by line. Blank lines are ignored; every other line
// must split into exactly six trimmed fields that parse and validate. A line
// longer than MaxLineBytes is skipped like any other bad record.
func (t *TextFile) Load(ctx context.Context) (LoadReport, error) {
	file, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			t.logger.Info("roster file not found; starting empty", logging.String(logging.FieldPath, t.path))
			return LoadReport{}, nil
		}
		return LoadReport{}, t.fail("load", "open roster file", err)
	}
	defer file.Close()

	var report LoadReport
	reader := bufio.NewReader(file)
	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return LoadReport{}, err
		}
		raw, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return LoadReport{}, t.fail("load", "read roster file", readErr)
		}
		if raw != "" {
			line++
			recordLine(&report, line, raw)
		}
		if readErr != nil {
			break
		}
	}

	report.log(t.logger, t.path)
	return report, nil
}

// MaxLineBytes bounds one record line. Real records are a few dozen bytes.
const MaxLineBytes = 4096

const rawPreviewBytes = 60

func recordLine(report *LoadReport, line int, raw string) {
	raw = strings.TrimRight(raw, "\r\n")
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return
	}
	if len(raw) > MaxLineBytes {
		report.Lines++
		report.reject(line, raw[:rawPreviewBytes]+"...",
			fmt.Sprintf("line is %d bytes; records are at most %d", len(raw), MaxLineBytes))
		return
	}
	fields := strings.Split(trimmed, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	report.accept(line, raw, fields)
}

// Save creates the parent directory if needed and replaces the file with one
// line per student.
func (t *TextFile) Save(ctx context.Context, students []student.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return t.fail("save", "create data directory", err)
	}

	var buf bytes.Buffer
	for _, s := range students {
		buf.WriteString(FormatRecord(s))
		buf.WriteByte('\n')
	}
	if err := fileutil.WriteAtomic(t.path, buf.Bytes(), 0o644); err != nil {
		return t.fail("save", "write roster file", err)
	}

	t.logger.Info("saved student records",
		logging.String(logging.FieldPath, t.path),
		logging.Int("count", len(students)),
	)
	return nil
}

// Close is a no-op; the file is opened per call.
func (t *TextFile) Close() error {
	return nil
}

func (t *TextFile) fail(operation, message string, err error) error {
	wrapped := faults.Wrap(faults.ErrPersistence, "store", operation, message, err)
	logging.ErrorWithContext(t.logger, "roster "+operation+" failed",
		"store_"+operation+"_failed",
		logging.String(logging.FieldPath, t.path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, failureHint(operation, err)),
	)
	return wrapped
}

// failureHint picks the operator advice for a text store failure.
func failureHint(operation string, err error) string {
	switch {
	case errors.Is(err, fs.ErrPermission):
		if operation == "save" {
			return "grant write permission on the data file and its directory"
		}
		return "grant read permission on the data file"
	case errors.Is(err, syscall.EISDIR):
		return "paths.data_file points at a directory; point it at a file"
	case errors.Is(err, syscall.ENOSPC):
		return "free disk space on the data volume"
	case operation == "save":
		return "check that the data directory exists and is writable"
	default:
		return "check that the data file is a readable regular file"
	}
}
