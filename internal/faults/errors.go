package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrPersistence   = errors.New("persistence error")
	ErrNotFound      = errors.New("not found")
	ErrEmpty         = errors.New("no students")
	ErrLocked        = errors.New("roster is in use by another process")
	ErrConfiguration = errors.New("configuration error")
)

// Kind values returned by Kind.
const (
	KindValidation    = "validation"
	KindPersistence   = "persistence"
	KindNotFound      = "not_found"
	KindEmpty         = "empty"
	KindLocked        = "locked"
	KindConfiguration = "configuration"
	KindInternal      = "internal"
)

// Classifier lets an error declare its kind without wrapping a sentinel.
type Classifier interface {
	ErrorKind() string
}

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrPersistence
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind classifies err into one of the Kind constants. A nil error has no kind.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var classifier Classifier
	if errors.As(err, &classifier) {
		if kind := strings.TrimSpace(classifier.ErrorKind()); kind != "" {
			return kind
		}
	}
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrEmpty):
		return KindEmpty
	case errors.Is(err, ErrLocked):
		return KindLocked
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	default:
		return KindInternal
	}
}

// ExitCode maps an error to the process exit status used by the CLI.
func ExitCode(err error) int {
	switch Kind(err) {
	case "":
		return 0
	case KindValidation:
		return 2
	case KindNotFound, KindEmpty:
		return 3
	case KindPersistence:
		return 4
	case KindLocked:
		return 5
	default:
		return 1
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "roster failure"
	}
	return strings.Join(parts, ": ")
}
