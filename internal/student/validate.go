package student

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"roster/internal/faults"
)

// Messages reported to the user for each rejected field.
const (
	MsgInvalidNumber = "please enter valid numbers"
	MsgEmptyName     = "please enter a name"
	MsgIDRange       = "student ID must be between 1000-9999"
	MsgMarkRange     = "coursework marks must be 0-20"
	MsgExamRange     = "exam mark must be 0-100"
	MsgDuplicateID   = "student ID already exists"
)

// ValidationError reports a malformed or out-of-range field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrorKind classifies the error for faults.Kind.
func (e *ValidationError) ErrorKind() string {
	return faults.KindValidation
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{faults.ErrValidation}
	}
	return []error{faults.ErrValidation, e.Err}
}

// checked mirrors Student with the field order the checks must run in:
// name, id, coursework marks, exam.
type checked struct {
	Name  string `validate:"required"`
	ID    int    `validate:"min=1000,max=9999"`
	Mark1 int    `validate:"min=0,max=20"`
	Mark2 int    `validate:"min=0,max=20"`
	Mark3 int    `validate:"min=0,max=20"`
	Exam  int    `validate:"min=0,max=100"`
}

var validate = validator.New()

var fieldMessages = map[string]struct {
	field   string
	message string
}{
	"Name":  {field: "name", message: MsgEmptyName},
	"ID":    {field: "student_id", message: MsgIDRange},
	"Mark1": {field: "mark1", message: MsgMarkRange},
	"Mark2": {field: "mark2", message: MsgMarkRange},
	"Mark3": {field: "mark3", message: MsgMarkRange},
	"Exam":  {field: "exam_mark", message: MsgExamRange},
}

// Validate range-checks every stored field and returns the first failure.
func (s Student) Validate() error {
	return firstFailure(validate.Struct(s.rules()))
}

// ValidateMarks checks everything except the ID, which is immutable once a
// record exists.
func (s Student) ValidateMarks() error {
	return firstFailure(validate.StructExcept(s.rules(), "ID"))
}

func (s Student) rules() checked {
	return checked{
		Name:  strings.TrimSpace(s.Name),
		ID:    s.ID,
		Mark1: s.Mark1,
		Mark2: s.Mark2,
		Mark3: s.Mark3,
		Exam:  s.Exam,
	}
}

func firstFailure(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "record", Message: err.Error(), Err: err}
	}
	first := fieldErrs[0]
	if known, ok := fieldMessages[first.StructField()]; ok {
		return &ValidationError{Field: known.field, Message: known.message}
	}
	return &ValidationError{Field: first.Field(), Message: first.Error()}
}

// DuplicateID builds the error reported when an ID is already on the roster.
func DuplicateID() error {
	return &ValidationError{Field: "student_id", Message: MsgDuplicateID}
}
