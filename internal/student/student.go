package student

import (
	"fmt"
	"strconv"
	"strings"
)

// Score bounds for a single record.
const (
	MinID             = 1000
	MaxID             = 9999
	MaxCourseworkMark = 20
	MaxExamMark       = 100
	MaxCoursework     = 3 * MaxCourseworkMark
	MaxTotal          = MaxCoursework + MaxExamMark
)

// Grade is the letter grade derived from a percentage.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Grades lists every grade from best to worst.
func Grades() []Grade {
	return []Grade{GradeA, GradeB, GradeC, GradeD, GradeF}
}

// PassPercentage is the lowest percentage that counts as a pass.
const PassPercentage = 40.0

// Student is one roster record. Only the six stored fields exist; every
// derived value is recomputed from them on access.
type Student struct {
	ID    int    `json:"student_id"`
	Name  string `json:"name"`
	Mark1 int    `json:"mark1"`
	Mark2 int    `json:"mark2"`
	Mark3 int    `json:"mark3"`
	Exam  int    `json:"exam_mark"`
}

// CourseworkTotal returns the sum of the three coursework marks (0-60).
func (s Student) CourseworkTotal() int {
	return s.Mark1 + s.Mark2 + s.Mark3
}

// TotalScore returns coursework plus exam (0-160).
func (s Student) TotalScore() int {
	return s.CourseworkTotal() + s.Exam
}

// Percentage returns the total score out of 160 as a percentage.
func (s Student) Percentage() float64 {
	// Multiply before dividing so whole-number boundaries stay exact.
	return float64(s.TotalScore()*100) / MaxTotal
}

// Grade returns the letter grade for the record's percentage.
func (s Student) Grade() Grade {
	return GradeFor(s.Percentage())
}

// Passed reports whether the record meets the pass percentage.
func (s Student) Passed() bool {
	return s.Percentage() >= PassPercentage
}

// GradeFor maps a percentage onto the grade thresholds.
func GradeFor(percentage float64) Grade {
	switch {
	case percentage >= 70:
		return GradeA
	case percentage >= 60:
		return GradeB
	case percentage >= 50:
		return GradeC
	case percentage >= PassPercentage:
		return GradeD
	default:
		return GradeF
	}
}

func (s Student) String() string {
	return fmt.Sprintf("%d %s", s.ID, s.Name)
}

// Parse builds a Student from raw user or file input. Every field is trimmed
// and the numeric fields must be integers; ranges are not checked here.
func Parse(id, name, mark1, mark2, mark3, exam string) (Student, error) {
	var s Student
	var err error
	if s.ID, err = parseField("student_id", id); err != nil {
		return Student{}, err
	}
	s.Name = strings.TrimSpace(name)
	if s.Mark1, err = parseField("mark1", mark1); err != nil {
		return Student{}, err
	}
	if s.Mark2, err = parseField("mark2", mark2); err != nil {
		return Student{}, err
	}
	if s.Mark3, err = parseField("mark3", mark3); err != nil {
		return Student{}, err
	}
	if s.Exam, err = parseField("exam_mark", exam); err != nil {
		return Student{}, err
	}
	return s, nil
}

// ParseFields is Parse over a six-element slice in file order.
func ParseFields(fields []string) (Student, error) {
	if len(fields) != 6 {
		return Student{}, &ValidationError{
			Field:   "record",
			Message: fmt.Sprintf("expected 6 fields, got %d", len(fields)),
		}
	}
	return Parse(fields[0], fields[1], fields[2], fields[3], fields[4], fields[5])
}

func parseField(field, raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{Field: field, Message: MsgInvalidNumber, Err: err}
	}
	return value, nil
}
