package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"roster/internal/student"
)

// studentView is the JSON shape of one record, with derived values.
type studentView struct {
	student.Student
	Coursework int           `json:"coursework_total"`
	Total      int           `json:"total"`
	Percentage float64       `json:"percentage"`
	Grade      student.Grade `json:"grade"`
	Passed     bool          `json:"passed"`
}

func newStudentView(s student.Student) studentView {
	return studentView{
		Student:    s,
		Coursework: s.CourseworkTotal(),
		Total:      s.TotalScore(),
		Percentage: s.Percentage(),
		Grade:      s.Grade(),
		Passed:     s.Passed(),
	}
}

func newStudentViews(students []student.Student) []studentView {
	views := make([]studentView, 0, len(students))
	for _, s := range students {
		views = append(views, newStudentView(s))
	}
	return views
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

func renderStudentTable(students []student.Student, selectedID int, colorize bool) string {
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		marker := ""
		if s.ID == selectedID {
			marker = "*"
		}
		rows = append(rows, []string{
			marker,
			strconv.Itoa(s.ID),
			s.Name,
			strconv.Itoa(s.Mark1),
			strconv.Itoa(s.Mark2),
			strconv.Itoa(s.Mark3),
			strconv.Itoa(s.Exam),
			fmt.Sprintf("%d/%d", s.TotalScore(), student.MaxTotal),
			formatPercent(s.Percentage()),
			renderGrade(s.Grade(), colorize),
		})
	}
	return renderTable(studentColumns, rows, pluralStudents(len(students)))
}

func pluralStudents(n int) string {
	if n == 1 {
		return "1 student"
	}
	return strconv.Itoa(n) + " students"
}

func renderStudentDetail(s student.Student, colorize bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student %d: %s\n", s.ID, s.Name)
	fmt.Fprintf(&b, "  CW1 %d/%d  CW2 %d/%d  CW3 %d/%d  Exam %d/%d\n",
		s.Mark1, student.MaxCourseworkMark,
		s.Mark2, student.MaxCourseworkMark,
		s.Mark3, student.MaxCourseworkMark,
		s.Exam, student.MaxExamMark,
	)
	fmt.Fprintf(&b, "  Total %d/%d, Percentage %s, Grade %s\n",
		s.TotalScore(), student.MaxTotal, formatPercent(s.Percentage()), renderGrade(s.Grade(), colorize))
	return b.String()
}

// writeStudent prints one record as JSON or a detail block.
func writeStudent(w io.Writer, s student.Student, asJSON, colorize bool) error {
	if asJSON {
		return writeJSON(w, newStudentView(s))
	}
	_, err := fmt.Fprint(w, renderStudentDetail(s, colorize))
	return err
}
