package roster

import (
	"roster/internal/faults"
	"roster/internal/student"
)

// Direction picks which end of the percentage range Extremum returns.
type Direction int

const (
	Highest Direction = iota
	Lowest
)

func (d Direction) String() string {
	if d == Lowest {
		return "lowest"
	}
	return "highest"
}

// Extremum returns the record with the highest or lowest percentage. On a tie
// the earliest record in roster order wins.
func (m *Manager) Extremum(dir Direction) (student.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.students) == 0 {
		return student.Student{}, faults.ErrEmpty
	}
	best := m.students[0]
	for _, s := range m.students[1:] {
		switch dir {
		case Lowest:
			if s.Percentage() < best.Percentage() {
				best = s
			}
		default:
			if s.Percentage() > best.Percentage() {
				best = s
			}
		}
	}
	return best, nil
}

// Stats summarizes the roster. Percentages are on the 0-100 scale.
type Stats struct {
	Count        int                   `json:"count"`
	Average      float64               `json:"average"`
	Highest      float64               `json:"highest"`
	Lowest       float64               `json:"lowest"`
	PassRate     float64               `json:"pass_rate"`
	GradeA       int                   `json:"grade_a"`
	GradeF       int                   `json:"grade_f"`
	Distribution map[student.Grade]int `json:"distribution"`
}

// Statistics computes Stats over the current roster. An empty roster yields
// zero values with every grade present in Distribution.
func (m *Manager) Statistics() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Summarize(m.students)
}

// Summarize computes Stats for an arbitrary record slice.
func Summarize(students []student.Student) Stats {
	stats := Stats{Distribution: make(map[student.Grade]int, len(student.Grades()))}
	for _, g := range student.Grades() {
		stats.Distribution[g] = 0
	}
	if len(students) == 0 {
		return stats
	}

	stats.Count = len(students)
	stats.Highest = students[0].Percentage()
	stats.Lowest = students[0].Percentage()
	var sum float64
	passed := 0
	for _, s := range students {
		p := s.Percentage()
		sum += p
		stats.Highest = max(stats.Highest, p)
		stats.Lowest = min(stats.Lowest, p)
		if s.Passed() {
			passed++
		}
		stats.Distribution[s.Grade()]++
	}
	stats.Average = sum / float64(stats.Count)
	stats.PassRate = float64(passed) * 100 / float64(stats.Count)
	stats.GradeA = stats.Distribution[student.GradeA]
	stats.GradeF = stats.Distribution[student.GradeF]
	return stats
}
