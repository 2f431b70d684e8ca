package roster

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"roster/internal/faults"
	"roster/internal/student"
)

// SortKey orders the roster.
type SortKey string

const (
	SortByID         SortKey = "id"
	SortByName       SortKey = "name"
	SortByPercentage SortKey = "percentage"
)

// SortKeys lists the accepted keys in display order.
func SortKeys() []SortKey {
	return []SortKey{SortByID, SortByName, SortByPercentage}
}

// ParseSortKey accepts a key name in any case.
func ParseSortKey(raw string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(SortKeys(), key) {
		return key, nil
	}
	return "", fmt.Errorf("%w: unknown sort key %q (want id, name, or percentage)", faults.ErrValidation, raw)
}

// Sort reorders the roster in place, ascending and stable. The selection
// follows its record, and later adds and edits keep the order until the next
// Load.
func (m *Manager) Sort(key SortKey) error {
	if _, err := comparator(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = key
	m.arrange()
	return nil
}

// Order returns the key set by the last Sort, or "" for file order.
func (m *Manager) Order() SortKey {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order
}

// arrange re-applies the active order, if any, and rebuilds the index.
func (m *Manager) arrange() {
	if cmpFn, err := comparator(m.order); err == nil {
		slices.SortStableFunc(m.students, cmpFn)
	}
	m.reindex()
}

// Sorted returns a sorted copy without reordering the roster.
func Sorted(students []student.Student, key SortKey) ([]student.Student, error) {
	cmpFn, err := comparator(key)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(students)
	slices.SortStableFunc(out, cmpFn)
	return out, nil
}

func comparator(key SortKey) (func(a, b student.Student) int, error) {
	switch key {
	case SortByID:
		return func(a, b student.Student) int { return cmp.Compare(a.ID, b.ID) }, nil
	case SortByName:
		fold := cases.Fold()
		return func(a, b student.Student) int {
			return strings.Compare(fold.String(a.Name), fold.String(b.Name))
		}, nil
	case SortByPercentage:
		return func(a, b student.Student) int { return cmp.Compare(a.Percentage(), b.Percentage()) }, nil
	default:
		return nil, fmt.Errorf("%w: unknown sort key %q", faults.ErrValidation, key)
	}
}
