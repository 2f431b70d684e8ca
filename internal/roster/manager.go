package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"roster/internal/faults"
	"roster/internal/logging"
	"roster/internal/store"
	"roster/internal/student"
)

// Input carries the six raw values a user typed for a record.
type Input struct {
	ID    string
	Name  string
	Mark1 string
	Mark2 string
	Mark3 string
	Exam  string
}

// InputFor renders s back into raw form, for pre-filling edit prompts.
func InputFor(s student.Student) Input {
	return Input{
		ID:    strconv.Itoa(s.ID),
		Name:  s.Name,
		Mark1: strconv.Itoa(s.Mark1),
		Mark2: strconv.Itoa(s.Mark2),
		Mark3: strconv.Itoa(s.Mark3),
		Exam:  strconv.Itoa(s.Exam),
	}
}

// Manager coordinates the roster and its store.
type Manager struct {
	mu       sync.Mutex
	store    store.Store
	logger   *slog.Logger
	students []student.Student
	index    map[int]int
	order    SortKey
	selected int
	dirty    bool
	loadErr  error
}

// New returns an empty manager backed by st. Call Load to populate it.
func New(st store.Store, logger *slog.Logger) *Manager {
	return &Manager{
		store:  st,
		logger: logging.NewComponentLogger(logger, "roster"),
	}
}

// Load replaces the roster with the store contents. It never fails hard: a
// store error leaves the roster empty, is logged, and is kept for LoadErr.
func (m *Manager) Load(ctx context.Context) store.LoadReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.selected = 0
	m.dirty = false
	m.order = ""
	report, err := m.store.Load(ctx)
	m.loadErr = err
	if err != nil {
		m.students = nil
		m.reindex()
		logging.WarnWithContext(m.logger, "roster load failed; starting empty",
			"roster_load_failed",
			logging.String(logging.FieldPath, m.store.Location()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the data file and rerun"),
			logging.String(logging.FieldImpact, "saving now would overwrite the unreadable data"),
		)
		return store.LoadReport{}
	}
	m.students = slices.Clone(report.Students)
	m.reindex()
	return report
}

// LoadErr returns the error from the most recent Load, if any. While it is
// set every save is refused so the unreadable store is left alone.
func (m *Manager) LoadErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadErr
}

// Add validates in and appends the new record, selecting it. After a Sort the
// record lands in its sorted position instead.
func (m *Manager) Add(ctx context.Context, in Input) (student.Student, error) {
	s, err := student.Parse(in.ID, in.Name, in.Mark1, in.Mark2, in.Mark3, in.Exam)
	if err != nil {
		return student.Student{}, err
	}
	if err := s.Validate(); err != nil {
		return student.Student{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(s.ID) >= 0 {
		return student.Student{}, student.DuplicateID()
	}
	m.students = append(m.students, s)
	m.arrange()
	m.selected = s.ID
	m.logger.Info("student added", logging.Int(logging.FieldStudentID, s.ID))
	return s, m.persist(ctx, "add")
}

// Edit replaces the name and marks of the record with id. The ID itself is
// immutable; in.ID is ignored.
func (m *Manager) Edit(ctx context.Context, id int, in Input) (student.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return student.Student{}, notFound(id)
	}
	s, err := student.Parse(strconv.Itoa(id), in.Name, in.Mark1, in.Mark2, in.Mark3, in.Exam)
	if err != nil {
		return student.Student{}, err
	}
	if err := s.ValidateMarks(); err != nil {
		return student.Student{}, err
	}
	m.students[idx] = s
	m.arrange()
	m.logger.Info("student updated", logging.Int(logging.FieldStudentID, id))
	return s, m.persist(ctx, "edit")
}

// Delete removes the record with id.
func (m *Manager) Delete(ctx context.Context, id int) (student.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return student.Student{}, notFound(id)
	}
	removed := m.students[idx]
	m.students = slices.Delete(m.students, idx, idx+1)
	m.reindex()
	if m.selected == id {
		m.selected = 0
	}
	m.logger.Info("student deleted", logging.Int(logging.FieldStudentID, id))
	return removed, m.persist(ctx, "delete")
}

// Save writes the current roster to the store.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persist(ctx, "save")
}

// Dirty reports whether the roster holds changes the store has not accepted.
func (m *Manager) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

func (m *Manager) persist(ctx context.Context, operation string) error {
	if m.loadErr != nil {
		m.dirty = true
		return fmt.Errorf("%s: %w", operation, faults.Wrap(faults.ErrPersistence, "roster", operation,
			"roster was not loaded cleanly; refusing to overwrite "+m.store.Location(), m.loadErr))
	}
	if err := m.store.Save(ctx, m.students); err != nil {
		m.dirty = true
		if !errors.Is(err, faults.ErrPersistence) {
			err = faults.Wrap(faults.ErrPersistence, "roster", operation, "save roster", err)
		}
		logging.WarnWithContext(m.logger, "roster change not saved",
			"roster_save_failed",
			logging.String("operation", operation),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix the data path and save again"),
			logging.String(logging.FieldImpact, "change is held in memory only"),
		)
		return fmt.Errorf("%s: %w", operation, err)
	}
	m.dirty = false
	return nil
}

// Select marks the record with id as current.
func (m *Manager) Select(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(id) < 0 {
		return notFound(id)
	}
	m.selected = id
	return nil
}

// Selected returns the current record, if any.
func (m *Manager) Selected() (student.Student, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == 0 {
		return student.Student{}, false
	}
	idx := m.indexOf(m.selected)
	if idx < 0 {
		return student.Student{}, false
	}
	return m.students[idx], true
}

func (m *Manager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = 0
}

// Students returns a copy of the roster in its current order.
func (m *Manager) Students() []student.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.students)
}

// Get returns the record with id.
func (m *Manager) Get(id int) (student.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return student.Student{}, notFound(id)
	}
	return m.students[idx], nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.students)
}

func (m *Manager) indexOf(id int) int {
	if idx, ok := m.index[id]; ok {
		return idx
	}
	return -1
}

// reindex rebuilds the ID to position map after the slice changes shape.
func (m *Manager) reindex() {
	m.index = make(map[int]int, len(m.students))
	for i, s := range m.students {
		m.index[s.ID] = i
	}
}

func notFound(id int) error {
	return fmt.Errorf("%w: student %d", faults.ErrNotFound, id)
}
