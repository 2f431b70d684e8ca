package roster_test

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"

	"roster/internal/faults"
	"roster/internal/logging"
	"roster/internal/roster"
	"roster/internal/store"
	"roster/internal/student"
	"roster/internal/testsupport"
)

func newManager(t *testing.T, lines ...string) (*roster.Manager, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if len(lines) > 0 {
		testsupport.WriteRoster(t, cfg.Paths.DataFile, lines...)
	}
	mgr := roster.New(testsupport.MustOpenStore(t, cfg), logging.NewNop())
	mgr.Load(context.Background())
	return mgr, cfg.Paths.DataFile
}

func scenario(t *testing.T) (*roster.Manager, string) {
	return newManager(t,
		"1001,Ann,18,19,20,80",
		"1002,Bo,5,5,5,20",
	)
}

func TestScenarioFigures(t *testing.T) {
	mgr, _ := scenario(t)

	ann, err := mgr.Get(1001)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ann.TotalScore() != 137 || ann.Percentage() != 85.625 || ann.Grade() != student.GradeA {
		t.Fatalf("unexpected Ann figures: total=%d pct=%v grade=%s", ann.TotalScore(), ann.Percentage(), ann.Grade())
	}
	bo, _ := mgr.Get(1002)
	if bo.TotalScore() != 35 || bo.Percentage() != 21.875 || bo.Grade() != student.GradeF {
		t.Fatalf("unexpected Bo figures: total=%d pct=%v grade=%s", bo.TotalScore(), bo.Percentage(), bo.Grade())
	}

	stats := mgr.Statistics()
	if stats.Count != 2 || stats.Average != 53.75 || stats.PassRate != 50 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
	if stats.GradeA != 1 || stats.GradeF != 1 {
		t.Fatalf("expected one A and one F, got %#v", stats)
	}
	if stats.Highest != 85.625 || stats.Lowest != 21.875 {
		t.Fatalf("unexpected range: %#v", stats)
	}
}

func TestStatisticsEmptyRoster(t *testing.T) {
	mgr, _ := newManager(t)

	stats := mgr.Statistics()
	if stats.Count != 0 || stats.Average != 0 || stats.PassRate != 0 {
		t.Fatalf("expected zero stats, got %#v", stats)
	}
	if len(stats.Distribution) != len(student.Grades()) {
		t.Fatalf("expected every grade in distribution, got %#v", stats.Distribution)
	}
}

func TestAddAppendsSelectsAndSaves(t *testing.T) {
	mgr, path := scenario(t)

	added, err := mgr.Add(context.Background(), roster.Input{
		ID: " 1003 ", Name: " Cy ", Mark1: "10", Mark2: "10", Mark3: "10", Exam: "50",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added.ID != 1003 || added.Name != "Cy" {
		t.Fatalf("unexpected added record %#v", added)
	}
	if sel, ok := mgr.Selected(); !ok || sel.ID != 1003 {
		t.Fatalf("expected new record selected, got %#v %v", sel, ok)
	}
	if mgr.Dirty() {
		t.Fatal("expected clean manager after successful save")
	}

	lines := testsupport.ReadLines(t, path)
	if len(lines) != 3 || lines[2] != "1003,Cy,10,10,10,50" {
		t.Fatalf("unexpected saved lines %q", lines)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	valid := roster.Input{ID: "1003", Name: "Cy", Mark1: "1", Mark2: "2", Mark3: "3", Exam: "4"}
	cases := []struct {
		name    string
		mutate  func(*roster.Input)
		message string
	}{
		{"non numeric", func(in *roster.Input) { in.Mark2 = "ten" }, student.MsgInvalidNumber},
		{"empty name", func(in *roster.Input) { in.Name = "   " }, student.MsgEmptyName},
		{"id too low", func(in *roster.Input) { in.ID = "999" }, student.MsgIDRange},
		{"id too high", func(in *roster.Input) { in.ID = "10000" }, student.MsgIDRange},
		{"mark too high", func(in *roster.Input) { in.Mark3 = "21" }, student.MsgMarkRange},
		{"mark negative", func(in *roster.Input) { in.Mark1 = "-1" }, student.MsgMarkRange},
		{"exam too high", func(in *roster.Input) { in.Exam = "101" }, student.MsgExamRange},
		{"duplicate", func(in *roster.Input) { in.ID = "1001" }, student.MsgDuplicateID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mgr, path := scenario(t)
			before := testsupport.ReadLines(t, path)

			in := valid
			tc.mutate(&in)
			_, err := mgr.Add(context.Background(), in)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if !errors.Is(err, faults.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if err.Error() != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, err.Error())
			}
			if mgr.Len() != 2 {
				t.Fatalf("roster changed after rejection: %d records", mgr.Len())
			}
			if after := testsupport.ReadLines(t, path); !slices.Equal(before, after) {
				t.Fatalf("file changed after rejection: %q", after)
			}
		})
	}
}

func TestEditReplacesInPlaceAndKeepsID(t *testing.T) {
	mgr, path := scenario(t)

	updated, err := mgr.Edit(context.Background(), 1001, roster.Input{
		ID: "5555", Name: "Annie", Mark1: "20", Mark2: "20", Mark3: "20", Exam: "100",
	})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if updated.ID != 1001 || updated.Name != "Annie" || updated.Percentage() != 100 {
		t.Fatalf("unexpected edited record %#v", updated)
	}
	if mgr.Students()[0].Name != "Annie" {
		t.Fatalf("expected edit in place, got %#v", mgr.Students())
	}
	if lines := testsupport.ReadLines(t, path); lines[0] != "1001,Annie,20,20,20,100" {
		t.Fatalf("unexpected saved line %q", lines[0])
	}
}

func TestEditErrors(t *testing.T) {
	mgr, _ := scenario(t)
	ctx := context.Background()

	if _, err := mgr.Edit(ctx, 4242, roster.Input{Name: "X", Mark1: "1", Mark2: "1", Mark3: "1", Exam: "1"}); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err := mgr.Edit(ctx, 1001, roster.Input{Name: "Ann", Mark1: "1", Mark2: "1", Mark3: "1", Exam: "150"})
	if err == nil || err.Error() != student.MsgExamRange {
		t.Fatalf("expected exam range error, got %v", err)
	}
	if ann, _ := mgr.Get(1001); ann.Exam != 80 {
		t.Fatalf("record changed after rejected edit: %#v", ann)
	}
}

func TestDeleteThenReloadOmitsRecord(t *testing.T) {
	mgr, _ := scenario(t)
	ctx := context.Background()
	if err := mgr.Select(1002); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	removed, err := mgr.Delete(ctx, 1002)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed.Name != "Bo" {
		t.Fatalf("unexpected removed record %#v", removed)
	}
	if _, ok := mgr.Selected(); ok {
		t.Fatal("expected selection cleared after deleting the selected record")
	}

	mgr.Load(ctx)
	if _, err := mgr.Get(1002); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("deleted record came back: %v", err)
	}
	if mgr.Len() != 1 {
		t.Fatalf("expected one record after reload, got %d", mgr.Len())
	}

	if _, err := mgr.Delete(ctx, 1002); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found deleting twice, got %v", err)
	}
}

func TestSortKeepsSelection(t *testing.T) {
	mgr, _ := newManager(t,
		"1003,carl,10,10,10,50",
		"1001,Bea,20,20,20,100",
		"1002,alice,1,1,1,1",
	)
	if err := mgr.Select(1001); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	cases := []struct {
		key  roster.SortKey
		want []int
	}{
		{roster.SortByID, []int{1001, 1002, 1003}},
		{roster.SortByName, []int{1002, 1001, 1003}},
		{roster.SortByPercentage, []int{1002, 1003, 1001}},
	}
	for _, tc := range cases {
		if err := mgr.Sort(tc.key); err != nil {
			t.Fatalf("Sort(%s) failed: %v", tc.key, err)
		}
		var got []int
		for _, s := range mgr.Students() {
			got = append(got, s.ID)
		}
		if !slices.Equal(got, tc.want) {
			t.Fatalf("Sort(%s) = %v, want %v", tc.key, got, tc.want)
		}
		if sel, ok := mgr.Selected(); !ok || sel.ID != 1001 {
			t.Fatalf("selection lost after Sort(%s)", tc.key)
		}
	}
}

func TestSortIsStable(t *testing.T) {
	mgr, _ := newManager(t,
		"1002,Same,10,10,10,10",
		"1001,Other,10,10,10,10",
		"1003,same,1,1,1,1",
	)
	if err := mgr.Sort(roster.SortByName); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	got := mgr.Students()
	if got[1].ID != 1002 || got[2].ID != 1003 {
		t.Fatalf("expected equal names to keep their order, got %#v", got)
	}
}

func TestParseSortKey(t *testing.T) {
	if key, err := roster.ParseSortKey(" Percentage "); err != nil || key != roster.SortByPercentage {
		t.Fatalf("unexpected parse: %q %v", key, err)
	}
	if _, err := roster.ParseSortKey("grade"); !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExtremum(t *testing.T) {
	empty, _ := newManager(t)
	if _, err := empty.Extremum(roster.Highest); !errors.Is(err, faults.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if err := faults.ErrEmpty; err.Error() != "no students" {
		t.Fatalf("unexpected empty message %q", err.Error())
	}

	single, _ := newManager(t, "1001,Solo,5,5,5,50")
	hi, _ := single.Extremum(roster.Highest)
	lo, _ := single.Extremum(roster.Lowest)
	if hi.ID != 1001 || lo.ID != 1001 {
		t.Fatalf("expected the single record both ways, got %d and %d", hi.ID, lo.ID)
	}

	tied, _ := newManager(t,
		"1005,First,10,10,10,50",
		"1004,Second,10,10,10,50",
	)
	hi, _ = tied.Extremum(roster.Highest)
	lo, _ = tied.Extremum(roster.Lowest)
	if hi.ID != 1005 || lo.ID != 1005 {
		t.Fatalf("expected first encountered to win ties, got %d and %d", hi.ID, lo.ID)
	}

	mgr, _ := scenario(t)
	hi, _ = mgr.Extremum(roster.Highest)
	lo, _ = mgr.Extremum(roster.Lowest)
	if hi.Name != "Ann" || lo.Name != "Bo" {
		t.Fatalf("unexpected extremes %s / %s", hi.Name, lo.Name)
	}
}

func TestSaveTwiceIsByteIdentical(t *testing.T) {
	mgr, path := newManager(t,
		" 1002 , Bo ,5,5,5,20",
		"1001,Ann,18,19,20,80",
	)
	ctx := context.Background()

	if err := mgr.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	mgr.Load(ctx)
	if err := mgr.Save(ctx); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("save(load()) not stable:\n%q\n%q", first, second)
	}
	if string(first) != "1002,Bo,5,5,5,20\n1001,Ann,18,19,20,80\n" {
		t.Fatalf("unexpected normalized file %q", first)
	}
}

type failingStore struct {
	store.Store
	fail bool
}

func (f *failingStore) Save(ctx context.Context, students []student.Student) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Store.Save(ctx, students)
}

func TestSaveFailureKeepsChangeAndMarksDirty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := &failingStore{Store: testsupport.MustOpenStore(t, cfg), fail: true}
	mgr := roster.New(st, logging.NewNop())
	mgr.Load(context.Background())

	_, err := mgr.Add(context.Background(), roster.Input{ID: "1001", Name: "Ann", Mark1: "1", Mark2: "1", Mark3: "1", Exam: "1"})
	if !errors.Is(err, faults.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if mgr.Len() != 1 || !mgr.Dirty() {
		t.Fatalf("expected change kept in memory and dirty flag set")
	}

	st.fail = false
	if err := mgr.Save(context.Background()); err != nil {
		t.Fatalf("retry Save failed: %v", err)
	}
	if mgr.Dirty() {
		t.Fatal("expected dirty flag cleared after successful save")
	}
	if lines := testsupport.ReadLines(t, cfg.Paths.DataFile); len(lines) != 1 {
		t.Fatalf("expected saved record, got %q", lines)
	}
}

func TestLoadErrorLeavesRosterEmpty(t *testing.T) {
	dir := t.TempDir()
	mgr := roster.New(store.NewTextFile(dir, logging.NewNop()), logging.NewNop())

	report := mgr.Load(context.Background())
	if len(report.Students) != 0 || mgr.Len() != 0 {
		t.Fatal("expected empty roster after load error")
	}
	if !errors.Is(mgr.LoadErr(), faults.ErrPersistence) {
		t.Fatalf("expected persistence LoadErr, got %v", mgr.LoadErr())
	}
}

func TestSelectUnknownID(t *testing.T) {
	mgr, _ := scenario(t)
	if err := mgr.Select(7777); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	mgr.ClearSelection()
	if _, ok := mgr.Selected(); ok {
		t.Fatal("expected no selection")
	}
}

func TestLoadErrorRefusesToOverwriteStore(t *testing.T) {
	dir := t.TempDir()
	mgr := roster.New(store.NewTextFile(dir, logging.NewNop()), logging.NewNop())
	mgr.Load(context.Background())

	_, err := mgr.Add(context.Background(), roster.Input{ID: "1003", Name: "Cy", Mark1: "1", Mark2: "1", Mark3: "1", Exam: "1"})
	if !errors.Is(err, faults.ErrPersistence) {
		t.Fatalf("expected persistence error after failed load, got %v", err)
	}
	if !mgr.Dirty() {
		t.Fatal("expected unsaved change to be flagged")
	}
	if err := mgr.Save(context.Background()); !errors.Is(err, faults.ErrPersistence) {
		t.Fatalf("expected explicit Save to be refused too, got %v", err)
	}
	info, statErr := os.Stat(dir)
	if statErr != nil || !info.IsDir() {
		t.Fatalf("expected data path left untouched, got %v", statErr)
	}
}

func TestSortOrderAppliesToLaterChanges(t *testing.T) {
	mgr, path := newManager(t,
		"1003,Carl,10,10,10,50",
		"1001,Bea,20,20,20,100",
	)
	ctx := context.Background()
	if err := mgr.Sort(roster.SortByName); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	if mgr.Order() != roster.SortByName {
		t.Fatalf("expected active order name, got %q", mgr.Order())
	}

	if _, err := mgr.Add(ctx, roster.Input{ID: "1002", Name: "Aaron", Mark1: "1", Mark2: "1", Mark3: "1", Exam: "1"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	ids := func() []int {
		var out []int
		for _, s := range mgr.Students() {
			out = append(out, s.ID)
		}
		return out
	}
	if got := ids(); !slices.Equal(got, []int{1002, 1001, 1003}) {
		t.Fatalf("expected Aaron first after add, got %v", got)
	}
	if lines := testsupport.ReadLines(t, path); len(lines) != 3 || lines[0] != "1002,Aaron,1,1,1,1" {
		t.Fatalf("expected sorted order saved, got %q", lines)
	}

	if _, err := mgr.Edit(ctx, 1002, roster.Input{Name: "Zoe", Mark1: "1", Mark2: "1", Mark3: "1", Exam: "1"}); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if got := ids(); !slices.Equal(got, []int{1001, 1003, 1002}) {
		t.Fatalf("expected renamed record to move last, got %v", got)
	}
	if sel, ok := mgr.Selected(); !ok || sel.ID != 1002 {
		t.Fatalf("expected selection to follow the added record, got %#v", sel)
	}

	mgr.Load(ctx)
	if mgr.Order() != "" {
		t.Fatalf("expected Load to restore file order, got %q", mgr.Order())
	}
}

func TestLookupsFollowMutations(t *testing.T) {
	mgr, _ := newManager(t,
		"1001,Ann,10,10,10,10",
		"1002,Bo,20,20,20,20",
		"1003,Cy,5,5,5,5",
	)
	ctx := context.Background()
	if _, err := mgr.Delete(ctx, 1001); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := mgr.Sort(roster.SortByPercentage); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	for _, id := range []int{1002, 1003} {
		got, err := mgr.Get(id)
		if err != nil || got.ID != id {
			t.Fatalf("Get(%d) = %#v, %v", id, got, err)
		}
	}
	if _, err := mgr.Get(1001); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected deleted record gone, got %v", err)
	}
}
