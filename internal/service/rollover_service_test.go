package service

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"daily-checklist/internal/model"
)

type rolloverFixture struct {
	store    *memStore
	tasks    *TaskService
	catalog  *CatalogService
	archiver *recordingArchiver
	rollover *RolloverService
	clock    *fixedClock
}

func newRolloverFixture(t *testing.T) *rolloverFixture {
	t.Helper()
	store := newMemStore()
	tasks, clock := newTestTaskService(store)
	catalog := NewCatalogService(store, testDefaults, "")
	archiver := &recordingArchiver{}
	rollover := NewRolloverService(store, tasks, catalog, archiver, time.UTC)
	rollover.now = clock.now
	return &rolloverFixture{
		store:    store,
		tasks:    tasks,
		catalog:  catalog,
		archiver: archiver,
		rollover: rollover,
		clock:    clock,
	}
}

func TestCheckDateChangeOncePerDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRolloverFixture(t)

	first, err := f.rollover.CheckDateChange(ctx)
	if err != nil {
		t.Fatalf("CheckDateChange failed: %v", err)
	}
	if !first.NewDay || !first.FirstRun || first.Today != "2025-03-10" || first.Previous != "2025-03-09" {
		t.Errorf("first check = %+v", first)
	}
	if marker, _ := f.store.value(KeyDayMarker); marker != "2025-03-10" {
		t.Errorf("marker = %q", marker)
	}

	second, err := f.rollover.CheckDateChange(ctx)
	if err != nil {
		t.Fatalf("CheckDateChange failed: %v", err)
	}
	if second.NewDay {
		t.Error("second check on the same day reported a new day")
	}

	f.clock.t = f.clock.t.Add(23 * time.Hour)
	third, err := f.rollover.CheckDateChange(ctx)
	if err != nil {
		t.Fatalf("CheckDateChange failed: %v", err)
	}
	if !third.NewDay || third.FirstRun || third.Previous != "2025-03-10" || third.Today != "2025-03-11" {
		t.Errorf("next day check = %+v", third)
	}
}

func TestCheckDateChangeUsesLocation(t *testing.T) {
	t.Parallel()
	f := newRolloverFixture(t)
	loc := time.FixedZone("UTC+10", 10*60*60)
	f.rollover.loc = loc
	// 20:00 UTC on the 10th is already the 11th at UTC+10.
	f.clock.t = time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	change, err := f.rollover.CheckDateChange(context.Background())
	if err != nil {
		t.Fatalf("CheckDateChange failed: %v", err)
	}
	if change.Today != "2025-03-11" {
		t.Errorf("Today = %q, want 2025-03-11", change.Today)
	}
}

func TestCheckDateChangeMalformedMarker(t *testing.T) {
	t.Parallel()
	f := newRolloverFixture(t)
	f.store.data[KeyDayMarker] = "yesterday-ish"

	change, err := f.rollover.CheckDateChange(context.Background())
	if err != nil {
		t.Fatalf("CheckDateChange failed: %v", err)
	}
	if !change.NewDay || change.Previous != "2025-03-09" {
		t.Errorf("change = %+v", change)
	}
}

func TestCheckDateChangeStorageFailure(t *testing.T) {
	t.Parallel()
	f := newRolloverFixture(t)
	f.store.failSet[KeyDayMarker] = errDiskFull

	if _, err := f.rollover.CheckDateChange(context.Background()); !errors.Is(err, ErrStorage) {
		t.Errorf("error = %v, want ErrStorage", err)
	}
}

func TestPerformRolloverOnEmptyState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRolloverFixture(t)

	result, err := f.rollover.PerformRollover(ctx, "2025-03-09")
	if err != nil {
		t.Fatalf("PerformRollover failed: %v", err)
	}
	if !result.Performed || result.Pending != 2 || len(result.Warnings) != 0 {
		t.Errorf("result = %+v", result)
	}

	pending, completed, _ := f.tasks.Snapshot(ctx)
	if !slices.Equal(ids(pending), []string{"base_A", "base_B"}) {
		t.Errorf("pending = %v, want [base_A base_B]", ids(pending))
	}
	if len(completed) != 0 {
		t.Errorf("completed = %v, want empty", ids(completed))
	}
	for _, p := range pending {
		if !p.CreatedAt.Equal(f.clock.t) || p.CompletedAt != nil {
			t.Errorf("seeded item %+v", p)
		}
	}
	if got := stored(t, f.store, KeyPending); !slices.Equal(ids(got), []string{"base_A", "base_B"}) {
		t.Errorf("persisted pending = %v", ids(got))
	}
}

func TestPerformRolloverCarriesOpenUserTasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRolloverFixture(t)
	yesterday := time.Date(2025, 3, 9, 7, 0, 0, 0, time.UTC)
	doneAt := yesterday.Add(time.Hour)

	seed(t, f.store, KeyPending, []model.TaskItem{
		{ID: "base_B", Name: "Horse stance", CreatedAt: yesterday},
		{ID: "base_gone", Name: "Removed from catalog", CreatedAt: yesterday},
		{ID: "u1", Name: "Call mom", CreatedAt: yesterday},
		{ID: "u2", Name: "Finished", CreatedAt: yesterday},
	})
	seed(t, f.store, KeyCompleted, []model.TaskItem{
		{ID: "base_A", Name: "Run 1 km", CreatedAt: yesterday, CompletedAt: &doneAt},
		{ID: "u2", Name: "Finished", CreatedAt: yesterday, CompletedAt: &doneAt},
	})

	result, err := f.rollover.PerformRollover(ctx, "2025-03-09")
	if err != nil {
		t.Fatalf("PerformRollover failed: %v", err)
	}

	pending, completed, _ := f.tasks.Snapshot(ctx)
	if want := []string{"base_A", "base_B", "u1"}; !slices.Equal(ids(pending), want) {
		t.Errorf("pending = %v, want %v", ids(pending), want)
	}
	if len(completed) != 0 {
		t.Errorf("completed = %v, want empty", ids(completed))
	}
	if !pending[2].CreatedAt.Equal(yesterday) {
		t.Errorf("carried task lost its creation time: %v", pending[2].CreatedAt)
	}
	if result.Archived != "2025-03-09" {
		t.Errorf("Archived = %q", result.Archived)
	}

	if !slices.Equal(f.archiver.days, []string{"2025-03-09"}) {
		t.Fatalf("archived days = %v", f.archiver.days)
	}
	if !slices.Equal(ids(f.archiver.pending[0]), []string{"base_B", "base_gone", "u1"}) {
		t.Errorf("archived pending = %v", ids(f.archiver.pending[0]))
	}
	if !slices.Equal(ids(f.archiver.completed[0]), []string{"base_A", "u2"}) {
		t.Errorf("archived completed = %v", ids(f.archiver.completed[0]))
	}
}

func TestPerformRolloverArchiveFailureIsWarning(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRolloverFixture(t)
	f.archiver.err = errDiskFull
	seed(t, f.store, KeyCompleted, []model.TaskItem{item("u1", "Done yesterday")})

	result, err := f.rollover.PerformRollover(ctx, "2025-03-09")
	if err != nil {
		t.Fatalf("PerformRollover failed: %v", err)
	}
	if len(result.Warnings) != 1 || !errors.Is(result.Warnings[0], errDiskFull) {
		t.Errorf("warnings = %v, want archive warning", result.Warnings)
	}
	if result.Archived != "" {
		t.Errorf("Archived = %q, want empty", result.Archived)
	}
	_, completed, _ := f.tasks.Snapshot(ctx)
	if len(completed) != 0 {
		t.Errorf("reset did not happen, completed = %v", ids(completed))
	}
}

func TestPerformRolloverCorruptCatalogWarns(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRolloverFixture(t)
	f.store.data[KeyCatalog] = "not json"

	result, err := f.rollover.PerformRollover(ctx, "2025-03-09")
	if err != nil {
		t.Fatalf("PerformRollover failed: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings = %v, want catalog warning", result.Warnings)
	}
	pending, _, _ := f.tasks.Snapshot(ctx)
	if !slices.Equal(ids(pending), []string{"base_A", "base_B"}) {
		t.Errorf("pending = %v", ids(pending))
	}
}

func TestPerformRolloverDeduplicatesCatalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRolloverFixture(t)
	f.store.data[KeyCatalog] = `[{"id":"base_A","name":"Run"},{"id":"base_A","name":"Run again"}]`

	if _, err := f.rollover.PerformRollover(ctx, "2025-03-09"); err != nil {
		t.Fatalf("PerformRollover failed: %v", err)
	}
	pending, _, _ := f.tasks.Snapshot(ctx)
	if len(pending) != 1 || pending[0].Name != "Run" {
		t.Errorf("pending = %+v", pending)
	}
}

func TestInitializeDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRolloverFixture(t)

	first, err := f.rollover.InitializeDay(ctx)
	if err != nil {
		t.Fatalf("InitializeDay failed: %v", err)
	}
	if !first.Performed {
		t.Fatal("first start of the day did not roll over")
	}
	if first.Archived != "" || len(f.archiver.days) != 0 {
		t.Errorf("first run archived empty lists: Archived=%q days=%v", first.Archived, f.archiver.days)
	}

	if _, err := f.tasks.Complete(ctx, "base_A"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	second, err := f.rollover.InitializeDay(ctx)
	if err != nil {
		t.Fatalf("InitializeDay failed: %v", err)
	}
	if second.Performed {
		t.Error("second start of the day rolled over again")
	}
	_, completed, _ := f.tasks.Snapshot(ctx)
	if !slices.Equal(ids(completed), []string{"base_A"}) {
		t.Errorf("completed = %v, want [base_A]", ids(completed))
	}

	f.clock.t = f.clock.t.AddDate(0, 0, 1)
	third, err := f.rollover.InitializeDay(ctx)
	if err != nil {
		t.Fatalf("InitializeDay failed: %v", err)
	}
	if !third.Performed || third.Archived != "2025-03-10" {
		t.Errorf("next day result = %+v", third)
	}
	pending, completed, _ := f.tasks.Snapshot(ctx)
	if !slices.Equal(ids(pending), []string{"base_A", "base_B"}) || len(completed) != 0 {
		t.Errorf("pending=%v completed=%v", ids(pending), ids(completed))
	}
}

func TestInitializeDayFirstRunArchivesExistingLists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRolloverFixture(t)
	seed(t, f.store, KeyPending, []model.TaskItem{item("u1", "Left from an older install")})

	result, err := f.rollover.InitializeDay(ctx)
	if err != nil {
		t.Fatalf("InitializeDay failed: %v", err)
	}
	if result.Archived != "2025-03-09" || !slices.Equal(f.archiver.days, []string{"2025-03-09"}) {
		t.Errorf("Archived=%q days=%v, want 2025-03-09", result.Archived, f.archiver.days)
	}
}

func TestPerformRolloverArchivesEmptyLists(t *testing.T) {
	t.Parallel()
	f := newRolloverFixture(t)

	result, err := f.rollover.PerformRollover(context.Background(), "2025-03-09")
	if err != nil {
		t.Fatalf("PerformRollover failed: %v", err)
	}
	if result.Archived != "2025-03-09" {
		t.Errorf("Archived = %q, want 2025-03-09", result.Archived)
	}
}
