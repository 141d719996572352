package service

import (
	"context"
	"log"
	"sync"
	"time"

	"daily-checklist/internal/model"
)

// DayLayout is the format of the persisted day marker.
const DayLayout = "2006-01-02"

// DayChange is the outcome of a day marker check.
type DayChange struct {
	NewDay bool
	// Previous is the day the current lists belong to: the old marker, or
	// yesterday when no valid marker was stored.
	Previous string
	Today    string
	// FirstRun is set when no marker was stored at all.
	FirstRun bool
}

// RolloverResult reports what InitializeDay or PerformRollover did.
type RolloverResult struct {
	Performed bool
	Archived  string
	Pending   int
	Warnings  []Warning
}

// RolloverService resets the lists once per calendar day.
type RolloverService struct {
	store    KVStore
	tasks    *TaskService
	catalog  *CatalogService
	archiver Archiver
	loc      *time.Location
	now      func() time.Time

	mu sync.Mutex
}

func NewRolloverService(store KVStore, tasks *TaskService, catalog *CatalogService, archiver Archiver, loc *time.Location) *RolloverService {
	if loc == nil {
		loc = time.Local
	}
	return &RolloverService{
		store:    store,
		tasks:    tasks,
		catalog:  catalog,
		archiver: archiver,
		loc:      loc,
		now:      time.Now,
	}
}

// InitializeDay runs the rollover if the day marker shows a new day.
func (s *RolloverService) InitializeDay(ctx context.Context) (RolloverResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change, err := s.CheckDateChange(ctx)
	if err != nil {
		return RolloverResult{}, err
	}
	if !change.NewDay {
		return RolloverResult{}, nil
	}
	return s.rollover(ctx, change.Previous, !change.FirstRun)
}

// CheckDateChange compares the day marker with today. On a new day it writes
// today's date before reporting, so a second call on the same day reports no
// change.
func (s *RolloverService) CheckDateChange(ctx context.Context) (DayChange, error) {
	now := s.now().In(s.loc)
	today := now.Format(DayLayout)

	marker, ok, err := s.store.Get(ctx, KeyDayMarker)
	if err != nil {
		return DayChange{}, storageError("read "+KeyDayMarker, err)
	}
	if ok && marker == today {
		return DayChange{Today: today, Previous: today}, nil
	}

	if err := s.store.Set(ctx, KeyDayMarker, today); err != nil {
		return DayChange{}, storageError("write "+KeyDayMarker, err)
	}

	previous := now.AddDate(0, 0, -1).Format(DayLayout)
	if ok {
		if _, perr := time.Parse(DayLayout, marker); perr == nil {
			previous = marker
		} else {
			log.Printf("[warn] ignoring malformed day marker %q", marker)
		}
	}
	log.Printf("[info] new day %s (previous %s)", today, previous)
	return DayChange{NewDay: true, Previous: previous, Today: today, FirstRun: !ok}, nil
}

// PerformRollover archives the current lists under previousDate and reseeds
// the pending list from the catalog. Open tasks created by the user are
// carried over; the completed list starts empty. A failed archive is a
// warning and does not stop the reset.
func (s *RolloverService) PerformRollover(ctx context.Context, previousDate string) (RolloverResult, error) {
	return s.rollover(ctx, previousDate, true)
}

// rollover skips the archive for empty lists unless archiveEmpty is set, so a
// first run does not record a day that never had lists.
func (s *RolloverService) rollover(ctx context.Context, previousDate string, archiveEmpty bool) (RolloverResult, error) {
	pending, completed, err := s.tasks.LoadData(ctx)
	if err != nil {
		return RolloverResult{}, err
	}

	result := RolloverResult{Performed: true}
	if s.archiver != nil && (archiveEmpty || len(pending)+len(completed) > 0) {
		if err := s.archiver.Archive(ctx, previousDate, pending, completed); err != nil {
			w := Warning{Op: "archive " + previousDate, Err: err}
			log.Printf("[warn] %v", w)
			result.Warnings = append(result.Warnings, w)
		} else {
			result.Archived = previousDate
		}
	}

	templates, warnings := s.catalog.Load(ctx)
	result.Warnings = append(result.Warnings, warnings...)

	next := seedPending(templates, ComputePending(pending, completed), s.now().UTC())
	if err := s.tasks.Replace(ctx, next, []model.TaskItem{}); err != nil {
		return RolloverResult{Warnings: result.Warnings}, err
	}
	result.Pending = len(next)

	log.Printf("[info] rollover done archived=%q templates=%d pending=%d warnings=%d",
		result.Archived, len(templates), len(next), len(result.Warnings))
	return result, nil
}

// seedPending puts the catalog templates first and keeps open user tasks
// after them. Basic tasks left over from the previous day are replaced by
// their fresh template instance, or dropped if the template is gone.
func seedPending(templates []model.Template, open []model.TaskItem, createdAt time.Time) []model.TaskItem {
	seen := make(map[string]struct{}, len(templates)+len(open))
	out := make([]model.TaskItem, 0, len(templates)+len(open))
	for _, tpl := range templates {
		if _, dup := seen[tpl.ID]; dup {
			continue
		}
		seen[tpl.ID] = struct{}{}
		out = append(out, tpl.Instantiate(createdAt))
	}
	for _, item := range open {
		if item.IsBasic() {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
