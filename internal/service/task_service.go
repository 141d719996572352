package service

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"daily-checklist/internal/model"
)

// DefaultCategory is used for tasks created without a category.
const DefaultCategory = "uncategorized"

// TaskService owns the pending and completed lists. Every mutation works on
// the in-memory snapshot and only replaces it once both lists are persisted.
type TaskService struct {
	store           KVStore
	defaultCategory string
	now             func() time.Time
	newID           func() string

	mu        sync.Mutex
	loaded    bool
	pending   []model.TaskItem
	completed []model.TaskItem
}

func NewTaskService(store KVStore, defaultCategory string) *TaskService {
	if strings.TrimSpace(defaultCategory) == "" {
		defaultCategory = DefaultCategory
	}
	return &TaskService{
		store:           store,
		defaultCategory: defaultCategory,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// Load reads both lists from the store and returns the pending list after
// deduplication and removal of anything already completed.
func (s *TaskService) Load(ctx context.Context) ([]model.TaskItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(s.pending), nil
}

// LoadData reloads the store and returns copies of both lists.
func (s *TaskService) LoadData(ctx context.Context) ([]model.TaskItem, []model.TaskItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return nil, nil, err
	}
	return slices.Clone(s.pending), slices.Clone(s.completed), nil
}

// Snapshot returns the lists as last loaded or written, loading them first if
// needed.
func (s *TaskService) Snapshot(ctx context.Context) ([]model.TaskItem, []model.TaskItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, nil, err
	}
	return slices.Clone(s.pending), slices.Clone(s.completed), nil
}

// Add creates a pending task. Name is trimmed and must not be empty.
func (s *TaskService) Add(ctx context.Context, name, category string) (model.TaskItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.TaskItem{}, fmt.Errorf("%w: task name is empty", ErrValidation)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = s.defaultCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return model.TaskItem{}, err
	}

	item := model.TaskItem{
		ID:        s.newID(),
		Name:      name,
		Category:  category,
		CreatedAt: s.now().UTC(),
	}
	pending := with(s.pending, item)
	if err := writeTaskList(ctx, s.store, KeyPending, pending); err != nil {
		return model.TaskItem{}, err
	}
	s.pending = pending

	log.Printf("[info] task added id=%s category=%q", item.ID, item.Category)
	return item, nil
}

// Complete moves a pending task to the completed list and stamps its
// completion time.
func (s *TaskService) Complete(ctx context.Context, id string) (model.TaskItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return model.TaskItem{}, err
	}

	idx := indexOf(s.pending, id)
	if idx < 0 {
		return model.TaskItem{}, fmt.Errorf("%w: %q is not pending", ErrNotFound, id)
	}

	item := s.pending[idx]
	completedAt := s.now().UTC()
	item.CompletedAt = &completedAt

	pending := without(s.pending, idx)
	completed := with(s.completed, item)
	if err := s.persistLocked(ctx, pending, completed); err != nil {
		return model.TaskItem{}, err
	}

	log.Printf("[info] task completed id=%s", id)
	return item, nil
}

// Uncomplete moves a completed task back to the end of the pending list and
// clears its completion time.
func (s *TaskService) Uncomplete(ctx context.Context, id string) (model.TaskItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return model.TaskItem{}, err
	}

	idx := indexOf(s.completed, id)
	if idx < 0 {
		return model.TaskItem{}, fmt.Errorf("%w: %q is not completed", ErrNotFound, id)
	}

	item := s.completed[idx]
	item.CompletedAt = nil

	completed := without(s.completed, idx)
	pending := with(s.pending, item)
	if err := s.persistLocked(ctx, pending, completed); err != nil {
		return model.TaskItem{}, err
	}

	log.Printf("[info] task reopened id=%s", id)
	return item, nil
}

// Remove deletes a task permanently from the pending list, or from the
// completed list when fromCompleted is set.
func (s *TaskService) Remove(ctx context.Context, id string, fromCompleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	key, list := KeyPending, s.pending
	if fromCompleted {
		key, list = KeyCompleted, s.completed
	}
	idx := indexOf(list, id)
	if idx < 0 {
		return fmt.Errorf("%w: %q is not in %s", ErrNotFound, id, key)
	}

	updated := without(list, idx)
	if err := writeTaskList(ctx, s.store, key, updated); err != nil {
		return err
	}
	if fromCompleted {
		s.completed = updated
	} else {
		s.pending = updated
	}

	log.Printf("[info] task removed id=%s list=%s", id, key)
	return nil
}

// Replace overwrites both lists. Pending is deduplicated and filtered
// against completed before it is written.
func (s *TaskService) Replace(ctx context.Context, pending, completed []model.TaskItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	completed = ComputePending(completed, nil)
	pending = ComputePending(pending, completed)
	return s.persistLocked(ctx, pending, completed)
}

func (s *TaskService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.loadLocked(ctx)
}

func (s *TaskService) loadLocked(ctx context.Context) error {
	pending, err := readTaskList(ctx, s.store, KeyPending)
	if err != nil {
		return err
	}
	completed, err := readTaskList(ctx, s.store, KeyCompleted)
	if err != nil {
		return err
	}

	s.completed = ComputePending(completed, nil)
	s.pending = ComputePending(pending, s.completed)
	s.loaded = true
	return nil
}

// persistLocked writes pending then completed. On failure the snapshot keeps
// its previous value and a half-applied pending write is rolled back on a
// best effort basis.
func (s *TaskService) persistLocked(ctx context.Context, pending, completed []model.TaskItem) error {
	if err := writeTaskList(ctx, s.store, KeyPending, pending); err != nil {
		return err
	}
	if err := writeTaskList(ctx, s.store, KeyCompleted, completed); err != nil {
		if s.loaded {
			if rbErr := writeTaskList(ctx, s.store, KeyPending, s.pending); rbErr != nil {
				log.Printf("[warn] restore %s after failed write: %v", KeyPending, rbErr)
			}
		}
		return err
	}
	s.pending = pending
	s.completed = completed
	s.loaded = true
	return nil
}
