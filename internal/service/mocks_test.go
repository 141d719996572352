package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"daily-checklist/internal/model"
)

var errDiskFull = errors.New("disk full")

// memStore is an in-memory KVStore that can be told to fail.
type memStore struct {
	mu      sync.Mutex
	data    map[string]string
	writes  []string
	failGet error
	failSet map[string]error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, failSet: map[string]error{}}
}

func (m *memStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return "", false, m.failGet
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failSet[key]; err != nil {
		return err
	}
	m.data[key] = value
	m.writes = append(m.writes, key)
	return nil
}

func (m *memStore) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

// recordingArchiver keeps what it was asked to archive.
type recordingArchiver struct {
	days      []string
	pending   [][]model.TaskItem
	completed [][]model.TaskItem
	err       error
}

func (a *recordingArchiver) Archive(ctx context.Context, day string, pending, completed []model.TaskItem) error {
	if a.err != nil {
		return a.err
	}
	a.days = append(a.days, day)
	a.pending = append(a.pending, pending)
	a.completed = append(a.completed, completed)
	return nil
}

// fixedClock returns a settable clock for services under test.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time {
	return c.t
}

func ids(items []model.TaskItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func item(id, name string) model.TaskItem {
	return model.TaskItem{ID: id, Name: name, Category: DefaultCategory}
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}
