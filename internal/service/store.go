package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"daily-checklist/internal/model"
)

// Keys of the persisted state.
const (
	KeyPending   = "signInItems"
	KeyCompleted = "completedItems"
	KeyCatalog   = "baseItems"
	KeyDayMarker = "@last_saved_date"
)

// KVStore is the persistent string key-value store.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Archiver receives the lists of a day that has ended. It is write-only from
// the rollover's point of view.
type Archiver interface {
	Archive(ctx context.Context, day string, pending, completed []model.TaskItem) error
}

// readTaskList loads a task list. A missing key or a value that is not a
// JSON list of tasks yields an empty list; only store failures are errors.
func readTaskList(ctx context.Context, store KVStore, key string) ([]model.TaskItem, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, storageError("read "+key, err)
	}
	if !ok || raw == "" {
		return []model.TaskItem{}, nil
	}

	var items []model.TaskItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("[warn] %s is not a task list, treating as empty: %v", key, err)
		return []model.TaskItem{}, nil
	}

	valid := make([]model.TaskItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			log.Printf("[warn] %s: dropping task without id (name=%q)", key, item.Name)
			continue
		}
		valid = append(valid, item)
	}
	return valid, nil
}

func writeTaskList(ctx context.Context, store KVStore, key string, items []model.TaskItem) error {
	if items == nil {
		items = []model.TaskItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(data)); err != nil {
		return storageError("write "+key, err)
	}
	return nil
}
