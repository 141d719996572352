package service

import "daily-checklist/internal/model"

// ComputePending returns items without duplicate ids (first occurrence wins)
// and without any item whose id is present in completed. The result is a new
// slice and applying it again to its own output changes nothing.
func ComputePending(items, completed []model.TaskItem) []model.TaskItem {
	done := make(map[string]struct{}, len(completed))
	for _, c := range completed {
		done[c.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]model.TaskItem, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		if _, ok := done[item.ID]; ok {
			continue
		}
		out = append(out, item)
	}
	return out
}

func indexOf(items []model.TaskItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func without(items []model.TaskItem, idx int) []model.TaskItem {
	out := make([]model.TaskItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}

func with(items []model.TaskItem, item model.TaskItem) []model.TaskItem {
	out := make([]model.TaskItem, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}
