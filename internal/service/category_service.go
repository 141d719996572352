package service

import (
	"context"
	"slices"
	"strings"
)

// CategoryService lists the categories in use.
type CategoryService struct {
	tasks   *TaskService
	catalog *CatalogService
}

func NewCategoryService(tasks *TaskService, catalog *CatalogService) *CategoryService {
	return &CategoryService{tasks: tasks, catalog: catalog}
}

// List returns the distinct categories of pending, completed and catalog
// tasks, sorted case-insensitively.
func (s *CategoryService) List(ctx context.Context) ([]string, error) {
	pending, completed, err := s.tasks.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	templates, _ := s.catalog.Load(ctx)

	seen := make(map[string]struct{})
	var categories []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		categories = append(categories, name)
	}
	for _, t := range pending {
		add(t.Category)
	}
	for _, t := range completed {
		add(t.Category)
	}
	for _, t := range templates {
		add(t.Category)
	}

	slices.SortFunc(categories, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return categories, nil
}
