package model

import (
	"strings"
	"time"
)

// BasicIDPrefix marks ids of tasks that come from the basic task catalog.
const BasicIDPrefix = "base_"

// TaskItem is a single entry of the pending or completed list.
type TaskItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// IsBasic reports whether the item was seeded from the catalog.
func (t TaskItem) IsBasic() bool {
	return strings.HasPrefix(t.ID, BasicIDPrefix)
}

// Template is a catalog entry used to reseed the pending list every day.
type Template struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category,omitempty" yaml:"category"`
}

// Instantiate builds a pending task for the given day from the template.
func (t Template) Instantiate(createdAt time.Time) TaskItem {
	return TaskItem{
		ID:        t.ID,
		Name:      t.Name,
		Category:  t.Category,
		CreatedAt: createdAt,
	}
}
