package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"daily-checklist/internal/model"
)

const dayLayout = "2006-01-02"

// ArchiveRepository stores the lists of finished days grouped by month.
type ArchiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// Archive writes the snapshot of day. A second archive of the same day
// replaces the first one.
func (r *ArchiveRepository) Archive(ctx context.Context, day string, pending, completed []model.TaskItem) error {
	parsed, err := time.Parse(dayLayout, day)
	if err != nil {
		return fmt.Errorf("archive day %q: %w", day, err)
	}
	pendingJSON, err := json.Marshal(nonNil(pending))
	if err != nil {
		return fmt.Errorf("encode pending: %w", err)
	}
	completedJSON, err := json.Marshal(nonNil(completed))
	if err != nil {
		return fmt.Errorf("encode completed: %w", err)
	}

	record := model.ArchiveRecord{
		Period:    parsed.Format("2006-01"),
		Day:       day,
		Pending:   string(pendingJSON),
		Completed: string(completedJSON),
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"pending", "completed", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("archive day %q: %w", day, err)
	}
	return nil
}

// ArchivedDay is a decoded archive record.
type ArchivedDay struct {
	Day       string
	Pending   []model.TaskItem
	Completed []model.TaskItem
}

// ListByPeriod returns the archived days of a YYYY-MM period, oldest first.
func (r *ArchiveRepository) ListByPeriod(ctx context.Context, period string) ([]ArchivedDay, error) {
	var records []model.ArchiveRecord
	if err := r.db.WithContext(ctx).Where("period = ?", period).Order("day ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list archive %q: %w", period, err)
	}

	days := make([]ArchivedDay, 0, len(records))
	for _, rec := range records {
		day := ArchivedDay{Day: rec.Day}
		if err := json.Unmarshal([]byte(rec.Pending), &day.Pending); err != nil {
			return nil, fmt.Errorf("decode pending of %s: %w", rec.Day, err)
		}
		if err := json.Unmarshal([]byte(rec.Completed), &day.Completed); err != nil {
			return nil, fmt.Errorf("decode completed of %s: %w", rec.Day, err)
		}
		days = append(days, day)
	}
	return days, nil
}

func nonNil(items []model.TaskItem) []model.TaskItem {
	if items == nil {
		return []model.TaskItem{}
	}
	return items
}
