package model

import "time"

// KVEntry is one row of the key-value store.
type KVEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ArchiveRecord keeps the lists of a finished day. Period is YYYY-MM, Day is
// YYYY-MM-DD; Pending and Completed hold JSON encoded task lists.
type ArchiveRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Period    string `gorm:"index"`
	Day       string `gorm:"uniqueIndex"`
	Pending   string
	Completed string
	CreatedAt time.Time
	UpdatedAt time.Time
}
