package model

import "time"

// Snap is a shared photo scoped to an event, with a backing storage file.
type Snap struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     string    `gorm:"size:64;not null;index" json:"event_id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	StoragePath string    `gorm:"size:512;not null" json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}
