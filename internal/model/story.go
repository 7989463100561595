package model

import "time"

// Story is a posted story scoped to an event, with a backing storage file.
type Story struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     string    `gorm:"size:64;not null;index" json:"event_id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	StoragePath string    `gorm:"size:512;not null" json:"storage_path"`
	Caption     string    `gorm:"size:512" json:"caption"`
	CreatedAt   time.Time `json:"created_at"`
}
