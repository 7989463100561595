package model

import "time"

// Asset tracks the ingestion status of one uploaded document or image.
// The storage path is the natural key so re-ingestion overwrites in place.
// The row is written only when the whole pipeline has succeeded.
type Asset struct {
	StoragePath string    `gorm:"primaryKey;size:512" json:"storage_path"`
	EventID     string    `gorm:"size:64;not null;index" json:"event_id"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Embedded    bool      `gorm:"not null" json:"embedded"`
	Chunks      int       `gorm:"not null" json:"chunks"`
	UpdatedAt   time.Time `json:"updated_at"`
}
