package model

import "time"

// User carries denormalized event membership fields. They must be cleared
// together with the participant row during teardown.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email         string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	ActiveEventID string    `gorm:"size:64;index" json:"active_event_id"`
	EventRole     string    `gorm:"size:16" json:"event_role"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
