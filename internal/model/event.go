package model

import "time"

// Event lifecycle statuses.
const (
	EventStatusActive  = "active"
	EventStatusEnded   = "ended"
	EventStatusExpired = "expired"
)

// Event is the owning record for all per-event content. Its ID doubles as
// the vector index namespace, which is the tenant isolation boundary.
type Event struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	HostID    uint      `gorm:"not null;index" json:"host_id"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `gorm:"index" json:"end_time"`
	Status    string    `gorm:"size:16;not null;default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
