package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"eventmind/internal/model"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetByID(id string) (*model.Event, error) {
	var event model.Event
	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query event failed: %w", err)
	}
	return &event, nil
}

// ListEndedBefore returns events whose end time is older than cutoff and
// that have not been torn down yet. Used by the expiry sweep. Events that
// were never given a schedule carry a zero end time and must not match.
func (r *EventRepository) ListEndedBefore(cutoff time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.
		Where("end_time > ? AND end_time < ?", time.Unix(0, 0), cutoff).
		Order("end_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list ended events failed: %w", err)
	}
	return events, nil
}

func (r *EventRepository) UpdateStatus(id, status string) error {
	if err := r.db.Model(&model.Event{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return fmt.Errorf("update event status failed: %w", err)
	}
	return nil
}

func (r *EventRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Event{}).Error; err != nil {
		return fmt.Errorf("delete event failed: %w", err)
	}
	return nil
}
