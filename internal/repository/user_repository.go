package repository

import (
	"fmt"

	"gorm.io/gorm"

	"eventmind/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ClearEventFields resets the denormalized membership fields for the given
// users, but only where they still point at the event being torn down.
func (r *UserRepository) ClearEventFields(userIDs []uint, eventID string) error {
	if len(userIDs) == 0 {
		return nil
	}
	for i := 0; i < len(userIDs); i += deleteBatchSize {
		end := i + deleteBatchSize
		if end > len(userIDs) {
			end = len(userIDs)
		}
		err := r.db.Model(&model.User{}).
			Where("id IN ? AND active_event_id = ?", userIDs[i:end], eventID).
			Updates(map[string]interface{}{"active_event_id": "", "event_role": ""}).Error
		if err != nil {
			return fmt.Errorf("clear user event fields batch failed: %w", err)
		}
	}
	return nil
}
