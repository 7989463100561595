package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"eventmind/internal/model"
)

// deleteBatchSize bounds IN-clause deletes across all repositories.
const deleteBatchSize = 100

type ParticipantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) GetByEventAndUser(eventID string, userID uint) (*model.Participant, error) {
	var p model.Participant
	if err := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query participant failed: %w", err)
	}
	return &p, nil
}

func (r *ParticipantRepository) ListByEventID(eventID string) ([]model.Participant, error) {
	var list []model.Participant
	if err := r.db.Where("event_id = ?", eventID).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list participants failed: %w", err)
	}
	return list, nil
}

func (r *ParticipantRepository) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	for i := 0; i < len(ids); i += deleteBatchSize {
		end := i + deleteBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := r.db.Where("id IN ?", ids[i:end]).Delete(&model.Participant{}).Error; err != nil {
			return fmt.Errorf("delete participants batch failed: %w", err)
		}
	}
	return nil
}
