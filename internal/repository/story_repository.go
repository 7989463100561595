package repository

import (
	"fmt"

	"gorm.io/gorm"

	"eventmind/internal/model"
)

type StoryRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

func (r *StoryRepository) ListByEventID(eventID string) ([]model.Story, error) {
	var list []model.Story
	if err := r.db.Where("event_id = ?", eventID).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list stories failed: %w", err)
	}
	return list, nil
}

func (r *StoryRepository) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	for i := 0; i < len(ids); i += deleteBatchSize {
		end := i + deleteBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := r.db.Where("id IN ?", ids[i:end]).Delete(&model.Story{}).Error; err != nil {
			return fmt.Errorf("delete stories batch failed: %w", err)
		}
	}
	return nil
}
