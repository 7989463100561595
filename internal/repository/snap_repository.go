package repository

import (
	"fmt"

	"gorm.io/gorm"

	"eventmind/internal/model"
)

type SnapRepository struct {
	db *gorm.DB
}

func NewSnapRepository(db *gorm.DB) *SnapRepository {
	return &SnapRepository{db: db}
}

func (r *SnapRepository) ListByEventID(eventID string) ([]model.Snap, error) {
	var list []model.Snap
	if err := r.db.Where("event_id = ?", eventID).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list snaps failed: %w", err)
	}
	return list, nil
}

func (r *SnapRepository) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	for i := 0; i < len(ids); i += deleteBatchSize {
		end := i + deleteBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := r.db.Where("id IN ?", ids[i:end]).Delete(&model.Snap{}).Error; err != nil {
			return fmt.Errorf("delete snaps batch failed: %w", err)
		}
	}
	return nil
}
