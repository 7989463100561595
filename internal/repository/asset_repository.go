package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventmind/internal/model"
)

type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// Upsert writes the asset record keyed by storage path. Re-ingesting the
// same path overwrites the previous row, matching the vector overwrite
// semantics.
func (r *AssetRepository) Upsert(asset *model.Asset) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_path"}},
		UpdateAll: true,
	}).Create(asset).Error
	if err != nil {
		return fmt.Errorf("upsert asset failed: %w", err)
	}
	return nil
}

func (r *AssetRepository) GetByPath(storagePath string) (*model.Asset, error) {
	var asset model.Asset
	if err := r.db.Where("storage_path = ?", storagePath).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query asset failed: %w", err)
	}
	return &asset, nil
}

func (r *AssetRepository) ListByEventID(eventID string) ([]model.Asset, error) {
	var assets []model.Asset
	if err := r.db.Where("event_id = ?", eventID).Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("list assets failed: %w", err)
	}
	return assets, nil
}

func (r *AssetRepository) DeleteByPaths(storagePaths []string) error {
	if len(storagePaths) == 0 {
		return nil
	}
	for i := 0; i < len(storagePaths); i += deleteBatchSize {
		end := i + deleteBatchSize
		if end > len(storagePaths) {
			end = len(storagePaths)
		}
		if err := r.db.Where("storage_path IN ?", storagePaths[i:end]).Delete(&model.Asset{}).Error; err != nil {
			return fmt.Errorf("delete assets batch failed: %w", err)
		}
	}
	return nil
}
