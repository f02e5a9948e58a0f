package repository

import (
	"context"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"gorm.io/gorm"
)

// SupportConfigRepository defines the interface for subsidy threshold storage
type SupportConfigRepository interface {
	FindActive(ctx context.Context) (*models.SupportConfig, error)
	Activate(ctx context.Context, cfg *models.SupportConfig) error
}

// GormSupportConfigRepository implements SupportConfigRepository
type GormSupportConfigRepository struct {
	db *gorm.DB
}

// NewSupportConfigRepository creates a new support config repository
func NewSupportConfigRepository(db *gorm.DB) *GormSupportConfigRepository {
	return &GormSupportConfigRepository{db: db}
}

// FindActive returns the active config, newest first if more than one is flagged
func (r *GormSupportConfigRepository) FindActive(ctx context.Context) (*models.SupportConfig, error) {
	var cfg models.SupportConfig
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		First(&cfg).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cfg, nil
}

// Activate deactivates every active config and inserts cfg as the active one, atomically
func (r *GormSupportConfigRepository) Activate(ctx context.Context, cfg *models.SupportConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.SupportConfig{}).
			Where("active = ?", true).
			Update("active", false).Error
		if err != nil {
			return err
		}

		cfg.Active = true
		return tx.Create(cfg).Error
	})
}
