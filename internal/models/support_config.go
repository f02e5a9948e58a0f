package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SupportConfig holds the salary threshold below which meals are subsidized.
// At most one row is active.
type SupportConfig struct {
	ID                  string          `gorm:"primaryKey;size:36" json:"id"`
	MaxSalaryForSupport decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"maxSalaryForSupport"`
	Active              bool            `gorm:"not null;index" json:"isActive"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

func (s *SupportConfig) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
