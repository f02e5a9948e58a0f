package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Employee is a person who may redeem meals at the cafeteria
type Employee struct {
	ID         string           `gorm:"primaryKey;size:36" json:"id"`
	EmployeeID string           `gorm:"size:50;not null;uniqueIndex" json:"employeeId"`
	CardID     *string          `gorm:"size:100;uniqueIndex" json:"cardId,omitempty"`
	ShortCode  *string          `gorm:"size:4;uniqueIndex" json:"shortCode,omitempty"`
	Name       string           `gorm:"size:255;not null" json:"name"`
	Department string           `gorm:"size:100;not null;index" json:"department"`
	Salary     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"salary,omitempty"`
	PhotoURL   string           `gorm:"size:255" json:"photoUrl,omitempty"`
	Active     bool             `gorm:"not null" json:"isActive"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`

	// EligibleForSupport is computed on read against the active threshold
	EligibleForSupport bool `gorm:"-" json:"eligibleForSupport"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EmployeeRequest is the create/update payload for an employee
type EmployeeRequest struct {
	EmployeeID string           `json:"employeeId"`
	CardID     *string          `json:"cardId,omitempty"`
	ShortCode  *string          `json:"shortCode,omitempty"`
	Name       string           `json:"name"`
	Department string           `json:"department"`
	Salary     *decimal.Decimal `json:"salary,omitempty"`
	PhotoURL   string           `json:"photoUrl,omitempty"`
	Active     *bool            `json:"isActive,omitempty"`
}
