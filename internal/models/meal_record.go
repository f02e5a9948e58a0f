package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceType records which price tier was charged
type PriceType string

const (
	PriceNormal    PriceType = "normal"
	PriceSupported PriceType = "supported"
)

// RedemptionDateLayout is the calendar-day key stored on every meal record
const RedemptionDateLayout = "2006-01-02"

// MealRecord is one redeemed meal. Price, salary and naming fields are
// copied at redemption time and never follow later catalog edits.
type MealRecord struct {
	ID             string           `gorm:"primaryKey;size:36" json:"id"`
	OrderNumber    int64            `gorm:"not null;uniqueIndex" json:"orderNumber,string"`
	EmployeeRefID  string           `gorm:"column:employee_id;size:36;not null;uniqueIndex:idx_meal_once_per_day,priority:1" json:"-"`
	CardID         string           `gorm:"size:100;not null;index" json:"cardId"`
	MealTypeID     string           `gorm:"size:50;not null;uniqueIndex:idx_meal_once_per_day,priority:2" json:"mealTypeId"`
	MealCategoryID string           `gorm:"size:36;not null;index" json:"mealCategoryId"`
	MealName       string           `gorm:"size:100;not null" json:"mealName"`
	Category       CategoryType     `gorm:"size:20;not null" json:"category"`
	PriceType      PriceType        `gorm:"size:20;not null" json:"priceType"`
	NormalPrice    decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"normalPrice"`
	SupportedPrice decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"supportedPrice"`
	ActualPrice    decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"actualPrice"`
	SupportAmount  decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"supportAmount"`
	EmployeeSalary *decimal.Decimal `gorm:"type:decimal(10,2)" json:"employeeSalary,omitempty"`
	RecordedAt     time.Time        `gorm:"not null;index" json:"timestamp"`
	RedemptionDate string           `gorm:"size:10;not null;uniqueIndex:idx_meal_once_per_day,priority:3" json:"redemptionDate"`
	RecordedByID   *string          `gorm:"column:recorded_by_user_id;size:36" json:"recordedByUserId,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`

	Employee *Employee        `gorm:"foreignKey:EmployeeRefID" json:"-"`
	Items    []MealRecordItem `gorm:"foreignKey:MealRecordID" json:"mealItems,omitempty"`

	// EmployeeID is the employee's business identifier, filled from Employee on read
	EmployeeID string `gorm:"-" json:"employeeId"`
}

func (m *MealRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// AfterFind exposes the business employee id without a second query when preloaded
func (m *MealRecord) AfterFind(tx *gorm.DB) error {
	if m.Employee != nil {
		m.EmployeeID = m.Employee.EmployeeID
	}
	return nil
}

// MealRecordItem is one selected dish on a meal record
type MealRecordItem struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	MealRecordID string          `gorm:"size:36;not null;index" json:"mealRecordId"`
	MealItemID   string          `gorm:"size:36;not null;index" json:"mealItemId"`
	MealItemName string          `gorm:"size:100;not null" json:"mealItemName"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	PricePerItem decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"pricePerItem"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (m *MealRecordItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// SelectedItem is a dish chosen at the kiosk
type SelectedItem struct {
	MealItemID string `json:"mealItemId"`
	Quantity   int    `json:"quantity"`
}

// RecordMealRequest is the redemption payload. CardID may hold a card id or a short code.
type RecordMealRequest struct {
	CardID         string         `json:"cardId"`
	MealCategoryID string         `json:"mealCategoryId"`
	Items          []SelectedItem `json:"selectedItems,omitempty"`
}
