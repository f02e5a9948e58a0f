package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MealIcon is the display icon of a meal type
type MealIcon string

const (
	IconCoffee   MealIcon = "coffee"
	IconUtensils MealIcon = "utensils"
	IconMoon     MealIcon = "moon"
)

// ParseMealIcon accepts any letter case; empty defaults to utensils
func ParseMealIcon(s string) (MealIcon, error) {
	if s == "" {
		return IconUtensils, nil
	}
	switch icon := MealIcon(strings.ToLower(s)); icon {
	case IconCoffee, IconUtensils, IconMoon:
		return icon, nil
	}
	return "", fmt.Errorf("unknown meal icon %q (valid: coffee, utensils, moon)", s)
}

// CategoryType discriminates fasting from non-fasting menus
type CategoryType string

const (
	CategoryFasting    CategoryType = "fasting"
	CategoryNonFasting CategoryType = "non_fasting"
)

// ParseCategoryType accepts any letter case
func ParseCategoryType(s string) (CategoryType, error) {
	switch c := CategoryType(strings.ToLower(s)); c {
	case CategoryFasting, CategoryNonFasting:
		return c, nil
	}
	return "", fmt.Errorf("unknown meal category type %q (valid: fasting, non_fasting)", s)
}

// MealType is a time-of-day meal slot such as breakfast or lunch
type MealType struct {
	ID        string    `gorm:"primaryKey;size:50" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Icon      MealIcon  `gorm:"size:20;not null" json:"icon"`
	Color     string    `gorm:"size:100;not null" json:"color"`
	Active    bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Categories []MealCategory `gorm:"foreignKey:MealTypeID" json:"-"`
}

func (m *MealType) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Color == "" {
		m.Color = "bg-emerald-100 text-emerald-700"
	}
	return nil
}

// MealCategory is a priced menu within a meal type
type MealCategory struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	MealTypeID     string          `gorm:"size:50;not null;index" json:"mealTypeId"`
	Category       CategoryType    `gorm:"size:20;not null" json:"category"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	NormalPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"normalPrice"`
	SupportedPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"supportedPrice"`
	Active         bool            `gorm:"not null" json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	MealType *MealType `gorm:"foreignKey:MealTypeID" json:"-"`
}

func (m *MealCategory) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MealItem is an individual dish selectable within a category
type MealItem struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	MealCategoryID string    `gorm:"size:36;not null;index" json:"mealCategoryId"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Description    string    `gorm:"size:500" json:"description,omitempty"`
	ImageURL       string    `gorm:"size:255" json:"imageUrl,omitempty"`
	Color          string    `gorm:"size:50;not null" json:"color"`
	TotalAvailable int       `gorm:"not null;default:0" json:"totalAvailable"`
	Active         bool      `gorm:"not null" json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (m *MealItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Color == "" {
		m.Color = "#3B82F6"
	}
	return nil
}

// MealTypeRequest is the create/update payload for a meal type
type MealTypeRequest struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Icon   string `json:"icon,omitempty"`
	Color  string `json:"color,omitempty"`
	Active *bool  `json:"isActive,omitempty"`
}

// MealCategoryRequest is the create/update payload for a meal category
type MealCategoryRequest struct {
	MealTypeID     string           `json:"mealTypeId"`
	Category       string           `json:"category"`
	Name           string           `json:"name"`
	NormalPrice    *decimal.Decimal `json:"normalPrice"`
	SupportedPrice *decimal.Decimal `json:"supportedPrice"`
	Active         *bool            `json:"isActive,omitempty"`
}

// MealItemRequest is the create/update payload for a meal item
type MealItemRequest struct {
	MealCategoryID string `json:"mealCategoryId"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
	Color          string `json:"color,omitempty"`
	TotalAvailable int    `json:"totalAvailable"`
	Active         *bool  `json:"isActive,omitempty"`
}
