package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/repository"
	"github.com/shopspring/decimal"
)

// CatalogService handles meal types, categories and items
type CatalogService struct {
	types      repository.MealTypeRepository
	categories repository.MealCategoryRepository
	items      repository.MealItemRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(types repository.MealTypeRepository, categories repository.MealCategoryRepository, items repository.MealItemRepository) *CatalogService {
	return &CatalogService{
		types:      types,
		categories: categories,
		items:      items,
	}
}

// ListMealTypes returns meal types ordered by name
func (s *CatalogService) ListMealTypes(ctx context.Context, activeOnly bool) ([]models.MealType, error) {
	return s.types.List(ctx, activeOnly)
}

// GetMealType returns a meal type by id
func (s *CatalogService) GetMealType(ctx context.Context, id string) (*models.MealType, error) {
	mealType, err := s.types.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMealTypeNotFound
	}
	return mealType, err
}

// CreateMealType stores a new meal type. The id may be chosen by the caller, e.g. "breakfast".
func (s *CatalogService) CreateMealType(ctx context.Context, req models.MealTypeRequest) (*models.MealType, error) {
	mealType := &models.MealType{ID: strings.TrimSpace(req.ID), Active: true}
	if err := applyMealType(mealType, req); err != nil {
		return nil, err
	}

	if mealType.ID != "" {
		if _, err := s.types.GetByID(ctx, mealType.ID); err == nil {
			return nil, ErrMealTypeIDTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	if err := s.types.Create(ctx, mealType); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrMealTypeIDTaken
		}
		return nil, fmt.Errorf("failed to save meal type: %w", err)
	}
	return mealType, nil
}

// UpdateMealType replaces the editable fields of a meal type
func (s *CatalogService) UpdateMealType(ctx context.Context, id string, req models.MealTypeRequest) (*models.MealType, error) {
	mealType, err := s.GetMealType(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyMealType(mealType, req); err != nil {
		return nil, err
	}
	if err := s.types.Update(ctx, mealType); err != nil {
		return nil, fmt.Errorf("failed to save meal type: %w", err)
	}
	return mealType, nil
}

func applyMealType(m *models.MealType, req models.MealTypeRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return invalidf("name is required")
	}
	icon, err := models.ParseMealIcon(req.Icon)
	if err != nil {
		return invalidf("%v", err)
	}

	m.Name = name
	m.Icon = icon
	if req.Color != "" {
		m.Color = req.Color
	}
	if req.Active != nil {
		m.Active = *req.Active
	}
	return nil
}

// ToggleMealType flips a meal type between active and inactive
func (s *CatalogService) ToggleMealType(ctx context.Context, id string) (*models.MealType, error) {
	mealType, err := s.GetMealType(ctx, id)
	if err != nil {
		return nil, err
	}
	mealType.Active = !mealType.Active
	if err := s.types.Update(ctx, mealType); err != nil {
		return nil, err
	}
	return mealType, nil
}

// DeleteMealType removes a meal type without categories
func (s *CatalogService) DeleteMealType(ctx context.Context, id string) error {
	categories, err := s.categories.List(ctx, id, false)
	if err != nil {
		return err
	}
	if len(categories) > 0 {
		return ErrMealTypeInUse
	}

	err = s.types.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMealTypeNotFound
	}
	return err
}

// ListMealCategories returns categories, optionally of one meal type
func (s *CatalogService) ListMealCategories(ctx context.Context, mealTypeID string, activeOnly bool) ([]models.MealCategory, error) {
	return s.categories.List(ctx, mealTypeID, activeOnly)
}

// GetMealCategory returns a category by id
func (s *CatalogService) GetMealCategory(ctx context.Context, id string) (*models.MealCategory, error) {
	category, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMealCategoryNotFound
	}
	return category, err
}

// CreateMealCategory stores a new priced category under an existing meal type
func (s *CatalogService) CreateMealCategory(ctx context.Context, req models.MealCategoryRequest) (*models.MealCategory, error) {
	category := &models.MealCategory{Active: true}
	if err := s.applyMealCategory(ctx, category, req); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to save meal category: %w", err)
	}
	return category, nil
}

// UpdateMealCategory replaces the editable fields of a category
func (s *CatalogService) UpdateMealCategory(ctx context.Context, id string, req models.MealCategoryRequest) (*models.MealCategory, error) {
	category, err := s.GetMealCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyMealCategory(ctx, category, req); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to save meal category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) applyMealCategory(ctx context.Context, c *models.MealCategory, req models.MealCategoryRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return invalidf("name is required")
	}
	kind, err := models.ParseCategoryType(req.Category)
	if err != nil {
		return invalidf("%v", err)
	}
	if err := nonNegative(req.NormalPrice, "normal price"); err != nil {
		return err
	}
	if err := nonNegative(req.SupportedPrice, "supported price"); err != nil {
		return err
	}
	if req.MealTypeID == "" {
		return invalidf("meal type id is required")
	}
	if _, err := s.types.GetByID(ctx, req.MealTypeID); errors.Is(err, repository.ErrNotFound) {
		return invalidf("meal type %q does not exist", req.MealTypeID)
	} else if err != nil {
		return err
	}

	c.MealTypeID = req.MealTypeID
	c.Category = kind
	c.Name = name
	c.NormalPrice = req.NormalPrice.Round(2)
	c.SupportedPrice = req.SupportedPrice.Round(2)
	if req.Active != nil {
		c.Active = *req.Active
	}
	return nil
}

// ToggleMealCategory flips a category between active and inactive
func (s *CatalogService) ToggleMealCategory(ctx context.Context, id string) (*models.MealCategory, error) {
	category, err := s.GetMealCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Active = !category.Active
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteMealCategory removes a category without items
func (s *CatalogService) DeleteMealCategory(ctx context.Context, id string) error {
	items, err := s.items.List(ctx, id, false)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		return ErrMealCategoryInUse
	}

	err = s.categories.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMealCategoryNotFound
	}
	return err
}

// ListMealItems returns items, optionally of one category
func (s *CatalogService) ListMealItems(ctx context.Context, mealCategoryID string, activeOnly bool) ([]models.MealItem, error) {
	return s.items.List(ctx, mealCategoryID, activeOnly)
}

// GetMealItem returns an item by id
func (s *CatalogService) GetMealItem(ctx context.Context, id string) (*models.MealItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMealItemNotFound
	}
	return item, err
}

// CreateMealItem stores a new item under an existing category
func (s *CatalogService) CreateMealItem(ctx context.Context, req models.MealItemRequest) (*models.MealItem, error) {
	item := &models.MealItem{Active: true}
	if err := s.applyMealItem(ctx, item, req); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save meal item: %w", err)
	}
	return item, nil
}

// UpdateMealItem replaces the editable fields of an item
func (s *CatalogService) UpdateMealItem(ctx context.Context, id string, req models.MealItemRequest) (*models.MealItem, error) {
	item, err := s.GetMealItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyMealItem(ctx, item, req); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save meal item: %w", err)
	}
	return item, nil
}

func (s *CatalogService) applyMealItem(ctx context.Context, m *models.MealItem, req models.MealItemRequest) error {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return invalidf("name is required")
	case req.TotalAvailable < 0:
		return invalidf("total available must not be negative")
	case req.MealCategoryID == "":
		return invalidf("meal category id is required")
	}
	if _, err := s.categories.GetByID(ctx, req.MealCategoryID); errors.Is(err, repository.ErrNotFound) {
		return invalidf("meal category %q does not exist", req.MealCategoryID)
	} else if err != nil {
		return err
	}

	m.MealCategoryID = req.MealCategoryID
	m.Name = name
	m.Description = req.Description
	m.ImageURL = req.ImageURL
	if req.Color != "" {
		m.Color = req.Color
	}
	m.TotalAvailable = req.TotalAvailable
	if req.Active != nil {
		m.Active = *req.Active
	}
	return nil
}

// UpdateAvailability sets the stock counter of an item. Redemptions never change it.
func (s *CatalogService) UpdateAvailability(ctx context.Context, id string, total int) (*models.MealItem, error) {
	if total < 0 {
		return nil, invalidf("total available must not be negative")
	}
	item, err := s.GetMealItem(ctx, id)
	if err != nil {
		return nil, err
	}
	item.TotalAvailable = total
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ToggleMealItem flips an item between active and inactive
func (s *CatalogService) ToggleMealItem(ctx context.Context, id string) (*models.MealItem, error) {
	item, err := s.GetMealItem(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Active = !item.Active
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteMealItem removes an item. Past records keep their item snapshot.
func (s *CatalogService) DeleteMealItem(ctx context.Context, id string) error {
	err := s.items.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMealItemNotFound
	}
	return err
}

func nonNegative(d *decimal.Decimal, field string) error {
	if d == nil {
		return invalidf("%s is required", field)
	}
	if d.IsNegative() {
		return invalidf("%s must not be negative", field)
	}
	return nil
}
