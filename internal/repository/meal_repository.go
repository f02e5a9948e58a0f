package repository

import (
	"context"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"gorm.io/gorm"
)

// MealTypeRepository defines the interface for meal type data access
type MealTypeRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.MealType, error)
	GetByID(ctx context.Context, id string) (*models.MealType, error)
	Create(ctx context.Context, mealType *models.MealType) error
	Update(ctx context.Context, mealType *models.MealType) error
	Delete(ctx context.Context, id string) error
}

// MealCategoryRepository defines the interface for meal category data access
type MealCategoryRepository interface {
	List(ctx context.Context, mealTypeID string, activeOnly bool) ([]models.MealCategory, error)
	GetByID(ctx context.Context, id string) (*models.MealCategory, error)
	Create(ctx context.Context, category *models.MealCategory) error
	Update(ctx context.Context, category *models.MealCategory) error
	Delete(ctx context.Context, id string) error
}

// MealItemRepository defines the interface for meal item data access
type MealItemRepository interface {
	List(ctx context.Context, mealCategoryID string, activeOnly bool) ([]models.MealItem, error)
	GetByID(ctx context.Context, id string) (*models.MealItem, error)
	Create(ctx context.Context, item *models.MealItem) error
	Update(ctx context.Context, item *models.MealItem) error
	Delete(ctx context.Context, id string) error
}

// GormMealTypeRepository implements MealTypeRepository
type GormMealTypeRepository struct {
	db *gorm.DB
}

func NewMealTypeRepository(db *gorm.DB) *GormMealTypeRepository {
	return &GormMealTypeRepository{db: db}
}

func (r *GormMealTypeRepository) List(ctx context.Context, activeOnly bool) ([]models.MealType, error) {
	var types []models.MealType
	q := r.db.WithContext(ctx).Order("name")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *GormMealTypeRepository) GetByID(ctx context.Context, id string) (*models.MealType, error) {
	var mealType models.MealType
	if err := r.db.WithContext(ctx).First(&mealType, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &mealType, nil
}

func (r *GormMealTypeRepository) Create(ctx context.Context, mealType *models.MealType) error {
	return translate(r.db.WithContext(ctx).Create(mealType).Error)
}

func (r *GormMealTypeRepository) Update(ctx context.Context, mealType *models.MealType) error {
	return translate(r.db.WithContext(ctx).Save(mealType).Error)
}

func (r *GormMealTypeRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &models.MealType{}, id)
}

// GormMealCategoryRepository implements MealCategoryRepository
type GormMealCategoryRepository struct {
	db *gorm.DB
}

func NewMealCategoryRepository(db *gorm.DB) *GormMealCategoryRepository {
	return &GormMealCategoryRepository{db: db}
}

// List returns categories, optionally narrowed to one meal type
func (r *GormMealCategoryRepository) List(ctx context.Context, mealTypeID string, activeOnly bool) ([]models.MealCategory, error) {
	var categories []models.MealCategory
	q := r.db.WithContext(ctx).Order("name")
	if mealTypeID != "" {
		q = q.Where("meal_type_id = ?", mealTypeID)
	}
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormMealCategoryRepository) GetByID(ctx context.Context, id string) (*models.MealCategory, error) {
	var category models.MealCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *GormMealCategoryRepository) Create(ctx context.Context, category *models.MealCategory) error {
	return translate(r.db.WithContext(ctx).Omit("MealType").Create(category).Error)
}

func (r *GormMealCategoryRepository) Update(ctx context.Context, category *models.MealCategory) error {
	return translate(r.db.WithContext(ctx).Omit("MealType").Save(category).Error)
}

func (r *GormMealCategoryRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &models.MealCategory{}, id)
}

// GormMealItemRepository implements MealItemRepository
type GormMealItemRepository struct {
	db *gorm.DB
}

func NewMealItemRepository(db *gorm.DB) *GormMealItemRepository {
	return &GormMealItemRepository{db: db}
}

// List returns items, optionally narrowed to one category
func (r *GormMealItemRepository) List(ctx context.Context, mealCategoryID string, activeOnly bool) ([]models.MealItem, error) {
	var items []models.MealItem
	q := r.db.WithContext(ctx).Order("name")
	if mealCategoryID != "" {
		q = q.Where("meal_category_id = ?", mealCategoryID)
	}
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormMealItemRepository) GetByID(ctx context.Context, id string) (*models.MealItem, error) {
	var item models.MealItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *GormMealItemRepository) Create(ctx context.Context, item *models.MealItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

func (r *GormMealItemRepository) Update(ctx context.Context, item *models.MealItem) error {
	return translate(r.db.WithContext(ctx).Save(item).Error)
}

func (r *GormMealItemRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &models.MealItem{}, id)
}

func deleteByID(ctx context.Context, db *gorm.DB, model interface{}, id string) error {
	res := db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
