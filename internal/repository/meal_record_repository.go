package repository

import (
	"context"
	"time"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"gorm.io/gorm"
)

// MealRecordRepository defines the interface for meal record data access
type MealRecordRepository interface {
	Create(ctx context.Context, record *models.MealRecord) error
	CountForDay(ctx context.Context, employeeRefID, mealTypeID, day string) (int64, error)
	CountByEmployee(ctx context.Context, employeeRefID string) (int64, error)
	GetByID(ctx context.Context, id string) (*models.MealRecord, error)
	List(ctx context.Context) ([]models.MealRecord, error)
	ListByEmployee(ctx context.Context, employeeRefID string) ([]models.MealRecord, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]models.MealRecord, error)
	ListByDepartmentBetween(ctx context.Context, department string, start, end time.Time) ([]models.MealRecord, error)
}

// GormMealRecordRepository implements MealRecordRepository
type GormMealRecordRepository struct {
	db *gorm.DB
}

// NewMealRecordRepository creates a new meal record repository
func NewMealRecordRepository(db *gorm.DB) *GormMealRecordRepository {
	return &GormMealRecordRepository{db: db}
}

// Create inserts the record and its items in one transaction. ErrDuplicate is
// returned when the employee already has a record for the meal type that day.
func (r *GormMealRecordRepository) Create(ctx context.Context, record *models.MealRecord) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := record.Items
		record.Items = nil

		if err := tx.Omit("Employee", "Items").Create(record).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].MealRecordID = record.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		record.Items = items
		return nil
	})
	return translate(err)
}

// CountForDay counts records of one employee and meal type on a calendar day
func (r *GormMealRecordRepository) CountForDay(ctx context.Context, employeeRefID, mealTypeID, day string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MealRecord{}).
		Where("employee_id = ? AND meal_type_id = ? AND redemption_date = ?", employeeRefID, mealTypeID, day).
		Count(&count).Error
	return count, err
}

// CountByEmployee counts all records referencing an employee
func (r *GormMealRecordRepository) CountByEmployee(ctx context.Context, employeeRefID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MealRecord{}).
		Where("employee_id = ?", employeeRefID).
		Count(&count).Error
	return count, err
}

// GetByID returns a record with its employee and items
func (r *GormMealRecordRepository) GetByID(ctx context.Context, id string) (*models.MealRecord, error) {
	var record models.MealRecord
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

// List returns all records, newest first
func (r *GormMealRecordRepository) List(ctx context.Context) ([]models.MealRecord, error) {
	return r.find(ctx, r.db.WithContext(ctx))
}

// ListByEmployee returns one employee's records, newest first
func (r *GormMealRecordRepository) ListByEmployee(ctx context.Context, employeeRefID string) ([]models.MealRecord, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("employee_id = ?", employeeRefID))
}

// ListBetween returns records with start <= recorded_at <= end
func (r *GormMealRecordRepository) ListBetween(ctx context.Context, start, end time.Time) ([]models.MealRecord, error) {
	q := r.db.WithContext(ctx).Where("recorded_at BETWEEN ? AND ?", start.UTC(), end.UTC())
	return r.find(ctx, q)
}

// ListByDepartmentBetween narrows ListBetween to employees of one department
func (r *GormMealRecordRepository) ListByDepartmentBetween(ctx context.Context, department string, start, end time.Time) ([]models.MealRecord, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = meal_records.employee_id").
		Where("employees.department = ?", department).
		Where("meal_records.recorded_at BETWEEN ? AND ?", start.UTC(), end.UTC())
	return r.find(ctx, q)
}

func (r *GormMealRecordRepository) find(ctx context.Context, q *gorm.DB) ([]models.MealRecord, error) {
	var records []models.MealRecord
	err := q.Preload("Employee").
		Order("meal_records.recorded_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
