package repository

import (
	"context"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"gorm.io/gorm"
)

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Employee, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Employee, error)
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error)
	FindActiveByKey(ctx context.Context, key string) (*models.Employee, error)
	Exists(ctx context.Context, column, value, excludeID string) (bool, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id string) error
}

// GormEmployeeRepository implements EmployeeRepository on a gorm database
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// List returns employees ordered by name
func (r *GormEmployeeRepository) List(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	var employees []models.Employee
	q := r.db.WithContext(ctx).Order("name")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// ListByDepartment returns active employees of one department
func (r *GormEmployeeRepository) ListByDepartment(ctx context.Context, department string) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Where("department = ? AND active = ?", department, true).
		Order("name").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// GetByID returns an employee by primary key
func (r *GormEmployeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

// GetByEmployeeID returns an employee by business identifier
func (r *GormEmployeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "employee_id = ?", employeeID).Error; err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

// FindActiveByKey matches key against card id or short code of an active employee.
// It returns ErrAmbiguous when the key belongs to more than one employee.
func (r *GormEmployeeRepository) FindActiveByKey(ctx context.Context, key string) (*models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Where("(card_id = ? OR short_code = ?) AND active = ?", key, key, true).
		Limit(2).
		Find(&employees).Error
	if err != nil {
		return nil, translate(err)
	}

	switch len(employees) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &employees[0], nil
	default:
		return nil, ErrAmbiguous
	}
}

var employeeUniqueColumns = map[string]bool{"employee_id": true, "card_id": true, "short_code": true}

// Exists reports whether another employee already holds value in a unique column
func (r *GormEmployeeRepository) Exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	if !employeeUniqueColumns[column] {
		return false, gorm.ErrInvalidField
	}

	var count int64
	q := r.db.WithContext(ctx).Model(&models.Employee{}).Where(column+" = ?", value)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new employee
func (r *GormEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return translate(r.db.WithContext(ctx).Create(employee).Error)
}

// Update writes all columns of an existing employee
func (r *GormEmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return translate(r.db.WithContext(ctx).Save(employee).Error)
}

// Delete removes an employee
func (r *GormEmployeeRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &models.Employee{}, id)
}
