package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/report"
	"github.com/ethernet-moe/cafeteria-backend/internal/repository"
	"github.com/ethernet-moe/cafeteria-backend/internal/subsidy"
)

const maxShortCodeLength = 4

// EmployeeService handles employee business logic
type EmployeeService struct {
	employees repository.EmployeeRepository
	records   repository.MealRecordRepository
	subsidy   *subsidy.Evaluator
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employees repository.EmployeeRepository, records repository.MealRecordRepository, evaluator *subsidy.Evaluator) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		records:   records,
		subsidy:   evaluator,
	}
}

// List returns employees with their current support eligibility
func (s *EmployeeService) List(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	employees, err := s.employees.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, employees)
}

// ListByDepartment returns the active employees of one department
func (s *EmployeeService) ListByDepartment(ctx context.Context, department string) ([]models.Employee, error) {
	employees, err := s.employees.ListByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, employees)
}

// ListEligible returns active employees currently below the support threshold
func (s *EmployeeService) ListEligible(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.List(ctx, true)
	if err != nil {
		return nil, err
	}
	eligible := make([]models.Employee, 0, len(employees))
	for _, e := range employees {
		if e.EligibleForSupport {
			eligible = append(eligible, e)
		}
	}
	return eligible, nil
}

// Get returns an employee by primary key
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	return s.one(ctx, func() (*models.Employee, error) { return s.employees.GetByID(ctx, id) })
}

// GetByEmployeeID returns an employee by business identifier
func (s *EmployeeService) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	return s.one(ctx, func() (*models.Employee, error) { return s.employees.GetByEmployeeID(ctx, employeeID) })
}

// GetByCard resolves a card id or short code to an active employee
func (s *EmployeeService) GetByCard(ctx context.Context, key string) (*models.Employee, error) {
	return s.one(ctx, func() (*models.Employee, error) { return s.employees.FindActiveByKey(ctx, strings.TrimSpace(key)) })
}

func (s *EmployeeService) one(ctx context.Context, find func() (*models.Employee, error)) (*models.Employee, error) {
	employee, err := find()
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if errors.Is(err, repository.ErrAmbiguous) {
		return nil, ErrAmbiguousKey
	}
	if err != nil {
		return nil, err
	}

	threshold, err := s.subsidy.Threshold(ctx)
	if err != nil {
		return nil, err
	}
	employee.EligibleForSupport = subsidy.IsEligible(employee.Salary, threshold)
	return employee, nil
}

func (s *EmployeeService) annotate(ctx context.Context, employees []models.Employee) ([]models.Employee, error) {
	threshold, err := s.subsidy.Threshold(ctx)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		employees[i].EligibleForSupport = subsidy.IsEligible(employees[i].Salary, threshold)
	}
	return employees, nil
}

// Create validates and stores a new employee. New employees are active unless stated otherwise.
func (s *EmployeeService) Create(ctx context.Context, req models.EmployeeRequest) (*models.Employee, error) {
	employee := &models.Employee{Active: true}
	if err := s.apply(ctx, employee, req); err != nil {
		return nil, err
	}

	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, s.writeError(err)
	}
	return s.Get(ctx, employee.ID)
}

// Update replaces the editable fields of an employee
func (s *EmployeeService) Update(ctx context.Context, id string, req models.EmployeeRequest) (*models.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, employee, req); err != nil {
		return nil, err
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, s.writeError(err)
	}
	return s.Get(ctx, employee.ID)
}

func (s *EmployeeService) apply(ctx context.Context, e *models.Employee, req models.EmployeeRequest) error {
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	req.Name = strings.TrimSpace(req.Name)
	req.Department = strings.TrimSpace(req.Department)
	cardID := optional(req.CardID)
	shortCode := optional(req.ShortCode)

	switch {
	case req.EmployeeID == "":
		return invalidf("employee id is required")
	case req.Name == "":
		return invalidf("name is required")
	case req.Department == "":
		return invalidf("department is required")
	case shortCode != nil && utf8.RuneCountInString(*shortCode) > maxShortCodeLength:
		return invalidf("short code must be at most %d characters", maxShortCodeLength)
	case req.Salary != nil && req.Salary.IsNegative():
		return invalidf("salary must not be negative")
	}

	checks := []struct {
		column string
		value  *string
		err    error
	}{
		{column: "employee_id", value: &req.EmployeeID, err: ErrEmployeeIDTaken},
		{column: "card_id", value: cardID, err: ErrCardIDTaken},
		{column: "short_code", value: cardID, err: ErrCardIDTaken},
		{column: "short_code", value: shortCode, err: ErrShortCodeTaken},
		{column: "card_id", value: shortCode, err: ErrShortCodeTaken},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		taken, err := s.employees.Exists(ctx, c.column, *c.value, e.ID)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", c.column, err)
		}
		if taken {
			return c.err
		}
	}

	e.EmployeeID = req.EmployeeID
	e.CardID = cardID
	e.ShortCode = shortCode
	e.Name = req.Name
	e.Department = req.Department
	e.PhotoURL = strings.TrimSpace(req.PhotoURL)
	e.Salary = nil
	if req.Salary != nil {
		salary := req.Salary.Round(2)
		e.Salary = &salary
	}
	if req.Active != nil {
		e.Active = *req.Active
	}
	return nil
}

// writeError maps a unique-index race after the pre-checks passed
func (s *EmployeeService) writeError(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return newError(ErrConflict, "employee id, card id or short code already exists")
	}
	return fmt.Errorf("failed to save employee: %w", err)
}

// ToggleStatus flips an employee between active and inactive
func (s *EmployeeService) ToggleStatus(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}

	employee.Active = !employee.Active
	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, s.writeError(err)
	}
	return s.Get(ctx, id)
}

// Delete removes an employee that has never redeemed a meal
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	count, err := s.records.CountByEmployee(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrEmployeeHasRecords
	}

	err = s.employees.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	return err
}

// UsageStats summarises all meals redeemed by the employee with the given business id
func (s *EmployeeService) UsageStats(ctx context.Context, employeeID string) (*report.UsageStats, error) {
	employee, err := s.employees.GetByEmployeeID(ctx, employeeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListByEmployee(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	stats := report.EmployeeUsage(records)
	return &stats, nil
}

// optional treats blank strings as absent
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
