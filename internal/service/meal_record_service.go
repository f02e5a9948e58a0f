package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/receipt"
	"github.com/ethernet-moe/cafeteria-backend/internal/repository"
	"github.com/ethernet-moe/cafeteria-backend/internal/subsidy"
	"github.com/shopspring/decimal"
)

// MealRecordService redeems meals and serves the redemption history
type MealRecordService struct {
	employees  repository.EmployeeRepository
	categories repository.MealCategoryRepository
	items      repository.MealItemRepository
	records    repository.MealRecordRepository
	subsidy    *subsidy.Evaluator
	orders     *snowflake.Node
	logger     *slog.Logger
	now        func() time.Time
}

// NewMealRecordService creates a new meal record service
func NewMealRecordService(
	employees repository.EmployeeRepository,
	categories repository.MealCategoryRepository,
	items repository.MealItemRepository,
	records repository.MealRecordRepository,
	evaluator *subsidy.Evaluator,
	orders *snowflake.Node,
	logger *slog.Logger,
) *MealRecordService {
	return &MealRecordService{
		employees:  employees,
		categories: categories,
		items:      items,
		records:    records,
		subsidy:    evaluator,
		orders:     orders,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordMeal redeems one meal for the employee identified by req.CardID.
// recordedBy is the acting user id, empty for the self-service kiosk.
func (s *MealRecordService) RecordMeal(ctx context.Context, req models.RecordMealRequest, recordedBy string) (*models.MealRecord, error) {
	token := strings.TrimSpace(req.CardID)
	if token == "" {
		return nil, ErrMissingCardID
	}
	if req.MealCategoryID == "" {
		return nil, invalidf("meal category id is required")
	}

	employee, err := s.employees.FindActiveByKey(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if errors.Is(err, repository.ErrAmbiguous) {
		return nil, ErrAmbiguousKey
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	category, err := s.categories.GetByID(ctx, req.MealCategoryID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !category.Active) {
		return nil, ErrMealCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find meal category: %w", err)
	}

	now := s.now()
	day := now.Format(models.RedemptionDateLayout)

	count, err := s.records.CountForDay(ctx, employee.ID, category.MealTypeID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to check daily redemptions: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateRedemption
	}

	eligible, _, err := s.subsidy.Eligible(ctx, employee.Salary)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve support threshold: %w", err)
	}
	pricing := subsidy.Quote(category.NormalPrice, category.SupportedPrice, eligible)

	// Resolve every item before anything is written
	lines, err := s.resolveItems(ctx, req.Items, pricing.ActualPrice)
	if err != nil {
		return nil, err
	}

	record := &models.MealRecord{
		OrderNumber:    s.orders.Generate().Int64(),
		EmployeeRefID:  employee.ID,
		CardID:         token,
		MealTypeID:     category.MealTypeID,
		MealCategoryID: category.ID,
		MealName:       category.Name,
		Category:       category.Category,
		PriceType:      pricing.PriceType,
		NormalPrice:    category.NormalPrice,
		SupportedPrice: category.SupportedPrice,
		ActualPrice:    pricing.ActualPrice,
		SupportAmount:  pricing.SupportAmount,
		EmployeeSalary: copySalary(employee.Salary),
		RecordedAt:     now.UTC(),
		RedemptionDate: day,
		Items:          lines,
	}
	if recordedBy != "" {
		record.RecordedByID = &recordedBy
	}

	if err := s.records.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateRedemption
		}
		return nil, fmt.Errorf("failed to save meal record: %w", err)
	}

	record.Employee = employee
	record.EmployeeID = employee.EmployeeID

	s.logger.Info("meal recorded",
		"order_number", record.OrderNumber,
		"employee_id", employee.EmployeeID,
		"meal_type_id", record.MealTypeID,
		"price_type", record.PriceType,
		"items", len(record.Items),
	)
	return record, nil
}

func (s *MealRecordService) resolveItems(ctx context.Context, selected []models.SelectedItem, price decimal.Decimal) ([]models.MealRecordItem, error) {
	if len(selected) == 0 {
		return nil, nil
	}

	names := make(map[string]string)
	lines := make([]models.MealRecordItem, 0, len(selected))

	for _, sel := range selected {
		if sel.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		name, ok := names[sel.MealItemID]
		if !ok {
			item, err := s.items.GetByID(ctx, sel.MealItemID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrMealItemNotFound
			}
			if err != nil {
				return nil, fmt.Errorf("failed to find meal item: %w", err)
			}
			name = item.Name
			names[sel.MealItemID] = name
		}

		lines = append(lines, models.MealRecordItem{
			MealItemID:   sel.MealItemID,
			MealItemName: name,
			Quantity:     sel.Quantity,
			PricePerItem: price,
			TotalPrice:   price.Mul(decimal.NewFromInt(int64(sel.Quantity))).Round(2),
		})
	}
	return lines, nil
}

func copySalary(salary *decimal.Decimal) *decimal.Decimal {
	if salary == nil {
		return nil
	}
	c := *salary
	return &c
}

// HasRedeemedToday reports whether the token's employee already has a record
// for mealTypeID today. Unknown tokens have redeemed nothing.
func (s *MealRecordService) HasRedeemedToday(ctx context.Context, token, mealTypeID string) (bool, error) {
	employee, err := s.employees.FindActiveByKey(ctx, strings.TrimSpace(token))
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if errors.Is(err, repository.ErrAmbiguous) {
		return false, ErrAmbiguousKey
	}
	if err != nil {
		return false, fmt.Errorf("failed to find employee: %w", err)
	}

	day := s.now().Format(models.RedemptionDateLayout)
	count, err := s.records.CountForDay(ctx, employee.ID, mealTypeID, day)
	if err != nil {
		return false, fmt.Errorf("failed to check daily redemptions: %w", err)
	}
	return count > 0, nil
}

// List returns every record, newest first
func (s *MealRecordService) List(ctx context.Context) ([]models.MealRecord, error) {
	return s.records.List(ctx)
}

// Get returns a record with its line items
func (s *MealRecordService) Get(ctx context.Context, id string) (*models.MealRecord, error) {
	record, err := s.records.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMealRecordNotFound
	}
	return record, err
}

// ListByEmployee returns the records of the employee with the given business id
func (s *MealRecordService) ListByEmployee(ctx context.Context, employeeID string) ([]models.MealRecord, error) {
	employee, err := s.employees.GetByEmployeeID(ctx, employeeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.records.ListByEmployee(ctx, employee.ID)
}

// ListBetween returns records in [start, end]
func (s *MealRecordService) ListBetween(ctx context.Context, start, end time.Time) ([]models.MealRecord, error) {
	if end.Before(start) {
		return nil, invalidf("end date must not be before start date")
	}
	return s.records.ListBetween(ctx, start, end)
}

// ListByDepartmentBetween returns one department's records in [start, end]
func (s *MealRecordService) ListByDepartmentBetween(ctx context.Context, department string, start, end time.Time) ([]models.MealRecord, error) {
	if end.Before(start) {
		return nil, invalidf("end date must not be before start date")
	}
	return s.records.ListByDepartmentBetween(ctx, department, start, end)
}

// Receipt renders the printable receipt of a record
func (s *MealRecordService) Receipt(ctx context.Context, id string) (string, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	// the record keeps its snapshot name if the category was deleted since
	category, err := s.categories.GetByID(ctx, record.MealCategoryID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("failed to find meal category: %w", err)
	}

	return receipt.Render(record, receipt.DetailsFor(record.Employee, category, record.MealName), time.Local), nil
}
