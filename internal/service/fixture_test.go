package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ethernet-moe/cafeteria-backend/internal/database/databasetest"
	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/repository"
	"github.com/ethernet-moe/cafeteria-backend/internal/subsidy"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fixture wires every service onto one throwaway database
type fixture struct {
	db      *gorm.DB
	clock   time.Time
	records *MealRecordService
	emps    *EmployeeService
	catalog *CatalogService
	support *SupportConfigService
	users   *UserService
	auth    *AuthService
	reports *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := databasetest.New(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	employees := repository.NewEmployeeRepository(db)
	types := repository.NewMealTypeRepository(db)
	categories := repository.NewMealCategoryRepository(db)
	items := repository.NewMealItemRepository(db)
	records := repository.NewMealRecordRepository(db)
	supportRepo := repository.NewSupportConfigRepository(db)
	userRepo := repository.NewUserRepository(db)

	evaluator := subsidy.NewEvaluator(supportRepo, decimal.Zero)

	f := &fixture{
		db:      db,
		clock:   time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local),
		records: NewMealRecordService(employees, categories, items, records, evaluator, node, log),
		emps:    NewEmployeeService(employees, records, evaluator),
		catalog: NewCatalogService(types, categories, items),
		support: NewSupportConfigService(supportRepo, log),
		users:   NewUserService(userRepo, log),
		auth:    NewAuthService(userRepo, "0123456789abcdef", time.Hour),
		reports: NewReportService(records, employees, evaluator),
	}

	now := func() time.Time { return f.clock }
	f.records.now = now
	f.auth.now = now
	f.reports.now = now
	return f
}

func (f *fixture) setThreshold(t *testing.T, v string) {
	t.Helper()
	d := decimal.RequireFromString(v)
	if _, err := f.support.SetMaxSalary(context.Background(), &d); err != nil {
		t.Fatalf("SetMaxSalary(%s): %v", v, err)
	}
}

func (f *fixture) employee(t *testing.T, id, card, dept, salary string) *models.Employee {
	t.Helper()
	req := models.EmployeeRequest{
		EmployeeID: id,
		CardID:     &card,
		Name:       "Employee " + id,
		Department: dept,
	}
	if salary != "" {
		s := decimal.RequireFromString(salary)
		req.Salary = &s
	}
	e, err := f.emps.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("create employee %s: %v", id, err)
	}
	return e
}

// lunch creates a lunch meal type with a 50/40 category and one item
func (f *fixture) lunch(t *testing.T) (*models.MealCategory, *models.MealItem) {
	t.Helper()
	ctx := context.Background()

	if _, err := f.catalog.CreateMealType(ctx, models.MealTypeRequest{ID: "lunch", Name: "Lunch"}); err != nil {
		t.Fatalf("create meal type: %v", err)
	}
	normal, supported := decimal.NewFromInt(50), decimal.NewFromInt(40)
	category, err := f.catalog.CreateMealCategory(ctx, models.MealCategoryRequest{
		MealTypeID:     "lunch",
		Category:       "non_fasting",
		Name:           "Regular",
		NormalPrice:    &normal,
		SupportedPrice: &supported,
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	item, err := f.catalog.CreateMealItem(ctx, models.MealItemRequest{
		MealCategoryID: category.ID,
		Name:           "Injera",
		TotalAvailable: 10,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	return category, item
}

func (f *fixture) countRecords(t *testing.T) (headers, lines int64) {
	t.Helper()
	if err := f.db.Model(&models.MealRecord{}).Count(&headers).Error; err != nil {
		t.Fatalf("count records: %v", err)
	}
	if err := f.db.Model(&models.MealRecordItem{}).Count(&lines).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	return headers, lines
}
