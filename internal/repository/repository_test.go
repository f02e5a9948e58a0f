package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethernet-moe/cafeteria-backend/internal/database/databasetest"
	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func seedEmployee(t *testing.T, db *gorm.DB, employeeID, card, dept string) *models.Employee {
	t.Helper()
	e := &models.Employee{
		EmployeeID: employeeID,
		CardID:     strPtr(card),
		Name:       "Employee " + employeeID,
		Department: dept,
		Active:     true,
	}
	if err := repository.NewEmployeeRepository(db).Create(context.Background(), e); err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return e
}

func seedCategory(t *testing.T, db *gorm.DB) (*models.MealType, *models.MealCategory) {
	t.Helper()
	ctx := context.Background()
	mt := &models.MealType{ID: "lunch", Name: "Lunch", Icon: models.IconUtensils, Active: true}
	if err := repository.NewMealTypeRepository(db).Create(ctx, mt); err != nil {
		t.Fatalf("create meal type: %v", err)
	}
	mc := &models.MealCategory{
		MealTypeID:     mt.ID,
		Category:       models.CategoryNonFasting,
		Name:           "Regular",
		NormalPrice:    decimal.NewFromInt(50),
		SupportedPrice: decimal.NewFromInt(40),
		Active:         true,
	}
	if err := repository.NewMealCategoryRepository(db).Create(ctx, mc); err != nil {
		t.Fatalf("create category: %v", err)
	}
	return mt, mc
}

func newRecord(e *models.Employee, mc *models.MealCategory, orderNumber int64, at time.Time) *models.MealRecord {
	return &models.MealRecord{
		OrderNumber:    orderNumber,
		EmployeeRefID:  e.ID,
		CardID:         *e.CardID,
		MealTypeID:     mc.MealTypeID,
		MealCategoryID: mc.ID,
		MealName:       mc.Name,
		Category:       mc.Category,
		PriceType:      models.PriceNormal,
		NormalPrice:    mc.NormalPrice,
		SupportedPrice: mc.SupportedPrice,
		ActualPrice:    mc.NormalPrice,
		SupportAmount:  decimal.Zero,
		RecordedAt:     at.UTC(),
		RedemptionDate: at.Format(models.RedemptionDateLayout),
	}
}

func TestEmployeeRepository_FindActiveByKey(t *testing.T) {
	db := databasetest.New(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	e := seedEmployee(t, db, "E001", "CARD-1", "IT")
	e.ShortCode = strPtr("A1")
	if err := repo.Update(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}

	inactive := seedEmployee(t, db, "E002", "CARD-2", "IT")
	inactive.Active = false
	if err := repo.Update(ctx, inactive); err != nil {
		t.Fatalf("update: %v", err)
	}

	tests := []struct {
		name    string
		key     string
		wantID  string
		wantErr error
	}{
		{name: "by card", key: "CARD-1", wantID: e.ID},
		{name: "by short code", key: "A1", wantID: e.ID},
		{name: "inactive employee", key: "CARD-2", wantErr: repository.ErrNotFound},
		{name: "unknown key", key: "nope", wantErr: repository.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindActiveByKey(ctx, tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.ID != tt.wantID {
				t.Errorf("id = %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestEmployeeRepository_FindActiveByKey_Ambiguous(t *testing.T) {
	db := databasetest.New(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	seedEmployee(t, db, "E001", "A1", "IT")
	other := seedEmployee(t, db, "E002", "CARD-2", "IT")
	other.ShortCode = strPtr("A1")
	if err := repo.Update(ctx, other); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := repo.FindActiveByKey(ctx, "A1"); !errors.Is(err, repository.ErrAmbiguous) {
		t.Errorf("FindActiveByKey() error = %v, want ErrAmbiguous", err)
	}

	// only active employees count towards a match
	other.Active = false
	if err := repo.Update(ctx, other); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.FindActiveByKey(ctx, "A1")
	if err != nil {
		t.Fatalf("FindActiveByKey() error = %v", err)
	}
	if got.EmployeeID != "E001" {
		t.Errorf("employee = %s, want E001", got.EmployeeID)
	}
}

func TestEmployeeRepository_UniqueCard(t *testing.T) {
	db := databasetest.New(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	first := seedEmployee(t, db, "E001", "CARD-1", "IT")

	exists, err := repo.Exists(ctx, "card_id", "CARD-1", "")
	if err != nil || !exists {
		t.Fatalf("Exists() = %v, %v; want true", exists, err)
	}
	exists, err = repo.Exists(ctx, "card_id", "CARD-1", first.ID)
	if err != nil || exists {
		t.Fatalf("Exists() excluding self = %v, %v; want false", exists, err)
	}

	dup := &models.Employee{EmployeeID: "E002", CardID: strPtr("CARD-1"), Name: "Dup", Department: "IT", Active: true}
	if err := repo.Create(ctx, dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("Create() error = %v, want ErrDuplicate", err)
	}

	// nil card ids do not collide
	for _, id := range []string{"E003", "E004"} {
		e := &models.Employee{EmployeeID: id, Name: id, Department: "HR", Active: true}
		if err := repo.Create(ctx, e); err != nil {
			t.Errorf("Create(%s) error = %v", id, err)
		}
	}
}

func TestEmployeeRepository_Delete(t *testing.T) {
	db := databasetest.New(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	e := seedEmployee(t, db, "E001", "CARD-1", "IT")
	if err := repo.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, e.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMealCategoryRepository_List(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()
	mt, mc := seedCategory(t, db)
	repo := repository.NewMealCategoryRepository(db)

	off := &models.MealCategory{
		MealTypeID:     mt.ID,
		Category:       models.CategoryFasting,
		Name:           "Fasting",
		NormalPrice:    decimal.NewFromInt(45),
		SupportedPrice: decimal.NewFromInt(35),
		Active:         false,
	}
	if err := repo.Create(ctx, off); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := repo.List(ctx, mt.ID, false)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(all) = %d, want 2", len(all))
	}

	active, err := repo.List(ctx, "", true)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(active) != 1 || active[0].ID != mc.ID {
		t.Errorf("active = %+v, want only %s", active, mc.ID)
	}

	got, err := repo.GetByID(ctx, mc.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.NormalPrice.Equal(decimal.NewFromInt(50)) {
		t.Errorf("normal price = %s, want 50", got.NormalPrice)
	}
}

func TestMealRecordRepository_CreateWithItems(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()
	e := seedEmployee(t, db, "E001", "CARD-1", "IT")
	_, mc := seedCategory(t, db)
	repo := repository.NewMealRecordRepository(db)

	rec := newRecord(e, mc, 1001, time.Now())
	rec.Items = []models.MealRecordItem{
		{MealItemID: "item-1", MealItemName: "Injera", Quantity: 3, PricePerItem: decimal.NewFromInt(40), TotalPrice: decimal.NewFromInt(120)},
	}
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(rec.Items) != 1 || rec.Items[0].MealRecordID != rec.ID {
		t.Fatalf("items not linked: %+v", rec.Items)
	}

	got, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EmployeeID != "E001" {
		t.Errorf("employeeId = %s, want E001", got.EmployeeID)
	}
	if len(got.Items) != 1 || !got.Items[0].TotalPrice.Equal(decimal.NewFromInt(120)) {
		t.Errorf("items = %+v", got.Items)
	}
}

func TestMealRecordRepository_OncePerDay(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()
	e := seedEmployee(t, db, "E001", "CARD-1", "IT")
	_, mc := seedCategory(t, db)
	repo := repository.NewMealRecordRepository(db)

	now := time.Now()
	if err := repo.Create(ctx, newRecord(e, mc, 1, now)); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	second := newRecord(e, mc, 2, now)
	second.Items = []models.MealRecordItem{
		{MealItemID: "item-1", MealItemName: "Injera", Quantity: 1, PricePerItem: decimal.NewFromInt(50), TotalPrice: decimal.NewFromInt(50)},
	}
	if err := repo.Create(ctx, second); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("second Create() error = %v, want ErrDuplicate", err)
	}

	// the failed header must not leave orphaned line items
	var items int64
	if err := db.Model(&models.MealRecordItem{}).Count(&items).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if items != 0 {
		t.Errorf("line items = %d, want 0", items)
	}

	count, err := repo.CountForDay(ctx, e.ID, mc.MealTypeID, now.Format(models.RedemptionDateLayout))
	if err != nil {
		t.Fatalf("CountForDay() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	tomorrow := now.AddDate(0, 0, 1)
	if err := repo.Create(ctx, newRecord(e, mc, 3, tomorrow)); err != nil {
		t.Errorf("next-day Create() error = %v", err)
	}
}

func TestMealRecordRepository_ListBetween(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()
	it := seedEmployee(t, db, "E001", "CARD-1", "IT")
	hr := seedEmployee(t, db, "E002", "CARD-2", "HR")
	_, mc := seedCategory(t, db)
	repo := repository.NewMealRecordRepository(db)

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []*models.MealRecord{
		newRecord(it, mc, 1, base.AddDate(0, 0, -10)),
		newRecord(it, mc, 2, base.AddDate(0, 0, -1)),
		newRecord(hr, mc, 3, base),
	}
	for _, r := range records {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := repo.ListBetween(ctx, base.AddDate(0, 0, -2), base)
	if err != nil {
		t.Fatalf("ListBetween() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].OrderNumber != 3 {
		t.Errorf("first order = %d, want newest (3)", got[0].OrderNumber)
	}

	dept, err := repo.ListByDepartmentBetween(ctx, "IT", base.AddDate(0, 0, -30), base)
	if err != nil {
		t.Fatalf("ListByDepartmentBetween() error = %v", err)
	}
	if len(dept) != 2 {
		t.Errorf("len = %d, want 2", len(dept))
	}

	byEmployee, err := repo.ListByEmployee(ctx, hr.ID)
	if err != nil {
		t.Fatalf("ListByEmployee() error = %v", err)
	}
	if len(byEmployee) != 1 || byEmployee[0].EmployeeID != "E002" {
		t.Errorf("byEmployee = %+v", byEmployee)
	}
}

func TestSupportConfigRepository_Activate(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()
	repo := repository.NewSupportConfigRepository(db)

	if _, err := repo.FindActive(ctx); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("FindActive() on empty = %v, want ErrNotFound", err)
	}

	for _, v := range []int64{5000, 6000, 7000} {
		if err := repo.Activate(ctx, &models.SupportConfig{MaxSalaryForSupport: decimal.NewFromInt(v)}); err != nil {
			t.Fatalf("Activate(%d) error = %v", v, err)
		}
	}

	var active int64
	if err := db.Model(&models.SupportConfig{}).Where("active = ?", true).Count(&active).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if active != 1 {
		t.Errorf("active rows = %d, want 1", active)
	}

	cfg, err := repo.FindActive(ctx)
	if err != nil {
		t.Fatalf("FindActive() error = %v", err)
	}
	if !cfg.MaxSalaryForSupport.Equal(decimal.NewFromInt(7000)) {
		t.Errorf("threshold = %s, want 7000", cfg.MaxSalaryForSupport)
	}
}

func TestUserRepository(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()
	repo := repository.NewUserRepository(db)

	u := &models.User{Username: "op", Email: "op@example.com", PasswordHash: "x", Role: models.RoleOperator, Active: true}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dup := &models.User{Username: "op", Email: "other@example.com", PasswordHash: "x", Role: models.RoleOperator}
	if err := repo.Create(ctx, dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("duplicate Create() error = %v, want ErrDuplicate", err)
	}

	if _, err := repo.Exists(ctx, "password_hash", "x", ""); err == nil {
		t.Error("Exists() on unknown column should fail")
	}

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := repo.TouchLastLogin(ctx, u.ID, at); err != nil {
		t.Fatalf("TouchLastLogin() error = %v", err)
	}
	got, err := repo.GetByUsername(ctx, "op")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got.LastLogin == nil || !got.LastLogin.Equal(at) {
		t.Errorf("last login = %v, want %v", got.LastLogin, at)
	}

	count, err := repo.Count(ctx)
	if err != nil || count != 1 {
		t.Errorf("Count() = %d, %v; want 1", count, err)
	}
}
