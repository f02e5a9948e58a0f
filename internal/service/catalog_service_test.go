package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/shopspring/decimal"
)

func TestCatalogService_MealTypes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	breakfast, err := f.catalog.CreateMealType(ctx, models.MealTypeRequest{ID: "breakfast", Name: "Breakfast", Icon: "Coffee"})
	if err != nil {
		t.Fatalf("CreateMealType() error = %v", err)
	}
	if breakfast.Icon != models.IconCoffee || !breakfast.Active || breakfast.Color == "" {
		t.Errorf("breakfast = %+v", breakfast)
	}

	generated, err := f.catalog.CreateMealType(ctx, models.MealTypeRequest{Name: "Snack"})
	if err != nil {
		t.Fatalf("CreateMealType() error = %v", err)
	}
	if generated.ID == "" || generated.Icon != models.IconUtensils {
		t.Errorf("generated = %+v", generated)
	}

	tests := []struct {
		name    string
		req     models.MealTypeRequest
		wantErr error
	}{
		{name: "id taken", req: models.MealTypeRequest{ID: "breakfast", Name: "Again"}, wantErr: ErrMealTypeIDTaken},
		{name: "missing name", req: models.MealTypeRequest{ID: "x"}, wantErr: ErrInvalid},
		{name: "bad icon", req: models.MealTypeRequest{ID: "x", Name: "X", Icon: "rocket"}, wantErr: ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.catalog.CreateMealType(ctx, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateMealType() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	toggled, err := f.catalog.ToggleMealType(ctx, "breakfast")
	if err != nil || toggled.Active {
		t.Fatalf("ToggleMealType() = %+v, %v", toggled, err)
	}
	active, err := f.catalog.ListMealTypes(ctx, true)
	if err != nil || len(active) != 1 || active[0].Name != "Snack" {
		t.Errorf("ListMealTypes(active) = %+v, %v", active, err)
	}
}

func TestCatalogService_CategoryValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.catalog.CreateMealType(ctx, models.MealTypeRequest{ID: "lunch", Name: "Lunch"}); err != nil {
		t.Fatalf("CreateMealType() error = %v", err)
	}

	fifty := decimal.NewFromInt(50)
	negative := decimal.NewFromInt(-1)

	tests := []struct {
		name    string
		req     models.MealCategoryRequest
		wantErr error
	}{
		{
			name: "valid",
			req:  models.MealCategoryRequest{MealTypeID: "lunch", Category: "FASTING", Name: "Fasting", NormalPrice: &fifty, SupportedPrice: &fifty},
		},
		{
			name:    "unknown meal type",
			req:     models.MealCategoryRequest{MealTypeID: "brunch", Category: "fasting", Name: "X", NormalPrice: &fifty, SupportedPrice: &fifty},
			wantErr: ErrInvalid,
		},
		{
			name:    "missing price",
			req:     models.MealCategoryRequest{MealTypeID: "lunch", Category: "fasting", Name: "X", NormalPrice: &fifty},
			wantErr: ErrInvalid,
		},
		{
			name:    "negative price",
			req:     models.MealCategoryRequest{MealTypeID: "lunch", Category: "fasting", Name: "X", NormalPrice: &negative, SupportedPrice: &fifty},
			wantErr: ErrInvalid,
		},
		{
			name:    "bad category type",
			req:     models.MealCategoryRequest{MealTypeID: "lunch", Category: "vegan", Name: "X", NormalPrice: &fifty, SupportedPrice: &fifty},
			wantErr: ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.catalog.CreateMealCategory(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateMealCategory() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.Category != models.CategoryFasting {
				t.Errorf("category = %s, want fasting", got.Category)
			}
		})
	}
}

func TestCatalogService_DeleteInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category, item := f.lunch(t)

	if err := f.catalog.DeleteMealType(ctx, "lunch"); !errors.Is(err, ErrMealTypeInUse) {
		t.Errorf("DeleteMealType() error = %v, want ErrMealTypeInUse", err)
	}
	if err := f.catalog.DeleteMealCategory(ctx, category.ID); !errors.Is(err, ErrMealCategoryInUse) {
		t.Errorf("DeleteMealCategory() error = %v, want ErrMealCategoryInUse", err)
	}

	if err := f.catalog.DeleteMealItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteMealItem() error = %v", err)
	}
	if err := f.catalog.DeleteMealCategory(ctx, category.ID); err != nil {
		t.Fatalf("DeleteMealCategory() error = %v", err)
	}
	if err := f.catalog.DeleteMealType(ctx, "lunch"); err != nil {
		t.Fatalf("DeleteMealType() error = %v", err)
	}
	if err := f.catalog.DeleteMealType(ctx, "lunch"); !errors.Is(err, ErrMealTypeNotFound) {
		t.Errorf("second DeleteMealType() error = %v, want ErrMealTypeNotFound", err)
	}
}

func TestCatalogService_Items(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category, item := f.lunch(t)

	if item.Color != "#3B82F6" {
		t.Errorf("default color = %s", item.Color)
	}

	updated, err := f.catalog.UpdateAvailability(ctx, item.ID, 25)
	if err != nil || updated.TotalAvailable != 25 {
		t.Fatalf("UpdateAvailability() = %+v, %v", updated, err)
	}
	if _, err := f.catalog.UpdateAvailability(ctx, item.ID, -1); !errors.Is(err, ErrInvalid) {
		t.Errorf("UpdateAvailability(-1) error = %v, want ErrInvalid", err)
	}
	if _, err := f.catalog.UpdateAvailability(ctx, "ghost", 1); !errors.Is(err, ErrMealItemNotFound) {
		t.Errorf("UpdateAvailability(ghost) error = %v, want ErrMealItemNotFound", err)
	}

	if _, err := f.catalog.CreateMealItem(ctx, models.MealItemRequest{MealCategoryID: "ghost", Name: "Tibs"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("CreateMealItem(unknown category) error = %v, want ErrInvalid", err)
	}

	if _, err := f.catalog.ToggleMealItem(ctx, item.ID); err != nil {
		t.Fatalf("ToggleMealItem() error = %v", err)
	}
	active, err := f.catalog.ListMealItems(ctx, category.ID, true)
	if err != nil || len(active) != 0 {
		t.Errorf("ListMealItems(active) = %d, %v; want 0", len(active), err)
	}
}
