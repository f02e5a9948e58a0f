package service

import (
	"context"
	"time"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/report"
	"github.com/ethernet-moe/cafeteria-backend/internal/repository"
	"github.com/ethernet-moe/cafeteria-backend/internal/subsidy"
	"github.com/shopspring/decimal"
)

// ReportService loads a period's records and aggregates them
type ReportService struct {
	records   repository.MealRecordRepository
	employees repository.EmployeeRepository
	subsidy   *subsidy.Evaluator
	now       func() time.Time
}

// NewReportService creates a new report service
func NewReportService(records repository.MealRecordRepository, employees repository.EmployeeRepository, evaluator *subsidy.Evaluator) *ReportService {
	return &ReportService{
		records:   records,
		employees: employees,
		subsidy:   evaluator,
		now:       time.Now,
	}
}

type reportInput struct {
	records   []models.MealRecord
	employees []models.Employee
	threshold decimal.Decimal
}

func (s *ReportService) load(ctx context.Context, period string, withEmployees bool) (*reportInput, error) {
	start, end := report.Window(period, s.now())

	records, err := s.records.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	in := &reportInput{records: records}
	if !withEmployees {
		return in, nil
	}

	if in.employees, err = s.employees.List(ctx, true); err != nil {
		return nil, err
	}
	if in.threshold, err = s.subsidy.Threshold(ctx); err != nil {
		return nil, err
	}
	return in, nil
}

// Summary returns organisation-wide totals for the period
func (s *ReportService) Summary(ctx context.Context, period string) (*report.Summary, error) {
	in, err := s.load(ctx, period, true)
	if err != nil {
		return nil, err
	}
	summary := report.Summarize(in.records, in.employees, in.threshold)
	return &summary, nil
}

// Departments returns per-department totals for the period
func (s *ReportService) Departments(ctx context.Context, period string) ([]report.DepartmentAnalysis, error) {
	in, err := s.load(ctx, period, true)
	if err != nil {
		return nil, err
	}
	return report.ByDepartment(in.records, in.employees, in.threshold), nil
}

// Categories returns per-meal-category totals for the period
func (s *ReportService) Categories(ctx context.Context, period string) ([]report.CategoryAnalysis, error) {
	in, err := s.load(ctx, period, false)
	if err != nil {
		return nil, err
	}
	return report.ByCategory(in.records), nil
}
