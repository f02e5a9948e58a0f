// Package subsidy decides who qualifies for supported meal prices and what they pay.
package subsidy

import (
	"context"
	"errors"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/repository"
	"github.com/shopspring/decimal"
)

// IsEligible reports whether salary is strictly below threshold.
// Employees without a recorded salary never qualify.
func IsEligible(salary *decimal.Decimal, threshold decimal.Decimal) bool {
	if salary == nil {
		return false
	}
	return salary.LessThan(threshold)
}

// Pricing is the outcome of pricing one meal
type Pricing struct {
	ActualPrice   decimal.Decimal
	SupportAmount decimal.Decimal
	PriceType     models.PriceType
}

// Quote prices a meal for an eligible or ineligible employee
func Quote(normal, supported decimal.Decimal, eligible bool) Pricing {
	if !eligible {
		return Pricing{
			ActualPrice:   normal.Round(2),
			SupportAmount: decimal.Zero,
			PriceType:     models.PriceNormal,
		}
	}
	return Pricing{
		ActualPrice:   supported.Round(2),
		SupportAmount: normal.Sub(supported).Round(2),
		PriceType:     models.PriceSupported,
	}
}

// ConfigSource supplies the active support config
type ConfigSource interface {
	FindActive(ctx context.Context) (*models.SupportConfig, error)
}

// Evaluator resolves the current salary threshold
type Evaluator struct {
	source   ConfigSource
	fallback decimal.Decimal
}

// NewEvaluator creates an evaluator that uses fallback when no config is active
func NewEvaluator(source ConfigSource, fallback decimal.Decimal) *Evaluator {
	return &Evaluator{source: source, fallback: fallback}
}

// Threshold returns the active MaxSalaryForSupport, or the fallback if none is active
func (e *Evaluator) Threshold(ctx context.Context) (decimal.Decimal, error) {
	cfg, err := e.source.FindActive(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return e.fallback, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return cfg.MaxSalaryForSupport, nil
}

// Fallback returns the threshold used when no config is active
func (e *Evaluator) Fallback() decimal.Decimal {
	return e.fallback
}

// Eligible resolves the threshold and checks salary against it
func (e *Evaluator) Eligible(ctx context.Context, salary *decimal.Decimal) (bool, decimal.Decimal, error) {
	threshold, err := e.Threshold(ctx)
	if err != nil {
		return false, decimal.Zero, err
	}
	return IsEligible(salary, threshold), threshold, nil
}
