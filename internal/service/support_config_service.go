package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/repository"
	"github.com/shopspring/decimal"
)

// SupportConfigService manages the salary threshold for supported pricing
type SupportConfigService struct {
	repo   repository.SupportConfigRepository
	logger *slog.Logger
}

// NewSupportConfigService creates a new support config service
func NewSupportConfigService(repo repository.SupportConfigRepository, logger *slog.Logger) *SupportConfigService {
	return &SupportConfigService{repo: repo, logger: logger}
}

// Active returns the active config
func (s *SupportConfigService) Active(ctx context.Context) (*models.SupportConfig, error) {
	cfg, err := s.repo.FindActive(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSupportConfigMissing
	}
	return cfg, err
}

// SetMaxSalary replaces the active config with a new one carrying maxSalary
func (s *SupportConfigService) SetMaxSalary(ctx context.Context, maxSalary *decimal.Decimal) (*models.SupportConfig, error) {
	if err := nonNegative(maxSalary, "max salary for support"); err != nil {
		return nil, err
	}

	cfg := &models.SupportConfig{MaxSalaryForSupport: maxSalary.Round(2)}
	if err := s.repo.Activate(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to activate support config: %w", err)
	}

	s.logger.Info("support threshold changed", "max_salary", cfg.MaxSalaryForSupport.StringFixed(2), "config_id", cfg.ID)
	return cfg, nil
}
