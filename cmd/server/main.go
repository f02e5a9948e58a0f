package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ethernet-moe/cafeteria-backend/internal/config"
	"github.com/ethernet-moe/cafeteria-backend/internal/database"
	"github.com/ethernet-moe/cafeteria-backend/internal/handlers"
	"github.com/ethernet-moe/cafeteria-backend/internal/repository"
	"github.com/ethernet-moe/cafeteria-backend/internal/service"
	"github.com/ethernet-moe/cafeteria-backend/internal/subsidy"
	"github.com/ethernet-moe/cafeteria-backend/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	// Redemption days and report windows follow the cafeteria's timezone
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}
	time.Local = loc

	log.Info("starting cafeteria api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"db_driver", cfg.Database.Driver,
		"timezone", cfg.Timezone,
		"log_level", cfg.LogLevel,
	)

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	if err := database.Migrate(db); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	orders, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		return fmt.Errorf("failed to create order number generator: %w", err)
	}

	// Initialize repositories
	employeeRepo := repository.NewEmployeeRepository(db)
	mealTypeRepo := repository.NewMealTypeRepository(db)
	categoryRepo := repository.NewMealCategoryRepository(db)
	itemRepo := repository.NewMealItemRepository(db)
	recordRepo := repository.NewMealRecordRepository(db)
	supportRepo := repository.NewSupportConfigRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	evaluator := subsidy.NewEvaluator(supportRepo, cfg.Support.FallbackMaxSalary)
	svc := handlers.Services{
		Auth:          service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		Users:         service.NewUserService(userRepo, log),
		Employees:     service.NewEmployeeService(employeeRepo, recordRepo, evaluator),
		Catalog:       service.NewCatalogService(mealTypeRepo, categoryRepo, itemRepo),
		MealRecords:   service.NewMealRecordService(employeeRepo, categoryRepo, itemRepo, recordRepo, evaluator, orders, log),
		Reports:       service.NewReportService(recordRepo, employeeRepo, evaluator),
		SupportConfig: service.NewSupportConfigService(supportRepo, log),
	}

	if err := svc.Users.EnsureAdmin(context.Background(), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handlers.NewRouter(svc, sqlDB, cfg.CORS, log),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	}

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}
