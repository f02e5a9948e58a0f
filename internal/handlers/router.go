package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ethernet-moe/cafeteria-backend/internal/config"
	"github.com/ethernet-moe/cafeteria-backend/internal/middleware"
	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Services groups everything the HTTP layer calls into
type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Employees     *service.EmployeeService
	Catalog       *service.CatalogService
	MealRecords   *service.MealRecordService
	Reports       *service.ReportService
	SupportConfig *service.SupportConfigService
}

// NewRouter builds the API router with its middleware stack
func NewRouter(svc Services, db Pinger, corsCfg config.CORSConfig, log *slog.Logger) http.Handler {
	health := NewHealthHandler(db, log)
	auth := NewAuthHandler(svc.Auth, log)
	users := NewUserHandler(svc.Users, log)
	employees := NewEmployeeHandler(svc.Employees, log)
	catalog := NewCatalogHandler(svc.Catalog, log)
	records := NewMealRecordHandler(svc.MealRecords, log)
	reports := NewReportHandler(svc.Reports, log)
	support := NewSupportConfigHandler(svc.SupportConfig, log)

	authenticated := middleware.JWTAuth(svc.Auth)
	managers := middleware.RequireRole(models.RoleManager, models.RoleAdmin)
	admins := middleware.RequireRole(models.RoleAdmin)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", health.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", auth.Login)
			r.With(authenticated).Get("/me", auth.Me)
		})

		r.Route("/meal-records", func(r chi.Router) {
			// kiosk endpoints; a valid token only attributes the record to its user
			r.With(middleware.OptionalAuth(svc.Auth)).Post("/record", records.Record)
			r.Get("/check-duplicate", records.CheckDuplicate)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/", records.List)
				r.Get("/date-range", records.ListBetween)
				r.Get("/department/{department}/date-range", records.ListByDepartmentBetween)
				r.Get("/employee/{employeeId}", records.ListByEmployee)
				r.Get("/{id}", records.Get)
				r.Get("/{id}/receipt", records.Receipt)
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/card/{cardId}", employees.GetByCard)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/", employees.List)
				r.Get("/support-eligible", employees.ListEligible)
				r.Get("/by-employee-id/{employeeId}", employees.GetByEmployeeID)
				r.Get("/{id}", employees.Get)
				r.Get("/{employeeId}/usage-stats", employees.UsageStats)
				r.Get("/{employeeId}/meal-records", records.ListByEmployee)

				r.Group(func(r chi.Router) {
					r.Use(managers)
					r.Post("/", employees.Create)
					r.Put("/{id}", employees.Update)
					r.Patch("/{id}/toggle", employees.ToggleStatus)
					r.Delete("/{id}", employees.Delete)
				})
			})
		})

		r.Route("/meal-types", func(r chi.Router) {
			r.Get("/", catalog.ListActiveMealTypes)
			r.Get("/{id}", catalog.GetMealType)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/all", catalog.ListAllMealTypes)

				r.Group(func(r chi.Router) {
					r.Use(managers)
					r.Post("/", catalog.CreateMealType)
					r.Put("/{id}", catalog.UpdateMealType)
					r.Patch("/{id}/toggle", catalog.ToggleMealType)
					r.Delete("/{id}", catalog.DeleteMealType)
				})
			})
		})

		r.Route("/meal-categories", func(r chi.Router) {
			r.Get("/", catalog.ListActiveMealCategories)
			r.Get("/{id}", catalog.GetMealCategory)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/all", catalog.ListAllMealCategories)

				r.Group(func(r chi.Router) {
					r.Use(managers)
					r.Post("/", catalog.CreateMealCategory)
					r.Put("/{id}", catalog.UpdateMealCategory)
					r.Patch("/{id}/toggle", catalog.ToggleMealCategory)
					r.Delete("/{id}", catalog.DeleteMealCategory)
				})
			})
		})

		r.Route("/meal-items", func(r chi.Router) {
			r.Get("/", catalog.ListActiveMealItems)
			r.Get("/{id}", catalog.GetMealItem)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/all", catalog.ListAllMealItems)

				r.Group(func(r chi.Router) {
					r.Use(managers)
					r.Post("/", catalog.CreateMealItem)
					r.Put("/{id}", catalog.UpdateMealItem)
					r.Patch("/{id}/availability", catalog.UpdateAvailability)
					r.Patch("/{id}/toggle", catalog.ToggleMealItem)
					r.Delete("/{id}", catalog.DeleteMealItem)
				})
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/summary", reports.Summary)
			r.Get("/departments", reports.Departments)
			r.Get("/categories", reports.Categories)
		})

		r.Route("/support-config", func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/", support.Get)

			r.Group(func(r chi.Router) {
				r.Use(managers)
				r.Post("/", support.Create)
				r.Put("/max-salary", support.SetMaxSalary)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticated, admins)
			r.Get("/", users.List)
			r.Post("/", users.Create)
			r.Get("/{id}", users.Get)
			r.Put("/{id}", users.Update)
			r.Patch("/{id}/toggle", users.ToggleStatus)
			r.Delete("/{id}", users.Delete)
		})
	})

	return r
}
