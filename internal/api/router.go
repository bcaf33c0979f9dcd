package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/isep-jornadas/checkin/internal/api/handlers"
	"github.com/isep-jornadas/checkin/internal/api/middleware"
	"github.com/isep-jornadas/checkin/internal/config"
	"github.com/isep-jornadas/checkin/internal/service"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	// Initialize handlers
	studentHandler := handlers.NewStudentHandler(services.Student, services.Dashboard, services.Scan, cfg.MaxCVBytes)
	companyHandler := handlers.NewCompanyHandler(services.Auth, services.Company, services.Scan, services.Dashboard)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Route("/students", func(r chi.Router) {
			r.Post("/", studentHandler.Register)
			r.Get("/{slug}", studentHandler.GetProfile)
			r.Get("/{slug}/cv", studentHandler.GetCV)
			r.Get("/{slug}/dashboard", studentHandler.Dashboard)
			// Scan authenticates the bearer token itself
			r.Post("/{slug}/scan", studentHandler.Scan)
		})

		r.Route("/company", func(r chi.Router) {
			r.Post("/auth/login", companyHandler.Login)
			r.Post("/scans", companyHandler.Scan)

			// Protected company routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.CompanyAuth(services.Auth, handlers.WriteError))
				r.Get("/me", companyHandler.Me)
				r.Get("/dashboard", companyHandler.Dashboard)
			})

			// Event staff routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSetupKey(cfg.AdminSetupKey, handlers.WriteError))
				r.Post("/provision", companyHandler.Provision)
				r.Patch("/{id}/active", companyHandler.SetActive)
			})
		})
	})

	return r
}
