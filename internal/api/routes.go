package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zapponejosh/service-calendar/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET  /health
//	GET  /api/v1/calendars?start=YYYY&end=YYYY
//	GET  /api/v1/calendars/stored
//	GET  /api/v1/calendars/{year}
//	GET  /api/v1/calendars/{year}/stored
//	GET  /api/v1/liturgical/service?date=M/D/YY
//	GET  /api/v1/liturgical/{date}
//	GET  /api/v1/cache
//	POST /api/v1/cache/clear
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RecoveryMiddleware(logger))
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware(cfg))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/calendars", func(r chi.Router) {
			r.Get("/", handlers.GetCalendarRange)
			r.Get("/stored", handlers.ListStoredCalendars)
			r.Get("/{year}", handlers.GetCalendar)
			r.Get("/{year}/stored", handlers.GetStoredCalendar)
		})

		r.Route("/liturgical", func(r chi.Router) {
			r.Get("/service", handlers.GetServiceInfo)
			r.Get("/{date}", handlers.GetLiturgicalInfo)
		})

		r.Get("/cache", handlers.GetCacheStats)
		r.Post("/cache/clear", handlers.ClearCache)
	})

	return r
}
