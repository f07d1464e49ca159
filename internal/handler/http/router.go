package http

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	PayRun    PayRunHandler
	Timesheet TimesheetHandler
	NICTax    NICTaxHandler
	Employee  EmployeeHandler
}

// NewRouter mounts the API. requestTimeout bounds every request except the event stream.
func NewRouter(logger *slog.Logger, JWTService jwt.Service, allowedOrigins []string, requestTimeout time.Duration, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Event stream; browsers cannot set headers on EventSource, so the token may come as ?jwt=
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Get("/payruns/events", h.PayRun.Events)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(chiMiddleware.AllowContentType("application/json"))
			r.Use(chiMiddleware.Timeout(requestTimeout))

			r.Route("/payruns", func(r chi.Router) {
				r.Post("/", h.PayRun.Create)
				r.Get("/", h.PayRun.List)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.PayRun.GetByID)
					r.Patch("/", h.PayRun.Update)
					r.Delete("/", h.PayRun.Delete)

					r.Post("/recalculate", h.PayRun.Recalculate)
					r.Post("/approve", h.PayRun.Approve)
					r.Post("/revert", h.PayRun.Revert)
					r.Post("/pay", h.PayRun.MarkPaid)
				})
			})

			r.Route("/timesheets/{id}", func(r chi.Router) {
				r.Put("/entries", h.Timesheet.UpdateEntries)
				r.Get("/lock", h.Timesheet.GetLockStatus)
			})

			r.Patch("/nictax/{id}", h.NICTax.Update)

			r.Route("/employees", func(r chi.Router) {
				r.Post("/batch", h.Employee.BatchCreate)
				r.Get("/{id}", h.Employee.GetByID)
			})
		})
	})
	return r
}
