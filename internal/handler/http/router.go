package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/theglobal/uren-backend-go/internal/handler/http/middleware"
	"github.com/theglobal/uren-backend-go/internal/pkg/jwt"
)

// RouterOptions carries the cross-cutting pieces the router mounts.
type RouterOptions struct {
	Logger         *slog.Logger
	CORSOrigins    []string
	MetricsHandler http.Handler
}

func NewRouter(
	JWTService jwt.Service,
	opts RouterOptions,
	clockHandler ClockHandler,
	reportHandler ReportHandler,
	siteHandler SiteHandler,
	auditHandler AuditHandler,
	streamHandler StreamHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/clock", func(r chi.Router) {
				r.Post("/in", clockHandler.ClockIn)
				r.Get("/status", clockHandler.Status)
				r.Get("/events", streamHandler.ClockEvents)

				r.Route("/sessions", func(r chi.Router) {
					r.Get("/", clockHandler.ListSessions)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", clockHandler.GetSession)
						r.Post("/out", clockHandler.ClockOut)
						r.Post("/positions", clockHandler.LogPosition)
						r.Get("/positions", clockHandler.ListPositions)

						// Admin only
						r.With(middleware.AdminOnly).Delete("/", clockHandler.DeleteSession)
					})
				})
			})

			r.Get("/time-entries/my-overview", reportHandler.MyOverview)

			r.Route("/sites", func(r chi.Router) {
				r.Get("/", siteHandler.List)
				r.Get("/{id}", siteHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", siteHandler.Create)
					r.Put("/{id}", siteHandler.Update)
					r.Delete("/{id}", siteHandler.Deactivate)
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/time-entries/overview", reportHandler.Overview)
				r.Get("/timesheet", reportHandler.Timesheet)
				r.Get("/audit", auditHandler.List)
			})
		})
	})
	return r
}
