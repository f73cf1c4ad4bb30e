package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/recruitment-performance/internal/activity"
	"github.com/frahmantamala/recruitment-performance/internal/aging"
	"github.com/frahmantamala/recruitment-performance/internal/auth"
	"github.com/frahmantamala/recruitment-performance/internal/dropout"
	"github.com/frahmantamala/recruitment-performance/internal/health"
	"github.com/frahmantamala/recruitment-performance/internal/observability"
	"github.com/frahmantamala/recruitment-performance/internal/scoring"
	"github.com/frahmantamala/recruitment-performance/internal/transport/middleware"
	"github.com/frahmantamala/recruitment-performance/internal/transport/swagger"
	"github.com/frahmantamala/recruitment-performance/internal/user"
)

// Handlers groups the domain handlers mounted under /api/v1. A nil handler leaves its routes unmounted.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Activity     *activity.Handler
	Scoring      *scoring.Handler
	ClientHealth *health.Handler
	Aging        *aging.Handler
	Dropout      *dropout.Handler
}

type Options struct {
	AllowedOrigins string
	OpenAPISpec    []byte
	// Validator checks requests against OpenAPISpec; nil disables request validation.
	Validator   func(http.Handler) http.Handler
	Metrics     *observability.Metrics
	MetricsPath string
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, opts Options, logger *slog.Logger) {
	probes := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware(opts.Metrics))

	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, opts.Metrics.Handler())
	}

	if len(opts.OpenAPISpec) > 0 {
		spec := opts.OpenAPISpec
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(spec)
		})
		router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", probes.Check)
		r.Get("/ping", probes.Ping)

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			if opts.Validator != nil {
				pr.Use(opts.Validator)
			}

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			if h.Activity != nil {
				pr.Route("/activities", func(ar chi.Router) {
					ar.Post("/", h.Activity.RecordEntry)
					ar.Get("/", h.Activity.ListEntries)
				})
			}

			if h.Scoring != nil {
				pr.Get("/scores", h.Scoring.GetScore)
				pr.Get("/scores/scope", h.Scoring.GetScopeScore)
				pr.Get("/teams/{id}/leaderboard", h.Scoring.GetLeaderboard)
			}

			if h.ClientHealth != nil {
				pr.Get("/client-health", h.ClientHealth.GetClientHealth)
			}

			if h.Aging != nil {
				pr.Get("/aging", h.Aging.GetAging)
			}

			if h.Dropout != nil {
				pr.Route("/dropout-requests", func(dr chi.Router) {
					dr.Post("/", h.Dropout.CreateDropout)
					dr.Get("/", h.Dropout.ListDropouts)
					dr.Get("/{id}", h.Dropout.GetDropout)
					dr.Put("/{id}/acknowledge", h.Dropout.AcknowledgeDropout)
					dr.Put("/{id}/decide", h.Dropout.DecideDropout)
				})
			}
		})
	})
}
