package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/Akshatcodegenics/Issue-tracker/internal/config"
)

// NewRouter assembles the HTTP surface: middleware stack, API routes, the
// event stream and the embedded frontend.
func NewRouter(cfg config.Config, db Pinger, issues *IssueHandler, eventsH *EventsHandler, frontend http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))

	r.Get("/health", Health(db))

	r.Route("/issues", func(r chi.Router) {
		r.Get("/", issues.List)
		r.Post("/", issues.Create)
		r.Get("/{id}", issues.Get)
		r.Put("/{id}", issues.Update)
	})
	r.Get("/assignees", issues.Assignees)
	r.Get("/events", eventsH.Stream)

	if frontend != nil {
		r.Handle("/*", frontend)
	}

	return r
}
