package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.With(middleware.Timeout(10 * time.Second)).Get("/api/health", s.handleHealthCheck)

	r.Route("/api", func(r chi.Router) {
		// Crawls run sequentially with a pacing delay, so these routes
		// need far more headroom than the cheap endpoints above.
		r.Use(middleware.Timeout(5 * time.Minute))
		r.Post("/explain", s.handleExplainRequest)
		r.Post("/fetch", s.handleFetchRequest)
	})

	return r
}
