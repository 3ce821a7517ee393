package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/satheeshk50/web-crawler/internal/config"
	"github.com/satheeshk50/web-crawler/internal/crawl"
	"github.com/satheeshk50/web-crawler/internal/fetcher"
	"github.com/satheeshk50/web-crawler/internal/monitoring"
)

// Pinger reports whether a backing store is reachable. The health check
// uses it when the page cache is enabled.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	config       *config.Config
	router       http.Handler
	httpServer   *http.Server
	orchestrator *crawl.Orchestrator
	fetcher      *fetcher.Fetcher
	cache        Pinger // optional, nil when caching is disabled
	metrics      *monitoring.Metrics
	logger       *zap.Logger
}

func NewServer(cfg *config.Config, o *crawl.Orchestrator, f *fetcher.Fetcher, cache Pinger, m *monitoring.Metrics, l *zap.Logger) *Server {
	s := &Server{
		config:       cfg,
		orchestrator: o,
		fetcher:      f,
		cache:        cache,
		metrics:      m,
		logger:       l,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // crawls are sequential and paced, responses can take a while
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
