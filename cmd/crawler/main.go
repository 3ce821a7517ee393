package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/satheeshk50/web-crawler/internal/api"
	"github.com/satheeshk50/web-crawler/internal/config"
	"github.com/satheeshk50/web-crawler/internal/crawl"
	"github.com/satheeshk50/web-crawler/internal/extract"
	"github.com/satheeshk50/web-crawler/internal/fetcher"
	"github.com/satheeshk50/web-crawler/internal/monitoring"
	"github.com/satheeshk50/web-crawler/internal/render"
	"github.com/satheeshk50/web-crawler/internal/search"
	"github.com/satheeshk50/web-crawler/internal/storage"
	"github.com/satheeshk50/web-crawler/internal/useragent"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}
	if cfg.SerperAPIKey == "" {
		logger.Fatal("SERPER_API_KEY must be set")
	}

	// Optional page cache. The interface variables stay nil when caching
	// is disabled so downstream nil checks behave.
	var pageCache crawl.PageCache
	var cachePinger api.Pinger
	if cfg.RedisAddr != "" {
		cache := storage.NewPageCache(cfg.RedisAddr, cfg.CacheTTL())
		pageCache = cache
		cachePinger = cache
		logger.Info("page cache enabled", zap.String("redis_addr", cfg.RedisAddr))
	}

	// Initialize monitoring and shared helpers
	metrics := monitoring.NewMetrics()
	agents := useragent.NewRotator()

	// Search collaborator and extractor feed the crawl orchestrator
	searchClient := search.NewClient(cfg.SerperAPIKey, cfg.SerperBaseURL, cfg.SearchCountry, cfg.SearchLanguage, logger)
	extractor := extract.NewExtractor(agents, cfg.MaxContentChars, cfg.MaxInternalLinks, logger)
	orchestrator := crawl.NewOrchestrator(searchClient, extractor, pageCache, metrics, logger, cfg.ExtractTimeout())

	// The bulk fetcher renders through Firecrawl when a key is configured,
	// otherwise it falls back to in-process markdown conversion.
	var renderer render.Renderer
	if cfg.FirecrawlAPIKey != "" {
		renderer = render.NewFirecrawlClient(cfg.FirecrawlAPIKey, cfg.FirecrawlBaseURL)
	} else {
		renderer = render.NewLocalRenderer(agents)
	}
	logger.Info("renderer selected", zap.String("renderer", renderer.Name()))

	bulkFetcher := fetcher.NewFetcher(renderer, metrics, logger)

	// Initialize API Server
	server := api.NewServer(cfg, orchestrator, bulkFetcher, cachePinger, metrics, logger)

	// Graceful Shutdown
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
