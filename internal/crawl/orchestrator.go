package crawl

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/satheeshk50/web-crawler/internal/domain"
	"github.com/satheeshk50/web-crawler/internal/extract"
	"github.com/satheeshk50/web-crawler/internal/monitoring"
)

// Searcher is the search collaborator the orchestrator seeds its crawl
// list from.
type Searcher interface {
	Search(ctx context.Context, query string, num int) ([]domain.SearchHit, error)
}

// PageCache holds recently extracted pages between crawls. Get reports a
// miss as (nil, nil).
type PageCache interface {
	Get(ctx context.Context, url string) (*domain.ExtractedPage, error)
	Set(ctx context.Context, page *domain.ExtractedPage) error
}

// Orchestrator turns a topic into crawled content: it asks the search
// collaborator for ranked hits, then extracts each hit's page strictly
// sequentially with a pacing delay between requests.
type Orchestrator struct {
	searcher       Searcher
	extractor      *extract.Extractor
	cache          PageCache // optional, nil disables caching
	metrics        *monitoring.Metrics
	logger         *zap.Logger
	extractTimeout time.Duration
}

func NewOrchestrator(s Searcher, e *extract.Extractor, cache PageCache, m *monitoring.Metrics, l *zap.Logger, extractTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		searcher:       s,
		extractor:      e,
		cache:          cache,
		metrics:        m,
		logger:         l,
		extractTimeout: extractTimeout,
	}
}

// CrawlRelatedContent searches for query, extracts the top maxResults hit
// pages one at a time and merges each page with its search metadata. After
// every hit except the last it pauses for delay; the sequential pacing is
// deliberate so bursts never hit the same remote hosts.
//
// A failed or empty search yields an empty list. Per-page failures surface
// in each record's status field; this method never returns an error.
func (o *Orchestrator) CrawlRelatedContent(ctx context.Context, query string, maxResults int, delay time.Duration) []domain.CrawledPage {
	o.logger.Info("starting content crawl", zap.String("query", query), zap.Int("max_results", maxResults))

	hits, err := o.searcher.Search(ctx, query, maxResults)
	if err != nil {
		o.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		o.metrics.IncErrorsTotal("search_failed")
		return []domain.CrawledPage{}
	}
	if len(hits) == 0 {
		o.logger.Error("no search results found", zap.String("query", query))
		return []domain.CrawledPage{}
	}
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}

	crawled := make([]domain.CrawledPage, 0, len(hits))
	for i, hit := range hits {
		o.logger.Info("crawling search hit",
			zap.String("url", hit.URL),
			zap.Int("index", i+1),
			zap.Int("total", len(hits)))

		page := o.extractPage(ctx, hit.URL)
		crawled = append(crawled, domain.CrawledPage{
			ExtractedPage:  *page,
			SearchTitle:    hit.Title,
			SearchSnippet:  hit.Snippet,
			SearchPosition: hit.Position,
			CrawledAt:      time.Now(),
		})
		o.metrics.IncPagesCrawledTotal()

		if i < len(hits)-1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				o.logger.Warn("crawl cancelled mid-batch", zap.String("query", query))
				return crawled
			}
		}
	}

	o.logger.Info("crawl completed", zap.String("query", query), zap.Int("pages", len(crawled)))
	return crawled
}

// extractPage consults the cache before hitting the network and stores
// successful extractions back. Cache failures are soft: the crawl carries
// on without caching.
func (o *Orchestrator) extractPage(ctx context.Context, url string) *domain.ExtractedPage {
	if o.cache != nil {
		page, err := o.cache.Get(ctx, url)
		if err != nil {
			o.logger.Warn("page cache lookup failed", zap.String("url", url), zap.Error(err))
			o.metrics.IncErrorsTotal("cache_error")
		} else if page != nil {
			o.logger.Info("serving page from cache", zap.String("url", url))
			return page
		}
	}

	page := o.extractor.Extract(ctx, url, o.extractTimeout)

	if o.cache != nil && page.Succeeded() {
		if err := o.cache.Set(ctx, page); err != nil {
			o.logger.Warn("failed to cache page", zap.String("url", url), zap.Error(err))
			o.metrics.IncErrorsTotal("cache_error")
		}
	}
	return page
}
