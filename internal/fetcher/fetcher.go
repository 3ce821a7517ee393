package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/satheeshk50/web-crawler/internal/domain"
	"github.com/satheeshk50/web-crawler/internal/monitoring"
	"github.com/satheeshk50/web-crawler/internal/render"
)

// overallTimeoutMsg is the error reported on every URL when the aggregate
// batch deadline expires before the workers finish.
const overallTimeoutMsg = "Overall operation timeout"

// Fetcher fetches batches of URLs through a renderer with a bounded number
// of in-flight requests.
type Fetcher struct {
	renderer render.Renderer
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

func NewFetcher(r render.Renderer, m *monitoring.Metrics, l *zap.Logger) *Fetcher {
	return &Fetcher{
		renderer: r,
		metrics:  m,
		logger:   l,
	}
}

// FetchMany fetches every URL with at most maxConcurrent requests in
// flight and perURLTimeout applied to each. It always returns exactly one
// result per input URL, in input order. A failed or timed-out URL never
// aborts its siblings.
//
// The whole batch runs under an aggregate deadline of perURLTimeout times
// the URL count. If that expires, all still-pending work is abandoned (not
// awaited) and every URL is reported failed with overallTimeoutMsg.
func (f *Fetcher) FetchMany(ctx context.Context, urls []string, perURLTimeout time.Duration, maxConcurrent int) []domain.FetchResult {
	if len(urls) == 0 {
		return []domain.FetchResult{}
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	batchCtx, cancel := context.WithTimeout(ctx, perURLTimeout*time.Duration(len(urls)))
	defer cancel()

	sem := semaphore.NewWeighted(int64(maxConcurrent))
	results := make([]domain.FetchResult, len(urls))
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			if err := sem.Acquire(batchCtx, 1); err != nil {
				results[i] = domain.FetchResult{URL: u, Success: false, Error: overallTimeoutMsg}
				return
			}
			defer sem.Release(1)
			results[i] = f.fetchOne(batchCtx, u, perURLTimeout)
		}(i, u)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return results
	case <-batchCtx.Done():
		// Abandon in-flight work; the stragglers' goroutines are left to
		// drain on their own. Every URL is reported failed uniformly.
		f.logger.Warn("batch fetch hit the overall deadline, abandoning pending work",
			zap.Int("urls", len(urls)),
			zap.Duration("per_url_timeout", perURLTimeout))
		f.metrics.IncErrorsTotal("batch_timeout")
		failed := make([]domain.FetchResult, len(urls))
		for i, u := range urls {
			failed[i] = domain.FetchResult{URL: u, Success: false, Error: overallTimeoutMsg}
		}
		return failed
	}
}

func (f *Fetcher) fetchOne(ctx context.Context, url string, timeout time.Duration) domain.FetchResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	content, err := f.renderer.Render(ctx, url)
	duration := time.Since(start)

	if err != nil {
		f.metrics.ObserveScrapeDuration("failure", duration)
		f.metrics.IncErrorsTotal("scrape_failed")
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			f.logger.Warn("scrape timed out", zap.String("url", url), zap.Duration("timeout", timeout))
			return domain.FetchResult{
				URL:     url,
				Success: false,
				Error:   fmt.Sprintf("Timeout after %s", timeout),
			}
		}
		f.logger.Warn("scrape failed", zap.String("url", url), zap.Error(err))
		return domain.FetchResult{URL: url, Success: false, Error: err.Error()}
	}

	f.metrics.ObserveScrapeDuration("success", duration)
	f.logger.Info("scraped url",
		zap.String("url", url),
		zap.String("renderer", f.renderer.Name()),
		zap.Duration("duration", duration))
	return domain.FetchResult{URL: url, Success: true, Content: content}
}
