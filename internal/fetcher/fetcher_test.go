package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/satheeshk50/web-crawler/internal/monitoring"
)

// fakeRenderer drives FetchMany without a network.
type fakeRenderer struct {
	render func(ctx context.Context, url string) (string, error)
}

func (f *fakeRenderer) Name() string { return "fake" }

func (f *fakeRenderer) Render(ctx context.Context, url string) (string, error) {
	return f.render(ctx, url)
}

func newTestFetcher(r *fakeRenderer) *Fetcher {
	m := monitoring.NewMetricsWithRegistry(prometheus.NewRegistry())
	return NewFetcher(r, m, zap.NewNop())
}

func TestFetchManyReturnsOneResultPerURLInOrder(t *testing.T) {
	renderer := &fakeRenderer{render: func(ctx context.Context, url string) (string, error) {
		return "content of " + url, nil
	}}
	f := newTestFetcher(renderer)

	urls := []string{"https://a.example", "https://b.example", "https://c.example"}
	results := f.FetchMany(context.Background(), urls, time.Second, 2)

	if len(results) != len(urls) {
		t.Fatalf("expected %d results, got %d", len(urls), len(results))
	}
	for i, res := range results {
		if res.URL != urls[i] {
			t.Errorf("result %d out of order: got %q, want %q", i, res.URL, urls[i])
		}
		if !res.Success || res.Content != "content of "+urls[i] {
			t.Errorf("unexpected result %d: %+v", i, res)
		}
	}
}

func TestFetchManyPerURLTimeout(t *testing.T) {
	renderer := &fakeRenderer{render: func(ctx context.Context, url string) (string, error) {
		if strings.Contains(url, "slow") {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "fast content", nil
	}}
	f := newTestFetcher(renderer)

	urls := []string{"https://good.example", "https://slow.example"}
	results := f.FetchMany(context.Background(), urls, 50*time.Millisecond, 2)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Success || results[0].Content != "fast content" {
		t.Errorf("expected the fast URL to succeed: %+v", results[0])
	}
	if results[1].Success {
		t.Errorf("expected the slow URL to fail: %+v", results[1])
	}
	if !strings.Contains(results[1].Error, "Timeout") {
		t.Errorf("expected a timeout error, got %q", results[1].Error)
	}
	if results[1].Content != "" {
		t.Errorf("timed-out fetch must have empty content, got %q", results[1].Content)
	}
}

func TestFetchManyRendererErrorDoesNotAbortSiblings(t *testing.T) {
	renderer := &fakeRenderer{render: func(ctx context.Context, url string) (string, error) {
		if strings.Contains(url, "broken") {
			return "", errors.New("render backend exploded")
		}
		return "ok", nil
	}}
	f := newTestFetcher(renderer)

	urls := []string{"https://broken.example", "https://fine.example"}
	results := f.FetchMany(context.Background(), urls, time.Second, 2)

	if results[0].Success || !strings.Contains(results[0].Error, "render backend exploded") {
		t.Errorf("expected the broken URL to carry its error: %+v", results[0])
	}
	if !results[1].Success {
		t.Errorf("a sibling failure must not abort other fetches: %+v", results[1])
	}
}

func TestFetchManyBoundsConcurrency(t *testing.T) {
	var inFlight, peak int64
	renderer := &fakeRenderer{render: func(ctx context.Context, url string) (string, error) {
		cur := atomic.AddInt64(&inFlight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return "done", nil
	}}
	f := newTestFetcher(renderer)

	urls := make([]string, 8)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://site-%d.example", i)
	}
	results := f.FetchMany(context.Background(), urls, time.Second, 2)

	if len(results) != len(urls) {
		t.Fatalf("expected %d results, got %d", len(urls), len(results))
	}
	if got := atomic.LoadInt64(&peak); got > 2 {
		t.Errorf("concurrency gate violated: peak %d in-flight fetches", got)
	}
}

func TestFetchManyOverallTimeoutFailsAllURLs(t *testing.T) {
	// The renderer ignores cancellation entirely, so the per-URL timeouts
	// never fire and the aggregate deadline has to cut the batch off.
	renderer := &fakeRenderer{render: func(ctx context.Context, url string) (string, error) {
		time.Sleep(3 * time.Second)
		return "too late", nil
	}}
	f := newTestFetcher(renderer)

	urls := []string{"https://stuck-1.example", "https://stuck-2.example"}
	start := time.Now()
	results := f.FetchMany(context.Background(), urls, 50*time.Millisecond, 2)
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Errorf("batch must be abandoned at the aggregate deadline, took %s", elapsed)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, res := range results {
		if res.URL != urls[i] {
			t.Errorf("result %d out of order: %+v", i, res)
		}
		if res.Success {
			t.Errorf("result %d must be failed: %+v", i, res)
		}
		if res.Error != "Overall operation timeout" {
			t.Errorf("result %d: expected the overall timeout error, got %q", i, res.Error)
		}
	}
}

func TestFetchOneKeepsRendererErrorOnCallerCancel(t *testing.T) {
	// When the caller cancels mid-fetch for an unrelated reason, a real
	// renderer failure must not be relabeled as a timeout.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renderer := &fakeRenderer{render: func(ctx context.Context, url string) (string, error) {
		cancel()
		return "", errors.New("render backend exploded")
	}}
	f := newTestFetcher(renderer)

	res := f.fetchOne(ctx, "https://x.example", time.Second)
	if res.Success {
		t.Fatalf("expected a failure: %+v", res)
	}
	if res.Error != "render backend exploded" {
		t.Errorf("renderer error must survive as-is, got %q", res.Error)
	}
	if strings.Contains(res.Error, "Timeout") {
		t.Errorf("cancellation must not be reported as a timeout: %q", res.Error)
	}
}

func TestFetchManyEmptyInput(t *testing.T) {
	f := newTestFetcher(&fakeRenderer{render: func(ctx context.Context, url string) (string, error) {
		t.Fatal("renderer must not be called for an empty batch")
		return "", nil
	}})

	results := f.FetchMany(context.Background(), nil, time.Second, 3)
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestFetchManyAllFailuresStillOneResultPerURL(t *testing.T) {
	renderer := &fakeRenderer{render: func(ctx context.Context, url string) (string, error) {
		return "", errors.New("no backend")
	}}
	f := newTestFetcher(renderer)

	urls := []string{"https://x.example", "https://y.example", "https://z.example"}
	results := f.FetchMany(context.Background(), urls, time.Second, 1)

	if len(results) != len(urls) {
		t.Fatalf("expected %d results, got %d", len(urls), len(results))
	}
	for i, res := range results {
		if res.URL != urls[i] || res.Success {
			t.Errorf("unexpected result %d: %+v", i, res)
		}
	}
}
