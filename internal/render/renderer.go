package render

import "context"

// Renderer turns a URL into its readable markdown content. Implementations
// must honor context cancellation on every network call; the bounded
// fetcher relies on that for its per-URL timeouts.
type Renderer interface {
	Name() string
	Render(ctx context.Context, url string) (string, error)
}
