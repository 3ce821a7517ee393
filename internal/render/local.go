package render

import (
	"context"
	"fmt"
	"io"
	"net/http"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/satheeshk50/web-crawler/internal/useragent"
)

// maxBodyBytes caps the response body read for local rendering.
const maxBodyBytes = 10 * 1024 * 1024

// LocalRenderer is the fallback used when no remote scrape API is
// configured: it fetches the raw HTML itself and converts it to markdown
// in-process.
type LocalRenderer struct {
	httpClient *http.Client
	agents     *useragent.Rotator
}

func NewLocalRenderer(agents *useragent.Rotator) *LocalRenderer {
	return &LocalRenderer{
		httpClient: &http.Client{},
		agents:     agents,
	}
}

func (r *LocalRenderer) Name() string { return "local" }

// Render fetches url and converts its HTML body to markdown.
func (r *LocalRenderer) Render(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", r.agents.Get())

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}
	return markdown, nil
}
