package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// FirecrawlClient renders pages through a Firecrawl-compatible scrape API,
// requesting main-content markdown only. The service is an opaque
// collaborator: any error or empty payload is reported as-is.
type FirecrawlClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewFirecrawlClient(apiKey, baseURL string) *FirecrawlClient {
	return &FirecrawlClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

func (c *FirecrawlClient) Name() string { return "firecrawl" }

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
	Error string `json:"error"`
}

// Render scrapes url and returns its markdown content. The per-call
// deadline comes from ctx; the client itself sets no timeout.
func (c *FirecrawlClient) Render(ctx context.Context, url string) (string, error) {
	payload, err := json.Marshal(scrapeRequest{
		URL:             url,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scrape", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build scrape request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("scrape request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("scrape API returned status %d", resp.StatusCode)
	}

	var result scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode scrape response: %w", err)
	}
	if !result.Success {
		if result.Error != "" {
			return "", fmt.Errorf("scrape failed: %s", result.Error)
		}
		return "", fmt.Errorf("scrape failed for %s", url)
	}
	return result.Data.Markdown, nil
}
