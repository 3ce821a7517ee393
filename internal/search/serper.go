package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/satheeshk50/web-crawler/internal/domain"
)

const requestTimeout = 15 * time.Second

// Client talks to a Serper-compatible search API. The API is treated as an
// opaque collaborator: a response missing the organic results field is the
// same as a response with no results.
type Client struct {
	apiKey     string
	baseURL    string
	country    string
	language   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(apiKey, baseURL, country, language string, l *zap.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		country:    country,
		language:   language,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     l,
	}
}

type searchRequest struct {
	Query    string `json:"q"`
	Num      int    `json:"num"`
	Country  string `json:"gl"`
	Language string `json:"hl"`
}

type organicResult struct {
	Link     string `json:"link"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

type searchResponse struct {
	Organic []organicResult `json:"organic"`
}

// Search runs a web search and returns the ranked hits. Transport and HTTP
// failures come back as errors; a well-formed response without organic
// results yields an empty slice and no error.
func (c *Client) Search(ctx context.Context, query string, num int) ([]domain.SearchHit, error) {
	payload, err := json.Marshal(searchRequest{
		Query:    query,
		Num:      num,
		Country:  c.country,
		Language: c.language,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	if len(result.Organic) == 0 {
		c.logger.Warn("search returned no organic results", zap.String("query", query))
		return []domain.SearchHit{}, nil
	}

	hits := make([]domain.SearchHit, 0, len(result.Organic))
	for _, r := range result.Organic {
		hits = append(hits, domain.SearchHit{
			URL:      r.Link,
			Title:    r.Title,
			Snippet:  r.Snippet,
			Position: r.Position,
		})
	}
	return hits, nil
}
