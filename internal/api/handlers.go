package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satheeshk50/web-crawler/internal/domain"
)

// followUpInstruction tells the caller what to do with the crawl output:
// pick the internal links worth reading and feed them, as a list of URL
// strings, to the fetch endpoint.
const followUpInstruction = "You received page content and internal links from the web. " +
	"Decide which internal links contain useful content for explaining the topic, " +
	"then fetch those links through the fetch operation, passing only the required " +
	"URLs as a list of strings. Summarize the fetched blogs along with their URLs."

type explainResponse struct {
	Topic    string               `json:"topic"`
	Results  []domain.CrawledPage `json:"results"`
	FollowUp string               `json:"follow_up"`
}

type fetchResponse struct {
	Results []domain.FetchResult `json:"results"`
}

func (s *Server) handleExplainRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		s.respondWithError(w, http.StatusBadRequest, "Topic cannot be empty")
		return
	}

	maxResults := req.MaxResults
	if maxResults <= 0 || maxResults > s.config.CrawlMaxResults {
		maxResults = s.config.CrawlMaxResults
	}

	results := s.orchestrator.CrawlRelatedContent(r.Context(), req.Topic, maxResults, s.config.CrawlDelay())

	s.respondWithJSON(w, http.StatusOK, explainResponse{
		Topic:    req.Topic,
		Results:  results,
		FollowUp: followUpInstruction,
	})
}

func (s *Server) handleFetchRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.URLs) == 0 {
		s.respondWithError(w, http.StatusBadRequest, "URLs list cannot be empty")
		return
	}
	for _, u := range req.URLs {
		if _, err := url.ParseRequestURI(u); err != nil {
			s.respondWithError(w, http.StatusBadRequest, "Invalid URL in list: "+u)
			return
		}
	}

	results := s.fetcher.FetchMany(r.Context(), req.URLs, s.config.ScrapeTimeout(), s.config.MaxConcurrentScrape)

	s.respondWithJSON(w, http.StatusOK, fetchResponse{Results: results})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := map[string]string{"server": "healthy"}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			healthStatus["redis"] = "unhealthy"
			s.logger.Error("health check failed for redis", zap.Error(err))
			s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
			return
		}
		healthStatus["redis"] = "healthy"
	}

	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
