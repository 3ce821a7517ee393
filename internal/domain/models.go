package domain

import "time"

// ExplainRequest is the payload for the topic-explanation API.
type ExplainRequest struct {
	Topic      string `json:"topic"`
	MaxResults int    `json:"max_results,omitempty"`
}

// FetchRequest is the payload for the bulk URL fetch API.
type FetchRequest struct {
	URLs []string `json:"urls"`
}

// SearchHit is one ranked entry from the search collaborator. It only
// exists to seed the orchestrator's fetch list.
type SearchHit struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// ExtractedPage holds everything pulled out of a single page by the
// extractor. It is built in one extraction call and never mutated after.
type ExtractedPage struct {
	Title              string   `json:"title"`
	Content            string   `json:"content"`
	Description        string   `json:"description"`
	URL                string   `json:"url"`
	WordCount          int      `json:"word_count"`
	Status             string   `json:"status"` // "success", "error: ...", "parsing error: ..."
	InternalLinks      []string `json:"internal_links"`
	InternalLinksCount int      `json:"internal_links_count"`
}

// Succeeded reports whether the extraction completed without a transport
// or parsing failure.
func (p *ExtractedPage) Succeeded() bool {
	return p.Status == StatusSuccess
}

// CrawledPage merges an extracted page with the search metadata of the hit
// that produced it.
type CrawledPage struct {
	ExtractedPage
	SearchTitle    string    `json:"search_title"`
	SearchSnippet  string    `json:"search_snippet"`
	SearchPosition int       `json:"search_position"`
	CrawledAt      time.Time `json:"crawled_at"`
}

// FetchResult is the outcome of fetching one URL through the bounded
// fetcher. Exactly one is produced per input URL.
type FetchResult struct {
	URL     string `json:"url"`
	Success bool   `json:"success"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// Extraction status values.
const (
	StatusSuccess          = "success"
	StatusErrorPrefix      = "error: "
	StatusParseErrorPrefix = "parsing error: "
)
