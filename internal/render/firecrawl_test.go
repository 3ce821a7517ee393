package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFirecrawlRenderSendsScrapeRequest(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/scrape" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer fc-test" {
			t.Errorf("missing bearer header, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"# Hello"}}`))
	}))
	defer server.Close()

	client := NewFirecrawlClient("fc-test", server.URL)
	md, err := client.Render(context.Background(), "https://example.com/post")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md != "# Hello" {
		t.Errorf("unexpected markdown %q", md)
	}

	if gotBody["url"] != "https://example.com/post" {
		t.Errorf("expected url in payload, got %#v", gotBody["url"])
	}
	formats, ok := gotBody["formats"].([]any)
	if !ok || len(formats) != 1 || formats[0] != "markdown" {
		t.Errorf("expected formats=[markdown], got %#v", gotBody["formats"])
	}
	if gotBody["onlyMainContent"] != true {
		t.Errorf("expected onlyMainContent=true, got %#v", gotBody["onlyMainContent"])
	}
}

func TestFirecrawlRenderReportsServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"page blocked"}`))
	}))
	defer server.Close()

	client := NewFirecrawlClient("fc-test", server.URL)
	if _, err := client.Render(context.Background(), "https://example.com"); err == nil {
		t.Fatal("expected an error when the service reports failure")
	}
}

func TestFirecrawlRenderReportsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := NewFirecrawlClient("fc-test", server.URL)
	if _, err := client.Render(context.Background(), "https://example.com"); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
