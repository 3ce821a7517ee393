package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/satheeshk50/web-crawler/internal/domain"
	"github.com/satheeshk50/web-crawler/internal/useragent"
)

// maxBodyBytes caps how much of a response body is read before parsing.
const maxBodyBytes = 10 * 1024 * 1024

// contentSelectors are tried in order; the first match wins. They cover the
// semantic containers and the class names most blog engines use.
var contentSelectors = []string{
	"article", "main", `[role="main"]`,
	".content", ".post-content", ".entry-content",
	".article-content", ".post-body",
}

// Extractor fetches pages over plain HTTP and pulls out the title, main
// content, meta description and same-domain links.
type Extractor struct {
	client           *http.Client
	agents           *useragent.Rotator
	maxContentChars  int
	maxInternalLinks int
	logger           *zap.Logger
}

func NewExtractor(agents *useragent.Rotator, maxContentChars, maxInternalLinks int, l *zap.Logger) *Extractor {
	return &Extractor{
		client:           &http.Client{},
		agents:           agents,
		maxContentChars:  maxContentChars,
		maxInternalLinks: maxInternalLinks,
		logger:           l,
	}
}

// Extract fetches pageURL with the given timeout and returns the extracted
// page. It never returns an error: transport failures come back with a
// "error: ..." status and parse failures with "parsing error: ...", both
// with empty content fields.
func (e *Extractor) Extract(ctx context.Context, pageURL string, timeout time.Duration) *domain.ExtractedPage {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := e.fetch(ctx, pageURL)
	if err != nil {
		e.logger.Error("failed to fetch page", zap.String("url", pageURL), zap.Error(err))
		return failedPage(pageURL, domain.StatusErrorPrefix+err.Error())
	}

	page, err := e.parse(pageURL, body)
	if err != nil {
		e.logger.Error("failed to parse page", zap.String("url", pageURL), zap.Error(err))
		return failedPage(pageURL, domain.StatusParseErrorPrefix+err.Error())
	}
	return page
}

func (e *Extractor) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", e.agents.Get())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (e *Extractor) parse(pageURL, htmlContent string) (*domain.ExtractedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	// Drop script and style subtrees so code and CSS never leak into the
	// extracted text.
	doc.Find("script, style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	title := "No title found"
	if t := doc.Find("title").First(); t.Length() > 0 {
		title = strings.TrimSpace(t.Text())
	}

	content := ""
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			content = sel.Text()
			break
		}
	}
	if content == "" {
		if body := doc.Find("body").First(); body.Length() > 0 {
			content = body.Text()
		}
	}
	content = normalizeText(content)

	description := ""
	if meta := doc.Find(`meta[name="description"]`).First(); meta.Length() > 0 {
		description, _ = meta.Attr("content")
	}

	links := e.extractInternalLinks(doc, base)

	page := &domain.ExtractedPage{
		Title:              title,
		Content:            truncate(content, e.maxContentChars),
		Description:        description,
		URL:                pageURL,
		WordCount:          len(strings.Fields(content)),
		Status:             domain.StatusSuccess,
		InternalLinks:      links,
		InternalLinksCount: len(links),
	}
	return page, nil
}

// extractInternalLinks walks the anchors of doc and keeps links pointing at
// base's own host, canonicalized to scheme://host/path and deduplicated, up
// to the configured cap. The page's own canonical URL is always excluded.
func (e *Extractor) extractInternalLinks(doc *goquery.Document, base *url.URL) []string {
	self := canonicalize(base)
	seen := make(map[string]bool, e.maxInternalLinks)
	links := make([]string, 0, e.maxInternalLinks)

	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return true
		}

		rel, err := url.Parse(href)
		if err != nil {
			return true
		}
		resolved := base.ResolveReference(rel)
		if resolved.Host != base.Host {
			return true
		}

		clean := canonicalize(resolved)
		if clean == self || seen[clean] {
			return true
		}
		seen[clean] = true
		links = append(links, clean)

		return len(links) < e.maxInternalLinks
	})

	return links
}

// canonicalize reduces a URL to scheme://host/path, dropping the query
// string and fragment.
func canonicalize(u *url.URL) string {
	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, u.Path)
}

// normalizeText collapses whitespace runs to single spaces and replaces any
// invalid UTF-8 sequence with the replacement rune instead of failing.
func normalizeText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// truncate cuts s to at most max characters. A hard cap, not a summary.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

func failedPage(pageURL, status string) *domain.ExtractedPage {
	return &domain.ExtractedPage{
		URL:           pageURL,
		Status:        status,
		InternalLinks: []string{},
	}
}
