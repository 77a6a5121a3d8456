// Package evidence gathers best-effort grounding material for verification
// prompts: web search hits and the plain text of a linked page.
package evidence

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/ternarybob/arbor"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/common"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/interfaces"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
)

const (
	// MaxPageTextRunes caps extracted page text
	MaxPageTextRunes = 8000

	// DefaultUserAgent is sent with page fetches
	DefaultUserAgent = "Mozilla/5.0 (compatible; NewsVerifier/1.0)"

	// DefaultMaxBodyBytes caps how much of a page body is read
	DefaultMaxBodyBytes int64 = 2 << 20

	DefaultSearchTimeout = 10 * time.Second
	DefaultFetchTimeout  = 15 * time.Second
)

// Fetcher implements interfaces.EvidenceFetcher. It never returns errors:
// every failure is logged at warn and degrades to empty evidence.
type Fetcher struct {
	search        interfaces.SearchClient
	httpClient    *http.Client
	logger        arbor.ILogger
	sanitizer     *bluemonday.Policy
	userAgent     string
	maxBodyBytes  int64
	searchTimeout time.Duration
	fetchTimeout  time.Duration
}

var _ interfaces.EvidenceFetcher = (*Fetcher)(nil)

// Option configures a Fetcher
type Option func(*Fetcher)

// WithHTTPClient sets the client used for page fetches
func WithHTTPClient(httpClient *http.Client) Option {
	return func(f *Fetcher) {
		if httpClient != nil {
			f.httpClient = httpClient
		}
	}
}

// WithUserAgent overrides the page fetch user agent
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		if userAgent != "" {
			f.userAgent = userAgent
		}
	}
}

// WithMaxBodyBytes overrides the page body read cap
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// WithTimeouts sets the per-call search and page fetch timeouts
func WithTimeouts(search, fetch time.Duration) Option {
	return func(f *Fetcher) {
		if search > 0 {
			f.searchTimeout = search
		}
		if fetch > 0 {
			f.fetchTimeout = fetch
		}
	}
}

// NewFetcher creates a new evidence fetcher. search may be nil, in which case
// SearchEvidence always returns empty evidence.
func NewFetcher(search interfaces.SearchClient, logger arbor.ILogger, opts ...Option) *Fetcher {
	if logger == nil {
		logger = common.GetLogger()
	}

	f := &Fetcher{
		search:        search,
		httpClient:    &http.Client{},
		logger:        logger,
		sanitizer:     bluemonday.StrictPolicy(),
		userAgent:     DefaultUserAgent,
		maxBodyBytes:  DefaultMaxBodyBytes,
		searchTimeout: DefaultSearchTimeout,
		fetchTimeout:  DefaultFetchTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// SearchEvidence runs a web search and keeps the first MaxEvidenceItems hits
func (f *Fetcher) SearchEvidence(ctx context.Context, query string) models.Evidence {
	if f.search == nil || strings.TrimSpace(query) == "" {
		return models.Evidence{}
	}

	searchCtx, cancel := context.WithTimeout(ctx, f.searchTimeout)
	defer cancel()

	results, err := f.search.Search(searchCtx, query)
	if err != nil {
		f.logger.Warn().
			Err(err).
			Int("query_length", len(query)).
			Msg("Search evidence unavailable, continuing without it")
		return models.Evidence{}
	}

	items := make([]models.EvidenceItem, 0, models.MaxEvidenceItems)
	for _, r := range results {
		if len(items) == models.MaxEvidenceItems {
			break
		}
		items = append(items, models.EvidenceItem{
			Title:     f.clean(r.Title),
			SourceURL: strings.TrimSpace(r.Link),
			Snippet:   f.clean(r.Snippet),
		})
	}

	f.logger.Debug().
		Int("results", len(results)).
		Int("kept", len(items)).
		Msg("Search evidence gathered")

	return models.Evidence{Items: items}
}

// FetchPage downloads a page and returns its visible text
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (string, bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()

	text, err := f.fetchPage(fetchCtx, pageURL)
	if err != nil {
		f.logger.Warn().
			Err(err).
			Str("url", pageURL).
			Msg("Page fetch failed, continuing without page content")
		return "", false
	}

	return text, true
}

func (f *Fetcher) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return ExtractText(io.LimitReader(resp.Body, f.maxBodyBytes))
}

func (f *Fetcher) clean(s string) string {
	return CollapseWhitespace(f.sanitizer.Sanitize(s))
}

// ExtractText parses HTML and returns its visible text with script, style and
// noscript content removed, whitespace collapsed and length capped.
func ExtractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	return Truncate(CollapseWhitespace(doc.Text()), MaxPageTextRunes), nil
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate returns at most n runes of s
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
