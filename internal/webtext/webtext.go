// Package webtext fetches a web page and reduces it to plain text.
package webtext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrInvalidURL is returned for URLs without an http or https scheme and host.
	ErrInvalidURL = errors.New("please enter a valid URL including http:// or https://")

	// ErrTextExtraction is returned when no text could be obtained from the page.
	ErrTextExtraction = errors.New("failed to extract text from the provided URL")
)

const (
	defaultTimeout  = 30 * time.Second
	defaultMaxBytes = 5 << 20
	userAgent       = "assessor/1.0 (+https://github.com/jackzampolin/assessor)"
)

// nonContentSelectors lists elements stripped before taking page text.
const nonContentSelectors = "script, style, noscript, template, svg"

// Fetcher downloads pages and extracts their visible text.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithMaxBytes caps how much of a response body is read.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) { f.maxBytes = n }
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: defaultTimeout},
		maxBytes: defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// Fetch returns the whitespace-normalized text of the page at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTextExtraction, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTextExtraction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrTextExtraction, resp.StatusCode)
	}

	text, err := ExtractText(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", err
	}
	return text, nil
}

// ExtractText parses HTML from r and returns its visible text,
// with runs of whitespace collapsed to single spaces.
func ExtractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %w", ErrTextExtraction, err)
	}

	doc.Find(nonContentSelectors).Remove()

	root := doc.Find("body").First()
	if root.Length() == 0 {
		root = doc.Selection
	}

	// Text() concatenates adjacent nodes; separate block-level siblings first.
	root.Find("p, div, li, h1, h2, h3, h4, h5, h6, br, td, th, tr, section, article").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	text := strings.Join(strings.Fields(root.Text()), " ")
	if text == "" {
		return "", fmt.Errorf("%w: page has no text", ErrTextExtraction)
	}
	return text, nil
}

// Preview returns at most n runes of text, marking truncation with "...".
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
