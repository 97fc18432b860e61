// Package web implements content.Resolver over HTTP. URL-shaped references
// are fetched and validated; anything else is treated as literal text and
// returned unchanged.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ahmethakanbesel/similarity-api/internal/content"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	// Content below these limits is almost always an error page or a bare
	// navigation shell, not something worth embedding.
	minContentLength = 200
	minContentWords  = 30

	maxBodyBytes = 2 << 20
)

// errorPagePattern matches the first ~500 characters of bot-protection and
// error pages that come back with a 200 status.
var errorPagePattern = regexp.MustCompile(`(?i)access\s*denied|403\s*forbidden|404\s*not\s*found|captcha|cloudflare|just\s*a\s*moment|checking\s*your\s*browser|blocked|rate\s*limit`)

// Fetcher resolves references over HTTP with a per-instance cache.
type Fetcher struct {
	client *http.Client

	mu    sync.Mutex
	cache map[string]string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout sets the per-request timeout on the default client.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = d }
}

// New creates a Fetcher with the given options applied.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: 20 * time.Second},
		cache:  make(map[string]string),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// IsURL reports whether the reference is an indirection that needs a fetch
// rather than literal text.
func IsURL(ref string) bool {
	s := strings.TrimSpace(ref)
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.")
}

// Resolve implements content.Resolver. Literal text passes through; URLs are
// fetched, validated and cached.
func (f *Fetcher) Resolve(ctx context.Context, ref string) (string, error) {
	if !IsURL(ref) {
		return ref, nil
	}

	url := strings.TrimSpace(ref)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	f.mu.Lock()
	cached, ok := f.cache[url]
	f.mu.Unlock()
	if ok {
		return cached, nil
	}

	text, err := f.fetch(ctx, url)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	f.cache[url] = text
	f.mu.Unlock()

	return text, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", content.ErrUnavailable, url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", content.ErrUnavailable, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s: status %d", content.ErrUnavailable, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", content.ErrUnavailable, url, err)
	}

	text := extractText(string(body))
	if err := validate(text); err != nil {
		return "", fmt.Errorf("%s: %w", url, err)
	}
	return text, nil
}

// extractText strips markup down to visible text. Script and style blocks go
// first, then remaining tags, then entities and whitespace runs.
var (
	scriptPattern = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	tagPattern    = regexp.MustCompile(`(?s)<[^>]*>`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

func extractText(html string) string {
	text := scriptPattern.ReplaceAllString(html, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	for entity, repl := range map[string]string{
		"&nbsp;": " ", "&amp;": "&", "&lt;": "<", "&gt;": ">", "&quot;": `"`, "&#39;": "'",
	} {
		text = strings.ReplaceAll(text, entity, repl)
	}
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

func validate(text string) error {
	if text == "" {
		return fmt.Errorf("%w: empty content", content.ErrContentTooShort)
	}

	head := strings.ToLower(text)
	if len(head) > 500 {
		head = head[:500]
	}
	if errorPagePattern.MatchString(head) {
		return fmt.Errorf("%w: error page detected", content.ErrBlocked)
	}

	if len(text) < minContentLength {
		return fmt.Errorf("%w: %d chars", content.ErrContentTooShort, len(text))
	}
	if words := len(strings.Fields(text)); words < minContentWords {
		return fmt.Errorf("%w: %d words", content.ErrContentTooShort, words)
	}
	return nil
}

var _ content.Resolver = (*Fetcher)(nil)
