package tracklist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
)

const DefaultSelector = "body"

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// WebOptions tunes how a WebSource fetches pages.
type WebOptions struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
	// CacheDir enables an on-disk cache of fetched listings when set.
	CacheDir string
	CacheTTL time.Duration
}

// WebSource reads a listing from the text of the page elements matching a
// CSS selector, such as a video description block.
type WebSource struct {
	URL      string
	Selector string
	opts     WebOptions
}

func NewWebSource(url, selector string, opts WebOptions) *WebSource {
	if selector == "" {
		selector = DefaultSelector
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 2 * time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	return &WebSource{URL: url, Selector: selector, opts: opts}
}

func (w *WebSource) Name() string {
	return "web"
}

func (w *WebSource) Fetch(ctx context.Context) (*Listing, error) {
	cacheFile := w.cacheFile()
	if cacheFile != "" {
		if listing, err := w.loadFromCache(cacheFile); err == nil {
			slog.Debug("Using cached listing", "url", w.URL)
			return listing, nil
		}
	}

	listing, err := w.scrape(ctx)
	if err != nil {
		return nil, newSourceError(w.URL, err)
	}
	if len(listing.Lines) == 0 {
		return nil, newSourceError(w.URL, fmt.Errorf("%w: no text matched %q", ErrEmptySource, w.Selector))
	}

	if cacheFile != "" {
		if err := w.saveToCache(cacheFile, listing); err != nil {
			slog.Warn("Failed to cache listing", "error", err)
		}
	}
	return listing, nil
}

func (w *WebSource) scrape(ctx context.Context) (*Listing, error) {
	userAgent := w.opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgents[rand.Intn(len(defaultUserAgents))]
	}

	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.MaxDepth(1),
		colly.UserAgent(userAgent),
	)
	c.SetRequestTimeout(w.opts.Timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.5")
	})

	var listing *Listing
	var parseErr error
	c.OnResponse(func(r *colly.Response) {
		listing, parseErr = w.extract(r.Body)
	})

	slog.Info("Fetching listing", "url", w.URL, "selector", w.Selector)
	if err := w.visitWithRetries(ctx, c); err != nil {
		return nil, err
	}
	if parseErr != nil {
		return nil, parseErr
	}
	if listing == nil {
		return nil, fmt.Errorf("no response body")
	}
	return listing, nil
}

// extract pulls the text out of the matching elements, turning <br> and
// block boundaries into line breaks.
func (w *WebSource) extract(body []byte) (*Listing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var lines []string
	doc.Find(w.Selector).Each(func(_ int, s *goquery.Selection) {
		s.Find("script, style, noscript").Remove()
		s.Find("br").ReplaceWithHtml("\n")
		s.Find("p, div, li, tr, h1, h2, h3, h4").AppendHtml("\n")
		for _, line := range SplitLines(s.Text()) {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
	})

	title := doc.Find(`meta[property="og:title"]`).AttrOr("content", "")
	if title == "" {
		title = doc.Find("title").First().Text()
	}

	return &Listing{
		Source: w.URL,
		Title:  strings.TrimSpace(title),
		Lines:  lines,
	}, nil
}

func (w *WebSource) visitWithRetries(ctx context.Context, c *colly.Collector) error {
	var lastErr error
	for attempt := 0; attempt <= w.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := w.opts.BaseDelay * time.Duration(1<<uint(attempt-1))
			slog.Info("Retrying request", "attempt", attempt+1, "delay", delay.String(), "url", w.URL)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = c.Visit(w.URL)
		if lastErr == nil {
			return nil
		}
		slog.Warn("Request failed", "attempt", attempt+1, "error", lastErr)
	}
	return fmt.Errorf("failed after %d attempts: %w", w.opts.MaxRetries+1, lastErr)
}

func (w *WebSource) cacheFile() string {
	if w.opts.CacheDir == "" {
		return ""
	}
	replacer := strings.NewReplacer("/", "", ":", "", "?", "_", "&", "_", "=", "_", " ", "_", "#", "_")
	return filepath.Join(w.opts.CacheDir, replacer.Replace(w.URL+"#"+w.Selector)+".json")
}

func (w *WebSource) loadFromCache(path string) (*Listing, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if time.Since(info.ModTime()) > w.opts.CacheTTL {
		return nil, fmt.Errorf("cache expired")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var listing Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (w *WebSource) saveToCache(path string, listing *Listing) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	data, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
