// CLAUDE:SUMMARY Main Service orchestrator: cache-first scrape flow, search, lookup, refresh, stats.
package embauche

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/embauche/horosafe"
	"github.com/hazyhaar/embauche/idgen"
	"github.com/hazyhaar/embauche/internal/fetch"
	"github.com/hazyhaar/embauche/internal/search"
	"github.com/hazyhaar/embauche/internal/store"
	"github.com/hazyhaar/embauche/internal/thread"
)

// Service is the main embauche orchestrator.
type Service struct {
	fetcher      *fetch.Fetcher
	parser       *thread.Parser
	cache        *store.Store
	logger       *slog.Logger
	config       *Config
	newID        func() string      // scrape run IDs, scr_ prefixed
	urlValidator func(string) error // URL validation (default: horosafe.ValidateURL)
	now          func() time.Time
}

// New creates an embauche Service.
func New(cfg *Config, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		cfg = defaultConfig()
	}
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	svc := &Service{
		parser: thread.NewParser(thread.Options{
			MinTextLen: cfg.MinTextLen,
			BaseURL:    cfg.BaseURL,
		}),
		cache:        store.New(cfg.Cache),
		logger:       logger,
		config:       cfg,
		newID:        idgen.Prefixed("scr_", idgen.NanoID(8)),
		urlValidator: horosafe.ValidateURL,
		now:          time.Now,
	}

	// Apply options before building the fetcher so WithURLValidator
	// reaches the redirect checks too.
	for _, opt := range opts {
		opt(svc)
	}

	svc.fetcher = fetch.New(fetch.Config{
		Timeout:      cfg.FetchTimeout,
		MaxBytes:     cfg.MaxBytes,
		UserAgent:    cfg.UserAgent,
		URLValidator: svc.urlValidator,
	})

	return svc, nil
}

// ServiceOption configures a Service during creation.
type ServiceOption func(*Service)

// WithURLValidator overrides the URL validation function (default: horosafe.ValidateURL).
// Use in tests with httptest servers that listen on loopback addresses.
func WithURLValidator(fn func(string) error) ServiceOption {
	return func(svc *Service) { svc.urlValidator = fn }
}

// WithIDGenerator overrides the scrape run ID generator.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(svc *Service) { svc.newID = fn }
}

// ScrapeJobs returns the postings of a thread, serving a fresh cache
// snapshot when one exists and scraping the live page otherwise. An
// empty threadID means the configured default thread.
//
// On fetch failure the error matches ErrFetch and the returned slice is
// empty but non-nil; nothing is cached, so the next call retries.
func (svc *Service) ScrapeJobs(ctx context.Context, threadID string) ([]Posting, error) {
	if threadID == "" {
		threadID = svc.config.ThreadID
	}
	if err := horosafe.ValidateIdentifier(threadID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreadID, err)
	}

	if cached, ok, err := svc.cache.Load(ctx, threadID); err != nil {
		svc.logger.Warn("cache read failed", "thread_id", threadID, "error", err)
	} else if ok {
		return cached, nil
	}

	scrapeID := svc.newID()
	start := svc.now()
	res, err := svc.fetcher.Fetch(ctx, svc.config.BaseURL+"/item?id="+threadID)
	if err != nil {
		svc.logger.Error("thread fetch failed",
			"scrape_id", scrapeID,
			"thread_id", threadID,
			"error", err)
		return []Posting{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	postings := svc.parser.Parse(res.Body, threadID, svc.now())
	if err := svc.cache.Save(ctx, threadID, postings); err != nil {
		svc.logger.Warn("cache write failed", "thread_id", threadID, "error", err)
	}

	svc.logger.Info("thread scraped",
		"scrape_id", scrapeID,
		"thread_id", threadID,
		"postings", len(postings),
		"bytes", len(res.Body),
		"duration_ms", svc.now().Sub(start).Milliseconds())

	return postings, nil
}

// Jobs returns the postings of the configured default thread.
func (svc *Service) Jobs(ctx context.Context) ([]Posting, error) {
	return svc.ScrapeJobs(ctx, "")
}

// SearchJobs returns the postings whose text contains the query,
// case-insensitively, in thread order. An empty query matches all.
func (svc *Service) SearchJobs(ctx context.Context, query string) ([]Posting, error) {
	postings, err := svc.ScrapeJobs(ctx, "")
	if err != nil {
		return nil, err
	}
	return search.Search(postings, query), nil
}

// JobByID returns the posting with the given comment ID, or
// ErrPostingNotFound.
func (svc *Service) JobByID(ctx context.Context, id string) (*Posting, error) {
	postings, err := svc.ScrapeJobs(ctx, "")
	if err != nil {
		return nil, err
	}
	if p := search.FindByID(postings, id); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrPostingNotFound, id)
}

// Refresh drops every cached snapshot and re-scrapes the default
// thread, returning the number of postings found.
func (svc *Service) Refresh(ctx context.Context) (int, error) {
	if err := svc.cache.Invalidate(ctx); err != nil {
		return 0, fmt.Errorf("invalidate cache: %w", err)
	}
	postings, err := svc.ScrapeJobs(ctx, "")
	if err != nil {
		return 0, err
	}
	return len(postings), nil
}

// Stats reports cache state for the configured default thread.
type Stats struct {
	ThreadID   string `json:"thread_id"`
	Postings   int    `json:"postings"`
	CacheFile  string `json:"cache_file"`
	CachedAt   string `json:"cached_at,omitempty"`
	CacheFresh bool   `json:"cache_fresh"`
}

// Stats returns cache metadata without touching the network.
func (svc *Service) Stats(ctx context.Context) (*Stats, error) {
	threadID := svc.config.ThreadID
	info, err := svc.cache.Stat(threadID)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		ThreadID:   threadID,
		CacheFile:  info.Path,
		CacheFresh: info.Fresh,
	}
	if !info.ModTime.IsZero() {
		st.CachedAt = info.ModTime.UTC().Format(time.RFC3339)
	}
	if postings, ok, err := svc.cache.Load(ctx, threadID); err == nil && ok {
		st.Postings = len(postings)
	}
	return st, nil
}

// Close releases the fetcher's idle connections.
func (svc *Service) Close() error {
	svc.fetcher.Close()
	svc.logger.Info("embauche: closed")
	return nil
}
