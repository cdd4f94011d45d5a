// ABOUTME: SERP resolver service resolves ranked URL lists for keyword batches
// ABOUTME: Cache-aware with write-through population and per-keyword failure reporting

package serp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"serp-cluster-api/core/domain"
	coreerrors "serp-cluster-api/core/errors"
	"serp-cluster-api/core/interfaces"
)

const (
	defaultCacheTTL   = 30 * 24 * time.Hour
	defaultBatchSize  = 100
	defaultMaxRetries = 3
)

// Options configures the resolver.
type Options struct {
	// CacheTTL is how long cached SERPs stay fresh (default 30 days)
	CacheTTL time.Duration

	// BatchSize caps keywords per billed provider call (default 100)
	BatchSize int

	// MaxRetries bounds retries for rate-limited batches (default 3)
	MaxRetries int

	// StaleOK serves expired cache entries when the live fetch fails
	StaleOK bool
}

// Service resolves SERP data for keyword sets, consulting the cache
// before issuing batched provider calls.
type Service struct {
	deps     interfaces.Dependencies
	provider interfaces.SerpProvider
	opts     Options
}

// NewService creates a new resolver instance.
func NewService(deps interfaces.Dependencies, provider interfaces.SerpProvider, opts Options) *Service {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}

	return &Service{
		deps:     deps,
		provider: provider,
		opts:     opts,
	}
}

// cachedEntry is the serialized cache payload. FetchedAt drives logical
// freshness; entries are stored with a longer physical TTL so stale
// fallback has something to serve.
type cachedEntry struct {
	URLs      []string  `json:"urls"`
	Titles    []string  `json:"titles"`
	FetchedAt time.Time `json:"fetched_at"`
}

// cacheKey builds the cache key for a keyword in its locale.
func cacheKey(kw domain.Keyword) string {
	return fmt.Sprintf("serp:%d:%s:%s", kw.Locale.LocationCode, kw.Locale.LanguageCode, kw.Text)
}

// Resolve returns SERP data for every requested keyword, from cache
// where fresh and from the provider otherwise. Keywords that could not
// be resolved are reported in the second map as FetchErrors; the run
// continues on the successful subset. The returned error is non-nil
// only for run-fatal failures (rejected credentials).
func (s *Service) Resolve(ctx context.Context, keywords []domain.Keyword) (map[domain.Keyword]domain.SerpResult, map[domain.Keyword]error, error) {
	results := make(map[domain.Keyword]domain.SerpResult, len(keywords))
	failures := make(map[domain.Keyword]error)
	stale := make(map[domain.Keyword]domain.SerpResult)

	var missing []domain.Keyword
	seen := make(map[domain.Keyword]struct{}, len(keywords))

	for _, kw := range keywords {
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}

		if entry, fresh, ok := s.lookupCache(ctx, kw); ok {
			if fresh {
				results[kw] = entry
				continue
			}
			stale[kw] = entry
		}
		missing = append(missing, kw)
	}

	if s.deps.Logger != nil && len(missing) > 0 {
		s.deps.Logger.Info("Resolving keywords from provider", map[string]interface{}{
			"cache_hits": len(results),
			"misses":     len(missing),
		})
	}

	for start := 0; start < len(missing); start += s.opts.BatchSize {
		// A provider call is billed regardless of cancellation, so an
		// in-flight call runs to completion; cancellation takes effect
		// between batches.
		if err := ctx.Err(); err != nil {
			for _, kw := range missing[start:] {
				failures[kw] = &coreerrors.FetchError{Keyword: kw, Err: err}
			}
			break
		}

		end := start + s.opts.BatchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]

		if err := s.resolveBatch(ctx, batch, results, failures, stale); err != nil {
			return nil, nil, err
		}
	}

	return results, failures, nil
}

// resolveBatch issues one provider call with bounded retries, merging
// per-keyword outcomes into results and failures.
func (s *Service) resolveBatch(ctx context.Context, batch []domain.Keyword, results map[domain.Keyword]domain.SerpResult, failures map[domain.Keyword]error, stale map[domain.Keyword]domain.SerpResult) error {
	// Detached so a user abort does not tear down a call we pay for.
	callCtx := context.WithoutCancel(ctx)

	var lastErr error
retry:
	for attempt := 0; attempt <= s.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(500*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				lastErr = ctx.Err()
				break retry
			}
		}

		batchResult, err := s.provider.FetchBatch(callCtx, batch)
		if err != nil {
			lastErr = err
			if isAuthError(err) {
				return err
			}
			if !coreerrors.IsRetryable(err) {
				break retry
			}
			if s.deps.Logger != nil {
				s.deps.Logger.Warn("Provider batch retrying", map[string]interface{}{
					"attempt": attempt + 1,
					"size":    len(batch),
					"error":   err.Error(),
				})
			}
			continue
		}

		for kw, result := range batchResult.Results {
			results[kw] = result
			s.writeCache(callCtx, kw, result)
		}

		// Throttled items get re-issued as a follow-up batch within the
		// same retry budget; other item errors are final.
		var throttled []domain.Keyword
		for kw, itemErr := range batchResult.Errors {
			if isAuthError(itemErr) {
				return itemErr
			}
			if errors.Is(itemErr, coreerrors.ErrRateLimited) {
				throttled = append(throttled, kw)
				lastErr = itemErr
				continue
			}
			s.failOrServeStale(kw, itemErr, results, failures, stale)
		}
		if len(throttled) == 0 {
			return nil
		}
		if s.deps.Logger != nil {
			s.deps.Logger.Warn("Re-issuing rate-limited keywords", map[string]interface{}{
				"attempt": attempt + 1,
				"count":   len(throttled),
			})
		}
		batch = throttled
	}

	for _, kw := range batch {
		if _, ok := results[kw]; ok {
			continue
		}
		s.failOrServeStale(kw, lastErr, results, failures, stale)
	}
	return nil
}

// failOrServeStale records a per-keyword failure, or serves an expired
// cache entry when the stale fallback policy is enabled.
func (s *Service) failOrServeStale(kw domain.Keyword, cause error, results map[domain.Keyword]domain.SerpResult, failures map[domain.Keyword]error, stale map[domain.Keyword]domain.SerpResult) {
	if s.opts.StaleOK {
		if entry, ok := stale[kw]; ok {
			if s.deps.Logger != nil {
				s.deps.Logger.Warn("Serving stale SERP after fetch failure", map[string]interface{}{
					"keyword":    kw.Text,
					"fetched_at": entry.FetchedAt,
				})
			}
			results[kw] = entry
			return
		}
	}
	failures[kw] = &coreerrors.FetchError{Keyword: kw, Err: cause}
}

// lookupCache returns the cached result for a keyword plus whether it
// is still fresh. The second return distinguishes fresh from stale; the
// third reports whether anything usable was found at all.
func (s *Service) lookupCache(ctx context.Context, kw domain.Keyword) (domain.SerpResult, bool, bool) {
	if s.deps.Cache == nil {
		return domain.SerpResult{}, false, false
	}

	data, err := s.deps.Cache.Get(ctx, cacheKey(kw))
	if err != nil || data == nil {
		return domain.SerpResult{}, false, false
	}

	var entry cachedEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		if s.deps.Logger != nil {
			s.deps.Logger.Warn("Discarding undecodable cache entry", map[string]interface{}{
				"keyword": kw.Text,
				"error":   err.Error(),
			})
		}
		return domain.SerpResult{}, false, false
	}

	result := domain.SerpResult{
		URLs:      entry.URLs,
		Titles:    entry.Titles,
		FetchedAt: entry.FetchedAt,
	}
	fresh := time.Since(entry.FetchedAt) <= s.opts.CacheTTL
	return result, fresh, true
}

// writeCache stores a freshly fetched result. Entries outlive the
// logical TTL by one period so the stale fallback has data to serve;
// freshness is decided from FetchedAt on read. Cache failures degrade
// to a warning, the pipeline completes on live data alone.
func (s *Service) writeCache(ctx context.Context, kw domain.Keyword, result domain.SerpResult) {
	if s.deps.Cache == nil {
		return
	}

	entry := cachedEntry{
		URLs:      result.URLs,
		Titles:    result.Titles,
		FetchedAt: result.FetchedAt,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	if err := s.deps.Cache.Set(ctx, cacheKey(kw), data, 2*s.opts.CacheTTL); err != nil {
		if s.deps.Logger != nil {
			s.deps.Logger.Warn("Failed to cache SERP result", map[string]interface{}{
				"keyword": kw.Text,
				"error":   err.Error(),
			})
		}
	}
}

// isAuthError reports whether err means the provider rejected our
// credentials, which aborts the whole run.
func isAuthError(err error) bool {
	return err != nil && errors.Is(err, coreerrors.ErrProviderAuth)
}
