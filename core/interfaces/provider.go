package interfaces

import (
	"context"

	"serp-cluster-api/core/domain"
)

// SerpProvider defines the port to the external ranking-data service.
// A single call resolves a batch of keywords; the provider bills per
// call, so implementations must not fan out one request per keyword.
type SerpProvider interface {
	// FetchBatch resolves ranked URL lists for up to the provider's
	// batch limit of keywords in one billed request.
	//
	// Per-keyword outcomes are independent: Results holds every keyword
	// the provider resolved, Errors holds every keyword it did not.
	// The returned error is non-nil only when the whole call failed;
	// it wraps ErrProviderAuth for credential failures (not retryable)
	// and ErrRateLimited when the provider throttled the call.
	FetchBatch(ctx context.Context, keywords []domain.Keyword) (*BatchResult, error)
}

// BatchResult carries the per-keyword outcomes of one provider call.
type BatchResult struct {
	// Results maps each resolved keyword to its ranked URLs
	Results map[domain.Keyword]domain.SerpResult

	// Errors maps each unresolved keyword to its item-level error
	Errors map[domain.Keyword]error
}
