// ABOUTME: SerpResult domain model holds the ranked organic URLs for one keyword
// ABOUTME: Provides URL normalization so overlap comparisons ignore cosmetic differences

package domain

import (
	"net/url"
	"strings"
	"time"
)

// SerpResult is the ordered list of organic result URLs for one keyword.
// URLs are unique within a result and ordering reflects rank (index 0 is
// rank 1). Titles is parallel to URLs and may be shorter if the provider
// omitted titles for some items.
type SerpResult struct {
	// URLs are the normalized ranking URLs, best rank first
	URLs []string

	// Titles are the result titles, parallel to URLs
	Titles []string

	// FetchedAt records when the provider returned this result
	FetchedAt time.Time
}

// IsEmpty reports whether the result carries no ranking data.
// A keyword whose fetch failed has an empty result and is clustered
// as a singleton.
func (r SerpResult) IsEmpty() bool {
	return len(r.URLs) == 0
}

// URLSet returns the URLs as a set for overlap computation.
func (r SerpResult) URLSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.URLs))
	for _, u := range r.URLs {
		set[u] = struct{}{}
	}
	return set
}

// URLNormalization controls how ranking URLs are canonicalized.
type URLNormalization struct {
	// KeepQuery retains the query string; by default it is stripped
	KeepQuery bool
}

// NormalizeURL canonicalizes a ranking URL: lowercases scheme and host,
// drops the fragment, and strips the query unless configured otherwise.
// Invalid URLs are returned trimmed but otherwise untouched so they can
// still participate in exact-match overlap.
func NormalizeURL(raw string, opts URLNormalization) string {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	if !opts.KeepQuery {
		parsed.RawQuery = ""
	}

	return parsed.String()
}

// NewSerpResult builds a SerpResult from raw provider URLs and titles,
// normalizing and deduplicating while preserving rank order, and
// truncating to topN entries (topN <= 0 means keep all).
func NewSerpResult(rawURLs, titles []string, topN int, opts URLNormalization) SerpResult {
	seen := make(map[string]struct{}, len(rawURLs))
	result := SerpResult{FetchedAt: time.Now()}

	for i, raw := range rawURLs {
		if topN > 0 && len(result.URLs) >= topN {
			break
		}

		normalized := NormalizeURL(raw, opts)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}

		result.URLs = append(result.URLs, normalized)
		if i < len(titles) {
			result.Titles = append(result.Titles, titles[i])
		}
	}

	return result
}
