// ABOUTME: Keyword domain model identifies a tracked search query in one market
// ABOUTME: Provides normalization so equal queries map to the same cache and cluster entries

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Keyword identifies a search query in a specific market.
// The text is normalized; two Keywords with the same normalized text
// and locale refer to the same query.
type Keyword struct {
	// Text is the normalized query text
	Text string

	// Locale identifies the market the query is tracked in
	Locale Locale
}

// Locale identifies a search market using provider conventions.
type Locale struct {
	// LocationCode is the provider's numeric location identifier (2840 = United States)
	LocationCode int

	// LanguageCode is the two-letter language code (e.g. "en")
	LanguageCode string
}

// DefaultLocale is the United States / English market.
var DefaultLocale = Locale{LocationCode: 2840, LanguageCode: "en"}

// NewKeyword creates a Keyword with normalized text.
func NewKeyword(text string, locale Locale) (Keyword, error) {
	normalized := NormalizeKeyword(text)
	if normalized == "" {
		return Keyword{}, errors.New("keyword text cannot be empty")
	}

	if locale.LanguageCode == "" {
		locale.LanguageCode = DefaultLocale.LanguageCode
	}
	if locale.LocationCode == 0 {
		locale.LocationCode = DefaultLocale.LocationCode
	}

	return Keyword{Text: normalized, Locale: locale}, nil
}

// NormalizeKeyword lowercases the text and collapses internal whitespace.
func NormalizeKeyword(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// String returns the locale-qualified form used in logs and cache keys.
func (k Keyword) String() string {
	return fmt.Sprintf("%d:%s:%s", k.Locale.LocationCode, k.Locale.LanguageCode, k.Text)
}
