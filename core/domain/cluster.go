// ABOUTME: Cluster domain model groups keywords whose SERPs overlap above a threshold
// ABOUTME: Cluster IDs are derived from sorted member texts so repeated runs are reproducible

package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Intent is the search intent category assigned by the AI labeler.
type Intent string

const (
	IntentInformational Intent = "informational"
	IntentCommercial    Intent = "commercial"
	IntentTransactional Intent = "transactional"
	IntentNavigational  Intent = "navigational"
	IntentOther         Intent = "other"
)

// ParseIntent maps a labeler response string to an Intent, defaulting
// to IntentOther for anything outside the known set.
func ParseIntent(s string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentInformational:
		return IntentInformational
	case IntentCommercial:
		return IntentCommercial
	case IntentTransactional:
		return IntentTransactional
	case IntentNavigational:
		return IntentNavigational
	default:
		return IntentOther
	}
}

// Cluster is a set of keywords connected by SERP overlap edges.
// Membership is immutable once the clustering run produced it.
type Cluster struct {
	// ID is stable for a given member set regardless of processing order
	ID string

	// Members are the member keywords sorted by text
	Members []Keyword

	// Label is the human-readable cluster name, empty until enrichment runs
	Label string

	// Intent is the search intent category, empty until enrichment runs
	Intent Intent
}

// Size returns the number of member keywords.
func (c Cluster) Size() int {
	return len(c.Members)
}

// Contains reports whether the keyword is a member of the cluster.
func (c Cluster) Contains(kw Keyword) bool {
	for _, m := range c.Members {
		if m == kw {
			return true
		}
	}
	return false
}

// NewCluster builds a cluster from its members, sorting them by text
// and deriving the deterministic ID.
func NewCluster(members []Keyword) Cluster {
	sorted := make([]Keyword, len(members))
	copy(sorted, members)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Text != sorted[j].Text {
			return sorted[i].Text < sorted[j].Text
		}
		return sorted[i].Locale.LanguageCode < sorted[j].Locale.LanguageCode
	})

	return Cluster{
		ID:      clusterID(sorted),
		Members: sorted,
	}
}

// clusterID hashes the sorted member identities into a short stable ID.
func clusterID(sorted []Keyword) string {
	h := sha256.New()
	for _, kw := range sorted {
		h.Write([]byte(kw.String()))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}
