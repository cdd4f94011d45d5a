// ABOUTME: Overlap clustering service partitions keywords by shared SERP URLs
// ABOUTME: Pairwise scores above the threshold connect keywords; clusters are connected components

package cluster

import (
	"sort"

	"serp-cluster-api/core/domain"
	coreerrors "serp-cluster-api/core/errors"
	"serp-cluster-api/core/interfaces"
)

// ScoreFunc computes the overlap score for two non-empty URL sets.
// Scores are in [0,1]; the scoring convention (which denominator to
// divide the intersection by) is pluggable.
type ScoreFunc func(a, b map[string]struct{}) float64

// MinScore divides the intersection by the smaller set's size. This is
// the default: a long-tail keyword whose provider returned fewer than
// ten results is not penalized against a broader term.
func MinScore(a, b map[string]struct{}) float64 {
	inter := intersectionSize(a, b)
	min := len(a)
	if len(b) < min {
		min = len(b)
	}
	if min == 0 {
		return 0
	}
	return float64(inter) / float64(min)
}

// UnionScore divides the intersection by the union size (Jaccard).
func UnionScore(a, b map[string]struct{}) float64 {
	inter := intersectionSize(a, b)
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// FixedTopNScore divides the intersection by a fixed expected depth,
// e.g. 10 for top-10 SERPs, regardless of how many results came back.
func FixedTopNScore(n int) ScoreFunc {
	return func(a, b map[string]struct{}) float64 {
		if n <= 0 {
			return 0
		}
		return float64(intersectionSize(a, b)) / float64(n)
	}
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for u := range a {
		if _, ok := b[u]; ok {
			count++
		}
	}
	return count
}

// Service clusters keywords by SERP overlap.
type Service struct {
	deps  interfaces.Dependencies
	score ScoreFunc
}

// NewService creates a clustering service using the default
// min-denominator scoring.
func NewService(deps interfaces.Dependencies) *Service {
	return NewServiceWithScore(deps, MinScore)
}

// NewServiceWithScore creates a clustering service with a custom
// scoring convention.
func NewServiceWithScore(deps interfaces.Dependencies, score ScoreFunc) *Service {
	if score == nil {
		score = MinScore
	}
	return &Service{deps: deps, score: score}
}

// Cluster partitions the keywords in results into clusters. Two
// keywords are connected when their overlap score meets the threshold
// (inclusive); clusters are the transitive closure of that relation.
// Every keyword lands in exactly one cluster; keywords with empty SERP
// data become singletons and never join overlap comparisons.
//
// The partition is deterministic for identical inputs: keywords are
// processed in sorted order and cluster IDs derive from member texts.
func (s *Service) Cluster(results map[domain.Keyword]domain.SerpResult, threshold float64) ([]domain.Cluster, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, &coreerrors.ValidationError{
			Field:   "threshold",
			Message: "must be in (0,1]",
		}
	}

	keywords := make([]domain.Keyword, 0, len(results))
	for kw := range results {
		keywords = append(keywords, kw)
	}
	sort.Slice(keywords, func(i, j int) bool {
		return keywords[i].String() < keywords[j].String()
	})

	sets := make([]map[string]struct{}, len(keywords))
	for i, kw := range keywords {
		if r := results[kw]; !r.IsEmpty() {
			sets[i] = r.URLSet()
		}
	}

	uf := newUnionFind(len(keywords))
	for i := 0; i < len(keywords); i++ {
		if sets[i] == nil {
			continue
		}
		for j := i + 1; j < len(keywords); j++ {
			if sets[j] == nil {
				continue
			}
			if s.score(sets[i], sets[j]) >= threshold {
				uf.union(i, j)
			}
		}
	}

	components := make(map[int][]domain.Keyword)
	for i, kw := range keywords {
		root := uf.find(i)
		components[root] = append(components[root], kw)
	}

	clusters := make([]domain.Cluster, 0, len(components))
	for _, members := range components {
		clusters = append(clusters, domain.NewCluster(members))
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].ID < clusters[j].ID
	})

	if s.deps.Logger != nil {
		s.deps.Logger.Info("Clustering complete", map[string]interface{}{
			"keywords":  len(keywords),
			"clusters":  len(clusters),
			"threshold": threshold,
		})
	}

	return clusters, nil
}
