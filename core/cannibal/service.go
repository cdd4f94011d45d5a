// ABOUTME: Cannibalization detector finds multiple pages of one domain competing inside a cluster
// ABOUTME: A finding needs two or more distinct domain URLs ranking for the cluster's keywords

package cannibal

import (
	"net/url"
	"sort"
	"strings"

	"serp-cluster-api/core/domain"
	"serp-cluster-api/core/interfaces"
)

// Options configures detection behavior.
type Options struct {
	// ExactHost requires the ranking URL host to equal the target
	// domain exactly. By default subdomains match: www.example.com and
	// example.com count as the same domain.
	ExactHost bool
}

// Service detects cannibalization for a target domain.
type Service struct {
	deps interfaces.Dependencies
	opts Options
}

// NewService creates a new detector instance.
func NewService(deps interfaces.Dependencies, opts Options) *Service {
	return &Service{deps: deps, opts: opts}
}

// Detect returns one finding per cluster in which at least two distinct
// URLs of the target domain rank for the cluster's keywords. A single
// domain URL ranking for many keywords in a cluster is the expected
// state and produces no finding. Detection is a pure in-memory pass
// over already-resolved data.
func (s *Service) Detect(clusters []domain.Cluster, results map[domain.Keyword]domain.SerpResult, targetDomain string) []domain.CannibalizationFinding {
	targetDomain = normalizeDomain(targetDomain)
	if targetDomain == "" {
		return nil
	}

	var findings []domain.CannibalizationFinding
	for _, cluster := range clusters {
		ranked := s.mapDomainURLs(cluster, results, targetDomain)
		if len(ranked) < 2 {
			continue
		}
		findings = append(findings, buildFinding(cluster.ID, targetDomain, ranked))
	}

	if s.deps.Logger != nil {
		s.deps.Logger.Info("Cannibalization detection complete", map[string]interface{}{
			"domain":   targetDomain,
			"clusters": len(clusters),
			"findings": len(findings),
		})
	}

	return findings
}

// mapDomainURLs collects every target-domain URL ranking inside the
// cluster, with the keywords and ranks it appears at.
func (s *Service) mapDomainURLs(cluster domain.Cluster, results map[domain.Keyword]domain.SerpResult, targetDomain string) []domain.RankedURL {
	byURL := make(map[string]*domain.RankedURL)
	var order []string

	for _, kw := range cluster.Members {
		serp, ok := results[kw]
		if !ok {
			continue
		}
		for rank, u := range serp.URLs {
			if !s.hostMatches(u, targetDomain) {
				continue
			}
			entry, exists := byURL[u]
			if !exists {
				entry = &domain.RankedURL{URL: u}
				byURL[u] = entry
				order = append(order, u)
			}
			entry.Occurrences = append(entry.Occurrences, domain.URLOccurrence{
				Keyword: kw,
				Rank:    rank + 1,
			})
		}
	}

	ranked := make([]domain.RankedURL, 0, len(order))
	for _, u := range order {
		entry := byURL[u]
		var sum int
		for _, occ := range entry.Occurrences {
			sum += occ.Rank
		}
		entry.AvgRank = float64(sum) / float64(len(entry.Occurrences))
		ranked = append(ranked, *entry)
	}
	return ranked
}

// buildFinding splits the ranked URLs into the primary page and its
// competitors. The primary covers the most keywords, ties broken by
// better average rank; each competitor is graded and given a suggested
// action.
func buildFinding(clusterID, targetDomain string, ranked []domain.RankedURL) domain.CannibalizationFinding {
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].KeywordCount() != ranked[j].KeywordCount() {
			return ranked[i].KeywordCount() > ranked[j].KeywordCount()
		}
		if ranked[i].AvgRank != ranked[j].AvgRank {
			return ranked[i].AvgRank < ranked[j].AvgRank
		}
		return ranked[i].URL < ranked[j].URL
	})

	finding := domain.CannibalizationFinding{
		ClusterID:  clusterID,
		Domain:     targetDomain,
		PrimaryURL: ranked[0],
	}

	for _, r := range ranked[1:] {
		severity := domain.SeverityMedium
		if r.KeywordCount() > 1 {
			severity = domain.SeverityHigh
		}
		action := domain.ActionReviewIntent
		if r.AvgRank > 10 {
			action = domain.ActionConsolidate
		}
		finding.Competing = append(finding.Competing, domain.CompetingURL{
			RankedURL: r,
			Severity:  severity,
			Action:    action,
		})
	}

	return finding
}

// hostMatches reports whether the URL belongs to the target domain.
func (s *Service) hostMatches(rawURL, targetDomain string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}

	host := normalizeDomain(parsed.Hostname())
	if host == targetDomain {
		return true
	}
	if s.opts.ExactHost {
		return false
	}
	return strings.HasSuffix(host, "."+targetDomain)
}

// normalizeDomain lowercases the domain and strips a leading www.
func normalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	return strings.TrimPrefix(d, "www.")
}
