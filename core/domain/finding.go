// ABOUTME: CannibalizationFinding model describes multiple pages of one domain competing in a cluster
// ABOUTME: Carries per-URL keyword occurrences plus the primary/competing split used by the report

package domain

// Severity grades how badly a competing URL fragments the cluster.
type Severity string

const (
	// SeverityHigh marks a competing URL that ranks for more than one keyword
	SeverityHigh Severity = "high"

	// SeverityMedium marks a competing URL that ranks for a single keyword
	SeverityMedium Severity = "medium"
)

// Action is the suggested remediation for a competing URL.
type Action string

const (
	// ActionConsolidate suggests merging the page into the primary URL
	ActionConsolidate Action = "consolidate"

	// ActionReviewIntent suggests checking whether the page targets a distinct intent
	ActionReviewIntent Action = "review_intent"
)

// URLOccurrence records one keyword a domain URL ranks for inside a cluster.
type URLOccurrence struct {
	// Keyword is the cluster member the URL ranks for
	Keyword Keyword

	// Rank is the 1-based position in the keyword's SERP
	Rank int
}

// RankedURL aggregates all occurrences of one domain URL within a cluster.
type RankedURL struct {
	// URL is the normalized page URL
	URL string

	// Occurrences lists every (keyword, rank) pair the URL appears at
	Occurrences []URLOccurrence

	// AvgRank is the mean rank across occurrences
	AvgRank float64
}

// KeywordCount returns the number of distinct keywords the URL ranks for.
func (r RankedURL) KeywordCount() int {
	return len(r.Occurrences)
}

// CompetingURL is a non-primary domain URL competing inside the cluster.
type CompetingURL struct {
	RankedURL

	// Severity grades the conflict
	Severity Severity

	// Action is the suggested remediation
	Action Action
}

// CannibalizationFinding reports that at least two distinct URLs of the
// target domain rank inside the same cluster. A single URL ranking for
// many cluster keywords is the intended state and produces no finding.
type CannibalizationFinding struct {
	// ClusterID identifies the affected cluster
	ClusterID string

	// Domain is the registrable host the finding applies to
	Domain string

	// PrimaryURL is the domain URL best positioned to own the cluster,
	// chosen by keyword coverage and then average rank
	PrimaryURL RankedURL

	// Competing lists the remaining domain URLs ranked for the cluster
	Competing []CompetingURL
}

// Keywords returns the distinct cluster keywords affected by the finding.
func (f CannibalizationFinding) Keywords() []Keyword {
	seen := make(map[Keyword]struct{})
	var out []Keyword

	collect := func(occs []URLOccurrence) {
		for _, o := range occs {
			if _, ok := seen[o.Keyword]; !ok {
				seen[o.Keyword] = struct{}{}
				out = append(out, o.Keyword)
			}
		}
	}

	collect(f.PrimaryURL.Occurrences)
	for _, c := range f.Competing {
		collect(c.Occurrences)
	}
	return out
}
