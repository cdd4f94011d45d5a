// ABOUTME: Report builder flattens clusters and findings into one row per keyword
// ABOUTME: Rows follow cluster ID order so exports are stable across identical runs

package report

import (
	"time"

	"serp-cluster-api/core/domain"
)

// Input carries everything the builder needs to assemble a report.
type Input struct {
	RunID     string
	Generated time.Time
	Domain    string
	Threshold float64
	Clusters  []domain.Cluster
	Findings  []domain.CannibalizationFinding
	Statuses  map[domain.Keyword]domain.FetchStatus
}

// Build assembles the flat report. Clusters arrive sorted by ID from
// the clustering service and rows keep that order, members sorted
// within each cluster.
func Build(in Input) *domain.Report {
	rep := &domain.Report{
		RunID:       in.RunID,
		GeneratedAt: in.Generated,
		Domain:      in.Domain,
		Threshold:   in.Threshold,
		Clusters:    in.Clusters,
		Findings:    in.Findings,
	}

	findingsByCluster := make(map[string]*domain.CannibalizationFinding, len(in.Findings))
	for i := range in.Findings {
		findingsByCluster[in.Findings[i].ClusterID] = &in.Findings[i]
	}

	for _, c := range in.Clusters {
		finding := findingsByCluster[c.ID]
		for _, kw := range c.Members {
			row := domain.ReportRow{
				Keyword:      kw,
				ClusterID:    c.ID,
				ClusterLabel: c.Label,
				Intent:       c.Intent,
				ClusterSize:  c.Size(),
				Status:       domain.FetchOK,
			}
			if status, ok := in.Statuses[kw]; ok {
				row.Status = status
			}
			if finding != nil {
				row.Cannibalized = true
				row.PrimaryURL = finding.PrimaryURL.URL
			}
			rep.Rows = append(rep.Rows, row)
		}
	}

	return rep
}
