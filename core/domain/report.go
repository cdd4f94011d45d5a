// ABOUTME: Report domain model is the flat, exportable output of one analysis run
// ABOUTME: One row per keyword annotated with cluster, label, and cannibalization data

package domain

import "time"

// FetchStatus records whether SERP data was available for a keyword.
type FetchStatus string

const (
	// FetchOK means ranking data was resolved from cache or provider
	FetchOK FetchStatus = "ok"

	// FetchFailed means the provider could not resolve the keyword
	FetchFailed FetchStatus = "fetch_failed"
)

// ReportRow is one keyword's line in the flat report.
type ReportRow struct {
	Keyword      Keyword
	ClusterID    string
	ClusterLabel string
	Intent       Intent
	ClusterSize  int
	Cannibalized bool
	PrimaryURL   string
	Status       FetchStatus
}

// Report is the complete output of one analysis run.
type Report struct {
	// RunID uniquely identifies the run
	RunID string

	// GeneratedAt is when the report was assembled
	GeneratedAt time.Time

	// Domain is the target domain findings were computed for, empty if detection was skipped
	Domain string

	// Threshold is the overlap threshold the clusters were built with
	Threshold float64

	// Clusters are the clusters in deterministic ID order
	Clusters []Cluster

	// Findings are the cannibalization findings, one per affected cluster
	Findings []CannibalizationFinding

	// Rows is the flat per-keyword view
	Rows []ReportRow
}

// FindingFor returns the finding for a cluster, or nil if the cluster
// has none.
func (r *Report) FindingFor(clusterID string) *CannibalizationFinding {
	for i := range r.Findings {
		if r.Findings[i].ClusterID == clusterID {
			return &r.Findings[i]
		}
	}
	return nil
}
