// ABOUTME: Response DTOs for analysis endpoints
// ABOUTME: Provides structured report responses with JSON serialization

package responses

import "time"

// ReportResponse represents a completed analysis run in API responses
type ReportResponse struct {
	RunID       string            `json:"run_id" doc:"Unique identifier for the run"`
	GeneratedAt time.Time         `json:"generated_at" doc:"When the report was assembled"`
	Domain      string            `json:"domain,omitempty" doc:"Target domain, empty if detection was skipped"`
	Threshold   float64           `json:"threshold" doc:"Overlap threshold the clusters were built with"`
	Clusters    []ClusterResponse `json:"clusters" doc:"Clusters in deterministic ID order"`
	Findings    []FindingResponse `json:"findings,omitempty" doc:"Cannibalization findings"`
	Rows        []RowResponse     `json:"rows" doc:"Flat per-keyword view"`
}

// ClusterResponse represents one keyword cluster
type ClusterResponse struct {
	ID       string   `json:"id" doc:"Deterministic cluster identifier"`
	Keywords []string `json:"keywords" doc:"Member keywords in sorted order"`
	Label    string   `json:"label,omitempty" doc:"Human-readable cluster label"`
	Intent   string   `json:"intent,omitempty" doc:"Detected search intent"`
}

// RowResponse represents one keyword's line in the flat report
type RowResponse struct {
	Keyword      string `json:"keyword" doc:"Keyword text"`
	LocationCode int    `json:"location_code" doc:"SERP location code"`
	LanguageCode string `json:"language_code" doc:"SERP language code"`
	ClusterID    string `json:"cluster_id" doc:"Cluster the keyword belongs to"`
	ClusterLabel string `json:"cluster_label,omitempty" doc:"Cluster label"`
	Intent       string `json:"intent,omitempty" doc:"Cluster intent"`
	ClusterSize  int    `json:"cluster_size" doc:"Number of keywords in the cluster"`
	Cannibalized bool   `json:"cannibalized" doc:"Whether the cluster has a cannibalization finding"`
	PrimaryURL   string `json:"primary_url,omitempty" doc:"Primary domain URL for the cluster"`
	FetchStatus  string `json:"fetch_status" doc:"ok or fetch_failed"`
}

// FindingResponse represents one cannibalization finding
type FindingResponse struct {
	ClusterID  string                 `json:"cluster_id" doc:"Affected cluster"`
	Domain     string                 `json:"domain" doc:"Domain the finding applies to"`
	PrimaryURL RankedURLResponse      `json:"primary_url" doc:"URL best positioned to own the cluster"`
	Competing  []CompetingURLResponse `json:"competing" doc:"Remaining domain URLs ranked for the cluster"`
}

// RankedURLResponse aggregates one domain URL's occurrences in a cluster
type RankedURLResponse struct {
	URL         string               `json:"url" doc:"Normalized page URL"`
	AvgRank     float64              `json:"avg_rank" doc:"Mean rank across occurrences"`
	Occurrences []OccurrenceResponse `json:"occurrences" doc:"Per-keyword ranking occurrences"`
}

// CompetingURLResponse is a non-primary domain URL competing in the cluster
type CompetingURLResponse struct {
	RankedURLResponse
	Severity string `json:"severity" doc:"high or medium"`
	Action   string `json:"action" doc:"Suggested remediation"`
}

// OccurrenceResponse records one keyword a URL ranks for
type OccurrenceResponse struct {
	Keyword string `json:"keyword" doc:"Cluster member the URL ranks for"`
	Rank    int    `json:"rank" doc:"1-based SERP position"`
}
