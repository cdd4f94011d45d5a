package interfaces

import (
	"context"

	"serp-cluster-api/core/domain"
)

// ClusterPrompt is the labeling input for one cluster: its member
// keywords plus representative result titles from the cluster's SERPs.
type ClusterPrompt struct {
	// ClusterID identifies the cluster the label belongs to
	ClusterID string

	// Keywords are the member keyword texts
	Keywords []string

	// Titles are representative SERP titles used as labeling context
	Titles []string
}

// ClusterLabel is the enrichment produced for one cluster.
type ClusterLabel struct {
	// Label is a short human-readable cluster name
	Label string

	// Intent is the search intent category
	Intent domain.Intent
}

// ClusterLabeler defines the port to the AI labeling service.
// Labeling is best-effort enrichment: callers must produce their full
// output even when labeling fails or returns a partial map.
type ClusterLabeler interface {
	// LabelClusters returns labels keyed by cluster ID. Clusters absent
	// from the map simply stay unlabeled.
	LabelClusters(ctx context.Context, prompts []ClusterPrompt) (map[string]ClusterLabel, error)
}
