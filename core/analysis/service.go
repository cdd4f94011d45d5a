// ABOUTME: Analysis pipeline orchestrates resolve, cluster, detect, and enrich into one run
// ABOUTME: Produces a Report; labeling is best-effort and never blocks cluster or finding output

package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"serp-cluster-api/core/cannibal"
	"serp-cluster-api/core/cluster"
	"serp-cluster-api/core/domain"
	coreerrors "serp-cluster-api/core/errors"
	"serp-cluster-api/core/interfaces"
	"serp-cluster-api/core/report"
	"serp-cluster-api/core/serp"
)

const defaultThreshold = 0.80

// Request describes one analysis run.
type Request struct {
	// Keywords are the queries to analyze
	Keywords []domain.Keyword

	// Threshold overrides the default overlap threshold (0 = default)
	Threshold float64

	// Domain is the target domain for cannibalization detection;
	// empty skips detection
	Domain string
}

// Service runs the full analysis pipeline.
type Service struct {
	deps     interfaces.Dependencies
	resolver *serp.Service
	clusters *cluster.Service
	detector *cannibal.Service
	labeler  interfaces.ClusterLabeler
}

// NewService wires the pipeline. labeler may be nil to disable
// enrichment entirely.
func NewService(deps interfaces.Dependencies, resolver *serp.Service, clusters *cluster.Service, detector *cannibal.Service, labeler interfaces.ClusterLabeler) *Service {
	return &Service{
		deps:     deps,
		resolver: resolver,
		clusters: clusters,
		detector: detector,
		labeler:  labeler,
	}
}

// Run executes resolve → cluster → detect → enrich and assembles the
// report. Keywords whose fetch failed become singleton rows flagged
// fetch_failed; only configuration and credential errors abort the run.
func (s *Service) Run(ctx context.Context, req Request) (*domain.Report, error) {
	threshold := req.Threshold
	if threshold == 0 {
		threshold = defaultThreshold
	}
	// Threshold is checked before any billed fetch happens.
	if threshold <= 0 || threshold > 1 {
		return nil, &coreerrors.ValidationError{Field: "threshold", Message: "must be in (0,1]"}
	}
	if len(req.Keywords) == 0 {
		return nil, &coreerrors.ValidationError{Field: "keywords", Message: "at least one keyword is required"}
	}

	results, failures, err := s.resolver.Resolve(ctx, req.Keywords)
	if err != nil {
		return nil, coreerrors.WrapError(err, "resolving SERP data")
	}

	// Failed keywords join clustering with empty results so they end
	// up as singleton rows instead of silently vanishing.
	statuses := make(map[domain.Keyword]domain.FetchStatus, len(results)+len(failures))
	for kw := range results {
		statuses[kw] = domain.FetchOK
	}
	for kw := range failures {
		if _, ok := results[kw]; ok {
			continue
		}
		results[kw] = domain.SerpResult{}
		statuses[kw] = domain.FetchFailed
	}

	clusters, err := s.clusters.Cluster(results, threshold)
	if err != nil {
		return nil, err
	}

	var findings []domain.CannibalizationFinding
	if req.Domain != "" {
		findings = s.detector.Detect(clusters, results, req.Domain)
	}

	s.enrich(ctx, clusters, results)

	rep := report.Build(report.Input{
		RunID:     uuid.New().String(),
		Generated: time.Now(),
		Domain:    req.Domain,
		Threshold: threshold,
		Clusters:  clusters,
		Findings:  findings,
		Statuses:  statuses,
	})

	if s.deps.Logger != nil {
		s.deps.Logger.Info("Analysis run complete", map[string]interface{}{
			"run_id":   rep.RunID,
			"keywords": len(req.Keywords),
			"clusters": len(clusters),
			"findings": len(findings),
			"failed":   len(failures),
		})
	}

	return rep, nil
}

// enrich asks the labeler for cluster labels and applies whatever came
// back. Any failure is logged and swallowed.
func (s *Service) enrich(ctx context.Context, clusters []domain.Cluster, results map[domain.Keyword]domain.SerpResult) {
	if s.labeler == nil || len(clusters) == 0 {
		return
	}

	prompts := make([]interfaces.ClusterPrompt, 0, len(clusters))
	for _, c := range clusters {
		prompts = append(prompts, interfaces.ClusterPrompt{
			ClusterID: c.ID,
			Keywords:  memberTexts(c),
			Titles:    representativeTitles(c, results),
		})
	}

	labels, err := s.labeler.LabelClusters(ctx, prompts)
	if err != nil {
		if s.deps.Logger != nil {
			s.deps.Logger.Warn("Cluster labeling failed, continuing without labels", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return
	}

	for i := range clusters {
		if label, ok := labels[clusters[i].ID]; ok {
			clusters[i].Label = label.Label
			clusters[i].Intent = label.Intent
		}
	}
}

func memberTexts(c domain.Cluster) []string {
	texts := make([]string, len(c.Members))
	for i, m := range c.Members {
		texts[i] = m.Text
	}
	return texts
}

// representativeTitles returns the first member's SERP titles, up to
// ten, as labeling context.
func representativeTitles(c domain.Cluster, results map[domain.Keyword]domain.SerpResult) []string {
	for _, m := range c.Members {
		titles := results[m].Titles
		if len(titles) == 0 {
			continue
		}
		if len(titles) > 10 {
			titles = titles[:10]
		}
		return titles
	}
	return nil
}
