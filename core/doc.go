// Package core contains the business logic for the SERP cluster service.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Contains pure domain models (Keyword, SerpResult, Cluster, etc.)
// - serp: Cache-aware SERP resolution over a ranking-data provider
// - cluster: Overlap scoring and connected-component clustering
// - cannibal: Cannibalization detection for a target domain
// - analysis: Pipeline orchestration from keywords to report
// - report: Flat report assembly and CSV export
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (cache, HTTP, logger)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	import (
//	    "serp-cluster-api/core/analysis"
//	    "serp-cluster-api/core/interfaces"
//	)
//
//	// Create dependencies
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	// Wire the pipeline
//	resolver := serp.NewService(deps, provider, serp.Options{})
//	clusters := cluster.NewService(deps)
//	detector := cannibal.NewService(deps, cannibal.Options{})
//	pipeline := analysis.NewService(deps, resolver, clusters, detector, labeler)
//
//	// Run an analysis
//	report, err := pipeline.Run(ctx, analysis.Request{
//	    Keywords: keywords,
//	    Domain:   "example.com",
//	})
package core
