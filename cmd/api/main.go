// ABOUTME: Main entry point for the SERP Cluster API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"serp-cluster-api/api"
	"serp-cluster-api/api/handlers"
	"serp-cluster-api/core/analysis"
	"serp-cluster-api/core/cannibal"
	"serp-cluster-api/core/cluster"
	"serp-cluster-api/core/interfaces"
	"serp-cluster-api/core/serp"
	"serp-cluster-api/infrastructure/cache/memory"
	"serp-cluster-api/infrastructure/cache/redis"
	stdhttp "serp-cluster-api/infrastructure/http/standard"
	"serp-cluster-api/infrastructure/labeler/openai"
	logruslogger "serp-cluster-api/infrastructure/logger/logrus"
	"serp-cluster-api/infrastructure/provider/dataforseo"
	"serp-cluster-api/pkg/config"
	"serp-cluster-api/pkg/featureflags"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create logger
	logger := logruslogger.New()
	logger.Info("Starting SERP Cluster API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"cache_ttl":  cfg.Cache.TTL.String(),
	})

	// Create cache
	var cache interfaces.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			cache = memory.NewMemoryCache(cfg.Cache.TTL)
		} else {
			cache = redisCache
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
			})
		}
	default:
		cache = memory.NewMemoryCache(cfg.Cache.TTL)
		logger.Info("Using memory cache", nil)
	}

	// Provider calls are billed per keyword batch, so the client paces
	// requests instead of letting callers burst.
	providerHTTP := stdhttp.NewStandardHTTPClient(stdhttp.ClientOptions{
		Timeout:           60 * time.Second,
		BasicAuthUser:     cfg.Provider.Login,
		BasicAuthPassword: cfg.Provider.Password,
		RequestsPerSecond: 2,
	})

	// Create dependencies container
	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: providerHTTP,
		Logger:     logger,
	}

	// Feature flags tune scoring and matching behavior per deployment
	flags := featureflags.NewEnvManager("")
	flagCtx := context.Background()
	logger.Info("Feature flags loaded", map[string]interface{}{
		"flags": flags.GetAllFlags(),
	})

	// Create services
	provider := dataforseo.NewClient(providerHTTP, logger, dataforseo.Options{
		KeepQuery: flags.IsEnabled(flagCtx, featureflags.KeepQueryURLs),
	})
	resolver := serp.NewService(deps, provider, serp.Options{
		CacheTTL:   cfg.Cache.TTL,
		BatchSize:  cfg.Provider.BatchSize,
		MaxRetries: cfg.Provider.MaxRetries,
		StaleOK:    cfg.Cache.StaleOK,
	})

	var clusterService *cluster.Service
	if flags.IsEnabled(flagCtx, featureflags.UnionOverlapScore) {
		clusterService = cluster.NewServiceWithScore(deps, cluster.UnionScore)
	} else {
		clusterService = cluster.NewService(deps)
	}

	detector := cannibal.NewService(deps, cannibal.Options{
		ExactHost: flags.IsEnabled(flagCtx, featureflags.ExactHostMatch),
	})

	var labeler interfaces.ClusterLabeler
	if cfg.Labeler.APIKey != "" {
		labelerHTTP := stdhttp.NewStandardHTTPClient(stdhttp.ClientOptions{
			Timeout:     60 * time.Second,
			BearerToken: cfg.Labeler.APIKey,
		})
		labeler = openai.NewClient(labelerHTTP, logger, openai.Options{
			Model: cfg.Labeler.Model,
		})
		logger.Info("Cluster labeling enabled", map[string]interface{}{
			"model": cfg.Labeler.Model,
		})
	} else {
		logger.Info("Cluster labeling disabled, no API key configured", nil)
	}

	analysisService := analysis.NewService(deps, resolver, clusterService, detector, labeler)

	// Create API with middleware
	apiConfig := api.APIConfig{
		Logger:     logger,
		RateLimit:  60, // 60 requests per minute
		RateWindow: time.Minute,
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	// Create and register handlers
	analyzeHandler := handlers.NewAnalyzeHandler(analysisService, handlers.Defaults{
		Threshold: cfg.Analysis.Threshold,
		Domain:    cfg.Analysis.Domain,
	})
	analyzeHandler.RegisterRoutes(humaAPI)

	// Create HTTP server. Analysis runs fan out live SERP fetches, so
	// the write timeout is generous.
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped", nil)
}
