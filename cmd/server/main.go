package main

import (
	"fmt"
	"log"
	"os"

	"github.com/copyforge/backend/config"
	httpDelivery "github.com/copyforge/backend/internal/delivery/http"
	"github.com/copyforge/backend/internal/infrastructure/cache"
	"github.com/copyforge/backend/internal/infrastructure/llm"
	"github.com/copyforge/backend/internal/infrastructure/search"
	"github.com/copyforge/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CopyForge Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	log.Printf("Identity cache TTL: %s", cfg.Cache.TTL)

	searchClient := search.NewClient(cfg.Search.APIKey, cfg.Search.EngineID, cfg.Search.BaseURL, cfg.Search.Timeout)
	if searchClient.Configured() {
		log.Printf("Search API configured: %s", cfg.Search.BaseURL)
	} else {
		log.Printf("WARNING: search credentials not configured - lookups will degrade to zero signal")
	}

	provider := llm.NewOpenAIProvider(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.Timeout)
	generator := llm.NewGenerator(provider)
	log.Printf("LLM provider: %s (model: %s)", provider.Name(), cfg.LLM.Model)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		searchClient.SetDebug(true)
		cfg.Scoring.EnableDebugLogging = true
		log.Printf("Debug logging enabled")
	}

	// Initialize usecase layer
	pipeline := usecase.NewPipeline(
		memoryCache,
		searchClient,
		generator,
		usecase.PipelineConfig{
			CacheTTL:            cfg.Cache.TTL,
			AutoAcceptThreshold: cfg.Scoring.AutoAcceptThreshold,
			DisclaimerThreshold: cfg.Scoring.DisclaimerThreshold,
			FuzzyMinSimilarity:  cfg.Scoring.FuzzyMinSimilarity,
			MaxAlternatives:     cfg.Scoring.MaxAlternatives,
			TrustedDomains:      cfg.Scoring.TrustedDomains,
			EnableDebugLogging:  cfg.Scoring.EnableDebugLogging,
		},
	)

	log.Printf("Scoring: auto-accept>=%.0f, disclaimer>=%.0f, fuzzy min sim=%.2f",
		cfg.Scoring.AutoAcceptThreshold,
		cfg.Scoring.DisclaimerThreshold,
		cfg.Scoring.FuzzyMinSimilarity)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(pipeline)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
