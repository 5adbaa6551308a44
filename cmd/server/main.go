package main

import (
	"fmt"
	"log"
	"os"

	"github.com/stylist/engine/config"
	httpDelivery "github.com/stylist/engine/internal/delivery/http"
	"github.com/stylist/engine/internal/domain"
	"github.com/stylist/engine/internal/infrastructure/cache"
	"github.com/stylist/engine/internal/infrastructure/fetch"
	"github.com/stylist/engine/internal/infrastructure/retailer"
	"github.com/stylist/engine/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Stylist Engine v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	// Initialize infrastructure dependencies
	inventoryCache := buildCache(cfg)
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	fetchClient := fetch.NewClient(fetch.Options{
		Timeout:           cfg.Fetch.Timeout,
		MaxRetries:        cfg.Fetch.MaxRetries,
		MaxBodyBytes:      cfg.Fetch.MaxBodyBytes,
		UserAgent:         cfg.Fetch.UserAgent,
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
	})

	registry := retailer.NewRegistry(cfg.Sources.Retailers)
	log.Printf("Retailers: %v (scraping enabled: %v)", registry.RetailerIDs(), cfg.Sources.EnableScraping)

	// A fixed seed keeps synthetic inventory, and with it product IDs, stable
	// across restarts.
	generator := retailer.NewGenerator(1)

	orchestrator := retailer.NewOrchestrator(registry, fetchClient, inventoryCache, generator, retailer.Config{
		MaxPages:       cfg.Sources.MaxPages,
		MaxConcurrent:  cfg.Sources.MaxConcurrent,
		PageDelay:      cfg.Sources.PageDelay,
		SyntheticCount: cfg.Sources.SyntheticCount,
		EnableScraping: cfg.Sources.EnableScraping,
		CacheTTL:       cfg.Cache.TTL,
	})

	// Initialize usecase layer
	recommendationService := usecase.NewRecommendationService(
		orchestrator,
		registry.RetailerIDs(),
		usecase.RecommendationConfig{
			MaxConcurrent: cfg.Sources.MaxConcurrent,
		},
	)
	profileService := usecase.NewProfileService()

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(recommendationService, profileService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildCache selects the configured cache backend. An unreachable Redis is
// logged and replaced with the in-memory cache so the engine still starts.
func buildCache(cfg *config.Config) domain.CacheRepository {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err == nil {
			log.Printf("Connected to Redis")
			return redisCache
		}
		log.Printf("WARNING: Redis unavailable (%v), falling back to in-memory cache", err)
	}
	return cache.NewMemoryCache()
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
