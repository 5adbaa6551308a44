package retailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/stylist/engine/internal/domain"
	"github.com/stylist/engine/internal/infrastructure/fetch"
)

// Config tunes the orchestrator's fetching behavior
type Config struct {
	MaxPages       int
	MaxConcurrent  int
	PageDelay      time.Duration
	SyntheticCount int
	EnableScraping bool
	CacheTTL       time.Duration
}

// Orchestrator resolves inventory for a retailer and category by walking the
// source tiers in order: platform API, HTML scrape, synthetic generation.
// The first tier producing products wins. The orchestrator never fails its
// caller; every degradation is logged and absorbed.
type Orchestrator struct {
	registry  *Registry
	client    *fetch.Client
	cache     domain.CacheRepository
	generator *Generator
	config    Config
}

// NewOrchestrator creates an orchestrator with sane defaults for any
// unset config values
func NewOrchestrator(registry *Registry, client *fetch.Client, cache domain.CacheRepository, generator *Generator, config Config) *Orchestrator {
	if config.MaxPages == 0 {
		config.MaxPages = 3
	}
	if config.MaxConcurrent == 0 {
		config.MaxConcurrent = 3
	}
	if config.SyntheticCount == 0 {
		config.SyntheticCount = 20
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = time.Hour
	}

	return &Orchestrator{
		registry:  registry,
		client:    client,
		cache:     cache,
		generator: generator,
		config:    config,
	}
}

// Items returns normalized products for a retailer and category, serving from
// cache when a fresh entry exists. The error return is always nil; it exists
// to satisfy the inventory interface.
func (o *Orchestrator) Items(ctx context.Context, retailerID, category, occasion string) ([]domain.Product, error) {
	cacheKey := fmt.Sprintf("inventory:%s:%s:%s", retailerID, category, occasion)

	if cached, err := o.cache.Get(ctx, cacheKey); err == nil {
		var products []domain.Product
		if err := json.Unmarshal(cached, &products); err == nil {
			log.Printf("[ORCHESTRATOR] cache hit for %s/%s (%d items)", retailerID, category, len(products))
			return products, nil
		}
		log.Printf("[ORCHESTRATOR] discarding undecodable cache entry %s", cacheKey)
	}

	sc := o.registry.Resolve(retailerID)
	products, tier := o.fetchTiered(ctx, sc, category, occasion)
	log.Printf("[ORCHESTRATOR] %s/%s served from %s tier (%d items)", retailerID, category, tier, len(products))

	if data, err := json.Marshal(products); err == nil {
		if err := o.cache.Set(ctx, cacheKey, data, o.config.CacheTTL); err != nil {
			log.Printf("[ORCHESTRATOR] cache write failed for %s: %v", cacheKey, err)
		}
	}

	return products, nil
}

// fetchTiered walks the source tiers and reports which one produced the
// result. The synthetic tier cannot fail, so the walk always ends with
// products in hand.
func (o *Orchestrator) fetchTiered(ctx context.Context, sc SourceConfig, category, occasion string) ([]domain.Product, string) {
	if sc.Platform != "" {
		products, err := FetchPlatformItems(ctx, o.client, sc, category, occasion, o.config.MaxPages)
		if err == nil {
			return products, "api"
		}
		log.Printf("[ORCHESTRATOR] api tier failed for %s/%s: %v", sc.RetailerID, category, err)
	}

	if o.config.EnableScraping && sc.BaseURL != "" {
		products, err := o.scrape(ctx, sc, category)
		if err == nil {
			return products, "scrape"
		}
		log.Printf("[ORCHESTRATOR] scrape tier failed for %s/%s: %v", sc.RetailerID, category, err)
	}

	log.Printf("[ORCHESTRATOR] %v for %s/%s, generating synthetic inventory", domain.ErrSourceExhausted, sc.RetailerID, category)
	return o.generator.Generate(sc.RetailerID, category, o.config.SyntheticCount), "synthetic"
}

// scrape fetches and parses the retailer's listing pages for a category.
// The first page is fetched alone to learn whether more exist; the remainder
// run through the bounded pool with the configured delay between submissions.
func (o *Orchestrator) scrape(ctx context.Context, sc SourceConfig, category string) ([]domain.Product, error) {
	categoryURL := BuildCategoryURL(sc, category)
	if categoryURL == "" {
		return nil, fmt.Errorf("%w: no listing URL for %s", domain.ErrParseFailed, sc.RetailerID)
	}

	resp, err := o.client.GetWithRetry(ctx, categoryURL, nil)
	if err != nil {
		return nil, err
	}

	products, hasNext, err := ParseListing(sc, category, categoryURL, resp.Body)
	if err != nil {
		return nil, err
	}
	log.Printf("[SCRAPER] %s/%s page 1: %d items", sc.RetailerID, category, len(products))

	if hasNext && o.config.MaxPages > 1 {
		tasks := make([]func(context.Context) ([]domain.Product, error), 0, o.config.MaxPages-1)
		for page := 2; page <= o.config.MaxPages; page++ {
			pageURL := BuildPageURL(sc, categoryURL, page)
			tasks = append(tasks, func(taskCtx context.Context) ([]domain.Product, error) {
				pageResp, err := o.client.GetWithRetry(taskCtx, pageURL, nil)
				if err != nil {
					return nil, err
				}
				pageProducts, _, err := ParseListing(sc, category, pageURL, pageResp.Body)
				return pageProducts, err
			})
		}

		for i, result := range fetch.RunBounded(ctx, tasks, o.config.MaxConcurrent, o.config.PageDelay) {
			if result.Err != nil {
				log.Printf("[SCRAPER] %s/%s page %d failed: %v", sc.RetailerID, category, i+2, result.Err)
				continue
			}
			log.Printf("[SCRAPER] %s/%s page %d: %d items", sc.RetailerID, category, i+2, len(result.Value))
			products = append(products, result.Value...)
		}
	}

	// First occurrence wins on duplicate IDs across pages
	seen := make(map[string]bool, len(products))
	unique := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		unique = append(unique, p)
	}

	if len(unique) == 0 {
		return nil, fmt.Errorf("%w: %s/%s yielded nothing", domain.ErrParseFailed, sc.RetailerID, category)
	}
	return unique, nil
}
