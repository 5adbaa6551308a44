package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/stylist/engine/internal/domain"
	"github.com/stylist/engine/internal/infrastructure/fetch"
)

const (
	defaultMaxConcurrent = 3
	defaultMaxOutfits    = 5

	// The first few ranked items get complementary suggestions attached.
	complementaryDepth = 3
	complementaryLimit = 3
)

// standardCategories is the fan-out set used when neither the request nor
// the profile narrows the search.
var standardCategories = []string{
	"tops", "bottoms", "dresses", "outerwear", "shoes", "accessories",
}

// RecommendationConfig holds configuration for the recommendation service
type RecommendationConfig struct {
	MaxConcurrent int
	MaxOutfits    int
}

// RecommendationService assembles personalized product and outfit
// recommendations from whatever inventory the sources can supply.
type RecommendationService struct {
	inventory     domain.InventorySource
	scoring       *ScoringService
	outfits       *OutfitService
	retailers     []string
	maxConcurrent int
	maxOutfits    int
}

// NewRecommendationService creates a new recommendation service with dependencies.
// retailers is the default fan-out set used when a request names none.
func NewRecommendationService(
	inventory domain.InventorySource,
	retailers []string,
	config RecommendationConfig,
) *RecommendationService {
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent == 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	maxOutfits := config.MaxOutfits
	if maxOutfits == 0 {
		maxOutfits = defaultMaxOutfits
	}

	scoring := NewScoringService()

	return &RecommendationService{
		inventory:     inventory,
		scoring:       scoring,
		outfits:       NewOutfitService(scoring),
		retailers:     retailers,
		maxConcurrent: maxConcurrent,
		maxOutfits:    maxOutfits,
	}
}

// GetRecommendations returns ranked products plus composed outfits for a request.
// Flow: fan out per retailer and category -> merge and dedup -> rank ->
// attach complementary items -> compose outfits -> trim to the limit
func (s *RecommendationService) GetRecommendations(
	ctx context.Context,
	req *domain.RecommendationRequest,
) (*domain.RecommendationResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: missing request body", domain.ErrInvalidRequest)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	retailerIDs := req.RetailerIDs
	if len(retailerIDs) == 0 {
		retailerIDs = s.retailers
	}

	pool := s.collect(ctx, retailerIDs, searchCategories(req), req.Occasion)

	ranked := s.scoring.Rank(pool, req.Profile, req.Occasion)
	for i := 0; i < len(ranked) && i < complementaryDepth; i++ {
		ranked[i].ComplementaryItems = s.outfits.FindComplementary(ranked[i].Product, ranked, complementaryLimit)
	}

	outfits := s.outfits.Compose(ranked, req.Occasion, s.maxOutfits)
	if outfits == nil {
		outfits = []domain.Outfit{}
	}

	if len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}

	return &domain.RecommendationResponse{
		Items:   ranked,
		Outfits: outfits,
	}, nil
}

// GetSimilarItems returns products resembling a reference item, leaning
// toward the caller's taste when a profile is present.
// Flow: derive the retailer -> gather its inventory -> locate the reference ->
// rank the rest by blended similarity
func (s *RecommendationService) GetSimilarItems(
	ctx context.Context,
	req *domain.SimilarItemsRequest,
) ([]domain.ScoredProduct, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: missing request body", domain.ErrInvalidRequest)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	retailerID := req.RetailerID
	if retailerID == "" {
		prefix, _, found := strings.Cut(req.ItemID, "_")
		if !found || prefix == "" {
			return nil, fmt.Errorf("%w: retailer not derivable from item id %q", domain.ErrInvalidRequest, req.ItemID)
		}
		retailerID = prefix
	}

	categories := standardCategories
	if req.Category != "" {
		categories = []string{req.Category}
	}

	pool := s.collect(ctx, []string{retailerID}, categories, "")

	ref, ok := findProduct(pool, req.ItemID)
	if !ok {
		log.Printf("[RECOMMEND] %v: %s, returning empty result", domain.ErrItemNotFound, req.ItemID)
		return []domain.ScoredProduct{}, nil
	}

	similar := make([]domain.ScoredProduct, 0, len(pool))
	for _, p := range pool {
		if p.ID == ref.ID {
			continue
		}
		similar = append(similar, domain.ScoredProduct{
			Product:      p,
			MatchScore:   s.scoring.BlendedSimilarity(p, ref, req.Profile),
			MatchReasons: []string{"Similar to " + ref.Name},
		})
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].MatchScore > similar[j].MatchScore
	})
	if len(similar) > req.Limit {
		similar = similar[:req.Limit]
	}
	return similar, nil
}

// CompleteOutfit builds outfit variations around items the caller already owns.
// Flow: derive retailers from the base item ids -> gather their inventory ->
// locate the base items -> rank the candidates -> build completion variants
func (s *RecommendationService) CompleteOutfit(
	ctx context.Context,
	req *domain.OutfitRequest,
) ([]domain.Outfit, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: missing request body", domain.ErrInvalidRequest)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	retailerIDs := make([]string, 0, len(req.BaseItemIDs)+1)
	seen := make(map[string]bool)
	if req.RetailerID != "" {
		retailerIDs = append(retailerIDs, req.RetailerID)
		seen[req.RetailerID] = true
	}
	for _, id := range req.BaseItemIDs {
		prefix, _, found := strings.Cut(id, "_")
		if !found || prefix == "" || seen[prefix] {
			continue
		}
		seen[prefix] = true
		retailerIDs = append(retailerIDs, prefix)
	}
	if len(retailerIDs) == 0 {
		return nil, fmt.Errorf("%w: no retailer could be derived from the base item ids", domain.ErrInvalidRequest)
	}

	pool := s.collect(ctx, retailerIDs, standardCategories, req.Occasion)

	base := make([]domain.Product, 0, len(req.BaseItemIDs))
	for _, id := range req.BaseItemIDs {
		p, ok := findProduct(pool, id)
		if !ok {
			log.Printf("[RECOMMEND] base item %s not found in inventory, skipping", id)
			continue
		}
		base = append(base, p)
	}
	if len(base) == 0 {
		return nil, fmt.Errorf("%w: none of the base items could be found", domain.ErrInvalidRequest)
	}

	ranked := s.scoring.Rank(pool, req.Profile, req.Occasion)

	outfits := s.outfits.Complete(base, ranked, req.Occasion, req.Profile)
	if outfits == nil {
		outfits = []domain.Outfit{}
	}
	return outfits, nil
}

// inventoryCell names one retailer/category pair in a fan-out batch.
type inventoryCell struct {
	retailerID string
	category   string
}

// collect fans out one inventory task per retailer/category pair and merges
// the results. The first product seen wins for any duplicated ID; failed
// cells are logged and contribute nothing.
func (s *RecommendationService) collect(ctx context.Context, retailerIDs, categories []string, occasion string) []domain.Product {
	cells := make([]inventoryCell, 0, len(retailerIDs)*len(categories))
	for _, retailerID := range retailerIDs {
		for _, category := range categories {
			cells = append(cells, inventoryCell{retailerID: retailerID, category: category})
		}
	}

	tasks := make([]func(context.Context) ([]domain.Product, error), len(cells))
	for i, cell := range cells {
		tasks[i] = func(ctx context.Context) ([]domain.Product, error) {
			return s.inventory.Items(ctx, cell.retailerID, cell.category, occasion)
		}
	}

	results := fetch.RunBounded(ctx, tasks, s.maxConcurrent, 0)

	seen := make(map[string]bool)
	var pool []domain.Product
	for i, res := range results {
		if res.Err != nil {
			log.Printf("[RECOMMEND] %s/%s fetch failed: %v", cells[i].retailerID, cells[i].category, res.Err)
			continue
		}
		for _, p := range res.Value {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			pool = append(pool, p)
		}
	}

	log.Printf("[RECOMMEND] pooled %d products from %d retailer/category cells", len(pool), len(cells))
	return pool
}

// searchCategories picks the category fan-out set for a request: an explicit
// category wins, then the profile's preferred categories, then the standard set.
func searchCategories(req *domain.RecommendationRequest) []string {
	if req.Category != "" {
		return []string{req.Category}
	}
	if len(req.Profile.PreferredCategories) > 0 {
		return req.Profile.PreferredCategories
	}
	return standardCategories
}

// findProduct locates a product by ID in a merged pool.
func findProduct(pool []domain.Product, id string) (domain.Product, bool) {
	for _, p := range pool {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
