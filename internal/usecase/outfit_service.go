package usecase

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/stylist/engine/internal/domain"
)

// Outfit composition bounds
const (
	minOutfitMembers      = 3
	maxOutfitMembers      = 5
	maxCompletionVariants = 3
	colorCompatibleBoost  = 1.2 // complementary-item boost for matching palettes
	colorClashPenalty     = 0.6 // complementary-item penalty for clashing palettes
	completeOutfitScore   = 1.0 // score when the caller's base items already cover every slot
)

// outerwearOccasions are the contexts dressy or cold enough to add a layer
var outerwearOccasions = map[string]bool{
	"business":   true,
	"formal":     true,
	"date_night": true,
	"evening":    true,
	"winter":     true,
}

// accessoryOccasions are the contexts where an accessory counts as essential
var accessoryOccasions = map[string]bool{
	"formal":     true,
	"business":   true,
	"date_night": true,
}

// neutralColors pair with anything
var neutralColors = map[string]bool{
	"black": true, "white": true, "grey": true, "gray": true,
	"beige": true, "tan": true, "cream": true, "navy": true,
}

// complementaryColorPairs lists classic color-wheel pairings
var complementaryColorPairs = [][2][]string{
	{{"blue"}, {"orange", "brown"}},
	{{"red"}, {"green"}},
	{{"yellow"}, {"purple"}},
	{{"pink"}, {"olive", "green"}},
}

// complementaryCategories maps a category to the categories that pair with it
var complementaryCategories = map[string][]string{
	"tops":        {"bottoms", "shoes", "accessories"},
	"bottoms":     {"tops", "shoes", "accessories"},
	"dresses":     {"shoes", "accessories"},
	"outerwear":   {"tops", "bottoms", "shoes"},
	"shoes":       {"tops", "bottoms"},
	"accessories": {"tops", "bottoms", "dresses"},
}

// OutfitService assembles category-balanced outfits from scored candidate
// pools. A dress member always excludes top and bottom members from the same
// outfit.
type OutfitService struct {
	scoring *ScoringService
}

// NewOutfitService creates a new outfit service
func NewOutfitService(scoring *ScoringService) *OutfitService {
	return &OutfitService{scoring: scoring}
}

// Compose builds up to maxOutfits outfits from a ranked pool. Each product
// joins at most one outfit; composition stops when the essential categories
// run dry. Outfits come back best-first.
func (s *OutfitService) Compose(pool []domain.ScoredProduct, occasion string, maxOutfits int) []domain.Outfit {
	if maxOutfits <= 0 {
		return nil
	}

	used := make(map[string]bool)
	var outfits []domain.Outfit

	for len(outfits) < maxOutfits {
		members, ok := s.assembleMembers(pool, used, occasion)
		if !ok {
			break
		}
		for _, m := range members {
			used[m.ID] = true
		}
		if len(members) < minOutfitMembers {
			continue
		}
		outfits = append(outfits, buildOutfit(members, occasion))
	}

	sort.SliceStable(outfits, func(i, j int) bool {
		return outfits[i].Score > outfits[j].Score
	})
	return outfits
}

// assembleMembers gathers the members for one outfit. The seed is the best
// unused candidate in any essential category; a dress seed drops the top and
// bottom slots entirely. The second return is false once no seed remains.
func (s *OutfitService) assembleMembers(pool []domain.ScoredProduct, used map[string]bool, occasion string) ([]domain.ScoredProduct, bool) {
	seed, ok := firstUnused(pool, used, nil, "tops", "bottoms", "shoes", "dresses")
	if !ok {
		return nil, false
	}

	members := []domain.ScoredProduct{seed}

	slots := []string{"tops", "bottoms", "shoes"}
	if seed.Category == "dresses" {
		slots = []string{"shoes"}
	}
	for _, slot := range slots {
		if slot == seed.Category {
			continue
		}
		if item, ok := firstUnused(pool, used, members, slot); ok {
			members = append(members, item)
		}
	}

	if len(members) < maxOutfitMembers {
		if item, ok := firstUnused(pool, used, members, "accessories"); ok {
			members = append(members, item)
		}
	}
	if len(members) < maxOutfitMembers && outerwearOccasions[occasion] {
		if item, ok := firstUnused(pool, used, members, "outerwear"); ok {
			members = append(members, item)
		}
	}

	return members, true
}

// Complete builds up to three outfit variations around fixed base items by
// filling only the categories the base set leaves uncovered. Variation i
// takes the i-th best candidate per missing category.
func (s *OutfitService) Complete(base []domain.Product, pool []domain.ScoredProduct, occasion string, profile *domain.UserStyleProfile) []domain.Outfit {
	if len(base) == 0 {
		return nil
	}

	baseIDs := make([]string, 0, len(base))
	existing := make(map[string]bool)
	for _, p := range base {
		baseIDs = append(baseIDs, p.ID)
		existing[p.Category] = true
	}

	missing := make([]string, 0, 4)
	for _, cat := range essentialCategories(occasion) {
		// A dress in the base covers both the top and bottom slots
		if existing["dresses"] && (cat == "tops" || cat == "bottoms") {
			continue
		}
		if !existing[cat] {
			missing = append(missing, cat)
		}
	}

	if len(missing) == 0 {
		return []domain.Outfit{{
			ID:           newOutfitID(),
			Name:         outfitName(occasion),
			Occasion:     occasion,
			Items:        baseIDs,
			Score:        completeOutfitScore,
			MatchReasons: []string{"Complete outfit for " + humanize(occasion)},
		}}
	}

	// Candidates per missing category, best-first, base items excluded
	baseSet := make(map[string]bool, len(base))
	for _, id := range baseIDs {
		baseSet[id] = true
	}
	candidates := make(map[string][]domain.ScoredProduct, len(missing))
	for _, p := range pool {
		if baseSet[p.ID] || !hasTag(missing, p.Category) {
			continue
		}
		candidates[p.Category] = append(candidates[p.Category], p)
	}

	baseScore := s.meanBaseScore(base, profile, occasion)

	var outfits []domain.Outfit
	seen := make(map[string]bool)
	for variant := 0; variant < maxCompletionVariants; variant++ {
		items := append([]string{}, baseIDs...)
		total := baseScore * float64(len(base))
		count := len(base)

		for _, cat := range missing {
			options := candidates[cat]
			if len(options) == 0 {
				continue
			}
			pick := options[min(variant, len(options)-1)]
			items = append(items, pick.ID)
			total += pick.MatchScore
			count++
		}

		if count < minOutfitMembers {
			continue
		}
		signature := strings.Join(items, "|")
		if seen[signature] {
			continue
		}
		seen[signature] = true

		outfits = append(outfits, domain.Outfit{
			ID:           newOutfitID(),
			Name:         outfitName(occasion),
			Occasion:     occasion,
			Items:        items,
			Score:        total / float64(count),
			MatchReasons: []string{"Completes your pieces for " + humanize(occasion)},
		})
	}

	return outfits
}

// FindComplementary returns the IDs of pool items that pair well with a
// product: complementary category first, then palette compatibility breaking
// the ordering.
func (s *OutfitService) FindComplementary(p domain.Product, pool []domain.ScoredProduct, limit int) []string {
	targets := complementaryCategories[p.Category]
	if len(targets) == 0 || limit <= 0 {
		return nil
	}

	type scoredID struct {
		id    string
		score float64
	}
	var candidates []scoredID

	for _, candidate := range pool {
		if candidate.ID == p.ID || !hasTag(targets, candidate.Category) {
			continue
		}
		score := candidate.MatchScore
		if colorsCompatible(p.Colors, candidate.Colors) {
			score *= colorCompatibleBoost
		} else {
			score *= colorClashPenalty
		}
		candidates = append(candidates, scoredID{candidate.ID, score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.id)
	}
	return ids
}

// meanBaseScore averages the personal scores of the caller's base items
func (s *OutfitService) meanBaseScore(base []domain.Product, profile *domain.UserStyleProfile, occasion string) float64 {
	if len(base) == 0 {
		return 0
	}
	var total float64
	for _, p := range base {
		score, _ := s.scoring.Score(p, profile, occasion)
		total += score
	}
	return total / float64(len(base))
}

// buildOutfit folds scored members into an Outfit with the mean member score
func buildOutfit(members []domain.ScoredProduct, occasion string) domain.Outfit {
	items := make([]string, 0, len(members))
	var total float64
	hasDress := false
	for _, m := range members {
		items = append(items, m.ID)
		total += m.MatchScore
		if m.Category == "dresses" {
			hasDress = true
		}
	}

	composition := "Balanced separates that work together"
	if hasDress {
		composition = "Built around a statement dress"
	}

	return domain.Outfit{
		ID:       newOutfitID(),
		Name:     outfitName(occasion),
		Occasion: occasion,
		Items:    items,
		Score:    total / float64(len(members)),
		MatchReasons: []string{
			composition,
			"Styled for " + humanize(occasion) + " occasions",
		},
	}
}

// essentialCategories returns the slots an outfit must try to cover for the
// occasion
func essentialCategories(occasion string) []string {
	cats := []string{"tops", "bottoms", "shoes"}
	if accessoryOccasions[occasion] {
		cats = append(cats, "accessories")
	}
	return cats
}

// firstUnused returns the best pool candidate in one of the given categories
// that is neither globally used nor already a member
func firstUnused(pool []domain.ScoredProduct, used map[string]bool, members []domain.ScoredProduct, categories ...string) (domain.ScoredProduct, bool) {
	for _, p := range pool {
		if used[p.ID] || !hasTag(categories, p.Category) {
			continue
		}
		taken := false
		for _, m := range members {
			if m.ID == p.ID {
				taken = true
				break
			}
		}
		if taken {
			continue
		}
		return p, true
	}
	return domain.ScoredProduct{}, false
}

// colorsCompatible reports whether two palettes can share an outfit: neutrals
// go with anything, same colors match, and classic complementary pairs match
func colorsCompatible(a, b []string) bool {
	for _, c := range a {
		if neutralColors[c] {
			return true
		}
	}
	for _, c := range b {
		if neutralColors[c] {
			return true
		}
	}
	if overlapCount(a, b) > 0 {
		return true
	}
	for _, pair := range complementaryColorPairs {
		if (anyTag(a, pair[0]) && anyTag(b, pair[1])) || (anyTag(a, pair[1]) && anyTag(b, pair[0])) {
			return true
		}
	}
	return false
}

func anyTag(list, wanted []string) bool {
	for _, w := range wanted {
		if hasTag(list, w) {
			return true
		}
	}
	return false
}

func newOutfitID() string {
	return "outfit_" + uuid.NewString()[:8]
}

// outfitName turns an occasion tag into a display name, e.g. "date_night"
// becomes "Date Night Look"
func outfitName(occasion string) string {
	if occasion == "" {
		occasion = "casual"
	}
	words := strings.Fields(strings.ReplaceAll(occasion, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ") + " Look"
}

// humanize renders an occasion tag for prose
func humanize(occasion string) string {
	if occasion == "" {
		return "casual"
	}
	return strings.ReplaceAll(occasion, "_", " ")
}
