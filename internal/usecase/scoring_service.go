package usecase

import (
	"sort"
	"strings"

	"github.com/stylist/engine/internal/domain"
)

// Scoring axis weights. An axis contributes only when the product carries a
// positive signal for it, and the final score normalizes by the weight mass
// that actually contributed, so sparse items stay comparable to rich ones.
const (
	weightStyle    = 0.35
	weightColor    = 0.20
	weightFit      = 0.15
	weightOccasion = 0.20
	weightBrand    = 0.10
	weightTrending = 0.10

	avoidedScore = 0.2 // flat score for items touching an avoided style or color
	neutralScore = 0.5 // score for items carrying no profile signal at all
	rankFloor    = 0.4 // items scoring at or below this never reach the caller

	preferredStyleCredit = 0.7 // credit for preferred styles without an explicit weight
	trendingReasonFloor  = 0.7 // trending score needed to earn the trending reason

	maxMatchReasons = 3
)

// Similarity component weights. The components sum to 1.0 at a perfect match.
const (
	simCategory    = 0.30
	simSubcategory = 0.20
	simStyleMax    = 0.20
	simColorMax    = 0.15
	simBrand       = 0.10
	simPriceMax    = 0.05
	simPriceFloor  = 0.7 // price ratios below this contribute nothing
	simDefault     = 0.3 // floor for items sharing nothing with the reference

	similarityBlend = 0.7 // similarity share of the blended similar-items score
)

// ScoringService computes how well products match a user's style profile and
// how close products sit to a reference item. All scoring is deterministic.
type ScoringService struct{}

// NewScoringService creates a new scoring service
func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// Score rates one product against a profile in [0, 1] and returns up to three
// human-readable reasons for the rating. Items carrying an avoided style or
// color are pinned to a flat low score; items carrying no signal at all sit
// exactly in the middle.
func (s *ScoringService) Score(p domain.Product, profile *domain.UserStyleProfile, occasion string) (float64, []string) {
	if profile == nil {
		profile = domain.DefaultProfile()
	}
	if profile.Avoids(p.StyleAttributes, p.Colors) {
		return avoidedScore, nil
	}

	var weightSum, valueSum float64
	var reasons []string

	if v, matched := styleCredit(p, profile); v > 0 {
		weightSum += weightStyle
		valueSum += weightStyle * v
		reasons = append(reasons, "Matches your "+matched+" style")
	}

	if matched := occasionFit(p, profile, occasion); matched != "" {
		weightSum += weightOccasion
		valueSum += weightOccasion
		reasons = append(reasons, "Works for "+strings.ReplaceAll(matched, "_", " ")+" occasions")
	}

	if v, matched := colorCredit(p, profile); v > 0 {
		weightSum += weightColor
		valueSum += weightColor * v
		reasons = append(reasons, "In "+matched+", one of your colors")
	}

	if v := profile.FitWeights[p.Fit]; v > 0 {
		weightSum += weightFit
		valueSum += weightFit * v
		reasons = append(reasons, "Cut in your preferred "+p.Fit+" fit")
	}

	if v := profile.BrandWeights[strings.ToLower(p.Brand)]; v > 0 {
		weightSum += weightBrand
		valueSum += weightBrand * v
		reasons = append(reasons, "From "+p.Brand+", a brand you like")
	}

	if p.TrendingScore > 0 {
		weightSum += weightTrending
		valueSum += weightTrending * p.TrendingScore
		if p.TrendingScore >= trendingReasonFloor {
			reasons = append(reasons, "Currently trending")
		}
	}

	score := neutralScore
	if weightSum > 0 {
		score = neutralScore + neutralScore*(valueSum/weightSum)
	}

	if len(reasons) == 0 {
		reasons = []string{"A versatile addition to your wardrobe"}
	}
	if len(reasons) > maxMatchReasons {
		reasons = reasons[:maxMatchReasons]
	}

	return clamp01(score), reasons
}

// Similarity rates how close a product sits to a reference item in [0, 1].
// Items sharing nothing still get a small floor so similar-item results are
// never empty for thin catalogs.
func (s *ScoringService) Similarity(p, ref domain.Product) float64 {
	var score float64

	if p.Category != "" && p.Category == ref.Category {
		score += simCategory
	}
	if ref.Subcategory != "" && p.Subcategory == ref.Subcategory {
		score += simSubcategory
	}
	if n := overlapCount(p.StyleAttributes, ref.StyleAttributes); n > 0 {
		score += simStyleMax * float64(n) / float64(max(len(ref.StyleAttributes), 1))
	}
	if n := overlapCount(p.Colors, ref.Colors); n > 0 {
		score += simColorMax * float64(n) / float64(max(len(ref.Colors), 1))
	}
	if p.Brand != "" && p.Brand == ref.Brand {
		score += simBrand
	}
	if p.Price > 0 && ref.Price > 0 {
		ratio := p.Price / ref.Price
		if ratio > 1 {
			ratio = 1 / ratio
		}
		if ratio > simPriceFloor {
			score += simPriceMax * ratio
		}
	}

	if score == 0 {
		return simDefault
	}
	return clamp01(score)
}

// BlendedSimilarity combines closeness to the reference with the personal
// score, so similar-item results still lean toward the caller's taste.
func (s *ScoringService) BlendedSimilarity(p, ref domain.Product, profile *domain.UserStyleProfile) float64 {
	personal, _ := s.Score(p, profile, "")
	return clamp01(similarityBlend*s.Similarity(p, ref) + (1-similarityBlend)*personal)
}

// Rank scores a pool against a profile, drops weak matches and orders the
// rest best-first. Equal scores keep their discovery order.
func (s *ScoringService) Rank(pool []domain.Product, profile *domain.UserStyleProfile, occasion string) []domain.ScoredProduct {
	scored := make([]domain.ScoredProduct, 0, len(pool))
	for _, p := range pool {
		score, reasons := s.Score(p, profile, occasion)
		if score <= rankFloor {
			continue
		}
		scored = append(scored, domain.ScoredProduct{
			Product:      p,
			MatchScore:   score,
			MatchReasons: reasons,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})
	return scored
}

// styleCredit returns the mean weight of the product's styles the profile
// recognizes, along with the strongest matched style. Preferred styles with
// no explicit weight earn a flat credit.
func styleCredit(p domain.Product, profile *domain.UserStyleProfile) (float64, string) {
	var total, bestCredit float64
	var matched int
	var best string

	for _, style := range p.StyleAttributes {
		credit := profile.StyleWeights[style]
		if credit <= 0 && hasTag(profile.PreferredStyles, style) {
			credit = preferredStyleCredit
		}
		if credit <= 0 {
			continue
		}
		total += credit
		matched++
		if credit > bestCredit {
			bestCredit = credit
			best = style
		}
	}

	if matched == 0 {
		return 0, ""
	}
	return total / float64(matched), best
}

// colorCredit returns the fraction of the product's colors the profile
// favors, along with the strongest matched color
func colorCredit(p domain.Product, profile *domain.UserStyleProfile) (float64, string) {
	var matched int
	var bestWeight float64
	var best string

	for _, color := range p.Colors {
		w := profile.ColorWeights[color]
		if w <= 0 {
			continue
		}
		matched++
		if w > bestWeight {
			bestWeight = w
			best = color
		}
	}

	if matched == 0 {
		return 0, ""
	}
	return float64(matched) / float64(len(p.Colors)), best
}

// occasionFit returns the occasion the product satisfies: the requested one
// when the call names it, otherwise the first preferred occasion the product
// covers.
func occasionFit(p domain.Product, profile *domain.UserStyleProfile, occasion string) string {
	if occasion != "" {
		if hasTag(p.Occasions, occasion) {
			return occasion
		}
		return ""
	}
	for _, want := range profile.PreferredOccasions {
		if hasTag(p.Occasions, want) {
			return want
		}
	}
	return ""
}

func hasTag(list []string, tag string) bool {
	for _, item := range list {
		if item == tag {
			return true
		}
	}
	return false
}

func overlapCount(a, b []string) int {
	n := 0
	for _, item := range a {
		if hasTag(b, item) {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
