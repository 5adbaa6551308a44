package usecase

import (
	"sort"
	"strings"

	"github.com/stylist/engine/internal/domain"
)

const (
	quizSourceWeight     = 0.5
	closetSourceWeight   = 0.3
	feedbackSourceWeight = 0.2

	// Favorite closet items count this much extra toward their attributes.
	favoriteBoost = 1.5

	// preferredListMax caps the derived preference lists so profiles built
	// from large closets stay focused.
	preferredListMax = 5
)

// ProfileService builds style profiles from raw user signals.
type ProfileService struct{}

// NewProfileService creates a new profile service.
func NewProfileService() *ProfileService {
	return &ProfileService{}
}

// BuildProfile derives a weighted style profile from whatever signals the
// caller supplies. Quiz answers carry the most weight, then closet
// composition, then feedback; disliked attributes override everything and
// land on the avoided lists. With no signals at all the default profile
// is returned.
func (s *ProfileService) BuildProfile(req *domain.ProfileRequest) *domain.UserStyleProfile {
	if req == nil || (req.Quiz == nil && len(req.Closet) == 0 && req.Feedback == nil) {
		return domain.DefaultProfile()
	}

	styles := map[string]float64{}
	colors := map[string]float64{}
	fits := map[string]float64{}
	brands := map[string]float64{}

	var preferredOccasions []string
	if req.Quiz != nil {
		addSignals(styles, req.Quiz.Styles, quizSourceWeight)
		addSignals(colors, req.Quiz.Colors, quizSourceWeight)
		addSignals(fits, req.Quiz.Fits, quizSourceWeight)
		addSignals(brands, req.Quiz.Brands, quizSourceWeight)
		preferredOccasions = normalizeTags(req.Quiz.Occasions)
	}

	preferredCategories := closetSignals(req.Closet, styles, colors, brands)

	var avoidedStyles, avoidedColors []string
	if req.Feedback != nil {
		addSignals(styles, req.Feedback.LikedStyles, feedbackSourceWeight)
		addSignals(colors, req.Feedback.LikedColors, feedbackSourceWeight)
		addSignals(brands, req.Feedback.LikedBrands, feedbackSourceWeight)
		avoidedStyles = dropSignals(styles, req.Feedback.DislikedStyles)
		avoidedColors = dropSignals(colors, req.Feedback.DislikedColors)
	}

	clampWeights(styles)
	clampWeights(colors)
	clampWeights(fits)
	clampWeights(brands)

	return &domain.UserStyleProfile{
		UserID:              req.UserID,
		StyleWeights:        styles,
		PreferredStyles:     topKeys(styles, preferredListMax),
		ColorWeights:        colors,
		FitWeights:          fits,
		PreferredCategories: preferredCategories,
		PreferredOccasions:  preferredOccasions,
		AvoidedStyles:       avoidedStyles,
		AvoidedColors:       avoidedColors,
		BrandWeights:        brands,
	}
}

// addSignals adds weight for each attribute, lowercased. Repeats accumulate.
func addSignals(weights map[string]float64, attrs []string, weight float64) {
	for _, attr := range attrs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if attr == "" {
			continue
		}
		weights[attr] += weight
	}
}

// closetSignals folds closet composition into the weight maps and returns the
// wardrobe's categories ordered by how much of it they make up. Every signal
// is a share of the whole closet, with favorites counting extra.
func closetSignals(closet []domain.ClosetItem, styles, colors, brands map[string]float64) []string {
	if len(closet) == 0 {
		return nil
	}

	categories := map[string]float64{}
	total := float64(len(closet))
	for _, item := range closet {
		share := 1.0
		if item.Favorite {
			share = favoriteBoost
		}
		weight := closetSourceWeight * share / total

		if cat := strings.ToLower(strings.TrimSpace(item.Category)); cat != "" {
			categories[cat] += share / total
		}
		if color := strings.ToLower(strings.TrimSpace(item.Color)); color != "" {
			colors[color] += weight
		}
		if brand := strings.ToLower(strings.TrimSpace(item.Brand)); brand != "" {
			brands[brand] += weight
		}
		for _, style := range item.Styles {
			if style = strings.ToLower(strings.TrimSpace(style)); style != "" {
				styles[style] += weight
			}
		}
	}

	return topKeys(categories, preferredListMax)
}

// dropSignals removes disliked attributes from a weight map outright and
// returns them for the avoided lists. A dislike overrides liked and closet
// signals for the same attribute.
func dropSignals(weights map[string]float64, attrs []string) []string {
	var avoided []string
	seen := map[string]bool{}
	for _, attr := range attrs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if attr == "" || seen[attr] {
			continue
		}
		seen[attr] = true
		delete(weights, attr)
		avoided = append(avoided, attr)
	}
	return avoided
}

func clampWeights(weights map[string]float64) {
	for key, value := range weights {
		weights[key] = clamp01(value)
	}
}

// topKeys returns up to limit keys ordered by descending weight, ties broken
// alphabetically so the result is deterministic.
func topKeys(weights map[string]float64, limit int) []string {
	keys := make([]string, 0, len(weights))
	for key := range weights {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if weights[keys[i]] == weights[keys[j]] {
			return keys[i] < keys[j]
		}
		return weights[keys[i]] > weights[keys[j]]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

// normalizeTags lowercases occasion-style tags and folds spaces to
// underscores, so "Date Night" and "date_night" read the same.
func normalizeTags(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		v = strings.ReplaceAll(v, " ", "_")
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
