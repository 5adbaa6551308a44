package domain

// UserStyleProfile captures a user's style preferences as weighted signals.
// Profiles are immutable within a single request.
type UserStyleProfile struct {
	UserID              string             `json:"userId"`
	StyleWeights        map[string]float64 `json:"styleWeights"` // 0-1 per style attribute
	PreferredStyles     []string           `json:"preferredStyles"`
	ColorWeights        map[string]float64 `json:"colorWeights"`
	FitWeights          map[string]float64 `json:"fitWeights"`
	PreferredCategories []string           `json:"preferredCategories"`
	PreferredOccasions  []string           `json:"preferredOccasions"`
	AvoidedStyles       []string           `json:"avoidedStyles"`
	AvoidedColors       []string           `json:"avoidedColors"`
	BrandWeights        map[string]float64 `json:"brandWeights"`
}

// StyleQuiz holds onboarding quiz answers: the attributes a user says they want.
type StyleQuiz struct {
	Styles    []string `json:"styles,omitempty"`
	Colors    []string `json:"colors,omitempty"`
	Fits      []string `json:"fits,omitempty"`
	Occasions []string `json:"occasions,omitempty"`
	Brands    []string `json:"brands,omitempty"`
}

// ClosetItem is one garment a user reports owning.
type ClosetItem struct {
	Category string   `json:"category"`
	Color    string   `json:"color,omitempty"`
	Brand    string   `json:"brand,omitempty"`
	Styles   []string `json:"styles,omitempty"`
	Favorite bool     `json:"favorite,omitempty"`
}

// StyleFeedback carries a user's reactions to earlier recommendations.
type StyleFeedback struct {
	LikedStyles    []string `json:"likedStyles,omitempty"`
	LikedColors    []string `json:"likedColors,omitempty"`
	LikedBrands    []string `json:"likedBrands,omitempty"`
	DislikedStyles []string `json:"dislikedStyles,omitempty"`
	DislikedColors []string `json:"dislikedColors,omitempty"`
}

// PrefersColor reports whether the profile carries a positive weight for the color.
func (p *UserStyleProfile) PrefersColor(color string) bool {
	return p.ColorWeights[color] > 0
}

// Avoids reports whether any of the given attributes is on an avoided list.
func (p *UserStyleProfile) Avoids(styles, colors []string) bool {
	for _, s := range styles {
		for _, avoided := range p.AvoidedStyles {
			if s == avoided {
				return true
			}
		}
	}
	for _, c := range colors {
		for _, avoided := range p.AvoidedColors {
			if c == avoided {
				return true
			}
		}
	}
	return false
}

// DefaultProfile returns the fallback profile used when a caller supplies none:
// casual and versatile styles with neutral colors and a regular fit.
func DefaultProfile() *UserStyleProfile {
	return &UserStyleProfile{
		UserID: "default",
		StyleWeights: map[string]float64{
			"casual":  0.8,
			"classic": 0.6,
		},
		PreferredStyles: []string{"casual", "classic", "minimalist"},
		ColorWeights: map[string]float64{
			"black": 0.8,
			"white": 0.7,
			"navy":  0.6,
			"grey":  0.6,
		},
		FitWeights: map[string]float64{
			"regular": 0.7,
			"relaxed": 0.5,
		},
		PreferredCategories: []string{"tops", "bottoms", "shoes"},
		PreferredOccasions:  []string{"casual", "weekend"},
		BrandWeights:        map[string]float64{},
	}
}
