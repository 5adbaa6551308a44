package domain

import "fmt"

const (
	// DefaultLimit is applied when a request does not specify an item limit
	DefaultLimit = 20
	// MaxLimit caps the number of items any single request may ask for
	MaxLimit = 100
)

// RecommendationRequest asks for scored products and outfits for a context.
type RecommendationRequest struct {
	Category    string            `json:"category,omitempty"`
	Occasion    string            `json:"occasion,omitempty"`
	Profile     *UserStyleProfile `json:"profile,omitempty"`
	RetailerIDs []string          `json:"retailerIds,omitempty"`
	Limit       int               `json:"limit,omitempty"`
}

// Validate normalizes the request in place and reports whether it is usable.
// Unknown category or occasion strings pass through untouched.
func (r *RecommendationRequest) Validate() error {
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.Profile == nil {
		r.Profile = DefaultProfile()
	}
	return nil
}

// RecommendationResponse carries ranked items plus composed outfits.
// The shape is identical on every path, including full degradation.
type RecommendationResponse struct {
	Items   []ScoredProduct `json:"items"`
	Outfits []Outfit        `json:"outfits"`
}

// SimilarItemsRequest asks for products resembling a reference item.
type SimilarItemsRequest struct {
	ItemID     string            `json:"itemId" binding:"required"`
	RetailerID string            `json:"retailerId,omitempty"`
	Category   string            `json:"category,omitempty"`
	Profile    *UserStyleProfile `json:"profile,omitempty"`
	Limit      int               `json:"limit,omitempty"`
}

// Validate normalizes the request in place and reports whether it is usable.
func (r *SimilarItemsRequest) Validate() error {
	if r.ItemID == "" {
		return fmt.Errorf("%w: itemId is required", ErrInvalidRequest)
	}
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.Profile == nil {
		r.Profile = DefaultProfile()
	}
	return nil
}

// OutfitRequest asks for outfit variations built around owned base items.
type OutfitRequest struct {
	BaseItemIDs []string          `json:"baseItemIds" binding:"required"`
	RetailerID  string            `json:"retailerId,omitempty"`
	Occasion    string            `json:"occasion,omitempty"`
	Profile     *UserStyleProfile `json:"profile,omitempty"`
}

// Validate normalizes the request in place and reports whether it is usable.
func (r *OutfitRequest) Validate() error {
	if len(r.BaseItemIDs) == 0 {
		return fmt.Errorf("%w: at least one base item is required", ErrInvalidRequest)
	}
	if r.Occasion == "" {
		r.Occasion = "casual"
	}
	if r.Profile == nil {
		r.Profile = DefaultProfile()
	}
	return nil
}

// ProfileRequest asks to build a style profile from raw user signals.
// All fields are optional; an empty request yields the default profile.
type ProfileRequest struct {
	UserID   string         `json:"userId,omitempty"`
	Quiz     *StyleQuiz     `json:"quiz,omitempty"`
	Closet   []ClosetItem   `json:"closet,omitempty"`
	Feedback *StyleFeedback `json:"feedback,omitempty"`
}
