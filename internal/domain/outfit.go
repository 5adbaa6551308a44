package domain

// Outfit is a composed set of products covering the essential clothing
// categories for an occasion. Items hold product IDs in slot order.
type Outfit struct {
	ID           string   `json:"id"` // "outfit_" + 8 hex chars
	Name         string   `json:"name"`
	Occasion     string   `json:"occasion"`
	Items        []string `json:"items"`
	Score        float64  `json:"score"` // mean of member match scores
	MatchReasons []string `json:"matchReasons,omitempty"`
}
