package domain

// Product is the canonical representation of a retail item, regardless of
// which source produced it. Instances are treated as immutable once built.
type Product struct {
	ID              string   `json:"id"` // globally unique: "<retailerId>_<localId>"
	Name            string   `json:"name"`
	Brand           string   `json:"brand"`
	Category        string   `json:"category"`
	Subcategory     string   `json:"subcategory,omitempty"`
	Colors          []string `json:"colors"`
	StyleAttributes []string `json:"styleAttributes"`
	Occasions       []string `json:"occasions"`
	Fit             string   `json:"fit,omitempty"`
	Price           float64  `json:"price"`
	SalePrice       float64  `json:"salePrice,omitempty"` // 0 means no sale; always < Price when set
	RetailerID      string   `json:"retailerId"`
	Images          []string `json:"images,omitempty"`
	URL             string   `json:"url,omitempty"`
	Sizes           []string `json:"sizes,omitempty"`
	InStock         bool     `json:"inStock"`
	TrendingScore   float64  `json:"trendingScore"` // 0-1
}

// OnSale reports whether the product carries a valid discounted price.
func (p *Product) OnSale() bool {
	return p.SalePrice > 0 && p.SalePrice < p.Price
}

// EffectivePrice returns the price a buyer would actually pay.
func (p *Product) EffectivePrice() float64 {
	if p.OnSale() {
		return p.SalePrice
	}
	return p.Price
}

// HasStyle reports whether the product carries the given style attribute.
func (p *Product) HasStyle(style string) bool {
	for _, s := range p.StyleAttributes {
		if s == style {
			return true
		}
	}
	return false
}

// ScoredProduct pairs a product with its per-request match assessment.
// Scores are derived, never persisted.
type ScoredProduct struct {
	Product            `json:"product"`
	MatchScore         float64  `json:"matchScore"`   // 0-1
	MatchReasons       []string `json:"matchReasons"` // at most 3, ordered by relevance
	ComplementaryItems []string `json:"complementaryItems,omitempty"`
}
