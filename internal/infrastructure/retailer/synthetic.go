package retailer

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/stylist/engine/internal/domain"
)

// Synthetic inventory tables. Generated products draw from the same fixed
// vocabularies the normalizer maps real listings onto, so downstream scoring
// cannot tell the tiers apart.
var (
	syntheticBrands = []string{
		"Zara", "H&M", "Nike", "Adidas", "Levi's", "Gap", "Uniqlo",
		"Fashion Nova", "Urban Outfitters",
	}

	syntheticCategories = []string{
		"tops", "bottoms", "outerwear", "dresses", "shoes", "accessories",
	}

	syntheticSubcategories = map[string][]string{
		"tops":        {"t-shirts", "blouses", "sweaters", "hoodies", "button-downs", "tank tops"},
		"bottoms":     {"jeans", "pants", "shorts", "skirts", "leggings"},
		"outerwear":   {"jackets", "coats", "cardigans", "blazers"},
		"dresses":     {"casual dresses", "formal dresses", "party dresses", "maxi dresses"},
		"shoes":       {"sneakers", "boots", "sandals", "heels", "flats", "loafers"},
		"accessories": {"hats", "bags", "jewelry", "belts", "scarves"},
	}

	syntheticColors = []string{
		"black", "white", "blue", "red", "green", "yellow", "pink",
		"grey", "brown", "navy", "purple", "orange",
	}

	syntheticStyles = []string{
		"casual", "formal", "streetwear", "classic", "bohemian",
		"minimalist", "athleisure", "preppy", "vintage",
	}

	syntheticFits = []string{"slim", "regular", "oversized", "relaxed", "fitted"}

	syntheticOccasions = []string{
		"casual", "business", "evening", "weekend", "athletic", "formal", "date_night",
	}

	// Most generated items carry no discount
	syntheticDiscounts = []int{0, 0, 0, 10, 15, 20, 25, 30}

	syntheticLetterSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}
)

// Generator produces synthetic products when no real source tier can.
// A fixed seed makes the output reproducible.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded for reproducible output
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate produces count synthetic products for a retailer. A non-empty
// category pins every product to it; otherwise categories are drawn randomly.
// Every product satisfies the full set of inventory invariants.
func (g *Generator) Generate(retailerID, category string, count int) []domain.Product {
	products := make([]domain.Product, 0, count)

	for i := 1; i <= count; i++ {
		cat := category
		if _, known := syntheticSubcategories[cat]; !known {
			cat = syntheticCategories[g.rng.Intn(len(syntheticCategories))]
		}
		subcats := syntheticSubcategories[cat]
		subcat := subcats[g.rng.Intn(len(subcats))]
		brand := syntheticBrands[g.rng.Intn(len(syntheticBrands))]

		price := round2(15 + g.rng.Float64()*135)
		var salePrice float64
		if discount := syntheticDiscounts[g.rng.Intn(len(syntheticDiscounts))]; discount > 0 {
			salePrice = round2(price * (1 - float64(discount)/100))
		}

		p := domain.Product{
			ID:              fmt.Sprintf("%s_mock_%s_%d", retailerID, cat, i),
			Name:            fmt.Sprintf("%s %s %d", brand, titleWords(subcat), i),
			Brand:           brand,
			Category:        cat,
			Subcategory:     subcat,
			Colors:          g.sample(syntheticColors, 1, 3),
			StyleAttributes: g.sample(syntheticStyles, 1, 3),
			Occasions:       g.sample(syntheticOccasions, 1, 3),
			Fit:             syntheticFits[g.rng.Intn(len(syntheticFits))],
			Price:           price,
			SalePrice:       salePrice,
			RetailerID:      retailerID,
			Images: []string{
				fmt.Sprintf("https://example.com/%s/%s/%d.jpg", cat, strings.ReplaceAll(subcat, " ", "-"), i),
			},
			Sizes:         g.sizesFor(cat),
			InStock:       true,
			TrendingScore: 0.1 + g.rng.Float64()*0.9,
		}

		products = append(products, Finalize(p))
	}

	return products
}

// sizesFor draws a plausible size run for the category
func (g *Generator) sizesFor(category string) []string {
	switch category {
	case "tops", "outerwear":
		return g.sample(syntheticLetterSizes, 3, 6)
	case "bottoms":
		var waists []string
		for w := 26; w <= 40; w += 2 {
			waists = append(waists, fmt.Sprintf("%d", w))
		}
		return g.sample(waists, 4, 8)
	case "shoes":
		var shoes []string
		for s := 5; s <= 12; s++ {
			shoes = append(shoes, fmt.Sprintf("%d", s))
		}
		return g.sample(shoes, 5, 8)
	default:
		return g.sample(syntheticLetterSizes[:5], 3, 5)
	}
}

// sample draws between min and max distinct values, preserving no particular
// order beyond the seeded shuffle
func (g *Generator) sample(values []string, min, max int) []string {
	n := min
	if max > min {
		n += g.rng.Intn(max - min + 1)
	}
	if n > len(values) {
		n = len(values)
	}
	picked := make([]string, 0, n)
	for _, idx := range g.rng.Perm(len(values))[:n] {
		picked = append(picked, values[idx])
	}
	return picked
}

// titleWords capitalizes each space- or hyphen-separated word
func titleWords(s string) string {
	b := []byte(s)
	up := true
	for i := 0; i < len(b); i++ {
		c := b[i]
		if up && c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
		up = c == ' ' || c == '-'
	}
	return string(b)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
