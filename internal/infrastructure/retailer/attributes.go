package retailer

import "strings"

// Attribute inference turns free-form product names into the fixed color,
// style, occasion and fit vocabularies. Tables are ordered so the first match
// wins deterministically.

// colorVocabulary is the recognized color vocabulary, scanned in order
var colorVocabulary = []string{
	"black", "white", "blue", "red", "green", "yellow", "pink",
	"grey", "gray", "brown", "navy", "purple", "orange",
	"beige", "tan", "cream", "burgundy", "olive", "khaki",
}

// keywordGroup maps one canonical tag to the name fragments that imply it
type keywordGroup struct {
	tag      string
	keywords []string
}

// stylePatterns maps name fragments to style attributes
var stylePatterns = []keywordGroup{
	{"classic", []string{"classic", "timeless", "traditional", "elegant", "sophisticated"}},
	{"minimalist", []string{"minimalist", "clean lines", "simple", "basic", "essential"}},
	{"trendy", []string{"trend", "fashion-forward", "seasonal", "latest", "contemporary"}},
	{"edgy", []string{"edgy", "alternative", "bold", "statement", "punk", "rock", "grunge"}},
	{"sporty", []string{"sport", "athletic", "active", "performance", "workout", "fitness"}},
	{"bohemian", []string{"boho", "bohemian", "free-spirit", "ethnic", "flowy", "folk", "hippie"}},
	{"streetwear", []string{"street", "urban", "graphic", "skate"}},
	{"vintage", []string{"vintage", "retro", "throwback"}},
	{"casual", []string{"casual", "everyday", "relaxed"}},
	{"formal", []string{"formal", "tailored", "dress shirt", "suit"}},
}

// occasionPatterns maps name fragments to occasion tags
var occasionPatterns = []keywordGroup{
	{"casual", []string{"casual", "everyday", "daily", "relax", "weekend"}},
	{"business", []string{"business", "professional", "office", "work"}},
	{"formal", []string{"formal", "gown", "tuxedo", "ceremony"}},
	{"party", []string{"party", "event", "celebration", "festive"}},
	{"date_night", []string{"date", "night out", "dinner", "romantic"}},
	{"vacation", []string{"vacation", "holiday", "beach", "resort", "travel"}},
	{"athletic", []string{"workout", "exercise", "fitness", "gym", "training", "running"}},
	{"winter", []string{"winter", "thermal", "puffer", "fleece"}},
}

// fitPatterns maps name fragments to fit types
var fitPatterns = []keywordGroup{
	{"slim", []string{"slim", "skinny"}},
	{"oversized", []string{"oversized", "baggy", "loose"}},
	{"relaxed", []string{"relaxed", "easy fit"}},
	{"fitted", []string{"fitted", "bodycon", "stretch"}},
	{"regular", []string{"regular", "straight"}},
}

// subcategoryPatterns maps name fragments to subcategories, per category
var subcategoryPatterns = map[string][]keywordGroup{
	"tops": {
		{"t-shirts", []string{"t-shirt", "tee"}},
		{"blouses", []string{"blouse"}},
		{"sweaters", []string{"sweater", "knit", "pullover"}},
		{"hoodies", []string{"hoodie", "sweatshirt"}},
		{"button-downs", []string{"button", "oxford"}},
		{"tank tops", []string{"tank", "cami"}},
	},
	"bottoms": {
		{"jeans", []string{"jean", "denim"}},
		{"shorts", []string{"short"}},
		{"skirts", []string{"skirt"}},
		{"leggings", []string{"legging"}},
		{"pants", []string{"pant", "trouser", "chino"}},
	},
	"outerwear": {
		{"blazers", []string{"blazer"}},
		{"cardigans", []string{"cardigan"}},
		{"coats", []string{"coat", "parka"}},
		{"jackets", []string{"jacket"}},
	},
	"dresses": {
		{"maxi dresses", []string{"maxi"}},
		{"party dresses", []string{"party"}},
		{"formal dresses", []string{"formal", "gown"}},
		{"casual dresses", []string{"casual", "sun"}},
	},
	"shoes": {
		{"sneakers", []string{"sneaker", "trainer"}},
		{"boots", []string{"boot"}},
		{"sandals", []string{"sandal"}},
		{"heels", []string{"heel", "pump"}},
		{"flats", []string{"flat"}},
		{"loafers", []string{"loafer"}},
	},
	"accessories": {
		{"hats", []string{"hat", "cap", "beanie"}},
		{"bags", []string{"bag", "tote", "backpack"}},
		{"jewelry", []string{"jewelry", "necklace", "bracelet", "ring", "earring"}},
		{"belts", []string{"belt"}},
		{"scarves", []string{"scarf"}},
	},
}

// categoryStyles supplies default style attributes per category when a name
// carries no style signal of its own
var categoryStyles = map[string][]string{
	"tops":        {"casual", "classic"},
	"bottoms":     {"casual", "classic"},
	"dresses":     {"classic", "trendy"},
	"shoes":       {"casual", "sporty"},
	"outerwear":   {"classic", "casual"},
	"accessories": {"classic", "minimalist"},
}

// categoryOccasions supplies a default occasion per category
var categoryOccasions = map[string][]string{
	"tops":        {"casual"},
	"bottoms":     {"casual"},
	"dresses":     {"evening"},
	"shoes":       {"casual"},
	"outerwear":   {"casual"},
	"accessories": {"casual"},
}

// InferColors scans a product name for known color words. Products whose name
// names no color default to black.
func InferColors(name string) []string {
	lower := strings.ToLower(name)
	var colors []string
	for _, color := range colorVocabulary {
		if strings.Contains(lower, color) {
			// gray and grey collapse into one canonical spelling
			if color == "gray" {
				color = "grey"
			}
			if !containsString(colors, color) {
				colors = append(colors, color)
			}
		}
	}
	if len(colors) == 0 {
		colors = []string{"black"}
	}
	return colors
}

// InferStyles derives style attributes from a product name, padded from the
// category defaults so every product carries at least two
func InferStyles(name, category string) []string {
	lower := strings.ToLower(name)
	var styles []string
	for _, group := range stylePatterns {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				if !containsString(styles, group.tag) {
					styles = append(styles, group.tag)
				}
				break
			}
		}
	}

	for _, filler := range categoryStyles[category] {
		if len(styles) >= 2 {
			break
		}
		if !containsString(styles, filler) {
			styles = append(styles, filler)
		}
	}
	if len(styles) == 0 {
		styles = []string{"casual"}
	}
	return styles
}

// InferOccasions derives occasion tags from a product name, padded from the
// category default so the list is never empty
func InferOccasions(name, category string) []string {
	lower := strings.ToLower(name)
	var occasions []string
	for _, group := range occasionPatterns {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				if !containsString(occasions, group.tag) {
					occasions = append(occasions, group.tag)
				}
				break
			}
		}
	}

	if len(occasions) == 0 {
		occasions = append(occasions, categoryOccasions[category]...)
	}
	if len(occasions) == 0 {
		occasions = []string{"casual"}
	}
	return occasions
}

// InferFit derives a fit type from a product name, defaulting to regular
func InferFit(name string) string {
	lower := strings.ToLower(name)
	for _, group := range fitPatterns {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.tag
			}
		}
	}
	return "regular"
}

// InferSubcategory derives a subcategory from a product name within its
// category. Unknown names yield an empty subcategory.
func InferSubcategory(name, category string) string {
	lower := strings.ToLower(name)
	for _, group := range subcategoryPatterns[category] {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.tag
			}
		}
	}
	return ""
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
