package retailer

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/stylist/engine/config"
)

// Pagination styles used by known retailers
const (
	PaginationQuery = "query" // ?page=N
	PaginationHash  = "hash"  // #pageId=N
	PaginationPath  = "path"  // /page/N
)

// Platform identifiers for the API tier
const (
	PlatformShopify     = "shopify"
	PlatformWooCommerce = "woocommerce"
	PlatformGeneric     = "generic"
)

// PaginationSpec describes how a retailer encodes page numbers in listing URLs
type PaginationSpec struct {
	Style string
	Param string
}

// SelectorSet holds the CSS selectors for scraping one retailer's listing pages.
// Selectors are best-effort snapshots of live markup and degrade to the generic
// set when they stop matching.
type SelectorSet struct {
	Item      string
	Name      string
	Price     string
	SalePrice string
	Image     string
	Link      string
	NextPage  string
}

// SourceConfig describes one retailer source: platform credentials for the API
// tier, category paths and selectors for the scrape tier.
type SourceConfig struct {
	RetailerID    string
	Platform      string
	BaseURL       string
	APIKey        string
	APISecret     string
	CategoryPaths map[string]string
	Pagination    PaginationSpec
	Selectors     SelectorSet
	OccasionParam string
}

// Registry resolves retailer IDs to source configurations. It is built once
// at startup and read-only afterwards.
type Registry struct {
	sources map[string]SourceConfig
	order   []string
}

// NewRegistry builds a registry from the built-in retailer profiles overlaid
// with configured platform credentials.
func NewRegistry(retailers []config.RetailerCredentials) *Registry {
	r := &Registry{
		sources: make(map[string]SourceConfig),
	}

	for _, sc := range builtinProfiles() {
		r.sources[sc.RetailerID] = sc
		r.order = append(r.order, sc.RetailerID)
	}

	for _, cred := range retailers {
		sc, known := r.sources[cred.ID]
		if !known {
			sc = SourceConfig{RetailerID: cred.ID}
			r.order = append(r.order, cred.ID)
		}
		if cred.Platform != "" {
			sc.Platform = cred.Platform
		}
		if cred.BaseURL != "" {
			sc.BaseURL = cred.BaseURL
		}
		sc.APIKey = cred.APIKey
		sc.APISecret = cred.APISecret
		r.sources[cred.ID] = sc
	}

	return r
}

// Resolve returns the configuration for a retailer. Unknown retailers get a
// bare profile that degrades straight to synthetic inventory.
func (r *Registry) Resolve(retailerID string) SourceConfig {
	if sc, ok := r.sources[retailerID]; ok {
		return sc
	}
	return SourceConfig{RetailerID: retailerID}
}

// RetailerIDs returns all registered retailer IDs in registration order
func (r *Registry) RetailerIDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// BuildCategoryURL returns the listing URL for a category at a retailer.
// Unknown categories pass through as a path segment; retailers without a base
// URL have no listing to fetch and return an empty string.
func BuildCategoryURL(sc SourceConfig, category string) string {
	if sc.BaseURL == "" {
		return ""
	}
	base := strings.TrimRight(sc.BaseURL, "/")
	if path, ok := sc.CategoryPaths[category]; ok {
		return base + path
	}
	return base + "/" + url.PathEscape(category)
}

var pathPagePattern = regexp.MustCompile(`/page/\d+$`)

// BuildPageURL applies the retailer's pagination scheme to a listing URL.
// Page numbers at or below 1 return the base URL untouched, and applying the
// function twice never stacks a second page marker.
func BuildPageURL(sc SourceConfig, baseURL string, page int) string {
	if page <= 1 {
		return baseURL
	}

	param := sc.Pagination.Param
	if param == "" {
		param = "page"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}

	switch sc.Pagination.Style {
	case PaginationHash:
		frag, err := url.ParseQuery(u.Fragment)
		if err != nil {
			frag = url.Values{}
		}
		frag.Set(param, strconv.Itoa(page))
		u.Fragment = frag.Encode()
	case PaginationPath:
		path := strings.TrimRight(u.Path, "/")
		path = pathPagePattern.ReplaceAllString(path, "")
		u.Path = path + "/page/" + strconv.Itoa(page)
	default:
		q := u.Query()
		q.Set(param, strconv.Itoa(page))
		u.RawQuery = q.Encode()
	}

	return u.String()
}

// categoryURLPatterns maps URL fragments to canonical categories, checked in
// order so the more specific categories win
var categoryURLPatterns = []keywordGroup{
	{"dresses", []string{"dress"}},
	{"outerwear", []string{"jacket", "coat", "blazer", "outerwear"}},
	{"shoes", []string{"shoe", "sneaker", "boot", "footwear", "sandal", "heel"}},
	{"accessories", []string{"accessor", "bag", "belt", "jewelr", "hat", "scarf"}},
	{"bottoms", []string{"jean", "pant", "trouser", "skirt", "short", "legging", "bottom"}},
	{"tops", []string{"top", "shirt", "tee", "blouse", "sweater", "hoodie", "knitwear"}},
}

// CategoryFromURL derives a canonical category from a listing URL
func CategoryFromURL(rawURL string) string {
	return matchCategory(rawURL)
}

// matchCategory maps arbitrary text (URLs, platform type fields, names) onto
// the canonical category vocabulary
func matchCategory(text string) string {
	lower := strings.ToLower(text)
	for _, group := range categoryURLPatterns {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.tag
			}
		}
	}
	return "clothing"
}

// builtinProfiles returns the shipped retailer profiles. Category paths and
// selectors track the live sites on a best-effort basis.
func builtinProfiles() []SourceConfig {
	return []SourceConfig{
		{
			RetailerID: "zara",
			BaseURL:    "https://www.zara.com",
			CategoryPaths: map[string]string{
				"tops":        "/us/en/woman/shirts",
				"bottoms":     "/us/en/woman/jeans",
				"dresses":     "/us/en/woman/dresses",
				"shoes":       "/us/en/woman/shoes",
				"outerwear":   "/us/en/woman/jackets",
				"accessories": "/us/en/woman/accessories",
			},
			Pagination: PaginationSpec{Style: PaginationQuery, Param: "page"},
			Selectors: SelectorSet{
				Item:     ".product-grid-product",
				Name:     ".product-grid-product-info__name",
				Price:    ".price__amount",
				Image:    "img.media-image__image",
				Link:     "a.product-grid-product__link",
				NextPage: "a[rel='next']",
			},
		},
		{
			RetailerID: "hm",
			BaseURL:    "https://www2.hm.com",
			CategoryPaths: map[string]string{
				"tops":        "/en_us/women/products/tops.html",
				"bottoms":     "/en_us/women/products/jeans.html",
				"dresses":     "/en_us/women/products/dresses.html",
				"shoes":       "/en_us/women/products/shoes.html",
				"outerwear":   "/en_us/women/products/jackets-coats.html",
				"accessories": "/en_us/women/products/accessories.html",
			},
			Pagination: PaginationSpec{Style: PaginationQuery, Param: "page"},
			Selectors: SelectorSet{
				Item:      ".product-item",
				Name:      ".item-heading a",
				Price:     ".item-price .price.regular",
				SalePrice: ".item-price .price.sale",
				Image:     ".item-image",
				Link:      ".item-link",
				NextPage:  ".pagination-next",
			},
		},
		{
			RetailerID: "gap",
			BaseURL:    "https://www.gap.com",
			CategoryPaths: map[string]string{
				"tops":        "/browse/women/tops",
				"bottoms":     "/browse/women/jeans",
				"dresses":     "/browse/women/dresses",
				"shoes":       "/browse/women/shoes",
				"outerwear":   "/browse/women/coats-jackets",
				"accessories": "/browse/women/accessories",
			},
			Pagination: PaginationSpec{Style: PaginationHash, Param: "pageId"},
			Selectors: SelectorSet{
				Item:     ".product-card",
				Name:     ".product-card__name",
				Price:    ".product-price__highlight",
				Image:    ".product-card__image img",
				Link:     "a.product-card__link",
				NextPage: ".pagination__next",
			},
		},
		{
			RetailerID: "uniqlo",
			BaseURL:    "https://www.uniqlo.com",
			CategoryPaths: map[string]string{
				"tops":        "/us/en/women/tops",
				"bottoms":     "/us/en/women/bottoms",
				"dresses":     "/us/en/women/dresses-and-skirts",
				"shoes":       "/us/en/women/shoes",
				"outerwear":   "/us/en/women/outerwear",
				"accessories": "/us/en/women/accessories",
			},
			Pagination: PaginationSpec{Style: PaginationPath},
			Selectors: SelectorSet{
				Item:     ".fr-ec-product-tile",
				Name:     ".fr-ec-title",
				Price:    ".fr-ec-price-text",
				Image:    ".fr-ec-image img",
				Link:     "a.fr-ec-product-tile",
				NextPage: "a[rel='next']",
			},
		},
	}
}
