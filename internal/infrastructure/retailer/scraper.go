package retailer

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/stylist/engine/internal/domain"
)

// maxItemsPerPage bounds how many entries a single listing page contributes
const maxItemsPerPage = 60

// genericItemSelectors are tried in order when a retailer's own selectors
// match nothing on the page
var genericItemSelectors = []string{
	".product-card",
	".product-item",
	".product-tile",
	"li.product",
	"[data-product-id]",
	".grid-product",
}

var (
	genericNameSelectors  = []string{".product-name", ".product-title", ".name", "h2", "h3"}
	genericPriceSelectors = []string{".price", ".product-price", "[class*='price']"}
	genericSaleSelectors  = []string{".sale-price", ".price--sale", ".price-sale", "ins"}

	nextPageSelectors = "a[rel='next'], .pagination-next, .pagination__next, a.next"

	digitPattern         = regexp.MustCompile(`\d`)
	currencyPricePattern = regexp.MustCompile(`[$€£]\s?\d[\d,.]*`)
	slugCleanPattern     = regexp.MustCompile(`[^a-z0-9]+`)
)

// ParseListing extracts products from a listing page. Parsing strategies are
// tried from most to least specific: the retailer's own selectors, then the
// generic selector sets, then a bare anchor heuristic. The first strategy
// yielding at least one product wins; when none does the page is unparsable.
// The second return reports whether the page links a further page.
func ParseListing(sc SourceConfig, category, pageURL string, body []byte) ([]domain.Product, bool, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrParseFailed, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	// Tier 1: retailer-specific selectors
	if sc.Selectors.Item != "" {
		if products := extractItems(doc, sc, category, base, sc.Selectors); len(products) > 0 {
			return products, hasNextPage(doc, sc), nil
		}
	}

	// Tier 2: generic selector sets
	for _, itemSel := range genericItemSelectors {
		if products := extractItems(doc, sc, category, base, SelectorSet{Item: itemSel}); len(products) > 0 {
			return products, hasNextPage(doc, sc), nil
		}
	}

	// Tier 3: anchor-with-image heuristic
	if products := extractHeuristic(doc, sc, category, base); len(products) > 0 {
		return products, hasNextPage(doc, sc), nil
	}

	return nil, false, fmt.Errorf("%w: no strategy matched %s", domain.ErrParseFailed, pageURL)
}

// extractItems walks the item containers matched by one selector set and
// builds normalized products from whatever fields parse out of each tile
func extractItems(doc *goquery.Document, sc SourceConfig, category string, base *url.URL, sel SelectorSet) []domain.Product {
	var products []domain.Product

	doc.Find(sel.Item).EachWithBreak(func(i int, item *goquery.Selection) bool {
		name := selectText(item, sel.Name, genericNameSelectors)
		priceText := selectText(item, sel.Price, genericPriceSelectors)
		if name == "" {
			name = strings.TrimSpace(item.Find("img").First().AttrOr("alt", ""))
		}
		if name == "" || priceText == "" {
			return true // not a product tile
		}

		link := item.Find("a").First().AttrOr("href", "")
		if sel.Link != "" {
			link = firstNonEmpty(item.Find(sel.Link).First().AttrOr("href", ""), link)
		}
		link = absoluteURL(base, link)

		price := parseFirstPrice(priceText)
		var salePrice float64
		if saleText := selectText(item, sel.SalePrice, genericSaleSelectors); saleText != "" {
			if sale := parseFirstPrice(saleText); sale > 0 && sale < price {
				salePrice = sale
			}
		}

		p := domain.Product{
			ID:         sc.RetailerID + "_" + localIDFrom(item, link, name, i),
			Name:       name,
			RetailerID: sc.RetailerID,
			Category:   resolveListingCategory(category, base),
			Price:      price,
			SalePrice:  salePrice,
			URL:        link,
			InStock:    item.Find(".sold-out, .out-of-stock").Length() == 0,
		}
		if img := imageSource(item, sel.Image); img != "" {
			p.Images = []string{img}
		}
		fillInferredAttributes(&p)
		products = append(products, Finalize(p))

		return len(products) < maxItemsPerPage
	})

	return products
}

// extractHeuristic scans bare anchors wrapping an image and a price-looking
// text node. It is the last resort for markup none of the selectors know.
func extractHeuristic(doc *goquery.Document, sc SourceConfig, category string, base *url.URL) []domain.Product {
	seen := make(map[string]bool)
	var products []domain.Product

	doc.Find("a[href]").EachWithBreak(func(i int, anchor *goquery.Selection) bool {
		img := anchor.Find("img").First()
		if img.Length() == 0 {
			return true
		}

		name := firstNonEmpty(
			strings.TrimSpace(img.AttrOr("alt", "")),
			strings.TrimSpace(anchor.Find("h2, h3, .name").First().Text()),
		)
		priceText := currencyPricePattern.FindString(anchor.Text())
		if name == "" || priceText == "" {
			return true
		}

		link := absoluteURL(base, anchor.AttrOr("href", ""))
		localID := pathSlug(link)
		if localID == "" {
			localID = fmt.Sprintf("%s-%d", slugify(name), i)
		}
		if seen[localID] {
			return true
		}
		seen[localID] = true

		p := domain.Product{
			ID:         sc.RetailerID + "_" + localID,
			Name:       name,
			RetailerID: sc.RetailerID,
			Category:   resolveListingCategory(category, base),
			Price:      ParsePrice(priceText),
			URL:        link,
			InStock:    true,
		}
		if src := firstNonEmpty(img.AttrOr("src", ""), img.AttrOr("data-src", "")); src != "" {
			p.Images = []string{src}
		}
		fillInferredAttributes(&p)
		products = append(products, Finalize(p))

		return len(products) < maxItemsPerPage
	})

	return products
}

// hasNextPage reports whether the page links a further listing page
func hasNextPage(doc *goquery.Document, sc SourceConfig) bool {
	if sc.Selectors.NextPage != "" && doc.Find(sc.Selectors.NextPage).Length() > 0 {
		return true
	}
	return doc.Find(nextPageSelectors).Length() > 0
}

// selectText returns the first non-empty text under the primary selector,
// then under each fallback selector
func selectText(item *goquery.Selection, primary string, fallbacks []string) string {
	if primary != "" {
		if text := strings.TrimSpace(item.Find(primary).First().Text()); text != "" {
			return text
		}
	}
	for _, fb := range fallbacks {
		if text := strings.TrimSpace(item.Find(fb).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// parseFirstPrice parses the first price-looking token out of text that may
// hold several prices, such as a struck-through original next to a sale price
func parseFirstPrice(text string) float64 {
	for _, field := range strings.Fields(text) {
		if digitPattern.MatchString(field) {
			if v := ParsePrice(field); v > 0 {
				return v
			}
		}
	}
	return ParsePrice(text)
}

// imageSource pulls an image URL from the tile, preferring the retailer's
// image selector and tolerating lazy-load attributes
func imageSource(item *goquery.Selection, primary string) string {
	img := item.Find("img").First()
	if primary != "" {
		if s := item.Find(primary).First(); s.Length() > 0 {
			if goquery.NodeName(s) == "img" {
				img = s
			} else if nested := s.Find("img").First(); nested.Length() > 0 {
				img = nested
			}
		}
	}
	return firstNonEmpty(img.AttrOr("src", ""), img.AttrOr("data-src", ""))
}

// localIDFrom derives a stable per-retailer item ID from the tile markup,
// the product URL slug, or the name as a last resort
func localIDFrom(item *goquery.Selection, link, name string, index int) string {
	if id := item.AttrOr("data-product-id", ""); id != "" {
		return id
	}
	if slug := pathSlug(link); slug != "" {
		return slug
	}
	return fmt.Sprintf("%s-%d", slugify(name), index)
}

// resolveListingCategory prefers the requested category and falls back to
// whatever the page URL implies
func resolveListingCategory(category string, base *url.URL) string {
	if category != "" {
		return category
	}
	if base != nil {
		return CategoryFromURL(base.String())
	}
	return "clothing"
}

// absoluteURL resolves a possibly relative href against the page URL
func absoluteURL(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// pathSlug returns the last meaningful path segment of a product URL
func pathSlug(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := strings.TrimSuffix(segments[i], ".html")
		if seg != "" && seg != "products" && seg != "product" {
			return seg
		}
	}
	return ""
}

// slugify collapses a product name into a URL-safe identifier fragment
func slugify(name string) string {
	slug := slugCleanPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// firstNonEmpty returns the first non-empty string among the candidates
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
