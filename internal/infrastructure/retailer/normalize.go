package retailer

import (
	"strconv"
	"strings"

	"github.com/stylist/engine/internal/domain"
)

// Finalize enforces the Product invariants every source must satisfy: sale
// prices are dropped unless strictly below the regular price, attribute lists
// are never empty and the trending score stays within [0, 1].
func Finalize(p domain.Product) domain.Product {
	if p.Price < 0 {
		p.Price = 0
	}
	if p.SalePrice <= 0 || p.SalePrice >= p.Price {
		p.SalePrice = 0
	}
	if len(p.Colors) == 0 {
		p.Colors = []string{"black"}
	}
	if len(p.StyleAttributes) == 0 {
		p.StyleAttributes = []string{"casual"}
	}
	if len(p.Occasions) == 0 {
		p.Occasions = []string{"casual"}
	}
	if p.TrendingScore < 0 {
		p.TrendingScore = 0
	}
	if p.TrendingScore > 1 {
		p.TrendingScore = 1
	}
	return p
}

// NormalizeAPIItem maps one decoded platform API item onto the canonical
// Product. The requested category fills in when the payload carries no usable
// category of its own. Items without an identity are skipped.
func NormalizeAPIItem(sc SourceConfig, category string, raw map[string]interface{}) (domain.Product, bool) {
	switch sc.Platform {
	case PlatformShopify:
		return normalizeShopifyItem(sc, category, raw)
	case PlatformWooCommerce:
		return normalizeWooItem(sc, category, raw)
	default:
		return normalizeGenericItem(sc, category, raw)
	}
}

func normalizeShopifyItem(sc SourceConfig, category string, raw map[string]interface{}) (domain.Product, bool) {
	localID := stringField(raw, "id")
	name := stringField(raw, "title")
	if localID == "" && name == "" {
		return domain.Product{}, false
	}
	if localID == "" {
		localID = stringField(raw, "handle")
	}

	p := domain.Product{
		ID:         sc.RetailerID + "_" + localID,
		Name:       name,
		Brand:      stringField(raw, "vendor"),
		RetailerID: sc.RetailerID,
		InStock:    true,
	}

	productType := stringField(raw, "product_type")
	p.Category = resolveCategory(productType+" "+name, category)

	// The first variant carries the representative price. Shopify reports the
	// current price in "price" and the pre-sale price in "compare_at_price".
	if variants, ok := raw["variants"].([]interface{}); ok {
		sizeSet := make(map[string]bool)
		for i, v := range variants {
			variant, ok := v.(map[string]interface{})
			if !ok {
				continue
			}
			if i == 0 {
				current := PriceFromAny(variant["price"])
				compareAt := PriceFromAny(variant["compare_at_price"])
				if compareAt > current && current > 0 {
					p.Price = compareAt
					p.SalePrice = current
				} else {
					p.Price = current
				}
				if available, ok := variant["available"].(bool); ok {
					p.InStock = available
				}
			}
			if size := stringField(variant, "option1"); size != "" && !sizeSet[size] {
				sizeSet[size] = true
				p.Sizes = append(p.Sizes, size)
			}
		}
	}

	if images, ok := raw["images"].([]interface{}); ok {
		for _, img := range images {
			if m, ok := img.(map[string]interface{}); ok {
				if src := stringField(m, "src"); src != "" {
					p.Images = append(p.Images, src)
				}
			}
		}
	}

	if handle := stringField(raw, "handle"); handle != "" && sc.BaseURL != "" {
		p.URL = strings.TrimRight(sc.BaseURL, "/") + "/products/" + handle
	}

	fillInferredAttributes(&p)
	return Finalize(p), true
}

func normalizeWooItem(sc SourceConfig, category string, raw map[string]interface{}) (domain.Product, bool) {
	localID := stringField(raw, "id")
	name := stringField(raw, "name")
	if localID == "" && name == "" {
		return domain.Product{}, false
	}

	p := domain.Product{
		ID:         sc.RetailerID + "_" + localID,
		Name:       name,
		RetailerID: sc.RetailerID,
		URL:        stringField(raw, "permalink"),
		InStock:    stringField(raw, "stock_status") != "outofstock",
	}

	regular := PriceFromAny(raw["regular_price"])
	sale := PriceFromAny(raw["sale_price"])
	current := PriceFromAny(raw["price"])
	switch {
	case regular > 0:
		p.Price = regular
		p.SalePrice = sale
	default:
		p.Price = current
	}

	categoryText := ""
	if cats, ok := raw["categories"].([]interface{}); ok {
		for _, c := range cats {
			if m, ok := c.(map[string]interface{}); ok {
				categoryText += " " + stringField(m, "name")
			}
		}
	}
	p.Category = resolveCategory(categoryText+" "+name, category)

	if attrs, ok := raw["attributes"].([]interface{}); ok {
		for _, a := range attrs {
			m, ok := a.(map[string]interface{})
			if !ok {
				continue
			}
			attrName := strings.ToLower(stringField(m, "name"))
			options, _ := m["options"].([]interface{})
			for _, opt := range options {
				val, ok := opt.(string)
				if !ok || val == "" {
					continue
				}
				switch attrName {
				case "color", "colour":
					p.Colors = append(p.Colors, strings.ToLower(val))
				case "size":
					p.Sizes = append(p.Sizes, val)
				}
			}
		}
	}

	if images, ok := raw["images"].([]interface{}); ok {
		for _, img := range images {
			if m, ok := img.(map[string]interface{}); ok {
				if src := stringField(m, "src"); src != "" {
					p.Images = append(p.Images, src)
				}
			}
		}
	}

	fillInferredAttributes(&p)
	return Finalize(p), true
}

func normalizeGenericItem(sc SourceConfig, category string, raw map[string]interface{}) (domain.Product, bool) {
	localID := stringField(raw, "id", "product_id", "sku", "item_id")
	name := stringField(raw, "name", "title", "product_name")
	if localID == "" && name == "" {
		return domain.Product{}, false
	}
	if localID == "" {
		localID = strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	}

	p := domain.Product{
		ID:         sc.RetailerID + "_" + localID,
		Name:       name,
		Brand:      stringField(raw, "brand", "vendor", "manufacturer"),
		RetailerID: sc.RetailerID,
		URL:        stringField(raw, "url", "link", "product_url"),
		InStock:    true,
	}

	p.Price = firstPrice(raw, "price", "current_price", "price.amount", "pricing.price")
	p.SalePrice = firstPrice(raw, "sale_price", "discounted_price", "price.sale")

	if v, ok := raw["in_stock"].(bool); ok {
		p.InStock = v
	} else if v, ok := raw["available"].(bool); ok {
		p.InStock = v
	}

	p.Category = resolveCategory(stringField(raw, "category", "product_type")+" "+name, category)

	if img := stringField(raw, "image", "image_url"); img != "" {
		p.Images = append(p.Images, img)
	} else if images, ok := raw["images"].([]interface{}); ok {
		for _, entry := range images {
			switch val := entry.(type) {
			case string:
				p.Images = append(p.Images, val)
			case map[string]interface{}:
				if src := stringField(val, "url", "src"); src != "" {
					p.Images = append(p.Images, src)
				}
			}
		}
	}

	if colors, ok := raw["colors"].([]interface{}); ok {
		for _, c := range colors {
			if s, ok := c.(string); ok && s != "" {
				p.Colors = append(p.Colors, strings.ToLower(s))
			}
		}
	}
	if sizes, ok := raw["sizes"].([]interface{}); ok {
		for _, s := range sizes {
			if val, ok := s.(string); ok && val != "" {
				p.Sizes = append(p.Sizes, val)
			}
		}
	}

	fillInferredAttributes(&p)
	return Finalize(p), true
}

// fillInferredAttributes backfills colors, styles, occasions, fit and
// subcategory from the product name when the payload supplied none
func fillInferredAttributes(p *domain.Product) {
	if len(p.Colors) == 0 {
		p.Colors = InferColors(p.Name)
	}
	if len(p.StyleAttributes) == 0 {
		p.StyleAttributes = InferStyles(p.Name, p.Category)
	}
	if len(p.Occasions) == 0 {
		p.Occasions = InferOccasions(p.Name, p.Category)
	}
	if p.Fit == "" {
		p.Fit = InferFit(p.Name)
	}
	if p.Subcategory == "" {
		p.Subcategory = InferSubcategory(p.Name, p.Category)
	}
}

// resolveCategory maps payload text onto the canonical vocabulary, falling
// back to the requested category when the text carries no signal
func resolveCategory(text, requested string) string {
	if matched := matchCategory(text); matched != "clothing" {
		return matched
	}
	if requested != "" {
		return requested
	}
	return "clothing"
}

// firstPrice returns the first positive price among the given keys. Keys with
// dots descend into nested objects.
func firstPrice(raw map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		if v := lookupPath(raw, key); v != nil {
			if price := PriceFromAny(v); price > 0 {
				return price
			}
		}
	}
	return 0
}

// lookupPath descends dot-separated keys through nested JSON objects
func lookupPath(raw map[string]interface{}, path string) interface{} {
	parts := strings.Split(path, ".")
	var current interface{} = raw
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}
	return current
}

// stringField returns the first non-empty string among the given keys,
// rendering numeric IDs as strings
func stringField(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			if val != "" {
				return val
			}
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64)
		case int:
			return strconv.Itoa(val)
		}
	}
	return ""
}
