package retailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/stylist/engine/internal/domain"
	"github.com/stylist/engine/internal/infrastructure/fetch"
)

// defaultPerPage is the page size requested from platform APIs
const defaultPerPage = 50

// FetchPlatformItems walks a retailer's platform API page by page and returns
// normalized products. Pages are fetched serially because each page's headers
// decide whether another follows. Duplicate IDs within the walk are dropped,
// first occurrence wins.
func FetchPlatformItems(ctx context.Context, client *fetch.Client, sc SourceConfig, category, occasion string, maxPages int) ([]domain.Product, error) {
	if sc.BaseURL == "" {
		return nil, fmt.Errorf("%w: no base URL configured for %s", domain.ErrFetchTransient, sc.RetailerID)
	}
	if maxPages < 1 {
		maxPages = 1
	}

	seen := make(map[string]bool)
	var products []domain.Product

	for page := 1; page <= maxPages; page++ {
		reqURL := apiPageURL(sc, category, occasion, page, defaultPerPage)
		resp, err := client.GetWithRetry(ctx, reqURL, apiHeaders(sc))
		if err != nil {
			if page == 1 {
				return nil, err
			}
			log.Printf("[PLATFORM] %s page %d failed, keeping %d items: %v", sc.RetailerID, page, len(products), err)
			break
		}

		items, err := decodeItems(resp.Body)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			log.Printf("[PLATFORM] %s page %d unparsable, keeping %d items: %v", sc.RetailerID, page, len(products), err)
			break
		}

		newOnPage := 0
		for _, raw := range items {
			p, ok := NormalizeAPIItem(sc, category, raw)
			if !ok || seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			products = append(products, p)
			newOnPage++
		}

		// A page of nothing but repeats means the walk has wrapped
		if newOnPage == 0 {
			break
		}
		if !hasMoreAPIPages(sc, resp.Header, page, len(items), defaultPerPage) {
			break
		}
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("%w: %s returned no items", domain.ErrParseFailed, sc.RetailerID)
	}

	log.Printf("[PLATFORM] %s/%s: %d items", sc.RetailerID, category, len(products))
	return products, nil
}

// apiPageURL builds the listing request URL for one platform API page
func apiPageURL(sc SourceConfig, category, occasion string, page, perPage int) string {
	base := strings.TrimRight(sc.BaseURL, "/")

	switch sc.Platform {
	case PlatformShopify:
		return fmt.Sprintf("%s/products.json?limit=%d&page=%d", base, perPage, page)

	case PlatformWooCommerce:
		u := fmt.Sprintf("%s/wp-json/wc/v3/products?per_page=%d&page=%d", base, perPage, page)
		if sc.APIKey != "" {
			u += "&consumer_key=" + url.QueryEscape(sc.APIKey) +
				"&consumer_secret=" + url.QueryEscape(sc.APISecret)
		}
		if category != "" {
			u += "&search=" + url.QueryEscape(category)
		}
		return u

	default:
		u := fmt.Sprintf("%s/products?limit=%d&offset=%d", base, perPage, (page-1)*perPage)
		if category != "" {
			u += "&category=" + url.QueryEscape(category)
		}
		if sc.OccasionParam != "" && occasion != "" {
			u += "&" + url.QueryEscape(sc.OccasionParam) + "=" + url.QueryEscape(occasion)
		}
		return u
	}
}

// apiHeaders returns the auth headers for the platform
func apiHeaders(sc SourceConfig) map[string]string {
	switch sc.Platform {
	case PlatformShopify:
		if sc.APIKey != "" {
			return map[string]string{"X-Shopify-Access-Token": sc.APIKey}
		}
	case PlatformWooCommerce:
		// WooCommerce authenticates via query parameters
	default:
		if sc.APIKey != "" {
			return map[string]string{"Authorization": "Bearer " + sc.APIKey}
		}
	}
	return nil
}

// decodeItems locates the item array in a platform response. Payloads wrap it
// as "products", a bare array, "items" or "data".
func decodeItems(body []byte) ([]map[string]interface{}, error) {
	var root interface{}
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParseFailed, err)
	}

	switch v := root.(type) {
	case []interface{}:
		return toItemMaps(v), nil
	case map[string]interface{}:
		for _, key := range []string{"products", "items", "data"} {
			if arr, ok := v[key].([]interface{}); ok {
				return toItemMaps(arr), nil
			}
		}
	}

	return nil, fmt.Errorf("%w: no item array in response", domain.ErrParseFailed)
}

func toItemMaps(arr []interface{}) []map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(arr))
	for _, entry := range arr {
		if m, ok := entry.(map[string]interface{}); ok {
			items = append(items, m)
		}
	}
	return items
}

// hasMoreAPIPages decides whether another page follows, using whichever
// signal the platform provides: Shopify's Link header, WooCommerce's
// X-WP-TotalPages, or the full-page heuristic for generic APIs.
func hasMoreAPIPages(sc SourceConfig, header http.Header, page, pageLen, perPage int) bool {
	switch sc.Platform {
	case PlatformShopify:
		return strings.Contains(header.Get("Link"), `rel="next"`)
	case PlatformWooCommerce:
		if total, err := strconv.Atoi(header.Get("X-WP-TotalPages")); err == nil {
			return page < total
		}
		return pageLen == perPage
	default:
		return pageLen == perPage
	}
}
