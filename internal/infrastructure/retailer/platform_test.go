package retailer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylist/engine/internal/domain"
	"github.com/stylist/engine/internal/infrastructure/fetch"
)

func testFetchClient(maxRetries int) *fetch.Client {
	return fetch.NewClient(fetch.Options{
		Timeout:           5 * time.Second,
		MaxRetries:        maxRetries,
		RequestsPerSecond: 1000,
	})
}

func TestFetchPlatformItems_Shopify(t *testing.T) {
	var tokens []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.Header.Get("X-Shopify-Access-Token"))
		require.Equal(t, "/products.json", r.URL.Path)
		require.Equal(t, "50", r.URL.Query().Get("limit"))

		switch r.URL.Query().Get("page") {
		case "1":
			w.Header().Set("Link", `<`+r.Host+`/products.json?page=2>; rel="next"`)
			fmt.Fprint(w, `{"products": [
				{"id": 1, "title": "Alpha Tee", "variants": [{"price": "20.00"}]},
				{"id": 2, "title": "Beta Tee", "variants": [{"price": "22.00"}]}
			]}`)
		case "2":
			fmt.Fprint(w, `{"products": [
				{"id": 3, "title": "Gamma Tee", "variants": [{"price": "24.00"}]}
			]}`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer server.Close()

	sc := SourceConfig{RetailerID: "zara", Platform: PlatformShopify, BaseURL: server.URL, APIKey: "token-1"}

	products, err := FetchPlatformItems(context.Background(), testFetchClient(0), sc, "tops", "", 5)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "zara_1", products[0].ID)
	assert.Equal(t, "zara_3", products[2].ID)
	// The Link header ended the walk before maxPages did
	assert.Equal(t, []string{"token-1", "token-1"}, tokens)
}

func TestFetchPlatformItems_WooCommerce(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, "/wp-json/wc/v3/products", r.URL.Path)
		assert.Equal(t, "ck-1", r.URL.Query().Get("consumer_key"))
		assert.Equal(t, "cs-1", r.URL.Query().Get("consumer_secret"))
		assert.Equal(t, "dresses", r.URL.Query().Get("search"))

		w.Header().Set("X-WP-TotalPages", "1")
		fmt.Fprint(w, `[{"id": 7, "name": "Tiered Midi", "price": "58.00"}]`)
	}))
	defer server.Close()

	sc := SourceConfig{
		RetailerID: "boutique",
		Platform:   PlatformWooCommerce,
		BaseURL:    server.URL,
		APIKey:     "ck-1",
		APISecret:  "cs-1",
	}

	products, err := FetchPlatformItems(context.Background(), testFetchClient(0), sc, "dresses", "", 5)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "boutique_7", products[0].ID)
	assert.Equal(t, 1, requests, "X-WP-TotalPages should stop the walk after page 1")
}

func TestFetchPlatformItems_GenericFullPageHeuristic(t *testing.T) {
	var offsets []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		require.Equal(t, "Bearer api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "shoes", r.URL.Query().Get("category"))
		assert.Equal(t, "evening", r.URL.Query().Get("style"))

		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)

		count := 50
		if offset != "0" {
			count = 5
		}
		items := make([]map[string]interface{}, count)
		for i := range items {
			items[i] = map[string]interface{}{
				"id":    fmt.Sprintf("o%s-%d", offset, i),
				"name":  fmt.Sprintf("Runner %s %d", offset, i),
				"price": 75.0,
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": items})
	}))
	defer server.Close()

	sc := SourceConfig{
		RetailerID:    "indie",
		Platform:      PlatformGeneric,
		BaseURL:       server.URL,
		APIKey:        "api-key",
		OccasionParam: "style",
	}

	products, err := FetchPlatformItems(context.Background(), testFetchClient(0), sc, "shoes", "evening", 5)
	require.NoError(t, err)
	assert.Len(t, products, 55)
	// A short page means the walk is done
	assert.Equal(t, []string{"0", "50"}, offsets)
}

func TestFetchPlatformItems_DuplicatesDropped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.Header().Set("Link", `rel="next"`)
		}
		fmt.Fprint(w, `{"products": [
			{"id": 1, "title": "Alpha Tee", "variants": [{"price": "20.00"}]},
			{"id": 2, "title": "Beta Tee", "variants": [{"price": "22.00"}]}
		]}`)
	}))
	defer server.Close()

	sc := SourceConfig{RetailerID: "zara", Platform: PlatformShopify, BaseURL: server.URL}

	products, err := FetchPlatformItems(context.Background(), testFetchClient(0), sc, "tops", "", 5)
	require.NoError(t, err)
	// Page 2 repeats page 1 entirely, so the walk stops with the originals
	require.Len(t, products, 2)
	assert.Equal(t, "zara_1", products[0].ID)
	assert.Equal(t, "zara_2", products[1].ID)
}

func TestFetchPlatformItems_LaterPageFailureKeepsItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Link", `rel="next"`)
		fmt.Fprint(w, `{"products": [{"id": 1, "title": "Alpha Tee", "variants": [{"price": "20.00"}]}]}`)
	}))
	defer server.Close()

	sc := SourceConfig{RetailerID: "zara", Platform: PlatformShopify, BaseURL: server.URL}

	products, err := FetchPlatformItems(context.Background(), testFetchClient(0), sc, "tops", "", 3)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestFetchPlatformItems_Failures(t *testing.T) {
	t.Run("first page error surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		sc := SourceConfig{RetailerID: "zara", Platform: PlatformShopify, BaseURL: server.URL}
		_, err := FetchPlatformItems(context.Background(), testFetchClient(0), sc, "tops", "", 3)
		assert.Error(t, err)
	})

	t.Run("empty catalog is a parse failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"products": []}`)
		}))
		defer server.Close()

		sc := SourceConfig{RetailerID: "zara", Platform: PlatformShopify, BaseURL: server.URL}
		_, err := FetchPlatformItems(context.Background(), testFetchClient(0), sc, "tops", "", 3)
		assert.ErrorIs(t, err, domain.ErrParseFailed)
	})

	t.Run("missing base url", func(t *testing.T) {
		sc := SourceConfig{RetailerID: "bare", Platform: PlatformShopify}
		_, err := FetchPlatformItems(context.Background(), testFetchClient(0), sc, "tops", "", 3)
		assert.ErrorIs(t, err, domain.ErrFetchTransient)
	})
}

func TestDecodeItems(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		count   int
		wantErr bool
	}{
		{"products wrapper", `{"products": [{"id": 1}]}`, 1, false},
		{"bare array", `[{"id": 1}, {"id": 2}]`, 2, false},
		{"items wrapper", `{"items": [{"id": 1}]}`, 1, false},
		{"data wrapper", `{"data": [{"id": 1}]}`, 1, false},
		{"no array", `{"status": "ok"}`, 0, true},
		{"not json", `<html></html>`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := decodeItems([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrParseFailed)
				return
			}
			require.NoError(t, err)
			assert.Len(t, items, tt.count)
		})
	}
}
