package retailer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	t.Run("count and identity", func(t *testing.T) {
		products := NewGenerator(1).Generate("zara", "tops", 20)
		require.Len(t, products, 20)

		for i, p := range products {
			assert.Equal(t, fmt.Sprintf("zara_mock_tops_%d", i+1), p.ID)
			assert.Equal(t, "zara", p.RetailerID)
			assert.Equal(t, "tops", p.Category)
		}
	})

	t.Run("inventory invariants hold", func(t *testing.T) {
		products := NewGenerator(2).Generate("hm", "", 200)

		for _, p := range products {
			assert.NotEmpty(t, p.Name)
			assert.NotEmpty(t, p.Brand)
			assert.NotEmpty(t, p.Subcategory)
			assert.NotEmpty(t, p.Colors)
			assert.NotEmpty(t, p.StyleAttributes)
			assert.NotEmpty(t, p.Occasions)
			assert.NotEmpty(t, p.Sizes)
			assert.NotEmpty(t, p.Images)
			assert.True(t, p.InStock)
			assert.Greater(t, p.Price, 0.0)
			assert.LessOrEqual(t, p.Price, 150.0)
			if p.SalePrice != 0 {
				assert.Less(t, p.SalePrice, p.Price)
			}
			assert.GreaterOrEqual(t, p.TrendingScore, 0.0)
			assert.LessOrEqual(t, p.TrendingScore, 1.0)
		}
	})

	t.Run("unknown category drawn from vocabulary", func(t *testing.T) {
		products := NewGenerator(3).Generate("gap", "widgets", 50)

		for _, p := range products {
			assert.Contains(t, syntheticCategories, p.Category)
			assert.Contains(t, syntheticSubcategories[p.Category], p.Subcategory)
		}
	})

	t.Run("seeded output is reproducible", func(t *testing.T) {
		first := NewGenerator(42).Generate("uniqlo", "shoes", 10)
		second := NewGenerator(42).Generate("uniqlo", "shoes", 10)
		assert.Equal(t, first, second)
	})

	t.Run("different seeds diverge", func(t *testing.T) {
		first := NewGenerator(1).Generate("uniqlo", "shoes", 10)
		second := NewGenerator(99).Generate("uniqlo", "shoes", 10)
		assert.NotEqual(t, first, second)
	})

	t.Run("zero count yields empty slice", func(t *testing.T) {
		assert.Empty(t, NewGenerator(1).Generate("zara", "tops", 0))
	})
}

func TestTitleWords(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"t-shirts", "T-Shirts"},
		{"casual dresses", "Casual Dresses"},
		{"jeans", "Jeans"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, titleWords(tt.input))
		})
	}
}
