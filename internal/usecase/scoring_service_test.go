package usecase

import (
	"math"
	"testing"

	"github.com/stylist/engine/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testProfile() *domain.UserStyleProfile {
	return &domain.UserStyleProfile{
		UserID:             "u1",
		StyleWeights:       map[string]float64{"casual": 0.8, "minimalist": 0.6},
		PreferredStyles:    []string{"casual", "minimalist", "classic"},
		ColorWeights:       map[string]float64{"black": 0.9, "navy": 0.5},
		FitWeights:         map[string]float64{"slim": 0.8},
		PreferredOccasions: []string{"business", "casual"},
		AvoidedStyles:      []string{"bohemian"},
		AvoidedColors:      []string{"orange"},
		BrandWeights:       map[string]float64{"zara": 0.7},
	}
}

// unsignaledProduct carries nothing the test profile recognizes.
func unsignaledProduct() domain.Product {
	return domain.Product{
		ID:              "x_1",
		Name:            "Plain Piece",
		Brand:           "Nobody",
		Category:        "tops",
		Colors:          []string{"red"},
		StyleAttributes: []string{"edgy"},
		Occasions:       []string{"athletic"},
		Fit:             "oversized",
	}
}

func TestScore(t *testing.T) {
	svc := NewScoringService()

	t.Run("pins avoided items to a flat low score", func(t *testing.T) {
		p := unsignaledProduct()
		p.Colors = []string{"orange"}

		score, reasons := svc.Score(p, testProfile(), "")
		if score != 0.2 {
			t.Errorf("score = %v, want 0.2", score)
		}
		if len(reasons) != 0 {
			t.Errorf("reasons = %v, want none", reasons)
		}
	})

	t.Run("scores unsignaled items exactly neutral", func(t *testing.T) {
		score, reasons := svc.Score(unsignaledProduct(), testProfile(), "")
		if score != 0.5 {
			t.Errorf("score = %v, want exactly 0.5", score)
		}
		if len(reasons) != 1 || reasons[0] != "A versatile addition to your wardrobe" {
			t.Errorf("reasons = %v, want the fallback reason", reasons)
		}
	})

	t.Run("rewards a fully matched product", func(t *testing.T) {
		p := domain.Product{
			ID:              "zara_1",
			Name:            "Boxy Tee",
			Brand:           "Zara",
			Category:        "tops",
			Colors:          []string{"black"},
			StyleAttributes: []string{"casual"},
			Occasions:       []string{"business"},
			Fit:             "slim",
			TrendingScore:   0.9,
		}

		score, reasons := svc.Score(p, testProfile(), "business")
		if score < 0.9 || score > 1.0 {
			t.Errorf("score = %v, want in (0.9, 1.0]", score)
		}
		if len(reasons) != 3 {
			t.Fatalf("reasons = %v, want exactly 3", reasons)
		}
		if reasons[0] != "Matches your casual style" {
			t.Errorf("reasons[0] = %q, want the style reason first", reasons[0])
		}
		if reasons[1] != "Works for business occasions" {
			t.Errorf("reasons[1] = %q, want the occasion reason second", reasons[1])
		}
		if reasons[2] != "In black, one of your colors" {
			t.Errorf("reasons[2] = %q, want the color reason third", reasons[2])
		}
	})

	t.Run("is deterministic across repeated calls", func(t *testing.T) {
		p := domain.Product{
			Name:            "Repeat Piece",
			Colors:          []string{"black"},
			StyleAttributes: []string{"casual"},
			TrendingScore:   0.4,
		}

		first, firstReasons := svc.Score(p, testProfile(), "casual")
		second, secondReasons := svc.Score(p, testProfile(), "casual")
		if first != second {
			t.Errorf("scores differ across calls: %v vs %v", first, second)
		}
		if len(firstReasons) != len(secondReasons) {
			t.Errorf("reason counts differ: %v vs %v", firstReasons, secondReasons)
		}
	})

	t.Run("credits preferred styles without explicit weights", func(t *testing.T) {
		p := domain.Product{
			Name:            "Classic Piece",
			StyleAttributes: []string{"classic"},
		}

		// Single style axis at the flat preferred credit: 0.5 + 0.5*0.7
		score, _ := svc.Score(p, testProfile(), "")
		if !almostEqual(score, 0.85) {
			t.Errorf("score = %v, want 0.85", score)
		}
	})

	t.Run("requested occasion overrides profile occasions", func(t *testing.T) {
		p := domain.Product{
			Name:      "Weekend Piece",
			Occasions: []string{"casual"},
		}

		score, _ := svc.Score(p, testProfile(), "formal")
		if score != 0.5 {
			t.Errorf("score with mismatched occasion = %v, want 0.5", score)
		}

		score, _ = svc.Score(p, testProfile(), "")
		if score != 1.0 {
			t.Errorf("score with preferred occasion = %v, want 1.0", score)
		}
	})

	t.Run("humanizes occasion tags in reasons", func(t *testing.T) {
		p := domain.Product{
			Name:      "Dinner Piece",
			Occasions: []string{"date_night"},
		}

		_, reasons := svc.Score(p, testProfile(), "date_night")
		if len(reasons) == 0 || reasons[0] != "Works for date night occasions" {
			t.Errorf("reasons = %v, want the humanized occasion reason", reasons)
		}
	})

	t.Run("nil profile falls back to the default", func(t *testing.T) {
		p := domain.Product{
			Name:            "Everyday Piece",
			StyleAttributes: []string{"casual"},
		}

		score, _ := svc.Score(p, nil, "")
		if score <= 0.5 {
			t.Errorf("score = %v, want above neutral for a default-profile match", score)
		}
	})
}

func TestSimilarity(t *testing.T) {
	svc := NewScoringService()

	ref := domain.Product{
		ID:              "zara_ref",
		Name:            "Ribbed Tank",
		Brand:           "Zara",
		Category:        "tops",
		Subcategory:     "tank tops",
		Colors:          []string{"white"},
		StyleAttributes: []string{"casual"},
		Price:           30,
	}

	t.Run("identical attributes reach a full score", func(t *testing.T) {
		twin := ref
		twin.ID = "zara_twin"

		if got := svc.Similarity(twin, ref); !almostEqual(got, 1.0) {
			t.Errorf("Similarity = %v, want 1.0", got)
		}
	})

	t.Run("unrelated items get the similarity floor", func(t *testing.T) {
		other := domain.Product{
			ID:              "hm_other",
			Brand:           "H&M",
			Category:        "shoes",
			Subcategory:     "boots",
			Colors:          []string{"brown"},
			StyleAttributes: []string{"edgy"},
			Price:           300,
		}

		if got := svc.Similarity(other, ref); got != 0.3 {
			t.Errorf("Similarity = %v, want the 0.3 floor", got)
		}
	})

	t.Run("partial style overlap earns a proportional share", func(t *testing.T) {
		ref := domain.Product{
			Category:        "tops",
			StyleAttributes: []string{"casual", "classic"},
			Colors:          []string{"red"},
			Brand:           "A",
		}
		p := domain.Product{
			Category:        "tops",
			StyleAttributes: []string{"casual", "edgy"},
			Colors:          []string{"blue"},
			Brand:           "B",
		}

		// Category 0.30 plus half the style share 0.10
		if got := svc.Similarity(p, ref); !almostEqual(got, 0.4) {
			t.Errorf("Similarity = %v, want 0.4", got)
		}
	})

	t.Run("close prices add credit, distant prices none", func(t *testing.T) {
		ref := domain.Product{Category: "tops", Price: 100}
		near := domain.Product{Category: "tops", Price: 90}
		far := domain.Product{Category: "tops", Price: 50}

		nearScore := svc.Similarity(near, ref)
		farScore := svc.Similarity(far, ref)
		if !almostEqual(nearScore, 0.345) {
			t.Errorf("near Similarity = %v, want 0.345", nearScore)
		}
		if !almostEqual(farScore, 0.3) {
			t.Errorf("far Similarity = %v, want 0.3", farScore)
		}
	})
}

func TestBlendedSimilarity(t *testing.T) {
	svc := NewScoringService()

	ref := domain.Product{
		ID:              "x_ref",
		Name:            "Plain Twin",
		Brand:           "Nobody",
		Category:        "tops",
		Subcategory:     "t-shirts",
		Colors:          []string{"red"},
		StyleAttributes: []string{"edgy"},
		Price:           80,
	}
	twin := ref
	twin.ID = "x_twin"

	// Full similarity blended with a neutral personal score: 0.7*1.0 + 0.3*0.5
	got := svc.BlendedSimilarity(twin, ref, testProfile())
	if !almostEqual(got, 0.85) {
		t.Errorf("BlendedSimilarity = %v, want 0.85", got)
	}
}

func TestRank(t *testing.T) {
	svc := NewScoringService()

	t.Run("drops weak matches and orders the rest", func(t *testing.T) {
		strong := domain.Product{
			ID:              "zara_strong",
			Name:            "Strong Match",
			Brand:           "Zara",
			Colors:          []string{"black"},
			StyleAttributes: []string{"casual"},
			Occasions:       []string{"casual"},
			Fit:             "slim",
		}
		plainA := unsignaledProduct()
		plainA.ID = "x_plain_a"
		plainB := unsignaledProduct()
		plainB.ID = "x_plain_b"
		avoided := unsignaledProduct()
		avoided.ID = "x_avoided"
		avoided.StyleAttributes = []string{"bohemian"}

		ranked := svc.Rank([]domain.Product{plainA, strong, plainB, avoided}, testProfile(), "casual")
		if len(ranked) != 3 {
			t.Fatalf("ranked length = %d, want 3 (avoided item dropped)", len(ranked))
		}
		if ranked[0].ID != "zara_strong" {
			t.Errorf("ranked[0] = %v, want the strong match first", ranked[0].ID)
		}
		if ranked[1].ID != "x_plain_a" || ranked[2].ID != "x_plain_b" {
			t.Errorf("tied items reordered: got %v then %v, want discovery order", ranked[1].ID, ranked[2].ID)
		}
	})

	t.Run("keeps scores and reasons on every entry", func(t *testing.T) {
		ranked := svc.Rank([]domain.Product{unsignaledProduct()}, testProfile(), "")
		if len(ranked) != 1 {
			t.Fatalf("ranked length = %d, want 1", len(ranked))
		}
		if ranked[0].MatchScore != 0.5 {
			t.Errorf("MatchScore = %v, want 0.5", ranked[0].MatchScore)
		}
		if len(ranked[0].MatchReasons) == 0 {
			t.Error("expected match reasons to be populated")
		}
	})

	t.Run("returns an empty non-nil slice for an empty pool", func(t *testing.T) {
		ranked := svc.Rank(nil, testProfile(), "")
		if ranked == nil {
			t.Fatal("ranked = nil, want empty slice")
		}
		if len(ranked) != 0 {
			t.Errorf("ranked length = %d, want 0", len(ranked))
		}
	})
}

func TestStyleCredit(t *testing.T) {
	profile := testProfile()

	t.Run("averages the matched style weights", func(t *testing.T) {
		p := domain.Product{StyleAttributes: []string{"casual", "minimalist"}}
		credit, best := styleCredit(p, profile)
		if !almostEqual(credit, 0.7) {
			t.Errorf("credit = %v, want 0.7", credit)
		}
		if best != "casual" {
			t.Errorf("best = %q, want the strongest style", best)
		}
	})

	t.Run("falls back to the flat preferred credit", func(t *testing.T) {
		p := domain.Product{StyleAttributes: []string{"classic"}}
		credit, best := styleCredit(p, profile)
		if !almostEqual(credit, 0.7) {
			t.Errorf("credit = %v, want 0.7", credit)
		}
		if best != "classic" {
			t.Errorf("best = %q, want classic", best)
		}
	})

	t.Run("returns zero when nothing matches", func(t *testing.T) {
		p := domain.Product{StyleAttributes: []string{"edgy"}}
		credit, best := styleCredit(p, profile)
		if credit != 0 || best != "" {
			t.Errorf("credit, best = %v, %q, want 0 and empty", credit, best)
		}
	})
}
