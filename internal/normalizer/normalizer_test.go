package normalizer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUnsupportedPlatform(t *testing.T) {
	n := New(Config{})
	_, err := n.Normalize("ebay", map[string]any{"id": "x"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestNormalizeRejectsMissingID(t *testing.T) {
	n := New(Config{})
	_, err := n.Normalize("amazon", map[string]any{"title": "a product"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestIDResolutionOrder(t *testing.T) {
	n := New(Config{})

	// asin outranks product_id outranks id
	p, err := n.Normalize("amazon", map[string]any{
		"asin":       "B0TESTASIN",
		"product_id": "wrong-1",
		"id":         "wrong-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "B0TESTASIN", p.ProductID)

	p, err = n.Normalize("amazon", map[string]any{"product_id": "right-1", "id": "wrong-2"})
	require.NoError(t, err)
	assert.Equal(t, "right-1", p.ProductID)
}

func TestIDFallbackFromURL(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("amazon", map[string]any{
		"url": "https://www.amazon.com/dp/B0ABCDEF12?ref=sr_1_3",
	})
	require.NoError(t, err)
	assert.Equal(t, "B0ABCDEF12", p.ProductID)

	p, err = n.Normalize("temu", map[string]any{
		"url": "https://www.temu.com/601099512345.html",
	})
	require.NoError(t, err)
	assert.Equal(t, "601099512345", p.ProductID)
}

func TestPlaceholderTitleAndURL(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN"})
	require.NoError(t, err)
	assert.Equal(t, "Amazon Product B0TESTASIN", p.Title)
	assert.Equal(t, "https://www.amazon.com/dp/B0TESTASIN", p.URL)

	p, err = n.Normalize("temu", map[string]any{"goods_id": "12345"})
	require.NoError(t, err)
	assert.Equal(t, "Temu Product 12345", p.Title)
	assert.Equal(t, "https://www.temu.com/12345.html", p.URL)
}

func TestNumericIDFormatting(t *testing.T) {
	n := New(Config{})

	// JSON numbers decode as float64 — the ID must not grow an exponent.
	p, err := n.Normalize("temu", map[string]any{"goods_id": 601099512345.0})
	require.NoError(t, err)
	assert.Equal(t, "601099512345", p.ProductID)
}

func TestPriceParsing(t *testing.T) {
	n := New(Config{})

	cases := []struct {
		name string
		raw  any
		want string
	}{
		{"float", 9.99, "9.99"},
		{"int", 12, "12"},
		{"plain string", "9.99", "9.99"},
		{"currency symbol", "$9.99", "9.99"},
		{"pound symbol", "£4.50", "4.5"},
		{"thousands separator", "1,299.00", "12.99"}, // above threshold → minor units
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN", "price": tc.raw})
			require.NoError(t, err)
			require.NotNil(t, p.Price)
			assert.True(t, p.Price.Equal(decimal.RequireFromString(tc.want)),
				"got %s want %s", p.Price, tc.want)
		})
	}
}

func TestPriceUnparsableYieldsUnset(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN", "price": "call us"})
	require.NoError(t, err)
	assert.Nil(t, p.Price)

	p, err = n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN", "price": -3.5})
	require.NoError(t, err)
	assert.Nil(t, p.Price)
}

func TestCentsHeuristic(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("temu", map[string]any{"goods_id": "1", "price": 1299})
	require.NoError(t, err)
	require.NotNil(t, p.Price)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("12.99")))

	// At or below the threshold the value is taken as-is.
	p, err = n.Normalize("temu", map[string]any{"goods_id": "1", "price": 999.99})
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("999.99")))
}

func TestCentsThresholdPerPlatform(t *testing.T) {
	n := New(Config{CentsThreshold: map[string]float64{"temu": 100}})

	p, err := n.Normalize("temu", map[string]any{"goods_id": "1", "price": 250})
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("2.5")))

	// Other platforms keep the default cutoff.
	p, err = n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN", "price": 250})
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(250)))
}

func TestRatingRange(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN", "rating": 4.7})
	require.NoError(t, err)
	require.NotNil(t, p.Rating)
	assert.InDelta(t, 4.7, *p.Rating, 0.001)

	// Out-of-range ratings are garbage, not data.
	p, err = n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN", "rating": 47.0})
	require.NoError(t, err)
	assert.Nil(t, p.Rating)
}

func TestReviewCountFromString(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN", "review_count": "1,234"})
	require.NoError(t, err)
	require.NotNil(t, p.ReviewCount)
	assert.Equal(t, 1234, *p.ReviewCount)
}

func TestDefaultCurrencyPerPlatform(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN"})
	require.NoError(t, err)
	assert.Equal(t, "USD", p.Currency)

	p, err = n.Normalize("temu", map[string]any{"goods_id": "1"})
	require.NoError(t, err)
	assert.Equal(t, "GBP", p.Currency)

	p, err = n.Normalize("temu", map[string]any{"goods_id": "1", "currency": "EUR"})
	require.NoError(t, err)
	assert.Equal(t, "EUR", p.Currency)
}

func TestInStockSignals(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN"})
	require.NoError(t, err)
	assert.True(t, p.InStock)

	p, err = n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN", "in_stock": false})
	require.NoError(t, err)
	assert.False(t, p.InStock)

	p, err = n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN", "availability": "Currently unavailable"})
	require.NoError(t, err)
	assert.False(t, p.InStock)

	p, err = n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN", "availability": "In Stock"})
	require.NoError(t, err)
	assert.True(t, p.InStock)
}

func TestGalleryFirstImagePrimary(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("temu", map[string]any{
		"goods_id": "1",
		"gallery":  []any{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, p.Images, 2)
	assert.True(t, p.Images[0].IsPrimary)
	assert.False(t, p.Images[1].IsPrimary)
}

func TestMainImagePromotedToFront(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("temu", map[string]any{
		"goods_id": "1",
		"thumb":    "https://img.example.com/main.jpg",
		"gallery":  []any{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, p.Images, 3)
	assert.Equal(t, "https://img.example.com/main.jpg", p.Images[0].URL)
	assert.True(t, p.Images[0].IsPrimary)
	assert.False(t, p.Images[1].IsPrimary)
	assert.False(t, p.Images[2].IsPrimary)
}

func TestMainImageAlreadyInGallery(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("temu", map[string]any{
		"goods_id": "1",
		"thumb":    "https://img.example.com/b.jpg",
		"gallery":  []any{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, p.Images, 2)

	primaries := 0
	for _, img := range p.Images {
		if img.IsPrimary {
			primaries++
			assert.Equal(t, "https://img.example.com/b.jpg", img.URL)
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestProtocolLessURLsCompleted(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("temu", map[string]any{
		"goods_id": "1",
		"thumb":    "//img.example.com/main.jpg",
		"gallery":  []any{"//img.example.com/a.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, p.Images, 2)
	assert.Equal(t, "https://img.example.com/main.jpg", p.Images[0].URL)
	assert.Equal(t, "https://img.example.com/a.jpg", p.Images[1].URL)
}

func TestGalleryObjectEntries(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("amazon", map[string]any{
		"asin": "B0TESTASIN",
		"images": []any{
			map[string]any{"hiRes": "https://img.example.com/hi.jpg"},
			map[string]any{"large": "https://img.example.com/lg.jpg"},
		},
	})
	require.NoError(t, err)
	require.Len(t, p.Images, 2)
	assert.Equal(t, "https://img.example.com/hi.jpg", p.Images[0].URL)
	assert.True(t, p.Images[0].IsPrimary)
}

func TestNoImages(t *testing.T) {
	n := New(Config{})

	p, err := n.Normalize("amazon", map[string]any{"asin": "B0TESTASIN"})
	require.NoError(t, err)
	assert.Empty(t, p.Images)
	assert.Nil(t, p.PrimaryImage())
}
