package catalog

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petfood-catalog/internal/model"
)

func extracted(name, brand string) *model.ExtractedProduct {
	return &model.ExtractedProduct{
		Name:    name,
		Brand:   brand,
		Species: model.SpeciesUnknown,
		Type:    model.TypeDry,
	}
}

func TestNormalizeSequentialIDsDogFirst(t *testing.T) {
	dogs := []*model.ExtractedProduct{
		extracted("Dog A", "Hill's"),
		extracted("Dog B", "Purina"),
		extracted("Dog C", "Iams"),
	}
	cats := []*model.ExtractedProduct{
		extracted("Cat A", "Royal Canin"),
		extracted("Cat B", "Whiskas"),
	}

	snapshot := NewNormalizer(nil).Normalize(dogs, cats)

	require.Len(t, snapshot.Products, 5)
	for i, entry := range snapshot.Products {
		assert.Equal(t, fmt.Sprintf("product-%d", i+1), entry.ID)
	}
	for _, entry := range snapshot.Products[:3] {
		assert.Equal(t, model.SpeciesDog, entry.Species)
	}
	for _, entry := range snapshot.Products[3:] {
		assert.Equal(t, model.SpeciesCat, entry.Species)
	}

	assert.Equal(t, 5, snapshot.TotalProducts)
	assert.Equal(t, model.CategoryCounts{Dog: 3, Cat: 2}, snapshot.Categories)
	assert.NotEmpty(t, snapshot.Version)
	assert.NotEmpty(t, snapshot.PriceDisclaimer)
}

func TestNormalizePartialCategory(t *testing.T) {
	cats := []*model.ExtractedProduct{extracted("Cat A", "Royal Canin")}

	snapshot := NewNormalizer(nil).Normalize(nil, cats)

	require.Len(t, snapshot.Products, 1)
	assert.Equal(t, "product-1", snapshot.Products[0].ID)
	assert.Equal(t, model.CategoryCounts{Dog: 0, Cat: 1}, snapshot.Categories)
}

func TestNormalizeFallbackPrice(t *testing.T) {
	n := NewNormalizer(nil)

	for i := 0; i < 50; i++ {
		snapshot := n.Normalize(
			[]*model.ExtractedProduct{extracted("Dog A", "Hill's")},
			[]*model.ExtractedProduct{extracted("Cat A", "Whiskas")},
		)

		dog := snapshot.Products[0].Price
		require.NotNil(t, dog)
		assert.True(t, dog.Estimated)
		assert.NotEmpty(t, dog.Note)
		assert.GreaterOrEqual(t, dog.Estimate, 50.0)
		assert.LessOrEqual(t, dog.Estimate, 150.0)

		cat := snapshot.Products[1].Price
		require.NotNil(t, cat)
		assert.True(t, cat.Estimated)
		assert.GreaterOrEqual(t, cat.Estimate, 40.0)
		assert.LessOrEqual(t, cat.Estimate, 120.0)
	}
}

func TestNormalizeKeepsScrapedPrice(t *testing.T) {
	p := extracted("Dog A", "Hill's")
	p.Price = &model.PriceInfo{Estimate: 52.99, Average: 53.99, Range: "$52.99 - $54.99"}

	snapshot := NewNormalizer(nil).Normalize([]*model.ExtractedProduct{p}, nil)

	price := snapshot.Products[0].Price
	assert.Equal(t, 52.99, price.Estimate)
	assert.False(t, price.Estimated)
	assert.Empty(t, price.Note)
}

func TestNormalizeImageFallbackDeterministic(t *testing.T) {
	n := NewNormalizer(nil)

	first := n.Normalize([]*model.ExtractedProduct{extracted("Dog A", "Hill's")}, nil)
	second := n.Normalize([]*model.ExtractedProduct{extracted("Dog A", "Hill's")}, nil)

	img1 := first.Products[0].Image
	img2 := second.Products[0].Image
	assert.Equal(t, img1, img2, "identical inputs must produce byte-identical placeholders")
	assert.True(t, strings.HasPrefix(img1, "data:image/svg+xml"))
}

func TestNormalizeKeepsScrapedImage(t *testing.T) {
	p := extracted("Dog A", "Hill's")
	p.Image = "https://cdn.example.com/real.jpg"

	snapshot := NewNormalizer(nil).Normalize([]*model.ExtractedProduct{p}, nil)
	assert.Equal(t, "https://cdn.example.com/real.jpg", snapshot.Products[0].Image)
}

func TestNormalizeFeedingGuideFallback(t *testing.T) {
	snapshot := NewNormalizer(nil).Normalize(
		[]*model.ExtractedProduct{extracted("Dog A", "Hill's")},
		[]*model.ExtractedProduct{extracted("Cat A", "Whiskas")},
	)

	assert.Contains(t, snapshot.Products[0].FeedingGuide, "dog")
	assert.Contains(t, snapshot.Products[1].FeedingGuide, "cat")
}

func TestPlaceholderImage(t *testing.T) {
	colors := map[string]string{"hill's": "#e4002b"}

	t.Run("deterministic", func(t *testing.T) {
		a := PlaceholderImage(model.SpeciesDog, model.TypeDry, "Hill's", colors)
		b := PlaceholderImage(model.SpeciesDog, model.TypeDry, "Hill's", colors)
		assert.Equal(t, a, b)
	})

	t.Run("brand accent color", func(t *testing.T) {
		withBrand := PlaceholderImage(model.SpeciesDog, model.TypeDry, "Hill's", colors)
		unknown := PlaceholderImage(model.SpeciesDog, model.TypeDry, "Nobody", colors)
		assert.NotEqual(t, withBrand, unknown)
	})

	t.Run("varies by species and type", func(t *testing.T) {
		dogDry := PlaceholderImage(model.SpeciesDog, model.TypeDry, "X", colors)
		catDry := PlaceholderImage(model.SpeciesCat, model.TypeDry, "X", colors)
		dogWet := PlaceholderImage(model.SpeciesDog, model.TypeWet, "X", colors)
		assert.NotEqual(t, dogDry, catDry)
		assert.NotEqual(t, dogDry, dogWet)
	})
}
