package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petfood-catalog/internal/model"
)

const kdDogPage = `
<html>
<head>
	<title>Hill's k/d Dry Dog Food | PetShop</title>
	<script type="application/ld+json">
	{"name":"Hill's k/d Dry Dog Food","brand":{"@type":"Brand","name":"Hill's"}}
	</script>
	<meta name="description" content="Clinically tested nutrition to support kidney function in dogs."/>
	<meta property="og:image" content="/images/kd-dry.jpg"/>
</head>
<body>
	<span class="price">$52.99</span>
	<span class="price">$54.99</span>
	<div>Available in 8.5 lb bag and 17.6 lb bag</div>
	<ul>
		<li>Supports kidney function with controlled phosphorus levels</li>
		<li>Helps maintain lean muscle with high-quality protein sources</li>
	</ul>
	<p>Therapeutic renal nutrition, dry kibble texture dogs love.</p>
</body>
</html>`

func TestBuildProductEndToEnd(t *testing.T) {
	product := BuildProduct(kdDogPage, "https://shop.example.com/dog-food/hills-kd-dry")

	assert.Equal(t, "Hill's k/d Dry Dog Food", product.Name)
	assert.Equal(t, "Hill's", product.Brand)
	assert.Equal(t, model.SpeciesDog, product.Species)
	assert.Equal(t, model.TypeDry, product.Type)
	assert.Equal(t, "hills-kd-dry", product.Slug)
	assert.Equal(t, "https://shop.example.com/images/kd-dry.jpg", product.Image)

	require.NotNil(t, product.Price)
	assert.Equal(t, 52.99, product.Price.Estimate)
	assert.Equal(t, 53.99, product.Price.Average)
	assert.Equal(t, "$52.99 - $54.99", product.Price.Range)

	assert.Contains(t, product.TargetedConditions, "renal")
	assert.Contains(t, product.TargetedConditions, "kidney disease")
	assert.NotEmpty(t, product.BagSizes)
	assert.NotEmpty(t, product.Features)
	assert.True(t, product.Usable())
	assert.False(t, product.LastUpdated.IsZero())
}

func TestBuildProductNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"complete garbage with no structure",
		strings.Repeat("<div>", 1000),
		`{"name":`,
	}
	for _, markup := range inputs {
		product := BuildProduct(markup, "https://shop.example.com/x")
		require.NotNil(t, product)
		assert.Equal(t, model.SpeciesUnknown, product.Species)
		assert.Equal(t, model.TypeUnknown, product.Type)
		assert.False(t, product.Usable())
		assert.Equal(t, "https://shop.example.com/x", product.Link)
	}
}

func TestUsableRequiresNameAndBrand(t *testing.T) {
	assert.False(t, (&model.ExtractedProduct{Name: "X Food"}).Usable())
	assert.False(t, (&model.ExtractedProduct{Brand: "X"}).Usable())
	assert.True(t, (&model.ExtractedProduct{Name: "X Food", Brand: "X"}).Usable())

	var nilProduct *model.ExtractedProduct
	assert.False(t, nilProduct.Usable())
}

func TestSlugFromURL(t *testing.T) {
	assert.Equal(t, "hills-kd-dry", slugFromURL("https://x.com/dog-food/hills-kd-dry"))
	assert.Equal(t, "hills-kd-dry", slugFromURL("https://x.com/dog-food/Hills-KD-Dry/"))
	assert.Equal(t, "", slugFromURL("https://x.com/"))
}
