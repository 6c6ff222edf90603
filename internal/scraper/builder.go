package scraper

import (
	"log"
	"net/url"
	"strings"
	"time"

	"petfood-catalog/internal/model"
)

// BuildProduct runs every field extractor against the same raw markup
// and assembles one record. Extraction is best-effort: missing fields
// stay at their zero values and an internal panic yields the partially
// filled record instead of propagating.
func BuildProduct(markup, sourceURL string) (product *model.ExtractedProduct) {
	product = &model.ExtractedProduct{
		Slug:        slugFromURL(sourceURL),
		Species:     model.SpeciesUnknown,
		Type:        model.TypeUnknown,
		Link:        sourceURL,
		LastUpdated: time.Now(),
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Builder] recovered extracting %s: %v", sourceURL, r)
		}
	}()

	product.Name = ExtractName(markup)
	product.Brand = ExtractBrand(markup, product.Name)
	product.Description = ExtractDescription(markup)

	images := ExtractImages(markup, sourceURL)
	if len(images) > 0 {
		product.Image = images[0]
		product.Images = images
	}

	product.Price = ExtractPrice(markup)
	product.BagSizes = ExtractBagSizes(markup)
	product.Species = InferSpecies(product.Name, markup)
	product.Type = InferFoodType(product.Name, markup)
	product.TargetedConditions = ExtractConditions(markup, product.Name)
	product.Features = ExtractFeatures(markup)

	return product
}

// slugFromURL derives a stable identifier from the last non-empty path
// segment of the source URL.
func slugFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(segments[i]); s != "" {
			return strings.ToLower(s)
		}
	}
	return ""
}

// ScrapeProduct fetches one product page and builds its record. This
// is the single-page entry point used outside the batch flow.
func (c *Client) ScrapeProduct(productURL string) (*model.ExtractedProduct, error) {
	markup, err := c.Fetch(productURL)
	if err != nil {
		return nil, err
	}
	return BuildProduct(markup, productURL), nil
}
