package catalog

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"petfood-catalog/internal/model"
)

const (
	snapshotVersion = "2.0"
	snapshotSource  = "retailer scrape"

	priceDisclaimer = "Prices are scraped estimates and may not reflect current retail pricing."

	estimatedPriceNote = "Estimated price - no retail price was found during scraping."

	dogPriceMin = 50.0
	dogPriceMax = 150.0
	catPriceMin = 40.0
	catPriceMax = 120.0
)

// feedingGuides are the generic per-species advisory fallbacks.
var feedingGuides = map[string]string{
	model.SpeciesDog: "Feed according to your dog's weight and activity level; consult the package guidelines and your veterinarian.",
	model.SpeciesCat: "Feed according to your cat's weight and life stage; consult the package guidelines and your veterinarian.",
}

// Normalizer turns per-category raw scrape results into the final
// versioned snapshot. Fallback tables are injected so tests can
// substitute fixtures.
type Normalizer struct {
	brandColors map[string]string
	rng         *rand.Rand
	now         func() time.Time
}

// NewNormalizer creates a normalizer with the given brand color table.
// A nil table uses the built-in defaults.
func NewNormalizer(brandColors map[string]string) *Normalizer {
	if brandColors == nil {
		brandColors = DefaultBrandColors()
	}
	return &Normalizer{
		brandColors: brandColors,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}
}

// Normalize assigns sequential IDs across both species lists (all dog
// records first, then cat), fills missing fields with deterministic
// fallbacks, and emits the snapshot. A partial result (one category
// empty) is accepted and reflected in the category counts.
func (n *Normalizer) Normalize(dogProducts, catProducts []*model.ExtractedProduct) *model.CatalogSnapshot {
	now := n.now()

	entries := make([]*model.CatalogEntry, 0, len(dogProducts)+len(catProducts))
	next := 1

	for _, p := range dogProducts {
		entries = append(entries, n.normalizeOne(p, model.SpeciesDog, next, now))
		next++
	}
	for _, p := range catProducts {
		entries = append(entries, n.normalizeOne(p, model.SpeciesCat, next, now))
		next++
	}

	return &model.CatalogSnapshot{
		Products:      entries,
		LastUpdated:   now,
		TotalProducts: len(entries),
		Categories: model.CategoryCounts{
			Dog: len(dogProducts),
			Cat: len(catProducts),
		},
		Source:          snapshotSource,
		PriceDisclaimer: priceDisclaimer,
		Version:         snapshotVersion,
	}
}

func (n *Normalizer) normalizeOne(p *model.ExtractedProduct, species string, seq int, now time.Time) *model.CatalogEntry {
	entry := &model.CatalogEntry{
		ID:                 fmt.Sprintf("product-%d", seq),
		Name:               p.Name,
		Brand:              p.Brand,
		Species:            species,
		Type:               p.Type,
		Description:        p.Description,
		Image:              p.Image,
		Images:             p.Images,
		Price:              p.Price,
		BagSizes:           p.BagSizes,
		TargetedConditions: p.TargetedConditions,
		Features:           p.Features,
		FeedingGuide:       feedingGuides[species],
		Link:               p.Link,
		LastUpdated:        p.LastUpdated,
	}
	if entry.Type == "" {
		entry.Type = model.TypeUnknown
	}
	if entry.LastUpdated.IsZero() {
		entry.LastUpdated = now
	}

	if entry.Price == nil {
		entry.Price = n.fallbackPrice(species)
	}

	if entry.Image == "" {
		entry.Image = PlaceholderImage(species, entry.Type, entry.Brand, n.brandColors)
	}

	return entry
}

// fallbackPrice synthesizes a bounded pseudo-random estimate for a
// record that yielded no real price. The note and Estimated flag keep
// it distinguishable from a scraped observation downstream.
func (n *Normalizer) fallbackPrice(species string) *model.PriceInfo {
	min, max := dogPriceMin, dogPriceMax
	if species == model.SpeciesCat {
		min, max = catPriceMin, catPriceMax
	}

	estimate := math.Round((min+n.rng.Float64()*(max-min))*100) / 100

	return &model.PriceInfo{
		Estimate:  estimate,
		Range:     fmt.Sprintf("$%.0f - $%.0f", min, max),
		Note:      estimatedPriceNote,
		Estimated: true,
	}
}
