package scraper

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"

	"petfood-catalog/internal/model"
)

// Plausibility bounds for a single scraped price. Values outside the
// open interval are discarded before aggregation.
const (
	minPlausiblePrice = 5.0
	maxPlausiblePrice = 500.0
)

// priceRules pull numeric price literals out of raw markup. Structured
// sources come first; the bare $nn.nn sweep is the last resort.
var priceRules = []Rule{
	{Name: "ld-json price", Pattern: regexp.MustCompile(`"price"\s*:\s*"?(\d+(?:\.\d{1,2})?)"?`), Group: 1},
	{Name: "itemprop price", Pattern: regexp.MustCompile(`itemprop="price"[^>]*content="(\d+(?:\.\d{1,2})?)"`), Group: 1},
	{Name: "price class", Pattern: regexp.MustCompile(`class="[^"]*price[^"]*"[^>]*>\s*\$?(\d+(?:\.\d{1,2})?)`), Group: 1},
	{Name: "dollar sweep", Pattern: regexp.MustCompile(`\$(\d+(?:\.\d{2})?)`), Group: 1},
}

// ExtractPrices returns the deduplicated, sorted set of plausible
// price values found in the markup.
func ExtractPrices(markup string) []float64 {
	var prices []float64
	seen := make(map[float64]bool)
	for _, raw := range allMatches(priceRules, markup) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if v <= minPlausiblePrice || v >= maxPlausiblePrice {
			continue
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		prices = append(prices, v)
	}
	sort.Float64s(prices)
	return prices
}

// AggregatePrices reduces a plausible price set to the PriceInfo
// cluster: estimate is the minimum, average the mean, range the
// "$min - $max" span (or a single value when only one distinct price
// was found). Returns nil for an empty set.
func AggregatePrices(prices []float64) *model.PriceInfo {
	if len(prices) == 0 {
		return nil
	}

	min := prices[0]
	max := prices[len(prices)-1]

	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	avg := round2(sum / float64(len(prices)))

	priceRange := fmt.Sprintf("$%.2f", min)
	if max > min {
		priceRange = fmt.Sprintf("$%.2f - $%.2f", min, max)
	}

	return &model.PriceInfo{
		Estimate: min,
		Average:  avg,
		Range:    priceRange,
		Sources:  len(prices),
	}
}

// ExtractPrice runs extraction and aggregation in one step.
func ExtractPrice(markup string) *model.PriceInfo {
	return AggregatePrices(ExtractPrices(markup))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
