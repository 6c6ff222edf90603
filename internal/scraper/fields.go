package scraper

import (
	"regexp"
	"strings"
)

// knownBrands is the fallback brand vocabulary searched when no
// structured brand field is present. Longer names come first so
// "Hill's Science Diet" wins over "Hill's".
var knownBrands = []string{
	"Hill's Science Diet",
	"Hill's Prescription Diet",
	"Hill's",
	"Royal Canin Veterinary Diet",
	"Royal Canin",
	"Purina Pro Plan",
	"Purina ONE",
	"Purina",
	"Blue Buffalo",
	"Wellness CORE",
	"Wellness",
	"Iams",
	"Eukanuba",
	"Orijen",
	"Acana",
	"Nutro",
	"Merrick",
	"Pedigree",
	"Whiskas",
	"Farmina",
	"Taste of the Wild",
	"Natural Balance",
	"Instinct",
}

var nameRules = []Rule{
	{Name: "ld-json name", Pattern: regexp.MustCompile(`"name"\s*:\s*"([^"]{3,200})"`), Group: 1},
	{Name: "og:title", Pattern: regexp.MustCompile(`<meta[^>]+property="og:title"[^>]+content="([^"]+)"`), Group: 1},
	{Name: "h1", Pattern: regexp.MustCompile(`(?s)<h1[^>]*>(.*?)</h1>`), Group: 1},
	{Name: "title tag", Pattern: regexp.MustCompile(`(?s)<title[^>]*>(.*?)</title>`), Group: 1},
}

// ExtractName pulls the product name out of raw markup.
func ExtractName(markup string) string {
	name, ok := firstMatch(nameRules, markup)
	if !ok {
		return ""
	}
	name = stripTags(name)
	// Retailer titles carry a " | Site" or " - Site" suffix
	for _, sep := range []string{" | ", " – "} {
		if idx := strings.Index(name, sep); idx > 0 {
			name = name[:idx]
		}
	}
	return strings.TrimSpace(name)
}

var brandRules = []Rule{
	{Name: "ld-json brand object", Pattern: regexp.MustCompile(`"brand"\s*:\s*\{[^}]*"name"\s*:\s*"([^"]+)"`), Group: 1},
	{Name: "ld-json brand string", Pattern: regexp.MustCompile(`"brand"\s*:\s*"([^"]+)"`), Group: 1},
	{Name: "itemprop brand", Pattern: regexp.MustCompile(`itemprop="brand"[^>]*content="([^"]+)"`), Group: 1},
}

// ExtractBrand pulls the brand out of raw markup, falling back to the
// known-brand vocabulary when no structured field is present. The
// product name is included in the fallback search so a brand embedded
// in the title is still recognized.
func ExtractBrand(markup, name string) string {
	if brand, ok := firstMatch(brandRules, markup); ok {
		return brand
	}
	haystack := strings.ToLower(name + " " + markup)
	for _, brand := range knownBrands {
		if strings.Contains(haystack, strings.ToLower(brand)) {
			return brand
		}
	}
	return ""
}

var descriptionRules = []Rule{
	{Name: "meta description", Pattern: regexp.MustCompile(`<meta[^>]+name="description"[^>]+content="([^"]{20,500})"`), Group: 1},
	{Name: "og:description", Pattern: regexp.MustCompile(`<meta[^>]+property="og:description"[^>]+content="([^"]{20,500})"`), Group: 1},
	{Name: "ld-json description", Pattern: regexp.MustCompile(`"description"\s*:\s*"([^"]{20,500})"`), Group: 1},
}

// ExtractDescription pulls a short product description from raw
// markup.
func ExtractDescription(markup string) string {
	desc, ok := firstMatch(descriptionRules, markup)
	if !ok {
		return ""
	}
	// Filter out descriptions that are actually markup or URLs
	if strings.HasPrefix(desc, "http") || strings.Contains(desc, "href=") || strings.Contains(desc, "<") {
		return ""
	}
	return desc
}

var imageRules = []Rule{
	{Name: "og:image", Pattern: regexp.MustCompile(`<meta[^>]+property="og:image"[^>]+content="([^"]+)"`), Group: 1},
	{Name: "ld-json image", Pattern: regexp.MustCompile(`"image"\s*:\s*"([^"]+\.(?:jpg|jpeg|png|webp)[^"]*)"`), Group: 1},
	{Name: "product img tag", Pattern: regexp.MustCompile(`<img[^>]+src="([^"]+(?:product|item|food)[^"]*\.(?:jpg|jpeg|png|webp)[^"]*)"`), Group: 1},
	{Name: "any img tag", Pattern: regexp.MustCompile(`<img[^>]+src="([^"]+\.(?:jpg|jpeg|png|webp)[^"]*)"`), Group: 1},
}

// ExtractImages collects product image URLs from raw markup, resolved
// to absolute form against the source URL.
func ExtractImages(markup, sourceURL string) []string {
	matches := allMatches(imageRules, markup)
	var out []string
	seen := make(map[string]bool)
	for _, m := range matches {
		abs := resolveURL(sourceURL, m)
		if abs == "" || seen[abs] {
			continue
		}
		seen[abs] = true
		out = append(out, abs)
		if len(out) >= 5 {
			break
		}
	}
	return out
}
