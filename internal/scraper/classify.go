package scraper

import (
	"regexp"
	"strings"

	"petfood-catalog/internal/model"
)

// Caps on set-valued fields. Arbitrary limits carried through from the
// catalog shape, not exhaustiveness guarantees.
const (
	maxConditions = 4
	maxBagSizes   = 5
	maxFeatures   = 4
)

var (
	dogKeywords = []string{"dog", "puppy", "canine"}
	catKeywords = []string{"cat", "kitten", "feline"}

	dryKeywords = []string{"dry food", "dry dog", "dry cat", "kibble", "dry"}
	wetKeywords = []string{"wet food", "canned", "pouch", "pate", "stew", "wet"}
)

// InferSpecies decides dog or cat from the product name first, falling
// back to a markup-wide keyword test. A product is never tagged with
// both; the name wins over the page body.
func InferSpecies(name, markup string) string {
	for _, haystack := range []string{strings.ToLower(name), strings.ToLower(markup)} {
		for _, kw := range dogKeywords {
			if strings.Contains(haystack, kw) {
				return model.SpeciesDog
			}
		}
		for _, kw := range catKeywords {
			if strings.Contains(haystack, kw) {
				return model.SpeciesCat
			}
		}
	}
	return model.SpeciesUnknown
}

// InferFoodType decides dry or wet, name first then markup.
func InferFoodType(name, markup string) string {
	for _, haystack := range []string{strings.ToLower(name), strings.ToLower(markup)} {
		for _, kw := range dryKeywords {
			if strings.Contains(haystack, kw) {
				return model.TypeDry
			}
		}
		for _, kw := range wetKeywords {
			if strings.Contains(haystack, kw) {
				return model.TypeWet
			}
		}
	}
	return model.TypeUnknown
}

// conditionVocabulary is the fixed controlled vocabulary of health
// condition tags, searched in order.
var conditionVocabulary = []string{
	"kidney disease",
	"renal",
	"urinary",
	"digestive",
	"gastrointestinal",
	"weight management",
	"obesity",
	"diabetes",
	"joint",
	"arthritis",
	"mobility",
	"heart",
	"cardiac",
	"skin",
	"allergy",
	"dental",
	"liver",
}

// conditionSynonyms maps a vocabulary term to the canonical tag it
// implies. When a synonym matches, its canonical tag is added first so
// cap truncation can never keep a synonym without its canonical.
var conditionSynonyms = map[string]string{
	"renal":            "kidney disease",
	"gastrointestinal": "digestive",
	"obesity":          "weight management",
	"arthritis":        "joint",
	"cardiac":          "heart",
}

// ExtractConditions performs a case-insensitive substring search over
// the markup and product name against the fixed vocabulary, expands
// synonyms to canonical tags, and truncates to the cap.
func ExtractConditions(markup, name string) []string {
	haystack := strings.ToLower(markup + " " + name)

	var tags []string
	seen := make(map[string]bool)
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	for _, term := range conditionVocabulary {
		if !strings.Contains(haystack, term) {
			continue
		}
		if canonical, ok := conditionSynonyms[term]; ok {
			add(canonical)
		}
		add(term)
	}

	if len(tags) > maxConditions {
		tags = tags[:maxConditions]
	}
	return tags
}

var bagSizeRules = []Rule{
	{Name: "size with bag suffix", Pattern: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?[-\s]?(?:lb|lbs|kg|oz)\.?\s*(?:bag|can|pouch|case))`), Group: 1},
	{Name: "bare weight", Pattern: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)[-\s]?(lb|lbs|kg|oz)\b`), Group: 0},
}

var bagSizeKeyPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)[-\s]?(lb|lbs|kg|oz)`)

// ExtractBagSizes collects distinct size descriptions, capped at the
// limit. Rule order keeps the more descriptive "8 lb bag" form ahead
// of bare weights; dedup is by weight so the bare form never repeats a
// size the bag form already covered.
func ExtractBagSizes(markup string) []string {
	matches := allMatches(bagSizeRules, markup)
	var out []string
	seen := make(map[string]bool)
	for _, m := range matches {
		key := strings.ToLower(strings.Join(strings.Fields(m), " "))
		if km := bagSizeKeyPattern.FindStringSubmatch(m); km != nil {
			key = strings.ToLower(km[1] + km[2])
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
		if len(out) >= maxBagSizes {
			break
		}
	}
	return out
}

var featureRules = []Rule{
	{Name: "list item", Pattern: regexp.MustCompile(`(?s)<li[^>]*>(.*?)</li>`), Group: 1},
	{Name: "ld-json feature", Pattern: regexp.MustCompile(`"(?:feature|benefit)s?"\s*:\s*"([^"]+)"`), Group: 1},
}

// benefitKeywords gate which extracted statements count as product
// features rather than navigation or boilerplate.
var benefitKeywords = []string{
	"supports", "support", "helps", "promotes", "formulated",
	"clinically", "nutrition", "nourish", "protein", "digest",
	"healthy", "immune", "vitality",
}

// ExtractFeatures collects benefit statements, filtered by length and
// keyword, capped at the limit.
func ExtractFeatures(markup string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range allMatches(featureRules, markup) {
		text := stripTags(m)
		if len(text) < 20 || len(text) > 200 {
			continue
		}
		lower := strings.ToLower(text)
		matched := false
		for _, kw := range benefitKeywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if !matched || seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, text)
		if len(out) >= maxFeatures {
			break
		}
	}
	return out
}
