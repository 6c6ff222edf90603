package scraper

import (
	"net/url"
	"regexp"
	"strings"
)

// Rule is one pattern in an ordered extractor. Rules are applied in
// slice order: structured sources (embedded JSON, tagged elements)
// come before loose text heuristics, so the order itself encodes
// priority.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	// Group is the submatch index that yields the value; 0 means the
	// whole match.
	Group int
}

// firstMatch runs the rules in order and returns the first non-empty
// capture. Used by single-valued extractors.
func firstMatch(rules []Rule, text string) (string, bool) {
	for _, r := range rules {
		m := r.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		idx := r.Group
		if idx >= len(m) {
			continue
		}
		if v := strings.TrimSpace(m[idx]); v != "" {
			return cleanEntities(v), true
		}
	}
	return "", false
}

// allMatches collects every capture from every rule, in rule order,
// preserving first occurrence of duplicates. Used by set-valued
// extractors.
func allMatches(rules []Rule, text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range rules {
		for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
			idx := r.Group
			if idx >= len(m) {
				continue
			}
			v := cleanEntities(strings.TrimSpace(m[idx]))
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// cleanEntities replaces common HTML entities and stray whitespace
// characters in extracted text.
func cleanEntities(text string) string {
	replacements := map[string]string{
		"&amp;":  "&",
		"&quot;": "\"",
		"&nbsp;": " ",
		"&lt;":   "<",
		"&gt;":   ">",
		"&#39;":  "'",
		"&#039;": "'",
		"&#10;":  "\n",
		"&#13;":  "",
		" ": " ",
		"​": "",
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return strings.TrimSpace(cleaned)
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)
var scriptStylePattern = regexp.MustCompile(`(?s)<(script|style)[^>]*>.*?</(script|style)>`)

// stripTags extracts text content from markup, removing tags.
func stripTags(markup string) string {
	markup = scriptStylePattern.ReplaceAllString(markup, "")
	text := tagPattern.ReplaceAllString(markup, " ")
	return strings.Join(strings.Fields(text), " ")
}

// resolveURL resolves a possibly-relative href against a base URL.
// Returns the href unchanged when resolution fails.
func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
