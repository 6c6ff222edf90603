package scraper

import (
	"fmt"
	"regexp"
	"strings"
)

var anchorPattern = regexp.MustCompile(`(?is)<a[^>]+href="([^"#]+)"[^>]*>(.*?)</a>`)

// foodLinkKeywords select anchors that plausibly lead to a product
// page. Matched against both the href path and the anchor text.
var foodLinkKeywords = []string{
	"food", "diet", "nutrition", "formula", "recipe", "/dp/", "/product/",
}

// DiscoverLinks fetches a category listing page and returns the
// candidate product-page links: food-related anchors, resolved to
// absolute form, deduplicated and truncated to maxLinks. Only the
// given page is scanned; pagination is not followed.
func (c *Client) DiscoverLinks(categoryURL string, maxLinks int) ([]string, error) {
	markup, err := c.Fetch(categoryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category page: %w", err)
	}
	return ExtractProductLinks(markup, categoryURL, maxLinks), nil
}

// ExtractProductLinks applies the link-matching patterns to raw
// category-page markup.
func ExtractProductLinks(markup, categoryURL string, maxLinks int) []string {
	var links []string
	seen := make(map[string]bool)

	for _, m := range anchorPattern.FindAllStringSubmatch(markup, -1) {
		href := strings.TrimSpace(m[1])
		text := strings.ToLower(stripTags(m[2]))

		if href == "" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			continue
		}
		if !isFoodLink(strings.ToLower(href), text) {
			continue
		}

		abs := resolveURL(categoryURL, href)
		if abs == "" || abs == categoryURL || seen[abs] {
			continue
		}
		seen[abs] = true
		links = append(links, abs)

		if maxLinks > 0 && len(links) >= maxLinks {
			break
		}
	}

	return links
}

func isFoodLink(href, anchorText string) bool {
	for _, kw := range foodLinkKeywords {
		if strings.Contains(href, kw) || strings.Contains(anchorText, kw) {
			return true
		}
	}
	return false
}
