package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"petfood-catalog/internal/model"
)

// defaultBrandColors maps a lowercased brand name to its accent color.
// Unknown brands fall back to defaultAccentColor.
var defaultBrandColors = map[string]string{
	"hill's":                "#e4002b",
	"hill's science diet":   "#e4002b",
	"royal canin":           "#862633",
	"purina":                "#d31145",
	"purina pro plan":       "#d31145",
	"blue buffalo":          "#00539f",
	"wellness":              "#7ab800",
	"iams":                  "#f6871f",
	"eukanuba":              "#b5121b",
	"orijen":                "#5c2d91",
	"acana":                 "#3d7c3f",
	"nutro":                 "#6d4f2f",
	"merrick":               "#c8102e",
	"pedigree":              "#ffd100",
	"whiskas":               "#6f3b8c",
	"farmina":               "#00685e",
}

const defaultAccentColor = "#6b7280"

// DefaultBrandColors returns a copy of the built-in brand color table.
func DefaultBrandColors() map[string]string {
	out := make(map[string]string, len(defaultBrandColors))
	for k, v := range defaultBrandColors {
		out[k] = v
	}
	return out
}

// PlaceholderImage generates a deterministic inline SVG data URI for a
// product lacking a real image, parameterized by species, food type
// and the brand accent color. Identical inputs always produce
// byte-identical output, which keeps snapshot diffs stable.
func PlaceholderImage(species, foodType, brand string, colors map[string]string) string {
	accent, ok := colors[strings.ToLower(strings.TrimSpace(brand))]
	if !ok {
		accent = defaultAccentColor
	}

	label := labelFor(species, foodType)

	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="300" height="300" viewBox="0 0 300 300">`+
			`<rect width="300" height="300" fill="#f3f4f6"/>`+
			`<rect x="60" y="70" width="180" height="160" rx="12" fill="%s"/>`+
			`<circle cx="150" cy="130" r="28" fill="#ffffff" opacity="0.85"/>`+
			`<text x="150" y="260" text-anchor="middle" font-family="sans-serif" font-size="20" fill="#374151">%s</text>`+
			`</svg>`,
		accent, label,
	)

	return "data:image/svg+xml;utf8," + url.PathEscape(svg)
}

func labelFor(species, foodType string) string {
	var parts []string
	switch species {
	case model.SpeciesDog:
		parts = append(parts, "Dog")
	case model.SpeciesCat:
		parts = append(parts, "Cat")
	default:
		parts = append(parts, "Pet")
	}
	switch foodType {
	case model.TypeDry:
		parts = append(parts, "Dry Food")
	case model.TypeWet:
		parts = append(parts, "Wet Food")
	default:
		parts = append(parts, "Food")
	}
	return strings.Join(parts, " ")
}
