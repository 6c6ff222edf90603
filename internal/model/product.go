package model

import "time"

// Species values inferred during extraction. A product is never tagged
// with more than one species.
const (
	SpeciesDog     = "dog"
	SpeciesCat     = "cat"
	SpeciesUnknown = "unknown"
)

// Food type values inferred during extraction.
const (
	TypeDry     = "dry"
	TypeWet     = "wet"
	TypeUnknown = "unknown"
)

// PriceInfo holds the parsed price cluster for one product. Estimated
// marks a synthesized fallback so consumers can tell it apart from a
// scraped observation.
type PriceInfo struct {
	Estimate  float64 `json:"estimate"`
	Range     string  `json:"range,omitempty"`
	Average   float64 `json:"average,omitempty"`
	Note      string  `json:"note,omitempty"`
	Estimated bool    `json:"estimated,omitempty"`
	Sources   int     `json:"sources,omitempty"`
}

// ExtractedProduct is the raw result of scraping one retailer page.
// Every field is optional; extraction gaps leave zero values rather
// than failing.
type ExtractedProduct struct {
	Slug               string     `json:"slug,omitempty"`
	Name               string     `json:"name,omitempty"`
	Brand              string     `json:"brand,omitempty"`
	Description        string     `json:"description,omitempty"`
	Image              string     `json:"image,omitempty"`
	Images             []string   `json:"images,omitempty"`
	Price              *PriceInfo `json:"price,omitempty"`
	BagSizes           []string   `json:"bagSizes,omitempty"`
	Species            string     `json:"species"`
	TargetedConditions []string   `json:"targetedConditions,omitempty"`
	Type               string     `json:"type"`
	Features           []string   `json:"features,omitempty"`
	Link               string     `json:"link"`
	LastUpdated        time.Time  `json:"lastUpdated"`
}

// Usable reports whether the record carries enough identity to survive
// into the catalog. Records missing name or brand are dropped by the
// orchestrator.
func (p *ExtractedProduct) Usable() bool {
	return p != nil && p.Name != "" && p.Brand != ""
}

// CatalogEntry is a normalized product as persisted in the snapshot.
// Unlike ExtractedProduct, image, price, species and feeding guide are
// always populated (with disclosed fallbacks where scraping found
// nothing).
type CatalogEntry struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Brand              string     `json:"brand"`
	Species            string     `json:"species"`
	Type               string     `json:"type"`
	Description        string     `json:"description,omitempty"`
	Image              string     `json:"image"`
	Images             []string   `json:"images,omitempty"`
	Price              *PriceInfo `json:"price"`
	BagSizes           []string   `json:"bagSizes,omitempty"`
	TargetedConditions []string   `json:"targetedConditions,omitempty"`
	Features           []string   `json:"features,omitempty"`
	FeedingGuide       string     `json:"feedingGuide"`
	Link               string     `json:"link,omitempty"`
	LastUpdated        time.Time  `json:"lastUpdated"`
}

// CategoryCounts holds per-species totals for a snapshot.
type CategoryCounts struct {
	Dog int `json:"dog"`
	Cat int `json:"cat"`
}

// CategoryStats records discovered-vs-used totals for one category
// scrape.
type CategoryStats struct {
	Discovered int `json:"discovered"`
	Used       int `json:"used"`
}

// ScrapeMetadata describes how a snapshot was produced.
type ScrapeMetadata struct {
	Dog        CategoryStats `json:"dog"`
	Cat        CategoryStats `json:"cat"`
	DurationMs int64         `json:"durationMs"`
}

// CatalogSnapshot is the complete persisted catalog. Each successful
// pipeline run replaces it wholesale.
type CatalogSnapshot struct {
	Products        []*CatalogEntry `json:"products"`
	LastUpdated     time.Time       `json:"lastUpdated"`
	TotalProducts   int             `json:"totalProducts"`
	Categories      CategoryCounts  `json:"categories"`
	Source          string          `json:"source"`
	PriceDisclaimer string          `json:"priceDisclaimer"`
	Version         string          `json:"version"`
	ScrapeMetadata  *ScrapeMetadata `json:"scrapeMetadata,omitempty"`
}

// Find returns the entry with the given id, if present.
func (s *CatalogSnapshot) Find(id string) (*CatalogEntry, bool) {
	for _, e := range s.Products {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// PriceObservation is the reconciler's per-entry result: one lowest
// price per retailer, reduced to an unweighted average.
type PriceObservation struct {
	Sources     map[string]float64 `json:"sources"`
	Average     float64            `json:"average"`
	LastUpdated time.Time          `json:"lastUpdated"`
}

// PricePoint is one row of the price-history log.
type PricePoint struct {
	ProductID  string    `json:"product_id"`
	Source     string    `json:"source"`
	Price      float64   `json:"price"`
	ObservedAt time.Time `json:"observed_at"`
}

// RunStatus tracks the outcome of the most recent pipeline run.
type RunStatus struct {
	LastRunTime   time.Time `json:"last_run_time"`
	LastRunStatus string    `json:"last_run_status"` // running, success, failed
	LastRunError  string    `json:"last_run_error,omitempty"`
	ProductsFound int       `json:"products_found"`
	DurationMs    int64     `json:"duration_ms"`
}

// RunStatistics is the human-readable summary returned by a pipeline
// run.
type RunStatistics struct {
	DogProducts      int       `json:"dog_products"`
	CatProducts      int       `json:"cat_products"`
	TotalProducts    int       `json:"total_products"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	LastUpdated      time.Time `json:"last_updated"`
}

// RunResult is the response of the pipeline entry point.
type RunResult struct {
	Success    bool             `json:"success"`
	Statistics *RunStatistics   `json:"statistics,omitempty"`
	Snapshot   *CatalogSnapshot `json:"snapshot,omitempty"`
	Error      string           `json:"error,omitempty"`
	Details    string           `json:"details,omitempty"`
}

// Stats is the aggregate view served by the stats endpoint.
type Stats struct {
	TotalProducts int            `json:"total_products"`
	Categories    CategoryCounts `json:"categories"`
	LastUpdated   time.Time      `json:"last_updated"`
	RunStatus     *RunStatus     `json:"run_status,omitempty"`
}
