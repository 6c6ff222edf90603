package scraper

import (
	"context"

	"petfood-catalog/internal/model"
)

// CategoryScraper defines the interface for batch category scrapers
type CategoryScraper interface {
	ScrapeCategory(ctx context.Context, categoryURL string, maxProducts int) ([]*model.ExtractedProduct, model.CategoryStats, error)
}

// Ensure Orchestrator implements the interface
var _ CategoryScraper = (*Orchestrator)(nil)
