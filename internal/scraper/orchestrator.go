package scraper

import (
	"context"
	"log"
	"sync"
	"time"

	"petfood-catalog/internal/model"
)

const (
	defaultBatchSize = 5
	batchPacing      = 1 * time.Second
)

// Orchestrator drives link discovery and product building across a
// category with bounded concurrency. Fetches within a batch run
// concurrently; batches run strictly sequentially with a pacing delay
// between them to reduce load on the source site.
type Orchestrator struct {
	client    *Client
	batchSize int
	pacing    time.Duration
}

// NewOrchestrator creates a batch orchestrator over the given client.
func NewOrchestrator(client *Client) *Orchestrator {
	return &Orchestrator{
		client:    client,
		batchSize: defaultBatchSize,
		pacing:    batchPacing,
	}
}

// ScrapeCategory discovers product links on the category page and
// builds a record for each, returning the usable ones. A per-link
// failure contributes nothing to the result; only the category-page
// fetch itself is fatal. An empty link list yields an empty result.
func (o *Orchestrator) ScrapeCategory(ctx context.Context, categoryURL string, maxProducts int) ([]*model.ExtractedProduct, model.CategoryStats, error) {
	stats := model.CategoryStats{}

	links, err := o.client.DiscoverLinks(categoryURL, maxProducts)
	if err != nil {
		return nil, stats, err
	}
	stats.Discovered = len(links)

	log.Printf("[Orchestrator] %s: %d candidate links", categoryURL, len(links))

	var products []*model.ExtractedProduct

	for start := 0; start < len(links); start += o.batchSize {
		if start > 0 {
			// The full pacing delay is inserted before every batch after
			// the first, regardless of how long the batch itself took.
			select {
			case <-ctx.Done():
				return products, stats, ctx.Err()
			case <-time.After(o.pacing):
			}
		}

		end := start + o.batchSize
		if end > len(links) {
			end = len(links)
		}
		batch := links[start:end]

		results := make([]*model.ExtractedProduct, len(batch))
		var wg sync.WaitGroup

		for i, link := range batch {
			wg.Add(1)
			go func(i int, link string) {
				defer wg.Done()
				product, err := o.client.ScrapeProduct(link)
				if err != nil {
					log.Printf("[Orchestrator] failed to scrape %s: %v", link, err)
					return
				}
				results[i] = product
			}(i, link)
		}
		wg.Wait()

		for _, p := range results {
			if p.Usable() {
				products = append(products, p)
			}
		}
	}

	stats.Used = len(products)
	log.Printf("[Orchestrator] %s: %d/%d usable products", categoryURL, stats.Used, stats.Discovered)

	return products, stats, nil
}
