package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"petfood-catalog/internal/catalog"
	"petfood-catalog/internal/model"
	"petfood-catalog/internal/scraper"
	"petfood-catalog/internal/store"
)

// Options control one full pipeline run.
type Options struct {
	// Category restricts the run to "dog" or "cat"; empty scrapes both.
	Category string `json:"category"`
	// MaxProducts caps the number of product links followed per category.
	MaxProducts int `json:"max_products"`
	// ForceUpdate is accepted for interface compatibility; every run
	// currently performs a fresh scrape regardless.
	ForceUpdate bool `json:"force_update"`
	// SaveToFile persists the resulting snapshot; when false the
	// snapshot is only returned.
	SaveToFile bool `json:"save_to_file"`
}

// DefaultOptions returns the standard full-run configuration.
func DefaultOptions() Options {
	return Options{
		MaxProducts: 30,
		SaveToFile:  true,
	}
}

// HistoryRecorder receives price observations from persisted
// snapshots. Optional.
type HistoryRecorder interface {
	RecordSnapshot(snapshot *model.CatalogSnapshot) error
}

// Pipeline drives the full scrape-normalize-persist run:
// backup -> scrape (dog and cat concurrently) -> normalize -> persist.
// Any unrecovered error before persistence leaves the previous
// snapshot untouched.
type Pipeline struct {
	scraper    scraper.CategoryScraper
	normalizer *catalog.Normalizer
	snapshots  store.Snapshotter
	history    HistoryRecorder

	dogCategoryURL string
	catCategoryURL string

	mu      sync.Mutex
	running bool
	status  model.RunStatus
}

// New creates a pipeline. history may be nil.
func New(cs scraper.CategoryScraper, normalizer *catalog.Normalizer, snapshots store.Snapshotter, history HistoryRecorder, dogCategoryURL, catCategoryURL string) *Pipeline {
	return &Pipeline{
		scraper:        cs,
		normalizer:     normalizer,
		snapshots:      snapshots,
		history:        history,
		dogCategoryURL: dogCategoryURL,
		catCategoryURL: catCategoryURL,
	}
}

type categoryResult struct {
	products []*model.ExtractedProduct
	stats    model.CategoryStats
	err      error
}

// RunFullUpdate performs one complete pipeline run. It always fully
// replaces the snapshot on success; each call performs fresh network
// scraping. Concurrent runs are rejected.
func (p *Pipeline) RunFullUpdate(ctx context.Context, opts Options) *model.RunResult {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return &model.RunResult{
			Success: false,
			Error:   "update already in progress",
		}
	}
	p.running = true
	start := time.Now()
	p.status = model.RunStatus{
		LastRunTime:   start,
		LastRunStatus: "running",
	}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	if opts.MaxProducts <= 0 {
		opts.MaxProducts = DefaultOptions().MaxProducts
	}

	log.Printf("[Pipeline] starting full update (category=%q, maxProducts=%d)", opts.Category, opts.MaxProducts)

	// Backup phase. A missing prior snapshot is not an error; a failed
	// copy is logged but does not abort the run since the write below
	// is itself atomic-by-replacement.
	if opts.SaveToFile {
		if backupPath, err := p.snapshots.Backup(); err != nil {
			log.Printf("[Pipeline] backup failed: %v", err)
		} else if backupPath != "" {
			log.Printf("[Pipeline] backed up previous snapshot to %s", backupPath)
		}
	}

	// Scraping phase: both category scrapes run concurrently, each
	// internally batching.
	dog, cat := p.scrapeCategories(ctx, opts)

	dogRequested := opts.Category == "" || opts.Category == model.SpeciesDog
	catRequested := opts.Category == "" || opts.Category == model.SpeciesCat
	allFailed := (!dogRequested || dog.err != nil) && (!catRequested || cat.err != nil)
	if allFailed {
		return p.fail(start, "all category scrapes failed",
			fmt.Sprintf("dog: %v; cat: %v", dog.err, cat.err))
	}
	if dog.err != nil {
		log.Printf("[Pipeline] dog category failed, continuing with partial result: %v", dog.err)
	}
	if cat.err != nil {
		log.Printf("[Pipeline] cat category failed, continuing with partial result: %v", cat.err)
	}

	// Normalizing phase.
	snapshot := p.normalizer.Normalize(dog.products, cat.products)
	snapshot.ScrapeMetadata = &model.ScrapeMetadata{
		Dog:        dog.stats,
		Cat:        cat.stats,
		DurationMs: time.Since(start).Milliseconds(),
	}

	// Persisting phase.
	if opts.SaveToFile {
		if err := p.snapshots.Write(snapshot); err != nil {
			return p.fail(start, "failed to persist snapshot", err.Error())
		}
		if p.history != nil {
			if err := p.history.RecordSnapshot(snapshot); err != nil {
				log.Printf("[Pipeline] failed to record price history: %v", err)
			}
		}
	}

	duration := time.Since(start)
	p.mu.Lock()
	p.status = model.RunStatus{
		LastRunTime:   start,
		LastRunStatus: "success",
		ProductsFound: snapshot.TotalProducts,
		DurationMs:    duration.Milliseconds(),
	}
	p.mu.Unlock()

	log.Printf("[Pipeline] completed in %v: %d products (dog=%d, cat=%d)",
		duration, snapshot.TotalProducts, snapshot.Categories.Dog, snapshot.Categories.Cat)

	return &model.RunResult{
		Success:  true,
		Snapshot: snapshot,
		Statistics: &model.RunStatistics{
			DogProducts:      snapshot.Categories.Dog,
			CatProducts:      snapshot.Categories.Cat,
			TotalProducts:    snapshot.TotalProducts,
			ProcessingTimeMs: duration.Milliseconds(),
			LastUpdated:      snapshot.LastUpdated,
		},
	}
}

// scrapeCategories fans out into the per-category sub-pipelines and
// waits for both to settle. A category excluded by opts.Category
// settles immediately with an empty result.
func (p *Pipeline) scrapeCategories(ctx context.Context, opts Options) (dog, cat categoryResult) {
	var wg sync.WaitGroup

	run := func(url string, out *categoryResult) {
		defer wg.Done()
		out.products, out.stats, out.err = p.scraper.ScrapeCategory(ctx, url, opts.MaxProducts)
	}

	if opts.Category == "" || opts.Category == model.SpeciesDog {
		wg.Add(1)
		go run(p.dogCategoryURL, &dog)
	}
	if opts.Category == "" || opts.Category == model.SpeciesCat {
		wg.Add(1)
		go run(p.catCategoryURL, &cat)
	}
	wg.Wait()

	// A restricted run treats the excluded category as absent rather
	// than failed.
	if opts.Category == model.SpeciesDog {
		cat = categoryResult{}
	}
	if opts.Category == model.SpeciesCat {
		dog = categoryResult{}
	}
	return dog, cat
}

func (p *Pipeline) fail(start time.Time, errMsg, details string) *model.RunResult {
	duration := time.Since(start)
	p.mu.Lock()
	p.status = model.RunStatus{
		LastRunTime:   start,
		LastRunStatus: "failed",
		LastRunError:  errMsg,
		DurationMs:    duration.Milliseconds(),
	}
	p.mu.Unlock()

	log.Printf("[Pipeline] failed after %v: %s (%s)", duration, errMsg, details)

	return &model.RunResult{
		Success: false,
		Error:   errMsg,
		Details: details,
		Statistics: &model.RunStatistics{
			ProcessingTimeMs: duration.Milliseconds(),
		},
	}
}

// Status returns the most recent run status.
func (p *Pipeline) Status() model.RunStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}
