package reconcile

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"petfood-catalog/internal/model"
)

// entryPacing is the mandatory delay between successive entries in a
// full-catalog run, to avoid triggering source-side defenses.
const entryPacing = 2 * time.Second

// Plausibility bounds matching the extractor's.
const (
	minPlausiblePrice = 5.0
	maxPlausiblePrice = 500.0
)

// Fetcher fetches one page's raw markup. Satisfied by scraper.Client.
type Fetcher interface {
	Fetch(url string) (string, error)
}

// ObservationRecorder receives the per-retailer observations behind
// each merged price. Satisfied by store.HistoryStore.
type ObservationRecorder interface {
	Record(productID, source string, price float64, observedAt time.Time) error
}

// RetailerSource is one retailer product page to check for an entry.
// Patterns override the default price patterns for retailers with a
// known markup shape; the first submatch must capture the numeric
// price.
type RetailerSource struct {
	Name     string
	URL      string
	Patterns []*regexp.Regexp
}

// defaultPricePatterns mirror the extractor's ordering: structured
// sources before the bare dollar sweep.
var defaultPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"price"\s*:\s*"?(\d+(?:\.\d{1,2})?)"?`),
	regexp.MustCompile(`itemprop="price"[^>]*content="(\d+(?:\.\d{1,2})?)"`),
	regexp.MustCompile(`\$(\d+(?:\.\d{2})?)`),
}

// Reconciler re-checks prices for catalog entries across a configured
// retailer set and averages the per-retailer minimums. It runs as a
// secondary pass over an existing snapshot and only ever touches the
// price sub-field.
type Reconciler struct {
	fetcher   Fetcher
	retailers map[string][]RetailerSource // catalog entry id -> sources
	history   ObservationRecorder
	limiter   *rate.Limiter
	now       func() time.Time
}

// New creates a reconciler over the given id -> retailer mapping.
// Entries without a mapping are passed through unchanged. history may
// be nil.
func New(fetcher Fetcher, retailers map[string][]RetailerSource, history ObservationRecorder) *Reconciler {
	return &Reconciler{
		fetcher:   fetcher,
		retailers: retailers,
		history:   history,
		limiter:   rate.NewLimiter(rate.Every(entryPacing), 1),
		now:       time.Now,
	}
}

// Reconcile computes the averaged price observation for one entry.
// Returns nil when the entry has no retailer mapping or no source
// yielded a plausible price; the caller leaves the previous price
// unchanged in that case.
func (r *Reconciler) Reconcile(entry *model.CatalogEntry) *model.PriceObservation {
	sources, ok := r.retailers[entry.ID]
	if !ok || len(sources) == 0 {
		return nil
	}

	found := make(map[string]float64)
	for _, src := range sources {
		price, err := r.lowestPrice(src)
		if err != nil {
			log.Printf("[Reconciler] %s via %s: %v", entry.ID, src.Name, err)
			continue
		}
		if price > 0 {
			found[src.Name] = price
		}
	}

	if len(found) == 0 {
		return nil
	}

	sum := 0.0
	for _, p := range found {
		sum += p
	}
	avg := math.Round(sum/float64(len(found))*100) / 100

	return &model.PriceObservation{
		Sources:     found,
		Average:     avg,
		LastUpdated: r.now(),
	}
}

// ReconcileAll walks the snapshot, rate-limited between entries, and
// merges each observation onto the matching entry's price field.
// Per-entry failures are logged and skipped, never fatal to the run.
// Returns the number of entries updated.
func (r *Reconciler) ReconcileAll(ctx context.Context, snapshot *model.CatalogSnapshot) int {
	updated := 0
	for _, entry := range snapshot.Products {
		if _, ok := r.retailers[entry.ID]; !ok {
			continue
		}
		if err := r.limiter.Wait(ctx); err != nil {
			log.Printf("[Reconciler] stopped: %v", err)
			return updated
		}

		obs := r.Reconcile(entry)
		if obs == nil {
			continue
		}
		Merge(entry, obs)
		r.record(entry.ID, obs)
		updated++
	}
	return updated
}

// record appends each retailer observation to the history log. Logged
// and skipped when the log is unavailable, never fatal to the pass.
func (r *Reconciler) record(productID string, obs *model.PriceObservation) {
	if r.history == nil {
		return
	}
	for source, price := range obs.Sources {
		if err := r.history.Record(productID, source, price, obs.LastUpdated); err != nil {
			log.Printf("[Reconciler] failed to record %s observation for %s: %v", source, productID, err)
		}
	}
}

// Merge applies an observation to an entry's price sub-field in
// place. A previously synthesized price becomes a real one, and the
// range is recomputed from the observed spread so no stale bound
// survives the merge.
func Merge(entry *model.CatalogEntry, obs *model.PriceObservation) {
	if entry.Price == nil {
		entry.Price = &model.PriceInfo{}
	}
	entry.Price.Average = obs.Average
	entry.Price.Estimate = obs.Average
	entry.Price.Range = observedRange(obs.Sources)
	entry.Price.Sources = len(obs.Sources)
	entry.Price.Estimated = false
	entry.Price.Note = "Averaged across retailer observations"
	entry.LastUpdated = obs.LastUpdated
}

// observedRange formats the min-max spread of the per-retailer prices.
func observedRange(sources map[string]float64) string {
	lo, hi := 0.0, 0.0
	for _, p := range sources {
		if lo == 0 || p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	if lo == 0 {
		return ""
	}
	if lo == hi {
		return fmt.Sprintf("$%.2f", lo)
	}
	return fmt.Sprintf("$%.2f - $%.2f", lo, hi)
}

// lowestPrice fetches one retailer page and returns the minimum
// plausible price it advertises, selecting per source rather than the
// full distribution.
func (r *Reconciler) lowestPrice(src RetailerSource) (float64, error) {
	markup, err := r.fetcher.Fetch(src.URL)
	if err != nil {
		return 0, err
	}

	patterns := src.Patterns
	if len(patterns) == 0 {
		patterns = defaultPricePatterns
	}

	lowest := 0.0
	for _, pattern := range patterns {
		for _, m := range pattern.FindAllStringSubmatch(markup, -1) {
			if len(m) < 2 {
				continue
			}
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if v <= minPlausiblePrice || v >= maxPlausiblePrice {
				continue
			}
			if lowest == 0 || v < lowest {
				lowest = v
			}
		}
	}
	return lowest, nil
}
