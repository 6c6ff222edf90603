package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petfood-catalog/internal/catalog"
	"petfood-catalog/internal/model"
)

// fakeScraper returns canned per-URL results.
type fakeScraper struct {
	results map[string]struct {
		products []*model.ExtractedProduct
		err      error
	}
	calls []string
}

func (f *fakeScraper) ScrapeCategory(_ context.Context, categoryURL string, _ int) ([]*model.ExtractedProduct, model.CategoryStats, error) {
	f.calls = append(f.calls, categoryURL)
	r := f.results[categoryURL]
	return r.products, model.CategoryStats{Discovered: len(r.products), Used: len(r.products)}, r.err
}

// fakeStore records writes in memory.
type fakeStore struct {
	snapshot  *model.CatalogSnapshot
	writes    int
	backups   int
	writeErr  error
	backupErr error
}

func (f *fakeStore) Read() (*model.CatalogSnapshot, error) { return f.snapshot, nil }

func (f *fakeStore) Write(s *model.CatalogSnapshot) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.snapshot = s
	f.writes++
	return nil
}

func (f *fakeStore) Backup() (string, error) {
	f.backups++
	return "", f.backupErr
}

type fakeHistory struct {
	snapshots []*model.CatalogSnapshot
}

func (f *fakeHistory) RecordSnapshot(s *model.CatalogSnapshot) error {
	f.snapshots = append(f.snapshots, s)
	return nil
}

func extracted(name, brand string) *model.ExtractedProduct {
	return &model.ExtractedProduct{Name: name, Brand: brand, Species: model.SpeciesUnknown, Type: model.TypeDry}
}

func newTestPipeline(fs *fakeScraper, store *fakeStore, history HistoryRecorder) *Pipeline {
	return New(fs, catalog.NewNormalizer(nil), store, history, "https://shop.example.com/dog", "https://shop.example.com/cat")
}

func TestRunFullUpdateSuccess(t *testing.T) {
	fs := &fakeScraper{results: map[string]struct {
		products []*model.ExtractedProduct
		err      error
	}{
		"https://shop.example.com/dog": {products: []*model.ExtractedProduct{
			extracted("Adult Chicken Recipe", "Blue Buffalo"),
			extracted("Puppy Lamb Formula", "Wellness"),
		}},
		"https://shop.example.com/cat": {products: []*model.ExtractedProduct{
			extracted("Indoor Salmon Recipe", "Purina"),
		}},
	}}
	store := &fakeStore{}
	history := &fakeHistory{}
	p := newTestPipeline(fs, store, history)

	result := p.RunFullUpdate(context.Background(), DefaultOptions())

	require.True(t, result.Success, "error: %s (%s)", result.Error, result.Details)
	require.NotNil(t, result.Snapshot)
	assert.Equal(t, 3, result.Snapshot.TotalProducts)
	assert.Equal(t, model.CategoryCounts{Dog: 2, Cat: 1}, result.Snapshot.Categories)

	// Dog entries are numbered before cat entries
	assert.Equal(t, "product-1", result.Snapshot.Products[0].ID)
	assert.Equal(t, "product-3", result.Snapshot.Products[2].ID)
	assert.Equal(t, model.SpeciesCat, result.Snapshot.Products[2].Species)

	assert.Equal(t, 1, store.backups)
	assert.Equal(t, 1, store.writes)
	assert.Len(t, history.snapshots, 1)

	require.NotNil(t, result.Statistics)
	assert.Equal(t, 2, result.Statistics.DogProducts)
	assert.Equal(t, 1, result.Statistics.CatProducts)

	require.NotNil(t, result.Snapshot.ScrapeMetadata)
	assert.Equal(t, 2, result.Snapshot.ScrapeMetadata.Dog.Discovered)

	assert.Equal(t, "success", p.Status().LastRunStatus)
	assert.Equal(t, 3, p.Status().ProductsFound)
}

func TestRunFullUpdateAllCategoriesFailed(t *testing.T) {
	fs := &fakeScraper{results: map[string]struct {
		products []*model.ExtractedProduct
		err      error
	}{
		"https://shop.example.com/dog": {err: errors.New("dns failure")},
		"https://shop.example.com/cat": {err: errors.New("dns failure")},
	}}
	store := &fakeStore{snapshot: &model.CatalogSnapshot{TotalProducts: 7}}
	p := newTestPipeline(fs, store, nil)

	result := p.RunFullUpdate(context.Background(), DefaultOptions())

	assert.False(t, result.Success)
	assert.Equal(t, "all category scrapes failed", result.Error)
	assert.Contains(t, result.Details, "dns failure")

	// Previous snapshot survives a failed run
	assert.Equal(t, 0, store.writes)
	assert.Equal(t, 7, store.snapshot.TotalProducts)
	assert.Equal(t, "failed", p.Status().LastRunStatus)
}

func TestRunFullUpdatePartialFailure(t *testing.T) {
	fs := &fakeScraper{results: map[string]struct {
		products []*model.ExtractedProduct
		err      error
	}{
		"https://shop.example.com/dog": {err: errors.New("category page 503")},
		"https://shop.example.com/cat": {products: []*model.ExtractedProduct{
			extracted("Kitten Chicken Pate", "Royal Canin"),
		}},
	}}
	store := &fakeStore{}
	p := newTestPipeline(fs, store, nil)

	result := p.RunFullUpdate(context.Background(), DefaultOptions())

	require.True(t, result.Success)
	assert.Equal(t, model.CategoryCounts{Dog: 0, Cat: 1}, result.Snapshot.Categories)
	assert.Equal(t, 1, store.writes)
}

func TestRunFullUpdateRestrictedCategory(t *testing.T) {
	fs := &fakeScraper{results: map[string]struct {
		products []*model.ExtractedProduct
		err      error
	}{
		"https://shop.example.com/cat": {products: []*model.ExtractedProduct{
			extracted("Senior Tuna Recipe", "Iams"),
		}},
	}}
	p := newTestPipeline(fs, &fakeStore{}, nil)

	result := p.RunFullUpdate(context.Background(), Options{Category: model.SpeciesCat, SaveToFile: true})

	require.True(t, result.Success)
	assert.Equal(t, []string{"https://shop.example.com/cat"}, fs.calls)
	assert.Equal(t, model.CategoryCounts{Dog: 0, Cat: 1}, result.Snapshot.Categories)
}

func TestRunFullUpdateRestrictedCategoryFailure(t *testing.T) {
	// A dog-only run whose dog scrape fails must fail even though the
	// never-requested cat category settled cleanly empty.
	fs := &fakeScraper{results: map[string]struct {
		products []*model.ExtractedProduct
		err      error
	}{
		"https://shop.example.com/dog": {err: errors.New("blocked")},
	}}
	store := &fakeStore{}
	p := newTestPipeline(fs, store, nil)

	result := p.RunFullUpdate(context.Background(), Options{Category: model.SpeciesDog, SaveToFile: true})

	assert.False(t, result.Success)
	assert.Equal(t, 0, store.writes)
}

func TestRunFullUpdateWithoutPersistence(t *testing.T) {
	fs := &fakeScraper{results: map[string]struct {
		products []*model.ExtractedProduct
		err      error
	}{
		"https://shop.example.com/dog": {products: []*model.ExtractedProduct{
			extracted("Adult Beef Recipe", "Pedigree"),
		}},
		"https://shop.example.com/cat": {},
	}}
	store := &fakeStore{}
	history := &fakeHistory{}
	p := newTestPipeline(fs, store, history)

	result := p.RunFullUpdate(context.Background(), Options{MaxProducts: 5, SaveToFile: false})

	require.True(t, result.Success)
	assert.Equal(t, 0, store.backups)
	assert.Equal(t, 0, store.writes)
	assert.Empty(t, history.snapshots)
	require.NotNil(t, result.Snapshot)
	assert.Equal(t, 1, result.Snapshot.TotalProducts)
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	fs := &fakeScraper{results: map[string]struct {
		products []*model.ExtractedProduct
		err      error
	}{}}
	p := newTestPipeline(fs, &fakeStore{}, nil)

	s := NewScheduler(p, 50*time.Millisecond)
	s.Start()
	assert.True(t, s.IsRunning())

	s.Stop()
	s.Stop() // a repeated stop must not close a closed channel

	assert.Eventually(t, func() bool { return !s.IsRunning() },
		time.Second, 10*time.Millisecond)
}

func TestRunFullUpdatePersistFailure(t *testing.T) {
	fs := &fakeScraper{results: map[string]struct {
		products []*model.ExtractedProduct
		err      error
	}{
		"https://shop.example.com/dog": {products: []*model.ExtractedProduct{
			extracted("Adult Beef Recipe", "Pedigree"),
		}},
		"https://shop.example.com/cat": {},
	}}
	store := &fakeStore{writeErr: errors.New("disk full")}
	p := newTestPipeline(fs, store, nil)

	result := p.RunFullUpdate(context.Background(), DefaultOptions())

	assert.False(t, result.Success)
	assert.Equal(t, "failed to persist snapshot", result.Error)
}
