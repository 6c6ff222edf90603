package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petfood-catalog/internal/model"
)

func TestHistoryRecordAndQuery(t *testing.T) {
	s, err := NewHistoryStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record("product-1", "chewy", 52.99, base))
	require.NoError(t, s.Record("product-1", "petco", 54.49, base.Add(time.Hour)))
	require.NoError(t, s.Record("product-2", "chewy", 31.99, base))

	points, err := s.History("product-1", 10)
	require.NoError(t, err)
	require.Len(t, points, 2)
	// Newest first
	assert.Equal(t, "petco", points[0].Source)
	assert.Equal(t, 54.49, points[0].Price)
	assert.Equal(t, "chewy", points[1].Source)

	points, err = s.History("product-3", 10)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestHistoryRecordSnapshotSkipsEstimates(t *testing.T) {
	s, err := NewHistoryStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	snapshot := &model.CatalogSnapshot{
		Source:      "retailer scrape",
		LastUpdated: time.Now(),
		Products: []*model.CatalogEntry{
			{ID: "product-1", Price: &model.PriceInfo{Estimate: 52.99}},
			{ID: "product-2", Price: &model.PriceInfo{Estimate: 90.00, Estimated: true}},
			{ID: "product-3", Price: nil},
		},
	}
	require.NoError(t, s.RecordSnapshot(snapshot))

	points, err := s.History("product-1", 10)
	require.NoError(t, err)
	assert.Len(t, points, 1)

	points, err = s.History("product-2", 10)
	require.NoError(t, err)
	assert.Empty(t, points, "synthesized fallback prices must not enter the log")
}
