package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"petfood-catalog/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// HistoryStore keeps the append-only price-observation log in SQLite.
// The reconciler and each snapshot run write rows; the history
// endpoint reads them.
type HistoryStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewHistoryStore opens (or creates) the history database under
// dataDir.
func NewHistoryStore(dataDir string) (*HistoryStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "price-history.db")
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &HistoryStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func (s *HistoryStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS price_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id TEXT NOT NULL,
			source TEXT NOT NULL,
			price REAL NOT NULL,
			observed_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_price_history_product
			ON price_history(product_id, observed_at);
	`)
	return err
}

// Record appends one observation.
func (s *HistoryStore) Record(productID, source string, price float64, observedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO price_history (product_id, source, price, observed_at) VALUES (?, ?, ?, ?)`,
		productID, source, price, observedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record price point: %w", err)
	}
	return nil
}

// RecordSnapshot appends one observation per priced entry of a freshly
// persisted snapshot. Synthesized fallback prices are skipped so the
// log only carries scraped observations.
func (s *HistoryStore) RecordSnapshot(snapshot *model.CatalogSnapshot) error {
	for _, entry := range snapshot.Products {
		if entry.Price == nil || entry.Price.Estimated {
			continue
		}
		if err := s.Record(entry.ID, snapshot.Source, entry.Price.Estimate, snapshot.LastUpdated); err != nil {
			return err
		}
	}
	return nil
}

// History returns the most recent observations for a product, newest
// first.
func (s *HistoryStore) History(productID string, limit int) ([]model.PricePoint, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(
		`SELECT product_id, source, price, observed_at
		 FROM price_history WHERE product_id = ?
		 ORDER BY observed_at DESC LIMIT ?`,
		productID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		var p model.PricePoint
		if err := rows.Scan(&p.ProductID, &p.Source, &p.Price, &p.ObservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Close closes the underlying database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
