package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"petfood-catalog/internal/model"
)

const snapshotFile = "catalog.json"

// SnapshotStore persists the catalog snapshot as a single JSON file.
// Writes replace the file wholesale; the pipeline is the sole writer.
type SnapshotStore struct {
	mu      sync.RWMutex
	dataDir string
}

// NewSnapshotStore creates a snapshot store rooted at dataDir.
func NewSnapshotStore(dataDir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &SnapshotStore{dataDir: dataDir}, nil
}

// Path returns the snapshot file path.
func (s *SnapshotStore) Path() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

// Read loads the current snapshot. A missing file returns (nil, nil).
func (s *SnapshotStore) Read() (*model.CatalogSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot model.CatalogSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// Write replaces the snapshot file with the given snapshot.
func (s *SnapshotStore) Write(snapshot *model.CatalogSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Backup copies the existing snapshot to a timestamp-suffixed sibling
// path. Absence of a prior snapshot is not an error; the returned path
// is empty in that case.
func (s *SnapshotStore) Backup() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read snapshot for backup: %w", err)
	}

	backupPath := filepath.Join(s.dataDir,
		fmt.Sprintf("catalog-%s.json", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return backupPath, nil
}
