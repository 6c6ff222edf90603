package store

import "petfood-catalog/internal/model"

// Snapshotter is the snapshot persistence surface used by the
// pipeline and the serving layer.
type Snapshotter interface {
	Read() (*model.CatalogSnapshot, error)
	Write(snapshot *model.CatalogSnapshot) error
	Backup() (string, error)
}

// Ensure SnapshotStore implements the interface
var _ Snapshotter = (*SnapshotStore)(nil)
