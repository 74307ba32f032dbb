package services

import (
	"encoding/json"
	"fmt"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/repository"
	"github.com/shashiranjanraj/bazaar/pkg/storage"
)

// snapshot is the on-disk layout: one document with the four id-keyed
// collections. The format round-trips losslessly and is otherwise not a
// contract.
type snapshot struct {
	Users    map[string]models.User    `json:"users"`
	Products map[string]models.Product `json:"products"`
	Orders   map[string]models.Order   `json:"orders"`
	Reviews  map[string]models.Review  `json:"reviews"`
}

// DataStore snapshots the whole repository set to a single file and
// restores it. Best-effort persistence: a failed load degrades to the
// in-memory state, never aborts the process.
type DataStore struct {
	users    *repository.Repository[models.User]
	products *repository.Repository[models.Product]
	orders   *repository.Repository[models.Order]
	reviews  *repository.Repository[models.Review]
	disk     storage.Disk
	path     string
}

func NewDataStore(
	users *repository.Repository[models.User],
	products *repository.Repository[models.Product],
	orders *repository.Repository[models.Order],
	reviews *repository.Repository[models.Review],
	disk storage.Disk,
	path string,
) *DataStore {
	return &DataStore{users: users, products: products, orders: orders, reviews: reviews, disk: disk, path: path}
}

// Save writes the current state of every repository to the snapshot file.
func (s *DataStore) Save() error {
	snap := snapshot{
		Users:    s.users.Snapshot(),
		Products: s.products.Snapshot(),
		Orders:   s.orders.Snapshot(),
		Reviews:  s.reviews.Snapshot(),
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("datastore: marshal: %w", err)
	}
	if err := s.disk.Put(s.path, raw); err != nil {
		return fmt.Errorf("datastore: save: %w", err)
	}
	return nil
}

// Load replaces every repository's contents from the snapshot file.
func (s *DataStore) Load() error {
	raw, err := s.disk.Get(s.path)
	if err != nil {
		return fmt.Errorf("datastore: load: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("datastore: unmarshal: %w", err)
	}
	s.users.Restore(snap.Users)
	s.products.Restore(snap.Products)
	s.orders.Restore(snap.Orders)
	s.reviews.Restore(snap.Reviews)
	return nil
}

// Exists reports whether a snapshot file is present.
func (s *DataStore) Exists() bool {
	return s.disk.Exists(s.path)
}
