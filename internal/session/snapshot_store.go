// Package session caches the accumulated record set between runs.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"routeboard/domain/delivery"
	"routeboard/ports"
)

// SnapshotStore implements ports.RecordStore on a local JSON file. The
// snapshot is a convenience cache: a missing or unreadable file loads as an
// empty record set, never as an error.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a snapshot store rooted at the given file path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// SaveAll writes the record set as a JSON snapshot. The write goes through a
// temp file and rename so a crash mid-write cannot leave a half snapshot.
func (s *SnapshotStore) SaveAll(ctx context.Context, records []delivery.Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	content, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot %s: %w", s.path, err)
	}

	log.Printf("[SnapshotStore] Saved %d records to %s", len(records), s.path)
	return nil
}

// LoadAll reads the snapshot back. A missing file or a decode failure yields
// an empty record set with a log line.
func (s *SnapshotStore) LoadAll(ctx context.Context) ([]delivery.Record, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []delivery.Record{}, nil
		}
		log.Printf("[SnapshotStore] Failed to read snapshot %s, starting empty: %v", s.path, err)
		return []delivery.Record{}, nil
	}

	var records []delivery.Record
	if err := json.Unmarshal(content, &records); err != nil {
		log.Printf("[SnapshotStore] Corrupt snapshot %s, starting empty: %v", s.path, err)
		return []delivery.Record{}, nil
	}
	if records == nil {
		records = []delivery.Record{}
	}

	return records, nil
}

// Clear removes the snapshot file.
func (s *SnapshotStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot %s: %w", s.path, err)
	}
	log.Printf("[SnapshotStore] Cleared snapshot %s", s.path)
	return nil
}

var _ ports.RecordStore = (*SnapshotStore)(nil)
