// Package ports defines the interfaces between the pipeline core and its
// infrastructure collaborators.
package ports

import (
	"context"

	"routeboard/domain/delivery"
)

// RecordStore persists the accumulated delivery record set between pipeline
// invocations. It is a best-effort cache, not a system of record: corrupt
// persisted state loads as an empty set, and callers treat any load failure
// the same way rather than crashing the host.
type RecordStore interface {
	// SaveAll replaces the persisted record set with the given one.
	SaveAll(ctx context.Context, records []delivery.Record) error

	// LoadAll returns the persisted record set. Corrupt or missing state
	// yields an empty slice, not an error.
	LoadAll(ctx context.Context) ([]delivery.Record, error)

	// Clear removes every persisted record.
	Clear(ctx context.Context) error
}
