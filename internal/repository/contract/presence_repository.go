package contract

import (
	"context"

	"machinaka-be/internal/model"
)

// PresenceRepository maps a user id to its last-known location. Entries are
// overwritten on every report (last-writer-wins) and fall out of Snapshot
// once they outlive the freshness window; eviction may be lazy.
type PresenceRepository interface {
	Upsert(ctx context.Context, entry model.PresenceEntry) error

	// Snapshot returns all entries still within the freshness window.
	Snapshot(ctx context.Context) ([]model.PresenceEntry, error)

	// ActiveCount returns the number of fresh entries.
	ActiveCount(ctx context.Context) (int, error)
}
