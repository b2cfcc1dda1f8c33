package memory

import (
	"context"
	"time"

	"machinaka-be/internal/model"

	"github.com/patrickmn/go-cache"
)

// DefaultFreshnessWindow is how long a location report counts as "active".
const DefaultFreshnessWindow = 5 * time.Minute

// PresenceRepository keeps each user's last-known location in an expiring
// cache. The entry TTL is the freshness window, so expired entries drop out
// of Snapshot without being eagerly deleted; the cache purges them in the
// background as a hygiene pass.
type PresenceRepository struct {
	entries *cache.Cache
}

func NewPresenceRepository(freshnessWindow time.Duration) *PresenceRepository {
	if freshnessWindow <= 0 {
		freshnessWindow = DefaultFreshnessWindow
	}
	return &PresenceRepository{
		entries: cache.New(freshnessWindow, 2*freshnessWindow),
	}
}

func (r *PresenceRepository) Upsert(ctx context.Context, entry model.PresenceEntry) error {
	r.entries.Set(entry.UserID, entry, cache.DefaultExpiration)
	return nil
}

func (r *PresenceRepository) Snapshot(ctx context.Context) ([]model.PresenceEntry, error) {
	items := r.entries.Items()
	out := make([]model.PresenceEntry, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(model.PresenceEntry))
	}
	return out, nil
}

func (r *PresenceRepository) ActiveCount(ctx context.Context) (int, error) {
	// ItemCount would include expired-but-unpurged entries; Items does not.
	return len(r.entries.Items()), nil
}
