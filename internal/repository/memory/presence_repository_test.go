package memory

import (
	"context"
	"testing"
	"time"

	"machinaka-be/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func presenceEntry(userID string, lat, lon float64) model.PresenceEntry {
	return model.PresenceEntry{
		UserID:   userID,
		Location: model.GeoPoint{Latitude: lat, Longitude: lon},
		LastSeen: time.Now(),
	}
}

func TestPresenceRepositoryUpsertReplaces(t *testing.T) {
	repo := NewPresenceRepository(time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, presenceEntry("alice", 35.0, 139.0)))
	require.NoError(t, repo.Upsert(ctx, presenceEntry("alice", 36.0, 140.0)))

	snapshot, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, 36.0, snapshot[0].Location.Latitude)

	count, err := repo.ActiveCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPresenceRepositoryExpiry(t *testing.T) {
	repo := NewPresenceRepository(30 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, presenceEntry("alice", 35.0, 139.0)))
	require.NoError(t, repo.Upsert(ctx, presenceEntry("bob", 35.0, 139.0)))

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, repo.Upsert(ctx, presenceEntry("carol", 35.0, 139.0)))

	snapshot, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "carol", snapshot[0].UserID)

	count, err := repo.ActiveCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPresenceRepositoryRefreshExtendsWindow(t *testing.T) {
	repo := NewPresenceRepository(60 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, presenceEntry("alice", 35.0, 139.0)))
	time.Sleep(40 * time.Millisecond)
	require.NoError(t, repo.Upsert(ctx, presenceEntry("alice", 35.1, 139.1)))
	time.Sleep(40 * time.Millisecond)

	// 80ms after the first report but only 40ms after the refresh.
	snapshot, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, 35.1, snapshot[0].Location.Latitude)
}
