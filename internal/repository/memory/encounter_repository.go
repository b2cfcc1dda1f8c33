package memory

import (
	"context"
	"sort"
	"sync"

	"machinaka-be/internal/model"
	"machinaka-be/internal/repository/contract"

	"github.com/google/uuid"
)

// EncounterRepository is the in-memory reference implementation of the
// append-only encounter log. A single mutex guards the log; every operation
// is bounded local compute, so coarse locking is fine.
type EncounterRepository struct {
	mu         sync.RWMutex
	encounters []*model.Encounter
	byID       map[uuid.UUID]*model.Encounter
}

func NewEncounterRepository() *EncounterRepository {
	return &EncounterRepository{
		byID: make(map[uuid.UUID]*model.Encounter),
	}
}

func (r *EncounterRepository) Append(ctx context.Context, encounter *model.Encounter) error {
	stored := *encounter

	r.mu.Lock()
	defer r.mu.Unlock()
	r.encounters = append(r.encounters, &stored)
	r.byID[stored.ID] = &stored
	return nil
}

func (r *EncounterRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, contract.ErrNotFound
	}
	out := *e
	return &out, nil
}

func (r *EncounterRepository) HistoryByUser(ctx context.Context, userID string, limit, offset int) ([]model.Encounter, int64, error) {
	r.mu.RLock()
	matched := make([]model.Encounter, 0)
	for _, e := range r.encounters {
		if e.Involves(userID) {
			matched = append(matched, *e)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].DetectedAt.After(matched[j].DetectedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.Encounter{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *EncounterRepository) MarkMatched(ctx context.Context, id uuid.UUID) (*model.Encounter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, contract.ErrNotFound
	}
	e.IsMatched = true
	out := *e
	return &out, nil
}
