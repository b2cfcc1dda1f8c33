package contract

import (
	"context"
	"errors"

	"machinaka-be/internal/model"

	"github.com/google/uuid"
)

// ErrNotFound is returned by any repository when the requested record is absent.
var ErrNotFound = errors.New("record not found")

// EncounterRepository is the append-only encounter log. Implementations must
// never delete rows; the only mutation is flipping IsMatched to true.
type EncounterRepository interface {
	Append(ctx context.Context, encounter *model.Encounter) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Encounter, error)

	// HistoryByUser returns encounters where the user is either participant,
	// newest first, plus the total count before pagination.
	HistoryByUser(ctx context.Context, userID string, limit, offset int) ([]model.Encounter, int64, error)

	// MarkMatched sets IsMatched and returns the updated record. Marking an
	// already-matched encounter is a no-op success.
	MarkMatched(ctx context.Context, id uuid.UUID) (*model.Encounter, error)
}
