package model

import (
	"time"

	"github.com/google/uuid"
)

// GeoPoint is a WGS 84 coordinate with optional human-readable context.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	PlaceType string  `json:"place_type,omitempty"` // e.g. "cafe", "library", "station", "park"
}

// Encounter records two users detected within the proximity threshold.
// Rows are append-only: the only field that ever changes is IsMatched,
// and it only flips false -> true.
type Encounter struct {
	ID             uuid.UUID `json:"id"`
	UserID1        string    `json:"user_id_1"`
	UserID2        string    `json:"user_id_2"`
	Location       GeoPoint  `json:"location"`
	DetectedAt     time.Time `json:"detected_at"`
	DistanceMeters float64   `json:"distance_meters"`
	IsMatched      bool      `json:"is_matched"`
}

// Involves reports whether the user is one of the two participants.
func (e *Encounter) Involves(userID string) bool {
	return e.UserID1 == userID || e.UserID2 == userID
}

// CounterpartOf returns the other participant for a given user id.
// Callers must check Involves first.
func (e *Encounter) CounterpartOf(userID string) string {
	if e.UserID1 == userID {
		return e.UserID2
	}
	return e.UserID1
}

// PresenceEntry is a user's most recently reported location and freshness.
// One entry per user, overwritten on every report.
type PresenceEntry struct {
	UserID   string    `json:"user_id"`
	Location GeoPoint  `json:"location"`
	LastSeen time.Time `json:"last_seen"`
}
