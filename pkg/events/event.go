package events

import "time"

// Event codes published on the bus.
const (
	TypeEncounterDetected = "ENCOUNTER_DETECTED"
	TypeMatchConfirmed    = "MATCH_CONFIRMED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "MATCH_CONFIRMED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used by publishers.
type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewEncounterDetected builds the event published once per created encounter.
// The target is the counterpart user; the reporter never gets notified about
// their own report.
func NewEncounterDetected(encounterID, fromUserID, targetUserID string, location map[string]interface{}, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeEncounterDetected,
		Data: map[string]interface{}{
			"encounter_id":   encounterID,
			"from_user_id":   fromUserID,
			"target_user_id": targetUserID,
			"location":       location,
		},
		OccurredAt: at,
	}
}

// NewMatchConfirmed builds the event published when either participant
// confirms a match; both participants are notified.
func NewMatchConfirmed(encounterID, userID1, userID2 string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeMatchConfirmed,
		Data: map[string]interface{}{
			"encounter_id": encounterID,
			"user_id_1":    userID1,
			"user_id_2":    userID2,
		},
		OccurredAt: at,
	}
}
