package nats

import (
	"encoding/json"
	"testing"
	"time"

	"machinaka-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEventPreservesOccurrenceTime(t *testing.T) {
	at := time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC)
	event := events.NewEncounterDetected("enc-1", "alice", "bob", map[string]interface{}{
		"latitude": 35.6595,
	}, at)

	// The wire shape the publisher sends.
	data, err := json.Marshal(events.BaseEvent{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	require.NoError(t, err)

	decoded, err := decodeEvent("events.ENCOUNTER_DETECTED", data)
	require.NoError(t, err)

	assert.Equal(t, events.TypeEncounterDetected, decoded.EventType())
	assert.True(t, decoded.Timestamp().Equal(at), "timestamp must be the detection time, not receive time")
	assert.Equal(t, "alice", decoded.Payload()["from_user_id"])
	assert.Equal(t, "bob", decoded.Payload()["target_user_id"])
}

func TestDecodeEventBarePayloadFallsBack(t *testing.T) {
	data, err := json.Marshal(map[string]interface{}{
		"encounter_id": "enc-2",
		"from_user_id": "alice",
	})
	require.NoError(t, err)

	decoded, err := decodeEvent("events.ENCOUNTER_DETECTED", data)
	require.NoError(t, err)

	assert.Equal(t, events.TypeEncounterDetected, decoded.EventType())
	assert.Equal(t, "enc-2", decoded.Payload()["encounter_id"])
	assert.False(t, decoded.Timestamp().IsZero())
}

func TestDecodeEventRejectsMalformedData(t *testing.T) {
	_, err := decodeEvent("events.ENCOUNTER_DETECTED", []byte("not json"))
	assert.Error(t, err)
}
