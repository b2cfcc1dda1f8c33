package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hubNopLogger struct{}

func (hubNopLogger) Debug(string, string, map[string]interface{}) {}
func (hubNopLogger) Info(string, string, map[string]interface{})  {}
func (hubNopLogger) Warn(string, string, map[string]interface{})  {}
func (hubNopLogger) Error(string, string, map[string]interface{}) {}
func (hubNopLogger) Sync() error                                  { return nil }

func newTestClient(hub *Hub, userID string) *Client {
	return &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
}

func TestBindSupersedesEarlierConnection(t *testing.T) {
	hub := NewHub(nil, hubNopLogger{})

	c1 := newTestClient(hub, "alice")
	c2 := newTestClient(hub, "alice")
	hub.Bind(c1)
	hub.Bind(c2)

	assert.Same(t, c2, hub.Lookup("alice"))

	// The superseded channel is closed so its writer exits.
	_, open := <-c1.Send
	assert.False(t, open)
}

func TestStaleUnbindIsNoOp(t *testing.T) {
	hub := NewHub(nil, hubNopLogger{})

	c1 := newTestClient(hub, "alice")
	c2 := newTestClient(hub, "alice")
	hub.Bind(c1)
	hub.Bind(c2)

	// The superseded connection disconnects late; the live binding survives.
	hub.Unbind(c1)
	assert.Same(t, c2, hub.Lookup("alice"))

	hub.Unbind(c2)
	assert.Nil(t, hub.Lookup("alice"))
}

func TestDeliverCountsOnlyLiveTargets(t *testing.T) {
	hub := NewHub(nil, hubNopLogger{})

	alice := newTestClient(hub, "alice")
	bob := newTestClient(hub, "bob")
	hub.Bind(alice)
	hub.Bind(bob)

	delivered := hub.Deliver([]string{"alice", "bob", "carol"}, "match-success", map[string]string{
		"encounter_id": "enc-1",
	})
	assert.Equal(t, 2, delivered)

	frame := <-alice.Send
	var decoded struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &decoded))
	assert.Equal(t, "match-success", decoded.Type)
	assert.Equal(t, "enc-1", decoded.Data["encounter_id"])
}

func TestDeliverDropsConnectionWithFullBuffer(t *testing.T) {
	hub := NewHub(nil, hubNopLogger{})

	// Buffer of one with nothing draining it.
	stuck := &Client{Hub: hub, UserID: "alice", Send: make(chan []byte, 1)}
	hub.Bind(stuck)

	delivered := hub.Deliver([]string{"alice"}, "encounter-notification", "first")
	assert.Equal(t, 1, delivered)

	delivered = hub.Deliver([]string{"alice"}, "encounter-notification", "second")
	assert.Zero(t, delivered)
	assert.Nil(t, hub.Lookup("alice"))
}
