package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"machinaka-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// Hub owns the user-to-connection registry. A user has at most one live
// client at any instant: a later Bind for the same user supersedes the
// earlier one, and Unbind only removes the mapping when the caller still
// holds the currently-bound client (a stale unbind is a no-op).
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	// Optional Redis connection for cross-instance delivery.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rdb:     rdb,
		logger:  log,
	}
}

// Run starts the cross-instance subscriber when Redis is configured. The
// registry itself needs no event loop; Bind/Unbind are direct calls.
func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToCluster()
	}
}

// Bind registers the client as the single live channel for its user.
// Any previously bound client is dereferenced; its send channel is closed so
// its writer shuts down, but its own disconnect will be a stale no-op.
func (h *Hub) Bind(client *Client) {
	h.mu.Lock()
	prev := h.clients[client.UserID]
	h.clients[client.UserID] = client
	if prev != nil {
		close(prev.Send)
	}
	h.mu.Unlock()

	if prev != nil {
		h.logger.Info("Hub", "Superseded earlier connection", map[string]interface{}{"user_id": client.UserID})
	}
	h.logger.Info("Hub", "Client bound", map[string]interface{}{"user_id": client.UserID})
}

// Unbind removes the mapping only if the given client is the one currently
// bound. A late disconnect from a superseded connection must never evict a
// newer one.
func (h *Hub) Unbind(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.UserID]
	if ok && current == client {
		delete(h.clients, client.UserID)
		close(client.Send)
		h.mu.Unlock()
		h.logger.Info("Hub", "Client unbound", map[string]interface{}{"user_id": client.UserID})
		return
	}
	h.mu.Unlock()
}

// Lookup returns the live client for a user, or nil.
func (h *Hub) Lookup(userID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[userID]
}

// Deliver pushes an event frame to every target that has a live channel and
// returns how many writes landed. Offline targets are skipped silently;
// delivery is best-effort and at-most-once per target.
func (h *Hub) Deliver(targetUserIDs []string, event string, data interface{}) int {
	frame, err := json.Marshal(map[string]interface{}{
		"type": event,
		"data": data,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode event frame", map[string]interface{}{"event": event, "error": err})
		return 0
	}

	delivered := 0
	for _, userID := range targetUserIDs {
		if h.sendLocal(userID, frame) {
			delivered++
		} else if h.rdb != nil {
			// The user may be connected to another instance.
			h.publishToCluster(userID, frame)
		}
	}
	return delivered
}

func (h *Hub) sendLocal(userID string, frame []byte) bool {
	// The write happens under the read lock so Bind/Unbind cannot close the
	// channel mid-send; the select never blocks, so the lock is held briefly.
	h.mu.RLock()
	client, ok := h.clients[userID]
	if !ok {
		h.mu.RUnlock()
		return false
	}

	select {
	case client.Send <- frame:
		h.mu.RUnlock()
		return true
	default:
		h.mu.RUnlock()
		h.logger.Warn("Hub", "Send buffer full, dropping connection", map[string]interface{}{"user_id": userID})
		h.Unbind(client)
		return false
	}
}

func (h *Hub) publishToCluster(userID string, frame []byte) {
	payload, _ := json.Marshal(map[string]interface{}{
		"target_user_id": userID,
		"message":        json.RawMessage(frame),
	})
	if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Cluster publish failed", map[string]interface{}{"user_id": userID, "error": err})
	}
}

func (h *Hub) subscribeToCluster() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Bad cluster payload", map[string]interface{}{"error": err})
			continue
		}
		h.sendLocal(payload.TargetUserID, payload.Message)
	}
}
