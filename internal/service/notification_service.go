package service

import (
	"context"
	"encoding/json"

	"machinaka-be/internal/dto"
	"machinaka-be/internal/model"
	"machinaka-be/internal/pkg/logger"
	"machinaka-be/pkg/events"
	pktNats "machinaka-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
)

// WebSocket event names pushed to connected clients.
const (
	WsEventEncounter = "encounter-notification"
	WsEventMatch     = "match-success"
)

// NotificationRouter delivers a frame to the named users and reports how
// many were reachable. The websocket hub implements it.
type NotificationRouter interface {
	Deliver(targetUserIDs []string, event string, data interface{}) int
}

// NotificationService turns domain events into websocket pushes. Delivery is
// best effort: a user with no live connection is skipped, never queued.
type NotificationService struct {
	router NotificationRouter
	logger logger.ILogger
}

func NewNotificationService(router NotificationRouter, log logger.ILogger) *NotificationService {
	return &NotificationService{router: router, logger: log}
}

// StartLocal consumes the in-process watermill bus until ctx is cancelled.
func (s *NotificationService) StartLocal(ctx context.Context, subscriber message.Subscriber) error {
	messages, err := subscriber.Subscribe(ctx, TopicEvents)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var envelope events.BaseEvent
			if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
				s.logger.Error("NotificationService", "Malformed event envelope", map[string]interface{}{
					"error": err,
				})
				msg.Ack()
				continue
			}
			// Delivery misses are not failures, so always ack.
			_ = s.HandleEvent(msg.Context(), envelope)
			msg.Ack()
		}
	}()

	s.logger.Info("NotificationService", "Consuming local event bus", nil)
	return nil
}

// StartNats consumes the cluster-wide JetStream feed. The shared durable
// means each event is routed by exactly one instance; the hub's cluster
// relay carries the frame to whichever instance holds the socket.
func (s *NotificationService) StartNats(subscriber *pktNats.Subscriber) error {
	return subscriber.Subscribe("events.>", "notif-service-worker", s.HandleEvent)
}

// HandleEvent routes a single event to its target users.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	switch event.EventType() {
	case events.TypeEncounterDetected:
		s.handleEncounterDetected(event)
	case events.TypeMatchConfirmed:
		s.handleMatchConfirmed(event)
	default:
		s.logger.Debug("NotificationService", "Ignoring event", map[string]interface{}{
			"type": event.EventType(),
		})
	}
	return nil
}

func (s *NotificationService) handleEncounterDetected(event events.Event) {
	data := event.Payload()
	targetUserID := stringField(data, "target_user_id")
	if targetUserID == "" {
		s.logger.Warn("NotificationService", "Encounter event missing target", map[string]interface{}{
			"payload": data,
		})
		return
	}

	payload := dto.EncounterNotification{
		Type:       "proximity",
		FromUserID: stringField(data, "from_user_id"),
		Timestamp:  event.Timestamp(),
		Location:   locationField(data, "location"),
	}

	delivered := s.router.Deliver([]string{targetUserID}, WsEventEncounter, payload)
	if delivered == 0 {
		s.logger.Debug("NotificationService", "Target offline, notification dropped", map[string]interface{}{
			"target_user_id": targetUserID,
			"encounter_id":   stringField(data, "encounter_id"),
		})
	}
}

func (s *NotificationService) handleMatchConfirmed(event events.Event) {
	data := event.Payload()
	targets := make([]string, 0, 2)
	for _, key := range []string{"user_id_1", "user_id_2"} {
		if id := stringField(data, key); id != "" {
			targets = append(targets, id)
		}
	}
	if len(targets) == 0 {
		s.logger.Warn("NotificationService", "Match event missing participants", map[string]interface{}{
			"payload": data,
		})
		return
	}

	payload := dto.MatchNotification{
		EncounterID: stringField(data, "encounter_id"),
		Timestamp:   event.Timestamp(),
	}

	delivered := s.router.Deliver(targets, WsEventMatch, payload)
	s.logger.Info("NotificationService", "Match notifications routed", map[string]interface{}{
		"encounter_id": payload.EncounterID,
		"delivered":    delivered,
	})
}

func stringField(data map[string]interface{}, key string) string {
	v, _ := data[key].(string)
	return v
}

func floatField(data map[string]interface{}, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// locationField tolerates both the in-process map and the JSON-decoded map
// coming off the wire.
func locationField(data map[string]interface{}, key string) model.GeoPoint {
	raw, _ := data[key].(map[string]interface{})
	if raw == nil {
		return model.GeoPoint{}
	}
	return model.GeoPoint{
		Latitude:  floatField(raw, "latitude"),
		Longitude: floatField(raw, "longitude"),
		Address:   stringField(raw, "address"),
		PlaceType: stringField(raw, "place_type"),
	}
}
