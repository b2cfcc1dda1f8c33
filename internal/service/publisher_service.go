package service

import (
	"context"
	"encoding/json"
	"fmt"

	"machinaka-be/pkg/events"
	pktNats "machinaka-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// TopicEvents is the in-process topic all domain events go through.
const TopicEvents = "encounter_events"

type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

// localPublisherService pushes events onto the in-process watermill bus.
// Used when no NATS cluster is configured, which is the single-instance
// deployment default.
type localPublisherService struct {
	publisher message.Publisher
}

func NewLocalPublisherService(publisher message.Publisher) IPublisherService {
	return &localPublisherService{publisher: publisher}
}

func (s *localPublisherService) Publish(ctx context.Context, event events.Event) error {
	envelope := events.BaseEvent{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return s.publisher.Publish(TopicEvents, msg)
}

// natsPublisherService exports events to JetStream so a shared durable
// consumer processes each event exactly once across the cluster.
type natsPublisherService struct {
	publisher *pktNats.Publisher
}

func NewNatsPublisherService(publisher *pktNats.Publisher) IPublisherService {
	return &natsPublisherService{publisher: publisher}
}

func (s *natsPublisherService) Publish(ctx context.Context, event events.Event) error {
	return s.publisher.Publish(ctx, event)
}
