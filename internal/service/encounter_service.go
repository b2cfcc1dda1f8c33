package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"machinaka-be/internal/model"
	"machinaka-be/internal/pkg/logger"
	"machinaka-be/internal/repository/contract"
	"machinaka-be/pkg/events"
	"machinaka-be/pkg/geo"

	"github.com/google/uuid"
)

// Domain failure conditions, mapped to HTTP statuses at the controller.
var (
	ErrInvalidLocation   = errors.New("invalid location")
	ErrEncounterNotFound = errors.New("encounter not found")
	ErrNotParticipant    = errors.New("user is not a participant of this encounter")
)

const (
	// DefaultProximityThresholdMeters is how close two fresh presence entries
	// must be to count as an encounter. The boundary is inclusive.
	DefaultProximityThresholdMeters = 50.0

	// DefaultHistoryMaxLimit caps a single history page.
	DefaultHistoryMaxLimit = 50
)

type EncounterConfig struct {
	ProximityThresholdMeters float64
	HistoryMaxLimit          int
}

func (c EncounterConfig) withDefaults() EncounterConfig {
	if c.ProximityThresholdMeters <= 0 {
		c.ProximityThresholdMeters = DefaultProximityThresholdMeters
	}
	if c.HistoryMaxLimit <= 0 {
		c.HistoryMaxLimit = DefaultHistoryMaxLimit
	}
	return c
}

type IEncounterService interface {
	// ReportLocation refreshes the reporter's presence without running detection.
	ReportLocation(ctx context.Context, userID string, location model.GeoPoint) error

	// ReportProximity refreshes the reporter's presence, then matches it
	// against every other fresh presence entry. One encounter row is created
	// per in-threshold counterpart; the returned count equals the number of
	// rows created.
	ReportProximity(ctx context.Context, userID, deviceID string, location model.GeoPoint, signalStrength *int) ([]model.Encounter, int, error)

	History(ctx context.Context, userID string, limit, offset int) ([]model.Encounter, int64, error)
	ConfirmMatch(ctx context.Context, encounterID uuid.UUID, userID string) (*model.Encounter, error)
	ActiveUsers(ctx context.Context) (int, error)
}

type encounterService struct {
	cfg        EncounterConfig
	presence   contract.PresenceRepository
	encounters contract.EncounterRepository
	publisher  IPublisherService
	logger     logger.ILogger

	// Serializes the presence-write + snapshot pair so two concurrent reports
	// from the same user cannot interleave. Both halves are bounded in-memory
	// work, so the lock is never held across network I/O.
	detectMu sync.Mutex
}

func NewEncounterService(
	cfg EncounterConfig,
	presence contract.PresenceRepository,
	encounters contract.EncounterRepository,
	publisher IPublisherService,
	log logger.ILogger,
) IEncounterService {
	return &encounterService{
		cfg:        cfg.withDefaults(),
		presence:   presence,
		encounters: encounters,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *encounterService) ReportLocation(ctx context.Context, userID string, location model.GeoPoint) error {
	if err := geo.Validate(location.Latitude, location.Longitude); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	return s.presence.Upsert(ctx, model.PresenceEntry{
		UserID:   userID,
		Location: location,
		LastSeen: time.Now(),
	})
}

func (s *encounterService) ReportProximity(ctx context.Context, userID, deviceID string, location model.GeoPoint, signalStrength *int) ([]model.Encounter, int, error) {
	// Reject before any state mutation.
	if err := geo.Validate(location.Latitude, location.Longitude); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}

	now := time.Now()
	s.logger.Debug("EncounterService", "Proximity report", map[string]interface{}{
		"user_id":         userID,
		"device_id":       deviceID,
		"signal_strength": signalStrength,
	})

	// Write own presence, then snapshot. The order guarantees a user never
	// matches their own just-written entry, and the lock keeps the pair
	// atomic for concurrent reports from the same user.
	s.detectMu.Lock()
	err := s.presence.Upsert(ctx, model.PresenceEntry{
		UserID:   userID,
		Location: location,
		LastSeen: now,
	})
	if err != nil {
		s.detectMu.Unlock()
		return nil, 0, err
	}
	snapshot, err := s.presence.Snapshot(ctx)
	s.detectMu.Unlock()
	if err != nil {
		return nil, 0, err
	}

	created := make([]model.Encounter, 0)
	for _, entry := range snapshot {
		if entry.UserID == userID {
			continue
		}

		distance := geo.Distance(
			location.Latitude, location.Longitude,
			entry.Location.Latitude, entry.Location.Longitude,
		)
		if distance > s.cfg.ProximityThresholdMeters {
			continue
		}

		encounter := model.Encounter{
			ID:             uuid.New(),
			UserID1:        userID,
			UserID2:        entry.UserID,
			Location:       location,
			DetectedAt:     now,
			DistanceMeters: distance,
			IsMatched:      false,
		}
		if err := s.encounters.Append(ctx, &encounter); err != nil {
			return nil, 0, err
		}
		created = append(created, encounter)

		s.publishEvent(ctx, events.NewEncounterDetected(
			encounter.ID.String(),
			userID,
			entry.UserID,
			locationPayload(location),
			now,
		))
	}

	return created, len(created), nil
}

func (s *encounterService) History(ctx context.Context, userID string, limit, offset int) ([]model.Encounter, int64, error) {
	if limit <= 0 || limit > s.cfg.HistoryMaxLimit {
		limit = s.cfg.HistoryMaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.encounters.HistoryByUser(ctx, userID, limit, offset)
}

func (s *encounterService) ConfirmMatch(ctx context.Context, encounterID uuid.UUID, userID string) (*model.Encounter, error) {
	encounter, err := s.encounters.FindByID(ctx, encounterID)
	if errors.Is(err, contract.ErrNotFound) {
		return nil, ErrEncounterNotFound
	}
	if err != nil {
		return nil, err
	}
	if !encounter.Involves(userID) {
		return nil, ErrNotParticipant
	}

	// Confirming twice is a no-op success.
	updated, err := s.encounters.MarkMatched(ctx, encounterID)
	if errors.Is(err, contract.ErrNotFound) {
		return nil, ErrEncounterNotFound
	}
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewMatchConfirmed(
		updated.ID.String(),
		updated.UserID1,
		updated.UserID2,
		time.Now(),
	))

	return updated, nil
}

func (s *encounterService) ActiveUsers(ctx context.Context) (int, error) {
	return s.presence.ActiveCount(ctx)
}

func (s *encounterService) publishEvent(ctx context.Context, event events.BaseEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("EncounterService", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err,
		})
	}
}

func locationPayload(location model.GeoPoint) map[string]interface{} {
	return map[string]interface{}{
		"latitude":   location.Latitude,
		"longitude":  location.Longitude,
		"address":    location.Address,
		"place_type": location.PlaceType,
	}
}
