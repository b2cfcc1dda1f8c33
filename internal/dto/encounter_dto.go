package dto

import (
	"time"

	"machinaka-be/internal/model"
)

type LocationPayload struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Address   string  `json:"address,omitempty"`
	PlaceType string  `json:"place_type,omitempty" validate:"omitempty,oneof=cafe library station park other"`
}

func (p LocationPayload) ToModel() model.GeoPoint {
	return model.GeoPoint{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Address:   p.Address,
		PlaceType: p.PlaceType,
	}
}

type ReportLocationRequest struct {
	UserID   string          `json:"user_id" validate:"required"`
	Location LocationPayload `json:"location" validate:"required"`
}

type ReportLocationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ReportProximityRequest struct {
	UserID         string          `json:"user_id" validate:"required"`
	DeviceID       string          `json:"device_id" validate:"required"`
	Location       LocationPayload `json:"location" validate:"required"`
	SignalStrength *int            `json:"signal_strength,omitempty"`
}

type ReportProximityResponse struct {
	Success     bool              `json:"success"`
	Encounters  []model.Encounter `json:"encounters"`
	NearbyCount int               `json:"nearby_count"`
}

type HistoryResponse struct {
	Encounters []model.Encounter `json:"encounters"`
	Total      int64             `json:"total"`
}

type ConfirmMatchRequest struct {
	EncounterID string `json:"encounter_id" validate:"required,uuid4"`
	UserID      string `json:"user_id" validate:"required"`
}

type ConfirmMatchResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Encounter *model.Encounter `json:"encounter"`
}

type ActiveUsersResponse struct {
	ActiveUsers int `json:"active_users"`
}

// EncounterNotification is pushed to each counterpart of a fresh detection.
type EncounterNotification struct {
	Type       string         `json:"type"`
	FromUserID string         `json:"from_user_id"`
	Timestamp  time.Time      `json:"timestamp"`
	Location   model.GeoPoint `json:"location"`
}

// MatchNotification is pushed to both participants on confirmation.
type MatchNotification struct {
	EncounterID string    `json:"encounter_id"`
	Timestamp   time.Time `json:"timestamp"`
}
