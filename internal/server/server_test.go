package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"machinaka-be/internal/bootstrap"
	"machinaka-be/internal/config"
	"machinaka-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogFilePath:        t.TempDir() + "/app.log",
			CorsAllowedOrigins: "*",
		},
		Proximity: config.ProximityConfig{
			ThresholdMeters:    50,
			PresenceTTLSeconds: 300,
			HistoryMaxLimit:    50,
		},
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := testConfig(t)
	container := bootstrap.NewContainer(nil, cfg)
	return New(cfg, container).GetApp()
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(raw, &env)
	return resp, env
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.False(t, health.Timestamp.IsZero())
}

func TestUserRegistrationFlow(t *testing.T) {
	app := newTestApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/api/users/register", map[string]interface{}{
		"username": "yuki",
		"age":      24,
		"gender":   "female",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	var created dto.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotNil(t, created.User)
	assert.Equal(t, "yuki", created.User.Username)

	resp, env = doJSON(t, app, http.MethodGet, "/api/users/"+created.User.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Validation failures come back as 400.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/users/register", map[string]interface{}{
		"username": "too-young",
		"age":      15,
		"gender":   "male",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/users/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEncounterFlow(t *testing.T) {
	app := newTestApp(t)

	location := map[string]interface{}{
		"latitude":   35.6595,
		"longitude":  139.7005,
		"place_type": "station",
	}
	nearby := map[string]interface{}{
		"latitude":  35.6596,
		"longitude": 139.7005,
	}

	// Bob reports his position, then alice walks by.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/encounters/location", map[string]interface{}{
		"user_id":  "bob",
		"location": nearby,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := doJSON(t, app, http.MethodPost, "/api/encounters/proximity", map[string]interface{}{
		"user_id":   "alice",
		"device_id": "device-a",
		"location":  location,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var proximity dto.ReportProximityResponse
	require.NoError(t, json.Unmarshal(env.Data, &proximity))
	assert.Equal(t, 1, proximity.NearbyCount)
	require.Len(t, proximity.Encounters, 1)
	encounterID := proximity.Encounters[0].ID.String()

	// Both sides see the encounter in their history.
	for _, user := range []string{"alice", "bob"} {
		resp, env = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/encounters/history/%s?limit=10", user), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var history dto.HistoryResponse
		require.NoError(t, json.Unmarshal(env.Data, &history))
		assert.EqualValues(t, 1, history.Total)
	}

	// An outsider cannot confirm.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/encounters/match", map[string]interface{}{
		"encounter_id": encounterID,
		"user_id":      "mallory",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A participant can.
	resp, env = doJSON(t, app, http.MethodPost, "/api/encounters/match", map[string]interface{}{
		"encounter_id": encounterID,
		"user_id":      "bob",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var confirmed dto.ConfirmMatchResponse
	require.NoError(t, json.Unmarshal(env.Data, &confirmed))
	require.NotNil(t, confirmed.Encounter)
	assert.True(t, confirmed.Encounter.IsMatched)

	// Unknown encounter is a 404.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/encounters/match", map[string]interface{}{
		"encounter_id": "7b0d1a3e-9f1c-4a6b-8d2e-5c4f3b2a1d0e",
		"user_id":      "bob",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, env = doJSON(t, app, http.MethodGet, "/api/encounters/active-users", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var active dto.ActiveUsersResponse
	require.NoError(t, json.Unmarshal(env.Data, &active))
	assert.Equal(t, 2, active.ActiveUsers)
}

func TestProximityRejectsBadCoordinates(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/encounters/proximity", map[string]interface{}{
		"user_id":   "alice",
		"device_id": "device-a",
		"location": map[string]interface{}{
			"latitude":  95.0,
			"longitude": 139.7005,
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
