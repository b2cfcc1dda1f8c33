package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 50.0, cfg.Proximity.ThresholdMeters)
	assert.Equal(t, 300, cfg.Proximity.PresenceTTLSeconds)
	assert.Equal(t, 50, cfg.Proximity.HistoryMaxLimit)
	assert.Equal(t, 5000, cfg.Scanner.RetentionMs)
	assert.Equal(t, -60, cfg.Scanner.RSSIThreshold)
}

func TestLoadScannerTunablesFromEnv(t *testing.T) {
	t.Setenv("SCAN_RETENTION_MS", "2500")
	t.Setenv("RSSI_THRESHOLD", "-75")

	cfg := Load()
	assert.Equal(t, 2500, cfg.Scanner.RetentionMs)
	assert.Equal(t, -75, cfg.Scanner.RSSIThreshold)

	filterCfg := cfg.Scanner.FilterConfig()
	assert.Equal(t, 2500*time.Millisecond, filterCfg.Retention)
	require.NotNil(t, filterCfg.RSSIThreshold)
	assert.Equal(t, -75, *filterCfg.RSSIThreshold)
}

func TestLoadProximityTunablesFromEnv(t *testing.T) {
	t.Setenv("PROXIMITY_THRESHOLD_METERS", "25.5")
	t.Setenv("PRESENCE_TTL_SECONDS", "120")
	t.Setenv("HISTORY_MAX_LIMIT", "10")

	cfg := Load()
	assert.Equal(t, 25.5, cfg.Proximity.ThresholdMeters)
	assert.Equal(t, 120, cfg.Proximity.PresenceTTLSeconds)
	assert.Equal(t, 10, cfg.Proximity.HistoryMaxLimit)
}
