package scanner

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultRetention is how long an observation counts as "still nearby".
	DefaultRetention = 5000 * time.Millisecond

	// DefaultRSSIThreshold filters out weak (far away) signals. Less negative
	// means closer, so a candidate must be strictly greater than this.
	DefaultRSSIThreshold = -60
)

// DeviceSignal is a single observation emitted by a discovery source.
// The device id is opaque; it is never correlated to a user identity here.
type DeviceSignal struct {
	DeviceID       string    `json:"device_id"`
	SignalStrength *int      `json:"signal_strength,omitempty"` // dBm-like units, nil if the radio does not report it
	ObservedAt     time.Time `json:"observed_at"`
}

// Source is an abstract discovery mechanism. A real implementation wraps the
// platform radio; tests and the radar-sim command inject their own. A source
// that emits nothing is the valid "nothing nearby" state, not an error.
type Source interface {
	// Observations delivers discovery events until ctx is cancelled.
	// The source closes the channel when it stops.
	Observations(ctx context.Context) (<-chan DeviceSignal, error)
}

// Config tunes the proximity filter.
type Config struct {
	// Retention is the window in which an observation keeps a device a candidate.
	Retention time.Duration

	// RSSIThreshold, when non-nil, drops devices whose most recent signal
	// strength is not strictly greater than it.
	RSSIThreshold *int
}

// DefaultConfig returns the filter settings used by the mobile client.
func DefaultConfig() Config {
	threshold := DefaultRSSIThreshold
	return Config{
		Retention:     DefaultRetention,
		RSSIThreshold: &threshold,
	}
}

// Filter deduplicates raw device signals into the current candidate set.
// It holds the most recent observation per device and purges stale entries
// lazily on each Candidates call.
type Filter struct {
	mu      sync.Mutex
	cfg     Config
	signals map[string]DeviceSignal
}

func NewFilter(cfg Config) *Filter {
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	return &Filter{
		cfg:     cfg,
		signals: make(map[string]DeviceSignal),
	}
}

// Observe records a discovery event, replacing any earlier observation of the
// same device.
func (f *Filter) Observe(deviceID string, signalStrength *int, now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals[deviceID] = DeviceSignal{
		DeviceID:       deviceID,
		SignalStrength: signalStrength,
		ObservedAt:     now,
	}
}

// Candidates returns the ids of devices whose most recent observation is
// within the retention window and, when an RSSI threshold is configured,
// strictly stronger than it. Expired observations are purged as a side effect.
func (f *Filter) Candidates(now time.Time) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	candidates := make([]string, 0, len(f.signals))
	for id, sig := range f.signals {
		if now.Sub(sig.ObservedAt) > f.cfg.Retention {
			delete(f.signals, id)
			continue
		}
		if f.cfg.RSSIThreshold != nil && sig.SignalStrength != nil && *sig.SignalStrength <= *f.cfg.RSSIThreshold {
			continue
		}
		candidates = append(candidates, id)
	}
	return candidates
}

// Run consumes a source and feeds the filter until ctx is cancelled.
func (f *Filter) Run(ctx context.Context, src Source) error {
	obs, err := src.Observations(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-obs:
			if !ok {
				return nil
			}
			f.Observe(sig.DeviceID, sig.SignalStrength, sig.ObservedAt)
		}
	}
}
