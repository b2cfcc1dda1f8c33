package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"machinaka-be/internal/config"
	"machinaka-be/pkg/scanner"
)

// Simulated radio environment: a handful of peer devices drifting in and out
// of range around a fixed spot in Shibuya.
const (
	baseLatitude  = 35.6595
	baseLongitude = 139.7005
)

type simulatedSource struct {
	deviceIDs []string
	interval  time.Duration
}

// Observations emits one randomized signal per tick. Weak readings below the
// filter threshold appear too, so the filter has something to reject.
func (s *simulatedSource) Observations(ctx context.Context) (<-chan scanner.DeviceSignal, error) {
	out := make(chan scanner.DeviceSignal)
	go func() {
		defer close(out)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rssi := -30 - rand.Intn(60) // -30 .. -89 dBm
				signal := scanner.DeviceSignal{
					DeviceID:       s.deviceIDs[rand.Intn(len(s.deviceIDs))],
					SignalStrength: &rssi,
					ObservedAt:     time.Now(),
				}
				select {
				case out <- signal:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

type proximityReport struct {
	UserID         string       `json:"user_id"`
	DeviceID       string       `json:"device_id"`
	Location       locationBody `json:"location"`
	SignalStrength *int         `json:"signal_strength,omitempty"`
}

type locationBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	PlaceType string  `json:"place_type,omitempty"`
}

func main() {
	serverURL := flag.String("server", "http://localhost:3000", "backend base URL")
	userID := flag.String("user", "sim-user-1", "user id to report as")
	deviceID := flag.String("device", "sim-device-1", "own device id")
	peers := flag.Int("peers", 4, "number of simulated peer devices")
	reportEvery := flag.Duration("report-every", 3*time.Second, "proximity report interval")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deviceIDs := make([]string, 0, *peers)
	for i := 0; i < *peers; i++ {
		deviceIDs = append(deviceIDs, fmt.Sprintf("peer-device-%d", i+1))
	}

	// SCAN_RETENTION_MS and RSSI_THRESHOLD tune the filter.
	cfg := config.Load()
	filter := scanner.NewFilter(cfg.Scanner.FilterConfig())
	source := &simulatedSource{deviceIDs: deviceIDs, interval: 500 * time.Millisecond}
	go func() {
		if err := filter.Run(ctx, source); err != nil && ctx.Err() == nil {
			log.Printf("scanner stopped: %v", err)
		}
	}()

	client := &http.Client{Timeout: 5 * time.Second}
	ticker := time.NewTicker(*reportEvery)
	defer ticker.Stop()

	log.Printf("radar-sim reporting as %s (%s) to %s", *userID, *deviceID, *serverURL)
	for {
		select {
		case <-ctx.Done():
			log.Println("radar-sim stopped")
			return
		case <-ticker.C:
			candidates := filter.Candidates(time.Now())
			rssi := -40 - rand.Intn(20)
			report := proximityReport{
				UserID:   *userID,
				DeviceID: *deviceID,
				Location: locationBody{
					// Jitter of roughly +-20m around the base point.
					Latitude:  baseLatitude + (rand.Float64()-0.5)*0.0004,
					Longitude: baseLongitude + (rand.Float64()-0.5)*0.0004,
					PlaceType: "station",
				},
				SignalStrength: &rssi,
			}
			if err := postReport(ctx, client, *serverURL, report); err != nil {
				log.Printf("report failed: %v", err)
				continue
			}
			log.Printf("reported: %d nearby device(s) in scan window", len(candidates))
		}
	}
}

func postReport(ctx context.Context, client *http.Client, serverURL string, report proximityReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+"/api/encounters/proximity", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
