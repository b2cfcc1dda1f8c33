package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"machinaka-be/pkg/scanner"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Proximity ProximityConfig
	Scanner   ScannerConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection string
}

type ProximityConfig struct {
	ThresholdMeters    float64
	PresenceTTLSeconds int
	HistoryMaxLimit    int
}

type ScannerConfig struct {
	RetentionMs   int
	RSSIThreshold int
}

// FilterConfig converts the env tunables into the proximity filter's settings.
func (s ScannerConfig) FilterConfig() scanner.Config {
	threshold := s.RSSIThreshold
	return scanner.Config{
		Retention:     time.Duration(s.RetentionMs) * time.Millisecond,
		RSSIThreshold: &threshold,
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Proximity: ProximityConfig{
			ThresholdMeters:    getEnvAsFloat("PROXIMITY_THRESHOLD_METERS", 50),
			PresenceTTLSeconds: getEnvAsInt("PRESENCE_TTL_SECONDS", 300),
			HistoryMaxLimit:    getEnvAsInt("HISTORY_MAX_LIMIT", 50),
		},
		Scanner: ScannerConfig{
			RetentionMs:   getEnvAsInt("SCAN_RETENTION_MS", 5000),
			RSSIThreshold: getEnvAsInt("RSSI_THRESHOLD", -60),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
