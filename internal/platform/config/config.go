// Package config builds runtime configuration from environment variables so
// main stays lean. Unset optional backends (Postgres, Redis, Kafka) select
// in-memory fallbacks suitable for the demo.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr string

	// Identity verification API.
	VerifierBaseURL string
	VerifierAPIKey  string
	VerifierTimeout time.Duration

	// Backing stores. Empty values select in-memory implementations.
	PostgresDSN  string
	RedisURL     string
	KafkaBrokers []string
	KafkaTopic   string

	// Origins allowed to submit action requests.
	AllowedOrigins []string

	JWTSigningKey string

	// Twilio credentials. When any is missing, SMS dispatch is simulated.
	TwilioAPIKeySID    string
	TwilioAPIKeySecret string
	TwilioAccountSID   string
	TwilioFromNumber   string

	// DemoMode permits the bot-detection override flag on SMS requests.
	DemoMode bool
}

// FromEnv reads configuration from the environment.
func FromEnv() Config {
	cfg := Config{
		Addr:            envOr("FRAUDGUARD_ADDR", ":8080"),
		VerifierBaseURL: envOr("VERIFIER_BASE_URL", "https://api.fpjs.io"),
		VerifierAPIKey:  os.Getenv("VERIFIER_API_KEY"),
		VerifierTimeout: envDurationOr("VERIFIER_TIMEOUT", 5*time.Second),
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		RedisURL:        os.Getenv("REDIS_URL"),
		KafkaTopic:      os.Getenv("KAFKA_TOPIC"),
		JWTSigningKey:   envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		DemoMode:        os.Getenv("DEMO_MODE") == "true",

		TwilioAPIKeySID:    os.Getenv("TWILIO_API_KEY_SID"),
		TwilioAPIKeySecret: os.Getenv("TWILIO_API_KEY_SECRET"),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioFromNumber:   os.Getenv("TWILIO_FROM_NUMBER"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitAndTrim(origins)
	} else {
		cfg.AllowedOrigins = []string{
			"http://localhost:3000",
			"https://localhost:3000",
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
