// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable; durations are expressed in the unit their name
// states (minutes for the access token, days for the refresh token and the
// rotation threshold).
type Config struct {
	Env                 string // application environment (e.g. "dev", "prod")
	Port                string // HTTP port to listen on
	DBUser              string // database username
	DBPass              string // database password (optional)
	DBHost              string // database host address
	DBPort              string // database port number
	DBName              string // database name
	RabbitURL           string // AMQP connection string (optional; publishing disabled when empty)
	EventQueue          string // queue the auth events are published to
	LogLevel            string // minimum log level ("debug", "info", "warn", "error")
	JWTSecret           string // secret used to sign JWTs
	AccessTTLMin        int    // access token time-to-live in minutes
	RefreshTTLDays      int    // refresh token time-to-live in days
	RotateThresholdDays int    // remaining-lifetime threshold that triggers refresh rotation
	BcryptCost          int    // bcrypt cost for password hashing
}

// Load reads configuration from the environment, after loading a .env file
// when one is present. Required variables are enforced by must(); missing
// values exit with a fatal log message.
func Load() Config {
	// Best-effort: a missing .env just means real env vars are in charge.
	_ = godotenv.Load()

	return Config{
		Env:                 must("APP_ENV"),
		Port:                must("APP_PORT"),
		DBUser:              must("DB_USER"),
		DBPass:              os.Getenv("DB_PASS"),
		DBHost:              must("DB_HOST"),
		DBPort:              must("DB_PORT"),
		DBName:              must("DB_NAME"),
		RabbitURL:           os.Getenv("RABBITMQ_URL"),
		EventQueue:          envStr("EVENT_QUEUE", "auth.events"),
		LogLevel:            envStr("LOG_LEVEL", "info"),
		JWTSecret:           must("JWT_SECRET"),
		AccessTTLMin:        mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays:      mustInt("REFRESH_TOKEN_TTL_DAYS"),
		RotateThresholdDays: mustInt("ROTATE_THRESHOLD_DAYS"),
		BcryptCost:          mustInt("BCRYPT_COST"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
