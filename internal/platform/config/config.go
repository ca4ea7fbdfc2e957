package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything the server needs from the environment so main
// stays lean. Handles are constructed once in cmd/server and passed down
// explicitly; nothing in this package is a process-global.
type Config struct {
	Addr string

	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// PostgresDSN selects the postgres-backed stores when set; the in-memory
	// stores are used otherwise (dev and tests).
	PostgresDSN string

	// RedisURL enables the news response cache when set.
	RedisURL string

	NewsAPIKey     string
	NewsAPIBaseURL string
	NewsCacheTTL   time.Duration

	RequestTimeout time.Duration
}

// FromEnv reads an optional .env file and then builds the config from the
// environment. Missing optional values fall back to dev defaults.
func FromEnv() Config {
	// .env is a dev convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := Config{
		Addr:           getEnv("VENDORHUB_ADDR", ":8080"),
		JWTSigningKey:  getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:      getEnv("JWT_ISSUER", "vendorhub"),
		JWTAudience:    getEnv("JWT_AUDIENCE", "vendorhub-admin"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		RedisURL:       os.Getenv("REDIS_URL"),
		NewsAPIKey:     os.Getenv("NEWS_API_KEY"),
		NewsAPIBaseURL: getEnv("NEWS_API_BASE_URL", "https://newsapi.org/v2"),
		NewsCacheTTL:   5 * time.Minute,
		RequestTimeout: 30 * time.Second,
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
