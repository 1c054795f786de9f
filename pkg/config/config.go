// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	// Shopify app registration
	APIKey     string
	APISecret  string
	Scopes     string
	APIVersion string

	// Externally reachable base URL of this app (redirect_uri host)
	BasePublicURL string

	// Credential store backends (postgres preferred, then redis, else memory)
	RedisURL    string
	DatabaseURL string

	// Handshake / export tuning
	StateTTL       time.Duration
	ExportMaxPages int
	PageTimeout    time.Duration

	// Require App Bridge session tokens on /api routes
	RequireSessionToken bool

	// Optional YAML seed of shop credentials for dev
	CredentialSeedFile string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:                 env("RAINDOOR_ENV", "dev"),
		HTTPAddr:            env("RAINDOOR_HTTP_ADDR", ":3000"),
		APIKey:              env("SHOPIFY_API_KEY", ""),
		APISecret:           env("SHOPIFY_API_SECRET", ""),
		Scopes:              env("SCOPES", "read_products"),
		APIVersion:          env("SHOPIFY_API_VERSION", "2024-01"),
		BasePublicURL:       env("BASE_PUBLIC_URL", "http://localhost:3000"),
		RedisURL:            env("REDIS_URL", ""),
		DatabaseURL:         env("DATABASE_URL", ""),
		StateTTL:            envDur("STATE_TTL_SEC", 600) * time.Second,
		ExportMaxPages:      envInt("EXPORT_MAX_PAGES", 200),
		PageTimeout:         envDur("EXPORT_PAGE_TIMEOUT_SEC", 30) * time.Second,
		RequireSessionToken: envBool("REQUIRE_SESSION_TOKEN", false),
		CredentialSeedFile:  env("CREDENTIAL_SEED_FILE", ""),
	}
	if cfg.DatabaseURL == "" && cfg.RedisURL == "" {
		log.Println("[WARN] neither DATABASE_URL nor REDIS_URL set — using in-memory credential store for dev")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		b, _ := strconv.ParseBool(v)
		return b
	}
	return def
}
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		i, _ := strconv.Atoi(v)
		return i
	}
	return def
}
func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, _ := strconv.Atoi(v)
		return time.Duration(i)
	}
	return time.Duration(def)
}
