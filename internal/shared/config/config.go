package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	AppName           string
	AppURL            string
	Port              string
	CORSAllowOrigin   []string
	DatabaseURL       string
	Env               string
	ShopifyAPIKey     string
	ShopifyAPISecret  string
	ShopifyScopes     string
	ShopifyAPIVersion string
	SyncPageSize      int
	UIRedirectURL     string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		AppName:           getEnv("APP_NAME", "SmartRecommend Lite"),
		AppURL:            getEnv("SHOPIFY_APP_URL", "http://localhost:8080"),
		Port:              getEnv("PORT", "8080"),
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:       dbURL,
		Env:               env,
		ShopifyAPIKey:     getEnv("SHOPIFY_API_KEY", ""),
		ShopifyAPISecret:  getEnv("SHOPIFY_API_SECRET", ""),
		ShopifyScopes:     getEnv("SHOPIFY_SCOPES", "read_products,read_orders,read_customers,write_script_tags"),
		ShopifyAPIVersion: getEnv("SHOPIFY_API_VERSION", "2024-01"),
		SyncPageSize:      getEnvInt("SYNC_PAGE_SIZE", 250),
		UIRedirectURL:     getEnv("UI_REDIRECT_URL", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config env %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
