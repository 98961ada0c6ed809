package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds the application configuration. It is built once at startup
// and injected into the components that need it; nothing reads the process
// environment after Load returns.
type Config struct {
	ServerPort   int
	DatabasePath string
	CORSOrigin   string

	// Session secrets. JWTSecret signs the session token itself,
	// CookieSecret signs the cookie envelope carrying it.
	JWTSecret    string
	CookieSecret string
	CookieDomain string

	// External completion service.
	OpenAIAPIKey       string
	OpenAIOrganization string
	OpenAIModel        string

	// Optional directory with the built frontend. Static serving is
	// disabled when empty.
	StaticDir string

	// "production" enables the Secure flag on the session cookie.
	AppEnv string
}

// Load loads configuration from environment variables or sets defaults.
// The two signing secrets have no safe default and must be provided.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:         port,
		DatabasePath:       getEnv("DATABASE_PATH", "./chatvault.db"),
		CORSOrigin:         getEnv("CORS_ORIGIN", "http://localhost:5173"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		CookieSecret:       os.Getenv("COOKIE_SECRET"),
		CookieDomain:       getEnv("COOKIE_DOMAIN", "localhost"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIOrganization: os.Getenv("OPENAI_ORGANIZATION"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		StaticDir:          os.Getenv("STATIC_DIR"),
		AppEnv:             getEnv("APP_ENV", "development"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.CookieSecret == "" {
		return nil, errors.New("COOKIE_SECRET is required")
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
