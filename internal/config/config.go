package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	SkipAuth    bool
	Environment string

	// Remote source (authenticated paginated search endpoint)
	SourceBaseURL        string
	SourceScriptID       string
	SourceDeployID       string
	SourceRealm          string
	SourceConsumerKey    string
	SourceConsumerSecret string
	SourceTokenID        string
	SourceTokenSecret    string

	// Destination store
	StoreBackend    string // "rest", "postgres" or "mysql"
	StoreURL        string
	StoreServiceKey string
	StoreDSN        string

	CatalogPath  string
	SyncInterval time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	interval, err := time.ParseDuration(getEnv("SYNC_INTERVAL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),

		SourceBaseURL:        getEnv("SOURCE_BASE_URL", ""),
		SourceScriptID:       getEnv("SOURCE_SCRIPT_ID", ""),
		SourceDeployID:       getEnv("SOURCE_DEPLOY_ID", ""),
		SourceRealm:          getEnv("SOURCE_REALM", ""),
		SourceConsumerKey:    getEnv("SOURCE_CONSUMER_KEY", ""),
		SourceConsumerSecret: getEnv("SOURCE_CONSUMER_SECRET", ""),
		SourceTokenID:        getEnv("SOURCE_TOKEN_ID", ""),
		SourceTokenSecret:    getEnv("SOURCE_TOKEN_SECRET", ""),

		StoreBackend:    getEnv("STORE_BACKEND", "rest"),
		StoreURL:        getEnv("STORE_URL", ""),
		StoreServiceKey: getEnv("STORE_SERVICE_KEY", ""),
		StoreDSN:        getEnv("STORE_DSN", ""),

		CatalogPath:  getEnv("CATALOG_PATH", ""),
		SyncInterval: interval,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"SOURCE_BASE_URL":        c.SourceBaseURL,
		"SOURCE_SCRIPT_ID":       c.SourceScriptID,
		"SOURCE_DEPLOY_ID":       c.SourceDeployID,
		"SOURCE_CONSUMER_KEY":    c.SourceConsumerKey,
		"SOURCE_CONSUMER_SECRET": c.SourceConsumerSecret,
		"SOURCE_TOKEN_ID":        c.SourceTokenID,
		"SOURCE_TOKEN_SECRET":    c.SourceTokenSecret,
	}
	for key, val := range required {
		if val == "" {
			return fmt.Errorf("missing required env %s", key)
		}
	}

	switch c.StoreBackend {
	case "rest":
		if c.StoreURL == "" || c.StoreServiceKey == "" {
			return fmt.Errorf("STORE_BACKEND=rest requires STORE_URL and STORE_SERVICE_KEY")
		}
	case "postgres", "mysql":
		if c.StoreDSN == "" {
			return fmt.Errorf("STORE_BACKEND=%s requires STORE_DSN", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND: %s", c.StoreBackend)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
