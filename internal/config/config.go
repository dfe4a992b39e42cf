package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Generation backend
	SDAPIBaseURL   string
	BackendTimeout time.Duration
	FetchTimeout   time.Duration

	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseJWTSecret      string
	SupabaseStorageBucket  string

	// Database
	DatabaseURL string
	DBTimeout   time.Duration

	// Credits
	CreditCheckEnabled bool
	DefaultCredits     int

	// Server
	Port        string
	Environment string
	BaseURL     string
	LogLevel    string
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		SDAPIBaseURL:   v.GetString("SD_API_BASE_URL"),
		BackendTimeout: v.GetDuration("BACKEND_TIMEOUT"),
		FetchTimeout:   v.GetDuration("FETCH_TIMEOUT"),

		SupabaseURL:            v.GetString("SUPABASE_URL"),
		SupabasePublishableKey: v.GetString("SUPABASE_PUBLISHABLE_KEY"),
		SupabaseJWTSecret:      v.GetString("SUPABASE_JWT_SECRET"),
		SupabaseStorageBucket:  v.GetString("SUPABASE_STORAGE_BUCKET"),

		DatabaseURL: v.GetString("DATABASE_URL"),
		DBTimeout:   v.GetDuration("DB_TIMEOUT"),

		CreditCheckEnabled: v.GetBool("CREDIT_CHECK_ENABLED"),
		DefaultCredits:     v.GetInt("DEFAULT_CREDITS"),

		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		BaseURL:     v.GetString("BASE_URL"),
		LogLevel:    v.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SD_API_BASE_URL", "http://127.0.0.1:7860")
	v.SetDefault("BACKEND_TIMEOUT", "120s")
	v.SetDefault("FETCH_TIMEOUT", "30s")
	v.SetDefault("SUPABASE_STORAGE_BUCKET", "uploads")
	v.SetDefault("DB_TIMEOUT", "5s")
	v.SetDefault("CREDIT_CHECK_ENABLED", true)
	v.SetDefault("DEFAULT_CREDITS", 3)
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("LOG_LEVEL", "info")
}

func (c *Config) Validate() error {
	if c.SDAPIBaseURL == "" {
		return fmt.Errorf("SD_API_BASE_URL is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.BackendTimeout <= 0 || c.FetchTimeout <= 0 || c.DBTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
