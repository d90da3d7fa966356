package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName        string
	AppEnv         string
	AppPort        string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	StatsCacheTTL  time.Duration
	ScanRateMax    int
	ScanRateWindow time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CAMPUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Campus Access API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("stats.cache_ttl", "5m")
	v.SetDefault("scan.rate_max", 30)
	v.SetDefault("scan.rate_window", "1m")

	ttlString := v.GetString("stats.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid stats cache ttl: %w", err)
	}

	windowString := v.GetString("scan.rate_window")
	if windowString == "" {
		windowString = "1m"
	}

	window, err := time.ParseDuration(windowString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid scan rate window: %w", err)
	}

	cfg := Config{
		AppName:        v.GetString("app.name"),
		AppEnv:         v.GetString("app.env"),
		AppPort:        v.GetString("app.port"),
		DatabaseURL:    v.GetString("database.url"),
		RedisURL:       v.GetString("redis.url"),
		JWTSecret:      v.GetString("jwt.secret"),
		StatsCacheTTL:  ttl,
		ScanRateMax:    v.GetInt("scan.rate_max"),
		ScanRateWindow: window,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.ScanRateMax <= 0 {
		cfg.ScanRateMax = 30
	}

	return cfg, nil
}
