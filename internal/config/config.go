package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	// Optional Redis backing store for the cache. When empty, cached
	// entries persist in the cached_data table instead.
	RedisURL string `mapstructure:"REDIS_URL"`

	JWTSecret          string `mapstructure:"JWT_SECRET"`
	TokenExpireMinutes int    `mapstructure:"TOKEN_EXPIRE_MINUTES"`

	WeatherAPIKey         string `mapstructure:"WEATHER_API_KEY"`
	WeatherAPIBaseURL     string `mapstructure:"WEATHER_API_BASE_URL"`
	WeatherDefaultCity    string `mapstructure:"WEATHER_DEFAULT_CITY"`
	WeatherUnits          string `mapstructure:"WEATHER_UNITS"`
	WeatherTimeoutSeconds int    `mapstructure:"WEATHER_TIMEOUT_SECONDS"`

	CacheTTLSeconds           int `mapstructure:"CACHE_TTL_SECONDS"`
	CacheSweepIntervalMinutes int `mapstructure:"CACHE_SWEEP_INTERVAL_MINUTES"`

	ModelPath    string `mapstructure:"MODEL_PATH"`
	ModelVersion string `mapstructure:"MODEL_VERSION"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("TOKEN_EXPIRE_MINUTES", 60)
	v.SetDefault("WEATHER_API_BASE_URL", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("WEATHER_DEFAULT_CITY", "Hyderabad")
	v.SetDefault("WEATHER_UNITS", "metric")
	v.SetDefault("WEATHER_TIMEOUT_SECONDS", 5)
	v.SetDefault("CACHE_TTL_SECONDS", 3600)
	v.SetDefault("CACHE_SWEEP_INTERVAL_MINUTES", 60)
	v.SetDefault("MODEL_PATH", "./models/stress_model.json")
	v.SetDefault("MODEL_VERSION", "v1.0")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("REDIS_URL")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("TOKEN_EXPIRE_MINUTES")
	v.BindEnv("WEATHER_API_KEY")
	v.BindEnv("WEATHER_API_BASE_URL")
	v.BindEnv("WEATHER_DEFAULT_CITY")
	v.BindEnv("WEATHER_UNITS")
	v.BindEnv("WEATHER_TIMEOUT_SECONDS")
	v.BindEnv("CACHE_TTL_SECONDS")
	v.BindEnv("CACHE_SWEEP_INTERVAL_MINUTES")
	v.BindEnv("MODEL_PATH")
	v.BindEnv("MODEL_VERSION")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. Outside development
// a real JWT secret must be configured so tokens cannot be forged.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ENV=%q", c.Env)
	}
	if c.TokenExpireMinutes <= 0 {
		return fmt.Errorf("TOKEN_EXPIRE_MINUTES must be positive, got %d", c.TokenExpireMinutes)
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must not be negative, got %d", c.CacheTTLSeconds)
	}
	return nil
}

// CacheTTL returns the default enrichment cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// WeatherTimeout bounds a single weather provider fetch.
func (c *Config) WeatherTimeout() time.Duration {
	return time.Duration(c.WeatherTimeoutSeconds) * time.Second
}

// TokenExpiry returns the access token lifetime.
func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.TokenExpireMinutes) * time.Minute
}

// SweepInterval returns how often the background cache sweeper runs.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.CacheSweepIntervalMinutes) * time.Minute
}
