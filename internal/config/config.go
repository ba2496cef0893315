package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"weather_session/internal/logger"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

const envPrefix = "WEATHER"

// Config is the runtime configuration of the service.
type Config struct {
	Port     string
	LogLevel string
	Storage  StorageConfig
	Weather  WeatherConfig
	Clock    ClockConfig
	Stats    StatsConfig
}

type StorageConfig struct {
	Driver      string
	SQLitePath  string
	RedisURL    string
	RedisPrefix string
}

type WeatherConfig struct {
	GeocodingURL string
	ForecastURL  string
	UserAgent    string
	Timeout      time.Duration // zero means requests never time out
}

type ClockConfig struct {
	Tick         time.Duration
	FallbackZone string
}

type StatsConfig struct {
	TopLimit int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite.path", "weather.db")
	v.SetDefault("storage.redis.url", "redis://localhost:6379/0")
	v.SetDefault("storage.redis.prefix", "weather:")
	v.SetDefault("weather.geocoding_url", "https://geocoding-api.open-meteo.com/v1/search")
	v.SetDefault("weather.forecast_url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("weather.user_agent", "weather_session/1.0")
	v.SetDefault("weather.timeout", time.Duration(0))
	v.SetDefault("clock.tick", time.Second)
	v.SetDefault("clock.fallback_zone", "UTC")
	v.SetDefault("stats.top_limit", 3)
}

// Load reads configuration from dir/config.yml (when present) and WEATHER_*
// environment variables on top of built-in defaults. An empty dir skips the
// file lookup.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dir != "" {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config in %q: %w", dir, err)
			}
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log.level"),
		Storage: StorageConfig{
			Driver:      strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
			SQLitePath:  v.GetString("storage.sqlite.path"),
			RedisURL:    v.GetString("storage.redis.url"),
			RedisPrefix: v.GetString("storage.redis.prefix"),
		},
		Weather: WeatherConfig{
			GeocodingURL: v.GetString("weather.geocoding_url"),
			ForecastURL:  v.GetString("weather.forecast_url"),
			UserAgent:    v.GetString("weather.user_agent"),
			Timeout:      v.GetDuration("weather.timeout"),
		},
		Clock: ClockConfig{
			Tick:         v.GetDuration("clock.tick"),
			FallbackZone: v.GetString("clock.fallback_zone"),
		},
		Stats: StatsConfig{
			TopLimit: v.GetInt("stats.top_limit"),
		},
	}
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite.path is required for the sqlite driver")
		}
	case DriverRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("storage.redis.url is required for the redis driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("unknown log.level %q", c.LogLevel)
	}
	if c.Clock.Tick <= 0 {
		return fmt.Errorf("clock.tick must be positive, got %s", c.Clock.Tick)
	}
	if _, err := time.LoadLocation(c.Clock.FallbackZone); err != nil {
		return fmt.Errorf("clock.fallback_zone %q: %w", c.Clock.FallbackZone, err)
	}
	if c.Stats.TopLimit <= 0 {
		return fmt.Errorf("stats.top_limit must be positive, got %d", c.Stats.TopLimit)
	}
	if c.Weather.Timeout < 0 {
		return fmt.Errorf("weather.timeout must not be negative, got %s", c.Weather.Timeout)
	}
	return nil
}
