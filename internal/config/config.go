package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"travelassist/internal/planner"
)

type Config struct {
	LogLevel        slog.Level
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration

	// An empty MongoURI selects the in-memory store seeded with sample data.
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	RedisEnabled     bool
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheTTL         time.Duration
	CacheWarmOnStart bool
	CacheRefresh     time.Duration

	RateLimitPerWindow int
	RateLimitWindow    time.Duration
	RateLimitWhitelist []string

	JWTSecret string

	Tariffs planner.Tariffs
}

// ConfigError reports an invalid setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:        getLogLevelEnv("LOG_LEVEL", slog.LevelInfo),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:     getDurationEnv("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getDurationEnv("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", 8*time.Second),

		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "travelassist"),
		MongoTimeout:  getDurationEnv("MONGO_TIMEOUT", 10*time.Second),

		RedisEnabled:     getBoolEnv("REDIS_ENABLED", false),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getIntEnv("REDIS_DB", 0),
		CacheTTL:         getDurationEnv("CACHE_TTL", 10*time.Minute),
		CacheWarmOnStart: getBoolEnv("CACHE_WARM_ON_START", true),
		CacheRefresh:     getDurationEnv("CACHE_REFRESH_INTERVAL", time.Hour),

		RateLimitPerWindow: getIntEnv("RATE_LIMIT_PER_WINDOW", 120),
		RateLimitWindow:    getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitWhitelist: getCSVEnv("RATE_LIMIT_WHITELIST"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		Tariffs: loadTariffs(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	positive := func(field string, d time.Duration) {
		if d <= 0 {
			errs = append(errs, &ConfigError{Field: field, Message: "must be positive"})
		}
	}

	positive("READ_TIMEOUT", c.ReadTimeout)
	positive("WRITE_TIMEOUT", c.WriteTimeout)
	positive("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	positive("MONGO_TIMEOUT", c.MongoTimeout)
	positive("CACHE_TTL", c.CacheTTL)
	positive("CACHE_REFRESH_INTERVAL", c.CacheRefresh)
	positive("RATE_LIMIT_WINDOW", c.RateLimitWindow)
	if c.RateLimitPerWindow <= 0 {
		errs = append(errs, &ConfigError{Field: "RATE_LIMIT_PER_WINDOW", Message: "must be positive"})
	}
	if c.MongoURI != "" && c.MongoDatabase == "" {
		errs = append(errs, &ConfigError{Field: "MONGO_DATABASE", Message: "required with MONGO_URI"})
	}
	if err := c.Tariffs.Validate(); err != nil {
		errs = append(errs, &ConfigError{Field: "TARIFF", Message: err.Error()})
	}
	return errors.Join(errs...)
}

func loadTariffs() planner.Tariffs {
	t := planner.DefaultTariffs()

	t.PrivateBus.DefaultDurationMinutes = getIntEnv("TARIFF_PRIVATE_DURATION_MIN", t.PrivateBus.DefaultDurationMinutes)
	t.PrivateBus.DefaultFrequencyMinutes = getIntEnv("TARIFF_PRIVATE_FREQUENCY_MIN", t.PrivateBus.DefaultFrequencyMinutes)
	t.PrivateBus.DefaultBaseFare = getFloatEnv("TARIFF_PRIVATE_BASE_FARE", t.PrivateBus.DefaultBaseFare)
	t.PrivateBus.DefaultFarePerKm = getFloatEnv("TARIFF_PRIVATE_FARE_PER_KM", t.PrivateBus.DefaultFarePerKm)

	t.Metro.DefaultDurationMinutes = getIntEnv("TARIFF_METRO_DURATION_MIN", t.Metro.DefaultDurationMinutes)
	t.Metro.DefaultFrequencyMinutes = getIntEnv("TARIFF_METRO_FREQUENCY_MIN", t.Metro.DefaultFrequencyMinutes)
	t.Metro.DefaultBaseFare = getFloatEnv("TARIFF_METRO_BASE_FARE", t.Metro.DefaultBaseFare)
	t.Metro.DefaultFarePerKm = getFloatEnv("TARIFF_METRO_FARE_PER_KM", t.Metro.DefaultFarePerKm)

	t.Auto.SpeedKmh = getFloatEnv("TARIFF_AUTO_SPEED_KMH", t.Auto.SpeedKmh)
	t.Auto.MinDurationMinutes = getIntEnv("TARIFF_AUTO_MIN_DURATION_MIN", t.Auto.MinDurationMinutes)
	t.Auto.BaseFare = getFloatEnv("TARIFF_AUTO_BASE_FARE", t.Auto.BaseFare)
	t.Auto.FarePerKm = getFloatEnv("TARIFF_AUTO_FARE_PER_KM", t.Auto.FarePerKm)

	t.RouteDistanceKm = getFloatEnv("TARIFF_ROUTE_DISTANCE_KM", t.RouteDistanceKm)
	t.SegmentDistanceKm = getFloatEnv("TARIFF_SEGMENT_DISTANCE_KM", t.SegmentDistanceKm)
	t.ProximityKm = getFloatEnv("TARIFF_PROXIMITY_KM", t.ProximityKm)

	return t
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getLogLevelEnv(key string, defaultVal slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}

	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return defaultVal
	}
}

func getCSVEnv(key string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			result = append(result, t)
		}
	}
	return result
}
