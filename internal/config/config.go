package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Supabase SupabaseConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Auth     AuthConfig
	Report   ReportConfig
	Log      LogConfig

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

type SupabaseConfig struct {
	URL    string
	KEY    string
	BUCKET string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	URL   string
	Queue string
}

type AuthConfig struct {
	TokenCache  string
	CachePolicy string
	CacheMaxAge time.Duration
}

type ReportConfig struct {
	TTL time.Duration
}

type LogConfig struct {
	Level string
}

// Load reads the configuration from the environment and an optional .env
// file. Unset variables take their defaults; malformed numbers and durations
// are reported.
func Load() (*Config, error) {
	loaded := godotenv.Load() == nil
	env := &envReader{}

	cfg := &Config{
		Supabase: SupabaseConfig{
			URL:    getEnv("SUPABASE_URL", ""),
			KEY:    getEnv("SUPABASE_KEY", ""),
			BUCKET: getEnv("SUPABASE_BUCKET", ""),
		},
		// Redis and RabbitMQ are optional sinks; empty address disables them.
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       env.getInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   getEnv("RABBITMQ_URL", ""),
			Queue: getEnv("RABBITMQ_QUEUE", "image_compression_results"),
		},
		Auth: AuthConfig{
			TokenCache:  getEnv("AUTH_TOKEN_CACHE", "token.json"),
			CachePolicy: getEnv("AUTH_CACHE_POLICY", "discard"),
			CacheMaxAge: env.getDuration("AUTH_CACHE_MAX_AGE", time.Hour),
		},
		Report: ReportConfig{
			TTL: env.getDuration("REPORT_TTL", 24*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		EnvFileLoaded: loaded,
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

// envReader parses typed variables and collects every parse failure.
type envReader struct {
	errs []error
}

func (r *envReader) getInt(key string, defaultVal int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not an integer", key, value))
		return defaultVal
	}
	return intVal
}

func (r *envReader) getDuration(key string, defaultVal time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a duration", key, value))
		return defaultVal
	}
	if duration <= 0 {
		r.errs = append(r.errs, fmt.Errorf("%s: must be positive, got %s", key, value))
		return defaultVal
	}
	return duration
}
