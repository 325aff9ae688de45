package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Submissions SubmissionsConfig
	Discovery   DiscoveryConfig
	Catalog     CatalogConfig
	Events      EventsConfig
	Tracing     TracingConfig
	Metrics     MetricsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SubmissionsConfig tunes the submission workflow.
type SubmissionsConfig struct {
	DefaultPageSize        int
	MaxPageSize            int
	MaxArtifacts           int
	AllowResubmittedReview bool
}

// DiscoveryConfig governs the public feed cache.
type DiscoveryConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// CatalogConfig governs caching of the artifact catalog lookups.
type CatalogConfig struct {
	AvailableCacheTTL time.Duration
}

// EventsConfig controls domain event fan-out to downstream consumers.
type EventsConfig struct {
	Enabled    bool
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
	NSQEnabled bool
	NSQAddress string
	NSQTopic   string
}

// TracingConfig toggles OpenTelemetry tracing.
type TracingConfig struct {
	Enabled     bool
	Exporter    string
	Endpoint    string
	SampleRatio float64
	ServiceName string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Submissions = SubmissionsConfig{
		DefaultPageSize:        v.GetInt("SUBMISSIONS_DEFAULT_PAGE_SIZE"),
		MaxPageSize:            v.GetInt("SUBMISSIONS_MAX_PAGE_SIZE"),
		MaxArtifacts:           v.GetInt("SUBMISSIONS_MAX_ARTIFACTS"),
		AllowResubmittedReview: v.GetBool("SUBMISSIONS_ALLOW_RESUBMITTED_REVIEW"),
	}

	cfg.Discovery = DiscoveryConfig{
		CacheEnabled: v.GetBool("DISCOVERY_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("DISCOVERY_CACHE_TTL"), time.Minute),
	}

	cfg.Catalog = CatalogConfig{
		AvailableCacheTTL: parseDuration(v.GetString("CATALOG_AVAILABLE_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Events = EventsConfig{
		Enabled:    v.GetBool("EVENTS_ENABLED"),
		Workers:    v.GetInt("EVENTS_WORKERS"),
		MaxRetries: v.GetInt("EVENTS_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("EVENTS_RETRY_DELAY"), time.Second),
		NSQEnabled: v.GetBool("NSQ_ENABLED"),
		NSQAddress: v.GetString("NSQ_ADDRESS"),
		NSQTopic:   v.GetString("NSQ_TOPIC"),
	}

	cfg.Tracing = TracingConfig{
		Enabled:     v.GetBool("OTEL_ENABLED"),
		Exporter:    strings.ToLower(v.GetString("OTEL_EXPORTER")),
		Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		SampleRatio: clampRatio(v.GetFloat64("OTEL_SAMPLER_RATIO")),
		ServiceName: v.GetString("OTEL_SERVICE_NAME"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "virtual_exhibits")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SUBMISSIONS_DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("SUBMISSIONS_MAX_PAGE_SIZE", 100)
	v.SetDefault("SUBMISSIONS_MAX_ARTIFACTS", 200)
	v.SetDefault("SUBMISSIONS_ALLOW_RESUBMITTED_REVIEW", true)

	v.SetDefault("DISCOVERY_CACHE_ENABLED", false)
	v.SetDefault("DISCOVERY_CACHE_TTL", "1m")
	v.SetDefault("CATALOG_AVAILABLE_CACHE_TTL", "5m")

	v.SetDefault("EVENTS_ENABLED", true)
	v.SetDefault("EVENTS_WORKERS", 2)
	v.SetDefault("EVENTS_MAX_RETRIES", 3)
	v.SetDefault("EVENTS_RETRY_DELAY", "1s")
	v.SetDefault("NSQ_ENABLED", false)
	v.SetDefault("NSQ_ADDRESS", "localhost:4150")
	v.SetDefault("NSQ_TOPIC", "exhibit_submissions")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER", "stdout")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_SAMPLER_RATIO", 0.1)
	v.SetDefault("OTEL_SERVICE_NAME", "exhibit-api")

	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func clampRatio(ratio float64) float64 {
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// viper reports a missing explicit config file as an fs error rather than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such file or directory")
}
