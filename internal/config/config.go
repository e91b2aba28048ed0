// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, storage backends, recognition behavior, rate limiting and
// observability settings.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/go-kudos-backend/internal/sysutil"
)

// Store backends for user aggregates.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Output contract variants of the recognition endpoint.
const (
	OutputSplit   = "split"   // {public_message, private_message}
	OutputUpdated = "updated" // {updatedMsg}
	OutputNKudo   = "nkudo"   // {nKudoMessage}
)

// Visibility handling modes of the message composer.
const (
	VisibilityWith    = "with"
	VisibilityWithout = "without"
)

// Persistence targets for a processed recognition.
const (
	TargetUsers   = "users"
	TargetObjects = "objects"
)

// Write strategies for user aggregates.
const (
	ConcurrencyLastWriterWins = "last_writer_wins"
	ConcurrencyOptimistic     = "optimistic"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// RedisConfig holds connection settings for the redis store backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KudosConfig selects how a recognition is composed, persisted and returned.
type KudosConfig struct {
	RewardPoints      int    // points credited to the receiver per recognition
	OutputMode        string // split|updated|nkudo
	VisibilityMode    string // with|without
	PersistenceTarget string // users|objects
	ConcurrencyMode   string // last_writer_wins|optimistic
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	// Logging / Docs
	LogLevel       string
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	// Storage
	DBPath       string // SQLite path (objects, idempotency, sqlite user store)
	StoreBackend string // sqlite|redis|memory
	Redis        RedisConfig

	Kudos KudosConfig

	// Rate limiting
	RateRPS   float64
	RateBurst int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	IdempotencyTTL time.Duration

	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		DBPath:       getenv("DB_PATH", "nkudos.db"),
		StoreBackend: strings.ToLower(getenv("STORE_BACKEND", BackendSQLite)),
		Redis: RedisConfig{
			URL:          getenv("REDIS_URL", ""),
			PoolSize:     getint("REDIS_POOL_SIZE", 10),
			DialTimeout:  getdur("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getdur("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getdur("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},

		Kudos: KudosConfig{
			RewardPoints:      getint("REWARD_POINTS", 5),
			OutputMode:        strings.ToLower(getenv("OUTPUT_MODE", OutputSplit)),
			VisibilityMode:    strings.ToLower(getenv("VISIBILITY_MODE", VisibilityWith)),
			PersistenceTarget: strings.ToLower(getenv("PERSISTENCE_TARGET", TargetUsers)),
			ConcurrencyMode:   strings.ToLower(getenv("CONCURRENCY_MODE", ConcurrencyLastWriterWins)),
		},

		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-kudos-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	cfg.Kudos.ConcurrencyMode = strings.ReplaceAll(cfg.Kudos.ConcurrencyMode, "-", "_")

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	switch cfg.StoreBackend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if strings.TrimSpace(cfg.Redis.URL) == "" {
			return cfg, errors.New("REDIS_URL is required when STORE_BACKEND=redis")
		}
		if cfg.Redis.PoolSize < 1 {
			return cfg, errors.New("REDIS_POOL_SIZE must be >= 1")
		}
	default:
		return cfg, errors.New("STORE_BACKEND must be one of: sqlite, redis, memory")
	}
	if err := cfg.Kudos.validate(); err != nil {
		return cfg, err
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

func (k KudosConfig) validate() error {
	if k.RewardPoints < 1 {
		return errors.New("REWARD_POINTS must be >= 1")
	}
	switch k.OutputMode {
	case OutputSplit, OutputUpdated, OutputNKudo:
	default:
		return errors.New("OUTPUT_MODE must be one of: split, updated, nkudo")
	}
	switch k.VisibilityMode {
	case VisibilityWith, VisibilityWithout:
	default:
		return errors.New("VISIBILITY_MODE must be one of: with, without")
	}
	switch k.PersistenceTarget {
	case TargetUsers, TargetObjects:
	default:
		return errors.New("PERSISTENCE_TARGET must be one of: users, objects")
	}
	switch k.ConcurrencyMode {
	case ConcurrencyLastWriterWins, ConcurrencyOptimistic:
	default:
		return errors.New("CONCURRENCY_MODE must be one of: last_writer_wins, optimistic")
	}
	return nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch {
		case sysutil.IsTruthy(v):
			return true
		case sysutil.IsFalsy(v):
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
