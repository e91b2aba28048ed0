package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("OUTPUT_MODE", "carrier-pigeon")
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIBasePath != "/api/v1" || cfg.StoreBackend != BackendSQLite || cfg.DBPath != "nkudos.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	want := KudosConfig{
		RewardPoints:      5,
		OutputMode:        OutputSplit,
		VisibilityMode:    VisibilityWith,
		PersistenceTarget: TargetUsers,
		ConcurrencyMode:   ConcurrencyLastWriterWins,
	}
	if cfg.Kudos != want {
		t.Fatalf("kudos defaults = %+v, want %+v", cfg.Kudos, want)
	}
}

func TestLoad_Overrides_AndNormalization(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("GIN_MODE", "weird") // -> release
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("API_BASE_PATH", "kudos/v2/")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("REDIS_POOL_SIZE", "3")
	t.Setenv("REWARD_POINTS", "7")
	t.Setenv("OUTPUT_MODE", "NKUDO")
	t.Setenv("VISIBILITY_MODE", "without")
	t.Setenv("PERSISTENCE_TARGET", "objects")
	t.Setenv("CONCURRENCY_MODE", "optimistic")
	t.Setenv("RATE_RPS", "x") // parse failure -> default
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("IDEMPOTENCY_TTL", "48h")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "9090" || cfg.ReadTimeout != 2*time.Second || cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty || cfg.APIBasePath != "/kudos/v2" {
		t.Fatalf("logging fields unexpected: %+v", cfg)
	}
	if cfg.StoreBackend != BackendRedis || cfg.Redis.URL != "redis://localhost:6379/0" || cfg.Redis.PoolSize != 3 {
		t.Fatalf("storage fields unexpected: %+v", cfg)
	}
	want := KudosConfig{
		RewardPoints:      7,
		OutputMode:        OutputNKudo,
		VisibilityMode:    VisibilityWithout,
		PersistenceTarget: TargetObjects,
		ConcurrencyMode:   ConcurrencyOptimistic,
	}
	if cfg.Kudos != want {
		t.Fatalf("kudos = %+v, want %+v", cfg.Kudos, want)
	}
	if cfg.RateRPS != 5.0 {
		t.Fatalf("RATE_RPS should fall back to default, got %v", cfg.RateRPS)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if cfg.IdempotencyTTL != 48*time.Hour || cfg.OTEL.SampleRatio != 0.25 {
		t.Fatalf("ttl/otel unexpected: %+v", cfg)
	}
}

func TestLoad_ConcurrencyModeAcceptsDashes(t *testing.T) {
	t.Setenv("CONCURRENCY_MODE", "last-writer-wins")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Kudos.ConcurrencyMode != ConcurrencyLastWriterWins {
		t.Fatalf("got %q", cfg.Kudos.ConcurrencyMode)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"port", map[string]string{"PORT": "   "}, "PORT must not be empty"},
		{"timeouts", map[string]string{"IDLE_TIMEOUT": "0s"}, "timeouts must be positive"},
		{"header bytes", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"db path", map[string]string{"DB_PATH": "  "}, "DB_PATH must not be empty"},
		{"backend", map[string]string{"STORE_BACKEND": "etcd"}, "STORE_BACKEND"},
		{"redis url", map[string]string{"STORE_BACKEND": "redis"}, "REDIS_URL"},
		{"redis pool", map[string]string{"STORE_BACKEND": "redis", "REDIS_URL": "redis://x", "REDIS_POOL_SIZE": "0"}, "REDIS_POOL_SIZE"},
		{"reward", map[string]string{"REWARD_POINTS": "0"}, "REWARD_POINTS"},
		{"output", map[string]string{"OUTPUT_MODE": "both"}, "OUTPUT_MODE"},
		{"visibility", map[string]string{"VISIBILITY_MODE": "sometimes"}, "VISIBILITY_MODE"},
		{"target", map[string]string{"PERSISTENCE_TARGET": "files"}, "PERSISTENCE_TARGET"},
		{"concurrency", map[string]string{"CONCURRENCY_MODE": "pessimistic"}, "CONCURRENCY_MODE"},
		{"rate rps", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"rate burst", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"hsts", map[string]string{"HSTS_MAX_AGE": "-1s"}, "HSTS_MAX_AGE"},
		{"idempotency", map[string]string{"IDEMPOTENCY_TTL": "0s"}, "IDEMPOTENCY_TTL"},
		{"otel", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestHelpers_getbool(t *testing.T) {
	for _, v := range []string{"1", "TRUE", " yes ", "on"} {
		t.Setenv("B_TRUE", v)
		if !getbool("B_TRUE", false) {
			t.Fatalf("getbool(%q) = false; want true", v)
		}
	}
	for _, v := range []string{"0", "False", " no ", "off"} {
		t.Setenv("B_FALSE", v)
		if getbool("B_FALSE", true) {
			t.Fatalf("getbool(%q) = true; want false", v)
		}
	}
	t.Setenv("B_JUNK", "maybe")
	if !getbool("B_JUNK", true) {
		t.Fatalf("unparseable value should return default")
	}
}

func TestHelpers_normalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		" / ":     "/",
		"v1":      "/v1",
		"/v1/":    "/v1",
		"/a/b///": "/a/b",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}
