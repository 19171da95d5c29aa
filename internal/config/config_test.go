package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", StorageDriverMemory)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
	t.Setenv("QSTASH_ENABLED", "false")
	t.Setenv("NOTIFY_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "false")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DraftRounds != 2 {
		t.Fatalf("unexpected DraftRounds: %d", cfg.DraftRounds)
	}
	if !cfg.DraftEnforceTurn {
		t.Fatalf("expected DraftEnforceTurn=true by default")
	}
	if cfg.RosterMaxActive != 2 {
		t.Fatalf("unexpected RosterMaxActive: %d", cfg.RosterMaxActive)
	}
	if cfg.ScoringAllowCorrections {
		t.Fatalf("expected ScoringAllowCorrections=false by default")
	}
	if cfg.JobMaxWorkers != 8 {
		t.Fatalf("unexpected JobMaxWorkers: %d", cfg.JobMaxWorkers)
	}
	if cfg.PyroscopeAppName != cfg.ServiceName {
		t.Fatalf("expected PyroscopeAppName to fall back to service name, got %q", cfg.PyroscopeAppName)
	}
	if cfg.SwaggerEnabled == nil || !*cfg.SwaggerEnabled {
		t.Fatalf("expected swagger enabled outside prod")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected CORSOrigins: %v", cfg.CORSOrigins)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %v", cfg.LogLevel)
	}

	game := cfg.Game()
	if game.DraftRounds != 2 || game.MaxActiveCastaways != 2 || !game.EnforceDraftTurn {
		t.Fatalf("unexpected game config: %+v", game)
	}
}

func TestLoad_SwaggerDefaultsOffInProd(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if *cfg.SwaggerEnabled {
		t.Fatalf("expected swagger disabled in prod")
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("unexpected CORSOrigins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StorageDriver(t *testing.T) {
	t.Run("postgres requires DB_URL", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("STORAGE_DRIVER", "postgres")
		t.Setenv("DB_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when STORAGE_DRIVER=postgres without DB_URL")
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("STORAGE_DRIVER", "mongo")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_DRIVER")
		}
	})

	t.Run("postgres normalized", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("STORAGE_DRIVER", " Postgres ")
		t.Setenv("DB_URL", "postgres://localhost:5432/survivor")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageDriverPostgres {
			t.Fatalf("unexpected StorageDriver: %q", cfg.StorageDriver)
		}
	})
}

func TestLoad_RuleKnobsMustBePositive(t *testing.T) {
	for _, key := range []string{"DRAFT_ROUNDS", "ROSTER_MAX_ACTIVE", "JOB_MAX_WORKERS"} {
		t.Run(key, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(key, "0")
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=0", key)
			}
		})
	}
}

func TestLoad_QStashRequiresTokenAndTarget(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("QSTASH_ENABLED", "true")
	t.Setenv("QSTASH_TOKEN", "")
	t.Setenv("QSTASH_TARGET_BASE_URL", "https://api.example.com")
	t.Setenv("INTERNAL_JOB_TOKEN", "secret")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when QSTASH_ENABLED=true without QSTASH_TOKEN")
	}

	t.Setenv("QSTASH_TOKEN", "qstash-token")
	t.Setenv("QSTASH_TARGET_BASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when QSTASH_ENABLED=true without QSTASH_TARGET_BASE_URL")
	}

	t.Setenv("QSTASH_TARGET_BASE_URL", "https://api.example.com/")
	t.Setenv("INTERNAL_JOB_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when QSTASH_ENABLED=true without INTERNAL_JOB_TOKEN")
	}

	t.Setenv("INTERNAL_JOB_TOKEN", "secret")
	t.Setenv("QSTASH_CIRCUIT_FAILURE_COUNT", "3")
	t.Setenv("QSTASH_CIRCUIT_OPEN_TIMEOUT", "45s")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.QStashTargetBaseURL != "https://api.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.QStashTargetBaseURL)
	}
	breaker := cfg.QStashCircuitBreaker()
	if breaker.FailureThreshold != 3 || breaker.OpenTimeout != 45*time.Second {
		t.Fatalf("unexpected breaker config: %+v", breaker)
	}
}

func TestLoad_NotifyRequiresQStash(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("NOTIFY_ENABLED", "true")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when NOTIFY_ENABLED=true without QSTASH_ENABLED")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeRequiresServerAddress(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CACHE_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error for CACHE_TTL")
	}
}
