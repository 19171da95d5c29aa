package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/survivor-fantasy/internal/usecase"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	AppEnv         string        `env:"APP_ENV" envDefault:"dev"`
	ServiceName    string        `env:"APP_SERVICE_NAME" envDefault:"survivor-fantasy-api"`
	ServiceVersion string        `env:"APP_SERVICE_VERSION" envDefault:"dev"`
	HTTPAddr       string        `env:"APP_HTTP_ADDR" envDefault:":8080"`
	ReadTimeout    time.Duration `env:"APP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout   time.Duration `env:"APP_WRITE_TIMEOUT" envDefault:"10s"`
	LogLevelRaw    string        `env:"APP_LOG_LEVEL" envDefault:"info"`
	SwaggerEnabled *bool         `env:"SWAGGER_ENABLED"`
	CORSOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	StorageDriver                 string `env:"STORAGE_DRIVER" envDefault:"memory"`
	DBURL                         string `env:"DB_URL"`
	DBDisablePreparedBinaryResult bool   `env:"DB_DISABLE_PREPARED_BINARY_RESULT" envDefault:"false"`

	CacheEnabled bool          `env:"CACHE_ENABLED" envDefault:"true"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"30s"`

	DraftRounds             int  `env:"DRAFT_ROUNDS" envDefault:"2"`
	DraftEnforceTurn        bool `env:"DRAFT_ENFORCE_TURN" envDefault:"true"`
	RosterMaxActive         int  `env:"ROSTER_MAX_ACTIVE" envDefault:"2"`
	ScoringAllowCorrections bool `env:"SCORING_ALLOW_CORRECTIONS" envDefault:"false"`
	JobMaxWorkers           int  `env:"JOB_MAX_WORKERS" envDefault:"8"`

	InternalJobToken string `env:"INTERNAL_JOB_TOKEN"`

	QStashEnabled               bool          `env:"QSTASH_ENABLED" envDefault:"false"`
	QStashBaseURL               string        `env:"QSTASH_BASE_URL" envDefault:"https://qstash.upstash.io"`
	QStashToken                 string        `env:"QSTASH_TOKEN"`
	QStashTargetBaseURL         string        `env:"QSTASH_TARGET_BASE_URL"`
	QStashRetries               int           `env:"QSTASH_RETRIES" envDefault:"3"`
	QStashTimeout               time.Duration `env:"QSTASH_TIMEOUT" envDefault:"5s"`
	QStashCircuitEnabled        bool          `env:"QSTASH_CIRCUIT_ENABLED" envDefault:"true"`
	QStashCircuitFailureCount   int           `env:"QSTASH_CIRCUIT_FAILURE_COUNT" envDefault:"5"`
	QStashCircuitOpenTimeout    time.Duration `env:"QSTASH_CIRCUIT_OPEN_TIMEOUT" envDefault:"30s"`
	QStashCircuitHalfOpenMaxReq int           `env:"QSTASH_CIRCUIT_HALF_OPEN_MAX_REQ" envDefault:"1"`
	JobDedupBucket              time.Duration `env:"JOB_DEDUP_BUCKET" envDefault:"1m"`

	NotifyEnabled    bool   `env:"NOTIFY_ENABLED" envDefault:"false"`
	NotifyTargetPath string `env:"NOTIFY_TARGET_PATH" envDefault:"/internal/notifications/signals"`

	UptraceEnabled bool   `env:"UPTRACE_ENABLED" envDefault:"false"`
	UptraceDSN     string `env:"UPTRACE_DSN"`
	OTLPHeaders    string `env:"OTEL_EXPORTER_OTLP_HEADERS"`

	PyroscopeEnabled       bool          `env:"PYROSCOPE_ENABLED" envDefault:"false"`
	PyroscopeServerAddress string        `env:"PYROSCOPE_SERVER_ADDRESS"`
	PyroscopeAppName       string        `env:"PYROSCOPE_APP_NAME"`
	PyroscopeAuthToken     string        `env:"PYROSCOPE_AUTH_TOKEN"`
	PyroscopeUploadRate    time.Duration `env:"PYROSCOPE_UPLOAD_RATE" envDefault:"15s"`

	LogLevel logging.Level `env:"-"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	appEnv, err := parseAppEnv(cfg.AppEnv)
	if err != nil {
		return Config{}, err
	}
	cfg.AppEnv = appEnv
	cfg.LogLevel = logging.ParseLevel(cfg.LogLevelRaw)
	if cfg.SwaggerEnabled == nil {
		enabled := appEnv != EnvProd
		cfg.SwaggerEnabled = &enabled
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch cfg.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if strings.TrimSpace(cfg.DBURL) == "" {
			return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", cfg.StorageDriver, StorageDriverPostgres, StorageDriverMemory)
	}

	if cfg.CacheEnabled && cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0 when CACHE_ENABLED=true")
	}
	if cfg.DraftRounds <= 0 {
		return Config{}, fmt.Errorf("DRAFT_ROUNDS must be > 0")
	}
	if cfg.RosterMaxActive <= 0 {
		return Config{}, fmt.Errorf("ROSTER_MAX_ACTIVE must be > 0")
	}
	if cfg.JobMaxWorkers <= 0 {
		return Config{}, fmt.Errorf("JOB_MAX_WORKERS must be > 0")
	}

	cfg.QStashBaseURL = strings.TrimRight(strings.TrimSpace(cfg.QStashBaseURL), "/")
	cfg.QStashTargetBaseURL = strings.TrimRight(strings.TrimSpace(cfg.QStashTargetBaseURL), "/")
	if cfg.QStashEnabled {
		if strings.TrimSpace(cfg.QStashToken) == "" {
			return Config{}, fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if cfg.QStashTargetBaseURL == "" {
			return Config{}, fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if strings.TrimSpace(cfg.InternalJobToken) == "" {
			return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}
	if cfg.QStashRetries < 0 {
		return Config{}, fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	if cfg.NotifyEnabled && !cfg.QStashEnabled {
		return Config{}, fmt.Errorf("QSTASH_ENABLED=true is required when NOTIFY_ENABLED=true")
	}

	cfg.UptraceDSN = strings.TrimSpace(cfg.UptraceDSN)
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(cfg.OTLPHeaders)
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled && strings.TrimSpace(cfg.PyroscopeServerAddress) == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if strings.TrimSpace(cfg.PyroscopeAppName) == "" {
		cfg.PyroscopeAppName = cfg.ServiceName
	}
	if cfg.PyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	return cfg, nil
}

// Game converts the rule knobs into the usecase configuration.
func (c Config) Game() usecase.GameConfig {
	return usecase.GameConfig{
		DraftRounds:           c.DraftRounds,
		EnforceDraftTurn:      c.DraftEnforceTurn,
		MaxActiveCastaways:    c.RosterMaxActive,
		AllowScoreCorrections: c.ScoringAllowCorrections,
		MaxWorkers:            c.JobMaxWorkers,
	}
}

func (c Config) QStashCircuitBreaker() resilience.CircuitBreakerConfig {
	return resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
		Enabled:          c.QStashCircuitEnabled,
		FailureThreshold: c.QStashCircuitFailureCount,
		OpenTimeout:      c.QStashCircuitOpenTimeout,
		HalfOpenMaxReq:   c.QStashCircuitHalfOpenMaxReq,
	})
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
