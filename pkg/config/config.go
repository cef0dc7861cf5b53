package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Closeout     CloseoutConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VELVET_APP_ENV" required:"true"`
	Port         string `envconfig:"VELVET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VELVET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VELVET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"VELVET_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"VELVET_DB_DSN"`
	Driver string `envconfig:"VELVET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VELVET_DB_HOST"`
	LegacyPort     int    `envconfig:"VELVET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VELVET_DB_USER"`
	LegacyPassword string `envconfig:"VELVET_DB_PASSWORD"`
	LegacyName     string `envconfig:"VELVET_DB_NAME"`
	LegacySSLMode  string `envconfig:"VELVET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VELVET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VELVET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VELVET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VELVET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VELVET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VELVET_REDIS_ADDR"`
	Password     string        `envconfig:"VELVET_REDIS_PASSWORD"`
	DB           int           `envconfig:"VELVET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VELVET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VELVET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VELVET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VELVET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VELVET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VELVET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VELVET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VELVET_JWT_EXPIRATION_MINUTES" required:"true"`
}

// AccessTokenTTL returns the access token TTL configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VELVET_AUTO_MIGRATE" default:"false"`
}

type CloseoutConfig struct {
	// MaxCSVRows bounds a single reconciliation preview request.
	MaxCSVRows int `envconfig:"VELVET_CLOSEOUT_MAX_CSV_ROWS" default:"500"`
	// IdempotencyTTL bounds replay detection on closeout submissions.
	IdempotencyTTL time.Duration `envconfig:"VELVET_CLOSEOUT_IDEMPOTENCY_TTL" default:"24h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"VELVET_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"VELVET_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VELVET_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	SettlementTopic        string `envconfig:"VELVET_PUBSUB_SETTLEMENT_TOPIC" default:"velvet-settlement-events"`
	SettlementSubscription string `envconfig:"VELVET_PUBSUB_SETTLEMENT_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"VELVET_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"VELVET_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"VELVET_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
