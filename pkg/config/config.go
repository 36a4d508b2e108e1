package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "PLANTITAS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PLANTITAS_DB_DSN"
	EnvDBHost = "PLANTITAS_DB_HOST"
	EnvDBUser = "PLANTITAS_DB_USER"
	EnvDBName = "PLANTITAS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Alerts       AlertsConfig
	Sendgrid     SendgridConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"PLANTITAS_APP_ENV" required:"true"`
	Port         string `envconfig:"PLANTITAS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PLANTITAS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PLANTITAS_LOG_WARN_STACK" default:"false"`
	Timezone     string `envconfig:"PLANTITAS_APP_TIMEZONE" default:"America/Santiago"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the configured shop timezone, falling back to UTC.
func (a AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type DBConfig struct {
	DSN    string `envconfig:"PLANTITAS_DB_DSN"`
	Driver string `envconfig:"PLANTITAS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PLANTITAS_DB_HOST"`
	LegacyPort     int    `envconfig:"PLANTITAS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PLANTITAS_DB_USER"`
	LegacyPassword string `envconfig:"PLANTITAS_DB_PASSWORD"`
	LegacyName     string `envconfig:"PLANTITAS_DB_NAME"`
	LegacySSLMode  string `envconfig:"PLANTITAS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PLANTITAS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PLANTITAS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PLANTITAS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PLANTITAS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PLANTITAS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PLANTITAS_REDIS_ADDR"`
	Password     string        `envconfig:"PLANTITAS_REDIS_PASSWORD"`
	DB           int           `envconfig:"PLANTITAS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PLANTITAS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PLANTITAS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PLANTITAS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PLANTITAS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PLANTITAS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PLANTITAS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PLANTITAS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PLANTITAS_JWT_EXPIRATION_MINUTES" default:"480"`
}

type AlertsConfig struct {
	// DigestRecipients is a comma or semicolon separated list of inboxes
	// that receive the daily care digest.
	DigestRecipients string `envconfig:"PLANTITAS_ALERTS_EMAIL_TO"`
}

// Recipients splits the configured digest recipient list.
func (a AlertsConfig) Recipients() []string {
	raw := strings.ReplaceAll(a.DigestRecipients, ";", ",")
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type SendgridConfig struct {
	APIKey      string `envconfig:"PLANTITAS_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"PLANTITAS_SENDGRID_FROM_EMAIL"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"PLANTITAS_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"PLANTITAS_CRON_LOCK_TTL" default:"25h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PLANTITAS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PLANTITAS_AUTO_MIGRATE" default:"false"`
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
