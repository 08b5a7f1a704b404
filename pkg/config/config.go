package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "pulperia"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Identity     IdentityConfig
	Realtime     RealtimeConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PULPERIA_APP_ENV" default:"dev"`
	Port         string `envconfig:"PULPERIA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PULPERIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PULPERIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PULPERIA_DB_DSN" required:"true"`
	Driver string `envconfig:"PULPERIA_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"PULPERIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PULPERIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PULPERIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PULPERIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PULPERIA_REDIS_URL" required:"true"`
	Password     string        `envconfig:"PULPERIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"PULPERIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PULPERIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PULPERIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PULPERIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PULPERIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PULPERIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	CookieName string        `envconfig:"PULPERIA_SESSION_COOKIE_NAME" default:"session_token"`
	TTL        time.Duration `envconfig:"PULPERIA_SESSION_TTL" default:"168h"`
	Secure     bool          `envconfig:"PULPERIA_SESSION_COOKIE_SECURE" default:"true"`
}

// IdentityConfig points at the external OAuth-style identity provider that
// exchanges a session id for user profile data plus a session token.
type IdentityConfig struct {
	BaseURL string        `envconfig:"PULPERIA_IDENTITY_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"PULPERIA_IDENTITY_TIMEOUT" default:"10s"`
}

type RealtimeConfig struct {
	// ReceiveTimeout bounds the wait for the next inbound frame before the
	// server probes the connection with a ping.
	ReceiveTimeout time.Duration `envconfig:"PULPERIA_WS_RECEIVE_TIMEOUT" default:"60s"`
	WriteTimeout   time.Duration `envconfig:"PULPERIA_WS_WRITE_TIMEOUT" default:"10s"`
	MinUserIDLen   int           `envconfig:"PULPERIA_WS_MIN_USER_ID_LEN" default:"5"`
}

type CORSConfig struct {
	Origins []string `envconfig:"PULPERIA_CORS_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PULPERIA_AUTO_MIGRATE" default:"false"`
}
