package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MERCANTO_DB_DSN"
	EnvDBHost = "MERCANTO_DB_HOST"
	EnvDBUser = "MERCANTO_DB_USER"
	EnvDBName = "MERCANTO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Carrier       CarrierConfig
	Returns       ReturnsConfig
	RateLimit     RateLimitConfig
	Notifications NotificationsConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"MERCANTO_APP_ENV" required:"true"`
	Port         string `envconfig:"MERCANTO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MERCANTO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MERCANTO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MERCANTO_DB_DSN"`
	Driver string `envconfig:"MERCANTO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MERCANTO_DB_HOST"`
	LegacyPort     int    `envconfig:"MERCANTO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MERCANTO_DB_USER"`
	LegacyPassword string `envconfig:"MERCANTO_DB_PASSWORD"`
	LegacyName     string `envconfig:"MERCANTO_DB_NAME"`
	LegacySSLMode  string `envconfig:"MERCANTO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MERCANTO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MERCANTO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MERCANTO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MERCANTO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MERCANTO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MERCANTO_REDIS_ADDR"`
	Password     string        `envconfig:"MERCANTO_REDIS_PASSWORD"`
	DB           int           `envconfig:"MERCANTO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MERCANTO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MERCANTO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MERCANTO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MERCANTO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MERCANTO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CarrierConfig controls the carrier gateway integration. When BaseURL is
// empty the offline gateway quotes from the local rate table instead.
type CarrierConfig struct {
	BaseURL        string        `envconfig:"MERCANTO_CARRIER_BASE_URL"`
	APIKey         string        `envconfig:"MERCANTO_CARRIER_API_KEY"`
	RequestTimeout time.Duration `envconfig:"MERCANTO_CARRIER_REQUEST_TIMEOUT" default:"10s"`
}

// ReturnsConfig controls the return consolidation pipeline. When
// RefundBaseURL is empty the offline refund gateway settles every refund
// locally.
type ReturnsConfig struct {
	Carrier       string        `envconfig:"MERCANTO_RETURNS_CARRIER" default:"ups"`
	RefundBaseURL string        `envconfig:"MERCANTO_REFUND_BASE_URL"`
	RefundAPIKey  string        `envconfig:"MERCANTO_REFUND_API_KEY"`
	RefundTimeout time.Duration `envconfig:"MERCANTO_REFUND_TIMEOUT" default:"5s"`
}

// RateLimitConfig throttles mutating API requests per client IP. Zero
// requests disables the limiter.
type RateLimitConfig struct {
	Requests int           `envconfig:"MERCANTO_RATE_LIMIT_REQUESTS" default:"120"`
	Window   time.Duration `envconfig:"MERCANTO_RATE_LIMIT_WINDOW" default:"1m"`
}

type NotificationsConfig struct {
	FromEmail string `envconfig:"MERCANTO_NOTIFICATIONS_FROM_EMAIL" default:"orders@mercanto.example"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MERCANTO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MERCANTO_AUTO_MIGRATE" default:"false"`
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
