package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

const minProdJWTSecretLen = 32

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Reports       ReportsConfig
	CORS          CORSConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if cfg.App.IsProd() {
		if err := cfg.validateProd(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// validateProd rejects settings that are only acceptable outside production.
func (c *Config) validateProd() error {
	var err error
	if len(c.JWT.Secret) < minProdJWTSecretLen {
		err = multierr.Append(err, fmt.Errorf("%s must be at least %d characters in prod", EnvJWTSecret, minProdJWTSecretLen))
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if strings.TrimSpace(origin) == "*" {
			err = multierr.Append(err, fmt.Errorf("%s must not contain * in prod", EnvCORSAllowedOrigins))
			break
		}
	}
	if c.FeatureFlags.AutoMigrate {
		err = multierr.Append(err, fmt.Errorf("WHOLESALE_AUTO_MIGRATE is not allowed in prod"))
	}
	return err
}

type AppConfig struct {
	Env             string        `envconfig:"WHOLESALE_APP_ENV" required:"true"`
	Port            string        `envconfig:"WHOLESALE_APP_PORT" required:"true"`
	LogLevel        string        `envconfig:"WHOLESALE_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"WHOLESALE_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"WHOLESALE_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"WHOLESALE_DB_DSN"`

	LegacyHost     string `envconfig:"WHOLESALE_DB_HOST"`
	LegacyPort     int    `envconfig:"WHOLESALE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WHOLESALE_DB_USER"`
	LegacyPassword string `envconfig:"WHOLESALE_DB_PASSWORD"`
	LegacyName     string `envconfig:"WHOLESALE_DB_NAME"`
	LegacySSLMode  string `envconfig:"WHOLESALE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WHOLESALE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WHOLESALE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WHOLESALE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WHOLESALE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WHOLESALE_REDIS_URL"`
	Address      string        `envconfig:"WHOLESALE_REDIS_ADDR"`
	Password     string        `envconfig:"WHOLESALE_REDIS_PASSWORD"`
	DB           int           `envconfig:"WHOLESALE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WHOLESALE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WHOLESALE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WHOLESALE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WHOLESALE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WHOLESALE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"WHOLESALE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"WHOLESALE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"WHOLESALE_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"WHOLESALE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WHOLESALE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WHOLESALE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WHOLESALE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WHOLESALE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WHOLESALE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"WHOLESALE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"WHOLESALE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"WHOLESALE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"WHOLESALE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"WHOLESALE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"WHOLESALE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate    bool `envconfig:"WHOLESALE_AUTO_MIGRATE" default:"false"`
	RequireIdemKey bool `envconfig:"WHOLESALE_REQUIRE_IDEMPOTENCY_KEY" default:"true"`
}

// ReportsConfig carries the default windows used when callers omit startDate.
type ReportsConfig struct {
	DefaultWindow       time.Duration `envconfig:"WHOLESALE_REPORTS_DEFAULT_WINDOW" default:"720h"`
	AnalysisWindow      time.Duration `envconfig:"WHOLESALE_REPORTS_ANALYSIS_WINDOW" default:"2160h"`
	ForecastLookback    time.Duration `envconfig:"WHOLESALE_REPORTS_FORECAST_LOOKBACK" default:"2160h"`
	ForecastDefaultDays int           `envconfig:"WHOLESALE_REPORTS_FORECAST_DEFAULT_DAYS" default:"30"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"WHOLESALE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// CronConfig drives cmd/cron-worker. An empty MetricsPort disables the scrape listener.
type CronConfig struct {
	Interval           time.Duration `envconfig:"WHOLESALE_CRON_INTERVAL" default:"1h"`
	LockTTL            time.Duration `envconfig:"WHOLESALE_CRON_LOCK_TTL" default:"55m"`
	LowStockThreshold  int           `envconfig:"WHOLESALE_CRON_LOW_STOCK_THRESHOLD" default:"10"`
	DemandOverdueAfter time.Duration `envconfig:"WHOLESALE_CRON_DEMAND_OVERDUE_AFTER" default:"168h"`
	MetricsPort        string        `envconfig:"WHOLESALE_CRON_METRICS_PORT"`
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
