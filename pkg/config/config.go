package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Storage       StorageConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Seed          SeedConfig
	Sentry        SentryConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.UsesSQL() {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GIFTCONNECT_APP_ENV" required:"true"`
	Port         string `envconfig:"GIFTCONNECT_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"GIFTCONNECT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GIFTCONNECT_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"GIFTCONNECT_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	var out []string
	for _, part := range strings.Split(a.CORSOrigins, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

// StorageConfig selects the repository backing the marketplace.
type StorageConfig struct {
	Backend string `envconfig:"GIFTCONNECT_STORAGE_BACKEND" default:"memory"`
}

// UsesSQL reports whether the gorm-backed storage is selected.
func (s StorageConfig) UsesSQL() bool {
	return strings.EqualFold(strings.TrimSpace(s.Backend), StorageBackendSQL)
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case StorageBackendMemory, StorageBackendSQL:
		return nil
	}
	return fmt.Errorf("%s must be %q or %q, got %q", EnvStorageBackend, StorageBackendMemory, StorageBackendSQL, s.Backend)
}

type DBConfig struct {
	DSN    string `envconfig:"GIFTCONNECT_DB_DSN"`
	Driver string `envconfig:"GIFTCONNECT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"GIFTCONNECT_DB_HOST"`
	Port     int    `envconfig:"GIFTCONNECT_DB_PORT" default:"5432"`
	User     string `envconfig:"GIFTCONNECT_DB_USER"`
	Password string `envconfig:"GIFTCONNECT_DB_PASSWORD"`
	Name     string `envconfig:"GIFTCONNECT_DB_NAME"`
	SSLMode  string `envconfig:"GIFTCONNECT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GIFTCONNECT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GIFTCONNECT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GIFTCONNECT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GIFTCONNECT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"GIFTCONNECT_DB_SLOW_QUERY" default:"200ms"`
}

// IsSQLite reports whether the sqlite driver is configured.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	// Disabled swaps the session store for an in-process map and turns off
	// auth rate limiting. Intended for local runs and tests.
	Disabled     bool          `envconfig:"GIFTCONNECT_REDIS_DISABLED" default:"false"`
	URL          string        `envconfig:"GIFTCONNECT_REDIS_URL"`
	Address      string        `envconfig:"GIFTCONNECT_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"GIFTCONNECT_REDIS_PASSWORD"`
	DB           int           `envconfig:"GIFTCONNECT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GIFTCONNECT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GIFTCONNECT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GIFTCONNECT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GIFTCONNECT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GIFTCONNECT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"GIFTCONNECT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"GIFTCONNECT_JWT_ISSUER" default:"giftconnect"`
	ExpirationMinutes      int    `envconfig:"GIFTCONNECT_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"GIFTCONNECT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GIFTCONNECT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GIFTCONNECT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GIFTCONNECT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GIFTCONNECT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GIFTCONNECT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"GIFTCONNECT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit    int           `envconfig:"GIFTCONNECT_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"GIFTCONNECT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"GIFTCONNECT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUsernameLimit int           `envconfig:"GIFTCONNECT_AUTH_RATE_LIMIT_REGISTER_USERNAME_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"GIFTCONNECT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GIFTCONNECT_AUTO_MIGRATE" default:"false"`
	SeedAdmin   bool `envconfig:"GIFTCONNECT_SEED_ADMIN" default:"true"`
}

// SeedConfig describes the bootstrap administrator account.
type SeedConfig struct {
	AdminUsername string `envconfig:"GIFTCONNECT_SEED_ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"GIFTCONNECT_SEED_ADMIN_PASSWORD"`
	AdminEmail    string `envconfig:"GIFTCONNECT_SEED_ADMIN_EMAIL" default:"admin@giftconnect.com"`
	AdminName     string `envconfig:"GIFTCONNECT_SEED_ADMIN_NAME" default:"System Admin"`
	AdminCompany  string `envconfig:"GIFTCONNECT_SEED_ADMIN_COMPANY" default:"GiftConnect"`
}

type SentryConfig struct {
	DSN              string  `envconfig:"GIFTCONNECT_SENTRY_DSN"`
	TracesSampleRate float64 `envconfig:"GIFTCONNECT_SENTRY_TRACES_SAMPLE_RATE" default:"0"`
}

// Enabled reports whether a Sentry DSN has been configured.
func (s SentryConfig) Enabled() bool {
	return strings.TrimSpace(s.DSN) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
