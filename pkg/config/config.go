package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is applied to every environment variable the service reads.
const EnvPrefix = "CARTLY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Currency CurrencyConfig
	Features FeatureFlagsConfig
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
	Env          string `envconfig:"CARTLY_APP_ENV" required:"true"`
	Port         string `envconfig:"CARTLY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CARTLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARTLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CARTLY_DB_DSN"`
	Driver string `envconfig:"CARTLY_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CARTLY_DB_HOST"`
	Port     int    `envconfig:"CARTLY_DB_PORT" default:"5432"`
	User     string `envconfig:"CARTLY_DB_USER"`
	Password string `envconfig:"CARTLY_DB_PASSWORD"`
	Name     string `envconfig:"CARTLY_DB_NAME"`
	SSLMode  string `envconfig:"CARTLY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARTLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARTLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARTLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARTLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARTLY_REDIS_URL"`
	Address      string        `envconfig:"CARTLY_REDIS_ADDR"`
	Password     string        `envconfig:"CARTLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARTLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARTLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARTLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARTLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARTLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARTLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CARTLY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CARTLY_JWT_ISSUER" default:"cartly"`
	AccessTTLMinutes  int    `envconfig:"CARTLY_JWT_ACCESS_TTL_MINUTES" default:"60"`
	RefreshTTLMinutes int    `envconfig:"CARTLY_JWT_REFRESH_TTL_MINUTES" default:"10080"`
}

// AccessTTL returns the access token lifetime.
func (j JWTConfig) AccessTTL() time.Duration {
	if j.AccessTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (j JWTConfig) RefreshTTL() time.Duration {
	if j.RefreshTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CARTLY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CARTLY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CARTLY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CARTLY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CARTLY_ARGON_KEY_LEN" default:"32"`
}

type CurrencyConfig struct {
	CountriesURL string        `envconfig:"CARTLY_CURRENCY_COUNTRIES_URL" default:"https://restcountries.com/v3.1/all"`
	RatesURL     string        `envconfig:"CARTLY_CURRENCY_RATES_URL" default:"https://open.er-api.com/v6/latest"`
	CacheTTL     time.Duration `envconfig:"CARTLY_CURRENCY_CACHE_TTL" default:"1h"`
	HTTPTimeout  time.Duration `envconfig:"CARTLY_CURRENCY_HTTP_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CARTLY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"CARTLY_DB_HOST": db.Host,
		"CARTLY_DB_USER": db.User,
		"CARTLY_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either CARTLY_DB_DSN or %s are required", strings.Join(missing, ", "))
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
