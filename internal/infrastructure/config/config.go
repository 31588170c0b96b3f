package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported backends
const (
	GuestBackendCookie = "cookie"
	GuestBackendRedis  = "redis"
	GuestBackendMemory = "memory"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageDriverS3     = "s3"
	StorageDriverStatic = "static"
)

// Config is the process configuration. Keys are the lower-case mapstructure
// names, e.g. cart.guest_backend, overridable as MKT_CART_GUEST_BACKEND.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Cookie    CookieConfig    `mapstructure:"cookie"`
	Cart      CartConfig      `mapstructure:"cart"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Swagger   SwaggerConfig   `mapstructure:"swagger"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// DatabaseConfig selects postgres (host, port, ...) or an sqlite file (Path)
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// JWTConfig validates bearer tokens issued by the identity service
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// CookieConfig holds attributes shared by every cookie the service sets
type CookieConfig struct {
	Domain   string `mapstructure:"domain"`
	Path     string `mapstructure:"path"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"` // strict, lax or none
}

// CartConfig holds guest cart settings
type CartConfig struct {
	GuestBackend   string        `mapstructure:"guest_backend"`
	ItemsCookie    string        `mapstructure:"items_cookie"` // the guest cart itself, cookie backend only
	TokenCookie    string        `mapstructure:"token_cookie"`
	Lifetime       time.Duration `mapstructure:"lifetime"`
	RedisKeyPrefix string        `mapstructure:"redis_key_prefix"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	GormLevel string `mapstructure:"gorm_level"`
}

type HTTPConfig struct {
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"` // 0 disables the limit
}

type SwaggerConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig locates product images: presigned S3 URLs, or plain URLs
// under PublicBaseURL for the static driver
type StorageConfig struct {
	Driver        string        `mapstructure:"driver"`
	Endpoint      string        `mapstructure:"endpoint"`
	Region        string        `mapstructure:"region"`
	Bucket        string        `mapstructure:"bucket"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	UsePathStyle  bool          `mapstructure:"use_path_style"`
	PresignTTL    time.Duration `mapstructure:"presign_ttl"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
}

// TelemetryConfig switches the OTLP signals. Enabled covers traces.
type TelemetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	MetricsEnabled    bool    `mapstructure:"metrics_enabled"`
	LogsEnabled       bool    `mapstructure:"logs_enabled"`
	CollectorEndpoint string  `mapstructure:"collector_endpoint"`
	SamplingRatio     float64 `mapstructure:"sampling_ratio"`
	ServiceName       string  `mapstructure:"service_name"`
	Insecure          bool    `mapstructure:"insecure"`
	DBTraceEnabled    bool    `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool    `mapstructure:"db_log_full_sql"`
}

// ProfilingConfig holds Pyroscope settings
type ProfilingConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ServerAddress string `mapstructure:"server_address"`
	SpanProfiles  bool   `mapstructure:"span_profiles"`
	Allocations   bool   `mapstructure:"allocations"`
	Goroutines    bool   `mapstructure:"goroutines"`
}

// defaults registers every key. A key viper has never seen is not looked
// up in the environment by Unmarshal, so unset keys get a zero value here.
var defaults = map[string]any{
	"app.name": "marketplace-backend",
	"app.env":  "development",
	"app.port": "8080",

	"database.driver":            DriverPostgres,
	"database.host":              "localhost",
	"database.port":              5432,
	"database.user":              "postgres",
	"database.password":          "",
	"database.dbname":            "marketplace",
	"database.sslmode":           "disable",
	"database.path":              "marketplace.db",
	"database.max_open_conns":    25,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": time.Hour,

	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret": "",
	"jwt.issuer": "marketplace-backend",

	"cookie.domain":    "",
	"cookie.path":      "/",
	"cookie.secure":    false,
	"cookie.same_site": "lax",

	"cart.guest_backend":    GuestBackendCookie,
	"cart.items_cookie":     "cartItems",
	"cart.token_cookie":     "cart_token",
	"cart.lifetime":         365 * 24 * time.Hour,
	"cart.redis_key_prefix": "cart:guest:",

	"log.level":      "info",
	"log.format":     "console",
	"log.output":     "stdout",
	"log.gorm_level": "warn",

	"http.read_timeout":    15 * time.Second,
	"http.write_timeout":   15 * time.Second,
	"http.idle_timeout":    60 * time.Second,
	"http.trusted_proxies": []string{},
	"http.max_body_bytes":  64 << 10,

	"swagger.enabled": false,

	"storage.driver":          StorageDriverStatic,
	"storage.endpoint":        "",
	"storage.region":          "us-east-1",
	"storage.bucket":          "",
	"storage.access_key":      "",
	"storage.secret_key":      "",
	"storage.use_path_style":  false,
	"storage.presign_ttl":     15 * time.Minute,
	"storage.public_base_url": "",

	"telemetry.enabled":            false,
	"telemetry.metrics_enabled":    false,
	"telemetry.logs_enabled":       false,
	"telemetry.collector_endpoint": "localhost:4317",
	"telemetry.sampling_ratio":     1.0,
	"telemetry.service_name":       "",
	"telemetry.insecure":           false,
	"telemetry.db_trace_enabled":   false,
	"telemetry.db_log_full_sql":    false,

	"profiling.enabled":        false,
	"profiling.server_address": "",
	"profiling.span_profiles":  false,
	"profiling.allocations":    false,
	"profiling.goroutines":     false,
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix("MKT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	return &cfg, nil
}

// Load layers MKT_* environment variables over config.toml (working
// directory or /app, optional) over the built-in defaults, then validates.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	switch c.Cart.GuestBackend {
	case GuestBackendCookie, GuestBackendRedis, GuestBackendMemory:
	default:
		return fmt.Errorf("cart.guest_backend must be cookie, redis or memory, got %q", c.Cart.GuestBackend)
	}
	if c.HTTP.MaxBodyBytes < 0 {
		return fmt.Errorf("http.max_body_bytes cannot be negative")
	}
	if c.Cart.Lifetime < 0 {
		return fmt.Errorf("cart.lifetime cannot be negative")
	}

	switch c.Storage.Driver {
	case StorageDriverStatic:
	case StorageDriverS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("storage.driver must be s3 or static, got %q", c.Storage.Driver)
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Profiling.Enabled && c.Profiling.ServerAddress == "" {
		return fmt.Errorf("profiling.server_address is required when profiling is enabled")
	}

	if c.App.Env == "production" {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if !c.Cookie.Secure {
			return fmt.Errorf("cookie.secure must be true in production")
		}
		if c.Cart.GuestBackend == GuestBackendMemory {
			return fmt.Errorf("cart.guest_backend=memory is not allowed in production")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
	}
	if c.Cookie.SameSite == "none" && !c.Cookie.Secure {
		return fmt.Errorf("cookie.same_site=none requires cookie.secure=true")
	}
	return nil
}

// DSN returns the postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
