package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds SQL database connection settings.
type DatabaseConfig struct {
	Type               string // mysql or postgres
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	Charset            string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// RedisConfig holds the Redis connection used for tokens and rate limiting.
type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	DB         int
	TimeoutSec int
	MaxIdle    int
}

// TokenConfig controls JWT issuing and the Redis token keys.
type TokenConfig struct {
	SecretKey            string
	Algorithm            string
	ExpireSeconds        int
	RefreshExpireSeconds int
	RedisPrefix          string
	RefreshRedisPrefix   string
	// ExcludePaths skip JWT authentication entirely.
	ExcludePaths []string
}

// LimiterConfig controls the Redis-backed request limiter on sensitive routes.
type LimiterConfig struct {
	Enabled     bool
	Requests    int
	WindowSec   int
	RedisPrefix string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// CORSConfig controls the CORS middleware.
type CORSConfig struct {
	Enabled       bool
	AllowOrigins  []string
	ExposeHeaders []string
}

// PermissionConfig tunes role-menu authorization.
type PermissionConfig struct {
	// RoleMenuExclude lists permission identifiers that every role may use.
	RoleMenuExclude []string
}

// TracingConfig selects the OTLP exporter and sampler. The exporters also
// honor the standard OTEL_EXPORTER_OTLP_* variables on their own.
type TracingConfig struct {
	Disabled    bool
	ServiceName string
	Protocol    string
	Endpoint    string
	Sampler     string
	SamplerArg  string
}

// AppConfig is the centralized configuration struct for the application.
// Values come from defaults, an optional adminapi.yaml, then the environment.
type AppConfig struct {
	AppHost        string
	Port           string
	Env            string
	Timezone       string
	DatetimeFormat string
	LogLevel       string
	Database       DatabaseConfig
	Redis          RedisConfig
	Token          TokenConfig
	Limiter        LimiterConfig
	MinIO          MinIOConfig
	CORS           CORSConfig
	Permission     PermissionConfig
	Tracing        TracingConfig
}

var defaults = map[string]any{
	"APP_HOST":                     "localhost:8080",
	"PORT":                         "8080",
	"APP_ENV":                      "dev",
	"TIMEZONE":                     "Asia/Shanghai",
	"DATETIME_FORMAT":              "2006-01-02 15:04:05",
	"LOG_LEVEL":                    "info",
	"DB_TYPE":                      "mysql",
	"DB_PORT":                      "3306",
	"DB_CHARSET":                   "utf8mb4",
	"DB_SSLMODE":                   "disable",
	"DB_MAX_OPEN_CONNS":            10,
	"DB_MAX_IDLE_CONNS":            5,
	"DB_CONN_MAX_LIFETIME_SEC":     300,
	"REDIS_HOST":                   "localhost",
	"REDIS_PORT":                   "6379",
	"REDIS_DB":                     0,
	"REDIS_TIMEOUT_SEC":            5,
	"REDIS_MAX_IDLE":               10,
	"TOKEN_ALGORITHM":              "HS256",
	"TOKEN_EXPIRE_SECONDS":         60 * 60 * 24,
	"TOKEN_REFRESH_EXPIRE_SECONDS": 60 * 60 * 24 * 7,
	"TOKEN_REDIS_PREFIX":           "fba:token",
	"TOKEN_REFRESH_REDIS_PREFIX":   "fba:refresh_token",
	"TOKEN_EXCLUDE_PATHS":          "/api/v1/auth/login,/api/v1/auth/token/refresh",
	"LIMITER_ENABLED":              true,
	"LIMITER_REQUESTS":             5,
	"LIMITER_WINDOW_SEC":           60,
	"LIMITER_REDIS_PREFIX":         "fba:limiter",
	"MINIO_USE_SSL":                false,
	"CORS_ENABLED":                 true,
	"CORS_ALLOW_ORIGINS":           "http://127.0.0.1:8000,http://localhost:5173",
	"CORS_EXPOSE_HEADERS":          "X-Request-ID",
	"RBAC_ROLE_MENU_EXCLUDE":       "sys:monitor:redis,sys:monitor:server",
	"OTEL_SDK_DISABLED":            false,
	"OTEL_SERVICE_NAME":            "adminapi",
	"OTEL_EXPORTER_OTLP_PROTOCOL":  "grpc",
	"OTEL_TRACES_SAMPLER":          "parentbased_traceidratio",
	"OTEL_TRACES_SAMPLER_ARG":      "1.0",
}

// Load reads configuration. A .env file can be auto-loaded by importing:
// _ "github.com/joho/godotenv/autoload". Real environment variables take precedence
// over adminapi.yaml, which takes precedence over defaults.
func Load() (*AppConfig, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	return &AppConfig{
		AppHost:        v.GetString("APP_HOST"),
		Port:           v.GetString("PORT"),
		Env:            v.GetString("APP_ENV"),
		Timezone:       v.GetString("TIMEZONE"),
		DatetimeFormat: v.GetString("DATETIME_FORMAT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		Database: DatabaseConfig{
			Type:               strings.ToLower(v.GetString("DB_TYPE")),
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			Charset:            v.GetString("DB_CHARSET"),
			SSLMode:            v.GetString("DB_SSLMODE"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeSec: v.GetInt("DB_CONN_MAX_LIFETIME_SEC"),
		},
		Redis: RedisConfig{
			Host:       v.GetString("REDIS_HOST"),
			Port:       v.GetString("REDIS_PORT"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         v.GetInt("REDIS_DB"),
			TimeoutSec: v.GetInt("REDIS_TIMEOUT_SEC"),
			MaxIdle:    v.GetInt("REDIS_MAX_IDLE"),
		},
		Token: TokenConfig{
			SecretKey:            v.GetString("TOKEN_SECRET_KEY"),
			Algorithm:            v.GetString("TOKEN_ALGORITHM"),
			ExpireSeconds:        v.GetInt("TOKEN_EXPIRE_SECONDS"),
			RefreshExpireSeconds: v.GetInt("TOKEN_REFRESH_EXPIRE_SECONDS"),
			RedisPrefix:          v.GetString("TOKEN_REDIS_PREFIX"),
			RefreshRedisPrefix:   v.GetString("TOKEN_REFRESH_REDIS_PREFIX"),
			ExcludePaths:         getList(v, "TOKEN_EXCLUDE_PATHS"),
		},
		Limiter: LimiterConfig{
			Enabled:     v.GetBool("LIMITER_ENABLED"),
			Requests:    v.GetInt("LIMITER_REQUESTS"),
			WindowSec:   v.GetInt("LIMITER_WINDOW_SEC"),
			RedisPrefix: v.GetString("LIMITER_REDIS_PREFIX"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
		CORS: CORSConfig{
			Enabled:       v.GetBool("CORS_ENABLED"),
			AllowOrigins:  getList(v, "CORS_ALLOW_ORIGINS"),
			ExposeHeaders: getList(v, "CORS_EXPOSE_HEADERS"),
		},
		Permission: PermissionConfig{
			RoleMenuExclude: getList(v, "RBAC_ROLE_MENU_EXCLUDE"),
		},
		Tracing: TracingConfig{
			Disabled:    v.GetBool("OTEL_SDK_DISABLED"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			Protocol:    v.GetString("OTEL_EXPORTER_OTLP_PROTOCOL"),
			Endpoint:    firstNonEmpty(v.GetString("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"), v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
			Sampler:     v.GetString("OTEL_TRACES_SAMPLER"),
			SamplerArg:  v.GetString("OTEL_TRACES_SAMPLER_ARG"),
		},
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}

// Validate reports settings the server cannot start without.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Token.SecretKey == "" {
		errs = append(errs, errors.New("TOKEN_SECRET_KEY is required"))
	}
	if c.Database.Type != "mysql" && c.Database.Type != "postgres" {
		errs = append(errs, errors.New("DB_TYPE must be mysql or postgres"))
	}
	if c.Limiter.Enabled && (c.Limiter.Requests <= 0 || c.Limiter.WindowSec <= 0) {
		errs = append(errs, errors.New("LIMITER_REQUESTS and LIMITER_WINDOW_SEC must be positive"))
	}
	return errors.Join(errs...)
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("adminapi")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	explicit := os.Getenv("ADMINAPI_CONFIG")
	if explicit != "" {
		v.SetConfigFile(explicit)
	}
	if err := v.ReadInConfig(); err != nil {
		// Without an explicit file the environment alone may configure us.
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()
	return v, nil
}

// getList accepts either a YAML list or a comma separated string.
func getList(v *viper.Viper, key string) []string {
	var raw []string
	switch val := v.Get(key).(type) {
	case string:
		raw = strings.Split(val, ",")
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = val
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
