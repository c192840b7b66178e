package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string          `json:"env"`
	Http      HttpConfig      `json:"http"`
	Postgres  PostgresConfig  `json:"postgres"`
	Redis     RedisConfig     `json:"redis"`
	Auth      AuthConfig      `json:"auth"`
	Lifecycle LifecycleConfig `json:"lifecycle"`
	Cache     CacheConfig     `json:"cache"`
	Audit     AuditConfig     `json:"audit"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	RateLimitRPS    int           `json:"rate_limit_rps"`
	RateLimitBurst  int           `json:"rate_limit_burst"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode"`

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
}

type AuthConfig struct {
	JWTSecret string `json:"-"`
	Issuer    string `json:"issuer"`
}

type LifecycleConfig struct {
	// ReportAllowReopen adds the in_progress -> pending edge to reports.
	ReportAllowReopen bool `json:"report_allow_reopen"`
}

type CacheConfig struct {
	ListTTL time.Duration `json:"list_ttl"`
}

type AuditConfig struct {
	QueueKey   string        `json:"queue_key"`
	PopTimeout time.Duration `json:"pop_timeout"`
}

func Load() (*Config, error) {

	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			RateLimitRPS:    getEnvInt("HTTP_RATE_LIMIT_RPS", 10),
			RateLimitBurst:  getEnvInt("HTTP_RATE_LIMIT_BURST", 20),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "pg-local"),
			Port:            getEnvInt("POSTGRES_PORT", 5432),
			Database:        getEnv("POSTGRES_DB", "lapor_db"),
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
			SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConns:        int32(getEnvInt("POSTGRES_MAX_CONNS", 20)),
			MinConns:        int32(getEnvInt("POSTGRES_MIN_CONNS", 1)),
			MaxConnLifetime: getEnvDuration("POSTGRES_MAX_CONN_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "redis-local:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", "lapor-auth"),
		},
		Lifecycle: LifecycleConfig{
			ReportAllowReopen: getEnvBool("REPORT_ALLOW_REOPEN", false),
		},
		Cache: CacheConfig{
			ListTTL: getEnvDuration("CACHE_LIST_TTL", 30*time.Second),
		},
		Audit: AuditConfig{
			QueueKey:   getEnv("AUDIT_QUEUE_KEY", "audit:status_changes"),
			PopTimeout: getEnvDuration("AUDIT_POP_TIMEOUT", 5*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("postgres_db", cfg.Postgres.Database),
		slog.String("redis_addr", cfg.Redis.Addr),
		slog.Bool("report_allow_reopen", cfg.Lifecycle.ReportAllowReopen))

	return cfg, nil
}

func (c *Config) Validate() error {

	if c.Http.Port == "" || (len(c.Http.Port) > 0 && c.Http.Port[0] != ':') {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}

	if c.Postgres.Host == "" {
		return errors.New("POSTGRES_HOST required")
	}

	if len(c.Auth.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 bytes")
	}

	if c.Http.RateLimitRPS <= 0 || c.Http.RateLimitBurst <= 0 {
		return errors.New("HTTP_RATE_LIMIT_RPS and HTTP_RATE_LIMIT_BURST must be positive")
	}

	if c.Audit.QueueKey == "" {
		return errors.New("AUDIT_QUEUE_KEY required")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
