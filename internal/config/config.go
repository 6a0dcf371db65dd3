package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port int `env:"PORT" envDefault:"3000"`

	DBHost      string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort      int           `env:"DB_PORT" envDefault:"5432"`
	DBUser      string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string        `env:"DB_PASS" envDefault:"postgres"`
	DBName      string        `env:"DB_NAME" envDefault:"assignment_db"`
	DBSSLMode   string        `env:"DB_SSLMODE" envDefault:"disable"`
	DatabaseURL string        `env:"DATABASE_URL"`
	DBMaxConns  int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBOpTimeout time.Duration `env:"DB_OP_TIMEOUT" envDefault:"30s"`

	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	MaxBodyBytes   int64  `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	UploadDir      string `env:"UPLOAD_DIR"`
	ExposeErrors   bool   `env:"EXPOSE_ERRORS" envDefault:"false"`

	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"30s"`

	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Parse loads an optional .env file and reads the environment into Config.
// Values already present in the environment win over the .env file.
func Parse() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive, got %d", cfg.DBMaxConns)
	}
	return cfg, nil
}

// PostgresDSN returns DATABASE_URL when set, otherwise a URL built from the DB_* parts.
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
