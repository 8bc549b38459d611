package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	App            AppConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	AMQP           AMQPConfig
	JWT            JWTConfig
	Log            LogConfig
	Notify         NotifyConfig
	Recommendation RecommendationConfig
}

type AppConfig struct {
	AppName     string `env:"APP_NAME"`
	Environment string `env:"APP_ENV"`
	HTTPPort    string `env:"HTTP_PORT"`
}

type DatabaseConfig struct {
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`

	ConnectTimeout        time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`
	PoolMaxConns          int32         `env:"DB_POOL_MAX_CONNS"`
	PoolMinConns          int32         `env:"DB_POOL_MIN_CONNS"`
	PoolMaxConnLifetime   time.Duration `env:"DB_POOL_MAX_CONN_LIFETIME"`
	PoolMaxConnIdleTime   time.Duration `env:"DB_POOL_MAX_CONN_IDLE_TIME"`
	PoolHealthCheckPeriod time.Duration `env:"DB_POOL_HEALTH_CHECK_PERIOD"`

	// MigrationsDir overrides the embedded migrations when set.
	MigrationsDir string `env:"DB_MIGRATIONS_DIR"`
	Seed          bool   `env:"DB_SEED" envDefault:"false"`
}

// RedisConfig enables the pub/sub notification sink when Addr is set.
type RedisConfig struct {
	Addr          string `env:"REDIS_ADDR"`
	Password      string `env:"REDIS_PASSWORD"`
	DB            int    `env:"REDIS_DB" envDefault:"0"`
	ChannelPrefix string `env:"REDIS_NOTIFY_CHANNEL_PREFIX" envDefault:"notifications"`
}

// AMQPConfig enables the broker notification sink when URL is set.
type AMQPConfig struct {
	URL      string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE" envDefault:"session.events"`
}

type JWTConfig struct {
	AccessSecret    string        `env:"JWT_ACCESS_SECRET"`
	AccessExpiresIn time.Duration `env:"JWT_ACCESS_EXPIRES_IN" envDefault:"15m"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type NotifyConfig struct {
	Timeout            time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"3s"`
	BreakerMaxFailures uint32        `env:"NOTIFY_BREAKER_MAX_FAILURES" envDefault:"5"`
	BreakerOpenTimeout time.Duration `env:"NOTIFY_BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
}

type RecommendationConfig struct {
	SimilarityWeight float64 `env:"RECOMMEND_WEIGHT_SIMILARITY" envDefault:"0.5"`
	RatingWeight     float64 `env:"RECOMMEND_WEIGHT_RATING" envDefault:"0.3"`
	ActivityWeight   float64 `env:"RECOMMEND_WEIGHT_ACTIVITY" envDefault:"0.2"`
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	var missing []string
	req := func(key, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}
	req("APP_NAME", cfg.App.AppName)
	req("APP_ENV", cfg.App.Environment)
	req("HTTP_PORT", cfg.App.HTTPPort)
	req("JWT_ACCESS_SECRET", cfg.JWT.AccessSecret)

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	cfg.Redis.Addr = strings.TrimSpace(cfg.Redis.Addr)
	cfg.AMQP.URL = strings.TrimSpace(cfg.AMQP.URL)
	return cfg, nil
}
