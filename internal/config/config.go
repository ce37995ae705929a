package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	ServiceName string
	LoggerLevel string

	HTTPPort   int
	CorsOrigin string
	WebDir     string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	WorkerCount int
	LockTTLMs   int
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "carpool"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "info"))

	// PORT is honoured for hosts that only set that variable
	cfg.HTTPPort = cast.ToInt(getOrReturnDefault("HTTP_PORT", getOrReturnDefault("PORT", 3000)))
	cfg.CorsOrigin = cast.ToString(getOrReturnDefault("CORS_ORIGIN", "*"))
	cfg.WebDir = cast.ToString(getOrReturnDefault("WEB_DIR", ""))

	cfg.DBDriver = cast.ToString(getOrReturnDefault("DB_DRIVER", DriverSQLite))
	cfg.DatabaseURL = cast.ToString(getOrReturnDefault("DATABASE_URL", ""))
	cfg.SQLitePath = cast.ToString(getOrReturnDefault("SQLITE_PATH", "carpool.db"))

	cfg.RedisAddr = cast.ToString(getOrReturnDefault("REDIS_ADDR", ""))
	cfg.RedisPassword = cast.ToString(getOrReturnDefault("REDIS_PASSWORD", ""))
	cfg.RedisDB = cast.ToInt(getOrReturnDefault("REDIS_DB", 0))

	cfg.WorkerCount = cast.ToInt(getOrReturnDefault("WORKER_COUNT", 4))
	cfg.LockTTLMs = cast.ToInt(getOrReturnDefault("LOCK_TTL_MS", 5000))

	return cfg
}

// Validate reports the first setting that cannot be used to start the service.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is empty")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.HTTPPort <= 0 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("invalid WORKER_COUNT: %d", c.WorkerCount)
	}
	if c.LockTTLMs <= 0 {
		return fmt.Errorf("invalid LOCK_TTL_MS: %d", c.LockTTLMs)
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
