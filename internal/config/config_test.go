package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "PORT", "DB_DRIVER", "DATABASE_URL", "SQLITE_PATH", "REDIS_ADDR", "WORKER_COUNT", "CORS_ORIGIN", "LOCK_TTL_MS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	require.Equal(t, 3000, cfg.HTTPPort)
	require.Equal(t, DriverSQLite, cfg.DBDriver)
	require.Equal(t, "carpool.db", cfg.SQLitePath)
	require.Equal(t, "*", cfg.CorsOrigin)
	require.Equal(t, 4, cfg.WorkerCount)
	require.Equal(t, 5000, cfg.LockTTLMs)
	require.Empty(t, cfg.RedisAddr)
	require.Equal(t, ":3000", cfg.Addr())
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/carpool")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("WORKER_COUNT", "8")

	cfg := Load()
	require.Equal(t, 8081, cfg.HTTPPort)
	require.Equal(t, DriverPostgres, cfg.DBDriver)
	require.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, 8, cfg.WorkerCount)
	require.NoError(t, cfg.Validate())
}

func TestLoadPortFallback(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("PORT", "4000")
	require.Equal(t, 4000, Load().HTTPPort)

	t.Setenv("HTTP_PORT", "5000")
	require.Equal(t, 5000, Load().HTTPPort)
}

func TestValidate(t *testing.T) {
	base := Config{DBDriver: DriverSQLite, SQLitePath: "x.db", HTTPPort: 1, WorkerCount: 1, LockTTLMs: 1}
	require.NoError(t, base.Validate())

	c := base
	c.DBDriver = "mysql"
	require.Error(t, c.Validate())

	c = base
	c.DBDriver = DriverPostgres
	require.Error(t, c.Validate())

	c = base
	c.SQLitePath = ""
	require.Error(t, c.Validate())

	c = base
	c.HTTPPort = 0
	require.Error(t, c.Validate())

	c = base
	c.WorkerCount = 0
	require.Error(t, c.Validate())

	c = base
	c.LockTTLMs = -1
	require.Error(t, c.Validate())
}
