package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "DB_HOST", "DB_NAME", "REDIS_ADDR", "JWT_SECRET", "RATE_LIMIT_PER_MINUTE", "WORKER_CONCURRENCY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "jsoncompare", cfg.DB.Name)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 30, cfg.RateLimit)
	assert.Equal(t, 10, cfg.WorkerConcurrency)
}

func TestLoad_EnvFile(t *testing.T) {
	// godotenv never overrides variables that are already set
	for _, key := range []string{"DB_HOST", "WORKER_CONCURRENCY"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_HOST=db.internal\nWORKER_CONCURRENCY=4\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 4, cfg.WorkerConcurrency)
}

func TestLoad_InvalidInt(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "RATE_LIMIT_PER_MINUTE")
}

func TestDBConfig(t *testing.T) {
	c := DBConfig{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", c.DSN())
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", c.URL())
}
