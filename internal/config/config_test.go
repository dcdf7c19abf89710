package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "joinomu", cfg.DBName)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	assert.Equal(t, "atomic", cfg.ProvisioningPolicy)
	assert.Equal(t, 30*time.Second, cfg.ReconcilerInterval)
	assert.Equal(t, 8, cfg.ReconcilerMaxRetries)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "catalog.json", cfg.CatalogPath)
	assert.Equal(t, 30, cfg.LogRetentionDays)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "joinomu_test")
	t.Setenv("PROVISIONING_POLICY", "best-effort")
	t.Setenv("RECONCILER_INTERVAL", "2m")
	t.Setenv("RECONCILER_MAX_RETRIES", "3")
	t.Setenv("JWT_ACCESS_EXPIRY", "5m")

	cfg := Load()

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "joinomu_test", cfg.DBName)
	assert.Equal(t, "best-effort", cfg.ProvisioningPolicy)
	assert.Equal(t, 2*time.Minute, cfg.ReconcilerInterval)
	assert.Equal(t, 3, cfg.ReconcilerMaxRetries)
	assert.Equal(t, 5*time.Minute, cfg.JWTAccessExpiry)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("RECONCILER_INTERVAL", "soon")
	t.Setenv("RECONCILER_MAX_RETRIES", "lots")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.ReconcilerInterval)
	assert.Equal(t, 8, cfg.ReconcilerMaxRetries)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBPassword: "secret",
		DBName:     "joinomu",
		DBSSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=joinomu")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "TimeZone=UTC")
}
