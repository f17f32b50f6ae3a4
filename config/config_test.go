package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432")
	t.Setenv("DATABASE_NAME", "quiniela")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("SWEEP_INTERVAL_MINUTES", "")
	t.Setenv("NATS_SERVERS", "")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.Empty(t, cfg.NATSServers)
	assert.Equal(t, "postgres://localhost:5432/quiniela?sslmode=disable", cfg.GetDatabaseURL())
}

func TestLoad_SweepInterval(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432")
	t.Setenv("ENVIRONMENT", "")

	t.Run("custom interval", func(t *testing.T) {
		t.Setenv("SWEEP_INTERVAL_MINUTES", "1")
		cfg, err := load()
		require.NoError(t, err)
		assert.Equal(t, time.Minute, cfg.SweepInterval)
	})

	t.Run("rejects non-numeric", func(t *testing.T) {
		t.Setenv("SWEEP_INTERVAL_MINUTES", "soon")
		_, err := load()
		assert.Error(t, err)
	})

	t.Run("rejects zero", func(t *testing.T) {
		t.Setenv("SWEEP_INTERVAL_MINUTES", "0")
		_, err := load()
		assert.Error(t, err)
	})
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SWEEP_INTERVAL_MINUTES", "")

	t.Setenv("ENVIRONMENT", "development")
	_, err := load()
	assert.Error(t, err)

	t.Setenv("ENVIRONMENT", "test")
	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
}

func TestSetTestConfig(t *testing.T) {
	defer ResetConfig()

	testConfig := NewTestConfig()
	SetTestConfig(testConfig)

	assert.Same(t, testConfig, Get())
}
