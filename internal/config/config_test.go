package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, "judge0-ce.p.rapidapi.com", cfg.Judge.Host)
	assert.Equal(t, 30, cfg.Judge.TimeoutSeconds)
	assert.Equal(t, 5, cfg.Matchmaking.PairingIntervalSeconds)
	assert.Equal(t, 60, cfg.Matchmaking.ExpirySweepIntervalSeconds)
	assert.Equal(t, 15, cfg.Matchmaking.MatchDurationMinutes)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JUDGE_HOST", "judge.internal:2358")
	t.Setenv("JUDGE_TIMEOUT_SECONDS", "10")
	t.Setenv("MATCH_DURATION_MINUTES", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "9090", cfg.Server.HTTPPort)
	assert.Equal(t, "judge.internal:2358", cfg.Judge.Host)
	assert.Equal(t, 10, cfg.Judge.TimeoutSeconds)
	assert.Equal(t, 30, cfg.Matchmaking.MatchDurationMinutes)
}

func TestLoadIgnoresMalformedInts(t *testing.T) {
	t.Setenv("PAIRING_INTERVAL_SECONDS", "often")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Matchmaking.PairingIntervalSeconds, "bad value falls back to the default")
}
