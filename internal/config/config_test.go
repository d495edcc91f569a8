package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"askboard/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "REDIS_ADDR",
		"SESSION_CREATE_WINDOW", "SESSION_CREATE_MAX",
		"QUESTION_RATE_WINDOW", "QUESTION_RATE_MAX",
		"SWEEP_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	cfg := config.Load()

	require.Equal(t, "3000", cfg.HTTPPort)
	require.Equal(t, "", cfg.RedisAddr)
	require.Equal(t, time.Minute, cfg.SessionCreateWindow)
	require.Equal(t, 5, cfg.SessionCreateMax)
	require.Equal(t, 10*time.Second, cfg.QuestionRateWindow)
	require.Equal(t, 5, cfg.QuestionRateMax)
	require.Equal(t, 30*time.Second, cfg.SweepInterval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SESSION_CREATE_WINDOW", "2m")
	t.Setenv("SESSION_CREATE_MAX", "10")
	t.Setenv("QUESTION_RATE_WINDOW", "30s")
	t.Setenv("QUESTION_RATE_MAX", "3")
	t.Setenv("SWEEP_INTERVAL", "5s")

	cfg := config.Load()

	require.Equal(t, "8080", cfg.HTTPPort)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, 2*time.Minute, cfg.SessionCreateWindow)
	require.Equal(t, 10, cfg.SessionCreateMax)
	require.Equal(t, 30*time.Second, cfg.QuestionRateWindow)
	require.Equal(t, 3, cfg.QuestionRateMax)
	require.Equal(t, 5*time.Second, cfg.SweepInterval)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SESSION_CREATE_MAX", "not-a-number")
	t.Setenv("QUESTION_RATE_MAX", "-2")
	t.Setenv("SWEEP_INTERVAL", "soon")

	cfg := config.Load()

	require.Equal(t, 5, cfg.SessionCreateMax)
	require.Equal(t, 5, cfg.QuestionRateMax)
	require.Equal(t, 30*time.Second, cfg.SweepInterval)
}
