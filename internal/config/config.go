package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings. Everything has a default so the server
// runs with no environment at all; RedisAddr is the one optional external.
type Config struct {
	HTTPPort string

	// RedisAddr, when set, moves the session-creation limiter to Redis.
	RedisAddr string

	SessionCreateWindow time.Duration
	SessionCreateMax    int

	QuestionRateWindow time.Duration
	QuestionRateMax    int

	SweepInterval time.Duration
}

// Load reads configuration from the environment, consulting a .env file if
// one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:            getEnv("PORT", "3000"),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		SessionCreateWindow: getDuration("SESSION_CREATE_WINDOW", time.Minute),
		SessionCreateMax:    getInt("SESSION_CREATE_MAX", 5),
		QuestionRateWindow:  getDuration("QUESTION_RATE_WINDOW", 10*time.Second),
		QuestionRateMax:     getInt("QUESTION_RATE_MAX", 5),
		SweepInterval:       getDuration("SWEEP_INTERVAL", 30*time.Second),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}
