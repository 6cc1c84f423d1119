package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOOTSTRAP_ADMIN_ID", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("DB_DRIVER", "")

	cfg := Load()

	assert.Equal(t, "18112025", cfg.BootstrapAdminID)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "@every 30s", cfg.OutboxSchedule)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("LOGIN_RATE_LIMIT", "3")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.LoginRateLimit)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{Timezone: "Nowhere/Invalid"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}
