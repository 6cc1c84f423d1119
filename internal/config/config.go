package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	LogLevel    string
	ServerPort  string
	SwaggerHost string

	DBDriver string
	DBDSN    string

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret      string
	AccessTokenTTL time.Duration
	SessionTTL     time.Duration

	BootstrapAdminID string
	Timezone         string

	LoginRateLimit  int
	LoginRateWindow time.Duration

	AMQPURL        string
	EventsExchange string
	OutboxSchedule string

	SentryDSN string
}

// Load builds Config from environment with sensible defaults. A .env file in the working
// directory is honoured when present; real environment variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:      getEnv("APP_ENV", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		DBDriver: getEnv("DB_DRIVER", "mysql"),
		DBDSN:    getEnv("DB_DSN", "user:password@tcp(localhost:3306)/brotos?charset=utf8mb4&parseTime=True&loc=UTC"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:      getEnv("JWT_SECRET", "change-me"),
		AccessTokenTTL: getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		SessionTTL:     getEnvDuration("SESSION_TTL", 7*24*time.Hour),

		BootstrapAdminID: getEnv("BOOTSTRAP_ADMIN_ID", "18112025"),
		Timezone:         getEnv("TIMEZONE", "America/Sao_Paulo"),

		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),

		AMQPURL:        os.Getenv("AMQP_URL"),
		EventsExchange: getEnv("EVENTS_EXCHANGE", "brotos.consultants"),
		OutboxSchedule: getEnv("OUTBOX_SCHEDULE", "@every 30s"),

		SentryDSN: os.Getenv("SENTRY_DSN"),
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
