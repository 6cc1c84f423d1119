package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "brotos/docs" // swagger docs

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"brotos/internal/auth"
	"brotos/internal/cache"
	"brotos/internal/config"
	"brotos/internal/db"
	"brotos/internal/events"
	"brotos/internal/handler"
	"brotos/internal/hierarchy"
	"brotos/internal/logger"
	"brotos/internal/model"
	"brotos/internal/repository"
	"brotos/internal/router"
	"brotos/internal/service"
)

// @title Brotos Consultant Network API
// @version 1.0
// @description Consultant hierarchy, sessions and roster statistics.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.AppEnv, cfg.LogLevel)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.AppEnv}); err != nil {
			log.Warn().Err(err).Msg("sentry init failed, continuing without it")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database init")
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		for _, table := range []interface{}{&model.OutboxEvent{}, &model.Consultant{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Warn().Err(err).Msg("drop table failed (may not exist)")
			}
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	kv := newKV(cfg, log)

	consultantRepo := repository.NewConsultantRepository(gormDB)
	outboxRepo := repository.NewOutboxRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.SessionTTL)
	tokenStore := auth.NewTokenStore(kv)

	sessionService := service.NewSessionService(consultantRepo, jwtService, tokenStore, kv, service.SessionOptions{
		SessionTTL:      cfg.SessionTTL,
		LoginRateLimit:  cfg.LoginRateLimit,
		LoginRateWindow: cfg.LoginRateWindow,
	}, log)
	consultantService := service.NewConsultantService(consultantRepo, hierarchy.NewPolicy(cfg.BootstrapAdminID), sessionService, log)
	statsService := service.NewStatsService(consultantRepo, cfg.Location())

	if _, created, err := consultantService.EnsureBootstrap(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("bootstrap administrator")
	} else if created {
		log.Info().Str("id", cfg.BootstrapAdminID).Msg("bootstrap administrator created")
	}

	if cfg.AMQPURL != "" {
		publisher, err := events.NewRabbitPublisher(cfg.AMQPURL, cfg.EventsExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("rabbitmq init")
		}
		defer publisher.Close()

		worker := events.NewWorker(publisher, outboxRepo, cfg.OutboxSchedule, log)
		if err := worker.Start(); err != nil {
			log.Fatal().Err(err).Msg("outbox worker")
		}
		defer worker.Stop()
	} else {
		log.Info().Msg("AMQP_URL not set, outbox events stay in the database")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		log,
		jwtService,
		sessionService,
		handler.NewAuthHandler(sessionService),
		handler.NewConsultantHandler(consultantService),
		handler.NewStatsHandler(statsService),
		handler.NewSeedHandler(consultantService),
	)

	log.Info().Str("url", swaggerURL(cfg)).Msg("swagger documentation available")

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

// newKV returns redis when REDIS_ADDR is configured and the in-process store otherwise.
func newKV(cfg *config.Config, log zerolog.Logger) cache.KV {
	if cfg.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR not set, sessions are kept in memory")
		return cache.NewMemory()
	}

	client := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping")
	}
	return client
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
