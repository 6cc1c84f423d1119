package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"brotos/internal/config"
	"brotos/internal/db"
	"brotos/internal/hierarchy"
	"brotos/internal/logger"
	"brotos/internal/model"
	"brotos/internal/repository"
	"brotos/internal/service"
)

func main() {
	file := flag.String("file", "", "path to a roster export (JSON array)")
	url := flag.String("url", "", "URL serving a roster export")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.AppEnv, cfg.LogLevel)
	log.Info().Msg("starting seed script")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("database ready")

	ctx := context.Background()
	consultants := service.NewConsultantService(
		repository.NewConsultantRepository(gormDB),
		hierarchy.NewPolicy(cfg.BootstrapAdminID),
		nil,
		log,
	)

	if _, created, err := consultants.EnsureBootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure bootstrap administrator")
	} else if created {
		log.Info().Str("id", cfg.BootstrapAdminID).Msg("bootstrap administrator created")
	}

	if *file == "" && *url == "" {
		log.Info().Msg("no roster given, seed completed")
		return
	}

	roster, err := loadRoster(*file, *url, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load roster")
	}
	log.Info().Int("records", len(roster)).Msg("roster loaded")

	result, err := consultants.Import(ctx, roster)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to import roster")
	}

	log.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Strs("detached", result.Detached).
		Msg("seed completed successfully")
}

func loadRoster(file, url string, log zerolog.Logger) ([]model.Consultant, error) {
	var body []byte
	var err error
	if file != "" {
		log.Info().Str("file", file).Msg("reading roster")
		body, err = os.ReadFile(file)
	} else {
		log.Info().Str("url", url).Msg("fetching roster")
		body, err = fetch(url)
	}
	if err != nil {
		return nil, err
	}

	var roster []model.Consultant
	if err := json.Unmarshal(body, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return roster, nil
}

// fetch downloads a roster export.
func fetch(url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roster endpoint returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
