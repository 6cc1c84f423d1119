package service

import (
	"context"
	"fmt"
	"time"

	"brotos/internal/model"
	"brotos/internal/repository"
)

// StatsService derives roster summary counts on demand.
type StatsService interface {
	Stats(ctx context.Context) (*model.Stats, error)
}

type statsService struct {
	repo repository.ConsultantRepository
	loc  *time.Location
	now  func() time.Time
}

// NewStatsService creates a stats service whose month boundary is evaluated in loc.
func NewStatsService(repo repository.ConsultantRepository, loc *time.Location) StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &statsService{repo: repo, loc: loc, now: time.Now}
}

// Stats recomputes the counts from the full roster.
func (s *statsService) Stats(ctx context.Context) (*model.Stats, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list consultants: %w", err)
	}
	stats := ComputeStats(all, s.now(), s.loc)
	return &stats, nil
}

// ComputeStats counts records, active records, distinct non-empty team names and records
// created since the start of now's calendar month in loc.
func ComputeStats(records []model.Consultant, now time.Time, loc *time.Location) model.Stats {
	local := now.In(loc)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)

	stats := model.Stats{TotalConsultants: len(records)}
	teams := map[string]struct{}{}
	for _, c := range records {
		if c.IsActive() {
			stats.ActiveConsultants++
		}
		if c.TeamName != "" {
			teams[c.TeamName] = struct{}{}
		}
		if !c.CreatedAt.Before(monthStart) {
			stats.NewThisPeriod++
		}
	}
	stats.TotalTeams = len(teams)
	return stats
}
