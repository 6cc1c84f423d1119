package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"brotos/internal/model"
)

func TestComputeStats(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, saoPaulo)

	records := []model.Consultant{
		{ID: "1", Status: model.StatusActive, TeamName: "Diretoria", CreatedAt: time.Date(2025, 11, 18, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Status: model.StatusActive, TeamName: "Equipe de Lia", CreatedAt: time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)},
		{ID: "3", Status: model.StatusInactive, TeamName: "Equipe de Lia", CreatedAt: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		// 23:30 on Feb 28 in São Paulo, already March in UTC.
		{ID: "4", Status: model.StatusActive, CreatedAt: time.Date(2026, 3, 1, 2, 30, 0, 0, time.UTC)},
	}

	stats := ComputeStats(records, now, saoPaulo)
	assert.Equal(t, model.Stats{
		TotalConsultants:  4,
		ActiveConsultants: 3,
		TotalTeams:        2,
		NewThisPeriod:     2,
	}, stats)

	assert.Equal(t, 3, ComputeStats(records, now, time.UTC).NewThisPeriod)
	assert.Equal(t, model.Stats{}, ComputeStats(nil, now, time.UTC))
}
