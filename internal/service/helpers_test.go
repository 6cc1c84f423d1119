package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"brotos/internal/auth"
	"brotos/internal/cache"
	"brotos/internal/db"
	"brotos/internal/hierarchy"
	"brotos/internal/model"
	"brotos/internal/repository"
)

const bootstrapID = "18112025"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gormDB, err := db.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name), zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gormDB
}

type fixture struct {
	db          *gorm.DB
	repo        repository.ConsultantRepository
	kv          *cache.Memory
	consultants ConsultantService
	sessions    SessionService
	stats       StatsService
	admin       *model.Consultant
}

func newFixture(t *testing.T, opts SessionOptions) *fixture {
	t.Helper()
	gormDB := newTestDB(t)
	repo := repository.NewConsultantRepository(gormDB)
	kv := cache.NewMemory()
	if opts.SessionTTL == 0 {
		opts.SessionTTL = time.Hour
	}

	sessions := NewSessionService(repo, auth.NewJWTService("test-secret", time.Minute, opts.SessionTTL), auth.NewTokenStore(kv), kv, opts, zerolog.Nop())
	consultants := NewConsultantService(repo, hierarchy.NewPolicy(bootstrapID), sessions, zerolog.Nop())

	admin, created, err := consultants.EnsureBootstrap(context.Background())
	require.NoError(t, err)
	require.True(t, created)

	return &fixture{
		db:          gormDB,
		repo:        repo,
		kv:          kv,
		consultants: consultants,
		sessions:    sessions,
		stats:       NewStatsService(repo, time.UTC),
		admin:       admin,
	}
}

func fields(name string, role model.Role, parentID string) model.ConsultantFields {
	return model.ConsultantFields{
		Name:     name,
		WhatsApp: "98988887777",
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		City:     "São Luís",
		State:    "MA",
		Role:     role,
		ParentID: parentID,
	}
}

func ids(records []model.Consultant) []string {
	out := make([]string, 0, len(records))
	for _, c := range records {
		out = append(out, c.ID)
	}
	return out
}

func strPtr(s string) *string { return &s }

// MockSessionSyncer is a mock implementation of SessionSyncer.
type MockSessionSyncer struct {
	mock.Mock
}

func (m *MockSessionSyncer) Sync(ctx context.Context, consultant *model.Consultant) error {
	args := m.Called(ctx, consultant)
	return args.Error(0)
}

func (m *MockSessionSyncer) RevokeAll(ctx context.Context, consultantID string) error {
	args := m.Called(ctx, consultantID)
	return args.Error(0)
}
