package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "brotos/internal/errors"
	"brotos/internal/model"
)

func TestSessionService_BootstrapLogin(t *testing.T) {
	f := newFixture(t, SessionOptions{})
	ctx := context.Background()

	result, err := f.sessions.Login(ctx, "10.0.0.1", bootstrapID)
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, int64(60), result.ExpiresIn)

	current, err := f.sessions.Current(ctx, result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, current.Role)

	_, err = f.sessions.Login(ctx, "10.0.0.1", "000000")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.sessions.Login(ctx, "10.0.0.1", "  ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestSessionService_InactiveBoundary(t *testing.T) {
	f := newFixture(t, SessionOptions{})
	ctx := context.Background()

	c, err := f.consultants.Create(ctx, f.admin, fields("Caio", "", ""))
	require.NoError(t, err)

	session, err := f.sessions.Login(ctx, "10.0.0.2", c.ID)
	require.NoError(t, err)

	_, err = f.consultants.Deactivate(ctx, f.admin, c.ID)
	require.NoError(t, err)

	// Fresh logins fail with the same error as unknown ids.
	_, err = f.sessions.Login(ctx, "10.0.0.2", c.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// The live session keeps answering with its synced snapshot.
	current, err := f.sessions.Current(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, current.ID)
	assert.Equal(t, model.StatusInactive, current.Status)

	// Restoring re-validates and ends the session.
	_, err = f.sessions.Restore(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.sessions.Current(ctx, session.SessionID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSessionService_RestoreRefreshesSnapshot(t *testing.T) {
	f := newFixture(t, SessionOptions{})
	ctx := context.Background()

	c, err := f.consultants.Create(ctx, f.admin, fields("Caio", "", ""))
	require.NoError(t, err)
	session, err := f.sessions.Login(ctx, "", c.ID)
	require.NoError(t, err)

	_, err = f.consultants.Update(ctx, c, c.ID, model.ConsultantPatch{Name: strPtr("Caio Souza")}, 0)
	require.NoError(t, err)

	current, err := f.sessions.Current(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Caio Souza", current.Name)

	restored, err := f.sessions.Restore(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, restored.SessionID)
	assert.Equal(t, session.RefreshToken, restored.RefreshToken)
	assert.Equal(t, "Caio Souza", restored.Consultant.Name)

	_, err = f.sessions.Restore(ctx, restored.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSessionService_Logout(t *testing.T) {
	f := newFixture(t, SessionOptions{})
	ctx := context.Background()

	session, err := f.sessions.Login(ctx, "", bootstrapID)
	require.NoError(t, err)

	require.NoError(t, f.sessions.Logout(ctx, session.SessionID))
	_, err = f.sessions.Current(ctx, session.SessionID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	require.NoError(t, f.sessions.Logout(ctx, session.SessionID))

	_, err = f.sessions.Restore(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSessionService_PurgeRevokesSessions(t *testing.T) {
	f := newFixture(t, SessionOptions{})
	ctx := context.Background()

	c, err := f.consultants.Create(ctx, f.admin, fields("Caio", "", ""))
	require.NoError(t, err)
	first, err := f.sessions.Login(ctx, "", c.ID)
	require.NoError(t, err)
	second, err := f.sessions.Login(ctx, "", c.ID)
	require.NoError(t, err)
	admin, err := f.sessions.Login(ctx, "", bootstrapID)
	require.NoError(t, err)

	require.NoError(t, f.consultants.Delete(ctx, f.admin, c.ID))

	for _, sid := range []string{first.SessionID, second.SessionID} {
		_, err = f.sessions.Current(ctx, sid)
		assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	}
	_, err = f.sessions.Current(ctx, admin.SessionID)
	assert.NoError(t, err)
}

func TestSessionService_RateLimit(t *testing.T) {
	f := newFixture(t, SessionOptions{LoginRateLimit: 2})
	ctx := context.Background()

	_, err := f.sessions.Login(ctx, "10.0.0.9", "000000")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.sessions.Login(ctx, "10.0.0.9", bootstrapID)
	assert.NoError(t, err)
	_, err = f.sessions.Login(ctx, "10.0.0.9", bootstrapID)
	assert.ErrorIs(t, err, apperrors.ErrRateLimited)

	_, err = f.sessions.Login(ctx, "10.0.0.10", bootstrapID)
	assert.NoError(t, err)
}
