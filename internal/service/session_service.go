package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"brotos/internal/auth"
	"brotos/internal/cache"
	apperrors "brotos/internal/errors"
	"brotos/internal/model"
	"brotos/internal/repository"
)

const loginAttemptsKeyPrefix = "login_attempts:"

// LoginResult is what a successful login or refresh hands back to the client.
type LoginResult struct {
	SessionID    string            `json:"sessionId"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	ExpiresIn    int64             `json:"expiresIn"`
	Consultant   *model.Consultant `json:"consultant"`
}

// SessionOptions tunes session lifetime and login throttling.
type SessionOptions struct {
	SessionTTL      time.Duration
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// SessionService handles login by consultant id and the persisted sessions behind it.
type SessionService interface {
	Login(ctx context.Context, clientIP, id string) (*LoginResult, error)
	// Current returns the cached record of a live session without re-checking its status.
	Current(ctx context.Context, sessionID string) (*model.Consultant, error)
	// Restore re-validates a session from its refresh token and issues a new access token.
	Restore(ctx context.Context, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	SessionSyncer
}

type sessionService struct {
	repo       repository.ConsultantRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	limiter    cache.KV
	opts       SessionOptions
	log        zerolog.Logger
	now        func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(
	repo repository.ConsultantRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	limiter cache.KV,
	opts SessionOptions,
	log zerolog.Logger,
) SessionService {
	if opts.LoginRateWindow <= 0 {
		opts.LoginRateWindow = time.Minute
	}
	return &sessionService{
		repo:       repo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		limiter:    limiter,
		opts:       opts,
		log:        log.With().Str("component", "sessions").Logger(),
		now:        time.Now,
	}
}

// Login authenticates by id. Unknown and inactive ids fail the same way.
func (s *sessionService) Login(ctx context.Context, clientIP, id string) (*LoginResult, error) {
	if err := s.throttle(ctx, clientIP); err != nil {
		return nil, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	consultant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn().Str("client_ip", clientIP).Msg("login with unknown id")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find consultant: %w", err)
	}
	if !consultant.IsActive() {
		s.log.Warn().Str("client_ip", clientIP).Str("consultant_id", id).Msg("login with inactive id")
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	session := &auth.Session{
		ID:           uuid.NewString(),
		ConsultantID: consultant.ID,
		Consultant:   *consultant,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.opts.SessionTTL),
	}
	if err := s.tokenStore.SaveSession(ctx, session, s.opts.SessionTTL); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	result, err := s.issue(session, "")
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("consultant_id", consultant.ID).Str("session_id", session.ID).Msg("login")
	return result, nil
}

func (s *sessionService) throttle(ctx context.Context, clientIP string) error {
	if s.limiter == nil || s.opts.LoginRateLimit <= 0 || clientIP == "" {
		return nil
	}
	hits, err := s.limiter.Incr(ctx, loginAttemptsKeyPrefix+clientIP, s.opts.LoginRateWindow)
	if err != nil {
		return fmt.Errorf("count login attempts: %w", err)
	}
	if hits > int64(s.opts.LoginRateLimit) {
		return apperrors.ErrRateLimited
	}
	return nil
}

// issue signs tokens for session. A non-empty refreshToken is handed back unchanged.
func (s *sessionService) issue(session *auth.Session, refreshToken string) (*LoginResult, error) {
	c := session.Consultant
	access, err := s.jwtService.GenerateAccessToken(c.ID, c.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	if refreshToken == "" {
		refreshToken, err = s.jwtService.GenerateRefreshToken(c.ID, c.Role, session.ID)
		if err != nil {
			return nil, fmt.Errorf("generate refresh token: %w", err)
		}
	}
	return &LoginResult{
		SessionID:    session.ID,
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtService.AccessTTL().Seconds()),
		Consultant:   &c,
	}, nil
}

// Current returns the session's cached record.
func (s *sessionService) Current(ctx context.Context, sessionID string) (*model.Consultant, error) {
	session, err := s.tokenStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound
	}
	return &session.Consultant, nil
}

// Restore reloads the record behind a refresh token and re-runs the login check. A record that
// disappeared or was deactivated ends the session.
func (s *sessionService) Restore(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, apperrors.ErrSessionNotFound
	}
	session, err := s.tokenStore.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.ConsultantID != claims.ConsultantID {
		return nil, apperrors.ErrSessionNotFound
	}

	consultant, err := s.repo.FindByID(ctx, session.ConsultantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find consultant: %w", err)
	}
	if err != nil || !consultant.IsActive() {
		if err := s.tokenStore.DeleteSession(ctx, session.ID, session.ConsultantID); err != nil {
			return nil, fmt.Errorf("drop session: %w", err)
		}
		s.log.Info().Str("consultant_id", session.ConsultantID).Str("session_id", session.ID).Msg("session rejected on restore")
		return nil, apperrors.ErrInvalidCredentials
	}

	session.Consultant = *consultant
	if err := s.tokenStore.ReplaceSnapshot(ctx, session); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return s.issue(session, refreshToken)
}

// Logout drops the session. Unknown sessions are ignored.
func (s *sessionService) Logout(ctx context.Context, sessionID string) error {
	session, err := s.tokenStore.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	consultantID := ""
	if session != nil {
		consultantID = session.ConsultantID
	}
	return s.tokenStore.DeleteSession(ctx, sessionID, consultantID)
}

// Sync rewrites the cached record of every live session of consultant.
func (s *sessionService) Sync(ctx context.Context, consultant *model.Consultant) error {
	ids, err := s.tokenStore.SessionIDs(ctx, consultant.ID)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, id := range ids {
		session, err := s.tokenStore.GetSession(ctx, id)
		if err != nil {
			return fmt.Errorf("load session %s: %w", id, err)
		}
		if session == nil {
			if err := s.tokenStore.DropIndexEntry(ctx, consultant.ID, id); err != nil {
				return err
			}
			continue
		}
		session.Consultant = *consultant
		if err := s.tokenStore.ReplaceSnapshot(ctx, session); err != nil {
			return fmt.Errorf("refresh session %s: %w", id, err)
		}
	}
	return nil
}

// RevokeAll ends every session of consultantID.
func (s *sessionService) RevokeAll(ctx context.Context, consultantID string) error {
	ids, err := s.tokenStore.SessionIDs(ctx, consultantID)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, id := range ids {
		if err := s.tokenStore.DeleteSession(ctx, id, consultantID); err != nil {
			return fmt.Errorf("delete session %s: %w", id, err)
		}
	}
	return nil
}
