package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brotos/internal/cache"
	"brotos/internal/model"
)

const (
	sessionKeyPrefix      = "session:"
	sessionIndexKeyPrefix = "consultant_sessions:"
)

// Session is the persisted session token: who logged in and the record as it was last synced.
type Session struct {
	ID           string           `json:"id"`
	ConsultantID string           `json:"consultantId"`
	Consultant   model.Consultant `json:"consultant"`
	CreatedAt    time.Time        `json:"createdAt"`
	ExpiresAt    time.Time        `json:"expiresAt"`
}

// TokenStoreInterface defines the interface for session token storage operations.
type TokenStoreInterface interface {
	SaveSession(ctx context.Context, session *Session, ttl time.Duration) error
	// GetSession returns nil, nil when the session is gone.
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	// ReplaceSnapshot overwrites the cached consultant without extending the session lifetime.
	ReplaceSnapshot(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, sessionID, consultantID string) error
	SessionIDs(ctx context.Context, consultantID string) ([]string, error)
	DropIndexEntry(ctx context.Context, consultantID, sessionID string) error
}

// TokenStore keeps sessions in the KV store under session:<id>, with a per-consultant
// index set so every session of one consultant can be found again.
type TokenStore struct {
	kv cache.KV
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(kv cache.KV) *TokenStore {
	return &TokenStore{kv: kv}
}

// SaveSession stores a session and indexes it under its consultant.
func (s *TokenStore) SaveSession(ctx context.Context, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKeyPrefix+session.ID, payload, ttl); err != nil {
		return err
	}
	return s.kv.SAdd(ctx, sessionIndexKeyPrefix+session.ConsultantID, session.ID, ttl)
}

// GetSession loads a session.
func (s *TokenStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.kv.Get(ctx, sessionKeyPrefix+sessionID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// ReplaceSnapshot rewrites the session payload, keeping its TTL.
func (s *TokenStore) ReplaceSnapshot(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.kv.Set(ctx, sessionKeyPrefix+session.ID, payload, cache.KeepTTL)
}

// DeleteSession removes a session and its index entry.
func (s *TokenStore) DeleteSession(ctx context.Context, sessionID, consultantID string) error {
	if err := s.kv.Delete(ctx, sessionKeyPrefix+sessionID); err != nil {
		return err
	}
	if consultantID == "" {
		return nil
	}
	return s.kv.SRem(ctx, sessionIndexKeyPrefix+consultantID, sessionID)
}

// SessionIDs lists the indexed sessions of a consultant. Some may already have expired.
func (s *TokenStore) SessionIDs(ctx context.Context, consultantID string) ([]string, error) {
	return s.kv.SMembers(ctx, sessionIndexKeyPrefix+consultantID)
}

// DropIndexEntry forgets an expired session id.
func (s *TokenStore) DropIndexEntry(ctx context.Context, consultantID, sessionID string) error {
	return s.kv.SRem(ctx, sessionIndexKeyPrefix+consultantID, sessionID)
}
