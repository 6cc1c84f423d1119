package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"brotos/internal/model"
)

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	// ErrInvalidToken is returned for malformed, expired or wrongly typed tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims represents JWT claims. Both token types point at the same server-side session.
type Claims struct {
	ConsultantID string     `json:"consultant_id"`
	Role         model.Role `json:"role"`
	SessionID    string     `json:"sid"`
	TokenType    TokenType  `json:"typ"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTService creates a new JWT service with the given secret and lifetimes.
func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Secret returns the signing key, for wiring the echo JWT middleware.
func (s *JWTService) Secret() []byte {
	return s.secret
}

// AccessTTL is the lifetime of access tokens.
func (s *JWTService) AccessTTL() time.Duration {
	return s.accessTTL
}

// GenerateAccessToken generates a new access token bound to sessionID.
func (s *JWTService) GenerateAccessToken(consultantID string, role model.Role, sessionID string) (string, error) {
	return s.sign(consultantID, role, sessionID, TokenTypeAccess, s.accessTTL)
}

// GenerateRefreshToken generates a refresh token bound to sessionID.
func (s *JWTService) GenerateRefreshToken(consultantID string, role model.Role, sessionID string) (string, error) {
	return s.sign(consultantID, role, sessionID, TokenTypeRefresh, s.refreshTTL)
}

func (s *JWTService) sign(consultantID string, role model.Role, sessionID string, typ TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		ConsultantID: consultantID,
		Role:         role,
		SessionID:    sessionID,
		TokenType:    typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   consultantID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a JWT token of the expected type and returns the claims.
func (s *JWTService) ValidateToken(tokenString string, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expected || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
