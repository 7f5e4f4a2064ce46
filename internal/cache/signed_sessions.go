package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/pkg/jwt"
)

// SignedSessionStore carries the session inside the token as an HS256 JWT:
// admin_<millis>_<jwt>. Validity needs no server state, so Revoke cannot
// invalidate a token before it expires; logout only clears the cookie.
type SignedSessionStore struct {
	tokens *jwt.TokenManager
	now    func() time.Time
}

func NewSignedSessionStore(tokens *jwt.TokenManager) *SignedSessionStore {
	return &SignedSessionStore{tokens: tokens, now: time.Now}
}

func (s *SignedSessionStore) TTL() time.Duration {
	return s.tokens.GetExpirationTime()
}

func (s *SignedSessionStore) Issue(adminID int64, email string) (*models.AdminSession, error) {
	// JWT timestamps have second precision; keep the millis prefix consistent with iat
	issuedAt := s.now().Truncate(time.Second)

	signed, err := s.tokens.GenerateToken(adminID, email, issuedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	return &models.AdminSession{
		Token:     formatToken(issuedAt, signed),
		AdminID:   adminID,
		Email:     email,
		IssuedAt:  issuedAt.Unix(),
		ExpiresAt: issuedAt.Add(s.tokens.GetExpirationTime()).Unix(),
	}, nil
}

func (s *SignedSessionStore) Validate(token string) (*models.AdminSession, error) {
	issuedAt, signed, err := parseToken(token)
	if err != nil {
		return nil, err
	}

	claims, err := s.tokens.ValidateToken(signed)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}

	if claims.IssuedAt == nil || claims.IssuedAt.Unix() != issuedAt.Unix() {
		return nil, ErrMalformedToken
	}

	return &models.AdminSession{
		Token:     token,
		AdminID:   claims.AdminID,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}

// Revoke is a no-op: signed tokens stay valid until they expire
func (s *SignedSessionStore) Revoke(string) {}
