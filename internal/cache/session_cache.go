package cache

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/pkg/logger"
	"github.com/certiswift/certiswift-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	sessionCleanupInterval = 10 * time.Minute
	tokenSuffixLength      = 24
	base36Alphabet         = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrMalformedToken  = errors.New("malformed session token")
)

// SessionStore issues and validates admin session tokens
type SessionStore interface {
	Issue(adminID int64, email string) (*models.AdminSession, error)
	Validate(token string) (*models.AdminSession, error)
	Revoke(token string)
	TTL() time.Duration
}

var _ SessionStore = (*MemorySessionStore)(nil)
var _ SessionStore = (*SignedSessionStore)(nil)

// MemorySessionStore keeps sessions in process memory with TTL eviction.
// Sessions do not survive a restart and are not shared between replicas.
type MemorySessionStore struct {
	cache *gocache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewMemorySessionStore creates a store whose sessions live for ttl
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	c := gocache.New(ttl, sessionCleanupInterval)
	s := &MemorySessionStore{cache: c, ttl: ttl, now: time.Now}
	c.OnEvicted(func(string, interface{}) {
		metrics.ActiveSessions.Set(float64(c.ItemCount()))
	})
	return s
}

func (s *MemorySessionStore) TTL() time.Duration {
	return s.ttl
}

// Issue mints a random token and records the session under it
func (s *MemorySessionStore) Issue(adminID int64, email string) (*models.AdminSession, error) {
	issuedAt := s.now()
	suffix, err := randomBase36(tokenSuffixLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &models.AdminSession{
		Token:     formatToken(issuedAt, suffix),
		AdminID:   adminID,
		Email:     email,
		IssuedAt:  issuedAt.Unix(),
		ExpiresAt: issuedAt.Add(s.ttl).Unix(),
	}

	s.cache.Set(session.Token, session, s.ttl)
	metrics.ActiveSessions.Set(float64(s.cache.ItemCount()))

	logger.Debug("Admin session issued", zap.Int64("admin_id", adminID))
	return session, nil
}

// Validate returns the session stored under token
func (s *MemorySessionStore) Validate(token string) (*models.AdminSession, error) {
	if _, _, err := parseToken(token); err != nil {
		return nil, err
	}

	data, found := s.cache.Get(token)
	if !found {
		return nil, ErrSessionNotFound
	}

	session, ok := data.(*models.AdminSession)
	if !ok {
		logger.Error("Invalid session cache data type")
		s.cache.Delete(token)
		return nil, ErrSessionNotFound
	}

	if session.Expired(s.now()) {
		s.cache.Delete(token)
		return nil, ErrSessionExpired
	}

	return session, nil
}

// Revoke forgets token; unknown tokens are ignored
func (s *MemorySessionStore) Revoke(token string) {
	s.cache.Delete(token)
	metrics.ActiveSessions.Set(float64(s.cache.ItemCount()))
}

// Seed stores a session minted elsewhere under its own token
func (s *MemorySessionStore) Seed(session *models.AdminSession) {
	ttl := time.Until(time.Unix(session.ExpiresAt, 0))
	if ttl <= 0 {
		return
	}
	s.cache.Set(session.Token, session, ttl)
}

func formatToken(issuedAt time.Time, suffix string) string {
	return models.SessionTokenPrefix + strconv.FormatInt(issuedAt.UnixMilli(), 10) + "_" + suffix
}

// parseToken splits admin_<millis>_<suffix>
func parseToken(token string) (time.Time, string, error) {
	rest, ok := strings.CutPrefix(token, models.SessionTokenPrefix)
	if !ok {
		return time.Time{}, "", ErrMalformedToken
	}

	millisStr, suffix, ok := strings.Cut(rest, "_")
	if !ok || suffix == "" {
		return time.Time{}, "", ErrMalformedToken
	}

	millis, err := strconv.ParseInt(millisStr, 10, 64)
	if err != nil || millis <= 0 {
		return time.Time{}, "", ErrMalformedToken
	}

	return time.UnixMilli(millis), suffix, nil
}

func randomBase36(n int) (string, error) {
	alphabetSize := big.NewInt(int64(len(base36Alphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		b.WriteByte(base36Alphabet[idx.Int64()])
	}
	return b.String(), nil
}
