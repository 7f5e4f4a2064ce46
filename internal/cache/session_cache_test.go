package cache

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenPattern = regexp.MustCompile(`^admin_\d{13}_[0-9a-z]{24}$`)

func TestMemorySessionStore_IssueAndValidate(t *testing.T) {
	store := NewMemorySessionStore(24 * time.Hour)

	session, err := store.Issue(3, "admin@example.com")
	require.NoError(t, err)
	assert.Regexp(t, tokenPattern, session.Token)
	assert.Equal(t, session.IssuedAt+int64((24*time.Hour).Seconds()), session.ExpiresAt)

	got, err := store.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.AdminID)
	assert.Equal(t, "admin@example.com", got.Email)
}

func TestMemorySessionStore_TokensAreUnique(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	a, err := store.Issue(1, "a@example.com")
	require.NoError(t, err)
	b, err := store.Issue(1, "a@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestMemorySessionStore_UnknownToken(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	_, err := store.Validate("admin_1700000000000_abc123xyz")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestMemorySessionStore_Malformed(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	for _, token := range []string{"", "foo123", "admin_", "admin_abc_def", "admin_1700000000000", "admin_1700000000000_"} {
		_, err := store.Validate(token)
		assert.True(t, errors.Is(err, ErrMalformedToken), "token %q", token)
	}
}

func TestMemorySessionStore_Revoke(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	session, err := store.Issue(1, "a@example.com")
	require.NoError(t, err)

	store.Revoke(session.Token)

	_, err = store.Validate(session.Token)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestMemorySessionStore_Expired(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	store.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	session, err := store.Issue(1, "a@example.com")
	require.NoError(t, err)

	// Entry is still cached (go-cache TTL counts from real time); the session record itself is stale
	store.now = time.Now
	_, err = store.Validate(session.Token)
	assert.True(t, errors.Is(err, ErrSessionExpired))
}

func TestMemorySessionStore_Seed(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	store.Seed(&models.AdminSession{
		Token:     "admin_1700000000000_abc123xyz",
		AdminID:   1,
		Email:     "a@example.com",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})

	got, err := store.Validate("admin_1700000000000_abc123xyz")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.AdminID)

	// Already expired sessions are not stored
	store.Seed(&models.AdminSession{Token: "admin_1700000000000_old", ExpiresAt: time.Now().Add(-time.Minute).Unix()})
	_, err = store.Validate("admin_1700000000000_old")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestParseToken(t *testing.T) {
	issued, suffix, err := parseToken("admin_1700000000000_abc_def.ghi")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), issued.UnixMilli())
	assert.Equal(t, "abc_def.ghi", suffix)
}

func TestSignedSessionStore_RoundTrip(t *testing.T) {
	store := NewSignedSessionStore(jwt.NewTokenManager("secret", "certiswift-api", 24*time.Hour))

	session, err := store.Issue(9, "root@example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(session.Token, "admin_"))

	got, err := store.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.AdminID)
	assert.Equal(t, "root@example.com", got.Email)
	assert.Equal(t, session.ExpiresAt, got.ExpiresAt)
	assert.Equal(t, 24*time.Hour, store.TTL())
}

func TestSignedSessionStore_Rejects(t *testing.T) {
	store := NewSignedSessionStore(jwt.NewTokenManager("secret", "certiswift-api", time.Hour))
	other := NewSignedSessionStore(jwt.NewTokenManager("other-secret", "certiswift-api", time.Hour))

	forged, err := other.Issue(1, "a@example.com")
	require.NoError(t, err)

	_, err = store.Validate(forged.Token)
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	// Shape-only tokens carry no valid signature
	_, err = store.Validate("admin_1700000000000_abc123xyz")
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	_, err = store.Validate("foo123")
	assert.True(t, errors.Is(err, ErrMalformedToken))
}

func TestSignedSessionStore_MismatchedTimestamp(t *testing.T) {
	store := NewSignedSessionStore(jwt.NewTokenManager("secret", "certiswift-api", time.Hour))
	session, err := store.Issue(1, "a@example.com")
	require.NoError(t, err)

	_, signed, err := parseToken(session.Token)
	require.NoError(t, err)

	_, err = store.Validate("admin_1600000000000_" + signed)
	assert.True(t, errors.Is(err, ErrMalformedToken))
}

func TestSignedSessionStore_Expired(t *testing.T) {
	store := NewSignedSessionStore(jwt.NewTokenManager("secret", "certiswift-api", time.Hour))
	store.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	session, err := store.Issue(1, "a@example.com")
	require.NoError(t, err)

	_, err = store.Validate(session.Token)
	assert.True(t, errors.Is(err, ErrSessionExpired))
}
