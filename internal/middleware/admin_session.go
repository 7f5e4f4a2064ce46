package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/pkg/metrics"
	"github.com/gin-gonic/gin"
)

const (
	// AdminSessionCookieName is the cookie carrying the admin session token
	AdminSessionCookieName = "admin-session"

	// AdminSessionContextKey stores the validated admin session in the gin context
	AdminSessionContextKey = "admin_session"

	// AdminLoginPath is the only admin page reachable without a session
	AdminLoginPath = "/admin/login"

	adminPathPrefix = "/admin"
)

var (
	ErrAdminSessionNotFound = errors.New("admin session not found in context")
	ErrInvalidAdminSession  = errors.New("invalid admin session type")
)

// SessionValidator resolves a session token to its session
type SessionValidator interface {
	ValidateSession(token string) (*models.AdminSession, error)
}

type gateDecision string

const (
	gatePass      gateDecision = "pass"
	gateMissing   gateDecision = "missing"
	gateMalformed gateDecision = "malformed"
	gateInvalid   gateDecision = "invalid"
)

// IsGatedAdminPath reports whether path needs an admin session:
// /admin and everything under /admin/, except exactly /admin/login.
func IsGatedAdminPath(path string) bool {
	if path == AdminLoginPath {
		return false
	}
	return path == adminPathPrefix || strings.HasPrefix(path, adminPathPrefix+"/")
}

// checkSession runs the gate decision for the request's cookie
func checkSession(c *gin.Context, validator SessionValidator) (*models.AdminSession, gateDecision, error) {
	token, err := c.Cookie(AdminSessionCookieName)
	if err != nil || token == "" {
		return nil, gateMissing, fmt.Errorf("missing admin session cookie")
	}

	if !strings.HasPrefix(token, models.SessionTokenPrefix) {
		return nil, gateMalformed, fmt.Errorf("malformed admin session cookie")
	}

	session, err := validator.ValidateSession(token)
	if err != nil {
		return nil, gateInvalid, fmt.Errorf("invalid admin session: %w", err)
	}

	return session, gatePass, nil
}

// AdminPageGate guards admin pages. Requests without a valid session are
// redirected to the login page; a rejected cookie is cleared first.
// Paths outside /admin pass through untouched, so it can be installed globally.
func AdminPageGate(validator SessionValidator, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsGatedAdminPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		session, decision, err := checkSession(c, validator)
		metrics.SessionGateDecisions.WithLabelValues(string(decision)).Inc()

		if decision != gatePass {
			_ = c.Error(err) //nolint:errcheck
			if decision == gateInvalid {
				ClearAdminSessionCookie(c, cookieSecure)
			}
			c.Redirect(http.StatusFound, AdminLoginPath)
			c.Abort()
			return
		}

		c.Set(AdminSessionContextKey, session)
		c.Next()
	}
}

// AdminAPIGate guards the JSON admin API with the same checks, answering 401 instead of redirecting
func AdminAPIGate(validator SessionValidator, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, decision, err := checkSession(c, validator)
		metrics.SessionGateDecisions.WithLabelValues(string(decision)).Inc()

		if decision != gatePass {
			_ = c.Error(err) //nolint:errcheck
			if decision == gateInvalid {
				ClearAdminSessionCookie(c, cookieSecure)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(AdminSessionContextKey, session)
		c.Next()
	}
}

func GetAdminSession(c *gin.Context) (*models.AdminSession, error) {
	val, exists := c.Get(AdminSessionContextKey)
	if !exists {
		return nil, ErrAdminSessionNotFound
	}

	session, ok := val.(*models.AdminSession)
	if !ok {
		return nil, ErrInvalidAdminSession
	}

	return session, nil
}

// SetAdminSessionCookie writes the session cookie: path /, HttpOnly, SameSite=Strict
func SetAdminSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		AdminSessionCookieName,
		token,
		int(ttl.Seconds()),
		"/",
		"",
		secure,
		true,
	)
}

func ClearAdminSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		AdminSessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
