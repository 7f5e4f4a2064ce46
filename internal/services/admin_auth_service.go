package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/certiswift/certiswift-api/config"
	"github.com/certiswift/certiswift-api/internal/cache"
	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/internal/repository"
	pkgerrors "github.com/certiswift/certiswift-api/pkg/errors"
	"github.com/certiswift/certiswift-api/pkg/logger"
	"github.com/certiswift/certiswift-api/pkg/metrics"
	"github.com/certiswift/certiswift-api/pkg/tracing"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testConnectionTimeout = 5 * time.Second

var ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", pkgerrors.ErrUnauthorized)

// dummyHash keeps login timing the same for unknown emails
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("certiswift-timing-equalizer"), bcrypt.DefaultCost)

// AdminAuthService checks admin credentials and manages dashboard sessions
type AdminAuthService struct {
	admins   repository.AdminStore
	sessions cache.SessionStore
	health   repository.HealthChecker
	config   *config.Config
}

// NewAdminAuthService creates a new admin auth service instance
func NewAdminAuthService(admins repository.AdminStore, sessions cache.SessionStore, health repository.HealthChecker, cfg *config.Config) *AdminAuthService {
	return &AdminAuthService{
		admins:   admins,
		sessions: sessions,
		health:   health,
		config:   cfg,
	}
}

// AuthenticateAdmin reports whether email and password match a stored admin
func (s *AdminAuthService) AuthenticateAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.authenticate(ctx, email, password)
	if errors.Is(err, pkgerrors.ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AdminAuthService) authenticate(ctx context.Context, email, password string) (*models.Admin, error) {
	admin, err := s.admins.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password)) //nolint:errcheck // timing only
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// Login checks credentials and issues a session
func (s *AdminAuthService) Login(ctx context.Context, req *models.AdminLoginRequest) (*models.AdminSession, error) {
	ctx, span := tracing.StartSpan(ctx, "AdminAuthService.Login")
	defer span.End()

	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		metrics.AdminLogins.WithLabelValues("invalid").Inc()
		return nil, err
	}

	admin, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUnauthorized) {
			metrics.AdminLogins.WithLabelValues("rejected").Inc()
			logger.Warn("Admin login rejected", zap.String("email", req.Email))
			return nil, err
		}
		metrics.AdminLogins.WithLabelValues("error").Inc()
		tracing.RecordError(span, err)
		logger.Error("Admin login failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	session, err := s.sessions.Issue(admin.ID, admin.Email)
	if err != nil {
		metrics.AdminLogins.WithLabelValues("error").Inc()
		logger.Error("Failed to issue admin session", zap.Int64("admin_id", admin.ID), zap.Error(err))
		return nil, err
	}

	metrics.AdminLogins.WithLabelValues("success").Inc()
	logger.Info("Admin logged in", zap.Int64("admin_id", admin.ID))
	return session, nil
}

// ValidateSession returns the session behind token or an ErrUnauthorized error
func (s *AdminAuthService) ValidateSession(token string) (*models.AdminSession, error) {
	session, err := s.sessions.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pkgerrors.ErrUnauthorized, err)
	}
	return session, nil
}

// Logout revokes the session when the store supports it
func (s *AdminAuthService) Logout(token string) {
	if token == "" {
		return
	}
	s.sessions.Revoke(token)
}

// CreateAdmin registers another dashboard account. A taken email is ErrConflict.
func (s *AdminAuthService) CreateAdmin(ctx context.Context, req *models.CreateAdminRequest) (*models.Admin, error) {
	ctx, span := tracing.StartSpan(ctx, "AdminAuthService.CreateAdmin")
	defer span.End()

	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin, err := s.admins.Create(ctx, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, pkgerrors.ErrConflict) {
			return nil, pkgerrors.ConflictError("an admin with this email already exists")
		}
		tracing.RecordError(span, err)
		logger.Error("Failed to create admin", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	logger.Info("Admin created", zap.Int64("admin_id", admin.ID), zap.String("email", admin.Email))
	return admin, nil
}

// Bootstrap creates the configured first admin when none exist yet
func (s *AdminAuthService) Bootstrap(ctx context.Context) error {
	bootstrap := s.config.AdminBootstrap
	if bootstrap.Email == "" {
		return nil
	}

	count, err := s.admins.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := s.CreateAdmin(ctx, &models.CreateAdminRequest{
		Email:    bootstrap.Email,
		Password: bootstrap.Password,
	}); err != nil && !errors.Is(err, pkgerrors.ErrConflict) {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	logger.Info("Bootstrap admin ensured", zap.String("email", normalizeEmail(bootstrap.Email)))
	return nil
}

// TestConnection reports whether the database answers a ping
func (s *AdminAuthService) TestConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, testConnectionTimeout)
	defer cancel()

	if err := s.health.Ping(ctx); err != nil {
		logger.Warn("Database connection test failed", zap.Error(err))
		return false
	}
	return true
}

func (s *AdminAuthService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}

func (s *AdminAuthService) CookieSecure() bool {
	return s.config.Session.CookieSecure
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
