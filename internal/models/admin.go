package models

import "time"

// Admin is a dashboard account
type Admin struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SessionTokenPrefix starts every admin session token: admin_<unix millis>_<suffix>
const SessionTokenPrefix = "admin_"

// AdminSession is the server-side record behind an admin-session cookie
type AdminSession struct {
	Token     string `json:"-"`
	AdminID   int64  `json:"adminId"`
	Email     string `json:"email"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Expired reports whether the session is past its expiry at now
func (s *AdminSession) Expired(now time.Time) bool {
	return now.Unix() >= s.ExpiresAt
}

type AdminLoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
}

type AdminLoginResponse struct {
	Success bool          `json:"success"`
	Session *AdminSession `json:"session,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// CreateAdminRequest registers another dashboard account.
// bcrypt ignores input past 72 bytes, so longer passwords are rejected.
type CreateAdminRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
}

type CreateAdminResponse struct {
	Success bool   `json:"success"`
	Admin   *Admin `json:"admin,omitempty"`
}

type AdminLogoutResponse struct {
	Success bool `json:"success"`
}

type TestConnectionResponse struct {
	Connected bool `json:"connected"`
}
