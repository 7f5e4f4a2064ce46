package repository

import (
	"context"
	"time"

	"github.com/certiswift/certiswift-api/internal/models"
)

// AdminRepository reads and writes the admins table. Emails are stored lowercased by the caller.
type AdminRepository struct {
	db Querier
}

func NewAdminRepository(db Querier) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (admin *models.Admin, err error) {
	start := time.Now()
	defer func() { observe("admins.get_by_email", start, err) }()

	query := `
		SELECT id, email, password_hash, created_at
		FROM admins
		WHERE email = $1
		LIMIT 1
	`

	var a models.Admin
	if err = r.db.QueryRow(ctx, query, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, translate("admins.get_by_email", "admin", err)
	}
	return &a, nil
}

// Create inserts an admin. A duplicate email is a conflict.
func (r *AdminRepository) Create(ctx context.Context, email, passwordHash string) (admin *models.Admin, err error) {
	start := time.Now()
	defer func() { observe("admins.create", start, err) }()

	query := `
		INSERT INTO admins (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at
	`

	var a models.Admin
	if err = r.db.QueryRow(ctx, query, email, passwordHash).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, translate("admins.create", "admin", err)
	}
	return &a, nil
}

func (r *AdminRepository) Count(ctx context.Context) (count int, err error) {
	start := time.Now()
	defer func() { observe("admins.count", start, err) }()

	if err = r.db.QueryRow(ctx, "SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return 0, translate("admins.count", "admin", err)
	}
	return count, nil
}

// PingRepository answers liveness probes against the database
type PingRepository struct {
	db Querier
}

func NewPingRepository(db Querier) *PingRepository {
	return &PingRepository{db: db}
}

func (r *PingRepository) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { observe("ping", start, err) }()

	if err = r.db.Ping(ctx); err != nil {
		return translate("ping", "database", err)
	}
	return nil
}
