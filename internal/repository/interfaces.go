package repository

import (
	"context"

	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the part of *pgxpool.Pool the repositories use
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// CourseUpdates maps column names to new values. Empty strings in optional columns are stored as NULL.
type CourseUpdates map[string]interface{}

// CourseStore persists course records
type CourseStore interface {
	List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) (*models.Course, error)
	Update(ctx context.Context, id int64, updates CourseUpdates) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
	CountByImageURL(ctx context.Context, imageURL string) (int, error)
}

// RatingStore persists course ratings
type RatingStore interface {
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Rating, error)
	Create(ctx context.Context, rating *models.Rating) (*models.Rating, error)
}

// AdminStore persists dashboard accounts
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, email, passwordHash string) (*models.Admin, error)
	Count(ctx context.Context) (int, error)
}

// HealthChecker probes the database
type HealthChecker interface {
	Ping(ctx context.Context) error
}

var _ CourseStore = (*CourseRepository)(nil)
var _ RatingStore = (*RatingRepository)(nil)
var _ AdminStore = (*AdminRepository)(nil)
var _ HealthChecker = (*PingRepository)(nil)
