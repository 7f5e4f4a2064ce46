package services

import (
	"context"
	"time"

	"github.com/certiswift/certiswift-api/internal/models"
)

// CourseServiceInterface defines course catalog operations
type CourseServiceInterface interface {
	ListCourses(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	AddCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, req *models.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// RatingServiceInterface defines course rating operations
type RatingServiceInterface interface {
	ListRatings(ctx context.Context, courseID int64) ([]*models.Rating, error)
	AddRating(ctx context.Context, courseID int64, req *models.CreateRatingRequest) (*models.Rating, error)
}

// AdminAuthServiceInterface defines admin credential and session operations
type AdminAuthServiceInterface interface {
	AuthenticateAdmin(ctx context.Context, email, password string) (bool, error)
	Login(ctx context.Context, req *models.AdminLoginRequest) (*models.AdminSession, error)
	ValidateSession(token string) (*models.AdminSession, error)
	Logout(token string)
	CreateAdmin(ctx context.Context, req *models.CreateAdminRequest) (*models.Admin, error)
	TestConnection(ctx context.Context) bool
	SessionTTL() time.Duration
	CookieSecure() bool
}

// ImageServiceInterface defines course image uploads
type ImageServiceInterface interface {
	Enabled() bool
	Upload(ctx context.Context, data []byte, declaredType string) (string, error)
	UploadEncoded(ctx context.Context, encoded, declaredType string) (string, error)
	Delete(ctx context.Context, url string)
}

// CatalogServiceInterface defines the course form choices
type CatalogServiceInterface interface {
	Options() *models.CatalogOptions
}

// Ensure services implement their interfaces
var _ CourseServiceInterface = (*CourseService)(nil)
var _ RatingServiceInterface = (*RatingService)(nil)
var _ AdminAuthServiceInterface = (*AdminAuthService)(nil)
var _ ImageServiceInterface = (*ImageService)(nil)
var _ CatalogServiceInterface = (*CatalogService)(nil)
