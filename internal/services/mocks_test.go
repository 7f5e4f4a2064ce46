package services_test

import (
	"context"

	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockCourseStore is a mock implementation of repository.CourseStore
type MockCourseStore struct {
	mock.Mock
}

func (m *MockCourseStore) List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Course), args.Error(1)
}

func (m *MockCourseStore) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseStore) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	args := m.Called(ctx, course)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseStore) Update(ctx context.Context, id int64, updates repository.CourseUpdates) (*models.Course, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCourseStore) CountByImageURL(ctx context.Context, imageURL string) (int, error) {
	args := m.Called(ctx, imageURL)
	return args.Int(0), args.Error(1)
}

// MockRatingStore is a mock implementation of repository.RatingStore
type MockRatingStore struct {
	mock.Mock
}

func (m *MockRatingStore) ListByCourse(ctx context.Context, courseID int64) ([]*models.Rating, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Rating), args.Error(1)
}

func (m *MockRatingStore) Create(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	args := m.Called(ctx, rating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

// MockAdminStore is a mock implementation of repository.AdminStore
type MockAdminStore struct {
	mock.Mock
}

func (m *MockAdminStore) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminStore) Create(ctx context.Context, email, passwordHash string) (*models.Admin, error) {
	args := m.Called(ctx, email, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockHealthChecker is a mock implementation of repository.HealthChecker
type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of services.ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) UploadImage(ctx context.Context, data []byte, key, contentType string) (string, error) {
	args := m.Called(ctx, data, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) DeleteImage(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) KeyForURL(url string) (string, bool) {
	args := m.Called(url)
	return args.String(0), args.Bool(1)
}
