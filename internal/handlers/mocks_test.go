package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/certiswift/certiswift-api/config"
	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/internal/repository"
	"github.com/stretchr/testify/mock"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{AppEnv: "development"},
		Session: config.SessionConfig{Store: config.SessionStoreMemory, TTLHours: 24},
	}
}

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
	return m.Called(ctx, id).Error(0)
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

// MockAdminAuthService is a mock implementation of services.AdminAuthServiceInterface
type MockAdminAuthService struct {
	mock.Mock
}

func (m *MockAdminAuthService) AuthenticateAdmin(ctx context.Context, email, password string) (bool, error) {
	args := m.Called(ctx, email, password)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminAuthService) Login(ctx context.Context, req *models.AdminLoginRequest) (*models.AdminSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminSession), args.Error(1)
}

func (m *MockAdminAuthService) ValidateSession(token string) (*models.AdminSession, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminSession), args.Error(1)
}

func (m *MockAdminAuthService) Logout(token string) {
	m.Called(token)
}

func (m *MockAdminAuthService) CreateAdmin(ctx context.Context, req *models.CreateAdminRequest) (*models.Admin, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminAuthService) TestConnection(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *MockAdminAuthService) SessionTTL() time.Duration {
	return 24 * time.Hour
}

func (m *MockAdminAuthService) CookieSecure() bool {
	return true
}

// MockImageService is a mock implementation of services.ImageServiceInterface
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *MockImageService) Upload(ctx context.Context, data []byte, declaredType string) (string, error) {
	args := m.Called(ctx, data, declaredType)
	return args.String(0), args.Error(1)
}

func (m *MockImageService) UploadEncoded(ctx context.Context, encoded, declaredType string) (string, error) {
	args := m.Called(ctx, encoded, declaredType)
	return args.String(0), args.Error(1)
}

func (m *MockImageService) Delete(ctx context.Context, url string) {
	m.Called(ctx, url)
}

// fakeObjectStorage records uploads and deletes in call order
type fakeObjectStorage struct {
	publicURL string
	uploads   []string
	deletes   []string
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{publicURL: "https://cdn.example.com"}
}

func (s *fakeObjectStorage) UploadImage(_ context.Context, _ []byte, key, _ string) (string, error) {
	s.uploads = append(s.uploads, key)
	return s.publicURL + "/" + key, nil
}

func (s *fakeObjectStorage) DeleteImage(_ context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return nil
}

func (s *fakeObjectStorage) KeyForURL(url string) (string, bool) {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}
