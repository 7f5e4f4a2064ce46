package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/internal/repository"
	"github.com/certiswift/certiswift-api/internal/services"
	pkgerrors "github.com/certiswift/certiswift-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() *models.CreateCourseRequest {
	return &models.CreateCourseRequest{
		Title:       "Intro to Go",
		Provider:    "Certiswift",
		Description: "Learn Go from scratch",
		CourseURL:   "https://example.com/go",
	}
}

func TestCourseService_AddCourse(t *testing.T) {
	store := new(MockCourseStore)
	service := services.NewCourseService(store, services.NewImageService(nil), testConfig(), nil)
	ctx := context.Background()

	req := validCreateRequest()
	req.Title = "  Intro to Go  "
	req.Category = "programming"
	req.PriceRange = "Free"

	expected := &models.Course{
		Title:       "Intro to Go",
		Type:        models.CourseTypeFree,
		Provider:    "Certiswift",
		Description: "Learn Go from scratch",
		CourseURL:   "https://example.com/go",
		Category:    "programming",
		PriceRange:  "Free",
	}
	stored := *expected
	stored.ID = 1
	store.On("Create", ctx, expected).Return(&stored, nil).Once()

	course, err := service.AddCourse(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), course.ID)
	store.AssertExpectations(t)
}

func TestCourseService_AddCourse_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.CreateCourseRequest)
	}{
		{"blank title", func(r *models.CreateCourseRequest) { r.Title = "   " }},
		{"missing provider", func(r *models.CreateCourseRequest) { r.Provider = "" }},
		{"missing description", func(r *models.CreateCourseRequest) { r.Description = "" }},
		{"missing course url", func(r *models.CreateCourseRequest) { r.CourseURL = "" }},
		{"bad course url", func(r *models.CreateCourseRequest) { r.CourseURL = "not a url" }},
		{"bad type", func(r *models.CreateCourseRequest) { r.Type = "CHEAP" }},
		{"custom amount missing", func(r *models.CreateCourseRequest) { r.PriceRange = models.CustomAmountPriceRange }},
		{"custom amount not numeric", func(r *models.CreateCourseRequest) {
			r.PriceRange = models.CustomAmountPriceRange
			r.CustomAmount = "lots"
		}},
		{"image not url", func(r *models.CreateCourseRequest) { r.ImageURL = "picture.png" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockCourseStore)
			service := services.NewCourseService(store, services.NewImageService(nil), testConfig(), nil)

			req := validCreateRequest()
			tt.mutate(req)

			_, err := service.AddCourse(context.Background(), req)
			assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput), "got %v", err)
			store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCourseService_AddCourse_CustomAmount(t *testing.T) {
	store := new(MockCourseStore)
	service := services.NewCourseService(store, services.NewImageService(nil), testConfig(), nil)

	req := validCreateRequest()
	req.Type = "paid"
	req.PriceRange = models.CustomAmountPriceRange
	req.CustomAmount = "1499"

	store.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Course) bool {
		return c.PriceRange == "₹1499" && c.Type == models.CourseTypePaid
	})).Return(&models.Course{ID: 2, PriceRange: "₹1499"}, nil).Once()

	course, err := service.AddCourse(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "₹1499", course.PriceRange)
	store.AssertExpectations(t)
}

func TestCourseService_AddCourse_InlineImageWithoutStorage(t *testing.T) {
	store := new(MockCourseStore)
	service := services.NewCourseService(store, services.NewImageService(nil), testConfig(), nil)

	req := validCreateRequest()
	req.ImageURL = pngDataURI

	store.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Course) bool {
		return c.ImageURL == pngDataURI
	})).Return(&models.Course{ID: 3, ImageURL: pngDataURI}, nil).Once()

	_, err := service.AddCourse(context.Background(), req)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestCourseService_AddCourse_UploadsImage(t *testing.T) {
	store := new(MockCourseStore)
	objects := new(MockObjectStorage)
	service := services.NewCourseService(store, services.NewImageService(objects), testConfig(), nil)

	objects.On("UploadImage", mock.Anything, pngBytes, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "courses/") && strings.HasSuffix(key, ".png")
	}), "image/png").Return("https://cdn.example.com/courses/x.png", nil).Once()

	store.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Course) bool {
		return c.ImageURL == "https://cdn.example.com/courses/x.png"
	})).Return(&models.Course{ID: 4, ImageURL: "https://cdn.example.com/courses/x.png"}, nil).Once()

	req := validCreateRequest()
	req.ImageURL = pngDataURI
	course, err := service.AddCourse(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/courses/x.png", course.ImageURL)

	objects.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestCourseService_UpdateCourse(t *testing.T) {
	store := new(MockCourseStore)
	service := services.NewCourseService(store, services.NewImageService(nil), testConfig(), nil)
	ctx := context.Background()

	store.On("Update", ctx, int64(9), repository.CourseUpdates{
		"title":    "New title",
		"platform": "",
	}).Return(&models.Course{ID: 9, Title: "New title"}, nil).Once()

	course, err := service.UpdateCourse(ctx, 9, &models.UpdateCourseRequest{
		Title:    strPtr(" New title "),
		Platform: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", course.Title)
	store.AssertExpectations(t)
}

func TestCourseService_UpdateCourse_CannotBlankRequired(t *testing.T) {
	store := new(MockCourseStore)
	service := services.NewCourseService(store, services.NewImageService(nil), testConfig(), nil)

	_, err := service.UpdateCourse(context.Background(), 9, &models.UpdateCourseRequest{Title: strPtr("  ")})
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestCourseService_UpdateCourse_NotFound(t *testing.T) {
	store := new(MockCourseStore)
	service := services.NewCourseService(store, services.NewImageService(nil), testConfig(), nil)

	store.On("Update", mock.Anything, int64(404), mock.Anything).Return(nil, pkgerrors.NotFoundError("course")).Once()

	_, err := service.UpdateCourse(context.Background(), 404, &models.UpdateCourseRequest{Title: strPtr("x")})
	assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
}

func TestCourseService_UpdateCourse_ReplacesStoredImage(t *testing.T) {
	store := new(MockCourseStore)
	objects := new(MockObjectStorage)
	service := services.NewCourseService(store, services.NewImageService(objects), testConfig(), nil)

	oldURL := "https://cdn.example.com/courses/old.png"
	newURL := "https://cdn.example.com/courses/new.png"

	store.On("GetByID", mock.Anything, int64(5)).Return(&models.Course{ID: 5, ImageURL: oldURL}, nil).Once()
	objects.On("UploadImage", mock.Anything, pngBytes, mock.Anything, "image/png").Return(newURL, nil).Once()
	store.On("Update", mock.Anything, int64(5), repository.CourseUpdates{"image_url": newURL}).
		Return(&models.Course{ID: 5, ImageURL: newURL}, nil).Once()
	store.On("CountByImageURL", mock.Anything, oldURL).Return(0, nil).Once()
	objects.On("KeyForURL", oldURL).Return("courses/old.png", true).Once()
	objects.On("DeleteImage", mock.Anything, "courses/old.png").Return(nil).Once()

	_, err := service.UpdateCourse(context.Background(), 5, &models.UpdateCourseRequest{ImageURL: strPtr(pngDataURI)})
	require.NoError(t, err)

	store.AssertExpectations(t)
	objects.AssertExpectations(t)
}

func TestCourseService_DeleteCourse(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		store := new(MockCourseStore)
		service := services.NewCourseService(store, services.NewImageService(nil), testConfig(), nil)
		store.On("Delete", mock.Anything, int64(3)).Return(nil).Once()

		assert.NoError(t, service.DeleteCourse(context.Background(), 3))
		store.AssertExpectations(t)
	})

	t.Run("missing course is not found", func(t *testing.T) {
		store := new(MockCourseStore)
		service := services.NewCourseService(store, services.NewImageService(nil), testConfig(), nil)
		store.On("Delete", mock.Anything, int64(404)).Return(pkgerrors.NotFoundError("course")).Once()

		err := service.DeleteCourse(context.Background(), 404)
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("removes stored image", func(t *testing.T) {
		store := new(MockCourseStore)
		objects := new(MockObjectStorage)
		service := services.NewCourseService(store, services.NewImageService(objects), testConfig(), nil)

		url := "https://cdn.example.com/courses/a.png"
		store.On("GetByID", mock.Anything, int64(3)).Return(&models.Course{ID: 3, ImageURL: url}, nil).Once()
		store.On("Delete", mock.Anything, int64(3)).Return(nil).Once()
		store.On("CountByImageURL", mock.Anything, url).Return(0, nil).Once()
		objects.On("KeyForURL", url).Return("courses/a.png", true).Once()
		objects.On("DeleteImage", mock.Anything, "courses/a.png").Return(nil).Once()

		assert.NoError(t, service.DeleteCourse(context.Background(), 3))
		store.AssertExpectations(t)
		objects.AssertExpectations(t)
	})

	t.Run("keeps image another course still uses", func(t *testing.T) {
		store := new(MockCourseStore)
		objects := new(MockObjectStorage)
		service := services.NewCourseService(store, services.NewImageService(objects), testConfig(), nil)

		url := "https://cdn.example.com/courses/shared.png"
		store.On("GetByID", mock.Anything, int64(3)).Return(&models.Course{ID: 3, ImageURL: url}, nil).Once()
		store.On("Delete", mock.Anything, int64(3)).Return(nil).Once()
		store.On("CountByImageURL", mock.Anything, url).Return(1, nil).Once()

		assert.NoError(t, service.DeleteCourse(context.Background(), 3))
		store.AssertExpectations(t)
		objects.AssertNotCalled(t, "DeleteImage", mock.Anything, mock.Anything)
	})
}

func TestCourseService_AddCourse_FailedCreateOnlyDeletesOwnUpload(t *testing.T) {
	t.Run("uploaded by this request", func(t *testing.T) {
		store := new(MockCourseStore)
		objects := new(MockObjectStorage)
		service := services.NewCourseService(store, services.NewImageService(objects), testConfig(), nil)

		newURL := "https://cdn.example.com/courses/fresh.png"
		objects.On("UploadImage", mock.Anything, pngBytes, mock.Anything, "image/png").Return(newURL, nil).Once()
		store.On("Create", mock.Anything, mock.Anything).Return(nil, pkgerrors.ErrBackendUnavailable).Once()
		objects.On("KeyForURL", newURL).Return("courses/fresh.png", true).Once()
		objects.On("DeleteImage", mock.Anything, "courses/fresh.png").Return(nil).Once()

		req := validCreateRequest()
		req.ImageURL = pngDataURI
		_, err := service.AddCourse(context.Background(), req)
		assert.True(t, errors.Is(err, pkgerrors.ErrBackendUnavailable))
		objects.AssertExpectations(t)
	})

	t.Run("caller supplied stored URL", func(t *testing.T) {
		store := new(MockCourseStore)
		objects := new(MockObjectStorage)
		service := services.NewCourseService(store, services.NewImageService(objects), testConfig(), nil)

		store.On("Create", mock.Anything, mock.Anything).Return(nil, pkgerrors.ErrBackendUnavailable).Once()

		req := validCreateRequest()
		req.ImageURL = "https://cdn.example.com/courses/other-course.png"
		_, err := service.AddCourse(context.Background(), req)
		assert.Error(t, err)
		objects.AssertNotCalled(t, "DeleteImage", mock.Anything, mock.Anything)
	})
}

func TestCourseService_UpdateCourse_ImageOwnership(t *testing.T) {
	t.Run("failed update keeps caller supplied URL", func(t *testing.T) {
		store := new(MockCourseStore)
		objects := new(MockObjectStorage)
		service := services.NewCourseService(store, services.NewImageService(objects), testConfig(), nil)

		supplied := "https://cdn.example.com/courses/other-course.png"
		store.On("GetByID", mock.Anything, int64(5)).Return(&models.Course{ID: 5}, nil).Once()
		store.On("Update", mock.Anything, int64(5), repository.CourseUpdates{"image_url": supplied}).
			Return(nil, pkgerrors.ErrBackendUnavailable).Once()

		_, err := service.UpdateCourse(context.Background(), 5, &models.UpdateCourseRequest{ImageURL: strPtr(supplied)})
		assert.Error(t, err)
		objects.AssertNotCalled(t, "DeleteImage", mock.Anything, mock.Anything)
	})

	t.Run("failed update deletes fresh upload", func(t *testing.T) {
		store := new(MockCourseStore)
		objects := new(MockObjectStorage)
		service := services.NewCourseService(store, services.NewImageService(objects), testConfig(), nil)

		newURL := "https://cdn.example.com/courses/fresh.png"
		store.On("GetByID", mock.Anything, int64(5)).Return(&models.Course{ID: 5}, nil).Once()
		objects.On("UploadImage", mock.Anything, pngBytes, mock.Anything, "image/png").Return(newURL, nil).Once()
		store.On("Update", mock.Anything, int64(5), mock.Anything).Return(nil, pkgerrors.ErrBackendUnavailable).Once()
		objects.On("KeyForURL", newURL).Return("courses/fresh.png", true).Once()
		objects.On("DeleteImage", mock.Anything, "courses/fresh.png").Return(nil).Once()

		_, err := service.UpdateCourse(context.Background(), 5, &models.UpdateCourseRequest{ImageURL: strPtr(pngDataURI)})
		assert.Error(t, err)
		objects.AssertExpectations(t)
	})

	t.Run("replaced image still shared is kept", func(t *testing.T) {
		store := new(MockCourseStore)
		objects := new(MockObjectStorage)
		service := services.NewCourseService(store, services.NewImageService(objects), testConfig(), nil)

		shared := "https://cdn.example.com/courses/shared.png"
		store.On("GetByID", mock.Anything, int64(5)).Return(&models.Course{ID: 5, ImageURL: shared}, nil).Once()
		store.On("Update", mock.Anything, int64(5), repository.CourseUpdates{"image_url": ""}).
			Return(&models.Course{ID: 5}, nil).Once()
		store.On("CountByImageURL", mock.Anything, shared).Return(2, nil).Once()

		_, err := service.UpdateCourse(context.Background(), 5, &models.UpdateCourseRequest{ImageURL: strPtr("")})
		require.NoError(t, err)
		store.AssertExpectations(t)
		objects.AssertNotCalled(t, "DeleteImage", mock.Anything, mock.Anything)
	})
}

func TestCourseService_ListCourses(t *testing.T) {
	store := new(MockCourseStore)
	service := services.NewCourseService(store, services.NewImageService(nil), testConfig(), nil)
	ctx := context.Background()

	expected := []*models.Course{{ID: 2}, {ID: 1}}
	store.On("List", ctx, models.CourseFilter{Type: models.CourseTypePaid}).Return(expected, nil).Once()

	courses, err := service.ListCourses(ctx, models.CourseFilter{Type: "paid"})
	require.NoError(t, err)
	assert.Equal(t, expected, courses)

	_, err = service.ListCourses(ctx, models.CourseFilter{Type: "other"})
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
}

func TestCourseService_GetCourse(t *testing.T) {
	store := new(MockCourseStore)
	service := services.NewCourseService(store, services.NewImageService(nil), testConfig(), nil)
	ctx := context.Background()

	store.On("GetByID", ctx, int64(1)).Return(&models.Course{ID: 1, Title: "Go"}, nil).Once()
	store.On("GetByID", ctx, int64(2)).Return(nil, pkgerrors.NotFoundError("course")).Once()

	course, err := service.GetCourse(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Go", course.Title)

	_, err = service.GetCourse(ctx, 2)
	assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
}
