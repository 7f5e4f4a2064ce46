package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/certiswift/certiswift-api/config"
	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/internal/repository"
	pkgerrors "github.com/certiswift/certiswift-api/pkg/errors"
	"github.com/certiswift/certiswift-api/pkg/httpclient"
	"github.com/certiswift/certiswift-api/pkg/logger"
	"github.com/certiswift/certiswift-api/pkg/metrics"
	"github.com/certiswift/certiswift-api/pkg/storage"
	"github.com/certiswift/certiswift-api/pkg/tracing"
	"github.com/certiswift/certiswift-api/pkg/trigger"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CourseService manages catalog entries. Writes go straight to the store; nothing is cached.
type CourseService struct {
	courses    repository.CourseStore
	images     *ImageService
	config     *config.Config
	httpClient httpclient.Client
}

// NewCourseService creates a new course service instance
func NewCourseService(courses repository.CourseStore, images *ImageService, cfg *config.Config, httpClient httpclient.Client) *CourseService {
	return &CourseService{
		courses:    courses,
		images:     images,
		config:     cfg,
		httpClient: httpClient,
	}
}

// ListCourses returns courses matching filter, newest first
func (s *CourseService) ListCourses(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	ctx, span := tracing.StartSpan(ctx, "CourseService.ListCourses")
	defer span.End()

	filter.Type = models.CourseType(strings.ToUpper(strings.TrimSpace(string(filter.Type))))
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, pkgerrors.InvalidInputError("type", "must be FREE or PAID")
	}

	courses, err := s.courses.List(ctx, filter)
	if err != nil {
		tracing.RecordError(span, err)
		logger.Error("Failed to list courses", zap.Error(err))
		return nil, err
	}
	span.SetAttributes(attribute.Int("courses.count", len(courses)))
	return courses, nil
}

// GetCourse returns a single course
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	ctx, span := tracing.StartSpan(ctx, "CourseService.GetCourse", attribute.Int64("course.id", id))
	defer span.End()

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			tracing.RecordError(span, err)
			logger.Error("Failed to get course", zap.Int64("course_id", id), zap.Error(err))
		}
		return nil, err
	}
	return course, nil
}

// AddCourse validates and stores a new course
func (s *CourseService) AddCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	ctx, span := tracing.StartSpan(ctx, "CourseService.AddCourse")
	defer span.End()

	normalizeCreate(req)
	if err := validateStruct(req); err != nil {
		metrics.CourseMutations.WithLabelValues("create", "invalid").Inc()
		return nil, err
	}

	priceRange, err := resolvePriceRange(req.PriceRange, req.CustomAmount)
	if err != nil {
		metrics.CourseMutations.WithLabelValues("create", "invalid").Inc()
		return nil, err
	}

	imageURL, uploaded, err := s.prepareImage(ctx, req.ImageURL)
	if err != nil {
		metrics.CourseMutations.WithLabelValues("create", "invalid").Inc()
		return nil, err
	}

	course, err := s.courses.Create(ctx, &models.Course{
		Title:       req.Title,
		Type:        req.Type,
		Provider:    req.Provider,
		Description: req.Description,
		CourseURL:   req.CourseURL,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Platform:    req.Platform,
		SkillLevel:  req.SkillLevel,
		PriceRange:  priceRange,
		ImageURL:    imageURL,
	})
	if err != nil {
		metrics.CourseMutations.WithLabelValues("create", "error").Inc()
		tracing.RecordError(span, err)
		logger.Error("Failed to create course", zap.String("title", req.Title), zap.Error(err))
		if uploaded {
			s.images.Delete(ctx, imageURL)
		}
		return nil, err
	}

	metrics.CourseMutations.WithLabelValues("create", "success").Inc()
	logger.Info("Course created", zap.Int64("course_id", course.ID), zap.String("title", course.Title))
	s.notify("course.created", course.ID, course)

	return course, nil
}

// UpdateCourse applies a partial update
func (s *CourseService) UpdateCourse(ctx context.Context, id int64, req *models.UpdateCourseRequest) (*models.Course, error) {
	ctx, span := tracing.StartSpan(ctx, "CourseService.UpdateCourse", attribute.Int64("course.id", id))
	defer span.End()

	normalizeUpdate(req)
	if err := validateStruct(req); err != nil {
		metrics.CourseMutations.WithLabelValues("update", "invalid").Inc()
		return nil, err
	}

	updates := repository.CourseUpdates{}
	setString := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	setString("title", req.Title)
	setString("provider", req.Provider)
	setString("description", req.Description)
	setString("course_url", req.CourseURL)
	setString("category", req.Category)
	setString("subcategory", req.Subcategory)
	setString("platform", req.Platform)
	setString("skill_level", req.SkillLevel)
	if req.Type != nil {
		updates["type"] = string(*req.Type)
	}
	if req.PriceRange != nil {
		custom := ""
		if req.CustomAmount != nil {
			custom = *req.CustomAmount
		}
		priceRange, err := resolvePriceRange(*req.PriceRange, custom)
		if err != nil {
			metrics.CourseMutations.WithLabelValues("update", "invalid").Inc()
			return nil, err
		}
		updates["price_range"] = priceRange
	}

	var previousImage string
	var uploaded bool
	if req.ImageURL != nil {
		if s.images.Enabled() {
			existing, err := s.courses.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			previousImage = existing.ImageURL
		}

		imageURL, fresh, err := s.prepareImage(ctx, *req.ImageURL)
		if err != nil {
			metrics.CourseMutations.WithLabelValues("update", "invalid").Inc()
			return nil, err
		}
		uploaded = fresh
		updates["image_url"] = imageURL
	}

	course, err := s.courses.Update(ctx, id, updates)
	if err != nil {
		status := "error"
		if errors.Is(err, pkgerrors.ErrNotFound) {
			status = "not_found"
		} else {
			tracing.RecordError(span, err)
			logger.Error("Failed to update course", zap.Int64("course_id", id), zap.Error(err))
		}
		metrics.CourseMutations.WithLabelValues("update", status).Inc()
		if uploaded {
			s.images.Delete(ctx, updates["image_url"].(string))
		}
		return nil, err
	}

	if previousImage != course.ImageURL {
		s.releaseImage(ctx, previousImage)
	}

	metrics.CourseMutations.WithLabelValues("update", "success").Inc()
	logger.Info("Course updated", zap.Int64("course_id", id), zap.Int("fields", len(updates)))
	s.notify("course.updated", course.ID, course)

	return course, nil
}

// DeleteCourse removes a course and its ratings. A missing course is ErrNotFound.
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	ctx, span := tracing.StartSpan(ctx, "CourseService.DeleteCourse", attribute.Int64("course.id", id))
	defer span.End()

	var imageURL string
	if s.images.Enabled() {
		existing, err := s.courses.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pkgerrors.ErrNotFound) {
				metrics.CourseMutations.WithLabelValues("delete", "not_found").Inc()
			}
			return err
		}
		imageURL = existing.ImageURL
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		status := "error"
		if errors.Is(err, pkgerrors.ErrNotFound) {
			status = "not_found"
		} else {
			tracing.RecordError(span, err)
			logger.Error("Failed to delete course", zap.Int64("course_id", id), zap.Error(err))
		}
		metrics.CourseMutations.WithLabelValues("delete", status).Inc()
		return err
	}

	s.releaseImage(ctx, imageURL)

	metrics.CourseMutations.WithLabelValues("delete", "success").Inc()
	logger.Info("Course deleted", zap.Int64("course_id", id))
	s.notify("course.deleted", id, nil)

	return nil
}

// prepareImage turns an inline data URI into a stored object when storage is available.
// Without storage the data URI is kept inline on the record. uploaded is true only
// when this call created the object.
func (s *CourseService) prepareImage(ctx context.Context, image string) (url string, uploaded bool, err error) {
	if image == "" {
		return "", false, nil
	}

	if !storage.IsDataURI(image) {
		if err := validate.Var(image, "url,max=2048"); err != nil {
			return "", false, pkgerrors.InvalidInputError("image_url", "must be a URL or an image data URI")
		}
		return image, false, nil
	}

	if !s.images.Enabled() {
		data, err := storage.DecodeImageData(image)
		if err != nil {
			return "", false, pkgerrors.InvalidInputError("image_url", err.Error())
		}
		if _, _, err := storage.DetectImage(data); err != nil {
			return "", false, imageInputError(err)
		}
		logger.Warn("Object storage not configured, storing course image inline",
			zap.Int("size_bytes", len(data)))
		return image, false, nil
	}

	url, err = s.images.UploadEncoded(ctx, image, "")
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

// releaseImage deletes a stored image once no course references it
func (s *CourseService) releaseImage(ctx context.Context, url string) {
	if url == "" || !s.images.Enabled() || storage.IsDataURI(url) {
		return
	}
	refs, err := s.courses.CountByImageURL(ctx, url)
	if err != nil {
		logger.Warn("Keeping course image, reference check failed", zap.String("image_url", url), zap.Error(err))
		return
	}
	if refs > 0 {
		logger.Debug("Keeping course image still in use", zap.String("image_url", url), zap.Int("references", refs))
		return
	}
	s.images.Delete(ctx, url)
}

func (s *CourseService) notify(event string, id int64, course *models.Course) {
	trigger.CallAsync(s.config.EventTriggers.CourseChangedTriggerURL, trigger.Event{
		Event:    event,
		RecordID: strconv.FormatInt(id, 10),
		Data:     course,
	}, s.httpClient)
}

// resolvePriceRange stores a custom amount as "₹<amount>"
func resolvePriceRange(priceRange, customAmount string) (string, error) {
	if priceRange != models.CustomAmountPriceRange {
		return priceRange, nil
	}
	if customAmount == "" {
		return "", pkgerrors.InvalidInputError("custom_amount", "required when price range is Custom Amount")
	}
	return "₹" + customAmount, nil
}

func normalizeCreate(req *models.CreateCourseRequest) {
	req.Title = strings.TrimSpace(req.Title)
	req.Provider = strings.TrimSpace(req.Provider)
	req.Description = strings.TrimSpace(req.Description)
	req.CourseURL = strings.TrimSpace(req.CourseURL)
	req.Category = strings.TrimSpace(req.Category)
	req.Subcategory = strings.TrimSpace(req.Subcategory)
	req.Platform = strings.TrimSpace(req.Platform)
	req.SkillLevel = strings.TrimSpace(req.SkillLevel)
	req.PriceRange = strings.TrimSpace(req.PriceRange)
	req.CustomAmount = strings.TrimSpace(req.CustomAmount)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	req.Type = models.CourseType(strings.ToUpper(strings.TrimSpace(string(req.Type))))
	if req.Type == "" {
		req.Type = models.CourseTypeFree
	}
}

func normalizeUpdate(req *models.UpdateCourseRequest) {
	for _, p := range []*string{
		req.Title, req.Provider, req.Description, req.CourseURL, req.Category,
		req.Subcategory, req.Platform, req.SkillLevel, req.PriceRange, req.CustomAmount, req.ImageURL,
	} {
		trimPtr(p)
	}
	if req.Type != nil {
		t := models.CourseType(strings.ToUpper(strings.TrimSpace(string(*req.Type))))
		req.Type = &t
	}
}
