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
	"github.com/certiswift/certiswift-api/pkg/tracing"
	"github.com/certiswift/certiswift-api/pkg/trigger"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RatingService is the single place ratings are validated: a non-blank
// userName and a score in [1,5] are checked before the store is called.
type RatingService struct {
	ratings    repository.RatingStore
	config     *config.Config
	httpClient httpclient.Client
}

// NewRatingService creates a new rating service instance
func NewRatingService(ratings repository.RatingStore, cfg *config.Config, httpClient httpclient.Client) *RatingService {
	return &RatingService{
		ratings:    ratings,
		config:     cfg,
		httpClient: httpClient,
	}
}

// ListRatings returns a course's ratings, newest first. Unknown courses have none.
func (s *RatingService) ListRatings(ctx context.Context, courseID int64) ([]*models.Rating, error) {
	ctx, span := tracing.StartSpan(ctx, "RatingService.ListRatings", attribute.Int64("course.id", courseID))
	defer span.End()

	ratings, err := s.ratings.ListByCourse(ctx, courseID)
	if err != nil {
		tracing.RecordError(span, err)
		logger.Error("Failed to list ratings", zap.Int64("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return ratings, nil
}

// AddRating validates and stores a rating for courseID
func (s *RatingService) AddRating(ctx context.Context, courseID int64, req *models.CreateRatingRequest) (*models.Rating, error) {
	ctx, span := tracing.StartSpan(ctx, "RatingService.AddRating", attribute.Int64("course.id", courseID))
	defer span.End()

	req.UserName = strings.TrimSpace(req.UserName)
	req.Review = strings.TrimSpace(req.Review)

	if err := validateStruct(req); err != nil {
		metrics.RatingSubmissions.WithLabelValues("invalid").Inc()
		logger.Info("Rating rejected", zap.Int64("course_id", courseID), zap.Error(err))
		return nil, err
	}

	rating, err := s.ratings.Create(ctx, &models.Rating{
		CourseID: courseID,
		UserName: req.UserName,
		Rating:   req.Rating,
		Review:   req.Review,
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			metrics.RatingSubmissions.WithLabelValues("not_found").Inc()
			return nil, err
		}
		metrics.RatingSubmissions.WithLabelValues("error").Inc()
		tracing.RecordError(span, err)
		logger.Error("Failed to create rating", zap.Int64("course_id", courseID), zap.Error(err))
		return nil, err
	}

	metrics.RatingSubmissions.WithLabelValues("success").Inc()
	logger.Info("Rating submitted",
		zap.Int64("course_id", courseID),
		zap.Int64("rating_id", rating.ID),
		zap.Int("rating", rating.Rating))

	trigger.CallAsync(s.config.EventTriggers.RatingCreatedTriggerURL, trigger.Event{
		Event:    "rating.created",
		RecordID: strconv.FormatInt(rating.ID, 10),
		Data:     rating,
	}, s.httpClient)

	return rating, nil
}
