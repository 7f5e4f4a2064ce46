package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/certiswift/certiswift-api/pkg/errors"
	"github.com/certiswift/certiswift-api/pkg/logger"
	"github.com/certiswift/certiswift-api/pkg/metrics"
	"github.com/certiswift/certiswift-api/pkg/storage"
	"github.com/certiswift/certiswift-api/pkg/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const courseImagePrefix = "courses/"

// ObjectStorage is the part of *storage.StorageClient used for course images
type ObjectStorage interface {
	UploadImage(ctx context.Context, data []byte, key, contentType string) (string, error)
	DeleteImage(ctx context.Context, key string) error
	KeyForURL(url string) (string, bool)
}

var _ ObjectStorage = (*storage.StorageClient)(nil)

// ImageService stores course images under identifier-addressed keys: courses/<uuid>.<ext>
type ImageService struct {
	storage ObjectStorage
	newID   func() string
}

// NewImageService creates an image service. A nil store disables uploads.
func NewImageService(store ObjectStorage) *ImageService {
	return &ImageService{storage: store, newID: uuid.NewString}
}

// Enabled reports whether object storage is configured
func (s *ImageService) Enabled() bool {
	return s != nil && s.storage != nil
}

// Upload checks size and sniffed type, then stores data and returns its public URL.
// declaredType, when set, must be an image type; the stored type is always the sniffed one.
func (s *ImageService) Upload(ctx context.Context, data []byte, declaredType string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "ImageService.Upload", attribute.Int("image.size_bytes", len(data)))
	defer span.End()

	if !s.Enabled() {
		metrics.ImageUploads.WithLabelValues("disabled").Inc()
		return "", fmt.Errorf("image upload: %w", pkgerrors.ErrStorageUnavailable)
	}

	if declaredType != "" && !strings.HasPrefix(strings.ToLower(declaredType), "image/") {
		metrics.ImageUploads.WithLabelValues("invalid").Inc()
		return "", pkgerrors.InvalidInputError("contentType", "only image files are allowed")
	}

	contentType, ext, err := storage.DetectImage(data)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("invalid").Inc()
		return "", imageInputError(err)
	}

	key := courseImagePrefix + s.newID() + ext
	url, err := s.storage.UploadImage(ctx, data, key, contentType)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("error").Inc()
		tracing.RecordError(span, err)
		logger.Error("Failed to upload course image", zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("%w: %w", pkgerrors.ErrStorageUnavailable, err)
	}

	metrics.ImageUploads.WithLabelValues("success").Inc()
	logger.Info("Course image uploaded",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("size_bytes", len(data)))

	return url, nil
}

// UploadEncoded decodes a data URI or bare base64 string and uploads it
func (s *ImageService) UploadEncoded(ctx context.Context, encoded, declaredType string) (string, error) {
	data, err := storage.DecodeImageData(encoded)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("invalid").Inc()
		return "", pkgerrors.InvalidInputError("image", err.Error())
	}
	return s.Upload(ctx, data, declaredType)
}

// Delete removes an image this service stored. Other URLs and failures are ignored.
func (s *ImageService) Delete(ctx context.Context, url string) {
	if !s.Enabled() || url == "" {
		return
	}
	key, ok := s.storage.KeyForURL(url)
	if !ok || !strings.HasPrefix(key, courseImagePrefix) {
		return
	}
	if err := s.storage.DeleteImage(ctx, key); err != nil {
		logger.Warn("Failed to delete course image", zap.Error(err), zap.String("key", key))
	}
}

func imageInputError(err error) error {
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return pkgerrors.InvalidInputError("image", "image must be at most 5MB")
	case errors.Is(err, storage.ErrUnsupportedImage):
		return pkgerrors.InvalidInputError("image", "only JPEG, PNG, WebP and GIF images are allowed")
	default:
		return pkgerrors.InvalidInputError("image", err.Error())
	}
}
