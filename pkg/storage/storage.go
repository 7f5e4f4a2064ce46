package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/certiswift/certiswift-api/pkg/logger"
	"github.com/certiswift/certiswift-api/pkg/metrics"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// MaxImageSize mirrors the dashboard's upload limit
const MaxImageSize = 5 * 1024 * 1024

var (
	ErrInvalidDataURI   = errors.New("invalid data URI format")
	ErrImageTooLarge    = errors.New("image too large")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Config holds connection settings for an S3-compatible bucket
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
	// PublicURL overrides the "{endpoint}/{bucket}" prefix of returned object URLs (e.g. a CDN)
	PublicURL string
}

// StorageClient uploads course images to S3-compatible object storage
type StorageClient struct {
	s3Client   *s3.Client
	bucketName string
	publicURL  string
}

// NewStorageClient creates a new object storage client using the S3 SDK
func NewStorageClient(cfg Config) (*StorageClient, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://s3.amazonaws.com"
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})

	logger.Info("Object storage client initialized",
		zap.String("bucket", cfg.BucketName),
		zap.String("endpoint", endpoint),
		zap.String("region", region),
	)

	return &StorageClient{
		s3Client:   s3Client,
		bucketName: cfg.BucketName,
		publicURL:  publicURLPrefix(endpoint, cfg.BucketName, cfg.PublicURL),
	}, nil
}

func publicURLPrefix(endpoint, bucket, override string) string {
	if override != "" {
		return strings.TrimRight(override, "/")
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(endpoint, "/"), bucket)
}

// UploadImage stores image bytes under key and returns the public URL
func (s *StorageClient) UploadImage(ctx context.Context, data []byte, key, contentType string) (string, error) {
	start := time.Now()
	operation := "putObject"

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall("object_storage", operation, "error", duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall("object_storage", operation, "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(data)),
	)

	return s.ObjectURL(key), nil
}

// DeleteImage removes the object stored under key
func (s *StorageClient) DeleteImage(ctx context.Context, key string) error {
	start := time.Now()
	operation := "deleteObject"

	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})

	duration := metrics.MeasureDuration(start)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.StorageRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, status).Inc()

	if err != nil {
		logger.LogAPICall("object_storage", operation, status, duration, zap.Error(err), zap.String("key", key))
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// ObjectURL returns the public URL for key
func (s *StorageClient) ObjectURL(key string) string {
	return s.publicURL + "/" + key
}

// KeyForURL reports the object key for a URL this client produced
func (s *StorageClient) KeyForURL(url string) (string, bool) {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// DecodeImageData accepts either a data URI (data:image/png;base64,...) or bare base64
func DecodeImageData(imageData string) ([]byte, error) {
	payload := imageData
	if strings.HasPrefix(imageData, "data:") {
		parts := strings.SplitN(imageData, ",", 2)
		if len(parts) != 2 || !strings.HasSuffix(parts[0], ";base64") {
			return nil, ErrInvalidDataURI
		}
		payload = parts[1]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image: %w", err)
	}
	return data, nil
}

// DetectImage sniffs the content type from the bytes and checks size and type.
// Returns the detected content type and a file extension for it.
func DetectImage(data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("%w: empty file", ErrUnsupportedImage)
	}
	if len(data) > MaxImageSize {
		return "", "", fmt.Errorf("%w: %d bytes (max %d bytes)", ErrImageTooLarge, len(data), MaxImageSize)
	}

	mtype := mimetype.Detect(data)
	for allowed, ext := range allowedImageTypes {
		if mtype.Is(allowed) {
			return allowed, ext, nil
		}
	}

	return "", "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mtype.String())
}

// IsDataURI reports whether s holds an inline encoded image rather than a URL
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}
