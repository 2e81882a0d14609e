package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	appconfig "github.com/minjk/moamall-backend/config"
	"github.com/minjk/moamall-backend/pkg/logger"
)

var (
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrFileTooLarge           = errors.New("file exceeds the size limit")
)

const (
	swatchPrefix  = "swatches/"
	maxSwatchSize = 5 << 20 // 5 MiB
)

var allowedImageTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

// SwatchStorage stores attribute swatch images (color chips, texture
// thumbnails) and hands out their public URLs.
type SwatchStorage interface {
	Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	PresignUpload(ctx context.Context, contentType string, expiry time.Duration) (key string, url string, err error)
}

type s3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	baseURL string
}

func NewS3Storage(ctx context.Context, cfg *appconfig.S3Config) (SwatchStorage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &s3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}, nil
}

func swatchKey(contentType string) (string, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}
	return swatchPrefix + uuid.New().String() + ext, nil
}

func (s *s3Storage) Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	if size > maxSwatchSize {
		return "", ErrFileTooLarge
	}
	key, err := swatchKey(contentType)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          reader,
		ContentLength: &size,
		ContentType:   &contentType,
	})
	if err != nil {
		logger.Error("Failed to upload swatch image", err, map[string]interface{}{
			"key": key,
		})
		return "", err
	}

	logger.Info("Uploaded swatch image", map[string]interface{}{
		"key":  key,
		"size": size,
	})
	return key, nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, swatchPrefix) {
		return fmt.Errorf("key %q is outside the swatch prefix", key)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		logger.Error("Failed to delete swatch image", err, map[string]interface{}{
			"key": key,
		})
	}
	return err
}

func (s *s3Storage) PublicURL(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

// PresignUpload returns a key and a presigned PUT URL so admin frontends can
// push swatch images directly to the bucket.
func (s *s3Storage) PresignUpload(ctx context.Context, contentType string, expiry time.Duration) (string, string, error) {
	key, err := swatchKey(contentType)
	if err != nil {
		return "", "", err
	}

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", "", err
	}
	return key, req.URL, nil
}
