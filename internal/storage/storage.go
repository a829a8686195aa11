package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sportaccessories/storefront/config"
)

var (
	ErrInvalidFileType = errors.New("file type is not allowed")
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
)

// allowedImageTypes maps accepted content types to the extension used for stored objects.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageStorage persists product images and returns the public URL of the stored object.
type ImageStorage interface {
	Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// ValidateImage checks the upload and returns the extension for its content type.
func ValidateImage(contentType string, size, maxSize int64) (string, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileType, contentType)
	}
	if size <= 0 || size > maxSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, maxSize)
	}
	return ext, nil
}

// New builds the backend selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (ImageStorage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.UploadDir, "/uploads")
	case "s3":
		return NewS3Storage(ctx, cfg.S3), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
