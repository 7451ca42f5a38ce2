package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sohwakmo/cucumbermarket-backend/config"
)

// Upload folders
const (
	FolderProduct = "images/product"
	FolderMypage  = "images/mypage"
)

// MaxFileSize is the largest accepted upload (10MB).
const MaxFileSize int64 = 10 << 20

var AllowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

var (
	ErrFileTooLarge       = errors.New("file too large")
	ErrContentTypeInvalid = errors.New("content type not allowed")
)

// Storage persists uploaded files and returns the URL they are served from.
type Storage interface {
	Save(ctx context.Context, folder, filename string, content io.Reader, contentType string) (string, error)
}

// New builds the storage selected by cfg.Storage.Driver.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Driver {
	case "", "local":
		return NewLocalStorage(cfg.Storage.LocalRoot), nil
	case "s3":
		return NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// ObjectKey returns folder/<uuid><ext> for an uploaded filename.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(folder, uuid.New().String()+ext)
}

// ValidateFileSize validates the file size
func ValidateFileSize(size int64, maxSize int64) error {
	if size > maxSize {
		return fmt.Errorf("%w: maximum allowed size is %d bytes", ErrFileTooLarge, maxSize)
	}
	return nil
}

// ValidateContentType validates the content type
func ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrContentTypeInvalid, contentType)
}
