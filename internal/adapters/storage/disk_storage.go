package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ruangkita/reservation-service/internal/domain/providers"
	apperrors "github.com/ruangkita/reservation-service/pkg/errors"
)

// contentTypeExtensions maps accepted image types to their file extension.
// The extension comes from the sniffed content type, never the upload name.
var contentTypeExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// DiskStorage implements the StorageProvider interface on the local
// filesystem. Objects are served back through the baseURL path prefix.
type DiskStorage struct {
	dir     string
	baseURL string
}

// NewDiskStorage creates a disk storage provider rooted at dir
func NewDiskStorage(dir, baseURL string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewInternalError("failed to create storage directory", err)
	}

	return &DiskStorage{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Store writes an object and returns its public URL
func (s *DiskStorage) Store(ctx context.Context, name string, contentType string, r io.Reader) (string, error) {
	ext, ok := contentTypeExtensions[contentType]
	if !ok {
		ext = filepath.Ext(name)
	}

	fileName := uuid.New().String() + ext
	filePath := filepath.Join(s.dir, fileName)

	f, err := os.Create(filePath)
	if err != nil {
		return "", apperrors.NewInternalError("failed to create file", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(filePath)
		return "", apperrors.NewInternalError("failed to write file", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(filePath)
		return "", apperrors.NewInternalError("failed to close file", err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, fileName), nil
}

// Remove deletes an object by its public URL. URLs outside this store's
// prefix and already-removed files are ignored.
func (s *DiskStorage) Remove(ctx context.Context, publicURL string) error {
	if !strings.HasPrefix(publicURL, s.baseURL+"/") {
		return nil
	}

	fileName := path.Base(publicURL)
	if fileName == "." || fileName == "/" || strings.Contains(fileName, "..") {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, fileName))
	if err != nil && !os.IsNotExist(err) {
		return apperrors.NewInternalError("failed to remove file", err)
	}

	return nil
}

var _ providers.StorageProvider = (*DiskStorage)(nil)
