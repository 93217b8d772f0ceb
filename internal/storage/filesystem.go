package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore persists item images onto the local filesystem and serves them
// back under /uploads. It is intended for development and single-node
// deployments where an object storage service is not available.
type FileStore struct {
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Save writes the image under a fresh name derived from the original file's
// extension and returns the public /uploads path. Original filenames are
// never trusted; only the extension survives.
func (s *FileStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext, err := imageExt(filename)
	if err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	fullPath := filepath.Join(s.basePath, name)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return "/uploads/" + name, nil
}

// imageExt validates the file extension against the accepted image formats
// and returns it lowercased.
func imageExt(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpeg", ".jpg", ".png", ".gif", ".webp":
		return ext, nil
	}
	return "", errors.New("storage: images only")
}
