package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/config"
)

// Storage persists contract artifacts (signed PDFs and signature
// images) under caller-chosen paths. Paths are deterministic, e.g.
// contracts/<submissionID>/contract-v1.pdf, so corrections can place
// successor documents next to the originals.
type Storage interface {
	Upload(ctx context.Context, storagePath string, contentType string, data io.Reader) (int64, error)
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)
	Delete(ctx context.Context, storagePath string) error
}

// NewStorage creates a storage instance based on configuration.
// Local mode keeps files on the filesystem; azure mode stores them in
// Azure Blob Storage.
func NewStorage(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Mode {
	case "local":
		return NewLocalStorage(cfg.LocalBasePath)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// ContractPDFPath returns the storage path for a submission's contract.
// The revision counts corrections; the original contract is revision 1.
func ContractPDFPath(submissionID string, revision int) string {
	return fmt.Sprintf("contracts/%s/contract-v%d.pdf", submissionID, revision)
}

// SignaturePath returns the storage path for a submission's signature
// image.
func SignaturePath(submissionID string, imageType string) string {
	ext := ".png"
	if strings.EqualFold(imageType, "jpg") || strings.EqualFold(imageType, "jpeg") {
		ext = ".jpg"
	}
	return fmt.Sprintf("signatures/%s%s", submissionID, ext)
}

// LocalStorage implements Storage on the local filesystem.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Upload writes a file under the given storage path.
func (s *LocalStorage) Upload(ctx context.Context, storagePath string, contentType string, data io.Reader) (int64, error) {
	if err := validateStoragePath(storagePath); err != nil {
		return 0, err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(storagePath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath) // Cleanup on error
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	return size, nil
}

// Download opens a file from local storage.
func (s *LocalStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	if err := validateStoragePath(storagePath); err != nil {
		return nil, err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(storagePath))

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", storagePath)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes a file from local storage.
func (s *LocalStorage) Delete(ctx context.Context, storagePath string) error {
	if err := validateStoragePath(storagePath); err != nil {
		return err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(storagePath))

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// validateStoragePath rejects absolute paths and parent traversal so a
// crafted path cannot escape the base directory.
func validateStoragePath(storagePath string) error {
	if storagePath == "" || strings.HasPrefix(storagePath, "/") {
		return fmt.Errorf("invalid storage path: %q", storagePath)
	}
	for _, part := range strings.Split(storagePath, "/") {
		if part == ".." || part == "" {
			return fmt.Errorf("invalid storage path: %q", storagePath)
		}
	}
	return nil
}
