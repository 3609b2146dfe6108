package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"go.uber.org/zap"
)

// AzureBlobStorage implements Storage on Azure Blob Storage.
type AzureBlobStorage struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewAzureBlobStorage creates a new Azure Blob Storage instance
func NewAzureBlobStorage(connectionString, containerName string, logger *zap.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	// Ensure container exists
	_, err = client.CreateContainer(context.Background(), containerName, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	logger.Info("Azure Blob Storage initialized",
		zap.String("container", containerName),
	)

	return &AzureBlobStorage{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// Upload streams a contract artifact to the given blob path.
func (s *AzureBlobStorage) Upload(ctx context.Context, storagePath string, contentType string, data io.Reader) (int64, error) {
	if err := validateStoragePath(storagePath); err != nil {
		return 0, err
	}

	uploadOptions := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	// Wrap data in counting reader to track size
	reader := &countingReader{r: data}

	_, err := s.client.UploadStream(ctx, s.containerName, storagePath, reader, uploadOptions)
	if err != nil {
		return 0, fmt.Errorf("failed to upload blob: %w", err)
	}

	s.logger.Info("Contract artifact uploaded",
		zap.String("blobName", storagePath),
		zap.String("container", s.containerName),
		zap.String("contentType", contentType),
		zap.Int64("size", reader.count),
	)

	return reader.count, nil
}

// countingReader wraps an io.Reader and counts the number of bytes read
type countingReader struct {
	r     io.Reader
	count int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.count += int64(n)
	return n, err
}

// Download streams a contract artifact from Azure Blob Storage.
func (s *AzureBlobStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.containerName, storagePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}

	return resp.Body, nil
}

// Delete removes a contract artifact from Azure Blob Storage.
func (s *AzureBlobStorage) Delete(ctx context.Context, storagePath string) error {
	_, err := s.client.DeleteBlob(ctx, s.containerName, storagePath, nil)
	if err != nil {
		// Check if blob doesn't exist (already deleted)
		if strings.Contains(err.Error(), "BlobNotFound") {
			s.logger.Debug("Blob already deleted or not found",
				zap.String("blobName", storagePath),
				zap.String("container", s.containerName),
			)
			return nil
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	s.logger.Info("Contract artifact deleted",
		zap.String("blobName", storagePath),
		zap.String("container", s.containerName),
	)

	return nil
}
