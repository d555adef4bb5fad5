package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/Krishan098/fo/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// FileStore keeps the original uploaded bytes so the download endpoint can
// serve them back. Keyed by contract id.
type FileStore interface {
	Save(ctx context.Context, contractID, filename string, data []byte) error
	Get(ctx context.Context, contractID string) ([]byte, error)
	Delete(ctx context.Context, contractID string) error
}

// MinioFileStore stores uploads in an object storage bucket.
type MinioFileStore struct {
	client *minio.Client
	bucket string
}

func NewMinioFileStore(cfg *config.MinioConfig) (*MinioFileStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioFileStore{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *MinioFileStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (s *MinioFileStore) Save(ctx context.Context, contractID, filename string, data []byte) error {
	objectName := objectNameFor(contractID)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/pdf",
		UserMetadata: map[string]string{
			"filename": filename,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

func (s *MinioFileStore) Get(ctx context.Context, contractID string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectNameFor(contractID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *MinioFileStore) Delete(ctx context.Context, contractID string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectNameFor(contractID), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func objectNameFor(contractID string) string {
	return fmt.Sprintf("contracts/%s.pdf", contractID)
}
