package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3 stores objects in an S3-compatible bucket via the MinIO client. The
// locator it returns is "/uploads/<unique-name>", stored without the leading
// slash as the object key.
type S3 struct {
	client *minio.Client
	bucket string
}

// S3Config holds the connection settings for an S3-compatible object store.
// Endpoint is host:port (no scheme); Region may be empty for stores that
// ignore it.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// NewS3 creates the client and verifies the bucket is reachable, so that bad
// credentials or a missing bucket fail process startup instead of the first
// upload.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return &S3{client: client, bucket: cfg.Bucket}, nil
}

// Store puts data under a fresh uploads/ key with the content type inferred
// from the original filename attached to the object.
func (s *S3) Store(ctx context.Context, filename string, data []byte) (string, error) {
	key := "uploads/" + UniqueName(filename)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: MimeType(filename),
	})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}

	return "/" + key, nil
}

// Fetch reads the whole object addressed by path into memory.
func (s *S3) Fetch(ctx context.Context, path string) ([]byte, error) {
	key := strings.TrimPrefix(path, "/")

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read object %q: %w", key, err)
	}
	return data, nil
}

// Delete removes the object addressed by path from the bucket.
func (s *S3) Delete(ctx context.Context, path string) error {
	key := strings.TrimPrefix(path, "/")

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

// Type returns the backend tag recorded on file metadata.
func (s *S3) Type() string {
	return "s3"
}
