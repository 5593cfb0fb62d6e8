// Package storage provides durable byte storage behind a backend-agnostic
// interface. Two implementations exist: local disk and any S3-compatible
// object store (MinIO, Cloudflare R2, AWS S3). The backend is picked once at
// startup from configuration and never changes for the lifetime of the process.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Fetch when no object exists at the given path.
var ErrNotFound = errors.New("object not found")

// Backend is the interface every storage variant implements. The path strings
// it returns and accepts are opaque to callers: only the backend that produced
// a path can resolve it.
type Backend interface {
	// Store writes data durably under a fresh unique locator derived from
	// filename and returns that locator. It never overwrites an existing
	// object. Callers must not record metadata for a failed Store.
	Store(ctx context.Context, filename string, data []byte) (string, error)
	// Fetch reads the full content at path. Returns ErrNotFound if the
	// object is absent.
	Fetch(ctx context.Context, path string) ([]byte, error)
	// Delete removes the object at path. Best-effort: deleting a missing
	// object may or may not error depending on the variant.
	Delete(ctx context.Context, path string) error
	// Type reports the backend tag persisted on file records ("local"/"s3").
	Type() string
}

// UniqueName derives a collision-free storage name from an original filename.
// The original stem and extension are kept for readability; a UUIDv7 token in
// the middle guarantees uniqueness without any shared counter and keeps names
// roughly time-ordered.
func UniqueName(filename string) string {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filepath.Base(filename), ext)
	if stem == "" {
		stem = "file"
	}

	token, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the random source does; fall back to v4
		// rather than failing the upload.
		token = uuid.New()
	}

	if ext == "" {
		return fmt.Sprintf("%s-%s", stem, token)
	}
	return fmt.Sprintf("%s-%s%s", stem, token, ext)
}

// MimeType infers a content type from the extension of a path or filename.
// It never fails: unknown extensions map to application/octet-stream.
// Parameters such as charset are stripped so the result can be compared
// against configured allow-list entries.
func MimeType(path string) string {
	mt := mime.TypeByExtension(filepath.Ext(path))
	if mt == "" {
		return "application/octet-stream"
	}
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
