package file

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/filedrop/service/internal/storage"
)

// Pipeline failure sentinels. The handler layer maps these onto HTTP statuses
// and wire-level error messages.
var (
	// ErrTooLarge is returned when an upload exceeds the configured maximum.
	ErrTooLarge = errors.New("file too large")
	// ErrTypeNotAllowed is returned when the inferred MIME type is outside
	// the configured allow-list.
	ErrTypeNotAllowed = errors.New("file type not allowed")
	// ErrStorage marks a storage backend fault (write on upload, delete on
	// removal). Fetch faults are deliberately folded into ErrNotFound.
	ErrStorage = errors.New("storage backend error")
	// ErrMetadata marks a metadata store fault.
	ErrMetadata = errors.New("metadata store error")
)

// Repo is the metadata store as consumed by the service.
type Repo interface {
	Create(ctx context.Context, f File) (File, error)
	GetByID(ctx context.Context, id string) (File, error)
	List(ctx context.Context, limit int) ([]File, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// Service orchestrates the upload, retrieval, list and delete pipelines over
// a storage backend and the metadata repository. Storage writes always happen
// before metadata writes; the metadata row is the durability commit point.
type Service struct {
	repo    Repo
	backend storage.Backend
	maxSize int64
	allowed []string
	log     *zap.Logger
}

// NewService creates a Service. allowedTypes is the parsed MIME allow-list;
// a "*" entry admits every type.
func NewService(repo Repo, backend storage.Backend, maxSize int64, allowedTypes []string, log *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		backend: backend,
		maxSize: maxSize,
		allowed: allowedTypes,
		log:     log,
	}
}

// Upload validates the payload, writes it to the backend, then records the
// metadata row. A failed backend write creates no row. A backend write whose
// metadata insert fails leaves an orphaned object behind; no compensating
// delete is attempted, the orphan path is logged for operators instead.
func (s *Service) Upload(ctx context.Context, filename string, data []byte) (File, error) {
	size := int64(len(data))
	if size > s.maxSize {
		return File{}, ErrTooLarge
	}

	if !s.typeAllowed(filename) {
		return File{}, ErrTypeNotAllowed
	}

	path, err := s.backend.Store(ctx, filename, data)
	if err != nil {
		s.log.Error("storage write failed", zap.String("filename", filename), zap.Error(err))
		return File{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	created, err := s.repo.Create(ctx, New(path, filename, size, s.backend.Type()))
	if err != nil {
		s.log.Error("metadata insert failed, stored object is orphaned",
			zap.String("path", path), zap.Error(err))
		return File{}, fmt.Errorf("%w: %v", ErrMetadata, err)
	}

	return created, nil
}

// Get resolves a record by id and fetches its bytes from the owning backend.
// Missing rows, private rows and backend fetch failures all collapse to
// ErrNotFound: the public API does not distinguish a missing object from a
// backend read fault.
func (s *Service) Get(ctx context.Context, id string) (File, []byte, error) {
	f, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return File{}, nil, ErrNotFound
	}
	if err != nil {
		return File{}, nil, fmt.Errorf("%w: %v", ErrMetadata, err)
	}
	if f.IsPrivate {
		return File{}, nil, ErrNotFound
	}

	data, err := s.backend.Fetch(ctx, f.Path)
	if err != nil {
		s.log.Error("backend fetch failed", zap.String("id", id), zap.String("path", f.Path), zap.Error(err))
		return File{}, nil, ErrNotFound
	}

	return f, data, nil
}

// List returns up to limit public records, newest first, in their reduced
// public projection. The limit is clamped to 500; non-positive values return
// nothing, matching LIMIT semantics.
func (s *Service) List(ctx context.Context, limit int) ([]PublicFile, error) {
	if limit > 500 {
		limit = 500
	}
	if limit < 0 {
		limit = 0
	}

	files, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadata, err)
	}

	out := make([]PublicFile, 0, len(files))
	for _, f := range files {
		out = append(out, f.Public())
	}
	return out, nil
}

// Delete removes the stored object first, then the metadata row. If the row
// vanishes concurrently the call reports ErrNotFound even though the object
// is already gone; there is no transaction spanning both stores.
func (s *Service) Delete(ctx context.Context, id string) error {
	f, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMetadata, err)
	}
	if f.IsPrivate {
		return ErrNotFound
	}

	if err := s.backend.Delete(ctx, f.Path); err != nil {
		s.log.Error("backend delete failed", zap.String("id", id), zap.String("path", f.Path), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMetadata, err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// ContentType infers the response content type for a record from the
// extension of its stored path.
func (s *Service) ContentType(f File) string {
	return storage.MimeType(f.Path)
}

func (s *Service) typeAllowed(filename string) bool {
	for _, t := range s.allowed {
		if t == "*" {
			return true
		}
	}
	mt := storage.MimeType(filename)
	for _, t := range s.allowed {
		if t == mt {
			return true
		}
	}
	return false
}
