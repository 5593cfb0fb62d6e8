// Package file manages uploaded-file metadata and the upload, retrieval,
// list and delete pipelines built on top of a storage backend.
package file

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// File is the metadata record for one stored file. Path is meaningful only to
// the backend named by StorageType. Records are immutable after creation;
// UpdatedAt exists for schema completeness and is never touched afterwards.
type File struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	StorageType string    `json:"storage_type"`
	IsPrivate   bool      `json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PublicFile is the reduced projection returned by list endpoints; it omits
// the internal storage path.
type PublicFile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	StorageType string    `json:"storage_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Public returns the reduced view of f.
func (f File) Public() PublicFile {
	return PublicFile{
		ID:          f.ID,
		Name:        f.Name,
		Size:        f.Size,
		StorageType: f.StorageType,
		CreatedAt:   f.CreatedAt,
	}
}

// New builds a record for a freshly stored file. The id is a UUIDv7, so ids
// sort roughly by creation time without any coordination between writers.
func New(path, name string, size int64, storageType string) File {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	now := time.Now().UTC()
	return File{
		ID:          id.String(),
		Path:        path,
		Name:        name,
		Size:        size,
		StorageType: storageType,
		IsPrivate:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ErrNotFound is returned when a record does not exist (or, on read/delete
// paths, when it is private and therefore unreachable).
var ErrNotFound = errors.New("file not found")

// DB is the subset of *pgxpool.Pool the repository uses. Narrowing the
// dependency keeps the repository testable with pgxmock.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository handles all file metadata database operations.
type Repository struct {
	db DB
}

// NewRepository creates a Repository backed by db.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

const fileColumns = "id, path, name, size, storage_type, is_private, created_at, updated_at"

// Create inserts a fully populated record and returns the row as persisted.
func (r *Repository) Create(ctx context.Context, f File) (File, error) {
	var out File
	err := r.db.QueryRow(ctx,
		`INSERT INTO files (id, path, name, size, storage_type, is_private, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+fileColumns,
		f.ID, f.Path, f.Name, f.Size, f.StorageType, f.IsPrivate, f.CreatedAt, f.UpdatedAt,
	).Scan(&out.ID, &out.Path, &out.Name, &out.Size, &out.StorageType, &out.IsPrivate, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return File{}, fmt.Errorf("create file record: %w", err)
	}
	return out, nil
}

// GetByID fetches a record by id. It does not filter on visibility; read and
// delete pipelines apply the is_private check themselves.
func (r *Repository) GetByID(ctx context.Context, id string) (File, error) {
	var f File
	err := r.db.QueryRow(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = $1`,
		id,
	).Scan(&f.ID, &f.Path, &f.Name, &f.Size, &f.StorageType, &f.IsPrivate, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return File{}, ErrNotFound
	}
	if err != nil {
		return File{}, fmt.Errorf("get file by id: %w", err)
	}
	return f, nil
}

// List returns up to limit public records, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]File, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+fileColumns+` FROM files
		 WHERE is_private = FALSE
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.Path, &f.Name, &f.Size, &f.StorageType, &f.IsPrivate, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// DeleteByID removes a public record and reports whether a row was removed,
// letting callers distinguish not-found (or private) from success.
func (r *Repository) DeleteByID(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM files WHERE id = $1 AND is_private = FALSE`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("delete file by id: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
