package file

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

var fileCols = []string{"id", "path", "name", "size", "storage_type", "is_private", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewRepository(mock)
}

func rowFor(f File) *pgxmock.Rows {
	return pgxmock.NewRows(fileCols).
		AddRow(f.ID, f.Path, f.Name, f.Size, f.StorageType, f.IsPrivate, f.CreatedAt, f.UpdatedAt)
}

func TestRepositoryCreate(t *testing.T) {
	mock, repo := newMockRepo(t)

	f := New("/var/files/photo-0191.png", "photo.png", 10, "local")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO files`)).
		WithArgs(f.ID, f.Path, f.Name, f.Size, f.StorageType, f.IsPrivate, f.CreatedAt, f.UpdatedAt).
		WillReturnRows(rowFor(f))

	created, err := repo.Create(context.Background(), f)
	require.NoError(t, err)
	require.Equal(t, f, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByID(t *testing.T) {
	mock, repo := newMockRepo(t)

	f := New("/var/files/doc-0191.pdf", "doc.pdf", 42, "local")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, path, name, size, storage_type, is_private, created_at, updated_at FROM files WHERE id = $1`)).
		WithArgs(f.ID).
		WillReturnRows(rowFor(f))

	got, err := repo.GetByID(context.Background(), f.ID)
	require.NoError(t, err)
	require.Equal(t, f, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDDoesNotFilterPrivate(t *testing.T) {
	mock, repo := newMockRepo(t)

	f := New("/var/files/secret-0191.bin", "secret.bin", 1, "local")
	f.IsPrivate = true
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WithArgs(f.ID).
		WillReturnRows(rowFor(f))

	got, err := repo.GetByID(context.Background(), f.ID)
	require.NoError(t, err)
	require.True(t, got.IsPrivate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryList(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now().UTC()
	newer := File{ID: "b", Path: "/b", Name: "b.png", Size: 2, StorageType: "local", CreatedAt: now, UpdatedAt: now}
	older := File{ID: "a", Path: "/a", Name: "a.png", Size: 1, StorageType: "local", CreatedAt: now.Add(-time.Minute), UpdatedAt: now.Add(-time.Minute)}

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE is_private = FALSE`)).
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows(fileCols).
			AddRow(newer.ID, newer.Path, newer.Name, newer.Size, newer.StorageType, newer.IsPrivate, newer.CreatedAt, newer.UpdatedAt).
			AddRow(older.ID, older.Path, older.Name, older.Size, older.StorageType, older.IsPrivate, older.CreatedAt, older.UpdatedAt))

	files, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, []File{newer, older}, files)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListError(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WithArgs(10).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background(), 10)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteByID(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM files WHERE id = $1 AND is_private = FALSE`)).
		WithArgs("some-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	deleted, err := repo.DeleteByID(context.Background(), "some-id")
	require.NoError(t, err)
	require.True(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteByIDNoRow(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM files`)).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := repo.DeleteByID(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}
