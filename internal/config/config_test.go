package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "0.0.0.0", cfg.Host)
	require.Equal(t, "3000", cfg.Port)
	require.Equal(t, int64(52428800), cfg.MaxFileSize)
	require.Equal(t, StorageLocal, cfg.StorageType)
	require.Equal(t, []string{"*"}, cfg.AllowedFileTypes)
	require.True(t, cfg.AllowAllTypes())
	require.Empty(t, cfg.AuthToken)
	require.False(t, cfg.DisableUploadPage)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FILE_SERVER_MAX_FILE_SIZE", "1024")
	t.Setenv("FILE_SERVER_ALLOWED_FILE_TYPES", "image/png, image/jpeg")
	t.Setenv("FILE_SERVER_STORAGE_TYPE", "s3")
	t.Setenv("FILE_SERVER_AUTH_TOKEN", "s3cret")
	t.Setenv("FILE_SERVER_DISABLE_UPLOAD_PAGE", "true")
	t.Setenv("STORAGE_BUCKET", "files")

	cfg := Load()

	require.Equal(t, int64(1024), cfg.MaxFileSize)
	require.Equal(t, []string{"image/png", "image/jpeg"}, cfg.AllowedFileTypes)
	require.False(t, cfg.AllowAllTypes())
	require.Equal(t, StorageS3, cfg.StorageType)
	require.Equal(t, "s3cret", cfg.AuthToken)
	require.True(t, cfg.DisableUploadPage)
	require.Equal(t, "files", cfg.StorageBucket)
}

func TestLoadInvalidMaxSizeFallsBack(t *testing.T) {
	t.Setenv("FILE_SERVER_MAX_FILE_SIZE", "not-a-number")

	cfg := Load()
	require.Equal(t, int64(52428800), cfg.MaxFileSize)
}

func TestValidateLocalCreatesStoragePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "files")
	cfg := &Config{StorageType: StorageLocal, StoragePath: path}

	require.NoError(t, cfg.Validate())
	require.DirExists(t, path)
}

func TestValidateS3RequiresBucket(t *testing.T) {
	cfg := &Config{StorageType: StorageS3}
	require.Error(t, cfg.Validate())

	cfg.StorageBucket = "files"
	require.NoError(t, cfg.Validate())
}

func TestValidateUnknownStorageType(t *testing.T) {
	cfg := &Config{StorageType: "tape"}
	require.Error(t, cfg.Validate())
}
