package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/finnov/backend/internal/domain/shared"
	"github.com/finnov/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			AccessKey: "test-key",
			SecretKey: "test-secret",
		}
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:    "test-bucket",
			SecretKey: "test-secret",
		}
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:    "test-bucket",
			AccessKey: "test-key",
		}
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:            "test-bucket",
			AccessKey:         "test-key",
			SecretKey:         "test-secret",
			Region:            "us-east-1",
			Endpoint:          "http://localhost:9000",
			UsePathStyle:      true,
			PresignExpiration: 15 * time.Minute,
		}
		s, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, "test-bucket", s.GetBucket())
		assert.Equal(t, 15*time.Minute, s.presignExpiration)
	})

	t.Run("presign expiration defaults to 15 minutes", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:    "test-bucket",
			AccessKey: "test-key",
			SecretKey: "test-secret",
			Endpoint:  "localhost:9000",
		}
		s, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, s.presignExpiration)
	})

	t.Run("empty key rejected before any network call", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:    "test-bucket",
			AccessKey: "test-key",
			SecretKey: "test-secret",
			Endpoint:  "http://localhost:9000",
		}
		s, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)

		ctx := context.Background()
		assert.Error(t, s.Upload(ctx, "", strings.NewReader("x"), "application/pdf"))
		_, _, err = s.Download(ctx, "")
		assert.Error(t, err)
		assert.Error(t, s.DeleteObject(ctx, ""))
		_, err = s.ObjectExists(ctx, "")
		assert.Error(t, err)
		_, _, err = s.GenerateDownloadURL(ctx, "", 0)
		assert.Error(t, err)
	})
}

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("upload then download round trips", func(t *testing.T) {
		m := NewMemoryObjectStorage()

		err := m.Upload(ctx, "invoices/INV-2026-ABCDEFGH/a.pdf", strings.NewReader("pdf-bytes"), "application/pdf")
		require.NoError(t, err)

		rc, size, err := m.Download(ctx, "invoices/INV-2026-ABCDEFGH/a.pdf")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "pdf-bytes", string(data))
		assert.Equal(t, int64(len("pdf-bytes")), size)
	})

	t.Run("download of missing key is not found", func(t *testing.T) {
		m := NewMemoryObjectStorage()
		_, _, err := m.Download(ctx, "invoices/missing")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("exists and delete", func(t *testing.T) {
		m := NewMemoryObjectStorage()
		require.NoError(t, m.Upload(ctx, "k", strings.NewReader("v"), "text/plain"))

		ok, err := m.ObjectExists(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, m.DeleteObject(ctx, "k"))
		ok, err = m.ObjectExists(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)

		// deleting again is a no-op
		assert.NoError(t, m.DeleteObject(ctx, "k"))
		assert.Equal(t, 0, m.Len())
	})

	t.Run("download URL requires existing object", func(t *testing.T) {
		m := NewMemoryObjectStorage()
		_, _, err := m.GenerateDownloadURL(ctx, "nope", time.Minute)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		require.NoError(t, m.Upload(ctx, "yes", strings.NewReader("v"), "text/plain"))
		u, expiresAt, err := m.GenerateDownloadURL(ctx, "yes", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "memory://yes", u)
		assert.True(t, expiresAt.After(time.Now()))
	})
}
