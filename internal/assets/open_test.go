package assets

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		store, err := Open(&config.Config{})
		require.NoError(t, err)
		assert.Nil(t, store)
	})

	t.Run("disk defaults public url", func(t *testing.T) {
		store, err := Open(&config.Config{AssetBackend: config.AssetBackendDisk, AssetDir: t.TempDir(), Port: "9090"})
		require.NoError(t, err)

		ref, err := store.Put(context.Background(), "before-1-abc.jpg", []byte("x"), "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9090/uploads/before-1-abc.jpg", ref)
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		_, err := Open(&config.Config{AssetBackend: config.AssetBackendS3, AssetPublicURL: "https://img.example.com"})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(&config.Config{AssetBackend: "ftp"})
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
