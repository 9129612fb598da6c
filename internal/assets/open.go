package assets

import (
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/config"
)

// Open builds the backend selected by ASSET_BACKEND. It returns a nil Store and no
// error when no backend is configured; uploads then fail as unavailable.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.AssetBackend {
	case config.AssetBackendS3:
		store, err := NewS3Store(S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PathStyle:     cfg.S3PathStyle,
			PublicRead:    cfg.S3PublicRead,
			PublicBaseURL: cfg.AssetPublicURL,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("asset store ready", "backend", "s3", "bucket", cfg.S3Bucket)
		return store, nil
	case config.AssetBackendDisk:
		publicURL := cfg.AssetPublicURL
		if publicURL == "" {
			publicURL = "http://localhost:" + cfg.Port + "/uploads"
		}
		store, err := NewDiskStore(cfg.AssetDir, publicURL)
		if err != nil {
			return nil, err
		}
		slog.Info("asset store ready", "backend", "disk", "dir", cfg.AssetDir)
		return store, nil
	case "":
		slog.Warn("no asset backend configured, image uploads will fail")
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrUnavailable, cfg.AssetBackend)
	}
}
