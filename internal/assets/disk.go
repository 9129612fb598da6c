package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DiskStore keeps objects in a local directory. Used for development, where the
// directory is served statically.
type DiskStore struct {
	dir       string
	publicURL string
}

func NewDiskStore(dir, publicBaseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &DiskStore{dir: dir, publicURL: publicBaseURL}, nil
}

func (s *DiskStore) Put(ctx context.Context, key string, body []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if key == "" || filepath.Base(key) != key {
		return "", fmt.Errorf("%w: invalid key %q", ErrUnavailable, key)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return joinURL(s.publicURL, key), nil
}
