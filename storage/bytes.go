package storage

import (
	"bytes"
	"context"
	"io"
)

// CreateBytes stores data at a new path. See Storage.Create.
func CreateBytes(ctx context.Context, s Storage, path string, data []byte) error {
	return s.Create(ctx, path, bytes.NewReader(data))
}

// UploadBytes stores data at path, replacing any existing object.
func UploadBytes(ctx context.Context, s Storage, path string, data []byte) error {
	return s.Upload(ctx, path, bytes.NewReader(data))
}

// ReadBytes retrieves the full object at path.
func ReadBytes(ctx context.Context, s Storage, path string) ([]byte, error) {
	rc, err := s.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck // read-only
	return io.ReadAll(rc)
}
