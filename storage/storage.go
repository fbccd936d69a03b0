package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound is returned when no object exists at a path.
	ErrNotFound = errors.New("storage: not found")
	// ErrAlreadyExists is returned by Create when the path is taken.
	ErrAlreadyExists = errors.New("storage: already exists")
	// ErrInvalidPath is returned for empty, absolute or root-escaping paths.
	ErrInvalidPath = errors.New("storage: invalid path")
)

// Storage defines the interface for vault file operations.
type Storage interface {
	// Create writes data from reader to a new object at path. It fails with
	// ErrAlreadyExists, wrapped, when an object is already there.
	Create(ctx context.Context, path string, reader io.Reader) error

	// Upload writes data from reader to path, replacing any existing object.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Download returns a reader for the object at the given path.
	// The caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at the given path.
	// Returns nil if the object does not exist.
	Delete(ctx context.Context, path string) error

	// Exists checks whether an object exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns a URL for accessing the object at the given path.
	URL(ctx context.Context, path string) (string, error)
}
