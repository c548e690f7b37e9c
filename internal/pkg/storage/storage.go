package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrInvalidPath = errors.New("invalid file path")

type FileStorage interface {
	// Upload stores file under path and returns the cleaned key.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// GetURL returns a URL the file can be fetched from. expiry is ignored by
	// backends that only serve public files.
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}
