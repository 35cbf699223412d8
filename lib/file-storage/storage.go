package filestorage

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Read when the object does not exist.
var ErrNotFound = errors.New("file not found")

// Provider stores blobs under opaque paths of the form folder/name.
type Provider interface {
	Store(ctx context.Context, folder, fileName string, body []byte, contentType string) (path string, err error)
	Exists(ctx context.Context, path string) (bool, error)
	Read(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

var Instance Provider
