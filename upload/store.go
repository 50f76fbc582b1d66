// Package upload stores property images behind a small driver interface so
// deployments can choose local disk or an S3-compatible bucket.
package upload

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound signals that no stored file exists for the requested name.
var ErrNotFound = errors.New("upload: not found")

// Store persists uploaded files by name.
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) error
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
}
