package storage

import (
	"context"
	"io"
)

// Storage is the object store holding archived CSV snapshots.
type Storage interface {
	Upload(ctx context.Context, key string, data io.Reader) error
	List(ctx context.Context, prefix string) ([]string, error)
}
