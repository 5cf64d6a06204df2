// Package metadata is the plain key/value store behind session persistence,
// vault parameters and the insecure credential fallback.
package metadata

import (
	"context"
)

// Batch is a set of writes applied atomically by Repository.Apply.
type Batch struct {
	Set    map[string][]byte
	Delete []string
}

// Repository stores opaque blobs by key. Get of a missing key returns
// (nil, nil); a key stored with an empty value reads back as a non-nil
// empty slice.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
	// Apply commits every write in b or none of them.
	Apply(ctx context.Context, b Batch) error
}
