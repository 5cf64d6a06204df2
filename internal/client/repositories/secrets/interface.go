package secrets

import "context"

// Backend stores string secrets by key. Get reports absence with ok=false
// and a nil error.
type Backend interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Remove(ctx context.Context, key string) error
}
