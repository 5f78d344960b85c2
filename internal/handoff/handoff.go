// Package handoff carries the completed comparison input from the wizard to
// the results view, keyed by the comparison uuid.
package handoff

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL bounds how long a handed-off comparison stays readable.
const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned when a key is missing or expired.
var ErrNotFound = errors.New("handoff key not found")

// Store is a string key/value store with expiry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
