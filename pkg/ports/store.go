package ports

import (
	"context"

	"github.com/btkit/btdiff/pkg/domain"
)

// ResultStore caches DiffResults keyed by an opaque identifier.
// Caching across comparisons is the orchestrating layer's concern, never
// the comparator's: the core stays free of process-wide state.
type ResultStore interface {
	// Save persists a result under the given key.
	Save(ctx context.Context, key string, result *domain.DiffResult) error

	// Load retrieves a result.
	// Returns domain.ErrResultNotFound if the key does not exist.
	Load(ctx context.Context, key string) (*domain.DiffResult, error)

	// Delete removes a result.
	Delete(ctx context.Context, key string) error
}
