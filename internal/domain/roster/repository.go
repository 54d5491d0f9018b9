package roster

import "context"

// Repository describes roster lookups needed by the resolver. Implementations
// are read-only after construction.
type Repository interface {
	// Names returns every canonical name in a stable order.
	Names(ctx context.Context) ([]string, error)
	// GetByName returns the entry for an exact canonical name.
	GetByName(ctx context.Context, name string) (Entry, bool, error)
}
