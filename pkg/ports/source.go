package ports

import "context"

// ContentSource reads document content at a given revision.
// Implementations return domain.ErrContentNotFound (possibly wrapped) when
// the path does not exist at that revision.
type ContentSource interface {
	Read(ctx context.Context, path, revision string) ([]byte, error)
}
