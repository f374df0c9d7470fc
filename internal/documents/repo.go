package documents

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Repo abstracts document persistence.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetCurrentBySession(ctx context.Context, sessionID string) (Document, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]Document, error)
}
