package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores documents in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu        sync.RWMutex
	byID      map[string]Document
	bySession map[string][]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:      make(map[string]Document),
		bySession: make(map[string][]Document),
	}
}

// Create stores the document.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[doc.ID] = doc
	r.bySession[doc.SessionID] = append(r.bySession[doc.SessionID], doc)
	return nil
}

// GetCurrentBySession returns the most recent document for a session.
func (r *MemoryRepo) GetCurrentBySession(ctx context.Context, sessionID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.bySession[sessionID]
	if len(docs) == 0 {
		return Document{}, ErrNotFound
	}
	latest := docs[0]
	for _, d := range docs[1:] {
		if d.CreatedAt.After(latest.CreatedAt) {
			latest = d
		}
	}
	return latest, nil
}

// ListBySession returns the session's documents ordered newest-first.
func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := append([]Document(nil), r.bySession[sessionID]...)
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

var _ Repo = (*MemoryRepo)(nil)
