package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"docwizard-backend/internal/analysis"
)

// Store is an in-memory session store with a sliding TTL. Expired sessions
// are dropped lazily on access. All mutation happens through Store methods
// so callers never share a *Session across goroutines.
type Store struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]*Session

	now func() time.Time
}

// NewStore creates a Store with the given idle TTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		ttl:  ttl,
		data: make(map[string]*Session),
		now:  time.Now,
	}
}

// Create registers a fresh session and returns its ID.
func (s *Store) Create() string {
	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sess.ID] = sess
	return sess.ID
}

// Get returns a snapshot of the session, or false if it is unknown or
// expired.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.live(id)
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// SetDocType records the chosen document type and clears downstream state,
// since analysis and enhancement are only valid for the type they ran
// against.
func (s *Store) SetDocType(id, docType string) bool {
	return s.mutate(id, func(sess *Session) {
		if sess.DocType != docType {
			sess.FileInfo = nil
			sess.Content = ""
			sess.Analysis = nil
			sess.Enhanced = nil
		}
		sess.DocType = docType
	})
}

// SetDocument records the document selected for the wizard run along with
// its extracted text, invalidating any prior analysis.
func (s *Store) SetDocument(id string, info FileInfo, content string) bool {
	return s.mutate(id, func(sess *Session) {
		sess.FileInfo = &info
		sess.Content = content
		sess.Analysis = nil
		sess.Enhanced = nil
	})
}

// SetAnalysis stores the analysis result for the current document.
func (s *Store) SetAnalysis(id string, res analysis.Result) bool {
	return s.mutate(id, func(sess *Session) {
		sess.Analysis = &res
		sess.Enhanced = nil
	})
}

// SetEnhanced stores the enhancement step output.
func (s *Store) SetEnhanced(id string, enh Enhancement) bool {
	return s.mutate(id, func(sess *Session) {
		sess.Enhanced = &enh
	})
}

// Reset clears wizard progress but keeps the session alive, matching the
// start-over action in the UI.
func (s *Store) Reset(id string) bool {
	return s.mutate(id, func(sess *Session) {
		sess.DocType = ""
		sess.FileInfo = nil
		sess.Content = ""
		sess.Analysis = nil
		sess.Enhanced = nil
	})
}

// mutate applies fn to a live session under the write lock and slides its
// expiry. It reports whether the session existed.
func (s *Store) mutate(id string, fn func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.live(id)
	if !ok {
		return false
	}
	fn(sess)
	sess.ExpiresAt = s.now().Add(s.ttl)
	return true
}

// live must be called with s.mu held. It evicts the session if expired.
func (s *Store) live(id string) (*Session, bool) {
	sess, ok := s.data[id]
	if !ok {
		return nil, false
	}
	if s.now().After(sess.ExpiresAt) {
		delete(s.data, id)
		return nil, false
	}
	return sess, true
}
