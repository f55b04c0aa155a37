package wellness

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a mutex-guarded in-memory session store with the
// same ownership and ordering semantics as the Postgres store. Used
// by tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	authors  map[string]string // user_id -> email, for public listings
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		authors:  make(map[string]string),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetNow overrides the clock. Test hook.
func (m *MemoryStore) SetNow(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// SetAuthor records the email shown for a user on public listings.
func (m *MemoryStore) SetAuthor(userID, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authors[userID] = email
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	s.ID = uuid.NewString()
	s.CreatedAt = now
	s.UpdatedAt = now
	if s.Status == "" {
		s.Status = StatusDraft
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}

	m.sessions[s.ID] = *s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id, ownerID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok || s.UserID != ownerID {
		return nil, ErrNotFound
	}

	out := s
	out.Tags = append([]string(nil), s.Tags...)
	return &out, nil
}

func (m *MemoryStore) Update(_ context.Context, id, ownerID string, f Fields) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.UserID != ownerID {
		return nil, ErrNotFound
	}

	if f.Tags == nil {
		f.Tags = []string{}
	}

	s.Title = f.Title
	s.Tags = append([]string(nil), f.Tags...)
	s.ResourceURL = f.ResourceURL
	s.Status = f.Status
	s.UpdatedAt = m.now()

	m.sessions[id] = s

	out := s
	return &out, nil
}

func (m *MemoryStore) ListPublic(_ context.Context, limit int) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = PublicPageSize
	}

	sessions := []Session{}
	for _, s := range m.sessions {
		if s.Status != StatusPublished {
			continue
		}
		s.Author = m.authors[s.UserID]
		sessions = append(sessions, s)
	}

	sortByUpdatedDesc(sessions)

	if len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (m *MemoryStore) ListOwned(_ context.Context, ownerID string) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := []Session{}
	for _, s := range m.sessions {
		if s.UserID == ownerID {
			sessions = append(sessions, s)
		}
	}

	sortByUpdatedDesc(sessions)
	return sessions, nil
}

func (m *MemoryStore) Delete(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.UserID != ownerID {
		return ErrNotFound
	}

	delete(m.sessions, id)
	return nil
}

func sortByUpdatedDesc(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
}
