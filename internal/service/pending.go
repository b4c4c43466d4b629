package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/grishakov/retail-platform/internal/models"
)

// PendingRegistration holds candidate user fields server-side until the OTP
// is verified. No user row exists before verification.
type PendingRegistration struct {
	Username     string
	Email        string
	PasswordHash string
	Role         models.Role
	Address      string
	Phone        string
	CreatedAt    time.Time
}

// PendingStore keys pending registrations by an opaque session token carried
// in a cookie. Entries are dropped on success or evicted lazily once stale;
// the OTP's own 5-minute window is what actually bounds the flow.
type PendingStore struct {
	mu      sync.Mutex
	entries map[string]PendingRegistration
	ttl     time.Duration
	now     func() time.Time
}

func NewPendingStore() *PendingStore {
	return &PendingStore{
		entries: make(map[string]PendingRegistration),
		ttl:     30 * time.Minute,
		now:     time.Now,
	}
}

func (s *PendingStore) Put(p PendingRegistration) string {
	token := uuid.NewString()
	p.CreatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictStale()
	s.entries[token] = p
	return token
}

func (s *PendingStore) Get(token string) (PendingRegistration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.entries[token]
	if !ok {
		return PendingRegistration{}, false
	}
	if s.now().Sub(p.CreatedAt) > s.ttl {
		delete(s.entries, token)
		return PendingRegistration{}, false
	}
	return p, true
}

func (s *PendingStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
}

func (s *PendingStore) evictStale() {
	cutoff := s.now().Add(-s.ttl)
	for k, v := range s.entries {
		if v.CreatedAt.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}
