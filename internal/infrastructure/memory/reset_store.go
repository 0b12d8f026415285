// Package memory holds process-local stores used when no redis is configured.
package memory

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

type entry struct {
	token     string
	expiresAt time.Time
}

// ResetTokenStore is a single-instance ResetTokenStore. Pending tokens are
// lost on restart.
type ResetTokenStore struct {
	mu      sync.Mutex
	pending map[string]entry
	now     func() time.Time
}

func NewResetTokenStore() *ResetTokenStore {
	return &ResetTokenStore{pending: map[string]entry{}, now: time.Now}
}

func (s *ResetTokenStore) Save(_ context.Context, email, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[email] = entry{token: token, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *ResetTokenStore) Consume(_ context.Context, email, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.pending[email]
	if !ok {
		return false, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.pending, email)
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(e.token), []byte(token)) != 1 {
		return false, nil
	}
	delete(s.pending, email)
	return true, nil
}

// Sweep drops expired tokens and returns how many it removed.
func (s *ResetTokenStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for email, e := range s.pending {
		if !now.Before(e.expiresAt) {
			delete(s.pending, email)
			removed++
		}
	}
	return removed
}
