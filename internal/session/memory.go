package session

import (
	"sync"

	"github.com/AnkitDash-code/Expensync/internal/models"
)

// MemoryStore is an in-process Store. It backs tests and any embedding
// that doesn't want the session to outlive the process.
type MemoryStore struct {
	mu      sync.RWMutex
	token   string
	profile *models.UserProfile
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryStore) Profile() (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil, nil
	}
	p := *s.profile
	return &p, nil
}

func (s *MemoryStore) SetSession(token string, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.profile = &profile
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.profile = nil
	return nil
}
