package tokenstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store owns the current bearer credential. Presence of a credential is the
// only local signal of being authenticated; it says nothing about whether the
// remote service still accepts it.
type Store struct {
	mu      sync.RWMutex
	token   string
	backend Backend
}

// New creates a Store initialised from the backend so a restart does not
// force a new login.
func New(ctx context.Context, backend Backend) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("tokenstore.New: backend is required")
	}
	token, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("tokenstore.New load: %w", err)
	}
	return &Store{token: token, backend: backend}, nil
}

// Set stores the credential in memory and in the backend. The in-memory value
// is replaced even when persisting fails, so the current process keeps working.
func (s *Store) Set(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("tokenstore.Set: empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if err := s.backend.Save(ctx, token); err != nil {
		return fmt.Errorf("tokenstore.Set save: %w", err)
	}
	return nil
}

// Clear removes the credential from memory and the backend. Clearing an empty
// store is a no-op apart from the backend delete.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if err := s.backend.Delete(ctx); err != nil {
		log.Err(err).Msg("Failed to delete persisted credential")
		return fmt.Errorf("tokenstore.Clear delete: %w", err)
	}
	return nil
}

// IsPresent reports whether a credential is currently held.
func (s *Store) IsPresent() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the current credential.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}
