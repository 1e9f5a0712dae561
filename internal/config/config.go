// Package config wraps engine.Config behind a mutex-guarded store so the
// HTTP adapter can read and patch tuning values concurrently with search
// calls running on other engine instances.
package config

import (
	"sync"

	"github.com/nndbnb/unbounded-gomoku/internal/engine"
)

// Store holds one live Config, safe for concurrent Get/Update.
type Store struct {
	mu  sync.RWMutex
	cfg engine.Config
}

// NewStore returns a Store seeded with engine.DefaultConfig().
func NewStore() *Store {
	return &Store{cfg: engine.DefaultConfig()}
}

// Get returns a copy of the current config.
func (s *Store) Get() engine.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update replaces the current config wholesale.
func (s *Store) Update(cfg engine.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Patch applies fn to the stored config in place under the write lock and
// returns a copy of the result, for partial updates that only touch a few
// fields.
func (s *Store) Patch(fn func(*engine.Config)) engine.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.cfg)
	return s.cfg
}
