package config

import (
	"testing"

	"github.com/nndbnb/unbounded-gomoku/internal/engine"
)

func TestNewStoreReturnsDefaults(t *testing.T) {
	s := NewStore()
	if s.Get().WinLength != 5 {
		t.Fatalf("expected default win length 5, got %d", s.Get().WinLength)
	}
}

func TestUpdateReplacesConfig(t *testing.T) {
	s := NewStore()
	cfg := s.Get()
	cfg.WinLength = 7
	s.Update(cfg)
	if s.Get().WinLength != 7 {
		t.Fatalf("expected updated win length 7, got %d", s.Get().WinLength)
	}
}

func TestPatchMutatesInPlace(t *testing.T) {
	s := NewStore()
	result := s.Patch(func(cfg *engine.Config) { cfg.MaxDepth = 20 })
	if result.MaxDepth != 20 {
		t.Fatalf("expected Patch result to reflect mutation, got %d", result.MaxDepth)
	}
	if s.Get().MaxDepth != 20 {
		t.Fatalf("expected stored config to reflect mutation, got %d", s.Get().MaxDepth)
	}
}
