// Package session guards one board+engine pair behind a mutex for the
// HTTP adapter, so concurrent requests against the same game serialize at
// the boundary rather than inside the core (which is never made
// concurrency-safe itself).
package session

import (
	"sync"

	"github.com/nndbnb/unbounded-gomoku/internal/engine"
)

// Session owns one live game: a board and the engine instance searching
// it. ToMove tracks whose turn it is; the core itself has no notion of
// turn order, only of who is asked to move.
type Session struct {
	mu        sync.Mutex
	board     *engine.Board
	eng       *engine.Engine
	winLength int
	toMove    engine.Occupant
}

// New starts a fresh session from cfg.
func New(cfg engine.Config) *Session {
	return &Session{
		board:     engine.NewBoard(cfg.WinLength),
		eng:       engine.NewEngineWithConfig(cfg),
		winLength: cfg.WinLength,
		toMove:    engine.X,
	}
}

// Reset discards the current board and starts over with cfg, building a
// fresh engine (and with it a fresh, empty transposition table).
func (s *Session) Reset(cfg engine.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = engine.NewBoard(cfg.WinLength)
	s.winLength = cfg.WinLength
	s.toMove = engine.X
	s.eng = engine.NewEngineWithConfig(cfg)
}

// ApplyMove places who at (x, y) if legal, advances ToMove, and reports
// whether the move was accepted.
func (s *Session) ApplyMove(x, y int, who engine.Occupant) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.board.MakeMove(x, y, who) {
		return false
	}
	s.toMove = who.Opponent()
	return true
}

// FindAndApplyAIMove runs the engine for who and plays its returned move,
// returning the move and search stats.
func (s *Session) FindAndApplyAIMove(who engine.Occupant, timeMs int) (engine.Move, engine.SearchStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	move := s.eng.FindBestMove(s.board, who, timeMs)
	stats := s.eng.Stats()
	if !s.board.MakeMove(move.X, move.Y, who) {
		return move, stats, false
	}
	s.toMove = who.Opponent()
	return move, stats, true
}

// Snapshot runs fn with the session locked, for read-only access to the
// board (serialization, terminal checks) from the HTTP handlers.
func (s *Session) Snapshot(fn func(board *engine.Board, toMove engine.Occupant)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.board, s.toMove)
}

// Engine exposes the underlying engine for TT persistence at shutdown.
// Must only be called while no search is in flight.
func (s *Session) Engine() *engine.Engine { return s.eng }

// WinLength reports the board's configured win length.
func (s *Session) WinLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winLength
}
