package engine

import "testing"

func newTestSolver(winLength int) *ThreatSolver {
	g := newTestGenerator(winLength)
	return NewThreatSolver(g, winLength)
}

func TestFindForcedWinReturnsImmediateWinDirectly(t *testing.T) {
	s := newTestSolver(5)
	b := NewBoard(5)
	for x := 0; x < 4; x++ {
		b.MakeMove(x, 0, X)
	}
	move, ok := s.FindForcedWin(b, X, 4)
	if !ok {
		t.Fatalf("expected a forced win to be found")
	}
	if !b.IsEmptyCell(move.X, move.Y) {
		t.Fatalf("expected returned move to be on an empty cell")
	}
}

func TestFindForcedWinRestoresBoard(t *testing.T) {
	s := newTestSolver(5)
	b := NewBoard(5)
	b.MakeMove(1, 0, X)
	b.MakeMove(2, 0, X)
	b.MakeMove(3, 0, X)
	before := b.Hash()
	beforeLen := len(b.History())

	s.FindForcedWin(b, X, 4)

	if b.Hash() != before {
		t.Fatalf("expected board hash unchanged after FindForcedWin, got %d want %d", b.Hash(), before)
	}
	if len(b.History()) != beforeLen {
		t.Fatalf("expected history length unchanged after FindForcedWin")
	}
}

func TestFindForcedWinFailsWithoutThreats(t *testing.T) {
	s := newTestSolver(5)
	b := NewBoard(5)
	b.MakeMove(0, 0, X)
	b.MakeMove(10, 10, O)
	if _, ok := s.FindForcedWin(b, X, 4); ok {
		t.Fatalf("expected no forced win from a single isolated stone")
	}
}

func TestFindForcedWinDoubleOpenThreeIsUnstoppable(t *testing.T) {
	// An open three with both extension cells empty on both sides creates
	// two simultaneous ways to reach an open four; the defender's single
	// reply cannot stop both, so this should resolve as a forced win.
	s := newTestSolver(5)
	b := NewBoard(5)
	b.MakeMove(2, 0, X)
	b.MakeMove(3, 0, X)
	b.MakeMove(4, 0, X)
	b.MakeMove(2, 2, X)
	b.MakeMove(3, 2, X)
	b.MakeMove(4, 2, X)

	_, ok := s.FindForcedWin(b, X, 4)
	if !ok {
		t.Fatalf("expected two independent open threes to force a win")
	}
}
