package engine

import "testing"

func newTestGenerator(winLength int) *MoveGenerator {
	e := NewEvaluator(winLength, 5000)
	return NewMoveGenerator(e, winLength, 2, 30)
}

func TestCheckImmediateWinFindsCompletingCell(t *testing.T) {
	g := newTestGenerator(5)
	b := NewBoard(5)
	for x := 0; x < 4; x++ {
		b.MakeMove(x, 0, X)
	}
	move, ok := g.CheckImmediateWin(b, X)
	if !ok {
		t.Fatalf("expected an immediate win to be found")
	}
	if !(move.X == 4 && move.Y == 0) && !(move.X == -1 && move.Y == 0) {
		t.Fatalf("unexpected winning move: %+v", move)
	}
}

func TestCheckImmediateWinFalseWithoutFourInARow(t *testing.T) {
	g := newTestGenerator(5)
	b := NewBoard(5)
	for x := 0; x < 3; x++ {
		b.MakeMove(x, 0, X)
	}
	if _, ok := g.CheckImmediateWin(b, X); ok {
		t.Fatalf("expected no immediate win with only 3 in a row")
	}
}

func TestCheckImmediateBlockMirrorsOpponentWin(t *testing.T) {
	g := newTestGenerator(5)
	b := NewBoard(5)
	for x := 0; x < 4; x++ {
		b.MakeMove(x, 0, O)
	}
	move, ok := g.CheckImmediateBlock(b, X)
	if !ok {
		t.Fatalf("expected a block move to be found")
	}
	if move.Score != intMax-1 {
		t.Fatalf("expected block score %d, got %d", intMax-1, move.Score)
	}
}

func TestCheckDangerousThreatDisabledBelowFour(t *testing.T) {
	g := newTestGenerator(3)
	b := NewBoard(3)
	b.MakeMove(0, 0, O)
	b.MakeMove(1, 0, O)
	if _, ok := g.CheckDangerousThreat(b, X); ok {
		t.Fatalf("expected dangerous threat detection to be disabled for win length < 4")
	}
}

func TestCheckDangerousThreatFindsOpenThree(t *testing.T) {
	g := newTestGenerator(5)
	b := NewBoard(5)
	b.MakeMove(1, 0, O)
	b.MakeMove(2, 0, O)
	b.MakeMove(3, 0, O)
	move, ok := g.CheckDangerousThreat(b, X)
	if !ok {
		t.Fatalf("expected a dangerous threat to be found for an open-3")
	}
	if move.X != 0 && move.X != 4 {
		t.Fatalf("unexpected threat-blocking move: %+v", move)
	}
}

func TestGenerateRadiusCandidatesOnEmptyBoard(t *testing.T) {
	g := newTestGenerator(5)
	b := NewBoard(5)
	positions := g.GenerateRadiusCandidates(b)
	if len(positions) != 1 || positions[0] != (Position{0, 0}) {
		t.Fatalf("expected only (0,0) on an empty board, got %+v", positions)
	}
}

func TestGenerateCandidatesPrioritizesImmediateWin(t *testing.T) {
	g := newTestGenerator(5)
	b := NewBoard(5)
	for x := 0; x < 4; x++ {
		b.MakeMove(x, 0, X)
	}
	moves := g.GenerateCandidates(b, X)
	if len(moves) != 1 {
		t.Fatalf("expected the win shortcut to short-circuit to a single move, got %d", len(moves))
	}
}

func TestGenerateCandidatesStaysWithinTopK(t *testing.T) {
	g := newTestGenerator(5)
	g.topK = 5
	b := NewBoard(5)
	b.MakeMove(0, 0, X)
	b.MakeMove(10, 10, O)
	moves := g.GenerateCandidates(b, X)
	if len(moves) > g.topK {
		t.Fatalf("expected at most %d candidates, got %d", g.topK, len(moves))
	}
}
