package engine

import "testing"

func newTestEngine(winLength int) *Engine {
	cfg := DefaultConfig()
	cfg.WinLength = winLength
	cfg.MaxDepth = 4
	cfg.TTSizeMB = 1
	return NewEngineWithConfig(cfg)
}

func TestFindBestMoveTakesImmediateWin(t *testing.T) {
	eng := newTestEngine(5)
	b := NewBoard(5)
	for x := 0; x < 4; x++ {
		b.MakeMove(x, 0, X)
	}
	move := eng.FindBestMove(b, X, 1000)
	if eng.Stats().DecisionType != DecisionImmediateWin {
		t.Fatalf("expected ImmediateWin decision, got %s", eng.Stats().DecisionType)
	}
	if !b.IsEmptyCell(move.X, move.Y) {
		t.Fatalf("expected move on an empty cell, got %+v", move)
	}
}

func TestFindBestMoveBlocksOpponentWin(t *testing.T) {
	eng := newTestEngine(5)
	b := NewBoard(5)
	for x := 0; x < 4; x++ {
		b.MakeMove(x, 0, O)
	}
	move := eng.FindBestMove(b, X, 1000)
	if eng.Stats().DecisionType != DecisionImmediateBlock {
		t.Fatalf("expected ImmediateBlock decision, got %s", eng.Stats().DecisionType)
	}
	if !(move.X == 4 || move.X == -1) || move.Y != 0 {
		t.Fatalf("unexpected block move: %+v", move)
	}
}

func TestFindBestMoveAlwaysReturnsLegalMove(t *testing.T) {
	eng := newTestEngine(5)
	b := NewBoard(5)
	b.MakeMove(0, 0, X)
	b.MakeMove(1, 1, O)
	b.MakeMove(2, 2, X)

	move := eng.FindBestMove(b, O, 200)
	if !b.IsEmptyCell(move.X, move.Y) {
		t.Fatalf("expected a legal move on a non-terminal board, got %+v", move)
	}
}

func TestFindBestMoveOnEmptyBoardPlaysOrigin(t *testing.T) {
	eng := newTestEngine(5)
	b := NewBoard(5)
	move := eng.FindBestMove(b, X, 200)
	if move.X != 0 || move.Y != 0 {
		t.Fatalf("expected first move on an empty board to be (0,0), got %+v", move)
	}
}

func TestClearTTResetsCount(t *testing.T) {
	eng := newTestEngine(5)
	b := NewBoard(5)
	b.MakeMove(0, 0, X)
	b.MakeMove(1, 1, O)
	eng.FindBestMove(b, X, 200)
	eng.ClearTT()
	if eng.TT().Count() != 0 {
		t.Fatalf("expected TT count 0 after ClearTT, got %d", eng.TT().Count())
	}
}

func TestEvaluateTerminalSignsByWinner(t *testing.T) {
	eng := newTestEngine(5)
	b := NewBoard(5)
	for x := 0; x < 5; x++ {
		b.MakeMove(x, 0, X)
	}
	if got := eng.evaluateTerminal(b, X); got != intMax/2 {
		t.Fatalf("expected winner-perspective score %d, got %d", intMax/2, got)
	}
	if got := eng.evaluateTerminal(b, O); got != intMin/2 {
		t.Fatalf("expected loser-perspective score %d, got %d", intMin/2, got)
	}
}

func TestOrderMovesPutsPVMoveFirst(t *testing.T) {
	moves := []Move{{X: 0, Y: 0, Score: 10}, {X: 1, Y: 1, Score: 900}, {X: 2, Y: 2, Score: 5}}
	orderMoves(moves, Move{X: 0, Y: 0}, true)
	if moves[0].X != 0 || moves[0].Y != 0 {
		t.Fatalf("expected PV move first, got %+v", moves[0])
	}
}

func TestOrderMovesSortsDescendingByScoreWithoutPV(t *testing.T) {
	moves := []Move{{Score: 5}, {Score: 90}, {Score: 30}}
	orderMoves(moves, Move{}, false)
	for i := 1; i < len(moves); i++ {
		if moves[i-1].Score < moves[i].Score {
			t.Fatalf("expected descending score order, got %+v", moves)
		}
	}
}
