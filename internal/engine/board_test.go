package engine

import "testing"

func TestMakeMoveRejectsOccupiedCell(t *testing.T) {
	b := NewBoard(5)
	if !b.MakeMove(0, 0, X) {
		t.Fatalf("expected first move at (0,0) to succeed")
	}
	if b.MakeMove(0, 0, O) {
		t.Fatalf("expected second move at occupied (0,0) to fail")
	}
}

func TestUndoMoveRestoresHashAndCell(t *testing.T) {
	b := NewBoard(5)
	before := b.Hash()
	b.MakeMove(3, -2, X)
	if b.Hash() == before {
		t.Fatalf("expected hash to change after MakeMove")
	}
	b.UndoMove(3, -2)
	if b.Hash() != before {
		t.Fatalf("hash mismatch after undo: got %d want %d", b.Hash(), before)
	}
	if !b.IsEmptyCell(3, -2) {
		t.Fatalf("expected (3,-2) to be empty after undo")
	}
}

func TestFiveInARowWinDetection(t *testing.T) {
	b := NewBoard(5)
	for x := 0; x < 5; x++ {
		b.MakeMove(x, 0, X)
	}
	if !b.IsWin(4, 0, X) {
		t.Fatalf("expected IsWin(4,0,X) to be true")
	}
	if !b.IsTerminal() {
		t.Fatalf("expected board to be terminal")
	}
}

func TestIsTerminalMatchesIsWinAcrossOccupiedCells(t *testing.T) {
	b := NewBoard(5)
	for x := 0; x < 4; x++ {
		b.MakeMove(x, 0, X)
	}
	if b.IsTerminal() {
		t.Fatalf("expected non-terminal board with only 4 in a row")
	}
	b.MakeMove(4, 0, X)
	if !b.IsTerminal() {
		t.Fatalf("expected terminal board after completing 5 in a row")
	}
}

func TestBoundingBoxExpandsWithMoves(t *testing.T) {
	b := NewBoard(5)
	b.MakeMove(0, 0, X)
	b.MakeMove(-3, 5, O)
	bbox := b.BoundingBox()
	if bbox.MinX != -3 || bbox.MaxX != 0 || bbox.MinY != 0 || bbox.MaxY != 5 {
		t.Fatalf("unexpected bounding box: %+v", bbox)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard(5)
	b.MakeMove(0, 0, X)
	clone := b.Clone()
	clone.MakeMove(1, 0, O)
	if !b.IsEmptyCell(1, 0) {
		t.Fatalf("expected original board to be unaffected by mutation on clone")
	}
	if clone.IsEmptyCell(1, 0) {
		t.Fatalf("expected clone to have the new move")
	}
}

func TestHistoryTailOnlyUndo(t *testing.T) {
	b := NewBoard(5)
	b.MakeMove(0, 0, X)
	b.MakeMove(1, 0, O)
	b.UndoMove(1, 0)
	history := b.History()
	if len(history) != 1 || history[0].X != 0 || history[0].Y != 0 {
		t.Fatalf("unexpected history after undo: %+v", history)
	}
}

func TestMinimumWinLengthClamp(t *testing.T) {
	b := NewBoard(1)
	if b.WinLength() != 3 {
		t.Fatalf("expected win length to clamp to minimum 3, got %d", b.WinLength())
	}
}
