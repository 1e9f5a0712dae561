package engine

import "testing"

func TestOpenPatternScoresHigherThanClosed(t *testing.T) {
	e := NewEvaluator(5, 5000)
	open := e.calculatePatternScore(3, true, false)
	closed := e.calculatePatternScore(3, false, false)
	if open <= closed {
		t.Fatalf("expected open pattern score (%d) to exceed closed (%d)", open, closed)
	}
}

func TestBrokenPatternHalvesScore(t *testing.T) {
	e := NewEvaluator(5, 5000)
	whole := e.calculatePatternScore(3, true, false)
	broken := e.calculatePatternScore(3, true, true)
	if broken != whole/2 {
		t.Fatalf("expected broken score to be half of whole: got %d want %d", broken, whole/2)
	}
}

func TestPatternScoreIncreasesWithLength(t *testing.T) {
	e := NewEvaluator(5, 5000)
	prev := 0
	for length := 1; length < 5; length++ {
		score := e.calculatePatternScore(length, true, false)
		if score <= prev {
			t.Fatalf("expected increasing scores with length, got %d at length %d after %d", score, length, prev)
		}
		prev = score
	}
}

func TestPatternScoreZeroAtOrAboveWinLength(t *testing.T) {
	e := NewEvaluator(5, 5000)
	if got := e.getPatternScore(5, true); got != 0 {
		t.Fatalf("expected zero score for length == winLength, got %d", got)
	}
	if got := e.getPatternScore(6, true); got != 0 {
		t.Fatalf("expected zero score for length > winLength, got %d", got)
	}
}

func TestEvaluateMoveDetectsImmediateWin(t *testing.T) {
	e := NewEvaluator(5, 5000)
	b := NewBoard(5)
	for x := 0; x < 4; x++ {
		b.MakeMove(x, 0, X)
	}
	score := e.evaluateMove(b, 4, 0, X)
	if score != intMax/2 {
		t.Fatalf("expected win-shortcut score %d, got %d", intMax/2, score)
	}
}

func TestDetectForksAddsBonusForDoubleOpenThreat(t *testing.T) {
	e := NewEvaluator(5, 5000)
	b := NewBoard(5)
	// Build two separate open-4 runs crossing at (5,5) so scoring at that
	// cell sees two independent length-4 open threats through it.
	for x := 1; x <= 4; x++ {
		b.MakeMove(x, 5, X)
	}
	for y := 1; y <= 4; y++ {
		b.MakeMove(5, y, X)
	}
	withFork := e.detectForks(b, 5, 5, X)

	eNoBonus := NewEvaluator(5, 0)
	withoutBonus := eNoBonus.detectForks(b, 5, 5, X)
	if withFork <= withoutBonus {
		t.Fatalf("expected fork bonus to raise score: with=%d without=%d", withFork, withoutBonus)
	}
}

func TestEvaluatePositionIsAntisymmetric(t *testing.T) {
	e := NewEvaluator(5, 5000)
	b := NewBoard(5)
	b.MakeMove(0, 0, X)
	b.MakeMove(1, 0, X)
	b.MakeMove(0, 1, O)

	scoreForX := e.evaluatePosition(b, X)
	scoreForO := e.evaluatePosition(b, O)
	if scoreForX != -scoreForO {
		t.Fatalf("expected evaluatePosition to be antisymmetric: X=%d O=%d", scoreForX, scoreForO)
	}
}
