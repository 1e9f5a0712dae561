package engine

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTTStoreThenExactProbeHits(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(12345)
	tt.Store(key, 500, 4, Exact, Move{X: 1, Y: 2}, true)

	result := tt.Probe(key, 4, intMin, intMax)
	if !result.Found {
		t.Fatalf("expected exact probe to hit")
	}
	if result.Score != 500 {
		t.Fatalf("expected score 500, got %d", result.Score)
	}
	if !result.HasMove || result.BestMove.X != 1 || result.BestMove.Y != 2 {
		t.Fatalf("unexpected best move: %+v", result)
	}
}

func TestTTProbeMissesOnShallowerDepth(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(777)
	tt.Store(key, 10, 2, Exact, Move{}, false)

	result := tt.Probe(key, 5, intMin, intMax)
	if result.Found {
		t.Fatalf("expected probe at deeper requested depth to miss")
	}
}

func TestTTLowerBoundOnlyUsableAboveBeta(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(42)
	tt.Store(key, 1000, 3, LowerBound, Move{}, false)

	if res := tt.Probe(key, 3, intMin, 500); !res.Found {
		t.Fatalf("expected lower bound >= beta to be usable")
	}
	if res := tt.Probe(key, 3, intMin, 2000); res.Found {
		t.Fatalf("expected lower bound < beta to be unusable")
	}
}

func TestTTDepthPreferredReplacement(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(9)
	tt.Store(key, 1, 2, Exact, Move{}, false)
	tt.Store(key, 2, 1, Exact, Move{}, false)

	result := tt.Probe(key, 2, intMin, intMax)
	if !result.Found || result.Score != 1 {
		t.Fatalf("expected the deeper entry to survive replacement, got %+v", result)
	}
}

func TestTTValidFlagDistinguishesFromOriginSentinel(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(1)
	tt.Store(key, 100, 3, Exact, Move{X: 0, Y: 0}, true)

	move, ok := tt.PVMove(key)
	if !ok {
		t.Fatalf("expected PVMove to report a move at (0,0) when HasMove was true")
	}
	if move.X != 0 || move.Y != 0 {
		t.Fatalf("unexpected move: %+v", move)
	}
}

func TestTTPVMoveAbsentWhenHasMoveFalse(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(2)
	tt.Store(key, 100, 3, Exact, Move{}, false)

	if _, ok := tt.PVMove(key); ok {
		t.Fatalf("expected no PV move when HasMove was false")
	}
}

func TestTTSnapshotRestoreRoundTrip(t *testing.T) {
	src := NewTranspositionTable(1)
	src.Store(1, 10, 2, Exact, Move{X: 1, Y: 1}, true)
	src.Store(2, 20, 3, LowerBound, Move{X: 2, Y: 2}, true)

	snap := src.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries in snapshot, got %d", len(snap))
	}

	dst := NewTranspositionTable(1)
	dst.Restore(snap)
	if dst.Count() != src.Count() {
		t.Fatalf("expected restored table to have same entry count: got %d want %d", dst.Count(), src.Count())
	}

	byKey := func(e []Entry) []Entry {
		sorted := append([]Entry(nil), e...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].ZobristKey < sorted[j].ZobristKey })
		return sorted
	}
	if diff := cmp.Diff(byKey(snap), byKey(dst.Snapshot())); diff != "" {
		t.Fatalf("restored snapshot diverged from source snapshot (-want +got):\n%s", diff)
	}
}

func TestTTClearResetsCounters(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(1, 10, 2, Exact, Move{}, false)
	tt.Clear()
	if tt.Count() != 0 {
		t.Fatalf("expected count 0 after Clear, got %d", tt.Count())
	}
}
