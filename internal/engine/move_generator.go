package engine

import "sort"

// Move is a candidate move. Score is an ordering heuristic, not a
// game-theoretic value; it is meaningless on history entries (use
// HistoryEntry for those).
type Move struct {
	X, Y  int
	Score int
}

// MoveGenerator produces pruned, ordered candidate lists and the fast
// tactical probes the search engine dispatches on first.
type MoveGenerator struct {
	evaluator *Evaluator
	winLength int
	radius    int
	topK      int
}

func NewMoveGenerator(evaluator *Evaluator, winLength, radius, topK int) *MoveGenerator {
	return &MoveGenerator{evaluator: evaluator, winLength: winLength, radius: radius, topK: topK}
}

// CheckImmediateWin scans who's stones for a line with at least N-1
// same-side cells and returns the first empty extremity cell that
// actually completes N in a row once placed. Two passes: first collect
// the deduplicated set of extremity candidates, then verify each by
// re-walking the line through it.
func (g *MoveGenerator) CheckImmediateWin(board *Board, who Occupant) (Move, bool) {
	occupied := board.OccupiedPositions()
	if len(occupied) == 0 {
		return Move{}, false
	}

	candidateSet := make(map[Position]struct{})
	for _, pos := range occupied {
		if board.At(pos.X, pos.Y) != who {
			continue
		}
		for _, d := range directions {
			count := 1
			forward := pos.Add(d)
			for iter := 0; iter < g.winLength && board.At(forward.X, forward.Y) == who; iter++ {
				count++
				forward = forward.Add(d)
			}
			backward := pos.Sub(d)
			for iter := 0; iter < g.winLength && board.At(backward.X, backward.Y) == who; iter++ {
				count++
				backward = backward.Sub(d)
			}
			if count >= g.winLength-1 {
				if board.IsEmptyCell(forward.X, forward.Y) {
					candidateSet[forward] = struct{}{}
				}
				if board.IsEmptyCell(backward.X, backward.Y) {
					candidateSet[backward] = struct{}{}
				}
			}
		}
	}

	for pos := range candidateSet {
		for _, d := range directions {
			lineCount := 1
			forward := pos.Add(d)
			for iter := 0; iter < g.winLength && board.At(forward.X, forward.Y) == who; iter++ {
				lineCount++
				forward = forward.Add(d)
			}
			backward := pos.Sub(d)
			for iter := 0; iter < g.winLength && board.At(backward.X, backward.Y) == who; iter++ {
				lineCount++
				backward = backward.Sub(d)
			}
			if lineCount >= g.winLength {
				return Move{X: pos.X, Y: pos.Y, Score: intMax}, true
			}
		}
	}
	return Move{}, false
}

// CheckImmediateBlock is exactly CheckImmediateWin for the opponent,
// scored one below a true win so ordering prefers winning over blocking.
func (g *MoveGenerator) CheckImmediateBlock(board *Board, who Occupant) (Move, bool) {
	winMove, ok := g.CheckImmediateWin(board, who.Opponent())
	if !ok {
		return Move{}, false
	}
	return Move{X: winMove.X, Y: winMove.Y, Score: intMax - 1}, true
}

// CheckDangerousThreat detects an opponent open-(N-2) run whose both
// extremity empty cells are themselves followed by a non-opponent cell —
// placing an opponent stone at either extremity would create an
// open-(N-1). Disabled for N < 4.
func (g *MoveGenerator) CheckDangerousThreat(board *Board, who Occupant) (Move, bool) {
	if g.winLength < 4 {
		return Move{}, false
	}
	threatLength := g.winLength - 2
	opponent := who.Opponent()

	occupied := board.OccupiedPositions()
	if len(occupied) == 0 {
		return Move{}, false
	}

	blocking := make(map[Position]struct{})
	for _, pos := range occupied {
		if board.At(pos.X, pos.Y) != opponent {
			continue
		}
		for _, d := range directions {
			count := 1
			forward := pos.Add(d)
			for iter := 0; iter < g.winLength && board.At(forward.X, forward.Y) == opponent; iter++ {
				count++
				forward = forward.Add(d)
			}
			backward := pos.Sub(d)
			for iter := 0; iter < g.winLength && board.At(backward.X, backward.Y) == opponent; iter++ {
				count++
				backward = backward.Sub(d)
			}
			if count != threatLength {
				continue
			}

			leftOpen := board.IsEmptyCell(backward.X, backward.Y)
			rightOpen := board.IsEmptyCell(forward.X, forward.Y)
			leftValid, rightValid := leftOpen, rightOpen

			if leftOpen {
				nextLeft := backward.Sub(d)
				if board.At(nextLeft.X, nextLeft.Y) == opponent {
					leftValid = false
				}
			}
			if rightOpen {
				nextRight := forward.Add(d)
				if board.At(nextRight.X, nextRight.Y) == opponent {
					rightValid = false
				}
			}

			if leftValid && rightValid {
				blocking[backward] = struct{}{}
				blocking[forward] = struct{}{}
			}
		}
	}

	for pos := range blocking {
		return Move{X: pos.X, Y: pos.Y, Score: intMax - 2}, true
	}
	return Move{}, false
}

func (g *MoveGenerator) addNeighbors(x, y int, board *Board, candidates map[Position]struct{}) {
	for dx := -g.radius; dx <= g.radius; dx++ {
		for dy := -g.radius; dy <= g.radius; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if board.IsEmptyCell(nx, ny) {
				candidates[Position{nx, ny}] = struct{}{}
			}
		}
	}
}

// GenerateRadiusCandidates returns all empty cells within Chebyshev
// distance radius of any occupied cell, or [(0,0)] on an empty board.
func (g *MoveGenerator) GenerateRadiusCandidates(board *Board) []Position {
	occupied := board.OccupiedPositions()
	if len(occupied) == 0 {
		return []Position{{0, 0}}
	}

	candidateSet := make(map[Position]struct{})
	for _, pos := range occupied {
		g.addNeighbors(pos.X, pos.Y, board, candidateSet)
	}

	out := make([]Position, 0, len(candidateSet))
	for pos := range candidateSet {
		out = append(out, pos)
	}
	return out
}

func (g *MoveGenerator) scoreMove(board *Board, x, y int, who Occupant) int {
	return g.evaluator.evaluateMove(board, x, y, who)
}

func sortAndPrune(moves []Move, topK int) []Move {
	sort.Slice(moves, func(i, j int) bool { return moves[i].Score > moves[j].Score })
	if len(moves) > topK {
		moves = moves[:topK]
	}
	return moves
}

// GenerateCandidates produces the ordered, pruned candidate list search
// consumes for move ordering.
func (g *MoveGenerator) GenerateCandidates(board *Board, who Occupant) []Move {
	if winMove, ok := g.CheckImmediateWin(board, who); ok {
		return []Move{winMove}
	}

	var candidates []Move
	if blockMove, ok := g.CheckImmediateBlock(board, who); ok {
		candidates = append(candidates, blockMove)
	}

	positions := g.GenerateRadiusCandidates(board)
	if len(positions) == 1 && positions[0] == (Position{0, 0}) {
		return []Move{{X: 0, Y: 0, Score: 0}}
	}

	scoreLimit := g.topK * 2
	scored := 0

	for _, pos := range positions {
		if !board.IsEmptyCell(pos.X, pos.Y) {
			continue
		}
		score := g.scoreMove(board, pos.X, pos.Y, who)
		candidates = append(candidates, Move{X: pos.X, Y: pos.Y, Score: score})
		scored++

		if scored >= scoreLimit && len(candidates) >= g.topK {
			sorted := append([]Move(nil), candidates...)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
			if sorted[g.topK-1].Score > 100 {
				candidates = sorted
				break
			}
		}
	}

	return sortAndPrune(candidates, g.topK)
}
