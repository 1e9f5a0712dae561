package engine

import "math"

// maxPatternLength bounds the weight tables; win lengths beyond this are
// not supported by the evaluator (cmd/ttt-cli and cmd/ttt-json clamp
// win_length to 20; cmd/ttt-httpd's settings endpoint does not clamp it).
const maxPatternLength = 20

// Pattern describes a contiguous (possibly one-gap) same-side run through
// an anchor cell along one direction.
type Pattern struct {
	Length int
	Open   bool
	Broken bool
	Score  int
}

// LineInfo is the raw walk result analyzeLineInfo produces before it is
// turned into a Pattern.
type LineInfo struct {
	OwnCount   int
	LeftSpace  int
	RightSpace int
	HasBreak   bool
}

// Evaluator scores positions and candidate moves via linear pattern
// analysis along the four line directions. It holds a weight table
// derived once from the board's win length.
type Evaluator struct {
	winLength   int
	forkBonus   int
	openScore   [maxPatternLength]int
	closedScore [maxPatternLength]int
}

// NewEvaluator builds the pattern weight tables for the given win length
// and fork bonus. For k in 1..N-1: open[k] = round(10^k * 4^(N-k) * 2),
// closed[k] = round(10^k * 4^(N-k)).
func NewEvaluator(winLength, forkBonus int) *Evaluator {
	e := &Evaluator{winLength: winLength, forkBonus: forkBonus}
	for k := 1; k < winLength && k < maxPatternLength; k++ {
		base := math.Pow(10, float64(k))
		proximity := math.Pow(4, float64(winLength-k))
		e.openScore[k] = int(base * proximity * 2.0)
		e.closedScore[k] = int(base * proximity)
	}
	return e
}

func (e *Evaluator) getPatternScore(length int, open bool) int {
	if length <= 0 || length >= e.winLength || length >= maxPatternLength {
		return 0
	}
	if open {
		return e.openScore[length]
	}
	return e.closedScore[length]
}

func (e *Evaluator) calculatePatternScore(length int, open, broken bool) int {
	base := e.getPatternScore(length, open)
	if broken {
		return base / 2
	}
	return base
}

// analyzeLineInfo walks from (x, y) outward in both half-directions of dir,
// counting consecutive player stones and the empty cells immediately
// beyond each end. A "break" is recorded on a side if, immediately after
// the first empty cell on that side, another player stone follows (a run
// bridged by a single gap); the walk then continues across the gap. Any
// other cell, or a second empty cell on the same side, ends that side's
// walk.
func (e *Evaluator) analyzeLineInfo(board *Board, x, y int, dir Position, player Occupant) LineInfo {
	var info LineInfo
	consecutive := 0
	foundBreak := false

	if board.At(x, y) == player {
		consecutive = 1
	}

	cur := Position{x, y}.Add(dir)
	for iterations := 0; iterations < maxWalkSteps; iterations++ {
		cell := board.At(cur.X, cur.Y)
		if cell == player {
			consecutive++
			cur = cur.Add(dir)
			continue
		}
		if cell == Empty {
			info.RightSpace++
			next := cur.Add(dir)
			if info.RightSpace == 1 && board.At(next.X, next.Y) == player {
				foundBreak = true
				cur = next
				continue
			}
		}
		break
	}

	cur = Position{x, y}.Sub(dir)
	for iterations := 0; iterations < maxWalkSteps; iterations++ {
		cell := board.At(cur.X, cur.Y)
		if cell == player {
			consecutive++
			cur = cur.Sub(dir)
			continue
		}
		if cell == Empty {
			info.LeftSpace++
			prev := cur.Sub(dir)
			if info.LeftSpace == 1 && board.At(prev.X, prev.Y) == player {
				foundBreak = true
				cur = prev
				continue
			}
		}
		break
	}

	info.OwnCount = consecutive
	info.HasBreak = foundBreak
	return info
}

func (e *Evaluator) analyzeLine(board *Board, x, y int, dir Position, player Occupant) Pattern {
	info := e.analyzeLineInfo(board, x, y, dir, player)
	open := info.LeftSpace > 0 && info.RightSpace > 0
	return Pattern{
		Length: info.OwnCount,
		Open:   open,
		Broken: info.HasBreak,
		Score:  e.calculatePatternScore(info.OwnCount, open, info.HasBreak),
	}
}

// detectPatterns returns one Pattern per direction with a nonzero run
// through (x, y) for player.
func (e *Evaluator) detectPatterns(board *Board, x, y int, player Occupant) []Pattern {
	patterns := make([]Pattern, 0, 4)
	for _, d := range directions {
		p := e.analyzeLine(board, x, y, d, player)
		if p.Length > 0 {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// detectForks sums pattern scores through (x, y) for player and adds the
// fork bonus if at least two of those patterns are open runs of length
// N-1 or more (simultaneous independent winning threats).
func (e *Evaluator) detectForks(board *Board, x, y int, player Occupant) int {
	patterns := e.detectPatterns(board, x, y, player)

	threatCount := 0
	totalScore := 0
	for _, p := range patterns {
		if p.Length >= e.winLength-1 && p.Open {
			threatCount++
		}
		totalScore += p.Score
	}
	if threatCount >= 2 {
		return totalScore + e.forkBonus
	}
	return totalScore
}

// evaluateMove scores placing player at (x, y). Pattern analysis for the
// non-winning case deliberately runs against the board as it stands
// before the move (matching the reference evaluator): it measures the
// stone runs already adjacent to (x, y), not the run that would result
// from actually placing the stone there. Only the win check itself plays
// the move, on a scratch clone.
func (e *Evaluator) evaluateMove(board *Board, x, y int, player Occupant) int {
	probe := board.Clone()
	if probe.MakeMove(x, y, player) && probe.IsWin(x, y, player) {
		return intMax / 2
	}

	score := e.detectForks(board, x, y, player)

	opponent := player.Opponent()
	for _, p := range e.detectPatterns(board, x, y, opponent) {
		if p.Length >= e.winLength-1 {
			score += p.Score
		}
	}
	return score
}

// evaluatePosition sums pattern scores through every occupied cell,
// signed by whether the cell belongs to player. Each pattern is counted
// once per stone it passes through, which over-counts by a factor
// proportional to pattern length; this is intentional and must be
// preserved to keep evaluation and move ordering consistent.
func (e *Evaluator) evaluatePosition(board *Board, player Occupant) int {
	score := 0
	for _, pos := range board.OccupiedPositions() {
		cellPlayer := board.At(pos.X, pos.Y)
		patterns := e.detectPatterns(board, pos.X, pos.Y, cellPlayer)
		sum := 0
		for _, p := range patterns {
			sum += p.Score
		}
		if cellPlayer == player {
			score += sum
		} else {
			score -= sum
		}
	}
	return score
}
