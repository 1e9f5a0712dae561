package engine

import (
	"sort"
	"time"
)

// maxPVLength caps the principal variation reported in SearchStats and
// the internal pv buffer threaded through negamax.
const maxPVLength = 20

// DecisionType categorizes which stage of the dispatch chain produced the
// returned move.
type DecisionType int

const (
	DecisionImmediateWin DecisionType = iota
	DecisionImmediateBlock
	DecisionDangerousThreat
	DecisionThreatSolver
	DecisionNegamax
)

func (d DecisionType) String() string {
	switch d {
	case DecisionImmediateWin:
		return "ImmediateWin"
	case DecisionImmediateBlock:
		return "ImmediateBlock"
	case DecisionDangerousThreat:
		return "DangerousThreat"
	case DecisionThreatSolver:
		return "ThreatSolver"
	case DecisionNegamax:
		return "Negamax"
	default:
		return "Unknown"
	}
}

// SearchStats is the diagnostic snapshot produced by one FindBestMove call.
type SearchStats struct {
	NodesSearched      int
	DepthReached       int
	TimeMs             int64
	FinalScore         int
	DecisionType       DecisionType
	PrincipalVariation []Move
}

// Engine orchestrates tactical probes, the threat solver, and
// iterative-deepening negamax into one find-best-move call. It owns a
// move generator, evaluator, threat solver, and transposition table;
// these are constructed once per engine and reused across calls.
type Engine struct {
	moveGen      *MoveGenerator
	evaluator    *Evaluator
	threatSolver *ThreatSolver
	tt           *TranspositionTable
	cfg          Config

	timeout   bool
	startedAt time.Time
	stats     SearchStats
}

// NewEngine builds an engine for the given win length using default
// tuning constants.
func NewEngine(winLength int) *Engine {
	cfg := DefaultConfig()
	cfg.WinLength = winLength
	return NewEngineWithConfig(cfg)
}

// NewEngineWithConfig builds an engine from an explicit tuning Config.
func NewEngineWithConfig(cfg Config) *Engine {
	evaluator := NewEvaluator(cfg.WinLength, cfg.ForkBonus)
	moveGen := NewMoveGenerator(evaluator, cfg.WinLength, cfg.CandidateRadius, cfg.TopKCandidates)
	return &Engine{
		moveGen:      moveGen,
		evaluator:    evaluator,
		threatSolver: NewThreatSolver(moveGen, cfg.WinLength),
		tt:           NewTranspositionTable(cfg.TTSizeMB),
		cfg:          cfg,
	}
}

// ClearTT zeroes the transposition table.
func (e *Engine) ClearTT() { e.tt.Clear() }

// TT exposes the transposition table for snapshot/restore by ttstore.
// Callers must not mutate it concurrently with a search in progress.
func (e *Engine) TT() *TranspositionTable { return e.tt }

// Stats returns the statistics from the most recent FindBestMove call.
func (e *Engine) Stats() SearchStats { return e.stats }

func (e *Engine) elapsedMs() int64 {
	return time.Since(e.startedAt).Milliseconds()
}

func (e *Engine) isTimeout(budgetMs int) bool {
	return time.Since(e.startedAt) >= time.Duration(budgetMs)*time.Millisecond
}

// evaluateTerminal checks only the move-history tail for a win — a fast
// path distinct from Board.IsTerminal's full scan, used inside search
// where the board's only source of "newly terminal" is the move just
// played.
func (e *Engine) evaluateTerminal(board *Board, player Occupant) int {
	history := board.History()
	if len(history) > 0 {
		last := history[len(history)-1]
		if board.IsWin(last.X, last.Y, last.Player) {
			if last.Player == player {
				return intMax / 2
			}
			return intMin / 2
		}
	}
	return e.evaluator.evaluatePosition(board, player)
}

// hasThreats reports whether either side has a pattern at least
// max(N-2, 1) stones long anywhere on the board.
func (e *Engine) hasThreats(board *Board, player Occupant) bool {
	minThreatLength := e.cfg.WinLength - 2
	if minThreatLength < 1 {
		minThreatLength = 1
	}
	opponent := player.Opponent()

	for _, pos := range board.OccupiedPositions() {
		cellPlayer := board.At(pos.X, pos.Y)
		if cellPlayer != player && cellPlayer != opponent {
			continue
		}
		for _, p := range e.evaluator.detectPatterns(board, pos.X, pos.Y, cellPlayer) {
			if p.Length >= minThreatLength {
				return true
			}
		}
	}
	return false
}

// orderMoves swaps the TT's suggested move to the front (if present among
// the candidates) and sorts the remainder by score, leaving the front
// move untouched by the sort.
func orderMoves(moves []Move, pvMove Move, hasPV bool) {
	if hasPV {
		pvIndex := -1
		for i, m := range moves {
			if m.X == pvMove.X && m.Y == pvMove.Y {
				pvIndex = i
				break
			}
		}
		if pvIndex > 0 {
			moves[0], moves[pvIndex] = moves[pvIndex], moves[0]
		}
	}

	if hasPV && len(moves) > 1 {
		rest := moves[1:]
		sort.Slice(rest, func(i, j int) bool { return rest[i].Score > rest[j].Score })
		return
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].Score > moves[j].Score })
}

// quiescence extends the search past the horizon along tactical moves
// only (|score| > 1000), capped at 4 plies.
func (e *Engine) quiescence(board *Board, alpha, beta int, player Occupant, depth int) int {
	e.stats.NodesSearched++

	if e.timeout || depth > 4 {
		return e.evaluator.evaluatePosition(board, player)
	}

	if board.IsTerminal() {
		return e.evaluateTerminal(board, player)
	}

	standPat := e.evaluator.evaluatePosition(board, player)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	candidates := e.moveGen.GenerateCandidates(board, player)

	var tactical []Move
	for _, m := range candidates {
		if abs(m.Score) > 1000 {
			tactical = append(tactical, m)
		}
	}

	opponent := player.Opponent()
	for _, m := range tactical {
		board.MakeMove(m.X, m.Y, player)
		score := -e.quiescence(board, -beta, -alpha, opponent, depth+1)
		board.UndoMove(m.X, m.Y)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// negamax searches one node. On a TT hit it returns immediately without
// generating or recursing into children — the cached result is trusted
// outright given the window check already performed by Probe.
func (e *Engine) negamax(board *Board, depth, alpha, beta int, player Occupant, pv []Move, pvIndex int) int {
	e.stats.NodesSearched++

	if e.timeout {
		return 0
	}

	hash := board.Hash()

	ttResult := e.tt.Probe(hash, depth, alpha, beta)
	if ttResult.Found {
		if pv != nil && pvIndex < maxPVLength {
			pv[pvIndex] = ttResult.BestMove
		}
		return ttResult.Score
	}

	if board.IsTerminal() || depth == 0 {
		return e.quiescence(board, alpha, beta, player, 0)
	}

	moves := e.moveGen.GenerateCandidates(board, player)
	if len(moves) == 0 {
		return e.evaluator.evaluatePosition(board, player)
	}

	pvMove, hasPV := e.tt.PVMove(hash)
	orderMoves(moves, pvMove, hasPV)

	alphaOrig := alpha
	var bestMove Move
	bestHasMove := false
	bestScore := intMin
	flag := UpperBound
	moveFound := false

	opponent := player.Opponent()

	for i, move := range moves {
		if !board.IsEmptyCell(move.X, move.Y) {
			continue
		}
		moveFound = true

		board.MakeMove(move.X, move.Y, player)

		reduction := 0
		if depth > 2 {
			if i > 3 {
				reduction = 1
			}
			if i > 6 && depth > 4 {
				reduction = 2
			}
			if i > 10 && depth > 6 {
				reduction = 3
			}
			if move.Score < -1000 {
				reduction++
			}
			if reduction > depth-1 {
				reduction = depth - 1
			}
		}

		score := -e.negamax(board, depth-1-reduction, -beta, -alpha, opponent, pv, pvIndex+1)

		if reduction > 0 && score > alpha {
			score = -e.negamax(board, depth-1, -beta, -alpha, opponent, pv, pvIndex+1)
		}

		board.UndoMove(move.X, move.Y)

		if score > bestScore {
			bestScore = score
			bestMove = move
			bestHasMove = true
			if pv != nil && pvIndex < maxPVLength {
				pv[pvIndex] = move
			}
		}

		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			flag = LowerBound
			break
		}
	}

	if !moveFound {
		return e.evaluator.evaluatePosition(board, player)
	}

	switch {
	case bestScore <= alphaOrig:
		flag = UpperBound
	case bestScore >= beta:
		flag = LowerBound
	default:
		flag = Exact
	}

	e.tt.Store(hash, bestScore, depth, flag, bestMove, bestHasMove)

	return bestScore
}

// FindBestMove dispatches tactical shortcuts first, then the threat
// solver, then falls through to iterative-deepening negamax. It always
// returns a move whose cell is empty on a non-terminal board.
func (e *Engine) FindBestMove(board *Board, player Occupant, timeMs int) Move {
	e.stats = SearchStats{}
	e.timeout = false
	e.startedAt = time.Now()

	movesMade := len(board.History())

	if winMove, ok := e.moveGen.CheckImmediateWin(board, player); ok {
		e.stats.TimeMs = e.elapsedMs()
		e.stats.DecisionType = DecisionImmediateWin
		e.stats.FinalScore = intMax / 2
		return winMove
	}

	if blockMove, ok := e.moveGen.CheckImmediateBlock(board, player); ok {
		e.stats.TimeMs = e.elapsedMs()
		e.stats.DecisionType = DecisionImmediateBlock
		e.stats.FinalScore = intMax/2 - 1
		return blockMove
	}

	if threatMove, ok := e.moveGen.CheckDangerousThreat(board, player); ok {
		e.stats.TimeMs = e.elapsedMs()
		e.stats.DecisionType = DecisionDangerousThreat
		e.stats.FinalScore = intMax/2 - 2
		return threatMove
	}

	if movesMade >= 4 && e.hasThreats(board, player) {
		if forced, ok := e.threatSolver.FindForcedWin(board, player, e.cfg.ThreatSolverMaxDepth); ok {
			e.stats.TimeMs = e.elapsedMs()
			e.stats.DecisionType = DecisionThreatSolver
			e.stats.FinalScore = intMax / 2
			return forced
		}
	}

	e.stats.DecisionType = DecisionNegamax

	var bestMove, previousBestMove Move
	previousBestScore := 0
	stableIterations := 0
	bestMoveSet := false

	maxDepth := e.cfg.MaxDepth
	if movesMade < 6 {
		maxDepth = min(maxDepth, 6)
	} else if movesMade < 12 {
		maxDepth = min(maxDepth, 8)
	}

	for depth := 1; depth <= maxDepth; depth++ {
		if e.timeout || e.isTimeout(timeMs) {
			e.timeout = true
			break
		}

		pv := make([]Move, maxPVLength)

		bestScore := e.negamax(board, depth, intMin, intMax, player, pv, 0)

		if !e.timeout && board.IsEmptyCell(pv[0].X, pv[0].Y) {
			bestMove = pv[0]
			bestMoveSet = true
			e.stats.DepthReached = depth

			e.stats.PrincipalVariation = e.stats.PrincipalVariation[:0]
			for i := 0; i < depth && i < maxPVLength; i++ {
				if pv[i].X == 0 && pv[i].Y == 0 {
					break
				}
				e.stats.PrincipalVariation = append(e.stats.PrincipalVariation, pv[i])
			}

			if depth >= 3 {
				if bestMove.X == previousBestMove.X && bestMove.Y == previousBestMove.Y &&
					abs(bestScore-previousBestScore) < e.cfg.StableScoreThreshold {
					stableIterations++
					if stableIterations >= e.cfg.StableIterationsThreshold {
						e.tt.IncrementAge()
						break
					}
				} else {
					stableIterations = 0
				}
			}

			previousBestMove = bestMove
			previousBestScore = bestScore
		}

		e.tt.IncrementAge()
	}

	e.stats.TimeMs = e.elapsedMs()
	e.stats.FinalScore = previousBestScore

	if bestMoveSet && board.IsEmptyCell(bestMove.X, bestMove.Y) {
		return bestMove
	}

	for _, m := range e.moveGen.GenerateCandidates(board, player) {
		if board.IsEmptyCell(m.X, m.Y) {
			return m
		}
	}

	for _, pos := range board.OccupiedPositions() {
		for dx := -2; dx <= 2; dx++ {
			for dy := -2; dy <= 2; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := pos.X+dx, pos.Y+dy
				if board.IsEmptyCell(nx, ny) {
					return Move{X: nx, Y: ny}
				}
			}
		}
	}

	return Move{}
}
