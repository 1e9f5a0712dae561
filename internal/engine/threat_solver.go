package engine

// ThreatSolver proves forced wins using only direct threats: a depth-
// limited AND/OR search where the attacker must find a threat every
// defender reply to which still leads to attacker success one ply
// deeper.
type ThreatSolver struct {
	moveGen   *MoveGenerator
	winLength int
}

func NewThreatSolver(moveGen *MoveGenerator, winLength int) *ThreatSolver {
	return &ThreatSolver{moveGen: moveGen, winLength: winLength}
}

// isDirectThreat reports whether placing player at (x, y) creates an open
// run of exactly N-1 stones (one ply from completing N in a row).
func (t *ThreatSolver) isDirectThreat(board *Board, x, y int, player Occupant) bool {
	probe := board.Clone()
	if !probe.MakeMove(x, y, player) {
		return false
	}

	for _, d := range directions {
		count := 1

		forward := Position{x, y}.Add(d)
		rightSpace := 0
		for iter := 0; iter < maxWalkSteps && probe.At(forward.X, forward.Y) == player; iter++ {
			count++
			forward = forward.Add(d)
		}
		if probe.At(forward.X, forward.Y) == Empty {
			rightSpace = 1
		}

		backward := Position{x, y}.Sub(d)
		leftSpace := 0
		for iter := 0; iter < maxWalkSteps && probe.At(backward.X, backward.Y) == player; iter++ {
			count++
			backward = backward.Sub(d)
		}
		if probe.At(backward.X, backward.Y) == Empty {
			leftSpace = 1
		}

		if count == t.winLength-1 && leftSpace > 0 && rightSpace > 0 {
			return true
		}
	}
	return false
}

// generateThreats returns the subset of player's generated candidates
// that are direct threats.
func (t *ThreatSolver) generateThreats(board *Board, player Occupant) []Move {
	candidates := t.moveGen.GenerateCandidates(board, player)
	threats := make([]Move, 0, len(candidates))
	for _, m := range candidates {
		if t.isDirectThreat(board, m.X, m.Y, player) {
			threats = append(threats, m)
		}
	}
	return threats
}

// findDefensiveMoves returns the moves defender should consider in reply
// to an attacker threat: defender's own direct threats, plus defender's
// immediate-block cell if one exists.
func (t *ThreatSolver) findDefensiveMoves(board *Board, defender Occupant) []Move {
	defenses := append([]Move(nil), t.generateThreats(board, defender)...)

	if blockMove, ok := t.moveGen.CheckImmediateBlock(board, defender); ok {
		defenses = append(defenses, blockMove)
	}
	return defenses
}

// searchForcedWin is the AND/OR recursion. An empty defense set for the
// defender is an immediate attacker win, not a vacuous failure.
func (t *ThreatSolver) searchForcedWin(board *Board, player Occupant, depth, maxDepth int) bool {
	if depth >= maxDepth {
		return false
	}

	if _, ok := t.moveGen.CheckImmediateWin(board, player); ok {
		return true
	}

	threats := t.generateThreats(board, player)
	opponent := player.Opponent()

	for _, threat := range threats {
		board.MakeMove(threat.X, threat.Y, player)

		defenses := t.findDefensiveMoves(board, opponent)

		if len(defenses) == 0 {
			board.UndoMove(threat.X, threat.Y)
			return true
		}

		allDefensesFail := true
		for _, defense := range defenses {
			board.MakeMove(defense.X, defense.Y, opponent)
			if !t.searchForcedWin(board, player, depth+1, maxDepth) {
				allDefensesFail = false
			}
			board.UndoMove(defense.X, defense.Y)
			if !allDefensesFail {
				break
			}
		}

		board.UndoMove(threat.X, threat.Y)

		if allDefensesFail {
			return true
		}
	}

	return false
}

// FindForcedWin is the top-level entry point: if player has a forced win
// through direct threats within maxDepth plies, returns the first move to
// play. The board is restored to its original state before returning.
func (t *ThreatSolver) FindForcedWin(board *Board, player Occupant, maxDepth int) (Move, bool) {
	if winMove, ok := t.moveGen.CheckImmediateWin(board, player); ok {
		return winMove, true
	}

	threats := t.generateThreats(board, player)
	opponent := player.Opponent()

	for _, threat := range threats {
		board.MakeMove(threat.X, threat.Y, player)

		defenses := t.findDefensiveMoves(board, opponent)

		allDefensesFail := true
		for _, defense := range defenses {
			board.MakeMove(defense.X, defense.Y, opponent)
			if !t.searchForcedWin(board, player, 1, maxDepth) {
				allDefensesFail = false
			}
			board.UndoMove(defense.X, defense.Y)
			if !allDefensesFail {
				break
			}
		}

		board.UndoMove(threat.X, threat.Y)

		if allDefensesFail {
			return threat, true
		}
	}

	return Move{}, false
}
