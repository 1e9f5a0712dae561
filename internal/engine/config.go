package engine

// intMax/intMin mirror a 32-bit C int's range, matching the reference
// implementation's use of INT_MAX/INT_MIN as sentinel scores. The
// tactical probes (immediate win/block/dangerous-threat) score at
// intMax and one or two below it so move ordering always prefers them;
// the evaluator's own win-detection shortcut and the search's root
// statistics instead use intMax/2 and intMin/2, leaving headroom for
// negamax's alpha-beta negation to never overflow.
const (
	intMax = 1<<31 - 1
	intMin = -(1 << 31)
)

// Config holds the tunable constants governing candidate generation, the
// threat solver, and the negamax search. Defaults mirror the reference
// implementation.
type Config struct {
	WinLength                 int     `json:"win_length"`
	CandidateRadius           int     `json:"candidate_radius"`
	TopKCandidates            int     `json:"top_k_candidates"`
	MaxDepth                  int     `json:"max_depth"`
	TTSizeMB                  int     `json:"tt_size_mb"`
	DefaultTimeMs             int     `json:"default_time_ms"`
	ThreatSolverMaxDepth      int     `json:"threat_solver_max_depth"`
	ForkBonus                 int     `json:"fork_bonus"`
	StableIterationsThreshold int     `json:"stable_iterations_threshold"`
	StableScoreThreshold      int     `json:"stable_score_threshold"`
}

// DefaultConfig returns the reference implementation's tuning constants.
func DefaultConfig() Config {
	return Config{
		WinLength:                 5,
		CandidateRadius:           2,
		TopKCandidates:            30,
		MaxDepth:                  12,
		TTSizeMB:                  128,
		DefaultTimeMs:             5000,
		ThreatSolverMaxDepth:      4,
		ForkBonus:                 5000,
		StableIterationsThreshold: 2,
		StableScoreThreshold:      50,
	}
}
