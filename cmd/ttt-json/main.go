// Command ttt-json is a single-shot, request/response shell: it reads one
// JSON object from stdin, replays a move history onto a fresh board, runs
// one command, and prints one JSON object to stdout. No state survives
// between invocations — the caller resends the whole history every time.
//
// The wire format deliberately preserves a legacy quirk from the
// reference implementation: for "make_move", the move's x/y are not read
// from a dedicated field. They are read from whatever "x"/"y" keys appear
// in the raw request text after the closing ']' of the "moves" array,
// wherever that happens to be. A caller who wants a clean, unambiguous
// field should use the HTTP adapter (cmd/ttt-httpd) instead.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nndbnb/unbounded-gomoku/internal/engine"
)

type historyMove struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Player string `json:"player"`
}

type request struct {
	Command       string        `json:"command"`
	WinLength     int           `json:"win_length"`
	Moves         []historyMove `json:"moves"`
	CurrentPlayer string        `json:"current_player"`
	TimeMs        int           `json:"time_ms"`
}

type cellDTO struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Player string `json:"player"`
}

type bboxDTO struct {
	MinX int `json:"min_x"`
	MaxX int `json:"max_x"`
	MinY int `json:"min_y"`
	MaxY int `json:"max_y"`
}

type boardDTO struct {
	Cells []cellDTO `json:"cells"`
	Bbox  bboxDTO   `json:"bbox"`
}

type moveDTO struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Player string `json:"player"`
}

type pvMoveDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type statsDTO struct {
	TimeMs             int64       `json:"time_ms"`
	DecisionType       string      `json:"decision_type"`
	DepthReached       int         `json:"depth_reached"`
	NodesSearched      int         `json:"nodes_searched"`
	FinalScore         int         `json:"final_score"`
	PrincipalVariation []pvMoveDTO `json:"principal_variation"`
}

type response struct {
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	Board      *boardDTO `json:"board,omitempty"`
	Move       *moveDTO  `json:"move,omitempty"`
	Stats      *statsDTO `json:"stats,omitempty"`
	GameOver   bool      `json:"game_over"`
	Winner     *string   `json:"winner"`
	IsTerminal bool      `json:"is_terminal"`
}

func parsePlayer(s string) (engine.Occupant, bool) {
	switch s {
	case "X", "x":
		return engine.X, true
	case "O", "o":
		return engine.O, true
	default:
		return engine.Empty, false
	}
}

func playerString(p engine.Occupant) string {
	switch p {
	case engine.X:
		return "X"
	case engine.O:
		return "O"
	default:
		return "None"
	}
}

// extractIntAfter mirrors the reference implementation's hand-rolled
// scanner: find `"key"`, then `:`, then the run of digits/sign that
// follows, starting the search no earlier than from.
func extractIntAfter(input, key string, from int) (int, bool) {
	if from < 0 || from > len(input) {
		return 0, false
	}
	rest := input[from:]
	pos := strings.Index(rest, `"`+key+`"`)
	if pos < 0 {
		return 0, false
	}
	colon := strings.Index(rest[pos:], ":")
	if colon < 0 {
		return 0, false
	}
	numStart := pos + colon + 1
	for numStart < len(rest) && (rest[numStart] == ' ' || rest[numStart] == '\t') {
		numStart++
	}
	numEnd := numStart
	for numEnd < len(rest) && (isDigit(rest[numEnd]) || rest[numEnd] == '-' || rest[numEnd] == '+') {
		numEnd++
	}
	if numEnd == numStart {
		return 0, false
	}
	n, err := strconv.Atoi(rest[numStart:numEnd])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// legacyMoveCoords implements the documented quirk: scan for "x"/"y" in
// the raw text starting just after the "moves" array's closing bracket,
// not from a dedicated field.
func legacyMoveCoords(raw string) (x, y int) {
	movesPos := strings.Index(raw, `"moves"`)
	if movesPos < 0 {
		return 0, 0
	}
	arrayEnd := strings.Index(raw[movesPos:], "]")
	if arrayEnd < 0 {
		return 0, 0
	}
	from := movesPos + arrayEnd
	if v, ok := extractIntAfter(raw, "x", from); ok {
		x = v
	}
	if v, ok := extractIntAfter(raw, "y", from); ok {
		y = v
	}
	return x, y
}

func outputError(msg string) {
	data, _ := json.MarshalIndent(response{Success: false, Error: msg}, "", "  ")
	fmt.Println(string(data))
}

func serializeBoard(board *engine.Board) *boardDTO {
	bbox := board.BoundingBox()
	dto := &boardDTO{
		Cells: make([]cellDTO, 0, len(board.OccupiedPositions())),
		Bbox:  bboxDTO{MinX: bbox.MinX, MaxX: bbox.MaxX, MinY: bbox.MinY, MaxY: bbox.MaxY},
	}
	for _, pos := range board.OccupiedPositions() {
		dto.Cells = append(dto.Cells, cellDTO{X: pos.X, Y: pos.Y, Player: playerString(board.At(pos.X, pos.Y))})
	}
	return dto
}

func decisionTypeString(d engine.DecisionType) string {
	switch d {
	case engine.DecisionImmediateWin:
		return "IMMEDIATE_WIN"
	case engine.DecisionImmediateBlock:
		return "IMMEDIATE_BLOCK"
	case engine.DecisionDangerousThreat:
		return "DANGEROUS_THREAT"
	case engine.DecisionThreatSolver:
		return "THREAT_SOLVER"
	case engine.DecisionNegamax:
		return "NEGAMAX_SEARCH"
	default:
		return "UNKNOWN"
	}
}

func serializeStats(stats engine.SearchStats) *statsDTO {
	pv := make([]pvMoveDTO, 0, len(stats.PrincipalVariation))
	for _, m := range stats.PrincipalVariation {
		if m.X != 0 || m.Y != 0 {
			pv = append(pv, pvMoveDTO{X: m.X, Y: m.Y})
		}
	}
	return &statsDTO{
		TimeMs:             stats.TimeMs,
		DecisionType:       decisionTypeString(stats.DecisionType),
		DepthReached:       stats.DepthReached,
		NodesSearched:      stats.NodesSearched,
		FinalScore:         stats.FinalScore,
		PrincipalVariation: pv,
	}
}

func outputSuccess(board *engine.Board, move *moveDTO, stats *statsDTO, gameOver bool, winner engine.Occupant) {
	resp := response{
		Success:    true,
		Board:      serializeBoard(board),
		Move:       move,
		Stats:      stats,
		GameOver:   gameOver,
		IsTerminal: board.IsTerminal(),
	}
	if gameOver && winner != engine.Empty {
		w := playerString(winner)
		resp.Winner = &w
	}
	data, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Println(string(data))
}

func winnerOf(board *engine.Board) (engine.Occupant, bool) {
	history := board.History()
	if len(history) == 0 {
		return engine.Empty, false
	}
	last := history[len(history)-1]
	if board.IsWin(last.X, last.Y, last.Player) {
		return last.Player, true
	}
	return engine.Empty, false
}

func main() {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		outputError(fmt.Sprintf("reading stdin: %v", err))
		os.Exit(1)
	}
	input := strings.TrimSpace(string(raw))
	if input == "" {
		outputError("Empty input")
		os.Exit(1)
	}

	var req request
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		outputError(fmt.Sprintf("invalid JSON: %v", err))
		os.Exit(1)
	}
	if req.Command == "" {
		outputError("Missing 'command' field")
		os.Exit(1)
	}

	winLength := req.WinLength
	if winLength < 3 {
		winLength = engine.DefaultConfig().WinLength
	}
	if winLength > 20 {
		winLength = 20
	}

	board := engine.NewBoard(winLength)
	for _, m := range req.Moves {
		player, ok := parsePlayer(m.Player)
		if !ok {
			player = engine.X
		}
		if !board.MakeMove(m.X, m.Y, player) {
			outputError(fmt.Sprintf("Invalid move in history: (%d, %d), player: %s, total moves: %d",
				m.X, m.Y, playerString(player), len(req.Moves)))
			os.Exit(1)
		}
	}

	currentPlayer := engine.Empty
	if req.CurrentPlayer != "" {
		p, ok := parsePlayer(req.CurrentPlayer)
		if !ok {
			outputError(fmt.Sprintf("Invalid current_player: %s", req.CurrentPlayer))
			os.Exit(1)
		}
		currentPlayer = p
	}

	timeMs := req.TimeMs
	if timeMs <= 0 {
		timeMs = engine.DefaultConfig().DefaultTimeMs
	}

	switch req.Command {
	case "make_move":
		moveX, moveY := legacyMoveCoords(input)
		if !board.MakeMove(moveX, moveY, currentPlayer) {
			outputError(fmt.Sprintf("Invalid move: (%d, %d)", moveX, moveY))
			os.Exit(1)
		}
		gameOver := board.IsTerminal()
		winner, _ := winnerOf(board)
		outputSuccess(board, &moveDTO{X: moveX, Y: moveY, Player: playerString(currentPlayer)}, nil, gameOver, winner)

	case "ai_move":
		cfg := engine.DefaultConfig()
		cfg.WinLength = winLength
		eng := engine.NewEngineWithConfig(cfg)

		aiMove := eng.FindBestMove(board, currentPlayer, timeMs)
		stats := eng.Stats()

		if !board.MakeMove(aiMove.X, aiMove.Y, currentPlayer) {
			outputError(fmt.Sprintf("AI generated invalid move: (%d, %d)", aiMove.X, aiMove.Y))
			os.Exit(1)
		}
		gameOver := board.IsTerminal()
		winner, _ := winnerOf(board)
		outputSuccess(board, &moveDTO{X: aiMove.X, Y: aiMove.Y, Player: playerString(currentPlayer)}, serializeStats(stats), gameOver, winner)

	case "get_state":
		outputSuccess(board, nil, nil, board.IsTerminal(), engine.Empty)

	default:
		outputError(fmt.Sprintf("Unknown command: %s", req.Command))
		os.Exit(1)
	}
}
