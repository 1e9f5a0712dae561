// Command ttt-cli is the interactive line-oriented shell: a human plays
// against the engine over stdin/stdout, the way the reference
// implementation's main.cpp drives a terminal session.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/nndbnb/unbounded-gomoku/internal/engine"
)

func printBoard(board *engine.Board) {
	bbox := board.BoundingBox()
	const margin = 2
	minX, maxX := bbox.MinX-margin, bbox.MaxX+margin
	minY, maxY := bbox.MinY-margin, bbox.MaxY+margin

	fmt.Print("   ")
	for x := minX; x <= maxX; x++ {
		fmt.Printf("%3d", x)
	}
	fmt.Println()

	for y := maxY; y >= minY; y-- {
		fmt.Printf("%3d ", y)
		for x := minX; x <= maxX; x++ {
			switch board.At(x, y) {
			case engine.X:
				fmt.Print(" X ")
			case engine.O:
				fmt.Print(" O ")
			default:
				fmt.Print(" . ")
			}
		}
		fmt.Println()
	}
	fmt.Println()
}

func parseMove(input string) (x, y int, ok bool) {
	fields := strings.Fields(input)
	if len(fields) != 2 {
		return 0, 0, false
	}
	x, errX := strconv.Atoi(fields[0])
	y, errY := strconv.Atoi(fields[1])
	return x, y, errX == nil && errY == nil
}

func formatTime(timeMs int64) string {
	if timeMs < 1000 {
		return fmt.Sprintf("%d ms", timeMs)
	}
	return fmt.Sprintf("%.2f s", float64(timeMs)/1000.0)
}

func decisionLabel(d engine.DecisionType) string {
	switch d {
	case engine.DecisionImmediateWin:
		return "Immediate win"
	case engine.DecisionImmediateBlock:
		return "Immediate block"
	case engine.DecisionDangerousThreat:
		return "Dangerous threat block"
	case engine.DecisionThreatSolver:
		return "Threat-based forced win"
	case engine.DecisionNegamax:
		return "Negamax search"
	default:
		return "Unknown"
	}
}

func printBriefReport(stats engine.SearchStats) {
	fmt.Printf("Time: %s | Method: %s", formatTime(stats.TimeMs), decisionLabel(stats.DecisionType))
	if stats.DecisionType == engine.DecisionNegamax {
		fmt.Printf(" (depth %d)", stats.DepthReached)
	}
	fmt.Println()
}

func printDetailedStats(stats engine.SearchStats) {
	fmt.Println()
	fmt.Println("=== Detailed Search Statistics ===")
	fmt.Printf("Decision method: %s\n", decisionLabel(stats.DecisionType))
	fmt.Printf("Time: %s\n", formatTime(stats.TimeMs))
	fmt.Printf("Nodes searched: %d\n", stats.NodesSearched)

	if stats.DecisionType == engine.DecisionNegamax {
		fmt.Printf("Depth reached: %d\n", stats.DepthReached)
		fmt.Printf("Final score: %d\n", stats.FinalScore)
		if len(stats.PrincipalVariation) > 0 {
			fmt.Print("Principal variation: ")
			for i, m := range stats.PrincipalVariation {
				if i >= 10 {
					break
				}
				fmt.Printf("(%d,%d) ", m.X, m.Y)
			}
			fmt.Println()
		}
	}
	fmt.Println("===================================")
	fmt.Println()
}

func main() {
	fmt.Println("=== Unbounded k-in-a-row Engine ===")
	fmt.Println()

	winLength := engine.DefaultConfig().WinLength
	if len(os.Args) > 1 {
		parsed, err := strconv.Atoi(os.Args[1])
		if err != nil {
			log.Printf("invalid win length argument %q, using default %d", os.Args[1], winLength)
		} else if parsed < 3 {
			fmt.Println("Win length must be at least 3. Using minimum: 3")
			winLength = 3
		} else if parsed > 20 {
			fmt.Println("Win length too large (max 20). Using maximum: 20")
			winLength = 20
		} else {
			winLength = parsed
		}
	}

	fmt.Printf("Win condition: %d in a row\n", winLength)
	fmt.Println("Commands: 'x y' to make move, 'quit' to exit")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	readLine := func() string {
		line, _ := reader.ReadString('\n')
		return strings.TrimRight(line, "\r\n")
	}

	fmt.Print("Choose your player (X or O, default X): ")
	playerChoice := readLine()

	humanPlayer, aiPlayer := engine.X, engine.O
	if playerChoice == "O" || playerChoice == "o" {
		humanPlayer, aiPlayer = engine.O, engine.X
		fmt.Println("You are playing as O, AI is X")
	} else {
		fmt.Println("You are playing as X, AI is O")
	}
	fmt.Println()

	fmt.Print("Who goes first? (you/ai, default you): ")
	firstMove := readLine()
	aiFirst := firstMove == "ai" || firstMove == "AI"

	fmt.Print("Enable detailed decision logs? (yes/no, default no): ")
	detailedChoice := readLine()
	detailedLogs := detailedChoice == "yes" || detailedChoice == "y" || detailedChoice == "Y"

	cfg := engine.DefaultConfig()
	cfg.WinLength = winLength
	board := engine.NewBoard(winLength)
	eng := engine.NewEngineWithConfig(cfg)
	currentPlayer := engine.X

	if aiFirst {
		fmt.Println("AI makes the first move...")
		if aiPlayer == engine.X {
			board.MakeMove(0, 0, engine.X)
			fmt.Println("AI plays: (0, 0)")
			fmt.Println()
			currentPlayer = engine.O
		}
	}

	for {
		printBoard(board)

		if board.IsTerminal() {
			history := board.History()
			last := history[len(history)-1]
			fmt.Printf("Player %s wins!\n", last.Player)
			break
		}

		if currentPlayer == humanPlayer {
			fmt.Printf("Player %s (You) to move.\n", currentPlayer)
			fmt.Print("Enter coordinates (x y): ")
			input := readLine()

			if input == "quit" || input == "q" || input == "exit" {
				break
			}

			x, y, ok := parseMove(input)
			if !ok {
				fmt.Println("Invalid input. Please enter two numbers: x y")
				continue
			}
			if !board.MakeMove(x, y, currentPlayer) {
				fmt.Println("Invalid move. Cell is already occupied or invalid.")
				continue
			}
		} else {
			fmt.Printf("Player %s (AI) is thinking...\n", currentPlayer)
			aiMove := eng.FindBestMove(board, currentPlayer, cfg.DefaultTimeMs)

			stats := eng.Stats()
			if board.MakeMove(aiMove.X, aiMove.Y, currentPlayer) {
				fmt.Printf("AI plays: (%d, %d)\n", aiMove.X, aiMove.Y)
				printBriefReport(stats)
				if detailedLogs {
					printDetailedStats(stats)
				} else {
					fmt.Println()
				}
			} else {
				fmt.Println("AI error: invalid move generated!")
				fmt.Printf("  Attempted move: (%d, %d)\n", aiMove.X, aiMove.Y)
				fmt.Printf("  Decision type: %s\n", decisionLabel(stats.DecisionType))
				fmt.Println("  This should not happen - fallback logic failed!")
				break
			}
		}

		currentPlayer = currentPlayer.Opponent()
	}

	fmt.Println("Game over. Thanks for playing!")
}
