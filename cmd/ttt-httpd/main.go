// Command ttt-httpd serves the engine over HTTP: a chi router exposes
// move/ai-move/state/settings endpoints backed by one long-lived game
// session, and a websocket endpoint pushes search statistics to
// subscribers as they happen. Grounded on the reference backend's
// main.go wiring (chi + gorilla/websocket, signal-driven graceful
// shutdown, gob-based cache persistence across restarts).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	cfgstore "github.com/nndbnb/unbounded-gomoku/internal/config"
	"github.com/nndbnb/unbounded-gomoku/internal/engine"
	"github.com/nndbnb/unbounded-gomoku/internal/session"
	"github.com/nndbnb/unbounded-gomoku/internal/statshub"
	"github.com/nndbnb/unbounded-gomoku/internal/ttstore"
)

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

type stateResponse struct {
	Cells      []cellDTO `json:"cells"`
	Bbox       bboxDTO   `json:"bbox"`
	ToMove     string    `json:"to_move"`
	IsTerminal bool      `json:"is_terminal"`
	Winner     string    `json:"winner,omitempty"`
	MoveCount  int       `json:"move_count"`
}

type moveRequest struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Player string `json:"player"`
}

type aiMoveRequest struct {
	Player string `json:"player"`
	TimeMs int    `json:"time_ms"`
}

type moveResponse struct {
	Applied bool          `json:"applied"`
	Error   string        `json:"error,omitempty"`
	Move    *cellDTO      `json:"move,omitempty"`
	State   stateResponse `json:"state"`
	Stats   *statsDTO     `json:"stats,omitempty"`
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

func playerString(p engine.Occupant) string {
	switch p {
	case engine.X:
		return "X"
	case engine.O:
		return "O"
	default:
		return ""
	}
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

func statsToDTO(stats engine.SearchStats) statsDTO {
	pv := make([]pvMoveDTO, 0, len(stats.PrincipalVariation))
	for _, m := range stats.PrincipalVariation {
		pv = append(pv, pvMoveDTO{X: m.X, Y: m.Y})
	}
	return statsDTO{
		TimeMs:             stats.TimeMs,
		DecisionType:       decisionTypeString(stats.DecisionType),
		DepthReached:       stats.DepthReached,
		NodesSearched:      stats.NodesSearched,
		FinalScore:         stats.FinalScore,
		PrincipalVariation: pv,
	}
}

func stateFromSession(sess *session.Session) stateResponse {
	var resp stateResponse
	sess.Snapshot(func(board *engine.Board, toMove engine.Occupant) {
		bbox := board.BoundingBox()
		resp.Bbox = bboxDTO{MinX: bbox.MinX, MaxX: bbox.MaxX, MinY: bbox.MinY, MaxY: bbox.MaxY}
		for _, pos := range board.OccupiedPositions() {
			resp.Cells = append(resp.Cells, cellDTO{X: pos.X, Y: pos.Y, Player: playerString(board.At(pos.X, pos.Y))})
		}
		resp.MoveCount = len(board.History())
		resp.ToMove = playerString(toMove)
		resp.IsTerminal = board.IsTerminal()
		if resp.IsTerminal {
			history := board.History()
			last := history[len(history)-1]
			if board.IsWin(last.X, last.Y, last.Player) {
				resp.Winner = playerString(last.Player)
			}
		}
	})
	if resp.Cells == nil {
		resp.Cells = []cellDTO{}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	ttPath := flag.String("tt-cache", "tt_cache.gob", "transposition table persistence path")
	flag.Parse()

	cfgStore := cfgstore.NewStore()
	sess := session.New(cfgStore.Get())

	if n, err := ttstore.Load(*ttPath, sess.WinLength(), sess.Engine().TT()); err != nil {
		log.Printf("[ttt-httpd] tt load failed: %v", err)
	} else if n > 0 {
		log.Printf("[ttt-httpd] tt loaded: %d entries", n)
	}

	hub := statshub.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx.Done())

	var persistOnce sync.Once
	persist := func(reason string) {
		persistOnce.Do(func() {
			log.Printf("[ttt-httpd] persisting tt cache on %s", reason)
			if err := ttstore.Save(*ttPath, sess.WinLength(), sess.Engine().TT()); err != nil {
				log.Printf("[ttt-httpd] tt save failed: %v", err)
			}
		})
	}
	defer persist("exit")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stateFromSession(sess))
	})

	r.Get("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cfgStore.Get())
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var cfg engine.Config
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		cfgStore.Update(cfg)
		sess.Reset(cfg)
		writeJSON(w, http.StatusOK, cfgStore.Get())
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload moveRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		player, ok := parsePlayer(payload.Player)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid player"})
			return
		}
		applied := sess.ApplyMove(payload.X, payload.Y, player)
		resp := moveResponse{Applied: applied, State: stateFromSession(sess)}
		if !applied {
			resp.Error = fmt.Sprintf("cell (%d, %d) is occupied or invalid", payload.X, payload.Y)
			writeJSON(w, http.StatusBadRequest, resp)
			return
		}
		resp.Move = &cellDTO{X: payload.X, Y: payload.Y, Player: playerString(player)}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Post("/api/ai-move", func(w http.ResponseWriter, r *http.Request) {
		var payload aiMoveRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		player, ok := parsePlayer(payload.Player)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid player"})
			return
		}
		timeMs := payload.TimeMs
		if timeMs <= 0 {
			timeMs = cfgStore.Get().DefaultTimeMs
		}

		move, stats, applied := sess.FindAndApplyAIMove(player, timeMs)
		dto := statsToDTO(stats)
		resp := moveResponse{Applied: applied, State: stateFromSession(sess), Stats: &dto}
		if !applied {
			resp.Error = fmt.Sprintf("engine returned illegal move (%d, %d)", move.X, move.Y)
			writeJSON(w, http.StatusInternalServerError, resp)
			return
		}
		resp.Move = &cellDTO{X: move.X, Y: move.Y, Player: playerString(player)}
		writeJSON(w, http.StatusOK, resp)

		hub.Publish(map[string]any{"stats": dto, "move": resp.Move})
	})

	r.Get("/api/ws/stats", func(w http.ResponseWriter, r *http.Request) {
		serveStatsWS(hub, w, r)
	})

	server := &http.Server{Addr: *addr, Handler: r}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Printf("ttt-httpd listening on %s", *addr)
	select {
	case <-sigCtx.Done():
		log.Printf("[ttt-httpd] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			log.Printf("[ttt-httpd] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[ttt-httpd] graceful shutdown failed: %v", err)
		_ = server.Close()
	}

	cancel()
	persist("shutdown")
}

func serveStatsWS(hub *statshub.Hub, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := hub.NewClient()
	hub.Register(client)

	go func() {
		defer conn.Close()
		_ = statshub.WritePump(conn, client)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}
