// Package server exposes the AI players over HTTP: a referee (or any other program) posts a board and gets
// back the move to play.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/connectk/internal/players"
	"github.com/janpfeifer/connectk/internal/searchers"
	. "github.com/janpfeifer/connectk/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Config of the server.
type Config struct {
	// PlayerConfig used when a request doesn't specify one. See players.New.
	PlayerConfig string

	// MaxDeadline accepted in a request, whether given by deadline_ms or by the "deadline" of the player
	// configuration.
	MaxDeadline time.Duration
}

// DefaultConfig used by New if none is given.
var DefaultConfig = Config{
	PlayerConfig: players.DefaultPlayerConfig,
	MaxDeadline:  time.Minute,
}

// MoveRequest is the body of POST /v1/move.
type MoveRequest struct {
	Board *Board `json:"board"`

	// Player to move, 1 or 2. If 0, it is inferred from the number of pieces on the board.
	Player PlayerNum `json:"player,omitempty"`

	// DeadlineMs is the time given to decide, in milliseconds. If 0, the player's configured deadline is used.
	DeadlineMs int64 `json:"deadline_ms,omitempty"`

	// Config of the AI player, see players.New. If empty the server's default is used.
	Config string `json:"config,omitempty"`
}

// MoveResponse is returned by POST /v1/move.
type MoveResponse struct {
	Move  Pos `json:"move"`
	Value int `json:"value"`
	Depth int `json:"depth"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server handles the HTTP requests.
type Server struct {
	config Config
	router chi.Router
}

// New creates a Server and its routes.
func New(config Config) *Server {
	s := &Server{config: config}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Post("/move", s.handleMove)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload: " + err.Error()})
		return
	}
	player, deadline, err := s.validate(&req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	config := req.Config
	if config == "" {
		config = s.config.PlayerConfig
	}
	aiPlayer, err := players.New(config, player)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if deadline == 0 {
		deadline = aiPlayer.Deadline
	}
	if deadline > s.config.MaxDeadline {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("deadline %s larger than the maximum %s", deadline, s.config.MaxDeadline)})
		return
	}

	var (
		action searchers.Action
		depth  int
	)
	err = exceptions.TryCatch[error](func() {
		action, depth = aiPlayer.Think(r.Context(), req.Board, deadline)
	})
	if err != nil {
		klog.Errorf("Request %s: search failed: %+v", middleware.GetReqID(r.Context()), err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, MoveResponse{Move: action.Move, Value: action.Value, Depth: depth})
}

// validate the request and return the player to move and the deadline (0 for the player's default).
// The deadline is checked against Config.MaxDeadline by the caller, once the default is resolved.
func (s *Server) validate(req *MoveRequest) (player PlayerNum, deadline time.Duration, err error) {
	if req.Board == nil {
		return PlayerNone, 0, errors.New("missing board")
	}
	if req.Board.IsFinished() {
		return PlayerNone, 0, errors.New("match is already finished")
	}
	player = req.Player
	if player == PlayerNone {
		player = req.Board.NextPlayer()
	} else if !player.Valid() {
		return PlayerNone, 0, errors.Errorf("invalid player %d", req.Player)
	}
	if req.DeadlineMs < 0 {
		return PlayerNone, 0, errors.Errorf("invalid deadline_ms=%d", req.DeadlineMs)
	}
	deadline = time.Duration(req.DeadlineMs) * time.Millisecond
	return
}

// logRequests logs each request with klog, at verbosity 1.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !klog.V(1).Enabled() {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		klog.Infof("%s %s %s: %d, %d bytes, %s", middleware.GetReqID(r.Context()), r.Method, r.URL.Path,
			ww.Status(), ww.BytesWritten(), time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		klog.Warningf("Failed to write response: %v", err)
	}
}
