package players

import (
	"context"
	"fmt"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/connectk/internal/ai"
	"github.com/janpfeifer/connectk/internal/searchers"
	. "github.com/janpfeifer/connectk/internal/state"
	"k8s.io/klog/v2"
)

// SearcherScorer is a standard set up for an AI: a searcher and a scorer.
// It implements the Player interface.
//
// It holds one search session, so it must not be used by more than one goroutine at a time.
type SearcherScorer struct {
	Searcher  searchers.Searcher
	Scorer    ai.BoardScorer
	PlayerNum PlayerNum

	// Margin subtracted from the deadline to cancel the search.
	Margin time.Duration

	// Deadline per move, used by front-ends.
	Deadline time.Duration

	config string
}

// Assert that SearchScorer is a Player.
var _ Player = &SearcherScorer{}

// String implements Player.
func (s *SearcherScorer) String() string {
	return fmt.Sprintf("AI[%s, %q]", s.PlayerNum, s.config)
}

// Decide implements Player.
func (s *SearcherScorer) Decide(ctx context.Context, board *Board, deadline time.Duration) Pos {
	action, _ := s.Think(ctx, board, deadline)
	return action.Move
}

// Think runs the search on a separate goroutine, cancelling it Margin before deadline (or when ctx is
// cancelled), and waits for it to finish. It returns the best action found and the depth searched.
//
// If the search had no time to complete even one ply, each move is scored without further search, until
// the deadline itself. If that runs out too, the first legal move is played. So a legal move is returned
// whenever there is one, and NoPos only if the board has no legal moves.
func (s *SearcherScorer) Think(ctx context.Context, board *Board, deadline time.Duration) (action searchers.Action, depth int) {
	if board == nil {
		exceptions.Panicf("%s: no board given to decide on", s)
	}
	start := time.Now()
	deadlineCtx, deadlineCancel := context.WithDeadline(ctx, start.Add(deadline))
	defer deadlineCancel()
	searchCtx, cancel := context.WithDeadline(deadlineCtx, start.Add(deadline-s.Margin))
	defer cancel()

	s.Searcher.Reset(board, s.PlayerNum)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Searcher.Run(searchCtx)
	}()
	<-done
	action, depth = s.Searcher.BestAction(), s.Searcher.Depth()

	if action.Move == NoPos && !board.IsFinished() {
		klog.Warningf("%s: no search completed within %s, scoring moves without searching", s, deadline)
		action = s.scoreMoves(deadlineCtx, board)
	}
	if klog.V(1).Enabled() {
		klog.Infof("Move #%d: %s playing %s, value=%d, depth=%d (%s)",
			board.MoveNumber(), s, action.Move, action.Value, depth, time.Since(start))
	}
	return
}

// scoreMoves returns the move with the best score right after it is played, the first one in case of ties.
//
// It stops scoring when ctx is done, and returns the best move scored so far, or the first legal move if
// none was scored.
func (s *SearcherScorer) scoreMoves(ctx context.Context, board *Board) searchers.Action {
	moves := searchers.LegalMoves(board)
	if len(moves) == 0 {
		return searchers.NoAction
	}
	best := searchers.Action{Move: moves[0], Value: 0}
	for ii, move := range moves {
		if ctx.Err() != nil {
			klog.Warningf("%s: deadline reached after scoring %d of %d moves", s, ii, len(moves))
			break
		}
		value := s.Scorer.Score(board.PlacePiece(move, s.PlayerNum), s.PlayerNum)
		if ii == 0 || value > best.Value {
			best = searchers.Action{Move: move, Value: value}
		}
	}
	return best
}
