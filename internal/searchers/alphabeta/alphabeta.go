// Package alphabeta implements an iterative deepening minimax search with alpha-beta pruning.
//
// See: wikipedia.org/wiki/Alpha-beta_pruning
package alphabeta

import (
	"context"
	"math"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/connectk/internal/ai"
	"github.com/janpfeifer/connectk/internal/searchers"
	. "github.com/janpfeifer/connectk/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrCancelled is returned by Search when its context is cancelled before the pass completes.
var ErrCancelled = errors.New("alpha-beta search cancelled")

// Searcher implements the searchers.Searcher interface.
//
// It holds one search session: the root board, the player to move on it, the depth of the last
// completed iteration and its best action. Reset it before each new search.
type Searcher struct {
	scorer   ai.BoardScorer
	maxDepth int

	board  *Board
	player PlayerNum
	depth  int
	best   searchers.Action
	stats  Stats
}

// Assert that Searcher implements searchers.Searcher.
var _ searchers.Searcher = (*Searcher)(nil)

// Stats stores running stats collected during the search: for benchmarking, monitoring and debugging purposes.
type Stats struct {
	// Nodes visited, including leaves.
	Nodes int

	// Leaves scored by the scorer, including finished boards.
	Leaves int

	// Prunes counts the nodes whose remaining moves were skipped.
	Prunes int

	// Passes completed, one per depth.
	Passes int
}

func (s *Stats) add(s2 Stats) {
	s.Nodes += s2.Nodes
	s.Leaves += s2.Leaves
	s.Prunes += s2.Prunes
	s.Passes += s2.Passes
}

// New returns an alpha-beta pruning based searchers.Searcher, using scorer to evaluate the leaves.
// There are other optional configurations, see methods Searcher.With...
func New(scorer ai.BoardScorer) *Searcher {
	return &Searcher{
		scorer: scorer,
		best:   searchers.NoAction,
	}
}

// WithMaxDepth limits the iterative deepening to maxDepth plies (ply singular): each player playing counts
// as one ply. See https://en.wikipedia.org/wiki/Ply_(game_theory).
//
// The default is 0, meaning no limit: Run only stops when cancelled or when the whole game tree was searched.
func (ab *Searcher) WithMaxDepth(maxDepth int) *Searcher {
	ab.maxDepth = max(maxDepth, 0)
	return ab
}

// Reset implements searchers.Searcher.
func (ab *Searcher) Reset(board *Board, player PlayerNum) {
	ab.board = board
	ab.player = player
	ab.depth = 0
	ab.best = searchers.NoAction
	ab.stats = Stats{}
}

// BestAction implements searchers.Searcher.
func (ab *Searcher) BestAction() searchers.Action { return ab.best }

// BestMove returns the move of BestAction.
func (ab *Searcher) BestMove() Pos { return ab.best.Move }

// Depth implements searchers.Searcher.
func (ab *Searcher) Depth() int { return ab.depth }

// Stats collected since the last Reset.
func (ab *Searcher) Stats() Stats { return ab.stats }

// Run implements searchers.Searcher.
//
// Each iteration searches the whole tree again from the root, one ply deeper than the last one. The best
// action is only replaced when an iteration completes: if ctx is cancelled in the middle of one, its partial
// result is discarded.
//
// An empty board is answered with its center without searching.
func (ab *Searcher) Run(ctx context.Context) {
	if ab.board == nil {
		exceptions.Panicf("alphabeta.Searcher.Run called without a board: Reset must be called first")
	}
	if !ab.player.Valid() {
		exceptions.Panicf("alphabeta.Searcher.Run called for invalid player %s", ab.player)
	}
	if ab.board.IsEmpty() {
		ab.best = searchers.Action{Move: ab.board.Center(), Value: 0}
		klog.V(2).Infof("Empty board, playing center %s", ab.best.Move)
		return
	}

	start := time.Now()
	for ab.maxDepth == 0 || ab.depth < ab.maxDepth {
		p := ab.newPass(ctx, ab.depth+1)
		action, err := p.recursion(ab.board, 0, math.MinInt, math.MaxInt, ab.player)
		ab.stats.add(p.stats)
		if err != nil {
			if klog.V(2).Enabled() {
				klog.Infof("Search for %s interrupted at depth %d (%s): %v", ab.player, p.limit, time.Since(start), err)
			}
			return
		}
		ab.best = action
		ab.depth = p.limit
		ab.stats.Passes++
		if klog.V(2).Enabled() {
			klog.Infof("Depth %d: best %s, %+v, %s", ab.depth, ab.best, ab.stats, time.Since(start))
		}
		if !p.truncated {
			// No branch was cut by the depth limit: a deeper pass would give the same answer.
			return
		}
	}
}

// Search runs one full alpha-beta pass from board, for player to move, down to depth limit plies.
// It returns the move to play and its value from player's point of view.
//
// With limit 0 the board itself is scored and the move is NoPos. It returns an error wrapping ErrCancelled
// if ctx is cancelled before it completes.
func (ab *Searcher) Search(ctx context.Context, board *Board, player PlayerNum, limit int) (searchers.Action, error) {
	p := &pass{
		ctx:    ctx,
		scorer: ab.scorer,
		player: player,
		limit:  limit,
	}
	return p.recursion(board, 0, math.MinInt, math.MaxInt, player)
}

func (ab *Searcher) newPass(ctx context.Context, limit int) *pass {
	return &pass{
		ctx:    ctx,
		scorer: ab.scorer,
		player: ab.player,
		limit:  limit,
	}
}

// pass holds what is fixed during one full search to a given depth limit.
type pass struct {
	ctx    context.Context
	scorer ai.BoardScorer
	player PlayerNum // Root player, all values are from its point of view.
	limit  int

	// truncated is set if any unfinished board was scored because it reached the depth limit.
	truncated bool
	stats     Stats
}

func (p *pass) leaf(board *Board) searchers.Action {
	p.stats.Leaves++
	return searchers.Action{Move: NoPos, Value: p.scorer.Score(board, p.player)}
}

// recursion of the alpha-beta pruning algorithm: current is the player to move on board, which is depth
// plies below the root.
//
// Nodes where current is the root player maximize the value, the others minimize it. The returned action
// holds the move played on board, not the one at the leaf.
func (p *pass) recursion(board *Board, depth, alpha, beta int, current PlayerNum) (searchers.Action, error) {
	if err := p.ctx.Err(); err != nil {
		return searchers.NoAction, errors.Wrapf(ErrCancelled, "at depth %d of %d: %v", depth, p.limit, err)
	}
	p.stats.Nodes++
	if board.IsFinished() {
		return p.leaf(board), nil
	}
	if depth >= p.limit {
		p.truncated = true
		return p.leaf(board), nil
	}
	moves := searchers.LegalMoves(board)
	if len(moves) == 0 {
		return p.leaf(board), nil
	}

	maximize := current == p.player
	opponent := current.Opponent()
	best := searchers.NoAction
	found := false
	for _, move := range moves {
		if err := p.ctx.Err(); err != nil {
			return searchers.NoAction, errors.Wrapf(ErrCancelled, "at depth %d of %d: %v", depth, p.limit, err)
		}
		newBoard := board.PlacePiece(move, current)
		if maximize {
			child, err := p.recursion(newBoard, depth+1, alpha, math.MaxInt, opponent)
			if err != nil {
				return searchers.NoAction, err
			}
			if !found || child.Value > best.Value {
				best = searchers.Action{Move: move, Value: child.Value}
				found = true
				alpha = max(alpha, child.Value)
				if alpha >= beta {
					// The minimizing parent already has a better option.
					p.stats.Prunes++
					return best, nil
				}
			}
		} else {
			child, err := p.recursion(newBoard, depth+1, math.MinInt, beta, opponent)
			if err != nil {
				return searchers.NoAction, err
			}
			if !found || child.Value < best.Value {
				best = searchers.Action{Move: move, Value: child.Value}
				found = true
				beta = min(beta, child.Value)
				if alpha >= beta {
					p.stats.Prunes++
					return best, nil
				}
			}
		}
	}
	return best, nil
}
