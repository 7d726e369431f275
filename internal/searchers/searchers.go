// Package searchers defines the interface of the search algorithms, the Action they produce, and the
// generation of candidate moves shared by them.
package searchers

import (
	"context"
	"fmt"

	. "github.com/janpfeifer/connectk/internal/state"
)

// Action pairs a move with its value, from the point of view of the player searching.
// It is a value type: compare with == or Equal.
type Action struct {
	Move  Pos
	Value int
}

// NoAction is the action recorded before any search completes: no move, value 0.
var NoAction = Action{Move: NoPos}

// Equal returns whether both actions have the same move and value.
func (a Action) Equal(a2 Action) bool {
	return a == a2
}

// String returns a text representation of the action.
func (a Action) String() string {
	return fmt.Sprintf("Action[move=%s, value=%d]", a.Move, a.Value)
}

// Searcher is the interface that any of the search algorithms must adhere to be valid.
//
// A Searcher holds the state of one search session. It is not safe for concurrent use: Run must have
// returned before BestAction or Depth are called.
type Searcher interface {
	// Reset discards any previous search and adopts board as the root, to be played by player.
	// After Reset, BestAction returns NoAction.
	Reset(board *Board, player PlayerNum)

	// Run searches from the root until ctx is cancelled or there is nothing more to search.
	// Cancellation is not an error: the best action of the last completed iteration is kept.
	Run(ctx context.Context)

	// BestAction found by the last completed iteration of Run.
	BestAction() Action

	// Depth in plies of the last completed iteration of Run.
	Depth() int
}

// LegalMoves returns the candidate moves of the board in a fixed order.
//
// With gravity there is at most one move per column, the lowest empty cell, in ascending column order.
// Without gravity every empty cell is a move, scanned column-major in ascending order.
func LegalMoves(board *Board) []Pos {
	width, height := board.Width(), board.Height()
	if board.GravityEnabled() {
		moves := make([]Pos, 0, width)
		for x := range width {
			if y := board.DropRow(x); y >= 0 {
				moves = append(moves, Pos{x, y})
			}
		}
		return moves
	}
	moves := make([]Pos, 0, board.EmptyCells())
	for x := range width {
		for y := range height {
			if board.SpaceOwner(x, y) == PlayerNone {
				moves = append(moves, Pos{x, y})
			}
		}
	}
	return moves
}
