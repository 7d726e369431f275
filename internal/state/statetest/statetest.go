// Package statetest provides helper functions to create tests using connect-K boards.
package statetest

import (
	. "github.com/janpfeifer/connectk/internal/state"
	"github.com/janpfeifer/must"
)

// BuildBoard from a column-major layout: layout[x][y] is the owner (0, 1 or 2) of cell (x, y).
//
// Pieces are placed one at a time with PlacePiece, scanning columns in order, so with gravity they
// fall to the bottom of their column: {{0, 1, 0}} yields a piece at (0, 0).
func BuildBoard(layout [][]int, k int, gravity bool) *Board {
	b := must.M1(NewBoard(len(layout), len(layout[0]), k, gravity))
	for x, column := range layout {
		for y, owner := range column {
			if owner != 0 {
				b = b.PlacePiece(Pos{x, y}, PlayerNum(owner))
			}
		}
	}
	return b
}

// EmptyBoard returns a new empty board, and panics if the rules are invalid.
func EmptyBoard(width, height, k int, gravity bool) *Board {
	return must.M1(NewBoard(width, height, k, gravity))
}
