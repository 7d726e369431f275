// Package state implements the board model of a connect-K match: a width x height grid, a run-length k
// needed to win and an optional gravity rule.
//
// A Board is logically immutable: PlacePiece returns a new Board and leaves the receiver untouched, so
// different branches of a search can share boards safely.
package state

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// PlayerNum identifies the owner of a cell or the winner of a match. PlayerNone is the zero value:
// it marks an empty cell, or no winner.
type PlayerNum uint8

const (
	PlayerNone PlayerNum = iota
	PlayerOne
	PlayerTwo
)

var playerNames = [...]string{"None", "One", "Two"}

// String returns the player name.
func (p PlayerNum) String() string {
	if int(p) < len(playerNames) {
		return playerNames[p]
	}
	return fmt.Sprintf("PlayerNum(%d)", p)
}

// Opponent returns the other player. PlayerNone has no opponent and returns PlayerNone.
func (p PlayerNum) Opponent() PlayerNum {
	switch p {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return PlayerNone
}

// Valid returns whether p is one of the two players.
func (p PlayerNum) Valid() bool {
	return p == PlayerOne || p == PlayerTwo
}

// Pos packages x (column), y (row) position. Row 0 is the bottom of the board.
type Pos [2]int

// NoPos is the sentinel for "no move": it is outside any board.
var NoPos = Pos{-1, -1}

// X coordinate (column) of the position.
func (pos Pos) X() int { return pos[0] }

// Y coordinate (row) of the position.
func (pos Pos) Y() int { return pos[1] }

// String returns a text representation of Pos.
func (pos Pos) String() string {
	if pos == NoPos {
		return "(none)"
	}
	return fmt.Sprintf("(%d, %d)", pos[0], pos[1])
}

// Board holds the cells of a match plus the rules (dimensions, k, gravity).
//
// Use NewBoard or FromCells to create one, and PlacePiece to play.
type Board struct {
	width, height, k int
	gravity          bool

	// cells are stored column-major: index x*height+y.
	cells []PlayerNum

	emptyCells int
	moveNumber int
	winner     PlayerNum
}

// MaxDimension is the largest width or height accepted.
const MaxDimension = 64

func validateRules(width, height, k int) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid board dimensions %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return errors.Errorf("board dimensions %dx%d larger than the maximum %d", width, height, MaxDimension)
	}
	if k <= 0 || (k > width && k > height) {
		return errors.Errorf("invalid k=%d for a %dx%d board: no line of k cells fits", k, width, height)
	}
	return nil
}

// NewBoard creates an empty board.
func NewBoard(width, height, k int, gravity bool) (*Board, error) {
	if err := validateRules(width, height, k); err != nil {
		return nil, err
	}
	return &Board{
		width:      width,
		height:     height,
		k:          k,
		gravity:    gravity,
		cells:      make([]PlayerNum, width*height),
		emptyCells: width * height,
		moveNumber: 1,
	}, nil
}

// FromCells creates a board from a column-major grid: columns[x][y] is the owner of cell (x, y).
//
// The cells are taken as they are: gravity is not applied, but with gravity enabled a piece over an
// empty cell is an error. The winner is found scanning the whole board.
func FromCells(columns [][]PlayerNum, k int, gravity bool) (*Board, error) {
	width := len(columns)
	if width == 0 {
		return nil, errors.New("no columns given")
	}
	height := len(columns[0])
	b, err := NewBoard(width, height, k, gravity)
	if err != nil {
		return nil, err
	}
	counts := [3]int{}
	for x, column := range columns {
		if len(column) != height {
			return nil, errors.Errorf("column %d has %d cells, expected %d", x, len(column), height)
		}
		for y, owner := range column {
			if owner > PlayerTwo {
				return nil, errors.Errorf("invalid owner %d at %s", owner, Pos{x, y})
			}
			if gravity && owner != PlayerNone && y > 0 && column[y-1] == PlayerNone {
				return nil, errors.Errorf("floating piece at %s on a board with gravity", Pos{x, y})
			}
			b.cells[b.index(x, y)] = owner
			counts[owner]++
		}
	}
	b.emptyCells = counts[PlayerNone]
	b.moveNumber = counts[PlayerOne] + counts[PlayerTwo] + 1
	winners := 0
	for x := range b.width {
		for y := range b.height {
			if owner := b.cells[b.index(x, y)]; owner != PlayerNone && b.wins(Pos{x, y}) {
				if b.winner != owner {
					winners++
				}
				b.winner = owner
			}
		}
	}
	if winners > 1 {
		return nil, errors.New("both players have a winning line")
	}
	return b, nil
}

func (b *Board) index(x, y int) int {
	return x*b.height + y
}

// Width of the board (number of columns).
func (b *Board) Width() int { return b.width }

// Height of the board (number of rows).
func (b *Board) Height() int { return b.height }

// KLength is the number of aligned pieces needed to win.
func (b *Board) KLength() int { return b.k }

// GravityEnabled returns whether pieces fall to the lowest empty cell of their column.
func (b *Board) GravityEnabled() bool { return b.gravity }

// Inside returns whether (x, y) is a cell of the board.
func (b *Board) Inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// SpaceOwner returns the owner of the cell (x, y), or PlayerNone if it is empty.
// It panics if (x, y) is outside the board.
func (b *Board) SpaceOwner(x, y int) PlayerNum {
	if !b.Inside(x, y) {
		panic(errors.Errorf("position %s outside %dx%d board", Pos{x, y}, b.width, b.height))
	}
	return b.cells[b.index(x, y)]
}

// EmptyCells returns the number of cells without a piece.
func (b *Board) EmptyCells() int { return b.emptyCells }

// IsEmpty returns whether no piece was placed yet.
func (b *Board) IsEmpty() bool { return b.emptyCells == b.width*b.height }

// MoveNumber starts at 1 and is incremented at every placed piece.
func (b *Board) MoveNumber() int { return b.moveNumber }

// NextPlayer to move, assuming PlayerOne starts and players alternate.
func (b *Board) NextPlayer() PlayerNum {
	if b.moveNumber%2 == 1 {
		return PlayerOne
	}
	return PlayerTwo
}

// Center cell of the board.
func (b *Board) Center() Pos {
	return Pos{b.width / 2, b.height / 2}
}

// Winner returns the player that aligned k pieces, or PlayerNone if the match is tied or still going.
func (b *Board) Winner() PlayerNum { return b.winner }

// IsFinished returns whether there is a winner or the board is full.
func (b *Board) IsFinished() bool {
	return b.winner != PlayerNone || b.emptyCells == 0
}

// IsTie returns whether the board is full without a winner.
func (b *Board) IsTie() bool {
	return b.winner == PlayerNone && b.emptyCells == 0
}

// HasMovesLeft returns whether there is any empty cell left.
func (b *Board) HasMovesLeft() bool { return b.emptyCells > 0 }

// DropRow returns the row where a piece dropped in column x would land, that is, the lowest empty cell
// of the column. It returns -1 if the column is full or x is outside the board.
func (b *Board) DropRow(x int) int {
	if x < 0 || x >= b.width {
		return -1
	}
	base := x * b.height
	for y := range b.height {
		if b.cells[base+y] == PlayerNone {
			return y
		}
	}
	return -1
}

// IsLegal returns whether a piece can be placed at pos. With gravity only the column is considered.
func (b *Board) IsLegal(pos Pos) bool {
	if b.winner != PlayerNone {
		return false
	}
	if b.gravity {
		return b.DropRow(pos.X()) >= 0
	}
	return b.Inside(pos.X(), pos.Y()) && b.cells[b.index(pos.X(), pos.Y())] == PlayerNone
}

// PlacePiece returns a new board with the player's piece placed at pos. The receiver is not modified.
//
// With gravity the row of pos is ignored and the piece lands on DropRow(pos.X()).
// It panics if the move is not legal, see IsLegal.
func (b *Board) PlacePiece(pos Pos, player PlayerNum) *Board {
	if !player.Valid() {
		panic(errors.Errorf("invalid player %s placing piece at %s", player, pos))
	}
	if b.gravity {
		pos = Pos{pos.X(), b.DropRow(pos.X())}
	}
	if !b.IsLegal(pos) {
		panic(errors.Errorf("illegal move %s for player %s on move #%d", pos, player, b.moveNumber))
	}
	newB := b.Clone()
	newB.cells[newB.index(pos.X(), pos.Y())] = player
	newB.emptyCells--
	newB.moveNumber++
	if newB.wins(pos) {
		newB.winner = player
	}
	return newB
}

// Clone makes a deep copy of the board.
func (b *Board) Clone() *Board {
	newB := &Board{}
	*newB = *b
	newB.cells = make([]PlayerNum, len(b.cells))
	copy(newB.cells, b.cells)
	return newB
}

// lineDirections are the four directions of a line: horizontal, vertical and the two diagonals.
var lineDirections = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {-1, 1}}

// wins returns whether the piece at pos is part of a line of k pieces of the same owner.
func (b *Board) wins(pos Pos) bool {
	owner := b.cells[b.index(pos.X(), pos.Y())]
	for _, dir := range lineDirections {
		count := 1
		for _, sign := range [2]int{1, -1} {
			x, y := pos.X()+sign*dir[0], pos.Y()+sign*dir[1]
			for b.Inside(x, y) && b.cells[b.index(x, y)] == owner {
				count++
				x, y = x+sign*dir[0], y+sign*dir[1]
			}
		}
		if count >= b.k {
			return true
		}
	}
	return false
}

// Equal returns whether both boards have the same rules and cells.
func (b *Board) Equal(b2 *Board) bool {
	if b.width != b2.width || b.height != b2.height || b.k != b2.k || b.gravity != b2.gravity {
		return false
	}
	for ii, owner := range b.cells {
		if b2.cells[ii] != owner {
			return false
		}
	}
	return true
}

// String renders the board as text, top row first: '.' for empty cells, '1' and '2' for the players.
func (b *Board) String() string {
	var sb strings.Builder
	for y := b.height - 1; y >= 0; y-- {
		for x := range b.width {
			switch b.cells[b.index(x, y)] {
			case PlayerOne:
				sb.WriteByte('1')
			case PlayerTwo:
				sb.WriteByte('2')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
