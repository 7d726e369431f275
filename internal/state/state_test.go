package state_test

import (
	"encoding/json"
	"testing"

	. "github.com/janpfeifer/connectk/internal/state"
	. "github.com/janpfeifer/connectk/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	b, err := NewBoard(7, 6, 4, true)
	require.NoError(t, err)
	assert.Equal(t, 7, b.Width())
	assert.Equal(t, 6, b.Height())
	assert.Equal(t, 4, b.KLength())
	assert.True(t, b.GravityEnabled())
	assert.True(t, b.IsEmpty())
	assert.Equal(t, 42, b.EmptyCells())
	assert.Equal(t, Pos{3, 3}, b.Center())
	assert.Equal(t, PlayerOne, b.NextPlayer())
	assert.False(t, b.IsFinished())

	for _, rules := range [][3]int{{0, 6, 4}, {7, -1, 4}, {3, 3, 4}, {3, 3, 0}, {MaxDimension + 1, 3, 3}} {
		_, err := NewBoard(rules[0], rules[1], rules[2], false)
		assert.Errorf(t, err, "rules %v should be invalid", rules)
	}
}

func TestPlacePieceGravity(t *testing.T) {
	b := EmptyBoard(3, 3, 3, true)
	assert.Equal(t, 0, b.DropRow(1))

	// With gravity the requested row is ignored.
	b2 := b.PlacePiece(Pos{1, 2}, PlayerOne)
	assert.Equal(t, PlayerOne, b2.SpaceOwner(1, 0))
	assert.Equal(t, PlayerNone, b2.SpaceOwner(1, 2))
	assert.Equal(t, 1, b2.DropRow(1))
	assert.Equal(t, PlayerTwo, b2.NextPlayer())

	// Receiver is not modified.
	assert.True(t, b.IsEmpty())
	assert.Equal(t, PlayerNone, b.SpaceOwner(1, 0))

	b3 := b2.PlacePiece(Pos{1, 0}, PlayerTwo).PlacePiece(Pos{1, 0}, PlayerOne)
	assert.Equal(t, -1, b3.DropRow(1))
	assert.False(t, b3.IsLegal(Pos{1, 0}))
	assert.Panics(t, func() { b3.PlacePiece(Pos{1, 0}, PlayerTwo) })
	assert.Equal(t, -1, b3.DropRow(5))
}

func TestPlacePieceNoGravity(t *testing.T) {
	b := EmptyBoard(3, 3, 3, false)
	b = b.PlacePiece(Pos{2, 2}, PlayerTwo)
	assert.Equal(t, PlayerTwo, b.SpaceOwner(2, 2))
	assert.Equal(t, 8, b.EmptyCells())
	assert.False(t, b.IsLegal(Pos{2, 2}))
	assert.False(t, b.IsLegal(Pos{3, 0}))
	assert.Panics(t, func() { b.PlacePiece(Pos{2, 2}, PlayerOne) })
	assert.Panics(t, func() { b.PlacePiece(Pos{0, 0}, PlayerNone) })
}

func TestWinner(t *testing.T) {
	// Vertical, with gravity.
	b := BuildBoard([][]int{{1, 1, 0}, {2, 2, 0}, {0, 0, 0}}, 3, true)
	assert.Equal(t, PlayerNone, b.Winner())
	b = b.PlacePiece(Pos{0, 0}, PlayerOne)
	assert.Equal(t, PlayerOne, b.Winner())
	assert.True(t, b.IsFinished())
	assert.False(t, b.IsLegal(Pos{2, 0}))

	// Diagonal up-left, no gravity: (2,0), (1,1), (0,2).
	b = BuildBoard([][]int{{0, 0, 2}, {0, 2, 0}, {0, 0, 0}}, 3, false)
	assert.Equal(t, PlayerNone, b.Winner())
	b = b.PlacePiece(Pos{2, 0}, PlayerTwo)
	assert.Equal(t, PlayerTwo, b.Winner())

	// Tie: full board without any line of 3.
	b = BuildBoard([][]int{{1, 2, 1}, {1, 2, 2}, {2, 1, 1}}, 3, false)
	assert.Equal(t, PlayerNone, b.Winner())
	assert.True(t, b.IsTie())
	assert.True(t, b.IsFinished())
	assert.False(t, b.HasMovesLeft())
}

func TestFromCells(t *testing.T) {
	columns := [][]PlayerNum{
		{PlayerOne, PlayerTwo, PlayerNone},
		{PlayerOne, PlayerNone, PlayerNone},
		{PlayerOne, PlayerNone, PlayerNone},
	}
	b, err := FromCells(columns, 3, true)
	require.NoError(t, err)
	assert.Equal(t, PlayerOne, b.Winner())
	assert.Equal(t, 5, b.MoveNumber())

	// Incremental detection agrees with the full scan.
	incremental := BuildBoard([][]int{{1, 2, 0}, {1, 0, 0}, {0, 0, 0}}, 3, true).PlacePiece(Pos{2, 0}, PlayerOne)
	assert.Equal(t, b.Winner(), incremental.Winner())
	assert.True(t, b.Equal(incremental))

	_, err = FromCells([][]PlayerNum{{PlayerNone, PlayerOne}}, 1, true)
	assert.Error(t, err, "floating piece with gravity")
	_, err = FromCells([][]PlayerNum{{PlayerOne}, {PlayerOne, PlayerTwo}}, 1, false)
	assert.Error(t, err, "ragged columns")
	_, err = FromCells([][]PlayerNum{{PlayerOne, PlayerTwo}}, 1, false)
	assert.Error(t, err, "both players won")
}

func TestJSON(t *testing.T) {
	b := BuildBoard([][]int{{1, 2, 0, 0}, {2, 0, 0, 0}, {1, 1, 0, 0}}, 3, true)
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"width":3,"height":4,"k":3,"gravity":true,"cells":[[1,2,0,0],[2,0,0,0],[1,1,0,0]]}`, string(data))

	var decoded Board
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, b.Equal(&decoded))
	assert.Equal(t, b.MoveNumber(), decoded.MoveNumber())

	require.NoError(t, json.Unmarshal([]byte(`{"width":7,"height":6,"k":4,"gravity":true}`), &decoded))
	assert.True(t, decoded.IsEmpty())

	assert.Error(t, json.Unmarshal([]byte(`{"width":2,"height":1,"k":1,"cells":[[1]]}`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`{"width":1,"height":1,"k":1,"cells":[[3]]}`), &decoded))
}

func TestString(t *testing.T) {
	b := BuildBoard([][]int{{1, 2}, {0, 0}, {2, 0}}, 2, true)
	assert.Equal(t, "2..\n1.2\n", b.String())
	assert.Equal(t, "(none)", NoPos.String())
	assert.Equal(t, "(1, 2)", Pos{1, 2}.String())
	assert.Equal(t, PlayerTwo, PlayerOne.Opponent())
	assert.Equal(t, PlayerNone, PlayerNone.Opponent())
}
