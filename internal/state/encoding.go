package state

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// boardJSON is the serialized form of a Board: cells are column-major, 0 for empty, 1 and 2 for the
// players.
type boardJSON struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	K       int     `json:"k"`
	Gravity bool    `json:"gravity"`
	Cells   [][]int `json:"cells,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (b *Board) MarshalJSON() ([]byte, error) {
	enc := boardJSON{
		Width:   b.width,
		Height:  b.height,
		K:       b.k,
		Gravity: b.gravity,
		Cells:   make([][]int, b.width),
	}
	for x := range b.width {
		enc.Cells[x] = make([]int, b.height)
		for y := range b.height {
			enc.Cells[x][y] = int(b.cells[b.index(x, y)])
		}
	}
	return json.Marshal(enc)
}

// UnmarshalJSON implements json.Unmarshaler. If no cells are given, the board is empty.
func (b *Board) UnmarshalJSON(data []byte) error {
	var dec boardJSON
	if err := json.Unmarshal(data, &dec); err != nil {
		return errors.Wrap(err, "failed to decode board")
	}
	var (
		newB *Board
		err  error
	)
	if len(dec.Cells) == 0 {
		newB, err = NewBoard(dec.Width, dec.Height, dec.K, dec.Gravity)
	} else {
		if len(dec.Cells) != dec.Width {
			return errors.Errorf("board width %d but %d columns of cells given", dec.Width, len(dec.Cells))
		}
		columns := make([][]PlayerNum, len(dec.Cells))
		for x, column := range dec.Cells {
			columns[x] = make([]PlayerNum, len(column))
			for y, owner := range column {
				if owner < 0 || owner > int(PlayerTwo) {
					return errors.Errorf("invalid owner %d at %s", owner, Pos{x, y})
				}
				columns[x][y] = PlayerNum(owner)
			}
		}
		newB, err = FromCells(columns, dec.K, dec.Gravity)
		if err == nil && newB.height != dec.Height {
			err = errors.Errorf("board height %d but columns have %d cells", dec.Height, newB.height)
		}
	}
	if err != nil {
		return errors.WithMessage(err, "invalid board")
	}
	*b = *newB
	return nil
}
