// Package heuristic implements a static positional scorer for connect-K boards, based on counting the lines
// of k cells each player can still complete, and the "threats" (lines one piece short of winning) when
// gravity is enabled.
package heuristic

import (
	"fmt"
	"math"

	"github.com/janpfeifer/connectk/internal/ai"
	. "github.com/janpfeifer/connectk/internal/state"
	"github.com/pkg/errors"
)

// Weights of each feature of the score.
type Weights struct {
	// Line is the weight of a winning line: k cells with at least one piece of a player and none of the
	// opponent.
	Line int

	// EvenThreat and OddThreat weight winning lines with k-1 pieces whose empty cell is on an even or odd
	// row. Only counted when gravity is enabled.
	EvenThreat, OddThreat int
}

// DefaultWeights used by Default.
var DefaultWeights = Weights{Line: 10, EvenThreat: 1, OddThreat: 1}

// MaxWeight is the largest absolute value of a weight. A board has at most 4*MaxDimension^2 lines, so with
// the three weights within this bound the score of an unfinished board stays strictly between ai.LossScore
// and ai.WinScore.
const MaxWeight = math.MaxInt / (3 * 4 * MaxDimension * MaxDimension)

// Validate returns an error if any weight is larger than MaxWeight in absolute value.
func (w Weights) Validate() error {
	for _, weight := range []int{w.Line, w.EvenThreat, w.OddThreat} {
		if weight > MaxWeight || weight < -MaxWeight {
			return errors.Errorf("invalid weights %+v: each must be within [-%d, %d]", w, MaxWeight, MaxWeight)
		}
	}
	return nil
}

// Scorer implements ai.BoardScorer.
type Scorer struct {
	Weights Weights
}

// Assert Scorer is an ai.BoardScorer.
var _ ai.BoardScorer = (*Scorer)(nil)

// Default scorer, using DefaultWeights.
var Default = New(DefaultWeights)

// New returns a Scorer with the given weights.
func New(weights Weights) *Scorer {
	return &Scorer{Weights: weights}
}

// String implements ai.BoardScorer.
func (s *Scorer) String() string {
	return fmt.Sprintf("heuristic(line=%d, even=%d, odd=%d)", s.Weights.Line, s.Weights.EvenThreat, s.Weights.OddThreat)
}

// Score implements ai.BoardScorer.
//
// Finished boards score ai.WinScore, ai.LossScore or ai.TieScore. Otherwise the features are counted from
// PlayerOne's point of view and the score is negated for PlayerTwo.
func (s *Scorer) Score(board *Board, player PlayerNum) int {
	if isEnd, score := ai.IsEndGameAndScore(board, player); isEnd {
		return score
	}
	counts := CountLines(board)
	w := s.Weights
	score := w.Line*(counts.P1Lines-counts.P2Lines) +
		w.EvenThreat*(counts.P1EvenThreats-counts.P2EvenThreats) +
		w.OddThreat*(counts.P1OddThreats-counts.P2OddThreats)
	if player != PlayerOne {
		score = -score
	}
	return score
}

// LineCounts holds the features counted over every line of k cells of a board.
type LineCounts struct {
	P1Lines, P2Lines            int
	P1EvenThreats, P1OddThreats int
	P2EvenThreats, P2OddThreats int
}

func (c *LineCounts) add(c2 LineCounts) {
	c.P1Lines += c2.P1Lines
	c.P2Lines += c2.P2Lines
	c.P1EvenThreats += c2.P1EvenThreats
	c.P1OddThreats += c2.P1OddThreats
	c.P2EvenThreats += c2.P2EvenThreats
	c.P2OddThreats += c2.P2OddThreats
}

// direction of a line: dx, dy. Lines are only scanned "upwards" (or rightwards for horizontal lines),
// so each line is visited once, from its start cell.
type direction struct{ dx, dy int }

var directions = [4]direction{
	{1, 0},  // Horizontal.
	{0, 1},  // Vertical.
	{1, 1},  // Diagonal up and to the right.
	{-1, 1}, // Diagonal up and to the left.
}

// CountLines visits every line of k cells of the board (each exactly once) and counts the winning lines
// and threats of each player. Threats are only counted if gravity is enabled.
func CountLines(board *Board) (counts LineCounts) {
	width, height, k := board.Width(), board.Height(), board.KLength()
	for x := range width {
		for y := range height {
			for _, dir := range directions {
				endX, endY := x+(k-1)*dir.dx, y+(k-1)*dir.dy
				if endX < 0 || endX >= width || endY >= height {
					continue
				}
				counts.add(scanLine(board, x, y, dir))
			}
		}
	}
	return
}

// scanLine counts the features of the line of k cells starting at (x, y) in the given direction.
// The line must fit the board.
func scanLine(board *Board, x, y int, dir direction) (counts LineCounts) {
	k := board.KLength()
	var pieces [3]int // Indexed by PlayerNum, PlayerNone counts empty cells.
	emptyY := -1
	for ii := 0; ii < k; ii++ {
		cx, cy := x+ii*dir.dx, y+ii*dir.dy
		owner := board.SpaceOwner(cx, cy)
		pieces[owner]++
		if owner == PlayerNone {
			emptyY = cy
		} else if pieces[PlayerOne] > 0 && pieces[PlayerTwo] > 0 {
			// Line blocked for both players.
			return
		}
	}

	// Threats are only meaningful with gravity, and on lines with a horizontal component.
	isThreat := func(player PlayerNum) bool {
		return board.GravityEnabled() && dir.dx != 0 && pieces[player] == k-1 && pieces[PlayerNone] == 1
	}
	switch {
	case pieces[PlayerOne] > 0 && pieces[PlayerTwo] == 0:
		counts.P1Lines = 1
		if isThreat(PlayerOne) {
			if emptyY%2 == 0 {
				counts.P1EvenThreats = 1
			} else {
				counts.P1OddThreats = 1
			}
		}
	case pieces[PlayerTwo] > 0 && pieces[PlayerOne] == 0:
		counts.P2Lines = 1
		if isThreat(PlayerTwo) {
			if emptyY%2 == 0 {
				counts.P2EvenThreats = 1
			} else {
				counts.P2OddThreats = 1
			}
		}
	}
	return
}
