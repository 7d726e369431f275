// Package ai (Artificial Intelligence) defines the interfaces that board scorers used by the searchers
// have to implement, and the scores of finished matches.
package ai

import (
	"math"

	. "github.com/janpfeifer/connectk/internal/state"
)

const (
	// WinScore is the score of a board won by the player the score is computed for. No heuristic score
	// can reach it.
	WinScore = math.MaxInt

	// LossScore is the score of a board won by the opponent.
	LossScore = math.MinInt

	// TieScore is the score of a full board without winner.
	TieScore = 0
)

// BoardScorer returns how desirable a board is for the given player: higher is better.
//
// Implementations must be pure: the same board and player always yield the same score.
type BoardScorer interface {
	Score(board *Board, player PlayerNum) int
	String() string
}

// IsEndGameAndScore returns whether the board is finished, and if so the score for player:
// WinScore, LossScore or TieScore.
func IsEndGameAndScore(board *Board, player PlayerNum) (isEnd bool, score int) {
	if !board.IsFinished() {
		return false, 0
	}
	switch board.Winner() {
	case PlayerNone:
		return true, TieScore
	case player:
		return true, WinScore
	}
	return true, LossScore
}
