// Package players provides a factory of AI players from configuration strings, and the time-bounded
// decision of a move.
package players

import (
	"context"
	"time"

	"github.com/janpfeifer/connectk/internal/ai/heuristic"
	"github.com/janpfeifer/connectk/internal/parameters"
	"github.com/janpfeifer/connectk/internal/searchers/alphabeta"
	. "github.com/janpfeifer/connectk/internal/state"
	"github.com/pkg/errors"
)

// Player is anything that is able to play the game.
type Player interface {
	// Decide returns the move to play on board, within deadline. It blocks until the move is chosen.
	Decide(ctx context.Context, board *Board, deadline time.Duration) Pos

	// String describes the player.
	String() string
}

const (
	// DefaultPlayerConfig is used if no configuration was given to the AI.
	DefaultPlayerConfig = "ab"

	// DefaultMargin is subtracted from the deadline given to Decide, to leave time for the search to unwind
	// and for the caller to collect the move.
	DefaultMargin = 200 * time.Millisecond

	// DefaultDeadline is the time per move used by front-ends when none is configured.
	DefaultDeadline = 5 * time.Second
)

// New creates a new AI player for playerNum given the configuration string.
//
// Args:
//
//   - config: a comma-separated list of parameters with optional values associated.
//     If empty, the default is given by DefaultPlayerConfig. E.g.: "ab,max_depth=4,margin=100ms".
//
// Parameters:
//
//   - ab (bool): Use the alpha-beta pruning searcher, the only one available and the default.
//   - max_depth (int): Max depth of the iterative deepening, default is 0, meaning limited only by time.
//   - margin (time.Duration): Time reserved from the deadline to unwind the search, default is 200ms.
//     A plain integer is taken as milliseconds.
//   - deadline (time.Duration): Time per move used by front-ends, default is 5s.
//   - line_weight, even_threat, odd_threat (int): Weights of the heuristic scorer, defaults are 10, 1 and 1.
//     Each must be within ±heuristic.MaxWeight.
func New(config string, playerNum PlayerNum) (*SearcherScorer, error) {
	if config == "" {
		config = DefaultPlayerConfig
	}
	if !playerNum.Valid() {
		return nil, errors.Errorf("invalid player %s", playerNum)
	}
	params := parameters.NewFromConfigString(config)
	wrap := func(err error) (*SearcherScorer, error) {
		return nil, errors.WithMessagef(err, "failed to create AI player from %q", config)
	}

	if _, err := parameters.PopParamOr(params, "ab", true); err != nil {
		return wrap(err)
	}
	maxDepth, err := parameters.PopParamOr(params, "max_depth", 0)
	if err != nil {
		return wrap(err)
	}
	margin, err := parameters.PopParamOr(params, "margin", DefaultMargin)
	if err != nil {
		return wrap(err)
	}
	deadline, err := parameters.PopParamOr(params, "deadline", DefaultDeadline)
	if err != nil {
		return wrap(err)
	}
	weights := heuristic.DefaultWeights
	for key, weight := range map[string]*int{
		"line_weight": &weights.Line,
		"even_threat": &weights.EvenThreat,
		"odd_threat":  &weights.OddThreat,
	} {
		if *weight, err = parameters.PopParamOr(params, key, *weight); err != nil {
			return wrap(err)
		}
	}
	if err = parameters.CheckAllUsed(params); err != nil {
		return wrap(err)
	}
	if maxDepth < 0 || margin < 0 || deadline <= 0 {
		return wrap(errors.Errorf("invalid max_depth=%d, margin=%s or deadline=%s", maxDepth, margin, deadline))
	}
	if err = weights.Validate(); err != nil {
		return wrap(err)
	}

	scorer := heuristic.New(weights)
	return &SearcherScorer{
		Searcher:  alphabeta.New(scorer).WithMaxDepth(maxDepth),
		Scorer:    scorer,
		PlayerNum: playerNum,
		Margin:    margin,
		Deadline:  deadline,
		config:    config,
	}, nil
}
