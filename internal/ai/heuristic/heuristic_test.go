package heuristic_test

import (
	"math"
	"testing"

	"github.com/janpfeifer/connectk/internal/ai"
	"github.com/janpfeifer/connectk/internal/ai/heuristic"
	. "github.com/janpfeifer/connectk/internal/state"
	. "github.com/janpfeifer/connectk/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

func TestScore(t *testing.T) {
	testCases := []struct {
		name    string
		layout  [][]int
		gravity bool
		want    int
	}{
		{"Empty", [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, false, 0},
		{"Center", [][]int{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}}, false, 40},
		{"Corner 1, center 2", [][]int{{1, 0, 0}, {0, 2, 0}, {0, 0, 0}}, false, -10},
		{"Empty with gravity", [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, true, 0},
		{"Middle column with gravity", [][]int{{0, 0, 0}, {0, 0, 1}, {0, 0, 0}}, true, 20},
		{"Corner with gravity", [][]int{{1, 0, 0}, {0, 0, 0}, {0, 0, 0}}, true, 30},
		{"Even threat with gravity", [][]int{{0, 1, 0}, {0, 1, 0}, {0, 0, 0}}, true, 41},
		{"Even and odd threats with gravity", [][]int{{1, 1, 0}, {1, 1, 0}, {0, 0, 0}}, true, 63},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := BuildBoard(tc.layout, 3, tc.gravity)
			assert.Equal(t, tc.want, heuristic.Default.Score(b, PlayerOne))
			assert.Equal(t, -tc.want, heuristic.Default.Score(b, PlayerTwo))
		})
	}
}

func TestCountLines(t *testing.T) {
	// Pieces of player one at (0,0), (0,1), (1,0), (1,1).
	b := BuildBoard([][]int{{1, 1, 0}, {1, 1, 0}, {0, 0, 0}}, 3, true)
	counts := heuristic.CountLines(b)
	assert.Equal(t, heuristic.LineCounts{P1Lines: 6, P1EvenThreats: 2, P1OddThreats: 1}, counts)

	// Without gravity threats are not counted.
	b = BuildBoard([][]int{{1, 1, 0}, {1, 1, 0}, {0, 0, 0}}, 3, false)
	counts = heuristic.CountLines(b)
	assert.Equal(t, heuristic.LineCounts{P1Lines: 6}, counts)

	// Vertical lines never count as threats: column 0 has 2 pieces of player two.
	b = BuildBoard([][]int{{2, 2, 0}, {0, 0, 0}, {0, 0, 0}}, 3, true)
	counts = heuristic.CountLines(b)
	assert.Equal(t, 0, counts.P2EvenThreats+counts.P2OddThreats)
	assert.Equal(t, 4, counts.P2Lines)

	// Lines running off the board are skipped: a 4x1 board with k=3 has only 2 horizontal lines.
	b = BuildBoard([][]int{{1}, {0}, {0}, {0}}, 3, false)
	assert.Equal(t, heuristic.LineCounts{P1Lines: 1}, heuristic.CountLines(b))
	b = BuildBoard([][]int{{0}, {1}, {0}, {0}}, 3, false)
	assert.Equal(t, heuristic.LineCounts{P1Lines: 2}, heuristic.CountLines(b))
}

func TestScoreFinished(t *testing.T) {
	// Player two wins on column 2.
	b := BuildBoard([][]int{{1, 1, 0}, {1, 0, 0}, {2, 2, 0}}, 3, true)
	b = b.PlacePiece(Pos{2, 0}, PlayerTwo)
	assert.Equal(t, PlayerTwo, b.Winner())
	assert.Equal(t, math.MaxInt, heuristic.Default.Score(b, PlayerTwo))
	assert.Equal(t, math.MinInt, heuristic.Default.Score(b, PlayerOne))

	// Tie.
	b = BuildBoard([][]int{{1, 2, 1}, {1, 2, 2}, {2, 1, 1}}, 3, false)
	assert.True(t, b.IsTie())
	assert.Equal(t, ai.TieScore, heuristic.Default.Score(b, PlayerOne))
	assert.Equal(t, ai.TieScore, heuristic.Default.Score(b, PlayerTwo))
}

func TestScoreDeterministic(t *testing.T) {
	b := BuildBoard([][]int{{1, 2, 1, 0}, {2, 1, 0, 0}, {0, 0, 0, 0}, {2, 0, 0, 0}}, 3, true)
	want := heuristic.Default.Score(b, PlayerOne)
	for range 10 {
		assert.Equal(t, want, heuristic.Default.Score(b, PlayerOne))
		assert.Equal(t, -want, heuristic.Default.Score(b, PlayerTwo))
	}
}

func TestWeights(t *testing.T) {
	s := heuristic.New(heuristic.Weights{Line: 1, EvenThreat: 100, OddThreat: 1000})
	b := BuildBoard([][]int{{1, 1, 0}, {1, 1, 0}, {0, 0, 0}}, 3, true)
	assert.Equal(t, 6+2*100+1000, s.Score(b, PlayerOne))
	assert.Equal(t, "heuristic(line=1, even=100, odd=1000)", s.String())
}

func TestValidateWeights(t *testing.T) {
	assert.NoError(t, heuristic.DefaultWeights.Validate())
	assert.Error(t, heuristic.Weights{Line: heuristic.MaxWeight + 1}.Validate())
	assert.Error(t, heuristic.Weights{Line: 10, OddThreat: -heuristic.MaxWeight - 1}.Validate())

	// The largest weights on the largest board still score below the terminal values.
	maxWeights := heuristic.Weights{Line: heuristic.MaxWeight, EvenThreat: heuristic.MaxWeight, OddThreat: heuristic.MaxWeight}
	require.NoError(t, maxWeights.Validate())
	s := heuristic.New(maxWeights)
	b := EmptyBoard(MaxDimension, MaxDimension, 2, false).PlacePiece(Pos{10, 10}, PlayerOne)
	score := s.Score(b, PlayerOne)
	assert.Positive(t, score)
	assert.Less(t, score, ai.WinScore)
	assert.Greater(t, s.Score(b, PlayerTwo), ai.LossScore)
}
