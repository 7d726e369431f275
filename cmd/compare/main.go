package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/janpfeifer/connectk/internal/players"
	"github.com/janpfeifer/connectk/internal/profilers"
	"github.com/janpfeifer/connectk/internal/state"
	"github.com/janpfeifer/connectk/internal/ui/cli"
	"github.com/janpfeifer/connectk/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var (
	flagPlayer1Config = flag.String("ai1", "", "1st player configuration.")
	flagPlayer2Config = flag.String("ai2", "", "2nd player configuration.")
	flagNumMatches    = flag.Int("num_matches", 20, "Number of matches to play.")
	flagParallelism   = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and play "+
		"these many matches simultaneously.")
	flagDeadline   = flag.Duration("deadline", time.Second, "Time given to each AI per move.")
	flagWidth      = flag.Int("width", 7, "Board width (number of columns).")
	flagHeight     = flag.Int("height", 6, "Board height (number of rows).")
	flagK          = flag.Int("k", 4, "Number of pieces in a line needed to win.")
	flagGravity    = flag.Bool("gravity", true, "Pieces drop to the lowest empty cell of the column.")
	flagPrintSteps = flag.Bool("print_steps", false, "Print board at each step. "+
		"Very verbose, and you probably want to set flagParallelism to 1.")
)

// Globals
var (
	// globalCtx used everywhere. It is cancelled when the program is about to exit either by
	// an interrupt (ctrl+C) or by reaching the end.
	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *flagPlayer1Config == "" || *flagPlayer2Config == "" {
		klog.Fatal("You must configure both players to compare with flags -ai1 and -ai2")
	}
	// Fail early on invalid configurations or board.
	for _, config := range []string{*flagPlayer1Config, *flagPlayer2Config} {
		must.M1(players.New(config, state.PlayerOne))
	}
	must.M1(newBoard())

	// Capture Control+C
	var globalCancel func()
	globalCtx, globalCancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(globalCancel, 5*time.Second)
	defer globalCancel()

	// Profilers: HTTP profiler server and CPU profile.
	prof := must.M1(profilers.Setup(globalCtx))
	defer prof.Stop()

	must.M(runMatches(globalCtx))
}

func newBoard() (*state.Board, error) {
	return state.NewBoard(*flagWidth, *flagHeight, *flagK, *flagGravity)
}

// Results of the matches played so far. AI-1 is index 0, AI-2 is index 1.
type Results struct {
	mu                   sync.Mutex
	start                time.Time
	winsAs1st, winsAs2nd [2]int
	draws                [2]int
	played, total        int
}

// WinRate of AI-1, counting draws as half a win, and its standard error.
func (r *Results) WinRate() (rate, stderr float32) {
	if r.played == 0 {
		return 0, 0
	}
	n := float32(r.played)
	wins := float32(r.winsAs1st[0]+r.winsAs2nd[0]) + 0.5*float32(r.draws[0]+r.draws[1])
	rate = wins / n
	stderr = math32.Sqrt(rate * (1 - rate) / n)
	return
}

func (r *Results) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Played %d of %d: ", r.played, r.total))
	for playerIdx := range 2 {
		parts = append(parts,
			fmt.Sprintf("AI-%d: %d Wins (1st: %d, 2nd: %d) / ",
				playerIdx+1, r.winsAs1st[playerIdx]+r.winsAs2nd[playerIdx],
				r.winsAs1st[playerIdx], r.winsAs2nd[playerIdx]))
	}
	parts = append(parts, fmt.Sprintf("%d draws (%d AI-1 as 1st, %d AI-2 as 1st) - ",
		r.draws[0]+r.draws[1], r.draws[0], r.draws[1]))
	rate, stderr := r.WinRate()
	parts = append(parts, fmt.Sprintf("AI-1 win rate %.1f%% ± %.1f%% - ", 100*rate, 100*stderr))
	parts = append(parts, fmt.Sprintf("%s", time.Since(r.start).Round(time.Millisecond)))
	parts = append(parts, "\033[0K")
	return strings.Join(parts, "")
}

// record the winner (PlayerOne or PlayerTwo, PlayerNone for a draw) of a match. If isSwapped AI-2 played
// first.
func (r *Results) record(winner state.PlayerNum, isSwapped bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	player1st := 0
	if isSwapped {
		player1st = 1
	}
	if winner == state.PlayerNone {
		r.draws[player1st]++
	} else {
		aiIdx := int(winner) - 1
		if isSwapped {
			aiIdx = 1 - aiIdx
		}
		if aiIdx == player1st {
			r.winsAs1st[aiIdx]++
		} else {
			r.winsAs2nd[aiIdx]++
		}
	}
	r.played++
}

func runMatches(ctx context.Context) error {
	r := &Results{
		start: time.Now(),
		total: *flagNumMatches,
	}
	var wg errgroup.Group
	wg.SetLimit(getParallelism())
	fmt.Printf("\r%s", r)

	for matchIdx := range r.total {
		wg.Go(func() error {
			configs := [2]string{*flagPlayer1Config, *flagPlayer2Config}
			isSwapped := matchIdx%2 == 1
			if isSwapped {
				configs[0], configs[1] = configs[1], configs[0]
			}
			winner, err := runMatch(ctx, matchIdx, configs)
			if err != nil || ctx.Err() != nil {
				return err
			}
			r.record(winner, isSwapped)
			r.mu.Lock()
			fmt.Printf("\r%s", r)
			r.mu.Unlock()
			return nil
		})
	}
	err := wg.Wait()
	fmt.Printf("\r%s", r)
	fmt.Println()
	if ctx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", ctx.Err())
		return nil
	}
	return err
}

var (
	stepUI   = cli.New(true)
	muStepUI sync.Mutex
)

// runMatch plays one match, with configs[0] playing first. Each match creates its own players, since a
// player holds the state of its search.
func runMatch(ctx context.Context, matchNum int, configs [2]string) (winner state.PlayerNum, err error) {
	if ctx.Err() != nil {
		// Already interrupted.
		return state.PlayerNone, nil
	}
	if klog.V(1).Enabled() {
		klog.Infof("Starting match %d", matchNum)
		defer klog.Infof("Finished match %d", matchNum)
	}
	var matchPlayers [3]*players.SearcherScorer
	for idx, config := range configs {
		playerNum := state.PlayerNum(idx + 1)
		if matchPlayers[playerNum], err = players.New(config, playerNum); err != nil {
			return
		}
	}
	board, err := newBoard()
	if err != nil {
		return
	}
	matchName := fmt.Sprintf("Match-%05d", matchNum)

	for !board.IsFinished() {
		if ctx.Err() != nil {
			klog.V(1).Infof("Match %d interrupted: %s", matchNum, ctx.Err())
			return state.PlayerNone, nil
		}
		playerNum := board.NextPlayer()
		move := matchPlayers[playerNum].Decide(ctx, board, *flagDeadline)
		if move == state.NoPos {
			// Only if ctx was cancelled, or there are no moves left, which IsFinished already covers.
			return state.PlayerNone, nil
		}
		board = board.PlacePiece(move, playerNum)
		if *flagPrintSteps {
			muStepUI.Lock()
			fmt.Printf("%s, move #%d: %s plays %s\n", matchName, board.MoveNumber()-1, playerNum, move)
			stepUI.PrintBoard(board)
			fmt.Println("------------------")
			muStepUI.Unlock()
		}
	}
	return board.Winner(), nil
}

// getParallelism returns the parallelism.
func getParallelism() (parallelism int) {
	parallelism = runtime.GOMAXPROCS(0)
	if *flagParallelism > 0 {
		parallelism = *flagParallelism
	}
	return
}
