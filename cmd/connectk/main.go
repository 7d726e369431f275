package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/connectk/internal/players"
	. "github.com/janpfeifer/connectk/internal/state"
	"github.com/janpfeifer/connectk/internal/ui/cli"
	"github.com/janpfeifer/connectk/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagWidth     = flag.Int("width", 7, "Board width (number of columns).")
	flagHeight    = flag.Int("height", 6, "Board height (number of rows).")
	flagK         = flag.Int("k", 4, "Number of pieces in a line needed to win.")
	flagGravity   = flag.Bool("gravity", true, "Pieces drop to the lowest empty cell of the column.")
	flagWatch     = flag.Bool("watch", false, "Watch mode: AI vs AI playing")
	flagFirst     = flag.String("first", "", "Who plays first: human or ai. Default is random.")
	flagAIConfig  = flag.String("config", players.DefaultPlayerConfig, "AI configuration against which to play")
	flagAIConfig2 = flag.String("config2", players.DefaultPlayerConfig, "Second AI configuration, if playing AI vs AI with --watch")
	flagDeadline  = flag.Duration("deadline", 0, "Time given to the AI per move. If 0, the one configured for the AI is used.")
	flagColor     = flag.Bool("color", true, "Draw the board with colors.")

	// aiPlayers indexed by PlayerNum: if nil, it's a human playing.
	aiPlayers [3]*players.SearcherScorer

	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	// Capture Control+C
	var cancel func()
	globalCtx, cancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	createPlayers()
	board, err := NewBoard(*flagWidth, *flagHeight, *flagK, *flagGravity)
	if err != nil {
		klog.Exitf("Invalid board: %v", err)
	}
	ui := cli.New(*flagColor)

	// Loop over match.
	for !board.IsFinished() {
		if globalCtx.Err() != nil {
			klog.Exitf("Match interrupted: %v", globalCtx.Err())
		}
		playerNum := board.NextPlayer()
		aiPlayer := aiPlayers[playerNum]
		ui.PrintBoard(board)
		var move Pos
		if aiPlayer == nil {
			move, err = ui.ReadMove(board, playerNum)
			if err != nil {
				klog.Exitf("Failed to run match: %+v", err)
			}
		} else {
			deadline := aiPlayer.Deadline
			if *flagDeadline > 0 {
				deadline = *flagDeadline
			}
			fmt.Printf("\t%s %s: ", ui.PlayerSymbol(playerNum), aiPlayer)
			s := spinning.New(globalCtx, ui.Out())
			action, depth := aiPlayer.Think(globalCtx, board, deadline)
			s.Done()
			fmt.Printf("%s (value=%d, depth=%d)\n", action.Move, action.Value, depth)
			move = action.Move
		}
		board = board.PlacePiece(move, playerNum)
		fmt.Println()
	}

	ui.PrintBoard(board)
	ui.PrintWinner(board)
}

// createPlayers in aiPlayers.
func createPlayers() {
	if *flagWatch {
		aiPlayers[PlayerOne] = must.M1(players.New(*flagAIConfig, PlayerOne))
		aiPlayers[PlayerTwo] = must.M1(players.New(*flagAIConfig2, PlayerTwo))
		return
	}

	var aiPlayerNum PlayerNum
	switch strings.ToLower(*flagFirst) {
	case "human":
		aiPlayerNum = PlayerTwo
	case "ai":
		aiPlayerNum = PlayerOne
	case "":
		aiPlayerNum = PlayerNum(1 + rand.IntN(2))
	default:
		exceptions.Panicf("invalid --first=%q, only valid values are \"human\" or \"ai\"", *flagFirst)
	}
	aiPlayers[aiPlayerNum] = must.M1(players.New(*flagAIConfig, aiPlayerNum))
}
