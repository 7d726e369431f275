// Package cli implements a command-line UI for the game.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	. "github.com/janpfeifer/connectk/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// CharsPerColumn used when drawing the board.
const CharsPerColumn = 3

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len([]rune(ansiFilter.ReplaceAllString(s, "")))
}

func (ui *UI) printCentered(block string) {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	terminalWidth := 0
	if f, ok := ui.out.(*os.File); ok {
		terminalWidth, _, _ = term.GetSize(int(f.Fd()))
	}
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, displayWidth(line))
	}
	indent := max((terminalWidth-blockWidth)/2, 0)
	for _, line := range lines {
		if len(line) == 0 {
			fmt.Fprintln(ui.out)
			continue
		}
		fmt.Fprintf(ui.out, "%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// UI prints boards and reads moves from a terminal.
type UI struct {
	color  bool
	reader *bufio.Reader
	out    io.Writer
}

var (
	moveParser = regexp.MustCompile(`^\s*(\d+)(?:[\s,]+(\d+))?\s*$`)

	pieceStyles = [3]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	}
	pieceSymbols     = [3]string{"·", "●", "●"}
	pieceSymbolsMono = [3]string{".", "X", "O"}
)

// New creates a UI reading from stdin and writing to stdout.
func New(color bool) *UI {
	return NewWithIO(color, os.Stdin, os.Stdout)
}

// NewWithIO creates a UI reading from in and writing to out.
func NewWithIO(color bool, in io.Reader, out io.Writer) *UI {
	return &UI{
		color:  color,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Out is where the UI writes to.
func (ui *UI) Out() io.Writer { return ui.out }

// PlayerSymbol returns the (possibly colored) symbol of the player's pieces.
func (ui *UI) PlayerSymbol(player PlayerNum) string {
	if !ui.color {
		return pieceSymbolsMono[player]
	}
	return pieceStyles[player].Render(pieceSymbols[player])
}

// RenderBoard returns the board drawn as text, top row first, with column numbers below.
func (ui *UI) RenderBoard(board *Board) string {
	var sb strings.Builder
	for y := board.Height() - 1; y >= 0; y-- {
		if !board.GravityEnabled() {
			fmt.Fprintf(&sb, "%2d ", y)
		}
		for x := range board.Width() {
			sb.WriteString(centerString(ui.PlayerSymbol(board.SpaceOwner(x, y)), CharsPerColumn))
		}
		sb.WriteByte('\n')
	}
	if !board.GravityEnabled() {
		sb.WriteString("   ")
	}
	for x := range board.Width() {
		sb.WriteString(centerString(strconv.Itoa(x), CharsPerColumn))
	}
	sb.WriteByte('\n')
	return sb.String()
}

func centerString(s string, fit int) string {
	width := displayWidth(s)
	if width >= fit {
		return s
	}
	marginLeft := (fit - width) / 2
	marginRight := fit - width - marginLeft
	return strings.Repeat(" ", marginLeft) + s + strings.Repeat(" ", marginRight)
}

// PrintBoard prints the board centered in the terminal.
func (ui *UI) PrintBoard(board *Board) {
	ui.printCentered(ui.RenderBoard(board))
}

// PrintWinner prints the result of a finished match.
func (ui *UI) PrintWinner(board *Board) {
	fmt.Fprintln(ui.out)
	winner := board.Winner()
	var msg string
	if winner == PlayerNone {
		msg = "*** DRAW! ***"
	} else {
		msg = fmt.Sprintf("*** %s PLAYER %s WINS!! ***", ui.PlayerSymbol(winner), strings.ToUpper(winner.String()))
	}
	if ui.color {
		msg = lipgloss.NewStyle().
			Background(lipgloss.Color("13")).
			Foreground(lipgloss.Color("0")).
			Padding(1, 2).
			Render(msg)
	}
	ui.printCentered(msg)
	fmt.Fprintln(ui.out)
}

// ParseMove parses a move typed by the user: only the column with gravity, "column row" without.
func ParseMove(board *Board, text string) (Pos, error) {
	matches := moveParser.FindStringSubmatch(text)
	if matches == nil {
		return NoPos, errors.Errorf("failed to parse move %q", text)
	}
	x, _ := strconv.Atoi(matches[1])
	y := 0
	if board.GravityEnabled() {
		y = board.DropRow(x)
	} else {
		if matches[2] == "" {
			return NoPos, errors.Errorf("move %q needs a column and a row", text)
		}
		y, _ = strconv.Atoi(matches[2])
	}
	pos := Pos{x, y}
	if !board.IsLegal(pos) {
		return NoPos, errors.Errorf("move %s is not valid", pos)
	}
	return pos, nil
}

// ReadMove prompts the player for a move until a valid one is given. It fails after 3 invalid attempts, or
// if reading fails.
func (ui *UI) ReadMove(board *Board, player PlayerNum) (Pos, error) {
	prompt := "column"
	if !board.GravityEnabled() {
		prompt = "column row"
	}
	for range 3 {
		fmt.Fprintf(ui.out, "    %s %s > ", ui.PlayerSymbol(player), prompt)
		text, err := ui.reader.ReadString('\n')
		if err != nil {
			return NoPos, errors.Wrap(err, "failed to read move")
		}
		pos, err := ParseMove(board, strings.TrimSpace(text))
		if err == nil {
			return pos, nil
		}
		fmt.Fprintf(ui.out, "    * %v\n", err)
	}
	return NoPos, errors.New("failed to read a valid move 3 times")
}
