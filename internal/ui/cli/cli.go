// Package cli implements a command-line UI for the game.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/melyshu/trapthecat/internal/game"
	. "github.com/melyshu/trapthecat/internal/state"
	"golang.org/x/term"
)

// UI prints boards and reads the human player's input.
type UI struct {
	color, clearScreen bool
	in                 *bufio.Reader
	out                io.Writer
}

var (
	catStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Bold(true)
	obstacleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	rulerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Faint(true)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true).Italic(true)
)

// New creates a UI reading from os.Stdin and writing to os.Stdout.
func New(color bool, clearScreen bool) *UI {
	return NewWithIO(os.Stdin, os.Stdout, color, clearScreen)
}

// NewWithIO creates a UI that reads the human input from in and prints to out.
// The board is only centred if out is a terminal.
func NewWithIO(in io.Reader, out io.Writer, color bool, clearScreen bool) *UI {
	return &UI{
		color:       color,
		clearScreen: clearScreen,
		in:          bufio.NewReader(in),
		out:         out,
	}
}

// terminalWidth returns the width of the terminal ui.out is connected to, or 0 if it is not a terminal.
func (ui *UI) terminalWidth() int {
	f, ok := ui.out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// printCentered prints the block of text centred in the terminal.
func (ui *UI) printCentered(block string) {
	lines := strings.Split(strings.TrimSuffix(block, "\n"), "\n")
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, lipgloss.Width(line))
	}
	indent := max((ui.terminalWidth()-blockWidth)/2, 0)
	for _, line := range lines {
		if len(line) == 0 {
			_, _ = fmt.Fprintln(ui.out)
			continue
		}
		_, _ = fmt.Fprintf(ui.out, "%s%s\n", strings.Repeat(" ", indent), line)
	}
}

func (ui *UI) style(style lipgloss.Style, s string) string {
	if !ui.color {
		return s
	}
	return style.Render(s)
}

// Render the board with a ruler: column numbers on top and row numbers on the left.
// Cells use the same symbols as Board.String.
func (ui *UI) Render(board Board) string {
	var sb strings.Builder
	header := make([]string, NumColumns)
	for col := range NumColumns {
		header[col] = fmt.Sprintf("%d", col)
	}
	sb.WriteString("    " + ui.style(rulerStyle, strings.Join(header, " ")) + "\n")
	for row := range NumRows {
		sb.WriteString(ui.style(rulerStyle, fmt.Sprintf("%2d", row)) + "  ")
		if row%2 == 1 {
			sb.WriteByte(' ')
		}
		for col := range NumColumns {
			if col > 0 {
				sb.WriteByte(' ')
			}
			pos := Pos{int8(row), int8(col)}
			symbol := string(board.Symbol(pos))
			switch {
			case pos == board.CatPosition():
				symbol = ui.style(catStyle, symbol)
			case board.IsObstructed(pos):
				symbol = ui.style(obstacleStyle, symbol)
			default:
				symbol = ui.style(emptyStyle, symbol)
			}
			sb.WriteString(symbol)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PrintBoard prints the board centred, with a title.
func (ui *UI) PrintBoard(title string, board Board) {
	if ui.clearScreen {
		_, _ = fmt.Fprint(ui.out, "\033c")
	}
	_, _ = fmt.Fprintln(ui.out)
	if title != "" {
		ui.printCentered(ui.style(titleStyle, title))
		_, _ = fmt.Fprintln(ui.out)
	}
	ui.printCentered(ui.Render(board))
	_, _ = fmt.Fprintf(ui.out, "\n  Cat at %s, escape distance %s\n", board.CatPosition(), distanceString(board))
}

func distanceString(board Board) string {
	distance := EscapeDistance(board)
	if distance == Unreachable {
		return "unreachable"
	}
	return fmt.Sprintf("%d", distance)
}

// PrintTurn can be used as a game.Observer.
func (ui *UI) PrintTurn(board Board, turn game.Turn) {
	ui.PrintBoard(turn.String(), board)
}

// PrintOutcome prints a banner with the outcome of the match.
func (ui *UI) PrintOutcome(outcome game.Outcome, numTurns int) {
	var (
		msg   string
		color lipgloss.Color
	)
	switch outcome {
	case game.CatTrapped:
		msg = fmt.Sprintf("*** Succeeded! You trapped the cat in %d moves! ***", numTurns)
		color = "10"
	case game.CatEscaped:
		msg = fmt.Sprintf("*** Failed! The cat ran away after %d moves! ***", numTurns)
		color = "9"
	default:
		msg = fmt.Sprintf("*** %s after %d moves ***", outcome, numTurns)
		color = "13"
	}
	_, _ = fmt.Fprintln(ui.out)
	if ui.color {
		msg = lipgloss.NewStyle().
			Background(color).
			Foreground(lipgloss.Color("0")).
			Padding(1, 2).
			Render(msg)
	}
	ui.printCentered(msg)
	_, _ = fmt.Fprintln(ui.out)
}
