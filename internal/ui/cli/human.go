package cli

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/melyshu/trapthecat/internal/players"
	. "github.com/melyshu/trapthecat/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// MaxInputErrors is the number of invalid inputs accepted from the human player before giving up.
const MaxInputErrors = 3

var positionParser = regexp.MustCompile(`^\s*\(?\s*(-?\d+)[\s,]+(-?\d+)\s*\)?\s*$`)

// ParsePosition parses "row col" (also accepts "row,col" and "(row, col)"), and checks that the position
// is within the board.
func ParsePosition(text string) (Pos, error) {
	matches := positionParser.FindStringSubmatch(text)
	if len(matches) != 3 {
		return Pos{}, errors.Errorf("can't parse %q, type the row and column of the cell, e.g. \"3 4\"", strings.TrimSpace(text))
	}
	var pos Pos
	for ii := range 2 {
		value, err := strconv.ParseInt(matches[1+ii], 10, 8)
		if err != nil {
			return Pos{}, errors.Wrapf(err, "can't parse %q", matches[1+ii])
		}
		pos[ii] = int8(value)
	}
	if !pos.IsValid() {
		return Pos{}, errors.Errorf("%s is out of the board, rows go from 0 to %d and columns from 0 to %d",
			pos, NumRows-1, NumColumns-1)
	}
	return pos, nil
}

// Human is a players.Player that asks the user where to place obstacles.
type Human struct {
	ui *UI
}

// Assert Human is a players.Player.
var _ players.Player = (*Human)(nil)

// NewHuman creates a human player that reads its moves from the UI.
func (ui *UI) NewHuman() *Human {
	return &Human{ui: ui}
}

// ProposeMove implements players.Player. It retries up to MaxInputErrors times on invalid input,
// so the returned position is always a legal placement.
func (h *Human) ProposeMove(ctx context.Context, board Board) (Pos, error) {
	const (
		inputAreaColor = "\033[30;45;2m"        // Purplish background
		inputAreaReset = "\033[39;49;0m\033[0K" // Reset color and clear to the end-of-line.
		inputWidth     = 10
	)
	ui := h.ui
	for range MaxInputErrors {
		if err := ctx.Err(); err != nil {
			return Pos{}, err
		}
		_, _ = fmt.Fprint(ui.out, "    Obstacle (row col) > ")
		if ui.color {
			// Print "input area" in purple, and move the cursor back to the beginning of the input area.
			_, _ = fmt.Fprintf(ui.out, "%s%s\033[%dD", inputAreaColor, strings.Repeat(" ", inputWidth), inputWidth-1)
		}
		text, err := ui.in.ReadString('\n')
		if ui.color {
			_, _ = fmt.Fprint(ui.out, inputAreaReset)
		}
		if err != nil {
			return Pos{}, errors.Wrap(err, "failed to read player's input")
		}
		pos, err := ParsePosition(text)
		if err != nil {
			_, _ = fmt.Fprintf(ui.out, "    * %v\n", err)
			continue
		}
		switch {
		case pos == board.CatPosition():
			_, _ = fmt.Fprintf(ui.out, "    * The cat is at %s, choose another cell\n", pos)
			continue
		case board.IsObstructed(pos):
			_, _ = fmt.Fprintf(ui.out, "    * There is already an obstacle at %s\n", pos)
			continue
		}
		klog.V(1).Infof("Human placed obstacle at %s", pos)
		return pos, nil
	}
	return Pos{}, errors.Errorf("failed to read a valid placement %d times", MaxInputErrors)
}

// Finalize implements players.Player.
func (h *Human) Finalize() {}
