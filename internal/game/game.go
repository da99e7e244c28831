// Package game implements the match loop: the player places an obstacle, the cat moves, until the
// cat is trapped or escapes.
package game

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/melyshu/trapthecat/internal/players"
	"github.com/melyshu/trapthecat/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Outcome of a match.
type Outcome uint8

const (
	// Undecided means the match is still ongoing.
	Undecided Outcome = iota

	// CatTrapped means the player won: the cat has no move left.
	CatTrapped

	// CatEscaped means the cat reached an edge cell.
	CatEscaped

	// Interrupted means the match was cancelled before it finished.
	Interrupted
)

var outcomeNames = []string{"Undecided", "CatTrapped", "CatEscaped", "Interrupted"}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", o)
}

// Turn records one turn of the match.
type Turn struct {
	// Number of the turn, starting from 1.
	Number int

	// Placement of the obstacle by the player.
	Placement state.Pos

	// CatFrom and CatTo are the cat positions before and after its move. If the cat
	// couldn't move, CatMoved is false and CatTo == CatFrom.
	CatFrom, CatTo state.Pos
	CatMoved       bool
}

// String implements fmt.Stringer.
func (t Turn) String() string {
	if !t.CatMoved {
		return fmt.Sprintf("#%d: obstacle at %s, cat trapped at %s", t.Number, t.Placement, t.CatFrom)
	}
	return fmt.Sprintf("#%d: obstacle at %s, cat %s -> %s", t.Number, t.Placement, t.CatFrom, t.CatTo)
}

// Observer is called after every turn, with the board after the cat moved.
type Observer func(board state.Board, turn Turn)

// Match holds the state of one game.
type Match struct {
	Name   string
	Player players.Player

	// Board is the live board, updated at each turn.
	Board state.Board

	// History of the turns played so far.
	History []Turn

	observer Observer
	edges    []state.Pos
}

// NewMatch creates a match for the player starting at the given board.
func NewMatch(name string, player players.Player, board state.Board) *Match {
	return &Match{
		Name:   name,
		Player: player,
		Board:  board,
		edges:  state.EdgeCells(),
	}
}

// WithObserver sets a function to be called after every turn, typically to print the board.
func (m *Match) WithObserver(observer Observer) *Match {
	m.observer = observer
	return m
}

// Outcome of the match at its current state.
func (m *Match) Outcome() Outcome {
	if m.Board.CatEscaped() {
		return CatEscaped
	}
	if n := len(m.History); n > 0 && !m.History[n-1].CatMoved {
		return CatTrapped
	}
	return Undecided
}

// PlayTurn asks the player for a placement, applies it, and then moves the cat.
//
// It returns an error wrapping state.ErrIllegalPlacement if the player proposes an illegal placement.
func (m *Match) PlayTurn(ctx context.Context) (Turn, error) {
	if outcome := m.Outcome(); outcome != Undecided {
		return Turn{}, errors.Errorf("match %q already finished: %s", m.Name, outcome)
	}
	turn := Turn{Number: len(m.History) + 1, CatFrom: m.Board.CatPosition()}
	placement, err := m.Player.ProposeMove(ctx, m.Board)
	if err != nil {
		return Turn{}, errors.WithMessagef(err, "match %q, turn #%d", m.Name, turn.Number)
	}
	if !m.Board.PlaceObstacle(placement) {
		return Turn{}, errors.Wrapf(state.ErrIllegalPlacement, "match %q, turn #%d: player proposed %s",
			m.Name, turn.Number, placement)
	}
	turn.Placement = placement
	turn.CatTo, turn.CatMoved = state.CatMove(m.Board, m.edges)
	if turn.CatMoved {
		m.Board.MoveCat(turn.CatTo)
	} else {
		turn.CatTo = turn.CatFrom
	}
	m.History = append(m.History, turn)
	if klog.V(1).Enabled() {
		klog.Infof("Match %q: %s", m.Name, turn)
	}
	if m.observer != nil {
		m.observer(m.Board, turn)
	}
	return turn, nil
}

// Play turns until the cat is trapped or escapes, or the context is cancelled.
// Player.Finalize is called at the end.
//
// A cancelled context is not an error: it returns Interrupted.
func (m *Match) Play(ctx context.Context) (Outcome, error) {
	defer m.Player.Finalize()
	for {
		if outcome := m.Outcome(); outcome != Undecided {
			return outcome, nil
		}
		if ctx.Err() != nil {
			return Interrupted, nil
		}
		if _, err := m.PlayTurn(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return Interrupted, nil
			}
			return Undecided, err
		}
	}
}

// RandomBoard returns the classic opening: the cat in the centre and numWalls obstacles in distinct
// random cells.
func RandomBoard(rng *rand.Rand, numWalls int) state.Board {
	board := state.NewBoard(state.CenterPos)
	numWalls = min(numWalls, state.NumCells-1)
	walls := make([]state.Pos, 0, numWalls)
	for len(walls) < numWalls {
		pos := state.PosFromIndex(rng.IntN(state.NumCells))
		if board.PlaceObstacle(pos) {
			walls = append(walls, pos)
		}
	}
	if klog.V(2).Enabled() {
		state.SortPositions(walls)
		klog.Infof("Random board with walls at %v", state.PosStrings(walls))
	}
	return board
}
