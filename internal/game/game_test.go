package game_test

import (
	"context"
	"math/rand/v2"
	"testing"

	. "github.com/melyshu/trapthecat/internal/game"
	"github.com/melyshu/trapthecat/internal/players"
	"github.com/melyshu/trapthecat/internal/searchers"
	"github.com/melyshu/trapthecat/internal/searchers/bestfirst"
	. "github.com/melyshu/trapthecat/internal/state"
	. "github.com/melyshu/trapthecat/internal/state/statetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPlayer plays the given moves in order.
type scriptedPlayer struct {
	moves     []Pos
	finalized bool
}

func (p *scriptedPlayer) ProposeMove(ctx context.Context, _ Board) (Pos, error) {
	if err := ctx.Err(); err != nil {
		return Pos{}, err
	}
	move := p.moves[0]
	p.moves = p.moves[1:]
	return move, nil
}

func (p *scriptedPlayer) Finalize() { p.finalized = true }

func TestPlayTrapped(t *testing.T) {
	board := MustParse(WinnableBoards[0])
	var observed []Turn
	m := NewMatch("trapped", players.NewSearcherPlayer(bestfirst.New(), "trapped"), board).
		WithObserver(func(b Board, turn Turn) {
			assert.True(t, b.IsObstructed(turn.Placement))
			assert.Equal(t, turn.CatTo, b.CatPosition())
			observed = append(observed, turn)
		})
	outcome, err := m.Play(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CatTrapped, outcome)
	assert.Equal(t, CatTrapped, m.Outcome())
	require.Len(t, m.History, 8)
	assert.Equal(t, m.History, observed)
	assert.Equal(t, Turn{Number: 1, Placement: Pos{3, 3}, CatFrom: CenterPos, CatTo: Pos{5, 3}, CatMoved: true}, m.History[0])
	last := m.History[7]
	assert.False(t, last.CatMoved)
	assert.Equal(t, Pos{4, 5}, last.Placement)
	assert.Equal(t, last.CatFrom, last.CatTo)
	assert.Equal(t, board.NumObstacles()+8, m.Board.NumObstacles())

	_, err = m.PlayTurn(context.Background())
	assert.Error(t, err, "match already finished")
}

func TestPlayEscaped(t *testing.T) {
	p := players.NewSearcherPlayer(searchers.NewGreedy(), "escaped")
	m := NewMatch("escaped", p, NewBoard(Pos{1, 1}))
	outcome, err := m.Play(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CatEscaped, outcome)
	require.Len(t, m.History, 1)
	assert.Equal(t, Pos{0, 0}, m.History[0].Placement)
	assert.True(t, m.Board.CatEscaped())

	// Cat already on the edge: nothing to play.
	m = NewMatch("edge", &scriptedPlayer{}, NewBoard(Pos{0, 5}))
	outcome, err = m.Play(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CatEscaped, outcome)
	assert.Empty(t, m.History)
}

func TestPlayInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &scriptedPlayer{moves: []Pos{{0, 0}}}
	m := NewMatch("interrupted", p, NewBoard(CenterPos))
	outcome, err := m.Play(ctx)
	require.NoError(t, err)
	assert.Equal(t, Interrupted, outcome)
	assert.Empty(t, m.History)
	assert.True(t, p.finalized)
}

func TestIllegalPlacement(t *testing.T) {
	p := &scriptedPlayer{moves: []Pos{{0, 0}, {0, 0}}}
	m := NewMatch("illegal", p, NewBoard(CenterPos))
	_, err := m.PlayTurn(context.Background())
	require.NoError(t, err)
	_, err = m.PlayTurn(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalPlacement))
	assert.Len(t, m.History, 1)

	p = &scriptedPlayer{moves: []Pos{CenterPos}}
	outcome, err := NewMatch("illegal", p, NewBoard(CenterPos)).Play(context.Background())
	assert.Equal(t, Undecided, outcome)
	assert.True(t, errors.Is(err, ErrIllegalPlacement))
	assert.True(t, p.finalized)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "CatTrapped", CatTrapped.String())
	assert.Equal(t, "Interrupted", Interrupted.String())
	assert.Equal(t, "Outcome(7)", Outcome(7).String())
	assert.Equal(t, "#3: obstacle at (1, 1), cat trapped at (5, 4)",
		Turn{Number: 3, Placement: Pos{1, 1}, CatFrom: CenterPos, CatTo: CenterPos}.String())
}

func TestRandomBoard(t *testing.T) {
	b := RandomBoard(rand.New(rand.NewPCG(7, 7)), 8)
	assert.Equal(t, CenterPos, b.CatPosition())
	assert.Equal(t, 8, b.NumObstacles())
	assert.False(t, b.IsObstructed(CenterPos))

	// Deterministic given the seed.
	assert.Equal(t, b, RandomBoard(rand.New(rand.NewPCG(7, 7)), 8))

	// Capped to the number of free cells.
	full := RandomBoard(rand.New(rand.NewPCG(1, 1)), 1000)
	assert.Equal(t, NumCells-1, full.NumObstacles())
}
