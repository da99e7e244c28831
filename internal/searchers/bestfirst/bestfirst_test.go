package bestfirst_test

import (
	"context"
	"testing"
	"time"

	"github.com/melyshu/trapthecat/internal/parameters"
	"github.com/melyshu/trapthecat/internal/searchers"
	"github.com/melyshu/trapthecat/internal/searchers/bestfirst"
	. "github.com/melyshu/trapthecat/internal/state"
	. "github.com/melyshu/trapthecat/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replay applies the plan interleaved with the cat's moves, checking each step finds the expected
// board. It returns the board after the last placement, and whether the cat was left without a move.
func replay(t *testing.T, board Board, plan []searchers.Step) (Board, bool) {
	for ii, step := range plan {
		require.Equalf(t, step.Expected, board, "board before step #%d doesn't match the plan", ii)
		require.Truef(t, board.PlaceObstacle(step.Placement), "illegal placement %s in step #%d", step.Placement, ii)
		if _, ok := board.MoveCatGreedily(); !ok {
			require.Equalf(t, len(plan)-1, ii, "cat trapped before the end of the plan")
			return board, true
		}
		require.False(t, board.CatEscaped())
	}
	return board, false
}

func TestAlmostTrapped(t *testing.T) {
	board := MustParse(AlmostTrapped)
	result, err := bestfirst.New().Search(context.Background(), board)
	require.NoError(t, err)
	require.Equal(t, searchers.OutcomeWin, result.Outcome)
	require.Len(t, result.Plan, 1)
	assert.Equal(t, Pos{4, 5}, result.Move())
	assert.Equal(t, board, result.Plan[0].Expected)
	assert.Equal(t, 2, result.Iterations)
}

func TestWinnableBoards(t *testing.T) {
	for ii, layout := range WinnableBoards {
		board := MustParse(layout)
		PrintBoard(board)
		result, err := bestfirst.New().Search(context.Background(), board)
		require.NoError(t, err)
		require.Equalf(t, searchers.OutcomeWin, result.Outcome, "board #%d: %s", ii, result)
		assert.LessOrEqual(t, result.Iterations, bestfirst.DefaultMaxIterations)
		assert.Len(t, result.Plan, 8)

		final, trapped := replay(t, board, result.Plan)
		assert.Truef(t, trapped, "board #%d: cat not trapped after the plan", ii)
		assert.Equal(t, Unreachable, EscapeDistance(final))
	}
}

func TestWinnableBoardsMirrored(t *testing.T) {
	// Mirroring changes the tie-breaks, so the plan may differ, but it still wins.
	board := Mirror(MustParse(WinnableBoards[1]))
	result, err := bestfirst.New().Search(context.Background(), board)
	require.NoError(t, err)
	require.Equal(t, searchers.OutcomeWin, result.Outcome, result.String())
	_, trapped := replay(t, board, result.Plan)
	assert.True(t, trapped)
}

func TestEmptyBoardCeiling(t *testing.T) {
	// The cat always takes a shortest path: one wall per turn is not enough from the centre of
	// an empty board, so the search hits its ceiling.
	board := NewBoard(CenterPos)
	searcher := bestfirst.New().WithMaxIterations(200)
	result, err := searcher.Search(context.Background(), board)
	require.NoError(t, err)
	assert.Equal(t, searchers.OutcomeCeiling, result.Outcome)
	assert.Equal(t, 200, result.Iterations)
	assert.Empty(t, result.Plan)
	assert.Greater(t, result.NumStates, result.Iterations)

	// Fallback is legal and doesn't lose right away.
	fallback := result.Move()
	assert.Equal(t, Pos{5, 0}, fallback)
	require.True(t, board.PlaceObstacle(fallback))
	_, ok := board.MoveCatGreedily()
	require.True(t, ok)
	assert.False(t, board.CatEscaped())
}

func TestExhausted(t *testing.T) {
	// Next to the corner the cat escapes in one move whatever the placement.
	result, err := bestfirst.New().Search(context.Background(), NewBoard(Pos{1, 1}))
	require.NoError(t, err)
	assert.Equal(t, searchers.OutcomeExhausted, result.Outcome)
	assert.Equal(t, 110, result.Iterations)
	assert.Equal(t, Pos{0, 0}, result.Move())
}

func TestAlreadyTrapped(t *testing.T) {
	board := MustParse(AlmostTrapped)
	board.PlaceObstacle(Pos{4, 5})
	result, err := bestfirst.New().Search(context.Background(), board)
	require.NoError(t, err)
	assert.Equal(t, searchers.OutcomeWin, result.Outcome)
	assert.Empty(t, result.Plan)
	assert.True(t, board.CanPlaceObstacle(result.Move()))
}

func TestSearchErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := bestfirst.New().Search(ctx, NewBoard(CenterPos))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = bestfirst.New().Search(context.Background(), NewBoard(Pos{10, 3}))
	assert.Error(t, err)
}

func TestSearchDeadline(t *testing.T) {
	// The empty board is never won, so only the deadline can stop the search before its ceiling.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	result, err := bestfirst.New().WithMaxIterations(1<<30).Search(ctx, NewBoard(CenterPos))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, searchers.OutcomeUndefined, result.Outcome)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestDedup(t *testing.T) {
	board := MustParse(WinnableBoards[0])
	withDedup, err := bestfirst.New().WithMaxIterations(300).Search(context.Background(), board)
	require.NoError(t, err)
	withoutDedup, err := bestfirst.New().WithMaxIterations(300).WithDedup(false).Search(context.Background(), board)
	require.NoError(t, err)
	assert.Equal(t, withDedup.Iterations, withoutDedup.Iterations)
	assert.Less(t, withDedup.NumStates, withoutDedup.NumStates)
}

func TestNewFromParams(t *testing.T) {
	params := parameters.NewFromConfigString("max_iterations=1000,dedup=false,other")
	s, err := bestfirst.NewFromParams(params)
	require.NoError(t, err)
	assert.Equal(t, 1000, s.MaxIterations())
	assert.Equal(t, parameters.Params{"other": ""}, params)

	s, err = bestfirst.NewFromParams(parameters.Params{})
	require.NoError(t, err)
	assert.Equal(t, bestfirst.DefaultMaxIterations, s.MaxIterations())

	_, err = bestfirst.NewFromParams(parameters.NewFromConfigString("max_iterations=0"))
	assert.Error(t, err)
	_, err = bestfirst.NewFromParams(parameters.NewFromConfigString("max_iterations=many"))
	assert.Error(t, err)
	_, err = bestfirst.NewFromParams(parameters.NewFromConfigString("dedup=maybe"))
	assert.Error(t, err)
}
