// Package searchers defines the interface of the algorithms that choose where to place
// obstacles, and the types they return.
package searchers

import (
	"context"
	"fmt"

	"github.com/melyshu/trapthecat/internal/state"
)

// Searcher is the interface that any of the search algorithms must adhere to be valid.
type Searcher interface {
	// Search for a plan: a sequence of placements that traps the cat, assuming it follows
	// state.CatMove after each placement.
	//
	// Failing to find a plan is not an error: it's reported in Result.Outcome, and Result.Fallback
	// holds a placement to play anyway. Errors are reserved to cancellation (ctx) and boards where
	// no placement is possible or the game is already over.
	Search(ctx context.Context, board state.Board) (Result, error)
}

// Outcome of a search.
type Outcome uint8

const (
	// OutcomeUndefined is the zero value: the result of a search that failed with an error.
	OutcomeUndefined Outcome = iota

	// OutcomeWin means a plan that traps the cat was found. If the cat is already trapped,
	// the plan is empty.
	OutcomeWin

	// OutcomeExhausted means the whole search space was explored: there is no known sequence
	// of placements that traps the cat from the given board.
	OutcomeExhausted

	// OutcomeCeiling means the search was interrupted by its iteration ceiling before finding a plan.
	OutcomeCeiling

	// OutcomeGreedy means the searcher doesn't plan ahead: it only proposes a single placement.
	OutcomeGreedy
)

var outcomeNames = []string{"Undefined", "Win", "Exhausted", "Ceiling", "Greedy"}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", o)
}

// Step of a plan.
type Step struct {
	// Placement of the obstacle.
	Placement state.Pos

	// Expected board just before the placement. Used to check that the game follows the plan.
	Expected state.Board
}

// Result of a search.
type Result struct {
	Outcome Outcome

	// Plan holds the placements that trap the cat, if Outcome is OutcomeWin.
	Plan []Step

	// Fallback is a legal placement to use when there is no plan.
	Fallback state.Pos

	// Iterations is the number of search states visited, and NumStates the number of states created.
	Iterations, NumStates int
}

// Move returns the placement to play now: the first step of the plan, or the fallback.
func (r Result) Move() state.Pos {
	if r.Outcome == OutcomeWin && len(r.Plan) > 0 {
		return r.Plan[0].Placement
	}
	return r.Fallback
}

// String implements fmt.Stringer.
func (r Result) String() string {
	if r.Outcome == OutcomeWin {
		return fmt.Sprintf("%s in %d placements (%d iterations, %d states)", r.Outcome, len(r.Plan), r.Iterations, r.NumStates)
	}
	return fmt.Sprintf("%s, fallback %s (%d iterations, %d states)", r.Outcome, r.Fallback, r.Iterations, r.NumStates)
}
