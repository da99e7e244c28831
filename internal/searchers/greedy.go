package searchers

import (
	"context"

	"github.com/melyshu/trapthecat/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrNoLegalPlacement is returned when every cell is either obstructed or occupied by the cat.
var ErrNoLegalPlacement = errors.New("no legal placement available")

// GreedyPlacement looks only one move ahead: it returns the legal placement after which the cat
// (moving as state.CatMove) ends up the farthest from the edge. A placement that traps the cat
// is taken immediately, and placements after which the cat reaches the edge are only taken if
// there is nothing else.
//
// Ties go to the lowest linear index. The returned bool is true if the placement traps the cat.
func GreedyPlacement(board state.Board, edges []state.Pos) (placement state.Pos, trapped bool, err error) {
	placements := board.LegalPlacements()
	if len(placements) == 0 {
		return state.Pos{}, false, ErrNoLegalPlacement
	}
	best, bestDistance := placements[0], -1
	for _, pos := range placements {
		next := board.WithObstacle(pos)
		catPos, moved := state.CatMove(next, edges)
		if !moved {
			return pos, true, nil
		}
		next.MoveCat(catPos)
		if next.CatEscaped() {
			continue
		}
		if distance := state.EscapeDistance(next); distance > bestDistance {
			best, bestDistance = pos, distance
		}
	}
	// If every placement lets the cat reach the edge, best is still the first legal one.
	return best, false, nil
}

// Greedy is a Searcher that doesn't plan: it always returns the GreedyPlacement.
type Greedy struct {
	edges []state.Pos
}

// NewGreedy creates a Greedy searcher.
func NewGreedy() *Greedy {
	return &Greedy{edges: state.EdgeCells()}
}

// Assert Greedy is a Searcher.
var _ Searcher = (*Greedy)(nil)

// Search implements Searcher.
func (g *Greedy) Search(ctx context.Context, board state.Board) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if board.CatEscaped() {
		return Result{}, errors.Errorf("cat already escaped to %s", board.CatPosition())
	}
	placement, trapped, err := GreedyPlacement(board, g.edges)
	if err != nil {
		return Result{}, err
	}
	result := Result{Outcome: OutcomeGreedy, Fallback: placement, Iterations: 1}
	if trapped {
		result.Outcome = OutcomeWin
		result.Plan = []Step{{Placement: placement, Expected: board}}
	}
	if klog.V(2).Enabled() {
		klog.Infof("Greedy search: %s", result)
	}
	return result, nil
}
