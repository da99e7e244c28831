// Package bestfirst implements a best-first search for a sequence of obstacle placements that traps the cat.
//
// Each search state is a board right after a placement. When a state is visited, the cat's response
// (state.CatMove) is simulated and, if the cat isn't trapped yet, one child is created for every legal
// placement. States are visited in order of the cat's escape distance right after the placement (the
// farther the better), ties broken by creation order.
//
// The cat doesn't get to choose: its policy is deterministic, so a path in the search tree that ends with
// the cat unable to move is a forced win.
package bestfirst

import (
	"context"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/melyshu/trapthecat/internal/generics"
	"github.com/melyshu/trapthecat/internal/searchers"
	"github.com/melyshu/trapthecat/internal/state"
	"github.com/pkg/errors"
	"github.com/zyedidia/generic/heap"
	"k8s.io/klog/v2"
)

// DefaultMaxIterations is the default number of states visited before giving up.
const DefaultMaxIterations = 50_000

// cancelCheckInterval is the number of iterations between checks of the context.
const cancelCheckInterval = 1024

// Searcher implements searchers.Searcher with a best-first search.
type Searcher struct {
	maxIterations int
	dedup         bool
	edges         []state.Pos
}

// Assert that Searcher implements searchers.Searcher.
var _ searchers.Searcher = (*Searcher)(nil)

// New returns a best-first searcher with default configuration, see With... methods to change it.
func New() *Searcher {
	return &Searcher{
		maxIterations: DefaultMaxIterations,
		dedup:         true,
		edges:         state.EdgeCells(),
	}
}

// WithMaxIterations sets the maximum number of states visited before the search returns
// searchers.OutcomeCeiling. It must be > 0. Default is DefaultMaxIterations.
func (s *Searcher) WithMaxIterations(maxIterations int) *Searcher {
	if maxIterations <= 0 {
		exceptions.Panicf("bestfirst.WithMaxIterations(%d): it must be > 0", maxIterations)
	}
	s.maxIterations = maxIterations
	return s
}

// WithDedup sets whether boards (walls and cat position) already generated during the search are skipped.
// Default is true.
//
// Different orders of the same placements often lead to the same board, so without it
// the search revisits a lot of states.
func (s *Searcher) WithDedup(dedup bool) *Searcher {
	s.dedup = dedup
	return s
}

// MaxIterations configured.
func (s *Searcher) MaxIterations() int { return s.maxIterations }

// searchState is one node of the search tree, stored in an arena and referencing its parent by index.
// A search that reaches the ceiling holds millions of them, so it is kept small: the priority
// lives only in the queue.
type searchState struct {
	// board after the placement, and after the cat's response once the state is visited.
	board state.Board

	// parent index in the arena, -1 for the root.
	parent int32

	numMoves int16

	// placement that created this state from its parent.
	placement state.Pos
}

// queueItem in the priority queue: index in the arena, plus its priority and creation order.
// The priority (heuristic) is the cat's escape distance right after the placement.
type queueItem struct {
	heuristic int32
	seq, idx  int32
}

// lessItem orders the queue: states with higher heuristic first, and among those the ones created first.
func lessItem(a, b queueItem) bool {
	if a.heuristic != b.heuristic {
		return a.heuristic > b.heuristic
	}
	return a.seq < b.seq
}

// search holds the state of one call to Searcher.Search.
type search struct {
	*Searcher
	arena []searchState
	queue *heap.Heap[queueItem]
	seen  generics.Set[state.Board]
	seq   int32
}

// push a new state into the arena and the queue.
func (sr *search) push(st searchState, heuristic int) {
	sr.arena = append(sr.arena, st)
	sr.queue.Push(queueItem{heuristic: int32(heuristic), seq: sr.seq, idx: int32(len(sr.arena) - 1)})
	sr.seq++
}

// plan collects the placements from the root to the state idx, oldest first.
// Each step expects the board of the parent state, after the cat's response.
func (sr *search) plan(idx int) []searchers.Step {
	var steps []searchers.Step
	for idx > 0 {
		st := &sr.arena[idx]
		parent := int(st.parent)
		if parent < 0 || parent >= idx {
			exceptions.Panicf("bestfirst: corrupt arena, state #%d has parent #%d", idx, parent)
		}
		steps = append(steps, searchers.Step{Placement: st.placement, Expected: sr.arena[parent].board})
		idx = parent
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

// expand creates one child for each legal placement on the board of the state idx.
func (sr *search) expand(idx int) {
	// Copy: appending to the arena may reallocate it.
	parent := sr.arena[idx]
	for pos := range state.AllPositions() {
		if !parent.board.CanPlaceObstacle(pos) {
			continue
		}
		child := parent.board.WithObstacle(pos)
		if sr.dedup {
			if sr.seen.Has(child) {
				continue
			}
			sr.seen.Insert(child)
		}
		sr.push(searchState{
			board:     child,
			numMoves:  parent.numMoves + 1,
			parent:    int32(idx),
			placement: pos,
		}, state.EscapeDistance(child))
	}
}

// Search implements searchers.Searcher.
//
// It only returns an error if the context is cancelled, if the cat already escaped, or if
// there are no legal placements.
func (s *Searcher) Search(ctx context.Context, board state.Board) (searchers.Result, error) {
	if err := ctx.Err(); err != nil {
		return searchers.Result{}, err
	}
	if board.CatEscaped() {
		return searchers.Result{}, errors.Errorf("cat already escaped to %s", board.CatPosition())
	}
	start := time.Now()
	fallback, _, err := searchers.GreedyPlacement(board, s.edges)
	if err != nil {
		return searchers.Result{}, err
	}

	sr := &search{Searcher: s, queue: heap.New(lessItem)}
	if s.dedup {
		sr.seen = generics.MakeSet[state.Board]()
	}
	rootHeuristic := state.EscapeDistance(board)
	if rootHeuristic == state.Unreachable {
		// Cat is already trapped: nothing to plan.
		return searchers.Result{Outcome: searchers.OutcomeWin, Fallback: fallback}, nil
	}
	sr.push(searchState{board: board, parent: -1}, rootHeuristic)

	result := searchers.Result{Outcome: searchers.OutcomeExhausted, Fallback: fallback}
	for sr.queue.Size() > 0 {
		if result.Iterations >= s.maxIterations {
			result.Outcome = searchers.OutcomeCeiling
			break
		}
		result.Iterations++
		if result.Iterations%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return searchers.Result{}, err
			}
		}
		item, _ := sr.queue.Pop()
		idx := int(item.idx)
		st := &sr.arena[idx]
		if idx != 0 {
			heuristic := state.Unreachable
			next, ok := state.CatMove(st.board, s.edges)
			if ok {
				st.board.MoveCat(next)
				heuristic = state.EscapeDistance(st.board)
			}
			if !ok || heuristic == state.Unreachable {
				result.Outcome = searchers.OutcomeWin
				result.Plan = sr.plan(idx)
				break
			}
			if st.board.CatEscaped() {
				continue
			}
			if klog.V(3).Enabled() {
				klog.Infof("bestfirst: state #%d, %d placements deep, cat moved to %s, escape distance %d",
					idx, st.numMoves, next, heuristic)
			}
		}
		sr.expand(idx)
	}
	result.NumStates = len(sr.arena)

	switch result.Outcome {
	case searchers.OutcomeWin:
		if klog.V(2).Enabled() {
			klog.Infof("bestfirst: %s, in %s", result, time.Since(start))
		}
	default:
		klog.Warningf("bestfirst: no plan found from board with cat at %s: %s, in %s",
			board.CatPosition(), result, time.Since(start))
	}
	return result, nil
}
