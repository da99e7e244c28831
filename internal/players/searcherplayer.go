package players

import (
	"context"

	"github.com/melyshu/trapthecat/internal/searchers"
	"github.com/melyshu/trapthecat/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// SearcherPlayer is the automated player: it uses a searchers.Searcher to find a plan, and serves
// the plan's placements in the following turns without searching again, while the game follows the plan.
// It implements the Player interface.
type SearcherPlayer struct {
	Searcher  searchers.Searcher
	MatchName string

	revalidate  bool
	plan        []searchers.Step
	lastOutcome searchers.Outcome
	hasSearched bool
	stats       Stats
}

// Stats collected by SearcherPlayer during a match.
type Stats struct {
	// Searches run.
	Searches int

	// CacheHits is the number of moves served from a previously found plan.
	CacheHits int

	// Invalidations is the number of times a cached plan was discarded because the board didn't match.
	Invalidations int

	// Degraded is the number of searches that didn't find a plan.
	Degraded int
}

// NewSearcherPlayer creates a SearcherPlayer with plan revalidation enabled.
func NewSearcherPlayer(searcher searchers.Searcher, matchName string) *SearcherPlayer {
	return &SearcherPlayer{
		Searcher:   searcher,
		MatchName:  matchName,
		revalidate: true,
	}
}

// WithRevalidate sets whether before serving a cached placement the live board is compared with the board
// the plan expected. If disabled, cached placements are served as long as they are legal.
// Default is true.
func (p *SearcherPlayer) WithRevalidate(revalidate bool) *SearcherPlayer {
	p.revalidate = revalidate
	return p
}

// Assert that SearcherPlayer is a Player.
var _ Player = (*SearcherPlayer)(nil)

// ProposeMove implements the Player interface.
func (p *SearcherPlayer) ProposeMove(ctx context.Context, board state.Board) (state.Pos, error) {
	if move, ok := p.fromPlan(board); ok {
		return move, nil
	}

	result, err := p.Searcher.Search(ctx, board)
	if err != nil {
		return state.Pos{}, errors.WithMessagef(err, "match %q: search failed", p.MatchName)
	}
	p.stats.Searches++
	p.hasSearched = true
	p.lastOutcome = result.Outcome
	if result.Outcome != searchers.OutcomeWin {
		p.stats.Degraded++
	}
	move := result.Move()
	if result.Outcome == searchers.OutcomeWin && len(result.Plan) > 0 {
		p.plan = result.Plan[1:]
	}
	if !board.CanPlaceObstacle(move) {
		p.plan = nil
		return state.Pos{}, errors.Wrapf(state.ErrIllegalPlacement, "match %q: searcher proposed %s", p.MatchName, move)
	}
	if klog.V(1).Enabled() {
		klog.Infof("Match %q: search %s, playing %s", p.MatchName, result, move)
	}
	return move, nil
}

// fromPlan pops the next placement of the cached plan, if it is still valid for the board.
func (p *SearcherPlayer) fromPlan(board state.Board) (state.Pos, bool) {
	if len(p.plan) == 0 {
		return state.Pos{}, false
	}
	step := p.plan[0]
	if !board.CanPlaceObstacle(step.Placement) || (p.revalidate && step.Expected != board) {
		if klog.V(1).Enabled() {
			klog.Infof("Match %q: board diverged from plan, discarding %d cached placements", p.MatchName, len(p.plan))
		}
		p.plan = nil
		p.stats.Invalidations++
		return state.Pos{}, false
	}
	p.plan = p.plan[1:]
	p.stats.CacheHits++
	if klog.V(1).Enabled() {
		klog.Infof("Match %q: playing %s from plan, %d placements left", p.MatchName, step.Placement, len(p.plan))
	}
	return step.Placement, true
}

// LastOutcome returns the outcome of the last search, and false if no search was run yet.
func (p *SearcherPlayer) LastOutcome() (searchers.Outcome, bool) {
	return p.lastOutcome, p.hasSearched
}

// PlanLength is the number of cached placements not yet played.
func (p *SearcherPlayer) PlanLength() int { return len(p.plan) }

// Stats returns the statistics collected so far.
func (p *SearcherPlayer) Stats() Stats { return p.stats }

// Finalize implements Player: it discards the cached plan.
func (p *SearcherPlayer) Finalize() {
	p.plan = nil
	if klog.V(1).Enabled() {
		klog.Infof("Match %q: %d searches (%d degraded), %d moves from plans, %d plans discarded",
			p.MatchName, p.stats.Searches, p.stats.Degraded, p.stats.CacheHits, p.stats.Invalidations)
	}
}
