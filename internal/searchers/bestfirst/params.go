package bestfirst

import (
	"github.com/melyshu/trapthecat/internal/parameters"
	"github.com/pkg/errors"
)

// NewFromParams creates a best-first Searcher configured from the parameters, which are consumed
// (removed from params) as they are used:
//
//   - max_iterations (int): number of states visited before giving up, default DefaultMaxIterations.
//   - dedup (bool): skip boards already generated during the search, default true.
func NewFromParams(params parameters.Params) (*Searcher, error) {
	s := New()
	maxIterations, err := parameters.PopParamOr(params, "max_iterations", s.maxIterations)
	if err != nil {
		return nil, err
	}
	if maxIterations <= 0 {
		return nil, errors.Errorf("max_iterations must be > 0, got %d", maxIterations)
	}
	s.WithMaxIterations(maxIterations)
	dedup, err := parameters.PopParamOr(params, "dedup", s.dedup)
	if err != nil {
		return nil, err
	}
	s.WithDedup(dedup)
	return s, nil
}
