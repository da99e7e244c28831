// Package _default registers the default players that can be included in any
// front-end.
//
// Currently, it includes "auto" (best-first planner with a plan cache) and "greedy" (one move look-ahead).
package _default

import (
	"github.com/melyshu/trapthecat/internal/parameters"
	"github.com/melyshu/trapthecat/internal/players"
	"github.com/melyshu/trapthecat/internal/searchers"
	"github.com/melyshu/trapthecat/internal/searchers/bestfirst"
)

func init() {
	players.RegisterModule("auto", players.ModuleFunc(NewAuto))
	players.RegisterModule("greedy", players.ModuleFunc(NewGreedy))
}

// NewAuto creates the automated player, see bestfirst.NewFromParams for the searcher parameters.
// Extra parameters:
//
//   - revalidate (bool): check that the board matches the plan before serving a cached placement, default true.
func NewAuto(matchName string, params parameters.Params) (players.Player, error) {
	searcher, err := bestfirst.NewFromParams(params)
	if err != nil {
		return nil, err
	}
	revalidate, err := parameters.PopParamOr(params, "revalidate", true)
	if err != nil {
		return nil, err
	}
	return players.NewSearcherPlayer(searcher, matchName).WithRevalidate(revalidate), nil
}

// NewGreedy creates a player that only looks one move ahead. It takes no parameters.
func NewGreedy(matchName string, _ parameters.Params) (players.Player, error) {
	return players.NewSearcherPlayer(searchers.NewGreedy(), matchName), nil
}
