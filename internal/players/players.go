// Package players provides a factory of players from configuration strings.
// It also allows player providers to register themselves.
package players

import (
	"context"
	"slices"
	"strings"

	"github.com/melyshu/trapthecat/internal/generics"
	"github.com/melyshu/trapthecat/internal/parameters"
	"github.com/melyshu/trapthecat/internal/state"
	"github.com/pkg/errors"
)

// Player is anything that is able to place obstacles.
type Player interface {
	// ProposeMove returns where to place the next obstacle on the given board. It must be
	// a legal placement, otherwise an error is returned.
	//
	// The player doesn't change the board: orchestration applies the placement and then moves the cat.
	ProposeMove(ctx context.Context, board state.Board) (state.Pos, error)

	// Finalize is called at the end of a match.
	Finalize()
}

// Module must implement NewPlayer called at the start of a match.
// matchName is used for logging and debugging.
//
// The module must consume (delete) the parameters it uses from params: left-over parameters are
// reported as unknown.
type Module interface {
	NewPlayer(matchName string, params parameters.Params) (Player, error)
}

// ModuleFunc adapts a function to a Module.
type ModuleFunc func(matchName string, params parameters.Params) (Player, error)

// NewPlayer implements Module.
func (fn ModuleFunc) NewPlayer(matchName string, params parameters.Params) (Player, error) {
	return fn(matchName, params)
}

var (
	// Registered modules.
	keywordToModules = make(map[string]Module)
)

// RegisterModule so it can be used by any of the front-ends to play.
func RegisterModule(name string, module Module) {
	keywordToModules[name] = module
}

// RegisteredModules returns the names of the registered modules, sorted.
func RegisteredModules() []string {
	return slices.Collect(generics.SortedKeys(keywordToModules))
}

var (
	// DefaultPlayerConfig is used if no configuration was given. The value may be changed by the
	// front-end.
	DefaultPlayerConfig = "auto"
)

// New creates a new player given the configuration string.
//
// Args:
//
//	config: the module name optionally followed by a colon (":") or a comma, followed by a comma-separated
//		list of parameters with optional values associated. E.g.: "auto,max_iterations=10000".
//		If empty, the default is given by DefaultPlayerConfig.
//
// More details on the config are dependent on the module used.
func New(matchName, config string) (Player, error) {
	if config == "" {
		config = DefaultPlayerConfig
	}

	// Find moduleName.
	moduleName, config, _ := strings.Cut(config, ",")
	if name, rest, found := strings.Cut(moduleName, ":"); found {
		moduleName = name
		config = rest + "," + config
	}
	module, ok := keywordToModules[moduleName]
	if !ok {
		if len(keywordToModules) == 0 {
			return nil, errors.Errorf("unknown player %q: no modules registered, perhaps you need to import "+
				"_ \"github.com/melyshu/trapthecat/internal/players/default\"", moduleName)
		}
		return nil, errors.Errorf("unknown player %q, registered players: %q", moduleName, RegisteredModules())
	}

	params := parameters.NewFromConfigString(config)
	player, err := module.NewPlayer(matchName, params)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create player %q", moduleName)
	}
	if err := parameters.CheckAllUsed(params); err != nil {
		return nil, errors.WithMessagef(err, "failed to create player %q", moduleName)
	}
	return player, nil
}
