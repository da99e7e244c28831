// trapcat plays Trap the Cat on the terminal, starting from a board read from a file.
//
// Usage:
//
//	trapcat [flags] <board_file>
//
// The board file has one line per row, with 'C' for the cat, '#' for obstacles and '-' for empty cells.
// By default the automated player (-player=auto) places the obstacles, use -player=human to play yourself.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/melyshu/trapthecat/internal/game"
	"github.com/melyshu/trapthecat/internal/parameters"
	"github.com/melyshu/trapthecat/internal/players"
	_ "github.com/melyshu/trapthecat/internal/players/default"
	"github.com/melyshu/trapthecat/internal/profilers"
	"github.com/melyshu/trapthecat/internal/state"
	"github.com/melyshu/trapthecat/internal/ui/cli"
	"github.com/melyshu/trapthecat/internal/ui/spinning"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagPlayer = flag.String("player", players.DefaultPlayerConfig,
		"Player configuration, e.g. \"auto,max_iterations=100000\", \"greedy\" or \"human\".")
	flagColor = flag.Bool("color", true, "Use colors when printing the board.")
	flagClear = flag.Bool("clear", false, "Clear the screen before printing the board at each turn.")
)

func usage() {
	_, _ = fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <board_file>\n\nFlags:\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	os.Exit(run(os.Args[1:]))
}

// run parses the command line arguments (without the program name), plays the match and returns
// the exit status: 2 for usage errors, 1 if the match couldn't be played.
func run(args []string) int {
	if err := flag.CommandLine.Parse(args); err != nil {
		return 2
	}
	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	if err := play(flag.Arg(0)); err != nil {
		klog.Errorf("%+v", err)
		return 1
	}
	return 0
}

// play a match starting from the board in boardPath.
func play(boardPath string) error {
	// Capture Control+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	spinning.SafeInterrupt(cancel, 3*time.Second)

	profiler, err := profilers.Setup(ctx)
	if err != nil {
		return err
	}
	defer profiler.OnQuit()

	board, err := readBoard(boardPath)
	if err != nil {
		return err
	}
	ui := cli.New(*flagColor, *flagClear)
	registerHuman(ui)
	player, err := players.New("trapcat", *flagPlayer)
	if err != nil {
		return err
	}
	if _, isHuman := player.(*cli.Human); !isHuman {
		player = &spinningPlayer{Player: player}
	}

	ui.PrintBoard("Initial board", board)
	match := game.NewMatch("trapcat", player, board).WithObserver(ui.PrintTurn)
	outcome, err := match.Play(ctx)
	if err != nil {
		return errors.WithMessage(err, "match failed")
	}
	ui.PrintOutcome(outcome, len(match.History))
	return nil
}

// readBoard from the file at path.
func readBoard(path string) (state.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return state.Board{}, errors.Wrap(err, "failed to open board file")
	}
	defer func() { _ = f.Close() }()
	board, err := state.ParseBoard(f)
	if err != nil {
		return state.Board{}, errors.WithMessagef(err, "failed to read board from %q", path)
	}
	return board, nil
}

// registerHuman registers the "human" player module, reading input from the ui.
func registerHuman(ui *cli.UI) {
	players.RegisterModule("human", players.ModuleFunc(
		func(_ string, _ parameters.Params) (players.Player, error) {
			return ui.NewHuman(), nil
		}))
}

// spinningPlayer shows a spinner while the wrapped player thinks.
type spinningPlayer struct {
	players.Player
}

func (p *spinningPlayer) ProposeMove(ctx context.Context, board state.Board) (state.Pos, error) {
	s := spinning.NewWithWriter(ctx, os.Stdout, spinning.ThemeCat, "    Thinking")
	defer s.Done()
	return p.Player.ProposeMove(ctx, board)
}
