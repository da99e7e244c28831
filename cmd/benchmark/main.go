// benchmark plays many games from random openings with the configured player, concurrently,
// and reports how many times the cat was trapped.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/janpfeifer/must"
	"github.com/melyshu/trapthecat/internal/game"
	"github.com/melyshu/trapthecat/internal/players"
	_ "github.com/melyshu/trapthecat/internal/players/default"
	"github.com/melyshu/trapthecat/internal/profilers"
	"github.com/melyshu/trapthecat/internal/state"
	"github.com/melyshu/trapthecat/internal/ui/cli"
	"github.com/melyshu/trapthecat/internal/ui/spinning"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var (
	flagPlayer = flag.String("player", "auto,max_iterations=10000", "Player configuration. "+
		"The search ceiling is lower than the interactive default, since many games run at the same time.")
	flagNumGames    = flag.Int("num_games", 100, "Number of games to play.")
	flagNumWalls    = flag.Int("num_walls", 8, "Number of random walls in the opening.")
	flagSeed        = flag.Uint64("seed", 0, "Seed for the random openings. If 0, a random seed is used.")
	flagParallelism = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and play "+
		"these many games simultaneously.")
	flagPrintSteps = flag.Bool("print_steps", false, "Print board at each step. "+
		"Very verbose, and you probably want to set -parallelism to 1.")
)

// Globals
var (
	// globalCtx used everywhere. It is cancelled when the program is about to exit either by
	// an interrupt (ctrl+C) or by reaching the end.
	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagNumGames <= 0 || *flagNumWalls < 0 {
		klog.Fatalf("Invalid -num_games=%d or -num_walls=%d", *flagNumGames, *flagNumWalls)
	}

	// Capture Control+C
	var globalCancel func()
	globalCtx, globalCancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(globalCancel, 5*time.Second)
	defer globalCancel()

	// Profilers: HTTP profiler server and CPU profile.
	profiler := must.M1(profilers.Setup(globalCtx))
	defer profiler.OnQuit()

	// Fail early on bad configuration.
	must.M1(players.New("config-check", *flagPlayer)).Finalize()

	seed := *flagSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	fmt.Printf("Playing %d games with %q, %d random walls, seed %d\n", *flagNumGames, *flagPlayer, *flagNumWalls, seed)
	must.M(runGames(globalCtx, seed))
}

// Results of the games played so far.
type Results struct {
	mu                          sync.Mutex
	start                       time.Time
	trapped, escaped, abandoned int
	degradedGames, turns        int
	played, total               int
}

func (r *Results) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Played %d of %d: ", r.played, r.total))
	parts = append(parts, fmt.Sprintf("%d trapped (%.1f%%), %d escaped", r.trapped, 100*float64(r.trapped)/float64(max(r.played, 1)), r.escaped))
	if r.abandoned > 0 {
		parts = append(parts, fmt.Sprintf(", %d interrupted", r.abandoned))
	}
	parts = append(parts, fmt.Sprintf(" / %d games without a plan at some point / %d turns - ", r.degradedGames, r.turns))
	parts = append(parts, fmt.Sprintf("%s", time.Since(r.start).Round(time.Millisecond)))
	parts = append(parts, "\033[0K")
	return strings.Join(parts, "")
}

func runGames(ctx context.Context, seed uint64) error {
	r := &Results{
		start: time.Now(),
		total: *flagNumGames,
	}
	var wg errgroup.Group
	wg.SetLimit(getParallelism())
	fmt.Printf("\r%s", r)

	for gameIdx := range r.total {
		wg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rng := rand.New(rand.NewPCG(seed, uint64(gameIdx)))
			board := game.RandomBoard(rng, *flagNumWalls)
			player, err := players.New(fmt.Sprintf("Game-%05d", gameIdx), *flagPlayer)
			if err != nil {
				return err
			}
			match := game.NewMatch(fmt.Sprintf("Game-%05d", gameIdx), player, board)
			if *flagPrintSteps {
				match.WithObserver(printStep(match.Name))
			}
			outcome, err := match.Play(ctx)
			if err != nil {
				return err
			}

			r.mu.Lock()
			defer r.mu.Unlock()
			switch outcome {
			case game.CatTrapped:
				r.trapped++
			case game.CatEscaped:
				r.escaped++
			default:
				r.abandoned++
			}
			if sp, ok := player.(*players.SearcherPlayer); ok && sp.Stats().Degraded > 0 {
				r.degradedGames++
			}
			r.turns += len(match.History)
			r.played++
			fmt.Printf("\r%s", r)
			return nil
		})
	}
	err := wg.Wait()
	fmt.Printf("\r%s\n", r)
	if ctx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", ctx.Err())
		return nil
	}
	return err
}

var (
	stepUI   = cli.New(true, false)
	muStepUI sync.Mutex
)

// printStep returns a game.Observer that prints the board after each turn.
func printStep(name string) game.Observer {
	return func(board state.Board, turn game.Turn) {
		muStepUI.Lock()
		defer muStepUI.Unlock()
		stepUI.PrintBoard(fmt.Sprintf("%s, %s", name, turn), board)
		fmt.Println("------------------")
	}
}

// getParallelism returns the parallelism.
func getParallelism() (parallelism int) {
	parallelism = runtime.GOMAXPROCS(0)
	if *flagParallelism > 0 {
		parallelism = *flagParallelism
	}
	return
}
