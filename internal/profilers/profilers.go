// Package profilers implement helper functions to set up profiling for the commands.
//
// If linked, it will install the profiler flags: -prof, -cpu_profile and -mem_profile.
package profilers

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagProfiler   = flag.Int("prof", -1, "If set, runs the HTTP profiler at the given port.")
	flagCPUProfile = flag.String("cpu_profile", "", "write cpu profile to `file`")
	flagMemProfile = flag.String("mem_profile", "", "write heap profile to `file` on exit")
)

// Profiler holds the state of the configured profilers. Create it with Setup.
type Profiler struct {
	ctx            context.Context
	httpAddr       string
	cpuFile        *os.File
	cpuPath        string
	memPath        string
	keepAliveOnEnd bool
}

// Setup starts the HTTP (flag -prof) and CPU profilers (flag -cpu_profile), if they were configured.
// You should follow with a deferred call to Profiler.OnQuit.
func Setup(ctx context.Context) (*Profiler, error) {
	return New(ctx, *flagProfiler, *flagCPUProfile, *flagMemProfile)
}

// New is like Setup, but takes the configuration from the arguments instead of the flags.
// A negative httpPort and empty paths disable the corresponding profiler.
func New(ctx context.Context, httpPort int, cpuPath, memPath string) (*Profiler, error) {
	p := &Profiler{ctx: ctx, cpuPath: cpuPath, memPath: memPath}
	if httpPort >= 0 {
		p.httpAddr = fmt.Sprintf("localhost:%d", httpPort)
		p.keepAliveOnEnd = true
		fmt.Printf("Starting profiler on %s/debug/pprof\n", p.httpAddr)
		fmt.Printf("- You can access it with: $ go tool pprof %s/debug/pprof/profile\n", p.httpAddr)
		fmt.Printf("- Program will be kept alive on end, you will have to interrupt it (Ctrl+C) to exit\n")
		go func() {
			klog.Fatal(http.ListenAndServe(p.httpAddr, nil))
		}()
	}
	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return nil, errors.Wrapf(err, "could not create CPU profile %q", cpuPath)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "could not start CPU profile")
		}
		p.cpuFile = f
	}
	return p, nil
}

// OnQuit should be called before the exit of the main() function, typically this is setup as a deferred call
// just after Setup. It stops the CPU profile, writes the heap profile and, if the HTTP profiler is
// running, keeps the program alive until the context is cancelled.
func (p *Profiler) OnQuit() {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			klog.Errorf("Failed to close CPU profile %q: %v", p.cpuPath, err)
		}
		p.cpuFile = nil
	}
	if p.memPath != "" {
		if err := p.writeHeapProfile(); err != nil {
			klog.Errorf("%+v", err)
		}
	}
	if !p.keepAliveOnEnd || p.ctx.Err() != nil {
		return
	}
	// Don't freeze on panic.
	if err := recover(); err != nil {
		panic(err)
	}
	fmt.Printf("- Program finished: kept alive with profiler opened at %s/debug/pprof\n", p.httpAddr)
	fmt.Printf("- Interrupt (Ctrl+C) to exit\n")
	<-p.ctx.Done()
	fmt.Printf("... exiting ...\n")
}

func (p *Profiler) writeHeapProfile() error {
	f, err := os.Create(p.memPath)
	if err != nil {
		return errors.Wrapf(err, "could not create heap profile %q", p.memPath)
	}
	defer func() { _ = f.Close() }()
	runtime.GC() // Up-to-date statistics.
	return errors.Wrap(pprof.WriteHeapProfile(f), "could not write heap profile")
}
