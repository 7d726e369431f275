// Package profilers sets up the optional profiling of the binaries: an HTTP pprof server (flag -prof) and
// a CPU profile written to a file (flag -cpu_profile).
//
// Linking it installs the flags.
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
	flagProfiler   = flag.Int("prof", -1, "If set, serves the pprof profiler at the given port.")
	flagCPUProfile = flag.String("cpu_profile", "", "write cpu profile to `file`")
	flagKeepAlive  = flag.Bool("prof_keep_alive", false, "If -prof is set, keep the program alive at the end "+
		"until interrupted, so the profile can still be read.")
)

// Profilers started by Setup. Stop must be called before the program exits.
type Profilers struct {
	ctx     context.Context
	addr    string
	cpuFile *os.File
}

// Setup starts the profilers configured by the flags. Follow it with a deferred call to Profilers.Stop.
//
// ctx is only used to know when the program was interrupted, see Stop.
func Setup(ctx context.Context) (*Profilers, error) {
	p := &Profilers{ctx: ctx}
	if *flagProfiler >= 0 {
		p.addr = fmt.Sprintf("localhost:%d", *flagProfiler)
		klog.Infof("Serving profiler on http://%s/debug/pprof", p.addr)
		go func() {
			if err := http.ListenAndServe(p.addr, nil); err != nil {
				klog.Errorf("Profiler server on %s failed: %v", p.addr, err)
			}
		}()
	}
	if *flagCPUProfile != "" {
		f, err := os.Create(*flagCPUProfile)
		if err != nil {
			return nil, errors.Wrap(err, "could not create CPU profile")
		}
		if err = pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "could not start CPU profile")
		}
		p.cpuFile = f
	}
	return p, nil
}

// Stop the CPU profiling and, if -prof_keep_alive was set, block until ctx is done.
func (p *Profilers) Stop() {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			klog.Errorf("Failed to close CPU profile %q: %v", *flagCPUProfile, err)
		}
		p.cpuFile = nil
	}
	if p.addr == "" || !*flagKeepAlive || p.ctx.Err() != nil {
		return
	}

	// Garbage collect, to see if there is anything leaking.
	for range 10 {
		runtime.GC()
	}
	fmt.Printf("- Program finished: kept alive with profiler opened at http://%s/debug/pprof\n", p.addr)
	fmt.Printf("- Interrupt (Ctrl+C) to exit\n")
	<-p.ctx.Done()
}
