// Package workers sizes and runs the goroutine pool that processes tile
// layers concurrently, using CPU count and available memory to pick a
// thread count and in-flight budget.
package workers

import (
	"context"
	"math"
	"runtime"

	"github.com/shirou/gopsutil/mem"

	"github.com/atlasdatatech/vectorpipeline/internal/logging"
)

// Sizing holds the derived concurrency parameters for a run.
type Sizing struct {
	Threads       int
	MaxInFlight   int
	AvailableMemB uint64
}

// DetectSizing starts from NumCPU (or an explicit override), rounds down
// to a power of two, and clamps to a sane ceiling. It additionally samples
// free memory via gopsutil to cap how many layers may be processed in
// flight at once.
func DetectSizing(threadOverride int) Sizing {
	cpus := runtime.NumCPU()
	if threadOverride > 0 {
		cpus = threadOverride
	}
	if cpus < 1 {
		cpus = 1
	}
	if cpus > 32767 {
		cpus = 32767
	}
	cpus = 1 << uint(math.Log2(float64(cpus)))

	var availMem uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		availMem = vm.Available
	} else {
		logging.Log.WithError(err).Warn("could not sample available memory, assuming a conservative default")
		availMem = 512 << 20
	}

	maxInFlight := cpus * 4
	// Each in-flight layer needs a working set; don't let the pool oversubscribe
	// a memory-starved host regardless of how many CPUs it reports.
	if perLayerBudget := availMem / (64 << 20); perLayerBudget > 0 && int(perLayerBudget) < maxInFlight {
		maxInFlight = int(perLayerBudget)
	}
	if maxInFlight < 1 {
		maxInFlight = 1
	}

	logging.Log.WithFields(map[string]interface{}{
		"threads":      cpus,
		"max_inflight": maxInFlight,
		"available_mb": availMem / (1 << 20),
	}).Info("worker pool sized")

	return Sizing{Threads: cpus, MaxInFlight: maxInFlight, AvailableMemB: availMem}
}

// Job is one unit of work submitted to a Pool.
type Job func(ctx context.Context) error

// Pool runs each job on its own goroutine, with at most Sizing.MaxInFlight
// jobs running at once.
type Pool struct {
	sem chan struct{}
}

// New creates a Pool that runs at most sizing.MaxInFlight jobs concurrently.
func New(sizing Sizing) *Pool {
	return &Pool{sem: make(chan struct{}, sizing.MaxInFlight)}
}

// Run executes jobs concurrently, respecting the pool's concurrency limit,
// and returns the first error encountered (if any) after all jobs finish.
func (p *Pool) Run(ctx context.Context, jobs []Job) error {
	errs := make(chan error, len(jobs))
	for _, job := range jobs {
		job := job
		select {
		case p.sem <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		go func() {
			defer func() { <-p.sem }()
			errs <- job(ctx)
		}()
	}
	var first error
	for range jobs {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	return first
}
