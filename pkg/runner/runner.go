package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/gomdhelp/internal/logging"
	"github.com/yaklabco/gomdhelp/pkg/readme"
)

// Renderer renders one README.
type Renderer interface {
	ConvertFile(ctx context.Context, req readme.Request) (*readme.Page, error)
}

// Runner renders modules concurrently with a shared Renderer.
type Runner struct {
	// Renderer must be safe for concurrent use.
	Renderer Renderer

	// Topics supplies the module list when Options.Modules is empty.
	Topics TopicLister
}

// New creates a new Runner.
func New(renderer Renderer, topics TopicLister) *Runner {
	return &Runner{Renderer: renderer, Topics: topics}
}

// Run renders every selected module using a worker pool. Outcomes keep the
// input order regardless of completion order. Per-module failures are
// recorded in the result; the returned error is reserved for discovery
// failures and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	names, err := Discover(ctx, r.Topics, opts.Modules)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Modules: make([]ModuleOutcome, 0, len(names)),
	}
	result.Stats.Discovered = len(names)

	if len(names) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than modules.
	jobs = min(jobs, len(names))

	logging.FromContext(ctx).Debug("rendering modules",
		logging.FieldModulesDiscovered, len(names),
		logging.FieldJobs, jobs,
	)

	workCh := make(chan int)
	outCh := make(chan indexedOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, names, opts)
		}()
	}

	go func() {
		defer close(workCh)
		for i := range names {
			select {
			case <-ctx.Done():
				return
			case workCh <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make([]*ModuleOutcome, len(names))
	for out := range outCh {
		outcomes[out.index] = &out.outcome
	}

	for _, outcome := range outcomes {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

type indexedOutcome struct {
	index   int
	outcome ModuleOutcome
}

func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan int,
	outCh chan<- indexedOutcome,
	names []string,
	opts Options,
) {
	for i := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.render(ctx, names[i], opts)

		select {
		case <-ctx.Done():
			return
		case outCh <- indexedOutcome{index: i, outcome: outcome}:
		}
	}
}

func (r *Runner) render(ctx context.Context, name string, opts Options) ModuleOutcome {
	outcome := ModuleOutcome{Module: name}
	logger := logging.FromContext(ctx)

	req := opts.Request
	req.Module = name

	page, err := r.Renderer.ConvertFile(ctx, req)
	if err != nil {
		outcome.Error = fmt.Errorf("render %s: %w", name, err)
		logger.Debug("render failed", logging.FieldModule, name, logging.FieldError, err)
		return outcome
	}
	outcome.Page = page

	if opts.Writer != nil {
		written, err := opts.Writer.WritePage(ctx, page)
		if err != nil {
			outcome.Error = err
			return outcome
		}
		outcome.Written = written
	}

	return outcome
}
