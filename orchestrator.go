package pressmill

import (
	"context"
	"fmt"
	"sync"
)

// TaskResult is the settled outcome of one unit of work: a whole task for
// asset and export jobs, one document for HTML jobs. Err is nil when the
// unit fulfilled.
type TaskResult struct {
	Job      *Job
	Document string
	Err      error
}

// Outcome aggregates every settled result of a run. The run as a whole
// failed iff at least one result is rejected; the failure list length always
// equals the number of failed units.
type Outcome struct {
	Results []TaskResult
}

// Failures returns the rejected results.
func (o *Outcome) Failures() []TaskResult {
	var failed []TaskResult
	for _, r := range o.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Failed reports whether any unit of work was rejected.
func (o *Outcome) Failed() bool {
	for _, r := range o.Results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Summary formats the final one-line outcome.
func (o *Outcome) Summary() string {
	failed := len(o.Failures())
	if failed == 0 {
		return fmt.Sprintf("build succeeded: %d tasks", len(o.Results))
	}
	return fmt.Sprintf("build failed: %d of %d tasks", failed, len(o.Results))
}

// RunBuild executes every job and settles every unit of work. Jobs run
// concurrently up to the worker limit; one job's failure never cancels or
// blocks its siblings, and execution always proceeds to completion for all
// jobs before the aggregate outcome is returned (no fail-fast).
func (p *Pipeline) RunBuild(ctx context.Context, jobs []*Job) *Outcome {
	outcome := &Outcome{}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, p.workers)
	)

	for _, job := range jobs {
		wg.Add(1)
		go func(job *Job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			p.logger.Debug("starting job", "job", job.Name())
			results := p.runJob(ctx, job)

			mu.Lock()
			outcome.Results = append(outcome.Results, results...)
			mu.Unlock()
		}(job)
	}
	wg.Wait()

	for _, failure := range outcome.Failures() {
		p.logger.Error(failure.Err.Error(), "job", failure.Job.Name())
	}
	p.logger.Info(outcome.Summary())
	return outcome
}

// runJob dispatches one job to its task implementation, preferring the
// format's task hook when one is registered.
func (p *Pipeline) runJob(ctx context.Context, job *Job) []TaskResult {
	switch job.Task {
	case TaskHTML:
		if hook := job.Format.Hooks.BuildHTML; hook != nil {
			return []TaskResult{{Job: job, Document: string(TaskHTML), Err: hook(ctx, p, job)}}
		}
		return p.buildHTMLTask(ctx, job)

	case TaskScripts, TaskStylesheets, TaskImages, TaskFonts, TaskVendors:
		run := resolveTaskHook(assetTaskHook(job.Format, job.Task), p.runAssetTask)
		return []TaskResult{{Job: job, Document: string(job.Task), Err: run(ctx, p, job)}}

	case TaskExport:
		return p.exportTask(ctx, job)

	default:
		return []TaskResult{{Job: job, Err: fmt.Errorf("unknown task %q", job.Task)}}
	}
}

// runAssetTask adapts copyAssetTask to the TaskHook signature so it can act
// as the default strategy behind format hooks.
func (p *Pipeline) runAssetTask(ctx context.Context, _ *Pipeline, job *Job) error {
	return p.copyAssetTask(ctx, job)
}
