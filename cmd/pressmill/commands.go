package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	pressmill "github.com/pressmill/pressmill"
	"github.com/pressmill/pressmill/internal/config"
)

// ErrBuildFailed reports an aggregate run failure; the per-task reasons were
// already logged by the orchestrator.
var ErrBuildFailed = errors.New("build finished with failures")

// setup loads config and the resource model, then expands the selection
// into jobs. Every command starts here.
func setup(flags *cliFlags, logger *slog.Logger) (*config.Config, *pressmill.Model, []*pressmill.Job, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, nil, err
	}

	model, err := pressmill.LoadModel(Version, pressmill.NewRegistry(), cfg.Formats, cfg.Projects)
	if err != nil {
		return nil, nil, nil, err
	}

	sel, err := buildSelection(flags)
	if err != nil {
		return nil, nil, nil, err
	}

	jobs, err := pressmill.NewJobs(model, sel, pressmill.JobOptions{
		BuildRoot:  cfg.BuildRoot,
		ExportRoot: cfg.ExportRoot,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, model, jobs, nil
}

func loadConfig(flags *cliFlags) (*config.Config, error) {
	if flags.config != "" {
		return config.Load(flags.config)
	}
	return config.LoadDefault()
}

// buildSelection converts CLI flags into a job selection.
func buildSelection(flags *cliFlags) (pressmill.Selection, error) {
	sel := pressmill.Selection{
		Projects:  flags.projects,
		Formats:   flags.formats,
		Languages: flags.languages,
		Tasks:     flags.tasks,
		Files:     flags.files,
		Debug:     flags.debug,
		Discrete:  flags.discrete,
	}

	if flags.export != "" {
		sel.Export = pressmill.ExportKind(flags.export)
		if flags.pages != "" {
			pages, err := pressmill.ParsePageRange(flags.pages)
			if err != nil {
				return sel, err
			}
			sel.Pages = pages
		}
	}
	return sel, nil
}

// newPipeline builds the pipeline; the -w flag wins over the config file's
// worker setting.
func newPipeline(cfg *config.Config, model *pressmill.Model, flags *cliFlags, logger *slog.Logger) *pressmill.Pipeline {
	workers := flags.workers
	if workers == 0 {
		workers = cfg.Workers
	}
	return pressmill.NewPipeline(model,
		pressmill.WithLogger(logger),
		pressmill.WithWorkers(workers),
	)
}

func runBuild(ctx context.Context, flags *cliFlags, logger *slog.Logger) error {
	return runBuildLike(ctx, flags, logger)
}

func runClean(flags *cliFlags, logger *slog.Logger) error {
	cfg, model, jobs, err := setup(flags, logger)
	if err != nil {
		return err
	}

	pipeline := newPipeline(cfg, model, flags, logger)
	defer pipeline.Close()
	return pipeline.Clean(jobs)
}

func runWatch(ctx context.Context, flags *cliFlags, logger *slog.Logger) error {
	cfg, model, jobs, err := setup(flags, logger)
	if err != nil {
		return err
	}

	pipeline := newPipeline(cfg, model, flags, logger)
	defer pipeline.Close()

	rebuild := func(ctx context.Context) {
		outcome := pipeline.RunBuild(ctx, jobs)
		if outcome.Failed() {
			logger.Error("rebuild finished with failures", "count", len(outcome.Failures()))
		}
	}

	rebuild(ctx)
	logger.Info("watching for changes")
	err = pipeline.Watch(ctx, jobs, rebuild)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runExport(ctx context.Context, flags *cliFlags, logger *slog.Logger) error {
	return runBuildLike(ctx, flags, logger)
}

// runBuildLike runs the expanded jobs (export jobs, once the selection
// carries an export kind) through the same always-settle orchestrator.
func runBuildLike(ctx context.Context, flags *cliFlags, logger *slog.Logger) error {
	cfg, model, jobs, err := setup(flags, logger)
	if err != nil {
		return err
	}

	pipeline := newPipeline(cfg, model, flags, logger)
	defer pipeline.Close()

	outcome := pipeline.RunBuild(ctx, jobs)
	if outcome.Failed() {
		return fmt.Errorf("%w: %d failures", ErrBuildFailed, len(outcome.Failures()))
	}
	return nil
}

func runCheck(flags *cliFlags, logger *slog.Logger) error {
	_, model, _, err := setup(flags, logger)
	if err != nil {
		return err
	}
	fmt.Print(pressmill.ModelReport(model))
	return nil
}
