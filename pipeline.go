package pressmill

import (
	"log/slog"
	"runtime"
)

// Worker sizing constants, adapted to keep headroom for Chrome child
// processes during exports.
const (
	MinWorkers = 1
	MaxWorkers = 8

	cpuDivisor = 2
)

// ResolveWorkers determines the job concurrency limit.
// An explicit value wins; otherwise the limit derives from GOMAXPROCS
// (adjusted by automaxprocs in containerized environments).
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// Pipeline runs jobs against a loaded resource model. It owns the only
// long-lived mutable state of a run, the translation cache, and the shared
// browser-backed exporter. Everything else is job-local.
type Pipeline struct {
	model        *Model
	resolver     *Resolver
	logger       *slog.Logger
	translations *translationCache
	exporter     Exporter
	workers      int
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the structured logger for warnings and progress.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = logger }
}

// WithExporter injects an export backend (e.g. by tests, replacing the
// headless browser).
func WithExporter(e Exporter) PipelineOption {
	return func(p *Pipeline) { p.exporter = e }
}

// WithWorkers sets the job concurrency limit.
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) { p.workers = ResolveWorkers(n) }
}

// NewPipeline creates a Pipeline over the loaded model.
func NewPipeline(model *Model, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		model:        model,
		resolver:     NewResolver(),
		logger:       slog.Default(),
		translations: newTranslationCache(),
		workers:      ResolveWorkers(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.exporter == nil {
		p.exporter = newRodExporter(defaultExportTimeout)
	}
	return p
}

// Model returns the pipeline's resource model.
func (p *Pipeline) Model() *Model { return p.model }

// Resolver returns the pipeline's cascading resolver.
func (p *Pipeline) Resolver() *Resolver { return p.resolver }

// ClearTranslations drops the translation cache. Watch sessions call this
// between rebuilds so edited translation files are re-read.
func (p *Pipeline) ClearTranslations() {
	p.translations.Clear()
}

// Close releases the export backend (headless browser, when one was opened).
func (p *Pipeline) Close() error {
	if p.exporter != nil {
		return p.exporter.Close()
	}
	return nil
}
