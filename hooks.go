package pressmill

import (
	"context"
	"io"

	"golang.org/x/net/html"
)

// Hook signatures. Every hook is an explicit optional-strategy field: a nil
// function means "not overridden" and the next precedence tier applies.

// TaskHook replaces a whole build or export task for one job.
type TaskHook func(ctx context.Context, p *Pipeline, job *Job) error

// WrapperHook wraps a rendered document body into a complete HTML page.
type WrapperHook func(job *Job, title, body string) string

// DOMHook post-processes a parsed HTML document before serialization.
type DOMHook func(doc *html.Node, job *Job) error

// SaveHook writes one finished document to its output path.
type SaveHook func(job *Job, path string, content []byte) error

// ValidateHook checks a collection manifest before it is built.
type ValidateHook func(m *CollectionManifest) error

// CollectionJSONHook renders a JSON companion artifact for a collection.
type CollectionJSONHook func(job *Job, m *CollectionManifest) ([]byte, error)

// BlockRenderer renders one custom markdown block. It is called twice per
// block, once entering (write opening markup) and once leaving (write closing
// markup); the block's children render in between.
type BlockRenderer func(w io.Writer, b *Block, entering bool) error

// HookTable is the fixed set of override points a format may supply.
type HookTable struct {
	// Build-phase hooks, one per task group.
	BuildHTML            TaskHook
	BuildHTMLFragments   TaskHook
	BuildHTMLCollections TaskHook
	BuildScripts         TaskHook
	BuildStylesheets     TaskHook
	BuildImages          TaskHook
	BuildFonts           TaskHook
	BuildVendors         TaskHook

	// Export hooks.
	ExportPDF  TaskHook
	ExportPNGs TaskHook
	ExportJPGs TaskHook
	ExportZip  TaskHook

	// Rendering hooks.
	RenderFragmentWrapper   WrapperHook
	RenderCollectionWrapper WrapperHook
	RenderCollectionJSON    CollectionJSONHook
	SaveFragment            SaveHook
	SaveCollection          SaveHook
	ValidateCollectionJSON  ValidateHook

	// DOM-processing hooks.
	ProcessDOMFragment   DOMHook
	ProcessDOMCollection DOMHook
}

// DOMHooks is the project-level subset of the hook table: a project may
// reshape the rendered DOM but not replace build or export behavior.
type DOMHooks struct {
	ProcessDOMFragment   DOMHook
	ProcessDOMCollection DOMHook
}

// FormatModule carries the Go-side capabilities of a format descriptor:
// override hooks and custom block renderers registered by name.
type FormatModule struct {
	Hooks          HookTable
	BlockRenderers map[string]BlockRenderer
}

// ProjectModule carries the Go-side capabilities of a project descriptor.
type ProjectModule struct {
	Hooks DOMHooks
}

// Registry binds descriptor names to their registered Go capabilities.
// Descriptors themselves are plain YAML files; any hook functions live in Go
// and attach at load time through the registry. A format or project without
// a registered module simply has no overrides.
type Registry struct {
	formats  map[string]FormatModule
	projects map[string]ProjectModule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		formats:  make(map[string]FormatModule),
		projects: make(map[string]ProjectModule),
	}
}

// RegisterFormat attaches hook and block-renderer capabilities to the format
// with the given descriptor name. Registering twice replaces the entry.
func (r *Registry) RegisterFormat(name string, m FormatModule) {
	r.formats[name] = m
}

// RegisterProject attaches DOM-processing hooks to the project with the given
// descriptor name.
func (r *Registry) RegisterProject(name string, m ProjectModule) {
	r.projects[name] = m
}

func (r *Registry) formatModule(name string) FormatModule {
	if r == nil {
		return FormatModule{}
	}
	return r.formats[name]
}

func (r *Registry) projectModule(name string) ProjectModule {
	if r == nil {
		return ProjectModule{}
	}
	return r.projects[name]
}
