package pressmill

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressmill/pressmill/internal/fileutil"
)

// formatsOverrideDir is the directory inside a project's source root that
// holds format-specific overrides.
const formatsOverrideDir = "formats"

// Resolver locates files across the three cascading precedence tiers:
//
//  1. project source root / formats / <format name> / relative path
//  2. project source root / relative path
//  3. format source root / relative path
//
// The first tier with an existing entry wins and its result is used alone;
// tiers are never merged. The same rule applies uniformly to translation
// files, fragments named by collections, and any other file lookup.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Candidates returns the ordered candidate paths for a lookup, most specific
// first. The caller decides what "existing" means (file vs directory).
func (r *Resolver) Candidates(project *Project, format *Format, relPath string) []string {
	return []string{
		filepath.Join(project.SourceRoot, formatsOverrideDir, format.Name, relPath),
		filepath.Join(project.SourceRoot, relPath),
		filepath.Join(format.SourceRoot, relPath),
	}
}

// ResolvePath returns the most specific existing file for relPath.
// Returns ErrNotResolved when no tier has the file.
func (r *Resolver) ResolvePath(project *Project, format *Format, relPath string) (string, error) {
	for _, candidate := range r.Candidates(project, format, relPath) {
		if fileutil.FileExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s (project %s, format %s)", ErrNotResolved, relPath, project.Name, format.Name)
}

// Resolve reads the most specific existing file for relPath.
func (r *Resolver) Resolve(project *Project, format *Format, relPath string) ([]byte, error) {
	path, err := r.ResolvePath(project, format, relPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from resolved resource roots
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// ResolveDir returns the most specific existing directory for relPath.
func (r *Resolver) ResolveDir(project *Project, format *Format, relPath string) (string, error) {
	for _, candidate := range r.Candidates(project, format, relPath) {
		if fileutil.DirExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s/ (project %s, format %s)", ErrNotResolved, relPath, project.Name, format.Name)
}

// Function overrides mirror the same precedence through the hook tables: the
// project's hook wins over the format's, which wins over the engine default.
// Hooks are plain optional fields, so resolution is a nil check per tier.

// resolveDOMHook picks the DOM post-processing hook for a document kind.
func resolveDOMHook(project *Project, format *Format, collection bool, def DOMHook) DOMHook {
	if collection {
		if project.Hooks.ProcessDOMCollection != nil {
			return project.Hooks.ProcessDOMCollection
		}
		if format.Hooks.ProcessDOMCollection != nil {
			return format.Hooks.ProcessDOMCollection
		}
		return def
	}
	if project.Hooks.ProcessDOMFragment != nil {
		return project.Hooks.ProcessDOMFragment
	}
	if format.Hooks.ProcessDOMFragment != nil {
		return format.Hooks.ProcessDOMFragment
	}
	return def
}

// resolveTaskHook picks a format-level task hook or the built-in task.
// Build and export behavior is a format capability, so there is no project
// tier here.
func resolveTaskHook(hook TaskHook, def TaskHook) TaskHook {
	if hook != nil {
		return hook
	}
	return def
}

// resolveWrapperHook picks a format-level wrapper or the built-in one.
func resolveWrapperHook(hook WrapperHook, def WrapperHook) WrapperHook {
	if hook != nil {
		return hook
	}
	return def
}

// resolveSaveHook picks a format-level save hook or the default file write.
func resolveSaveHook(hook SaveHook, def SaveHook) SaveHook {
	if hook != nil {
		return hook
	}
	return def
}
