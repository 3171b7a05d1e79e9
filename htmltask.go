package pressmill

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Content directories inside a project's source root.
const (
	fragmentsDir   = "fragments"
	collectionsDir = "collections"
	htmlOutputDir  = "html"
)

// CollectionManifest names the markdown fragments concatenated into one
// rendered document.
type CollectionManifest struct {
	Filename string   `json:"filename"`
	Contents []string `json:"contents"`
}

// defaultValidateManifest is the built-in ValidateCollectionJSON hook.
func defaultValidateManifest(m *CollectionManifest) error {
	if m.Filename == "" {
		return fmt.Errorf("%w: missing filename", ErrManifestInvalid)
	}
	if len(m.Contents) == 0 {
		return fmt.Errorf("%w: empty contents", ErrManifestInvalid)
	}
	return nil
}

// buildHTMLTask renders every fragment and collection for one (project,
// format, language) job. Each document is independent: a failing document
// contributes one rejection and its siblings still build.
func (p *Pipeline) buildHTMLTask(ctx context.Context, job *Job) []TaskResult {
	var results []TaskResult
	results = append(results, p.buildFragments(ctx, job)...)
	results = append(results, p.buildCollections(ctx, job)...)
	return results
}

// buildFragments renders each standalone markdown fragment.
func (p *Pipeline) buildFragments(ctx context.Context, job *Job) []TaskResult {
	if hook := job.Format.Hooks.BuildHTMLFragments; hook != nil {
		return []TaskResult{{Job: job, Document: fragmentsDir, Err: hook(ctx, p, job)}}
	}

	var results []TaskResult
	for _, name := range p.listDocuments(job, fragmentsDir, ".md") {
		if !job.Files.Match(name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			results = append(results, TaskResult{Job: job, Document: name, Err: err})
			continue
		}
		err := p.buildFragmentDocument(job, name)
		if err != nil {
			err = fmt.Errorf("[building %s/%s/%s] %w", job.Project.Name, fragmentsDir, name, err)
		}
		results = append(results, TaskResult{Job: job, Document: name, Err: err})
	}
	return results
}

// buildFragmentDocument runs the strictly sequential document pipeline:
// resolve source, tokenize and render markdown, apply DOM hooks, substitute
// translations, normalize, write.
func (p *Pipeline) buildFragmentDocument(job *Job, name string) error {
	source, err := p.resolver.Resolve(job.Project, job.Format, path.Join(fragmentsDir, name+".md"))
	if err != nil {
		return err
	}

	body, err := RenderMarkdown(source, RenderOptions{Format: job.Format, Logger: p.logger})
	if err != nil {
		return err
	}

	wrap := resolveWrapperHook(job.Format.Hooks.RenderFragmentWrapper, defaultWrapper)
	page := wrap(job, name, body)

	page, err = p.processDOM(page, job, false)
	if err != nil {
		return err
	}

	page, err = p.translations.apply(p.resolver, job, page)
	if err != nil {
		return err
	}

	save := resolveSaveHook(job.Format.Hooks.SaveFragment, defaultSave)
	return save(job, filepath.Join(job.BuildDir, htmlOutputDir, fragmentOutputName(name, job)), []byte(page))
}

// buildCollections renders each JSON-manifested collection.
func (p *Pipeline) buildCollections(ctx context.Context, job *Job) []TaskResult {
	if hook := job.Format.Hooks.BuildHTMLCollections; hook != nil {
		return []TaskResult{{Job: job, Document: collectionsDir, Err: hook(ctx, p, job)}}
	}

	var results []TaskResult
	for _, name := range p.listDocuments(job, collectionsDir, ".json") {
		if !job.Files.Match(name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			results = append(results, TaskResult{Job: job, Document: name, Err: err})
			continue
		}
		err := p.buildCollectionDocument(job, name)
		if err != nil {
			err = fmt.Errorf("[building %s/%s/%s] %w", job.Project.Name, collectionsDir, name, err)
		}
		results = append(results, TaskResult{Job: job, Document: name, Err: err})
	}
	return results
}

// buildCollectionDocument concatenates the manifest's fragments in order and
// runs the result through the same document pipeline as a fragment.
func (p *Pipeline) buildCollectionDocument(job *Job, name string) error {
	manifest, err := p.loadManifest(job, name)
	if err != nil {
		return err
	}

	validate := job.Format.Hooks.ValidateCollectionJSON
	if validate == nil {
		validate = defaultValidateManifest
	}
	if err := validate(manifest); err != nil {
		return err
	}

	var combined strings.Builder
	for _, fragment := range manifest.Contents {
		source, err := p.resolver.Resolve(job.Project, job.Format, path.Join(fragmentsDir, fragment+".md"))
		if err != nil {
			return fmt.Errorf("%w: %q", ErrMissingFragment, fragment)
		}
		combined.Write(source)
		combined.WriteString("\n\n")
	}

	body, err := RenderMarkdown([]byte(combined.String()), RenderOptions{Format: job.Format, Logger: p.logger})
	if err != nil {
		return err
	}

	wrap := resolveWrapperHook(job.Format.Hooks.RenderCollectionWrapper, defaultWrapper)
	page := wrap(job, manifest.Filename, body)

	page, err = p.processDOM(page, job, true)
	if err != nil {
		return err
	}

	page, err = p.translations.apply(p.resolver, job, page)
	if err != nil {
		return err
	}

	outName := collectionOutputName(manifest, job)
	save := resolveSaveHook(job.Format.Hooks.SaveCollection, defaultSave)
	if err := save(job, filepath.Join(job.BuildDir, htmlOutputDir, outName), []byte(page)); err != nil {
		return err
	}

	// A format may emit a JSON companion artifact next to the document.
	if jsonHook := job.Format.Hooks.RenderCollectionJSON; jsonHook != nil {
		data, err := jsonHook(job, manifest)
		if err != nil {
			return err
		}
		jsonName := strings.TrimSuffix(outName, ".html") + ".json"
		if err := defaultSave(job, filepath.Join(job.BuildDir, htmlOutputDir, jsonName), data); err != nil {
			return err
		}
	}
	return nil
}

// loadManifest resolves and parses one collection manifest.
func (p *Pipeline) loadManifest(job *Job, name string) (*CollectionManifest, error) {
	data, err := p.resolver.Resolve(job.Project, job.Format, path.Join(collectionsDir, name+".json"))
	if err != nil {
		return nil, err
	}
	var manifest CollectionManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestParse, err)
	}
	return &manifest, nil
}

// listDocuments enumerates document names (extension stripped) under a
// content directory across all cascade tiers, most specific first, so
// documents shipped only with the format still get built. Names are
// deduplicated and sorted so output ordering is deterministic.
func (p *Pipeline) listDocuments(job *Job, subdir, ext string) []string {
	dirs := []string{
		filepath.Join(job.Project.SourceRoot, formatsOverrideDir, job.Format.Name, subdir),
		filepath.Join(job.Project.SourceRoot, subdir),
		filepath.Join(job.Format.SourceRoot, subdir),
	}

	seen := make(map[string]struct{})
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
				continue
			}
			seen[strings.TrimSuffix(entry.Name(), ext)] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// languageSuffix returns "_<lang>" for language-bearing jobs.
func languageSuffix(job *Job) string {
	if job.Language == "" {
		return ""
	}
	return "_" + job.Language
}

// fragmentOutputName composes the collision-free output file name for a
// fragment: fragment name plus language suffix.
func fragmentOutputName(name string, job *Job) string {
	return name + languageSuffix(job) + ".html"
}

// collectionOutputName composes the output name for a collection: the
// manifest's declared name with the project version embedded, plus the
// language suffix.
func collectionOutputName(m *CollectionManifest, job *Job) string {
	return fmt.Sprintf("%s-v%s%s.html", m.Filename, job.Project.Version, languageSuffix(job))
}

// defaultWrapper is the built-in page shell: a complete HTML5 document
// linking the sibling stylesheet and script bundles the asset tasks emit.
func defaultWrapper(job *Job, title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<link rel="stylesheet" href="../stylesheets/main.css">
</head>
<body>
%s
<script src="../scripts/main.js"></script>
</body>
</html>`, html.EscapeString(title), body)
}

// defaultSave writes a finished document, creating parent directories.
func defaultSave(_ *Job, outPath string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	// #nosec G306 -- build artifacts are meant to be readable
	if err := os.WriteFile(outPath, content, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
