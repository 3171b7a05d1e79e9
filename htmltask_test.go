package pressmill

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/net/html"
)

const introMarkdown = `# Hello World

\exampleBegin {"title":"Demo"}
Worked example.
\exampleEnd
`

// newBuildFixture lays out a complete project and format on disk and returns
// a pipeline over them plus the job options rooted in a temp directory.
func newBuildFixture(t *testing.T) (*Pipeline, *Model, JobOptions) {
	t.Helper()
	root := t.TempDir()

	format := &Format{
		Name:       "print",
		Version:    semver.MustParse("1.0.0"),
		SourceRoot: filepath.Join(root, "formats", "print"),
		ExportProfiles: map[ExportKind]ExportProfile{
			ExportPDF: {},
			ExportPNG: {},
			ExportJPG: {},
			ExportZip: {},
		},
	}
	rng, err := semver.NewConstraint("^1.0.0")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	project := &Project{
		Name:       "handbook",
		Version:    semver.MustParse("0.3.0"),
		SourceRoot: filepath.Join(root, "projects", "handbook"),
		RequiredFormats: []FormatRequirement{
			{Format: "print", Range: rng, Languages: []string{"en"}},
		},
	}

	writeTestFile(t, filepath.Join(project.SourceRoot, "fragments", "intro.md"), introMarkdown)
	writeTestFile(t, filepath.Join(project.SourceRoot, "fragments", "outro.md"), "## Farewell\n")
	writeTestFile(t, filepath.Join(project.SourceRoot, "collections", "book.json"),
		`{"filename": "book", "contents": ["intro", "outro"]}`)
	writeTestFile(t, filepath.Join(format.SourceRoot, "stylesheets", "main.css"), "body {}")

	model := &Model{Formats: []*Format{format}, Projects: []*Project{project}}
	pipeline := NewPipeline(model,
		WithLogger(discardLogger()),
		WithExporter(&fakeExporter{}),
		WithWorkers(2),
	)
	t.Cleanup(func() { _ = pipeline.Close() })

	opts := JobOptions{
		BuildRoot:  filepath.Join(root, "build"),
		ExportRoot: filepath.Join(root, "export"),
		Logger:     discardLogger(),
	}
	return pipeline, model, opts
}

func buildJobs(t *testing.T, model *Model, sel Selection, opts JobOptions) []*Job {
	t.Helper()
	jobs, err := NewJobs(model, sel, opts)
	if err != nil {
		t.Fatalf("NewJobs() error = %v", err)
	}
	return jobs
}

func readBuilt(t *testing.T, opts JobOptions, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(opts.BuildRoot, "handbook", "print", rel))
	if err != nil {
		t.Fatalf("reading built file %s: %v", rel, err)
	}
	return string(data)
}

func TestBuildHTMLFragments(t *testing.T) {
	t.Parallel()
	pipeline, model, opts := newBuildFixture(t)
	jobs := buildJobs(t, model, Selection{Tasks: []string{"html"}}, opts)

	outcome := pipeline.RunBuild(context.Background(), jobs)
	if outcome.Failed() {
		t.Fatalf("build failed: %+v", outcome.Failures())
	}

	page := readBuilt(t, opts, filepath.Join("html", "intro_en.html"))
	for _, fragment := range []string{
		"<!DOCTYPE html>",
		`id="hello-world"`,
		`panel panel--example`,
		"Worked example.",
		`href="../stylesheets/main.css"`,
	} {
		if !strings.Contains(page, fragment) {
			t.Errorf("intro_en.html missing %q:\n%s", fragment, page)
		}
	}
}

func TestBuildHTMLCollection(t *testing.T) {
	t.Parallel()
	pipeline, model, opts := newBuildFixture(t)
	jobs := buildJobs(t, model, Selection{Tasks: []string{"html"}}, opts)

	outcome := pipeline.RunBuild(context.Background(), jobs)
	if outcome.Failed() {
		t.Fatalf("build failed: %+v", outcome.Failures())
	}

	// The collection name embeds the project version and language suffix.
	page := readBuilt(t, opts, filepath.Join("html", "book-v0.3.0_en.html"))
	if !strings.Contains(page, "Worked example.") || !strings.Contains(page, "Farewell") {
		t.Errorf("collection must concatenate its fragments in order:\n%s", page)
	}
	if strings.Index(page, "Worked example.") > strings.Index(page, "Farewell") {
		t.Error("collection fragments out of manifest order")
	}
}

func TestBuildCollectionManifestErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing fragment", func(t *testing.T) {
		t.Parallel()
		pipeline, model, opts := newBuildFixture(t)
		project := model.Project("handbook")
		writeTestFile(t, filepath.Join(project.SourceRoot, "collections", "bad.json"),
			`{"filename": "bad", "contents": ["nonexistent"]}`)

		jobs := buildJobs(t, model, Selection{Tasks: []string{"html"}, Files: []string{"bad"}}, opts)
		outcome := pipeline.RunBuild(context.Background(), jobs)
		failures := outcome.Failures()
		if len(failures) != 1 {
			t.Fatalf("failures = %d, want 1", len(failures))
		}
		if !errors.Is(failures[0].Err, ErrMissingFragment) {
			t.Errorf("error = %v, want ErrMissingFragment", failures[0].Err)
		}
	})

	t.Run("invalid manifest", func(t *testing.T) {
		t.Parallel()
		pipeline, model, opts := newBuildFixture(t)
		project := model.Project("handbook")
		writeTestFile(t, filepath.Join(project.SourceRoot, "collections", "empty.json"),
			`{"filename": "empty", "contents": []}`)

		jobs := buildJobs(t, model, Selection{Tasks: []string{"html"}, Files: []string{"empty"}}, opts)
		outcome := pipeline.RunBuild(context.Background(), jobs)
		failures := outcome.Failures()
		if len(failures) != 1 || !errors.Is(failures[0].Err, ErrManifestInvalid) {
			t.Errorf("failures = %+v, want one ErrManifestInvalid", failures)
		}
	})

	t.Run("unparseable manifest", func(t *testing.T) {
		t.Parallel()
		pipeline, model, opts := newBuildFixture(t)
		project := model.Project("handbook")
		writeTestFile(t, filepath.Join(project.SourceRoot, "collections", "garbled.json"), "{not json")

		jobs := buildJobs(t, model, Selection{Tasks: []string{"html"}, Files: []string{"garbled"}}, opts)
		outcome := pipeline.RunBuild(context.Background(), jobs)
		failures := outcome.Failures()
		if len(failures) != 1 || !errors.Is(failures[0].Err, ErrManifestParse) {
			t.Errorf("failures = %+v, want one ErrManifestParse", failures)
		}
	})
}

func TestBuildFragmentOverrideWins(t *testing.T) {
	t.Parallel()
	pipeline, model, opts := newBuildFixture(t)
	project := model.Project("handbook")

	// A format-specific override of the same fragment fully shadows the
	// project-level source.
	writeTestFile(t, filepath.Join(project.SourceRoot, "formats", "print", "fragments", "intro.md"),
		"# Print Intro\n")

	jobs := buildJobs(t, model, Selection{Tasks: []string{"html"}, Files: []string{"intro"}}, opts)
	outcome := pipeline.RunBuild(context.Background(), jobs)
	if outcome.Failed() {
		t.Fatalf("build failed: %+v", outcome.Failures())
	}

	page := readBuilt(t, opts, filepath.Join("html", "intro_en.html"))
	if !strings.Contains(page, "Print Intro") {
		t.Errorf("override fragment not used:\n%s", page)
	}
	if strings.Contains(page, "Worked example.") {
		t.Errorf("tiers must shadow, never merge:\n%s", page)
	}
}

func TestBuildAppliesTranslations(t *testing.T) {
	t.Parallel()
	pipeline, model, opts := newBuildFixture(t)
	project := model.Project("handbook")
	writeTestFile(t, filepath.Join(project.SourceRoot, "fragments", "greet.md"), "%greeting%, reader.\n")
	writeTestFile(t, filepath.Join(project.SourceRoot, "translations", "en.yaml"), "greeting: Hello\n")

	jobs := buildJobs(t, model, Selection{Tasks: []string{"html"}, Files: []string{"greet"}}, opts)
	outcome := pipeline.RunBuild(context.Background(), jobs)
	if outcome.Failed() {
		t.Fatalf("build failed: %+v", outcome.Failures())
	}

	page := readBuilt(t, opts, filepath.Join("html", "greet_en.html"))
	if !strings.Contains(page, "Hello, reader.") {
		t.Errorf("translations not applied:\n%s", page)
	}
}

func TestBuildRunsDOMHooks(t *testing.T) {
	t.Parallel()
	pipeline, model, opts := newBuildFixture(t)
	project := model.Project("handbook")
	project.Hooks.ProcessDOMFragment = func(doc *html.Node, job *Job) error {
		body := FindElement(doc, "body")
		if body == nil {
			return errors.New("no body element")
		}
		return AppendHTML(body, `<footer class="stamp">`+job.Project.Name+`</footer>`)
	}

	jobs := buildJobs(t, model, Selection{Tasks: []string{"html"}, Files: []string{"intro"}}, opts)
	outcome := pipeline.RunBuild(context.Background(), jobs)
	if outcome.Failed() {
		t.Fatalf("build failed: %+v", outcome.Failures())
	}

	page := readBuilt(t, opts, filepath.Join("html", "intro_en.html"))
	if !strings.Contains(page, `<footer class="stamp">handbook</footer>`) {
		t.Errorf("DOM hook output missing:\n%s", page)
	}
}

func TestBuildCollectionJSONCompanion(t *testing.T) {
	t.Parallel()
	pipeline, model, opts := newBuildFixture(t)
	format := model.Format("print")
	format.Hooks.RenderCollectionJSON = func(job *Job, m *CollectionManifest) ([]byte, error) {
		return []byte(`{"doc":"` + m.Filename + `"}`), nil
	}

	jobs := buildJobs(t, model, Selection{Tasks: []string{"html"}, Files: []string{"book"}}, opts)
	outcome := pipeline.RunBuild(context.Background(), jobs)
	if outcome.Failed() {
		t.Fatalf("build failed: %+v", outcome.Failures())
	}

	companion := readBuilt(t, opts, filepath.Join("html", "book-v0.3.0_en.json"))
	if companion != `{"doc":"book"}` {
		t.Errorf("companion = %q", companion)
	}
}

func TestBuildCopiesAssets(t *testing.T) {
	t.Parallel()
	pipeline, model, opts := newBuildFixture(t)
	jobs := buildJobs(t, model, Selection{Tasks: []string{"stylesheets", "fonts"}}, opts)

	outcome := pipeline.RunBuild(context.Background(), jobs)
	if outcome.Failed() {
		t.Fatalf("build failed: %+v", outcome.Failures())
	}

	css := readBuilt(t, opts, filepath.Join("stylesheets", "main.css"))
	if css != "body {}" {
		t.Errorf("stylesheet = %q", css)
	}

	// No tier ships fonts: the task settles clean with nothing to emit.
	if _, err := os.Stat(filepath.Join(opts.BuildRoot, "handbook", "print", "fonts")); !os.IsNotExist(err) {
		t.Error("fonts directory must not exist when no tier ships fonts")
	}
}

func TestListDocumentsMergesTiers(t *testing.T) {
	t.Parallel()
	pipeline, model, opts := newBuildFixture(t)
	project := model.Project("handbook")
	format := model.Format("print")
	writeTestFile(t, filepath.Join(project.SourceRoot, "formats", "print", "fragments", "print-only.md"), "x\n")
	writeTestFile(t, filepath.Join(format.SourceRoot, "fragments", "format-only.md"), "x\n")

	job := &Job{Project: project, Format: format, BuildDir: filepath.Join(opts.BuildRoot, "handbook", "print")}
	names := pipeline.listDocuments(job, fragmentsDir, ".md")

	want := []string{"format-only", "intro", "outro", "print-only"}
	if len(names) != len(want) {
		t.Fatalf("listDocuments() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("listDocuments()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestBuildFormatShippedFragment(t *testing.T) {
	t.Parallel()
	pipeline, model, opts := newBuildFixture(t)
	format := model.Format("print")
	writeTestFile(t, filepath.Join(format.SourceRoot, "fragments", "colophon.md"), "## Colophon\n")

	jobs := buildJobs(t, model, Selection{Tasks: []string{"html"}, Files: []string{"colophon"}}, opts)
	outcome := pipeline.RunBuild(context.Background(), jobs)
	if outcome.Failed() {
		t.Fatalf("build failed: %+v", outcome.Failures())
	}

	page := readBuilt(t, opts, filepath.Join("html", "colophon_en.html"))
	if !strings.Contains(page, `id="colophon"`) {
		t.Errorf("colophon_en.html missing heading:\n%s", page)
	}
}

func TestOutputNames(t *testing.T) {
	t.Parallel()
	job := &Job{
		Project:  &Project{Name: "handbook", Version: semver.MustParse("0.3.0")},
		Language: "fr",
	}

	if got := fragmentOutputName("intro", job); got != "intro_fr.html" {
		t.Errorf("fragmentOutputName() = %q", got)
	}
	m := &CollectionManifest{Filename: "book"}
	if got := collectionOutputName(m, job); got != "book-v0.3.0_fr.html" {
		t.Errorf("collectionOutputName() = %q", got)
	}

	job.Language = ""
	if got := fragmentOutputName("intro", job); got != "intro.html" {
		t.Errorf("fragmentOutputName() without language = %q", got)
	}
}
