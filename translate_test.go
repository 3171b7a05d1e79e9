package pressmill

import (
	"path/filepath"
	"testing"
)

func newTranslationJob(t *testing.T, lang string) *Job {
	t.Helper()
	root := t.TempDir()
	return &Job{
		Project:  &Project{Name: "handbook", SourceRoot: filepath.Join(root, "handbook")},
		Format:   &Format{Name: "print", SourceRoot: filepath.Join(root, "print")},
		Language: lang,
	}
}

func TestTranslationApply(t *testing.T) {
	t.Parallel()
	job := newTranslationJob(t, "fr")
	writeTestFile(t, filepath.Join(job.Project.SourceRoot, "translations", "fr.yaml"),
		"greeting: Bonjour\nfarewell: Au revoir\n")

	cache := newTranslationCache()
	got, err := cache.apply(NewResolver(), job, "<p>%greeting%, reader. %farewell%. %unknown%</p>")
	if err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	want := "<p>Bonjour, reader. Au revoir. %unknown%</p>"
	if got != want {
		t.Errorf("apply() = %q, want %q", got, want)
	}
}

func TestTranslationApplySkipsLanguageNeutralJobs(t *testing.T) {
	t.Parallel()
	job := newTranslationJob(t, "")

	got, err := newTranslationCache().apply(NewResolver(), job, "%greeting%")
	if err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	if got != "%greeting%" {
		t.Errorf("apply() = %q, want placeholders untouched", got)
	}
}

func TestTranslationApplyMissingTableIsNoOp(t *testing.T) {
	t.Parallel()
	job := newTranslationJob(t, "de")

	got, err := newTranslationCache().apply(NewResolver(), job, "%greeting%")
	if err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	if got != "%greeting%" {
		t.Errorf("apply() = %q, want pass-through without a translation file", got)
	}
}

func TestTranslationTableFollowsCascade(t *testing.T) {
	t.Parallel()
	job := newTranslationJob(t, "en")
	writeTestFile(t, filepath.Join(job.Format.SourceRoot, "translations", "en.yaml"),
		"greeting: Hello\n")
	writeTestFile(t, filepath.Join(job.Project.SourceRoot, "translations", "en.yaml"),
		"greeting: Hi\n")

	got, err := newTranslationCache().apply(NewResolver(), job, "%greeting%")
	if err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	if got != "Hi" {
		t.Errorf("apply() = %q, want the project tier to shadow the format's", got)
	}
}

func TestTranslationCacheClear(t *testing.T) {
	t.Parallel()
	job := newTranslationJob(t, "en")
	path := filepath.Join(job.Project.SourceRoot, "translations", "en.yaml")
	writeTestFile(t, path, "greeting: Hello\n")

	cache := newTranslationCache()
	r := NewResolver()

	if got, _ := cache.apply(r, job, "%greeting%"); got != "Hello" {
		t.Fatalf("apply() = %q, want Hello", got)
	}

	// The table is cached: an edit is invisible until the cache is cleared.
	writeTestFile(t, path, "greeting: Howdy\n")
	if got, _ := cache.apply(r, job, "%greeting%"); got != "Hello" {
		t.Errorf("apply() = %q, want the stale cached table", got)
	}

	cache.Clear()
	if got, _ := cache.apply(r, job, "%greeting%"); got != "Howdy" {
		t.Errorf("apply() after Clear() = %q, want Howdy", got)
	}
}
