package pressmill

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"sync"

	"github.com/pressmill/pressmill/internal/yamlutil"
)

// translationsDir holds per-language key/value files inside a source root,
// resolved through the cascade like any other file.
const translationsDir = "translations"

// translationKeyPattern matches %key% placeholders in rendered HTML.
var translationKeyPattern = regexp.MustCompile(`%([A-Za-z0-9_.-]+)%`)

// translationCache is the one piece of shared mutable state that outlives a
// job: translation tables keyed by (project, format, language), filled
// lazily on first use. The cache is owned by a Pipeline, not the process;
// watch sessions clear it between rebuilds.
type translationCache struct {
	mu      sync.Mutex
	entries map[string]map[string]string
}

func newTranslationCache() *translationCache {
	return &translationCache{entries: make(map[string]map[string]string)}
}

// Clear drops every cached table.
func (c *translationCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[string]string)
}

// table returns the translation table for the job's (project, format,
// language), loading it through the cascading resolver on first use.
// A language with no translation file resolves to an empty table.
func (c *translationCache) table(r *Resolver, job *Job) (map[string]string, error) {
	key := job.Project.Name + "\x00" + job.Format.Name + "\x00" + job.Language

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.entries[key]; ok {
		return cached, nil
	}

	table := map[string]string{}
	data, err := r.Resolve(job.Project, job.Format, path.Join(translationsDir, job.Language+".yaml"))
	switch {
	case errors.Is(err, ErrNotResolved):
		// No translation file for this language; substitution is a no-op.
	case err != nil:
		return nil, err
	default:
		if err := yamlutil.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("translations %s: %w", job.Language, err)
		}
	}

	c.entries[key] = table
	return table, nil
}

// apply substitutes %key% placeholders in rendered HTML using the job's
// translation table. Unknown keys pass through unchanged. Language-neutral
// jobs skip substitution entirely.
func (c *translationCache) apply(r *Resolver, job *Job, content string) (string, error) {
	if job.Language == "" {
		return content, nil
	}
	table, err := c.table(r, job)
	if err != nil {
		return "", err
	}
	if len(table) == 0 {
		return content, nil
	}

	return translationKeyPattern.ReplaceAllStringFunc(content, func(match string) string {
		key := match[1 : len(match)-1]
		if value, ok := table[key]; ok {
			return value
		}
		return match
	}), nil
}
