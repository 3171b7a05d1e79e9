package pressmill

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/text/language"
)

// Task names one build task group.
type Task string

// Build task groups, in the order the orchestrator runs them.
const (
	TaskHTML        Task = "html"
	TaskScripts     Task = "scripts"
	TaskStylesheets Task = "stylesheets"
	TaskImages      Task = "images"
	TaskFonts       Task = "fonts"
	TaskVendors     Task = "vendors"

	// TaskExport is the synthetic task carried by export jobs; it is never
	// part of a build selection.
	TaskExport Task = "export"
)

// AllTasks lists every build task group.
var AllTasks = []Task{TaskHTML, TaskScripts, TaskStylesheets, TaskImages, TaskFonts, TaskVendors}

// IsKnownTask reports whether t names a build task group.
func IsKnownTask(t Task) bool {
	for _, known := range AllTasks {
		if known == t {
			return true
		}
	}
	return false
}

// Selection restricts which jobs a run expands to. All fields are optional;
// an empty field means "all available". Lists are de-duplicated during
// expansion, so naming an entry twice never doubles its jobs.
type Selection struct {
	Projects  []string
	Formats   []string
	Languages []string
	Tasks     []string
	Files     []string

	Export ExportKind
	Pages  []int

	Debug    bool
	Discrete bool
}

// dedupe removes duplicates while preserving first-occurrence order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ValidateLanguages checks that every entry is a well-formed BCP 47 tag.
func ValidateLanguages(tags []string) error {
	for _, tag := range tags {
		if _, err := language.Parse(tag); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidLanguage, tag, err)
		}
	}
	return nil
}

// ParsePageRange parses the CLI page-range grammar: "N", "N-M", or
// comma-separated combinations. The result is deduplicated and ascending
// regardless of input order.
func ParsePageRange(input string) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPageRange
	}

	pages := make(map[int]struct{})
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		lo, hi, err := parsePageSpan(part)
		if err != nil {
			return nil, err
		}
		for p := lo; p <= hi; p++ {
			pages[p] = struct{}{}
		}
	}

	out := make([]int, 0, len(pages))
	for p := range pages {
		out = append(out, p)
	}
	sort.Ints(out)
	return out, nil
}

// parsePageSpan parses one comma-separated element: a single page or an
// inclusive N-M span.
func parsePageSpan(part string) (lo, hi int, err error) {
	if part == "" {
		return 0, 0, fmt.Errorf("%w: empty element", ErrInvalidPageRange)
	}

	if lo, hi, ok := strings.Cut(part, "-"); ok {
		start, err := parsePageNumber(lo)
		if err != nil {
			return 0, 0, err
		}
		end, err := parsePageNumber(hi)
		if err != nil {
			return 0, 0, err
		}
		if end < start {
			return 0, 0, fmt.Errorf("%w: %q is descending", ErrInvalidPageRange, part)
		}
		return start, end, nil
	}

	page, err := parsePageNumber(part)
	if err != nil {
		return 0, 0, err
	}
	return page, page, nil
}

func parsePageNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a positive page number", ErrInvalidPageRange, s)
	}
	return n, nil
}

// FileSelector matches document names against the selection's glob patterns.
// An empty selector matches everything.
type FileSelector struct {
	globs []glob.Glob
}

// NewFileSelector compiles the selection's file patterns.
func NewFileSelector(patterns []string) (*FileSelector, error) {
	s := &FileSelector{}
	for _, pattern := range dedupe(patterns) {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, pattern, err)
		}
		s.globs = append(s.globs, g)
	}
	return s, nil
}

// Match reports whether the document name passes the selector.
func (s *FileSelector) Match(name string) bool {
	if s == nil || len(s.globs) == 0 {
		return true
	}
	for _, g := range s.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
