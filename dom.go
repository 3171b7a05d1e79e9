package pressmill

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// processDOM parses a rendered page, applies the resolved DOM-processing
// hook, and re-serializes. The parse/render round trip also normalizes the
// markup (implied tags, attribute quoting), which is the pipeline's
// "beautify" step.
func (p *Pipeline) processDOM(pageHTML string, job *Job, collection bool) (string, error) {
	hook := resolveDOMHook(job.Project, job.Format, collection, nil)

	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return "", fmt.Errorf("parsing rendered HTML: %w", err)
	}

	if hook != nil {
		if err := hook(doc, job); err != nil {
			return "", fmt.Errorf("DOM hook: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("serializing HTML: %w", err)
	}
	return buf.String(), nil
}

// FindElement walks a parsed document depth-first and returns the first
// element with the given tag name, or nil. Exported for use by DOM hooks.
func FindElement(root *html.Node, tag string) *html.Node {
	if root.Type == html.ElementNode && root.Data == tag {
		return root
	}
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if found := FindElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// AppendHTML parses an HTML snippet and appends the resulting nodes as
// children of parent. Exported for use by DOM hooks.
func AppendHTML(parent *html.Node, snippet string) error {
	nodes, err := html.ParseFragment(strings.NewReader(snippet), parent)
	if err != nil {
		return fmt.Errorf("parsing snippet: %w", err)
	}
	for _, node := range nodes {
		parent.AppendChild(node)
	}
	return nil
}
