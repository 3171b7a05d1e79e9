package pressmill

import (
	"regexp"
	"strings"

	slug "github.com/goliatone/go-slug"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// headingAttrKey stores the heading's parsed token on the AST node so the
// renderer can reach it without parser context.
var headingAttrKey = []byte("pressmill:heading")

// headingData bundles the heading token with its resolved renderer override.
type headingData struct {
	block    *Block
	override BlockRenderer
}

// headingTagPattern matches a trailing inline attribute tag on a heading,
// e.g. `## Results {"id":"res","icon":"chart"}`. Anchored at the last opening
// brace so literal braces earlier in the heading text stay visible.
var headingTagPattern = regexp.MustCompile(`\{[^{]*\}[ \t]*$`)

// renderTransformer stamps per-render-call dispatch onto the parsed AST:
// block renderer overrides for custom blocks, and parsed attribute tags plus
// derived ids for headings. Running at transform time keeps the shared
// goldmark engine free of per-document state.
type renderTransformer struct{}

func (t *renderTransformer) Transform(doc *gast.Document, reader text.Reader, pc parser.Context) {
	state := stateFrom(pc)
	var format *Format
	if state != nil {
		format = state.opts.Format
	}

	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *proseBlockNode:
			node.override = format.BlockRenderer(node.block.Type)
		case *gast.Heading:
			t.transformHeading(node, reader.Source(), state, format)
		}
		return gast.WalkContinue, nil
	})
}

// transformHeading strips the trailing attribute tag from the heading text,
// parses it, and derives an id from the visible text when none is supplied.
func (t *renderTransformer) transformHeading(n *gast.Heading, source []byte, state *renderState, format *Format) {
	rawTag := extractHeadingTag(n, source)

	b := &Block{Type: HeadingBlockType, Level: n.Level, Raw: rawTag}
	attrs, err := parseAttrTags(rawTag)
	if err != nil && state != nil {
		state.opts.logger().Warn("ignoring malformed heading attributes", "error", err)
	}
	b.Attrs = attrs
	b.dataAttrs = buildDataAttrs(attrs)
	b.Text = headingText(n, source)

	if b.ID() == "" {
		b.Attrs["id"] = slugifyHeading(b.Text)
	}

	n.SetAttribute(headingAttrKey, &headingData{
		block:    b,
		override: format.BlockRenderer(HeadingBlockType),
	})
}

// extractHeadingTag finds a trailing `{...}` tag in the heading's final text
// node, removes it from the node's segment, and returns the raw tag text.
func extractHeadingTag(n *gast.Heading, source []byte) string {
	last := n.LastChild()
	textNode, ok := last.(*gast.Text)
	if !ok {
		return ""
	}

	value := string(textNode.Segment.Value(source))
	loc := headingTagPattern.FindStringIndex(value)
	if loc == nil {
		return ""
	}

	rawTag := strings.TrimSpace(value[loc[0]:])
	kept := strings.TrimRight(value[:loc[0]], " \t")
	if kept == "" {
		n.RemoveChild(n, textNode)
	} else {
		textNode.Segment = textNode.Segment.WithStop(textNode.Segment.Start + len(kept))
	}
	return rawTag
}

// headingText concatenates the heading's visible text, inline markup
// stripped, for slug derivation.
func headingText(n *gast.Heading, source []byte) string {
	var sb strings.Builder
	_ = gast.Walk(n, func(child gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		if textNode, ok := child.(*gast.Text); ok {
			sb.Write(textNode.Segment.Value(source))
		}
		return gast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// slugifyHeading derives a heading id: lowercase, spaces to hyphens, inline
// punctuation dropped.
func slugifyHeading(text string) string {
	if normalized, err := slug.Normalize(text); err == nil && normalized != "" {
		return normalized
	}

	// Fallback for input the normalizer rejects.
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteByte('-')
		}
	}
	return strings.Trim(sb.String(), "-")
}
