package pressmill

import (
	"bytes"
	"fmt"
	"regexp"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// maxBlockDepth bounds recursive tokenization of nested custom blocks so a
// hostile document cannot blow the stack.
const maxBlockDepth = 32

// Marker grammar: a begin marker with an optional attribute object on the
// same line, and a bare end marker. Both are newline-sensitive.
var (
	beginMarkerPattern = regexp.MustCompile(`^\\([a-z]+)Begin(?:[ \t]+(\{.*\}))?[ \t]*$`)
	endMarkerPattern   = regexp.MustCompile(`^\\([a-z]+)End[ \t]*$`)
)

// proseBlockNode is the AST node for one custom block occurrence.
type proseBlockNode struct {
	gast.BaseBlock

	block      *Block
	override   BlockRenderer // stamped per render call, never parser state
	terminated bool
	offset     int // byte offset of the begin marker, for error reporting
}

// kindProseBlock is registered once for the whole process.
var kindProseBlock = gast.NewNodeKind("ProseBlock")

func (n *proseBlockNode) Kind() gast.NodeKind { return kindProseBlock }

func (n *proseBlockNode) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Type": n.block.Type}, nil)
}

// renderState carries per-render-call options and collected tokenizer
// diagnostics through the parser context. The goldmark engine itself is
// configured once per process; everything document-specific travels here.
type renderState struct {
	opts RenderOptions
	errs []error
}

var renderStateKey = parser.NewContextKey()

// stateFrom returns the render state for this parse, or nil when the engine
// is driven without one (plain markdown, no dispatch).
func stateFrom(pc parser.Context) *renderState {
	if v := pc.Get(renderStateKey); v != nil {
		return v.(*renderState)
	}
	return nil
}

var blockDepthKey = parser.NewContextKey()

func blockDepth(pc parser.Context) int {
	if v := pc.Get(blockDepthKey); v != nil {
		return v.(int)
	}
	return 0
}

// proseBlockParser recognizes \TBegin ... \TEnd custom blocks. Block content
// between the markers is handed back to goldmark as child blocks, so custom
// blocks nest inside each other and plain markdown nests inside them.
type proseBlockParser struct{}

func (p *proseBlockParser) Trigger() []byte { return []byte{'\\'} }

func (p *proseBlockParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	line, segment := reader.PeekLine()
	match := beginMarkerPattern.FindSubmatch(bytes.TrimRight(line, "\n"))
	if match == nil || !isBlockType(string(match[1])) {
		return nil, parser.NoChildren
	}

	state := stateFrom(pc)
	depth := blockDepth(pc)
	if depth >= maxBlockDepth {
		if state != nil {
			state.errs = append(state.errs, fmt.Errorf("%w: \\%sBegin at line %d",
				ErrBlockDepth, match[1], lineAt(reader.Source(), segment.Start)))
		}
		return nil, parser.NoChildren
	}
	pc.Set(blockDepthKey, depth+1)

	block, err := newBlock(string(match[1]), string(match[2]))
	if err != nil && state != nil {
		// Malformed attribute JSON is a warning, not a tokenizer failure.
		state.opts.logger().Warn("ignoring malformed block attributes",
			"block", block.Type, "line", lineAt(reader.Source(), segment.Start), "error", err)
	}

	node := &proseBlockNode{block: block, offset: segment.Start}
	reader.Advance(segment.Len() - 1)
	return node, parser.HasChildren
}

func (p *proseBlockParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*proseBlockNode)
	line, segment := reader.PeekLine()
	match := endMarkerPattern.FindSubmatch(bytes.TrimRight(line, "\n"))
	if match != nil && string(match[1]) == n.block.Type {
		n.terminated = true
		reader.Advance(segment.Len() - 1)
		return parser.Close
	}
	return parser.Continue | parser.HasChildren
}

func (p *proseBlockParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*proseBlockNode)
	pc.Set(blockDepthKey, blockDepth(pc)-1)
	if n.terminated {
		return
	}
	// An unterminated block is a syntax error for this document, reported
	// with the block type and the line of its begin marker.
	if state := stateFrom(pc); state != nil {
		state.errs = append(state.errs, fmt.Errorf("%w: \\%sBegin at line %d",
			ErrUnterminatedBlock, n.block.Type, lineAt(reader.Source(), n.offset)))
	}
}

func (p *proseBlockParser) CanInterruptParagraph() bool { return true }

func (p *proseBlockParser) CanAcceptIndentedLine() bool { return false }

// lineAt converts a byte offset into a 1-based line number.
func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
