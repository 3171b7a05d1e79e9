package pressmill

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// blockExtension registers the custom block grammar and renderer on a
// goldmark instance.
type blockExtension struct{}

func (e *blockExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&proseBlockParser{}, 100)),
		parser.WithASTTransformers(util.Prioritized(&renderTransformer{}, 500)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&blockHTMLRenderer{}, 200)),
	)
}

// The goldmark engine is configured exactly once per process: the complete
// superset of block types and the default renderers are registered up front.
// Per-document and per-format behavior travels through RenderOptions in the
// parser context, never by reconfiguring the engine, so concurrent renders
// never race on parser state.
var (
	engineOnce   sync.Once
	sharedEngine goldmark.Markdown
)

func markdownEngine() goldmark.Markdown {
	engineOnce.Do(func() {
		sharedEngine = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				highlighting.NewHighlighting(
					highlighting.WithFormatOptions(
						chromahtml.WithClasses(true),
					),
				),
				&blockExtension{},
			),
			goldmark.WithRendererOptions(
				html.WithXHTML(),
			),
		)
	})
	return sharedEngine
}

// RenderOptions carries per-render-call state: the format whose block
// renderer overrides apply, and the logger for tokenizer warnings.
type RenderOptions struct {
	Format *Format
	Logger *slog.Logger
}

func (o RenderOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// RenderMarkdown tokenizes a markdown document, including the custom block
// grammar, and renders it to an HTML fragment string. Tokenizer syntax
// errors (unterminated blocks, excessive nesting) fail the whole document;
// malformed attribute tags only log warnings.
func RenderMarkdown(source []byte, opts RenderOptions) (string, error) {
	pc := parser.NewContext()
	state := &renderState{opts: opts}
	pc.Set(renderStateKey, state)

	var buf bytes.Buffer
	if err := markdownEngine().Convert(source, &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	if len(state.errs) > 0 {
		return "", errors.Join(state.errs...)
	}
	return buf.String(), nil
}
