package pressmill

import (
	"fmt"
	"html"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// blockHTMLRenderer renders custom blocks and headings. For each node the
// format's override renderer is used when one was stamped at parse time;
// otherwise the built-in default markup applies. Exactly one of the two
// produces output per node.
type blockHTMLRenderer struct{}

func (r *blockHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindProseBlock, r.renderProseBlock)
	reg.Register(gast.KindHeading, r.renderHeading)
}

func (r *blockHTMLRenderer) renderProseBlock(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	n := node.(*proseBlockNode)
	if n.override != nil {
		if err := n.override(w, n.block, entering); err != nil {
			return gast.WalkStop, err
		}
		return gast.WalkContinue, nil
	}
	if err := defaultBlockMarkup(w, n.block, entering); err != nil {
		return gast.WalkStop, err
	}
	return gast.WalkContinue, nil
}

// defaultBlockMarkup is the engine's built-in rendering for a custom block:
// a classed wrapper div with an optional header when a title tag is present.
func defaultBlockMarkup(w util.BufWriter, b *Block, entering bool) error {
	if !entering {
		_, err := w.WriteString("</div>\n")
		return err
	}

	class := "panel panel--" + b.Type
	if extra := b.Class(); extra != "" {
		class += " " + extra
	}
	if _, err := fmt.Fprintf(w, `<div class="%s"`, html.EscapeString(class)); err != nil {
		return err
	}
	if id := b.ID(); id != "" {
		if _, err := fmt.Fprintf(w, ` id="%s"`, html.EscapeString(id)); err != nil {
			return err
		}
	}
	if _, err := w.WriteString(b.DataAttrs() + ">\n"); err != nil {
		return err
	}

	if title := b.Title(); title != "" {
		if _, err := fmt.Fprintf(w, `<div class="panel__header"><span class="panel__title">%s</span></div>`+"\n",
			html.EscapeString(title)); err != nil {
			return err
		}
	}
	return nil
}

func (r *blockHTMLRenderer) renderHeading(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	n := node.(*gast.Heading)

	v, ok := n.Attribute(headingAttrKey)
	if !ok {
		// No stamped token (plain engine use): minimal standard markup.
		if entering {
			_, err := fmt.Fprintf(w, "<h%d>", n.Level)
			return gast.WalkContinue, err
		}
		_, err := fmt.Fprintf(w, "</h%d>\n", n.Level)
		return gast.WalkContinue, err
	}
	hd := v.(*headingData)

	if hd.override != nil {
		if err := hd.override(w, hd.block, entering); err != nil {
			return gast.WalkStop, err
		}
		return gast.WalkContinue, nil
	}
	if err := defaultHeadingMarkup(w, hd.block, entering); err != nil {
		return gast.WalkStop, err
	}
	return gast.WalkContinue, nil
}

// defaultHeadingMarkup writes a heading with its id, class, index, and icon
// tags applied.
func defaultHeadingMarkup(w util.BufWriter, b *Block, entering bool) error {
	if !entering {
		_, err := fmt.Fprintf(w, "</h%d>\n", b.Level)
		return err
	}

	if _, err := fmt.Fprintf(w, `<h%d id="%s"`, b.Level, html.EscapeString(b.ID())); err != nil {
		return err
	}
	if class := b.Class(); class != "" {
		if _, err := fmt.Fprintf(w, ` class="%s"`, html.EscapeString(class)); err != nil {
			return err
		}
	}
	if index := b.StringAttr("index"); index != "" {
		if _, err := fmt.Fprintf(w, ` data-index="%s"`, html.EscapeString(index)); err != nil {
			return err
		}
	}
	if _, err := w.WriteString(b.DataAttrs() + ">"); err != nil {
		return err
	}

	if icon := b.StringAttr("icon"); icon != "" {
		if _, err := fmt.Fprintf(w, `<i class="icon icon--%s"></i>`, html.EscapeString(icon)); err != nil {
			return err
		}
	}
	return nil
}

// Compile-time interface check.
var _ renderer.NodeRenderer = (*blockHTMLRenderer)(nil)
