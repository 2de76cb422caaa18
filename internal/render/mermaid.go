package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Diagram is one fenced mermaid block. Index is 1-based in document order.
type Diagram struct {
	Index int    `json:"index"`
	Code  string `json:"code"`
}

// KindMermaidBlock is the node kind that replaces mermaid fenced code blocks.
var KindMermaidBlock = ast.NewNodeKind("MermaidBlock")

// MermaidBlock holds the raw diagram source of a ```mermaid fence.
type MermaidBlock struct {
	ast.BaseBlock
	Index int
	Code  string
}

func (n *MermaidBlock) Kind() ast.NodeKind { return KindMermaidBlock }

func (n *MermaidBlock) IsRaw() bool { return true }

func (n *MermaidBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Index": strconv.Itoa(n.Index)}, nil)
}

func isMermaid(n *ast.FencedCodeBlock, source []byte) bool {
	lang := strings.ToLower(strings.TrimSpace(string(n.Language(source))))
	return lang == "mermaid"
}

// fenceCode joins the content lines of a fenced block, without the fences.
func fenceCode(n *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return strings.TrimSpace(buf.String())
}

func findMermaid(doc ast.Node, source []byte) []*ast.FencedCodeBlock {
	var found []*ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fcb, ok := n.(*ast.FencedCodeBlock); ok && isMermaid(fcb, source) {
			found = append(found, fcb)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}

// Diagrams returns the mermaid blocks of md in document order.
func Diagrams(md []byte) []Diagram {
	p := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()
	doc := p.Parse(text.NewReader(md))
	blocks := findMermaid(doc, md)
	out := make([]Diagram, 0, len(blocks))
	for i, b := range blocks {
		out = append(out, Diagram{Index: i + 1, Code: fenceCode(b, md)})
	}
	return out
}

type mermaidTransformer struct{}

func (t *mermaidTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	for i, fcb := range findMermaid(doc, source) {
		block := &MermaidBlock{Index: i + 1, Code: fenceCode(fcb, source)}
		parent := fcb.Parent()
		if parent == nil {
			continue
		}
		parent.ReplaceChild(parent, fcb, block)
	}
}

type mermaidHTMLRenderer struct {
	diagramURL func(int) string
}

func (r *mermaidHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMermaidBlock, r.renderMermaid)
}

func (r *mermaidHTMLRenderer) renderMermaid(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*MermaidBlock)
	_, _ = fmt.Fprintf(w, `<div class="mermaid-block" id="diagram-%d">`, n.Index)
	_, _ = w.WriteString(`<pre class="mermaid">`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Code)))
	_, _ = w.WriteString("</pre>")
	if r.diagramURL != nil {
		_, _ = fmt.Fprintf(w, `<a class="mermaid-expand" href="%s" title="View fullscreen">&#x26F6;</a>`,
			util.EscapeHTML([]byte(r.diagramURL(n.Index))))
	}
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}

// MermaidExtension turns ```mermaid fences into <pre class="mermaid"> blocks
// that mermaid.js renders in the browser. DiagramURL, when set, adds a link
// from each block to its fullscreen page.
type MermaidExtension struct {
	DiagramURL func(index int) string
}

func (e *MermaidExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&mermaidTransformer{}, 100),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mermaidHTMLRenderer{diagramURL: e.DiagramURL}, 100),
	))
}
