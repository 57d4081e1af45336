// Package markdown renders Markdown to HTML with blackfriday, letting plugins
// rewrite the parsed document before it is rendered.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/russross/blackfriday/v2"
)

// extensions are the blackfriday extensions every document is parsed with.
const extensions = blackfriday.CommonExtensions | blackfriday.Footnotes

// Plugin rewrites a parsed document in place.
type Plugin func(doc *blackfriday.Node) error

// Renderer converts Markdown source to HTML.
type Renderer struct {
	plugins []Plugin
}

// New returns a Renderer that runs plugins, in order, on every document.
func New(plugins ...Plugin) *Renderer {
	return &Renderer{plugins: plugins}
}

// Render converts src to HTML.
func (r *Renderer) Render(src []byte) (template.HTML, error) {
	md := blackfriday.New(blackfriday.WithExtensions(extensions))
	doc := md.Parse(src)
	for _, p := range r.plugins {
		if err := p(doc); err != nil {
			return "", err
		}
	}
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags,
	})
	var buf bytes.Buffer
	renderer.RenderHeader(&buf, doc)
	doc.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		return renderer.RenderNode(&buf, node, entering)
	})
	renderer.RenderFooter(&buf, doc)
	return template.HTML(buf.String()), nil
}

// collect returns every node of type typ that match accepts. Plugins collect first
// and rewrite afterwards so the tree is never changed while it is walked.
func collect(doc *blackfriday.Node, typ blackfriday.NodeType, match func(*blackfriday.Node) bool) []*blackfriday.Node {
	var nodes []*blackfriday.Node
	doc.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering && node.Type == typ && match(node) {
			nodes = append(nodes, node)
		}
		return blackfriday.GoToNext
	})
	return nodes
}

// replaceWithHTML swaps node for a raw HTML block.
func replaceWithHTML(node *blackfriday.Node, html []byte) {
	block := blackfriday.NewNode(blackfriday.HTMLBlock)
	block.Literal = html
	node.InsertBefore(block)
	node.Unlink()
}
