package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/russross/blackfriday/v2"
)

// Highlight returns a plugin that highlights fenced code blocks naming a language.
// The output uses CSS classes; WriteHighlightCSS writes the matching stylesheet.
func Highlight(style string) Plugin {
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	s := styles.Get(style)
	return func(doc *blackfriday.Node) error {
		blocks := collect(doc, blackfriday.CodeBlock, func(n *blackfriday.Node) bool {
			return n.IsFenced && codeLanguage(n.Info) != ""
		})
		for _, n := range blocks {
			lexer := lexers.Get(codeLanguage(n.Info))
			if lexer == nil {
				lexer = lexers.Fallback
			}
			it, err := chroma.Coalesce(lexer).Tokenise(nil, string(n.Literal))
			if err != nil {
				return fmt.Errorf("Highlight: %w", err)
			}
			var buf bytes.Buffer
			if err := formatter.Format(&buf, s, it); err != nil {
				return fmt.Errorf("Highlight: %w", err)
			}
			replaceWithHTML(n, buf.Bytes())
		}
		return nil
	}
}

// WriteHighlightCSS writes the stylesheet for the classes Highlight emits.
func WriteHighlightCSS(w io.Writer, style string) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(w, styles.Get(style)); err != nil {
		return fmt.Errorf("WriteHighlightCSS: %w", err)
	}
	return nil
}

// codeLanguage returns the first word of a fenced code block's info string.
func codeLanguage(info []byte) string {
	f := strings.Fields(string(info))
	if len(f) == 0 {
		return ""
	}
	return f[0]
}
