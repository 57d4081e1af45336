// Package generate renders documents into output files and writes them to disk.
package generate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/ancientlore/chronicle/config"
	"github.com/ancientlore/chronicle/document"
)

var (
	// ErrDuplicatePath is returned when two documents map to the same output file.
	ErrDuplicatePath = errors.New("duplicate output path")
	// ErrNoLayout is returned for a document that names no layout.
	ErrNoLayout = errors.New("document has no layout")
)

// Layouts rendered once per language when the renderer has them.
const (
	LayoutNotFound = "404"
	LayoutSitemap  = "sitemap.txt"
)

// Renderer renders data with a named layout.
type Renderer interface {
	Render(w io.Writer, layout string, data any) error
	Has(layout string) bool
}

// Data is what layouts are executed with.
type Data struct {
	Site            config.Site        // settings of the document's language
	Document        *document.Document // the page being rendered
	Lang            string             // language of the page
	Base            string             // URL the language is published under
	Counterpart     string             // translation language, if any
	CounterpartBase string             // URL the translation language is published under
}

// Page is a rendered output file.
type Page struct {
	Path     string // slash separated, relative to the output folder
	Content  []byte
	Document *document.Document
}

// Generate renders every document with its layout. Each language also gets a
// 404 page and a sitemap listing its documents when the renderer has those layouts.
func Generate(docs []*document.Document, cfg *config.Config, r Renderer) ([]Page, error) {
	all := append(docs[:len(docs):len(docs)], languagePages(docs, r)...)
	pages := make([]Page, 0, len(all))
	seen := make(map[string]string, len(all))
	for _, d := range all {
		p, err := OutputPath(d.Lang, d.URL)
		if err != nil {
			return nil, fmt.Errorf("Generate: %s: %w", d.SourcePath, err)
		}
		if prev, ok := seen[p]; ok {
			return nil, fmt.Errorf("Generate: %w: %s from %s and %s", ErrDuplicatePath, p, prev, d.SourcePath)
		}
		seen[p] = d.SourcePath
		if d.Layout == "" {
			return nil, fmt.Errorf("Generate: %s: %w", d.SourcePath, ErrNoLayout)
		}
		var buf bytes.Buffer
		if err := r.Render(&buf, d.Layout, newData(cfg, d)); err != nil {
			return nil, fmt.Errorf("Generate: %s: %w", d.SourcePath, err)
		}
		pages = append(pages, Page{Path: p, Content: buf.Bytes(), Document: d})
	}
	return pages, nil
}

func newData(cfg *config.Config, d *document.Document) Data {
	data := Data{
		Site:     cfg.Site(d.Lang),
		Document: d,
		Lang:     d.Lang,
		Base:     cfg.Base(d.Lang),
	}
	if c := cfg.Counterpart(d.Lang); c != "" {
		data.Counterpart = c
		data.CounterpartBase = cfg.Base(c)
	}
	return data
}

// languagePages returns the per-language 404 and sitemap documents, languages in
// first-seen order.
func languagePages(docs []*document.Document, r Renderer) []*document.Document {
	var (
		langs  []string
		byLang = make(map[string][]*document.Document)
	)
	for _, d := range docs {
		if _, ok := byLang[d.Lang]; !ok {
			langs = append(langs, d.Lang)
		}
		byLang[d.Lang] = append(byLang[d.Lang], d)
	}
	var extra []*document.Document
	for _, lang := range langs {
		if r.Has(LayoutNotFound) {
			extra = append(extra, &document.Document{
				SourcePath: path.Join(lang, "404"),
				URL:        "/404.html",
				Lang:       lang,
				Layout:     LayoutNotFound,
				Title:      "404",
			})
		}
		if r.Has(LayoutSitemap) {
			extra = append(extra, &document.Document{
				SourcePath: path.Join(lang, "sitemap.txt"),
				URL:        "/sitemap.txt",
				Lang:       lang,
				Layout:     LayoutSitemap,
				Documents:  byLang[lang],
			})
		}
	}
	return extra
}

// OutputPath maps a document URL to the file it is written to below the output
// folder. The language is the first directory. A URL with an extension is kept as
// is; any other URL becomes a folder holding index.html.
func OutputPath(lang, url string) (string, error) {
	if url == "" {
		return "", errors.New("empty URL")
	}
	clean := path.Clean("/" + url)
	switch {
	case clean == "/":
		clean = "/index.html"
	case path.Ext(clean) == "":
		clean += "/index.html"
	}
	return path.Join(lang, clean), nil
}

// Save writes pages below dir, creating folders as needed.
func Save(pages []Page, dir string) error {
	for _, p := range pages {
		name := filepath.Join(dir, filepath.FromSlash(p.Path))
		if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
			return fmt.Errorf("Save: %w", err)
		}
		if err := os.WriteFile(name, p.Content, 0o644); err != nil {
			return fmt.Errorf("Save: %w", err)
		}
	}
	return nil
}
