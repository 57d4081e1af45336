/*
Package content loads blog posts from source files.

A source file is a text file with optional front matter, either TOML fenced by +++
lines or YAML fenced by --- lines, followed by the body:

	+++
	title = "Hello"
	date = 2021-03-04
	tags = ["go", "blog"]
	+++
	Body text.

The body is rendered by the Renderer registered for the file's extension. Front
matter values become document fields; field parsers can normalize or derive them.
*/
package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/ancientlore/chronicle/document"
)

// ErrDuplicateURL is returned when two source files of one language share a URL.
var ErrDuplicateURL = errors.New("duplicate URL")

// Renderer turns the body of a source file into HTML.
type Renderer interface {
	Render(src []byte) (template.HTML, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(src []byte) (template.HTML, error)

// Render calls f(src).
func (f RendererFunc) Render(src []byte) (template.HTML, error) {
	return f(src)
}

// Options configures LoadSourceFiles.
type Options struct {
	Renderers     map[string]Renderer    // by file extension, without the dot
	FieldParsers  map[string]FieldParser // by field name
	CutTag        string                 // marks the end of the excerpt
	Languages     []string               // known language tags
	DefaultLayout string                 // layout of files that name none
}

// LoadSourceFiles reads every file below sourceDir whose extension is listed in
// sourceTypes and returns one document per file, in lexical path order. Hidden files
// and directories are skipped.
//
// Before field parsers run, sourcePath defaults to the path relative to sourceDir,
// url to that path without its extension, lang to the first directory when it names
// a known language, and layout to opts.DefaultLayout.
func LoadSourceFiles(fsys fs.FS, sourceDir string, sourceTypes []string, opts Options) ([]*document.Document, error) {
	if err := ValidateFieldParsers(opts.FieldParsers); err != nil {
		return nil, fmt.Errorf("LoadSourceFiles: %w", err)
	}
	types := make([]string, len(sourceTypes))
	for i, t := range sourceTypes {
		types[i] = strings.TrimPrefix(t, ".")
	}

	var docs []*document.Document
	err := fs.WalkDir(fsys, sourceDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != sourceDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.TrimPrefix(path.Ext(p), ".")
		if !slices.Contains(types, ext) {
			return nil
		}
		r, ok := opts.Renderers[ext]
		if !ok {
			return nil
		}
		rel := p
		if sourceDir != "." {
			rel = strings.TrimPrefix(p, sourceDir+"/")
		}
		doc, err := loadFile(fsys, p, rel, r, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("LoadSourceFiles: %w", err)
	}
	if err := checkURLs(docs); err != nil {
		return nil, fmt.Errorf("LoadSourceFiles: %w", err)
	}
	return docs, nil
}

// loadFile reads and renders a single source file.
func loadFile(fsys fs.FS, name, rel string, r Renderer, opts Options) (*document.Document, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	attrs, body, err := parseFrontMatter(b)
	if err != nil {
		return nil, err
	}
	values, err := fieldValues(attrs, rel, opts)
	if err != nil {
		return nil, err
	}
	doc, err := newDocument(values)
	if err != nil {
		return nil, err
	}
	doc.Content, doc.Excerpt, doc.More, err = renderBody(r, body, opts.CutTag)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// fieldValues applies defaults and field parsers to the raw attributes of a file.
// Every parser sees the same snapshot, so the order parsers run in does not matter.
func fieldValues(attrs map[string]any, rel string, opts Options) (map[string]any, error) {
	values := maps.Clone(attrs)
	values[document.FieldSourcePath] = rel
	if _, ok := values[document.FieldURL]; !ok {
		values[document.FieldURL] = "/" + strings.TrimSuffix(rel, path.Ext(rel))
	}
	if _, ok := values[document.FieldLang]; !ok {
		if seg, _, found := strings.Cut(rel, "/"); found && slices.Contains(opts.Languages, seg) {
			values[document.FieldLang] = seg
		}
	}
	if _, ok := values[document.FieldLayout]; !ok && opts.DefaultLayout != "" {
		values[document.FieldLayout] = opts.DefaultLayout
	}

	snapshot := maps.Clone(values)
	for _, name := range sortedKeys(opts.FieldParsers) {
		p := opts.FieldParsers[name]
		v, err := p.Parse(snapshot[name], snapshot)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if v == nil {
			delete(values, name)
			continue
		}
		if p.Kind != KindAny {
			if v, err = coerce(p.Kind, v); err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
		}
		values[name] = v
	}
	return values, nil
}

// newDocument builds a document from parsed values. Canonical fields are converted
// to their Go types; everything else is kept in Fields. A missing timestamp follows
// the date.
func newDocument(values map[string]any) (*document.Document, error) {
	doc := &document.Document{Fields: make(map[string]any)}
	for _, name := range sortedKeys(values) {
		v := values[name]
		if v == nil {
			continue
		}
		kind, ok := canonicalKinds[name]
		if !ok {
			doc.Fields[name] = v
			continue
		}
		cv, err := coerce(kind, v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		doc = doc.With(name, cv)
	}
	if doc.Timestamp == 0 && !doc.Date.IsZero() {
		doc.Timestamp = doc.Date.UnixMilli()
	}
	return doc, nil
}

// renderBody renders the full body and, when cutTag occurs in it, the excerpt before it.
func renderBody(r Renderer, body []byte, cutTag string) (content, excerpt template.HTML, more bool, err error) {
	if cutTag != "" {
		if before, after, found := bytes.Cut(body, []byte(cutTag)); found {
			excerpt, err = r.Render(before)
			if err != nil {
				return "", "", false, err
			}
			content, err = r.Render(slices.Concat(before, after))
			if err != nil {
				return "", "", false, err
			}
			return content, excerpt, true, nil
		}
	}
	content, err = r.Render(body)
	if err != nil {
		return "", "", false, err
	}
	return content, content, false, nil
}

// checkURLs reports two documents of one language with the same URL.
func checkURLs(docs []*document.Document) error {
	seen := make(map[[2]string]string, len(docs))
	for _, d := range docs {
		key := [2]string{d.Lang, d.URL}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s is produced by both %s and %s", ErrDuplicateURL, d.URL, prev, d.SourcePath)
		}
		seen[key] = d.SourcePath
	}
	return nil
}
