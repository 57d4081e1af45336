/*
Package render executes the layout templates pages are rendered with.

Layouts are read from a folder: every *.html file is parsed into one html/template
set, so layouts can share partials, and every other file, such as atom.xml or
sitemap.txt, into a text/template set. A layout named "post" is found as post.html,
then as post. When the folder does not exist the built-in layouts are used.
*/
package render

import (
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	texttemplate "text/template"
)

// ErrUnknownLayout is returned by Render for a layout that was not loaded.
var ErrUnknownLayout = errors.New("unknown layout")

//go:embed layouts
var defaultLayouts embed.FS

// Renderer renders documents with named layouts.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// New loads the layouts in root. helpers are added to DefaultHelpers, replacing
// helpers of the same name.
func New(fsys fs.FS, root string, helpers htmltemplate.FuncMap) (*Renderer, error) {
	funcs := DefaultHelpers()
	for k, v := range helpers {
		funcs[k] = v
	}
	fi, err := fs.Stat(fsys, root)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !fi.IsDir()) {
		fsys, root = defaultLayouts, "layouts"
	} else if err != nil {
		return nil, fmt.Errorf("loadTemplates: %w", err)
	}

	names, err := fs.Glob(fsys, path.Join(root, "*"))
	if err != nil {
		return nil, fmt.Errorf("loadTemplates: %w", err)
	}
	r := &Renderer{
		html: htmltemplate.New("chronicle").Funcs(funcs),
		text: texttemplate.New("chronicle").Funcs(texttemplate.FuncMap(funcs)),
	}
	for _, name := range names {
		if fi, err := fs.Stat(fsys, name); err != nil || fi.IsDir() {
			continue
		}
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("loadTemplates: %w", err)
		}
		base := path.Base(name)
		if path.Ext(base) == ".html" {
			_, err = r.html.New(base).Parse(string(b))
		} else {
			_, err = r.text.New(base).Parse(string(b))
		}
		if err != nil {
			return nil, fmt.Errorf("loadTemplates: %w", err)
		}
	}
	return r, nil
}

// Has reports whether layout can be rendered.
func (r *Renderer) Has(layout string) bool {
	return r.lookup(layout) != nil
}

// Render executes layout with data and writes the result to w.
func (r *Renderer) Render(w io.Writer, layout string, data any) error {
	t := r.lookup(layout)
	if t == nil {
		return fmt.Errorf("Render: %w %q", ErrUnknownLayout, layout)
	}
	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("Render: %w", err)
	}
	return nil
}

// Layouts returns the names of all loaded templates.
func (r *Renderer) Layouts() []string {
	var names []string
	for _, t := range r.html.Templates() {
		names = append(names, t.Name())
	}
	for _, t := range r.text.Templates() {
		names = append(names, t.Name())
	}
	slices.Sort(names)
	return slices.DeleteFunc(names, func(s string) bool { return s == "chronicle" })
}

// executor is what html and text templates have in common.
type executor interface {
	Execute(w io.Writer, data any) error
}

func (r *Renderer) lookup(layout string) executor {
	if layout == "" || strings.Contains(layout, "/") {
		return nil
	}
	if t := r.html.Lookup(layout + ".html"); t != nil {
		return t
	}
	if t := r.html.Lookup(layout); t != nil {
		return t
	}
	if t := r.text.Lookup(layout); t != nil {
		return t
	}
	return nil
}
