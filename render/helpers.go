package render

import (
	"fmt"
	"html"
	"html/template"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/ancientlore/chronicle/collection"
	"github.com/ancientlore/chronicle/document"
	"github.com/ancientlore/chronicle/plan"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultHelpers returns the functions available to every layout.
func DefaultHelpers() template.FuncMap {
	return template.FuncMap{
		"join":       path.Join,
		"ext":        path.Ext,
		"trimsuffix": strings.TrimSuffix,
		"trimprefix": strings.TrimPrefix,
		"trimspace":  strings.TrimSpace,
		"now":        time.Now,
		"date":       formatDate,
		"rfc3339":    rfc3339,
		"year":       func(t time.Time) int { return t.Year() },
		"title":      title,
		"absurl":     absURL,
		"xml":        xmlEscape,
		"reverse":    reverse,
		"first":      first,
		"limit":      limit,
		"sortby":     sortBy,
		"groupby":    collection.Group,
		"pageurl":    collection.PageURL,
		"tagurl":     plan.TagURL,
	}
}

// formatDate formats t with a Go time layout, as in {{ date "2 Jan 2006" .Date }}.
func formatDate(layout string, t time.Time) string {
	return t.Format(layout)
}

func rfc3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// title capitalizes s by the rules of lang.
func title(lang, s string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	return cases.Title(tag).String(s)
}

// absURL joins a site base URL and a path.
func absURL(base, p string) string {
	if base == "" {
		base = "/"
	}
	if p == "" || p == "/" {
		return strings.TrimSuffix(base, "/") + "/"
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(p, "/")
}

// xmlEscape escapes any value for use in XML text or attributes.
func xmlEscape(v any) string {
	switch s := v.(type) {
	case string:
		return html.EscapeString(s)
	case template.HTML:
		return html.EscapeString(string(s))
	}
	return html.EscapeString(fmt.Sprint(v))
}

func reverse(docs []*document.Document) []*document.Document {
	r := slices.Clone(docs)
	slices.Reverse(r)
	return r
}

func first(docs []*document.Document) *document.Document {
	if len(docs) == 0 {
		return nil
	}
	return docs[0]
}

// limit returns at most n documents.
func limit(n int, docs []*document.Document) []*document.Document {
	return docs[:max(0, min(n, len(docs)))]
}

// sortBy orders documents by the given keys, as in {{ sortby .Documents "-date" "title" }}.
func sortBy(docs []*document.Document, keys ...string) ([]*document.Document, error) {
	return collection.Order(docs, keys)
}
