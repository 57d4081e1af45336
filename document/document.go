/*
Package document holds the in-memory representation of blog content.

A Document is either real, meaning it was loaded from a source file, or virtual,
meaning it was synthesized by the page planner (index pages, tag pages, the archive
and the feed). Both kinds share one type so that templates and the generator can treat
every output page the same way.

Documents are values that flow through the pipeline read-only. Code that needs to
derive a new field makes a copy with Clone or With; the original is never changed.

Fields can be looked up by name with Field. The canonical names are:

	Name         Type        Present when
	-----------  ----------  --------------------------------
	sourcePath   string      non-empty
	url          string      non-empty
	lang         string      non-empty
	layout       string      non-empty
	title        string      non-empty
	date         time.Time   date is set
	timestamp    int64       date is set, or timestamp non-zero
	tags         []string    non-nil
	translation  bool        always
	tag          string      non-empty
	page         int         document is a page of a listing
	pagesTotal   int         document is a page of a listing
	postsTotal   int         document is an archive page

Any other name is looked up in Fields, which carries the remaining front matter.
*/
package document

import (
	"html/template"
	"maps"
	"time"
)

// Document is one content item, real or virtual.
type Document struct {
	SourcePath  string        // unique identifier of origin
	URL         string        // public path, unique within a language
	Lang        string        // language tag
	Layout      string        // template used to render the document
	Title       string        // title from front matter
	Date        time.Time     // publish date
	Timestamp   int64         // publish date in Unix milliseconds
	Tags        []string      // labels; may be empty
	Translation bool          // a document with the same URL exists in the counterpart language
	Content     template.HTML // rendered body
	Excerpt     template.HTML // rendered text before the cut tag
	More        bool          // body continues past the excerpt
	Fields      map[string]any

	// Listing payload, only set on virtual documents.
	Documents   []*Document
	Page        int
	PagesTotal  int
	PrevURL     string
	NextURL     string
	Index       bool
	Tag         string
	PostsByYear *Groups
	Years       []string
	PostsTotal  int
}

// Canonical field names understood by Field and With.
const (
	FieldSourcePath  = "sourcePath"
	FieldURL         = "url"
	FieldLang        = "lang"
	FieldLayout      = "layout"
	FieldTitle       = "title"
	FieldDate        = "date"
	FieldTimestamp   = "timestamp"
	FieldTags        = "tags"
	FieldTranslation = "translation"
	FieldTag         = "tag"
	FieldPage        = "page"
	FieldPagesTotal  = "pagesTotal"
	FieldPostsTotal  = "postsTotal"
)

// IsVirtual reports whether the document was synthesized rather than loaded.
func (d *Document) IsVirtual() bool {
	return d.Documents != nil || d.PostsByYear != nil || d.PagesTotal > 0
}

// Field returns the value stored under name and whether it is present.
func (d *Document) Field(name string) (any, bool) {
	switch name {
	case FieldSourcePath:
		return d.SourcePath, d.SourcePath != ""
	case FieldURL:
		return d.URL, d.URL != ""
	case FieldLang:
		return d.Lang, d.Lang != ""
	case FieldLayout:
		return d.Layout, d.Layout != ""
	case FieldTitle:
		return d.Title, d.Title != ""
	case FieldDate:
		return d.Date, !d.Date.IsZero()
	case FieldTimestamp:
		return d.Timestamp, !d.Date.IsZero() || d.Timestamp != 0
	case FieldTags:
		return d.Tags, d.Tags != nil
	case FieldTranslation:
		return d.Translation, true
	case FieldTag:
		return d.Tag, d.Tag != ""
	case FieldPage:
		return d.Page, d.PagesTotal > 0
	case FieldPagesTotal:
		return d.PagesTotal, d.PagesTotal > 0
	case FieldPostsTotal:
		return d.PostsTotal, d.PostsByYear != nil
	}
	v, ok := d.Fields[name]
	if ok && v == nil {
		return nil, false
	}
	return v, ok
}

// Clone returns a shallow copy of d.
func (d *Document) Clone() *Document {
	c := *d
	return &c
}

// With returns a copy of d with one field set. Canonical names whose value has the
// matching Go type land in the typed field; anything else goes to Fields.
func (d *Document) With(name string, value any) *Document {
	c := d.Clone()
	if c.set(name, value) {
		return c
	}
	c.Fields = maps.Clone(d.Fields)
	if c.Fields == nil {
		c.Fields = make(map[string]any, 1)
	}
	c.Fields[name] = value
	return c
}

// set assigns a canonical field, reporting false if name or type did not match.
func (d *Document) set(name string, value any) bool {
	switch v := value.(type) {
	case string:
		switch name {
		case FieldSourcePath:
			d.SourcePath = v
		case FieldURL:
			d.URL = v
		case FieldLang:
			d.Lang = v
		case FieldLayout:
			d.Layout = v
		case FieldTitle:
			d.Title = v
		case FieldTag:
			d.Tag = v
		default:
			return false
		}
	case bool:
		if name != FieldTranslation {
			return false
		}
		d.Translation = v
	case time.Time:
		if name != FieldDate {
			return false
		}
		d.Date = v
	case int64:
		if name != FieldTimestamp {
			return false
		}
		d.Timestamp = v
	case []string:
		if name != FieldTags {
			return false
		}
		d.Tags = v
	default:
		return false
	}
	return true
}
