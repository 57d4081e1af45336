/*
Package plan derives the full set of output pages of a multilingual blog from its
loaded posts.

Build orders the posts newest first, splits them by language, links each post to its
translation, and then adds for every language, in this order:

	archive   /all            every post grouped by year
	home      /, /page2, ...  paginated list of posts
	tags      /tags/<tag>     paginated list of posts per tag
	feed      /atom.xml       the most recent posts

The result is a flat list: each language's posts followed by its virtual pages,
languages in the order they first appear. Build is a pure function; it never
modifies the documents it is given.
*/
package plan

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/ancientlore/chronicle/collection"
	"github.com/ancientlore/chronicle/document"
)

// Layout names of the virtual pages.
const (
	LayoutArchive = "all"
	LayoutIndex   = "index"
	LayoutTag     = "tag"
	LayoutFeed    = "atom.xml"
)

// ErrInvalidOptions is returned by Build when Options cannot produce a plan.
var ErrInvalidOptions = errors.New("invalid plan options")

// Options configures Build.
type Options struct {
	PostsPerPage int          // posts per home and tag page
	PostsInFeed  int          // posts in the feed
	Translations Translations // language to counterpart language
}

// Validate checks that opts can be used to build a plan.
func (opts Options) Validate() error {
	if opts.PostsPerPage <= 0 {
		return fmt.Errorf("%w: postsPerPage must be positive, got %d", ErrInvalidOptions, opts.PostsPerPage)
	}
	if opts.PostsInFeed < 0 {
		return fmt.Errorf("%w: postsInFeed must not be negative, got %d", ErrInvalidOptions, opts.PostsInFeed)
	}
	return nil
}

// Build returns the posts in docs together with all virtual pages derived from them.
func Build(docs []*document.Document, opts Options) ([]*document.Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	ordered, err := collection.Order(docs, []string{"-" + document.FieldTimestamp})
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	partitions := Partition(ordered)
	return foldErr(partitions.Keys(), []*document.Document{}, func(acc []*document.Document, lang string) ([]*document.Document, error) {
		pages, err := buildLanguage(lang, linkLanguage(partitions, lang, opts.Translations), opts)
		if err != nil {
			return nil, err
		}
		return slices.Concat(acc, pages), nil
	})
}

// buildLanguage returns the linked posts of one language followed by its virtual pages.
func buildLanguage(lang string, docs []*document.Document, opts Options) ([]*document.Document, error) {
	home, err := collection.Paginate(docs, collection.PageOptions{
		SourcePathPrefix: lang,
		URLPrefix:        "/",
		DocumentsPerPage: opts.PostsPerPage,
		Layout:           LayoutIndex,
		Index:            true,
		Extra:            map[string]any{document.FieldLang: lang},
	})
	if err != nil {
		return nil, fmt.Errorf("%s home: %w", lang, err)
	}
	tags, err := tagPages(lang, docs, opts.PostsPerPage)
	if err != nil {
		return nil, err
	}
	return slices.Concat(
		docs,
		[]*document.Document{archivePage(lang, docs)},
		home,
		tags,
		[]*document.Document{feedPage(lang, docs, opts.PostsInFeed)},
	), nil
}

// archivePage lists every post of a language grouped by year, newest year first.
func archivePage(lang string, docs []*document.Document) *document.Document {
	byYear := collection.GroupBy(docs, func(d *document.Document) (string, bool) {
		if d.Date.IsZero() {
			return "", false
		}
		return strconv.Itoa(d.Date.Year()), true
	})
	years := byYear.Keys()
	slices.Sort(years)
	slices.Reverse(years)
	return &document.Document{
		SourcePath:  path.Join(lang, "all"),
		URL:         "/all",
		Lang:        lang,
		Layout:      LayoutArchive,
		Translation: true,
		PostsByYear: byYear,
		Years:       years,
		PostsTotal:  len(docs),
	}
}

// tagPages paginates the posts of every tag, tags in first-seen order. Empty tags
// get no page.
func tagPages(lang string, docs []*document.Document, perPage int) ([]*document.Document, error) {
	byTag := collection.Group(docs, document.FieldTags)
	return foldErr(byTag.Keys(), []*document.Document{}, func(acc []*document.Document, tag string) ([]*document.Document, error) {
		if tag == "" {
			return acc, nil
		}
		pages, err := collection.Paginate(byTag.Get(tag), collection.PageOptions{
			SourcePathPrefix: lang + TagURL(tag),
			URLPrefix:        TagURL(tag),
			DocumentsPerPage: perPage,
			Layout:           LayoutTag,
			Extra:            map[string]any{document.FieldLang: lang, document.FieldTag: tag},
		})
		if err != nil {
			return nil, fmt.Errorf("%s tag %q: %w", lang, tag, err)
		}
		return slices.Concat(acc, pages), nil
	})
}

// tagEscaper percent-encodes the characters that would split a tag across path
// segments or end the path. Other characters, including non-ASCII, are kept.
var tagEscaper = strings.NewReplacer("%", "%25", "/", "%2F", "\\", "%5C", "?", "%3F", "#", "%23")

// TagURL returns the URL of the first page of tag. The tag is escaped into a
// single path segment, so a tag can neither span segments nor climb out of /tags.
func TagURL(tag string) string {
	seg := tagEscaper.Replace(tag)
	if seg == "." || seg == ".." {
		seg = strings.ReplaceAll(seg, ".", "%2E")
	}
	return "/tags/" + seg
}

// feedPage holds the n most recent posts. docs is already newest first.
func feedPage(lang string, docs []*document.Document, n int) *document.Document {
	n = min(n, len(docs))
	return &document.Document{
		SourcePath: path.Join(lang, "atom.xml"),
		URL:        "/atom.xml",
		Lang:       lang,
		Layout:     LayoutFeed,
		Documents:  slices.Clone(docs[:n:n]),
	}
}

// foldErr reduces items into an accumulator, stopping at the first error.
func foldErr[T, A any](items []T, acc A, fn func(A, T) (A, error)) (A, error) {
	for _, it := range items {
		var err error
		acc, err = fn(acc, it)
		if err != nil {
			return acc, err
		}
	}
	return acc, nil
}
