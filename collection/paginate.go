package collection

import (
	"errors"
	"fmt"
	"path"
	"strconv"

	"github.com/ancientlore/chronicle/document"
)

// ErrInvalidPageSize is returned by Paginate when DocumentsPerPage is not positive.
var ErrInvalidPageSize = errors.New("documents per page must be positive")

// PageOptions configures Paginate.
type PageOptions struct {
	SourcePathPrefix string         // base for synthetic source paths
	URLPrefix        string         // base for output URLs
	DocumentsPerPage int            // page size; the last page may be shorter
	Layout           string         // template used for every page
	Index            bool           // first page is the index of URLPrefix
	Extra            map[string]any // fields merged into every page
}

// Paginate splits docs into consecutive pages of DocumentsPerPage documents and
// returns one virtual document per page. Page 1 lives at URLPrefix and page N at
// URLPrefix/pageN. An empty docs still yields a single, empty page.
func Paginate(docs []*document.Document, opts PageOptions) ([]*document.Document, error) {
	if opts.DocumentsPerPage <= 0 {
		return nil, fmt.Errorf("Paginate %q: %w (got %d)", opts.URLPrefix, ErrInvalidPageSize, opts.DocumentsPerPage)
	}
	total := (len(docs) + opts.DocumentsPerPage - 1) / opts.DocumentsPerPage
	total = max(total, 1)

	pages := make([]*document.Document, 0, total)
	for i := 1; i <= total; i++ {
		start := (i - 1) * opts.DocumentsPerPage
		end := min(start+opts.DocumentsPerPage, len(docs))
		chunk := make([]*document.Document, end-start)
		copy(chunk, docs[start:end])

		p := &document.Document{
			SourcePath: pageSourcePath(opts.SourcePathPrefix, i, opts.Index),
			URL:        PageURL(opts.URLPrefix, i),
			Layout:     opts.Layout,
			Documents:  chunk,
			Page:       i,
			PagesTotal: total,
			Index:      opts.Index && i == 1,
		}
		if i > 1 {
			p.PrevURL = PageURL(opts.URLPrefix, i-1)
		}
		if i < total {
			p.NextURL = PageURL(opts.URLPrefix, i+1)
		}
		for k, v := range opts.Extra {
			p = p.With(k, v)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// PageURL returns the URL of page n of a listing rooted at prefix.
func PageURL(prefix string, n int) string {
	if n <= 1 {
		return prefix
	}
	return path.Join("/", prefix, "page"+strconv.Itoa(n))
}

func pageSourcePath(prefix string, n int, index bool) string {
	switch {
	case n > 1:
		return path.Join(prefix, "page"+strconv.Itoa(n))
	case index:
		return path.Join(prefix, "index")
	}
	return prefix
}
