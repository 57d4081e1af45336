package render

import (
	"bytes"
	"errors"
	"html/template"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/ancientlore/chronicle/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type site struct {
	Title, Description, URL, Author string
}

type data struct {
	Site            site
	Document        *document.Document
	Lang            string
	Base            string
	Counterpart     string
	CounterpartBase string
}

func TestNew_CustomLayouts(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/post.html":  {Data: []byte(`<h1>{{.Title}}</h1>{{shout .Title}}`)},
		"templates/atom.xml":   {Data: []byte(`<?xml version="1.0"?><t>{{xml .Title}}</t>`)},
		"templates/sub/x.html": {Data: []byte(`ignored`)},
		"templates/notes.txt":  {Data: []byte(`{{.Title}}`)},
	}
	r, err := New(fsys, "templates", template.FuncMap{
		"shout": strings.ToUpper,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"atom.xml", "notes.txt", "post.html"}, r.Layouts())
	assert.True(t, r.Has("post"))
	assert.True(t, r.Has("atom.xml"))
	assert.False(t, r.Has("index"))
	assert.False(t, r.Has("sub/x"))

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "post", map[string]string{"Title": "<Hi>"}))
	assert.Equal(t, "<h1>&lt;Hi&gt;</h1>&lt;HI&gt;", buf.String())

	buf.Reset()
	require.NoError(t, r.Render(&buf, "atom.xml", map[string]string{"Title": "a & b"}))
	assert.Equal(t, `<?xml version="1.0"?><t>a &amp; b</t>`, buf.String())
}

func TestNew_ParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/post.html": {Data: []byte(`{{.Title`)},
	}
	_, err := New(fsys, "templates", nil)
	assert.Error(t, err)
}

func TestRender_UnknownLayout(t *testing.T) {
	r, err := New(fstest.MapFS{}, "missing", nil)
	require.NoError(t, err)

	err = r.Render(&bytes.Buffer{}, "nope", nil)
	assert.True(t, errors.Is(err, ErrUnknownLayout))
}

func TestDefaultLayouts(t *testing.T) {
	r, err := New(fstest.MapFS{}, "templates", nil)
	require.NoError(t, err)

	for _, layout := range []string{"post", "index", "tag", "all", "404", "atom.xml", "sitemap.txt"} {
		assert.True(t, r.Has(layout), layout)
	}

	date := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	post := &document.Document{
		URL: "/hello", Lang: "en", Layout: "post", Title: "Hello & bye",
		Date: date, Tags: []string{"go", "a/b"}, Translation: true,
		Content: "<p>Body</p>", Excerpt: "<p>Body</p>",
	}
	d := data{
		Site:            site{Title: "Blog", URL: "https://example.com/", Author: "Me"},
		Lang:            "en",
		Base:            "https://example.com/",
		Counterpart:     "ru",
		CounterpartBase: "https://ru.example.com",
	}

	var buf bytes.Buffer
	d.Document = post
	require.NoError(t, r.Render(&buf, "post", d))
	out := buf.String()
	assert.Contains(t, out, `<html lang="en">`)
	assert.Contains(t, out, "<title>Hello &amp; bye | Blog</title>")
	assert.Contains(t, out, "<p>Body</p>")
	assert.Contains(t, out, `href="https://example.com/tags/go"`)
	assert.Contains(t, out, `href="https://example.com/tags/a%2Fb"`)
	assert.Contains(t, out, `href="https://ru.example.com/hello"`)
	assert.Contains(t, out, `datetime="2021-03-04T00:00:00Z"`)

	buf.Reset()
	d.Document = &document.Document{
		URL: "/", Lang: "en", Layout: "index", Documents: []*document.Document{post},
		Page: 1, PagesTotal: 2, NextURL: "/page2", Index: true,
	}
	require.NoError(t, r.Render(&buf, "index", d))
	assert.Contains(t, buf.String(), `href="https://example.com/page2"`)
	assert.Contains(t, buf.String(), `href="https://example.com/hello"`)

	buf.Reset()
	byYear := document.NewGroups()
	byYear.Add("2021", post)
	d.Document = &document.Document{
		URL: "/all", Lang: "en", Layout: "all", Translation: true,
		PostsByYear: byYear, Years: []string{"2021"}, PostsTotal: 1,
	}
	require.NoError(t, r.Render(&buf, "all", d))
	assert.Contains(t, buf.String(), "<h2>2021</h2>")
	assert.Contains(t, buf.String(), "Hello &amp; bye")

	buf.Reset()
	d.Document = &document.Document{URL: "/atom.xml", Lang: "en", Layout: "atom.xml", Documents: []*document.Document{post}}
	require.NoError(t, r.Render(&buf, "atom.xml", d))
	out = buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="utf-8"?>`))
	assert.Contains(t, out, "<title>Hello &amp; bye</title>")
	assert.Contains(t, out, `<link href="https://example.com/hello"/>`)
	assert.Contains(t, out, "&lt;p&gt;Body&lt;/p&gt;")
	assert.Contains(t, out, "<updated>2021-03-04T00:00:00Z</updated>")

	buf.Reset()
	d.Document = &document.Document{URL: "/atom.xml", Lang: "en", Layout: "atom.xml", Documents: []*document.Document{}}
	require.NoError(t, r.Render(&buf, "atom.xml", d))
	out = buf.String()
	assert.NotContains(t, out, "<entry>")
	m := regexp.MustCompile(`<updated>([^<]+)</updated>`).FindStringSubmatch(out)
	require.Len(t, m, 2, "empty feed needs a feed-level updated element")
	_, err = time.Parse(time.RFC3339, m[1])
	assert.NoError(t, err)

	buf.Reset()
	d.Document = &document.Document{URL: "/sitemap.txt", Lang: "en", Layout: "sitemap.txt", Documents: []*document.Document{post}}
	require.NoError(t, r.Render(&buf, "sitemap.txt", d))
	assert.Equal(t, "https://example.com/hello\n", buf.String())
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "https://example.com/a", absURL("https://example.com/", "/a"))
	assert.Equal(t, "/en/a", absURL("/en", "a"))
	assert.Equal(t, "/en/", absURL("/en", "/"))
	assert.Equal(t, "/a", absURL("", "/a"))

	assert.Equal(t, "Hello World", title("en", "hello world"))
	assert.Equal(t, "Hello", title("not a tag", "hello"))

	assert.Equal(t, "a &lt;b&gt;", xmlEscape(template.HTML("a <b>")))
	assert.Equal(t, "42", xmlEscape(42))

	docs := []*document.Document{{URL: "/1", Title: "b"}, {URL: "/2", Title: "a"}, {URL: "/3", Title: "c"}}
	assert.Len(t, limit(2, docs), 2)
	assert.Len(t, limit(5, docs), 3)
	assert.Empty(t, limit(-1, docs))
	assert.Equal(t, "/3", reverse(docs)[0].URL)
	assert.Equal(t, "/1", docs[0].URL)
	assert.Nil(t, first(nil))

	sorted, err := sortBy(docs, "title")
	require.NoError(t, err)
	assert.Equal(t, "/2", sorted[0].URL)
}
