// Package site builds a blog: it loads the sources, plans the pages, renders them
// and writes them to the public folder.
package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ancientlore/chronicle/config"
	"github.com/ancientlore/chronicle/content"
	"github.com/ancientlore/chronicle/document"
	"github.com/ancientlore/chronicle/generate"
	"github.com/ancientlore/chronicle/markdown"
	"github.com/ancientlore/chronicle/metrics"
	"github.com/ancientlore/chronicle/plan"
	"github.com/ancientlore/chronicle/render"
)

// HighlightCSS is the stylesheet written to the public folder when code
// highlighting is enabled.
const HighlightCSS = "highlight.css"

// Builder builds the site rooted at a folder.
type Builder struct {
	cfg      *config.Config
	fsys     fs.FS
	root     string
	cache    *markdown.Cache
	recorder metrics.Recorder

	// Helpers are added to the template helpers of every build.
	Helpers template.FuncMap
	// FieldParsers replace the default field parsers of the same name.
	FieldParsers map[string]content.FieldParser
}

// NewBuilder returns a Builder for the site in root, configured by cfg. A nil
// recorder discards metrics.
func NewBuilder(root string, cfg *config.Config, recorder metrics.Recorder) *Builder {
	var plugins []markdown.Plugin
	plugins = append(plugins, markdown.Screenshots())
	if cfg.HighlightStyle != "" {
		plugins = append(plugins, markdown.Highlight(cfg.HighlightStyle))
	}
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &Builder{
		cfg:      cfg,
		fsys:     os.DirFS(root),
		root:     root,
		cache:    markdown.NewCache(markdown.New(plugins...), cfg.Serve.CacheSize),
		recorder: recorder,
	}
}

// Build runs the whole pipeline once and returns the number of pages written.
func (b *Builder) Build(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := b.build(ctx)
	b.recorder.ObserveBuildDuration(time.Since(start))
	gets, hits := b.cache.Counts()
	b.recorder.SetRenderCache(gets, hits)
	if err != nil {
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return 0, err
	}
	b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	log.Printf("Built %d pages in %s", n, time.Since(start).Round(time.Millisecond))
	return n, nil
}

func (b *Builder) build(ctx context.Context) (int, error) {
	var docs []*document.Document
	err := b.stage(ctx, "load", func() error {
		var err error
		docs, err = b.load()
		return err
	})
	if err != nil {
		return 0, err
	}
	log.Printf("Loaded %d documents from %q", len(docs), b.cfg.SourceFolder)

	var planned []*document.Document
	err = b.stage(ctx, "plan", func() error {
		var err error
		planned, err = plan.Build(docs, plan.Options{
			PostsPerPage: b.cfg.PostsPerPage,
			PostsInFeed:  b.cfg.PostsInFeed,
			Translations: plan.Translations(b.cfg.Translations),
		})
		return err
	})
	if err != nil {
		return 0, err
	}

	var pages []generate.Page
	err = b.stage(ctx, "generate", func() error {
		r, err := render.New(b.fsys, b.cfg.TemplatesFolder, b.Helpers)
		if err != nil {
			return err
		}
		pages, err = generate.Generate(planned, b.cfg, r)
		return err
	})
	if err != nil {
		return 0, err
	}
	b.countPages(pages)

	err = b.stage(ctx, "save", func() error {
		public := filepath.Join(b.root, filepath.FromSlash(b.cfg.PublicFolder))
		if err := generate.Save(pages, public); err != nil {
			return err
		}
		return b.saveHighlightCSS(public)
	})
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// stage runs fn as a named, timed step of the build.
func (b *Builder) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	start := time.Now()
	err := fn()
	b.recorder.ObserveStageDuration(name, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (b *Builder) load() ([]*document.Document, error) {
	langs := b.cfg.LanguageTags()
	parsers := content.DefaultFieldParsers(langs)
	maps.Copy(parsers, b.FieldParsers)
	renderers := make(map[string]content.Renderer, len(b.cfg.SourceTypes))
	for _, t := range b.cfg.SourceTypes {
		renderers[strings.TrimPrefix(t, ".")] = b.cache
	}
	return content.LoadSourceFiles(b.fsys, b.cfg.SourceFolder, b.cfg.SourceTypes, content.Options{
		Renderers:     renderers,
		FieldParsers:  parsers,
		CutTag:        b.cfg.CutTag,
		Languages:     langs,
		DefaultLayout: b.cfg.DefaultLayout,
	})
}

// countPages records how many pages of each layout every language has.
func (b *Builder) countPages(pages []generate.Page) {
	counts := make(map[[2]string]int)
	for _, p := range pages {
		counts[[2]string{p.Document.Lang, p.Document.Layout}]++
	}
	for k, n := range counts {
		b.recorder.SetPages(k[0], k[1], n)
	}
}

func (b *Builder) saveHighlightCSS(public string) error {
	if b.cfg.HighlightStyle == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := markdown.WriteHighlightCSS(&buf, b.cfg.HighlightStyle); err != nil {
		return err
	}
	if err := os.MkdirAll(public, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(public, HighlightCSS), buf.Bytes(), 0o644)
}
