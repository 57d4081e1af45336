// Package config reads the blog configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

// FileName is the configuration file looked up in the site root.
const FileName = "config.toml"

// ErrInvalid is returned by Validate for unusable configuration.
var ErrInvalid = errors.New("invalid configuration")

// Config contains configuration data from the config.toml file.
type Config struct {
	SourceFolder    string            `toml:"sourceFolder"`
	SourceTypes     []string          `toml:"sourceTypes"`
	TemplatesFolder string            `toml:"templatesFolder"`
	PublicFolder    string            `toml:"publicFolder"`
	PostsPerPage    int               `toml:"postsPerPage"`
	PostsInFeed     int               `toml:"postsInFeed"`
	CutTag          string            `toml:"cutTag"`
	DefaultLayout   string            `toml:"defaultLayout"`
	HighlightStyle  string            `toml:"highlightStyle"`
	Translations    map[string]string `toml:"translations"`
	Languages       map[string]Site   `toml:"languages"`
	Serve           Serve             `toml:"serve"`
}

// Site holds the settings of one language of the blog.
type Site struct {
	Title       string         `toml:"title"`
	Description string         `toml:"description"`
	URL         string         `toml:"url"`
	Author      string         `toml:"author"`
	Params      map[string]any `toml:"params"`
}

// Serve configures the preview server.
type Serve struct {
	Expires       Duration          `toml:"expires"`
	StaticExpires Duration          `toml:"staticExpires"`
	Headers       map[string]string `toml:"headers"`
	CacheSize     int64             `toml:"cacheSize"`
	CacheDuration Duration          `toml:"cacheDuration"`
}

// Default returns the configuration used for settings the file leaves out.
func Default() *Config {
	return &Config{
		SourceFolder:    "source",
		SourceTypes:     []string{"md"},
		TemplatesFolder: "templates",
		PublicFolder:    "public",
		PostsPerPage:    10,
		PostsInFeed:     10,
		CutTag:          "<!-- cut -->",
		DefaultLayout:   "post",
		Languages:       map[string]Site{"en": {}},
		Serve: Serve{
			CacheSize:     64 << 20,
			CacheDuration: Duration(time.Second),
		},
	}
}

// Load reads name from fsys over the defaults and validates the result.
// It is not an error if the file does not exist.
func Load(fsys fs.FS, name string) (*Config, error) {
	cfg := Default()
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("Cannot read config file: %w", err)
		}
	} else {
		// a [languages] table replaces the default language rather than adding to it
		cfg.Languages = nil
		err = toml.Unmarshal(b, cfg)
		if err != nil {
			return nil, fmt.Errorf("Cannot parse config file: %w", err)
		}
		if len(cfg.Languages) == 0 {
			cfg.Languages = Default().Languages
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for settings the build cannot work with.
func (c *Config) Validate() error {
	if c.PostsPerPage <= 0 {
		return fmt.Errorf("%w: postsPerPage must be positive, got %d", ErrInvalid, c.PostsPerPage)
	}
	if c.PostsInFeed < 0 {
		return fmt.Errorf("%w: postsInFeed must not be negative, got %d", ErrInvalid, c.PostsInFeed)
	}
	if len(c.SourceTypes) == 0 {
		return fmt.Errorf("%w: sourceTypes is empty", ErrInvalid)
	}
	if len(c.Languages) == 0 {
		return fmt.Errorf("%w: no languages", ErrInvalid)
	}
	for _, lang := range c.LanguageTags() {
		if err := validTag(lang); err != nil {
			return err
		}
		if strings.Contains(lang, "/") {
			return fmt.Errorf("%w: language %q", ErrInvalid, lang)
		}
	}
	for lang, other := range c.Translations {
		if _, ok := c.Languages[lang]; !ok {
			return fmt.Errorf("%w: translation from unknown language %q", ErrInvalid, lang)
		}
		if _, ok := c.Languages[other]; !ok {
			return fmt.Errorf("%w: translation of %q to unknown language %q", ErrInvalid, lang, other)
		}
		if lang == other {
			return fmt.Errorf("%w: %q cannot be its own translation", ErrInvalid, lang)
		}
	}
	if c.Serve.CacheSize < 0 {
		return fmt.Errorf("%w: serve.cacheSize must not be negative", ErrInvalid)
	}
	return nil
}

// Warnings reports settings that are valid but probably not intended, such as
// several languages with no translations between them.
func (c *Config) Warnings() []string {
	if len(c.Languages) < 2 {
		return nil
	}
	if len(c.Translations) == 0 {
		return []string{fmt.Sprintf("languages %v have no [translations]; no post will link to a translation", c.LanguageTags())}
	}
	var w []string
	for _, lang := range c.LanguageTags() {
		if c.Counterpart(lang) == "" {
			w = append(w, fmt.Sprintf("language %q has no translation configured", lang))
		}
	}
	return w
}

func validTag(lang string) error {
	if _, err := language.Parse(lang); err != nil {
		return fmt.Errorf("%w: language %q: %w", ErrInvalid, lang, err)
	}
	return nil
}

// LanguageTags returns the configured languages, sorted.
func (c *Config) LanguageTags() []string {
	tags := make([]string, 0, len(c.Languages))
	for lang := range c.Languages {
		tags = append(tags, lang)
	}
	slices.Sort(tags)
	return tags
}

// Site returns the settings of lang. An unknown language gets empty settings.
func (c *Config) Site(lang string) Site {
	return c.Languages[lang]
}

// Counterpart returns the translation language of lang, or "" if there is none.
func (c *Config) Counterpart(lang string) string {
	return c.Translations[lang]
}

// Base returns the URL the pages of lang are published under: the configured site
// URL, or /<lang> when there is none.
func (c *Config) Base(lang string) string {
	if u := c.Site(lang).URL; u != "" {
		return u
	}
	return "/" + lang
}
