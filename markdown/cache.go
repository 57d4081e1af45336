package markdown

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"

	"github.com/golang/groupcache"
	"github.com/google/uuid"
)

// HTMLRenderer converts source text to HTML.
type HTMLRenderer interface {
	Render(src []byte) (template.HTML, error)
}

// ctxKey is the type used to hand the source to the cache getter.
type ctxKey string

// Cache remembers rendered HTML by the hash of its source, so unchanged posts are not
// rendered again on the next build.
type Cache struct {
	group *groupcache.Group
}

// NewCache wraps r in a cache holding up to cacheBytes of HTML.
func NewCache(r HTMLRenderer, cacheBytes int64) *Cache {
	// group names must be unique per process
	name := "renderMarkdown-" + uuid.NewString()
	g := groupcache.NewGroup(name, cacheBytes, groupcache.GetterFunc(
		func(ctx context.Context, key string, dest groupcache.Sink) error {
			src, ok := ctx.Value(ctxKey("src")).([]byte)
			if !ok {
				return fmt.Errorf("renderMarkdown group: no source for %s", key)
			}
			html, err := r.Render(src)
			if err != nil {
				return fmt.Errorf("renderMarkdown group: %w", err)
			}
			return dest.SetString(string(html))
		}))
	return &Cache{group: g}
}

// Render returns the HTML for src, rendering it only when it is not cached.
func (c *Cache) Render(src []byte) (template.HTML, error) {
	var html string
	sum := sha256.Sum256(src)
	ctx := context.WithValue(context.Background(), ctxKey("src"), src)
	err := c.group.Get(ctx, hex.EncodeToString(sum[:]), groupcache.StringSink(&html))
	if err != nil {
		return "", fmt.Errorf("cachedRender: %w", err)
	}
	return template.HTML(html), nil
}

// Counts returns the number of lookups and how many of them were served from the cache.
func (c *Cache) Counts() (gets, hits int64) {
	return c.group.Stats.Gets.Get(), c.group.Stats.CacheHits.Get()
}
