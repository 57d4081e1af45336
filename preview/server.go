/*
Package preview serves a built site locally and rebuilds it when its sources change.

The handler chain is:

	headers -> expires -> gzip -> root redirect -> 404 pages -> cached file server

Files are read through a groupcache backed file system so repeated requests do not
touch the disk; cached entries expire after the configured duration so rebuilt
pages show up shortly after a build.
*/
package preview

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ancientlore/cachefs"
	"github.com/ancientlore/chronicle/config"
	"github.com/google/uuid"
)

// NewHandler returns the handler serving the built site in fsys. metrics, when not
// nil, is served at /metrics.
func NewHandler(fsys fs.FS, cfg *config.Config, metrics http.Handler) http.Handler {
	cached := cachefs.New(fsys, &cachefs.Config{
		GroupName:   "preview-" + uuid.NewString(),
		SizeInBytes: cfg.Serve.CacheSize,
		Duration:    time.Duration(cfg.Serve.CacheDuration),
	})
	langs := cfg.LanguageTags()
	var defaultLang string
	if len(langs) > 0 {
		defaultLang = langs[0]
	}
	site := HeaderHandler(
		ExpiresHandler(
			gziphandler.GzipHandler(
				LanguageRedirect(
					ErrorHandler(
						http.FileServer(http.FS(cached)),
						cached,
						langs,
					),
					defaultLang,
				),
			),
			time.Duration(cfg.Serve.Expires),
			time.Duration(cfg.Serve.StaticExpires),
		),
		cfg.Serve.Headers)
	if metrics == nil {
		return site
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics)
	mux.Handle("/", site)
	return mux
}

// ListenAndServe runs srv until ctx is done, then shuts it down gracefully.
func ListenAndServe(ctx context.Context, srv *http.Server) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			// Error from closing listeners, or context timeout:
			log.Printf("HTTP server Shutdown: %v", err)
		}
	}()
	log.Printf("Listening for requests on %s", srv.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
