package preview

import (
	"io/fs"
	"net/http"
	"path"
	"slices"
	"strings"
	"time"
)

var gmtZone *time.Location

func init() {
	var err error
	gmtZone, err = time.LoadLocation("GMT")
	if err != nil {
		gmtZone = time.UTC
	}
}

// HeaderHandler returns an http.Handler that adds the given headers to the response.
func HeaderHandler(h http.Handler, headers map[string]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		h.ServeHTTP(w, r)
	})
}

// isPage reports whether p is generated by a build rather than a static asset.
func isPage(p string) bool {
	switch path.Ext(p) {
	case "", ".html", ".xml", ".txt":
		return true
	}
	return strings.HasSuffix(p, "/")
}

// ExpiresHandler adds the expires header choosing expires for generated pages
// and staticExpires for everything else.
func ExpiresHandler(h http.Handler, expires, staticExpires time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expiry := staticExpires
		if isPage(r.URL.Path) {
			expiry = expires
		}
		if expiry != 0 {
			w.Header().Set("Expires", time.Now().Add(expiry).In(gmtZone).Format(time.RFC1123))
		}
		h.ServeHTTP(w, r)
	})
}

// LanguageRedirect sends requests for the site root to the home page of lang.
func LanguageRedirect(h http.Handler, lang string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && lang != "" {
			http.Redirect(w, r, "/"+lang+"/", http.StatusFound)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// ErrorHandler captures 404 and 500 errors and serves 404.html or 500.html of the
// language the request is for, falling back to those of the default language, the
// first of languages, and then to the ones at the top of fsys.
func ErrorHandler(h http.Handler, fsys fs.FS, languages []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseWriter{
			ResponseWriter: w,
			fsys:           fsys,
			dirs:           errorPageDirs(r.URL.Path, languages),
		}
		h.ServeHTTP(writer, r)
	})
}

// errorPageDirs lists the folders to look for error pages in, best first.
func errorPageDirs(p string, languages []string) []string {
	var r []string
	seg, _, _ := strings.Cut(strings.TrimPrefix(p, "/"), "/")
	if slices.Contains(languages, seg) {
		r = append(r, seg)
	}
	if len(languages) > 0 && languages[0] != seg {
		r = append(r, languages[0])
	}
	return append(r, ".")
}

type responseWriter struct {
	http.ResponseWriter
	fsys    fs.FS
	dirs    []string
	noWrite bool
	err     error
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.noWrite {
		return len(b), w.err
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	var file string
	if statusCode == http.StatusNotFound {
		file = "404.html"
	} else if statusCode == http.StatusInternalServerError {
		file = "500.html"
	}
	if file != "" {
		// special processing of response
		for _, dir := range w.dirs {
			b, err := fs.ReadFile(w.fsys, path.Join(dir, file))
			if err != nil {
				continue
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Del("X-Content-Type-Options")
			w.ResponseWriter.WriteHeader(statusCode)
			w.noWrite = true
			_, w.err = w.ResponseWriter.Write(b)
			return
		}
	}
	// normal processing
	w.ResponseWriter.WriteHeader(statusCode)
}
