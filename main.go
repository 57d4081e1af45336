package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ancientlore/chronicle/config"
	"github.com/ancientlore/chronicle/metrics"
	"github.com/ancientlore/chronicle/preview"
	"github.com/ancientlore/chronicle/site"
	"github.com/facebookgo/flagenv"
	"github.com/golang/groupcache"
	prom "github.com/prometheus/client_golang/prometheus"
)

// main is where it all begins. 😀
func main() {
	// Setup flags
	var (
		fRoot              = flag.String("root", ".", "Root of the blog.")
		fConfig            = flag.String("config", config.FileName, "Configuration file, relative to the root.")
		fServe             = flag.Bool("serve", false, "Serve the public folder after building.")
		fWatch             = flag.Bool("watch", false, "Rebuild when sources or templates change; implies -serve.")
		fPort              = flag.Int("port", 8080, "Port to listen on.")
		fReadTimeout       = flag.Duration("readtimeout", 10*time.Second, "HTTP server read timeout.")
		fReadHeaderTimeout = flag.Duration("readheadertimeout", 5*time.Second, "HTTP server read header timeout.")
		fWriteTimeout      = flag.Duration("writetimeout", 30*time.Second, "HTTP server write timeout.")
	)
	flag.Parse()
	flagenv.Parse()

	// Switch to site folder
	err := os.Chdir(*fRoot)
	if err != nil {
		log.Printf("Cannot switch to root %q: %s", *fRoot, err)
		os.Exit(1)
	}
	log.Printf("Changed to %q directory", *fRoot)

	cfg, err := config.Load(os.DirFS("."), *fConfig)
	if err != nil {
		log.Printf("Cannot load configuration: %s", err)
		os.Exit(2)
	}
	log.Printf("Languages: %v", cfg.LanguageTags())
	for _, w := range cfg.Warnings() {
		log.Printf("Warning: %s", w)
	}

	// Setup groupcache with no peers
	groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })

	reg := prom.NewRegistry()
	builder := site.NewBuilder(".", cfg, metrics.NewPrometheusRecorder(reg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := builder.Build(ctx); err != nil {
		log.Printf("Build failed: %s", err)
		if !*fWatch {
			os.Exit(3)
		}
	}
	if !*fServe && !*fWatch {
		return
	}

	if *fWatch {
		w := &preview.Watcher{
			Dirs:  watchedDirs(cfg),
			Delay: 300 * time.Millisecond,
			Rebuild: func(ctx context.Context) error {
				_, err := builder.Build(ctx)
				return err
			},
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Printf("watch: %s", err)
			}
		}()
		log.Printf("Watching %v", w.Dirs)
	}

	// Create HTTP server
	var srv = http.Server{
		Addr:              fmt.Sprintf(":%d", *fPort),
		Handler:           preview.NewHandler(os.DirFS(cfg.PublicFolder), cfg, metrics.HTTPHandler(reg)),
		ReadTimeout:       *fReadTimeout,
		WriteTimeout:      *fWriteTimeout,
		ReadHeaderTimeout: *fReadHeaderTimeout,
	}
	if err := preview.ListenAndServe(ctx, &srv); err != nil {
		log.Printf("HTTP server: %v", err)
		os.Exit(4)
	}
	log.Print("Goodbye.")
}

// watchedDirs returns the folders whose changes trigger a rebuild.
func watchedDirs(cfg *config.Config) []string {
	var dirs []string
	for _, d := range []string{cfg.SourceFolder, cfg.TemplatesFolder} {
		if fi, err := os.Stat(d); err == nil && fi.IsDir() {
			dirs = append(dirs, d)
		}
	}
	return dirs
}
