package preview

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher rebuilds the site when files below its folders change. Bursts of changes
// are collapsed into one rebuild that runs once no change was seen for Delay.
type Watcher struct {
	Dirs    []string
	Delay   time.Duration
	Rebuild func(ctx context.Context) error
}

// Run watches until ctx is done. Rebuilds run one at a time; a failed rebuild is
// logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()
	for _, dir := range w.Dirs {
		if err := addDirsRecursive(watcher, dir); err != nil {
			return err
		}
	}

	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)
	trigger := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.Delay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addDirsRecursive(watcher, ev.Name)
				}
			}
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %s", err)
		case <-rebuildReq:
			log.Print("Change detected; rebuilding site")
			if err := w.Rebuild(ctx); err != nil {
				log.Printf("rebuild: %s", err)
			}
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				log.Printf("watch %s: %s", path, err)
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports events for hidden, editor swap and lock files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
