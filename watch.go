package pressmill

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of filesystem events (editors often write
// several times per save) into one rebuild.
const watchDebounce = 300 * time.Millisecond

// Watch monitors the source roots of the jobs' projects and formats and
// invokes rebuild after changes settle. The translation cache is cleared
// before each rebuild so edited translation files are picked up. Watch
// blocks until ctx is done.
func (p *Pipeline) Watch(ctx context.Context, jobs []*Job, rebuild func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range watchRoots(jobs) {
		if err := addRecursive(watcher, root); err != nil {
			return err
		}
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories need explicit watches.
			if event.Op.Has(fsnotify.Create) {
				_ = addRecursive(watcher, event.Name)
			}
			p.logger.Debug("source changed", "path", event.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("watch error", "error", err)

		case <-fire:
			p.ClearTranslations()
			rebuild(ctx)
		}
	}
}

// watchRoots collects the distinct source roots of the jobs' projects and
// formats.
func watchRoots(jobs []*Job) []string {
	seen := make(map[string]struct{})
	var roots []string
	for _, job := range jobs {
		for _, root := range []string{job.Project.SourceRoot, job.Format.SourceRoot} {
			if _, ok := seen[root]; ok {
				continue
			}
			seen[root] = struct{}{}
			roots = append(roots, root)
		}
	}
	return roots
}

// addRecursive watches a directory tree. Non-directories are ignored.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries, keep watching the rest
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
