package site

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/plate/lang"
)

// Watch builds the site, then rebuilds it each time a file under the
// source, template or asset directory, or beside an inserted file, changes,
// until ctx is done. The
// outcome of every build is passed to report. Build failures do not stop
// the watch.
func (s *Site) Watch(ctx context.Context, report func(Result, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer w.Close()

	roots := []string{s.cfg.SourceDir, filepath.Dir(s.cfg.TemplatePath)}
	if s.cfg.AssetDir != "" {
		roots = append(roots, s.cfg.AssetDir)
	}

	for _, root := range roots {
		err := s.watchTree(w, root)
		if err != nil {
			return ErrWatch.Wrap(err).With(slog.String("dir", root))
		}
	}

	s.watchInserts(ctx, w)

	report(s.Build(ctx))

	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if s.ignored(ev.Name) {
				continue
			}

			s.logger.TraceContext(ctx, "change",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()),
			)

			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					err = s.watchTree(w, ev.Name)
					if err != nil {
						s.logger.WarnContext(ctx, "cannot watch directory",
							slog.String("dir", ev.Name),
							slog.Any("error", err),
						)
					}
				}
			}

			pending = time.After(s.debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			s.logger.WarnContext(ctx, "watch error", slog.Any("error", err))

		case <-pending:
			pending = nil

			s.watchInserts(ctx, w)

			report(s.Build(ctx))
		}
	}
}

// watchTree adds root and every directory below it, except hidden and
// output directories, to w.
func (s *Site) watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != root && s.ignored(path) {
			return filepath.SkipDir
		}

		return w.Add(path)
	})
}

// watchInserts adds the directories of the files the template inserts, so
// partials kept outside the watched trees also trigger rebuilds. A template
// that does not parse is reported by the build instead.
func (s *Site) watchInserts(ctx context.Context, w *fsnotify.Watcher) {
	doc, err := s.Template(ctx)
	if err != nil {
		return
	}

	for _, p := range doc.Paths() {
		dir := filepath.Dir(lang.ResolvePath(s.cfg.TemplatePath, p))
		if slices.Contains(w.WatchList(), dir) {
			continue
		}

		err := w.Add(dir)
		if err != nil {
			s.logger.DebugContext(ctx, "cannot watch insert directory",
				slog.String("dir", dir),
				slog.Any("error", err),
			)
		}
	}
}

// ignored reports whether a change at path should not trigger a rebuild.
func (s *Site) ignored(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}

	rel, err := filepath.Rel(s.cfg.OutputDir, path)

	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
