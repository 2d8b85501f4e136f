package site

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/natefinch/atomic"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/plate/lang"
	"github.com/ardnew/plate/log"
)

const defaultDebounce = 100 * time.Millisecond

// Site builds one site from its [Config].
type Site struct {
	cfg      Config
	logger   log.Logger
	files    lang.FileReader
	debounce time.Duration
}

// New returns a Site for cfg. It fails if cfg is missing a required path.
func New(cfg Config, opts ...Option) (*Site, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	s := &Site{
		cfg:      cfg,
		files:    lang.OSFiles{},
		debounce: defaultDebounce,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Config returns the normalized configuration.
func (s *Site) Config() Config { return s.cfg }

// Result counts what a build did.
type Result struct {
	Rendered int // pages written
	Skipped  int // pages whose output was already up to date
	Failed   int // pages that could not be rendered
	Assets   int // asset files written
}

// LogValue implements slog.LogValuer.
func (r Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("rendered", r.Rendered),
		slog.Int("skipped", r.Skipped),
		slog.Int("failed", r.Failed),
		slog.Int("assets", r.Assets),
	)
}

// Template parses the site template.
func (s *Site) Template(ctx context.Context) (*lang.Document, error) {
	return lang.ParseFile(ctx, s.cfg.TemplatePath,
		lang.WithLogger(s.logger),
		lang.WithFiles(s.files),
	)
}

// Build renders every content file and copies the assets.
//
// Pages render in parallel, at most Config.Jobs at a time. Unless
// Config.KeepGoing is set the first failure stops the build and is
// returned; otherwise every failure is logged and all of them are returned
// joined. Assets are copied only when no page failed or KeepGoing is set.
func (s *Site) Build(ctx context.Context) (Result, error) {
	var res Result

	start := time.Now()

	doc, err := s.Template(ctx)
	if err != nil {
		return res, err
	}

	pages, err := Discover(s.cfg)
	if err != nil {
		return res, err
	}

	s.logger.DebugContext(ctx, "build start",
		slog.String("source", s.cfg.SourceDir),
		slog.Int("pages", len(pages)),
		slog.Int("jobs", s.cfg.Jobs),
	)

	var (
		mu   sync.Mutex
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Jobs)

	for _, rel := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			written, err := s.buildPage(gctx, doc, rel)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil && written:
				res.Rendered++
			case err == nil:
				res.Skipped++
			default:
				res.Failed++

				if !s.cfg.KeepGoing {
					return err
				}

				s.logger.WarnContext(gctx, "page failed",
					slog.String("content", rel),
					slog.Any("error", err),
				)

				errs = append(errs, err)
			}

			return nil
		})
	}

	err = g.Wait()
	if err == nil {
		err = errors.Join(errs...)
	}

	if err == nil || s.cfg.KeepGoing {
		n, aerr := s.copyAssets(ctx)
		res.Assets = n

		err = errors.Join(err, aerr)
	}

	if err != nil {
		return res, err
	}

	s.logger.InfoContext(ctx, "build complete",
		slog.Any("result", res),
		slog.Duration("elapsed", time.Since(start)),
	)

	return res, nil
}

// RenderFile renders the content file at contentPath to w without writing
// anything to the output directory.
func (s *Site) RenderFile(ctx context.Context, w io.Writer, contentPath string) error {
	doc, err := s.Template(ctx)
	if err != nil {
		return err
	}

	page, err := s.loadPage(contentPath)
	if err != nil {
		return err
	}

	return doc.Render(ctx, w, page)
}

// buildPage renders the content file at rel and writes its output. written
// is false when the output was already up to date.
func (s *Site) buildPage(
	ctx context.Context,
	doc *lang.Document,
	rel string,
) (written bool, err error) {
	page, err := s.loadPage(filepath.Join(s.cfg.SourceDir, rel))
	if err != nil {
		return false, err
	}

	var buf bytes.Buffer

	err = doc.Render(ctx, &buf, page)
	if err != nil {
		return false, err
	}

	out := s.cfg.OutputPath(rel)

	written, err = s.writeFile(out, buf.Bytes())
	if err != nil {
		return false, err
	}

	s.logger.DebugContext(ctx, "page",
		slog.String("content", rel),
		slog.String("output", out),
		slog.Bool("written", written),
	)

	return written, nil
}

func (s *Site) loadPage(contentPath string) (lang.Page, error) {
	data, err := os.ReadFile(contentPath)
	if err != nil {
		return lang.Page{}, lang.ErrReadFile.Wrap(err).
			With(slog.String("content", contentPath))
	}

	page, err := ParsePage(contentPath, data)
	if err != nil {
		return lang.Page{}, err
	}

	page.TemplatePath = s.cfg.TemplatePath

	return page, nil
}

// writeFile atomically replaces path with data unless it already holds the
// same bytes.
func (s *Site) writeFile(path string, data []byte) (bool, error) {
	if !s.cfg.Force {
		if sum, err := hashFile(path); err == nil && sum == xxh3.Hash(data) {
			return false, nil
		}
	}

	return true, replaceFile(path, bytes.NewReader(data))
}

// hashFile returns the xxh3 hash of the file at path.
func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxh3.New()

	_, err = io.Copy(h, f)
	if err != nil {
		return 0, err
	}

	return h.Sum64(), nil
}

// replaceFile writes r to path through a temporary file, creating parent
// directories as needed.
func replaceFile(path string, r io.Reader) error {
	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err == nil {
		err = atomic.WriteFile(path, r)
	}

	if err != nil {
		return lang.ErrWriteOutput.Wrap(err).With(slog.String("path", path))
	}

	return nil
}
