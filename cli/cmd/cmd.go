package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/plate/log"
	"github.com/ardnew/plate/site"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	siteKey   struct{}
	stdinKey  struct{}
	stdoutKey struct{}
)

// WithSite returns a new context.Context containing the site configuration
// assembled from the global flags.
func WithSite(ctx context.Context, cfg site.Config) context.Context {
	return context.WithValue(ctx, siteKey{}, cfg)
}

func siteConfigFrom(ctx context.Context) site.Config {
	cfg, _ := ctx.Value(siteKey{}).(site.Config)

	return cfg
}

// WithStdin returns a new context.Context whose commands read "-" sources
// from r instead of os.Stdin.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok {
		return r
	}

	return os.Stdin
}

// WithStdout returns a new context.Context whose commands write their
// output to w instead of os.Stdout.
func WithStdout(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey{}, w)
}

func stdoutFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok {
		return w
	}

	return os.Stdout
}

// newSite returns a Site for the configuration stored in ctx, logging
// through the default logger.
func newSite(ctx context.Context, opts ...site.Option) (*site.Site, error) {
	s, err := site.New(siteConfigFrom(ctx),
		append([]site.Option{site.WithLogger(log.Default())}, opts...)...)
	if err != nil {
		return nil, ErrSite.Wrap(err)
	}

	return s, nil
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openSource opens the named template source. An empty name selects the
// configured template; "-" selects stdin. The returned name is the one to
// resolve relative insert paths against.
func openSource(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if name == "" {
		name = siteConfigFrom(ctx).TemplatePath
	}

	if name == stdinSource {
		// Inserts from stdin resolve against the working directory.
		return io.NopCloser(stdinFrom(ctx)), "stdin", nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, name, ErrOpenSource.Wrap(err).With(slog.String("path", name))
	}

	return f, name, nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniquePaths returns paths in order with every file named more than once
// (by any spelling, including through symlinks) kept only at its first
// occurrence. Paths that cannot be resolved are kept so their error surfaces
// when they are opened.
func uniquePaths(paths []string) []string {
	seen := make(map[fileKey]struct{}, len(paths))
	unique := make([]string, 0, len(paths))

	for _, path := range paths {
		key, ok := resolveFileKey(path)
		if ok {
			if _, exists := seen[key]; exists {
				continue
			}

			seen[key] = struct{}{}
		}

		unique = append(unique, path)
	}

	return unique
}

// resolveFileKey resolves symlinks in path and returns the identity of the
// file it names.
func resolveFileKey(path string) (fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert // Dev is int32 on darwin
}
