package site

import (
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ardnew/plate/lang"
)

// Predefined errors.
var (
	ErrConfig      = lang.NewError("invalid site configuration")
	ErrFrontMatter = lang.NewError("invalid front matter")
	ErrWatch       = lang.NewError("watch failed")
)

// Config describes where a site's inputs and outputs live.
type Config struct {
	SourceDir    string // directory of content files
	TemplatePath string // template applied to every content file
	OutputDir    string // rendered pages and copied assets
	AssetDir     string // copied verbatim into OutputDir; optional
	Ext          string // output extension; empty keeps the content file's
	Jobs         int    // maximum parallel renders; <= 0 uses GOMAXPROCS
	KeepGoing    bool   // render every page even after a failure
	Force        bool   // rewrite outputs whose contents did not change
}

// normalize validates c and fills in defaults.
func (c Config) normalize() (Config, error) {
	for _, req := range []struct{ name, value string }{
		{"source", c.SourceDir},
		{"template", c.TemplatePath},
		{"output", c.OutputDir},
	} {
		if req.value == "" {
			return c, ErrConfig.Wrap(errMissing(req.name)).
				With(slog.String("field", req.name))
		}
	}

	c.SourceDir = filepath.Clean(c.SourceDir)
	c.TemplatePath = filepath.Clean(c.TemplatePath)
	c.OutputDir = filepath.Clean(c.OutputDir)

	if c.AssetDir != "" {
		c.AssetDir = filepath.Clean(c.AssetDir)
	}

	if c.SourceDir == c.OutputDir {
		return c, ErrConfig.Wrap(errSameDir).
			With(slog.String("dir", c.SourceDir))
	}

	if c.Ext != "" && !strings.HasPrefix(c.Ext, ".") {
		c.Ext = "." + c.Ext
	}

	if c.Jobs <= 0 {
		c.Jobs = runtime.GOMAXPROCS(0)
	}

	return c, nil
}

// OutputPath returns the file a content file at rel (relative to
// SourceDir) is rendered to.
func (c Config) OutputPath(rel string) string {
	if c.Ext != "" {
		ext := c.Ext
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ext
	}

	return filepath.Join(c.OutputDir, rel)
}

type configError string

func (e configError) Error() string { return string(e) }

const errSameDir = configError("source and output directories are the same")

func errMissing(name string) error {
	return configError(name + " path is required")
}
