package site

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/plate/lang"
)

// Discover returns the content files under cfg.SourceDir as paths relative
// to it, sorted. Hidden files and directories (leading '.') are skipped, as
// are the output and asset directories and the template itself when they
// live under the source directory.
func Discover(cfg Config) ([]string, error) {
	skipDir := map[string]bool{cfg.OutputDir: true}
	if cfg.AssetDir != "" {
		skipDir[cfg.AssetDir] = true
	}

	var files []string

	err := filepath.WalkDir(cfg.SourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != cfg.SourceDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			if path != cfg.SourceDir && skipDir[path] {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() || path == cfg.TemplatePath {
			return nil
		}

		rel, err := filepath.Rel(cfg.SourceDir, path)
		if err != nil {
			return err
		}

		files = append(files, rel)

		return nil
	})
	if err != nil {
		return nil, lang.ErrReadFile.Wrap(err).
			With(slog.String("dir", cfg.SourceDir))
	}

	slices.Sort(files)

	return files, nil
}
