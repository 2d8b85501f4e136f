package site

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/plate/lang"
)

// copyAssets mirrors AssetDir into OutputDir and returns the number of files
// written. Files whose output already matches are left alone.
func (s *Site) copyAssets(ctx context.Context) (int, error) {
	if s.cfg.AssetDir == "" {
		return 0, nil
	}

	var copied int

	err := filepath.WalkDir(s.cfg.AssetDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if path != s.cfg.AssetDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(s.cfg.AssetDir, path)
		if err != nil {
			return err
		}

		written, err := s.copyFile(path, filepath.Join(s.cfg.OutputDir, rel))
		if err != nil {
			return err
		}

		if written {
			copied++

			s.logger.DebugContext(ctx, "asset", slog.String("path", rel))
		}

		return nil
	})
	if err != nil {
		var lerr *lang.Error
		if !errors.As(err, &lerr) && ctx.Err() == nil {
			err = lang.ErrReadFile.Wrap(err)
		}

		return copied, lang.WrapError(err).
			With(slog.String("assets", s.cfg.AssetDir))
	}

	return copied, nil
}

// copyFile copies src to dst unless dst already has the same content.
func (s *Site) copyFile(src, dst string) (bool, error) {
	if !s.cfg.Force {
		want, err := hashFile(src)
		if err != nil {
			return false, lang.ErrReadFile.Wrap(err).With(slog.String("path", src))
		}

		if got, err := hashFile(dst); err == nil && got == want {
			return false, nil
		}
	}

	f, err := os.Open(src)
	if err != nil {
		return false, lang.ErrReadFile.Wrap(err).With(slog.String("path", src))
	}
	defer f.Close()

	return true, replaceFile(dst, f)
}
