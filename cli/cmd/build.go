package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/ardnew/plate/log"
	"github.com/ardnew/plate/site"
)

// Build renders every content file into the output directory.
type Build struct{}

// Run executes the build command.
func (b *Build) Run(ctx context.Context) error {
	s, err := newSite(ctx)
	if err != nil {
		return err
	}

	_, err = s.Build(ctx)

	return err
}

// Watch builds the site and rebuilds it on every change until the context
// is canceled.
type Watch struct {
	Debounce time.Duration `default:"100ms" help:"Wait this long for changes to settle before rebuilding."`
}

// Run executes the watch command.
func (w *Watch) Run(ctx context.Context) error {
	s, err := newSite(ctx, site.WithDebounce(w.Debounce))
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "watching",
		slog.String("source", s.Config().SourceDir),
		slog.String("template", s.Config().TemplatePath),
	)

	return s.Watch(ctx, func(_ site.Result, err error) {
		if err != nil {
			log.ErrorContext(ctx, "build failed", slog.Any("error", err))
		}
	})
}
