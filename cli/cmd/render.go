package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/plate/log"
)

// Render renders content files to stdout without touching the output
// directory.
type Render struct {
	Content []string `arg:"" help:"Content file(s) to render." name:"content" type:"existingfile"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) error {
	s, err := newSite(ctx)
	if err != nil {
		return err
	}

	out := stdoutFrom(ctx)

	for _, path := range uniquePaths(r.Content) {
		err := s.RenderFile(ctx, out, path)
		if err != nil {
			return err
		}

		log.DebugContext(ctx, "rendered", slog.String("content", path))
	}

	return nil
}
