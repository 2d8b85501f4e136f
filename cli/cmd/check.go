package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/plate/lang"
	"github.com/ardnew/plate/log"
)

// Check validates a template without rendering any content: its syntax,
// the variables it uses and the files it inserts.
type Check struct {
	Template string `arg:"" help:"Template file or '-' for stdin (default: --template)." name:"template" optional:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	r, name, err := openSource(ctx, c.Template)
	if err != nil {
		return err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return ErrOpenSource.Wrap(err).With(slog.String("path", name))
	}

	src := string(data)

	var problems []error

	doc, err := lang.ParseString(ctx, src, lang.WithLogger(log.Default()))
	if err != nil {
		problems = append(problems, err)
	} else {
		problems = splitJoined(doc.Check(ctx, name))
	}

	out := stdoutFrom(ctx)

	for _, p := range problems {
		writeDiagnostic(out, name, src, p)
	}

	if len(problems) > 0 {
		return ErrCheck.With(
			slog.String("template", name),
			slog.Int("problems", len(problems)),
		)
	}

	fmt.Fprintf(out, "%s %s\n", diagOK.Render("ok"), name)

	return nil
}

// splitJoined returns the errors joined in err.
func splitJoined(err error) []error {
	if err == nil {
		return nil
	}

	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}

	return []error{err}
}
