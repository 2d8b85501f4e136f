package cmd

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/natefinch/atomic"

	"github.com/ardnew/plate/lang"
	"github.com/ardnew/plate/log"
)

// Fmt parses a template and prints it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical template syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON line records."`
	YAML   YAML   `cmd:""                    help:"Format as YAML line records."`
}

// parseSource parses the named template source (see openSource).
func parseSource(ctx context.Context, name, format string) (*lang.Document, string, error) {
	r, name, err := openSource(ctx, name)
	if err != nil {
		return nil, name, err
	}
	defer r.Close()

	doc, err := lang.ParseReader(ctx, r, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, name, lang.WrapError(err).
			With(slog.String("template", name), slog.String("format", format))
	}

	return doc, name, nil
}

// Native formats a template in canonical syntax.
type Native struct {
	Write bool `help:"Rewrite the template file in place instead of printing it." short:"w"`

	Source string `arg:"" help:"Template file or '-' for stdin (default: --template)." name:"source" optional:""`
}

// Run executes the native fmt command.
func (f *Native) Run(ctx context.Context) error {
	doc, name, err := parseSource(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	if !f.Write || f.Source == stdinSource {
		return doc.Format(stdoutFrom(ctx))
	}

	var buf bytes.Buffer

	err = doc.Format(&buf)
	if err != nil {
		return err
	}

	err = atomic.WriteFile(name, &buf)
	if err != nil {
		return lang.ErrWriteOutput.Wrap(err).With(slog.String("path", name))
	}

	log.DebugContext(ctx, "formatted", slog.String("template", name))

	return nil
}

// JSON formats a template as JSON line records.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" help:"Template file or '-' for stdin (default: --template)." name:"source" optional:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	doc, _, err := parseSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	return doc.FormatJSON(stdoutFrom(ctx), j.Indent)
}

// YAML formats a template as YAML line records.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" help:"Template file or '-' for stdin (default: --template)." name:"source" optional:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	doc, _, err := parseSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	return doc.FormatYAML(stdoutFrom(ctx), y.Indent)
}
