package lang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Page is the data a template is rendered against: one content file and
// the template that presents it. A Page lives for a single render.
type Page struct {
	TemplatePath string // template file; insert paths are relative to its directory
	ContentPath  string // content file the page was read from
	Content      string // content text, the value of $self.content
	Title        string // page title, the value of $self.title
}

// FileReader loads the files named by insert directives.
type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// OSFiles reads files from the operating system.
type OSFiles struct{}

// ReadFile implements [FileReader].
func (OSFiles) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// FS adapts an [fs.FS] to a [FileReader]. Names are converted to slash
// form and cleaned, so only relative names are valid.
type FS struct{ fs.FS }

// ReadFile implements [FileReader].
func (f FS) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(f.FS, path.Clean(filepath.ToSlash(name)))
}

// variables maps each defined variable path to its value on a page.
var variables = map[string]func(Page) string{
	"self.content": func(p Page) string { return p.Content },
	"self.title":   func(p Page) string { return p.Title },
}

// Variables returns the sorted names of the defined variables.
func Variables() []string {
	return slices.Sorted(maps.Keys(variables))
}

// RenderString renders d for page and returns the output.
func (d *Document) RenderString(
	ctx context.Context,
	page Page,
	opts ...Option,
) (string, error) {
	var sb strings.Builder

	err := d.Render(ctx, &sb, page, opts...)
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}

// Render writes the output of d for page to w. Every line produces its text
// followed by "\n". Rendering stops at the first error; output written
// before the error is not retracted.
func (d *Document) Render(
	ctx context.Context,
	w io.Writer,
	page Page,
	opts ...Option,
) error {
	o := d.opts.with(opts...)

	o.logger.TraceContext(ctx, "render start",
		slog.String("template", page.TemplatePath),
		slog.String("content", page.ContentPath),
		slog.Int("line_count", len(d.Lines)),
	)

	for i := range d.Lines {
		line := &d.Lines[i]

		text, err := evalLine(ctx, o, line, page)
		if err != nil {
			return WrapError(err).WithPosition(line.Pos).
				With(slog.String("content", page.ContentPath))
		}

		_, err = io.WriteString(w, text)
		if err == nil {
			_, err = io.WriteString(w, "\n")
		}

		if err != nil {
			return ErrWriteOutput.Wrap(err).
				With(slog.String("content", page.ContentPath))
		}
	}

	o.logger.TraceContext(ctx, "render complete",
		slog.String("content", page.ContentPath),
	)

	return nil
}

// Check reports every line that cannot be rendered for any page: unknown
// variables and insert files that cannot be read. The problems are joined
// in document order; nil means every line is renderable.
func (d *Document) Check(
	ctx context.Context,
	templatePath string,
	opts ...Option,
) error {
	o := d.opts.with(opts...)

	var errs []error

	for i := range d.Lines {
		line := &d.Lines[i]
		if line.Kind != LineCommand {
			continue
		}

		_, err := evalLine(ctx, o, line, Page{TemplatePath: templatePath})
		if err != nil {
			errs = append(errs, WrapError(err).WithPosition(line.Pos))
		}
	}

	return errors.Join(errs...)
}

// evalLine returns the text a single line produces, without the trailing
// newline.
func evalLine(
	ctx context.Context,
	o options,
	line *Line,
	page Page,
) (string, error) {
	if line.Kind == LineRaw {
		return line.Raw, nil
	}

	target := line.Command.Target

	if target.IsPath() {
		name := ResolvePath(page.TemplatePath, target.Path.String())

		o.logger.TraceContext(ctx, "insert file",
			slog.String("path", name),
			slog.Int("line", line.Pos.Line),
		)

		data, err := o.files.ReadFile(name)
		if err != nil {
			return "", ErrReadFile.Wrap(err).With(slog.String("path", name))
		}

		return string(data), nil
	}

	return lookupVar(target.Var, page)
}

// ResolvePath returns the file an insert of name refers to when rendering
// the template at templatePath. Absolute names are returned unchanged.
func ResolvePath(templatePath, name string) string {
	if filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(filepath.Dir(templatePath), name)
}

// lookupVar resolves a variable path against page.
func lookupVar(v VarPath, page Page) (string, error) {
	name := v.String()

	if get, ok := variables[name]; ok {
		return get(page), nil
	}

	err := ErrUnknownVariable.With(slog.String("variable", name))

	if matches := fuzzy.Find(name, Variables()); len(matches) > 0 {
		best := matches[0].Str

		return "", err.
			With(slog.String("suggestion", best)).
			Wrap(fmt.Errorf("$%s (did you mean $%s?)", name, best))
	}

	return "", err.Wrap(fmt.Errorf("$%s", name))
}
