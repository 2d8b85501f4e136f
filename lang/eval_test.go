package lang

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, src string, opts ...Option) *Document {
	t.Helper()

	doc, err := ParseString(context.Background(), src, opts...)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", src, err)
	}

	return doc
}

func TestRender(t *testing.T) {
	files := FS{fstest.MapFS{
		"templates/nav.html":        {Data: []byte("NAV")},
		"templates/partials/f.html": {Data: []byte("<footer>\n</footer>")},
		"templates/empty.html":      {Data: nil},
	}}

	page := Page{
		TemplatePath: "templates/t.tpl",
		ContentPath:  "content/index.md",
		Content:      "first\nsecond",
		Title:        "Example",
	}

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty template", "", ""},
		{"raw and title", "+hello\n:insert $self.title\n", "hello\nExample\n"},
		{"insert file", `:insert "nav.html"` + "\n", "NAV\n"},
		{"insert nested file", ":insert 'partials/f.html'\n", "<footer>\n</footer>\n"},
		{"insert empty file", ":insert 'empty.html'\n", "\n"},
		{"content verbatim", "+<main>\n:insert $self.content\n+</main>", "<main>\nfirst\nsecond\n</main>\n"},
		{"crlf source emits lf", "+a\r\n+b\r\n", "a\nb\n"},
		{"raw keeps carriage return", "+a\r\r\n", "a\r\n"},
		{"empty raw", "+\n", "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.src, WithFiles(files))

			got, err := doc.RenderString(context.Background(), page)
			if err != nil {
				t.Fatalf("RenderString: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender_OSFiles(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "templates", "t.tpl")

	err := os.MkdirAll(filepath.Dir(tpl), 0o750)
	if err != nil {
		t.Fatal(err)
	}

	err = os.WriteFile(filepath.Join(dir, "templates", "nav.html"), []byte("NAV"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	doc := mustParse(t, `:insert "nav.html"`+"\n")

	got, err := doc.RenderString(context.Background(), Page{TemplatePath: tpl})
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}

	if got != "NAV\n" {
		t.Errorf("output = %q, want %q", got, "NAV\n")
	}
}

func TestRender_MissingDecodedPath(t *testing.T) {
	dir := t.TempDir()
	doc := mustParse(t, `:insert "a\r\".b\ntml"`+"\n")

	_, err := doc.RenderString(context.Background(), Page{
		TemplatePath: filepath.Join(dir, "t.tpl"),
	})
	if !errors.Is(err, ErrReadFile) {
		t.Fatalf("error = %v, want ErrReadFile", err)
	}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want it to wrap fs.ErrNotExist", err)
	}

	if errors.Is(err, ErrSyntax) {
		t.Errorf("read failure matched ErrSyntax: %v", err)
	}

	var rerr *Error
	if !errors.As(err, &rerr) {
		t.Fatalf("error %T is not *Error", err)
	}

	if pos, ok := rerr.Position(); !ok || pos.Line != 1 {
		t.Errorf("position = %v, %v; want line 1", pos, ok)
	}
}

func TestRender_UnknownVariable(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		suggestion string
	}{
		{"no suggestion", ":insert $self.unknown\n", ""},
		{"suggests title", ":insert $title\n", "did you mean $self.title?"},
		{"suggests content", ":insert $cont\n", "did you mean $self.content?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, "+before\n"+tt.src)

			var buf bytes.Buffer

			err := doc.Render(context.Background(), &buf, Page{})
			if !errors.Is(err, ErrUnknownVariable) {
				t.Fatalf("error = %v, want ErrUnknownVariable", err)
			}

			if !strings.HasPrefix(err.Error(), "line 2, column 1: ") {
				t.Errorf("error %q does not start with the line position", err)
			}

			if tt.suggestion != "" && !strings.Contains(err.Error(), tt.suggestion) {
				t.Errorf("error %q does not contain %q", err, tt.suggestion)
			}

			if tt.suggestion == "" && strings.Contains(err.Error(), "did you mean") {
				t.Errorf("error %q has an unexpected suggestion", err)
			}

			// Lines before the failure were already written.
			if buf.String() != "before\n" {
				t.Errorf("partial output = %q, want %q", buf.String(), "before\n")
			}
		})
	}
}

type failWriter struct{ n int }

func (w *failWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errors.New("disk full")
	}

	w.n--

	return len(p), nil
}

func TestRender_WriteError(t *testing.T) {
	doc := mustParse(t, "+a\n+b\n")

	err := doc.Render(context.Background(), &failWriter{n: 1}, Page{})
	if !errors.Is(err, ErrWriteOutput) {
		t.Errorf("error = %v, want ErrWriteOutput", err)
	}
}

func TestRender_Concurrent(t *testing.T) {
	doc := mustParse(t, "+<h1>\n:insert $self.title\n+</h1>\n:insert $self.content\n")

	var wg sync.WaitGroup

	for i := range 16 {
		title := strings.Repeat("t", i+1)

		wg.Add(1)

		go func() {
			defer wg.Done()

			got, err := doc.RenderString(context.Background(), Page{Title: title, Content: "c"})
			if err != nil {
				t.Errorf("RenderString: %v", err)

				return
			}

			want := "<h1>\n" + title + "\n</h1>\nc\n"
			if got != want {
				t.Errorf("output = %q, want %q", got, want)
			}
		}()
	}

	wg.Wait()
}

func TestResolvePath(t *testing.T) {
	abs := filepath.Join(string(filepath.Separator), "srv", "shared.html")

	tests := []struct {
		template string
		name     string
		want     string
	}{
		{"templates/t.tpl", "nav.html", filepath.Join("templates", "nav.html")},
		{"templates/t.tpl", "../x.html", "x.html"},
		{"t.tpl", "nav.html", "nav.html"},
		{"templates/t.tpl", abs, abs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePath(tt.template, tt.name); got != tt.want {
				t.Errorf("ResolvePath(%q, %q) = %q, want %q", tt.template, tt.name, got, tt.want)
			}
		})
	}
}

func TestVariables(t *testing.T) {
	want := []string{"self.content", "self.title"}
	if diff := cmp.Diff(want, Variables()); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
}

func TestCheck(t *testing.T) {
	files := FS{fstest.MapFS{"templates/nav.html": {Data: []byte("NAV")}}}

	doc := mustParse(t,
		"+ok\n"+
			":insert 'nav.html'\n"+
			":insert $self.titel\n"+
			":insert 'missing.html'\n"+
			":insert $self.content\n",
		WithFiles(files),
	)

	err := doc.Check(context.Background(), "templates/t.tpl")
	if err == nil {
		t.Fatal("Check found no problems")
	}

	if !errors.Is(err, ErrUnknownVariable) || !errors.Is(err, ErrReadFile) {
		t.Errorf("error = %v, want both ErrUnknownVariable and ErrReadFile", err)
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("error %T does not hold multiple errors", err)
	}

	var lines []int

	for _, e := range joined.Unwrap() {
		var lerr *Error
		if errors.As(e, &lerr) {
			pos, _ := lerr.Position()
			lines = append(lines, pos.Line)
		}
	}

	if diff := cmp.Diff([]int{3, 4}, lines); diff != "" {
		t.Errorf("problem lines (-want +got):\n%s", diff)
	}

	clean := mustParse(t, ":insert 'nav.html'\n:insert $self.title\n", WithFiles(files))

	if err := clean.Check(context.Background(), "templates/t.tpl"); err != nil {
		t.Errorf("Check on a valid template: %v", err)
	}
}
