package lang

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
)

func raw(s string) Line { return Line{Kind: LineRaw, Raw: s} }

func insertPath(p string) Line {
	return Line{
		Kind:    LineCommand,
		Command: Command{Op: OpInsert, Target: Target{Kind: TargetPathRef, Path: viewText(p)}},
	}
}

func insertVar(ids ...string) Line {
	return Line{
		Kind:    LineCommand,
		Command: Command{Op: OpInsert, Target: Target{Kind: TargetVar, Var: ids}},
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Line
	}{
		{"empty", "", []Line{}},
		{"raw", "+hello\n", []Line{raw("hello")}},
		{"raw without terminator", "+hello", []Line{raw("hello")}},
		{"empty raw", "+\n+\n", []Line{raw(""), raw("")}},
		{"raw keeps prefix characters", "+:insert 'x'\n", []Line{raw(":insert 'x'")}},
		{"crlf", "+a\r\n+b\r\n", []Line{raw("a"), raw("b")}},
		{"mixed terminators", "+a\r\n+b\n+c", []Line{raw("a"), raw("b"), raw("c")}},
		{"lone carriage return is text", "+a\rb\n", []Line{raw("a\rb")}},
		{"carriage return before crlf", "+a\r\r\n", []Line{raw("a\r")}},
		{"var", ":insert $self.title\n", []Line{insertVar("self", "title")}},
		{"var without terminator", ":insert $self.content", []Line{insertVar("self", "content")}},
		{"single quoted", ":insert 'nav.html'\n", []Line{insertPath("nav.html")}},
		{"double quoted", `:insert "nav.html"` + "\n", []Line{insertPath("nav.html")}},
		{"tab separator", ":insert\t'nav.html'\n", []Line{insertPath("nav.html")}},
		{"trailing blanks", ":insert 'a.html' \t \n", []Line{insertPath("a.html")}},
		{"trailing blanks after var", ":insert $self.title  \r\n", []Line{insertVar("self", "title")}},
		{
			"escaped path",
			`:insert "a\r\".b\ntml"` + "\n",
			[]Line{{
				Kind: LineCommand,
				Command: Command{Op: OpInsert, Target: Target{
					Kind: TargetPathOwned,
					Path: ownedText("a\r\".b\ntml"),
				}},
			}},
		},
		{
			"template",
			"+<html>\n:insert 'head.html'\n+<body>\n:insert $self.content\n+</body>\n",
			[]Line{
				raw("<html>"),
				insertPath("head.html"),
				raw("<body>"),
				insertVar("self", "content"),
				raw("</body>"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q): %v", tt.input, err)
			}

			if diff := cmp.Diff(tt.want, doc.Lines); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseString_TargetKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  TargetKind
		owned bool
	}{
		{`:insert 'a\nb'`, TargetPathRef, false},
		{`:insert "plain"`, TargetPathRef, false},
		{`:insert "tab\there"`, TargetPathOwned, true},
		{`:insert $self.title`, TargetVar, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			doc, err := ParseString(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			target := doc.Lines[0].Command.Target
			if target.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", target.Kind, tt.kind)
			}

			if target.Path.Owned() != tt.owned {
				t.Errorf("owned = %v, want %v", target.Path.Owned(), tt.owned)
			}
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		line    int
		column  int
	}{
		{"bare text", "hello\n", ErrUnrecognizedLinePrefix, 1, 1},
		{"empty line", "+a\n\n+b\n", ErrUnrecognizedLinePrefix, 2, 1},
		{"leading space", " +a\n", ErrUnrecognizedLinePrefix, 1, 1},
		{"unknown command", ":bogus 'x'\n", ErrUnknownCommand, 1, 2},
		{"keyword prefix only", ":insertx 'x'\n", ErrUnknownCommand, 1, 2},
		{"space before keyword", ": insert 'x'\n", ErrMalformedCommand, 1, 2},
		{"bare colon", ":\n", ErrMalformedCommand, 1, 2},
		{"missing operand", ":insert\n", ErrMalformedCommand, 1, 8},
		{"missing operand at end", ":insert", ErrMalformedCommand, 1, 8},
		{"blank only operand", ":insert   \n", ErrMalformedCommand, 1, 11},
		{"unquoted path", ":insert nav.html\n", ErrMalformedCommand, 1, 9},
		{"unterminated single", ":insert 'nav.html\n", ErrUnterminatedString, 1, 9},
		{"unterminated double", `:insert "nav.html` + "\n", ErrUnterminatedString, 1, 9},
		{"invalid escape", `:insert "a\qb"`, ErrInvalidEscape, 1, 11},
		{"empty variable", ":insert $\n", ErrEmptyIdentifier, 1, 10},
		{"empty variable segment", ":insert $self.\n", ErrEmptyIdentifier, 1, 15},
		{"trailing word", ":insert 'a' b\n", ErrTrailingInput, 1, 13},
		{"trailing glued", ":insert 'a'b\n", ErrTrailingInput, 1, 12},
		{"error on later line", "+ok\n+ok\r\n:nope\n", ErrUnknownCommand, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(context.Background(), tt.input)
			if err == nil {
				t.Fatalf("ParseString(%q) = %v, want error", tt.input, doc.Lines)
			}

			if doc != nil {
				t.Error("failed parse returned a document")
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}

			if !errors.Is(err, ErrSyntax) {
				t.Errorf("error = %v, want it to match ErrSyntax", err)
			}

			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *Error", err)
			}

			pos, ok := perr.Position()
			if !ok {
				t.Fatal("syntax error has no position")
			}

			if pos.Line != tt.line || pos.Column != tt.column {
				t.Errorf("position = %v, want %d:%d", pos, tt.line, tt.column)
			}
		})
	}
}

func TestParseString_Positions(t *testing.T) {
	doc, err := ParseString(context.Background(), "+a\r\n:insert $x\n+ccc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Position{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 4, Line: 2, Column: 1},
		{Offset: 15, Line: 3, Column: 1},
	}

	for i, line := range doc.All() {
		if line.Pos != want[i] {
			t.Errorf("line %d position = %+v, want %+v", i, line.Pos, want[i])
		}
	}
}

func TestParseString_RawIsView(t *testing.T) {
	src := strings.Repeat("+some raw text\n", 4)

	doc, err := ParseString(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A view shares the backing array of the source.
	first := doc.Lines[0].Raw
	if first != "some raw text" {
		t.Fatalf("raw = %q", first)
	}

	if unsafe.StringData(first) != unsafe.StringData(src[1:]) {
		t.Errorf("raw %q does not slice the source", first)
	}
}

func TestParseReader(t *testing.T) {
	src := "+one\n:insert 'two.html'\n"

	doc, err := ParseReader(context.Background(), bytes.NewBufferString(src))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	want := []Line{raw("one"), insertPath("two.html")}
	if diff := cmp.Diff(want, doc.Lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBytes(t *testing.T) {
	b := []byte("+one\n")

	doc, err := ParseBytes(context.Background(), b)
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}

	// The document must not observe later changes to b.
	b[1] = 'X'

	if doc.Lines[0].Raw != "one" {
		t.Errorf("raw = %q, want %q", doc.Lines[0].Raw, "one")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "page.tpl")

	err := os.WriteFile(name, []byte("+x\n:insert $self.title\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := ParseFile(context.Background(), name)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if doc.Len() != 2 {
		t.Errorf("Len() = %d, want 2", doc.Len())
	}

	_, err = ParseFile(context.Background(), filepath.Join(dir, "missing.tpl"))
	if !errors.Is(err, ErrReadFile) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrReadFile wrapping ErrNotExist", err)
	}
}

func TestDocumentPaths(t *testing.T) {
	doc, err := ParseString(context.Background(),
		":insert 'a.html'\n+x\n:insert $self.title\n:insert \"b.html\"\n:insert 'a.html'\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"a.html", "b.html"}, doc.Paths()); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentAll_Break(t *testing.T) {
	doc, err := ParseString(context.Background(), "+a\n+b\n+c\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var seen int

	for i := range doc.All() {
		seen++

		if i == 1 {
			break
		}
	}

	if seen != 2 {
		t.Errorf("iterated %d lines, want 2", seen)
	}
}
