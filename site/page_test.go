package site

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/plate/lang"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
		want lang.Page
	}{
		{
			"front matter",
			"content/about.md",
			"---\ntitle: About us\nauthor: someone\n---\n<p>about</p>\n",
			lang.Page{ContentPath: "content/about.md", Title: "About us", Content: "<p>about</p>"},
		},
		{
			"crlf front matter",
			"about.md",
			"---\r\ntitle: About\r\n---\r\nline one\r\nline two\r\n",
			lang.Page{ContentPath: "about.md", Title: "About", Content: "line one\r\nline two"},
		},
		{
			"no front matter",
			"posts/hello-world.txt",
			"hello\n",
			lang.Page{ContentPath: "posts/hello-world.txt", Title: "hello-world", Content: "hello"},
		},
		{
			"empty title falls back",
			"x/notes.md",
			"---\nauthor: me\n---\nbody",
			lang.Page{ContentPath: "x/notes.md", Title: "notes", Content: "body"},
		},
		{
			"unterminated front matter is content",
			"a.md",
			"---\ntitle: A\nbody\n",
			lang.Page{ContentPath: "a.md", Title: "a", Content: "---\ntitle: A\nbody"},
		},
		{
			"front matter only",
			"b.md",
			"---\ntitle: B\n---",
			lang.Page{ContentPath: "b.md", Title: "B", Content: ""},
		},
		{
			"only one newline trimmed",
			"c",
			"c\n\n",
			lang.Page{ContentPath: "c", Title: "c", Content: "c\n"},
		},
		{
			"empty file",
			"d.md",
			"",
			lang.Page{ContentPath: "d.md", Title: "d", Content: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePage(tt.path, []byte(tt.data))
			if err != nil {
				t.Fatalf("ParsePage: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("page mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsePage_InvalidFrontMatter(t *testing.T) {
	_, err := ParsePage("bad.md", []byte("---\ntitle: [unclosed\n---\nbody\n"))
	if !errors.Is(err, ErrFrontMatter) {
		t.Errorf("error = %v, want ErrFrontMatter", err)
	}
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name string
		data string
		meta string
		body string
		ok   bool
	}{
		{"block", "---\na: 1\n---\nrest", "a: 1\n", "rest", true},
		{"empty block", "---\n---\nrest", "", "rest", true},
		{"delimiter with text", "--- x\na: 1\n---\n", "", "--- x\na: 1\n---\n", false},
		{"not at start", "x\n---\na\n---\n", "", "x\n---\na\n---\n", false},
		{"lone delimiter", "---", "", "---", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, ok := splitFrontMatter([]byte(tt.data))

			if ok != tt.ok || string(meta) != tt.meta || string(body) != tt.body {
				t.Errorf("splitFrontMatter(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.data, meta, body, ok, tt.meta, tt.body, tt.ok)
			}
		})
	}
}
