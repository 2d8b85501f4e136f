package lang

import (
	"context"
	"io"
	"strings"
	"testing"
	"testing/fstest"
)

var benchSource = strings.Repeat(
	"+<div class=\"row\">\n"+
		":insert 'partials/nav.html'\n"+
		":insert $self.title\n"+
		":insert \"partials/a\\tb.html\"\n"+
		"+</div>\r\n",
	200,
)

func BenchmarkParseString(b *testing.B) {
	ctx := context.Background()

	b.SetBytes(int64(len(benchSource)))
	b.ReportAllocs()

	for b.Loop() {
		_, err := ParseString(ctx, benchSource)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScanPath(b *testing.B) {
	b.Run("view", func(b *testing.B) {
		b.ReportAllocs()

		for b.Loop() {
			_, _, _ = scanPath(`"partials/navigation.html"`)
		}
	})

	b.Run("owned", func(b *testing.B) {
		b.ReportAllocs()

		for b.Loop() {
			_, _, _ = scanPath(`"partials/a\tb.html"`)
		}
	})
}

func BenchmarkRender(b *testing.B) {
	files := FS{fstest.MapFS{
		"partials/nav.html":  {Data: []byte("<nav/>")},
		"partials/a\tb.html": {Data: []byte("<aside/>")},
	}}

	doc, err := ParseString(context.Background(), benchSource, WithFiles(files))
	if err != nil {
		b.Fatal(err)
	}

	page := Page{TemplatePath: "t.tpl", Title: "Benchmark"}

	b.ReportAllocs()

	for b.Loop() {
		err := doc.Render(context.Background(), io.Discard, page)
		if err != nil {
			b.Fatal(err)
		}
	}
}
