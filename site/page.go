package site

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/plate/lang"
)

const frontMatterDelim = "---"

// frontMatter is the YAML header of a content file.
type frontMatter struct {
	Title string `yaml:"title"`
}

// ParsePage builds the page for the content file at contentPath with the
// given data. The template path is filled in by the caller.
func ParsePage(contentPath string, data []byte) (lang.Page, error) {
	page := lang.Page{ContentPath: contentPath}

	meta, body, ok := splitFrontMatter(data)
	if ok {
		var fm frontMatter

		err := yaml.Unmarshal(meta, &fm)
		if err != nil {
			return page, ErrFrontMatter.Wrap(err).
				With(slog.String("content", contentPath))
		}

		page.Title = fm.Title
	}

	if page.Title == "" {
		base := filepath.Base(contentPath)
		page.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	page.Content = string(trimLineEnd(body))

	return page, nil
}

// splitFrontMatter separates a leading "---" delimited block from the rest
// of data. ok is false, and body is data, when there is no complete block.
func splitFrontMatter(data []byte) (meta, body []byte, ok bool) {
	first, rest, found := cutLine(data)
	if !found || string(first) != frontMatterDelim {
		return nil, data, false
	}

	start := len(data) - len(rest)

	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		if string(line) == frontMatterDelim {
			end := len(data) - len(rest)

			return data[start:end], next, true
		}

		rest = next
	}

	return nil, data, false
}

// cutLine splits data after the first line terminator. line excludes the
// terminator; found reports whether one was present.
func cutLine(data []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(data, []byte("\n"))

	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}

// trimLineEnd removes one trailing line terminator. Rendering ends every
// inserted value with a newline of its own.
func trimLineEnd(b []byte) []byte {
	if b, ok := bytes.CutSuffix(b, []byte("\n")); ok {
		return bytes.TrimSuffix(b, []byte("\r"))
	}

	return b
}
