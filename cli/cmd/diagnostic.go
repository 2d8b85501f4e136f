package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/plate/lang"
)

var (
	diagLocation = lipgloss.NewStyle().Bold(true)
	diagError    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	diagGutter   = lipgloss.NewStyle().Faint(true)
	diagCaret    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	diagOK       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

const gutterWidth = 4

// writeDiagnostic prints err, found in the template src named name, as a
// located message followed by the offending line and a caret:
//
//	page.tpl:2:9: error: malformed command
//	   2 | :insert nav.html
//	     |         ^
func writeDiagnostic(w io.Writer, name, src string, err error) {
	var lerr *lang.Error
	if !errors.As(err, &lerr) {
		fmt.Fprintf(w, "%s: %s %v\n", diagLocation.Render(name), diagError.Render("error:"), err)

		return
	}

	pos, ok := lerr.Position()
	if !ok {
		fmt.Fprintf(w, "%s: %s %s\n",
			diagLocation.Render(name), diagError.Render("error:"), lerr.Message())

		return
	}

	fmt.Fprintf(w, "%s: %s %s\n",
		diagLocation.Render(fmt.Sprintf("%s:%d:%d", name, pos.Line, pos.Column)),
		diagError.Render("error:"),
		lerr.Message(),
	)

	line := sourceLine(src, pos.Line)

	fmt.Fprintf(w, "%s%s\n",
		diagGutter.Render(fmt.Sprintf("%*d | ", gutterWidth, pos.Line)), line)
	fmt.Fprintf(w, "%s%s%s\n",
		diagGutter.Render(strings.Repeat(" ", gutterWidth)+" | "),
		caretIndent(line, pos.Column),
		diagCaret.Render("^"),
	)
}

// sourceLine returns the 1-based line n of src without its terminator.
func sourceLine(src string, n int) string {
	for i := 1; ; i++ {
		line, rest, found := strings.Cut(src, "\n")
		if i == n {
			return strings.TrimSuffix(line, "\r")
		}

		if !found {
			return ""
		}

		src = rest
	}
}

// caretIndent returns the padding that puts a caret under column col of
// line. Tabs are kept so the caret lines up however they are displayed.
func caretIndent(line string, col int) string {
	var sb strings.Builder

	for i, r := range []rune(line) {
		if i >= col-1 {
			break
		}

		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
	}

	if n := col - 1 - len([]rune(line)); n > 0 {
		sb.WriteString(strings.Repeat(" ", n))
	}

	return sb.String()
}
