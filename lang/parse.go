package lang

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/readahead"

	"github.com/ardnew/plate/log"
)

// ParseReader parses a template from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Document, error) {
	// Read ahead asynchronously while the previous chunk is copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadFile.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseFile parses the template stored at path.
func ParseFile(ctx context.Context, path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadFile.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	doc, err := ParseReader(ctx, f, opts...)
	if err != nil {
		return nil, WrapError(err).With(slog.String("template", path))
	}

	return doc, nil
}

// ParseBytes parses a template from a byte slice.
// The slice is copied once; the returned Document does not reference it.
func ParseBytes(ctx context.Context, b []byte, opts ...Option) (*Document, error) {
	return ParseString(ctx, string(b), opts...)
}

// ParseString parses a template from a string.
//
// Raw lines and unescaped paths in the returned Document are views into s.
func ParseString(ctx context.Context, s string, opts ...Option) (*Document, error) {
	doc := &Document{opts: makeOptions(opts...)}

	p := &parser{
		src:    s,
		line:   1,
		logger: doc.opts.logger,
	}

	lines, err := p.parseDocument(ctx)
	if err != nil {
		p.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	doc.Lines = lines

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("line_count", len(lines)),
		slog.Int("source_bytes", len(s)),
	)

	return doc, nil
}

// parser holds the parser state.
type parser struct {
	src       string
	line      int // current 1-based line number
	lineStart int // byte offset of the current line
	logger    log.Logger
}

// position returns the position of rest, which must be a suffix of p.src.
func (p *parser) position(rest string) Position {
	off := len(p.src) - len(rest)

	return Position{
		Offset: off,
		Line:   p.line,
		Column: utf8.RuneCountInString(p.src[p.lineStart:off]) + 1,
	}
}

// fail locates err at rest.
func (p *parser) fail(err error, rest string) *Error {
	return WrapError(err).WithPosition(p.position(rest))
}

// parseDocument parses every line of the source. The whole input must be
// consumed.
func (p *parser) parseDocument(ctx context.Context) ([]Line, error) {
	lines := make([]Line, 0, strings.Count(p.src, "\n")+1)
	rest := p.src

	for rest != "" {
		line, after, err := p.parseLine(rest)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)

		p.logger.TraceContext(ctx, "parsed line",
			slog.Int("line", line.Pos.Line),
			slog.String("kind", line.Kind.String()),
		)

		next, ok := consumeLineEnd(after)
		if !ok {
			return nil, p.fail(ErrTrailingInput, after)
		}

		rest = next
		p.line++
		p.lineStart = len(p.src) - len(rest)
	}

	return lines, nil
}

// parseLine parses one line, not including its terminator.
func (p *parser) parseLine(s string) (Line, string, error) {
	pos := p.position(s)

	switch s[0] {
	case '+':
		text, rest := splitLine(s[1:])

		return Line{Kind: LineRaw, Raw: text, Pos: pos}, rest, nil

	case ':':
		// No fallback to a raw line once the prefix matched.
		cmd, rest, err := p.parseCommand(s[1:])
		if err != nil {
			return Line{}, s, err
		}

		return Line{Kind: LineCommand, Command: cmd, Pos: pos}, rest, nil

	default:
		r, _ := utf8.DecodeRuneInString(s)

		return Line{}, s, p.fail(ErrUnrecognizedLinePrefix, s).
			With(slog.String("prefix", string(r)))
	}
}

// parseCommand parses a directive following ':'.
func (p *parser) parseCommand(s string) (Command, string, error) {
	const keyword = "insert"

	switch word := s[:wordEnd(s)]; word {
	case keyword:
	case "":
		return Command{}, s, p.fail(ErrMalformedCommand, s).
			With(slog.String("expected", keyword))
	default:
		return Command{}, s, p.fail(ErrUnknownCommand, s).
			With(slog.String("command", word))
	}

	// The keyword matched: every failure from here on is final.
	rest := s[len(keyword):]

	blank := len(rest) - len(trimBlank(rest))
	if blank == 0 {
		return Command{}, rest, p.fail(ErrMalformedCommand, rest).
			With(slog.String("expected", "whitespace"))
	}

	target, rest, err := p.parseTarget(rest[blank:])
	if err != nil {
		return Command{}, rest, err
	}

	rest = trimBlank(rest)
	if rest != "" && !isLineEnd(rest) {
		return Command{}, rest, p.fail(ErrTrailingInput, rest)
	}

	return Command{Op: OpInsert, Target: target}, rest, nil
}

// parseTarget parses an insert operand: $var.path or a quoted path.
func (p *parser) parseTarget(s string) (Target, string, error) {
	if strings.HasPrefix(s, "$") {
		path, rest, err := scanVarPath(s[1:])
		if err != nil {
			return Target{}, rest, p.fail(err, rest)
		}

		return Target{Kind: TargetVar, Var: path}, rest, nil
	}

	text, rest, err := scanPath(s)
	if err == errNoMatch { //nolint:errorlint // sentinel identity
		return Target{}, s, p.fail(ErrMalformedCommand, s).
			With(slog.String("expected", "quoted path or $variable"))
	}

	if err != nil {
		return Target{}, rest, p.fail(err, rest)
	}

	kind := TargetPathRef
	if text.Owned() {
		kind = TargetPathOwned
	}

	return Target{Kind: kind, Path: text}, rest, nil
}

// splitLine splits s at the first line terminator. The terminator stays at
// the start of rest.
func splitLine(s string) (text, rest string) {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s, ""
	}

	if i > 0 && s[i-1] == '\r' {
		i--
	}

	return s[:i], s[i:]
}

// consumeLineEnd strips a leading "\n" or "\r\n". Empty input counts as the
// end of the final line.
func consumeLineEnd(s string) (string, bool) {
	switch {
	case s == "":
		return s, true
	case strings.HasPrefix(s, "\n"):
		return s[1:], true
	case strings.HasPrefix(s, "\r\n"):
		return s[2:], true
	default:
		return s, false
	}
}

// isLineEnd reports whether s starts with a line terminator.
func isLineEnd(s string) bool {
	return strings.HasPrefix(s, "\n") || strings.HasPrefix(s, "\r\n")
}

// trimBlank removes leading spaces and tabs.
func trimBlank(s string) string {
	return strings.TrimLeft(s, " \t")
}

// wordEnd returns the length of the leading run of non-blank, non-terminator
// bytes in s.
func wordEnd(s string) int {
	i := strings.IndexAny(s, " \t"+lineEnd)
	if i < 0 {
		return len(s)
	}

	return i
}
