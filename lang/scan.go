package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// errNoMatch is returned by a scanner whose opening delimiter or fast-path
// precondition does not hold, so the next alternative may be tried.
var errNoMatch = errors.New("no match")

// Character sets that end a scan.
const (
	lineEnd         = "\r\n"
	singleQuoteStop = "'" + lineEnd
	doubleQuoteStop = `"\` + lineEnd
	identStop       = ". " + lineEnd
)

// decodeEscape maps the code following a backslash to the byte it denotes.
func decodeEscape(code byte) (byte, error) {
	switch code {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '\\':
		return '\\', nil
	case '\'':
		return '\'', nil
	case '"':
		return '"', nil
	}

	return 0, ErrInvalidEscape.
		With(slog.String("code", strconv.QuoteRune(rune(code))))
}

// scanSingleQuoted scans the body of a single-quoted string; s starts just
// after the opening quote. Nothing inside is escaped.
func scanSingleQuoted(s string) (content, rest string, err error) {
	i := strings.IndexAny(s, singleQuoteStop)
	if i < 0 || s[i] != '\'' {
		return "", s, ErrUnterminatedString
	}

	return s[:i], s[i+1:], nil
}

// scanDoubleUnescaped scans the body of a double-quoted string that contains
// no backslash; s starts just after the opening quote. It returns
// errNoMatch if a backslash appears before the closing quote.
func scanDoubleUnescaped(s string) (content, rest string, err error) {
	i := strings.IndexAny(s, doubleQuoteStop)
	if i < 0 {
		return "", s, ErrUnterminatedString
	}

	switch s[i] {
	case '"':
		return s[:i], s[i+1:], nil
	case '\\':
		return "", s, errNoMatch
	default:
		return "", s, ErrUnterminatedString
	}
}

// scanEscaped decodes s up to (not including) the first unescaped '"', line
// terminator or end of input into a new string. Empty input is accepted.
func scanEscaped(s string) (decoded, rest string, err error) {
	var b strings.Builder

	for s != "" {
		i := strings.IndexAny(s, doubleQuoteStop)
		if i < 0 {
			b.WriteString(s)
			s = ""

			break
		}

		b.WriteString(s[:i])
		s = s[i:]

		if s[0] != '\\' {
			break
		}

		if len(s) < 2 || strings.IndexByte(lineEnd, s[1]) >= 0 {
			return "", s, ErrUnterminatedString
		}

		c, err := decodeEscape(s[1])
		if err != nil {
			return "", s, err
		}

		b.WriteByte(c)
		s = s[2:]
	}

	return b.String(), s, nil
}

// pathScanner is one alternative of the path parser.
type pathScanner func(s string) (Text, string, error)

// pathScanners are tried in order; the first that does not return
// errNoMatch decides the result. The zero-copy forms come first so a path
// is only decoded into a new buffer when it has to be.
var pathScanners = [...]pathScanner{
	scanLiteralPath,
	scanQuotedPath,
	scanEscapedPath,
}

// scanPath parses a quoted path at the start of s.
func scanPath(s string) (Text, string, error) {
	for _, scan := range pathScanners {
		t, rest, err := scan(s)
		if err == errNoMatch { //nolint:errorlint // sentinel identity
			continue
		}

		return t, rest, err
	}

	return Text{}, s, errNoMatch
}

func scanLiteralPath(s string) (Text, string, error) {
	if !strings.HasPrefix(s, "'") {
		return Text{}, s, errNoMatch
	}

	content, rest, err := scanSingleQuoted(s[1:])
	if err != nil {
		return Text{}, s, err
	}

	return viewText(content), rest, nil
}

func scanQuotedPath(s string) (Text, string, error) {
	if !strings.HasPrefix(s, `"`) {
		return Text{}, s, errNoMatch
	}

	content, rest, err := scanDoubleUnescaped(s[1:])
	if err != nil {
		return Text{}, s, err
	}

	return viewText(content), rest, nil
}

func scanEscapedPath(s string) (Text, string, error) {
	if !strings.HasPrefix(s, `"`) {
		return Text{}, s, errNoMatch
	}

	decoded, rest, err := scanEscaped(s[1:])
	if err != nil {
		return Text{}, rest, err
	}

	if !strings.HasPrefix(rest, `"`) {
		return Text{}, rest, ErrUnterminatedString
	}

	return ownedText(decoded), rest[1:], nil
}

// scanVarPath parses a dotted identifier chain at the start of s; the '$'
// has already been consumed.
func scanVarPath(s string) (VarPath, string, error) {
	var path VarPath

	for {
		i := strings.IndexAny(s, identStop)
		if i < 0 {
			i = len(s)
		}

		if i == 0 {
			return nil, s, ErrEmptyIdentifier
		}

		path = append(path, s[:i])
		s = s[i:]

		if !strings.HasPrefix(s, ".") {
			return path, s, nil
		}

		s = s[1:]
	}
}
