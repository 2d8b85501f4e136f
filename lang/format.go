package lang

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the canonical source form of d to w. Parsing the output
// yields a Document that is [Document.Equal] to d.
func (d *Document) Format(w io.Writer) error {
	var buf bytes.Buffer

	for _, line := range d.Lines {
		buf.WriteString(line.String())

		// "\r\n" keeps a trailing '\r' in raw text from being read as part
		// of the terminator.
		if line.Kind == LineRaw && strings.HasSuffix(line.Raw, "\r") {
			buf.WriteString("\r\n")
		} else {
			buf.WriteByte('\n')
		}
	}

	_, err := w.Write(buf.Bytes())
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// String returns the canonical source form of d.
func (d *Document) String() string {
	var sb strings.Builder

	_ = d.Format(&sb)

	return sb.String()
}

// String returns the canonical source form of l without a terminator.
func (l Line) String() string {
	switch l.Kind {
	case LineRaw:
		return "+" + l.Raw
	case LineCommand:
		return ":" + l.Command.String()
	default:
		return ""
	}
}

// String returns the canonical source form of c.
func (c Command) String() string {
	return c.Op.String() + " " + c.Target.String()
}

// String returns the canonical source form of t.
func (t Target) String() string {
	if t.Kind == TargetVar {
		return "$" + t.Var.String()
	}

	return QuotePath(t.Path.String())
}

// QuotePath returns s as a path literal. Paths are single-quoted unless
// they contain a single quote or a line terminator character, in which case
// they are double-quoted with escapes.
func QuotePath(s string) string {
	if !strings.ContainsAny(s, "'"+lineEnd) {
		return "'" + s + "'"
	}

	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for i := range len(s) {
		switch c := s[i]; c {
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteByte(c)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

// lineRecord is the structured form of a Line used by FormatJSON and
// FormatYAML.
type lineRecord struct {
	Line    int      `json:"line"              yaml:"line"`
	Kind    string   `json:"kind"              yaml:"kind"`
	Text    *string  `json:"text,omitempty"    yaml:"text,omitempty"`
	Command string   `json:"command,omitempty" yaml:"command,omitempty"`
	Target  string   `json:"target,omitempty"  yaml:"target,omitempty"`
	Path    *string  `json:"path,omitempty"    yaml:"path,omitempty"`
	Var     []string `json:"var,omitempty"     yaml:"var,omitempty"`
}

func (d *Document) records() []lineRecord {
	recs := make([]lineRecord, 0, len(d.Lines))

	for _, line := range d.Lines {
		rec := lineRecord{
			Line: line.Pos.Line,
			Kind: line.Kind.String(),
		}

		switch line.Kind {
		case LineRaw:
			text := line.Raw
			rec.Text = &text

		case LineCommand:
			t := line.Command.Target
			rec.Command = line.Command.Op.String()
			rec.Target = t.Kind.String()

			if t.IsPath() {
				p := t.Path.String()
				rec.Path = &p
			} else {
				rec.Var = t.Var
			}
		}

		recs = append(recs, rec)
	}

	return recs
}

// FormatJSON writes d to w as a JSON array of line records.
func (d *Document) FormatJSON(w io.Writer, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", strings.Repeat(" ", indent))

	err := enc.Encode(d.records())
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// FormatYAML writes d to w as a YAML sequence of line records.
func (d *Document) FormatYAML(w io.Writer, indent int) error {
	if indent <= 0 {
		indent = 2
	}

	data, err := yaml.MarshalWithOptions(d.records(), yaml.Indent(indent))
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	_, err = w.Write(data)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
