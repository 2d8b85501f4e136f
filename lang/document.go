package lang

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Position locates a byte in template source.
type Position struct {
	Offset int // byte offset from the start of the source
	Line   int // 1-based line number
	Column int // 1-based byte column
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Text is a string taken from template source. It is either a view into the
// source buffer or an owned string produced by decoding escape sequences.
type Text struct {
	s     string
	owned bool
}

func viewText(s string) Text  { return Text{s: s} }
func ownedText(s string) Text { return Text{s: s, owned: true} }

// String returns the text content.
func (t Text) String() string { return t.s }

// Len returns the length of the text in bytes.
func (t Text) Len() int { return len(t.s) }

// Owned reports whether the text was decoded into its own buffer rather
// than sliced from the source.
func (t Text) Owned() bool { return t.owned }

// VarPath is a dotted chain of identifiers such as self.title.
// A parsed VarPath always has at least one identifier.
type VarPath []string

// String joins the identifiers with '.'.
func (v VarPath) String() string { return strings.Join(v, ".") }

// TargetKind identifies the variant held by a [Target].
type TargetKind uint8

const (
	// TargetPathRef is a file path sliced from the source text.
	TargetPathRef TargetKind = iota
	// TargetPathOwned is a file path decoded from a double-quoted string
	// containing escape sequences.
	TargetPathOwned
	// TargetVar is a variable path resolved against the page.
	TargetVar
)

// String returns a string representation of the target kind.
func (k TargetKind) String() string {
	switch k {
	case TargetPathRef:
		return "PathRef"
	case TargetPathOwned:
		return "PathOwned"
	case TargetVar:
		return "Var"
	default:
		return "Unknown"
	}
}

// Target is the operand of an insert directive.
type Target struct {
	Kind TargetKind
	Path Text    // TargetPathRef, TargetPathOwned
	Var  VarPath // TargetVar
}

// IsPath reports whether t refers to a file.
func (t Target) IsPath() bool {
	return t.Kind == TargetPathRef || t.Kind == TargetPathOwned
}

// Equal reports whether t and o refer to the same file or variable.
// Whether a path is a view or owned does not matter.
func (t Target) Equal(o Target) bool {
	if t.IsPath() || o.IsPath() {
		return t.IsPath() && o.IsPath() && t.Path.String() == o.Path.String()
	}

	return t.Kind == o.Kind && slices.Equal(t.Var, o.Var)
}

// Op identifies a directive.
type Op uint8

const (
	// OpInsert emits a file's contents or a variable's value.
	OpInsert Op = iota
)

// String returns the directive keyword.
func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Command is a parsed directive.
type Command struct {
	Op     Op
	Target Target
}

// LineKind identifies the variant held by a [Line].
type LineKind uint8

const (
	// LineRaw is a literal line emitted verbatim.
	LineRaw LineKind = iota
	// LineCommand is a directive.
	LineCommand
)

// String returns a string representation of the line kind.
func (k LineKind) String() string {
	switch k {
	case LineRaw:
		return "Raw"
	case LineCommand:
		return "Command"
	default:
		return "Unknown"
	}
}

// Line is one parsed template line.
type Line struct {
	Kind    LineKind
	Raw     string  // LineRaw, without the line terminator
	Command Command // LineCommand
	Pos     Position
}

// Equal reports whether l and o have the same meaning. Positions are
// ignored.
func (l Line) Equal(o Line) bool {
	if l.Kind != o.Kind {
		return false
	}

	switch l.Kind {
	case LineRaw:
		return l.Raw == o.Raw
	case LineCommand:
		return l.Command.Op == o.Command.Op &&
			l.Command.Target.Equal(o.Command.Target)
	default:
		return false
	}
}

// Document is a parsed template: an ordered sequence of lines.
//
// A Document is never modified after parsing, so one Document may be
// rendered for many pages concurrently.
type Document struct {
	Lines []Line
	opts  options
}

// Len returns the number of lines.
func (d *Document) Len() int { return len(d.Lines) }

// All returns an iterator over the lines in document order.
func (d *Document) All() iter.Seq2[int, Line] {
	return func(yield func(int, Line) bool) {
		for i, line := range d.Lines {
			if !yield(i, line) {
				return
			}
		}
	}
}

// Equal reports whether d and o contain equal lines in the same order.
func (d *Document) Equal(o *Document) bool {
	return slices.EqualFunc(d.Lines, o.Lines, Line.Equal)
}

// Paths returns the file paths inserted by d, in document order, without
// duplicates.
func (d *Document) Paths() []string {
	var paths []string

	for _, line := range d.Lines {
		if line.Kind != LineCommand || !line.Command.Target.IsPath() {
			continue
		}

		p := line.Command.Target.Path.String()
		if !slices.Contains(paths, p) {
			paths = append(paths, p)
		}
	}

	return paths
}
