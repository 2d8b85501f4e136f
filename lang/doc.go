// Package lang implements the plate template language: a line-oriented text
// format that mixes literal output lines with directives inserting file
// contents or page variables.
//
// # Grammar
//
// Informal EBNF:
//
//	Document   → (Line Terminator)* Line?
//	Terminator → "\n" | "\r\n"
//	Line       → '+' Text | ':' Command
//	Command    → "insert" Blank+ Target Blank*
//	Target     → '$' VarPath | Path
//	VarPath    → Ident ('.' Ident)*
//	Ident      → <one or more bytes other than '.', ' ', '\r', '\n'>
//	Path       → "'" <bytes other than "'", '\r', '\n'> "'"
//	           | '"' (<bytes other than '"', '\', '\r', '\n'> | Escape)* '"'
//	Escape     → '\' ('n' | 't' | 'r' | '\' | "'" | '"')
//	Blank      → ' ' | '\t'
//
// Any line that starts with something other than '+' or ':' is a syntax
// error, including an empty line.
//
// # Example
//
//	+<html><head><title>
//	:insert $self.title
//	+</title></head><body>
//	:insert "partials/nav.html"
//	:insert $self.content
//	+</body></html>
//
// # Paths
//
// Single-quoted paths are literal. Double-quoted paths without a backslash
// are returned as views into the source text with no allocation; only a
// double-quoted path that contains an escape sequence is decoded into a new
// buffer. Both kinds are exposed through [Text], so consumers never branch on
// which one they hold.
//
// Insert paths are resolved relative to the directory containing the
// template file, not the content file.
//
// # Variables
//
// Two variables are defined: $self.content (the content file's text) and
// $self.title (the page title). Any other variable fails rendering with
// [ErrUnknownVariable].
//
// # Errors
//
// Parsing and rendering stop at the first error. Use [errors.Is] with the
// sentinel values ([ErrSyntax], [ErrInvalidEscape], [ErrUnknownVariable],
// [ErrReadFile], ...) to classify failures.
package lang
