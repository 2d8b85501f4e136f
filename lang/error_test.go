package lang

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"testing"
)

func TestError_Is(t *testing.T) {
	syntax := []*Error{
		ErrUnrecognizedLinePrefix,
		ErrUnknownCommand,
		ErrMalformedCommand,
		ErrUnterminatedString,
		ErrEmptyIdentifier,
		ErrTrailingInput,
		ErrInvalidEscape,
	}

	for _, kind := range syntax {
		t.Run(kind.Error(), func(t *testing.T) {
			err := kind.With(slog.String("k", "v")).WithPosition(Position{Line: 3, Column: 4})

			if !errors.Is(err, kind) {
				t.Error("derived error does not match its kind")
			}

			if !errors.Is(err, ErrSyntax) {
				t.Error("derived error does not match ErrSyntax")
			}

			if errors.Is(err, ErrReadFile) || errors.Is(err, ErrUnknownVariable) {
				t.Error("syntax error matched an unrelated kind")
			}

			for _, other := range syntax {
				if other != kind && errors.Is(err, other) {
					t.Errorf("matched sibling %q", other)
				}
			}
		})
	}

	if errors.Is(ErrSyntax, ErrMalformedCommand) {
		t.Error("category matched a specific kind")
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sentinel", ErrSyntax, "syntax error"},
		{"wrapped", ErrReadFile.Wrap(fs.ErrNotExist), "failed to read file: file does not exist"},
		{
			"positioned",
			ErrTrailingInput.WithPosition(Position{Line: 2, Column: 7}),
			"line 2, column 7: unexpected trailing input",
		},
		{"plain wrap", WrapError(errors.New("boom")), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Immutable(t *testing.T) {
	base := ErrUnknownVariable.With(slog.String("a", "1"))
	_ = base.With(slog.String("b", "2"))
	_ = base.WithPosition(Position{Line: 9})

	if _, ok := base.Position(); ok {
		t.Error("WithPosition modified its receiver")
	}

	if len(base.attrs) != 1 {
		t.Errorf("With modified its receiver: %v", base.attrs)
	}

	if _, ok := ErrUnknownVariable.Position(); ok || len(ErrUnknownVariable.attrs) != 0 {
		t.Error("sentinel was modified")
	}
}

func TestWrapError(t *testing.T) {
	inner := ErrMalformedCommand.WithPosition(Position{Line: 1, Column: 2})
	outer := fmt.Errorf("context: %w", inner)

	if got := WrapError(outer); got != inner {
		t.Errorf("WrapError did not find the *Error in the chain")
	}

	plain := errors.New("plain")
	if got := WrapError(plain); !errors.Is(got, plain) {
		t.Errorf("WrapError(plain) does not unwrap to plain")
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrReadFile.Wrap(fs.ErrNotExist).
		WithPosition(Position{Line: 4, Column: 1}).
		With(slog.String("path", "nav.html"))

	var sb strings.Builder

	logger := slog.New(slog.NewTextHandler(&sb, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	}))
	logger.Error("render failed", slog.Any("err", err))

	for _, want := range []string{
		`err.error="failed to read file"`,
		`err.cause="file does not exist"`,
		"err.line=4",
		"err.column=1",
		"err.path=nav.html",
	} {
		if !strings.Contains(sb.String(), want) {
			t.Errorf("log output %q does not contain %q", sb.String(), want)
		}
	}
}

func TestError_MessageOmitsPosition(t *testing.T) {
	err := ErrMalformedCommand.Wrap(errors.New("expected whitespace")).
		WithPosition(Position{Line: 5, Column: 8})

	if got, want := err.Message(), "malformed command: expected whitespace"; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}

	if !strings.HasSuffix(err.Error(), err.Message()) {
		t.Errorf("Error() %q does not end with Message()", err.Error())
	}
}
