package diagnostics

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/ddfreyne/clarke/internal/config"
	"github.com/ddfreyne/clarke/internal/token"
)

func span(line, startCol, endCol int) token.Span {
	return token.Span{
		Start: token.Position{Line: line, Column: startCol},
		End:   token.Position{Line: line, Column: endCol},
	}
}

func TestRender(t *testing.T) {
	source := "let a = 1\nlet b = a + c\n"

	tests := []struct {
		name  string
		err   *Error
		color bool
		want  string
	}{
		{
			name: "underline",
			err:  NewError(NameError, span(2, 13, 14), "c: no such name"),
			want: "line 2: c: no such name\n\nlet b = a + c\n            ~",
		},
		{
			name: "wide span",
			err:  NewError(TypeError, span(2, 9, 14), "expected int, but got string"),
			want: "line 2: expected int, but got string\n\nlet b = a + c\n        ~~~~~",
		},
		{
			name:  "colored",
			err:   NewError(NameError, span(1, 5, 6), "a: already defined"),
			color: true,
			want:  "line 1: a: already defined\n\nlet a = 1\n    \033[31m~\033[0m",
		},
		{
			name: "no span",
			err:  NewError(RecursionError, token.Span{}, "maximum call depth exceeded"),
			want: "maximum call depth exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Render(source, tt.color)
			if got != tt.want {
				t.Errorf("Render() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

type codedErr struct{ name string }

func (e *codedErr) Error() string { return e.name + ": no such name" }
func (e *codedErr) Code() string  { return "NameError" }

func TestWrap(t *testing.T) {
	s := span(3, 1, 4)

	wrapped := Wrap(&codedErr{name: "foo"}, s)
	if wrapped.Code != NameError {
		t.Errorf("Code = %s, want %s", wrapped.Code, NameError)
	}
	if wrapped.Span != s {
		t.Errorf("Span = %v, want %v", wrapped.Span, s)
	}
	if wrapped.Message != "foo: no such name" {
		t.Errorf("Message = %q", wrapped.Message)
	}

	orig := NewError(TypeError, span(1, 1, 2), "x")
	if got := Wrap(fmt.Errorf("ctx: %w", orig), s); got != orig {
		t.Errorf("Wrap() should return the existing diagnostic")
	}

	if Wrap(nil, s) != nil {
		t.Errorf("Wrap(nil) should be nil")
	}
}

func TestWrapPanicsOnPlainError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic")
		}
	}()
	Wrap(errors.New("plain"), token.Span{})
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(NewError(NotCallable, token.Span{}, "x")); got != NotCallable {
		t.Errorf("CodeOf = %s", got)
	}
	if got := CodeOf(&codedErr{}); got != NameError {
		t.Errorf("CodeOf = %s", got)
	}
	if got := CodeOf(errors.New("x")); got != "" {
		t.Errorf("CodeOf = %s, want empty", got)
	}
}

func TestColorEnabled(t *testing.T) {
	if !ColorEnabled(config.ColorAlways, os.Stderr) {
		t.Errorf("always should enable color")
	}
	if ColorEnabled(config.ColorNever, os.Stderr) {
		t.Errorf("never should disable color")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if ColorEnabled(config.ColorAuto, f) {
		t.Errorf("auto should not color a regular file")
	}
}
