package backend

import (
	"bytes"
	"context"
	"testing"

	"github.com/ddfreyne/clarke/internal/analyzer"
	"github.com/ddfreyne/clarke/internal/diagnostics"
	"github.com/ddfreyne/clarke/internal/lexer"
	"github.com/ddfreyne/clarke/internal/parser"
	"github.com/ddfreyne/clarke/internal/pipeline"
)

func runSource(t *testing.T, src string, exec *ExecutionProcessor) (*pipeline.PipelineContext, string) {
	t.Helper()
	var out bytes.Buffer
	ctx := pipeline.NewPipelineContext(src)
	ctx.Output = &out
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		exec,
	).Run(ctx)
	return ctx, out.String()
}

func TestExecutionProcessor(t *testing.T) {
	ctx, out := runSource(t, "print(\"a\")\n1 + 1", NewExecutionProcessor(NewTreeWalk()))
	if ctx.Failed() {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	if out != "a\n" {
		t.Errorf("output = %q", out)
	}
	if ctx.Result == nil || ctx.Result.Inspect() != "2" {
		t.Errorf("result = %v, want 2", ctx.Result)
	}
}

func TestExecutionSkippedAfterStaticError(t *testing.T) {
	ctx, out := runSource(t, "print(\"never\")\nundefined", NewExecutionProcessor(NewTreeWalk()))
	if len(ctx.Errors) != 1 || ctx.Errors[0].Code != diagnostics.NameError {
		t.Fatalf("errors = %v, want one NameError", ctx.Errors)
	}
	if out != "" {
		t.Errorf("program ran despite the error; output %q", out)
	}
}

func TestRuntimeErrorRecorded(t *testing.T) {
	ctx, _ := runSource(t, "1 / 0", NewExecutionProcessor(NewTreeWalk()))
	if len(ctx.Errors) != 1 || ctx.Errors[0].Code != diagnostics.ArithmeticError {
		t.Fatalf("errors = %v, want one ArithmeticError", ctx.Errors)
	}
	if ctx.Errors[0].Span.IsZero() {
		t.Errorf("runtime error lost its span")
	}
}

func TestCancelledRun(t *testing.T) {
	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := NewExecutionProcessor(NewTreeWalk())
	exec.Context = cctx

	ctx, _ := runSource(t, "fun f() { 1 }\nf()", exec)
	if len(ctx.Errors) != 1 || ctx.Errors[0].Code != diagnostics.RuntimeError {
		t.Fatalf("errors = %v, want one RuntimeError", ctx.Errors)
	}
	if want := "tree-walk: context canceled"; ctx.Errors[0].Message != want {
		t.Errorf("message = %q, want %q", ctx.Errors[0].Message, want)
	}
}
