package pipeline

import (
	"io"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/config"
	"github.com/ddfreyne/clarke/internal/diagnostics"
	"github.com/ddfreyne/clarke/internal/symbols"
	"github.com/ddfreyne/clarke/internal/token"
)

// Inspector is a runtime value as seen from outside the evaluator.
type Inspector interface {
	Inspect() string
}

// PipelineContext carries one source text through the stages.
type PipelineContext struct {
	SourceCode string
	FilePath   string
	Config     *config.Config

	// Output receives what the program prints.
	Output io.Writer

	TokenStream []token.Token
	AstRoot     *ast.Program
	Prelude     *symbols.Prelude

	// Result is the value of the last top-level expression.
	Result Inspector

	Errors []*diagnostics.Error
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		SourceCode: source,
		Config:     config.Default(),
		Output:     io.Discard,
	}
}

// Failed reports whether any stage recorded an error.
func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Errors) > 0
}

// AddError records err, filling in the file path.
func (ctx *PipelineContext) AddError(err *diagnostics.Error) {
	if err.File == "" {
		err.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, err)
}
