package analyzer

import (
	"github.com/ddfreyne/clarke/internal/diagnostics"
	"github.com/ddfreyne/clarke/internal/pipeline"
	"github.com/ddfreyne/clarke/internal/symbols"
	"github.com/ddfreyne/clarke/internal/token"
)

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() || ctx.AstRoot == nil {
		return ctx
	}
	if ctx.Prelude == nil {
		ctx.Prelude = symbols.NewPrelude()
	}
	if err := Analyze(ctx.AstRoot, ctx.Prelude); err != nil {
		ctx.AddError(diagnostics.Wrap(err, token.Span{}))
	}
	return ctx
}
