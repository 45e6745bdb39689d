package parser

import (
	"github.com/ddfreyne/clarke/internal/diagnostics"
	"github.com/ddfreyne/clarke/internal/pipeline"
	"github.com/ddfreyne/clarke/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	if ctx.TokenStream == nil {
		ctx.AddError(diagnostics.NewError(diagnostics.SyntaxError, token.Span{}, "parser: token stream is nil"))
		return ctx
	}

	parser := New(ctx.TokenStream)
	program := parser.ParseProgram()
	program.File = ctx.FilePath

	for _, err := range parser.Errors() {
		ctx.AddError(err)
	}
	if !ctx.Failed() {
		ctx.AstRoot = program
	}
	return ctx
}
