package lexer

import "github.com/ddfreyne/clarke/internal/pipeline"

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	ctx.TokenStream = New(ctx.SourceCode).Tokenize()
	return ctx
}
