package backend

import (
	"context"

	"github.com/ddfreyne/clarke/internal/diagnostics"
	"github.com/ddfreyne/clarke/internal/pipeline"
	"github.com/ddfreyne/clarke/internal/token"
)

// ExecutionProcessor is the pipeline stage that runs a Backend.
type ExecutionProcessor struct {
	Backend Backend

	// Context is passed to the backend. nil means context.Background().
	Context context.Context
}

func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.Failed() {
		return ctx
	}

	runCtx := p.Context
	if runCtx == nil {
		runCtx = context.Background()
	}

	result, err := p.Backend.Run(runCtx, ctx)
	if err != nil {
		p.handleError(ctx, err)
		return ctx
	}
	ctx.Result = result
	return ctx
}

// handleError records err. Errors without a diagnostic code come from
// outside the program, such as cancellation.
func (p *ExecutionProcessor) handleError(ctx *pipeline.PipelineContext, err error) {
	if diagnostics.CodeOf(err) == "" {
		ctx.AddError(diagnostics.NewError(diagnostics.RuntimeError, token.Span{}, "%s: %v", p.Backend.Name(), err))
		return
	}
	ctx.AddError(diagnostics.Wrap(err, token.Span{}))
}
