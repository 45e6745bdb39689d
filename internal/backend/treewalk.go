package backend

import (
	"context"
	"fmt"

	"github.com/ddfreyne/clarke/internal/evaluator"
	"github.com/ddfreyne/clarke/internal/pipeline"
)

// TreeWalkBackend runs programs with the tree-walking evaluator.
type TreeWalkBackend struct{}

func NewTreeWalk() *TreeWalkBackend {
	return &TreeWalkBackend{}
}

func (b *TreeWalkBackend) Run(ctx context.Context, pctx *pipeline.PipelineContext) (evaluator.Object, error) {
	if pctx.AstRoot == nil {
		return nil, fmt.Errorf("no AST to execute")
	}
	if len(pctx.Errors) > 0 {
		return nil, pctx.Errors[0]
	}

	prelude := pctx.Prelude
	if prelude == nil {
		return nil, fmt.Errorf("program was not analyzed")
	}

	eval := evaluator.New()
	if pctx.Output != nil {
		eval.Out = pctx.Output
	}
	if pctx.Config != nil {
		eval.MaxCallDepth = pctx.Config.MaxCallDepth
	}
	eval.Context = ctx

	return eval.Run(pctx.AstRoot, prelude)
}

func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}

// compile-time check
var _ Backend = (*TreeWalkBackend)(nil)
