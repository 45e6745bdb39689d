// Package backend runs analyzed programs. The pipeline talks to a Backend
// so the CLI and the gRPC service share one way of executing code.
package backend

import (
	"context"

	"github.com/ddfreyne/clarke/internal/evaluator"
	"github.com/ddfreyne/clarke/internal/pipeline"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run executes the program from pipeline context and returns the value
	// of its last top-level expression.
	Run(ctx context.Context, pctx *pipeline.PipelineContext) (evaluator.Object, error)

	// Name returns the backend name for display
	Name() string
}
