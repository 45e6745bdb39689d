package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// Processor is one stage of the pipeline. Stages skip their work when an
// earlier stage recorded an error.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor

	// OnStage, if set, is called after each stage with the stage name and
	// how long it took.
	OnStage func(stage string, elapsed time.Duration)
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		start := time.Now()
		ctx = processor.Process(ctx)
		if p.OnStage != nil {
			p.OnStage(StageName(processor), time.Since(start))
		}
	}
	return ctx
}

// StageName is the processor's type name without package or pointer.
func StageName(p Processor) string {
	name := fmt.Sprintf("%T", p)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
