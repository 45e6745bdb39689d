package analyzer

import (
	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/symbols"
)

// Pass is one tree walk of the analysis.
type Pass func(prog *ast.Program, prelude *symbols.Prelude) error

// Passes lists the analysis walks in the order they must run.
var Passes = []Pass{
	CollectSymbols,
	ResolveExplicitTypes,
	ResolveImplicitTypes,
	Verify,
}

// Analyze runs all passes over prog, stopping at the first error. On
// success every node has a scope and a type.
func Analyze(prog *ast.Program, prelude *symbols.Prelude) error {
	for _, pass := range Passes {
		if err := pass(prog, prelude); err != nil {
			return err
		}
	}
	return nil
}
