package analyzer

import (
	"fmt"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/diagnostics"
	"github.com/ddfreyne/clarke/internal/symbols"
)

// Verify checks that every node ended up with a concrete type. A missing
// scope or type is a bug in an earlier pass; an auto type left over is the
// user's (e.g. a property that is never set nor annotated).
func Verify(prog *ast.Program, prelude *symbols.Prelude) error {
	var err error
	ast.Inspect(prog, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		meta := n.Meta()
		if meta.Scope == nil {
			panic(fmt.Sprintf("internal error: %s at %s has no scope", ast.KindOf(n), meta.Span))
		}
		if meta.Type == nil {
			panic(fmt.Sprintf("internal error: %s at %s has no type", ast.KindOf(n), meta.Span))
		}
		if meta.Type == symbols.Type(prelude.Auto) {
			err = diagnostics.NewError(diagnostics.UntypedError, meta.Span, "%s", untypedMessage(n))
			return false
		}
		if fn, ok := meta.Type.(*symbols.Function); ok {
			if _, resolved := fn.ReturnType(); !resolved {
				panic(fmt.Sprintf("internal error: %s has an unresolved return type", fn.Name()))
			}
		}
		return true
	})
	return err
}

func untypedMessage(n ast.Node) string {
	switch n := n.(type) {
	case *ast.PropDecl:
		return fmt.Sprintf("%s: cannot infer the property type; annotate it or set it", n.Name)
	default:
		return "cannot infer the type of this expression"
	}
}
