package prettyprinter

import (
	"strconv"

	"github.com/ddfreyne/clarke/internal/analyzer"
	"github.com/ddfreyne/clarke/internal/ast"
	"gopkg.in/yaml.v3"
)

// DumpOptions controls what Dump includes.
type DumpOptions struct {
	// SymbolIDs adds each symbol's UUID. Off by default so that dumps of
	// the same program compare equal.
	SymbolIDs bool
}

// dumpNode is the YAML shape of one annotated node.
type dumpNode struct {
	Kind     string      `yaml:"kind"`
	Span     string      `yaml:"span"`
	Value    string      `yaml:"value,omitempty"`
	Type     string      `yaml:"type,omitempty"`
	Scope    int         `yaml:"scope"`
	Symbol   *dumpSymbol `yaml:"symbol,omitempty"`
	Children []*dumpNode `yaml:"children,omitempty"`
}

type dumpSymbol struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Declares bool   `yaml:"declares,omitempty"`
	ID       string `yaml:"id,omitempty"`
}

// Dump renders the annotated tree rooted at node as YAML: kind, span,
// type, scope depth and, for declarations and references, the symbol.
func Dump(node ast.Node, opts DumpOptions) ([]byte, error) {
	return yaml.Marshal(buildDump(node, opts))
}

func buildDump(node ast.Node, opts DumpOptions) *dumpNode {
	meta := node.Meta()
	d := &dumpNode{
		Kind:  ast.KindOf(node),
		Span:  meta.Span.String(),
		Value: valueOf(node),
	}
	if meta.Type != nil {
		d.Type = meta.Type.TypeName()
	}
	if meta.Scope != nil {
		d.Scope = meta.Scope.Depth()
	}
	if sym, declares := analyzer.SymbolOf(node); sym != nil {
		d.Symbol = &dumpSymbol{
			Name:     sym.Name(),
			Kind:     sym.Kind().String(),
			Declares: declares,
		}
		if opts.SymbolIDs {
			d.Symbol.ID = sym.ID().String()
		}
	}
	for _, child := range ast.Children(node) {
		d.Children = append(d.Children, buildDump(child, opts))
	}
	return d
}

// valueOf is the literal value or operator a node carries, if any.
func valueOf(node ast.Node) string {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return strconv.FormatInt(n.Value, 10)
	case *ast.StringLiteral:
		return strconv.Quote(n.Value)
	case *ast.BooleanLiteral:
		return strconv.FormatBool(n.Value)
	case *ast.Infix:
		return n.Operator.String()
	case *ast.Ref:
		return n.Name
	}
	return ""
}
