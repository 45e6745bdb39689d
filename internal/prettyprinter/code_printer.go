package prettyprinter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/config"
)

// --- Code Printer (Output looks like source code) ---

// CodePrinter prints a syntax tree back as canonical source text. Arrow
// lambdas come out in their fun(...) form, and parentheses appear only
// where precedence requires them.
type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Format returns the canonical source text of prog.
func Format(prog *ast.Program) string {
	p := NewCodePrinter()
	p.Print(prog)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) Print(node ast.Node) {
	switch n := node.(type) {
	case *ast.Program:
		for _, stmt := range n.Statements {
			p.Print(stmt)
			p.write("\n")
		}
	case *ast.Block:
		p.printBlock(n.Exprs)
	case *ast.IntegerLiteral:
		p.write(strconv.FormatInt(n.Value, 10))
	case *ast.StringLiteral:
		p.write(quote(n.Value))
	case *ast.BooleanLiteral:
		p.write(strconv.FormatBool(n.Value))
	case *ast.Ref:
		p.write(n.Name)
	case *ast.VarDef:
		p.write("let " + n.Name + " = ")
		p.Print(n.Value)
	case *ast.Assignment:
		p.write(n.Name + " = ")
		p.Print(n.Value)
	case *ast.If:
		p.printIf(n)
	case *ast.Infix:
		p.printExpr(n, -1, false)
	case *ast.FunctionDef:
		p.write("fun " + n.Name)
		p.printSignature(n.Params, n.ReturnType)
		p.write(" ")
		p.Print(n.Body)
	case *ast.Lambda:
		p.write("fun")
		p.printSignature(n.Params, n.ReturnType)
		p.write(" ")
		p.Print(n.Body)
	case *ast.Call:
		p.printPostfixBase(n.Callee)
		p.write("(")
		for i, arg := range n.Args {
			if i > 0 {
				p.write(", ")
			}
			p.Print(arg)
		}
		p.write(")")
	case *ast.ClassDef:
		p.write("class " + n.Name + " ")
		p.printBlock(n.Members)
	case *ast.PropDecl:
		p.write("prop " + n.Name)
		p.printTypeAnn(n.TypeAnn)
	case *ast.Param:
		p.write(n.Name)
		p.printTypeAnn(n.TypeAnn)
	case *ast.GetProp:
		p.printPostfixBase(n.Object)
		p.write("." + n.Name)
	case *ast.SetProp:
		p.printPostfixBase(n.Object)
		p.write("." + n.Name + " = ")
		p.Print(n.Value)
	default:
		panic(fmt.Sprintf("internal error: cannot print %T", node))
	}
}

func (p *CodePrinter) printBlock(nodes []ast.Node) {
	if len(nodes) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.indent++
	for _, n := range nodes {
		p.writeln()
		p.Print(n)
	}
	p.indent--
	p.writeln()
	p.write("}")
}

func (p *CodePrinter) printIf(n *ast.If) {
	p.write("if (")
	p.Print(n.Cond)
	p.write(") ")
	p.Print(n.Then)
	p.write(" else ")
	if nested, ok := elseIf(n.Else); ok {
		p.printIf(nested)
		return
	}
	p.Print(n.Else)
}

// elseIf reports whether b is the block the parser wraps around an
// `else if` chain.
func elseIf(b *ast.Block) (*ast.If, bool) {
	if len(b.Exprs) != 1 {
		return nil, false
	}
	nested, ok := b.Exprs[0].(*ast.If)
	if !ok || nested.Span != b.Span {
		return nil, false
	}
	return nested, true
}

func (p *CodePrinter) printSignature(params []*ast.Param, ret *ast.TypeRef) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		p.Print(param)
	}
	p.write(")")
	p.printTypeAnn(ret)
}

func (p *CodePrinter) printTypeAnn(t *ast.TypeRef) {
	if t != nil {
		p.write(": " + t.Name)
	}
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(node ast.Node, parentPrec int, isRight bool) {
	infix, ok := node.(*ast.Infix)
	if !ok {
		if needsGrouping(node) {
			p.write("(")
			p.Print(node)
			p.write(")")
			return
		}
		p.Print(node)
		return
	}

	op := infix.Operator.String()
	prec := config.Precedences[op]
	rightAssoc := config.Associativities[op] == config.RightAssoc
	needParens := prec < parentPrec
	// For same precedence, check associativity
	if prec == parentPrec && isRight != rightAssoc {
		needParens = true
	}
	if needParens {
		p.write("(")
	}
	p.printExpr(infix.Left, prec, false)
	p.write(" " + op + " ")
	p.printExpr(infix.Right, prec, true)
	if needParens {
		p.write(")")
	}
}

// printPostfixBase prints the target of a call or property access.
func (p *CodePrinter) printPostfixBase(node ast.Node) {
	switch node.(type) {
	case *ast.Ref, *ast.Call, *ast.GetProp:
		p.Print(node)
	default:
		p.write("(")
		p.Print(node)
		p.write(")")
	}
}

// needsGrouping reports whether node would swallow the operators that
// follow it when printed as an operand.
func needsGrouping(node ast.Node) bool {
	switch node.(type) {
	case *ast.VarDef, *ast.Assignment, *ast.If, *ast.FunctionDef, *ast.Lambda, *ast.ClassDef, *ast.SetProp:
		return true
	}
	return false
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
