package ast

import (
	"strings"
)

// Print renders the tree as canonical Lumen source: brace-delimited
// blocks, one statement per line, fully parenthesized expressions.
// Re-parsing the output of Print yields a structurally equal tree.
func Print(t *Tree) string {
	p := &printer{tree: t}
	p.node(t.Root)
	return p.buf.String()
}

// ExprString renders a single expression with explicit parentheses
// around every operator application, e.g. "(1 + (2 * 3))".
func ExprString(t *Tree, id NodeID) string {
	p := &printer{tree: t}
	p.expr(id)
	return p.buf.String()
}

type printer struct {
	tree  *Tree
	buf   strings.Builder
	depth int
}

func (p *printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *printer) line(s string) {
	p.write(strings.Repeat("    ", p.depth))
	p.write(s)
	p.write("\n")
}

func (p *printer) node(id NodeID) {
	n := p.tree.Node(id)
	switch n.Kind {
	case KindFile:
		for _, d := range n.List {
			p.stmt(d)
		}
	default:
		p.stmt(id)
	}
}

func (p *printer) stmt(id NodeID) {
	n := p.tree.Node(id)
	switch n.Kind {
	case KindBad:
		p.line("/* bad */")
	case KindFnDecl:
		p.attrs(n)
		var b strings.Builder
		b.WriteString(p.qualifiers(n))
		b.WriteString("fn ")
		b.WriteString(n.Text)
		b.WriteString("(")
		for i, param := range n.List {
			if i > 0 {
				b.WriteString(", ")
			}
			pn := p.tree.Node(param)
			b.WriteString(pn.Text)
			b.WriteString(": ")
			b.WriteString(p.typeString(pn.X))
		}
		b.WriteString(")")
		if n.X != NoNode {
			b.WriteString(" -> ")
			b.WriteString(p.typeString(n.X))
		}
		if n.Y == NoNode {
			b.WriteString(";")
			p.line(b.String())
			return
		}
		p.line(b.String() + " {")
		p.blockBody(n.Y)
		p.line("}")
	case KindVarDecl:
		p.attrs(n)
		var b strings.Builder
		b.WriteString(p.qualifiers(n))
		b.WriteString(n.Op.Lexeme())
		b.WriteString(" ")
		if n.Z != NoNode {
			b.WriteString(p.patString(n.Z))
		} else {
			b.WriteString(n.Text)
		}
		if n.X != NoNode {
			b.WriteString(": ")
			b.WriteString(p.typeString(n.X))
		}
		if n.Y != NoNode {
			b.WriteString(" = ")
			b.WriteString(p.exprString(n.Y))
		}
		p.line(b.String())
	case KindStructDecl:
		p.attrs(n)
		p.line(p.qualifiers(n) + "struct " + n.Text + " {")
		p.depth++
		for _, f := range n.List {
			fn := p.tree.Node(f)
			p.line(fn.Text + ": " + p.typeString(fn.X))
		}
		p.depth--
		p.line("}")
	case KindTypeDecl:
		p.attrs(n)
		p.line(p.qualifiers(n) + "type " + n.Text + " = " + p.typeString(n.X))
	case KindBlock:
		p.line("{")
		p.blockBody(id)
		p.line("}")
	case KindExprStmt:
		p.line(p.exprString(n.X))
	case KindReturnStmt:
		if n.X == NoNode {
			p.line("return")
		} else {
			p.line("return " + p.exprString(n.X))
		}
	case KindIfStmt:
		p.line("if " + p.exprString(n.X) + " {")
		p.blockBody(n.Y)
		for n.Z != NoNode {
			zn := p.tree.Node(n.Z)
			if zn.Kind == KindIfStmt {
				p.line("} else if " + p.exprString(zn.X) + " {")
				p.blockBody(zn.Y)
				n = zn
				continue
			}
			p.line("} else {")
			p.blockBody(n.Z)
			break
		}
		p.line("}")
	case KindWhileStmt:
		p.line("while " + p.exprString(n.X) + " {")
		p.blockBody(n.Y)
		p.line("}")
	case KindForStmt:
		p.line("for " + n.Text + " in " + p.exprString(n.X) + " {")
		p.blockBody(n.Y)
		p.line("}")
	case KindBreakStmt:
		p.line("break")
	case KindContinueStmt:
		p.line("continue")
	default:
		p.line(p.exprString(id))
	}
}

func (p *printer) blockBody(id NodeID) {
	n := p.tree.Node(id)
	p.depth++
	for _, s := range n.List {
		p.stmt(s)
	}
	p.depth--
}

func (p *printer) attrs(n *Node) {
	for _, a := range n.Attrs {
		an := p.tree.Node(a)
		if len(an.List) == 0 {
			p.line("@" + an.Text)
			continue
		}
		var b strings.Builder
		b.WriteString("@")
		b.WriteString(an.Text)
		b.WriteString("(")
		for i, arg := range an.List {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.exprString(arg))
		}
		b.WriteString(")")
		p.line(b.String())
	}
}

func (p *printer) qualifiers(n *Node) string {
	var b strings.Builder
	if n.Flags&FlagPub != 0 {
		b.WriteString("pub ")
	}
	if n.Flags&FlagExtern != 0 {
		b.WriteString("extern ")
	}
	return b.String()
}

func (p *printer) expr(id NodeID) {
	p.write(p.exprString(id))
}

func (p *printer) exprString(id NodeID) string {
	n := p.tree.Node(id)
	switch n.Kind {
	case KindBad:
		return "<bad>"
	case KindIdent, KindIntLit, KindFloatLit, KindStringLit, KindBoolLit:
		return n.Text
	case KindUnaryExpr:
		return "(" + n.Op.Lexeme() + p.exprString(n.X) + ")"
	case KindBinaryExpr, KindAssignExpr:
		return "(" + p.exprString(n.X) + " " + n.Op.Lexeme() + " " + p.exprString(n.Y) + ")"
	case KindCallExpr:
		var b strings.Builder
		b.WriteString(p.exprString(n.X))
		b.WriteString("(")
		for i, arg := range n.List {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.exprString(arg))
		}
		b.WriteString(")")
		return b.String()
	case KindIndexExpr:
		return p.exprString(n.X) + "[" + p.exprString(n.Y) + "]"
	case KindMemberExpr:
		return p.exprString(n.X) + "." + n.Text
	case KindTryExpr:
		return "(" + p.exprString(n.X) + "?)"
	case KindTupleExpr:
		var b strings.Builder
		b.WriteString("(")
		for i, el := range n.List {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.exprString(el))
		}
		b.WriteString(")")
		return b.String()
	case KindIfExpr:
		s := "if " + p.exprString(n.X) + " { " + p.inlineBlock(n.Y) + " }"
		if n.Z != NoNode {
			if p.tree.Node(n.Z).Kind == KindIfExpr {
				s += " else " + p.exprString(n.Z)
			} else {
				s += " else { " + p.inlineBlock(n.Z) + " }"
			}
		}
		return s
	case KindMatchExpr:
		var b strings.Builder
		b.WriteString("match ")
		b.WriteString(p.exprString(n.X))
		b.WriteString(" { ")
		for i, arm := range n.List {
			if i > 0 {
				b.WriteString(", ")
			}
			an := p.tree.Node(arm)
			b.WriteString(p.patString(an.X))
			if an.Y != NoNode {
				b.WriteString(" if ")
				b.WriteString(p.exprString(an.Y))
			}
			b.WriteString(" => ")
			if p.tree.Node(an.Z).Kind == KindBlock {
				b.WriteString("{ ")
				b.WriteString(p.inlineBlock(an.Z))
				b.WriteString(" }")
			} else {
				b.WriteString(p.exprString(an.Z))
			}
		}
		b.WriteString(" }")
		return b.String()
	default:
		return "<" + n.Kind.String() + ">"
	}
}

// inlineBlock renders block statements on one line, separated by
// semicolons, for expression position.
func (p *printer) inlineBlock(id NodeID) string {
	n := p.tree.Node(id)
	var parts []string
	for _, s := range n.List {
		sub := &printer{tree: p.tree}
		sub.stmt(s)
		parts = append(parts, strings.TrimSuffix(sub.buf.String(), "\n"))
	}
	return strings.Join(parts, "; ")
}

func (p *printer) typeString(id NodeID) string {
	n := p.tree.Node(id)
	switch n.Kind {
	case KindNamedType:
		return n.Text
	case KindListType:
		return "[" + p.typeString(n.X) + "]"
	case KindPointerType:
		return "*" + p.typeString(n.X)
	case KindFnType:
		var b strings.Builder
		b.WriteString("fn(")
		for i, param := range n.List {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.typeString(param))
		}
		b.WriteString(")")
		if n.X != NoNode {
			b.WriteString(" -> ")
			b.WriteString(p.typeString(n.X))
		}
		return b.String()
	default:
		return "<" + n.Kind.String() + ">"
	}
}

func (p *printer) patString(id NodeID) string {
	n := p.tree.Node(id)
	switch n.Kind {
	case KindLiteralPat:
		return p.exprString(n.X)
	case KindBindingPat:
		return n.Text
	case KindWildcardPat:
		return "_"
	case KindAggregatePat:
		var b strings.Builder
		b.WriteString(n.Text)
		b.WriteString(" { ")
		for i, f := range n.List {
			if i > 0 {
				b.WriteString(", ")
			}
			fn := p.tree.Node(f)
			b.WriteString(fn.Text)
			if fn.X != NoNode {
				b.WriteString(": ")
				b.WriteString(p.patString(fn.X))
			}
		}
		if n.Flags&FlagRest != 0 {
			if len(n.List) > 0 {
				b.WriteString(", ")
			}
			b.WriteString("..")
		}
		b.WriteString(" }")
		return b.String()
	case KindTuplePat:
		var b strings.Builder
		b.WriteString("(")
		for i, el := range n.List {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.patString(el))
		}
		b.WriteString(")")
		return b.String()
	default:
		return "<" + n.Kind.String() + ">"
	}
}
