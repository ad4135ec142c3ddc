package ast

import (
	"testing"

	"github.com/lumen-lang/lumen/internal/lexer"
)

func TestArenaAlloc(t *testing.T) {
	a := NewArena()
	if a.Len() != 1 {
		t.Fatalf("new arena Len() = %d, want 1 (reserved slot)", a.Len())
	}

	first := a.Alloc(Node{Kind: KindIdent, Text: "x"})
	second := a.Alloc(Node{Kind: KindIntLit, Text: "1"})
	if first == NoNode || second == NoNode {
		t.Fatal("Alloc returned the reserved handle")
	}
	if first == second {
		t.Fatal("Alloc returned duplicate handles")
	}
	if got := a.Get(first); got.Kind != KindIdent || got.Text != "x" {
		t.Errorf("Get(first) = %v %q", got.Kind, got.Text)
	}
	if got := a.Get(second); got.Kind != KindIntLit || got.Text != "1" {
		t.Errorf("Get(second) = %v %q", got.Kind, got.Text)
	}
}

func TestArenaHandlesStayValid(t *testing.T) {
	a := NewArena()
	ids := make([]NodeID, 0, 1000)
	for i := 0; i < 1000; i++ {
		ids = append(ids, a.Alloc(Node{Kind: KindIntLit}))
	}
	// Growth must not invalidate earlier handles.
	for _, id := range ids {
		if a.Get(id).Kind != KindIntLit {
			t.Fatalf("handle %d no longer resolves", id)
		}
	}
}

func TestArenaGetOutOfRange(t *testing.T) {
	a := NewArena()
	for _, id := range []NodeID{NoNode, -1, 99} {
		if got := a.Get(id); got.Kind != KindBad {
			t.Errorf("Get(%d).Kind = %v, want Bad", id, got.Kind)
		}
	}
}

func newTree(build func(a *Arena) NodeID) *Tree {
	a := NewArena()
	root := build(a)
	return &Tree{Arena: a, Root: root}
}

func TestEqualIgnoresSpans(t *testing.T) {
	ta := newTree(func(a *Arena) NodeID {
		x := a.Alloc(Node{Kind: KindIdent, Text: "x",
			Span: lexer.Span{Start: lexer.Position{Line: 1, Column: 1}}})
		return a.Alloc(Node{Kind: KindExprStmt, X: x})
	})
	tb := newTree(func(a *Arena) NodeID {
		x := a.Alloc(Node{Kind: KindIdent, Text: "x",
			Span: lexer.Span{Start: lexer.Position{Line: 42, Column: 9}}})
		return a.Alloc(Node{Kind: KindExprStmt, X: x})
	})
	if !Equal(ta, ta.Root, tb, tb.Root) {
		t.Error("trees differing only in spans compared unequal")
	}
}

func TestEqualIgnoresBlockDelimiterStyle(t *testing.T) {
	block := func(op lexer.TokenType) *Tree {
		return newTree(func(a *Arena) NodeID {
			s := a.Alloc(Node{Kind: KindBreakStmt})
			return a.Alloc(Node{Kind: KindBlock, Op: op, List: []NodeID{s}})
		})
	}
	brace := block(lexer.TokenLBrace)
	indent := block(lexer.TokenIndent)
	if !Equal(brace, brace.Root, indent, indent.Root) {
		t.Error("blocks differing only in delimiter style compared unequal")
	}
}

func TestEqualDetectsDifferences(t *testing.T) {
	ident := func(text string) *Tree {
		return newTree(func(a *Arena) NodeID {
			return a.Alloc(Node{Kind: KindIdent, Text: text})
		})
	}
	x, y := ident("x"), ident("y")
	if Equal(x, x.Root, y, y.Root) {
		t.Error("different identifiers compared equal")
	}

	plus := newTree(func(a *Arena) NodeID {
		x := a.Alloc(Node{Kind: KindIdent, Text: "a"})
		y := a.Alloc(Node{Kind: KindIdent, Text: "b"})
		return a.Alloc(Node{Kind: KindBinaryExpr, Op: lexer.TokenPlus, X: x, Y: y})
	})
	minus := newTree(func(a *Arena) NodeID {
		x := a.Alloc(Node{Kind: KindIdent, Text: "a"})
		y := a.Alloc(Node{Kind: KindIdent, Text: "b"})
		return a.Alloc(Node{Kind: KindBinaryExpr, Op: lexer.TokenMinus, X: x, Y: y})
	})
	if Equal(plus, plus.Root, minus, minus.Root) {
		t.Error("binary expressions with different operators compared equal")
	}
}

func TestEqualAbsentChildren(t *testing.T) {
	with := newTree(func(a *Arena) NodeID {
		v := a.Alloc(Node{Kind: KindIntLit, Text: "1"})
		return a.Alloc(Node{Kind: KindReturnStmt, X: v})
	})
	without := newTree(func(a *Arena) NodeID {
		return a.Alloc(Node{Kind: KindReturnStmt})
	})
	if Equal(with, with.Root, without, without.Root) {
		t.Error("return with and without value compared equal")
	}
}
