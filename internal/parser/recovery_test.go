package parser

import (
	"strings"
	"testing"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/lexer"
)

func TestMultipleErrorsInOnePass(t *testing.T) {
	src := "let = 1\nlet b = 2\nlet = 3\nlet d = 4\n"
	tree, errs := parseSrc(t, src)
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2:\n%s", len(errs), errorLines(errs))
	}
	if errs[0].Span.Start.Line != 1 || errs[1].Span.Start.Line != 3 {
		t.Errorf("error lines = %d, %d; want 1, 3",
			errs[0].Span.Start.Line, errs[1].Span.Start.Line)
	}
	if errs[0].Recovery != RecoverStatement {
		t.Errorf("recovery = %v, want %v", errs[0].Recovery, RecoverStatement)
	}
	// The two well-formed declarations survive.
	file := tree.Node(tree.Root)
	if len(file.List) != 2 {
		t.Errorf("declarations = %d, want 2", len(file.List))
	}
}

func TestErrorsAreOrdered(t *testing.T) {
	src := "let = 1\nfn ()\nlet = 2\n"
	_, errs := parseSrc(t, src)
	if len(errs) < 2 {
		t.Fatalf("got %d errors, want at least 2", len(errs))
	}
	for i := 1; i < len(errs); i++ {
		prev, cur := errs[i-1].Span.Start, errs[i].Span.Start
		if cur.Before(prev) {
			t.Errorf("error %d at %v precedes error %d at %v", i, cur, i-1, prev)
		}
	}
}

func TestUnterminatedBlock(t *testing.T) {
	tree, errs := parseSrc(t, "fn main() {\n    let a = 1\n")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1:\n%s", len(errs), errorLines(errs))
	}
	if !strings.Contains(errs[0].Expected, "'}'") {
		t.Errorf("error %q does not ask for '}'", errs[0].Expected)
	}
	if errs[0].Found != "end of file" {
		t.Errorf("Found = %q", errs[0].Found)
	}
	// The partial function body is preserved.
	fn := decl(t, tree, 0)
	body := tree.Node(fn.Y)
	if body.Kind != ast.KindBlock || len(body.List) != 1 {
		t.Fatalf("body = %v with %d statements", body.Kind, len(body.List))
	}
}

func TestUnterminatedStandaloneBlock(t *testing.T) {
	tree, errs := parseSrc(t, "{\n    first()\n    second()\n")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1:\n%s", len(errs), errorLines(errs))
	}
	block := decl(t, tree, 0)
	if block.Kind != ast.KindBlock || len(block.List) != 2 {
		t.Errorf("block = %v with %d statements, want both statements kept",
			block.Kind, len(block.List))
	}
}

func TestMixedBlockDelimiters(t *testing.T) {
	// A '{' block terminated by the surrounding dedent instead of '}'.
	_, errs := parseSrc(t, "fn f()\n    if x {\n        return 1\n")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1:\n%s", len(errs), errorLines(errs))
	}
	if !strings.Contains(errs[0].Expected, "opened with '{'") {
		t.Errorf("error %q does not describe the delimiter mismatch", errs[0].Expected)
	}
}

func TestStrayCloser(t *testing.T) {
	tree, errs := parseSrc(t, "}\nlet a = 1\n")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1:\n%s", len(errs), errorLines(errs))
	}
	file := tree.Node(tree.Root)
	if len(file.List) != 1 {
		t.Errorf("declarations = %d, want 1", len(file.List))
	}
}

func TestLexicalErrorReportedOnce(t *testing.T) {
	tree, errs := parseSrc(t, "let s = \"abc\nlet b = 1\n")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1:\n%s", len(errs), errorLines(errs))
	}
	if !strings.Contains(errs[0].Found, "unterminated string literal") {
		t.Errorf("Found = %q", errs[0].Found)
	}
	file := tree.Node(tree.Root)
	if len(file.List) != 2 {
		t.Errorf("declarations = %d, want 2", len(file.List))
	}
}

func TestRecoveryAlwaysMakesProgress(t *testing.T) {
	// Inputs with no usable statement at all must still terminate.
	for _, src := range []string{
		"+ +\n+ +\n",
		"? ? ?",
		") ] }",
	} {
		t.Run(src, func(t *testing.T) {
			_, errs := parseSrc(t, src)
			if len(errs) == 0 {
				t.Error("expected at least one error")
			}
		})
	}
}

func TestRecoverEOFClassification(t *testing.T) {
	_, errs := parseSrc(t, "let =")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Recovery != RecoverEOF {
		t.Errorf("recovery = %v, want %v", errs[0].Recovery, RecoverEOF)
	}
}

func TestSyncSetAlwaysContainsEOF(t *testing.T) {
	set := NewSyncSet(lexer.TokenSemicolon)
	if !set[lexer.TokenEOF] {
		t.Error("EOF missing from synchronization set")
	}
	if !set[lexer.TokenSemicolon] {
		t.Error("requested member missing from synchronization set")
	}
}

func TestDeterministicDiagnostics(t *testing.T) {
	src := "let = 1\nfn f() {\n    return 1 2\n"
	_, first := parseSrc(t, src)
	_, second := parseSrc(t, src)
	if len(first) != len(second) {
		t.Fatalf("error counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Error() != second[i].Error() {
			t.Errorf("error %d differs: %q vs %q", i, first[i].Error(), second[i].Error())
		}
	}
}
