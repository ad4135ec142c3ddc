package parser

import (
	"strings"
	"testing"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/lexer"
)

func exprOf(t *testing.T, src string) (string, []*ParseError) {
	t.Helper()
	tree, errs := ParseExpression(lexer.Tokenize(src))
	return ast.ExprString(tree, tree.Root), errs
}

func mustExpr(t *testing.T, src string) string {
	t.Helper()
	got, errs := exprOf(t, src)
	if len(errs) != 0 {
		t.Fatalf("parse %q: unexpected errors: %v", src, errs)
	}
	return got
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"product over sum", "2 + 3 * 4", "(2 + (3 * 4))"},
		{"sum is left associative", "a + b + c", "((a + b) + c)"},
		{"difference is left associative", "a - b - c", "((a - b) - c)"},
		{"comparison over equality", "a < b == c", "((a < b) == c)"},
		{"sum over shift", "a + b << c", "((a + b) << c)"},
		{"bit-and over bit-or", "a | b & c", "(a | (b & c))"},
		{"logical and over or", "a || b && c", "(a || (b && c))"},
		{"assignment is right associative", "a = b = c", "(a = (b = c))"},
		{"compound assignment", "a += b * 2", "(a += (b * 2))"},
		{"power is right associative", "2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"unary over product", "-a * b", "((-a) * b)"},
		{"not over logical and", "!a && b", "((!a) && b)"},
		{"double negation", "--a", "(-(-a))"},
		{"parentheses override", "(a + b) * c", "((a + b) * c)"},
		{"range", "1 .. 10", "(1 .. 10)"},
		{"range of sums", "lo + 1 .. hi - 1", "((lo + 1) .. (hi - 1))"},
		{"postfix try", "read()?", "(read()?)"},
		{"try binds over sum", "a? + b", "((a?) + b)"},
		{"member chain", "obj.items[0].name", "obj.items[0].name"},
		{"call arguments", "f(a, b + 1)", "f(a, (b + 1))"},
		{"call of call", "f(x)(y)", "f(x)(y)"},
		{"tuple", "(a, b)", "(a, b)"},
		{"newline inside grouping", "(a +\n    b)", "(a + b)"},
		{"if expression", "if c { 1 } else { 2 }", "if c { 1 } else { 2 }"},
		{"chained if expression", "if a { 1 } else if b { 2 } else { 3 }",
			"if a { 1 } else if b { 2 } else { 3 }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustExpr(t, tt.input); got != tt.want {
				t.Errorf("parse %q = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNonAssociativeChaining(t *testing.T) {
	got, errs := exprOf(t, "a .. b .. c")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Expected, "non-associative") {
		t.Errorf("error %q does not mention non-associativity", errs[0].Expected)
	}
	// Parsing continues after the error.
	if got != "((a .. b) .. c)" {
		t.Errorf("recovered parse = %s", got)
	}
}

func TestMissingOperand(t *testing.T) {
	_, errs := exprOf(t, "1 +")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Expected != "expression" {
		t.Errorf("Expected = %q, want %q", errs[0].Expected, "expression")
	}
	if errs[0].Found != "end of file" {
		t.Errorf("Found = %q, want %q", errs[0].Found, "end of file")
	}
}

func TestTrailingTokensAfterExpression(t *testing.T) {
	_, errs := exprOf(t, "a b")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Expected != "end of expression" {
		t.Errorf("Expected = %q", errs[0].Expected)
	}
}
