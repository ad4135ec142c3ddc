package lexer

import (
	"testing"
)

func tokenTypes(input string) []TokenType {
	tokens := Tokenize(input)
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func sameTypes(a, b []TokenType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			"simple binding",
			"let x = 1\n",
			[]TokenType{TokenLet, TokenIdentifier, TokenAssign, TokenInteger, TokenNewline, TokenEOF},
		},
		{
			"keywords and literals",
			"fn _ true false",
			[]TokenType{TokenFn, TokenUnderscore, TokenBool, TokenBool, TokenEOF},
		},
		{
			"range keeps integers intact",
			"1..5",
			[]TokenType{TokenInteger, TokenDotDot, TokenInteger, TokenEOF},
		},
		{
			"numeric forms",
			"0x1F 3.14 1_000",
			[]TokenType{TokenInteger, TokenFloat, TokenInteger, TokenEOF},
		},
		{
			"compound operators",
			"a ** b -> c => d",
			[]TokenType{TokenIdentifier, TokenPower, TokenIdentifier, TokenArrow,
				TokenIdentifier, TokenFatArrow, TokenIdentifier, TokenEOF},
		},
		{
			"line comment",
			"a // trailing\nb\n",
			[]TokenType{TokenIdentifier, TokenNewline, TokenIdentifier, TokenNewline, TokenEOF},
		},
		{
			"block comment",
			"a /* x\ny */ b\n",
			[]TokenType{TokenIdentifier, TokenIdentifier, TokenNewline, TokenEOF},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenTypes(tt.input)
			if !sameTypes(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLayoutTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			"indent and dedent",
			"a\n    b\nc\n",
			[]TokenType{TokenIdentifier, TokenNewline, TokenIndent, TokenIdentifier,
				TokenNewline, TokenDedent, TokenIdentifier, TokenNewline, TokenEOF},
		},
		{
			"dedents flushed at end of input",
			"a\n    b\n",
			[]TokenType{TokenIdentifier, TokenNewline, TokenIndent, TokenIdentifier,
				TokenNewline, TokenDedent, TokenEOF},
		},
		{
			"blank lines carry no layout",
			"a\n\n\nb\n",
			[]TokenType{TokenIdentifier, TokenNewline, TokenIdentifier, TokenNewline, TokenEOF},
		},
		{
			"nested levels unwind one per step",
			"a\n    b\n        c\nd\n",
			[]TokenType{TokenIdentifier, TokenNewline,
				TokenIndent, TokenIdentifier, TokenNewline,
				TokenIndent, TokenIdentifier, TokenNewline,
				TokenDedent, TokenDedent, TokenIdentifier, TokenNewline, TokenEOF},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenTypes(tt.input)
			if !sameTypes(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLayoutSuppressedInsideGroupings(t *testing.T) {
	input := "f(\n    1,\n    2)\n"
	for _, tok := range Tokenize(input) {
		if tok.Type == TokenIndent || tok.Type == TokenDedent {
			t.Fatalf("layout token %v inside grouping", tok.Type)
		}
	}
}

func TestInconsistentIndentation(t *testing.T) {
	tokens := Tokenize("a\n        b\n    c\n")
	found := false
	for _, tok := range tokens {
		if tok.Type == TokenError && tok.Literal == "inconsistent indentation" {
			found = true
		}
	}
	if !found {
		t.Error("expected an inconsistent indentation error token")
	}
}

func TestUnterminatedString(t *testing.T) {
	tokens := Tokenize("let s = \"abc\n")
	found := false
	for _, tok := range tokens {
		if tok.Type == TokenError {
			found = true
			if tok.Literal != "unterminated string literal" {
				t.Errorf("error literal = %q", tok.Literal)
			}
		}
	}
	if !found {
		t.Fatal("expected an error token")
	}
}

func TestEOFIsSticky(t *testing.T) {
	l := New("x")
	var last Token
	for i := 0; i < 5; i++ {
		last = l.NextToken()
	}
	if last.Type != TokenEOF {
		t.Errorf("token after end = %v, want EOF", last.Type)
	}
}

func TestSpans(t *testing.T) {
	tokens := Tokenize("let name = 1\n")
	name := tokens[1]
	if name.Literal != "name" {
		t.Fatalf("token[1] literal = %q", name.Literal)
	}
	if name.Span.Start.Line != 1 || name.Span.Start.Column != 5 {
		t.Errorf("start = %v, want 1:5", name.Span.Start)
	}
	if name.Span.End.Column != 9 {
		t.Errorf("end column = %d, want 9", name.Span.End.Column)
	}
}
