package lexer

import "fmt"

// TokenType represents the type of a token.
type TokenType int

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types for the Lumen language.
const (
	// Special tokens.
	TokenEOF TokenType = iota
	TokenError

	// Structural tokens computed from source layout.
	TokenNewline
	TokenIndent
	TokenDedent

	// Literals and identifiers.
	TokenIdentifier
	TokenUnderscore
	TokenInteger
	TokenFloat
	TokenString
	TokenBool

	// Keywords.
	TokenFn
	TokenLet
	TokenVar
	TokenConst
	TokenStruct
	TokenTypeKeyword
	TokenExtern
	TokenPub
	TokenIf
	TokenElse
	TokenWhile
	TokenFor
	TokenIn
	TokenMatch
	TokenReturn
	TokenBreak
	TokenContinue

	// Operators.
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenMod
	TokenPower
	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenMulAssign
	TokenDivAssign
	TokenModAssign
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenDotDot
	TokenQuestion

	// Punctuation.
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenColon
	TokenArrow
	TokenFatArrow
	TokenAt
)

// Position represents a position in the source code.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset in source
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether this position comes before other.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// Span represents a range in the source code.
type Span struct {
	Start Position
	End   Position
}

// String returns a string representation of the span.
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d:%d-%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Span    Span
}

// String returns a string representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Span: %s}", t.Type, t.Literal, t.Span)
}

// tokenNames provides string representations for token types.
var tokenNames = map[TokenType]string{
	TokenEOF:   "EOF",
	TokenError: "ERROR",

	TokenNewline: "NEWLINE",
	TokenIndent:  "INDENT",
	TokenDedent:  "DEDENT",

	TokenIdentifier: "IDENTIFIER",
	TokenUnderscore: "UNDERSCORE",
	TokenInteger:    "INTEGER",
	TokenFloat:      "FLOAT",
	TokenString:     "STRING",
	TokenBool:       "BOOL",

	TokenFn:          "FN",
	TokenLet:         "LET",
	TokenVar:         "VAR",
	TokenConst:       "CONST",
	TokenStruct:      "STRUCT",
	TokenTypeKeyword: "TYPE",
	TokenExtern:      "EXTERN",
	TokenPub:         "PUB",
	TokenIf:          "IF",
	TokenElse:        "ELSE",
	TokenWhile:       "WHILE",
	TokenFor:         "FOR",
	TokenIn:          "IN",
	TokenMatch:       "MATCH",
	TokenReturn:      "RETURN",
	TokenBreak:       "BREAK",
	TokenContinue:    "CONTINUE",

	TokenPlus:        "PLUS",
	TokenMinus:       "MINUS",
	TokenMul:         "MUL",
	TokenDiv:         "DIV",
	TokenMod:         "MOD",
	TokenPower:       "POWER",
	TokenAssign:      "ASSIGN",
	TokenPlusAssign:  "PLUS_ASSIGN",
	TokenMinusAssign: "MINUS_ASSIGN",
	TokenMulAssign:   "MUL_ASSIGN",
	TokenDivAssign:   "DIV_ASSIGN",
	TokenModAssign:   "MOD_ASSIGN",
	TokenEq:          "EQ",
	TokenNe:          "NE",
	TokenLt:          "LT",
	TokenLe:          "LE",
	TokenGt:          "GT",
	TokenGe:          "GE",
	TokenAnd:         "AND",
	TokenOr:          "OR",
	TokenNot:         "NOT",
	TokenBitAnd:      "BIT_AND",
	TokenBitOr:       "BIT_OR",
	TokenBitXor:      "BIT_XOR",
	TokenBitNot:      "BIT_NOT",
	TokenShl:         "SHL",
	TokenShr:         "SHR",
	TokenDotDot:      "DOT_DOT",
	TokenQuestion:    "QUESTION",

	TokenLParen:    "LPAREN",
	TokenRParen:    "RPAREN",
	TokenLBrace:    "LBRACE",
	TokenRBrace:    "RBRACE",
	TokenLBracket:  "LBRACKET",
	TokenRBracket:  "RBRACKET",
	TokenSemicolon: "SEMICOLON",
	TokenComma:     "COMMA",
	TokenDot:       "DOT",
	TokenColon:     "COLON",
	TokenArrow:     "ARROW",
	TokenFatArrow:  "FAT_ARROW",
	TokenAt:        "AT",
}

// lexemes maps token types with a fixed spelling to that spelling.
var lexemes = map[TokenType]string{
	TokenFn: "fn", TokenLet: "let", TokenVar: "var", TokenConst: "const",
	TokenStruct: "struct", TokenTypeKeyword: "type", TokenExtern: "extern",
	TokenPub: "pub", TokenIf: "if", TokenElse: "else", TokenWhile: "while",
	TokenFor: "for", TokenIn: "in", TokenMatch: "match", TokenReturn: "return",
	TokenBreak: "break", TokenContinue: "continue",

	TokenPlus: "+", TokenMinus: "-", TokenMul: "*", TokenDiv: "/",
	TokenMod: "%", TokenPower: "**", TokenAssign: "=", TokenPlusAssign: "+=",
	TokenMinusAssign: "-=", TokenMulAssign: "*=", TokenDivAssign: "/=",
	TokenModAssign: "%=", TokenEq: "==", TokenNe: "!=", TokenLt: "<",
	TokenLe: "<=", TokenGt: ">", TokenGe: ">=", TokenAnd: "&&", TokenOr: "||",
	TokenNot: "!", TokenBitAnd: "&", TokenBitOr: "|", TokenBitXor: "^",
	TokenBitNot: "~", TokenShl: "<<", TokenShr: ">>", TokenDotDot: "..",
	TokenQuestion: "?",

	TokenLParen: "(", TokenRParen: ")", TokenLBrace: "{", TokenRBrace: "}",
	TokenLBracket: "[", TokenRBracket: "]", TokenSemicolon: ";",
	TokenComma: ",", TokenDot: ".", TokenColon: ":", TokenArrow: "->",
	TokenFatArrow: "=>", TokenAt: "@",
}

// Lexeme returns the canonical source spelling of a token type with a
// fixed spelling, or its name for token classes like IDENTIFIER.
func (tt TokenType) Lexeme() string {
	if s, ok := lexemes[tt]; ok {
		return s
	}
	return tt.String()
}

// keywords maps identifier spellings to keyword token types.
var keywords = map[string]TokenType{
	"fn":       TokenFn,
	"let":      TokenLet,
	"var":      TokenVar,
	"const":    TokenConst,
	"struct":   TokenStruct,
	"type":     TokenTypeKeyword,
	"extern":   TokenExtern,
	"pub":      TokenPub,
	"if":       TokenIf,
	"else":     TokenElse,
	"while":    TokenWhile,
	"for":      TokenFor,
	"in":       TokenIn,
	"match":    TokenMatch,
	"return":   TokenReturn,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"true":     TokenBool,
	"false":    TokenBool,
}

// LookupIdent returns the keyword token type for an identifier spelling,
// or TokenIdentifier if it is not a keyword. The bare underscore is the
// wildcard token used in patterns.
func LookupIdent(ident string) TokenType {
	if ident == "_" {
		return TokenUnderscore
	}
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return TokenIdentifier
}
