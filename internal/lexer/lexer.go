// Package lexer implements the Lumen lexical analyzer.
//
// Besides ordinary tokens the lexer synthesizes the structural tokens
// NEWLINE, INDENT and DEDENT from source layout, so that the parser can
// treat brace-delimited and indentation-delimited blocks uniformly.
// INDENT/DEDENT pairs are always well nested and are only computed
// outside grouping tokens; NEWLINE is emitted for every logical line end
// and it is the parser's job to ignore it inside open groupings.
package lexer

import (
	"unicode"
	"unicode/utf8"
)

// Lexer performs lexical analysis of Lumen source code.
type Lexer struct {
	input   string
	pos     int // current byte offset
	line    int // 1-based line of pos
	column  int // 1-based column of pos
	indents []int
	pending []Token
	// groupDepth tracks open ( [ { so that layout is not computed
	// inside bracketed or braced regions.
	groupDepth  int
	atLineStart bool
	eofReached  bool
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	return &Lexer{
		input:       input,
		line:        1,
		column:      1,
		indents:     []int{0},
		atLineStart: true,
	}
}

// Tokenize scans the whole input and returns the token stream,
// terminated by exactly one EOF token.
func Tokenize(input string) []Token {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) position() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.pos}
}

func (l *Lexer) ch() rune {
	if l.pos >= len(l.input) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) peekAt(offset int) rune {
	pos := l.pos
	for i := 0; i <= offset; i++ {
		if pos >= len(l.input) {
			return -1
		}
		r, size := utf8.DecodeRuneInString(l.input[pos:])
		if i == offset {
			return r
		}
		pos += size
	}
	return -1
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

func (l *Lexer) newToken(tt TokenType, literal string, start Position) Token {
	return Token{Type: tt, Literal: literal, Span: Span{Start: start, End: l.position()}}
}

// NextToken returns the next token in the input. After the terminal EOF
// token has been produced, further calls keep returning EOF.
func (l *Lexer) NextToken() Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}
	if l.eofReached {
		return l.newToken(TokenEOF, "", l.position())
	}

	for {
		if l.atLineStart && l.groupDepth == 0 {
			if tok, ok := l.scanLayout(); ok {
				return tok
			}
		}
		l.atLineStart = false

		l.skipInlineSpace()

		switch ch := l.ch(); {
		case ch == -1:
			return l.emitEOF()
		case ch == '\n':
			start := l.position()
			l.advance()
			l.atLineStart = true
			return l.newToken(TokenNewline, "\n", start)
		case ch == '/' && l.peekAt(1) == '/':
			l.skipLineComment()
		case ch == '/' && l.peekAt(1) == '*':
			if tok, ok := l.skipBlockComment(); !ok {
				return tok
			}
		case isIdentStart(ch):
			return l.scanIdentifier()
		case isDigit(ch):
			return l.scanNumber()
		case ch == '"':
			return l.scanString()
		default:
			return l.scanOperator()
		}
	}
}

// scanLayout handles indentation at the start of a logical line. Blank
// and comment-only lines carry no layout. It returns a pending INDENT,
// DEDENT or ERROR token, or ok=false when the line continues at the
// current indentation level.
func (l *Lexer) scanLayout() (Token, bool) {
	for {
		lineStart := l.position()
		width := 0
		for {
			ch := l.ch()
			if ch == ' ' || ch == '\t' || ch == '\r' {
				width++
				l.advance()
				continue
			}
			break
		}

		switch ch := l.ch(); {
		case ch == -1:
			l.atLineStart = false
			return Token{}, false
		case ch == '\n':
			// Blank line: no layout, no NEWLINE.
			l.advance()
			continue
		case ch == '/' && l.peekAt(1) == '/':
			l.skipLineComment()
			continue
		default:
			l.atLineStart = false
			top := l.indents[len(l.indents)-1]
			switch {
			case width > top:
				l.indents = append(l.indents, width)
				return l.newToken(TokenIndent, "", lineStart), true
			case width < top:
				for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
					l.indents = l.indents[:len(l.indents)-1]
					l.pending = append(l.pending, l.newToken(TokenDedent, "", lineStart))
				}
				if l.indents[len(l.indents)-1] != width {
					l.pending = append(l.pending,
						l.newToken(TokenError, "inconsistent indentation", lineStart))
				}
				tok := l.pending[0]
				l.pending = l.pending[1:]
				return tok, true
			default:
				return Token{}, false
			}
		}
	}
}

// emitEOF closes any open indentation levels and produces the terminal EOF.
func (l *Lexer) emitEOF() Token {
	pos := l.position()
	l.eofReached = true
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, l.newToken(TokenDedent, "", pos))
	}
	l.pending = append(l.pending, l.newToken(TokenEOF, "", pos))
	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok
}

func (l *Lexer) skipInlineSpace() {
	for {
		ch := l.ch()
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
			continue
		}
		return
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch() != '\n' && l.ch() != -1 {
		l.advance()
	}
}

func (l *Lexer) skipBlockComment() (Token, bool) {
	start := l.position()
	l.advance() // /
	l.advance() // *
	for {
		switch l.ch() {
		case -1:
			return l.newToken(TokenError, "unterminated block comment", start), false
		case '*':
			if l.peekAt(1) == '/' {
				l.advance()
				l.advance()
				return Token{}, true
			}
			l.advance()
		default:
			l.advance()
		}
	}
}

func (l *Lexer) scanIdentifier() Token {
	start := l.position()
	for isIdentPart(l.ch()) {
		l.advance()
	}
	literal := l.input[start.Offset:l.pos]
	return l.newToken(LookupIdent(literal), literal, start)
}

func (l *Lexer) scanNumber() Token {
	start := l.position()
	if l.ch() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance()
		l.advance()
		for isHexDigit(l.ch()) || l.ch() == '_' {
			l.advance()
		}
		return l.newToken(TokenInteger, l.input[start.Offset:l.pos], start)
	}
	for isDigit(l.ch()) || l.ch() == '_' {
		l.advance()
	}
	// A '.' continues the number only when followed by a digit; "1..2"
	// keeps the range operator intact.
	if l.ch() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		for isDigit(l.ch()) || l.ch() == '_' {
			l.advance()
		}
		return l.newToken(TokenFloat, l.input[start.Offset:l.pos], start)
	}
	return l.newToken(TokenInteger, l.input[start.Offset:l.pos], start)
}

func (l *Lexer) scanString() Token {
	start := l.position()
	l.advance() // opening quote
	for {
		switch l.ch() {
		case -1, '\n':
			return l.newToken(TokenError, "unterminated string literal", start)
		case '\\':
			l.advance()
			if l.ch() != -1 {
				l.advance()
			}
		case '"':
			l.advance()
			return l.newToken(TokenString, l.input[start.Offset:l.pos], start)
		default:
			l.advance()
		}
	}
}

func (l *Lexer) scanOperator() Token {
	start := l.position()
	ch := l.ch()
	l.advance()

	// two returns the long token when the next rune matches, otherwise
	// the one-character fallback.
	two := func(next rune, long, short TokenType) Token {
		if l.ch() == next {
			l.advance()
			return l.newToken(long, l.input[start.Offset:l.pos], start)
		}
		return l.newToken(short, l.input[start.Offset:l.pos], start)
	}

	switch ch {
	case '+':
		return two('=', TokenPlusAssign, TokenPlus)
	case '-':
		if l.ch() == '>' {
			l.advance()
			return l.newToken(TokenArrow, "->", start)
		}
		return two('=', TokenMinusAssign, TokenMinus)
	case '*':
		if l.ch() == '*' {
			l.advance()
			return l.newToken(TokenPower, "**", start)
		}
		return two('=', TokenMulAssign, TokenMul)
	case '/':
		return two('=', TokenDivAssign, TokenDiv)
	case '%':
		return two('=', TokenModAssign, TokenMod)
	case '=':
		if l.ch() == '>' {
			l.advance()
			return l.newToken(TokenFatArrow, "=>", start)
		}
		return two('=', TokenEq, TokenAssign)
	case '!':
		return two('=', TokenNe, TokenNot)
	case '<':
		if l.ch() == '<' {
			l.advance()
			return l.newToken(TokenShl, "<<", start)
		}
		return two('=', TokenLe, TokenLt)
	case '>':
		if l.ch() == '>' {
			l.advance()
			return l.newToken(TokenShr, ">>", start)
		}
		return two('=', TokenGe, TokenGt)
	case '&':
		return two('&', TokenAnd, TokenBitAnd)
	case '|':
		return two('|', TokenOr, TokenBitOr)
	case '^':
		return l.newToken(TokenBitXor, "^", start)
	case '~':
		return l.newToken(TokenBitNot, "~", start)
	case '.':
		return two('.', TokenDotDot, TokenDot)
	case '?':
		return l.newToken(TokenQuestion, "?", start)
	case '(':
		l.groupDepth++
		return l.newToken(TokenLParen, "(", start)
	case ')':
		if l.groupDepth > 0 {
			l.groupDepth--
		}
		return l.newToken(TokenRParen, ")", start)
	case '[':
		l.groupDepth++
		return l.newToken(TokenLBracket, "[", start)
	case ']':
		if l.groupDepth > 0 {
			l.groupDepth--
		}
		return l.newToken(TokenRBracket, "]", start)
	case '{':
		l.groupDepth++
		return l.newToken(TokenLBrace, "{", start)
	case '}':
		if l.groupDepth > 0 {
			l.groupDepth--
		}
		return l.newToken(TokenRBrace, "}", start)
	case ';':
		return l.newToken(TokenSemicolon, ";", start)
	case ',':
		return l.newToken(TokenComma, ",", start)
	case ':':
		return l.newToken(TokenColon, ":", start)
	case '@':
		return l.newToken(TokenAt, "@", start)
	default:
		return l.newToken(TokenError, l.input[start.Offset:l.pos], start)
	}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
