package parser

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/lexer"
)

// Cursor is a forward-only view over a finite token stream. Lookahead
// is bounded: the parser never peeks more than two tokens ahead.
type Cursor struct {
	tokens []lexer.Token
	pos    int
}

// NewCursor wraps a token stream. The stream must be terminated by
// exactly one EOF token; anything else is a contract violation of the
// lexer interface and panics rather than producing a ParseError.
func NewCursor(tokens []lexer.Token) *Cursor {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.TokenEOF {
		panic("parser: token stream must be terminated by EOF")
	}
	for i := 0; i < len(tokens)-1; i++ {
		if tokens[i].Type == lexer.TokenEOF {
			panic(fmt.Sprintf("parser: interior EOF token at index %d", i))
		}
	}
	return &Cursor{tokens: tokens}
}

// Peek returns the token k positions ahead without consuming it.
// k=0 is the current token. Peeking past the end yields the terminal EOF.
func (c *Cursor) Peek(k int) lexer.Token {
	i := c.pos + k
	if i >= len(c.tokens) {
		i = len(c.tokens) - 1
	}
	return c.tokens[i]
}

// Expect consumes and returns the current token when it has the wanted
// type. Otherwise the current token is returned unconsumed, and the
// caller decides how to report it.
func (c *Cursor) Expect(tt lexer.TokenType) (lexer.Token, bool) {
	if c.Peek(0).Type == tt {
		return c.Advance(), true
	}
	return c.Peek(0), false
}

// Advance consumes and returns the current token. At the terminal EOF
// it is a no-op that keeps returning EOF.
func (c *Cursor) Advance() lexer.Token {
	tok := c.tokens[c.pos]
	if c.pos < len(c.tokens)-1 {
		c.pos++
	}
	return tok
}

// Pos returns the source position of the current token.
func (c *Cursor) Pos() lexer.Position {
	return c.Peek(0).Span.Start
}

// Offset returns the index of the current token in the stream. Used by
// recovery to detect lack of progress.
func (c *Cursor) Offset() int {
	return c.pos
}
