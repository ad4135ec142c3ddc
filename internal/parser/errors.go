package parser

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/lexer"
)

// RecoveryKind classifies the synchronization point reached after an
// error, for downstream diagnostics rendering.
type RecoveryKind int

const (
	// RecoverNone: no token skipping was needed.
	RecoverNone RecoveryKind = iota
	// RecoverStatement: resumed at a statement or declaration boundary.
	RecoverStatement
	// RecoverBlockEnd: resumed at a block terminator ('}' or DEDENT).
	RecoverBlockEnd
	// RecoverEOF: recovery ran off the end of the input.
	RecoverEOF
)

func (k RecoveryKind) String() string {
	switch k {
	case RecoverNone:
		return "none"
	case RecoverStatement:
		return "statement"
	case RecoverBlockEnd:
		return "block-end"
	case RecoverEOF:
		return "eof"
	default:
		return fmt.Sprintf("RecoveryKind(%d)", int(k))
	}
}

// ParseError describes a single syntax error: what was required, what
// was actually found, and where parsing resumed. Errors accumulate in
// strictly increasing source order; a parse is never aborted by one.
type ParseError struct {
	File     string
	Span     lexer.Span
	Expected string
	Found    string
	Recovery RecoveryKind
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%s: expected %s, found %s", e.File, e.Span.Start, e.Expected, e.Found)
	}
	return fmt.Sprintf("%s: expected %s, found %s", e.Span.Start, e.Expected, e.Found)
}

// describeToken renders a token for the Found field of a ParseError.
func describeToken(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenEOF:
		return "end of file"
	case lexer.TokenNewline:
		return "newline"
	case lexer.TokenIndent:
		return "indent"
	case lexer.TokenDedent:
		return "dedent"
	case lexer.TokenIdentifier:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case lexer.TokenInteger, lexer.TokenFloat, lexer.TokenString, lexer.TokenBool:
		return fmt.Sprintf("literal %s", tok.Literal)
	case lexer.TokenError:
		return fmt.Sprintf("invalid token (%s)", tok.Literal)
	default:
		return fmt.Sprintf("%q", tok.Type.Lexeme())
	}
}
