package parser

import (
	"github.com/lumen-lang/lumen/internal/lexer"
)

// SyncSet is a set of token types considered safe resumption points
// after a parse error. The active set is passed explicitly so that
// recovery stays a pure function of (cursor, set).
type SyncSet map[lexer.TokenType]bool

// NewSyncSet builds a synchronization set. EOF is always a member so
// recovery is guaranteed to terminate.
func NewSyncSet(kinds ...lexer.TokenType) SyncSet {
	set := make(SyncSet, len(kinds)+1)
	for _, k := range kinds {
		set[k] = true
	}
	set[lexer.TokenEOF] = true
	return set
}

// statementSync is the synchronization set for statement and
// declaration boundaries: everything that can start a statement, plus
// statement and block terminators.
var statementSync = NewSyncSet(
	lexer.TokenFn,
	lexer.TokenLet,
	lexer.TokenVar,
	lexer.TokenConst,
	lexer.TokenStruct,
	lexer.TokenTypeKeyword,
	lexer.TokenPub,
	lexer.TokenExtern,
	lexer.TokenAt,
	lexer.TokenIf,
	lexer.TokenWhile,
	lexer.TokenFor,
	lexer.TokenMatch,
	lexer.TokenReturn,
	lexer.TokenBreak,
	lexer.TokenContinue,
	lexer.TokenSemicolon,
	lexer.TokenNewline,
	lexer.TokenRBrace,
	lexer.TokenDedent,
)

// resync implements panic-mode recovery: tokens are discarded until one
// in the set is found, and the reached synchronization point is
// classified. The cursor only ever moves forward, so diagnostics stay
// ordered and recovery terminates at the latest on EOF.
func (p *Parser) resync(set SyncSet) RecoveryKind {
	for {
		switch tt := p.cur().Type; {
		case tt == lexer.TokenEOF:
			return RecoverEOF
		case set[tt]:
			if tt == lexer.TokenRBrace || tt == lexer.TokenDedent {
				return RecoverBlockEnd
			}
			return RecoverStatement
		default:
			p.next()
		}
	}
}

// recover records the recovery point on the most recent error and
// discards tokens up to the given synchronization set.
func (p *Parser) recover(set SyncSet) {
	kind := p.resync(set)
	if len(p.errors) > 0 {
		p.errors[len(p.errors)-1].Recovery = kind
	}
}
