package parser

import (
	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/lexer"
)

// Precedence levels for operators, lowest binding power first.
type Precedence int

const (
	_ Precedence = iota
	LOWEST
	ASSIGN      // = += -= *= /= %=
	RANGE       // .. (non-associative)
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x ~x
	POWER       // ** (right associative)
	POSTFIX     // x?
	CALL        // f(x) a[i] a.b
)

// Associativity of an operator level.
type Associativity int

const (
	LeftAssociative Associativity = iota
	RightAssociative
	NonAssociative
)

// opInfo is one operator-table entry: binding power, associativity and
// whether the handler takes a right operand.
type opInfo struct {
	precedence Precedence
	assoc      Associativity
	postfix    bool
}

// infixOps is the LED table: every token type usable after a parsed
// left operand has exactly one entry. Binding powers form a strict
// order; ties exist only within one level, where associativity decides.
var infixOps = map[lexer.TokenType]opInfo{
	lexer.TokenAssign:      {ASSIGN, RightAssociative, false},
	lexer.TokenPlusAssign:  {ASSIGN, RightAssociative, false},
	lexer.TokenMinusAssign: {ASSIGN, RightAssociative, false},
	lexer.TokenMulAssign:   {ASSIGN, RightAssociative, false},
	lexer.TokenDivAssign:   {ASSIGN, RightAssociative, false},
	lexer.TokenModAssign:   {ASSIGN, RightAssociative, false},

	lexer.TokenDotDot: {RANGE, NonAssociative, false},

	lexer.TokenOr:  {LOGICAL_OR, LeftAssociative, false},
	lexer.TokenAnd: {LOGICAL_AND, LeftAssociative, false},

	lexer.TokenBitOr:  {BITWISE_OR, LeftAssociative, false},
	lexer.TokenBitXor: {BITWISE_XOR, LeftAssociative, false},
	lexer.TokenBitAnd: {BITWISE_AND, LeftAssociative, false},

	lexer.TokenEq: {EQUALS, LeftAssociative, false},
	lexer.TokenNe: {EQUALS, LeftAssociative, false},
	lexer.TokenLt: {LESSGREATER, LeftAssociative, false},
	lexer.TokenLe: {LESSGREATER, LeftAssociative, false},
	lexer.TokenGt: {LESSGREATER, LeftAssociative, false},
	lexer.TokenGe: {LESSGREATER, LeftAssociative, false},

	lexer.TokenShl: {SHIFT, LeftAssociative, false},
	lexer.TokenShr: {SHIFT, LeftAssociative, false},

	lexer.TokenPlus:  {SUM, LeftAssociative, false},
	lexer.TokenMinus: {SUM, LeftAssociative, false},

	lexer.TokenMul: {PRODUCT, LeftAssociative, false},
	lexer.TokenDiv: {PRODUCT, LeftAssociative, false},
	lexer.TokenMod: {PRODUCT, LeftAssociative, false},

	lexer.TokenPower: {POWER, RightAssociative, false},

	lexer.TokenQuestion: {POSTFIX, LeftAssociative, true},

	lexer.TokenLParen:   {CALL, LeftAssociative, true},
	lexer.TokenLBracket: {CALL, LeftAssociative, true},
	lexer.TokenDot:      {CALL, LeftAssociative, true},
}

// parseExpression parses a maximal expression whose operators all bind
// tighter than the given minimum. This is the core precedence-climbing
// loop: one NUD call for the left-hand side, then LED handlers while
// the table says to continue.
func (p *Parser) parseExpression(min Precedence) ast.NodeID {
	left := p.parsePrefix()
	if left == ast.NoNode {
		return ast.NoNode
	}

	for p.shouldContinue(min) {
		left = p.parseInfix(left)
	}
	return left
}

// shouldContinue decides whether the current token's LED binds tightly
// enough to extend the left-hand side. Left-associative operators stop
// on a peer at the same level, right-associative ones continue, and
// non-associative peers at the same level are a parse error.
func (p *Parser) shouldContinue(min Precedence) bool {
	p.skipGroupedLayout()

	info, ok := infixOps[p.cur().Type]
	if !ok {
		return false
	}
	if info.precedence > min {
		return true
	}
	if info.precedence < min {
		return false
	}
	switch info.assoc {
	case RightAssociative:
		return true
	case NonAssociative:
		p.errorAt(p.cur(), "no operator (non-associative operator cannot be chained)")
		return false
	default:
		return false
	}
}

// parsePrefix dispatches the NUD handler for the current token. The
// token set is closed, so dispatch is a switch rather than a handler
// registry.
func (p *Parser) parsePrefix() ast.NodeID {
	p.skipGroupedLayout()

	switch tok := p.cur(); tok.Type {
	case lexer.TokenIdentifier:
		p.next()
		return p.alloc(ast.Node{Kind: ast.KindIdent, Text: tok.Literal, Span: tok.Span})
	case lexer.TokenInteger:
		p.next()
		return p.alloc(ast.Node{Kind: ast.KindIntLit, Text: tok.Literal, Span: tok.Span})
	case lexer.TokenFloat:
		p.next()
		return p.alloc(ast.Node{Kind: ast.KindFloatLit, Text: tok.Literal, Span: tok.Span})
	case lexer.TokenString:
		p.next()
		return p.alloc(ast.Node{Kind: ast.KindStringLit, Text: tok.Literal, Span: tok.Span})
	case lexer.TokenBool:
		p.next()
		return p.alloc(ast.Node{Kind: ast.KindBoolLit, Text: tok.Literal, Span: tok.Span})
	case lexer.TokenMinus, lexer.TokenNot, lexer.TokenBitNot:
		p.next()
		operand := p.parseExpression(PREFIX)
		return p.alloc(ast.Node{
			Kind: ast.KindUnaryExpr,
			Op:   tok.Type,
			X:    operand,
			Span: p.spanFrom(tok.Span.Start),
		})
	case lexer.TokenLParen:
		return p.parseGroupedOrTuple()
	case lexer.TokenIf:
		return p.parseIfExpr()
	case lexer.TokenMatch:
		return p.parseMatchExpr()
	case lexer.TokenError:
		// Lexical error in operand position: consume it so it is
		// reported exactly once.
		p.errorAt(tok, "expression")
		p.next()
		return ast.NoNode
	default:
		p.errorAt(tok, "expression")
		return ast.NoNode
	}
}

// parseGroupedOrTuple parses "(expr)" or "(e1, e2, ...)". A bare
// grouped expression produces no node of its own.
func (p *Parser) parseGroupedOrTuple() ast.NodeID {
	open := p.cur()
	p.next()
	p.groupDepth++
	defer func() { p.groupDepth-- }()

	p.skipGroupedLayout()
	first := p.parseExpression(LOWEST)
	if first == ast.NoNode {
		p.recover(NewSyncSet(lexer.TokenRParen, lexer.TokenNewline, lexer.TokenSemicolon))
		p.accept(lexer.TokenRParen)
		return ast.NoNode
	}

	if !p.at(lexer.TokenComma) {
		p.expect(lexer.TokenRParen, "')' to close grouped expression")
		return first
	}

	elements := []ast.NodeID{first}
	for p.accept(lexer.TokenComma) {
		p.skipGroupedLayout()
		el := p.parseExpression(LOWEST)
		if el == ast.NoNode {
			break
		}
		elements = append(elements, el)
	}
	p.expect(lexer.TokenRParen, "')' to close tuple")
	return p.alloc(ast.Node{
		Kind: ast.KindTupleExpr,
		List: elements,
		Span: p.spanFrom(open.Span.Start),
	})
}

// parseInfix dispatches the LED handler for the current token. The
// caller has already checked the operator table.
func (p *Parser) parseInfix(left ast.NodeID) ast.NodeID {
	tok := p.cur()
	info := infixOps[tok.Type]
	start := p.node(left).Span.Start

	switch tok.Type {
	case lexer.TokenLParen:
		return p.parseCall(left, start)
	case lexer.TokenLBracket:
		return p.parseIndex(left, start)
	case lexer.TokenDot:
		return p.parseMember(left, start)
	case lexer.TokenQuestion:
		p.next()
		return p.alloc(ast.Node{
			Kind: ast.KindTryExpr,
			X:    left,
			Span: p.spanFrom(start),
		})
	case lexer.TokenAssign, lexer.TokenPlusAssign, lexer.TokenMinusAssign,
		lexer.TokenMulAssign, lexer.TokenDivAssign, lexer.TokenModAssign:
		p.next()
		right := p.parseExpression(info.precedence)
		return p.alloc(ast.Node{
			Kind: ast.KindAssignExpr,
			Op:   tok.Type,
			X:    left,
			Y:    right,
			Span: p.spanFrom(start),
		})
	default:
		p.next()
		right := p.parseExpression(info.precedence)
		return p.alloc(ast.Node{
			Kind: ast.KindBinaryExpr,
			Op:   tok.Type,
			X:    left,
			Y:    right,
			Span: p.spanFrom(start),
		})
	}
}

func (p *Parser) parseCall(callee ast.NodeID, start lexer.Position) ast.NodeID {
	p.next() // (
	p.groupDepth++

	var args []ast.NodeID
	p.skipGroupedLayout()
	if !p.at(lexer.TokenRParen) {
		for {
			arg := p.parseExpression(LOWEST)
			if arg == ast.NoNode {
				p.recover(NewSyncSet(lexer.TokenComma, lexer.TokenRParen,
					lexer.TokenNewline, lexer.TokenSemicolon))
			} else {
				args = append(args, arg)
			}
			if !p.accept(lexer.TokenComma) {
				break
			}
			p.skipGroupedLayout()
		}
	}
	p.expect(lexer.TokenRParen, "')' to close argument list")
	p.groupDepth--

	return p.alloc(ast.Node{
		Kind: ast.KindCallExpr,
		X:    callee,
		List: args,
		Span: p.spanFrom(start),
	})
}

func (p *Parser) parseIndex(indexed ast.NodeID, start lexer.Position) ast.NodeID {
	p.next() // [
	p.groupDepth++
	p.skipGroupedLayout()
	index := p.parseExpression(LOWEST)
	p.expect(lexer.TokenRBracket, "']' to close index expression")
	p.groupDepth--

	return p.alloc(ast.Node{
		Kind: ast.KindIndexExpr,
		X:    indexed,
		Y:    index,
		Span: p.spanFrom(start),
	})
}

func (p *Parser) parseMember(receiver ast.NodeID, start lexer.Position) ast.NodeID {
	p.next() // .
	name := p.cur()
	if !p.expect(lexer.TokenIdentifier, "member name after '.'") {
		return receiver
	}
	return p.alloc(ast.Node{
		Kind: ast.KindMemberExpr,
		X:    receiver,
		Text: name.Literal,
		Span: p.spanFrom(start),
	})
}

// parseIfExpr handles 'if' in expression position, e.g. on the right
// side of a binding. Both branches are blocks.
func (p *Parser) parseIfExpr() ast.NodeID {
	start := p.cur().Span.Start
	p.next() // if

	cond := p.parseExpression(LOWEST)
	then := p.parseBlock(false)

	var els ast.NodeID
	if p.at(lexer.TokenNewline) && p.peekIs(1, lexer.TokenElse) {
		p.next()
	}
	if p.accept(lexer.TokenElse) {
		if p.at(lexer.TokenIf) {
			els = p.parseIfExpr()
		} else {
			els = p.parseBlock(false)
		}
	}

	return p.alloc(ast.Node{
		Kind: ast.KindIfExpr,
		X:    cond,
		Y:    then,
		Z:    els,
		Span: p.spanFrom(start),
	})
}
