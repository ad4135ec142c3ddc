package parser

import (
	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/lexer"
)

// parsePattern parses one pattern as used in match arms and
// destructuring bindings. Dispatch needs at most two tokens of
// lookahead: an identifier followed by '{' starts an aggregate
// pattern, a bare identifier is a binding. Every production consumes
// exactly its own span, so the caller can require the following
// separator ('=>', '=') unconditionally.
func (p *Parser) parsePattern() ast.NodeID {
	switch tok := p.cur(); tok.Type {
	case lexer.TokenInteger, lexer.TokenFloat, lexer.TokenString, lexer.TokenBool:
		p.next()
		lit := p.alloc(ast.Node{Kind: literalKind(tok.Type), Text: tok.Literal, Span: tok.Span})
		return p.alloc(ast.Node{Kind: ast.KindLiteralPat, X: lit, Span: tok.Span})

	case lexer.TokenMinus:
		// Negative numeric literal pattern.
		p.next()
		num := p.cur()
		if num.Type != lexer.TokenInteger && num.Type != lexer.TokenFloat {
			p.errorAt(num, "numeric literal after '-' in pattern")
			return ast.NoNode
		}
		p.next()
		lit := p.alloc(ast.Node{Kind: literalKind(num.Type), Text: num.Literal, Span: num.Span})
		neg := p.alloc(ast.Node{
			Kind: ast.KindUnaryExpr,
			Op:   lexer.TokenMinus,
			X:    lit,
			Span: p.spanFrom(tok.Span.Start),
		})
		return p.alloc(ast.Node{Kind: ast.KindLiteralPat, X: neg, Span: p.spanFrom(tok.Span.Start)})

	case lexer.TokenUnderscore:
		p.next()
		return p.alloc(ast.Node{Kind: ast.KindWildcardPat, Span: tok.Span})

	case lexer.TokenIdentifier:
		if p.peekIs(1, lexer.TokenLBrace) {
			return p.parseAggregatePattern()
		}
		p.next()
		return p.alloc(ast.Node{Kind: ast.KindBindingPat, Text: tok.Literal, Span: tok.Span})

	case lexer.TokenLParen:
		return p.parseTuplePattern()

	default:
		p.errorAt(tok, "pattern")
		return ast.NoNode
	}
}

func literalKind(tt lexer.TokenType) ast.NodeKind {
	switch tt {
	case lexer.TokenInteger:
		return ast.KindIntLit
	case lexer.TokenFloat:
		return ast.KindFloatLit
	case lexer.TokenString:
		return ast.KindStringLit
	default:
		return ast.KindBoolLit
	}
}

// parseAggregatePattern parses 'Name { field, field: pat, .. }'. Each
// field is either a shorthand that binds a same-named variable or an
// explicit 'name: sub-pattern'; a trailing '..' marks the pattern as
// non-exhaustive over the aggregate's fields.
func (p *Parser) parseAggregatePattern() ast.NodeID {
	name := p.cur()
	p.next() // identifier
	p.next() // {
	p.groupDepth++

	var flags ast.NodeFlags
	var fields []ast.NodeID

	p.skipGroupedLayout()
	for !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
		if p.accept(lexer.TokenDotDot) {
			flags |= ast.FlagRest
			// The rest marker must be last.
			break
		}

		field := p.cur()
		if !p.expect(lexer.TokenIdentifier, "field name in aggregate pattern") {
			break
		}
		var sub ast.NodeID
		if p.accept(lexer.TokenColon) {
			sub = p.parsePattern()
		}
		fields = append(fields, p.alloc(ast.Node{
			Kind: ast.KindFieldPat,
			Text: field.Literal,
			X:    sub,
			Span: p.spanFrom(field.Span.Start),
		}))

		if !p.accept(lexer.TokenComma) {
			break
		}
		p.skipGroupedLayout()
	}

	p.expect(lexer.TokenRBrace, "'}' to close aggregate pattern")
	p.groupDepth--

	return p.alloc(ast.Node{
		Kind:  ast.KindAggregatePat,
		Text:  name.Literal,
		Flags: flags,
		List:  fields,
		Span:  p.spanFrom(name.Span.Start),
	})
}

// parseTuplePattern parses '(p1, p2, ...)'.
func (p *Parser) parseTuplePattern() ast.NodeID {
	open := p.cur()
	p.next() // (
	p.groupDepth++

	var elements []ast.NodeID
	p.skipGroupedLayout()
	for !p.at(lexer.TokenRParen) && !p.at(lexer.TokenEOF) {
		el := p.parsePattern()
		if el == ast.NoNode {
			break
		}
		elements = append(elements, el)
		if !p.accept(lexer.TokenComma) {
			break
		}
		p.skipGroupedLayout()
	}

	p.expect(lexer.TokenRParen, "')' to close tuple pattern")
	p.groupDepth--

	return p.alloc(ast.Node{
		Kind: ast.KindTuplePat,
		List: elements,
		Span: p.spanFrom(open.Span.Start),
	})
}

// parseMatchExpr parses 'match subject { arms }' in either delimiter
// style. Arms are 'pattern [if guard] => body' separated by commas or
// line breaks.
func (p *Parser) parseMatchExpr() ast.NodeID {
	start := p.cur().Span.Start
	p.next() // match

	subject := p.parseExpression(LOWEST)

	opener, ok := p.openBody()
	if !ok {
		p.errorAt(p.cur(), "'{' or indented block with match arms")
		return ast.NoNode
	}

	var arms []ast.NodeID
	for !p.atBlockEnd() {
		if p.at(lexer.TokenNewline) || p.at(lexer.TokenComma) {
			p.next()
			continue
		}
		arm := p.parseMatchArm()
		if arm == ast.NoNode {
			p.recover(NewSyncSet(lexer.TokenComma, lexer.TokenNewline,
				lexer.TokenRBrace, lexer.TokenDedent))
			continue
		}
		arms = append(arms, arm)
	}
	p.closeBlock(opener, "match body")

	return p.alloc(ast.Node{
		Kind: ast.KindMatchExpr,
		X:    subject,
		List: arms,
		Span: p.spanFrom(start),
	})
}

func (p *Parser) parseMatchArm() ast.NodeID {
	start := p.cur().Span.Start

	pat := p.parsePattern()
	if pat == ast.NoNode {
		return ast.NoNode
	}

	var guard ast.NodeID
	if p.accept(lexer.TokenIf) {
		guard = p.parseExpression(LOWEST)
	}

	if !p.expect(lexer.TokenFatArrow, "'=>' after match pattern") {
		return ast.NoNode
	}

	var body ast.NodeID
	if p.at(lexer.TokenLBrace) {
		body = p.parseBlock(false)
	} else {
		body = p.parseExpression(LOWEST)
		if body == ast.NoNode {
			return ast.NoNode
		}
	}

	return p.alloc(ast.Node{
		Kind: ast.KindMatchArm,
		X:    pat,
		Y:    guard,
		Z:    body,
		Span: p.spanFrom(start),
	})
}
