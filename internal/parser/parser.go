// Package parser turns a Lumen token stream into an arena-backed
// syntax tree.
//
// The parser is recursive descent with bounded lookahead (never more
// than two tokens) and an operator-precedence core for expressions.
// Errors never abort a parse: each error is recorded, the cursor is
// moved forward to a synchronization point, and parsing resumes, so
// one pass reports every independent error in source order and always
// yields a tree for the parts it understood.
package parser

import (
	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/lexer"
)

// Parser holds the state of one parse: the token cursor, the arena the
// tree is built in, and the diagnostics collected so far.
type Parser struct {
	cursor *Cursor
	arena  *ast.Arena
	file   string
	errors []*ParseError

	// groupDepth counts open ( [ { in the parser's view. While it is
	// positive, NEWLINE tokens are skipped instead of terminating
	// statements, so expressions may span lines inside groupings.
	groupDepth int

	lastEnd lexer.Position
}

func newParser(file string, tokens []lexer.Token) *Parser {
	return &Parser{
		cursor: NewCursor(tokens),
		arena:  ast.NewArena(),
		file:   file,
	}
}

// ParseSource lexes and parses one compilation unit.
func ParseSource(filename, src string) (*ast.Tree, []*ParseError) {
	return ParseCompilationUnit(filename, lexer.Tokenize(src))
}

// ParseCompilationUnit parses a full token stream into a file tree.
// The returned tree is always usable; errors describe the parts that
// had to be skipped.
func ParseCompilationUnit(filename string, tokens []lexer.Token) (*ast.Tree, []*ParseError) {
	p := newParser(filename, tokens)
	root := p.parseFile()
	return &ast.Tree{Arena: p.arena, Root: root, Filename: filename}, p.errors
}

// ParseExpression parses a token stream holding exactly one expression.
func ParseExpression(tokens []lexer.Token) (*ast.Tree, []*ParseError) {
	p := newParser("", tokens)
	for p.at(lexer.TokenNewline) {
		p.next()
	}
	root := p.parseExpression(LOWEST)
	for p.at(lexer.TokenNewline) || p.at(lexer.TokenDedent) {
		p.next()
	}
	if !p.at(lexer.TokenEOF) {
		p.errorAt(p.cur(), "end of expression")
	}
	return &ast.Tree{Arena: p.arena, Root: root}, p.errors
}

// Cursor helpers.

func (p *Parser) cur() lexer.Token {
	return p.cursor.Peek(0)
}

func (p *Parser) peekIs(k int, tt lexer.TokenType) bool {
	return p.cursor.Peek(k).Type == tt
}

func (p *Parser) at(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

func (p *Parser) next() lexer.Token {
	tok := p.cursor.Advance()
	p.lastEnd = tok.Span.End
	return tok
}

func (p *Parser) accept(tt lexer.TokenType) bool {
	if p.at(tt) {
		p.next()
		return true
	}
	return false
}

// expect consumes a token of the given type or records an error in
// place without consuming anything.
func (p *Parser) expect(tt lexer.TokenType, what string) bool {
	tok, ok := p.cursor.Expect(tt)
	if ok {
		p.lastEnd = tok.Span.End
		return true
	}
	p.errorAt(tok, what)
	return false
}

func (p *Parser) errorAt(tok lexer.Token, expected string) {
	p.errors = append(p.errors, &ParseError{
		File:     p.file,
		Span:     tok.Span,
		Expected: expected,
		Found:    describeToken(tok),
	})
}

func (p *Parser) alloc(n ast.Node) ast.NodeID {
	return p.arena.Alloc(n)
}

func (p *Parser) node(id ast.NodeID) *ast.Node {
	return p.arena.Get(id)
}

// spanFrom builds a span from a start position to the end of the most
// recently consumed token.
func (p *Parser) spanFrom(start lexer.Position) lexer.Span {
	return lexer.Span{Start: start, End: p.lastEnd}
}

// skipGroupedLayout discards NEWLINE tokens while inside an open
// grouping, where line ends have no statement meaning.
func (p *Parser) skipGroupedLayout() {
	for p.groupDepth > 0 && p.at(lexer.TokenNewline) {
		p.next()
	}
}

// File structure.

func (p *Parser) parseFile() ast.NodeID {
	start := p.cur().Span.Start
	var decls []ast.NodeID
	for !p.at(lexer.TokenEOF) {
		switch p.cur().Type {
		case lexer.TokenNewline, lexer.TokenSemicolon:
			p.next()
		case lexer.TokenRBrace, lexer.TokenIndent, lexer.TokenDedent:
			p.errorAt(p.cur(), "declaration or statement")
			p.next()
		default:
			if d := p.parseStatementRecovered(); d != ast.NoNode {
				decls = append(decls, d)
			}
		}
	}
	return p.alloc(ast.Node{Kind: ast.KindFile, List: decls, Span: p.spanFrom(start)})
}

// parseStatementRecovered wraps one statement parse with panic-mode
// recovery. On failure the cursor is advanced to the statement sync
// set; if no token was consumed at all, one is skipped so the caller's
// loop always makes progress.
func (p *Parser) parseStatementRecovered() ast.NodeID {
	before := p.cursor.Offset()
	id := p.parseStatement()
	if id == ast.NoNode {
		p.recover(statementSync)
		if p.cursor.Offset() == before {
			p.next()
		}
	}
	return id
}

func (p *Parser) parseStatement() ast.NodeID {
	switch p.cur().Type {
	case lexer.TokenError:
		tok := p.cur()
		p.errorAt(tok, "valid token")
		p.next()
		return ast.NoNode
	case lexer.TokenAt, lexer.TokenPub, lexer.TokenExtern,
		lexer.TokenFn, lexer.TokenStruct, lexer.TokenTypeKeyword,
		lexer.TokenLet, lexer.TokenVar, lexer.TokenConst:
		return p.parseDeclaration()
	case lexer.TokenIf:
		return p.parseIfStmt()
	case lexer.TokenWhile:
		return p.parseWhileStmt()
	case lexer.TokenFor:
		return p.parseForStmt()
	case lexer.TokenReturn:
		return p.parseReturnStmt()
	case lexer.TokenBreak:
		tok := p.next()
		p.endOfStatement("'break'")
		return p.alloc(ast.Node{Kind: ast.KindBreakStmt, Span: tok.Span})
	case lexer.TokenContinue:
		tok := p.next()
		p.endOfStatement("'continue'")
		return p.alloc(ast.Node{Kind: ast.KindContinueStmt, Span: tok.Span})
	case lexer.TokenLBrace:
		return p.parseBlock(false)
	default:
		start := p.cur().Span.Start
		e := p.parseExpression(LOWEST)
		if e == ast.NoNode {
			return ast.NoNode
		}
		p.endOfStatement("expression")
		return p.alloc(ast.Node{Kind: ast.KindExprStmt, X: e, Span: p.spanFrom(start)})
	}
}

// endOfStatement requires a statement terminator: ';' or a line end.
// Block terminators and EOF end the last statement implicitly. Inside
// an open grouping line ends are meaningless and nothing is required.
func (p *Parser) endOfStatement(what string) {
	if p.groupDepth > 0 {
		return
	}
	switch p.cur().Type {
	case lexer.TokenSemicolon, lexer.TokenNewline:
		p.next()
	case lexer.TokenRBrace, lexer.TokenDedent, lexer.TokenEOF:
	default:
		p.errorAt(p.cur(), "';' or line break after "+what)
		p.recover(statementSync)
		if p.at(lexer.TokenSemicolon) || p.at(lexer.TokenNewline) {
			p.next()
		}
	}
}

// Blocks.

// parseBlock parses a block in either delimiter style: '{ ... }' or a
// line break followed by an indented region. When allowSingleStmt is
// true and neither opener is present, a single statement is parsed and
// wrapped in a synthetic block, which is the body shortcut for
// control-flow headers.
func (p *Parser) parseBlock(allowSingleStmt bool) ast.NodeID {
	start := p.cur().Span.Start
	switch {
	case p.at(lexer.TokenLBrace):
		p.next()
		stmts := p.parseBlockStatements()
		p.closeBlock(lexer.TokenLBrace, "block")
		return p.alloc(ast.Node{
			Kind: ast.KindBlock,
			Op:   lexer.TokenLBrace,
			List: stmts,
			Span: p.spanFrom(start),
		})
	case p.at(lexer.TokenNewline) && p.peekIs(1, lexer.TokenIndent):
		p.next()
		p.next()
		stmts := p.parseBlockStatements()
		p.closeBlock(lexer.TokenIndent, "block")
		return p.alloc(ast.Node{
			Kind: ast.KindBlock,
			Op:   lexer.TokenIndent,
			List: stmts,
			Span: p.spanFrom(start),
		})
	default:
		if allowSingleStmt {
			var list []ast.NodeID
			if s := p.parseStatementRecovered(); s != ast.NoNode {
				list = append(list, s)
			}
			return p.alloc(ast.Node{Kind: ast.KindBlock, List: list, Span: p.spanFrom(start)})
		}
		p.errorAt(p.cur(), "'{' or indented block")
		return ast.NoNode
	}
}

func (p *Parser) parseBlockStatements() []ast.NodeID {
	var stmts []ast.NodeID
	for !p.atBlockEnd() {
		switch p.cur().Type {
		case lexer.TokenNewline, lexer.TokenSemicolon:
			p.next()
		case lexer.TokenIndent:
			p.errorAt(p.cur(), "statement")
			p.next()
		default:
			if s := p.parseStatementRecovered(); s != ast.NoNode {
				stmts = append(stmts, s)
			}
		}
	}
	return stmts
}

func (p *Parser) atBlockEnd() bool {
	switch p.cur().Type {
	case lexer.TokenRBrace, lexer.TokenDedent, lexer.TokenEOF:
		return true
	}
	return false
}

// openBody consumes a block opener for constructs that manage their
// own body loop, such as match expressions and struct declarations.
func (p *Parser) openBody() (lexer.TokenType, bool) {
	if p.at(lexer.TokenLBrace) {
		p.next()
		return lexer.TokenLBrace, true
	}
	if p.at(lexer.TokenNewline) && p.peekIs(1, lexer.TokenIndent) {
		p.next()
		p.next()
		return lexer.TokenIndent, true
	}
	return lexer.TokenEOF, false
}

// closeBlock consumes the block terminator and enforces delimiter
// hygiene: a block opened with '{' must close with '}', one opened by
// indentation must close with a dedent. A mismatched terminator is an
// error and is left in place, since it usually belongs to an
// enclosing block.
func (p *Parser) closeBlock(opener lexer.TokenType, what string) {
	switch {
	case opener == lexer.TokenLBrace && p.at(lexer.TokenRBrace):
		p.next()
	case opener == lexer.TokenIndent && p.at(lexer.TokenDedent):
		p.next()
	case opener == lexer.TokenLBrace && p.at(lexer.TokenDedent):
		p.errorAt(p.cur(), "'}' to close "+what+" opened with '{'")
	case opener == lexer.TokenIndent && p.at(lexer.TokenRBrace):
		p.errorAt(p.cur(), "end of indented "+what+" before '}'")
	case opener == lexer.TokenLBrace:
		p.errorAt(p.cur(), "'}' to close "+what)
	default:
		p.errorAt(p.cur(), "end of indented "+what)
	}
}

// Declarations.

// parseDeclaration parses leading attributes and qualifiers, then the
// declaration they modify. Qualifier order is fixed: 'pub' comes
// before 'extern'. Misplaced or repeated qualifiers are reported but
// consumed, so the declaration itself still parses.
func (p *Parser) parseDeclaration() ast.NodeID {
	start := p.cur().Span.Start
	attrs := p.parseAttributes()
	flags := p.parseQualifiers()

	switch p.cur().Type {
	case lexer.TokenFn:
		return p.parseFnDecl(start, flags, attrs)
	case lexer.TokenLet, lexer.TokenVar, lexer.TokenConst:
		return p.parseVarDecl(start, flags, attrs)
	case lexer.TokenStruct:
		return p.parseStructDecl(start, flags, attrs)
	case lexer.TokenTypeKeyword:
		return p.parseTypeDecl(start, flags, attrs)
	default:
		p.errorAt(p.cur(), "declaration")
		return ast.NoNode
	}
}

func (p *Parser) parseAttributes() []ast.NodeID {
	var attrs []ast.NodeID
	for p.at(lexer.TokenAt) {
		start := p.next().Span.Start
		name := p.cur()
		if !p.expect(lexer.TokenIdentifier, "attribute name after '@'") {
			return attrs
		}
		var args []ast.NodeID
		if p.accept(lexer.TokenLParen) {
			p.groupDepth++
			p.skipGroupedLayout()
			for !p.at(lexer.TokenRParen) && !p.at(lexer.TokenEOF) {
				arg := p.parseExpression(LOWEST)
				if arg == ast.NoNode {
					p.recover(NewSyncSet(lexer.TokenComma, lexer.TokenRParen))
				} else {
					args = append(args, arg)
				}
				if !p.accept(lexer.TokenComma) {
					break
				}
				p.skipGroupedLayout()
			}
			p.expect(lexer.TokenRParen, "')' to close attribute arguments")
			p.groupDepth--
		}
		attrs = append(attrs, p.alloc(ast.Node{
			Kind: ast.KindAttribute,
			Text: name.Literal,
			List: args,
			Span: p.spanFrom(start),
		}))
		// An attribute may sit on its own line above the declaration.
		p.accept(lexer.TokenNewline)
	}
	return attrs
}

func (p *Parser) parseQualifiers() ast.NodeFlags {
	var flags ast.NodeFlags
	for {
		switch tok := p.cur(); tok.Type {
		case lexer.TokenPub:
			if flags&ast.FlagPub != 0 {
				p.errorAt(tok, "at most one 'pub' qualifier")
			} else if flags&ast.FlagExtern != 0 {
				p.errorAt(tok, "'pub' before 'extern'")
			}
			flags |= ast.FlagPub
			p.next()
		case lexer.TokenExtern:
			if flags&ast.FlagExtern != 0 {
				p.errorAt(tok, "at most one 'extern' qualifier")
			}
			flags |= ast.FlagExtern
			p.next()
		default:
			return flags
		}
	}
}

func (p *Parser) parseFnDecl(start lexer.Position, flags ast.NodeFlags, attrs []ast.NodeID) ast.NodeID {
	p.next() // fn
	name := p.cur()
	if !p.expect(lexer.TokenIdentifier, "function name") {
		return ast.NoNode
	}

	params := p.parseParamList()

	var ret ast.NodeID
	if p.accept(lexer.TokenArrow) {
		ret = p.parseType()
	}

	var body ast.NodeID
	if p.at(lexer.TokenLBrace) || (p.at(lexer.TokenNewline) && p.peekIs(1, lexer.TokenIndent)) {
		body = p.parseBlock(false)
	} else {
		// Forward declaration without a body.
		p.endOfStatement("function declaration")
	}

	return p.alloc(ast.Node{
		Kind:  ast.KindFnDecl,
		Flags: flags,
		Text:  name.Literal,
		List:  params,
		X:     ret,
		Y:     body,
		Attrs: attrs,
		Span:  p.spanFrom(start),
	})
}

func (p *Parser) parseParamList() []ast.NodeID {
	if !p.expect(lexer.TokenLParen, "'(' to open parameter list") {
		return nil
	}
	p.groupDepth++
	defer func() { p.groupDepth-- }()

	var params []ast.NodeID
	p.skipGroupedLayout()
	for !p.at(lexer.TokenRParen) && !p.at(lexer.TokenEOF) {
		name := p.cur()
		if !p.expect(lexer.TokenIdentifier, "parameter name") {
			p.recover(NewSyncSet(lexer.TokenComma, lexer.TokenRParen))
			if !p.accept(lexer.TokenComma) {
				break
			}
			continue
		}
		var typ ast.NodeID
		if p.expect(lexer.TokenColon, "':' after parameter name") {
			typ = p.parseType()
		}
		params = append(params, p.alloc(ast.Node{
			Kind: ast.KindParam,
			Text: name.Literal,
			X:    typ,
			Span: p.spanFrom(name.Span.Start),
		}))
		if !p.accept(lexer.TokenComma) {
			break
		}
		p.skipGroupedLayout()
	}
	p.expect(lexer.TokenRParen, "')' to close parameter list")
	return params
}

func (p *Parser) parseVarDecl(start lexer.Position, flags ast.NodeFlags, attrs []ast.NodeID) ast.NodeID {
	kw := p.next() // let, var or const

	var name string
	var pat ast.NodeID
	if p.at(lexer.TokenLParen) || (p.at(lexer.TokenIdentifier) && p.peekIs(1, lexer.TokenLBrace)) {
		pat = p.parsePattern()
		if pat == ast.NoNode {
			return ast.NoNode
		}
	} else {
		tok := p.cur()
		if !p.expect(lexer.TokenIdentifier, "name after '"+kw.Literal+"'") {
			return ast.NoNode
		}
		name = tok.Literal
	}

	var typ ast.NodeID
	if p.accept(lexer.TokenColon) {
		typ = p.parseType()
	}
	var init ast.NodeID
	if p.accept(lexer.TokenAssign) {
		init = p.parseExpression(LOWEST)
	}
	if kw.Type == lexer.TokenConst && init == ast.NoNode {
		p.errorAt(p.cur(), "initializer for 'const' declaration")
	}
	p.endOfStatement("declaration")

	return p.alloc(ast.Node{
		Kind:  ast.KindVarDecl,
		Flags: flags,
		Op:    kw.Type,
		Text:  name,
		X:     typ,
		Y:     init,
		Z:     pat,
		Attrs: attrs,
		Span:  p.spanFrom(start),
	})
}

func (p *Parser) parseStructDecl(start lexer.Position, flags ast.NodeFlags, attrs []ast.NodeID) ast.NodeID {
	p.next() // struct
	name := p.cur()
	if !p.expect(lexer.TokenIdentifier, "struct name") {
		return ast.NoNode
	}

	opener, ok := p.openBody()
	if !ok {
		p.errorAt(p.cur(), "'{' or indented block with struct fields")
		return ast.NoNode
	}

	var fields []ast.NodeID
	fieldSync := NewSyncSet(lexer.TokenNewline, lexer.TokenComma,
		lexer.TokenRBrace, lexer.TokenDedent)
	for !p.atBlockEnd() {
		if p.at(lexer.TokenNewline) || p.at(lexer.TokenComma) || p.at(lexer.TokenSemicolon) {
			p.next()
			continue
		}
		fname := p.cur()
		if !p.expect(lexer.TokenIdentifier, "field name") {
			p.recover(fieldSync)
			continue
		}
		if !p.expect(lexer.TokenColon, "':' after field name") {
			p.recover(fieldSync)
			continue
		}
		ftype := p.parseType()
		fields = append(fields, p.alloc(ast.Node{
			Kind: ast.KindFieldDecl,
			Text: fname.Literal,
			X:    ftype,
			Span: p.spanFrom(fname.Span.Start),
		}))
	}
	p.closeBlock(opener, "struct body")

	return p.alloc(ast.Node{
		Kind:  ast.KindStructDecl,
		Flags: flags,
		Text:  name.Literal,
		List:  fields,
		Attrs: attrs,
		Span:  p.spanFrom(start),
	})
}

func (p *Parser) parseTypeDecl(start lexer.Position, flags ast.NodeFlags, attrs []ast.NodeID) ast.NodeID {
	p.next() // type
	name := p.cur()
	if !p.expect(lexer.TokenIdentifier, "type name") {
		return ast.NoNode
	}
	if !p.expect(lexer.TokenAssign, "'=' in type declaration") {
		return ast.NoNode
	}
	aliased := p.parseType()
	p.endOfStatement("type declaration")

	return p.alloc(ast.Node{
		Kind:  ast.KindTypeDecl,
		Flags: flags,
		Text:  name.Literal,
		X:     aliased,
		Attrs: attrs,
		Span:  p.spanFrom(start),
	})
}

func (p *Parser) parseType() ast.NodeID {
	start := p.cur().Span.Start
	switch p.cur().Type {
	case lexer.TokenIdentifier:
		name := p.next()
		return p.alloc(ast.Node{
			Kind: ast.KindNamedType,
			Text: name.Literal,
			Span: p.spanFrom(start),
		})
	case lexer.TokenLBracket:
		p.next()
		p.groupDepth++
		elem := p.parseType()
		p.groupDepth--
		p.expect(lexer.TokenRBracket, "']' to close list type")
		return p.alloc(ast.Node{
			Kind: ast.KindListType,
			X:    elem,
			Span: p.spanFrom(start),
		})
	case lexer.TokenMul:
		p.next()
		pointee := p.parseType()
		return p.alloc(ast.Node{
			Kind: ast.KindPointerType,
			X:    pointee,
			Span: p.spanFrom(start),
		})
	case lexer.TokenFn:
		p.next()
		if !p.expect(lexer.TokenLParen, "'(' in function type") {
			return ast.NoNode
		}
		p.groupDepth++
		var params []ast.NodeID
		p.skipGroupedLayout()
		for !p.at(lexer.TokenRParen) && !p.at(lexer.TokenEOF) {
			param := p.parseType()
			if param == ast.NoNode {
				break
			}
			params = append(params, param)
			if !p.accept(lexer.TokenComma) {
				break
			}
			p.skipGroupedLayout()
		}
		p.groupDepth--
		p.expect(lexer.TokenRParen, "')' to close function type")
		var ret ast.NodeID
		if p.accept(lexer.TokenArrow) {
			ret = p.parseType()
		}
		return p.alloc(ast.Node{
			Kind: ast.KindFnType,
			List: params,
			X:    ret,
			Span: p.spanFrom(start),
		})
	default:
		p.errorAt(p.cur(), "type")
		return ast.NoNode
	}
}

// Statements.

func (p *Parser) parseIfStmt() ast.NodeID {
	start := p.cur().Span.Start
	p.next() // if

	// The condition is the maximal expression before the body, so
	// "if x (y)" reads the call "x(y)" as the condition.
	cond := p.parseExpression(LOWEST)
	body := p.parseBlock(true)

	var els ast.NodeID
	if p.at(lexer.TokenNewline) && p.peekIs(1, lexer.TokenElse) {
		p.next()
	}
	if p.accept(lexer.TokenElse) {
		if p.at(lexer.TokenIf) {
			els = p.parseIfStmt()
		} else {
			els = p.parseBlock(true)
		}
	}

	return p.alloc(ast.Node{
		Kind: ast.KindIfStmt,
		X:    cond,
		Y:    body,
		Z:    els,
		Span: p.spanFrom(start),
	})
}

func (p *Parser) parseWhileStmt() ast.NodeID {
	start := p.cur().Span.Start
	p.next() // while
	cond := p.parseExpression(LOWEST)
	body := p.parseBlock(true)
	return p.alloc(ast.Node{
		Kind: ast.KindWhileStmt,
		X:    cond,
		Y:    body,
		Span: p.spanFrom(start),
	})
}

func (p *Parser) parseForStmt() ast.NodeID {
	start := p.cur().Span.Start
	p.next() // for
	name := p.cur()
	if !p.expect(lexer.TokenIdentifier, "loop variable") {
		return ast.NoNode
	}
	if !p.expect(lexer.TokenIn, "'in' after loop variable") {
		return ast.NoNode
	}
	iter := p.parseExpression(LOWEST)
	body := p.parseBlock(true)
	return p.alloc(ast.Node{
		Kind: ast.KindForStmt,
		Text: name.Literal,
		X:    iter,
		Y:    body,
		Span: p.spanFrom(start),
	})
}

func (p *Parser) parseReturnStmt() ast.NodeID {
	start := p.cur().Span.Start
	p.next() // return
	var val ast.NodeID
	switch p.cur().Type {
	case lexer.TokenSemicolon, lexer.TokenNewline, lexer.TokenRBrace,
		lexer.TokenDedent, lexer.TokenEOF:
	default:
		val = p.parseExpression(LOWEST)
	}
	p.endOfStatement("return statement")
	return p.alloc(ast.Node{
		Kind: ast.KindReturnStmt,
		X:    val,
		Span: p.spanFrom(start),
	})
}
