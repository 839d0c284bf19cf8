package parser

import (
	"io"
	"strconv"
	"strings"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithComments keeps ordinary comments, which are otherwise discarded.
// Documentation comments are always kept.
func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

func WithPositions() Option {
	return func(p *Parser) {
		p.includePositions = true
	}
}

type Parser struct {
	file             string
	includeComments  bool
	includePositions bool
	reader           io.Reader
	input            []byte
	lexer            *Lexer
	tokens           []Token
	comments         []Token
	docComments      map[int][]Token
	pos              int
}

func (p *Parser) IncludesPositions() bool {
	return p.includePositions
}

// Comments returns the ordinary comments in source order. It is empty
// unless the parser was created with WithComments.
func (p *Parser) Comments() []Token {
	return p.comments
}

// TreeString renders n as an indented tree followed by one line per
// ordinary comment.
func (p *Parser) TreeString(n *Node) string {
	var sb strings.Builder
	sb.WriteString(n.stringIndent(0, p.includePositions))
	for _, c := range p.comments {
		sb.WriteString(c.Kind.String())
		if p.includePositions {
			sb.WriteString(" [" + c.Span.Start.String() + "-" + c.Span.End.String() + "]")
		}
		sb.WriteString(" " + strconv.Quote(c.Literal) + "\n")
	}
	return sb.String()
}

// DocCommentBefore returns the documentation comment nearest to the left of
// n's first token. Only documentation comments lying between that token and
// the previous significant token are considered.
func (p *Parser) DocCommentBefore(n *Node) (Token, bool) {
	if n == nil {
		return Token{}, false
	}
	docs := p.docComments[n.Span.Start.Offset]
	if len(docs) == 0 {
		return Token{}, false
	}
	return docs[len(docs)-1], true
}

// ParseProgram prepares a parser for one PeopleCode program, typically the
// source of a single application class or interface.
func ParseProgram(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		reader: r,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

// Finish reads the remaining input and returns the program tree. It returns
// nil when the input cannot be read or is empty.
func (p *Parser) Finish() *Node {
	if err := p.readAll(); err != nil {
		return nil
	}
	if len(p.input) == 0 {
		return nil
	}
	p.lexer = NewLexer(p.input, p.file)
	p.tokens = nil
	p.comments = nil
	p.docComments = make(map[int][]Token)
	p.pos = 0
	p.tokenize()
	return p.parseProgram()
}

func (p *Parser) tokenize() {
	var pending []Token
	for {
		tok := p.lexer.NextToken()
		if tok.Kind == TokenWhitespace {
			continue
		}
		if tok.Kind == TokenDocComment {
			pending = append(pending, tok)
			continue
		}
		if tok.Kind.IsComment() {
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		if len(pending) > 0 {
			p.docComments[tok.Span.Start.Offset] = pending
			pending = nil
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

// isIdentifierLike reports whether the next token can serve as a name.
// Several keywords are only reserved in specific positions and double as
// ordinary names elsewhere.
func (p *Parser) isIdentifierLike() bool {
	switch p.peek().Kind {
	case TokenIdent,
		TokenGet, TokenSet, TokenOut, TokenAs, TokenOf,
		TokenReadonly, TokenAbstract, TokenException, TokenReturns:
		return true
	}
	return false
}

// isWord reports whether the next token is spelled like an identifier,
// keyword or not. Package path segments after the first may be any word.
func (p *Parser) isWord() bool {
	kind := p.peek().Kind
	if kind == TokenIdent {
		return true
	}
	return kind >= TokenTrue && kind <= TokenException
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else if len(p.tokens) > 0 {
		n.Span.End = p.tokens[len(p.tokens)-1].Span.End
	}
	return n
}

func (p *Parser) tokenNode(kind NodeKind) *Node {
	tok := p.advance()
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

func (p *Parser) errorNode(msg string, recoverTo []TokenKind, expected ...TokenKind) *Node {
	tok := p.peek()
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.End},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	p.recoverTo(recoverTo)
	return node
}

// missingNode reports an error at the next token without consuming it.
func (p *Parser) missingNode(msg string, expected ...TokenKind) *Node {
	tok := p.peek()
	return &Node{
		Kind: KindError,
		Span: tok.Span,
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
}

func (p *Parser) recoverTo(kinds []TokenKind) {
	if !p.check(TokenEOF) {
		p.advance()
	}
	if len(kinds) == 0 {
		return
	}
	for !p.check(TokenEOF) {
		for _, kind := range kinds {
			if p.check(kind) {
				return
			}
		}
		p.advance()
	}
}

// skipSemicolon consumes an optional statement terminator.
func (p *Parser) skipSemicolon() {
	if p.check(TokenSemicolon) {
		p.advance()
	}
}

var topLevelStarts = []TokenKind{
	TokenImport, TokenClass, TokenInterface, TokenMethod, TokenGet, TokenSet,
}

func (p *Parser) parseProgram() *Node {
	node := p.startNode(KindProgram)

	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		switch p.peek().Kind {
		case TokenSemicolon:
			p.advance()
		case TokenImport:
			node.AddChild(p.parseImportDecl())
		case TokenClass:
			node.AddChild(p.parseClassDecl())
		case TokenInterface:
			node.AddChild(p.parseInterfaceDecl())
		case TokenMethod:
			node.AddChild(p.parseImplementation(KindMethodImpl, TokenMethod, TokenEndMethod))
		case TokenGet:
			node.AddChild(p.parseImplementation(KindGetterImpl, TokenGet, TokenEndGet))
		case TokenSet:
			node.AddChild(p.parseImplementation(KindSetterImpl, TokenSet, TokenEndSet))
		default:
			node.AddChild(p.parseStatement())
		}
		if !progress() {
			break
		}
	}

	return p.finishNode(node)
}

// parseStatement skips a statement this parser does not model, up to and
// including its terminating semicolon.
func (p *Parser) parseStatement() *Node {
	node := p.startNode(KindStatement)
	p.advance()
	for !p.check(TokenEOF) && !p.check(TokenSemicolon) && !p.match(topLevelStarts...) {
		p.advance()
	}
	p.skipSemicolon()
	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.expect(TokenImport)
	if !p.isWord() {
		node.AddChild(p.errorNode("expected package or class path", []TokenKind{TokenSemicolon}, TokenIdent))
		p.skipSemicolon()
		return p.finishNode(node)
	}
	node.AddChild(p.parseAppClassPath(true))
	if p.expect(TokenSemicolon) == nil {
		node.AddChild(p.errorNode("expected ';'", []TokenKind{TokenSemicolon}, TokenSemicolon))
		p.skipSemicolon()
	}
	return p.finishNode(node)
}

// parseAppClassPath parses PKG:SUB:Name. Import declarations may end the
// path with '*'.
func (p *Parser) parseAppClassPath(allowStar bool) *Node {
	node := p.startNode(KindAppClassPath)
	node.AddChild(p.tokenNode(KindIdentifier))
	for p.check(TokenColon) {
		p.advance()
		switch {
		case p.isWord():
			node.AddChild(p.tokenNode(KindIdentifier))
		case allowStar && p.check(TokenStar):
			node.AddChild(p.tokenNode(KindIdentifier))
			return p.finishNode(node)
		default:
			node.AddChild(p.errorNode("expected path segment", nil, TokenIdent))
			return p.finishNode(node)
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseIdentifier() *Node {
	if p.isIdentifierLike() {
		return p.tokenNode(KindIdentifier)
	}
	return p.missingNode("expected identifier", TokenIdent)
}

func (p *Parser) parseClassDecl() *Node {
	node := p.startNode(KindClassDecl)
	p.expect(TokenClass)
	node.AddChild(p.parseIdentifier())

	switch {
	case p.check(TokenExtends):
		node.AddChild(p.parseExtendsClause())
	case p.check(TokenImplements):
		node.AddChild(p.parseImplementsClause())
	}

	p.parseSections(node, TokenEndClass)
	return p.finishNode(node)
}

func (p *Parser) parseInterfaceDecl() *Node {
	node := p.startNode(KindInterfaceDecl)
	p.expect(TokenInterface)
	node.AddChild(p.parseIdentifier())

	if p.check(TokenExtends) {
		node.AddChild(p.parseExtendsClause())
	}

	p.parseSections(node, TokenEndInterface)
	return p.finishNode(node)
}

func (p *Parser) parseExtendsClause() *Node {
	node := p.startNode(KindExtendsClause)
	p.expect(TokenExtends)
	node.AddChild(p.parseSuperclass())
	return p.finishNode(node)
}

func (p *Parser) parseImplementsClause() *Node {
	node := p.startNode(KindImplementsClause)
	p.expect(TokenImplements)
	for {
		if !p.isWord() {
			node.AddChild(p.errorNode("expected interface path", nil, TokenIdent))
			break
		}
		node.AddChild(p.parseAppClassPath(false))
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	return p.finishNode(node)
}

// parseSuperclass parses the target of an extends clause: Exception, an
// application class path or a simple built-in type name.
func (p *Parser) parseSuperclass() *Node {
	switch {
	case p.check(TokenException) && p.peekN(1).Kind != TokenColon:
		return p.tokenNode(KindExceptionType)
	case p.isWord() && p.peekN(1).Kind == TokenColon:
		return p.parseAppClassPath(false)
	case p.isIdentifierLike():
		return p.tokenNode(KindIdentifier)
	}
	return p.errorNode("expected superclass", nil, TokenIdent)
}

var memberRecovery = []TokenKind{
	TokenSemicolon, TokenMethod, TokenProperty, TokenInstance, TokenConstant,
	TokenProtected, TokenPrivate, TokenEndClass, TokenEndInterface,
}

// parseSections parses the implicit public section followed by optional
// protected and private sections, up to the closing end keyword.
func (p *Parser) parseSections(decl *Node, end TokenKind) {
	decl.AddChild(p.parseSection(KindPublicSection, end))
	for p.match(TokenProtected, TokenPrivate) {
		kind := KindProtectedSection
		if p.check(TokenPrivate) {
			kind = KindPrivateSection
		}
		decl.AddChild(p.parseSection(kind, end))
	}

	if p.expect(end) == nil {
		decl.AddChild(p.errorNode("expected "+end.String(), nil, end))
		return
	}
	p.skipSemicolon()
}

func (p *Parser) parseSection(kind NodeKind, end TokenKind) *Node {
	node := p.startNode(kind)
	if kind != KindPublicSection {
		p.advance()
	}

	for !p.check(TokenEOF) && !p.check(end) && !p.match(TokenProtected, TokenPrivate) {
		progress := p.mustProgress()
		switch p.peek().Kind {
		case TokenSemicolon:
			p.advance()
		case TokenMethod:
			node.AddChild(p.parseMethodHeader())
		case TokenProperty:
			node.AddChild(p.parseProperty())
		case TokenInstance:
			node.AddChild(p.parseInstanceDecl())
		case TokenConstant:
			node.AddChild(p.parseConstantDecl())
		case TokenEndClass, TokenEndInterface:
			// Mismatched end keyword: let the caller report it.
			return p.finishNode(node)
		default:
			node.AddChild(p.errorNode("unexpected token in declaration", memberRecovery,
				TokenMethod, TokenProperty, TokenInstance, TokenConstant))
			p.skipSemicolon()
		}
		if !progress() {
			break
		}
	}

	return p.finishNode(node)
}

func (p *Parser) finishMember(node *Node) *Node {
	if p.expect(TokenSemicolon) != nil {
		return p.finishNode(node)
	}
	if p.match(memberRecovery...) {
		node.AddChild(p.missingNode("expected ';'", TokenSemicolon))
	} else {
		node.AddChild(p.errorNode("expected ';'", memberRecovery, TokenSemicolon))
		p.skipSemicolon()
	}
	return p.finishNode(node)
}

// parseMethodHeader parses
//
//	method Name(&arg As Type [out], ...) [Returns Type] [abstract];
func (p *Parser) parseMethodHeader() *Node {
	node := p.startNode(KindMethodHeader)
	p.expect(TokenMethod)
	node.AddChild(p.parseIdentifier())

	if p.check(TokenLParen) {
		node.AddChild(p.parseArguments())
	} else {
		node.AddChild(p.errorNode("expected '('", memberRecovery, TokenLParen))
		p.skipSemicolon()
		return p.finishNode(node)
	}

	if p.check(TokenReturns) {
		p.advance()
		node.AddChild(p.parseType())
	}
	if p.check(TokenAbstract) {
		node.AddChild(p.tokenNode(KindModifier))
	}

	return p.finishMember(node)
}

func (p *Parser) parseArguments() *Node {
	node := p.startNode(KindArguments)
	p.expect(TokenLParen)

	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if !p.check(TokenUserVariable) {
			node.AddChild(p.errorNode("expected argument", []TokenKind{TokenComma, TokenRParen, TokenSemicolon}, TokenUserVariable))
		} else {
			node.AddChild(p.parseArgument())
		}
		if p.check(TokenSemicolon) {
			break
		}
		if !p.check(TokenComma) {
			if !progress() {
				break
			}
			continue
		}
		p.advance()
	}

	if p.expect(TokenRParen) == nil {
		node.AddChild(p.missingNode("expected ')'", TokenRParen))
	}
	return p.finishNode(node)
}

func (p *Parser) parseArgument() *Node {
	node := p.startNode(KindArgument)
	node.AddChild(p.tokenNode(KindUserVariable))
	if p.expect(TokenAs) == nil {
		node.AddChild(p.errorNode("expected 'as'", []TokenKind{TokenComma, TokenRParen}, TokenAs))
		return p.finishNode(node)
	}
	node.AddChild(p.parseType())
	if p.check(TokenOut) {
		node.AddChild(p.tokenNode(KindModifier))
	}
	return p.finishNode(node)
}

// parseProperty parses
//
//	property Type Name get [set];
//	property Type Name [abstract] [readonly];
func (p *Parser) parseProperty() *Node {
	node := p.startNode(KindProperty)
	p.expect(TokenProperty)
	node.AddChild(p.parseType())
	node.AddChild(p.parseIdentifier())
	if node.Children[len(node.Children)-1].IsError() {
		p.recoverTo(memberRecovery)
		p.skipSemicolon()
		return p.finishNode(node)
	}

	for p.match(TokenGet, TokenSet, TokenAbstract, TokenReadonly) {
		node.AddChild(p.tokenNode(KindModifier))
	}

	return p.finishMember(node)
}

// parseInstanceDecl parses instance Type &a, &b;
func (p *Parser) parseInstanceDecl() *Node {
	node := p.startNode(KindInstanceDecl)
	p.expect(TokenInstance)
	node.AddChild(p.parseType())

	for {
		if !p.check(TokenUserVariable) {
			node.AddChild(p.errorNode("expected instance variable", memberRecovery, TokenUserVariable))
			p.skipSemicolon()
			return p.finishNode(node)
		}
		node.AddChild(p.tokenNode(KindUserVariable))
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}

	return p.finishMember(node)
}

// parseConstantDecl parses constant &Name = literal;
func (p *Parser) parseConstantDecl() *Node {
	node := p.startNode(KindConstantDecl)
	p.expect(TokenConstant)

	if !p.check(TokenUserVariable) {
		node.AddChild(p.errorNode("expected constant name", memberRecovery, TokenUserVariable))
		p.skipSemicolon()
		return p.finishNode(node)
	}
	node.AddChild(p.tokenNode(KindUserVariable))

	if p.expect(TokenAssign) == nil {
		node.AddChild(p.errorNode("expected '='", memberRecovery, TokenAssign))
		p.skipSemicolon()
		return p.finishNode(node)
	}
	node.AddChild(p.parseLiteral())

	return p.finishMember(node)
}

func (p *Parser) parseLiteral() *Node {
	switch p.peek().Kind {
	case TokenNumberLiteral, TokenStringLiteral, TokenTrue, TokenFalse, TokenNull:
		return p.tokenNode(KindLiteral)
	case TokenOperator:
		op := p.peek()
		next := p.peekN(1)
		if (op.Literal == "-" || op.Literal == "+") && next.Kind == TokenNumberLiteral {
			p.advance()
			p.advance()
			tok := Token{
				Kind:    TokenNumberLiteral,
				Span:    Span{Start: op.Span.Start, End: next.Span.End},
				Literal: op.Literal + next.Literal,
			}
			return &Node{Kind: KindLiteral, Token: &tok, Span: tok.Span}
		}
	}
	return p.errorNode("expected literal", memberRecovery,
		TokenNumberLiteral, TokenStringLiteral, TokenTrue, TokenFalse, TokenNull)
}

// parseType parses a type reference:
//
//	array [of Type]
//	Exception
//	PKG:SUB:Class
//	SimpleType
func (p *Parser) parseType() *Node {
	switch {
	case p.check(TokenArray):
		node := p.startNode(KindArrayType)
		p.advance()
		if p.check(TokenOf) {
			p.advance()
			node.AddChild(p.parseType())
		}
		return p.finishNode(node)
	case p.check(TokenException) && p.peekN(1).Kind != TokenColon:
		return p.tokenNode(KindExceptionType)
	case p.isWord() && p.peekN(1).Kind == TokenColon:
		node := p.startNode(KindAppClassType)
		node.AddChild(p.parseAppClassPath(false))
		return p.finishNode(node)
	case p.isIdentifierLike():
		return p.tokenNode(KindType)
	}
	return p.missingNode("expected type", TokenIdent, TokenArray, TokenException)
}

// parseImplementation parses method, get and set bodies. The body itself
// is kept as an opaque block.
func (p *Parser) parseImplementation(kind NodeKind, start, end TokenKind) *Node {
	node := p.startNode(kind)
	p.expect(start)
	node.AddChild(p.parseIdentifier())

	block := p.startNode(KindBlock)
	for !p.check(end) && !p.check(TokenEOF) {
		p.advance()
	}
	node.AddChild(p.finishNode(block))

	if p.expect(end) == nil {
		node.AddChild(p.errorNode("expected "+end.String(), nil, end))
		return p.finishNode(node)
	}
	p.skipSemicolon()
	return p.finishNode(node)
}
