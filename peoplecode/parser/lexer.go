package parser

import (
	"strings"
	"unicode/utf8"
)

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	switch {
	case ch == '/' && l.peekN(1) == '/':
		return l.scanLineComment(startPos)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(startPos)
	case ch == '/' && l.peekN(1) == '+':
		return l.scanDelimitedComment(startPos, '+', '/')
	case ch == '<' && l.peekN(1) == '*':
		return l.scanNestedComment(startPos)
	}

	if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
		return l.scanWhitespace(startPos)
	}

	if ch == '&' && isIdentStart(l.peekN(1)) {
		l.advance()
		l.scanIdentChars()
		return l.token(TokenUserVariable, startPos)
	}

	if ch == '%' && isIdentStart(l.peekN(1)) {
		l.advance()
		l.scanIdentChars()
		return l.token(TokenSystemVariable, startPos)
	}

	if isIdentStart(ch) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) {
		return l.scanNumber(startPos)
	}

	if ch == '"' || ch == '\'' {
		return l.scanStringLiteral(startPos, ch)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
		} else {
			break
		}
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

// scanBlockComment handles /* ... */ and the documentation form /** ... */.
// The empty comment /**/ is an ordinary comment.
func (l *Lexer) scanBlockComment(start Position) Token {
	kind := TokenComment
	if l.peekN(2) == '*' && l.peekN(3) != '/' {
		kind = TokenDocComment
	}
	l.advanceN(2)
	for {
		if l.peek() == 0 {
			break
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(kind, start)
}

func (l *Lexer) scanDelimitedComment(start Position, closeFirst, closeSecond byte) Token {
	l.advanceN(2)
	for {
		if l.peek() == 0 {
			break
		}
		if l.peek() == closeFirst && l.peekN(1) == closeSecond {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

// scanNestedComment handles <* ... *>, which may nest.
func (l *Lexer) scanNestedComment(start Position) Token {
	depth := 0
	for l.peek() != 0 {
		if l.peek() == '<' && l.peekN(1) == '*' {
			depth++
			l.advanceN(2)
			continue
		}
		if l.peek() == '*' && l.peekN(1) == '>' {
			depth--
			l.advanceN(2)
			if depth == 0 {
				break
			}
			continue
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanIdentChars() {
	for isIdentPart(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	l.scanIdentChars()

	// end-class, end-method, end-if ... are single tokens.
	if strings.EqualFold(string(l.input[start.Offset:l.pos]), "end") && l.peek() == '-' && isIdentStart(l.peekN(1)) {
		l.advance()
		l.scanIdentChars()
	}

	tok := l.token(TokenIdent, start)
	tok.Kind = LookupKeyword(tok.Literal)
	return tok
}

func (l *Lexer) scanNumber(start Position) Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if (l.peek() == 'e' || l.peek() == 'E') && (isDigit(l.peekN(1)) || ((l.peekN(1) == '+' || l.peekN(1) == '-') && isDigit(l.peekN(2)))) {
		l.advanceN(2)
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	return l.token(TokenNumberLiteral, start)
}

// scanStringLiteral scans a quoted string; a doubled quote is an escaped quote.
func (l *Lexer) scanStringLiteral(start Position, quote byte) Token {
	l.advance()
	for {
		ch := l.peek()
		if ch == 0 {
			end := l.Position()
			return Token{
				Kind:    TokenError,
				Span:    Span{Start: start, End: end},
				Literal: string(l.input[start.Offset:end.Offset]),
			}
		}
		if ch == quote {
			if l.peekN(1) == quote {
				l.advanceN(2)
				continue
			}
			l.advance()
			break
		}
		l.advance()
	}
	return l.token(TokenStringLiteral, start)
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case '.':
		l.advance()
		return l.token(TokenDot, start)
	case ':':
		l.advance()
		return l.token(TokenColon, start)
	case '*':
		if l.peekN(1) == '*' {
			l.advanceN(2)
			return l.token(TokenOperator, start)
		}
		l.advance()
		return l.token(TokenStar, start)
	case '=':
		l.advance()
		return l.token(TokenAssign, start)
	case '<':
		if l.peekN(1) == '>' || l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenOperator, start)
		}
		l.advance()
		return l.token(TokenOperator, start)
	case '>':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenOperator, start)
		}
		l.advance()
		return l.token(TokenOperator, start)
	case '!':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenOperator, start)
		}
		l.advance()
		return l.token(TokenOperator, start)
	case '+', '-', '/', '|', '@', '&', '%':
		l.advance()
		return l.token(TokenOperator, start)
	}

	if ch >= utf8.RuneSelf {
		_, size := utf8.DecodeRune(l.input[l.pos:])
		l.advanceN(size)
	} else {
		l.advance()
	}
	end := l.Position()
	return Token{
		Kind:    TokenError,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	// Non-ASCII bytes are accepted wholesale so multi-byte letters stay in one token.
	if ch >= utf8.RuneSelf {
		return true
	}
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '#' || ch == '$'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
