package parser

import (
	"fmt"
	"strings"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment
	TokenDocComment

	// Literals
	TokenIdent
	TokenUserVariable
	TokenSystemVariable
	TokenNumberLiteral
	TokenStringLiteral
	TokenTrue
	TokenFalse
	TokenNull

	// Keywords
	TokenImport
	TokenClass
	TokenInterface
	TokenExtends
	TokenImplements
	TokenEndClass
	TokenEndInterface
	TokenMethod
	TokenEndMethod
	TokenGet
	TokenEndGet
	TokenSet
	TokenEndSet
	TokenProperty
	TokenInstance
	TokenConstant
	TokenProtected
	TokenPrivate
	TokenReturns
	TokenAbstract
	TokenReadonly
	TokenOut
	TokenAs
	TokenArray
	TokenOf
	TokenException

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenColon
	TokenStar
	TokenAssign
	TokenOperator
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:            "EOF",
	TokenError:          "Error",
	TokenWhitespace:     "Whitespace",
	TokenComment:        "Comment",
	TokenLineComment:    "LineComment",
	TokenDocComment:     "DocComment",
	TokenIdent:          "Identifier",
	TokenUserVariable:   "UserVariable",
	TokenSystemVariable: "SystemVariable",
	TokenNumberLiteral:  "NumberLiteral",
	TokenStringLiteral:  "StringLiteral",
	TokenTrue:           "true",
	TokenFalse:          "false",
	TokenNull:           "null",
	TokenImport:         "import",
	TokenClass:          "class",
	TokenInterface:      "interface",
	TokenExtends:        "extends",
	TokenImplements:     "implements",
	TokenEndClass:       "end-class",
	TokenEndInterface:   "end-interface",
	TokenMethod:         "method",
	TokenEndMethod:      "end-method",
	TokenGet:            "get",
	TokenEndGet:         "end-get",
	TokenSet:            "set",
	TokenEndSet:         "end-set",
	TokenProperty:       "property",
	TokenInstance:       "instance",
	TokenConstant:       "constant",
	TokenProtected:      "protected",
	TokenPrivate:        "private",
	TokenReturns:        "returns",
	TokenAbstract:       "abstract",
	TokenReadonly:       "readonly",
	TokenOut:            "out",
	TokenAs:             "as",
	TokenArray:          "array",
	TokenOf:             "of",
	TokenException:      "exception",
	TokenLParen:         "(",
	TokenRParen:         ")",
	TokenLBracket:       "[",
	TokenRBracket:       "]",
	TokenSemicolon:      ";",
	TokenComma:          ",",
	TokenDot:            ".",
	TokenColon:          ":",
	TokenStar:           "*",
	TokenAssign:         "=",
	TokenOperator:       "Operator",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsComment reports whether tokens of this kind live off the default channel.
func (k TokenKind) IsComment() bool {
	return k == TokenComment || k == TokenLineComment || k == TokenDocComment
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

// PeopleCode keywords are case-insensitive, so the table is keyed by the
// lower-cased spelling.
var keywords = map[string]TokenKind{
	"import":        TokenImport,
	"class":         TokenClass,
	"interface":     TokenInterface,
	"extends":       TokenExtends,
	"implements":    TokenImplements,
	"end-class":     TokenEndClass,
	"end-interface": TokenEndInterface,
	"method":        TokenMethod,
	"end-method":    TokenEndMethod,
	"get":           TokenGet,
	"end-get":       TokenEndGet,
	"set":           TokenSet,
	"end-set":       TokenEndSet,
	"property":      TokenProperty,
	"instance":      TokenInstance,
	"constant":      TokenConstant,
	"protected":     TokenProtected,
	"private":       TokenPrivate,
	"returns":       TokenReturns,
	"abstract":      TokenAbstract,
	"readonly":      TokenReadonly,
	"out":           TokenOut,
	"as":            TokenAs,
	"array":         TokenArray,
	"of":            TokenOf,
	"exception":     TokenException,
	"true":          TokenTrue,
	"false":         TokenFalse,
	"null":          TokenNull,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[strings.ToLower(ident)]; ok {
		return kind
	}
	return TokenIdent
}
