package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota

	// Program level
	KindProgram
	KindImportDecl
	KindStatement

	// Type declarations
	KindClassDecl
	KindInterfaceDecl
	KindExtendsClause
	KindImplementsClause
	KindAppClassPath

	// Sections
	KindPublicSection
	KindProtectedSection
	KindPrivateSection

	// Members
	KindMethodHeader
	KindArguments
	KindArgument
	KindProperty
	KindInstanceDecl
	KindConstantDecl
	KindModifier

	// Types
	KindType
	KindArrayType
	KindExceptionType
	KindAppClassType

	// Implementations
	KindMethodImpl
	KindGetterImpl
	KindSetterImpl
	KindBlock

	KindIdentifier
	KindUserVariable
	KindLiteral
)

var nodeKindNames = map[NodeKind]string{
	KindError:            "Error",
	KindProgram:          "Program",
	KindImportDecl:       "ImportDecl",
	KindStatement:        "Statement",
	KindClassDecl:        "ClassDecl",
	KindInterfaceDecl:    "InterfaceDecl",
	KindExtendsClause:    "ExtendsClause",
	KindImplementsClause: "ImplementsClause",
	KindAppClassPath:     "AppClassPath",
	KindPublicSection:    "PublicSection",
	KindProtectedSection: "ProtectedSection",
	KindPrivateSection:   "PrivateSection",
	KindMethodHeader:     "MethodHeader",
	KindArguments:        "Arguments",
	KindArgument:         "Argument",
	KindProperty:         "Property",
	KindInstanceDecl:     "InstanceDecl",
	KindConstantDecl:     "ConstantDecl",
	KindModifier:         "Modifier",
	KindType:             "Type",
	KindArrayType:        "ArrayType",
	KindExceptionType:    "ExceptionType",
	KindAppClassType:     "AppClassType",
	KindMethodImpl:       "MethodImpl",
	KindGetterImpl:       "GetterImpl",
	KindSetterImpl:       "SetterImpl",
	KindBlock:            "Block",
	KindIdentifier:       "Identifier",
	KindUserVariable:     "UserVariable",
	KindLiteral:          "Literal",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// HasModifier reports whether n carries a Modifier child spelled like name.
func (n *Node) HasModifier(name string) bool {
	for _, child := range n.ChildrenOfKind(KindModifier) {
		if strings.EqualFold(child.TokenLiteral(), name) {
			return true
		}
	}
	return false
}

// Errors collects every error node in the subtree rooted at n.
func (n *Node) Errors() []*Node {
	var result []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		if node.IsError() {
			result = append(result, node)
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(n)
	return result
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		sb.WriteString(child.stringIndent(indent+1, showPositions))
	}
	return sb.String()
}
