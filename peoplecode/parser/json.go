package parser

import "encoding/json"

type jsonNode struct {
	Kind     string         `json:"kind"`
	Span     *jsonSpan      `json:"span,omitempty"`
	Token    string         `json:"token,omitempty"`
	Doc      string         `json:"doc,omitempty"`
	Error    *jsonError     `json:"error,omitempty"`
	Children []*jsonNode    `json:"children,omitempty"`
	Comments []*jsonComment `json:"comments,omitempty"`
}

type jsonComment struct {
	Kind string   `json:"kind"`
	Span jsonSpan `json:"span"`
	Text string   `json:"text"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonError struct {
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON(nil))
}

// MarshalTree encodes n like MarshalJSON, additionally attaching to every
// declaration node the documentation comment the parser found before it.
// Ordinary comments kept by WithComments are listed under the top node.
func (p *Parser) MarshalTree(n *Node) ([]byte, error) {
	jn := n.toJSON(p)
	for _, c := range p.Comments() {
		jn.Comments = append(jn.Comments, &jsonComment{
			Kind: c.Kind.String(),
			Span: jsonSpan{
				Start: jsonPosition{Line: c.Span.Start.Line, Column: c.Span.Start.Column},
				End:   jsonPosition{Line: c.Span.End.Line, Column: c.Span.End.Column},
			},
			Text: c.Literal,
		})
	}
	return json.MarshalIndent(jn, "", "  ")
}

func (n *Node) toJSON(p *Parser) *jsonNode {
	jn := &jsonNode{
		Kind: n.Kind.String(),
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		jn.Span = &jsonSpan{
			Start: jsonPosition{Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   jsonPosition{Line: n.Span.End.Line, Column: n.Span.End.Column},
		}
	}

	if n.Token != nil {
		jn.Token = n.Token.Literal
	}

	if p != nil && n.isDeclaration() {
		if doc, ok := p.DocCommentBefore(n); ok {
			jn.Doc = doc.Literal
		}
	}

	if n.Error != nil {
		jn.Error = &jsonError{
			Message: n.Error.Message,
		}
		for _, exp := range n.Error.Expected {
			jn.Error.Expected = append(jn.Error.Expected, exp.String())
		}
		if n.Error.Got != nil {
			jn.Error.Got = n.Error.Got.Literal
		}
	}

	for _, child := range n.Children {
		jn.Children = append(jn.Children, child.toJSON(p))
	}

	return jn
}

func (n *Node) isDeclaration() bool {
	switch n.Kind {
	case KindClassDecl, KindInterfaceDecl, KindMethodHeader, KindProperty,
		KindInstanceDecl, KindConstantDecl, KindMethodImpl, KindGetterImpl, KindSetterImpl:
		return true
	}
	return false
}
