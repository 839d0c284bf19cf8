package codebase

import (
	"strings"

	"github.com/dhamidi/appclassdoc/appclass"
	"github.com/dhamidi/appclassdoc/appclass/apidoc"
)

type SymbolKind int

const (
	SymbolClass SymbolKind = iota
	SymbolInterface
	SymbolConstructor
	SymbolMethod
	SymbolProperty
	SymbolConstant
)

// Symbol is a declaration listed in a document outline or a workspace
// symbol search. Lines are 1-based.
type Symbol struct {
	Name      string
	Detail    string
	Kind      SymbolKind
	Path      string
	Line      int
	Container string
	Children  []Symbol
}

// DocumentSymbols returns the outline of a class: the class itself with
// its constructor, constants, properties and methods as children.
func DocumentSymbols(cls *appclass.Class) []Symbol {
	if cls == nil {
		return nil
	}

	kind := SymbolClass
	if cls.IsInterface() {
		kind = SymbolInterface
	}
	root := Symbol{
		Name:   cls.Name(),
		Detail: cls.FQN(),
		Kind:   kind,
		Path:   cls.SourceFile,
		Line:   cls.Line,

		Children: memberSymbols(cls),
	}
	return []Symbol{root}
}

func memberSymbols(cls *appclass.Class) []Symbol {
	var symbols []Symbol
	member := func(name, detail string, kind SymbolKind, line int) {
		symbols = append(symbols, Symbol{
			Name:      name,
			Detail:    detail,
			Kind:      kind,
			Path:      cls.SourceFile,
			Line:      line,
			Container: cls.FQN(),
		})
	}

	if ctor := cls.Constructor; ctor != nil {
		member(ctor.Name, ctor.String(), SymbolConstructor, ctor.Line)
	}
	for _, c := range cls.Constants {
		member(c.Name, c.String(), SymbolConstant, c.Line)
	}
	for _, p := range cls.Properties {
		member(p.Name, p.String(), SymbolProperty, p.Line)
	}
	for _, m := range cls.Methods {
		member(m.Name, m.String(), SymbolMethod, m.Line)
	}
	return symbols
}

// WorkspaceSymbols returns the classes and members whose name contains
// query, ignoring case. An empty query matches everything.
func (c *Codebase) WorkspaceSymbols(query string) []Symbol {
	query = strings.ToLower(query)
	matches := func(name string) bool {
		return query == "" || strings.Contains(strings.ToLower(name), query)
	}

	var result []Symbol
	for _, cls := range c.AllClasses() {
		for _, s := range DocumentSymbols(cls) {
			if matches(s.Detail) {
				s.Name = s.Detail
				s.Children = nil
				result = append(result, s)
			}
		}
		for _, m := range memberSymbols(cls) {
			if matches(m.Name) {
				result = append(result, m)
			}
		}
	}
	return result
}

// HoverAt returns Markdown describing the declaration named by the word
// at a position of a file, or "" when there is none. Members of the
// file's own class are looked up before classes of the corpus.
func (c *Codebase) HoverAt(path string, line, column int) string {
	f := c.GetFile(path)
	if f == nil {
		return ""
	}
	word := wordAt(f.Content, line, column)
	if word == "" {
		return ""
	}

	if cls := f.Class; cls != nil {
		if text := memberHover(cls, word); text != "" {
			return text
		}
	}
	if cls := c.FindClass(word); cls != nil {
		return hoverText(classSignature(cls), cls.Doc)
	}
	return ""
}

func memberHover(cls *appclass.Class, name string) string {
	if ctor := cls.Constructor; ctor != nil && strings.EqualFold(ctor.Name, name) {
		return hoverText(ctor.String(), ctor.Doc)
	}
	if m := cls.FindMethod(name); m != nil {
		return hoverText(m.String(), m.Doc)
	}
	if p := cls.FindProperty(name); p != nil {
		return hoverText(p.String(), p.Doc.Base)
	}
	for _, k := range cls.Constants {
		if strings.EqualFold(k.Name, name) {
			return hoverText(k.String(), k.Doc)
		}
	}
	return ""
}

func classSignature(cls *appclass.Class) string {
	s := string(cls.Kind) + " " + cls.FQN()
	if parent := cls.Superclass(); parent != nil {
		s += " " + parent.String()
	}
	return s
}

func hoverText(signature string, doc *apidoc.Description) string {
	var sb strings.Builder
	sb.WriteString("```\n")
	sb.WriteString(signature)
	sb.WriteString("\n```\n")
	if doc.IsEmpty() {
		return sb.String()
	}

	for _, p := range doc.Paragraphs {
		sb.WriteString("\n" + p + "\n")
	}
	for _, p := range doc.Params {
		sb.WriteString("\n*@param* " + p + "\n")
	}
	if doc.Returns != "" {
		sb.WriteString("\n*@return* " + doc.Returns + "\n")
	}
	for _, e := range doc.Exceptions {
		sb.WriteString("\n*@exception* " + e + "\n")
	}
	return sb.String()
}

// wordAt returns the identifier, variable or class path around a 1-based
// line and 0-based column.
func wordAt(content []byte, line, column int) string {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}
	text := strings.TrimRight(lines[line-1], "\r")
	if column < 0 || column > len(text) {
		return ""
	}

	start, end := column, column
	for start > 0 && isWordByte(text[start-1]) {
		start--
	}
	for end < len(text) && isWordByte(text[end]) {
		end++
	}
	return strings.Trim(text[start:end], ":")
}

func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_' || b == '&' || b == '#' || b == '$' || b == ':':
		return true
	}
	return b >= 0x80
}
