package appclass

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/appclassdoc/appclass/apidoc"
	"github.com/dhamidi/appclassdoc/peoplecode/parser"
)

var log = commonlog.GetLogger("appclassdoc.builder")

// ErrNoDeclaration reports a program without class or interface
// declaration.
var ErrNoDeclaration = errors.New("no class or interface declaration found")

// DocLookup returns the documentation comment preceding a node.
// *parser.Parser implements it.
type DocLookup interface {
	DocCommentBefore(n *parser.Node) (parser.Token, bool)
}

type buildConfig struct {
	includePrivate bool
	sourceFile     string
	docOptions     []apidoc.Option
}

type BuildOption func(*buildConfig)

// IncludePrivate controls whether members of the private section are
// added to the model.
func IncludePrivate(include bool) BuildOption {
	return func(c *buildConfig) {
		c.includePrivate = include
	}
}

func WithSourceFile(path string) BuildOption {
	return func(c *buildConfig) {
		c.sourceFile = path
	}
}

// WithDocOptions passes options to the API comment parser.
func WithDocOptions(opts ...apidoc.Option) BuildOption {
	return func(c *buildConfig) {
		c.docOptions = append(c.docOptions, opts...)
	}
}

// declShape is the shape of a class or interface declaration header.
type declShape int

const (
	shapeClassPlain declShape = iota
	shapeClassExtends
	shapeClassImplements
	shapeInterfacePlain
	shapeInterfaceExtends
)

var declShapes = [...]struct {
	name string
	kind Kind
	verb string
}{
	shapeClassPlain:       {"class", KindClass, ""},
	shapeClassExtends:     {"class extends", KindClass, VerbExtends},
	shapeClassImplements:  {"class implements", KindClass, VerbImplements},
	shapeInterfacePlain:   {"interface", KindInterface, ""},
	shapeInterfaceExtends: {"interface extends", KindInterface, VerbExtends},
}

func (s declShape) String() string {
	return declShapes[s].name
}

// classifyDecl returns the shape of a declaration and the node naming its
// direct parent, if any. Only the first implemented interface is kept.
func classifyDecl(decl *parser.Node) (declShape, *parser.Node) {
	if decl.Kind == parser.KindInterfaceDecl {
		if ext := decl.FirstChildOfKind(parser.KindExtendsClause); ext != nil && len(ext.Children) > 0 {
			return shapeInterfaceExtends, ext.Children[0]
		}
		return shapeInterfacePlain, nil
	}
	if ext := decl.FirstChildOfKind(parser.KindExtendsClause); ext != nil && len(ext.Children) > 0 {
		return shapeClassExtends, ext.Children[0]
	}
	if impl := decl.FirstChildOfKind(parser.KindImplementsClause); impl != nil {
		if path := impl.FirstChildOfKind(parser.KindAppClassPath); path != nil {
			return shapeClassImplements, path
		}
	}
	return shapeClassPlain, nil
}

type builder struct {
	cfg            buildConfig
	docs           DocLookup
	class          *Class
	privateMethods map[string]bool
}

// BuildClass builds the class or interface declared in a program tree.
// The class is registered in corpus at construction. BuildClass returns
// ErrNoDeclaration when the tree declares neither.
func BuildClass(root *parser.Node, docs DocLookup, pkg []string, corpus *Corpus, opts ...BuildOption) (*Class, error) {
	b := &builder{
		docs:           docs,
		privateMethods: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(&b.cfg)
	}

	decl := findDeclaration(root)
	if decl == nil {
		return nil, ErrNoDeclaration
	}
	nameNode := decl.FirstChildOfKind(parser.KindIdentifier)
	if nameNode == nil {
		return nil, errors.Wrapf(ErrNoDeclaration, "declaration at %s has no name", decl.Span.Start)
	}

	shape, parentNode := classifyDecl(decl)
	info := declShapes[shape]

	var parent *Superclass
	if parentNode != nil {
		if text := nodeText(parentNode); text != "" {
			s := NewSuperclass(info.verb, text)
			parent = &s
		}
	}
	log.Debugf("%s %s %s", info.name, nameNode.TokenLiteral(), nodeText(parentNode))

	cls, err := NewClass(nameNode.TokenLiteral(), pkg, info.kind, parent, corpus)
	if err != nil {
		return nil, err
	}
	cls.Doc = b.doc(decl)
	cls.Line = decl.Span.Start.Line
	cls.SourceFile = b.cfg.sourceFile
	b.class = cls

	for _, section := range decl.Children {
		switch section.Kind {
		case parser.KindPublicSection:
			b.visitSection(section, ScopePublic)
		case parser.KindProtectedSection:
			b.visitSection(section, ScopeProtected)
		case parser.KindPrivateSection:
			if b.cfg.includePrivate {
				b.visitSection(section, ScopePrivate)
			} else {
				b.recordPrivateMethods(section)
			}
		}
	}
	cls.updateAbstract()

	for _, child := range root.Children {
		switch child.Kind {
		case parser.KindMethodImpl:
			b.visitMethodImpl(child)
		case parser.KindGetterImpl:
			b.visitAccessorImpl(child, true)
		case parser.KindSetterImpl:
			b.visitAccessorImpl(child, false)
		}
	}

	return cls, nil
}

func findDeclaration(root *parser.Node) *parser.Node {
	if root == nil {
		return nil
	}
	for _, child := range root.Children {
		if child.Kind == parser.KindClassDecl || child.Kind == parser.KindInterfaceDecl {
			return child
		}
	}
	return nil
}

func (b *builder) doc(n *parser.Node) *apidoc.Description {
	if b.docs == nil {
		return nil
	}
	tok, ok := b.docs.DocCommentBefore(n)
	if !ok {
		return nil
	}
	return apidoc.Parse(tok.Literal, b.cfg.docOptions...)
}

func (b *builder) visitSection(section *parser.Node, scope Scope) {
	for _, member := range section.Children {
		switch member.Kind {
		case parser.KindMethodHeader:
			b.visitMethodHeader(member, scope)
		case parser.KindProperty:
			b.visitProperty(member, scope)
		case parser.KindInstanceDecl:
			b.visitInstanceDecl(member, scope)
		case parser.KindConstantDecl:
			b.visitConstantDecl(member)
		}
	}
}

// recordPrivateMethods notes the private method names without adding them
// to the model, so that their implementations are skipped as well.
func (b *builder) recordPrivateMethods(section *parser.Node) {
	for _, member := range section.ChildrenOfKind(parser.KindMethodHeader) {
		if name := member.FirstChildOfKind(parser.KindIdentifier); name != nil {
			b.privateMethods[strings.ToLower(name.TokenLiteral())] = true
		}
	}
}

func (b *builder) visitMethodHeader(n *parser.Node, scope Scope) {
	nameNode := n.FirstChildOfKind(parser.KindIdentifier)
	if nameNode == nil {
		return
	}
	name := nameNode.TokenLiteral()
	if scope == ScopePrivate {
		b.privateMethods[strings.ToLower(name)] = true
	}

	m := &Method{
		Name:       name,
		Scope:      scope,
		IsAbstract: n.HasModifier("abstract"),
		Doc:        b.doc(n),
		Line:       n.Span.Start.Line,
	}
	if args := n.FirstChildOfKind(parser.KindArguments); args != nil {
		for _, arg := range args.ChildrenOfKind(parser.KindArgument) {
			m.Arguments = append(m.Arguments, argumentFrom(arg))
		}
	}
	if ret := firstTypeNode(n); ret != nil {
		t := typeFrom(ret)
		m.ReturnType = &t
	}

	log.Debugf("[%s] %s", scope, m)
	if strings.EqualFold(name, b.class.name) {
		b.class.Constructor = m
		return
	}
	b.class.Methods = append(b.class.Methods, m)
}

func argumentFrom(n *parser.Node) Argument {
	arg := Argument{
		IsOut: n.HasModifier("out"),
		Type:  typeFrom(firstTypeNode(n)),
	}
	if v := n.FirstChildOfKind(parser.KindUserVariable); v != nil {
		arg.Name = v.TokenLiteral()
	}
	return arg
}

func (b *builder) visitProperty(n *parser.Node, scope Scope) {
	nameNode := n.FirstChildOfKind(parser.KindIdentifier)
	if nameNode == nil {
		return
	}
	p := &Property{
		Name:       nameNode.TokenLiteral(),
		Type:       typeFrom(firstTypeNode(n)),
		Scope:      scope,
		IsAbstract: n.HasModifier("abstract"),
		IsReadOnly: n.HasModifier("readonly"),
		HasGetter:  n.HasModifier("get"),
		HasSetter:  n.HasModifier("set"),
		Doc:        PropertyDoc{Base: b.doc(n)},
		Line:       n.Span.Start.Line,
	}
	log.Debugf("[%s] %s", scope, p)
	b.class.Properties = append(b.class.Properties, p)
}

// visitInstanceDecl adds one property per declared variable. The variables
// share type and documentation.
func (b *builder) visitInstanceDecl(n *parser.Node, scope Scope) {
	t := typeFrom(firstTypeNode(n))
	doc := b.doc(n)
	for _, v := range n.ChildrenOfKind(parser.KindUserVariable) {
		p := &Property{
			Name:  v.TokenLiteral(),
			Type:  t,
			Scope: scope,
			Doc:   PropertyDoc{Base: doc},
			Line:  v.Span.Start.Line,
		}
		log.Debugf("[%s] %s", scope, p)
		b.class.Properties = append(b.class.Properties, p)
	}
}

func (b *builder) visitConstantDecl(n *parser.Node) {
	nameNode := n.FirstChildOfKind(parser.KindUserVariable)
	literal := n.FirstChildOfKind(parser.KindLiteral)
	if nameNode == nil || literal == nil {
		return
	}
	c := &Constant{
		Name:  nameNode.TokenLiteral(),
		Value: literal.TokenLiteral(),
		Doc:   b.doc(n),
		Line:  n.Span.Start.Line,
	}
	log.Debugf("%s", c)
	b.class.Constants = append(b.class.Constants, c)
}

// visitMethodImpl replaces the documentation of a declared method with the
// comment on its implementation, when there is one.
func (b *builder) visitMethodImpl(n *parser.Node) {
	nameNode := n.FirstChildOfKind(parser.KindIdentifier)
	if nameNode == nil {
		return
	}
	name := nameNode.TokenLiteral()
	if !b.cfg.includePrivate && b.privateMethods[strings.ToLower(name)] {
		return
	}

	doc := b.doc(n)
	if doc == nil {
		return
	}
	if c := b.class.Constructor; c != nil && strings.EqualFold(c.Name, name) {
		c.Doc = doc
		return
	}
	if m := b.class.FindMethod(name); m != nil {
		m.Doc = doc
	}
}

func (b *builder) visitAccessorImpl(n *parser.Node, getter bool) {
	nameNode := n.FirstChildOfKind(parser.KindIdentifier)
	if nameNode == nil {
		return
	}
	p := b.class.FindProperty(nameNode.TokenLiteral())
	if p == nil {
		return
	}
	doc := b.doc(n)
	if doc == nil {
		return
	}
	if getter {
		p.Doc.Getter = doc
	} else {
		p.Doc.Setter = doc
	}
}

func isTypeNode(n *parser.Node) bool {
	switch n.Kind {
	case parser.KindType, parser.KindArrayType, parser.KindExceptionType, parser.KindAppClassType:
		return true
	}
	return false
}

func firstTypeNode(n *parser.Node) *parser.Node {
	for _, child := range n.Children {
		if isTypeNode(child) {
			return child
		}
	}
	return nil
}

// typeFrom unwraps nested array types into a single reference whose depth
// is the number of array levels. An array without element type is an
// array of any.
func typeFrom(n *parser.Node) Type {
	depth := 0
	for n != nil && n.Kind == parser.KindArrayType {
		depth++
		n = firstTypeNode(n)
	}
	if n == nil {
		return NewType("any", depth)
	}
	switch n.Kind {
	case parser.KindExceptionType:
		return NewType("Exception", depth)
	case parser.KindAppClassType:
		return NewType(nodeText(n.FirstChildOfKind(parser.KindAppClassPath)), depth)
	}
	if text := nodeText(n); text != "" {
		return NewType(text, depth)
	}
	return NewType("any", depth)
}

// nodeText returns the source spelling of a name, type or path node.
func nodeText(n *parser.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == parser.KindAppClassPath {
		parts := make([]string, 0, len(n.Children))
		for _, seg := range n.Children {
			if seg.Kind != parser.KindIdentifier {
				continue
			}
			parts = append(parts, seg.TokenLiteral())
		}
		return strings.Join(parts, Separator)
	}
	return n.TokenLiteral()
}

// ClassFromSource parses a program and builds its class.
func ClassFromSource(src []byte, pkg []string, corpus *Corpus, opts ...BuildOption) (*Class, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	p := parser.ParseProgram(bytes.NewReader(src), parser.WithFile(cfg.sourceFile))
	root := p.Finish()
	if root == nil {
		return nil, ErrNoDeclaration
	}
	for _, e := range root.Errors() {
		log.Infof("%s: %s", e.Span.Start, e.Error.Message)
	}
	return BuildClass(root, p, pkg, corpus, opts...)
}

// ClassFromFile reads, parses and builds one source file. The package is
// derived from the file name.
func ClassFromFile(path string, corpus *Corpus, opts ...BuildOption) (*Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	opts = append(opts, WithSourceFile(path))
	cls, err := ClassFromSource(data, PackageFromPath(path), corpus, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s", path)
	}
	return cls, nil
}

// PackageFromPath derives the package of a source file from its name: the
// dot-separated parts of the base name without the last two, so
// PKG.SUB.Class.pcode belongs to PKG:SUB.
func PackageFromPath(path string) []string {
	parts := strings.Split(filepath.Base(path), ".")
	if len(parts) <= 2 {
		return nil
	}
	return parts[:len(parts)-2]
}
