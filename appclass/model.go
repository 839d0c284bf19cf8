package appclass

import (
	"strconv"
	"strings"

	"github.com/dhamidi/appclassdoc/appclass/apidoc"
)

// Separator joins package segments and class names.
const Separator = ":"

type Scope string

const (
	ScopePublic    Scope = "public"
	ScopeProtected Scope = "protected"
	ScopePrivate   Scope = "private"
)

// Rank orders scopes from least to most restrictive.
func (s Scope) Rank() int {
	switch s {
	case ScopePublic:
		return 1
	case ScopeProtected:
		return 2
	default:
		return 3
	}
}

type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
)

// Type is a reference to a built-in type or an application class, possibly
// wrapped in one or more array levels.
type Type struct {
	Name       string
	Package    []string
	ArrayDepth int
}

// NewType splits a type name as written, for example PKG:SUB:Class, into
// package and simple name.
func NewType(text string, arrayDepth int) Type {
	parts := strings.Split(text, Separator)
	if arrayDepth < 0 {
		arrayDepth = 0
	}
	return Type{
		Name:       parts[len(parts)-1],
		Package:    parts[:len(parts)-1],
		ArrayDepth: arrayDepth,
	}
}

func (t Type) PackageName() string {
	return strings.Join(t.Package, Separator)
}

func (t Type) FQN() string {
	if len(t.Package) == 0 {
		return t.Name
	}
	return t.PackageName() + Separator + t.Name
}

func (t Type) IsAppClass() bool {
	return len(t.Package) > 0
}

func (t Type) ElementType() Type {
	if t.ArrayDepth == 0 {
		return t
	}
	return Type{Name: t.Name, Package: t.Package, ArrayDepth: t.ArrayDepth - 1}
}

func (t Type) String() string {
	return strings.Repeat("array of ", t.ArrayDepth) + t.FQN()
}

type Argument struct {
	Name  string
	Type  Type
	IsOut bool
}

func (a Argument) String() string {
	s := a.Name + " as " + a.Type.String()
	if a.IsOut {
		s += " out"
	}
	return s
}

// Method is a method or constructor declared in a class header.
type Method struct {
	Name       string
	Scope      Scope
	ReturnType *Type
	Arguments  []Argument
	IsAbstract bool
	Doc        *apidoc.Description
	Line       int
}

func (m *Method) String() string {
	var sb strings.Builder
	sb.WriteString("method ")
	sb.WriteString(m.Name)
	sb.WriteString("(")
	for i, arg := range m.Arguments {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteString(")")
	if m.ReturnType != nil {
		sb.WriteString(" Returns ")
		sb.WriteString(m.ReturnType.String())
	}
	if m.IsAbstract {
		sb.WriteString(" abstract")
	}
	return sb.String()
}

// PropertyDoc holds the documentation of a property: the comment on its
// declaration and the comments on its get and set implementations.
type PropertyDoc struct {
	Base   *apidoc.Description
	Getter *apidoc.Description
	Setter *apidoc.Description
}

// GetterDoc returns the getter documentation, falling back to Base.
func (d PropertyDoc) GetterDoc() *apidoc.Description {
	if d.Getter != nil {
		return d.Getter
	}
	return d.Base
}

// SetterDoc returns the setter documentation, falling back to Base.
func (d PropertyDoc) SetterDoc() *apidoc.Description {
	if d.Setter != nil {
		return d.Setter
	}
	return d.Base
}

// Property is a property declaration. Private instance variables are
// modeled as private properties.
type Property struct {
	Name       string
	Type       Type
	Scope      Scope
	IsAbstract bool
	IsReadOnly bool
	HasGetter  bool
	HasSetter  bool
	Doc        PropertyDoc
	Line       int
}

// IsInstance reports whether the property is a private instance variable.
func (p *Property) IsInstance() bool {
	return p.Scope == ScopePrivate
}

func (p *Property) Label() string {
	if p.IsInstance() {
		return "instance"
	}
	return "property"
}

func (p *Property) String() string {
	s := p.Label() + " " + p.Type.String() + " " + p.Name
	switch {
	case p.IsAbstract && p.IsReadOnly:
		s += " abstract readonly"
	case p.IsAbstract:
		s += " abstract"
	case p.IsReadOnly:
		s += " readonly"
	default:
		if p.HasGetter {
			s += " get"
		}
		if p.HasSetter {
			s += " set"
		}
	}
	return s
}

type Constant struct {
	Name  string
	Value string
	Doc   *apidoc.Description
	Line  int
}

func (c *Constant) String() string {
	return "Constant " + c.Name + " = " + c.Value
}

// Superclass relates a class to its parent. The verb is "extends" or, for
// the direct parent of a class implementing an interface, "implements".
type Superclass struct {
	Verb    string
	Package []string
	Name    string
}

const (
	VerbExtends    = "extends"
	VerbImplements = "implements"
)

// NewSuperclass splits a parent reference as written at the declaration
// site. A reference without separator has no package.
func NewSuperclass(verb, text string) Superclass {
	t := NewType(text, 0)
	return Superclass{Verb: verb, Package: t.Package, Name: t.Name}
}

func (s Superclass) PackageName() string {
	return strings.Join(s.Package, Separator)
}

func (s Superclass) FQN() string {
	if len(s.Package) == 0 {
		return s.Name
	}
	return s.PackageName() + Separator + s.Name
}

func (s Superclass) String() string {
	return s.Verb + " " + s.FQN()
}

// ClassDescr is the lightweight descriptor of a class kept in the package
// and subclass indices.
type ClassDescr struct {
	Package []string
	Name    string
	Kind    Kind
}

func (d ClassDescr) PackageName() string {
	return strings.Join(d.Package, Separator)
}

func (d ClassDescr) FQN() string {
	return d.PackageName() + Separator + d.Name
}

func (d ClassDescr) sortKey() string {
	return strings.ToLower(d.Name + "!" + d.PackageName())
}

func memberSortKey(scope Scope, name string) string {
	return strconv.Itoa(scope.Rank()) + strings.ToLower(name)
}
