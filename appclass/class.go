package appclass

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/appclassdoc/appclass/apidoc"
)

const (
	MinPackageDepth = 1
	MaxPackageDepth = 3
)

var (
	ErrInvalidPackage = errors.New("invalid application package")
	ErrInvalidName    = errors.New("invalid class name")
)

// Class is an application class or interface together with its members.
// Name and package are fixed at construction.
type Class struct {
	name string
	pkg  []string

	Kind       Kind
	IsAbstract bool

	// Superclasses holds the direct parent first, then its ancestors,
	// nearest first. Ancestors are filled in by Corpus.Resolve.
	Superclasses []Superclass

	// Subclasses holds the classes declared against this one. Filled in by
	// Corpus.Resolve.
	Subclasses []ClassDescr

	Constructor *Method
	Methods     []*Method
	Properties  []*Property
	Constants   []*Constant
	Doc         *apidoc.Description
	Line        int
	SourceFile  string
}

// NewClass creates a class and, when corpus is non-nil, registers it in the
// package index and, if it has a parent, in the subclass index under the
// parent reference as written.
func NewClass(name string, pkg []string, kind Kind, parent *Superclass, corpus *Corpus) (*Class, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.Wrap(ErrInvalidName, "class name is empty")
	}
	if len(pkg) < MinPackageDepth || len(pkg) > MaxPackageDepth {
		return nil, errors.Wrapf(ErrInvalidPackage,
			"class %s: package must contain between %d and %d segments, but contains %d",
			name, MinPackageDepth, MaxPackageDepth, len(pkg))
	}
	for i, segment := range pkg {
		if strings.TrimSpace(segment) == "" {
			return nil, errors.Wrapf(ErrInvalidPackage, "class %s: package segment %d is empty", name, i+1)
		}
	}
	if kind == "" {
		kind = KindClass
	}

	c := &Class{
		name: name,
		pkg:  append([]string(nil), pkg...),
		Kind: kind,
	}
	if parent != nil {
		c.Superclasses = append(c.Superclasses, *parent)
	}

	if corpus != nil {
		corpus.register(c)
	}
	return c, nil
}

func (c *Class) Name() string {
	return c.name
}

// Package returns a copy of the package segments.
func (c *Class) Package() []string {
	return append([]string(nil), c.pkg...)
}

func (c *Class) PackageName() string {
	return strings.Join(c.pkg, Separator)
}

func (c *Class) FQN() string {
	return c.PackageName() + Separator + c.name
}

func (c *Class) Descr() ClassDescr {
	return ClassDescr{Package: c.Package(), Name: c.name, Kind: c.Kind}
}

// Superclass returns the direct parent, or nil.
func (c *Class) Superclass() *Superclass {
	if len(c.Superclasses) == 0 {
		return nil
	}
	return &c.Superclasses[0]
}

// IsSameAs reports whether both classes have the same name in the same
// package, ignoring case.
func (c *Class) IsSameAs(other *Class) bool {
	if c == nil || other == nil {
		return false
	}
	return strings.EqualFold(c.name, other.name) &&
		strings.EqualFold(c.PackageName(), other.PackageName())
}

func (c *Class) IsInterface() bool {
	return c.Kind == KindInterface
}

// FindMethod returns the first method with the given name, ignoring case.
// The constructor is not considered.
func (c *Class) FindMethod(name string) *Method {
	for _, m := range c.Methods {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

// FindProperty returns the first property with the given name, ignoring
// case.
func (c *Class) FindProperty(name string) *Property {
	for _, p := range c.Properties {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// MethodsInScope returns the methods declared in scope, in model order.
func (c *Class) MethodsInScope(scope Scope) []*Method {
	var result []*Method
	for _, m := range c.Methods {
		if m.Scope == scope {
			result = append(result, m)
		}
	}
	return result
}

// PropertiesInScope returns the properties declared in scope, in model
// order.
func (c *Class) PropertiesInScope(scope Scope) []*Property {
	var result []*Property
	for _, p := range c.Properties {
		if p.Scope == scope {
			result = append(result, p)
		}
	}
	return result
}

// SortMembers orders methods and properties by scope, then name; constants
// and subclasses by name. Names compare case-insensitively.
func (c *Class) SortMembers() {
	sort.SliceStable(c.Methods, func(i, j int) bool {
		return memberSortKey(c.Methods[i].Scope, c.Methods[i].Name) <
			memberSortKey(c.Methods[j].Scope, c.Methods[j].Name)
	})
	sort.SliceStable(c.Properties, func(i, j int) bool {
		return memberSortKey(c.Properties[i].Scope, c.Properties[i].Name) <
			memberSortKey(c.Properties[j].Scope, c.Properties[j].Name)
	})
	sort.SliceStable(c.Constants, func(i, j int) bool {
		return strings.ToLower(c.Constants[i].Name) < strings.ToLower(c.Constants[j].Name)
	})
	sortDescrs(c.Subclasses)
}

func sortDescrs(descrs []ClassDescr) {
	sort.SliceStable(descrs, func(i, j int) bool {
		return descrs[i].sortKey() < descrs[j].sortKey()
	})
}

func (c *Class) updateAbstract() {
	for _, m := range c.Methods {
		if m.IsAbstract {
			c.IsAbstract = true
			return
		}
	}
	for _, p := range c.Properties {
		if p.IsAbstract {
			c.IsAbstract = true
			return
		}
	}
}
