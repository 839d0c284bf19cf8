package appclass

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/appclassdoc/appclass/apidoc"
)

func TestNewClassFQN(t *testing.T) {
	tests := []struct {
		pkg  []string
		name string
		want string
	}{
		{[]string{"PKG"}, "Foo", "PKG:Foo"},
		{[]string{"PKG", "SUB"}, "Foo", "PKG:SUB:Foo"},
		{[]string{"A", "B", "C"}, "Foo", "A:B:C:Foo"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cls, err := NewClass(tt.name, tt.pkg, KindClass, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cls.FQN())
			assert.Equal(t, tt.want, cls.FQN(), "FQN must be stable")
			assert.Equal(t, tt.name, cls.Name())
			assert.Equal(t, tt.pkg, cls.Package())
		})
	}
}

func TestNewClassValidation(t *testing.T) {
	tests := []struct {
		name    string
		cls     string
		pkg     []string
		wantErr error
	}{
		{"empty package", "Foo", nil, ErrInvalidPackage},
		{"too deep", "Foo", []string{"A", "B", "C", "D"}, ErrInvalidPackage},
		{"empty segment", "Foo", []string{"A", ""}, ErrInvalidPackage},
		{"empty name", "", []string{"A"}, ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corpus := NewCorpus()
			cls, err := NewClass(tt.cls, tt.pkg, KindClass, nil, corpus)
			assert.Nil(t, cls)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Zero(t, corpus.Len(), "failed construction must not register")
		})
	}
}

func TestPackageIsCopied(t *testing.T) {
	pkg := []string{"PKG", "SUB"}
	cls, err := NewClass("Foo", pkg, KindClass, nil, nil)
	require.NoError(t, err)

	pkg[0] = "CHANGED"
	cls.Package()[1] = "CHANGED"
	assert.Equal(t, "PKG:SUB:Foo", cls.FQN())
}

func TestIsSameAs(t *testing.T) {
	a, _ := NewClass("Foo", []string{"PKG", "SUB"}, KindClass, nil, nil)
	b, _ := NewClass("FOO", []string{"pkg", "sub"}, KindInterface, nil, nil)
	c, _ := NewClass("Foo", []string{"PKG"}, KindClass, nil, nil)
	d, _ := NewClass("Bar", []string{"PKG", "SUB"}, KindClass, nil, nil)

	assert.True(t, a.IsSameAs(a))
	assert.True(t, a.IsSameAs(b))
	assert.True(t, b.IsSameAs(a))
	assert.False(t, a.IsSameAs(c))
	assert.False(t, a.IsSameAs(d))
	assert.False(t, a.IsSameAs(nil))
}

func TestNewClassRegistersInCorpus(t *testing.T) {
	corpus := NewCorpus()
	parent := NewSuperclass(VerbExtends, "PKG:Base")

	_, err := NewClass("Base", []string{"PKG"}, KindClass, nil, corpus)
	require.NoError(t, err)
	_, err = NewClass("Child", []string{"PKG", "SUB"}, KindClass, &parent, corpus)
	require.NoError(t, err)

	assert.Equal(t, []string{"PKG", "PKG:SUB"}, corpus.Packages())
	assert.Equal(t, []ClassDescr{{Package: []string{"PKG", "SUB"}, Name: "Child", Kind: KindClass}},
		corpus.SubclassesOf("PKG:Base"))
	assert.Empty(t, corpus.SubclassesOf("pkg:base"), "subclass index is keyed as written")
	assert.NotNil(t, corpus.Find("pkg:sub:child"))
}

func TestSortMembers(t *testing.T) {
	cls, _ := NewClass("Foo", []string{"PKG"}, KindClass, nil, nil)
	cls.Methods = []*Method{
		{Name: "z", Scope: ScopePublic},
		{Name: "m", Scope: ScopePrivate},
		{Name: "a", Scope: ScopePublic},
		{Name: "B", Scope: ScopeProtected},
	}
	cls.Properties = []*Property{
		{Name: "&x", Scope: ScopePrivate},
		{Name: "Name", Scope: ScopePublic},
		{Name: "age", Scope: ScopePublic},
	}
	cls.Constants = []*Constant{{Name: "&Z"}, {Name: "&a"}}
	cls.Subclasses = []ClassDescr{{Name: "beta"}, {Name: "Alpha"}}

	cls.SortMembers()

	var methods []string
	for _, m := range cls.Methods {
		methods = append(methods, m.Name)
	}
	assert.Equal(t, []string{"a", "z", "B", "m"}, methods)

	var props []string
	for _, p := range cls.Properties {
		props = append(props, p.Name)
	}
	assert.Equal(t, []string{"age", "Name", "&x"}, props)

	assert.Equal(t, "&a", cls.Constants[0].Name)
	assert.Equal(t, "Alpha", cls.Subclasses[0].Name)
}

func TestFindMembers(t *testing.T) {
	cls, _ := NewClass("Foo", []string{"PKG"}, KindClass, nil, nil)
	cls.Methods = []*Method{{Name: "Run"}}
	cls.Properties = []*Property{{Name: "Name"}}

	assert.NotNil(t, cls.FindMethod("RUN"))
	assert.Nil(t, cls.FindMethod("Stop"))
	assert.NotNil(t, cls.FindProperty("name"))
	assert.Nil(t, cls.FindProperty("Other"))
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{NewType("string", 0), "string"},
		{NewType("PKG:SUB:Thing", 0), "PKG:SUB:Thing"},
		{NewType("number", 2), "array of array of number"},
		{NewType("any", 1), "array of any"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.String())
	}

	thing := NewType("PKG:SUB:Thing", 1)
	assert.Equal(t, []string{"PKG", "SUB"}, thing.Package)
	assert.Equal(t, "Thing", thing.Name)
	assert.True(t, thing.IsAppClass())
	assert.Equal(t, 0, thing.ElementType().ArrayDepth)
}

func TestMemberStrings(t *testing.T) {
	ret := NewType("boolean", 0)
	m := &Method{
		Name: "Run",
		Arguments: []Argument{
			{Name: "&items", Type: NewType("number", 1)},
			{Name: "&count", Type: NewType("integer", 0), IsOut: true},
		},
		ReturnType: &ret,
		IsAbstract: true,
	}
	assert.Equal(t, "method Run(&items as array of number, &count as integer out) Returns boolean abstract", m.String())

	tests := []struct {
		prop Property
		want string
	}{
		{Property{Name: "Name", Type: NewType("string", 0), Scope: ScopePublic, HasGetter: true, HasSetter: true}, "property string Name get set"},
		{Property{Name: "Size", Type: NewType("number", 0), Scope: ScopePublic, IsReadOnly: true}, "property number Size readonly"},
		{Property{Name: "Kind", Type: NewType("string", 0), Scope: ScopeProtected, IsAbstract: true, HasGetter: true}, "property string Kind abstract"},
		{Property{Name: "&x", Type: NewType("string", 0), Scope: ScopePrivate}, "instance string &x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.prop.String())
	}

	c := &Constant{Name: "&MAX", Value: "10"}
	assert.Equal(t, "Constant &MAX = 10", c.String())
}

func TestPropertyDocFallback(t *testing.T) {
	base := &apidoc.Description{Summary: "Base."}
	getter := &apidoc.Description{Summary: "Getter."}

	doc := PropertyDoc{Base: base, Getter: getter}
	assert.Same(t, getter, doc.GetterDoc())
	assert.Same(t, base, doc.SetterDoc())

	assert.Nil(t, PropertyDoc{}.GetterDoc())
}

func TestSuperclass(t *testing.T) {
	s := NewSuperclass(VerbImplements, "PKG:SUB:Iface")
	assert.Equal(t, []string{"PKG", "SUB"}, s.Package)
	assert.Equal(t, "Iface", s.Name)
	assert.Equal(t, "PKG:SUB:Iface", s.FQN())

	builtin := NewSuperclass(VerbExtends, "Exception")
	assert.Empty(t, builtin.Package)
	assert.Equal(t, "Exception", builtin.FQN())
}
