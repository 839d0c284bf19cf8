package appclass

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/appclassdoc/appclass/apidoc"
	"github.com/dhamidi/appclassdoc/peoplecode/parser"
)

const invoiceSource = `import PKG:Base;

/**
 * An invoice. Holds lines.
 *
 * @version 1.2
 * @author Jane Doe
 */
class Invoice extends PKG:Base
   /** Creates an invoice. */
   method Invoice(&id As string);
   /** Adds a line. */
   method AddLine(&amount As number, &qty As integer out) Returns boolean;
   method Lines() Returns array of array of number;
   method Raw() Returns array;
   /** The identifier. */
   property string Id get set;
   property PKG:Util:Money Total readonly;
protected
   method Validate() abstract;
private
   /** Scratch values. */
   instance string &a, &b;
   /** Upper bound. */
   constant &MAX = 10;
   method Helper();
end-class;

/**
 * Adds a line to the invoice.
 * @param &amount the amount
 */
method AddLine
   Return True;
end-method;

/** Helper implementation. */
method Helper
end-method;

/** Constructor implementation. */
method Invoice
end-method;

/** Reads the identifier. */
get Id
   Return &a;
end-get;

set Id
   &a = &NewValue;
end-set;
`

func build(t *testing.T, src string, opts ...BuildOption) (*Class, *Corpus) {
	t.Helper()
	corpus := NewCorpus()
	cls, err := ClassFromSource([]byte(src), []string{"PKG", "SALES"}, corpus, opts...)
	require.NoError(t, err)
	require.NotNil(t, cls)
	return cls, corpus
}

func methodNames(methods []*Method) []string {
	var names []string
	for _, m := range methods {
		names = append(names, m.Name)
	}
	return names
}

func propertyNames(props []*Property) []string {
	var names []string
	for _, p := range props {
		names = append(names, p.Name)
	}
	return names
}

func TestBuildClassHeader(t *testing.T) {
	cls, corpus := build(t, invoiceSource)

	assert.Equal(t, "PKG:SALES:Invoice", cls.FQN())
	assert.Equal(t, KindClass, cls.Kind)
	assert.True(t, cls.IsAbstract, "abstract method makes the class abstract")
	require.Len(t, cls.Superclasses, 1)
	assert.Equal(t, Superclass{Verb: VerbExtends, Package: []string{"PKG"}, Name: "Base"}, cls.Superclasses[0])

	require.NotNil(t, cls.Doc)
	assert.Equal(t, "An invoice.", cls.Doc.Summary)
	assert.Equal(t, "1.2", cls.Doc.Version)
	assert.Equal(t, []string{"Jane Doe"}, cls.Doc.Authors)

	assert.Equal(t, []ClassDescr{{Package: []string{"PKG", "SALES"}, Name: "Invoice", Kind: KindClass}},
		corpus.PackageClasses("PKG:SALES"))
	assert.Len(t, corpus.SubclassesOf("PKG:Base"), 1)
}

func TestBuildClassMembers(t *testing.T) {
	cls, _ := build(t, invoiceSource)

	require.NotNil(t, cls.Constructor)
	assert.Equal(t, "Invoice", cls.Constructor.Name)
	assert.Equal(t, "method Invoice(&id as string)", cls.Constructor.String())

	assert.Equal(t, []string{"AddLine", "Lines", "Raw", "Validate"}, methodNames(cls.Methods))
	assert.Equal(t, "method AddLine(&amount as number, &qty as integer out) Returns boolean", cls.Methods[0].String())
	assert.Equal(t, "array of array of number", cls.Methods[1].ReturnType.String())
	assert.Equal(t, "array of any", cls.Methods[2].ReturnType.String())

	validate := cls.FindMethod("validate")
	require.NotNil(t, validate)
	assert.Equal(t, ScopeProtected, validate.Scope)
	assert.True(t, validate.IsAbstract)

	assert.Equal(t, []string{"Id", "Total"}, propertyNames(cls.Properties))
	id := cls.Properties[0]
	assert.True(t, id.HasGetter)
	assert.True(t, id.HasSetter)
	assert.Equal(t, "property string Id get set", id.String())
	total := cls.Properties[1]
	assert.True(t, total.IsReadOnly)
	assert.Equal(t, "PKG:Util:Money", total.Type.FQN())

	assert.Empty(t, cls.Constants, "private constants are excluded by default")
}

func TestBuildClassPrivateMembers(t *testing.T) {
	tests := []struct {
		name           string
		includePrivate bool
		wantMethods    []string
		wantProps      []string
		wantConstants  int
	}{
		{"excluded", false, []string{"AddLine", "Lines", "Raw", "Validate"}, []string{"Id", "Total"}, 0},
		{"included", true, []string{"AddLine", "Lines", "Raw", "Validate", "Helper"}, []string{"Id", "Total", "&a", "&b"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, _ := build(t, invoiceSource, IncludePrivate(tt.includePrivate))

			assert.Equal(t, tt.wantMethods, methodNames(cls.Methods))
			assert.Equal(t, tt.wantProps, propertyNames(cls.Properties))
			assert.Len(t, cls.Constants, tt.wantConstants)

			for _, m := range cls.Methods {
				if m.Scope == ScopePrivate {
					assert.True(t, tt.includePrivate, "private method %s in model", m.Name)
				}
			}
		})
	}
}

func TestBuildClassInstanceVariablesShareDoc(t *testing.T) {
	cls, _ := build(t, invoiceSource, IncludePrivate(true))

	a := cls.FindProperty("&a")
	b := cls.FindProperty("&b")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, ScopePrivate, a.Scope)
	assert.Equal(t, "instance string &a", a.String())
	assert.Equal(t, a.Type, b.Type)
	require.NotNil(t, a.Doc.Base)
	assert.Same(t, a.Doc.Base, b.Doc.Base)
	assert.Equal(t, "Scratch values.", a.Doc.Base.Summary)

	require.Len(t, cls.Constants, 1)
	assert.Equal(t, "Constant &MAX = 10", cls.Constants[0].String())
	require.NotNil(t, cls.Constants[0].Doc)
	assert.Equal(t, "Upper bound.", cls.Constants[0].Doc.Summary)
}

func TestBuildClassImplementationDocs(t *testing.T) {
	cls, _ := build(t, invoiceSource)

	addLine := cls.FindMethod("AddLine")
	require.NotNil(t, addLine.Doc)
	assert.Equal(t, "Adds a line to the invoice.", addLine.Doc.Summary, "implementation comment wins")
	require.Len(t, addLine.Doc.Params, 1)
	assert.Equal(t, "&amount the amount", addLine.Doc.Params[0])

	require.NotNil(t, cls.Constructor.Doc)
	assert.Equal(t, "Constructor implementation.", cls.Constructor.Doc.Summary)

	assert.Nil(t, cls.FindMethod("Lines").Doc)

	id := cls.FindProperty("Id")
	require.NotNil(t, id.Doc.Base)
	assert.Equal(t, "The identifier.", id.Doc.Base.Summary)
	require.NotNil(t, id.Doc.Getter)
	assert.Equal(t, "Reads the identifier.", id.Doc.Getter.Summary)
	assert.Nil(t, id.Doc.Setter, "set implementation has no comment")
	assert.Same(t, id.Doc.Base, id.Doc.SetterDoc())
}

func TestBuildClassPrivateImplementationDoc(t *testing.T) {
	cls, _ := build(t, invoiceSource, IncludePrivate(true))

	helper := cls.FindMethod("Helper")
	require.NotNil(t, helper)
	require.NotNil(t, helper.Doc)
	assert.Equal(t, "Helper implementation.", helper.Doc.Summary)
}

func TestBuildClassLastConstructorWins(t *testing.T) {
	src := `class Pair
   method Pair();
   method Pair(&left As string, &right As string);
end-class;
`
	cls, _ := build(t, src)

	require.NotNil(t, cls.Constructor)
	assert.Len(t, cls.Constructor.Arguments, 2)
	assert.Empty(t, cls.Methods)
}

func TestBuildClassShapes(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantKind   Kind
		wantParent *Superclass
	}{
		{
			name:     "plain class",
			src:      "class Plain\nend-class;",
			wantKind: KindClass,
		},
		{
			name:       "class extends exception",
			src:        "class Failure extends Exception\nend-class;",
			wantKind:   KindClass,
			wantParent: &Superclass{Verb: VerbExtends, Package: []string{}, Name: "Exception"},
		},
		{
			name:       "class implements first interface",
			src:        "class Impl implements PKG:IFace, PKG:Other\nend-class;",
			wantKind:   KindClass,
			wantParent: &Superclass{Verb: VerbImplements, Package: []string{"PKG"}, Name: "IFace"},
		},
		{
			name:     "plain interface",
			src:      "interface Shape\n   method Area() Returns number;\nend-interface;",
			wantKind: KindInterface,
		},
		{
			name:       "interface extends",
			src:        "interface Square extends PKG:GEO:Shape\nend-interface;",
			wantKind:   KindInterface,
			wantParent: &Superclass{Verb: VerbExtends, Package: []string{"PKG", "GEO"}, Name: "Shape"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, _ := build(t, tt.src)

			assert.Equal(t, tt.wantKind, cls.Kind)
			assert.Equal(t, tt.wantParent, cls.Superclass())
		})
	}
}

func TestBuildClassNoDeclaration(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"statements only", "Local string &x;\n&x = \"a\";\n"},
		{"implementation only", "method Run\nend-method;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corpus := NewCorpus()
			cls, err := ClassFromSource([]byte(tt.src), []string{"PKG"}, corpus)
			assert.Nil(t, cls)
			assert.True(t, errors.Is(err, ErrNoDeclaration), "got %v", err)
			assert.Zero(t, corpus.Len())
		})
	}
}

func TestBuildClassWithoutDocLookup(t *testing.T) {
	p := parser.ParseProgram(strings.NewReader(invoiceSource))
	root := p.Finish()
	require.NotNil(t, root)

	cls, err := BuildClass(root, nil, []string{"PKG"}, nil)
	require.NoError(t, err)
	assert.Nil(t, cls.Doc)
	assert.Nil(t, cls.FindMethod("AddLine").Doc)
}

func TestBuildClassUnknownTag(t *testing.T) {
	src := `/**
 * Tagged.
 * @since 8.55
 */
class Tagged
end-class;
`
	var seen []string
	cls, _ := build(t, src, WithDocOptions(apidoc.WithUnknownTagHandler(func(name, _ string) {
		seen = append(seen, name)
	})))

	assert.Equal(t, "Tagged.", cls.Doc.Summary)
	assert.Equal(t, []string{"since"}, seen)
}

func TestClassFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PKG.SALES.Invoice.pcode")
	require.NoError(t, os.WriteFile(path, []byte(invoiceSource), 0o644))

	corpus := NewCorpus()
	cls, err := ClassFromFile(path, corpus)
	require.NoError(t, err)
	assert.Equal(t, "PKG:SALES:Invoice", cls.FQN())
	assert.Equal(t, path, cls.SourceFile)

	_, err = ClassFromFile(filepath.Join(dir, "missing.pcode"), corpus)
	assert.Error(t, err)
}

func TestPackageFromPath(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"PKG.SUB.Class.pcode", []string{"PKG", "SUB"}},
		{"/src/PKG.Class.pcode", []string{"PKG"}},
		{"A.B.C.Class.pcode", []string{"A", "B", "C"}},
		{"Class.pcode", nil},
		{"Class", nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, PackageFromPath(tt.path))
		})
	}
}
