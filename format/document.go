package format

import (
	"github.com/dhamidi/appclassdoc/appclass"
	"github.com/dhamidi/appclassdoc/appclass/apidoc"
)

// The document types are the serialized form shared by the JSON and YAML
// encoders.

type corpusDocument struct {
	Packages []packageDocument `json:"packages" yaml:"packages"`
	Classes  []classDocument   `json:"classes" yaml:"classes"`
}

type packageDocument struct {
	Name    string             `json:"name" yaml:"name"`
	Level   int                `json:"level" yaml:"level"`
	Classes []classRefDocument `json:"classes" yaml:"classes"`
}

type classRefDocument struct {
	Package string `json:"package" yaml:"package"`
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
}

type classDocument struct {
	Kind        string               `json:"kind" yaml:"kind"`
	Abstract    bool                 `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Package     string               `json:"package" yaml:"package"`
	Level       int                  `json:"level" yaml:"level"`
	Name        string               `json:"name" yaml:"name"`
	SourceFile  string               `json:"sourceFile,omitempty" yaml:"sourceFile,omitempty"`
	Line        int                  `json:"line,omitempty" yaml:"line,omitempty"`
	Hierarchy   []superclassDocument `json:"hierarchy,omitempty" yaml:"hierarchy,omitempty"`
	Subclasses  []classRefDocument   `json:"subclasses,omitempty" yaml:"subclasses,omitempty"`
	Description *descriptionDocument `json:"description,omitempty" yaml:"description,omitempty"`
	Constructor *methodDocument      `json:"constructor,omitempty" yaml:"constructor,omitempty"`
	Constants   []constantDocument   `json:"constants,omitempty" yaml:"constants,omitempty"`
	Properties  []propertyDocument   `json:"properties,omitempty" yaml:"properties,omitempty"`
	Getters     []accessorDocument   `json:"getters,omitempty" yaml:"getters,omitempty"`
	Setters     []accessorDocument   `json:"setters,omitempty" yaml:"setters,omitempty"`
	Methods     []methodDocument     `json:"methods,omitempty" yaml:"methods,omitempty"`
}

type superclassDocument struct {
	Verb    string `json:"verb" yaml:"verb"`
	Package string `json:"package,omitempty" yaml:"package,omitempty"`
	Name    string `json:"name" yaml:"name"`
}

type descriptionDocument struct {
	Summary    string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Paragraphs []string `json:"paragraphs,omitempty" yaml:"paragraphs,omitempty"`
	Version    string   `json:"version,omitempty" yaml:"version,omitempty"`
	Authors    []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Params     []string `json:"params,omitempty" yaml:"params,omitempty"`
	Exceptions []string `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`
	Returns    string   `json:"returns,omitempty" yaml:"returns,omitempty"`
}

type typeDocument struct {
	Name       string `json:"name" yaml:"name"`
	Package    string `json:"package,omitempty" yaml:"package,omitempty"`
	ArrayDepth int    `json:"arrayDepth,omitempty" yaml:"arrayDepth,omitempty"`
}

type argumentDocument struct {
	Name string       `json:"name" yaml:"name"`
	Type typeDocument `json:"type" yaml:"type"`
	Out  bool         `json:"out,omitempty" yaml:"out,omitempty"`
}

type methodDocument struct {
	Name        string               `json:"name" yaml:"name"`
	Scope       string               `json:"scope" yaml:"scope"`
	Abstract    bool                 `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	ReturnType  *typeDocument        `json:"returnType,omitempty" yaml:"returnType,omitempty"`
	Arguments   []argumentDocument   `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Description *descriptionDocument `json:"description,omitempty" yaml:"description,omitempty"`
}

type propertyDocument struct {
	Name        string               `json:"name" yaml:"name"`
	Scope       string               `json:"scope" yaml:"scope"`
	Type        typeDocument         `json:"type" yaml:"type"`
	Abstract    bool                 `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	ReadOnly    bool                 `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Get         bool                 `json:"get,omitempty" yaml:"get,omitempty"`
	Set         bool                 `json:"set,omitempty" yaml:"set,omitempty"`
	Description *descriptionDocument `json:"description,omitempty" yaml:"description,omitempty"`
}

type accessorDocument struct {
	Name        string               `json:"name" yaml:"name"`
	Type        typeDocument         `json:"type" yaml:"type"`
	Description *descriptionDocument `json:"description,omitempty" yaml:"description,omitempty"`
}

type constantDocument struct {
	Name        string               `json:"name" yaml:"name"`
	Value       string               `json:"value" yaml:"value"`
	Description *descriptionDocument `json:"description,omitempty" yaml:"description,omitempty"`
}

func newCorpusDocument(corpus *appclass.Corpus) corpusDocument {
	doc := corpusDocument{
		Packages: []packageDocument{},
		Classes:  []classDocument{},
	}
	for _, name := range corpus.Packages() {
		descrs := corpus.PackageClasses(name)
		pkg := packageDocument{
			Name:    name,
			Classes: make([]classRefDocument, len(descrs)),
		}
		for i, d := range descrs {
			pkg.Level = len(d.Package)
			pkg.Classes[i] = classRefFrom(d)
		}
		doc.Packages = append(doc.Packages, pkg)
	}
	for _, cls := range corpus.Classes() {
		doc.Classes = append(doc.Classes, newClassDocument(cls))
	}
	return doc
}

func classRefFrom(d appclass.ClassDescr) classRefDocument {
	return classRefDocument{Package: d.PackageName(), Name: d.Name, Kind: string(d.Kind)}
}

// newClassDocument converts a class. The hierarchy is listed from the
// root ancestor down to the direct parent.
func newClassDocument(cls *appclass.Class) classDocument {
	doc := classDocument{
		Kind:        string(cls.Kind),
		Abstract:    cls.IsAbstract,
		Package:     cls.PackageName(),
		Level:       len(cls.Package()),
		Name:        cls.Name(),
		SourceFile:  cls.SourceFile,
		Line:        cls.Line,
		Description: descriptionFrom(cls.Doc),
	}

	for i := len(cls.Superclasses) - 1; i >= 0; i-- {
		s := cls.Superclasses[i]
		doc.Hierarchy = append(doc.Hierarchy, superclassDocument{
			Verb:    s.Verb,
			Package: s.PackageName(),
			Name:    s.Name,
		})
	}
	for _, d := range cls.Subclasses {
		doc.Subclasses = append(doc.Subclasses, classRefFrom(d))
	}

	if cls.Constructor != nil {
		ctor := methodFrom(cls.Constructor)
		ctor.ReturnType = nil
		ctor.Abstract = false
		doc.Constructor = &ctor
	}
	for _, c := range cls.Constants {
		doc.Constants = append(doc.Constants, constantDocument{
			Name:        c.Name,
			Value:       c.Value,
			Description: descriptionFrom(c.Doc),
		})
	}
	for _, p := range cls.Properties {
		doc.Properties = append(doc.Properties, propertyDocument{
			Name:        p.Name,
			Scope:       string(p.Scope),
			Type:        typeFrom(p.Type),
			Abstract:    p.IsAbstract,
			ReadOnly:    p.IsReadOnly,
			Get:         p.HasGetter,
			Set:         p.HasSetter,
			Description: descriptionFrom(p.Doc.Base),
		})
		if p.HasGetter {
			doc.Getters = append(doc.Getters, accessorDocument{
				Name:        p.Name,
				Type:        typeFrom(p.Type),
				Description: descriptionFrom(p.Doc.GetterDoc()),
			})
		}
		if p.HasSetter {
			doc.Setters = append(doc.Setters, accessorDocument{
				Name:        p.Name,
				Type:        typeFrom(p.Type),
				Description: descriptionFrom(p.Doc.SetterDoc()),
			})
		}
	}
	for _, m := range cls.Methods {
		doc.Methods = append(doc.Methods, methodFrom(m))
	}
	return doc
}

func methodFrom(m *appclass.Method) methodDocument {
	doc := methodDocument{
		Name:        m.Name,
		Scope:       string(m.Scope),
		Abstract:    m.IsAbstract,
		Description: descriptionFrom(m.Doc),
	}
	if m.ReturnType != nil {
		t := typeFrom(*m.ReturnType)
		doc.ReturnType = &t
	}
	for _, arg := range m.Arguments {
		doc.Arguments = append(doc.Arguments, argumentDocument{
			Name: arg.Name,
			Type: typeFrom(arg.Type),
			Out:  arg.IsOut,
		})
	}
	return doc
}

func typeFrom(t appclass.Type) typeDocument {
	return typeDocument{
		Name:       t.Name,
		Package:    t.PackageName(),
		ArrayDepth: t.ArrayDepth,
	}
}

func descriptionFrom(d *apidoc.Description) *descriptionDocument {
	if d.IsEmpty() {
		return nil
	}
	return &descriptionDocument{
		Summary:    d.Summary,
		Paragraphs: d.Paragraphs,
		Version:    d.Version,
		Authors:    d.Authors,
		Params:     d.Params,
		Exceptions: d.Exceptions,
		Returns:    d.Returns,
	}
}
