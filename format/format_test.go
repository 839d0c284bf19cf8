package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/appclassdoc/appclass"
)

const accountSource = `/**
 * A bank account.
 * @author Ana
 */
class Account extends PKG:Base
   /** Opens an account. */
   method Account(&owner As string);
   method Deposit(&amount As number) Returns boolean;
   /** The balance. */
   property number Balance get set;
   property string Owner readonly;
protected
   method Audit() abstract;
private
   instance string &owner;
   constant &LIMIT = 100;
end-class;

/** Reads the balance. */
get Balance
   Return 0;
end-get;
`

func buildCorpus(t *testing.T, includePrivate bool) (*appclass.Corpus, *appclass.Class) {
	t.Helper()
	corpus := appclass.NewCorpus()
	base, err := appclass.ClassFromSource([]byte("class Base extends PKG:Root\nend-class;"), []string{"PKG"}, corpus)
	require.NoError(t, err)
	require.NotNil(t, base)
	_, err = appclass.ClassFromSource([]byte("class Root\nend-class;"), []string{"PKG"}, corpus)
	require.NoError(t, err)
	cls, err := appclass.ClassFromSource([]byte(accountSource), []string{"PKG", "BANK"}, corpus,
		appclass.IncludePrivate(includePrivate))
	require.NoError(t, err)
	corpus.Resolve()
	return corpus, cls
}

func TestNewEncoder(t *testing.T) {
	for _, name := range []string{"json", "JSON", "yaml", "yml", "line", "text"} {
		enc, err := NewEncoder(name, &bytes.Buffer{})
		assert.NoError(t, err, name)
		assert.NotNil(t, enc, name)
	}

	_, err := NewEncoder("xml", &bytes.Buffer{})
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestJSONEncoderClass(t *testing.T) {
	_, cls := buildCorpus(t, false)

	var buf bytes.Buffer
	require.NoError(t, NewJSONEncoder(&buf).Encode(cls))

	var doc classDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "class", doc.Kind)
	assert.True(t, doc.Abstract)
	assert.Equal(t, "PKG:BANK", doc.Package)
	assert.Equal(t, 2, doc.Level)
	assert.Equal(t, "Account", doc.Name)
	assert.Equal(t, []superclassDocument{
		{Verb: "extends", Package: "PKG", Name: "Root"},
		{Verb: "extends", Package: "PKG", Name: "Base"},
	}, doc.Hierarchy, "root ancestor first")

	require.NotNil(t, doc.Description)
	assert.Equal(t, "A bank account.", doc.Description.Summary)
	assert.Equal(t, []string{"Ana"}, doc.Description.Authors)

	require.NotNil(t, doc.Constructor)
	assert.Equal(t, "Account", doc.Constructor.Name)
	assert.Len(t, doc.Constructor.Arguments, 1)

	require.Len(t, doc.Methods, 2)
	assert.Equal(t, "Deposit", doc.Methods[0].Name)
	assert.Equal(t, &typeDocument{Name: "boolean"}, doc.Methods[0].ReturnType)
	assert.Equal(t, "protected", doc.Methods[1].Scope)

	assert.Empty(t, doc.Constants)
	require.Len(t, doc.Properties, 2)
}

func TestJSONEncoderAccessorDocs(t *testing.T) {
	_, cls := buildCorpus(t, false)

	var buf bytes.Buffer
	require.NoError(t, NewJSONEncoder(&buf).Encode(cls))

	var doc classDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Getters, 1)
	require.NotNil(t, doc.Getters[0].Description)
	assert.Equal(t, "Reads the balance.", doc.Getters[0].Description.Summary)

	require.Len(t, doc.Setters, 1)
	require.NotNil(t, doc.Setters[0].Description)
	assert.Equal(t, "The balance.", doc.Setters[0].Description.Summary, "setter falls back to the declaration")
}

func TestJSONEncoderSubclasses(t *testing.T) {
	corpus, _ := buildCorpus(t, false)
	base := corpus.Find("PKG:Base")
	require.NotNil(t, base)

	var buf bytes.Buffer
	require.NoError(t, NewJSONEncoder(&buf).Encode(base))

	var doc classDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []classRefDocument{{Package: "PKG:BANK", Name: "Account", Kind: "class"}}, doc.Subclasses)
}

func TestJSONEncoderCorpus(t *testing.T) {
	corpus, _ := buildCorpus(t, false)

	var buf bytes.Buffer
	require.NoError(t, NewJSONEncoder(&buf).EncodeCorpus(corpus))

	var doc corpusDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Packages, 2)
	assert.Equal(t, "PKG", doc.Packages[0].Name)
	assert.Equal(t, 1, doc.Packages[0].Level)
	assert.Equal(t, []classRefDocument{
		{Package: "PKG", Name: "Base", Kind: "class"},
		{Package: "PKG", Name: "Root", Kind: "class"},
	}, doc.Packages[0].Classes)
	assert.Equal(t, "PKG:BANK", doc.Packages[1].Name)
	assert.Equal(t, 2, doc.Packages[1].Level)
	assert.Len(t, doc.Classes, 3)
}

func TestYAMLEncoder(t *testing.T) {
	_, cls := buildCorpus(t, true)

	var buf bytes.Buffer
	require.NoError(t, NewYAMLEncoder(&buf).Encode(cls))

	var doc classDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "Account", doc.Name)
	require.Len(t, doc.Constants, 1)
	assert.Equal(t, constantDocument{Name: "&LIMIT", Value: "100"}, doc.Constants[0])
	require.Len(t, doc.Properties, 3)
	assert.Equal(t, "private", doc.Properties[2].Scope)
}

func TestLineEncoder(t *testing.T) {
	_, cls := buildCorpus(t, true)

	want := `package PKG:BANK

abstract class Account extends PKG:Base
   method Account(&owner as string)

   method Deposit(&amount as number) Returns boolean

   property number Balance get set
   property string Owner readonly

protected
   method Audit() abstract

private
   instance string &owner

   Constant &LIMIT = 100
`
	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf).Encode(cls))
	assert.Equal(t, want, buf.String())
}

func TestHeader(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "empty class",
			src:  "class Empty\nend-class;",
			want: "package PKG\n\nclass Empty\n",
		},
		{
			name: "interface with protected only",
			src:  "interface Shape\nprotected\n   method Area() Returns number;\nend-interface;",
			want: "package PKG\n\ninterface Shape\nprotected\n   method Area() Returns number\n",
		},
		{
			name: "implements",
			src:  "class Impl implements PKG:Shape\n   property string Name;\nend-class;",
			want: "package PKG\n\nclass Impl implements PKG:Shape\n   property string Name\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := appclass.ClassFromSource([]byte(tt.src), []string{"PKG"}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Header(cls))
		})
	}
}

func TestLineEncoderCorpus(t *testing.T) {
	corpus := appclass.NewCorpus()
	for _, src := range []string{"class B\nend-class;", "class A\nend-class;"} {
		_, err := appclass.ClassFromSource([]byte(src), []string{"PKG"}, corpus)
		require.NoError(t, err)
	}
	corpus.Resolve()

	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf).EncodeCorpus(corpus))
	assert.Equal(t, "package PKG\n\nclass A\n\npackage PKG\n\nclass B\n", buf.String())
}
