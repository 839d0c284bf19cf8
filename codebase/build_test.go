package codebase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/appclassdoc/appclass"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

var sampleFiles = map[string]string{
	"PKG.Base.pcode":          "/** The base. */\nclass Base\n   method Run();\nend-class;\n",
	"PKG.SUB.Child.pcode":     "class Child extends PKG:Base\nend-class;\n",
	"sub/PKG.SUB.Other.pcode": "class Other extends PKG:SUB:Child\nend-class;\n",
	"PKG.Broken.pcode":        "Local string &x;\n",
	"README.md":               "not a class",
	".git/PKG.Hidden.pcode":   "class Hidden\nend-class;\n",
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, sampleFiles)

	files, err := Discover([]string{dir}, nil)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		rel, _ := filepath.Rel(dir, f)
		names = append(names, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{
		"PKG.Base.pcode",
		"PKG.Broken.pcode",
		"PKG.SUB.Child.pcode",
		"sub/PKG.SUB.Other.pcode",
	}, names)
}

func TestDiscoverFileRootAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, sampleFiles)
	readme := filepath.Join(dir, "README.md")
	base := filepath.Join(dir, "PKG.Base.pcode")

	files, err := Discover([]string{readme, base, base}, []string{".pcode"})
	require.NoError(t, err)
	assert.Equal(t, []string{base, readme}, files)

	_, err = Discover([]string{filepath.Join(dir, "missing")}, nil)
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	for _, workers := range []int{1, 4} {
		dir := t.TempDir()
		writeFiles(t, dir, sampleFiles)
		files, err := Discover([]string{dir}, nil)
		require.NoError(t, err)

		result, err := Build(context.Background(), files, BuildOptions{Workers: workers})
		require.NoError(t, err)

		assert.Equal(t, 4, result.Files)
		assert.Len(t, result.Classes, 3)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, filepath.Join(dir, "PKG.Broken.pcode"), result.Failures[0].Path)
		assert.True(t, errors.Is(result.Failures[0].Err, appclass.ErrNoDeclaration))

		other := result.Corpus.Find("PKG:SUB:Other")
		require.NotNil(t, other)
		var chain []string
		for _, s := range other.Superclasses {
			chain = append(chain, s.FQN())
		}
		assert.Equal(t, []string{"PKG:SUB:Child", "PKG:Base"}, chain)

		base := result.Corpus.Find("PKG:Base")
		require.NotNil(t, base)
		assert.Len(t, base.Subclasses, 1)
		require.NotNil(t, base.Doc)
		assert.Equal(t, "The base.", base.Doc.Summary)
	}
}

func TestBuildPrivateMembers(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"PKG.Secret.pcode": "class Secret\nprivate\n   method Hide();\nend-class;\n",
	})
	files, err := Discover([]string{dir}, nil)
	require.NoError(t, err)

	result, err := Build(context.Background(), files, BuildOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Classes[0].Methods)

	result, err = Build(context.Background(), files, BuildOptions{IncludePrivate: true})
	require.NoError(t, err)
	assert.Len(t, result.Classes[0].Methods, 1)
}

func TestBuildUnreadableFile(t *testing.T) {
	result, err := Build(context.Background(), []string{filepath.Join(t.TempDir(), "PKG.Gone.pcode")}, BuildOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Classes)
	assert.Len(t, result.Failures, 1)
}

func TestBuildCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, sampleFiles)
	files, err := Discover([]string{dir}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Build(ctx, files, BuildOptions{})
	assert.True(t, errors.Is(err, context.Canceled))
}
