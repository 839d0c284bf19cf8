package codebase

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/appclassdoc/appclass"
	"github.com/dhamidi/appclassdoc/peoplecode/parser"
)

// Codebase keeps the parsed source files of a directory tree and the
// resolved corpus built from them. It is updated file by file, as an
// editor changes them.
type Codebase struct {
	mu             sync.RWMutex
	rootDir        string
	extensions     []string
	includePrivate bool
	files          map[string]*FileInfo
	corpus         *appclass.Corpus
}

type FileInfo struct {
	Path    string
	Content []byte
	Tree    *parser.Node
	Class   *appclass.Class
	Err     error

	parser *parser.Parser
}

type Option func(*Codebase)

func WithExtensions(extensions ...string) Option {
	return func(c *Codebase) {
		c.extensions = extensions
	}
}

func WithPrivateMembers(include bool) Option {
	return func(c *Codebase) {
		c.includePrivate = include
	}
}

func New(rootDir string, opts ...Option) *Codebase {
	c := &Codebase{
		rootDir:    rootDir,
		extensions: DefaultExtensions,
		files:      make(map[string]*FileInfo),
		corpus:     appclass.NewCorpus(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// IsSource reports whether path has one of the source extensions.
func (c *Codebase) IsSource(path string) bool {
	return hasExtension(path, c.extensions)
}

func (c *Codebase) ScanAll() error {
	paths, err := Discover([]string{c.rootDir}, c.extensions)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Warningf("reading %s: %s", path, err)
			continue
		}
		c.parseLocked(path, content)
	}
	c.rebuildLocked()
	return nil
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

func (c *Codebase) UpdateFile(path string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.parseLocked(path, content)
	c.rebuildLocked()
}

func (c *Codebase) parseLocked(path string, content []byte) {
	p := parser.ParseProgram(bytes.NewReader(content), parser.WithFile(filepath.Base(path)))
	c.files[path] = &FileInfo{
		Path:    path,
		Content: content,
		Tree:    p.Finish(),
		parser:  p,
	}
}

// rebuildLocked builds a fresh corpus from the parsed trees of all files.
func (c *Codebase) rebuildLocked() {
	corpus := appclass.NewCorpus()
	for _, path := range c.sortedPathsLocked() {
		f := c.files[path]
		f.Class, f.Err = nil, nil
		if f.Tree == nil {
			f.Err = appclass.ErrNoDeclaration
			continue
		}
		f.Class, f.Err = appclass.BuildClass(f.Tree, f.parser, appclass.PackageFromPath(path), corpus,
			appclass.IncludePrivate(c.includePrivate), appclass.WithSourceFile(path))
	}
	corpus.Resolve()
	c.corpus = corpus
}

func (c *Codebase) sortedPathsLocked() []string {
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.files[path]; !ok {
		return
	}
	delete(c.files, path)
	c.rebuildLocked()
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

func (c *Codebase) Corpus() *appclass.Corpus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.corpus
}

func (c *Codebase) AllClasses() []*appclass.Class {
	return c.Corpus().Classes()
}

// FindClass looks a class up by fully qualified name, then by simple name.
// Both ignore case.
func (c *Codebase) FindClass(name string) *appclass.Class {
	corpus := c.Corpus()
	if cls := corpus.Find(name); cls != nil {
		return cls
	}
	for _, cls := range corpus.Classes() {
		if strings.EqualFold(cls.Name(), name) {
			return cls
		}
	}
	return nil
}
