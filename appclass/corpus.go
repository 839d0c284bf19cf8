package appclass

import (
	"sort"
	"strings"
	"sync"
)

// Corpus is the state shared by all classes of one documentation run: the
// package index, the subclass index and the classes themselves. Classes
// register at construction, so a Corpus may be filled from several
// goroutines. Resolve must only run once every file has been built.
type Corpus struct {
	mu         sync.Mutex
	packages   map[string][]ClassDescr
	subclasses map[string][]ClassDescr
	classes    []*Class
}

func NewCorpus() *Corpus {
	return &Corpus{
		packages:   make(map[string][]ClassDescr),
		subclasses: make(map[string][]ClassDescr),
	}
}

func (c *Corpus) register(cls *Class) {
	c.mu.Lock()
	defer c.mu.Unlock()

	descr := cls.Descr()
	c.packages[cls.PackageName()] = append(c.packages[cls.PackageName()], descr)
	if parent := cls.Superclass(); parent != nil {
		key := parent.FQN()
		c.subclasses[key] = append(c.subclasses[key], descr)
	}
	c.classes = append(c.classes, cls)
}

// Classes returns the registered classes.
func (c *Corpus) Classes() []*Class {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Class(nil), c.classes...)
}

func (c *Corpus) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.classes)
}

// Packages returns the names of all packages holding at least one class,
// sorted case-insensitively.
func (c *Corpus) Packages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.packages))
	for name := range c.packages {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
	return names
}

// PackageClasses returns the descriptors of the classes in a package,
// sorted by simple name.
func (c *Corpus) PackageClasses(pkg string) []ClassDescr {
	c.mu.Lock()
	descrs := append([]ClassDescr(nil), c.packages[pkg]...)
	c.mu.Unlock()

	sort.SliceStable(descrs, func(i, j int) bool {
		li, lj := strings.ToLower(descrs[i].Name), strings.ToLower(descrs[j].Name)
		if li != lj {
			return li < lj
		}
		return descrs[i].Name < descrs[j].Name
	})
	return descrs
}

// SubclassesOf returns the descriptors registered against a parent
// reference. The key must match the reference exactly as written.
func (c *Corpus) SubclassesOf(fqn string) []ClassDescr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ClassDescr(nil), c.subclasses[fqn]...)
}

// Find returns the first class whose fully qualified name matches,
// ignoring case.
func (c *Corpus) Find(fqn string) *Class {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cls := range c.classes {
		if strings.EqualFold(cls.FQN(), fqn) {
			return cls
		}
	}
	return nil
}
