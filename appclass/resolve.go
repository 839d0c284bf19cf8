package appclass

import (
	"sort"
	"strings"
)

// maxHierarchyDepth bounds the ancestor chain of a single class.
const maxHierarchyDepth = 64

type hierarchyItem struct {
	fqn    string
	parent Superclass
}

// Resolve cross-references the classes of the corpus once all files have
// been built.
//
// The strategy:
//  1. Order the classes by name, then package.
//  2. For every class with a direct parent, follow the parent's own parent
//     through the classes of the corpus and append each ancestor found. The
//     chain ends at a parent the corpus does not define, at a parent without
//     package (a built-in type such as Exception), or at a class already
//     in the chain.
//  3. Attach to every class the descriptors registered in the subclass
//     index under its fully qualified name.
//  4. Sort the members of every class.
//
// Resolve may be called again after more classes were added; ancestors
// and subclasses are recomputed, not appended twice.
func (c *Corpus) Resolve() {
	c.mu.Lock()
	defer c.mu.Unlock()

	sort.SliceStable(c.classes, func(i, j int) bool {
		return classSortKey(c.classes[i]) < classSortKey(c.classes[j])
	})

	var index []hierarchyItem
	for _, cls := range c.classes {
		if parent := cls.Superclass(); parent != nil {
			index = append(index, hierarchyItem{fqn: cls.FQN(), parent: *parent})
		}
	}

	for _, cls := range c.classes {
		if len(cls.Superclasses) == 0 {
			continue
		}
		chain := ancestors(cls, index)
		cls.Superclasses = append(cls.Superclasses[:1:1], chain...)
	}

	for _, cls := range c.classes {
		cls.Subclasses = append([]ClassDescr(nil), c.subclasses[cls.FQN()]...)
		cls.SortMembers()
	}
}

func classSortKey(cls *Class) string {
	return strings.ToLower(cls.name + Separator + cls.PackageName())
}

func ancestors(cls *Class, index []hierarchyItem) []Superclass {
	key := cls.Superclasses[0]
	seen := map[string]bool{
		strings.ToLower(cls.FQN()): true,
		strings.ToLower(key.FQN()): true,
	}

	var chain []Superclass
	for depth := 0; len(key.Package) > 0 && depth < maxHierarchyDepth; depth++ {
		next, ok := lookupParent(index, key.FQN())
		if !ok {
			break
		}
		if seen[strings.ToLower(next.FQN())] {
			break
		}
		seen[strings.ToLower(next.FQN())] = true

		next.Package = append([]string(nil), next.Package...)
		next.Verb = VerbExtends
		chain = append(chain, next)
		key = next
	}
	return chain
}

func lookupParent(index []hierarchyItem, fqn string) (Superclass, bool) {
	for _, item := range index {
		if strings.EqualFold(item.fqn, fqn) {
			return item.parent, true
		}
	}
	return Superclass{}, false
}
