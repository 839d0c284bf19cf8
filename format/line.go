package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/appclassdoc/appclass"
)

const lineIndent = "   "

// LineEncoder writes the declaration header of a class the way it reads
// in source: package line, class line, then the members grouped by scope.
type LineEncoder struct {
	w      io.Writer
	class  *appclass.Class
	corpus *appclass.Corpus
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *appclass.Class) error {
	e.class, e.corpus = class, nil
	return e.write()
}

// EncodeCorpus writes the header of every class, separated by blank lines.
func (e *LineEncoder) EncodeCorpus(corpus *appclass.Corpus) error {
	e.class, e.corpus = nil, corpus
	return e.write()
}

func (e *LineEncoder) write() error {
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	if e.corpus != nil {
		var sb strings.Builder
		for i, cls := range e.corpus.Classes() {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(Header(cls))
		}
		return []byte(sb.String()), nil
	}
	if e.class == nil {
		return nil, nil
	}
	return []byte(Header(e.class)), nil
}

// Header renders the declaration header of a class. Blocks of members are
// separated by a blank line; protected and private members follow their
// section keyword. A private constructor is not listed.
func Header(cls *appclass.Class) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "package %s\n\n", cls.PackageName())
	if cls.IsAbstract {
		sb.WriteString("abstract ")
	}
	fmt.Fprintf(&sb, "%s %s", cls.Kind, cls.Name())
	if parent := cls.Superclass(); parent != nil {
		fmt.Fprintf(&sb, " %s", parent)
	}
	sb.WriteString("\n")

	h := &headerWriter{sb: &sb}
	h.section("", scopeBlocks(cls, appclass.ScopePublic))
	h.section("protected", scopeBlocks(cls, appclass.ScopeProtected))

	private := scopeBlocks(cls, appclass.ScopePrivate)
	var constants []string
	for _, c := range cls.Constants {
		constants = append(constants, c.String())
	}
	private = append(private, constants)
	h.section("private", private)

	return sb.String()
}

type headerWriter struct {
	sb      *strings.Builder
	written bool
}

// section writes the non-empty blocks of one scope. Nothing is written,
// not even the keyword, when all blocks are empty.
func (h *headerWriter) section(keyword string, blocks [][]string) {
	var nonEmpty [][]string
	for _, b := range blocks {
		if len(b) > 0 {
			nonEmpty = append(nonEmpty, b)
		}
	}
	if len(nonEmpty) == 0 {
		return
	}

	if keyword != "" {
		if h.written {
			h.sb.WriteString("\n")
		}
		h.sb.WriteString(keyword + "\n")
	}
	for i, block := range nonEmpty {
		if i > 0 {
			h.sb.WriteString("\n")
		}
		for _, line := range block {
			h.sb.WriteString(lineIndent + line + "\n")
		}
	}
	h.written = true
}

func scopeBlocks(cls *appclass.Class, scope appclass.Scope) [][]string {
	var ctor, methods, props []string
	if c := cls.Constructor; c != nil && c.Scope == scope && scope != appclass.ScopePrivate {
		ctor = append(ctor, c.String())
	}
	for _, m := range cls.MethodsInScope(scope) {
		methods = append(methods, m.String())
	}
	for _, p := range cls.PropertiesInScope(scope) {
		props = append(props, p.String())
	}
	return [][]string{ctor, methods, props}
}
