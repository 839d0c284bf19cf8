// Package parser provides an error-tolerant parser for PeopleCode application
// class programs.
//
// # Overview
//
// The parser reads one program (the source of one application class or
// interface) and produces a concrete syntax tree of the declaration parts:
// imports, the class or interface header with its public, protected and
// private sections, and the method, getter and setter implementations. Method
// bodies are kept as opaque blocks; statements outside of declarations are
// skipped.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (CST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │
//	                           ▼
//	                    ┌─────────────┐
//	                    │ doc comment │
//	                    │   channel   │
//	                    └─────────────┘
//
// # Comments
//
// PeopleCode knows several comment forms, none of which reach the parser:
//
//	/* ... */     block comment
//	/** ... */    documentation comment
//	<* ... *>     nestable block comment
//	/+ ... +/     signature comment written by Application Designer
//	// ...        line comment
//
// Documentation comments are kept on their own channel and indexed by the
// token that follows them. DocCommentBefore returns, for any node, the last
// documentation comment between that node's first token and the token
// before it:
//
//	p := parser.ParseProgram(strings.NewReader(src), parser.WithFile("Foo.pcode"))
//	root := p.Finish()
//	class := root.FirstChildOfKind(parser.KindClassDecl)
//	if doc, ok := p.DocCommentBefore(class); ok {
//	    fmt.Println(doc.Literal)
//	}
//
// # Keywords
//
// Keywords are case-insensitive. The closing keywords end-class,
// end-interface, end-method, end-get and end-set are single tokens. Keywords
// such as get, set or out only have meaning in specific positions and are
// accepted as names elsewhere.
//
// # Error Recovery
//
// The parser never panics on malformed input. Unparsable text becomes a
// KindError node carrying a message, the expected token kinds and the token
// actually found; parsing resumes at the next member keyword or semicolon.
//
// A Parser instance is not safe for concurrent use. Create separate
// instances for concurrent parsing of different files.
package parser
