package apidoc

import (
	"strings"
	"unicode"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("appclassdoc.apidoc")

// TagSigil starts a tag line.
const TagSigil = '@'

type Option func(*parseConfig)

type parseConfig struct {
	unknownTag func(name, content string)
}

// WithUnknownTagHandler replaces the default handling of unrecognized tags,
// which logs a warning. The tag is dropped either way.
func WithUnknownTagHandler(fn func(name, content string)) Option {
	return func(c *parseConfig) {
		c.unknownTag = fn
	}
}

func warnUnknownTag(name, content string) {
	log.Warningf("API comment tag %q not recognized, ignored", name)
}

var tagHandlers = map[string]func(d *Description, content string){
	"param": func(d *Description, content string) {
		d.Params = append(d.Params, content)
	},
	"exception": appendException,
	"throw":     appendException,
	"throws":    appendException,
	"return":    setReturns,
	"returns":   setReturns,
	"version": func(d *Description, content string) {
		d.Version = content
	},
	"author": func(d *Description, content string) {
		d.Authors = append(d.Authors, content)
	},
}

func appendException(d *Description, content string) {
	d.Exceptions = append(d.Exceptions, content)
}

func setReturns(d *Description, content string) {
	d.Returns = content
}

// Parse parses a single API comment. The comment may be given with or
// without its /** and */ delimiters. Parse returns nil when the comment has
// no content.
func Parse(comment string, opts ...Option) *Description {
	cfg := &parseConfig{unknownTag: warnUnknownTag}
	for _, opt := range opts {
		opt(cfg)
	}

	lines := commentLines(comment)
	if len(lines) == 0 {
		return nil
	}

	firstTag := len(lines)
	for i, line := range lines {
		if line != "" && line[0] == TagSigil {
			firstTag = i
			break
		}
	}

	d := &Description{
		Paragraphs: splitParagraphs(lines[:firstTag]),
	}
	if len(d.Paragraphs) > 0 {
		d.Summary = summarize(d.Paragraphs[0])
	}

	for _, tag := range groupTags(lines[firstTag:]) {
		handler, ok := tagHandlers[strings.ToLower(tag.name)]
		if !ok {
			cfg.unknownTag(tag.name, tag.content)
			continue
		}
		handler(d, tag.content)
	}

	return d
}

// commentLines strips the comment delimiters and returns the trimmed lines
// without their leading asterisks. Leading and trailing blank lines are
// dropped.
func commentLines(comment string) []string {
	text := strings.TrimSpace(comment)
	if strings.HasPrefix(text, "/*") {
		text = text[2:]
		if strings.HasSuffix(text, "*/") {
			text = strings.TrimRight(text[:len(text)-2], "*")
		}
		text = strings.TrimLeft(text, "*")
	}
	text = strings.ReplaceAll(text, "\r", "")

	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "*")
		lines = append(lines, strings.TrimSpace(line))
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func splitParagraphs(lines []string) []string {
	var paragraphs []string
	var current []string
	for _, line := range lines {
		if line != "" {
			current = append(current, line)
			continue
		}
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}
	return paragraphs
}

// summarize returns the first sentence of a paragraph. Sentences end at
// ". " so that names like Record.Field stay intact.
func summarize(paragraph string) string {
	if i := strings.Index(paragraph, ". "); i >= 0 {
		return paragraph[:i] + "."
	}
	if strings.HasSuffix(paragraph, ".") {
		return paragraph
	}
	return paragraph + "."
}

type tag struct {
	name    string
	content string
}

// groupTags folds continuation lines into the tag line before them. Blank
// lines are ignored and tags without content are dropped.
func groupTags(lines []string) []tag {
	var tags []tag
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(current, " "))
		current = nil
		i := strings.IndexFunc(text, unicode.IsSpace)
		if i <= 0 {
			return
		}
		tags = append(tags, tag{name: text[:i], content: strings.TrimSpace(text[i:])})
	}

	for _, line := range lines {
		if line == "" {
			continue
		}
		if line[0] == TagSigil {
			flush()
			current = []string{line[1:]}
			continue
		}
		current = append(current, line)
	}
	flush()

	return tags
}
