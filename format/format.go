package format

import (
	"encoding"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/appclassdoc/appclass"
)

// ErrUnknownFormat is returned by NewEncoder for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Names lists the supported output formats.
var Names = []string{"json", "yaml", "line"}

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *appclass.Class) error
	EncodeCorpus(corpus *appclass.Corpus) error
}

// NewEncoder returns the encoder registered under name, ignoring case.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch strings.ToLower(name) {
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml", "yml":
		return NewYAMLEncoder(w), nil
	case "line", "text":
		return NewLineEncoder(w), nil
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%q, expected one of %s", name, strings.Join(Names, ", "))
}
