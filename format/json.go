package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/appclassdoc/appclass"
)

type JSONEncoder struct {
	w      io.Writer
	class  *appclass.Class
	corpus *appclass.Corpus
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *appclass.Class) error {
	e.class, e.corpus = class, nil
	return e.write()
}

// EncodeCorpus writes the package index followed by every class.
func (e *JSONEncoder) EncodeCorpus(corpus *appclass.Corpus) error {
	e.class, e.corpus = nil, corpus
	return e.write()
}

func (e *JSONEncoder) write() error {
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	if e.corpus != nil {
		return json.MarshalIndent(newCorpusDocument(e.corpus), "", "  ")
	}
	if e.class == nil {
		return []byte("null"), nil
	}
	return json.MarshalIndent(newClassDocument(e.class), "", "  ")
}
