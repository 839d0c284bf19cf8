package format

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/appclassdoc/appclass"
)

type YAMLEncoder struct {
	w      io.Writer
	class  *appclass.Class
	corpus *appclass.Corpus
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(class *appclass.Class) error {
	e.class, e.corpus = class, nil
	return e.write()
}

func (e *YAMLEncoder) EncodeCorpus(corpus *appclass.Corpus) error {
	e.class, e.corpus = nil, corpus
	return e.write()
}

func (e *YAMLEncoder) write() error {
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	if e.corpus != nil {
		return yaml.Marshal(newCorpusDocument(e.corpus))
	}
	if e.class == nil {
		return []byte("null\n"), nil
	}
	return yaml.Marshal(newClassDocument(e.class))
}
