package nlp

import (
	"fmt"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
)

// Stemmer reduces a lowercase token to its root form.
type Stemmer interface {
	Stem(token string) string
}

// StemmerFunc adapts a plain function to the Stemmer interface.
type StemmerFunc func(token string) string

func (f StemmerFunc) Stem(token string) string {
	return f(token)
}

// Stemmer names accepted by StemmerByName.
const (
	StemmerNLTK   = "nltk"
	StemmerPorter = "porter"
)

// StemmerByName returns the stemmer registered under name. An empty name
// selects StemmerNLTK.
func StemmerByName(name string) (Stemmer, error) {
	switch name {
	case "", StemmerNLTK:
		return NLTKPorterStemmer{}, nil
	case StemmerPorter:
		return PorterStemmer{}, nil
	default:
		return nil, fmt.Errorf("unknown stemmer %q (want %s or %s)", name, StemmerNLTK, StemmerPorter)
	}
}

// PorterStemmer applies the classic 1980 Porter rules without the NLTK
// extensions ("news" -> "new", "today" -> "todai").
type PorterStemmer struct{}

var _ Stemmer = PorterStemmer{}

func (PorterStemmer) Stem(token string) string {
	return porterstemmer.StemString(token)
}
