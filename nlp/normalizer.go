// Package nlp turns raw news text into the token string the vectorizer was fit on.
package nlp

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Normalizer strips everything but ASCII letters, lowercases, drops stopwords
// and stems what is left. It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	stopwords StopwordSet
	stemmer   Stemmer
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithStopwords replaces the English stopword list.
func WithStopwords(set StopwordSet) Option {
	return func(n *Normalizer) {
		if set != nil {
			n.stopwords = set
		}
	}
}

// WithStemmer replaces the NLTK Porter stemmer.
func WithStemmer(stemmer Stemmer) Option {
	return func(n *Normalizer) {
		if stemmer != nil {
			n.stemmer = stemmer
		}
	}
}

// NewNormalizer creates a normalizer using the English stopwords and
// NLTKPorterStemmer unless overridden.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		stopwords: English(),
		stemmer:   NLTKPorterStemmer{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns the space-joined stems of the non-stopword tokens of text.
// Digits, punctuation and non-Latin characters are discarded. An input with no
// surviving tokens yields "".
func (n *Normalizer) Normalize(text string) string {
	words := strings.Fields(strings.ToLower(LettersOnly(text)))

	stems := make([]string, 0, len(words))
	for _, word := range words {
		if n.stopwords.IsStopword(word) {
			continue
		}
		if stem := n.stemmer.Stem(word); stem != "" {
			stems = append(stems, stem)
		}
	}
	return strings.Join(stems, " ")
}

var lettersOnly = runes.Map(keepASCIILetter)

// LettersOnly replaces every rune outside [A-Za-z] with a single space.
func LettersOnly(text string) string {
	out, _, err := transform.String(lettersOnly, text)
	if err != nil {
		return strings.Map(keepASCIILetter, text)
	}
	return out
}

func keepASCIILetter(r rune) rune {
	if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
		return r
	}
	return ' '
}
