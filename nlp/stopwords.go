package nlp

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed english.txt
var englishStopwords string

// StopwordSet reports whether a lowercase token should be dropped before stemming.
type StopwordSet interface {
	IsStopword(token string) bool
}

// WordSet is a StopwordSet backed by a map.
type WordSet map[string]struct{}

var _ StopwordSet = WordSet(nil)

func (s WordSet) IsStopword(token string) bool {
	_, ok := s[token]
	return ok
}

// Len returns the number of words in the set.
func (s WordSet) Len() int {
	return len(s)
}

// NewWordSet builds a set from the given words, lowercased.
func NewWordSet(words ...string) WordSet {
	set := make(WordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// English returns the built-in English stopword list.
func English() WordSet {
	set, err := ReadStopwords(strings.NewReader(englishStopwords))
	if err != nil {
		// embedded list is static
		panic(err)
	}
	return set
}

// ReadStopwords parses one word per line. Blank lines and lines starting
// with '#' are ignored.
func ReadStopwords(r io.Reader) (WordSet, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stopwords: %w", err)
	}
	return NewWordSet(words...), nil
}

// LoadStopwords reads a stopword file from disk.
func LoadStopwords(path string) (WordSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stopwords %s: %w", path, err)
	}
	defer file.Close()

	set, err := ReadStopwords(file)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("stopwords %s: no words found", path)
	}
	return set, nil
}
