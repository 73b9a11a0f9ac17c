package ml

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Vectorizer kinds.
const (
	KindTfidf = "tfidf"
	KindCount = "count"
)

// Norms applied to tf-idf rows.
const (
	NormL2   = "l2"
	NormL1   = "l1"
	NormNone = ""
)

// Matches the default token pattern of scikit-learn text vectorizers: runs of
// two or more word characters.
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// TextVectorizer is a fitted bag-of-n-grams vectorizer. Its vocabulary and idf
// weights come from the training run; it never changes after load.
//
// Transform mirrors scikit-learn's TfidfVectorizer/CountVectorizer: lowercase,
// tokenize, build n-grams joined by a single space, count vocabulary hits,
// then (tfidf only) optional 1+log(tf), idf weighting and row normalization.
type TextVectorizer struct {
	Kind        string         `json:"kind"`
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf,omitempty"`
	NgramRange  [2]int         `json:"ngram_range"`
	SublinearTF bool           `json:"sublinear_tf,omitempty"`
	Binary      bool           `json:"binary,omitempty"`
	Norm        string         `json:"norm,omitempty"`

	dim int
}

var _ Vectorizer = (*TextVectorizer)(nil)

// NewTextVectorizer validates a vectorizer description and prepares it for use.
func NewTextVectorizer(v TextVectorizer) (*TextVectorizer, error) {
	out := v
	if err := out.init(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (v *TextVectorizer) init() error {
	if v.Kind == "" {
		v.Kind = KindTfidf
	}
	if v.Kind != KindTfidf && v.Kind != KindCount {
		return fmt.Errorf("unknown vectorizer kind %q", v.Kind)
	}
	if len(v.Vocabulary) == 0 {
		return errors.New("vocabulary is empty")
	}
	if v.NgramRange == [2]int{} {
		v.NgramRange = [2]int{1, 1}
	}
	if v.NgramRange[0] < 1 || v.NgramRange[1] < v.NgramRange[0] {
		return fmt.Errorf("invalid ngram_range %v", v.NgramRange)
	}
	switch v.Norm {
	case NormL1, NormL2, NormNone:
	default:
		return fmt.Errorf("unknown norm %q", v.Norm)
	}

	v.dim = len(v.Vocabulary)
	if v.Kind == KindTfidf && len(v.IDF) > 0 {
		if len(v.IDF) != len(v.Vocabulary) {
			return fmt.Errorf("idf has %d weights for %d vocabulary terms", len(v.IDF), len(v.Vocabulary))
		}
	}

	seen := make([]bool, v.dim)
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= v.dim {
			return fmt.Errorf("term %q has index %d outside [0,%d)", term, idx, v.dim)
		}
		if seen[idx] {
			return fmt.Errorf("index %d assigned to more than one term", idx)
		}
		seen[idx] = true
	}
	return nil
}

func (v *TextVectorizer) Dim() int {
	return v.dim
}

func (v *TextVectorizer) Transform(docs []string) []SparseVector {
	out := make([]SparseVector, len(docs))
	for i, doc := range docs {
		out[i] = v.transform(doc)
	}
	return out
}

func (v *TextVectorizer) transform(doc string) SparseVector {
	tokens := tokenPattern.FindAllString(strings.ToLower(doc), -1)

	counts := make(map[int]float64)
	for _, term := range ngrams(tokens, v.NgramRange[0], v.NgramRange[1]) {
		if idx, ok := v.Vocabulary[term]; ok {
			counts[idx]++
		}
	}

	for idx, tf := range counts {
		if v.Binary {
			tf = 1
		}
		if v.Kind == KindTfidf {
			if v.SublinearTF {
				tf = 1 + math.Log(tf)
			}
			if len(v.IDF) > 0 {
				tf *= v.IDF[idx]
			}
		}
		counts[idx] = tf
	}

	if v.Kind == KindTfidf {
		normalize(counts, v.Norm)
	}
	return NewSparseVector(v.dim, counts)
}

func ngrams(tokens []string, lo, hi int) []string {
	if lo == 1 && hi == 1 {
		return tokens
	}
	var out []string
	for n := lo; n <= hi; n++ {
		if n == 1 {
			out = append(out, tokens...)
			continue
		}
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

func normalize(row map[int]float64, norm string) {
	var total float64
	switch norm {
	case NormL2:
		for _, val := range row {
			total += val * val
		}
		total = math.Sqrt(total)
	case NormL1:
		for _, val := range row {
			total += math.Abs(val)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for idx, val := range row {
		row[idx] = val / total
	}
}
