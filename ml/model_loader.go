package ml

import (
	"errors"
	"fmt"
)

// Classifier kinds.
const (
	KindLinear       = "linear"
	KindDecisionTree = "decision_tree"
)

type classifierArtifact struct {
	Kind string `json:"kind"`

	Coef      [][]float64 `json:"coef,omitempty"`
	Intercept []float64   `json:"intercept,omitempty"`
	Classes   []int       `json:"classes,omitempty"`

	NumFeatures int        `json:"num_features,omitempty"`
	Nodes       []TreeNode `json:"nodes,omitempty"`
}

type artifacter interface {
	artifact() classifierArtifact
}

// LoadVectorizer reads a fitted vectorizer from a .json or .gob artifact.
// Every failure is returned as *LoadError.
func LoadVectorizer(path string) (*TextVectorizer, error) {
	var v TextVectorizer
	if err := decodeFile(path, &v); err != nil {
		return nil, &LoadError{Artifact: "vectorizer", Path: path, Err: err}
	}
	if err := v.init(); err != nil {
		return nil, &LoadError{Artifact: "vectorizer", Path: path, Err: err}
	}
	return &v, nil
}

// LoadClassifier reads a fitted classifier from a .json or .gob artifact; the
// artifact's kind field picks the implementation and defaults to linear.
func LoadClassifier(path string) (Classifier, error) {
	var a classifierArtifact
	if err := decodeFile(path, &a); err != nil {
		return nil, &LoadError{Artifact: "classifier", Path: path, Err: err}
	}
	model, err := buildClassifier(a)
	if err != nil {
		return nil, &LoadError{Artifact: "classifier", Path: path, Err: err}
	}
	return model, nil
}

func buildClassifier(a classifierArtifact) (Classifier, error) {
	switch a.Kind {
	case KindLinear, "":
		return NewLinearModel(a.Coef, a.Intercept, a.Classes)
	case KindDecisionTree:
		return NewDecisionTree(a.Nodes, a.NumFeatures)
	default:
		return nil, fmt.Errorf("unsupported model type %q", a.Kind)
	}
}

// SaveVectorizer writes v to path; the extension picks the format.
func SaveVectorizer(path string, v *TextVectorizer) error {
	if v == nil {
		return errors.New("vectorizer is nil")
	}
	return encodeFile(path, v)
}

// SaveClassifier writes a classifier loaded or built by this package.
func SaveClassifier(path string, c Classifier) error {
	a, ok := c.(artifacter)
	if !ok {
		return fmt.Errorf("classifier %T cannot be serialized", c)
	}
	return encodeFile(path, a.artifact())
}
