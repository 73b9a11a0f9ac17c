package ml

import "fmt"

// LoadError reports an artifact that could not be read, decoded or validated.
// A process holding one cannot serve predictions.
type LoadError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// DimensionMismatchError reports a feature vector whose size differs from
// what the classifier was trained on.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("feature dimension mismatch: classifier expects %d, vectorizer produced %d", e.Expected, e.Got)
}

func checkDim(expected int, v SparseVector) error {
	if v.Dim != expected {
		return &DimensionMismatchError{Expected: expected, Got: v.Dim}
	}
	return nil
}
