package ml

// Vectorizer maps documents to fixed-dimension feature vectors. Dim is fixed once
// the vectorizer is loaded.
type Vectorizer interface {
	Transform(docs []string) []SparseVector
	Dim() int
}

// Classifier maps one feature vector to a raw class value plus a score
// (the decision value for linear models, leaf confidence for trees).
type Classifier interface {
	Predict(features SparseVector) (int, float64, error)
	NumFeatures() int
}

// PredictBatch runs the classifier over each vector and stops at the first error.
func PredictBatch(c Classifier, vectors []SparseVector) ([]int, error) {
	labels := make([]int, len(vectors))
	for i, v := range vectors {
		label, _, err := c.Predict(v)
		if err != nil {
			return nil, err
		}
		labels[i] = label
	}
	return labels, nil
}
