package ml

import (
	"errors"
	"fmt"
)

// LinearModel is a fitted linear classifier (logistic regression, linear SVM,
// passive-aggressive and friends all export the same coef/intercept/classes).
//
// With a single coefficient row the model is binary: classes[1] when
// w·x + b > 0, classes[0] otherwise. With k rows it picks the argmax.
type LinearModel struct {
	coef      [][]float64
	intercept []float64
	classes   []int
}

var _ Classifier = (*LinearModel)(nil)

func NewLinearModel(coef [][]float64, intercept []float64, classes []int) (*LinearModel, error) {
	if len(coef) == 0 || len(coef[0]) == 0 {
		return nil, errors.New("coef is empty")
	}
	width := len(coef[0])
	for i, row := range coef {
		if len(row) != width {
			return nil, fmt.Errorf("coef row %d has %d weights, want %d", i, len(row), width)
		}
	}
	if len(intercept) != len(coef) {
		return nil, fmt.Errorf("intercept has %d values for %d coef rows", len(intercept), len(coef))
	}
	wantClasses := len(coef)
	if len(coef) == 1 {
		wantClasses = 2
	}
	if len(classes) != wantClasses {
		return nil, fmt.Errorf("got %d classes, want %d", len(classes), wantClasses)
	}
	return &LinearModel{coef: coef, intercept: intercept, classes: classes}, nil
}

func (m *LinearModel) NumFeatures() int {
	return len(m.coef[0])
}

// Classes returns the class values in model order.
func (m *LinearModel) Classes() []int {
	return append([]int(nil), m.classes...)
}

func (m *LinearModel) Predict(features SparseVector) (int, float64, error) {
	if err := checkDim(m.NumFeatures(), features); err != nil {
		return 0, 0, err
	}

	if len(m.coef) == 1 {
		score := features.Dot(m.coef[0]) + m.intercept[0]
		if score > 0 {
			return m.classes[1], score, nil
		}
		return m.classes[0], score, nil
	}

	best := 0
	bestScore := features.Dot(m.coef[0]) + m.intercept[0]
	for i := 1; i < len(m.coef); i++ {
		score := features.Dot(m.coef[i]) + m.intercept[i]
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return m.classes[best], bestScore, nil
}

func (m *LinearModel) artifact() classifierArtifact {
	return classifierArtifact{
		Kind:      KindLinear,
		Coef:      m.coef,
		Intercept: m.intercept,
		Classes:   m.classes,
	}
}
