package ml

import (
	"errors"
	"fmt"
)

// DecisionTree is a fitted tree flattened into a node slice; node 0 is the root.
type DecisionTree struct {
	nodes       []TreeNode
	numFeatures int
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
	Confidence float64 `json:"confidence,omitempty"`
}

var _ Classifier = (*DecisionTree)(nil)

func NewDecisionTree(nodes []TreeNode, numFeatures int) (*DecisionTree, error) {
	if len(nodes) == 0 {
		return nil, errors.New("tree has no nodes")
	}
	if numFeatures <= 0 {
		return nil, errors.New("num_features must be positive")
	}
	for i, node := range nodes {
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= numFeatures {
			return nil, fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		if !validChild(node.LeftChild, len(nodes)) || !validChild(node.RightChild, len(nodes)) {
			return nil, fmt.Errorf("node %d: invalid child index", i)
		}
	}
	return &DecisionTree{nodes: nodes, numFeatures: numFeatures}, nil
}

func validChild(idx, n int) bool {
	return idx > 0 && idx < n
}

func (dt *DecisionTree) NumFeatures() int {
	return dt.numFeatures
}

func (dt *DecisionTree) Predict(features SparseVector) (int, float64, error) {
	if err := checkDim(dt.numFeatures, features); err != nil {
		return 0, 0, err
	}
	idx := 0
	// a well-formed tree reaches a leaf in fewer steps than it has nodes
	for steps := 0; steps < len(dt.nodes); steps++ {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, node.Confidence, nil
		}
		if features.At(node.FeatureIdx) <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
	return 0, 0, errors.New("invalid tree state: no leaf reached")
}

func (dt *DecisionTree) artifact() classifierArtifact {
	return classifierArtifact{
		Kind:        KindDecisionTree,
		NumFeatures: dt.numFeatures,
		Nodes:       dt.nodes,
	}
}
