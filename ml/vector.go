package ml

import "sort"

// SparseVector is a fixed-dimension vector storing only non-zero entries.
// Indices are strictly increasing.
type SparseVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// NewSparseVector builds a vector from an index->value map, dropping zeros.
func NewSparseVector(dim int, entries map[int]float64) SparseVector {
	indices := make([]int, 0, len(entries))
	for idx, val := range entries {
		if val != 0 {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = entries[idx]
	}
	return SparseVector{Dim: dim, Indices: indices, Values: values}
}

// At returns the value at index i, 0 for absent entries.
func (v SparseVector) At(i int) float64 {
	pos := sort.SearchInts(v.Indices, i)
	if pos < len(v.Indices) && v.Indices[pos] == i {
		return v.Values[pos]
	}
	return 0
}

// NNZ returns the number of stored entries.
func (v SparseVector) NNZ() int {
	return len(v.Indices)
}

// Dot computes the inner product with a dense weight row. Indices beyond the row are ignored.
func (v SparseVector) Dot(weights []float64) float64 {
	var sum float64
	for i, idx := range v.Indices {
		if idx < len(weights) {
			sum += v.Values[i] * weights[idx]
		}
	}
	return sum
}

// Dense expands the vector.
func (v SparseVector) Dense() []float64 {
	out := make([]float64, v.Dim)
	for i, idx := range v.Indices {
		if idx < v.Dim {
			out[idx] = v.Values[i]
		}
	}
	return out
}
