package domain

// Vector is a sparse weight vector. Indices are strictly increasing and
// aligned with Weights.
type Vector struct {
	Indices []int
	Weights []float64
}

// Dot returns the dot product of two sparse vectors.
func (v Vector) Dot(o Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Weights[i] * o.Weights[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// IsZero reports whether the vector has no non-zero entries.
func (v Vector) IsZero() bool {
	for _, w := range v.Weights {
		if w != 0 {
			return false
		}
	}
	return true
}
