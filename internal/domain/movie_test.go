package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovie_SearchText(t *testing.T) {
	m := Movie{Title: StringPtr("Inception"), Genres: StringPtr("Sci-Fi"), Year: StringPtr("2010")}
	assert.Equal(t, "Inception | Sci-Fi |  | 2010", m.SearchText())
	assert.Equal(t, " |  |  | ", Movie{}.SearchText())
}

func TestMovie_DisplayRow(t *testing.T) {
	m := Movie{Title: StringPtr("Up"), TitleType: StringPtr("movie"), Rating: FloatPtr(8.2)}
	assert.Equal(t, []string{"Up", "movie", "", "", "8.2"}, m.DisplayRow())
	assert.Len(t, DisplayColumns, 5)
}

func TestVector_Dot(t *testing.T) {
	a := Vector{Indices: []int{0, 2, 5}, Weights: []float64{1, 2, 3}}
	b := Vector{Indices: []int{2, 3, 5}, Weights: []float64{4, 1, 1}}
	assert.InDelta(t, 11.0, a.Dot(b), 1e-12)
	assert.Zero(t, a.Dot(Vector{}))
	assert.True(t, Vector{}.IsZero())
	assert.False(t, a.IsZero())
}
