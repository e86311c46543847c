package domain

import (
	"strconv"
	"strings"
)

// SearchTextSeparator joins the searchable fields of a movie.
const SearchTextSeparator = " | "

// Movie is a single normalized catalog row. Nullable columns are pointers.
type Movie struct {
	ID        *string
	Title     *string
	TitleType *string
	Year      *string
	Genres    *string
	Rating    *float64
}

// SearchText concatenates title, genres, title type and year.
// Missing fields contribute an empty string.
func (m Movie) SearchText() string {
	return strings.Join([]string{
		deref(m.Title),
		deref(m.Genres),
		deref(m.TitleType),
		deref(m.Year),
	}, SearchTextSeparator)
}

// DisplayColumns is the fixed column order of shaped results.
var DisplayColumns = []string{"title", "titleType", "year", "genres", "rating"}

// DisplayRow projects the movie onto DisplayColumns.
func (m Movie) DisplayRow() []string {
	rating := ""
	if m.Rating != nil {
		rating = strconv.FormatFloat(*m.Rating, 'f', -1, 64)
	}
	return []string{
		deref(m.Title),
		deref(m.TitleType),
		deref(m.Year),
		deref(m.Genres),
		rating,
	}
}

// Match is a movie paired with its similarity score.
type Match struct {
	Movie Movie
	Score float64
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// FloatPtr returns a pointer to f.
func FloatPtr(f float64) *float64 { return &f }
