// Package catalog loads the movie catalog from a remote database or a local
// file and normalizes it into domain.Movie rows.
package catalog

import (
	"math"
	"strconv"
	"strings"

	"moviebot/internal/domain"
)

// Record is one raw catalog row keyed by column name.
type Record map[string]any

// Normalize lower-cases column names and maps them onto the fixed movie shape.
// Absent or empty columns become nil.
func Normalize(rec Record) domain.Movie {
	cols := make(map[string]any, len(rec))
	for k, v := range rec {
		cols[strings.ToLower(strings.TrimSpace(k))] = v
	}
	titleType := cols["titletype"]
	if titleType == nil {
		titleType = cols["title_type"]
	}
	return domain.Movie{
		ID:        toString(cols["id"]),
		Title:     toString(cols["title"]),
		TitleType: toString(titleType),
		Year:      toString(cols["year"]),
		Genres:    toString(cols["genres"]),
		Rating:    toFloat(cols["rating"]),
	}
}

// NormalizeAll normalizes every record, keeping order.
func NormalizeAll(recs []Record) []domain.Movie {
	out := make([]domain.Movie, len(recs))
	for i, r := range recs {
		out[i] = Normalize(r)
	}
	return out
}

func toString(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case *string:
		if t == nil {
			return nil
		}
		s = *t
	case []byte:
		s = string(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case int:
		s = strconv.Itoa(t)
	case int32:
		s = strconv.FormatInt(int64(t), 10)
	case float64:
		if math.IsNaN(t) {
			return nil
		}
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func toFloat(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		f = t
	case *float64:
		if t == nil {
			return nil
		}
		f = *t
	case float32:
		f = float64(t)
	case int64:
		f = float64(t)
	case int:
		f = float64(t)
	case []byte:
		return toFloat(string(t))
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) {
		return nil
	}
	return &f
}
