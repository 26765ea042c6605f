// Package similarity implements the cosine similarity math used to rank
// fragments against a query embedding. Grounded on the float32 vector
// helpers in a storage layer's vector_ops.go, generalized from a
// SQLite blob format into the plain in-memory ranking used by
// internal/query.
package similarity

import (
	"fmt"
	"math"
	"sort"

	"github.com/corvine/flatindex/pkg/model"
)

// Cosine returns the cosine similarity of a and b. Requires len(a) ==
// len(b); returns model.ErrInvalidArgument otherwise. A zero-magnitude
// vector short-circuits to 0.0.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: vector lengths %d and %d differ", model.ErrInvalidArgument, len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Ranked is one scored candidate, ordered by descending Score with ties
// broken by the original insertion order (the index i was appended at).
type Ranked[T any] struct {
	Item  T
	Score float64
	order int
}

// Rank scores every item with score and sorts descending by score (ties
// keep insertion order). It returns every item; use Truncate to cap the
// result.
func Rank[T any](items []T, score func(T) (float64, error)) ([]Ranked[T], error) {
	ranked := make([]Ranked[T], 0, len(items))
	for i, it := range items {
		s, err := score(it)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, Ranked[T]{Item: it, Score: s, order: i})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}

// Truncate caps ranked to maxResults entries. maxResults <= 0 returns
// ranked unchanged.
func Truncate[T any](ranked []Ranked[T], maxResults int) []Ranked[T] {
	if maxResults > 0 && len(ranked) > maxResults {
		return ranked[:maxResults]
	}
	return ranked
}
