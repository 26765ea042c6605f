package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCosineBasics(t *testing.T) {
	c, err := Cosine([]float32{1, 0, 0}, []float32{1, 0, 0})
	require.NoError(t, err)
	require.InDelta(t, 1.0, c, 1e-9)

	c, err = Cosine([]float32{1, 0, 0}, []float32{0, 1, 0})
	require.NoError(t, err)
	require.InDelta(t, 0.0, c, 1e-9)

	c, err = Cosine([]float32{1, 0, 0}, []float32{-1, 0, 0})
	require.NoError(t, err)
	require.InDelta(t, -1.0, c, 1e-9)

	c, err = Cosine([]float32{1, 1, 0}, []float32{1, 0, 0})
	require.NoError(t, err)
	require.True(t, math.Abs(c-0.7071067) < 1e-4)
}

func TestCosineLengthMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 0}, []float32{1, 0, 0})
	require.Error(t, err)
}

func TestCosineZeroMagnitude(t *testing.T) {
	c, err := Cosine([]float32{0, 0}, []float32{1, 1})
	require.NoError(t, err)
	require.Equal(t, 0.0, c)
}

func TestRankTruncate(t *testing.T) {
	items := []string{"a", "b", "c"}
	scores := map[string]float64{"a": 0.5, "b": 0.9, "c": 0.9}
	ranked, err := Rank(items, func(s string) (float64, error) { return scores[s], nil })
	require.NoError(t, err)
	require.Equal(t, "b", ranked[0].Item)
	require.Equal(t, "c", ranked[1].Item)
	require.Equal(t, "a", ranked[2].Item)

	truncated := Truncate(ranked, 2)
	require.Len(t, truncated, 2)
}
