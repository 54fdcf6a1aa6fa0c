package nulldist

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbocation/pairperm/relabel"
)

func pool(a, b []float64) []float64 {
	out := append([]float64{}, a...)
	return append(out, b...)
}

func TestObserve(t *testing.T) {
	obs, err := Observe([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 2.0, obs.MeanFirst)
	assert.Equal(t, 5.0, obs.MeanSecond)
	assert.Equal(t, SecondHigher, obs.Orientation)
	assert.Equal(t, 3.0, obs.Difference)

	obs, err = Observe([]float64{10, 12}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, FirstHigher, obs.Orientation)
	assert.Equal(t, 10.0, obs.Difference)

	// Ties orient toward the first group.
	obs, err = Observe([]float64{5}, []float64{5})
	require.NoError(t, err)
	assert.Equal(t, FirstHigher, obs.Orientation)
	assert.Equal(t, 0.0, obs.Difference)
}

func TestObserveEmpty(t *testing.T) {
	_, err := Observe(nil, []float64{1})
	assert.True(t, errors.Is(err, ErrEmptyPartition))
	_, err = Observe([]float64{1}, []float64{})
	assert.True(t, errors.Is(err, ErrEmptyPartition))
}

func TestBuildScenarioA(t *testing.T) {
	a, b := []float64{1, 2, 3}, []float64{4, 5, 6}
	obs, err := Observe(a, b)
	require.NoError(t, err)

	dist, err := Build(pool(a, b), len(a), len(b), obs.Orientation, relabel.DefaultCeiling)
	require.NoError(t, err)
	require.Len(t, dist, 20)

	assert.Equal(t, obs.Difference, dist[0], "first relabeling is the observed grouping")

	atLeast := 0
	for _, d := range dist {
		if d >= obs.Difference {
			atLeast++
		}
	}
	assert.Equal(t, 1, atLeast)

	// Relabelings come in mirrored pairs, so the distribution is symmetric.
	sum := 0.0
	for _, d := range dist {
		sum += d
	}
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestBuildContainsObserved(t *testing.T) {
	for _, v := range []struct {
		a, b []float64
	}{
		{[]float64{0.1, 0.2, 0.7}, []float64{0.3, 0.3}},
		{[]float64{1e9, 1e-9, 3.3}, []float64{2.2, 7.1, 0.05, 9}},
		{[]float64{-1.5, -2.25}, []float64{-1.5}},
		{[]float64{5}, []float64{5}},
	} {
		obs, err := Observe(v.a, v.b)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, obs.Difference, 0.0)

		dist, err := Build(pool(v.a, v.b), len(v.a), len(v.b), obs.Orientation, 0)
		require.NoError(t, err)

		found := false
		for _, d := range dist {
			if d == obs.Difference {
				found = true
				break
			}
		}
		assert.True(t, found, "observed %v missing from %v", obs.Difference, dist)
	}
}

func TestBuildOrientationIsFixed(t *testing.T) {
	a, b := []float64{1, 2}, []float64{3}
	pooled := pool(a, b)

	first, err := Build(pooled, 2, 1, FirstHigher, 0)
	require.NoError(t, err)
	second, err := Build(pooled, 2, 1, SecondHigher, 0)
	require.NoError(t, err)

	require.Len(t, first, 3)
	for i := range first {
		assert.Equal(t, first[i], -second[i])
	}
}

func TestBuildErrors(t *testing.T) {
	_, err := Build([]float64{1, 2}, 1, 2, FirstHigher, 0)
	assert.Error(t, err)

	_, err = Build([]float64{1, 2}, 0, 2, FirstHigher, 0)
	assert.True(t, errors.Is(err, ErrEmptyPartition))

	big := make([]float64, 30)
	_, err = Build(big, 15, 15, FirstHigher, relabel.DefaultCeiling)
	assert.True(t, errors.Is(err, relabel.ErrEnumerationTooLarge))
}

func TestBuildIsDeterministic(t *testing.T) {
	pooled := []float64{0.1, math.Pi, 2.5, 1e-3, 17, 4.4, 0.3}
	x, err := Build(pooled, 3, 4, FirstHigher, 0)
	require.NoError(t, err)
	y, err := Build(pooled, 3, 4, FirstHigher, 0)
	require.NoError(t, err)
	assert.Equal(t, x, y)
}

func TestObserveRoundingTieOrientsFirst(t *testing.T) {
	// 0.1+0.2 and 0.3+0.0 are equal, but not in floating point.
	for _, v := range []struct {
		a, b []float64
	}{
		{[]float64{0.1, 0.2}, []float64{0.3, 0.0}},
		{[]float64{0.3, 0.0}, []float64{0.1, 0.2}},
	} {
		obs, err := Observe(v.a, v.b)
		require.NoError(t, err)
		assert.Equal(t, FirstHigher, obs.Orientation)
		assert.GreaterOrEqual(t, obs.Difference, 0.0)
		assert.InDelta(t, 0, obs.Difference, 1e-15)
	}
}

func TestHugeValuesDoNotOverflow(t *testing.T) {
	a, b := []float64{1e308, 1e308}, []float64{1e308, 1e308}
	obs, err := Observe(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1e308, obs.MeanFirst)
	assert.Equal(t, 1e308, obs.MeanSecond)
	assert.Equal(t, 0.0, obs.Difference)

	dist, err := Build(pool(a, b), 2, 2, obs.Orientation, 0)
	require.NoError(t, err)
	for _, d := range dist {
		assert.Equal(t, 0.0, d)
	}
}
