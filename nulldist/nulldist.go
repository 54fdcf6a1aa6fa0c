// Package nulldist builds the permutation null distribution of oriented group
// mean differences for one pair of groups on one column.
package nulldist

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/carbocation/pairperm/relabel"
)

// Tolerance is the relative tolerance under which two means are treated as
// tied. It is scaled by the largest magnitude in the pooled sample.
const Tolerance = 1e-9

// ErrEmptyPartition is returned when a group has no values to average.
var ErrEmptyPartition = errors.New("nulldist: group has no values")

// Orientation fixes the sign of every difference in a distribution. It is
// decided once from the observed grouping and never recomputed per
// relabeling.
type Orientation int8

const (
	// FirstHigher: differences are mean(label A) - mean(label B).
	FirstHigher Orientation = iota
	// SecondHigher: differences are mean(label B) - mean(label A).
	SecondHigher
)

func (o Orientation) String() string {
	if o == FirstHigher {
		return "first"
	}
	return "second"
}

// Observation is the observed comparison of two groups.
type Observation struct {
	MeanFirst   float64
	MeanSecond  float64
	Orientation Orientation

	// Difference is the oriented difference; never negative.
	Difference float64
}

// Distribution holds one oriented difference per relabeling, in enumeration
// order.
type Distribution []float64

// Observe compares group a (label A) with group b (label B). A tie, including
// one that differs only by rounding, orients toward the first group and has a
// difference of zero.
func Observe(a, b []float64) (Observation, error) {
	if len(a) == 0 || len(b) == 0 {
		return Observation{}, fmt.Errorf("%w (n1=%d, n2=%d)", ErrEmptyPartition, len(a), len(b))
	}

	pooled := make([]float64, 0, len(a)+len(b))
	pooled = append(pooled, a...)
	pooled = append(pooled, b...)

	identity := make([]int, len(a))
	for i := range identity {
		identity[i] = i
	}

	meanA, meanB := partitionMeans(pooled, identity)

	obs := Observation{
		MeanFirst:   meanA,
		MeanSecond:  meanB,
		Orientation: FirstHigher,
	}
	scale := floats.Norm(pooled, math.Inf(1))
	tied := scalar.EqualWithinAbsOrRel(meanA, meanB, Tolerance*scale, Tolerance)
	if meanB > meanA && !tied {
		obs.Orientation = SecondHigher
	}
	obs.Difference = orient(meanA, meanB, obs.Orientation)
	if obs.Difference < 0 {
		obs.Difference = 0
	}

	return obs, nil
}

// Build enumerates every relabeling of pooled (the first n1 values belong to
// the first group, the remaining n2 to the second) and returns the oriented
// mean difference of each. The first entry is the observed difference, except
// that a near-tie Observe reported as zero may come back as a rounding-sized
// value here.
func Build(pooled []float64, n1, n2 int, o Orientation, ceiling int) (Distribution, error) {
	if len(pooled) != n1+n2 {
		return nil, fmt.Errorf("nulldist: pooled length %d does not match n1+n2=%d", len(pooled), n1+n2)
	}
	if n1 == 0 || n2 == 0 {
		return nil, fmt.Errorf("%w (n1=%d, n2=%d)", ErrEmptyPartition, n1, n2)
	}

	e, err := relabel.New(n1, n2, ceiling)
	if err != nil {
		return nil, err
	}

	out := make(Distribution, 0, e.Count())
	for e.Next() {
		meanA, meanB := partitionMeans(pooled, e.Positions())
		out = append(out, orient(meanA, meanB, o))
	}

	return out, nil
}

// partitionMeans sums label A positions and label B positions in ascending
// pooled order. Observe and Build share it so that the identity relabeling
// reproduces the observed difference exactly. A sum that overflows is redone
// as a sum of v/n, which cannot exceed the largest magnitude.
func partitionMeans(pooled []float64, positionsA []int) (meanA, meanB float64) {
	nA := float64(len(positionsA))
	nB := float64(len(pooled) - len(positionsA))

	sumA, sumB := partitionSums(pooled, positionsA, 1, 1)
	if !math.IsInf(sumA, 0) && !math.IsInf(sumB, 0) {
		return sumA / nA, sumB / nB
	}

	return partitionSums(pooled, positionsA, nA, nB)
}

func partitionSums(pooled []float64, positionsA []int, divA, divB float64) (sumA, sumB float64) {
	next := 0
	for i, v := range pooled {
		if next < len(positionsA) && positionsA[next] == i {
			sumA += v / divA
			next++
			continue
		}
		sumB += v / divB
	}
	return sumA, sumB
}

func orient(meanA, meanB float64, o Orientation) float64 {
	if o == SecondHigher {
		return meanB - meanA
	}
	return meanA - meanB
}
