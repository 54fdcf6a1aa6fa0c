// Package pvalue turns an observed oriented difference and its permutation
// null distribution into a probability value. These are permutation-based
// probability estimates and should not be read as classical p-values.
package pvalue

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gopkg.in/guregu/null.v3"
)

// ErrEmptyDistribution is returned when there is nothing to score against.
var ErrEmptyDistribution = errors.New("pvalue: empty null distribution")

// ErrNotFinite is returned when the observed value, the null distribution or
// a derived quantity is NaN or infinite. The probability is undefined.
var ErrNotFinite = errors.New("pvalue: non-finite value")

// Tolerance is the relative tolerance under which a relabeling counts as
// tying the observed difference. It is scaled by the largest magnitude among
// the observed value and the distribution.
const Tolerance = 1e-9

// Calculator scores observed differences. It holds no mutable state and is
// safe for concurrent use.
type Calculator struct {
	Test        TestType
	Directional bool

	// Tail is consulted only by NormalApproximation.
	Tail UpperTail
}

// New validates the configuration once so that an unsupported test type is
// fatal before any data is scored.
func New(test TestType, directional bool, tail UpperTail) (*Calculator, error) {
	if !test.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedTestType, test)
	}
	if test == NormalApproximation && tail == nil {
		return nil, fmt.Errorf("pvalue: the %v test needs an upper tail implementation", test)
	}

	return &Calculator{
		Test:        test,
		Directional: directional,
		Tail:        tail,
	}, nil
}

// PValue scores observed, which must already be oriented toward the higher
// group (and so be non-negative), against its null distribution. An invalid
// null.Float means the probability is undefined; it is always accompanied by
// an error.
func (c *Calculator) PValue(observed float64, distribution []float64) (null.Float, error) {
	if len(distribution) == 0 {
		return null.Float{}, ErrEmptyDistribution
	}
	if !finite(observed) {
		return null.Float{}, fmt.Errorf("%w: observed difference %v", ErrNotFinite, observed)
	}
	for _, d := range distribution {
		if !finite(d) {
			return null.Float{}, fmt.Errorf("%w: null distribution contains %v", ErrNotFinite, d)
		}
	}

	switch c.Test {
	case Frequentist:
		return null.FloatFrom(c.frequentist(observed, distribution)), nil
	case NormalApproximation:
		p, err := c.normal(observed, distribution)
		if err != nil {
			return null.Float{}, err
		}
		return null.FloatFrom(p), nil
	}

	return null.Float{}, fmt.Errorf("%w: %v", ErrUnsupportedTestType, c.Test)
}

// frequentist counts relabelings whose oriented difference is at least the
// observed one, within Tolerance. Because observed is never negative, the
// two-tailed threshold |observed| is the same as the one-tailed one, so
// Directional does not change the result here.
func (c *Calculator) frequentist(observed float64, distribution []float64) float64 {
	threshold := observed
	if !c.Directional && threshold < 0 {
		threshold = -threshold
	}

	scale := math.Max(floats.Norm(distribution, math.Inf(1)), math.Abs(threshold))
	abs := Tolerance * scale

	n := 0
	for _, d := range distribution {
		if d >= threshold || scalar.EqualWithinAbsOrRel(d, threshold, abs, Tolerance) {
			n++
		}
	}

	return float64(n) / float64(len(distribution))
}

func (c *Calculator) normal(observed float64, distribution []float64) (float64, error) {
	// z is measured from zero, where the null distribution of oriented
	// differences is centered.
	sd, err := stats.Float64Data(distribution).StandardDeviationPopulation()
	if err != nil {
		return 0, err
	}

	if !finite(sd) {
		return 0, fmt.Errorf("%w: standard deviation %v", ErrNotFinite, sd)
	}
	if sd == 0 {
		// Every relabeling produced the same difference as the observed one.
		return 1, nil
	}

	z := observed / sd
	if !finite(z) {
		return 0, fmt.Errorf("%w: z %v", ErrNotFinite, z)
	}

	p := c.Tail.UpperTail(z)
	if !c.Directional {
		p *= 2
	}
	if !finite(p) {
		return 0, fmt.Errorf("%w: tail probability at z=%v", ErrNotFinite, z)
	}
	if p > 1 {
		p = 1
	}

	return p, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
