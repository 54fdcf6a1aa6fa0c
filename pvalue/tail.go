package pvalue

import (
	"fmt"
	"math"
	"sort"

	"github.com/tokenme/probab/dst"
	"gonum.org/v1/gonum/stat/distuv"
)

// UpperTail is the survival function of the standard normal distribution:
// the probability that a standard normal variable exceeds z.
type UpperTail interface {
	UpperTail(z float64) float64
}

// TailFunc adapts an ordinary function to UpperTail.
type TailFunc func(z float64) float64

func (f TailFunc) UpperTail(z float64) float64 { return f(z) }

// GonumTail is backed by gonum's standard normal.
type GonumTail struct{}

func (GonumTail) UpperTail(z float64) float64 {
	return distuv.UnitNormal.Survival(z)
}

// ProbabTail is backed by the probab distribution package.
type ProbabTail struct{}

var probabUnitNormalCDF = dst.NormalCDF(0, 1)

func (ProbabTail) UpperTail(z float64) float64 {
	return 1 - probabUnitNormalCDF(z)
}

// ClosedFormTail needs no library: it is the Zelen & Severo polynomial
// (Abramowitz & Stegun 26.2.17), absolute error below 7.5e-8.
type ClosedFormTail struct{}

func (ClosedFormTail) UpperTail(z float64) float64 {
	if math.IsNaN(z) {
		return math.NaN()
	}
	if z < 0 {
		return 1 - ClosedFormTail{}.UpperTail(-z)
	}
	if math.IsInf(z, 1) {
		return 0
	}

	const (
		p  = 0.2316419
		b1 = 0.319381530
		b2 = -0.356563782
		b3 = 1.781477937
		b4 = -1.821255978
		b5 = 1.330274429
	)

	t := 1 / (1 + p*z)
	density := math.Exp(-z*z/2) / math.Sqrt(2*math.Pi)
	poly := t * (b1 + t*(b2+t*(b3+t*(b4+t*b5))))

	return density * poly
}

var tails = map[string]UpperTail{
	"gonum":      GonumTail{},
	"probab":     ProbabTail{},
	"closedform": ClosedFormTail{},
}

// TailByName resolves an upper-tail strategy once, at configuration time.
func TailByName(name string) (UpperTail, error) {
	if t, ok := tails[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown normal tail implementation %q (options: %v)", name, TailNames())
}

// TailNames lists the strategies TailByName accepts.
func TailNames() []string {
	out := make([]string, 0, len(tails))
	for k := range tails {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
