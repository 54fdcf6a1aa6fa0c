// Package relabel enumerates every distinct way to assign two group labels to
// a pooled sequence of observations. It is a choose-k generator over position
// indices: each relabeling picks which n1 of the n1+n2 pooled positions carry
// label A, and the rest carry label B.
package relabel

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/BenLubar/memoize"
	"gonum.org/v1/gonum/stat/combin"
)

// DefaultCeiling is the largest number of relabelings that New will agree to
// enumerate unless told otherwise. A 10-vs-10 comparison (184,756
// relabelings) fits comfortably; 13-vs-13 (10,400,600) does not.
const DefaultCeiling = 5_000_000

// ErrEnumerationTooLarge is returned when C(n1+n2, n1) exceeds the ceiling.
var ErrEnumerationTooLarge = errors.New("enumeration exceeds the combinatorial ceiling")

// Cell sizes repeat across columns and experiments, so counts are cached per
// (n, k). countMu serializes access to the cache across worker goroutines.
var (
	memoizedCount = memoize.Memoize(count)
	countMu       sync.Mutex
)

// Label identifies which side of a comparison a pooled position belongs to.
type Label uint8

const (
	LabelA Label = iota
	LabelB
)

func (l Label) String() string {
	if l == LabelA {
		return "A"
	}
	return "B"
}

// Enumerator lazily yields relabelings in lexicographic order of the chosen
// position subsets. The first relabeling is always positions 0..n1-1 as label
// A, which is the original grouping when the pooled sequence is group A's
// values followed by group B's. An Enumerator is single-use and is not safe
// for concurrent use.
type Enumerator struct {
	n1, n2 int
	count  int

	gen       *combin.CombinationGenerator
	positions []int
	labels    []Label
}

// New returns an Enumerator over the C(n1+n2, n1) relabelings of n1 A labels
// and n2 B labels. If that count exceeds ceiling, no Enumerator is built and
// the error wraps ErrEnumerationTooLarge. A ceiling <= 0 means
// DefaultCeiling.
func New(n1, n2, ceiling int) (*Enumerator, error) {
	if n1 < 0 || n2 < 0 {
		return nil, fmt.Errorf("relabel: negative group size (n1=%d, n2=%d)", n1, n2)
	}

	c, err := Count(n1, n2, ceiling)
	if err != nil {
		return nil, err
	}

	return &Enumerator{
		n1:        n1,
		n2:        n2,
		count:     c,
		gen:       combin.NewCombinationGenerator(n1+n2, n1),
		positions: make([]int, n1),
		labels:    make([]Label, n1+n2),
	}, nil
}

// Count returns C(n1+n2, n1), or an error wrapping ErrEnumerationTooLarge if
// it exceeds ceiling. The check happens in log space first so that huge
// groups never overflow int.
func Count(n1, n2, ceiling int) (int, error) {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}

	if logBinomial(n1+n2, n1) > math.Log(float64(ceiling))+1e-9 {
		return 0, fmt.Errorf("%w: C(%d, %d) relabelings for groups of %d and %d (ceiling %d)", ErrEnumerationTooLarge, n1+n2, n1, n1, n2, ceiling)
	}

	countMu.Lock()
	c := memoizedCount.(func(int, int) int)(n1+n2, n1)
	countMu.Unlock()
	if c > ceiling {
		return 0, fmt.Errorf("%w: %d relabelings for groups of %d and %d (ceiling %d)", ErrEnumerationTooLarge, c, n1, n2, ceiling)
	}

	return c, nil
}

func count(n, k int) int {
	return combin.Binomial(n, k)
}

func logBinomial(n, k int) float64 {
	a, _ := math.Lgamma(float64(n) + 1)
	b, _ := math.Lgamma(float64(k) + 1)
	c, _ := math.Lgamma(float64(n-k) + 1)
	return a - b - c
}

// Count reports how many relabelings the Enumerator will yield in total.
func (e *Enumerator) Count() int { return e.count }

// Size returns the pooled length n1+n2, which every relabeling conserves.
func (e *Enumerator) Size() int { return e.n1 + e.n2 }

// Trivial is true when one side is empty. Such an enumeration has exactly one
// relabeling and no meaningful comparison can be made from it.
func (e *Enumerator) Trivial() bool { return e.n1 == 0 || e.n2 == 0 }

// Next advances to the next relabeling and returns false once all of them
// have been produced.
func (e *Enumerator) Next() bool {
	if !e.gen.Next() {
		return false
	}

	e.positions = e.gen.Combination(e.positions)

	for i := range e.labels {
		e.labels[i] = LabelB
	}
	for _, p := range e.positions {
		e.labels[p] = LabelA
	}

	return true
}

// Positions returns the ascending pooled positions that carry label A in the
// current relabeling. The slice is reused by Next.
func (e *Enumerator) Positions() []int { return e.positions }

// Labels returns the label of every pooled position in the current
// relabeling. The slice is reused by Next.
func (e *Enumerator) Labels() []Label { return e.labels }

// Collect drains the Enumerator into freshly allocated label vectors.
func (e *Enumerator) Collect() [][]Label {
	out := make([][]Label, 0, e.count)
	for e.Next() {
		v := make([]Label, len(e.labels))
		copy(v, e.labels)
		out = append(out, v)
	}
	return out
}
