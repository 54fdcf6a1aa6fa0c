// Package pairwise runs exhaustive two-group permutation tests between every
// pair of groups within an experiment, on every requested data column.
package pairwise

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"

	"github.com/aybabtme/uniplot/histogram"
	"golang.org/x/sync/errgroup"
	"gopkg.in/guregu/null.v3"

	"github.com/carbocation/pairperm/nulldist"
	"github.com/carbocation/pairperm/pvalue"
)

// ErrEmptyGroupOrColumn marks a cell where one of the two groups has no
// present values for the column.
var ErrEmptyGroupOrColumn = errors.New("group has no values for this column")

// HistogramBins is the number of buckets used when dumping null
// distributions.
const HistogramBins = 20

// Cell is the result for one pair of groups on one column. When Err is set
// the cell is not applicable and P is invalid.
type Cell struct {
	P      null.Float
	Higher string
	Err    error
}

// Applicable is false for cells that could not be scored.
func (c Cell) Applicable() bool {
	return c.Err == nil && c.P.Valid
}

// Row is the output for one pair of groups within an experiment.
type Row struct {
	Experiment string
	Pair
	Cells       []Cell
	Annotations []string
}

// Tester scores every pair of groups in an experiment.
type Tester struct {
	Calculator *pvalue.Calculator

	// Ceiling bounds C(n1+n2, n1) per cell. Zero means relabel.DefaultCeiling.
	Ceiling int

	// Workers bounds concurrent cell evaluations. Zero means runtime.NumCPU().
	Workers int

	// Metrics, if set, accumulates run totals.
	Metrics *Metrics

	// Histogram, if set, receives an ASCII histogram of each null
	// distribution, in output order.
	Histogram io.Writer
}

// NewTester returns a Tester with default limits.
func NewTester(calc *pvalue.Calculator) *Tester {
	return &Tester{
		Calculator: calc,
		Workers:    runtime.NumCPU(),
	}
}

type cellKey struct {
	group  string
	column int
}

// Run tests every pair of groups on every data column of exp. Rows come back
// in pair order (see Pairs), and cells in data column order, no matter how
// many workers ran. Cell-level problems never fail the run; they are recorded
// on the Cell. Run only returns an error if ctx is cancelled.
func (t *Tester) Run(ctx context.Context, exp Experiment) ([]Row, error) {
	if t.Calculator == nil {
		return nil, fmt.Errorf("pairwise: tester has no calculator")
	}

	columns := 0
	if len(exp.Samples) > 0 {
		columns = len(exp.Samples[0].Values)
	}

	// One pass: present values per (group, column), in input order.
	values := make(map[cellKey][]float64)
	for _, s := range exp.Samples {
		for col, v := range s.Values {
			if !v.Valid {
				continue
			}
			k := cellKey{s.Group, col}
			values[k] = append(values[k], v.Float64)
		}
	}

	pairs := Pairs(exp.GroupIDs())
	rows := make([]Row, len(pairs))
	var hists [][]bytes.Buffer
	if t.Histogram != nil {
		hists = make([][]bytes.Buffer, len(pairs))
	}

	workers := t.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, pair := range pairs {
		rows[i] = Row{
			Experiment:  exp.ID,
			Pair:        pair,
			Cells:       make([]Cell, columns),
			Annotations: exp.Annotations,
		}
		if hists != nil {
			hists[i] = make([]bytes.Buffer, columns)
		}

		for col := 0; col < columns; col++ {
			i, col, pair := i, col, pair
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				var hist io.Writer
				if hists != nil {
					hist = &hists[i][col]
				}

				rows[i].Cells[col] = t.evaluate(pair, values[cellKey{pair.First, col}], values[cellKey{pair.Second, col}], hist)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, row := range rows {
		for col, cell := range row.Cells {
			if cell.Err != nil {
				log.Printf("Experiment %s: %s vs %s, data column #%d not applicable: %v\n", exp.ID, row.First, row.Second, col+1, cell.Err)
			}
			if hists != nil && hists[i][col].Len() > 0 {
				fmt.Fprintf(t.Histogram, "Experiment %s: %s vs %s, data column #%d\n", exp.ID, row.First, row.Second, col+1)
				hists[i][col].WriteTo(t.Histogram)
			}
		}
	}

	if t.Metrics != nil {
		t.Metrics.Add(exp, rows)
	}

	return rows, nil
}

// evaluate scores one cell. first and second are the present values of the
// pair's groups for one column.
func (t *Tester) evaluate(pair Pair, first, second []float64, hist io.Writer) Cell {
	if len(first) == 0 || len(second) == 0 {
		return Cell{Err: fmt.Errorf("%w (%s: %d values, %s: %d values)", ErrEmptyGroupOrColumn, pair.First, len(first), pair.Second, len(second))}
	}

	obs, err := nulldist.Observe(first, second)
	if err != nil {
		return Cell{Err: err}
	}

	pooled := make([]float64, 0, len(first)+len(second))
	pooled = append(pooled, first...)
	pooled = append(pooled, second...)

	dist, err := nulldist.Build(pooled, len(first), len(second), obs.Orientation, t.Ceiling)
	if err != nil {
		return Cell{Err: err}
	}

	if hist != nil {
		writeHistogram(hist, dist, obs.Difference)
	}

	p, err := t.Calculator.PValue(obs.Difference, dist)
	if err != nil {
		return Cell{Err: err}
	}

	higher := pair.First
	if obs.Orientation == nulldist.SecondHigher {
		higher = pair.Second
	}

	return Cell{P: p, Higher: higher}
}

func writeHistogram(w io.Writer, dist nulldist.Distribution, observed float64) {
	min, max := dist[0], dist[0]
	for _, v := range dist {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	fmt.Fprintf(w, "%d relabelings, observed difference %g\n", len(dist), observed)
	if min == max {
		fmt.Fprintf(w, "all relabelings gave %g\n", min)
		return
	}

	if err := histogram.Fprint(w, histogram.Hist(HistogramBins, dist), histogram.Linear(40)); err != nil {
		fmt.Fprintf(w, "histogram: %v\n", err)
	}
}
