package pairwise

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"github.com/carbocation/runningvariance"
	"github.com/gocarina/gocsv"
)

// Metrics accumulates totals across every experiment of a run. It is safe for
// concurrent use.
type Metrics struct {
	m sync.Mutex

	Columns       int
	Experiments   int
	Groups        int
	Lines         int
	Tests         int
	NotApplicable int
	ScoreSum      float64

	scores *runningvariance.RunningStat
}

// NewMetrics starts a run over the given number of data columns.
func NewMetrics(columns int) *Metrics {
	return &Metrics{
		Columns: columns,
		scores:  runningvariance.NewRunningStat(),
	}
}

// Add folds one experiment's results into the totals.
func (m *Metrics) Add(exp Experiment, rows []Row) {
	m.m.Lock()
	defer m.m.Unlock()

	m.Experiments++
	m.Groups += len(exp.GroupIDs())
	m.Lines += len(exp.Samples)

	for _, row := range rows {
		for _, cell := range row.Cells {
			if !cell.Applicable() {
				m.NotApplicable++
				continue
			}
			m.Tests++
			m.ScoreSum += cell.P.Float64
			m.scores.Push(cell.P.Float64)
		}
	}
}

// MetricsSummary is a snapshot of Metrics, with derived averages.
type MetricsSummary struct {
	AverageScore               float64 `csv:"average_score"`
	ScoreSD                    float64 `csv:"score_sd"`
	Tests                      int     `csv:"tests"`
	NotApplicable              int     `csv:"not_applicable"`
	Experiments                int     `csv:"experiments"`
	Groups                     int     `csv:"groups"`
	Lines                      int     `csv:"lines"`
	Columns                    int     `csv:"columns"`
	AverageGroupsPerExperiment float64 `csv:"groups_per_experiment"`
	AverageLinesPerExperiment  float64 `csv:"lines_per_experiment"`
	AverageLinesPerGroup       float64 `csv:"lines_per_group"`
}

// Summary computes averages. Averages over zero items (and the SD of fewer
// than two scores) are reported as zero.
func (m *Metrics) Summary() MetricsSummary {
	m.m.Lock()
	defer m.m.Unlock()

	out := MetricsSummary{
		Tests:         m.Tests,
		NotApplicable: m.NotApplicable,
		Experiments:   m.Experiments,
		Groups:        m.Groups,
		Lines:         m.Lines,
		Columns:       m.Columns,
	}

	if m.Tests > 0 {
		out.AverageScore = m.ScoreSum / float64(m.Tests)
	}
	if m.Tests > 1 {
		out.ScoreSD = m.scores.StandardDeviation()
	}
	if m.Experiments > 0 {
		out.AverageGroupsPerExperiment = float64(m.Groups) / float64(m.Experiments)
		out.AverageLinesPerExperiment = float64(m.Lines) / float64(m.Experiments)
	}
	if m.Groups > 0 {
		out.AverageLinesPerGroup = float64(m.Lines) / float64(m.Groups)
	}

	return out
}

// Report prints a human-readable summary.
func (m *Metrics) Report(w io.Writer) {
	s := m.Summary()

	fmt.Fprintf(w, `
                    Average score: %.4f (SD %.4f)

            Experiments processed: %d
                 Groups processed: %d
                  Lines processed: %d

                Columns processed: %d
                  Tests performed: %d
             Tests not applicable: %d

    Average groups per experiment: %.2f
     Average lines per experiment: %.2f

          Average lines per group: %.2f
`, s.AverageScore, s.ScoreSD,
		s.Experiments, s.Groups, s.Lines,
		s.Columns, s.Tests, s.NotApplicable,
		s.AverageGroupsPerExperiment, s.AverageLinesPerExperiment,
		s.AverageLinesPerGroup)
}

// WriteSummary writes the summary as a one-row, tab-delimited table with a
// header.
func (m *Metrics) WriteSummary(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	summaries := []*MetricsSummary{}
	s := m.Summary()
	summaries = append(summaries, &s)

	if err := gocsv.MarshalCSV(&summaries, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
