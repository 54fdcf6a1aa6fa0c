package pairwise

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func TestHeaderFields(t *testing.T) {
	layout := Layout{Experiment: 0, Group: 1, Data: []int{3, 2}, Annotations: []int{4}}
	h := HeaderFrom([]string{"exp", "grp", "weight", "height", "note"}, layout)

	assert.Equal(t, []string{
		"exp", "grp 1", "grp 2",
		"height", "height higher group",
		"weight", "weight higher group",
		"note",
	}, h.Fields())
}

func TestFormatRow(t *testing.T) {
	row := Row{
		Experiment: "e1",
		Pair:       Pair{"a", "b"},
		Cells: []Cell{
			{P: null.FloatFrom(0.05), Higher: "b"},
			{Err: errors.New("empty")},
			{P: null.FloatFrom(1), Higher: "a"},
		},
		Annotations: []string{"x", "y"},
	}

	assert.Equal(t, []string{"e1", "a", "b", "0.05", "b", NotApplicable, NotApplicable, "1", "a", "x", "y"}, FormatRow(row))
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteHeader(Header{Experiment: "E", Group: "G", Data: []string{"v"}}))
	require.NoError(t, w.WriteRows([]Row{
		{Experiment: "e", Pair: Pair{"a", "b"}, Cells: []Cell{{P: null.FloatFrom(0.25), Higher: "a"}}},
		{Experiment: "e", Pair: Pair{"a", "c"}, Cells: []Cell{{Err: ErrEmptyGroupOrColumn}}},
	}))
	assert.Empty(t, buf.String(), "output is buffered until Flush")
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"E\tG 1\tG 2\tv\tv higher group",
		"e\ta\tb\t0.25\ta",
		"e\ta\tc\tNA\tNA",
	}, lines)
}

func TestMetricsReportAndSummary(t *testing.T) {
	m := NewMetrics(1)
	m.Add(Experiment{Samples: []Sample{{Group: "a"}, {Group: "b"}, {Group: "b"}}}, []Row{
		{Cells: []Cell{{P: null.FloatFrom(0.2)}}},
		{Cells: []Cell{{P: null.FloatFrom(0.4)}}},
		{Cells: []Cell{{Err: ErrEmptyGroupOrColumn}}},
	})

	s := m.Summary()
	assert.Equal(t, 2, s.Tests)
	assert.Equal(t, 1, s.NotApplicable)
	assert.InDelta(t, 0.3, s.AverageScore, 1e-12)
	assert.Equal(t, 1.5, s.AverageLinesPerGroup)
	assert.Equal(t, 2.0, s.AverageGroupsPerExperiment)

	var report bytes.Buffer
	m.Report(&report)
	assert.Contains(t, report.String(), "Average score: 0.3000")
	assert.Contains(t, report.String(), "Tests not applicable: 1")

	var summary bytes.Buffer
	require.NoError(t, m.WriteSummary(&summary))
	lines := strings.Split(strings.TrimSpace(summary.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "average_score\tscore_sd\ttests"))
	assert.True(t, strings.HasPrefix(lines[1], "0.3"))
}

func TestMetricsEmpty(t *testing.T) {
	s := NewMetrics(0).Summary()
	assert.Equal(t, 0.0, s.AverageScore)
	assert.Equal(t, 0.0, s.AverageLinesPerGroup)
}
