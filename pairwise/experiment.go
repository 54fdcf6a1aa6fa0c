package pairwise

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// ErrInvalidColumnSpec is returned for malformed or out-of-range column
// numbers. It is always fatal, and is raised before any row is processed.
var ErrInvalidColumnSpec = errors.New("invalid column specification")

// Layout holds the 0-based column indices of a table.
type Layout struct {
	Experiment  int
	Group       int
	Data        []int
	Annotations []int
}

// Validate checks every index against the number of fields in a row.
func (l Layout) Validate(width int) error {
	check := func(name string, idx int) error {
		if idx < 0 || idx >= width {
			return fmt.Errorf("%w: %s column %d does not exist (rows have %d columns)", ErrInvalidColumnSpec, name, idx+1, width)
		}
		return nil
	}

	if err := check("experiment", l.Experiment); err != nil {
		return err
	}
	if err := check("group", l.Group); err != nil {
		return err
	}
	if len(l.Data) == 0 {
		return fmt.Errorf("%w: no data columns", ErrInvalidColumnSpec)
	}
	for _, v := range l.Data {
		if err := check("data", v); err != nil {
			return err
		}
	}
	for _, v := range l.Annotations {
		if err := check("annotation", v); err != nil {
			return err
		}
	}

	return nil
}

// ParseColumns converts a comma-separated list of 1-based column numbers
// (e.g. "3,5,9") to 0-based indices.
func ParseColumns(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty column list", ErrInvalidColumnSpec)
	}

	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		col, err := ParseColumn(part)
		if err != nil {
			return nil, err
		}
		out = append(out, col)
	}

	return out, nil
}

// ParseColumn converts one 1-based column number to a 0-based index.
func ParseColumn(s string) (int, error) {
	col, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || col < 1 {
		return 0, fmt.Errorf("%w: %q is not a positive column number", ErrInvalidColumnSpec, s)
	}
	return col - 1, nil
}

// Sample is one input row: a group id and one value per data column. An
// invalid null.Float marks an absent value.
type Sample struct {
	Group  string
	Values []null.Float
}

// Experiment is every sample sharing one experiment id.
type Experiment struct {
	ID      string
	Samples []Sample

	// Annotations are the pass-through values from the experiment's first row.
	Annotations []string
}

// FromRows builds an Experiment from rows that all carry the same experiment
// id. Empty or non-numeric data fields are treated as absent.
func FromRows(rows [][]string, layout Layout) (Experiment, error) {
	if len(rows) == 0 {
		return Experiment{}, fmt.Errorf("pairwise: no rows")
	}

	exp := Experiment{
		ID:      field(rows[0], layout.Experiment),
		Samples: make([]Sample, 0, len(rows)),
	}

	for _, col := range layout.Annotations {
		exp.Annotations = append(exp.Annotations, field(rows[0], col))
	}

	for i, row := range rows {
		if id := field(row, layout.Experiment); id != exp.ID {
			return Experiment{}, fmt.Errorf("pairwise: row %d belongs to experiment %q, not %q", i, id, exp.ID)
		}

		s := Sample{
			Group:  field(row, layout.Group),
			Values: make([]null.Float, len(layout.Data)),
		}
		for j, col := range layout.Data {
			s.Values[j] = ParseValue(field(row, col))
		}
		exp.Samples = append(exp.Samples, s)
	}

	return exp, nil
}

// ParseValue returns an invalid null.Float for anything that is not a finite
// number.
func ParseValue(s string) null.Float {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.Float{}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}

	return null.FloatFrom(v)
}

// Short rows yield empty fields rather than a panic. Layout.Validate guards
// the common case up front.
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// GroupIDs returns the experiment's distinct group ids, sorted.
func (e Experiment) GroupIDs() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range e.Samples {
		if _, exists := seen[s.Group]; exists {
			continue
		}
		seen[s.Group] = struct{}{}
		out = append(out, s.Group)
	}
	sort.Strings(out)
	return out
}

// Pair is an unordered pair of distinct groups, stored with First < Second.
type Pair struct {
	First  string
	Second string
}

// Pairs returns all C(k,2) pairs of the given ids in a deterministic order:
// the ids are sorted, then pairs run (0,1), (0,2), ..., (1,2), ...
func Pairs(groupIDs []string) []Pair {
	ids := append([]string(nil), groupIDs...)
	sort.Strings(ids)

	out := make([]Pair, 0, len(ids)*(len(ids)-1)/2+1)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			out = append(out, Pair{First: ids[i], Second: ids[j]})
		}
	}
	return out
}
