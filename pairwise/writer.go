package pairwise

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// NotApplicable is printed in place of the probability and the higher group
// for cells that could not be scored.
const NotApplicable = "NA"

// Header names the output columns. It is built from the input header row.
type Header struct {
	Experiment  string
	Group       string
	Data        []string
	Annotations []string
}

// HeaderFrom picks the header labels out of the input header row.
func HeaderFrom(row []string, layout Layout) Header {
	h := Header{
		Experiment: field(row, layout.Experiment),
		Group:      field(row, layout.Group),
	}
	for _, col := range layout.Data {
		h.Data = append(h.Data, field(row, col))
	}
	for _, col := range layout.Annotations {
		h.Annotations = append(h.Annotations, field(row, col))
	}
	return h
}

// Fields lays the header out the same way FormatRow lays out a row: every data
// column contributes its label and a "higher group" label.
func (h Header) Fields() []string {
	out := make([]string, 0, 3+2*len(h.Data)+len(h.Annotations))
	out = append(out, h.Experiment, h.Group+" 1", h.Group+" 2")
	for _, label := range h.Data {
		out = append(out, label, label+" higher group")
	}
	return append(out, h.Annotations...)
}

// FormatRow renders a result row as output fields.
func FormatRow(r Row) []string {
	out := make([]string, 0, 3+2*len(r.Cells)+len(r.Annotations))
	out = append(out, r.Experiment, r.First, r.Second)
	for _, c := range r.Cells {
		if !c.Applicable() {
			out = append(out, NotApplicable, NotApplicable)
			continue
		}
		out = append(out, strconv.FormatFloat(c.P.Float64, 'g', -1, 64), c.Higher)
	}
	return append(out, r.Annotations...)
}

// Writer writes delimited result rows. Call Flush when done.
type Writer struct {
	Delimiter string
	w         *bufio.Writer
}

// NewWriter returns a tab-delimited Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		Delimiter: "\t",
		w:         bufio.NewWriterSize(w, 4096*8),
	}
}

// WriteHeader writes the header line.
func (w *Writer) WriteHeader(h Header) error {
	return w.writeFields(h.Fields())
}

// WriteRows writes rows in the order given.
func (w *Writer) WriteRows(rows []Row) error {
	for _, r := range rows {
		if err := w.writeFields(FormatRow(r)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeFields(fields []string) error {
	if _, err := w.w.WriteString(strings.Join(fields, w.Delimiter)); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush writes any buffered output.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
