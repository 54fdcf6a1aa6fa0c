package pairperm

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// PeekSize is how much of the input the auto format inspects.
const PeekSize = 64 * 1024

// TableReader reads delimited rows and groups consecutive rows that share an
// experiment id.
type TableReader struct {
	Format Format

	// Delimiter is the field separator in use. For FormatSSV any run of
	// whitespace separates fields.
	Delimiter rune

	read    func() ([]string, error)
	header  []string
	pending []string
	err     error
	rows    int
}

// NewTableReader reads the header row immediately when hasHeader is set, so
// Header is available before any data is consumed.
func NewTableReader(r io.Reader, format Format, hasHeader bool) (*TableReader, error) {
	br := bufio.NewReaderSize(r, PeekSize)

	delimiter := ','
	switch format {
	case FormatTSV:
		delimiter = '\t'
	case FormatSSV:
		delimiter = ' '
	case FormatAuto:
		peeked, err := br.Peek(PeekSize)
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return nil, err
		}
		delimiter = DetermineDelimiter(bytes.NewReader(peeked))
		format = formatFor(delimiter)
	}

	t := &TableReader{Format: format, Delimiter: delimiter}

	switch format {
	case FormatTSV, FormatCSV:
		cr := csv.NewReader(br)
		cr.Comma = delimiter
		cr.LazyQuotes = true
		cr.FieldsPerRecord = -1
		t.read = cr.Read
	case FormatSSV:
		scanner := bufio.NewScanner(br)
		scanner.Buffer(make([]byte, 0, PeekSize), 16*1024*1024)
		t.read = func() ([]string, error) {
			for scanner.Scan() {
				if fields := strings.Fields(scanner.Text()); len(fields) > 0 {
					return fields, nil
				}
			}
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}

	if hasHeader {
		header, err := t.read()
		if err == io.EOF {
			return nil, fmt.Errorf("expected a header row, but the input is empty")
		} else if err != nil {
			return nil, err
		}
		t.header = header
	}

	return t, nil
}

// Header returns the header row, or nil if the input has none.
func (t *TableReader) Header() []string { return t.header }

// Rows is the number of data rows consumed so far.
func (t *TableReader) Rows() int { return t.rows }

// Peek returns the next data row without consuming it. It returns io.EOF when
// there are no more rows.
func (t *TableReader) Peek() ([]string, error) {
	if t.pending == nil && t.err == nil {
		t.pending, t.err = t.read()
	}
	if t.pending != nil {
		return t.pending, nil
	}
	return nil, t.err
}

// Read consumes the next data row.
func (t *TableReader) Read() ([]string, error) {
	row, err := t.Peek()
	if err != nil {
		return nil, err
	}
	t.pending = nil
	t.rows++
	return row, nil
}

// NextExperiment returns the next run of consecutive rows whose expCol field
// is identical. It returns io.EOF once the input is exhausted. Rows for one
// experiment id that are not adjacent in the file come back as separate runs.
func (t *TableReader) NextExperiment(expCol int) ([][]string, error) {
	first, err := t.Read()
	if err != nil {
		return nil, err
	}

	id := fieldAt(first, expCol)
	out := [][]string{first}

	for {
		row, err := t.Peek()
		if err == io.EOF {
			return out, nil
		} else if err != nil {
			return nil, err
		}

		if fieldAt(row, expCol) != id {
			return out, nil
		}

		out = append(out, row)
		t.pending = nil
		t.rows++
	}
}

func fieldAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
