package pairperm

import (
	"fmt"
	"io"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// Format is the layout of a delimited input table.
type Format string

const (
	FormatTSV  Format = "tsv"
	FormatCSV  Format = "csv"
	FormatSSV  Format = "ssv"
	FormatAuto Format = "auto"
)

// ParseFormat accepts tsv, csv, ssv or auto, in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTSV, FormatCSV, FormatSSV, FormatAuto:
		return f, nil
	}
	return "", fmt.Errorf("invalid input format %q: must be one of tsv, csv, ssv, auto", s)
}

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 && len(delimiters[0]) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}

// formatFor maps a delimiter onto a Format. Delimiters other than tab and
// space are read as CSV with that delimiter.
func formatFor(delimiter rune) Format {
	switch delimiter {
	case '\t':
		return FormatTSV
	case ' ':
		return FormatSSV
	}
	return FormatCSV
}
