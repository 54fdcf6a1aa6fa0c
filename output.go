package pairperm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingOutputTarget is returned when the output cannot be opened for
// writing. Nothing has been written when it is returned.
var ErrMissingOutputTarget = errors.New("cannot open output for writing")

// ErrOverwriteDeclined is returned when the user chooses not to overwrite an
// existing output file.
var ErrOverwriteDeclined = errors.New("declined to overwrite existing output")

// OverwritePolicy decides what happens when the output file already exists.
type OverwritePolicy int

const (
	// OverwriteConfirm asks on the prompt before replacing a file.
	OverwriteConfirm OverwritePolicy = iota
	// OverwriteForbid never replaces a file.
	OverwriteForbid
	// OverwriteAllow replaces files silently.
	OverwriteAllow
)

// Prompt is where OverwriteConfirm asks its question.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

var yes = map[string]struct{}{"y": {}, "yes": {}}

// OpenOutput opens path for writing, truncating it. An empty path means
// stdout, whose Close is a no-op.
func OpenOutput(path string, policy OverwritePolicy, prompt Prompt) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}

	path, err := ExpandHome(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingOutputTarget, err)
	}

	if fi, err := os.Stat(path); err == nil {
		if fi.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", ErrMissingOutputTarget, path)
		}

		switch policy {
		case OverwriteForbid:
			return nil, fmt.Errorf("%w: %s already exists and overwriting is forbidden", ErrMissingOutputTarget, path)
		case OverwriteConfirm:
			ok, err := confirm(prompt, path)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrOverwriteDeclined
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingOutputTarget, err)
	}

	return f, nil
}

func confirm(prompt Prompt, path string) (bool, error) {
	if prompt.In == nil {
		return false, nil
	}
	if prompt.Out != nil {
		fmt.Fprintf(prompt.Out, "%s already exists. Overwrite? (y/n): ", path)
	}

	answer, err := bufio.NewReader(prompt.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	_, ok := yes[strings.ToLower(strings.TrimSpace(answer))]
	return ok, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
