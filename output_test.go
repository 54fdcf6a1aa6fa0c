package pairperm

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExisting(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "out.tsv")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))
	return path
}

func TestOpenOutputStdout(t *testing.T) {
	w, err := OpenOutput("", OverwriteForbid, Prompt{})
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}

func TestOpenOutputNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.tsv")
	w, err := OpenOutput(path, OverwriteForbid, Prompt{})
	require.NoError(t, err)

	_, err = w.Write([]byte("x\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(b))
}

func TestOpenOutputOverwritePolicies(t *testing.T) {
	path := writeExisting(t)
	_, err := OpenOutput(path, OverwriteForbid, Prompt{})
	assert.True(t, errors.Is(err, ErrMissingOutputTarget))

	var asked bytes.Buffer
	_, err = OpenOutput(path, OverwriteConfirm, Prompt{In: strings.NewReader("n\n"), Out: &asked})
	assert.True(t, errors.Is(err, ErrOverwriteDeclined))
	assert.Contains(t, asked.String(), "Overwrite?")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(b), "declining must leave the file untouched")

	w, err := OpenOutput(path, OverwriteConfirm, Prompt{In: strings.NewReader("Yes\n")})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, b)

	path = writeExisting(t)
	w, err = OpenOutput(path, OverwriteAllow, Prompt{})
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestOpenOutputConfirmWithoutPrompt(t *testing.T) {
	_, err := OpenOutput(writeExisting(t), OverwriteConfirm, Prompt{})
	assert.True(t, errors.Is(err, ErrOverwriteDeclined))
}

func TestOpenOutputUnwritable(t *testing.T) {
	dir := t.TempDir()
	_, err := OpenOutput(dir, OverwriteAllow, Prompt{})
	assert.True(t, errors.Is(err, ErrMissingOutputTarget))

	_, err = OpenOutput(filepath.Join(dir, "missing", "out.tsv"), OverwriteAllow, Prompt{})
	assert.True(t, errors.Is(err, ErrMissingOutputTarget))
}

func TestExpandHome(t *testing.T) {
	p, err := ExpandHome("data/in.tsv")
	require.NoError(t, err)
	assert.Equal(t, "data/in.tsv", p)

	p, err = ExpandHome("~/in.tsv")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p))
	assert.Equal(t, "in.tsv", filepath.Base(p))
}
