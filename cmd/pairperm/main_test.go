package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbocation/pairperm/relabel"
)

func TestRegisterFlagsDefaults(t *testing.T) {
	var force, noclobber bool
	fs := flag.NewFlagSet("pairperm", flag.ContinueOnError)
	cfg := registerFlags(fs, &force, &noclobber)
	require.NoError(t, fs.Parse([]string{"-input", "in.tsv"}))

	assert.True(t, cfg.Header)
	assert.True(t, cfg.Keep)
	assert.False(t, cfg.Directional)
	assert.Equal(t, "F", cfg.TestType)
	assert.Equal(t, relabel.DefaultCeiling, cfg.Ceiling)
	assert.False(t, force)
	assert.False(t, noclobber)
}

func TestRegisterFlagsHeaderless(t *testing.T) {
	var force, noclobber bool
	fs := flag.NewFlagSet("pairperm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg := registerFlags(fs, &force, &noclobber)
	require.NoError(t, fs.Parse([]string{"-input", "in.tsv", "-header=false", "-data", "3,4", "-force"}))

	assert.False(t, cfg.Header)
	assert.Equal(t, "3,4", cfg.DataColumns)
	assert.True(t, force)
}
