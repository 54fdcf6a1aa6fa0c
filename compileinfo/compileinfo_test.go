package compileinfo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	c := CompileInfo{Binary: "github.com/carbocation/pairperm/cmd/pairperm", Version: "v1.0.0", GoVersion: "go1.24", Commit: "abc123", CommitTime: "2026-01-02T03:04:05Z", Modified: true}
	s := c.String()
	assert.Contains(t, s, "pairperm v1.0.0")
	assert.Contains(t, s, "commit abc123")
	assert.Contains(t, s, "uncommitted changes")

	c.Commit = ""
	assert.Contains(t, c.String(), "no VCS information")
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf)
	assert.True(t, strings.HasPrefix(buf.String(), "pairperm "))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}
