// Package compileinfo reports which build of pairperm produced a result file.
package compileinfo

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

type CompileInfo struct {
	Binary     string
	Module     string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.Commit == "" {
		return fmt.Sprintf("pairperm %s (%s, built with %s, no VCS information)", c.Version, c.Binary, c.GoVersion)
	}

	mod := ""
	if c.Modified {
		mod = ", with uncommitted changes"
	}

	return fmt.Sprintf("pairperm %s (%s, built with %s at commit %s from %s%s)", c.Version, c.Binary, c.GoVersion, c.Commit, c.CommitTime, mod)
}

// Get reads the build information embedded by the go tool. Fields are left
// empty when the binary carries none, as under go test.
func Get() CompileInfo {
	out := CompileInfo{Version: "(devel)"}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Binary = z.Path
	out.Module = z.Main.Path
	if z.Main.Version != "" {
		out.Version = z.Main.Version
	}
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

// Fprint writes the build banner to w.
func Fprint(w io.Writer) {
	fmt.Fprintf(w, "%s\n", Get())
}

func PrintToStdErr() {
	Fprint(os.Stderr)
}
