// Package version reports which build of agenda is running.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/example/agenda/internal/version.Commit=...".
// When left empty the VCS stamp embedded by the Go toolchain is used.
var (
	Commit    string
	BuildTime string
)

// Info is the resolved build identity.
type Info struct {
	Commit   string
	Time     string
	Modified bool
}

var readBuildInfo = debug.ReadBuildInfo

// Current resolves the build identity, preferring ldflags over VCS settings.
func Current() Info {
	info := Info{Commit: Commit, Time: BuildTime}
	if bi, ok := readBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.Time == "" {
					info.Time = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Time == "" {
		info.Time = "unknown"
	}
	return info
}

// String formats the build identity for `agenda --version`.
func String() string {
	info := Current()
	commit := info.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if info.Modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("agenda (commit %s, built %s)", commit, info.Time)
}
