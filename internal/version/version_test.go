package version

import (
	"runtime/debug"
	"testing"
)

func TestString(t *testing.T) {
	vcs := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.time", Value: "2026-10-01T08:00:00Z"},
		{Key: "vcs.modified", Value: "true"},
	}}
	tests := []struct {
		name      string
		commit    string
		buildTime string
		info      *debug.BuildInfo
		want      string
	}{
		{"vcs stamp", "", "", vcs, "agenda (commit 0123456789ab+dirty, built 2026-10-01T08:00:00Z)"},
		{"ldflags win", "feedface", "2026-10-02", vcs, "agenda (commit feedface+dirty, built 2026-10-02)"},
		{"nothing known", "", "", nil, "agenda (commit unknown, built unknown)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldCommit, oldTime, oldRead := Commit, BuildTime, readBuildInfo
			defer func() { Commit, BuildTime, readBuildInfo = oldCommit, oldTime, oldRead }()

			Commit, BuildTime = tt.commit, tt.buildTime
			readBuildInfo = func() (*debug.BuildInfo, bool) { return tt.info, tt.info != nil }

			if got := String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
