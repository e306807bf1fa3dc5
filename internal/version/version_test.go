package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	vcs := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2025-03-01T12:00:00Z"},
		{Key: "vcs.modified", Value: "true"},
	}

	tests := []struct {
		name        string
		info        debug.BuildInfo
		version     string
		commit      string
		wantVersion string
		wantCommit  string
	}{
		{
			name:        "vcs stamp",
			info:        debug.BuildInfo{Main: debug.Module{Version: "(devel)"}, Settings: vcs},
			wantVersion: "dev-20250301",
			wantCommit:  "0123456-dirty",
		},
		{
			name:        "tagged module",
			info:        debug.BuildInfo{Main: debug.Module{Version: "v1.2.0"}, Settings: vcs},
			wantVersion: "v1.2.0",
			wantCommit:  "0123456-dirty",
		},
		{
			name:        "ldflags win",
			info:        debug.BuildInfo{Main: debug.Module{Version: "v1.2.0"}, Settings: vcs},
			version:     "v9.9.9",
			commit:      "feedbee",
			wantVersion: "v9.9.9",
			wantCommit:  "feedbee",
		},
		{
			name: "no vcs",
			info: debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, commit := fromBuildInfo(&tt.info, tt.version, tt.commit)
			if version != tt.wantVersion || commit != tt.wantCommit {
				t.Errorf("fromBuildInfo() = %q, %q, want %q, %q", version, commit, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}

func TestFull(t *testing.T) {
	got := Full()
	if !strings.HasPrefix(got, Version+" (commit: "+Commit) {
		t.Errorf("Full() = %q", got)
	}
}
