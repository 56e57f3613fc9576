package version

import (
	"strings"
	"testing"
)

func TestGetUsesLinkerValues(t *testing.T) {
	orig := [3]string{Version, GitCommit, BuildTime}
	defer func() { Version, GitCommit, BuildTime = orig[0], orig[1], orig[2] }()

	Version, GitCommit, BuildTime = "0.3.0", "abcdef0123456", "2026-01-02T03:04:05Z"
	info := Get()
	if info.Version != "0.3.0" || info.GitCommit != "abcdef0" || info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestShortAndString(t *testing.T) {
	tests := []struct {
		name  string
		info  Info
		short string
	}{
		{"version only", Info{Version: "dev"}, "dev"},
		{"commit", Info{Version: "0.3.0", GitCommit: "abcdef0"}, "0.3.0-abcdef0"},
		{"dirty", Info{Version: "0.3.0", GitCommit: "abcdef0", Dirty: true}, "0.3.0-abcdef0-dirty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.info.Short(); got != tc.short {
				t.Errorf("Short() = %q, want %q", got, tc.short)
			}
		})
	}

	full := Info{Version: "0.3.0", BuildTime: "2026-01-02T03:04:05Z", GoVersion: "go1.26.0"}.String()
	if !strings.Contains(full, "(built 2026-01-02T03:04:05Z)") || !strings.HasSuffix(full, "go1.26.0") {
		t.Errorf("unexpected String() %q", full)
	}
}
