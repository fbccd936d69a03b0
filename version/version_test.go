package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func pin(t *testing.T, v, commit, branch, built string) {
	t.Helper()
	orig := []string{Version, GitCommit, GitBranch, BuildTime, GoVersion}
	t.Cleanup(func() {
		Version, GitCommit, GitBranch, BuildTime, GoVersion = orig[0], orig[1], orig[2], orig[3], orig[4]
	})
	Version, GitCommit, GitBranch, BuildTime, GoVersion = v, commit, branch, built, "go1.25.0"
}

func TestGetVersionInfoFromLinker(t *testing.T) {
	pin(t, "1.0.0", "abc1234def", "main", "2026-01-15T10:30:00Z")

	info := GetVersionInfo()
	if info.Version != "1.0.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("GitCommit = %q, want shortened abc1234", info.GitCommit)
	}
	if info.GoVersion != "go1.25.0" {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
	if info.BuildDate.Year() != 2026 {
		t.Errorf("BuildDate = %v", info.BuildDate)
	}
}

func TestApplyBuildSettings(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "fedcba9876"},
		{Key: "vcs.time", Value: "2026-03-01T08:00:00Z"},
		{Key: "vcs.modified", Value: "true"},
	}

	info := &Info{}
	applyBuildSettings(info, settings)
	if info.GitCommit != "fedcba9876" || info.BuildTime != "2026-03-01T08:00:00Z" || !info.IsDirty {
		t.Errorf("unexpected info %+v", info)
	}

	linked := &Info{GitCommit: "abc1234", BuildTime: "2026-01-01T00:00:00Z"}
	applyBuildSettings(linked, settings)
	if linked.GitCommit != "abc1234" || linked.BuildTime != "2026-01-01T00:00:00Z" {
		t.Errorf("linker values should win, got %+v", linked)
	}
}

func TestGetShortVersion(t *testing.T) {
	pin(t, "1.0.0", "abc1234", "", "2026-01-01T00:00:00Z")
	info := GetVersionInfo()
	want := "1.0.0-abc1234"
	if info.IsDirty {
		want += "-dirty"
	}
	if got := GetShortVersion(); got != want {
		t.Errorf("GetShortVersion() = %q, want %q", got, want)
	}
}

func TestGetFullVersion(t *testing.T) {
	tests := []struct {
		name    string
		branch  string
		want    []string
		notWant string
	}{
		{"main branch hidden", "main", []string{"1.0.0-abc1234", "(built 2026-01-15T10:30:00Z)"}, "main"},
		{"feature branch shown", "feature/inline-cursor", []string{"feature/inline-cursor"}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pin(t, "1.0.0", "abc1234", tc.branch, "2026-01-15T10:30:00Z")
			fv := GetFullVersion()
			for _, w := range tc.want {
				if !strings.Contains(fv, w) {
					t.Errorf("expected %q in %q", w, fv)
				}
			}
			if tc.notWant != "" && strings.Contains(fv, tc.notWant) {
				t.Errorf("did not expect %q in %q", tc.notWant, fv)
			}
		})
	}
}

func TestGetFullVersionDev(t *testing.T) {
	pin(t, "dev", "", "", "")
	if fv := GetFullVersion(); !strings.HasPrefix(fv, "dev") {
		t.Errorf("expected dev prefix, got %q", fv)
	}
}

func TestUserAgent(t *testing.T) {
	pin(t, "1.2.0", "abc1234", "", "")
	if ua := UserAgent(); !strings.HasPrefix(ua, "voicenote/1.2.0-abc1234") {
		t.Errorf("unexpected user agent %q", ua)
	}
}
