package version

import (
	"runtime/debug"
	"strings"
	"time"
)

// Set with -ldflags "-X github.com/kbukum/voicenote/version.Version=..." at build time.
var (
	Version   = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
	GoVersion = ""
)

const shortCommit = 7

// Info is the build description served on /version.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit,omitempty"`
	GitBranch string    `json:"git_branch,omitempty"`
	GoVersion string    `json:"go_version"`
	BuildTime string    `json:"build_time,omitempty"`
	BuildDate time.Time `json:"-"`
	IsDirty   bool      `json:"is_dirty"`
}

// GetVersionInfo combines the linker-provided values with the VCS stamp the
// go tool embeds. Linker values win.
func GetVersionInfo() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		GoVersion: GoVersion,
		BuildTime: BuildTime,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.GoVersion == "" {
			info.GoVersion = bi.GoVersion
		}
		applyBuildSettings(info, bi.Settings)
	}
	if len(info.GitCommit) > shortCommit {
		info.GitCommit = info.GitCommit[:shortCommit]
	}
	if t, err := time.Parse(time.RFC3339, info.BuildTime); err == nil {
		info.BuildDate = t.UTC()
	}
	return info
}

func applyBuildSettings(info *Info, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.IsDirty = s.Value == "true"
		}
	}
}

// GetShortVersion returns version-commit, with a -dirty suffix for builds
// from a modified tree.
func GetShortVersion() string {
	info := GetVersionInfo()
	v := info.Version
	if info.GitCommit != "" {
		v += "-" + info.GitCommit
		if info.IsDirty {
			v += "-dirty"
		}
	}
	return v
}

// GetFullVersion adds the branch, unless it is main or master, and the build date.
func GetFullVersion() string {
	info := GetVersionInfo()
	parts := []string{info.Version}
	if info.GitCommit != "" {
		parts = append(parts, info.GitCommit)
	}
	if b := info.GitBranch; b != "" && b != "main" && b != "master" {
		parts = append(parts, b)
	}
	if info.IsDirty {
		parts = append(parts, "dirty")
	}
	v := strings.Join(parts, "-")
	if !info.BuildDate.IsZero() {
		v += " (built " + info.BuildDate.Format(time.RFC3339) + ")"
	}
	return v
}

// UserAgent identifies voicenote to remote transcription services.
func UserAgent() string {
	return "voicenote/" + GetShortVersion()
}
