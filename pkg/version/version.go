// Package version reports which amanels build is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/Aman-CERP/amanels/pkg/version.Version=...".
// Builds without ldflags fall back to the VCS stamp the go tool embeds.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// BuildInfo is the build as printed by `amanels version --json`.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetInfo returns the running build.
func GetInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = withVCS(info, bi.Settings)
	}
	return info
}

// withVCS fills the commit and date that ldflags left empty.
func withVCS(info BuildInfo, settings []debug.BuildSetting) BuildInfo {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	if len(info.Commit) > 12 {
		info.Commit = info.Commit[:12]
	}
	return info
}

// String renders the build on one line, e.g.
// "amanels 0.3.0 (3f2c1a9e4b7d, 2026-05-01T10:00:00Z, go1.25.5, linux/amd64)".
func (b BuildInfo) String() string {
	commit := b.Commit
	if commit == "" {
		commit = "no commit"
	} else if b.Modified {
		commit += "+dirty"
	}
	date := b.Date
	if date == "" {
		date = "no date"
	}
	return fmt.Sprintf("amanels %s (%s, %s, %s, %s)", b.Version, commit, date, b.GoVersion, b.Platform)
}

// String is GetInfo().String().
func String() string {
	return GetInfo().String()
}

// Short returns the version alone.
func Short() string {
	return Version
}
