package version

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags at release time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the build metadata reported by hashall --version.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// Get resolves build metadata. Link-time values win over the module
// build info embedded by the go tool.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	build, ok := debug.ReadBuildInfo()
	if !ok {
		if info.Version == "dev" || info.Version == "" {
			info.Version = "development"
		}
		return info
	}
	info.Go = build.GoVersion
	return fromBuildInfo(info, build)
}

func fromBuildInfo(info Info, build *debug.BuildInfo) Info {
	if info.Version == "dev" || info.Version == "" {
		info.Version = "development"
		if v := build.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
	}
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "unknown" || info.Commit == "" {
				info.Commit = setting.Value
			}
		case "vcs.time":
			if info.Date == "unknown" || info.Date == "" {
				info.Date = setting.Value
			}
		}
	}
	return info
}

// String formats the version with a short commit and the build date when
// they are known, e.g. "v1.2.0 (3f2a9c1, built 2026-01-02T03:04:05Z)".
func (i Info) String() string {
	if i.Commit == "unknown" || len(i.Commit) <= 7 {
		return i.Version
	}
	short := i.Commit[:7]
	if i.Date == "unknown" || i.Date == "" {
		return fmt.Sprintf("%s (%s)", i.Version, short)
	}
	return fmt.Sprintf("%s (%s, built %s)", i.Version, short, i.Date)
}
