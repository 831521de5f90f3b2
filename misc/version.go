package misc

import (
	"runtime/debug"
	"strings"
)

// Set at link time with -ldflags "-X gdc/misc.version=...".
var (
	appName = "gdc"
	version = ""
	gitHash = ""
)

func GetAppName() string {
	return appName
}

// GetVersion returns version set at link time or module version recorded by
// go install.
func GetVersion() string {
	if version != "" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return strings.TrimPrefix(bi.Main.Version, "v")
	}
	return "dev"
}

// GetGitHash returns commit hash set at link time or VCS revision recorded by
// go build.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value[:min(len(s.Value), 7)]
			}
		}
	}
	return "unknown"
}
