// Package misc keeps program identity: name, version and build hash.
package misc

import (
	"runtime/debug"
)

// set by the linker: -X twrn/misc.version=... -X twrn/misc.gitHash=...
var (
	version = "dev"
	gitHash = ""
)

const appName = "twrn"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns hash of the commit program was built from. When not set
// by the linker VCS information embedded by the go tool is used.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
