// Package version reports the build version of rootmind.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is set at build time:
// -ldflags="-X github.com/rootmind/go-rootmind/internal/version.Version=v1.0.0"
var Version = ""

// Info holds all version-related metadata.
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Revision  string `json:"revision,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
}

// GetInfo returns the build metadata for the named binary.
func GetInfo(name string) Info {
	info := Info{
		Name:      name,
		Version:   Get(),
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Revision, info.Modified = vcs(bi)
	}
	return info
}

func vcs(bi *debug.BuildInfo) (revision string, modified bool) {
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	return revision, modified
}

// Get returns the version string: the ldflags value, the module version, a
// dev-<revision> string, or "dev".
func Get() string {
	if Version != "" {
		return Version
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	if rev, _ := vcs(bi); rev != "" {
		if len(rev) > 7 {
			rev = rev[:7]
		}
		return "dev-" + rev
	}
	return "dev"
}

// String returns "<name> version <version>".
func String(name string) string {
	return fmt.Sprintf("%s version %s", name, Get())
}
