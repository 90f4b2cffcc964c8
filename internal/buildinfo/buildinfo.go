// Package buildinfo reports the version baked into the binary.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Version returns the module version or "dev" when built from a
// working tree.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return "dev"
	}
	version := info.Main.Version
	if version == "" || version == "(devel)" {
		return "dev"
	}
	return version
}

// Revision returns the VCS revision recorded at compile time,
// shortened to 12 characters, or "" when unavailable.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			revision := setting.Value
			if len(revision) > 12 {
				revision = revision[:12]
			}
			return revision
		}
	}
	return ""
}

// VersionWithRevision returns the version string, with the VCS
// revision appended when one was recorded.
func VersionWithRevision() string {
	version := Version()
	revision := Revision()
	if revision == "" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, revision)
}
