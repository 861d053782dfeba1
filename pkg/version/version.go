// Package version exposes build metadata for the dekot binary.
package version

import "runtime/debug"

// Build metadata, overridable at link time via -ldflags.
var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// Commit is the VCS revision the binary was built from.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// InitBinaryVersion fills unset build metadata from the embedded module
// build info, if available. Link-time values take precedence.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "unknown" {
				Commit = setting.Value
			}

		case "vcs.time":
			if Date == "unknown" {
				Date = setting.Value
			}
		}
	}
}
