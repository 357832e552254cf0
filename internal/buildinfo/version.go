// Package buildinfo holds values stamped in at link time
package buildinfo

// Version is set with
// go build -ldflags "-X github.com/YoshitsuguKoike/taskplan/internal/buildinfo.Version=v1.0.0"
var Version = "dev"

// Commit is the source revision, empty for local builds
var Commit = ""

// GetVersion returns the version, "dev" when unset
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// String returns the version with the commit appended when known
func String() string {
	if Commit == "" {
		return GetVersion()
	}
	return GetVersion() + " (" + Commit + ")"
}
