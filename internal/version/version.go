// Package version holds the ecomap build metadata reported by /version and
// the startup log line. Values are injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
