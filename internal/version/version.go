// Package version holds build metadata for the rqs binary.
package version

// Overridden at build time:
// go build -ldflags "-X rqs/internal/version.Version=0.4.0 -X rqs/internal/version.Commit=abc123"
var (
	Version   = "0.4.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns the version, suffixed with the short commit when known.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns multi-line version information for `rqs version`.
func Full() string {
	return "rqs version " + Version + "\n" +
		"commit: " + Commit + "\n" +
		"built: " + BuildDate
}
