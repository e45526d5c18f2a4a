package version

import "fmt"

// Version is the planbook release. Overridden at build time with
// -ldflags "-X github.com/jrepp/planbook/internal/version.Version=...".
var Version = "0.3.0"

// GitCommit is the commit the binary was built from, if known.
var GitCommit = ""

// FullVersion returns the version with the commit appended when known.
func FullVersion() string {
	if GitCommit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}
