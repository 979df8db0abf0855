// Package meta holds the build information of countercheck.
package meta

import (
	"fmt"
)

var (
	// Version is set by `-ldflags "-X github.com/visitorcount/countercheck/internal/meta.Version=..."`.
	Version = "HEAD"

	// Commit is set by ldflags the same as Version.
	Commit = "UNKNOWN"
)

// UserAgent is the User-Agent header that the check sends.
func UserAgent() string {
	return fmt.Sprintf("countercheck/%s (+https://github.com/visitorcount/countercheck)", Version)
}

// VersionString is a human readable version like "1.0.0 (abcdef)".
func VersionString() string {
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
