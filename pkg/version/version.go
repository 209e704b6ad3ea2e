// Package version exposes build identity injected at link time.
package version

import "fmt"

// Version is the semantic version of the binary, set via -ldflags.
var Version = "dev"

// GitHash is the Git commit the binary was built from, set via -ldflags.
var GitHash = "<unknown>"

// String returns the full version line printed by the version command.
func String() string {
	return fmt.Sprintf("axeline %s (%s)", Version, GitHash)
}
