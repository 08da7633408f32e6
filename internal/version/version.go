// Package version carries build metadata for the specclean CLI. The
// variables are plain strings so machine-readable output stays free of
// escape codes; Colored renders the terminal banner form.
package version

import (
	"strings"

	"github.com/fatih/color"
)

// Overridable at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var componentColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored renders the version with the numeric components highlighted.
// A pre-release suffix keeps the default color. When color output is
// disabled this degrades to the plain version string.
func Colored() string {
	base, suffix, hasSuffix := strings.Cut(Version, "-")
	parts := strings.Split(base, ".")
	for i := range parts {
		parts[i] = componentColors[i%len(componentColors)].Sprint(parts[i])
	}
	out := strings.Join(parts, ".")
	if hasSuffix {
		out += "-" + suffix
	}
	return out
}
