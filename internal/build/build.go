// Package build provides build-time information for the CLI application.
// Values are set via ldflags during build, for example:
//
//	-X github.com/tacogips/esops/internal/build.version=x.y.z
package build

var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// Version returns the application version.
func Version() string { return version }

// GitCommit returns the commit the binary was built from.
func GitCommit() string { return gitCommit }

// BuildDate returns the build timestamp.
func BuildDate() string { return buildDate }
