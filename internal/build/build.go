// Package build holds build-time information.
package build

var (
	// Version is the application version. Defaults to "dev"; overwritten by
	// linker flags in release builds.
	Version = "dev"

	// Commit is the VCS commit the binary was built from.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)
