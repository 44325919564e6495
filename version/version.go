package version

var (
	// Version is the semantic version of the build, set at link time.
	Version = "0.1.0"

	// GitHash is the git commit hash of the build, set at link time.
	GitHash = ""

	// Timestamp is the build timestamp, set at link time.
	Timestamp = ""
)
