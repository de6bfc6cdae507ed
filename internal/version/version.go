// Package version holds the build version, overridden at link time with
// -ldflags "-X github.com/langcontroller/langcontroller/internal/version.Current=v1.2.3".
package version

// Current is the version of the running binary.
var Current = "dev"
