// Package version exposes the build version of the coinfocus binary.
package version

// version is overridden at build time:
//
//	go build -ldflags "-X github.com/rshade/coinfocus/pkg/version.version=v1.2.3"
var version = "dev" //nolint:gochecknoglobals // Set via ldflags.

// GetVersion returns the version string embedded at build time, or "dev".
func GetVersion() string {
	if version == "" {
		return "dev"
	}
	return version
}
