// Package version reports the linekit build version.
//
// Version, commit and build time are set at compile time:
//
//	go build -ldflags "-X github.com/kbukum/linekit/version.Version=1.2.0" ./cmd/linekit
//
// Unset values fall back to the VCS stamp in the module build info.
package version
