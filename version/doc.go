// Package version embeds build version information for conveyor.
//
// Version and commit are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/conveyor/version.Version=1.0.0"
//
// When ldflags are absent, the VCS revision is read from the binary's
// embedded build info.
package version
