// Package version reports the build of the ocvflow binary.
//
// Values are set with -ldflags and fall back to the module's VCS build info:
//
//	go build -ldflags "-X github.com/kbukum/ocvflow/version.Version=0.3.0" ./cmd/ocvflow
package version
