// Package buildinfo provides build information for printlink.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/printlink-go/internal/infra/buildinfo.Version=v1.0.0 \
//	  -X github.com/yndnr/printlink-go/internal/infra/buildinfo.Commit=abc123"
//
// Without ldflags the commit falls back to the VCS revision the Go
// toolchain stamps into the binary.
package buildinfo
