// Package buildinfo exposes version data injected at build time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/giteekit/internal/buildinfo.buildVersion=v0.3.0 \
//	  -X github.com/dmitrijs2005/giteekit/internal/buildinfo.buildCommit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"fmt"
	"io"
	"runtime"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// Version returns the injected version string.
func Version() string {
	return buildVersion
}

// PrintBuildData writes version, date, commit and Go toolchain to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
	fmt.Fprintf(w, "Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
