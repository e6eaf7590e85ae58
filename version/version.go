// Package version reports the version of the stampcheck and stampfold
// binaries.
package version

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// Version is set for releases. Development builds use the version of
// the main module, if any.
const Version = "devel"

// Get returns a version descriptor and reports whether the version is
// a known release.
func Get() (string, bool) {
	if Version != "devel" {
		return Version, true
	}
	v, ok := buildInfoVersion()
	if ok {
		return v, false
	}
	return "devel", false
}

func describe(tool, v string, release bool) string {
	switch {
	case release:
		return fmt.Sprintf("%s %s", tool, v)
	case v == "devel":
		return fmt.Sprintf("%s (no version)", tool)
	default:
		return fmt.Sprintf("%s (devel, %s)", tool, v)
	}
}

func tool() string {
	return filepath.Base(os.Args[0])
}

// Print writes the version of the running binary to w.
func Print(w io.Writer) {
	v, release := Get()
	fmt.Fprintln(w, describe(tool(), v, release))
}

// Verbose writes the version of the running binary, the Go version it
// was built with and its dependencies to w.
func Verbose(w io.Writer) {
	Print(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compiled with Go version:", runtime.Version())
	printBuildInfo(w)
}
