// Package testutil runs checks on their test data.
package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"honnef.co/go/stamps/analysis/lint"

	"golang.org/x/tools/go/analysis/analysistest"
)

// Run runs the analyzer on all packages in testdata/src/example.com and
// compares its diagnostics with the packages' // want comments.
func Run(t *testing.T, a *lint.Analyzer) {
	dirs, err := filepath.Glob("testdata/src/example.com/*")
	if err != nil {
		t.Fatalf("couldn't enumerate test data: %s", err)
	}

	if len(dirs) == 0 {
		t.Fatalf("found no tests")
	}

	pkgs := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		// Work around Windows paths
		dir = strings.ReplaceAll(dir, `\`, `/`)
		pkgs = append(pkgs, strings.TrimPrefix(dir, "testdata/src/"))
	}

	analysistest.Run(t, analysistest.TestData(), a.Analyzer, pkgs...)
}
