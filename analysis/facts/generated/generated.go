// Package generated reports which files of a package were generated.
package generated

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"reflect"

	"golang.org/x/tools/go/analysis"
)

var (
	prefix = []byte("// Code generated ")
	suffix = []byte(" DO NOT EDIT.")
	nl     = []byte("\n")
	crnl   = []byte("\r\n")
)

// IsGenerated reports whether r contains a line marking its file as
// generated, following the convention documented by 'go help generate'.
func IsGenerated(r io.Reader) bool {
	br := bufio.NewReader(r)
	for {
		s, err := br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return false
		}
		s = bytes.TrimSuffix(s, crnl)
		s = bytes.TrimSuffix(s, nl)
		if bytes.HasPrefix(s, prefix) && bytes.HasSuffix(s, suffix) {
			return true
		}
		if err == io.EOF {
			return false
		}
	}
}

func isGenerated(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return IsGenerated(f)
}

// Analyzer maps the file names of a package to whether they were
// generated.
var Analyzer = &analysis.Analyzer{
	Name: "isgenerated",
	Doc:  "annotate file names that have been code generated",
	Run: func(pass *analysis.Pass) (interface{}, error) {
		m := map[string]bool{}
		for _, f := range pass.Files {
			path := pass.Fset.PositionFor(f.Pos(), false).Filename
			m[path] = isGenerated(path)
		}
		return m, nil
	},
	RunDespiteErrors: true,
	ResultType:       reflect.TypeOf(map[string]bool{}),
}
