// Package directives extracts //lint: comments that control which
// diagnostics are reported.
//
// A '//lint:ignore SC1000,SC1001 reason' comment suppresses the named
// checks in the node it is attached to; '//lint:file-ignore SC1000
// reason' suppresses them in the whole file. Check names may end in a
// '*' to match all checks with that prefix.
package directives

import (
	"go/ast"
	"go/token"
	"reflect"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// A Directive is a comment of the form '//lint:<command>
// [arguments...]'.
type Directive struct {
	Command   string
	Arguments []string
	Directive *ast.Comment
	// The node the comment is attached to. For file-level directives,
	// this is the file.
	Node ast.Node
}

func parseDirective(s string) (cmd string, args []string) {
	if !strings.HasPrefix(s, "//lint:") {
		return "", nil
	}
	s = strings.TrimPrefix(s, "//lint:")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

func ParseDirectives(files []*ast.File, fset *token.FileSet) []Directive {
	var dirs []Directive
	for _, f := range files {
		cm := ast.NewCommentMap(fset, f, f.Comments)
		for node, cgs := range cm {
			for _, cg := range cgs {
				for _, c := range cg.List {
					cmd, args := parseDirective(c.Text)
					if cmd == "" {
						continue
					}
					d := Directive{
						Command:   cmd,
						Arguments: args,
						Directive: c,
						Node:      node,
					}
					if cmd == "file-ignore" {
						d.Node = f
					}
					dirs = append(dirs, d)
				}
			}
		}
	}
	return dirs
}

// Ignores reports whether d suppresses diagnostics of check at pos.
func (d Directive) Ignores(check string, pos token.Pos) bool {
	if d.Command != "ignore" && d.Command != "file-ignore" {
		return false
	}
	// The reason is mandatory.
	if len(d.Arguments) < 2 {
		return false
	}
	if pos < d.Node.Pos() || pos >= d.Node.End() {
		return false
	}
	for _, name := range strings.Split(d.Arguments[0], ",") {
		if name == check || strings.HasSuffix(name, "*") && strings.HasPrefix(check, strings.TrimSuffix(name, "*")) {
			return true
		}
	}
	return false
}

var Analyzer = &analysis.Analyzer{
	Name: "directives",
	Doc:  "extracts linter directives",
	Run: func(pass *analysis.Pass) (interface{}, error) {
		return ParseDirectives(pass.Files, pass.Fset), nil
	},
	RunDespiteErrors: true,
	ResultType:       reflect.TypeOf([]Directive{}),
}
