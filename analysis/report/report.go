// Package report reports diagnostics of checks, honoring generated
// files and //lint:ignore directives.
package report

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
	"path/filepath"

	"honnef.co/go/stamps/analysis/facts/directives"
	"honnef.co/go/stamps/analysis/facts/generated"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ast/astutil"
)

// Positioner is implemented by AST nodes and SSA instructions.
type Positioner interface {
	Pos() token.Pos
}

type options struct {
	filterGenerated bool
	related         []analysis.RelatedInformation
}

type Option func(*options)

// FilterGenerated suppresses the diagnostic in generated files.
func FilterGenerated() Option {
	return func(opts *options) {
		opts.filterGenerated = true
	}
}

// Related adds related information to the diagnostic.
func Related(node Positioner, message string) Option {
	return func(opts *options) {
		opts.related = append(opts.related, analysis.RelatedInformation{Pos: node.Pos(), Message: message})
	}
}

// RequiredAnalyzers are the analyzers Report needs the results of.
var RequiredAnalyzers = []*analysis.Analyzer{generated.Analyzer, directives.Analyzer}

// Report reports a diagnostic at node, unless a directive ignores the
// pass's check there.
func Report(pass *analysis.Pass, node Positioner, message string, opts ...Option) {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	pos := node.Pos()
	if cfg.filterGenerated {
		file := DisplayPosition(pass.Fset, pos).Filename
		if pass.ResultOf[generated.Analyzer].(map[string]bool)[file] {
			return
		}
	}
	for _, dir := range pass.ResultOf[directives.Analyzer].([]directives.Directive) {
		if dir.Ignores(pass.Analyzer.Name, pos) {
			return
		}
	}

	d := analysis.Diagnostic{
		Pos:     pos,
		Message: message,
		Related: cfg.related,
	}
	if n, ok := node.(ast.Node); ok {
		d.End = n.End()
	}
	pass.Report(d)
}

// DisplayPosition returns the position to show for p, which is the
// position adjusted by //line directives if it points to a Go file.
func DisplayPosition(fset *token.FileSet, p token.Pos) token.Position {
	if p == token.NoPos {
		return token.Position{}
	}

	// Only use the adjusted position if it points to another Go file.
	// This means we'll point to the original file for cgo files, but
	// we won't point to a YACC grammar file.
	pos := fset.PositionFor(p, false)
	adjPos := fset.PositionFor(p, true)

	if filepath.Ext(adjPos.Filename) == ".go" {
		return adjPos
	}
	return pos
}

// Enclosing returns the innermost node of type T that encloses pos, if
// any.
func Enclosing[T ast.Node](pass *analysis.Pass, pos token.Pos) (T, bool) {
	var zero T
	for _, f := range pass.Files {
		if pos < f.Pos() || pos >= f.End() {
			continue
		}
		path, _ := astutil.PathEnclosingInterval(f, pos, pos)
		for _, node := range path {
			if n, ok := node.(T); ok {
				return n, true
			}
		}
		return zero, false
	}
	return zero, false
}

func Render(pass *analysis.Pass, x interface{}) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, pass.Fset, x); err != nil {
		panic(err)
	}
	return buf.String()
}
