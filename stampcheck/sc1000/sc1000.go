package sc1000

import (
	"fmt"
	"go/ast"

	"honnef.co/go/stamps/analysis/code"
	"honnef.co/go/stamps/analysis/facts/stamps"
	"honnef.co/go/stamps/analysis/lint"
	"honnef.co/go/stamps/analysis/report"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ssa"
)

var SCAnalyzer = lint.InitializeAnalyzer(&lint.Analyzer{
	Analyzer: &analysis.Analyzer{
		Name:     "SC1000",
		Run:      run,
		Requires: code.RequiredAnalyzers,
	},
	Doc: &lint.RawDocumentation{
		Title: `Comparison with a fixed outcome`,
		Text: `
The values the operands of this comparison can take never overlap in a
way that lets the comparison's outcome vary, so it is always true or
always false. This often points to a wrong mask, a wrong constant or a
condition that was meant to check something else.`,
		Before: `
x := v & 0x0f
if x == 0x10 {
	// never reached
}`,
		After: `
x := v & 0xf0
if x == 0x10 {
}`,
		Since:    "2024.1",
		Severity: lint.SeverityWarning,
	},
})

var Analyzer = SCAnalyzer.Analyzer

func run(pass *analysis.Pass) (interface{}, error) {
	s := code.Stamps(pass)
	code.BinOps(pass, func(bin *ssa.BinOp) {
		o := s.Compare(bin)
		if o == stamps.Unknown {
			return
		}
		if expr, ok := report.Enclosing[*ast.BinaryExpr](pass, bin.Pos()); ok {
			report.Report(pass, expr, fmt.Sprintf("%s is %s", report.Render(pass, expr), o), report.FilterGenerated())
		} else {
			report.Report(pass, bin, fmt.Sprintf("comparison is %s", o), report.FilterGenerated())
		}
	})
	return nil, nil
}
