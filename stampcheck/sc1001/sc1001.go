package sc1001

import (
	"honnef.co/go/stamps/analysis/code"
	"honnef.co/go/stamps/analysis/lint"
	"honnef.co/go/stamps/analysis/report"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ssa"
)

var SCAnalyzer = lint.InitializeAnalyzer(&lint.Analyzer{
	Analyzer: &analysis.Analyzer{
		Name:     "SC1001",
		Run:      run,
		Requires: code.RequiredAnalyzers,
	},
	Doc: &lint.RawDocumentation{
		Title: `Integer division by a value that is always zero`,
		Text: `
The divisor of this integer division or remainder is zero on every
path, so the operation always panics.`,
		Since:    "2024.1",
		Severity: lint.SeverityError,
	},
})

var Analyzer = SCAnalyzer.Analyzer

func run(pass *analysis.Pass) (interface{}, error) {
	s := code.Stamps(pass)
	code.BinOps(pass, func(bin *ssa.BinOp) {
		if !code.IsDivision(bin.Op) || !code.IsInteger(bin.Type()) {
			return
		}
		divisor, ok := s.Stamp(bin.Y)
		if !ok || !divisor.IsConstant() || divisor.LowerBound() != 0 {
			return
		}
		report.Report(pass, bin, "division by zero: the divisor is always 0", report.Related(bin.Y, "the divisor"), report.FilterGenerated())
	})
	return nil, nil
}
