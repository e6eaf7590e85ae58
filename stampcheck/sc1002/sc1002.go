package sc1002

import (
	"fmt"
	"go/constant"

	"honnef.co/go/stamps/analysis/code"
	"honnef.co/go/stamps/analysis/facts/stamps"
	"honnef.co/go/stamps/analysis/lint"
	"honnef.co/go/stamps/analysis/report"
	"honnef.co/go/stamps/go/types/typeutil"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ssa"
)

var SCAnalyzer = lint.InitializeAnalyzer(&lint.Analyzer{
	Analyzer: &analysis.Analyzer{
		Name:     "SC1002",
		Run:      run,
		Requires: code.RequiredAnalyzers,
	},
	Doc: &lint.RawDocumentation{
		Title: `Shift by at least the width of the shifted value`,
		Text: `
The shift amount is always at least the number of bits in the shifted
value. Left shifts and unsigned right shifts always produce 0; signed
right shifts produce 0 or -1 depending on the sign.`,
		Before: `
var x int32 = f()
n := 32 + k&1
return x << n`,
		Since:    "2024.1",
		Severity: lint.SeverityWarning,
	},
})

var Analyzer = SCAnalyzer.Analyzer

// minAmount returns the smallest amount v can shift by.
func minAmount(pass *analysis.Pass, s *stamps.Stamps, v ssa.Value) (uint64, bool) {
	t, ok := typeutil.IntegerOf(v.Type(), pass.TypesSizes)
	if !ok {
		return 0, false
	}
	if c, ok := v.(*ssa.Const); ok {
		// Constant amounts are known even when unsigned values aren't
		// tracked.
		if c.Value == nil {
			return 0, false
		}
		return constant.Uint64Val(c.Value)
	}
	amount, ok := s.Stamp(v)
	if !ok {
		return 0, false
	}
	// Every member has the bits of the down mask set, so it is at least
	// as large as the mask.
	if t.Unsigned {
		return max(amount.UnsignedLowerBound(), amount.DownMask()), true
	}
	if amount.LowerBound() < 0 {
		// negative amounts panic
		return 0, false
	}
	return max(uint64(amount.LowerBound()), amount.DownMask()), true
}

func run(pass *analysis.Pass) (interface{}, error) {
	s := code.Stamps(pass)
	code.BinOps(pass, func(bin *ssa.BinOp) {
		if !code.IsShift(bin.Op) {
			return
		}
		t, ok := typeutil.IntegerOf(bin.X.Type(), pass.TypesSizes)
		if !ok {
			return
		}
		amount, ok := minAmount(pass, s, bin.Y)
		if !ok || amount < uint64(t.Bits) {
			return
		}
		report.Report(pass, bin,
			fmt.Sprintf("shift amount is always at least %d, the width of %s", amount, bin.X.Type()),
			report.FilterGenerated())
	})
	return nil, nil
}
