// Package code answers structural questions about the SSA form of the
// code checks look at.
package code

import (
	"go/token"
	"go/types"

	"honnef.co/go/stamps/analysis/facts/stamps"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/buildssa"
	"golang.org/x/tools/go/ssa"
)

var RequiredAnalyzers = []*analysis.Analyzer{buildssa.Analyzer, stamps.Analyzer}

// BinOps calls fn for every binary operation in the package's source
// functions that maps to a position in the source.
func BinOps(pass *analysis.Pass, fn func(*ssa.BinOp)) {
	for _, f := range pass.ResultOf[buildssa.Analyzer].(*buildssa.SSA).SrcFuncs {
		for _, b := range f.Blocks {
			for _, instr := range b.Instrs {
				if bin, ok := instr.(*ssa.BinOp); ok && bin.Pos() != token.NoPos {
					fn(bin)
				}
			}
		}
	}
}

func Stamps(pass *analysis.Pass) *stamps.Stamps {
	return pass.ResultOf[stamps.Analyzer].(*stamps.Stamps)
}

func IsInteger(T types.Type) bool {
	basic, ok := T.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsInteger != 0
}

func IsShift(op token.Token) bool {
	return op == token.SHL || op == token.SHR
}

func IsDivision(op token.Token) bool {
	return op == token.QUO || op == token.REM
}
