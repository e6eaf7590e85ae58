// Package stampcheck contains checks that use the stamps of integer
// values to find code whose outcome doesn't depend on its inputs.
package stampcheck

import (
	"honnef.co/go/stamps/analysis/lint"
	"honnef.co/go/stamps/stampcheck/sc1000"
	"honnef.co/go/stamps/stampcheck/sc1001"
	"honnef.co/go/stamps/stampcheck/sc1002"
)

var Analyzers = []*lint.Analyzer{
	sc1000.SCAnalyzer,
	sc1001.SCAnalyzer,
	sc1002.SCAnalyzer,
}
