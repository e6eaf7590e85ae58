package sc1002

import (
	"testing"

	"honnef.co/go/stamps/analysis/lint/testutil"
)

func TestSC1002(t *testing.T) {
	testutil.Run(t, SCAnalyzer)
}
