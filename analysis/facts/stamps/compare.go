package stamps

import (
	"go/token"

	"honnef.co/go/stamps/stamp"
)

// Outcome is the result of a comparison that holds for all members of
// the compared stamps.
type Outcome uint8

const (
	Unknown Outcome = iota
	AlwaysFalse
	AlwaysTrue
)

func (o Outcome) String() string {
	switch o {
	case AlwaysFalse:
		return "always false"
	case AlwaysTrue:
		return "always true"
	default:
		return "unknown"
	}
}

func outcome(b bool) Outcome {
	if b {
		return AlwaysTrue
	}
	return AlwaysFalse
}

func (o Outcome) not() Outcome {
	switch o {
	case AlwaysFalse:
		return AlwaysTrue
	case AlwaysTrue:
		return AlwaysFalse
	default:
		return Unknown
	}
}

// Compare returns the outcome of comparing members of x and y with op,
// one of ==, !=, <, <=, > and >=. Unsigned selects the unsigned
// interpretation of the stamps' bit patterns for ordered comparisons.
// Comparisons involving empty stamps have an unknown outcome.
func Compare(op token.Token, x, y stamp.IntegerStamp, unsigned bool) Outcome {
	if x.IsEmpty() || y.IsEmpty() {
		return Unknown
	}
	switch op {
	case token.EQL:
		return equal(x, y)
	case token.NEQ:
		return equal(x, y).not()
	case token.LSS:
		return less(x, y, unsigned)
	case token.GEQ:
		return less(x, y, unsigned).not()
	case token.GTR:
		return less(y, x, unsigned)
	case token.LEQ:
		return less(y, x, unsigned).not()
	default:
		return Unknown
	}
}

func equal(x, y stamp.IntegerStamp) Outcome {
	if x.IsConstant() && y.IsConstant() {
		return outcome(x.LowerBound() == y.LowerBound())
	}
	if x.UpperBound() < y.LowerBound() || y.UpperBound() < x.LowerBound() {
		return AlwaysFalse
	}
	// A bit that is set in all members of one stamp and clear in all
	// members of the other.
	if x.DownMask()&^y.UpMask() != 0 || y.DownMask()&^x.UpMask() != 0 {
		return AlwaysFalse
	}
	return Unknown
}

// orderedBounds returns the bounds of s mapped to uint64 such that
// unsigned comparison of the results orders the members of s.
func orderedBounds(s stamp.IntegerStamp, unsigned bool) (lo, hi uint64) {
	if unsigned {
		return s.UnsignedLowerBound(), s.UnsignedUpperBound()
	}
	const bias = 1 << 63
	return uint64(s.LowerBound()) ^ bias, uint64(s.UpperBound()) ^ bias
}

func less(x, y stamp.IntegerStamp, unsigned bool) Outcome {
	xlo, xhi := orderedBounds(x, unsigned)
	ylo, yhi := orderedBounds(y, unsigned)
	switch {
	case xhi < ylo:
		return AlwaysTrue
	case xlo >= yhi:
		return AlwaysFalse
	default:
		return Unknown
	}
}

// comparisonStamp returns the 1-bit stamp of a comparison's result.
func comparisonStamp(o Outcome) stamp.IntegerStamp {
	switch o {
	case AlwaysTrue:
		return stamp.ForInteger(1, -1, -1)
	case AlwaysFalse:
		return stamp.ForInteger(1, 0, 0)
	default:
		return stamp.IntegerUnrestricted(1)
	}
}
