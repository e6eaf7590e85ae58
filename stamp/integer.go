package stamp

import (
	"fmt"
	"math"
	"strings"

	"honnef.co/go/stamps/stamp/codeutil"
)

// IntegerStamp describes a set of n-bit two's-complement integers by a
// signed range and a pair of bit masks. A value v is a member if
//
//	lower <= v <= upper &&
//	v&downMask == downMask &&
//	v&upMask == v&mask(bits)
//
// Bounds are stored sign-extended to 64 bits, masks zero-extended.
// Every non-empty IntegerStamp created by this package has bounds that
// are themselves members. The empty stamp is canonical: its lower bound
// is the maximum value, its upper bound the minimum value, its down mask
// all ones and its up mask zero.
type IntegerStamp struct {
	bits     uint8
	lower    int64
	upper    int64
	downMask uint64
	upMask   uint64
}

func (s IntegerStamp) Bits() int         { return int(s.bits) }
func (s IntegerStamp) LowerBound() int64 { return s.lower }
func (s IntegerStamp) UpperBound() int64 { return s.upper }

// DownMask returns the bits that are set in every member.
func (s IntegerStamp) DownMask() uint64 { return s.downMask }

// UpMask returns the bits that may be set in some member.
func (s IntegerStamp) UpMask() uint64 { return s.upMask }

func (s IntegerStamp) Kind() Kind          { return IntegerKind(s.Bits()) }
func (s IntegerStamp) Unrestricted() Stamp { return IntegerUnrestricted(s.Bits()) }
func (s IntegerStamp) Empty() Stamp        { return IntegerEmpty(s.Bits()) }
func (s IntegerStamp) HasValues() bool     { return s.lower <= s.upper }
func (s IntegerStamp) IsEmpty() bool       { return s.lower > s.upper }

func (s IntegerStamp) IsUnrestricted() bool {
	n := s.Bits()
	return s.lower == codeutil.MinValue(n) && s.upper == codeutil.MaxValue(n) &&
		s.downMask == 0 && s.upMask == codeutil.Mask(n)
}

// Contains reports whether v is a member of s.
func (s IntegerStamp) Contains(v int64) bool {
	return v >= s.lower && v <= s.upper &&
		uint64(v)&s.downMask == s.downMask &&
		uint64(v)&s.upMask == uint64(v)&codeutil.Mask(s.Bits())
}

func (s IntegerStamp) IsPositive() bool         { return s.lower >= 0 }
func (s IntegerStamp) IsNegative() bool         { return s.upper <= 0 }
func (s IntegerStamp) IsStrictlyPositive() bool { return s.lower > 0 }
func (s IntegerStamp) IsStrictlyNegative() bool { return s.upper < 0 }
func (s IntegerStamp) CanBePositive() bool      { return s.upper > 0 }
func (s IntegerStamp) CanBeNegative() bool      { return s.lower < 0 }

// IsConstant reports whether s has exactly one member.
func (s IntegerStamp) IsConstant() bool { return s.lower == s.upper }

// UnsignedLowerBound returns the smallest member of a non-empty stamp
// when its members are interpreted as unsigned integers.
func (s IntegerStamp) UnsignedLowerBound() uint64 {
	if codeutil.SameSign(s.lower, s.upper) {
		return uint64(codeutil.ZeroExtend(s.lower, s.Bits()))
	}
	return 0
}

// UnsignedUpperBound returns the largest member of a non-empty stamp
// when its members are interpreted as unsigned integers.
func (s IntegerStamp) UnsignedUpperBound() uint64 {
	if codeutil.SameSign(s.lower, s.upper) {
		return uint64(codeutil.ZeroExtend(s.upper, s.Bits()))
	}
	return codeutil.MaxValueUnsigned(s.Bits())
}

func (s IntegerStamp) AsConstant() (Constant, bool) {
	if s.lower != s.upper {
		return Constant{}, false
	}
	return Int(s.Bits(), s.lower), true
}

func (s IntegerStamp) IsCompatible(other Stamp) bool {
	switch other := other.(type) {
	case IntegerStamp:
		return s.bits == other.bits
	case IllegalStamp:
		return true
	default:
		return false
	}
}

func (s IntegerStamp) IsCompatibleConstant(c Constant) bool {
	return c.Kind().IsInteger()
}

func (s IntegerStamp) Equal(other Stamp) bool {
	o, ok := other.(IntegerStamp)
	return ok && s == o
}

// integer returns other as an IntegerStamp of the same width as s. An
// illegal stamp is treated as the empty stamp.
func (s IntegerStamp) integer(other Stamp) IntegerStamp {
	switch o := other.(type) {
	case IntegerStamp:
		if o.bits != s.bits {
			panic(incompatible(s, other))
		}
		return o
	case IllegalStamp:
		return IntegerEmpty(s.Bits())
	default:
		panic(incompatible(s, other))
	}
}

func (s IntegerStamp) Meet(other Stamp) Stamp { return s.MeetInteger(s.integer(other)) }
func (s IntegerStamp) Join(other Stamp) Stamp { return s.JoinInteger(s.integer(other)) }

// MeetInteger is like Meet but operates on integer stamps directly. It
// panics if the widths differ.
func (s IntegerStamp) MeetInteger(o IntegerStamp) IntegerStamp {
	if s.bits != o.bits {
		panic(incompatible(s, o))
	}
	switch {
	case s == o:
		return s
	case s.IsEmpty():
		return o
	case o.IsEmpty():
		return s
	}
	// The bounds of both operands are members of the result, so no
	// tightening is needed.
	return IntegerStamp{
		bits:     s.bits,
		lower:    min(s.lower, o.lower),
		upper:    max(s.upper, o.upper),
		downMask: s.downMask & o.downMask,
		upMask:   s.upMask | o.upMask,
	}
}

// JoinInteger is like Join but operates on integer stamps directly. It
// panics if the widths differ.
//
// The masks of the result are exactly the union of the known-set bits
// and the intersection of the may-be-set bits of both operands. Only the
// bounds are reconciled with the masks, moving each bound to the
// closest member.
func (s IntegerStamp) JoinInteger(o IntegerStamp) IntegerStamp {
	if s.bits != o.bits {
		panic(incompatible(s, o))
	}
	if s == o {
		return s
	}
	n := s.Bits()
	down := s.downMask | o.downMask
	up := s.upMask & o.upMask
	lower := max(s.lower, o.lower)
	upper := min(s.upper, o.upper)
	if lower > upper || down&^up != 0 {
		return IntegerEmpty(n)
	}
	lower, upper, ok := tightenBounds(n, lower, upper, down, up)
	if !ok {
		return IntegerEmpty(n)
	}
	return IntegerStamp{bits: s.bits, lower: lower, upper: upper, downMask: down, upMask: up}
}

func (s IntegerStamp) String() string {
	n := s.Bits()
	var sb strings.Builder
	fmt.Fprintf(&sb, "i%d", n)
	if !s.HasValues() {
		sb.WriteString("<empty>")
		return sb.String()
	}
	if s.lower == s.upper {
		fmt.Fprintf(&sb, " [%d]", s.lower)
	} else if s.lower != codeutil.MinValue(n) || s.upper != codeutil.MaxValue(n) {
		fmt.Fprintf(&sb, " [%d - %d]", s.lower, s.upper)
	}
	if s.downMask != 0 {
		fmt.Fprintf(&sb, " ⇊%016x", s.downMask)
	}
	if s.upMask != codeutil.Mask(n) {
		fmt.Fprintf(&sb, " ⇈%016x", s.upMask)
	}
	return sb.String()
}

// AddCanOverflow reports whether adding members of a and b can exceed
// the signed range of their width.
func AddCanOverflow(a, b IntegerStamp) bool {
	checkSameWidth(a, b)
	n := a.Bits()
	return AddOverflowsPositively(a.upper, b.upper, n) || AddOverflowsNegatively(a.lower, b.lower, n)
}

// AddOverflowsPositively reports whether x+y exceeds the largest n-bit
// signed value. x and y must be n-bit values.
func AddOverflowsPositively(x, y int64, n int) bool {
	r := x + y
	if n == 64 {
		return ^x & ^y & r < 0
	}
	return r > codeutil.MaxValue(n)
}

// AddOverflowsNegatively reports whether x+y is below the smallest n-bit
// signed value. x and y must be n-bit values.
func AddOverflowsNegatively(x, y int64, n int) bool {
	r := x + y
	if n == 64 {
		return x & y & ^r < 0
	}
	return r < codeutil.MinValue(n)
}

// CarryBits returns the bit positions that receive a carry when adding
// x and y.
func CarryBits(x, y uint64) uint64 {
	return (x + y) ^ x ^ y
}

// SubtractionCanOverflow reports whether subtracting members of y from
// members of x can leave the signed range of their width.
func SubtractionCanOverflow(x, y IntegerStamp) bool {
	checkSameWidth(x, y)
	n := x.Bits()
	return SubtractionOverflows(x.lower, y.upper, n) || SubtractionOverflows(x.upper, y.lower, n)
}

func SubtractionOverflows(x, y int64, n int) bool {
	r := x - y
	if n == 64 {
		return (x^y)&(x^r) < 0
	}
	return r < codeutil.MinValue(n) || r > codeutil.MaxValue(n)
}

// MultiplicationOverflows reports whether a*b leaves the signed range of
// n bits. For 64 bits the check is done without computing the product.
func MultiplicationOverflows(a, b int64, n int) bool {
	if n == 64 {
		switch {
		case a > 0 && b > 0:
			return a > math.MaxInt64/b
		case a > 0 && b <= 0:
			return b < math.MinInt64/a
		case a <= 0 && b > 0:
			return a < math.MinInt64/b
		default:
			return a != 0 && b < math.MaxInt64/a
		}
	}
	r := a * b
	if (a >= 0) == (b >= 0) {
		return r > codeutil.MaxValue(n)
	}
	return r < codeutil.MinValue(n)
}

// MultiplicationCanOverflow reports whether multiplying members of a and
// b can leave the signed range of their width.
func MultiplicationCanOverflow(a, b IntegerStamp) bool {
	checkSameWidth(a, b)
	if a.upMask == 0 || b.upMask == 0 {
		return false
	}
	if a.IsUnrestricted() || b.IsUnrestricted() {
		return true
	}
	n := a.Bits()
	f := SignedFactors(a)
	g := SignedFactors(b)
	overflows := false
	if a.CanBePositive() {
		if b.CanBePositive() {
			overflows = overflows || MultiplicationOverflows(f.MaxPos, g.MaxPos, n) || MultiplicationOverflows(f.MinPos, g.MinPos, n)
		}
		if b.CanBeNegative() {
			overflows = overflows || MultiplicationOverflows(f.MinPos, g.MaxNeg, n) || MultiplicationOverflows(f.MaxPos, g.MinNeg, n)
		}
	}
	if a.CanBeNegative() {
		if b.CanBePositive() {
			overflows = overflows || MultiplicationOverflows(f.MaxNeg, g.MinPos, n) || MultiplicationOverflows(f.MinNeg, g.MaxPos, n)
		}
		if b.CanBeNegative() {
			overflows = overflows || MultiplicationOverflows(f.MinNeg, g.MinNeg, n) || MultiplicationOverflows(f.MaxNeg, g.MaxNeg, n)
		}
	}
	return overflows
}

// Factors holds the extremes of the negative and the non-negative part
// of a stamp's range. The fields are only meaningful for the parts the
// stamp can reach.
type Factors struct {
	MinNeg, MaxNeg int64
	MinPos, MaxPos int64
}

func SignedFactors(s IntegerStamp) Factors {
	return Factors{
		MinNeg: s.lower,
		MaxNeg: min(0, s.upper),
		MinPos: max(0, s.lower),
		MaxPos: s.upper,
	}
}

// SameSign reports whether all members of a and b are non-negative, or
// all members of both are negative.
func SameSign(a, b IntegerStamp) bool {
	return a.IsPositive() && b.IsPositive() || a.IsStrictlyNegative() && b.IsStrictlyNegative()
}

// UpMaskFor returns the smallest mask covering the bits of lower and
// upper and all bits below their highest set bit.
func UpMaskFor(n int, lower, upper int64) uint64 {
	m := uint64(lower | upper)
	if m == 0 {
		return 0
	}
	return ^uint64(0) >> leadingZeros(m) & codeutil.Mask(n)
}

func checkSameWidth(a, b IntegerStamp) {
	if a.bits != b.bits {
		panic(fmt.Sprintf("stamp widths differ: %s and %s", a, b))
	}
}
