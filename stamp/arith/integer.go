package arith

import (
	"fmt"
	"math/bits"

	"honnef.co/go/stamps/stamp"
	"honnef.co/go/stamps/stamp/codeutil"
)

func unexpected(op Op, f Family) string {
	return fmt.Sprintf("unexpected %s operation %s", f, op)
}

func intUnaryConstant(op Op, c stamp.Constant) stamp.Constant {
	n, v := c.Bits(), c.Int64()
	switch op {
	case Neg:
		return stamp.Int(n, -v)
	case Not:
		return stamp.Int(n, ^v)
	case Abs:
		if v < 0 {
			v = -v
		}
		return stamp.Int(n, v)
	default:
		panic(unexpected(op, Integer))
	}
}

func intUnaryStamp(op Op, s stamp.IntegerStamp) stamp.Stamp {
	n := s.Bits()
	switch op {
	case Neg:
		if s.IsConstant() {
			v := codeutil.Narrow(-s.LowerBound(), n)
			return stamp.ForInteger(n, v, v)
		}
		if s.LowerBound() == codeutil.MinValue(n) {
			return s.Unrestricted()
		}
		return stamp.ForInteger(n, -s.UpperBound(), -s.LowerBound())
	case Not:
		mask := codeutil.Mask(n)
		return stamp.ForIntegerWithMask(n, ^s.UpperBound(), ^s.LowerBound(), ^s.UpMask()&mask, ^s.DownMask()&mask)
	case Abs:
		// The absolute value of the minimum wraps to itself, so a stamp
		// that contains it cannot be narrowed, not even a constant one.
		if s.LowerBound() == codeutil.MinValue(n) {
			return s.Unrestricted()
		}
		if s.IsConstant() {
			return intConstantStamp(intUnaryConstant(Abs, stamp.Int(n, s.LowerBound())))
		}
		return stamp.ForInteger(n, 0, max(-s.LowerBound(), s.UpperBound()))
	default:
		panic(unexpected(op, Integer))
	}
}

func intConstantStamp(c stamp.Constant) stamp.IntegerStamp {
	return stamp.ForInteger(c.Bits(), c.Int64(), c.Int64())
}

func intBinaryConstant(op Op, a, b stamp.Constant) (stamp.Constant, bool) {
	n := a.Bits()
	x, y := a.Int64(), b.Int64()
	switch op {
	case Add:
		return stamp.Int(n, x+y), true
	case Sub:
		return stamp.Int(n, x-y), true
	case Mul:
		return stamp.Int(n, x*y), true
	case MulHigh:
		return stamp.Int(n, mulHigh(x, y, n)), true
	case UMulHigh:
		return stamp.Int(n, umulHigh(x, y, n)), true
	case Div:
		if y == 0 {
			return stamp.Constant{}, false
		}
		return stamp.Int(n, x/y), true
	case Rem:
		if y == 0 {
			return stamp.Constant{}, false
		}
		return stamp.Int(n, x%y), true
	case And:
		return stamp.Int(n, x&y), true
	case Or:
		return stamp.Int(n, x|y), true
	case Xor:
		return stamp.Int(n, x^y), true
	case Max:
		return stamp.Int(n, max(x, y)), true
	case Min:
		return stamp.Int(n, min(x, y)), true
	case UMax:
		if a.Uint64() >= b.Uint64() {
			return a, true
		}
		return b, true
	case UMin:
		if a.Uint64() <= b.Uint64() {
			return a, true
		}
		return b, true
	default:
		panic(unexpected(op, Integer))
	}
}

func intIsNeutral(op Op, c stamp.Constant) bool {
	v := c.Int64()
	switch op {
	case Add, Sub, Or, Xor:
		return v == 0
	case Mul, Div:
		return v == 1
	case And:
		return v == -1
	case Max:
		return v == codeutil.MinValue(c.Bits())
	case Min:
		return v == codeutil.MaxValue(c.Bits())
	case UMax:
		return v == 0
	case UMin:
		return c.Uint64() == codeutil.MaxValueUnsigned(c.Bits())
	default:
		return false
	}
}

// foldBoth folds a pair of constant stamps through the constant path.
func foldBoth(op Op, a, b stamp.IntegerStamp) (stamp.IntegerStamp, bool) {
	ca, ok1 := a.AsConstant()
	cb, ok2 := b.AsConstant()
	if !ok1 || !ok2 {
		return stamp.IntegerStamp{}, false
	}
	c, ok := intBinaryConstant(op, ca, cb)
	if !ok {
		return stamp.IntegerStamp{}, false
	}
	return intConstantStamp(c), true
}

func intBinaryStamp(op Op, a, b stamp.IntegerStamp) stamp.Stamp {
	switch op {
	case Add:
		return addStamp(a, b)
	case Sub:
		if r, ok := foldBoth(Sub, a, b); ok {
			return r
		}
		return addStamp(a, intUnaryStamp(Neg, b).(stamp.IntegerStamp))
	case Mul:
		return mulStamp(a, b)
	case MulHigh, UMulHigh:
		return mulHighStamp(op, a, b)
	case Div:
		return divStamp(a, b)
	case Rem:
		return remStamp(a, b)
	case And:
		return stamp.StampForMask(a.Bits(), a.DownMask()&b.DownMask(), a.UpMask()&b.UpMask())
	case Or:
		return stamp.StampForMask(a.Bits(), a.DownMask()|b.DownMask(), a.UpMask()|b.UpMask())
	case Xor:
		variable := (a.DownMask() ^ a.UpMask()) | (b.DownMask() ^ b.UpMask())
		known := a.DownMask() ^ b.DownMask()
		return stamp.StampForMask(a.Bits(), known&^variable, known|variable)
	case Max:
		return stamp.ForIntegerWithMask(a.Bits(),
			max(a.LowerBound(), b.LowerBound()), max(a.UpperBound(), b.UpperBound()),
			a.DownMask()&b.DownMask(), a.UpMask()|b.UpMask())
	case Min:
		return stamp.ForIntegerWithMask(a.Bits(),
			min(a.LowerBound(), b.LowerBound()), min(a.UpperBound(), b.UpperBound()),
			a.DownMask()&b.DownMask(), a.UpMask()|b.UpMask())
	case UMax, UMin:
		if !sameSignBounds(a) || !sameSignBounds(b) {
			return a.MeetInteger(b)
		}
		var lower, upper uint64
		if op == UMax {
			lower = max(a.UnsignedLowerBound(), b.UnsignedLowerBound())
			upper = max(a.UnsignedUpperBound(), b.UnsignedUpperBound())
		} else {
			lower = min(a.UnsignedLowerBound(), b.UnsignedLowerBound())
			upper = min(a.UnsignedUpperBound(), b.UnsignedUpperBound())
		}
		return stamp.ForUnsignedInteger(a.Bits(), lower, upper, a.DownMask()&b.DownMask(), a.UpMask()|b.UpMask())
	default:
		panic(unexpected(op, Integer))
	}
}

func sameSignBounds(s stamp.IntegerStamp) bool {
	return codeutil.SameSign(s.LowerBound(), s.UpperBound())
}

func addStamp(a, b stamp.IntegerStamp) stamp.Stamp {
	if a.IsUnrestricted() {
		return a
	}
	if b.IsUnrestricted() {
		return b
	}
	if r, ok := foldBoth(Add, a, b); ok {
		return r
	}
	n := a.Bits()
	mask := codeutil.Mask(n)

	// Bits that are unknown in either operand, or that may receive a
	// different carry depending on the unknown bits, are unknown in the
	// sum.
	variable := (a.DownMask() ^ a.UpMask()) | (b.DownMask() ^ b.UpMask())
	variable |= stamp.CarryBits(a.DownMask(), b.DownMask()) ^ stamp.CarryBits(a.UpMask(), b.UpMask())
	sum := a.DownMask() + b.DownMask()
	down := sum &^ variable & mask
	up := (sum | variable) & mask

	lowerPos := stamp.AddOverflowsPositively(a.LowerBound(), b.LowerBound(), n)
	lowerNeg := stamp.AddOverflowsNegatively(a.LowerBound(), b.LowerBound(), n)
	upperPos := stamp.AddOverflowsPositively(a.UpperBound(), b.UpperBound(), n)
	upperNeg := stamp.AddOverflowsNegatively(a.UpperBound(), b.UpperBound(), n)
	var lower, upper int64
	if lowerNeg && !upperNeg || !lowerPos && upperPos {
		// Only one end wrapped around, the sums cover every value.
		lower, upper = codeutil.MinValue(n), codeutil.MaxValue(n)
	} else {
		lower = codeutil.SignExtend(a.LowerBound()+b.LowerBound(), n)
		upper = codeutil.SignExtend(a.UpperBound()+b.UpperBound(), n)
	}
	return stamp.ForIntegerWithMask(n, lower, upper, down, up)
}

func mulStamp(a, b stamp.IntegerStamp) stamp.Stamp {
	if r, ok := foldBoth(Mul, a, b); ok {
		return r
	}
	if a.UpMask() == 0 {
		return a
	}
	if b.UpMask() == 0 {
		return b
	}
	if a.IsUnrestricted() {
		return a
	}
	if b.IsUnrestricted() {
		return b
	}
	n := a.Bits()
	if stamp.MultiplicationCanOverflow(a, b) {
		return a.Unrestricted()
	}
	lower, upper := extremes(bounds(a), bounds(b), func(x, y int64) int64 { return x * y })

	// The product has at least as many trailing zeros as both factors
	// together.
	zeros := min(64, bits.TrailingZeros64(a.UpMask())+bits.TrailingZeros64(b.UpMask()))
	up := ^lowMask(zeros) & codeutil.Mask(n)
	return stamp.ForIntegerWithMask(n, lower, upper, 0, up)
}

// extremes returns the smallest and largest value of f over the corners
// xs × ys.
func extremes(xs, ys [2]int64, f func(x, y int64) int64) (int64, int64) {
	lo, hi := f(xs[0], ys[0]), f(xs[0], ys[0])
	for _, x := range xs {
		for _, y := range ys {
			r := f(x, y)
			lo = min(lo, r)
			hi = max(hi, r)
		}
	}
	return lo, hi
}

func bounds(s stamp.IntegerStamp) [2]int64 {
	return [2]int64{s.LowerBound(), s.UpperBound()}
}

func lowMask(n int) uint64 {
	return uint64(1)<<n - 1
}

// mulHigh returns the high n bits of the 2n-bit signed product of x and
// y.
func mulHigh(x, y int64, n int) int64 {
	if n < 64 {
		return codeutil.Narrow((x*y)>>n, n)
	}
	hi, _ := bits.Mul64(uint64(x), uint64(y))
	r := int64(hi)
	if x < 0 {
		r -= y
	}
	if y < 0 {
		r -= x
	}
	return r
}

// umulHigh returns the high n bits of the 2n-bit unsigned product of x
// and y, sign-extended from n bits.
func umulHigh(x, y int64, n int) int64 {
	ux := uint64(codeutil.ZeroExtend(x, n))
	uy := uint64(codeutil.ZeroExtend(y, n))
	if n < 64 {
		// n is at most 32, so the product fits.
		return codeutil.SignExtend(int64(ux*uy>>n), n)
	}
	hi, _ := bits.Mul64(ux, uy)
	return int64(hi)
}

func mulHighStamp(op Op, a, b stamp.IntegerStamp) stamp.Stamp {
	if a.IsUnrestricted() || b.IsUnrestricted() {
		return a.Unrestricted()
	}
	n := a.Bits()
	if op == MulHigh {
		lo, hi := extremes(bounds(a), bounds(b), func(x, y int64) int64 { return mulHigh(x, y, n) })
		return stamp.ForInteger(n, lo, hi)
	}
	// The high half of an unsigned product grows with both factors, so
	// its extremes are found at the unsigned extremes of the operands.
	lo, hi := extremes(unsignedExtremes(a), unsignedExtremes(b), func(x, y int64) int64 { return umulHigh(x, y, n) })
	if lo == hi || lo >= 0 {
		return stamp.ForInteger(n, lo, hi)
	}
	return a.Unrestricted()
}

// unsignedExtremes returns the smallest and largest member of s when
// interpreted as unsigned integers, as raw n-bit values.
func unsignedExtremes(s stamp.IntegerStamp) [2]int64 {
	if s.LowerBound() < 0 && s.UpperBound() >= 0 {
		return [2]int64{0, -1}
	}
	return bounds(s)
}

func divStamp(a, b stamp.IntegerStamp) stamp.Stamp {
	if r, ok := foldBoth(Div, a, b); ok {
		return r
	}
	if !b.IsStrictlyPositive() {
		return a.Unrestricted()
	}
	var lower, upper int64
	if a.LowerBound() < 0 {
		lower = a.LowerBound() / b.LowerBound()
	} else {
		lower = a.LowerBound() / b.UpperBound()
	}
	if a.UpperBound() < 0 {
		upper = a.UpperBound() / b.UpperBound()
	} else {
		upper = a.UpperBound() / b.LowerBound()
	}
	return stamp.ForInteger(a.Bits(), lower, upper)
}

func remStamp(a, b stamp.IntegerStamp) stamp.Stamp {
	if r, ok := foldBoth(Rem, a, b); ok {
		return r
	}
	n := a.Bits()
	// The result has the sign of the dividend and a magnitude below
	// that of the divisor.
	lower := min(a.LowerBound(), 0)
	upper := max(a.UpperBound(), 0)
	var magnitude int64
	if b.LowerBound() == codeutil.MinValue(n) {
		magnitude = codeutil.MaxValue(n)
	} else {
		magnitude = max(abs(b.LowerBound()), abs(b.UpperBound())) - 1
	}
	lower = max(lower, -magnitude)
	upper = min(upper, magnitude)
	if lower > upper {
		// Only a zero divisor remains.
		return a.Unrestricted()
	}
	return stamp.ForInteger(n, lower, upper)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func intShiftConstant(op Op, c stamp.Constant, amount int64) stamp.Constant {
	n, v := c.Bits(), c.Int64()
	switch op {
	case Shl:
		return stamp.Int(n, v<<amount)
	case Shr:
		return stamp.Int(n, v>>amount)
	case UShr:
		return stamp.Int(n, int64(uint64(codeutil.ZeroExtend(v, n))>>amount))
	default:
		panic(unexpected(op, Integer))
	}
}

func intShiftStamp(op Op, v, shift stamp.IntegerStamp) stamp.Stamp {
	switch op {
	case Shl:
		return shlStamp(v, shift)
	case Shr, UShr:
		return shrStamp(op, v, shift)
	default:
		panic(unexpected(op, Integer))
	}
}

// noSignChangeAfterShifting reports whether shifting v left by amount
// keeps every bit that is shifted out or into the sign bit equal to the
// sign.
func noSignChangeAfterShifting(n int, v int64, amount int64) bool {
	removed := int64(-1) << (int64(n) - amount - 1)
	if v < 0 {
		return v&removed == removed
	}
	return v&removed == 0
}

func shlStamp(v, shift stamp.IntegerStamp) stamp.Stamp {
	if v.UpMask() == 0 {
		return v
	}
	n := v.Bits()
	mask := codeutil.Mask(n)
	amountMask := int64(n - 1)
	if shift.IsConstant() {
		amount := shift.LowerBound() & amountMask
		if amount == 0 {
			return v
		}
		if noSignChangeAfterShifting(n, v.LowerBound(), amount) && noSignChangeAfterShifting(n, v.UpperBound(), amount) {
			return stamp.ForIntegerWithMask(n, v.LowerBound()<<amount, v.UpperBound()<<amount,
				v.DownMask()<<amount&mask, v.UpMask()<<amount&mask)
		}
	}
	// Amounts that agree in the bits above the amount mask cover at most
	// n distinct shifts, which are enumerated.
	amountBits := bits.OnesCount64(uint64(amountMask))
	if uint64(shift.LowerBound())>>amountBits == uint64(shift.UpperBound())>>amountBits {
		down, up := mask, uint64(0)
		for i := shift.LowerBound(); ; i++ {
			if shift.Contains(i) {
				down &= v.DownMask() << (i & amountMask)
				up |= v.UpMask() << (i & amountMask)
			}
			if i == shift.UpperBound() {
				break
			}
		}
		return stamp.StampForMask(n, down&mask, up&mask)
	}
	return v.Unrestricted()
}

func shrStamp(op Op, v, shift stamp.IntegerStamp) stamp.Stamp {
	n := v.Bits()
	mask := codeutil.Mask(n)
	if shift.IsConstant() {
		amount := shift.LowerBound() & int64(n-1)
		if amount == 0 {
			return v
		}
		if op == Shr {
			// Shifting up and back down sign-extends the masks.
			extra := int64(64 - n)
			down := uint64(int64(v.DownMask()<<extra)>>(amount+extra)) & mask
			up := uint64(int64(v.UpMask()<<extra)>>(amount+extra)) & mask
			return stamp.ForIntegerWithMask(n, v.LowerBound()>>amount, v.UpperBound()>>amount, down, up)
		}
		down := v.DownMask() >> amount
		up := v.UpMask() >> amount
		if v.LowerBound() < 0 {
			return stamp.ForIntegerWithMask(n, int64(down), int64(up), down, up)
		}
		return stamp.ForIntegerWithMask(n, v.LowerBound()>>amount, v.UpperBound()>>amount, down, up)
	}
	return stamp.StampForMask(n, 0, stamp.UpMaskFor(n, v.LowerBound(), v.UpperBound()))
}
