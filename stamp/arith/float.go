package arith

import (
	"math"

	"honnef.co/go/stamps/stamp"
)

// fromBits returns the float constant of width n with the raw bits v.
func fromBits(n int, v uint64) stamp.Constant {
	if n == 32 {
		return stamp.Float32(math.Float32frombits(uint32(v)))
	}
	return stamp.Float64(math.Float64frombits(v))
}

func floatUnaryConstant(op Op, c stamp.Constant) stamp.Constant {
	n := c.Bits()
	switch op {
	case Neg:
		return fromBits(n, c.RawBits()^(1<<(n-1)))
	case Not:
		return fromBits(n, ^c.RawBits())
	case Abs:
		return fromBits(n, c.RawBits()&^(1<<(n-1)))
	case Sqrt:
		if n == 32 {
			return stamp.Float32(float32(math.Sqrt(float64(c.Float32()))))
		}
		return stamp.Float64(math.Sqrt(c.Float64()))
	default:
		panic(unexpected(op, Float))
	}
}

func floatBinaryConstant(op Op, a, b stamp.Constant) stamp.Constant {
	n := a.Bits()
	switch op {
	case And:
		return fromBits(n, a.RawBits()&b.RawBits())
	case Or:
		return fromBits(n, a.RawBits()|b.RawBits())
	case Xor:
		return fromBits(n, a.RawBits()^b.RawBits())
	}
	if n == 32 {
		x, y := a.Float32(), b.Float32()
		switch op {
		case Add:
			return stamp.Float32(x + y)
		case Sub:
			return stamp.Float32(x - y)
		case Mul:
			return stamp.Float32(x * y)
		case Div:
			return stamp.Float32(x / y)
		case Rem:
			// The remainder is exact, computing it in float64 does
			// not round.
			return stamp.Float32(float32(math.Mod(float64(x), float64(y))))
		case Max:
			return stamp.Float32(max(x, y))
		case Min:
			return stamp.Float32(min(x, y))
		}
	} else {
		x, y := a.Float64(), b.Float64()
		switch op {
		case Add:
			return stamp.Float64(x + y)
		case Sub:
			return stamp.Float64(x - y)
		case Mul:
			return stamp.Float64(x * y)
		case Div:
			return stamp.Float64(x / y)
		case Rem:
			return stamp.Float64(math.Mod(x, y))
		case Max:
			return stamp.Float64(max(x, y))
		case Min:
			return stamp.Float64(min(x, y))
		}
	}
	panic(unexpected(op, Float))
}

func floatIsNeutral(op Op, c stamp.Constant) bool {
	n := c.Bits()
	raw := c.RawBits()
	switch op {
	case Add:
		// x + (+0.0) turns -0.0 into +0.0.
		return raw == 1<<(n-1)
	case Sub:
		return raw == 0
	case Mul, Div:
		return c.Float64() == 1
	case And:
		return raw == ^uint64(0)>>(64-n)
	case Or, Xor:
		return raw == 0
	case Max:
		return math.IsInf(c.Float64(), -1)
	case Min:
		return math.IsInf(c.Float64(), 1)
	default:
		return false
	}
}

// maybeFoldConstant folds s through the constant path if it describes
// a single value and the result is a single value as well.
func maybeFoldConstant(op Op, s ...stamp.FloatStamp) (stamp.FloatStamp, bool) {
	var cs [2]stamp.Constant
	for i, fs := range s {
		c, ok := fs.AsConstant()
		if !ok {
			return stamp.FloatStamp{}, false
		}
		cs[i] = c
	}
	var r stamp.Constant
	if len(s) == 1 {
		r = floatUnaryConstant(op, cs[0])
	} else {
		r = floatBinaryConstant(op, cs[0], cs[1])
	}
	fs := stamp.ForConstant(r).(stamp.FloatStamp)
	if !fs.IsConstant() {
		return stamp.FloatStamp{}, false
	}
	return fs, true
}

func floatUnaryStamp(op Op, s stamp.FloatStamp) stamp.Stamp {
	n := s.Bits()
	switch op {
	case Neg:
		if r, ok := maybeFoldConstant(Neg, s); ok {
			return r
		}
		return stamp.ForFloat(n, -s.UpperBound(), -s.LowerBound(), s.IsNonNaN())
	case Not:
		if r, ok := maybeFoldConstant(Not, s); ok {
			return r
		}
		return s.Unrestricted()
	case Abs:
		if s.IsNaN() {
			return s
		}
		lo, hi := s.LowerBound(), s.UpperBound()
		switch {
		case lo > 0:
		case hi < 0:
			lo, hi = -hi, -lo
		default:
			lo, hi = 0, max(math.Abs(lo), math.Abs(hi))
		}
		return stamp.ForFloat(n, lo, hi, s.IsNonNaN())
	case Sqrt:
		if s.IsNaN() {
			return s
		}
		if s.UpperBound() < 0 {
			return stamp.FloatNaN(n)
		}
		lo := math.Sqrt(max(math.Copysign(0, -1), s.LowerBound()))
		hi := math.Sqrt(s.UpperBound())
		if n == 32 {
			lo = float64(float32(lo))
			hi = float64(float32(hi))
		}
		// Negative members produce NaN.
		return stamp.ForFloat(n, lo, hi, s.IsNonNaN() && s.LowerBound() >= 0)
	default:
		panic(unexpected(op, Float))
	}
}

func floatBinaryStamp(op Op, a, b stamp.FloatStamp) stamp.Stamp {
	n := a.Bits()
	switch op {
	case Add, Sub, Mul, Div, Rem, And, Or, Xor:
		if r, ok := maybeFoldConstant(op, a, b); ok {
			return r
		}
		return a.Unrestricted()
	case Max:
		return stamp.ForFloat(n, max(a.LowerBound(), b.LowerBound()), max(a.UpperBound(), b.UpperBound()),
			a.IsNonNaN() && b.IsNonNaN())
	case Min:
		return stamp.ForFloat(n, min(a.LowerBound(), b.LowerBound()), min(a.UpperBound(), b.UpperBound()),
			a.IsNonNaN() && b.IsNonNaN())
	default:
		panic(unexpected(op, Float))
	}
}
