package arith

import (
	"math"

	"honnef.co/go/stamps/stamp"
	"honnef.co/go/stamps/stamp/codeutil"
)

func convertConstant(op Op, resultBits int, c stamp.Constant) stamp.Constant {
	n, v := c.Bits(), c.Int64()
	switch op {
	case ZeroExtend:
		return stamp.Int(resultBits, codeutil.ZeroExtend(v, n))
	case SignExtend:
		return stamp.Int(resultBits, v)
	case Narrow:
		return stamp.Int(resultBits, v)
	default:
		panic(unexpected(op, Integer))
	}
}

func convertStamp(op Op, resultBits int, s stamp.IntegerStamp) stamp.Stamp {
	n := s.Bits()
	switch op {
	case ZeroExtend:
		if n == resultBits {
			return s
		}
		// Masks are stored zero-extended already.
		return stamp.ForIntegerWithMask(resultBits,
			int64(s.UnsignedLowerBound()), int64(s.UnsignedUpperBound()), s.DownMask(), s.UpMask())
	case SignExtend:
		mask := codeutil.Mask(resultBits)
		down := uint64(codeutil.SignExtend(int64(s.DownMask()), n)) & mask
		up := uint64(codeutil.SignExtend(int64(s.UpMask()), n)) & mask
		return stamp.ForIntegerWithMask(resultBits, s.LowerBound(), s.UpperBound(), down, up)
	case Narrow:
		if n == resultBits {
			return s
		}
		// A bound outside the result range wraps around and may land on
		// any value, so the opposite side of the result is unbounded.
		var lower, upper int64
		if s.LowerBound() < codeutil.MinValue(resultBits) {
			upper = codeutil.MaxValue(resultBits)
		} else {
			upper = codeutil.Saturate(s.UpperBound(), resultBits)
		}
		if s.UpperBound() > codeutil.MaxValue(resultBits) {
			lower = codeutil.MinValue(resultBits)
		} else {
			lower = codeutil.Saturate(s.LowerBound(), resultBits)
		}
		mask := codeutil.Mask(resultBits)
		return stamp.ForIntegerWithMask(resultBits, lower, upper, s.DownMask()&mask, s.UpMask()&mask)
	default:
		panic(unexpected(op, Integer))
	}
}

func invertStamp(op Op, inputBits int, s stamp.IntegerStamp) stamp.Stamp {
	switch op {
	case ZeroExtend:
		return invertZeroExtend(inputBits, s)
	case SignExtend:
		return invertSignExtend(inputBits, s)
	default:
		panic(unexpected(op, Integer))
	}
}

func invertZeroExtend(inputBits int, s stamp.IntegerStamp) stamp.Stamp {
	if s.Bits() == inputBits {
		return s
	}
	// Results with bits set above the input width are not produced by
	// any input.
	if s.DownMask()>>inputBits != 0 || s.UpperBound() < 0 {
		return stamp.IntegerEmpty(inputBits)
	}
	lower := uint64(max(s.LowerBound(), 0))
	upper := min(uint64(s.UpperBound()), codeutil.MaxValueUnsigned(inputBits))
	if lower > upper {
		return stamp.IntegerEmpty(inputBits)
	}
	return stamp.ForUnsignedInteger(inputBits, lower, upper, s.DownMask(), s.UpMask())
}

func invertSignExtend(inputBits int, s stamp.IntegerStamp) stamp.Stamp {
	if s.Bits() == inputBits {
		return s
	}
	// The extension bits of a result are copies of the input's sign bit,
	// so they are either all zero or all one.
	extensionMask := codeutil.Mask(s.Bits()) >> inputBits
	downExtension := s.DownMask() >> inputBits
	upExtension := s.UpMask() >> inputBits
	signBit := codeutil.SignBit(inputBits)
	zeroInExtension := upExtension != extensionMask
	oneInExtension := downExtension != 0
	signOne := s.DownMask()&signBit != 0
	signZero := s.UpMask()&signBit == 0
	if zeroInExtension && oneInExtension || signOne && zeroInExtension || signZero && oneInExtension {
		return stamp.IntegerEmpty(inputBits)
	}

	inputMask := codeutil.Mask(inputBits)
	down := s.DownMask() & inputMask
	up := s.UpMask() & inputMask
	if !signOne && !signZero {
		// The extension decides the sign bit.
		if zeroInExtension {
			down &^= signBit
			up &^= signBit
		} else if oneInExtension {
			down |= signBit
			up |= signBit
		}
	}
	ms := stamp.StampForMask(inputBits, down, up)
	lower, upper := ms.LowerBound(), ms.UpperBound()
	if s.UpperBound() < lower || s.LowerBound() > upper {
		return stamp.IntegerEmpty(inputBits)
	}
	return stamp.ForIntegerWithMask(inputBits, max(lower, s.LowerBound()), min(upper, s.UpperBound()), down, up)
}

func convertKinds(op Op) (from, to stamp.Kind) {
	switch op {
	case I2F:
		return stamp.KindInt32, stamp.KindFloat32
	case L2F:
		return stamp.KindInt64, stamp.KindFloat32
	case I2D:
		return stamp.KindInt32, stamp.KindFloat64
	case L2D:
		return stamp.KindInt64, stamp.KindFloat64
	case F2I:
		return stamp.KindFloat32, stamp.KindInt32
	case F2L:
		return stamp.KindFloat32, stamp.KindInt64
	case D2I:
		return stamp.KindFloat64, stamp.KindInt32
	case D2L:
		return stamp.KindFloat64, stamp.KindInt64
	case F2D:
		return stamp.KindFloat32, stamp.KindFloat64
	case D2F:
		return stamp.KindFloat64, stamp.KindFloat32
	default:
		panic(unexpected(op, Float))
	}
}

// toFloat converts an integer to a float of width n, rounding to
// nearest.
func toFloat(v int64, n int) float64 {
	if n == 32 {
		return float64(float32(v))
	}
	return float64(v)
}

// toInteger converts f to an integer of width n, truncating toward zero.
// NaN converts to zero and values outside the range saturate.
func toInteger(f float64, n int) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f <= float64(codeutil.MinValue(n)):
		return codeutil.MinValue(n)
	case f >= -float64(codeutil.MinValue(n)):
		return codeutil.MaxValue(n)
	default:
		return int64(f)
	}
}

func floatConvertConstant(op Op, c stamp.Constant) stamp.Constant {
	_, to := convertKinds(op)
	switch op {
	case I2F, L2F, I2D, L2D:
		return stamp.Float(to.Bits(), toFloat(c.Int64(), to.Bits()))
	case F2I, F2L, D2I, D2L:
		return stamp.Int(to.Bits(), toInteger(c.Float64(), to.Bits()))
	case F2D, D2F:
		return stamp.Float(to.Bits(), c.Float64())
	default:
		panic(unexpected(op, Float))
	}
}

func floatConvertStamp(op Op, s stamp.Stamp) stamp.Stamp {
	_, to := convertKinds(op)
	n := to.Bits()
	switch op {
	case I2F, L2F, I2D, L2D:
		is := s.(stamp.IntegerStamp)
		return stamp.ForFloat(n, toFloat(is.LowerBound(), n), toFloat(is.UpperBound(), n), true)
	case F2I, F2L, D2I, D2L:
		fs := s.(stamp.FloatStamp)
		lower := toInteger(fs.LowerBound(), n)
		upper := toInteger(fs.UpperBound(), n)
		if fs.CanBeNaN() {
			// NaN converts to zero.
			if lower > 0 {
				lower = 0
			} else if upper < 0 {
				upper = 0
			}
		}
		return stamp.ForInteger(n, lower, upper)
	case F2D, D2F:
		fs := s.(stamp.FloatStamp)
		lo, hi := fs.LowerBound(), fs.UpperBound()
		if n == 32 {
			lo = float64(float32(lo))
			hi = float64(float32(hi))
		}
		return stamp.ForFloat(n, lo, hi, fs.IsNonNaN())
	default:
		panic(unexpected(op, Float))
	}
}
