// Package codeutil provides two's-complement helpers for values that are
// stored in 64-bit host integers but represent narrower machine integers.
//
// All functions rely on Go's wrapping integer arithmetic and on shifts by
// the full width producing zero for unsigned operands.
package codeutil

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// IsValidBits reports whether n is one of the integer widths stamps
// support.
func IsValidBits(n int) bool {
	switch n {
	case 1, 8, 16, 32, 64:
		return true
	default:
		return false
	}
}

func checkBits(n int) {
	if n < 1 || n > 64 {
		panic(fmt.Sprintf("invalid bit width %d", n))
	}
}

// Mask returns a mask with the low n bits set.
func Mask(n int) uint64 {
	checkBits(n)
	return ^uint64(0) >> (64 - n)
}

// MinValue returns the smallest signed value representable in n bits.
func MinValue(n int) int64 {
	checkBits(n)
	return -1 << (n - 1)
}

// MaxValue returns the largest signed value representable in n bits.
func MaxValue(n int) int64 {
	checkBits(n)
	return int64(^uint64(0) >> (65 - n))
}

// MaxValueUnsigned returns the largest unsigned value representable in
// n bits.
func MaxValueUnsigned(n int) uint64 {
	return Mask(n)
}

// SignExtend interprets the low n bits of v as a signed n-bit integer.
func SignExtend(v int64, n int) int64 {
	checkBits(n)
	shift := 64 - n
	return (v << shift) >> shift
}

// ZeroExtend interprets the low n bits of v as an unsigned n-bit integer.
func ZeroExtend(v int64, n int) int64 {
	return int64(uint64(v) & Mask(n))
}

// Narrow truncates v to n bits and sign-extends the result.
func Narrow(v int64, n int) int64 {
	return SignExtend(v, n)
}

// Convert truncates v to n bits and extends the result back to 64 bits,
// treating the truncated value as unsigned if unsigned is set.
func Convert(v int64, n int, unsigned bool) int64 {
	if n == 64 {
		return v
	}
	if unsigned {
		return ZeroExtend(v, n)
	}
	return SignExtend(v, n)
}

// IsPowerOf2 reports whether v is a positive power of two.
func IsPowerOf2(v int64) bool {
	return v > 0 && v&(v-1) == 0
}

// Log2 returns the base-2 logarithm of v, rounded down. It panics for
// non-positive values.
func Log2(v int64) int {
	if v <= 0 {
		panic(fmt.Sprintf("Log2 of non-positive value %d", v))
	}
	return bits.Len64(uint64(v)) - 1
}

// SignBit returns the mask of the sign bit of an n-bit integer.
func SignBit(n int) uint64 {
	checkBits(n)
	return 1 << (n - 1)
}

// Clamp limits v to the interval [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SameSign reports whether a and b are both negative or both
// non-negative.
func SameSign[T constraints.Signed | constraints.Float](a, b T) bool {
	return (a < 0) == (b < 0)
}

// Saturate clamps v to the signed range of n bits.
func Saturate(v int64, n int) int64 {
	if n == 64 {
		return v
	}
	return Clamp(v, MinValue(n), MaxValue(n))
}
