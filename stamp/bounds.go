package stamp

import (
	"math/bits"

	"honnef.co/go/stamps/stamp/codeutil"
)

// The functions in this file move the bounds of an integer stamp to the
// closest values that agree with its masks.
//
// Searching is done on biased values: flipping the sign bit of an n-bit
// value maps the signed order onto the unsigned order of [0, 2^n). In
// the biased representation the constraints on the sign bit are
// inverted: a sign bit that must be set becomes a bit that must be
// clear, and vice versa.

func leadingZeros(x uint64) int { return bits.LeadingZeros64(x) }

func bias(v int64, n int) uint64 {
	return (uint64(v) ^ codeutil.SignBit(n)) & codeutil.Mask(n)
}

func unbias(u uint64, n int) int64 {
	return codeutil.SignExtend(int64(u^codeutil.SignBit(n)), n)
}

// biasedMasks returns the bits that must be one and the bits that may be
// one in the biased representation of members of (down, up).
func biasedMasks(n int, down, up uint64) (must, may uint64) {
	sign := codeutil.SignBit(n)
	must = down &^ sign
	may = up &^ sign
	if up&sign == 0 {
		must |= sign
	}
	if down&sign == 0 {
		may |= sign
	}
	return must, may
}

// smallestMember returns the smallest u >= l with u&must == must and
// u&^may == 0.
func smallestMember(l, must, may uint64) (uint64, bool) {
	violations := must&^l | l&^may
	if violations == 0 {
		return l, true
	}
	i := bits.Len64(violations) - 1
	above := ^uint64(0) << (i + 1)
	if must&(1<<i) != 0 {
		// Setting the missing bit makes the value larger than l no
		// matter what follows, so the rest can be as small as possible.
		return l&above | 1<<i | must&(1<<i-1), true
	}
	// The bit has to be cleared, which makes the value smaller than l.
	// Compensate by setting the lowest clear bit above it that may be
	// set.
	candidates := ^l & may & above
	if candidates == 0 {
		return 0, false
	}
	j := bits.TrailingZeros64(candidates)
	return l&(^uint64(0)<<(j+1)) | 1<<j | must&(1<<j-1), true
}

// largestMember returns the largest u <= h with u&must == must and
// u&^may == 0.
func largestMember(h, must, may uint64) (uint64, bool) {
	violations := must&^h | h&^may
	if violations == 0 {
		return h, true
	}
	i := bits.Len64(violations) - 1
	above := ^uint64(0) << (i + 1)
	if h&(1<<i) != 0 {
		// Clearing the forbidden bit makes the value smaller than h no
		// matter what follows, so the rest can be as large as possible.
		return h&above | may&(1<<i-1), true
	}
	candidates := h &^ must & above
	if candidates == 0 {
		return 0, false
	}
	j := bits.TrailingZeros64(candidates)
	return h&(^uint64(0)<<(j+1)) | may&(1<<j-1), true
}

// tightenBounds returns the smallest and the largest member of the set
// described by the n-bit range [lower, upper] and the masks. It reports
// false if the set is empty. lower must not be larger than upper, and
// down must be a subset of up.
func tightenBounds(n int, lower, upper int64, down, up uint64) (int64, int64, bool) {
	must, may := biasedMasks(n, down, up)
	l, ok := smallestMember(bias(lower, n), must, may)
	if !ok {
		return 0, 0, false
	}
	h, ok := largestMember(bias(upper, n), must, may)
	if !ok || l > h {
		return 0, 0, false
	}
	return unbias(l, n), unbias(h, n), true
}

// minValueForMasks returns the smallest signed value consistent with the
// masks.
func minValueForMasks(n int, down, up uint64) int64 {
	sign := codeutil.SignBit(n)
	if up&sign == 0 {
		return int64(down)
	}
	return codeutil.SignExtend(int64(down|sign), n)
}

// maxValueForMasks returns the largest signed value consistent with the
// masks.
func maxValueForMasks(n int, down, up uint64) int64 {
	sign := codeutil.SignBit(n)
	if down&sign != 0 {
		return codeutil.SignExtend(int64(up), n)
	}
	return int64(up &^ sign)
}
