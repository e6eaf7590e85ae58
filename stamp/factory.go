package stamp

import (
	"fmt"
	"math"

	"honnef.co/go/stamps/stamp/codeutil"
)

// Canonical stamps, populated during package initialization and read
// without synchronization afterwards.
var (
	integerUnrestricted [5]IntegerStamp
	integerEmpty        [5]IntegerStamp
	floatUnrestricted   [2]FloatStamp
	floatEmpty          [2]FloatStamp
	kindUnrestricted    [kindEnd]Stamp
	kindEmpty           [kindEnd]Stamp
)

func init() {
	for i, n := range [...]int{1, 8, 16, 32, 64} {
		integerUnrestricted[i] = IntegerStamp{
			bits:     uint8(n),
			lower:    codeutil.MinValue(n),
			upper:    codeutil.MaxValue(n),
			downMask: 0,
			upMask:   codeutil.Mask(n),
		}
		integerEmpty[i] = IntegerStamp{
			bits:     uint8(n),
			lower:    codeutil.MaxValue(n),
			upper:    codeutil.MinValue(n),
			downMask: codeutil.Mask(n),
			upMask:   0,
		}
		k := IntegerKind(n)
		kindUnrestricted[k] = integerUnrestricted[i]
		kindEmpty[k] = integerEmpty[i]
	}
	for i, n := range [...]int{32, 64} {
		floatUnrestricted[i] = FloatStamp{bits: uint8(n), lower: math.Inf(-1), upper: math.Inf(1), nonNaN: false}
		floatEmpty[i] = FloatStamp{bits: uint8(n), lower: math.Inf(1), upper: math.Inf(-1), nonNaN: true}
		k := FloatKind(n)
		kindUnrestricted[k] = floatUnrestricted[i]
		kindEmpty[k] = floatEmpty[i]
	}
	kindUnrestricted[KindVoid] = VoidStamp{}
	kindEmpty[KindVoid] = IllegalStamp{}
	kindUnrestricted[KindIllegal] = IllegalStamp{}
	kindEmpty[KindIllegal] = IllegalStamp{}
}

func integerIndex(n int) int {
	switch n {
	case 1:
		return 0
	case 8:
		return 1
	case 16:
		return 2
	case 32:
		return 3
	case 64:
		return 4
	default:
		panic(fmt.Sprintf("invalid integer stamp width %d", n))
	}
}

func floatIndex(n int) int {
	switch n {
	case 32:
		return 0
	case 64:
		return 1
	default:
		panic(fmt.Sprintf("invalid float stamp width %d", n))
	}
}

// ForKind returns the unrestricted stamp of kind k.
func ForKind(k Kind) Stamp {
	if k >= kindEnd {
		panic(fmt.Sprintf("invalid kind %d", k))
	}
	return kindUnrestricted[k]
}

// EmptyForKind returns the empty stamp of kind k.
func EmptyForKind(k Kind) Stamp {
	if k >= kindEnd {
		panic(fmt.Sprintf("invalid kind %d", k))
	}
	return kindEmpty[k]
}

func IntegerUnrestricted(n int) IntegerStamp { return integerUnrestricted[integerIndex(n)] }
func IntegerEmpty(n int) IntegerStamp        { return integerEmpty[integerIndex(n)] }
func FloatUnrestricted(n int) FloatStamp     { return floatUnrestricted[floatIndex(n)] }
func FloatEmpty(n int) FloatStamp            { return floatEmpty[floatIndex(n)] }

// ForInteger returns the tightest stamp of width n containing the range
// [lower, upper], deriving the masks from the range. If lower > upper,
// the empty stamp is returned.
func ForInteger(n int, lower, upper int64) IntegerStamp {
	return ForIntegerWithMask(n, lower, upper, 0, codeutil.Mask(n))
}

// ForIntegerWithMask returns the tightest stamp of width n whose members
// lie in [lower, upper] and agree with the masks. The bounds are moved to
// the closest members, and bits shared by all values between the new
// bounds are added to the masks. Inconsistent inputs yield the empty
// stamp.
//
// The bounds must lie in the signed range of n bits and the masks in the
// low n bits.
func ForIntegerWithMask(n int, lower, upper int64, down, up uint64) IntegerStamp {
	mask := codeutil.Mask(integerWidth(n))
	if down&^mask != 0 || up&^mask != 0 {
		panic(fmt.Sprintf("masks ⇊%016x ⇈%016x exceed %d bits", down, up, n))
	}
	if lower > upper || down&^up != 0 {
		return IntegerEmpty(n)
	}
	if lower < codeutil.MinValue(n) || upper > codeutil.MaxValue(n) {
		panic(fmt.Sprintf("range [%d, %d] exceeds %d bits", lower, upper, n))
	}
	lower, upper, ok := tightenBounds(n, lower, upper, down, up)
	if !ok {
		return IntegerEmpty(n)
	}
	if lower == upper {
		v := uint64(lower) & mask
		return IntegerStamp{bits: uint8(n), lower: lower, upper: upper, downMask: v, upMask: v}
	}
	// All values between the bounds share the bits above the highest bit
	// in which the bounds differ.
	diff := (uint64(lower) ^ uint64(upper)) & mask
	known := mask &^ (^uint64(0) >> leadingZeros(diff))
	v := uint64(lower) & mask
	return IntegerStamp{
		bits:     uint8(n),
		lower:    lower,
		upper:    upper,
		downMask: down | v&known,
		upMask:   up & (v | ^known) & mask,
	}
}

// ForUnsignedInteger returns the tightest stamp of width n whose members,
// interpreted as unsigned integers, lie in [lower, upper] and agree with
// the masks. Masks are truncated to n bits.
func ForUnsignedInteger(n int, lower, upper uint64, down, up uint64) IntegerStamp {
	mask := codeutil.Mask(integerWidth(n))
	if lower > upper {
		return IntegerEmpty(n)
	}
	lo := codeutil.SignExtend(int64(lower), n)
	hi := codeutil.SignExtend(int64(upper), n)
	if !codeutil.SameSign(lo, hi) {
		lo = codeutil.MinValue(n)
		hi = codeutil.MaxValue(n)
	}
	return ForIntegerWithMask(n, lo, hi, down&mask, up&mask)
}

// StampForMask returns the stamp of width n with the given masks and the
// tightest range they imply.
func StampForMask(n int, down, up uint64) IntegerStamp {
	mask := codeutil.Mask(integerWidth(n))
	if down&^mask != 0 || up&^mask != 0 {
		panic(fmt.Sprintf("masks ⇊%016x ⇈%016x exceed %d bits", down, up, n))
	}
	if down&^up != 0 {
		return IntegerEmpty(n)
	}
	return IntegerStamp{
		bits:     uint8(n),
		lower:    minValueForMasks(n, down, up),
		upper:    maxValueForMasks(n, down, up),
		downMask: down,
		upMask:   up,
	}
}

func integerWidth(n int) int {
	if !codeutil.IsValidBits(n) {
		panic(fmt.Sprintf("invalid integer stamp width %d", n))
	}
	return n
}

// ForFloat returns the float stamp of width n with the given bounds.
// Bounds of 32-bit stamps must be representable as float32. Either both
// bounds or neither must be NaN. A stamp whose range is empty describes
// at most NaN and is normalized accordingly.
func ForFloat(n int, lower, upper float64, nonNaN bool) FloatStamp {
	floatIndex(n)
	if math.IsNaN(lower) != math.IsNaN(upper) {
		panic(fmt.Sprintf("inconsistent NaN bounds [%v, %v]", lower, upper))
	}
	if n == 32 && (!isFloat32(lower) || !isFloat32(upper)) {
		panic(fmt.Sprintf("bounds [%v, %v] are not float32 values", lower, upper))
	}
	s := FloatStamp{bits: uint8(n), lower: lower, upper: upper, nonNaN: nonNaN}
	return s.normalize()
}

func isFloat32(f float64) bool {
	return math.IsNaN(f) || float64(float32(f)) == f
}

// ForConstant returns the stamp containing exactly c. For kinds without
// numeric values, the unrestricted stamp of the kind is returned.
func ForConstant(c Constant) Stamp {
	switch k := c.Kind(); {
	case k.IsInteger():
		v := c.Int64()
		return ForInteger(k.Bits(), v, v)
	case k.IsFloat():
		f := c.Float64()
		if math.IsNaN(f) {
			return FloatStamp{bits: uint8(k.Bits()), lower: math.NaN(), upper: math.NaN(), nonNaN: false}
		}
		return FloatStamp{bits: uint8(k.Bits()), lower: f, upper: f, nonNaN: true}
	default:
		return ForKind(k)
	}
}
