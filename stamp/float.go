package stamp

import (
	"math"
	"strings"
)

// FloatStamp describes a set of IEEE 754 values of 32 or 64 bits by an
// inclusive range and a flag that excludes NaN. Bounds of 32-bit stamps
// are stored as float64 but are exactly representable as float32.
//
// The range does not distinguish +0.0 from -0.0: a range that contains
// zero contains both.
//
// Two special shapes exist. The empty stamp has the range [+Inf, -Inf]
// and excludes NaN. The NaN stamp, describing only NaN, has NaN for both
// bounds and includes NaN.
type FloatStamp struct {
	bits   uint8
	lower  float64
	upper  float64
	nonNaN bool
}

func (s FloatStamp) Bits() int           { return int(s.bits) }
func (s FloatStamp) LowerBound() float64 { return s.lower }
func (s FloatStamp) UpperBound() float64 { return s.upper }

// IsNonNaN reports whether NaN is excluded from s.
func (s FloatStamp) IsNonNaN() bool { return s.nonNaN }
func (s FloatStamp) CanBeNaN() bool { return !s.nonNaN }

// IsNaN reports whether s is the stamp that describes only NaN.
func (s FloatStamp) IsNaN() bool { return math.IsNaN(s.lower) }

func (s FloatStamp) Kind() Kind          { return FloatKind(s.Bits()) }
func (s FloatStamp) Unrestricted() Stamp { return FloatUnrestricted(s.Bits()) }
func (s FloatStamp) Empty() Stamp        { return FloatEmpty(s.Bits()) }

// HasValues reports whether s is not empty. The comparison is false for
// the NaN stamp's bounds.
func (s FloatStamp) HasValues() bool { return !(s.lower > s.upper) }
func (s FloatStamp) IsEmpty() bool   { return s.lower > s.upper }

func (s FloatStamp) IsUnrestricted() bool {
	return math.IsInf(s.lower, -1) && math.IsInf(s.upper, 1) && !s.nonNaN
}

// Contains reports whether f is a member of s.
func (s FloatStamp) Contains(f float64) bool {
	if math.IsNaN(f) {
		return !s.nonNaN
	}
	return f >= s.lower && f <= s.upper
}

// IsConstant reports whether s describes a single value. Zero ranges
// are never constant since they contain both signed zeros.
func (s FloatStamp) IsConstant() bool {
	return s.nonNaN && s.lower == s.upper && s.lower != 0
}

func (s FloatStamp) AsConstant() (Constant, bool) {
	if !s.IsConstant() {
		return Constant{}, false
	}
	return Float(s.Bits(), s.lower), true
}

func (s FloatStamp) IsCompatible(other Stamp) bool {
	switch other := other.(type) {
	case FloatStamp:
		return s.bits == other.bits
	case IllegalStamp:
		return true
	default:
		return false
	}
}

func (s FloatStamp) IsCompatibleConstant(c Constant) bool {
	return c.Kind() == s.Kind()
}

// Equal reports whether s and other are identical. Bounds are compared
// by their bit patterns, so NaN bounds are equal to each other and -0.0
// differs from +0.0.
func (s FloatStamp) Equal(other Stamp) bool {
	o, ok := other.(FloatStamp)
	return ok && s.bits == o.bits && s.nonNaN == o.nonNaN &&
		math.Float64bits(s.lower) == math.Float64bits(o.lower) &&
		math.Float64bits(s.upper) == math.Float64bits(o.upper)
}

func (s FloatStamp) float(other Stamp) FloatStamp {
	switch o := other.(type) {
	case FloatStamp:
		if o.bits != s.bits {
			panic(incompatible(s, other))
		}
		return o
	case IllegalStamp:
		return FloatEmpty(s.Bits())
	default:
		panic(incompatible(s, other))
	}
}

func (s FloatStamp) Meet(other Stamp) Stamp { return s.MeetFloat(s.float(other)) }
func (s FloatStamp) Join(other Stamp) Stamp { return s.JoinFloat(s.float(other)) }

// meetBounds combines two bounds with f. A NaN bound only marks the NaN
// stamp and never constrains the other side.
func meetBounds(a, b float64, f func(float64, float64) float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	return f(a, b)
}

func fmin(a, b float64) float64 { return min(a, b) }
func fmax(a, b float64) float64 { return max(a, b) }

// MeetFloat is like Meet but operates on float stamps directly. It
// panics if the widths differ.
func (s FloatStamp) MeetFloat(o FloatStamp) FloatStamp {
	if s.bits != o.bits {
		panic(incompatible(s, o))
	}
	switch {
	case s.Equal(o):
		return s
	case s.IsEmpty():
		return o
	case o.IsEmpty():
		return s
	}
	return FloatStamp{
		bits:   s.bits,
		lower:  meetBounds(s.lower, o.lower, fmin),
		upper:  meetBounds(s.upper, o.upper, fmax),
		nonNaN: s.nonNaN && o.nonNaN,
	}
}

// JoinFloat is like Join but operates on float stamps directly. It
// panics if the widths differ.
func (s FloatStamp) JoinFloat(o FloatStamp) FloatStamp {
	if s.bits != o.bits {
		panic(incompatible(s, o))
	}
	if s.Equal(o) {
		return s
	}
	// The builtin min and max propagate NaN, so joining with the NaN
	// stamp leaves at most NaN.
	r := FloatStamp{
		bits:   s.bits,
		lower:  max(s.lower, o.lower),
		upper:  min(s.upper, o.upper),
		nonNaN: s.nonNaN || o.nonNaN,
	}
	return r.normalize()
}

// normalize maps a stamp without values in the non-NaN range to either
// the NaN stamp or the empty stamp.
func (s FloatStamp) normalize() FloatStamp {
	if s.lower > s.upper {
		s.lower = math.NaN()
		s.upper = math.NaN()
	}
	if math.IsNaN(s.lower) {
		if s.nonNaN {
			return FloatEmpty(s.Bits())
		}
		return floatNaN(s.Bits())
	}
	return s
}

func floatNaN(n int) FloatStamp {
	return FloatStamp{bits: uint8(n), lower: math.NaN(), upper: math.NaN(), nonNaN: false}
}

// FloatNaN returns the stamp of width n that describes only NaN.
func FloatNaN(n int) FloatStamp {
	floatIndex(n)
	return floatNaN(n)
}

func (s FloatStamp) String() string {
	n := s.Bits()
	var sb strings.Builder
	sb.WriteString(FloatKind(n).String())
	if !s.HasValues() {
		sb.WriteString("<empty>")
		return sb.String()
	}
	if s.nonNaN {
		sb.WriteByte('!')
	}
	if math.Float64bits(s.lower) == math.Float64bits(s.upper) || s.IsNaN() {
		sb.WriteString(" [")
		sb.WriteString(formatFloat(s.lower, n))
		sb.WriteByte(']')
	} else if !math.IsInf(s.lower, -1) || !math.IsInf(s.upper, 1) {
		sb.WriteString(" [")
		sb.WriteString(formatFloat(s.lower, n))
		sb.WriteString(" - ")
		sb.WriteString(formatFloat(s.upper, n))
		sb.WriteByte(']')
	}
	return sb.String()
}

func (s FloatStamp) IsPositive() bool {
	return s.nonNaN && s.lower >= 0
}

func (s FloatStamp) IsNegative() bool {
	return s.nonNaN && s.upper <= 0
}
