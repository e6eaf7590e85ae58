package stamp

import (
	"fmt"
	"math"
	"strconv"

	"honnef.co/go/stamps/stamp/codeutil"
)

// Kind is the primitive kind of a constant or stamp.
type Kind uint8

const (
	KindIllegal Kind = iota
	KindVoid
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64

	kindEnd
)

var kindNames = [...]string{
	KindIllegal: "illegal",
	KindVoid:    "void",
	KindBool:    "bool",
	KindInt8:    "i8",
	KindInt16:   "i16",
	KindInt32:   "i32",
	KindInt64:   "i64",
	KindFloat32: "f32",
	KindFloat64: "f64",
}

func (k Kind) String() string {
	if k >= kindEnd {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindNames[k]
}

// Bits returns the width of values of kind k, or 0 for kinds without
// values.
func (k Kind) Bits() int {
	switch k {
	case KindBool:
		return 1
	case KindInt8:
		return 8
	case KindInt16:
		return 16
	case KindInt32, KindFloat32:
		return 32
	case KindInt64, KindFloat64:
		return 64
	default:
		return 0
	}
}

// IsInteger reports whether k is an integer kind, including booleans.
func (k Kind) IsInteger() bool {
	return k >= KindBool && k <= KindInt64
}

// IsFloat reports whether k is a floating-point kind.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// IntegerKind returns the integer kind of the given width.
func IntegerKind(bits int) Kind {
	switch bits {
	case 1:
		return KindBool
	case 8:
		return KindInt8
	case 16:
		return KindInt16
	case 32:
		return KindInt32
	case 64:
		return KindInt64
	default:
		panic(fmt.Sprintf("no integer kind with %d bits", bits))
	}
}

// FloatKind returns the floating-point kind of the given width.
func FloatKind(bits int) Kind {
	switch bits {
	case 32:
		return KindFloat32
	case 64:
		return KindFloat64
	default:
		panic(fmt.Sprintf("no float kind with %d bits", bits))
	}
}

// Constant is a concrete primitive value. Integer constants are stored
// sign-extended to 64 bits, floating-point constants by their IEEE 754
// bit pattern. Constants are comparable with ==; two float constants are
// equal iff their bit patterns are.
type Constant struct {
	kind Kind
	raw  uint64
}

// Int returns an integer constant of the given width, truncating v.
// A 1-bit integer is a boolean; its only values are 0 and -1.
func Int(bits int, v int64) Constant {
	return Constant{kind: IntegerKind(bits), raw: uint64(codeutil.Narrow(v, bits))}
}

func Bool(b bool) Constant {
	if b {
		return Constant{kind: KindBool, raw: ^uint64(0)}
	}
	return Constant{kind: KindBool}
}

func Int8(v int8) Constant   { return Int(8, int64(v)) }
func Int16(v int16) Constant { return Int(16, int64(v)) }
func Int32(v int32) Constant { return Int(32, int64(v)) }
func Int64(v int64) Constant { return Int(64, v) }

func Float32(f float32) Constant {
	return Constant{kind: KindFloat32, raw: uint64(math.Float32bits(f))}
}

func Float64(f float64) Constant {
	return Constant{kind: KindFloat64, raw: math.Float64bits(f)}
}

// Float returns a floating-point constant of the given width. For 32
// bits, f is rounded to float32.
func Float(bits int, f float64) Constant {
	switch bits {
	case 32:
		return Float32(float32(f))
	case 64:
		return Float64(f)
	default:
		panic(fmt.Sprintf("no float kind with %d bits", bits))
	}
}

// Void is the constant of kind void.
var Void = Constant{kind: KindVoid}

func (c Constant) Kind() Kind { return c.kind }
func (c Constant) Bits() int  { return c.kind.Bits() }

// Int64 returns the sign-extended value of an integer constant.
func (c Constant) Int64() int64 {
	if !c.kind.IsInteger() {
		panic(fmt.Sprintf("Int64 called on %s constant", c.kind))
	}
	return int64(c.raw)
}

// Uint64 returns the zero-extended value of an integer constant.
func (c Constant) Uint64() uint64 {
	return uint64(codeutil.ZeroExtend(c.Int64(), c.Bits()))
}

// Bool returns the value of a boolean constant.
func (c Constant) Bool() bool {
	if c.kind != KindBool {
		panic(fmt.Sprintf("Bool called on %s constant", c.kind))
	}
	return c.raw != 0
}

// Float64 returns the value of a floating-point constant, converting
// 32-bit constants exactly.
func (c Constant) Float64() float64 {
	switch c.kind {
	case KindFloat32:
		return float64(math.Float32frombits(uint32(c.raw)))
	case KindFloat64:
		return math.Float64frombits(c.raw)
	default:
		panic(fmt.Sprintf("Float64 called on %s constant", c.kind))
	}
}

func (c Constant) Float32() float32 {
	if c.kind != KindFloat32 {
		panic(fmt.Sprintf("Float32 called on %s constant", c.kind))
	}
	return math.Float32frombits(uint32(c.raw))
}

// RawBits returns the bit pattern of c, zero-extended from its width.
func (c Constant) RawBits() uint64 {
	if n := c.Bits(); n > 0 {
		return c.raw & codeutil.Mask(n)
	}
	return 0
}

func (c Constant) String() string {
	switch {
	case c.kind == KindBool:
		return "bool:" + strconv.FormatBool(c.Bool())
	case c.kind.IsInteger():
		return c.kind.String() + ":" + strconv.FormatInt(c.Int64(), 10)
	case c.kind.IsFloat():
		return c.kind.String() + ":" + formatFloat(c.Float64(), c.Bits())
	default:
		return c.kind.String()
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case math.IsNaN(f):
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	for _, r := range s {
		if r == '.' || r == 'e' || r == 'n' || r == 'I' {
			return s
		}
	}
	return s + ".0"
}
