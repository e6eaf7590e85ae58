// Package arith implements constant folding and stamp folding for the
// arithmetic operations of the integer and floating-point families.
//
// Each operation is described by a small value, such as a [BinaryOp],
// that is obtained from the [Table] of a family. FoldConstant computes
// the result of an operation on concrete values, FoldStamp computes a
// stamp containing every result the operation can produce for members
// of its operand stamps.
//
// Folding functions panic when given operands of the wrong family or of
// mismatched widths; such calls are programming errors.
package arith

import "fmt"

// Op identifies an arithmetic operation.
type Op uint8

const (
	Neg Op = iota
	Add
	Sub
	Mul
	MulHigh
	UMulHigh
	Div
	Rem
	Not
	And
	Or
	Xor
	Shl
	Shr
	UShr
	Abs
	Sqrt
	Max
	Min
	UMax
	UMin
	ZeroExtend
	SignExtend
	Narrow
	I2F
	L2F
	I2D
	L2D
	F2I
	F2L
	D2I
	D2L
	F2D
	D2F

	opEnd
)

var opNames = [...]string{
	Neg:        "Neg",
	Add:        "Add",
	Sub:        "Sub",
	Mul:        "Mul",
	MulHigh:    "MulHigh",
	UMulHigh:   "UMulHigh",
	Div:        "Div",
	Rem:        "Rem",
	Not:        "Not",
	And:        "And",
	Or:         "Or",
	Xor:        "Xor",
	Shl:        "Shl",
	Shr:        "Shr",
	UShr:       "UShr",
	Abs:        "Abs",
	Sqrt:       "Sqrt",
	Max:        "Max",
	Min:        "Min",
	UMax:       "UMax",
	UMin:       "UMin",
	ZeroExtend: "ZeroExtend",
	SignExtend: "SignExtend",
	Narrow:     "Narrow",
	I2F:        "I2F",
	L2F:        "L2F",
	I2D:        "I2D",
	L2D:        "L2D",
	F2I:        "F2I",
	F2L:        "F2L",
	D2I:        "D2I",
	D2L:        "D2L",
	F2D:        "F2D",
	D2F:        "D2F",
}

func (op Op) String() string {
	if op >= opEnd {
		return fmt.Sprintf("Op(%d)", op)
	}
	return opNames[op]
}

// Ops returns all operations in declaration order.
func Ops() []Op {
	out := make([]Op, opEnd)
	for i := range out {
		out[i] = Op(i)
	}
	return out
}

// ParseOp returns the operation with the given name.
func ParseOp(name string) (Op, bool) {
	for i, s := range opNames {
		if s == name {
			return Op(i), true
		}
	}
	return 0, false
}

// Class groups operations by the shape of their operands.
type Class uint8

const (
	ClassUnary Class = iota
	ClassBinary
	ClassShift
	ClassIntegerConvert
	ClassFloatConvert
)

func (c Class) String() string {
	switch c {
	case ClassUnary:
		return "unary"
	case ClassBinary:
		return "binary"
	case ClassShift:
		return "shift"
	case ClassIntegerConvert:
		return "integer conversion"
	case ClassFloatConvert:
		return "float conversion"
	default:
		return fmt.Sprintf("Class(%d)", c)
	}
}

func (op Op) Class() Class {
	switch op {
	case Neg, Not, Abs, Sqrt:
		return ClassUnary
	case Shl, Shr, UShr:
		return ClassShift
	case ZeroExtend, SignExtend, Narrow:
		return ClassIntegerConvert
	case I2F, L2F, I2D, L2D, F2I, F2L, D2I, D2L, F2D, D2F:
		return ClassFloatConvert
	default:
		return ClassBinary
	}
}

// Family is the kind of operands an operation table works on.
type Family uint8

const (
	Integer Family = iota
	Float
)

func (f Family) String() string {
	switch f {
	case Integer:
		return "integer"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("Family(%d)", f)
	}
}
