package arith

import (
	"fmt"

	"honnef.co/go/stamps/stamp"
	"honnef.co/go/stamps/stamp/codeutil"
)

// Operation is implemented by the descriptors of all operations.
type Operation interface {
	Op() Op
	Family() Family
	String() string
}

type desc struct {
	op     Op
	family Family
}

func (d desc) Op() Op          { return d.op }
func (d desc) Family() Family  { return d.family }
func (d desc) String() string  { return d.family.String() + " " + d.op.String() }
func (d desc) isInteger() bool { return d.family == Integer }

var (
	_ Operation = UnaryOp{}
	_ Operation = BinaryOp{}
	_ Operation = ShiftOp{}
	_ Operation = IntegerConvertOp{}
	_ Operation = FloatConvertOp{}
)

// UnaryOp describes Neg, Not, Abs and Sqrt.
type UnaryOp struct{ desc }

// FoldConstant applies the operation to c. The boolean result reports
// whether the operation produced a value.
func (u UnaryOp) FoldConstant(c stamp.Constant) (stamp.Constant, bool) {
	if u.isInteger() {
		return intUnaryConstant(u.op, integerConstant(u, c)), true
	}
	return floatUnaryConstant(u.op, floatConstant(u, c)), true
}

// FoldStamp returns a stamp containing the results of applying the
// operation to every member of s.
func (u UnaryOp) FoldStamp(s stamp.Stamp) stamp.Stamp {
	if _, ok := s.(stamp.IllegalStamp); ok {
		return s
	}
	if u.isInteger() {
		is := integerOperand(u, s)
		if is.IsEmpty() {
			return is
		}
		return intUnaryStamp(u.op, is)
	}
	fs := floatOperand(u, s)
	if fs.IsEmpty() {
		return fs
	}
	return floatUnaryStamp(u.op, fs)
}

// BinaryOp describes operations with two operands of the same kind.
type BinaryOp struct {
	desc
	associative bool
	commutative bool
}

// IsAssociative reports whether (a op b) op c == a op (b op c) for all
// values.
func (b BinaryOp) IsAssociative() bool { return b.associative }

// IsCommutative reports whether a op b == b op a for all values.
func (b BinaryOp) IsCommutative() bool { return b.commutative }

// FoldConstant applies the operation to x and y. It reports false if the
// operation has no result, as for integer division by zero.
func (b BinaryOp) FoldConstant(x, y stamp.Constant) (stamp.Constant, bool) {
	if x.Kind() != y.Kind() {
		panic(fmt.Sprintf("%s: operand kinds differ: %s and %s", b, x.Kind(), y.Kind()))
	}
	if b.isInteger() {
		return intBinaryConstant(b.op, integerConstant(b, x), integerConstant(b, y))
	}
	return floatBinaryConstant(b.op, floatConstant(b, x), floatConstant(b, y)), true
}

// FoldStamp returns a stamp containing the results of applying the
// operation to every pair of members of x and y. If either operand is
// empty, the empty operand is returned.
func (b BinaryOp) FoldStamp(x, y stamp.Stamp) stamp.Stamp {
	if _, ok := x.(stamp.IllegalStamp); ok {
		return x
	}
	if _, ok := y.(stamp.IllegalStamp); ok {
		return y
	}
	if b.isInteger() {
		xs, ys := integerOperand(b, x), integerOperand(b, y)
		sameWidth(b, xs.Bits(), ys.Bits())
		switch {
		case xs.IsEmpty():
			return xs
		case ys.IsEmpty():
			return ys
		}
		return intBinaryStamp(b.op, xs, ys)
	}
	xs, ys := floatOperand(b, x), floatOperand(b, y)
	sameWidth(b, xs.Bits(), ys.Bits())
	switch {
	case xs.IsEmpty():
		return xs
	case ys.IsEmpty():
		return ys
	}
	return floatBinaryStamp(b.op, xs, ys)
}

// IsNeutral reports whether c is a neutral element of the operation,
// that is, whether x op c == x for all x.
func (b BinaryOp) IsNeutral(c stamp.Constant) bool {
	if b.isInteger() {
		return intIsNeutral(b.op, integerConstant(b, c))
	}
	return floatIsNeutral(b.op, floatConstant(b, c))
}

// Zero returns the value of x op x for values of the kind of s, if it is
// the same for all x. Only integer Sub and Xor have such a value.
func (b BinaryOp) Zero(s stamp.Stamp) (stamp.Constant, bool) {
	if !b.isInteger() || (b.op != Sub && b.op != Xor) {
		return stamp.Constant{}, false
	}
	is := integerOperand(b, s)
	return stamp.Int(is.Bits(), 0), true
}

// ShiftOp describes Shl, Shr and UShr. Shift amounts are masked with
// the operand width minus one.
type ShiftOp struct{ desc }

// ShiftAmountMask returns the mask that is applied to shift amounts of
// values with the stamp s.
func (sh ShiftOp) ShiftAmountMask(s stamp.Stamp) int64 {
	return int64(integerOperand(sh, s).Bits() - 1)
}

// FoldConstant shifts v by amount, which may be any integer constant.
func (sh ShiftOp) FoldConstant(v, amount stamp.Constant) (stamp.Constant, bool) {
	c := integerConstant(sh, v)
	a := integerConstant(sh, amount)
	return intShiftConstant(sh.op, c, a.Int64()&int64(c.Bits()-1)), true
}

// FoldStamp returns a stamp containing the results of shifting members
// of v by members of amount. The width of amount is independent of v.
func (sh ShiftOp) FoldStamp(v stamp.Stamp, amount stamp.IntegerStamp) stamp.Stamp {
	if _, ok := v.(stamp.IllegalStamp); ok {
		return v
	}
	vs := integerOperand(sh, v)
	switch {
	case vs.IsEmpty():
		return vs
	case amount.IsEmpty():
		return stamp.IntegerEmpty(vs.Bits())
	}
	return intShiftStamp(sh.op, vs, amount)
}

// IntegerConvertOp describes ZeroExtend, SignExtend and Narrow between
// integer widths.
type IntegerConvertOp struct{ desc }

// FoldConstant converts c, an integer of inputBits bits, to resultBits
// bits.
func (cv IntegerConvertOp) FoldConstant(inputBits, resultBits int, c stamp.Constant) (stamp.Constant, bool) {
	cv.checkWidths(inputBits, resultBits)
	ic := integerConstant(cv, c)
	sameWidth(cv, inputBits, ic.Bits())
	return convertConstant(cv.op, resultBits, ic), true
}

// FoldStamp converts s, a stamp of inputBits bits, to resultBits bits.
func (cv IntegerConvertOp) FoldStamp(inputBits, resultBits int, s stamp.Stamp) stamp.Stamp {
	cv.checkWidths(inputBits, resultBits)
	if _, ok := s.(stamp.IllegalStamp); ok {
		return s
	}
	is := integerOperand(cv, s)
	sameWidth(cv, inputBits, is.Bits())
	if is.IsEmpty() {
		return stamp.IntegerEmpty(resultBits)
	}
	return convertStamp(cv.op, resultBits, is)
}

// InvertStamp returns a stamp of inputBits bits containing every input
// that the conversion can map into s, a stamp of resultBits bits. It
// reports false for conversions that cannot be inverted.
func (cv IntegerConvertOp) InvertStamp(inputBits, resultBits int, s stamp.Stamp) (stamp.Stamp, bool) {
	cv.checkWidths(inputBits, resultBits)
	if cv.op == Narrow {
		return nil, false
	}
	is := integerOperand(cv, s)
	sameWidth(cv, resultBits, is.Bits())
	if is.IsEmpty() {
		return stamp.IntegerEmpty(inputBits), true
	}
	return invertStamp(cv.op, inputBits, is), true
}

func (cv IntegerConvertOp) checkWidths(inputBits, resultBits int) {
	if !codeutil.IsValidBits(inputBits) || !codeutil.IsValidBits(resultBits) {
		panic(fmt.Sprintf("%s: invalid widths %d and %d", cv, inputBits, resultBits))
	}
	if cv.op == Narrow && resultBits > inputBits || cv.op != Narrow && resultBits < inputBits {
		panic(fmt.Sprintf("%s: cannot convert %d bits to %d bits", cv, inputBits, resultBits))
	}
}

// FloatConvertOp describes conversions between integers and floats and
// between float widths. It belongs to the table of its input family.
type FloatConvertOp struct{ desc }

// Kinds returns the input and result kinds of the conversion. Integer
// inputs of I2F and I2D may also be narrower than 32 bits.
func (cv FloatConvertOp) Kinds() (from, to stamp.Kind) {
	return convertKinds(cv.op)
}

func (cv FloatConvertOp) FoldConstant(c stamp.Constant) (stamp.Constant, bool) {
	cv.checkInput(c.Kind())
	return floatConvertConstant(cv.op, c), true
}

func (cv FloatConvertOp) FoldStamp(s stamp.Stamp) stamp.Stamp {
	if _, ok := s.(stamp.IllegalStamp); ok {
		return s
	}
	cv.checkInput(s.Kind())
	_, to := cv.Kinds()
	if s.IsEmpty() {
		return stamp.EmptyForKind(to)
	}
	return floatConvertStamp(cv.op, s)
}

func (cv FloatConvertOp) checkInput(k stamp.Kind) {
	from, _ := cv.Kinds()
	if k == from || from == stamp.KindInt32 && k.IsInteger() && k.Bits() < 32 {
		return
	}
	panic(fmt.Sprintf("%s: invalid input kind %s", cv, k))
}

// Table holds the operations of one family, indexed by Op. Tables are
// built during package initialization and are safe for concurrent use.
type Table struct {
	family Family
	ops    [opEnd]Operation
}

func newTable(family Family, ops ...Operation) *Table {
	t := &Table{family: family}
	for _, op := range ops {
		if op.Family() != family {
			panic(fmt.Sprintf("%s in %s table", op, family))
		}
		if t.ops[op.Op()] != nil {
			panic(fmt.Sprintf("duplicate operation %s", op))
		}
		t.ops[op.Op()] = op
	}
	return t
}

func (t *Table) Family() Family { return t.family }

// Lookup returns the descriptor of op, if the family supports it.
func (t *Table) Lookup(op Op) (Operation, bool) {
	if op >= opEnd || t.ops[op] == nil {
		return nil, false
	}
	return t.ops[op], true
}

// Ops returns the descriptors of all supported operations.
func (t *Table) Ops() []Operation {
	var out []Operation
	for _, op := range t.ops {
		if op != nil {
			out = append(out, op)
		}
	}
	return out
}

func (t *Table) Unary(op Op) (UnaryOp, bool) {
	o, ok := t.Lookup(op)
	u, ok2 := o.(UnaryOp)
	return u, ok && ok2
}

func (t *Table) Binary(op Op) (BinaryOp, bool) {
	o, ok := t.Lookup(op)
	b, ok2 := o.(BinaryOp)
	return b, ok && ok2
}

func (t *Table) Shift(op Op) (ShiftOp, bool) {
	o, ok := t.Lookup(op)
	s, ok2 := o.(ShiftOp)
	return s, ok && ok2
}

func (t *Table) IntegerConvert(op Op) (IntegerConvertOp, bool) {
	o, ok := t.Lookup(op)
	c, ok2 := o.(IntegerConvertOp)
	return c, ok && ok2
}

func (t *Table) FloatConvert(op Op) (FloatConvertOp, bool) {
	o, ok := t.Lookup(op)
	c, ok2 := o.(FloatConvertOp)
	return c, ok && ok2
}

func (t *Table) String() string { return t.family.String() + " operations" }

func unary(f Family, op Op) UnaryOp { return UnaryOp{desc{op, f}} }

func binary(f Family, op Op, associative, commutative bool) BinaryOp {
	return BinaryOp{desc{op, f}, associative, commutative}
}

// IntegerOps contains the operations on integer stamps and constants,
// including the conversions from integers to floats.
var IntegerOps = newTable(Integer,
	unary(Integer, Neg),
	binary(Integer, Add, true, true),
	binary(Integer, Sub, false, false),
	binary(Integer, Mul, true, true),
	binary(Integer, MulHigh, false, true),
	binary(Integer, UMulHigh, false, true),
	binary(Integer, Div, false, false),
	binary(Integer, Rem, false, false),
	unary(Integer, Not),
	binary(Integer, And, true, true),
	binary(Integer, Or, true, true),
	binary(Integer, Xor, true, true),
	ShiftOp{desc{Shl, Integer}},
	ShiftOp{desc{Shr, Integer}},
	ShiftOp{desc{UShr, Integer}},
	unary(Integer, Abs),
	IntegerConvertOp{desc{ZeroExtend, Integer}},
	IntegerConvertOp{desc{SignExtend, Integer}},
	IntegerConvertOp{desc{Narrow, Integer}},
	binary(Integer, Max, true, true),
	binary(Integer, Min, true, true),
	binary(Integer, UMax, true, true),
	binary(Integer, UMin, true, true),
	FloatConvertOp{desc{I2F, Integer}},
	FloatConvertOp{desc{L2F, Integer}},
	FloatConvertOp{desc{I2D, Integer}},
	FloatConvertOp{desc{L2D, Integer}},
)

// FloatOps contains the operations on float stamps and constants,
// including the conversions from floats to integers and between float
// widths.
var FloatOps = newTable(Float,
	unary(Float, Neg),
	binary(Float, Add, false, true),
	binary(Float, Sub, false, false),
	binary(Float, Mul, false, true),
	binary(Float, Div, false, false),
	binary(Float, Rem, false, false),
	unary(Float, Not),
	binary(Float, And, true, true),
	binary(Float, Or, true, true),
	binary(Float, Xor, true, true),
	unary(Float, Abs),
	unary(Float, Sqrt),
	binary(Float, Max, true, true),
	binary(Float, Min, true, true),
	FloatConvertOp{desc{F2I, Float}},
	FloatConvertOp{desc{F2L, Float}},
	FloatConvertOp{desc{D2I, Float}},
	FloatConvertOp{desc{D2L, Float}},
	FloatConvertOp{desc{F2D, Float}},
	FloatConvertOp{desc{D2F, Float}},
)

// ForStamp returns the table for operands with the stamp s.
func ForStamp(s stamp.Stamp) (*Table, bool) {
	switch s.(type) {
	case stamp.IntegerStamp:
		return IntegerOps, true
	case stamp.FloatStamp:
		return FloatOps, true
	default:
		return nil, false
	}
}

// ForFamily returns the table of family f.
func ForFamily(f Family) *Table {
	switch f {
	case Integer:
		return IntegerOps
	case Float:
		return FloatOps
	default:
		panic(fmt.Sprintf("invalid family %d", f))
	}
}

func integerOperand(op Operation, s stamp.Stamp) stamp.IntegerStamp {
	is, ok := s.(stamp.IntegerStamp)
	if !ok {
		panic(fmt.Sprintf("%s: invalid operand %s", op, s))
	}
	return is
}

func floatOperand(op Operation, s stamp.Stamp) stamp.FloatStamp {
	fs, ok := s.(stamp.FloatStamp)
	if !ok {
		panic(fmt.Sprintf("%s: invalid operand %s", op, s))
	}
	return fs
}

func integerConstant(op Operation, c stamp.Constant) stamp.Constant {
	if !c.Kind().IsInteger() {
		panic(fmt.Sprintf("%s: invalid operand %s", op, c))
	}
	return c
}

func floatConstant(op Operation, c stamp.Constant) stamp.Constant {
	if !c.Kind().IsFloat() {
		panic(fmt.Sprintf("%s: invalid operand %s", op, c))
	}
	return c
}

func sameWidth(op Operation, a, b int) {
	if a != b {
		panic(fmt.Sprintf("%s: operand widths differ: %d and %d", op, a, b))
	}
}
