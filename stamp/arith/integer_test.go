package arith

import (
	"math"
	"math/big"
	"testing"

	"honnef.co/go/stamps/stamp"
	"honnef.co/go/stamps/stamp/codeutil"
)

// sampleStamps returns a deduplicated set of stamps of width n with a
// variety of ranges and masks. The large set is used for unary
// operations, the small one for binary operations.
func sampleStamps(n int, large bool) []stamp.IntegerStamp {
	var values []int64
	var masks []uint64
	switch {
	case n == 1:
		values, masks = []int64{-1, 0}, []uint64{0, 1}
	case large:
		values = []int64{-128, -127, -64, -9, -2, -1, 0, 1, 2, 7, 63, 126, 127}
		masks = []uint64{0x01, 0x0f, 0x55, 0x80, 0xf0, 0xfe}
	default:
		values = []int64{-128, -9, -1, 0, 1, 7, 127}
		masks = []uint64{0x0f, 0x81, 0xfe}
	}
	scale := int64(1)
	if n > 8 {
		// Keep the shape of the 8-bit samples but use the full width.
		scale = int64(1) << (n - 8)
	}
	seen := map[stamp.IntegerStamp]bool{}
	var out []stamp.IntegerStamp
	add := func(s stamp.IntegerStamp) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	add(stamp.IntegerEmpty(n))
	add(stamp.IntegerUnrestricted(n))
	for _, lo := range values {
		for _, hi := range values {
			if lo > hi {
				continue
			}
			l, h := lo*scale, hi*scale+scale-1
			if n == 1 || scale == 1 {
				h = hi
			}
			add(stamp.ForInteger(n, l, h))
			for _, m := range masks {
				if n > 8 {
					m = m<<(n-8) | m
				}
				add(stamp.StampForMask(n, 0, m))
				add(stamp.ForIntegerWithMask(n, l, h, 0, m))
				add(stamp.ForIntegerWithMask(n, l, h, m&0x11, m))
			}
		}
	}
	return out
}

// someMembers returns the bounds of s and an even spread of its other
// members. Stamps wider than 8 bits are sampled at interesting values.
func someMembers(s stamp.IntegerStamp) []int64 {
	if s.IsEmpty() {
		return nil
	}
	n := s.Bits()
	var all []int64
	if n <= 8 {
		for v := codeutil.MinValue(n); v <= codeutil.MaxValue(n); v++ {
			if s.Contains(v) {
				all = append(all, v)
			}
		}
	} else {
		cands := []int64{s.LowerBound(), s.UpperBound(), 0, 1, -1, 2, -2, 255, 256, -256, 300, -300, 1 << (n - 2)}
		for _, v := range cands {
			for _, d := range []int64{0, 1, -1} {
				if s.Contains(v + d) {
					all = append(all, v+d)
				}
			}
		}
		return all
	}
	if len(all) <= 12 {
		return all
	}
	out := []int64{all[0], all[len(all)-1]}
	step := len(all) / 10
	for i := step; i < len(all)-1; i += step {
		out = append(out, all[i])
	}
	return out
}

func contains(s stamp.Stamp, c stamp.Constant) bool {
	switch s := s.(type) {
	case stamp.IntegerStamp:
		return s.Contains(c.Int64())
	case stamp.FloatStamp:
		return s.Contains(c.Float64())
	default:
		return false
	}
}

func TestIntegerUnarySoundness(t *testing.T) {
	for _, op := range []Op{Neg, Not, Abs} {
		u, ok := IntegerOps.Unary(op)
		if !ok {
			t.Fatalf("integer table lacks %s", op)
		}
		for _, n := range []int{1, 8} {
			for _, s := range sampleStamps(n, true) {
				r := u.FoldStamp(s)
				if r.Kind() != s.Kind() {
					t.Fatalf("%s(%v) = %v, wrong kind", op, s, r)
				}
				for _, v := range someMembers(s) {
					c, _ := u.FoldConstant(stamp.Int(n, v))
					if !contains(r, c) {
						t.Errorf("%s(%v) = %v, does not contain %s(%d) = %v", op, s, r, op, v, c)
					}
				}
				if s.IsEmpty() && !r.IsEmpty() {
					t.Errorf("%s(%v) = %v, want empty", op, s, r)
				}
			}
		}
	}
}

func TestIntegerBinarySoundness(t *testing.T) {
	for _, op := range []Op{Add, Sub, Mul, MulHigh, UMulHigh, Div, Rem, And, Or, Xor, Max, Min, UMax, UMin} {
		b, ok := IntegerOps.Binary(op)
		if !ok {
			t.Fatalf("integer table lacks %s", op)
		}
		for _, n := range []int{1, 8} {
			stamps := sampleStamps(n, false)
			for _, x := range stamps {
				for _, y := range stamps {
					r := b.FoldStamp(x, y)
					if (x.IsEmpty() || y.IsEmpty()) && !r.IsEmpty() {
						t.Errorf("%s(%v, %v) = %v, want empty", op, x, y, r)
					}
					for _, v := range someMembers(x) {
						for _, w := range someMembers(y) {
							c, ok := b.FoldConstant(stamp.Int(n, v), stamp.Int(n, w))
							if !ok {
								continue
							}
							if !contains(r, c) {
								t.Fatalf("%s(%v, %v) = %v, does not contain %s(%d, %d) = %v", op, x, y, r, op, v, w, c)
							}
						}
					}
				}
			}
		}
	}
}

func TestShiftSoundness(t *testing.T) {
	var amounts []stamp.IntegerStamp
	for _, r := range [][2]int64{{0, 0}, {1, 1}, {3, 3}, {7, 7}, {8, 8}, {9, 9}, {-1, -1}, {0, 7}, {1, 3}, {6, 9}, {-3, 3}, {8, 15}, {0, 100}} {
		amounts = append(amounts, stamp.ForInteger(32, r[0], r[1]))
	}
	amounts = append(amounts, stamp.ForIntegerWithMask(32, 0, 15, 1, 0xd), stamp.IntegerUnrestricted(32))

	for _, op := range []Op{Shl, Shr, UShr} {
		sh, ok := IntegerOps.Shift(op)
		if !ok {
			t.Fatalf("integer table lacks %s", op)
		}
		for _, x := range sampleStamps(8, true) {
			for _, a := range amounts {
				r := sh.FoldStamp(x, a)
				for _, v := range someMembers(x) {
					for i := a.LowerBound(); i <= a.UpperBound() && i < a.LowerBound()+64; i++ {
						if !a.Contains(i) {
							continue
						}
						c, _ := sh.FoldConstant(stamp.Int8(int8(v)), stamp.Int32(int32(i)))
						if !contains(r, c) {
							t.Fatalf("%s(%v, %v) = %v, does not contain %s(%d, %d) = %v", op, x, a, r, op, v, i, c)
						}
					}
				}
			}
		}
	}
}

func TestShiftConstant(t *testing.T) {
	tt := []struct {
		op   Op
		v, a stamp.Constant
		want stamp.Constant
	}{
		{Shl, stamp.Int8(1), stamp.Int32(7), stamp.Int8(-128)},
		{Shl, stamp.Int8(1), stamp.Int32(8), stamp.Int8(1)},
		{Shl, stamp.Int32(3), stamp.Int32(33), stamp.Int32(6)},
		{Shr, stamp.Int8(-128), stamp.Int32(7), stamp.Int8(-1)},
		{UShr, stamp.Int8(-128), stamp.Int32(7), stamp.Int8(1)},
		{UShr, stamp.Int16(-1), stamp.Int32(4), stamp.Int16(0x0fff)},
		{UShr, stamp.Int64(-1), stamp.Int32(63), stamp.Int64(1)},
		{Shr, stamp.Int64(-1), stamp.Int64(-1), stamp.Int64(-1)},
	}
	for _, tc := range tt {
		sh, _ := IntegerOps.Shift(tc.op)
		if got, _ := sh.FoldConstant(tc.v, tc.a); got != tc.want {
			t.Errorf("%s(%v, %v) = %v, want %v", tc.op, tc.v, tc.a, got, tc.want)
		}
	}
}

func TestIntegerConvertSoundness(t *testing.T) {
	tt := []struct {
		op     Op
		in, out int
	}{
		{ZeroExtend, 8, 16},
		{ZeroExtend, 8, 64},
		{ZeroExtend, 1, 8},
		{SignExtend, 8, 32},
		{SignExtend, 1, 8},
		{SignExtend, 8, 8},
		{Narrow, 16, 8},
		{Narrow, 32, 8},
		{Narrow, 8, 1},
	}
	for _, tc := range tt {
		cv, ok := IntegerOps.IntegerConvert(tc.op)
		if !ok {
			t.Fatalf("integer table lacks %s", tc.op)
		}
		for _, s := range sampleStamps(tc.in, true) {
			r := cv.FoldStamp(tc.in, tc.out, s)
			if r.Kind() != stamp.IntegerKind(tc.out) {
				t.Fatalf("%s(%v) = %v, want %d bits", tc.op, s, r, tc.out)
			}
			for _, v := range someMembers(s) {
				c, _ := cv.FoldConstant(tc.in, tc.out, stamp.Int(tc.in, v))
				if !contains(r, c) {
					t.Errorf("%s %d→%d (%v) = %v, does not contain %v", tc.op, tc.in, tc.out, s, r, c)
				}
			}
		}
	}
}

func TestInvertStamp(t *testing.T) {
	for _, op := range []Op{ZeroExtend, SignExtend} {
		cv, _ := IntegerOps.IntegerConvert(op)
		outs := sampleStamps(16, true)
		outs = append(outs,
			stamp.ForInteger(16, -8, 16),
			stamp.ForIntegerWithMask(16, -32768, 32767, 0x0080, 0xffff),
			stamp.StampForMask(16, 0x0100, 0xffff),
			stamp.StampForMask(16, 0x0000, 0x7f7f),
		)
		for _, out := range outs {
			inv, ok := cv.InvertStamp(8, 16, out)
			if !ok {
				t.Fatalf("%s cannot be inverted", op)
			}
			is := inv.(stamp.IntegerStamp)
			if is.Bits() != 8 {
				t.Fatalf("invert %s(%v) = %v, want 8 bits", op, out, inv)
			}
			for v := int64(-128); v <= 127; v++ {
				c, _ := cv.FoldConstant(8, 16, stamp.Int8(int8(v)))
				if out.Contains(c.Int64()) && !is.Contains(v) {
					t.Errorf("invert %s(%v) = %v, does not contain %d", op, out, inv, v)
				}
			}
		}
	}
	if _, ok := IntegerOps.IntegerConvert(Narrow); !ok {
		t.Fatal("integer table lacks Narrow")
	}
	cv, _ := IntegerOps.IntegerConvert(Narrow)
	if _, ok := cv.InvertStamp(16, 8, stamp.IntegerUnrestricted(8)); ok {
		t.Errorf("Narrow can be inverted")
	}
}

func TestIntegerFoldStamp(t *testing.T) {
	i8 := func(lo, hi int64) stamp.IntegerStamp { return stamp.ForInteger(8, lo, hi) }
	i32 := func(lo, hi int64) stamp.IntegerStamp { return stamp.ForInteger(32, lo, hi) }
	tt := []struct {
		op     Op
		a, b   stamp.IntegerStamp
		lo, hi int64
	}{
		{Div, i32(0, 0), i32(-1, 1), math.MinInt32, math.MaxInt32},
		{Div, i32(-10, 20), i32(2, 5), -5, 10},
		{Div, i32(-20, -10), i32(2, 5), -10, -2},
		{Div, i32(7, 7), i32(2, 2), 3, 3},
		{Rem, i32(-10, 20), i32(3, 5), -4, 4},
		{Rem, i32(0, 20), i32(0, 0), math.MinInt32, math.MaxInt32},
		{Rem, i32(5, 9), i32(math.MinInt32, -1), 0, 9},
		{Add, i8(100, 120), i8(10, 10), -128, 127},
		{Add, i8(100, 120), i8(100, 100), -56, -36},
		{Add, i8(0, 3), i8(4, 4), 4, 7},
		{Sub, i8(0, 3), i8(1, 1), -1, 2},
		{Mul, i8(-3, 2), i8(4, 5), -15, 10},
		{Mul, i8(0, 0), stamp.IntegerUnrestricted(8), 0, 0},
		{Mul, i8(20, 30), i8(5, 6), -128, 127},
		{And, stamp.StampForMask(8, 0, 0x0f), stamp.IntegerUnrestricted(8), 0, 15},
		{Or, i8(1, 1), i8(2, 2), 3, 3},
		{Max, i8(-5, 3), i8(0, 10), 0, 10},
		{Min, i8(-5, 3), i8(0, 10), -5, 3},
		{UMax, i8(1, 2), i8(-2, -1), -2, -1},
		{UMin, i8(1, 2), i8(-2, -1), 1, 2},
	}
	for _, tc := range tt {
		b, _ := IntegerOps.Binary(tc.op)
		got := b.FoldStamp(tc.a, tc.b).(stamp.IntegerStamp)
		if got.LowerBound() != tc.lo || got.UpperBound() != tc.hi {
			t.Errorf("%s(%v, %v) = %v, want range [%d - %d]", tc.op, tc.a, tc.b, got, tc.lo, tc.hi)
		}
	}
}

func TestEdgeCases(t *testing.T) {
	abs, _ := IntegerOps.Unary(Abs)
	if got := abs.FoldStamp(stamp.ForInteger(8, -128, -128)); !got.Equal(stamp.IntegerUnrestricted(8)) {
		t.Errorf("Abs(i8 [-128]) = %v, want unrestricted", got)
	}
	if got := abs.FoldStamp(stamp.ForInteger(8, -5, -5)); !got.Equal(stamp.ForInteger(8, 5, 5)) {
		t.Errorf("Abs(i8 [-5]) = %v, want i8 [5]", got)
	}
	if got, _ := abs.FoldConstant(stamp.Int8(-128)); got != stamp.Int8(-128) {
		t.Errorf("Abs(-128) = %v, want -128", got)
	}

	div, _ := IntegerOps.Binary(Div)
	if _, ok := div.FoldConstant(stamp.Int32(1), stamp.Int32(0)); ok {
		t.Errorf("Div(1, 0) produced a value")
	}
	if got, _ := div.FoldConstant(stamp.Int32(math.MinInt32), stamp.Int32(-1)); got != stamp.Int32(math.MinInt32) {
		t.Errorf("Div(MinInt32, -1) = %v, want MinInt32", got)
	}
	if got, _ := div.FoldConstant(stamp.Int64(math.MinInt64), stamp.Int64(-1)); got != stamp.Int64(math.MinInt64) {
		t.Errorf("Div(MinInt64, -1) = %v, want MinInt64", got)
	}
	if got := div.FoldStamp(stamp.ForInteger(32, 0, 0), stamp.ForInteger(32, -1, 1)); !got.Equal(stamp.IntegerUnrestricted(32)) {
		t.Errorf("Div(i32 [0], i32 [-1 - 1]) = %v, want unrestricted", got)
	}

	rem, _ := IntegerOps.Binary(Rem)
	if got, _ := rem.FoldConstant(stamp.Int32(-7), stamp.Int32(2)); got != stamp.Int32(-1) {
		t.Errorf("Rem(-7, 2) = %v, want -1", got)
	}

	d2i, _ := FloatOps.FloatConvert(D2I)
	if got := d2i.FoldStamp(stamp.ForFloat(64, 1, 1, true)); !got.Equal(stamp.ForInteger(32, 1, 1)) {
		t.Errorf("D2I(f64! [1.0]) = %v, want i32 [1]", got)
	}
	f2i, _ := FloatOps.FloatConvert(F2I)
	if got := f2i.FoldStamp(stamp.ForFloat(32, 2, 3, false)); !got.Equal(stamp.ForInteger(32, 0, 3)) {
		t.Errorf("F2I(f32 [2.0 - 3.0]) = %v, want i32 [0 - 3]", got)
	}

	neg, _ := IntegerOps.Unary(Neg)
	if got := neg.FoldStamp(stamp.ForInteger(8, -128, 5)); !got.Equal(stamp.IntegerUnrestricted(8)) {
		t.Errorf("Neg(i8 [-128 - 5]) = %v, want unrestricted", got)
	}
	if got := neg.FoldStamp(stamp.ForInteger(8, -128, -128)); !got.Equal(stamp.ForInteger(8, -128, -128)) {
		t.Errorf("Neg(i8 [-128]) = %v, want i8 [-128]", got)
	}
}

func TestIsNeutral(t *testing.T) {
	tt := []struct {
		op   Op
		c    stamp.Constant
		want bool
	}{
		{Add, stamp.Int32(0), true},
		{Add, stamp.Int32(1), false},
		{Sub, stamp.Int32(0), true},
		{Mul, stamp.Int32(1), true},
		{Mul, stamp.Int32(0), false},
		{Div, stamp.Int32(1), true},
		{Rem, stamp.Int32(1), false},
		{And, stamp.Int8(-1), true},
		{And, stamp.Int8(0x7f), false},
		{Or, stamp.Int8(0), true},
		{Xor, stamp.Int8(0), true},
		{Max, stamp.Int8(-128), true},
		{Min, stamp.Int8(127), true},
		{UMax, stamp.Int8(0), true},
		{UMin, stamp.Int8(-1), true},
		{UMin, stamp.Int8(127), false},
		{MulHigh, stamp.Int32(1), false},
	}
	for _, tc := range tt {
		b, _ := IntegerOps.Binary(tc.op)
		if got := b.IsNeutral(tc.c); got != tc.want {
			t.Errorf("%s.IsNeutral(%v) = %t, want %t", tc.op, tc.c, got, tc.want)
		}
	}

	// A neutral constant leaves every value unchanged.
	for _, op := range []Op{Add, Sub, Mul, Div, And, Or, Xor, Max, Min, UMax, UMin} {
		b, _ := IntegerOps.Binary(op)
		for c := int64(-128); c <= 127; c++ {
			if !b.IsNeutral(stamp.Int8(int8(c))) {
				continue
			}
			for v := int64(-128); v <= 127; v++ {
				got, _ := b.FoldConstant(stamp.Int8(int8(v)), stamp.Int8(int8(c)))
				if got != stamp.Int8(int8(v)) {
					t.Errorf("%s(%d, %d) = %v, but %d is neutral", op, v, c, got, c)
				}
			}
		}
	}
}

func TestZero(t *testing.T) {
	for _, op := range []Op{Sub, Xor} {
		b, _ := IntegerOps.Binary(op)
		got, ok := b.Zero(stamp.ForInteger(16, 3, 9))
		if !ok || got != stamp.Int16(0) {
			t.Errorf("%s.Zero(i16) = %v, %t, want i16:0", op, got, ok)
		}
	}
	add, _ := IntegerOps.Binary(Add)
	if _, ok := add.Zero(stamp.IntegerUnrestricted(32)); ok {
		t.Errorf("Add has a zero")
	}
	fsub, _ := FloatOps.Binary(Sub)
	if _, ok := fsub.Zero(stamp.FloatUnrestricted(64)); ok {
		t.Errorf("float Sub has a zero")
	}
}

func TestTables(t *testing.T) {
	intOps := []Op{Neg, Add, Sub, Mul, MulHigh, UMulHigh, Div, Rem, Not, And, Or, Xor, Shl, Shr, UShr, Abs,
		ZeroExtend, SignExtend, Narrow, Max, Min, UMax, UMin, I2F, L2F, I2D, L2D}
	floatOps := []Op{Neg, Add, Sub, Mul, Div, Rem, Not, And, Or, Xor, Abs, Sqrt, Max, Min, F2I, F2L, D2I, D2L, F2D, D2F}
	check := func(tab *Table, want []Op) {
		t.Helper()
		in := map[Op]bool{}
		for _, op := range want {
			in[op] = true
		}
		for _, op := range Ops() {
			o, ok := tab.Lookup(op)
			if ok != in[op] {
				t.Errorf("%s.Lookup(%s) = %t, want %t", tab, op, ok, in[op])
				continue
			}
			if ok && (o.Op() != op || o.Family() != tab.Family()) {
				t.Errorf("%s.Lookup(%s) = %v", tab, op, o)
			}
		}
		if got := len(tab.Ops()); got != len(want) {
			t.Errorf("%s has %d operations, want %d", tab, got, len(want))
		}
	}
	check(IntegerOps, intOps)
	check(FloatOps, floatOps)

	if _, ok := IntegerOps.Binary(Neg); ok {
		t.Errorf("Neg is a binary operation")
	}
	if _, ok := FloatOps.Shift(Shl); ok {
		t.Errorf("float table has Shl")
	}
	if tab, ok := ForStamp(stamp.ForInteger(8, 0, 1)); !ok || tab != IntegerOps {
		t.Errorf("ForStamp(i8) = %v, %t", tab, ok)
	}
	if tab, ok := ForStamp(stamp.FloatUnrestricted(32)); !ok || tab != FloatOps {
		t.Errorf("ForStamp(f32) = %v, %t", tab, ok)
	}
	if _, ok := ForStamp(stamp.VoidStamp{}); ok {
		t.Errorf("ForStamp(void) succeeded")
	}
	for _, op := range Ops() {
		if got, ok := ParseOp(op.String()); !ok || got != op {
			t.Errorf("ParseOp(%q) = %v, %t", op.String(), got, ok)
		}
	}

	flags := map[Op][2]bool{
		Add: {true, true}, Sub: {false, false}, Mul: {true, true}, MulHigh: {false, true}, UMulHigh: {false, true},
		Div: {false, false}, Rem: {false, false}, And: {true, true}, Or: {true, true}, Xor: {true, true},
		Max: {true, true}, Min: {true, true}, UMax: {true, true}, UMin: {true, true},
	}
	for op, want := range flags {
		b, _ := IntegerOps.Binary(op)
		if b.IsAssociative() != want[0] || b.IsCommutative() != want[1] {
			t.Errorf("%s: associative %t, commutative %t, want %t, %t", op, b.IsAssociative(), b.IsCommutative(), want[0], want[1])
		}
	}
}

func TestOperandChecks(t *testing.T) {
	add, _ := IntegerOps.Binary(Add)
	fadd, _ := FloatOps.Binary(Add)
	ext, _ := IntegerOps.IntegerConvert(SignExtend)
	i2f, _ := IntegerOps.FloatConvert(I2F)
	panics := []func(){
		func() { add.FoldStamp(stamp.IntegerUnrestricted(8), stamp.IntegerUnrestricted(16)) },
		func() { add.FoldStamp(stamp.IntegerUnrestricted(8), stamp.FloatUnrestricted(32)) },
		func() { add.FoldConstant(stamp.Int8(1), stamp.Int16(1)) },
		func() { fadd.FoldConstant(stamp.Int32(1), stamp.Int32(1)) },
		func() { ext.FoldStamp(16, 8, stamp.IntegerUnrestricted(16)) },
		func() { ext.FoldStamp(8, 16, stamp.IntegerUnrestricted(16)) },
		func() { i2f.FoldStamp(stamp.IntegerUnrestricted(64)) },
	}
	for i, fn := range panics {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("case %d did not panic", i)
				}
			}()
			fn()
		}()
	}

	if got := add.FoldStamp(stamp.IllegalStamp{}, stamp.IntegerUnrestricted(8)); !got.Equal(stamp.IllegalStamp{}) {
		t.Errorf("Add(illegal, i8) = %v, want illegal", got)
	}
	if got := add.FoldStamp(stamp.ForInteger(8, 0, 1), stamp.IntegerEmpty(8)); !got.IsEmpty() {
		t.Errorf("Add(i8 [0 - 1], empty) = %v, want empty", got)
	}
}

func bigMulHigh(x, y int64, n int, unsigned bool) int64 {
	bx, by := big.NewInt(x), big.NewInt(y)
	if unsigned {
		bx.SetUint64(uint64(codeutil.ZeroExtend(x, n)))
		by.SetUint64(uint64(codeutil.ZeroExtend(y, n)))
	}
	p := new(big.Int).Mul(bx, by)
	p.Rsh(p, uint(n))
	// Truncate to n bits, then sign-extend.
	m := new(big.Int).Lsh(big.NewInt(1), uint(n))
	p.Mod(p, m)
	return codeutil.SignExtend(int64(p.Uint64()), n)
}

func TestMulHigh(t *testing.T) {
	values := []int64{math.MinInt64, math.MinInt64 + 1, -1 << 40, -3, -1, 0, 1, 2, 1 << 33, math.MaxInt64 - 1, math.MaxInt64}
	for _, n := range []int{8, 16, 32, 64} {
		for _, x := range values {
			for _, y := range values {
				x, y := codeutil.Narrow(x, n), codeutil.Narrow(y, n)
				if got, want := mulHigh(x, y, n), bigMulHigh(x, y, n, false); got != want {
					t.Errorf("mulHigh(%d, %d, %d) = %d, want %d", x, y, n, got, want)
				}
				if got, want := umulHigh(x, y, n), bigMulHigh(x, y, n, true); got != want {
					t.Errorf("umulHigh(%d, %d, %d) = %d, want %d", x, y, n, got, want)
				}
			}
		}
	}
}

// fuzzStamp returns a stamp of width n containing v, shaped by the other
// arguments.
func fuzzStamp(n int, v, other int64, down, up uint64) stamp.IntegerStamp {
	mask := codeutil.Mask(n)
	r := stamp.ForInteger(n, min(v, other), max(v, other))
	m := stamp.StampForMask(n, uint64(v)&down&mask, (uint64(v)|up)&mask)
	return r.JoinInteger(m)
}

func FuzzIntegerBinary(f *testing.F) {
	f.Add(uint8(0), uint8(4), int64(5), int64(-3), int64(100), int64(7), uint64(0xf0), uint64(0x0f))
	f.Add(uint8(3), uint8(3), int64(math.MinInt64), int64(-1), int64(0), int64(math.MaxInt64), uint64(0), uint64(0))
	f.Add(uint8(6), uint8(2), int64(-100), int64(3), int64(-7), int64(9), uint64(1), uint64(0xff00))
	ops := []Op{Add, Sub, Mul, MulHigh, UMulHigh, Div, Rem, And, Or, Xor, Max, Min, UMax, UMin}
	widths := []int{1, 8, 16, 32, 64}
	f.Fuzz(func(t *testing.T, opIdx, widthIdx uint8, x, y, xo, yo int64, down, up uint64) {
		op := ops[int(opIdx)%len(ops)]
		n := widths[int(widthIdx)%len(widths)]
		x, y = codeutil.Narrow(x, n), codeutil.Narrow(y, n)
		xo, yo = codeutil.Narrow(xo, n), codeutil.Narrow(yo, n)
		a := fuzzStamp(n, x, xo, down, up)
		b := fuzzStamp(n, y, yo, up, down)
		if !a.Contains(x) || !b.Contains(y) {
			t.Fatalf("fuzzStamp lost its value: %v ∌ %d or %v ∌ %d", a, x, b, y)
		}
		bin, _ := IntegerOps.Binary(op)
		c, ok := bin.FoldConstant(stamp.Int(n, x), stamp.Int(n, y))
		if !ok {
			return
		}
		if r := bin.FoldStamp(a, b); !contains(r, c) {
			t.Fatalf("%s(%v, %v) = %v, does not contain %s(%d, %d) = %v", op, a, b, r, op, x, y, c)
		}
	})
}

func FuzzShift(f *testing.F) {
	f.Add(uint8(0), uint8(3), int64(5), int64(-3), int64(2), int64(7))
	f.Add(uint8(1), uint8(4), int64(math.MinInt64), int64(-1), int64(63), int64(60))
	f.Add(uint8(2), uint8(2), int64(-100), int64(3), int64(40), int64(33))
	ops := []Op{Shl, Shr, UShr}
	widths := []int{1, 8, 16, 32, 64}
	f.Fuzz(func(t *testing.T, opIdx, widthIdx uint8, x, xo, s, so int64) {
		op := ops[int(opIdx)%len(ops)]
		n := widths[int(widthIdx)%len(widths)]
		x, xo = codeutil.Narrow(x, n), codeutil.Narrow(xo, n)
		s, so = codeutil.Narrow(s, 32), codeutil.Narrow(so, 32)
		a := stamp.ForInteger(n, min(x, xo), max(x, xo))
		amount := stamp.ForInteger(32, min(s, so), max(s, so))
		sh, _ := IntegerOps.Shift(op)
		c, _ := sh.FoldConstant(stamp.Int(n, x), stamp.Int32(int32(s)))
		if r := sh.FoldStamp(a, amount); !contains(r, c) {
			t.Fatalf("%s(%v, %v) = %v, does not contain %s(%d, %d) = %v", op, a, amount, r, op, x, s, c)
		}
	})
}
