package stamps

import (
	"go/constant"
	"go/token"

	"honnef.co/go/stamps/analysis/dfa"
	"honnef.co/go/stamps/go/types/typeutil"
	"honnef.co/go/stamps/stamp"
	"honnef.co/go/stamps/stamp/arith"
	"honnef.co/go/stamps/stamp/codeutil"

	"golang.org/x/tools/go/ssa"
)

var binaryOps = map[token.Token]arith.Op{
	token.ADD: arith.Add,
	token.SUB: arith.Sub,
	token.MUL: arith.Mul,
	token.AND: arith.And,
	token.OR:  arith.Or,
	token.XOR: arith.Xor,
}

func isComparison(op token.Token) bool {
	switch op {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return true
	default:
		return false
	}
}

func (a *analyzer) transfer(ins *dfa.Instance[State], instr ssa.Instruction) []dfa.Mapping[State] {
	v, ok := instr.(ssa.Value)
	if !ok {
		return nil
	}
	t, ok := a.integer(v.Type())
	if !ok {
		return dfa.Ms(dfa.M(v, Top, dfa.Decision{Description: "values of this type aren't tracked", Source: true}))
	}
	s, d, ok := a.stampOf(ins, v, t)
	if !ok {
		// an operand hasn't been reached yet
		return nil
	}
	// Stamp folding isn't monotonic in the order of the analysis, so the
	// new stamp is merged into the value's current one.
	if old := ins.Value(v); old.IsTracked() {
		s = old.Stamp.MeetInteger(s)
	}
	return dfa.Ms(dfa.M(v, Of(s), d))
}

func unrestricted(t typeutil.Integer, desc string) (stamp.IntegerStamp, dfa.Decision, bool) {
	return stamp.IntegerUnrestricted(t.Bits), dfa.Decision{Description: desc, Source: true}, true
}

func (a *analyzer) stampOf(ins *dfa.Instance[State], v ssa.Value, t typeutil.Integer) (stamp.IntegerStamp, dfa.Decision, bool) {
	switch v := v.(type) {
	case *ssa.BinOp:
		return a.binOp(ins, v, t)
	case *ssa.UnOp:
		return a.unOp(ins, v, t)
	case *ssa.Convert:
		return a.convert(ins, v, t)
	case *ssa.ChangeType:
		x := a.operand(ins, v.X)
		switch {
		case x.kind == bottom:
			return stamp.IntegerStamp{}, dfa.Decision{}, false
		case x.IsTracked() && x.Stamp.Bits() == t.Bits:
			return x.Stamp, dfa.Decision{Inputs: []ssa.Value{v.X}, Description: "the type change keeps the value"}, true
		}
		return unrestricted(t, "the type change's operand isn't tracked")
	case *ssa.Call:
		return a.call(v, t)
	case *ssa.Extract:
		call, ok := v.Tuple.(*ssa.Call)
		if !ok {
			return unrestricted(t, "nothing is known about this value")
		}
		return a.callResult(call, v.Index, t)
	default:
		return unrestricted(t, "nothing is known about this value")
	}
}

// operand returns the state of v as an operand of an instruction in the
// function analyzed by ins.
func (a *analyzer) operand(ins *dfa.Instance[State], v ssa.Value) State {
	if c, ok := v.(*ssa.Const); ok {
		return a.constant(c)
	}
	if _, ok := v.(ssa.Instruction); ok {
		if ins == nil {
			return Top
		}
		return ins.Value(v)
	}
	// parameters, free variables, globals and functions
	return a.unknown(v.Type())
}

func (a *analyzer) constant(c *ssa.Const) State {
	t, ok := a.integer(c.Type())
	if !ok {
		return Top
	}
	return a.constantOf(c, t)
}

func (a *analyzer) constantOf(c *ssa.Const, t typeutil.Integer) State {
	if c.Value == nil {
		return Of(stamp.IntegerUnrestricted(t.Bits))
	}
	var v int64
	switch c.Value.Kind() {
	case constant.Bool:
		if constant.BoolVal(c.Value) {
			v = -1
		}
	case constant.Int:
		if n, exact := constant.Int64Val(c.Value); exact {
			v = n
		} else if n, exact := constant.Uint64Val(c.Value); exact {
			v = int64(n)
		} else {
			return Of(stamp.IntegerUnrestricted(t.Bits))
		}
	default:
		return Of(stamp.IntegerUnrestricted(t.Bits))
	}
	v = stamp.Int(t.Bits, v).Int64()
	return Of(stamp.ForInteger(t.Bits, v, v))
}

func mustIntegerStamp(s stamp.Stamp) stamp.IntegerStamp {
	return s.(stamp.IntegerStamp)
}

func (a *analyzer) binOp(ins *dfa.Instance[State], v *ssa.BinOp, t typeutil.Integer) (stamp.IntegerStamp, dfa.Decision, bool) {
	x, y := a.operand(ins, v.X), a.operand(ins, v.Y)
	if c, ok := v.Y.(*ssa.Const); ok && !y.IsTracked() && (v.Op == token.SHL || v.Op == token.SHR) {
		// Constant shift amounts are known even when unsigned values
		// aren't tracked.
		if yt, ok := typeutil.IntegerOf(c.Type(), a.opts.Sizes); ok {
			y = a.constantOf(c, yt)
		}
	}
	if x.kind == bottom || y.kind == bottom {
		return stamp.IntegerStamp{}, dfa.Decision{}, false
	}
	if !x.IsTracked() || !y.IsTracked() {
		return unrestricted(t, "an operand isn't tracked")
	}
	d := dfa.Decision{Inputs: []ssa.Value{v.X, v.Y}, Description: "the operation's result is derived from its operands"}

	if isComparison(v.Op) {
		xt, _ := a.integer(v.X.Type())
		return comparisonStamp(Compare(v.Op, x.Stamp, y.Stamp, xt.Unsigned)), d, true
	}

	if op, ok := binaryOps[v.Op]; ok {
		b, _ := arith.IntegerOps.Binary(op)
		return mustIntegerStamp(b.FoldStamp(x.Stamp, y.Stamp)), d, true
	}

	switch v.Op {
	case token.AND_NOT:
		not, _ := arith.IntegerOps.Unary(arith.Not)
		and, _ := arith.IntegerOps.Binary(arith.And)
		return mustIntegerStamp(and.FoldStamp(x.Stamp, not.FoldStamp(y.Stamp))), d, true
	case token.QUO, token.REM:
		if t.Unsigned {
			return unrestricted(t, "unsigned division isn't modelled")
		}
		op := arith.Div
		if v.Op == token.REM {
			op = arith.Rem
		}
		b, _ := arith.IntegerOps.Binary(op)
		return mustIntegerStamp(b.FoldStamp(x.Stamp, y.Stamp)), d, true
	case token.SHL, token.SHR:
		// Go shifts by amounts of at least the width produce 0 or -1,
		// which the masked shifts of the stamp domain don't model.
		if y.Stamp.LowerBound() < 0 || y.Stamp.UpperBound() > int64(t.Bits-1) {
			return unrestricted(t, "the shift amount may reach the operand's width")
		}
		op := arith.Shl
		if v.Op == token.SHR {
			op = arith.Shr
			if t.Unsigned {
				op = arith.UShr
			}
		}
		sh, _ := arith.IntegerOps.Shift(op)
		return mustIntegerStamp(sh.FoldStamp(x.Stamp, y.Stamp)), d, true
	default:
		return unrestricted(t, "the operation isn't modelled")
	}
}

func (a *analyzer) unOp(ins *dfa.Instance[State], v *ssa.UnOp, t typeutil.Integer) (stamp.IntegerStamp, dfa.Decision, bool) {
	var op arith.Op
	switch v.Op {
	case token.SUB:
		op = arith.Neg
	case token.XOR, token.NOT:
		op = arith.Not
	default:
		return unrestricted(t, "nothing is known about loaded values")
	}
	x := a.operand(ins, v.X)
	switch {
	case x.kind == bottom:
		return stamp.IntegerStamp{}, dfa.Decision{}, false
	case !x.IsTracked():
		return unrestricted(t, "the operand isn't tracked")
	}
	u, _ := arith.IntegerOps.Unary(op)
	return mustIntegerStamp(u.FoldStamp(x.Stamp)), dfa.Decision{Inputs: []ssa.Value{v.X}, Description: "the operation's result is derived from its operand"}, true
}

func (a *analyzer) convert(ins *dfa.Instance[State], v *ssa.Convert, t typeutil.Integer) (stamp.IntegerStamp, dfa.Decision, bool) {
	from, ok := a.integer(v.X.Type())
	if !ok {
		return unrestricted(t, "the conversion's operand isn't tracked")
	}
	x := a.operand(ins, v.X)
	switch {
	case x.kind == bottom:
		return stamp.IntegerStamp{}, dfa.Decision{}, false
	case !x.IsTracked():
		return unrestricted(t, "the conversion's operand isn't tracked")
	}
	var op arith.Op
	switch {
	case from.Bits > t.Bits:
		op = arith.Narrow
	case from.Unsigned:
		op = arith.ZeroExtend
	default:
		op = arith.SignExtend
	}
	cv, _ := arith.IntegerOps.IntegerConvert(op)
	d := dfa.Decision{Inputs: []ssa.Value{v.X}, Description: "the conversion's result is derived from its operand"}
	return mustIntegerStamp(cv.FoldStamp(from.Bits, t.Bits, x.Stamp)), d, true
}

func (a *analyzer) call(v *ssa.Call, t typeutil.Integer) (stamp.IntegerStamp, dfa.Decision, bool) {
	if b, ok := v.Call.Value.(*ssa.Builtin); ok {
		switch b.Name() {
		case "len", "cap":
			return stamp.ForInteger(t.Bits, 0, codeutil.MaxValue(t.Bits)), dfa.Decision{Description: "lengths aren't negative", Source: true}, true
		}
	}
	return a.callResult(v, 0, t)
}

func (a *analyzer) callResult(v *ssa.Call, index int, t typeutil.Integer) (stamp.IntegerStamp, dfa.Decision, bool) {
	callee := v.Call.StaticCallee()
	if callee == nil {
		return unrestricted(t, "the callee isn't known")
	}
	results := a.calleeResults(callee)
	if index >= len(results) {
		return unrestricted(t, "the callee's results aren't known")
	}
	r := results[index]
	if !r.IsTracked() || r.Stamp.Bits() != t.Bits {
		return unrestricted(t, "the callee's result isn't known")
	}
	return r.Stamp, dfa.Decision{Description: "the callee's results are known", Source: true}, true
}
