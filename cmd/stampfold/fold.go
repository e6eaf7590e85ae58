package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"honnef.co/go/stamps/stamp"
	"honnef.co/go/stamps/stamp/arith"
)

// An operand is either a constant or a stamp.
type operand struct {
	c       stamp.Constant
	s       stamp.Stamp
	isConst bool
}

func (o operand) stamp() stamp.Stamp {
	if o.isConst {
		return stamp.ForConstant(o.c)
	}
	return o.s
}

func (o operand) kind() stamp.Kind {
	if o.isConst {
		return o.c.Kind()
	}
	return o.s.Kind()
}

func (o operand) String() string {
	if o.isConst {
		return o.c.String()
	}
	return o.s.String()
}

func parseOperand(s string) (operand, error) {
	// Constants are written as kind:value, which stamps never contain.
	if strings.Contains(s, ":") || s == "void" {
		c, err := stamp.ParseConstant(s)
		if err != nil {
			return operand{}, err
		}
		return operand{c: c, isConst: true}, nil
	}
	st, err := stamp.Parse(s)
	if err != nil {
		return operand{}, err
	}
	return operand{s: st}, nil
}

func parseOperands(args []string) ([]operand, error) {
	out := make([]operand, len(args))
	for i, arg := range args {
		o, err := parseOperand(arg)
		if err != nil {
			return nil, fmt.Errorf("operand %d: %w", i+1, err)
		}
		out[i] = o
	}
	return out, nil
}

// result is the outcome of a fold.
type result struct {
	Op       string   `json:"op"`
	Operands []string `json:"operands"`
	// Result is empty if a constant fold produced no value.
	Result   string `json:"result"`
	Constant bool   `json:"constant"`
}

var errUsage = errors.New("usage: stampfold [-json] OP OPERAND... | meet A B | join A B | invert OP BITS STAMP")

// fold evaluates the command in args.
func fold(args []string) (res result, err error) {
	if len(args) == 0 {
		return result{}, errUsage
	}
	// Folding functions panic on operands of the wrong kind or width.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid operands: %v", r)
		}
	}()

	name, args := args[0], args[1:]
	switch name {
	case "meet", "join":
		return lattice(name, args)
	case "invert":
		return invert(args)
	}

	op, ok := arith.ParseOp(name)
	if !ok {
		return result{}, fmt.Errorf("unknown operation %q", name)
	}
	if op.Class() == arith.ClassIntegerConvert {
		return integerConvert(op, args)
	}

	ops, err := parseOperands(args)
	if err != nil {
		return result{}, err
	}
	if len(ops) == 0 {
		return result{}, fmt.Errorf("%s needs operands", op)
	}
	res = result{Op: op.String()}
	for _, o := range ops {
		res.Operands = append(res.Operands, o.String())
	}
	table, ok := arith.ForStamp(ops[0].stamp())
	if !ok {
		return result{}, fmt.Errorf("no operations on %s", ops[0].kind())
	}
	desc, ok := table.Lookup(op)
	if !ok {
		return result{}, fmt.Errorf("%s has no operation %s", table, op)
	}

	allConst := true
	for _, o := range ops {
		allConst = allConst && o.isConst
	}
	res.Constant = allConst

	var c stamp.Constant
	var s stamp.Stamp
	switch desc := desc.(type) {
	case arith.UnaryOp:
		if err := wantOperands(name, ops, 1); err != nil {
			return result{}, err
		}
		if allConst {
			c, ok = desc.FoldConstant(ops[0].c)
		} else {
			s = desc.FoldStamp(ops[0].stamp())
		}
	case arith.BinaryOp:
		if err := wantOperands(name, ops, 2); err != nil {
			return result{}, err
		}
		if allConst {
			c, ok = desc.FoldConstant(ops[0].c, ops[1].c)
		} else {
			s = desc.FoldStamp(ops[0].stamp(), ops[1].stamp())
		}
	case arith.ShiftOp:
		if err := wantOperands(name, ops, 2); err != nil {
			return result{}, err
		}
		if allConst {
			c, ok = desc.FoldConstant(ops[0].c, ops[1].c)
		} else {
			amount, isInt := ops[1].stamp().(stamp.IntegerStamp)
			if !isInt {
				return result{}, fmt.Errorf("shift amount %s isn't an integer", ops[1])
			}
			s = desc.FoldStamp(ops[0].stamp(), amount)
		}
	case arith.FloatConvertOp:
		if err := wantOperands(name, ops, 1); err != nil {
			return result{}, err
		}
		if allConst {
			c, ok = desc.FoldConstant(ops[0].c)
		} else {
			s = desc.FoldStamp(ops[0].stamp())
		}
	default:
		panic(fmt.Sprintf("unhandled operation %T", desc))
	}

	switch {
	case !allConst:
		res.Result = s.String()
	case ok:
		res.Result = c.String()
	}
	return res, nil
}

func wantOperands[T any](name string, ops []T, n int) error {
	if len(ops) != n {
		return fmt.Errorf("%s takes %d operands, got %d", name, n, len(ops))
	}
	return nil
}

func lattice(name string, args []string) (result, error) {
	ops, err := parseOperands(args)
	if err != nil {
		return result{}, err
	}
	if err := wantOperands(name, ops, 2); err != nil {
		return result{}, err
	}
	a, b := ops[0].stamp(), ops[1].stamp()
	res := result{Op: name, Operands: []string{a.String(), b.String()}}
	if !a.IsCompatible(b) {
		return result{}, fmt.Errorf("%s and %s are incompatible", a, b)
	}
	if name == "meet" {
		res.Result = a.Meet(b).String()
	} else {
		res.Result = a.Join(b).String()
	}
	return res, nil
}

// integerConvert handles 'ZeroExtend BITS OPERAND', which converts the
// operand to BITS bits.
func integerConvert(op arith.Op, args []string) (result, error) {
	if err := wantOperands(op.String(), args, 2); err != nil {
		return result{}, err
	}
	bits, err := strconv.Atoi(args[0])
	if err != nil {
		return result{}, fmt.Errorf("invalid width %q: %w", args[0], err)
	}
	o, err := parseOperand(args[1])
	if err != nil {
		return result{}, err
	}
	cv, _ := arith.IntegerOps.IntegerConvert(op)
	res := result{Op: op.String(), Operands: []string{args[0], o.String()}, Constant: o.isConst}
	if o.isConst {
		c, ok := cv.FoldConstant(o.c.Bits(), bits, o.c)
		if ok {
			res.Result = c.String()
		}
		return res, nil
	}
	res.Result = cv.FoldStamp(o.s.Kind().Bits(), bits, o.s).String()
	return res, nil
}

// invert handles 'invert OP BITS STAMP', which computes the inputs of
// BITS bits that OP maps into STAMP.
func invert(args []string) (result, error) {
	if err := wantOperands("invert", args, 3); err != nil {
		return result{}, err
	}
	op, ok := arith.ParseOp(args[0])
	if !ok {
		return result{}, fmt.Errorf("unknown operation %q", args[0])
	}
	cv, ok := arith.IntegerOps.IntegerConvert(op)
	if !ok {
		return result{}, fmt.Errorf("%s isn't an integer conversion", op)
	}
	bits, err := strconv.Atoi(args[1])
	if err != nil {
		return result{}, fmt.Errorf("invalid width %q: %w", args[1], err)
	}
	o, err := parseOperand(args[2])
	if err != nil {
		return result{}, err
	}
	s := o.stamp()
	inv, ok := cv.InvertStamp(bits, s.Kind().Bits(), s)
	if !ok {
		return result{}, fmt.Errorf("%s can't be inverted", op)
	}
	return result{Op: "invert " + op.String(), Operands: []string{args[1], s.String()}, Result: inv.String()}, nil
}
