// Package stamps computes integer stamps for the SSA values of a
// package.
//
// The stamp of a value is a range and a pair of bit masks that contain
// every value it can take at run time. Stamps are computed for values of
// integer and boolean types by a data-flow analysis over each function;
// the stamps of function results are exported as facts so that callers
// in other packages can use them.
package stamps

import (
	"fmt"
	"go/types"
	"reflect"
	"strings"

	"honnef.co/go/stamps/analysis/dfa"
	"honnef.co/go/stamps/config"
	"honnef.co/go/stamps/go/types/typeutil"
	"honnef.co/go/stamps/stamp"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/buildssa"
	"golang.org/x/tools/go/ssa"
)

// Results is a fact recording the stamps of a function's results. An
// empty string stands for a result that isn't known.
type Results struct {
	Stamps []string
}

func (*Results) AFact() {}

func (r *Results) String() string {
	parts := make([]string, len(r.Stamps))
	for i, s := range r.Stamps {
		if s == "" {
			parts[i] = "?"
		} else {
			parts[i] = s
		}
	}
	return fmt.Sprintf("results(%s)", strings.Join(parts, ", "))
}

var Analyzer = &analysis.Analyzer{
	Name:       "stamps",
	Doc:        "computes integer stamps of SSA values",
	Run:        run,
	Requires:   []*analysis.Analyzer{buildssa.Analyzer, config.Analyzer},
	FactTypes:  []analysis.Fact{(*Results)(nil)},
	ResultType: reflect.TypeOf((*Stamps)(nil)),
}

// Options controls the analysis.
type Options struct {
	// The number of times the stamp of a value may change before it is
	// widened to the unrestricted stamp.
	WideningThreshold int
	// Whether values of unsigned integer types are tracked.
	TrackUnsigned bool
	// Sizes determines the width of int, uint and uintptr. Nil sizes
	// means 64 bits.
	Sizes types.Sizes
}

func run(pass *analysis.Pass) (interface{}, error) {
	cfg := config.For(pass)
	opts := Options{
		WideningThreshold: cfg.Analysis.WideningThreshold,
		TrackUnsigned:     cfg.Analysis.TrackUnsigned,
		Sizes:             pass.TypesSizes,
	}
	fns := pass.ResultOf[buildssa.Analyzer].(*buildssa.SSA).SrcFuncs
	a := newAnalyzer(pass, fns, opts)
	for _, fn := range fns {
		a.analyze(fn)
	}
	for _, fn := range fns {
		a.export(fn)
	}
	return &Stamps{a: a}, nil
}

// Analyze computes the stamps of the values in fns without exporting or
// importing facts.
func Analyze(fns []*ssa.Function, opts Options) *Stamps {
	a := newAnalyzer(nil, fns, opts)
	for _, fn := range fns {
		a.analyze(fn)
	}
	return &Stamps{a: a}
}

// Stamps is the result of the analysis.
type Stamps struct {
	a *analyzer
}

// State returns the abstract state of v. Values of functions that
// weren't analyzed are ⊤.
func (s *Stamps) State(v ssa.Value) State {
	var ins *dfa.Instance[State]
	if fn := v.Parent(); fn != nil {
		f, ok := s.a.funcs[fn]
		if !ok || !f.done {
			return Top
		}
		ins = f.ins
	}
	return s.a.operand(ins, v)
}

// Stamp returns the stamp of v, if v is of a tracked type.
func (s *Stamps) Stamp(v ssa.Value) (stamp.IntegerStamp, bool) {
	st := s.State(v)
	return st.Stamp, st.IsTracked()
}

// Results returns the states of fn's results, joined over all of its
// return instructions.
func (s *Stamps) Results(fn *ssa.Function) []State {
	f, ok := s.a.funcs[fn]
	if !ok || !f.done {
		return nil
	}
	return f.results
}

// Compare returns the outcome of the comparison b, if it is the same for
// all values its operands can take. Unreachable comparisons have an
// unknown outcome.
func (s *Stamps) Compare(b *ssa.BinOp) Outcome {
	t, ok := s.a.integer(b.X.Type())
	if !ok {
		return Unknown
	}
	x, y := s.State(b.X), s.State(b.Y)
	if !x.IsTracked() || !y.IsTracked() {
		return Unknown
	}
	return Compare(b.Op, x.Stamp, y.Stamp, t.Unsigned)
}

type function struct {
	ins     *dfa.Instance[State]
	results []State
	done    bool
}

type analyzer struct {
	pass  *analysis.Pass
	opts  Options
	fw    *dfa.Framework[State]
	local map[*ssa.Function]bool
	funcs map[*ssa.Function]*function
}

func newAnalyzer(pass *analysis.Pass, fns []*ssa.Function, opts Options) *analyzer {
	a := &analyzer{
		pass:  pass,
		opts:  opts,
		local: map[*ssa.Function]bool{},
		funcs: map[*ssa.Function]*function{},
	}
	for _, fn := range fns {
		a.local[fn] = true
	}
	a.fw = &dfa.Framework[State]{
		Join:              join,
		Transfer:          a.transfer,
		Widen:             widen,
		WideningThreshold: opts.WideningThreshold,
		Bottom:            Bottom,
		Top:               Top,
	}
	return a
}

// analyze computes the states of fn's values. Callees in the same
// package are analyzed first so that their results are available;
// recursive calls see unknown results.
func (a *analyzer) analyze(fn *ssa.Function) {
	if _, ok := a.funcs[fn]; ok {
		return
	}
	f := &function{}
	a.funcs[fn] = f
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			call, ok := instr.(ssa.CallInstruction)
			if !ok {
				continue
			}
			if callee := call.Common().StaticCallee(); callee != nil && a.local[callee] {
				a.analyze(callee)
			}
		}
	}
	f.ins = a.fw.Start()
	// Phis read their edges' states directly, so operands that aren't
	// instructions need states before the analysis starts.
	var rands []*ssa.Value
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			rands = instr.Operands(rands[:0])
			for _, rand := range rands {
				if rand == nil || *rand == nil {
					continue
				}
				if _, ok := (*rand).(ssa.Instruction); !ok {
					f.ins.Set(*rand, a.operand(nil, *rand))
				}
			}
		}
	}
	f.ins.Forward(fn)
	f.results = a.results(fn, f.ins)
	f.done = true
}

func (a *analyzer) results(fn *ssa.Function, ins *dfa.Instance[State]) []State {
	out := make([]State, fn.Signature.Results().Len())
	for _, b := range fn.Blocks {
		if len(b.Instrs) == 0 {
			continue
		}
		ret, ok := b.Instrs[len(b.Instrs)-1].(*ssa.Return)
		if !ok {
			continue
		}
		for i, r := range ret.Results {
			out[i] = union(out[i], a.operand(ins, r))
		}
	}
	return out
}

// export records the results of fn as a fact, if any of them is known.
func (a *analyzer) export(fn *ssa.Function) {
	obj := fn.Object()
	if a.pass == nil || obj == nil || obj.Pkg() != a.pass.Pkg {
		return
	}
	f := a.funcs[fn]
	fact := &Results{Stamps: make([]string, len(f.results))}
	known := false
	for i, r := range f.results {
		if r.IsTracked() && !r.Stamp.IsUnrestricted() {
			fact.Stamps[i] = r.Stamp.String()
			known = true
		}
	}
	if known {
		a.pass.ExportObjectFact(obj, fact)
	}
}

// calleeResults returns the states of the results of a call to callee.
// It returns nil if they aren't known.
func (a *analyzer) calleeResults(callee *ssa.Function) []State {
	if f, ok := a.funcs[callee]; ok {
		if !f.done {
			// recursion
			return nil
		}
		return f.results
	}
	obj := callee.Object()
	if a.pass == nil || obj == nil {
		return nil
	}
	var fact Results
	if !a.pass.ImportObjectFact(obj, &fact) {
		return nil
	}
	results := callee.Signature.Results()
	if results.Len() != len(fact.Stamps) {
		return nil
	}
	out := make([]State, len(fact.Stamps))
	for i, str := range fact.Stamps {
		out[i] = a.unknown(results.At(i).Type())
		if str == "" {
			continue
		}
		s, err := stamp.Parse(str)
		if err != nil {
			continue
		}
		is, ok := s.(stamp.IntegerStamp)
		if t, tracked := a.integer(results.At(i).Type()); ok && tracked && is.Bits() == t.Bits {
			out[i] = Of(is)
		}
	}
	return out
}

// integer returns the representation of values of type t, if they are
// tracked. Booleans are 1-bit integers.
func (a *analyzer) integer(t types.Type) (typeutil.Integer, bool) {
	if typeutil.IsBoolean(t) {
		return typeutil.Integer{Bits: 1}, true
	}
	in, ok := typeutil.IntegerOf(t, a.opts.Sizes)
	if !ok || (in.Unsigned && !a.opts.TrackUnsigned) {
		return typeutil.Integer{}, false
	}
	return in, true
}

// unknown returns the state of a value of type t about which nothing is
// known.
func (a *analyzer) unknown(t types.Type) State {
	in, ok := a.integer(t)
	if !ok {
		return Top
	}
	return Of(stamp.IntegerUnrestricted(in.Bits))
}
