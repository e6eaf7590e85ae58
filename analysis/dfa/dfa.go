// Package dfa provides types and functions for implementing data-flow analyses.
package dfa

import (
	"cmp"
	"fmt"
	"log"
	"slices"
	"sync"

	"golang.org/x/tools/go/ssa"
)

const debugging = false

func debugf(f string, args ...any) {
	if debugging {
		log.Printf(f, args...)
	}
}

// Join defines the [∨] operation for a [join-semilattice]. It must implement a commutative and associative binary operation
// that returns the least upper bound of two states from S.
//
// Code that calls Join functions is expected to handle the [⊥ and ⊤ elements], as well as implement idempotency. That is,
// the following properties will be enforced:
//
//   - x ∨ ⊥ = x
//   - x ∨ ⊤ = ⊤
//   - x ∨ x = x
//
// Simple table-based join functions can be created using [JoinTable].
//
// [∨]: https://en.wikipedia.org/wiki/Join_and_meet
// [join-semilattice]: https://en.wikipedia.org/wiki/Semilattice
// [⊥ and ⊤ elements]: https://en.wikipedia.org/wiki/Greatest_element_and_least_element#Top_and_bottom
type Join[S comparable] func(S, S) S

// Widen maps a state to a state at least as large that the analysis can
// reach in few steps. It is applied to values whose state keeps changing,
// to force termination on lattices of great height.
type Widen[S comparable] func(old, new S) S

// Mapping maps a single [ssa.Value] to an abstract state.
type Mapping[S comparable] struct {
	Value    ssa.Value
	State    S
	Decision Decision
}

// Decision describes how a mapping from an [ssa.Value] to an abstract state came to be.
// Decisions are provided by transfer functions when they create mappings.
type Decision struct {
	// The relevant values that the transfer function used to make the decision.
	Inputs []ssa.Value
	// A human-readable description of the decision.
	Description string
	// Whether this is the source of an abstract state, as opposed to a
	// state derived from the states of Inputs.
	Source bool
}

func (m Mapping[S]) String() string {
	return fmt.Sprintf("%s = %v", m.Value.Name(), m.State)
}

// M is a helper for constructing instances of [Mapping].
func M[S comparable](v ssa.Value, s S, d Decision) Mapping[S] {
	return Mapping[S]{Value: v, State: s, Decision: d}
}

// Ms is a helper for constructing slices of mappings.
//
// Example:
//
//	Ms(M(v1, d1, ...), M(v2, d2, ...))
func Ms[S comparable](ms ...Mapping[S]) []Mapping[S] {
	return ms
}

// Framework describes a monotone data-flow framework ⟨S, ∨, Transfer⟩ using a bounded join-semilattice ⟨S, ∨⟩ and a
// monotonic transfer function.
//
// Transfer implements the transfer function. Given an instruction, it should return zero or more mappings from SSA
// values to abstract values, i.e. values from the semilattice. Transfer must be monotonic. ϕ instructions are handled
// automatically and do not cause Transfer to be called.
//
// The set S is defined implicitly by the values returned by Join and Transfer and needn't be finite. In addition, it
// contains the elements ⊥ and ⊤ (Bottom and Top) with Join(x, ⊥) = x and Join(x, ⊤) = ⊤. The provided Join function is
// wrapped to handle these elements automatically. All SSA values start in the ⊥ state.
//
// If Widen is set, a value whose state changed more than WideningThreshold times has Widen applied to each further
// state. Lattices with infinite ascending chains need this to guarantee termination.
//
// Abstract states are associated with SSA values. As such, the analysis is sparse and favours the partitioned variable
// lattice (PVL) property.
type Framework[S comparable] struct {
	Join              Join[S]
	Transfer          func(*Instance[S], ssa.Instruction) []Mapping[S]
	Widen             Widen[S]
	WideningThreshold int
	Bottom            S
	Top               S
}

// Start returns a new instance of the framework. See also [Framework.Forward].
func (fw *Framework[S]) Start() *Instance[S] {
	if fw.Bottom == fw.Top {
		panic("framework's ⊥ and ⊤ are identical; did you forget to specify them?")
	}

	return &Instance[S]{
		Framework: fw,
		Mapping:   map[ssa.Value]Mapping[S]{},
		changes:   map[ssa.Value]int{},
	}
}

// Forward runs an intraprocedural forward data flow analysis, using an iterative fixed-point algorithm, given the
// functions specified in the framework. It combines [Framework.Start] and [Instance.Forward].
func (fw *Framework[S]) Forward(fn *ssa.Function) *Instance[S] {
	ins := fw.Start()
	ins.Forward(fn)
	return ins
}

// Instance is an instance of a data-flow analysis. It is created by [Framework.Forward].
type Instance[S comparable] struct {
	Framework *Framework[S]
	// Mapping is the result of the analysis. Consider using Instance.Value instead of accessing Mapping
	// directly, as it correctly returns ⊥ for missing values.
	Mapping map[ssa.Value]Mapping[S]

	// number of state changes per value
	changes map[ssa.Value]int
}

// Set maps v to the abstract value d. It does not apply any checks. This should only be used before calling [Instance.Forward], to set
// initial states of values.
func (ins *Instance[S]) Set(v ssa.Value, d S) {
	ins.Mapping[v] = Mapping[S]{Value: v, State: d}
}

// Value returns the abstract value for v. If none was set, it returns ⊥.
func (ins *Instance[S]) Value(v ssa.Value) S {
	m, ok := ins.Mapping[v]
	if ok {
		return m.State
	} else {
		return ins.Framework.Bottom
	}
}

// Decision returns the decision of the mapping for v, if any.
func (ins *Instance[S]) Decision(v ssa.Value) Decision {
	return ins.Mapping[v].Decision
}

func (ins *Instance[S]) widened(v ssa.Value) bool {
	return ins.Framework.Widen != nil && ins.changes[v] > ins.Framework.WideningThreshold
}

var dfsDebugMu sync.Mutex

func join[S comparable](fn Join[S], a, b, bottom, top S) S {
	switch {
	case a == top || b == top:
		return top
	case a == bottom:
		return b
	case b == bottom:
		return a
	case a == b:
		return a
	default:
		return fn(a, b)
	}
}

// Forward runs a forward data-flow analysis on fn.
func (ins *Instance[S]) Forward(fn *ssa.Function) {
	if debugging {
		dfsDebugMu.Lock()
		defer dfsDebugMu.Unlock()
	}

	debugf("Analyzing %s\n", fn)
	if ins.Mapping == nil {
		ins.Mapping = map[ssa.Value]Mapping[S]{}
	}
	if ins.changes == nil {
		ins.changes = map[ssa.Value]int{}
	}

	// The worklist is processed in block order so that results don't
	// depend on map iteration order, which matters once widening kicks
	// in.
	var order []ssa.Instruction
	index := map[ssa.Instruction]int{}
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			index[instr] = len(order)
			order = append(order, instr)
		}
	}
	pending := make([]bool, len(order))
	for i := range pending {
		pending[i] = true
	}
	next := 0
	remaining := len(order)
	for remaining > 0 {
		for !pending[next] {
			next = (next + 1) % len(order)
		}
		instr := order[next]
		pending[next] = false
		remaining--

		var ds []Mapping[S]
		if phi, ok := instr.(*ssa.Phi); ok {
			d := ins.Framework.Bottom
			for _, edge := range phi.Edges {
				a, b := d, ins.Value(edge)
				d = join(ins.Framework.Join, a, b, ins.Framework.Bottom, ins.Framework.Top)
				debugf("join(%v, %v) = %v", a, b, d)
			}
			ds = []Mapping[S]{{Value: phi, State: d, Decision: Decision{Inputs: phi.Edges, Description: "this variable merges the results of multiple branches"}}}
		} else {
			ds = ins.Framework.Transfer(ins, instr)
		}
		if len(ds) > 0 {
			if v, ok := instr.(ssa.Value); ok {
				debugf("transfer(%s = %s) = %v", v.Name(), instr, ds)
			} else {
				debugf("transfer(%s) = %v", instr, ds)
			}
		}
		for i, d := range ds {
			old := ins.Value(d.Value)
			dd := d.State
			if dd == old {
				continue
			}
			if j := join(ins.Framework.Join, old, dd, ins.Framework.Bottom, ins.Framework.Top); j != dd {
				if !ins.widened(d.Value) {
					panic(fmt.Sprintf("transfer function isn't monotonic; Transfer(%v)[%d] = %v; join(%v, %v) = %v", instr, i, dd, old, dd, j))
				}
				// A widened state may be ahead of the states it was
				// computed from.
				if j == old {
					continue
				}
				dd = j
			}
			ins.changes[d.Value]++
			if ins.widened(d.Value) {
				w := ins.Framework.Widen(old, dd)
				debugf("widen(%v, %v) = %v", old, dd, w)
				dd = w
			}
			ins.Mapping[d.Value] = Mapping[S]{Value: d.Value, State: dd, Decision: d.Decision}

			refs := d.Value.Referrers()
			if refs == nil {
				continue
			}
			for _, ref := range *refs {
				if j, ok := index[ref]; ok && !pending[j] {
					pending[j] = true
					remaining++
				}
			}
		}
		printMapping(fn, ins.Mapping)
	}
}

// Propagate is a helper for creating a [Mapping] that propagates the abstract state of src to dst.
// The desc parameter is used as the value of Decision.Description.
func (ins *Instance[S]) Propagate(dst, src ssa.Value, desc string) Mapping[S] {
	return M(dst, ins.Value(src), Decision{Inputs: []ssa.Value{src}, Description: desc})
}

func (ins *Instance[S]) Transform(dst ssa.Value, s S, src ssa.Value, desc string) Mapping[S] {
	return M(dst, s, Decision{Inputs: []ssa.Value{src}, Description: desc})
}

func printMapping[S any](fn *ssa.Function, m map[ssa.Value]S) {
	if !debugging {
		return
	}

	debugf("Mapping for %s:\n", fn)
	var keys []ssa.Value
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b ssa.Value) int {
		return cmp.Compare(a.Name(), b.Name())
	})
	for _, k := range keys {
		v := m[k]
		debugf("\t%v\n", v)
	}
}

// JoinTable returns a [Join] function based on the provided mapping.
// For missing pairs of values, the default value will be returned.
func JoinTable[S comparable](top S, m map[[2]S]S) Join[S] {
	return func(a, b S) S {
		if d, ok := m[[2]S{a, b}]; ok {
			return d
		} else if d, ok := m[[2]S{b, a}]; ok {
			return d
		} else {
			return top
		}
	}
}
