package stamps

import "honnef.co/go/stamps/stamp"

type kind uint8

const (
	bottom kind = iota
	tracked
	top
)

// State is the abstract state of an SSA value. Values of integer and
// boolean types have tracked states; the states of other values are ⊤.
type State struct {
	Stamp stamp.IntegerStamp
	kind  kind
}

var (
	Bottom = State{kind: bottom}
	Top    = State{kind: top}
)

// Of returns the tracked state with stamp s.
func Of(s stamp.IntegerStamp) State { return State{Stamp: s, kind: tracked} }

func (s State) IsTracked() bool { return s.kind == tracked }

func (s State) String() string {
	switch s.kind {
	case bottom:
		return "⊥"
	case top:
		return "⊤"
	default:
		return s.Stamp.String()
	}
}

// join returns the least upper bound of two tracked states. The stamp
// lattice orders stamps the other way around, so its meet is our join.
func join(a, b State) State {
	if a.Stamp.Bits() != b.Stamp.Bits() {
		return Top
	}
	return Of(a.Stamp.MeetInteger(b.Stamp))
}

func widen(old, new State) State {
	if !new.IsTracked() {
		return new
	}
	return Of(stamp.IntegerUnrestricted(new.Stamp.Bits()))
}

// union is like join but also handles ⊥ and ⊤.
func union(a, b State) State {
	switch {
	case a.kind == top || b.kind == top:
		return Top
	case a.kind == bottom:
		return b
	case b.kind == bottom:
		return a
	default:
		return join(a, b)
	}
}
