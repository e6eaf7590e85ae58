// Package stamp implements a numeric abstract domain for compiler IRs.
//
// A stamp describes the set of values a typed quantity may hold at run
// time. Integer stamps combine a signed range with two bit masks: the
// bits that are set in every value (the down mask) and the bits that may
// be set in some value (the up mask). Float stamps combine a range with
// a flag recording whether NaN is excluded.
//
// Stamps form a lattice. Meet computes the union of two stamps and is
// used where control flow merges; Join computes their intersection and
// is used where a condition narrows a value. Unrestricted stamps contain
// every value of their kind, empty stamps contain none.
//
// Stamps are immutable values and safe for concurrent use.
package stamp

import "fmt"

type Stamp interface {
	// Kind returns the primitive kind of values described by the stamp.
	Kind() Kind
	// Unrestricted returns the stamp of the same kind and width that
	// contains all values.
	Unrestricted() Stamp
	// Empty returns the stamp of the same kind and width that contains
	// no values.
	Empty() Stamp
	// Meet returns the least upper bound of the receiver and other.
	Meet(other Stamp) Stamp
	// Join returns the greatest lower bound of the receiver and other.
	Join(other Stamp) Stamp
	// HasValues reports whether the stamp describes at least one value.
	HasValues() bool
	// IsEmpty reports whether the stamp describes no values.
	IsEmpty() bool
	// IsUnrestricted reports whether the stamp describes every value of
	// its kind and width.
	IsUnrestricted() bool
	// IsCompatible reports whether the receiver and other describe
	// values of the same kind and width, and may thus be combined.
	IsCompatible(other Stamp) bool
	IsCompatibleConstant(c Constant) bool
	// AsConstant returns the only value described by the stamp, if
	// there is exactly one.
	AsConstant() (Constant, bool)
	// Equal reports whether the receiver and other are structurally
	// identical.
	Equal(other Stamp) bool
	String() string
}

var (
	_ Stamp = IntegerStamp{}
	_ Stamp = FloatStamp{}
	_ Stamp = VoidStamp{}
	_ Stamp = IllegalStamp{}
)

func incompatible(a, b Stamp) string {
	return fmt.Sprintf("incompatible stamps %s and %s", a, b)
}

// VoidStamp is the stamp of values that carry no data.
type VoidStamp struct{}

func (VoidStamp) Kind() Kind             { return KindVoid }
func (VoidStamp) Unrestricted() Stamp    { return VoidStamp{} }
func (VoidStamp) Empty() Stamp           { return IllegalStamp{} }
func (VoidStamp) HasValues() bool        { return true }
func (VoidStamp) IsEmpty() bool          { return false }
func (VoidStamp) IsUnrestricted() bool   { return true }
func (VoidStamp) String() string         { return "void" }
func (VoidStamp) Equal(other Stamp) bool { return other == VoidStamp{} }

func (s VoidStamp) Meet(other Stamp) Stamp {
	switch other.(type) {
	case VoidStamp:
		return s
	case IllegalStamp:
		return s
	default:
		panic(incompatible(s, other))
	}
}

func (s VoidStamp) Join(other Stamp) Stamp {
	switch other.(type) {
	case VoidStamp:
		return s
	case IllegalStamp:
		return other
	default:
		panic(incompatible(s, other))
	}
}

func (VoidStamp) IsCompatible(other Stamp) bool {
	_, ok := other.(VoidStamp)
	return ok
}

func (VoidStamp) IsCompatibleConstant(c Constant) bool { return c.Kind() == KindVoid }
func (VoidStamp) AsConstant() (Constant, bool)         { return Void, true }

// IllegalStamp is the stamp of values that cannot exist. It is the
// empty stamp of every kind without a more specific representation,
// and is compatible with all stamps.
type IllegalStamp struct{}

func (IllegalStamp) Kind() Kind                         { return KindIllegal }
func (IllegalStamp) Unrestricted() Stamp                { return IllegalStamp{} }
func (IllegalStamp) Empty() Stamp                       { return IllegalStamp{} }
func (IllegalStamp) Meet(other Stamp) Stamp             { return other }
func (s IllegalStamp) Join(other Stamp) Stamp           { return s }
func (IllegalStamp) HasValues() bool                    { return false }
func (IllegalStamp) IsEmpty() bool                      { return true }
func (IllegalStamp) IsUnrestricted() bool               { return false }
func (IllegalStamp) IsCompatible(Stamp) bool            { return true }
func (IllegalStamp) IsCompatibleConstant(Constant) bool { return false }
func (IllegalStamp) AsConstant() (Constant, bool)       { return Constant{}, false }
func (IllegalStamp) String() string                     { return "illegal" }
func (IllegalStamp) Equal(other Stamp) bool             { return other == IllegalStamp{} }
