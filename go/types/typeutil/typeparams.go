package typeutil

import (
	"go/types"

	"golang.org/x/exp/typeparams"
)

// All reports whether fn returns true for all terms. An empty list of
// terms, which describes an unconstrained type parameter, is passed to
// fn as a single nil term.
func All(terms []*typeparams.Term, fn func(*typeparams.Term) bool) bool {
	if len(terms) == 0 {
		return fn(nil)
	}
	for _, term := range terms {
		if !fn(term) {
			return false
		}
	}
	return true
}

// Terms returns the normalized terms of t's type set. Types that aren't
// type parameters have a single term.
func Terms(t types.Type) ([]*typeparams.Term, bool) {
	tp, ok := t.(*typeparams.TypeParam)
	if !ok {
		return []*typeparams.Term{typeparams.NewTerm(false, t)}, true
	}
	terms, err := typeparams.NormalTerms(tp)
	if err != nil {
		return nil, false
	}
	return terms, true
}

// Integer describes how values of an integer type are represented.
type Integer struct {
	Bits     int
	Unsigned bool
}

// IntegerOf returns the representation of t's values. Type parameters
// qualify only if every type in their type set has the same width and
// signedness. Sizes determines the width of int, uint and uintptr; nil
// sizes means 64 bits.
func IntegerOf(t types.Type, sizes types.Sizes) (Integer, bool) {
	terms, ok := Terms(t)
	if !ok {
		return Integer{}, false
	}
	var out Integer
	first := true
	ok = All(terms, func(term *typeparams.Term) bool {
		if term == nil {
			return false
		}
		basic, ok := term.Type().Underlying().(*types.Basic)
		if !ok || basic.Info()&types.IsInteger == 0 {
			return false
		}
		in := Integer{Bits: basicBits(basic, sizes), Unsigned: basic.Info()&types.IsUnsigned != 0}
		if first {
			out, first = in, false
			return true
		}
		return in == out
	})
	if !ok {
		return Integer{}, false
	}
	return out, true
}

func basicBits(basic *types.Basic, sizes types.Sizes) int {
	switch basic.Kind() {
	case types.Int8, types.Uint8:
		return 8
	case types.Int16, types.Uint16:
		return 16
	case types.Int32, types.Uint32:
		return 32
	case types.Int64, types.Uint64:
		return 64
	case types.UntypedInt, types.UntypedRune:
		return 64
	}
	if sizes == nil {
		return 64
	}
	return int(sizes.Sizeof(basic)) * 8
}

// IsBoolean reports whether all types in t's type set are booleans.
func IsBoolean(t types.Type) bool {
	terms, ok := Terms(t)
	if !ok {
		return false
	}
	return All(terms, func(term *typeparams.Term) bool {
		if term == nil {
			return false
		}
		basic, ok := term.Type().Underlying().(*types.Basic)
		return ok && basic.Info()&types.IsBoolean != 0
	})
}
