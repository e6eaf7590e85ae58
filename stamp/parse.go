package stamp

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"honnef.co/go/stamps/stamp/codeutil"
)

// ParseError describes a malformed stamp or constant.
type ParseError struct {
	Input  string
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %q at offset %d: %s", e.Input, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	errSyntax       = errors.New("invalid syntax")
	errInconsistent = errors.New("inconsistent stamp")
)

type scanner struct {
	in  string
	off int
}

func (sc *scanner) rest() string { return sc.in[sc.off:] }
func (sc *scanner) done() bool   { return sc.off == len(sc.in) }

func (sc *scanner) errorf(format string, args ...interface{}) error {
	return &ParseError{Input: sc.in, Offset: sc.off, Err: fmt.Errorf(format, args...)}
}

func (sc *scanner) fail(err error) error {
	return &ParseError{Input: sc.in, Offset: sc.off, Err: err}
}

func (sc *scanner) consume(prefix string) bool {
	if strings.HasPrefix(sc.rest(), prefix) {
		sc.off += len(prefix)
		return true
	}
	return false
}

// until returns the text up to, not including, the first occurrence of
// any byte in stop, or the rest of the input.
func (sc *scanner) until(stop string) string {
	i := strings.IndexAny(sc.rest(), stop)
	if i < 0 {
		i = len(sc.rest())
	}
	s := sc.rest()[:i]
	sc.off += i
	return s
}

// Parse parses the textual form of a stamp as produced by the String
// methods, for example "i32 [0 - 10] ⇈000000000000000f", "f64! [1.0]",
// "i8<empty>", "void" or "illegal".
//
// Parsed integer stamps are taken verbatim and must be consistent: both
// bounds must be members. Parsed float stamps are normalized like
// ForFloat.
func Parse(s string) (Stamp, error) {
	sc := &scanner{in: s}
	switch {
	case sc.consume("void"):
		if !sc.done() {
			return nil, sc.fail(errSyntax)
		}
		return VoidStamp{}, nil
	case sc.consume("illegal"):
		if !sc.done() {
			return nil, sc.fail(errSyntax)
		}
		return IllegalStamp{}, nil
	case sc.consume("i"):
		return parseInteger(sc)
	case sc.consume("f"):
		return parseFloat(sc)
	default:
		return nil, sc.fail(errSyntax)
	}
}

func parseWidth(sc *scanner) (int, error) {
	start := sc.off
	digits := sc.until(" <!")
	n, err := strconv.Atoi(digits)
	if err != nil {
		sc.off = start
		return 0, sc.fail(errSyntax)
	}
	return n, nil
}

func parseInteger(sc *scanner) (Stamp, error) {
	n, err := parseWidth(sc)
	if err != nil {
		return nil, err
	}
	if !codeutil.IsValidBits(n) {
		return nil, sc.errorf("invalid integer width %d", n)
	}
	if sc.consume("<empty>") {
		if !sc.done() {
			return nil, sc.fail(errSyntax)
		}
		return IntegerEmpty(n), nil
	}
	mask := codeutil.Mask(n)
	lower, upper := codeutil.MinValue(n), codeutil.MaxValue(n)
	down, up := uint64(0), mask
	if sc.consume(" [") {
		lo, err := parseInt(sc, n, " ]")
		if err != nil {
			return nil, err
		}
		hi := lo
		if sc.consume(" - ") {
			hi, err = parseInt(sc, n, "]")
			if err != nil {
				return nil, err
			}
		}
		if !sc.consume("]") {
			return nil, sc.fail(errSyntax)
		}
		lower, upper = lo, hi
	}
	if sc.consume(" ⇊") {
		down, err = parseMask(sc, mask)
		if err != nil {
			return nil, err
		}
	}
	if sc.consume(" ⇈") {
		up, err = parseMask(sc, mask)
		if err != nil {
			return nil, err
		}
	}
	if !sc.done() {
		return nil, sc.fail(errSyntax)
	}
	st := IntegerStamp{bits: uint8(n), lower: lower, upper: upper, downMask: down, upMask: up}
	if lower > upper || down&^up != 0 || !st.Contains(lower) || !st.Contains(upper) {
		return nil, sc.fail(errInconsistent)
	}
	return st, nil
}

func parseInt(sc *scanner, n int, stop string) (int64, error) {
	start := sc.off
	v, err := strconv.ParseInt(sc.until(stop), 10, n)
	if err != nil {
		sc.off = start
		return 0, sc.fail(err.(*strconv.NumError).Err)
	}
	return v, nil
}

func parseMask(sc *scanner, mask uint64) (uint64, error) {
	start := sc.off
	v, err := strconv.ParseUint(sc.until(" "), 16, 64)
	if err != nil {
		sc.off = start
		return 0, sc.fail(err.(*strconv.NumError).Err)
	}
	if v&^mask != 0 {
		sc.off = start
		return 0, sc.errorf("mask %016x exceeds width", v)
	}
	return v, nil
}

func parseFloat(sc *scanner) (Stamp, error) {
	n, err := parseWidth(sc)
	if err != nil {
		return nil, err
	}
	if n != 32 && n != 64 {
		return nil, sc.errorf("invalid float width %d", n)
	}
	if sc.consume("<empty>") {
		if !sc.done() {
			return nil, sc.fail(errSyntax)
		}
		return FloatEmpty(n), nil
	}
	nonNaN := sc.consume("!")
	lower, upper := math.Inf(-1), math.Inf(1)
	if sc.consume(" [") {
		lo, err := parseFloatBound(sc, n, " ]")
		if err != nil {
			return nil, err
		}
		hi := lo
		if sc.consume(" - ") {
			hi, err = parseFloatBound(sc, n, "]")
			if err != nil {
				return nil, err
			}
		}
		if !sc.consume("]") {
			return nil, sc.fail(errSyntax)
		}
		lower, upper = lo, hi
	}
	if !sc.done() {
		return nil, sc.fail(errSyntax)
	}
	if math.IsNaN(lower) != math.IsNaN(upper) || math.IsNaN(lower) && nonNaN || lower > upper {
		return nil, sc.fail(errInconsistent)
	}
	return ForFloat(n, lower, upper, nonNaN), nil
}

func parseFloatBound(sc *scanner, n int, stop string) (float64, error) {
	start := sc.off
	f, err := strconv.ParseFloat(sc.until(stop), n)
	if err != nil {
		sc.off = start
		return 0, sc.fail(err.(*strconv.NumError).Err)
	}
	return f, nil
}

// ParseConstant parses the textual form of a constant as produced by
// Constant.String, for example "i32:-3", "bool:true", "f64:1.5",
// "f32:NaN" or "void". Integer values may use any base prefix accepted
// by strconv.ParseInt.
func ParseConstant(s string) (Constant, error) {
	sc := &scanner{in: s}
	name := sc.until(":")
	k, ok := kindByName(name)
	if !ok {
		sc.off = 0
		return Constant{}, sc.errorf("unknown kind %q", name)
	}
	if k == KindVoid {
		if !sc.done() {
			return Constant{}, sc.fail(errSyntax)
		}
		return Void, nil
	}
	if !sc.consume(":") || k == KindIllegal {
		return Constant{}, sc.fail(errSyntax)
	}
	text := sc.rest()
	switch {
	case k == KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Constant{}, sc.fail(err.(*strconv.NumError).Err)
		}
		return Bool(b), nil
	case k.IsInteger():
		v, err := strconv.ParseInt(text, 0, k.Bits())
		if err != nil {
			return Constant{}, sc.fail(err.(*strconv.NumError).Err)
		}
		return Int(k.Bits(), v), nil
	default:
		f, err := strconv.ParseFloat(text, k.Bits())
		if err != nil {
			return Constant{}, sc.fail(err.(*strconv.NumError).Err)
		}
		return Float(k.Bits(), f), nil
	}
}

func kindByName(name string) (Kind, bool) {
	for k, s := range kindNames {
		if s == name {
			return Kind(k), true
		}
	}
	return 0, false
}
